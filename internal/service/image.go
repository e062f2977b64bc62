package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	maxProfilePictureBytes = 2 << 20
	maxProfilePictureSide  = 4096
	profilePictureSide     = 256
)

var profilePictureTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// squareProfilePicture checks data against the profile picture constraints and returns
// the center square of the image scaled to 256x256, PNG encoded.
func squareProfilePicture(data []byte) ([]byte, error) {
	if len(data) > maxProfilePictureBytes {
		return nil, newValidationError(map[string]string{"profile_picture": "must not exceed 2MB"})
	}
	if !profilePictureTypes[http.DetectContentType(data)] {
		return nil, newValidationError(map[string]string{"profile_picture": "must be a JPEG, PNG or WebP image"})
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, newValidationError(map[string]string{"profile_picture": "is not a readable image"})
	}
	if cfg.Width > maxProfilePictureSide || cfg.Height > maxProfilePictureSide {
		return nil, newValidationError(map[string]string{
			"profile_picture": fmt.Sprintf("must not exceed %dx%d pixels", maxProfilePictureSide, maxProfilePictureSide),
		})
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, newValidationError(map[string]string{"profile_picture": "is not a readable image"})
	}

	dst := image.NewRGBA(image.Rect(0, 0, profilePictureSide, profilePictureSide))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, centerSquare(src.Bounds()), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode profile picture: %w", err)
	}
	return buf.Bytes(), nil
}

func centerSquare(b image.Rectangle) image.Rectangle {
	side := min(b.Dx(), b.Dy())
	x := b.Min.X + (b.Dx()-side)/2
	y := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}
