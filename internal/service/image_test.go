package service

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareProfilePicture(t *testing.T) {
	for _, size := range [][2]int{{300, 200}, {120, 480}, {256, 256}, {10, 10}} {
		out, err := squareProfilePicture(pngBytes(t, size[0], size[1]))
		require.NoError(t, err)

		img, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, image.Rect(0, 0, 256, 256), img.Bounds())
	}
}

func TestSquareProfilePicture_Rejects(t *testing.T) {
	tests := map[string][]byte{
		"text":      []byte("hello, not an image"),
		"too large": append(pngBytes(t, 8, 8), make([]byte, maxProfilePictureBytes)...),
		"gif":       []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"),
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := squareProfilePicture(data)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, "profile_picture")
		})
	}
}

func TestCenterSquare(t *testing.T) {
	assert.Equal(t, image.Rect(50, 0, 250, 200), centerSquare(image.Rect(0, 0, 300, 200)))
	assert.Equal(t, image.Rect(0, 10, 100, 110), centerSquare(image.Rect(0, 0, 100, 120)))
}

func TestSquareProfilePicture_RejectsOversizedDimensions(t *testing.T) {
	for _, size := range [][2]int{{maxProfilePictureSide + 1, 2}, {2, maxProfilePictureSide + 1}} {
		data := pngBytes(t, size[0], size[1])
		require.Less(t, len(data), maxProfilePictureBytes)

		_, err := squareProfilePicture(data)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "must not exceed 4096x4096 pixels", validationErr.Fields["profile_picture"])
	}

	_, err := squareProfilePicture(pngBytes(t, maxProfilePictureSide, 1))
	assert.NoError(t, err)
}
