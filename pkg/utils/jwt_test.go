package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestEncodeDecodeJWT(t *testing.T) {
	now := time.Now()
	token, err := EncodeJWT(jwt.MapClaims{
		"id":  "0190b6d2-3c4e-7a00-8000-000000000001",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}, secret)
	require.NoError(t, err)

	claims, err := DecodeJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "0190b6d2-3c4e-7a00-8000-000000000001", claims["id"])
}

func TestDecodeJWT_Rejects(t *testing.T) {
	now := time.Now()
	valid := jwt.MapClaims{"id": "x", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix()}

	wrongSecret, err := EncodeJWT(valid, []byte("other"))
	require.NoError(t, err)

	expired, err := EncodeJWT(jwt.MapClaims{"id": "x", "exp": now.Add(-time.Minute).Unix()}, secret)
	require.NoError(t, err)

	noExpiry, err := EncodeJWT(jwt.MapClaims{"id": "x"}, secret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, valid).SignedString(secret)
	require.NoError(t, err)

	tests := map[string]string{
		"wrong secret":   wrongSecret,
		"expired":        expired,
		"missing expiry": noExpiry,
		"other method":   hs512,
		"garbage":        "not.a.token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJWT(token, secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
