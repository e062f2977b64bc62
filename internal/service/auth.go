package service

import (
	"time"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = 7 * 24 * time.Hour

type authService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newAuthService(cfg config.AuthConfig) Auth {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &authService{
		secret: cfg.Secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *authService) IssueToken(userID uuid.UUID) (string, error) {
	now := s.now()
	token, err := utils.EncodeJWT(jwt.MapClaims{
		"id":  userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}, s.secret)
	if err != nil {
		return "", ErrInternal
	}
	return token, nil
}

func (s *authService) ParseToken(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrNotAuthorized
	}

	claims, err := utils.DecodeJWT(token, s.secret)
	if err != nil {
		return uuid.Nil, ErrNotAuthorized
	}

	idString, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, ErrNotAuthorized
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return uuid.Nil, ErrNotAuthorized
	}

	return id, nil
}
