package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/BloggingApp/blog-service/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	validate *validation.Validator
	cache    *cache
	media    Media
}

func newUserService(logger *zap.Logger, repo *repository.Repository, validate *validation.Validator, cache *cache, media Media) User {
	return &userService{
		logger:   logger,
		repo:     repo,
		validate: validate,
		cache:    cache,
		media:    media,
	}
}

func (s *userService) Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if fields := s.validate.Validate(input); fields != nil {
		return nil, newValidationError(fields)
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate user id: %s", err.Error())
		return nil, ErrInternal
	}

	user, err := s.repo.Store.User.Create(ctx, model.User{
		ID:           id,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		s.logger.Sugar().Errorf("failed to create user(%s): %s", input.Email, err.Error())
		return nil, ErrInternal
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, input dto.LoginRequest) (*model.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if fields := s.validate.Validate(input); fields != nil {
		return nil, newValidationError(fields)
	}

	user, err := s.repo.Store.User.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Sugar().Errorf("failed to find user by email(%s): %s", input.Email, err.Error())
		return nil, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) FindProfile(ctx context.Context, id uuid.UUID) (*model.UserProfile, error) {
	key := redisrepo.UserProfileKey(id)

	cachedProfile, err := getCached[model.UserProfile](s.cache, ctx, key)
	if err != nil {
		return nil, err
	}
	if cachedProfile != nil {
		return cachedProfile, nil
	}

	user, err := s.repo.Store.User.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	posts, err := s.repo.Store.Post.FindAuthorPosts(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) posts: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	profile := &model.UserProfile{User: *user, Posts: posts}
	if err := s.cache.set(ctx, key, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, input dto.UpdateProfileRequest) (*model.User, error) {
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		input.Username = &username
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		input.Email = &email
	}

	if fields := s.validate.Validate(input); fields != nil {
		return nil, newValidationError(fields)
	}

	current, err := s.repo.Store.User.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	update := model.UserUpdate{
		Username: input.Username,
		Email:    input.Email,
	}

	if input.Password != nil {
		hash, err := s.hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		passwordHash := string(hash)
		update.PasswordHash = &passwordHash
	}

	if input.ProfilePicture != nil {
		picture, err := s.uploadProfilePicture(ctx, input)
		if err != nil {
			return nil, err
		}
		update.ProfilePicture = picture
	}

	user, err := s.repo.Store.User.Update(ctx, id, update)
	if err != nil {
		if update.ProfilePicture != nil {
			s.deletePicture(ctx, update.ProfilePicture)
		}
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to update user(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if update.ProfilePicture != nil && current.ProfilePicture != nil {
		s.deletePicture(ctx, current.ProfilePicture)
	}

	s.invalidateAuthor(ctx, id)

	return user, nil
}

func (s *userService) uploadProfilePicture(ctx context.Context, input dto.UpdateProfileRequest) (*model.Image, error) {
	if input.ProfilePicture.Size > maxProfilePictureBytes {
		return nil, newValidationError(map[string]string{"profile_picture": "must not exceed 2MB"})
	}

	file, err := input.ProfilePicture.Open()
	if err != nil {
		s.logger.Sugar().Errorf("failed to open file: %s", err.Error())
		return nil, ErrInternal
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProfilePictureBytes+1))
	if err != nil {
		s.logger.Sugar().Errorf("failed to read file: %s", err.Error())
		return nil, ErrInternal
	}

	squared, err := squareProfilePicture(data)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		s.logger.Sugar().Errorf("failed to process profile picture: %s", err.Error())
		return nil, ErrInternal
	}

	if s.media == nil {
		return nil, ErrMediaNotConfigured
	}
	return s.media.Upload(ctx, "profile.png", squared)
}

func (s *userService) deletePicture(ctx context.Context, picture *model.Image) {
	if s.media == nil || picture.PublicID == "" {
		return
	}
	if err := s.media.Delete(ctx, picture.PublicID); err != nil {
		s.logger.Sugar().Errorf("failed to delete picture(%s) from media host: %s", picture.PublicID, err.Error())
	}
}

// invalidateAuthor drops the cached profile and every cached post that embeds the
// author projection of id.
func (s *userService) invalidateAuthor(ctx context.Context, id uuid.UUID) {
	keys := []string{redisrepo.UserProfileKey(id)}

	posts, err := s.repo.Store.Post.FindAuthorPosts(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) posts for cache invalidation: %s", id.String(), err.Error())
	}
	for _, post := range posts {
		keys = append(keys, redisrepo.PostKey(post.ID))
	}

	s.cache.invalidate(ctx, keys...)
}

func duplicateError(err error) *DuplicateError {
	var dupErr *store.DuplicateKeyError
	if errors.As(err, &dupErr) {
		return &DuplicateError{Field: dupErr.Field}
	}
	return nil
}

// hashPassword rejects passwords bcrypt cannot hash whole. The tag only bounds runes,
// so multi-byte passwords can still exceed 72 bytes.
func (s *userService) hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, newValidationError(map[string]string{"password": "must not exceed 72 bytes"})
		}
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, ErrInternal
	}
	return hash, nil
}
