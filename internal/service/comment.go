package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/policy"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/BloggingApp/blog-service/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type commentService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	validate *validation.Validator
	cache    *cache
	cascade  *cascadeManager
	maxLimit int
}

func newCommentService(
	logger *zap.Logger,
	repo *repository.Repository,
	validate *validation.Validator,
	cache *cache,
	cascade *cascadeManager,
	maxLimit int,
) Comment {
	return &commentService{
		logger:   logger,
		repo:     repo,
		validate: validate,
		cache:    cache,
		cascade:  cascade,
		maxLimit: maxLimit,
	}
}

func (s *commentService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error) {
	input.Content = strings.TrimSpace(input.Content)
	input.Post = strings.TrimSpace(input.Post)

	if fields := s.validate.Validate(input); fields != nil {
		return nil, newValidationError(fields)
	}

	postID, err := uuid.Parse(input.Post)
	if err != nil {
		return nil, newValidationError(map[string]string{"post": "must be a valid UUID"})
	}

	if _, err := s.repo.Store.Post.FindByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s): %s", postID.String(), err.Error())
		return nil, ErrInternal
	}

	id, err := uuid.NewV7()
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate comment id: %s", err.Error())
		return nil, ErrInternal
	}

	createdComment, err := s.repo.Store.Comment.Create(ctx, model.Comment{
		ID:       id,
		PostID:   postID,
		AuthorID: authorID,
		Content:  input.Content,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) comment: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	if err := s.cascade.OnCommentCreated(ctx, createdComment); err != nil {
		// The post vanished between the lookup and the push; do not leave an orphan.
		if delErr := s.repo.Store.Comment.Delete(ctx, createdComment.ID); delErr != nil {
			s.logger.Sugar().Errorf("failed to remove orphan comment(%s): %s", createdComment.ID.String(), delErr.Error())
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to register comment(%s) on post(%s): %s", createdComment.ID.String(), postID.String(), err.Error())
		return nil, ErrInternal
	}

	s.cache.invalidate(ctx, redisrepo.PostKey(postID))

	return createdComment, nil
}

func (s *commentService) ListByPost(ctx context.Context, postID uuid.UUID, query dto.PageQuery) (*paging.Result[*model.FullComment], error) {
	req, fields := paging.CommentFields.Parse(paging.Query(query), s.maxLimit)
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	comments, total, err := s.repo.Store.Comment.Paginate(ctx, postID, req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to paginate post(%s) comments: %s", postID.String(), err.Error())
		return nil, ErrInternal
	}

	return paging.NewResult(comments, total, req), nil
}

// findOwned resolves a comment the actor may mutate. A comment owned by someone else is
// reported exactly like a missing one.
func (s *commentService) findOwned(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*model.Comment, error) {
	comment, err := s.repo.Store.Comment.FindOwned(ctx, id, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to find comment(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if policy.Authorize(actorID, comment) == policy.Deny {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, input dto.UpdateCommentRequest) (*model.Comment, error) {
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		input.Content = &content
	}

	if fields := s.validate.Validate(input); fields != nil {
		return nil, newValidationError(fields)
	}

	if _, err := s.findOwned(ctx, actorID, id); err != nil {
		return nil, err
	}

	updatedComment, err := s.repo.Store.Comment.Update(ctx, id, model.CommentUpdate{Content: input.Content})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to update comment(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	s.cache.invalidate(ctx, redisrepo.PostKey(updatedComment.PostID))

	return updatedComment, nil
}

func (s *commentService) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	comment, err := s.findOwned(ctx, actorID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Store.Comment.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to delete comment(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	if err := s.cascade.OnCommentDeleted(ctx, comment); err != nil {
		s.logger.Sugar().Errorf("failed to unregister comment(%s) from post(%s): %s", id.String(), comment.PostID.String(), err.Error())
		return ErrInternal
	}

	s.cache.invalidate(ctx, redisrepo.PostKey(comment.PostID))

	return nil
}
