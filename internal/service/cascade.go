package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"go.uber.org/zap"
)

// cascadeManager keeps post.comments in step with the comments collection and removes
// the comments of a deleted post.
type cascadeManager struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newCascadeManager(logger *zap.Logger, repo *repository.Repository) *cascadeManager {
	return &cascadeManager{
		logger: logger,
		repo:   repo,
	}
}

// OnCommentCreated registers the comment on its post. Repeating it for the same comment
// leaves a single entry.
func (m *cascadeManager) OnCommentCreated(ctx context.Context, comment *model.Comment) error {
	return m.repo.Store.Post.PushComment(ctx, comment.PostID, comment.ID)
}

// OnCommentDeleted drops the comment from its post. A post that no longer exists has
// nothing to drop.
func (m *cascadeManager) OnCommentDeleted(ctx context.Context, comment *model.Comment) error {
	err := m.repo.Store.Post.PullComment(ctx, comment.PostID, comment.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// OnPostDeleted removes every comment of an already deleted post.
func (m *cascadeManager) OnPostDeleted(ctx context.Context, post *model.Post) error {
	deleted, err := m.repo.Store.Comment.DeleteByPost(ctx, post.ID)
	if err != nil {
		return err
	}

	m.logger.Sugar().Debugf("removed %d comments of deleted post(%s)", deleted, post.ID.String())
	return nil
}
