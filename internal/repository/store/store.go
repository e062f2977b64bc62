// Package store declares the entity store contract implemented by the postgres, mongo and
// memory backends.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// DuplicateKeyError reports which unique field a write collided on.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %s", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (*model.User, error)
}

// Post and Comment reads that join the author never fail on a missing user row: the
// author then carries only its id.
type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error)
	// FindByIDs keeps the order of ids and skips the ones that do not resolve.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.FullPost, error)
	// FindOwned resolves only when the post exists and was written by authorID.
	FindOwned(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (*model.Post, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error)
	Paginate(ctx context.Context, filter model.PostFilter, page paging.Request) ([]*model.FullPost, int64, error)
	Update(ctx context.Context, id uuid.UUID, update model.PostUpdate) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// PushComment appends commentID to the post's comment list unless already present.
	PushComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error
	PullComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	// FindByIDs keeps the order of ids and skips the ones that do not resolve.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.FullComment, error)
	FindOwned(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (*model.Comment, error)
	Paginate(ctx context.Context, postID uuid.UUID, page paging.Request) ([]*model.FullComment, int64, error)
	Update(ctx context.Context, id uuid.UUID, update model.CommentUpdate) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type Store struct {
	User
	Post
	Comment
	closeFn func(ctx context.Context) error
}

func New(user User, post Post, comment Comment, closeFn func(ctx context.Context) error) *Store {
	return &Store{
		User:    user,
		Post:    post,
		Comment: comment,
		closeFn: closeFn,
	}
}

func (s *Store) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}
