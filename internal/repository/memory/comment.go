package memory

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/google/uuid"
)

type commentRepo struct {
	db *db
}

func (r *commentRepo) full(comment model.Comment) *model.FullComment {
	return &model.FullComment{
		Comment: comment,
		Author:  r.db.author(comment.AuthorID),
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	r.db.comments[comment.ID] = comment

	return &comment, nil
}

func (r *commentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.FullComment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	comments := make([]*model.FullComment, 0, len(ids))
	for _, id := range ids {
		if comment, ok := r.db.comments[id]; ok {
			comments = append(comments, r.full(comment))
		}
	}
	return comments, nil
}

func (r *commentRepo) FindOwned(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (*model.Comment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	comment, ok := r.db.comments[id]
	if !ok || comment.AuthorID != authorID {
		return nil, store.ErrNotFound
	}
	return &comment, nil
}

func commentCreatedKey(c model.Comment) int64 { return c.CreatedAt.UnixNano() }
func commentUpdatedKey(c model.Comment) int64 { return c.UpdatedAt.UnixNano() }
func commentIDKey(c model.Comment) string     { return c.ID.String() }

func (r *commentRepo) Paginate(ctx context.Context, postID uuid.UUID, req paging.Request) ([]*model.FullComment, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var matched []model.Comment
	for _, comment := range r.db.comments {
		if comment.PostID == postID {
			matched = append(matched, comment)
		}
	}

	key := commentCreatedKey
	if req.Sort == "updated_at" {
		key = commentUpdatedKey
	}
	page, total := paging.Slice(matched, req, key, commentIDKey)

	comments := make([]*model.FullComment, 0, len(page))
	for _, comment := range page {
		comments = append(comments, r.full(comment))
	}
	return comments, total, nil
}

func (r *commentRepo) Update(ctx context.Context, id uuid.UUID, update model.CommentUpdate) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	comment, ok := r.db.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	if update.Content != nil {
		comment.Content = *update.Content
	}
	comment.UpdatedAt = time.Now().UTC()
	r.db.comments[id] = comment

	return &comment, nil
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.db.comments, id)
	return nil
}

func (r *commentRepo) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var deleted int64
	for id, comment := range r.db.comments {
		if comment.PostID == postID {
			delete(r.db.comments, id)
			deleted++
		}
	}
	return deleted, nil
}
