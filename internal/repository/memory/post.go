package memory

import (
	"context"
	"slices"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/google/uuid"
)

type postRepo struct {
	db *db
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Comments = nil
	r.db.posts[post.ID] = *clonePost(post)

	return clonePost(post), nil
}

func (r *postRepo) full(post model.Post) *model.FullPost {
	return &model.FullPost{
		Post:   *clonePost(post),
		Author: r.db.author(post.AuthorID),
	}
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	post, ok := r.db.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r.full(post), nil
}

func (r *postRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.FullPost, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	posts := make([]*model.FullPost, 0, len(ids))
	for _, id := range ids {
		if post, ok := r.db.posts[id]; ok {
			posts = append(posts, r.full(post))
		}
	}
	return posts, nil
}

func (r *postRepo) FindOwned(ctx context.Context, id uuid.UUID, authorID uuid.UUID) (*model.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	post, ok := r.db.posts[id]
	if !ok || post.AuthorID != authorID {
		return nil, store.ErrNotFound
	}
	return clonePost(post), nil
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var matched []model.Post
	for _, post := range r.db.posts {
		if post.AuthorID == authorID {
			matched = append(matched, post)
		}
	}

	page, _ := paging.Slice(matched, paging.Request{Page: 1, Limit: max(len(matched), 1), Order: paging.Desc}, createdKey, postIDKey)

	posts := make([]*model.Post, 0, len(page))
	for _, post := range page {
		posts = append(posts, clonePost(post))
	}
	return posts, nil
}

func createdKey(p model.Post) int64 { return p.CreatedAt.UnixNano() }
func updatedKey(p model.Post) int64 { return p.UpdatedAt.UnixNano() }
func titleKey(p model.Post) string  { return p.Title }
func postIDKey(p model.Post) string  { return p.ID.String() }

func (r *postRepo) Paginate(ctx context.Context, filter model.PostFilter, req paging.Request) ([]*model.FullPost, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var matched []model.Post
	for _, post := range r.db.posts {
		if filter.Tag != "" && !slices.Contains(post.Tags, filter.Tag) {
			continue
		}
		if filter.AuthorID != nil && post.AuthorID != *filter.AuthorID {
			continue
		}
		matched = append(matched, post)
	}

	var (
		page  []model.Post
		total int64
	)
	switch req.Sort {
	case "title":
		page, total = paging.Slice(matched, req, titleKey, postIDKey)
	case "updated_at":
		page, total = paging.Slice(matched, req, updatedKey, postIDKey)
	default:
		page, total = paging.Slice(matched, req, createdKey, postIDKey)
	}

	posts := make([]*model.FullPost, 0, len(page))
	for _, post := range page {
		posts = append(posts, r.full(post))
	}
	return posts, total, nil
}

func (r *postRepo) Update(ctx context.Context, id uuid.UUID, update model.PostUpdate) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post, ok := r.db.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Content != nil {
		post.Content = *update.Content
	}
	if update.Tags != nil {
		post.Tags = slices.Clone(*update.Tags)
	}
	post.UpdatedAt = time.Now().UTC()
	r.db.posts[id] = post

	return clonePost(post), nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.db.posts, id)
	return nil
}

func (r *postRepo) PushComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post, ok := r.db.posts[postID]
	if !ok {
		return store.ErrNotFound
	}
	if !slices.Contains(post.Comments, commentID) {
		post.Comments = append(slices.Clone(post.Comments), commentID)
		r.db.posts[postID] = post
	}
	return nil
}

func (r *postRepo) PullComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post, ok := r.db.posts[postID]
	if !ok {
		return store.ErrNotFound
	}
	post.Comments = slices.DeleteFunc(slices.Clone(post.Comments), func(id uuid.UUID) bool {
		return id == commentID
	})
	r.db.posts[postID] = post
	return nil
}
