package memory

import (
	"context"
	"testing"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, s *store.Store, username string) *model.User {
	t.Helper()

	user, err := s.User.Create(context.Background(), model.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func TestUser_Unique(t *testing.T) {
	s := New()
	ctx := context.Background()
	createUser(t, s, "alice")

	_, err := s.User.Create(ctx, model.User{ID: uuid.New(), Username: "alice", Email: "other@example.com"})
	var dup *store.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)

	_, err = s.User.Create(ctx, model.User{ID: uuid.New(), Username: "bob", Email: "ALICE@example.com"})
	require.ErrorIs(t, err, store.ErrDuplicateKey)
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestUser_PartialUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := createUser(t, s, "alice")

	name := "alice2"
	updated, err := s.User.Update(ctx, user.ID, model.UserUpdate{Username: &name})
	require.NoError(t, err)

	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, "hash", updated.PasswordHash)

	_, err = s.User.Update(ctx, uuid.New(), model.UserUpdate{Username: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPost_PaginateSortsWithIDTieBreak(t *testing.T) {
	s := New()
	ctx := context.Background()
	author := createUser(t, s, "alice")

	for _, title := range []string{"Same title", "Same title", "Same title", "Another one", "Zebra post"} {
		_, err := s.Post.Create(ctx, model.Post{ID: uuid.New(), AuthorID: author.ID, Title: title, Content: "body"})
		require.NoError(t, err)
	}

	req := paging.Request{Page: 1, Limit: 2, Sort: "title", Order: paging.Asc}

	var seen []uuid.UUID
	for page := 1; page <= 3; page++ {
		req.Page = page
		posts, total, err := s.Post.Paginate(ctx, model.PostFilter{}, req)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)

		again, _, err := s.Post.Paginate(ctx, model.PostFilter{}, req)
		require.NoError(t, err)
		require.Equal(t, len(posts), len(again))
		for i := range posts {
			assert.Equal(t, posts[i].ID, again[i].ID)
			assert.Equal(t, "alice", posts[i].Author.Username)
			seen = append(seen, posts[i].ID)
		}
	}

	require.Len(t, seen, 5)
	seenSet := make(map[uuid.UUID]struct{})
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}
	assert.Len(t, seenSet, 5)

	req.Page = 4
	posts, total, err := s.Post.Paginate(ctx, model.PostFilter{}, req)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, int64(5), total)
}

func TestPost_PaginateFilters(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	_, err := s.Post.Create(ctx, model.Post{ID: uuid.New(), AuthorID: alice.ID, Title: "Go tips", Tags: []string{"go"}})
	require.NoError(t, err)
	_, err = s.Post.Create(ctx, model.Post{ID: uuid.New(), AuthorID: bob.ID, Title: "Rust tips", Tags: []string{"rust"}})
	require.NoError(t, err)

	req := paging.Request{Page: 1, Limit: 10, Sort: "created_at", Order: paging.Desc}

	posts, total, err := s.Post.Paginate(ctx, model.PostFilter{Tag: "go"}, req)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Go tips", posts[0].Title)

	posts, _, err = s.Post.Paginate(ctx, model.PostFilter{AuthorID: &bob.ID}, req)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Rust tips", posts[0].Title)
}

func TestPost_FindOwned(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	post, err := s.Post.Create(ctx, model.Post{ID: uuid.New(), AuthorID: alice.ID, Title: "Hello World"})
	require.NoError(t, err)

	owned, err := s.Post.FindOwned(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, owned.ID)

	_, errStranger := s.Post.FindOwned(ctx, post.ID, uuid.New())
	_, errMissing := s.Post.FindOwned(ctx, uuid.New(), alice.ID)
	assert.ErrorIs(t, errStranger, store.ErrNotFound)
	assert.Equal(t, errMissing, errStranger)
}

func TestPost_MissingAuthorKeepsID(t *testing.T) {
	s := New()
	ctx := context.Background()
	ghost := uuid.New()

	post, err := s.Post.Create(ctx, model.Post{ID: uuid.New(), AuthorID: ghost, Title: "Hello World"})
	require.NoError(t, err)

	found, err := s.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Author{ID: ghost}, found.Author)
}

func TestPost_PushPullComment(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	post, err := s.Post.Create(ctx, model.Post{ID: uuid.New(), AuthorID: alice.ID, Title: "Hello World"})
	require.NoError(t, err)

	commentID := uuid.New()
	require.NoError(t, s.Post.PushComment(ctx, post.ID, commentID))
	require.NoError(t, s.Post.PushComment(ctx, post.ID, commentID))

	found, err := s.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{commentID}, found.Comments)

	require.NoError(t, s.Post.PullComment(ctx, post.ID, commentID))
	found, err = s.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Comments)

	assert.ErrorIs(t, s.Post.PushComment(ctx, uuid.New(), commentID), store.ErrNotFound)
}

func TestComment_DeleteByPost(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	keep := uuid.New()
	drop := uuid.New()
	for i := 0; i < 3; i++ {
		_, err := s.Comment.Create(ctx, model.Comment{ID: uuid.New(), PostID: drop, AuthorID: alice.ID, Content: "hi"})
		require.NoError(t, err)
	}
	_, err := s.Comment.Create(ctx, model.Comment{ID: uuid.New(), PostID: keep, AuthorID: alice.ID, Content: "hi"})
	require.NoError(t, err)

	deleted, err := s.Comment.DeleteByPost(ctx, drop)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	req := paging.Request{Page: 1, Limit: 10, Sort: "created_at", Order: paging.Desc}
	comments, total, err := s.Comment.Paginate(ctx, drop, req)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Equal(t, int64(0), total)

	comments, _, err = s.Comment.Paginate(ctx, keep, req)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "alice", comments[0].Author.Username)
}

func TestComment_FindByIDsSkipsDangling(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	c1, err := s.Comment.Create(ctx, model.Comment{ID: uuid.New(), PostID: uuid.New(), AuthorID: alice.ID, Content: "one"})
	require.NoError(t, err)
	c2, err := s.Comment.Create(ctx, model.Comment{ID: uuid.New(), PostID: uuid.New(), AuthorID: alice.ID, Content: "two"})
	require.NoError(t, err)

	comments, err := s.Comment.FindByIDs(ctx, []uuid.UUID{c2.ID, uuid.New(), c1.ID})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, c2.ID, comments[0].ID)
	assert.Equal(t, c1.ID, comments[1].ID)
}
