package service

import (
	"context"
	"testing"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment_RegistersOnPostOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	post := createPost(t, env, alice.ID, "Alice's post")

	comment, err := env.svc.Comment.Create(ctx, alice.ID, dto.CreateCommentRequest{Content: "  Hi there ", Post: post.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", comment.Content)
	assert.Equal(t, post.ID, comment.PostID)

	// A repeated cascade for the same comment must not duplicate the reference.
	require.NoError(t, env.svc.Comment.(*commentService).cascade.OnCommentCreated(ctx, comment))

	stored, err := env.repo.Store.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{comment.ID}, stored.Comments)
}

func TestCreateComment_MissingPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")

	_, err := env.svc.Comment.Create(ctx, alice.ID, dto.CreateCommentRequest{Content: "Hello", Post: uuid.New().String()})
	assert.ErrorIs(t, err, ErrPostNotFound)

}

func TestCreateComment_MalformedPostID(t *testing.T) {
	env := newTestEnv(t)
	alice := register(t, env, "alice")

	_, err := env.svc.Comment.Create(context.Background(), alice.ID, dto.CreateCommentRequest{Content: "Hello", Post: "not-an-id"})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, map[string]string{"post": "must be a valid UUID"}, validationErr.Fields)
}

func TestCreateComment_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := register(t, env, "alice")

	_, err := env.svc.Comment.Create(context.Background(), alice.ID, dto.CreateCommentRequest{Content: " x "})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, map[string]string{
		"content": "must be at least 2 characters",
		"post":    "is required",
	}, validationErr.Fields)
}

func TestDeleteComment_UnregistersFromPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	post := createPost(t, env, alice.ID, "Alice's post")

	first, err := env.svc.Comment.Create(ctx, alice.ID, dto.CreateCommentRequest{Content: "first", Post: post.ID.String()})
	require.NoError(t, err)
	second, err := env.svc.Comment.Create(ctx, alice.ID, dto.CreateCommentRequest{Content: "second", Post: post.ID.String()})
	require.NoError(t, err)

	require.NoError(t, env.svc.Comment.Delete(ctx, alice.ID, first.ID))

	stored, err := env.repo.Store.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID}, stored.Comments)

	details, err := env.svc.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, details.Comments, 1)
	assert.Equal(t, second.ID, details.Comments[0].ID)
}

func TestUpdateAndDeleteComment_NonOwnerLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	bob := register(t, env, "bob")
	post := createPost(t, env, alice.ID, "Alice's post")

	comment, err := env.svc.Comment.Create(ctx, alice.ID, dto.CreateCommentRequest{Content: "mine", Post: post.ID.String()})
	require.NoError(t, err)

	_, notOwnerErr := env.svc.Comment.Update(ctx, bob.ID, comment.ID, dto.UpdateCommentRequest{Content: strPtr("edited")})
	_, missingErr := env.svc.Comment.Update(ctx, bob.ID, uuid.New(), dto.UpdateCommentRequest{Content: strPtr("edited")})
	assert.Equal(t, missingErr, notOwnerErr)
	assert.ErrorIs(t, notOwnerErr, ErrCommentNotFound)

	notOwnerErr = env.svc.Comment.Delete(ctx, bob.ID, comment.ID)
	missingErr = env.svc.Comment.Delete(ctx, bob.ID, uuid.New())
	assert.Equal(t, missingErr, notOwnerErr)

	updated, err := env.svc.Comment.Update(ctx, alice.ID, comment.ID, dto.UpdateCommentRequest{Content: strPtr(" edited ")})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, post.ID, updated.PostID)
}

func TestListComments_SortAndPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	post := createPost(t, env, alice.ID, "Alice's post")

	var ids []uuid.UUID
	for _, content := range []string{"one", "two", "three"} {
		comment, err := env.svc.Comment.Create(ctx, alice.ID, dto.CreateCommentRequest{Content: content, Post: post.ID.String()})
		require.NoError(t, err)
		ids = append(ids, comment.ID)
	}

	page, err := env.svc.Comment.ListByPost(ctx, post.ID, dto.PageQuery{Sort: "createdAt", Order: "asc", Limit: "2"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[0], page.Items[0].ID)
	assert.Equal(t, ids[1], page.Items[1].ID)
	assert.True(t, page.HasNextPage)

	_, err = env.svc.Comment.ListByPost(ctx, post.ID, dto.PageQuery{Sort: "title"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "sort")
}
