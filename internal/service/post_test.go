package service

import (
	"context"
	"testing"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/rabbitmq"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, env *testEnv, authorID uuid.UUID, title string) *model.Post {
	t.Helper()

	post, err := env.svc.Post.Create(context.Background(), authorID, dto.CreatePostRequest{
		Title:   title,
		Content: "Some content",
		Tags:    []string{"go"},
	})
	require.NoError(t, err)
	return post
}

func TestCreatePost_NormalizesInput(t *testing.T) {
	env := newTestEnv(t)
	alice := register(t, env, "alice")

	post, err := env.svc.Post.Create(context.Background(), alice.ID, dto.CreatePostRequest{
		Title:   "  Hello World  ",
		Content: " body ",
		Tags:    []string{" go ", "", "  ", "web"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello World", post.Title)
	assert.Equal(t, "body", post.Content)
	assert.Equal(t, []string{"go", "web"}, post.Tags)
	assert.Equal(t, alice.ID, post.AuthorID)
	assert.Equal(t, []string{rabbitmq.POST_CREATED_QUEUE}, env.broker.queues())
}

func TestCreatePost_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := register(t, env, "alice")

	_, err := env.svc.Post.Create(context.Background(), alice.ID, dto.CreatePostRequest{Title: " Hey  ", Content: "   "})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, map[string]string{
		"title":   "must be at least 5 characters",
		"content": "is required",
	}, validationErr.Fields)
	assert.Empty(t, env.broker.queues())
}

func TestUpdatePost_HelloWorldScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := register(t, env, "user1")
	u2 := register(t, env, "user2")

	post, err := env.svc.Post.Create(ctx, u1.ID, dto.CreatePostRequest{
		Title:   "Hello World",
		Content: "First content",
		Tags:    []string{"intro", "go"},
	})
	require.NoError(t, err)

	_, err = env.svc.Post.Update(ctx, u2.ID, post.ID, dto.UpdatePostRequest{Title: strPtr("Hijacked")})
	assert.ErrorIs(t, err, ErrPostNotFound)

	updated, err := env.svc.Post.Update(ctx, u1.ID, post.ID, dto.UpdatePostRequest{Title: strPtr("Hello World 2")})
	require.NoError(t, err)
	assert.Equal(t, "Hello World 2", updated.Title)
	assert.Equal(t, "First content", updated.Content)
	assert.Equal(t, []string{"intro", "go"}, updated.Tags)
}

func TestUpdateAndDeletePost_NonOwnerLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	bob := register(t, env, "bob")
	post := createPost(t, env, alice.ID, "Alice's post")

	_, notOwnerErr := env.svc.Post.Update(ctx, bob.ID, post.ID, dto.UpdatePostRequest{Title: strPtr("Bob was here")})
	_, missingErr := env.svc.Post.Update(ctx, bob.ID, uuid.New(), dto.UpdatePostRequest{Title: strPtr("Bob was here")})
	assert.Equal(t, missingErr, notOwnerErr)
	assert.ErrorIs(t, notOwnerErr, ErrPostNotFound)

	notOwnerErr = env.svc.Post.Delete(ctx, bob.ID, post.ID)
	missingErr = env.svc.Post.Delete(ctx, bob.ID, uuid.New())
	assert.Equal(t, missingErr, notOwnerErr)
	assert.ErrorIs(t, notOwnerErr, ErrPostNotFound)

	details, err := env.svc.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's post", details.Title)
}

func TestUpdatePost_ValidationBeforeOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := register(t, env, "alice")
	post := createPost(t, env, alice.ID, "Alice's post")

	_, err := env.svc.Post.Update(context.Background(), alice.ID, post.ID, dto.UpdatePostRequest{Content: strPtr("  ")})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "must not be empty", validationErr.Fields["content"])
}

func TestDeletePost_CascadesComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	bob := register(t, env, "bob")
	post := createPost(t, env, alice.ID, "Alice's post")
	other := createPost(t, env, alice.ID, "Another post")

	for _, author := range []uuid.UUID{alice.ID, bob.ID} {
		_, err := env.svc.Comment.Create(ctx, author, dto.CreateCommentRequest{Content: "Nice one", Post: post.ID.String()})
		require.NoError(t, err)
	}
	_, err := env.svc.Comment.Create(ctx, bob.ID, dto.CreateCommentRequest{Content: "Survives", Post: other.ID.String()})
	require.NoError(t, err)

	require.NoError(t, env.svc.Post.Delete(ctx, alice.ID, post.ID))

	_, err = env.svc.Post.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	comments, err := env.svc.Comment.ListByPost(ctx, post.ID, dto.PageQuery{})
	require.NoError(t, err)
	assert.Empty(t, comments.Items)
	assert.Zero(t, comments.TotalItems)

	comments, err = env.svc.Comment.ListByPost(ctx, other.ID, dto.PageQuery{})
	require.NoError(t, err)
	assert.Len(t, comments.Items, 1)

	assert.Contains(t, env.broker.queues(), rabbitmq.POST_DELETED_QUEUE)
}

func TestFindPost_PopulatesCommentsAndRefreshesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	post := createPost(t, env, alice.ID, "Alice's post")

	details, err := env.svc.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, details.Comments)
	assert.Equal(t, "alice", details.Author.Username)

	comment, err := env.svc.Comment.Create(ctx, alice.ID, dto.CreateCommentRequest{Content: "First!", Post: post.ID.String()})
	require.NoError(t, err)

	details, err = env.svc.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, details.Comments, 1)
	assert.Equal(t, comment.ID, details.Comments[0].ID)
	assert.Equal(t, "alice", details.Comments[0].Author.Username)

	_, err = env.svc.Post.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListPosts_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	for _, title := range []string{"Post one", "Post two", "Post three"} {
		createPost(t, env, alice.ID, title)
	}

	page, err := env.svc.Post.List(ctx, dto.PostsQuery{PageQuery: dto.PageQuery{Page: "2", Limit: "2"}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.False(t, page.HasNextPage)
	assert.True(t, page.HasPrevPage)

	beyond, err := env.svc.Post.List(ctx, dto.PostsQuery{PageQuery: dto.PageQuery{Page: "9", Limit: "2"}})
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 9, beyond.Page)
	assert.Equal(t, 2, beyond.TotalPages)
	assert.Equal(t, int64(3), beyond.TotalItems)

	sorted, err := env.svc.Post.List(ctx, dto.PostsQuery{PageQuery: dto.PageQuery{Sort: "title", Order: "asc"}})
	require.NoError(t, err)
	titles := make([]string, 0, len(sorted.Items))
	for _, post := range sorted.Items {
		titles = append(titles, post.Title)
	}
	assert.Equal(t, []string{"Post one", "Post three", "Post two"}, titles)
}

func TestListPosts_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	bob := register(t, env, "bob")
	createPost(t, env, alice.ID, "Alice writes")
	_, err := env.svc.Post.Create(ctx, bob.ID, dto.CreatePostRequest{Title: "Bob writes", Content: "x", Tags: []string{"rust"}})
	require.NoError(t, err)

	byAuthor, err := env.svc.Post.List(ctx, dto.PostsQuery{Author: bob.ID.String()})
	require.NoError(t, err)
	require.Len(t, byAuthor.Items, 1)
	assert.Equal(t, "bob", byAuthor.Items[0].Author.Username)

	byTag, err := env.svc.Post.List(ctx, dto.PostsQuery{Tag: "go"})
	require.NoError(t, err)
	require.Len(t, byTag.Items, 1)
	assert.Equal(t, "Alice writes", byTag.Items[0].Title)
}

func TestListPosts_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Post.List(context.Background(), dto.PostsQuery{
		PageQuery: dto.PageQuery{Page: "0", Sort: "views", Order: "sideways"},
		Author:    "not-a-uuid",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "page")
	assert.Contains(t, validationErr.Fields, "sort")
	assert.Contains(t, validationErr.Fields, "order")
	assert.Equal(t, "must be a valid UUID", validationErr.Fields["author"])
}

func TestSearchPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "alice")
	first := createPost(t, env, alice.ID, "Go generics")
	second := createPost(t, env, alice.ID, "Go channels")
	env.searcher.hits = []uuid.UUID{second.ID, uuid.New(), first.ID}
	env.searcher.total = 7

	result, err := env.svc.Post.Search(ctx, dto.SearchQuery{Q: "go", PageQuery: dto.PageQuery{Limit: "3"}})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, second.ID, result.Items[0].ID)
	assert.Equal(t, first.ID, result.Items[1].ID)
	assert.Equal(t, int64(7), result.TotalItems)
	assert.Equal(t, 3, result.TotalPages)

	_, err = env.svc.Post.Search(ctx, dto.SearchQuery{Q: "  "})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "is required", validationErr.Fields["q"])
}
