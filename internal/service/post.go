package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/policy"
	"github.com/BloggingApp/blog-service/internal/rabbitmq"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/BloggingApp/blog-service/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type postService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	validate *validation.Validator
	cache    *cache
	cascade  *cascadeManager
	events   *events
	searcher Searcher
	maxLimit int
}

func newPostService(
	logger *zap.Logger,
	repo *repository.Repository,
	validate *validation.Validator,
	cache *cache,
	cascade *cascadeManager,
	events *events,
	searcher Searcher,
	maxLimit int,
) Post {
	return &postService{
		logger:   logger,
		repo:     repo,
		validate: validate,
		cache:    cache,
		cascade:  cascade,
		events:   events,
		searcher: searcher,
		maxLimit: maxLimit,
	}
}

// normalizeTags trims every tag and drops the empty ones, keeping order.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)

	if fields := s.validate.Validate(input); fields != nil {
		return nil, newValidationError(fields)
	}

	id, err := uuid.NewV7()
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate post id: %s", err.Error())
		return nil, ErrInternal
	}

	createdPost, err := s.repo.Store.Post.Create(ctx, model.Post{
		ID:       id,
		AuthorID: authorID,
		Title:    input.Title,
		Content:  input.Content,
		Tags:     normalizeTags(input.Tags),
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	s.cache.invalidate(ctx, redisrepo.UserProfileKey(authorID))
	s.events.publish(ctx, rabbitmq.POST_CREATED_QUEUE, postMsg(createdPost))

	return createdPost, nil
}

func (s *postService) FindByID(ctx context.Context, id uuid.UUID) (*model.PostDetails, error) {
	key := redisrepo.PostKey(id)

	cachedPost, err := getCached[model.PostDetails](s.cache, ctx, key)
	if err != nil {
		return nil, err
	}
	if cachedPost != nil {
		return cachedPost, nil
	}

	post, err := s.repo.Store.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	comments, err := s.repo.Store.Comment.FindByIDs(ctx, post.Comments)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%s) comments: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	details := &model.PostDetails{
		Post:     post.Post,
		Author:   post.Author,
		Comments: comments,
	}
	if err := s.cache.set(ctx, key, details); err != nil {
		return nil, err
	}

	return details, nil
}

func (s *postService) List(ctx context.Context, query dto.PostsQuery) (*paging.Result[*model.FullPost], error) {
	fields := s.validate.Validate(query)
	req, pageFields := paging.PostFields.Parse(paging.Query(query.PageQuery), s.maxLimit)
	if fields = mergeFields(fields, pageFields); fields != nil {
		return nil, newValidationError(fields)
	}

	filter := model.PostFilter{Tag: strings.TrimSpace(query.Tag)}
	if query.Author != "" {
		authorID := uuid.MustParse(query.Author)
		filter.AuthorID = &authorID
	}

	posts, total, err := s.repo.Store.Post.Paginate(ctx, filter, req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to paginate posts: %s", err.Error())
		return nil, ErrInternal
	}

	return paging.NewResult(posts, total, req), nil
}

func (s *postService) Search(ctx context.Context, query dto.SearchQuery) (*paging.Result[*model.FullPost], error) {
	query.Q = strings.TrimSpace(query.Q)

	fields := s.validate.Validate(query)
	req, pageFields := paging.PostFields.Parse(paging.Query(query.PageQuery), s.maxLimit)
	if fields = mergeFields(fields, pageFields); fields != nil {
		return nil, newValidationError(fields)
	}

	if s.searcher == nil {
		s.logger.Error("post search requested while search is disabled")
		return nil, ErrInternal
	}

	ids, total, err := s.searcher.Search(ctx, query.Q, req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search posts(%s): %s", query.Q, err.Error())
		return nil, ErrInternal
	}

	posts, err := s.repo.Store.Post.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load searched posts: %s", err.Error())
		return nil, ErrInternal
	}

	return paging.NewResult(posts, total, req), nil
}

// findOwned resolves a post the actor may mutate. A post owned by someone else is
// reported exactly like a missing one.
func (s *postService) findOwned(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*model.Post, error) {
	post, err := s.repo.Store.Post.FindOwned(ctx, id, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if policy.Authorize(actorID, post) == policy.Deny {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, input dto.UpdatePostRequest) (*model.Post, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		input.Content = &content
	}
	if input.Tags != nil {
		tags := normalizeTags(*input.Tags)
		input.Tags = &tags
	}

	if fields := s.validate.Validate(input); fields != nil {
		return nil, newValidationError(fields)
	}

	if _, err := s.findOwned(ctx, actorID, id); err != nil {
		return nil, err
	}

	updatedPost, err := s.repo.Store.Post.Update(ctx, id, model.PostUpdate{
		Title:   input.Title,
		Content: input.Content,
		Tags:    input.Tags,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to update post(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	s.cache.invalidate(ctx, redisrepo.PostKey(id), redisrepo.UserProfileKey(actorID))
	s.events.publish(ctx, rabbitmq.POST_UPDATED_QUEUE, postMsg(updatedPost))

	return updatedPost, nil
}

func (s *postService) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	post, err := s.findOwned(ctx, actorID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Store.Post.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	s.cache.invalidate(ctx, redisrepo.PostKey(id), redisrepo.UserProfileKey(actorID))

	if err := s.cascade.OnPostDeleted(ctx, post); err != nil {
		s.logger.Sugar().Errorf("failed to delete comments of post(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	s.events.publish(ctx, rabbitmq.POST_DELETED_QUEUE, postMsg(post))

	return nil
}

func postMsg(post *model.Post) dto.MQPostMsg {
	return dto.MQPostMsg{
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		PostTitle: post.Title,
		CreatedAt: post.CreatedAt,
	}
}

func mergeFields(a, b map[string]string) map[string]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	merged := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range b {
		merged[k] = v
	}
	return merged
}
