package service

import (
	"context"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/pkg/validation"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type User interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, input dto.LoginRequest) (*model.User, error)
	FindProfile(ctx context.Context, id uuid.UUID) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input dto.UpdateProfileRequest) (*model.User, error)
}

type Auth interface {
	IssueToken(userID uuid.UUID) (string, error)
	ParseToken(token string) (uuid.UUID, error)
}

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PostDetails, error)
	List(ctx context.Context, query dto.PostsQuery) (*paging.Result[*model.FullPost], error)
	Search(ctx context.Context, query dto.SearchQuery) (*paging.Result[*model.FullPost], error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, input dto.UpdatePostRequest) (*model.Post, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
}

type Comment interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, query dto.PageQuery) (*paging.Result[*model.FullComment], error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, input dto.UpdateCommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
}

// Broker publishes domain events and feeds the consumers started by StartConsumeAll.
type Broker interface {
	Publish(ctx context.Context, queue string, v any) error
	Consume(queue string) (<-chan amqp.Delivery, error)
}

// Media stores images on the remote media host.
type Media interface {
	Upload(ctx context.Context, filename string, data []byte) (*model.Image, error)
	Delete(ctx context.Context, publicID string) error
}

type Searcher interface {
	IndexPost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q string, req paging.Request) ([]uuid.UUID, int64, error)
}

type Service struct {
	User
	Auth
	Post
	Comment
	indexer *indexer
}

// New wires the services. broker and searcher may be nil. Events exist only to feed the
// search index, so unless both are set nothing is published and search is unavailable.
func New(logger *zap.Logger, repo *repository.Repository, broker Broker, media Media, searcher Searcher, cfg config.ServiceConfig) *Service {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = paging.DefaultMaxLimit
	}

	validate := validation.New()
	searchIndexer := newIndexer(logger, repo, broker, searcher)
	events := &events{logger: logger, broker: broker, enabled: searchIndexer.enabled()}
	cache := &cache{logger: logger, repo: repo, ttl: cfg.CacheTTL}
	cascade := newCascadeManager(logger, repo)

	return &Service{
		User:    newUserService(logger, repo, validate, cache, media),
		Auth:    newAuthService(cfg.Auth),
		Post:    newPostService(logger, repo, validate, cache, cascade, events, searcher, cfg.MaxLimit),
		Comment: newCommentService(logger, repo, validate, cache, cascade, cfg.MaxLimit),
		indexer: searchIndexer,
	}
}

func (s *Service) SearchEnabled() bool {
	return s.indexer.enabled()
}

// StartConsumeAll blocks until ctx is cancelled, feeding broker events into the search
// index. It returns immediately when search is disabled.
func (s *Service) StartConsumeAll(ctx context.Context) {
	s.indexer.run(ctx)
}

type events struct {
	logger  *zap.Logger
	broker  Broker
	enabled bool
}

// publish reports a committed mutation to the indexer. A broker failure is logged and
// does not undo the mutation.
func (e *events) publish(ctx context.Context, queue string, msg any) {
	if !e.enabled {
		return
	}
	if err := e.broker.Publish(ctx, queue, msg); err != nil {
		e.logger.Sugar().Errorf("failed to publish message to queue(%s): %s", queue, err.Error())
	}
}
