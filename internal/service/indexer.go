package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/rabbitmq"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"go.uber.org/zap"
)

var errMalformedMessage = errors.New("malformed message")

// indexer mirrors post events from the broker into the search index.
type indexer struct {
	logger   *zap.Logger
	repo     *repository.Repository
	broker   Broker
	searcher Searcher
}

func newIndexer(logger *zap.Logger, repo *repository.Repository, broker Broker, searcher Searcher) *indexer {
	return &indexer{
		logger:   logger,
		repo:     repo,
		broker:   broker,
		searcher: searcher,
	}
}

func (i *indexer) enabled() bool {
	return i.broker != nil && i.searcher != nil
}

func (i *indexer) run(ctx context.Context) {
	if !i.enabled() {
		return
	}

	queues := []string{
		rabbitmq.POST_CREATED_QUEUE,
		rabbitmq.POST_UPDATED_QUEUE,
		rabbitmq.POST_DELETED_QUEUE,
	}

	var wg sync.WaitGroup
	for _, queue := range queues {
		wg.Add(1)
		go func(queue string) {
			defer wg.Done()
			i.consume(ctx, queue)
		}(queue)
	}
	wg.Wait()
}

func (i *indexer) consume(ctx context.Context, queue string) {
	msgs, err := i.broker.Consume(queue)
	if err != nil {
		i.logger.Sugar().Errorf("failed to start consume from queue(%s): %s", queue, err.Error())
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			err := i.handle(ctx, queue, msg.Body)
			switch {
			case err == nil:
				msg.Ack(false)
			case errors.Is(err, errMalformedMessage):
				i.logger.Sugar().Errorf("dropping message in queue(%s): %s", queue, err.Error())
				msg.Nack(false, false)
			default:
				i.logger.Sugar().Errorf("failed to handle message in queue(%s): %s", queue, err.Error())
				msg.Nack(false, true)
			}
		}
	}
}

// handle applies one post event to the index. Created and updated posts are re-read
// from the store so the index always holds the latest version.
func (i *indexer) handle(ctx context.Context, queue string, body []byte) error {
	var msg dto.MQPostMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return errors.Join(errMalformedMessage, err)
	}

	switch queue {
	case rabbitmq.POST_DELETED_QUEUE:
		return i.searcher.DeletePost(ctx, msg.PostID)
	default:
		post, err := i.repo.Store.Post.FindByID(ctx, msg.PostID)
		if errors.Is(err, store.ErrNotFound) {
			return i.searcher.DeletePost(ctx, msg.PostID)
		}
		if err != nil {
			return err
		}
		return i.searcher.IndexPost(ctx, &post.Post)
	}
}
