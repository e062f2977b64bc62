package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	es8 "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

const postMapping = `{
  "mappings": {
    "properties": {
      "title":      {"type": "text"},
      "content":    {"type": "text"},
      "tags":       {"type": "keyword"},
      "author_id":  {"type": "keyword"},
      "created_at": {"type": "date"}
    }
  }
}`

type ES struct {
	client *es8.Client
	index  string
}

func New(cfg config.SearchConfig) (*ES, error) {
	client, err := es8.NewClient(es8.Config{Addresses: cfg.Addresses})
	if err != nil {
		return nil, err
	}
	return &ES{client: client, index: cfg.Index}, nil
}

// EnsureIndex creates the posts index. An index that already exists is left untouched.
func (e *ES) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists([]string{e.index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = e.client.Indices.Create(
		e.index,
		e.client.Indices.Create.WithContext(ctx),
		e.client.Indices.Create.WithBody(strings.NewReader(postMapping)),
	)
	if err != nil {
		return err
	}
	return drain(res)
}

type postDoc struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ES) IndexPost(ctx context.Context, post *model.Post) error {
	body, err := json.Marshal(postDoc{
		Title:     post.Title,
		Content:   post.Content,
		Tags:      post.Tags,
		AuthorID:  post.AuthorID.String(),
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return err
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(body),
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(post.ID.String()),
	)
	if err != nil {
		return err
	}
	return drain(res)
}

func (e *ES) DeletePost(ctx context.Context, id uuid.UUID) error {
	res, err := e.client.Delete(e.index, id.String(), e.client.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return drain(res)
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a multi_match over title, content and tags and returns the ids of the
// requested page in relevance order together with the total hit count.
func (e *ES) Search(ctx context.Context, q string, req paging.Request) ([]uuid.UUID, int64, error) {
	body, err := json.Marshal(map[string]any{
		"from":             req.Offset(),
		"size":             req.Limit,
		"track_total_hits": true,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content", "tags"},
			},
		},
	})
	if err != nil {
		return nil, 0, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("search failed: %s", res.String())
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(out.Hits.Hits))
	for _, hit := range out.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, out.Hits.Total.Value, nil
}

func drain(res *esapi.Response) error {
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: %s", res.String())
	}
	_, err := io.Copy(io.Discard, res.Body)
	return err
}
