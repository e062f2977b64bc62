package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestES(t *testing.T, handler http.HandlerFunc) *ES {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := New(config.SearchConfig{Addresses: []string{srv.URL}, Index: "posts"})
	require.NoError(t, err)
	return es
}

func TestSearch_PageAndIDs(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	var gotBody map[string]any
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/_search", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte(`{"hits":{"total":{"value":12},"hits":[` +
			`{"_id":"` + first.String() + `"},` +
			`{"_id":"not-a-uuid"},` +
			`{"_id":"` + second.String() + `"}]}}`))
	})

	ids, total, err := es.Search(context.Background(), "hello", paging.Request{Page: 3, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, int64(12), total)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
	assert.EqualValues(t, 10, gotBody["from"])
	assert.EqualValues(t, 5, gotBody["size"])
}

func TestSearch_ErrorStatus(t *testing.T) {
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad query"}`))
	})

	_, _, err := es.Search(context.Background(), "x", paging.Request{Page: 1, Limit: 10})
	assert.Error(t, err)
}

func TestIndexPost_UsesPostID(t *testing.T) {
	post := &model.Post{ID: uuid.New(), AuthorID: uuid.New(), Title: "Hello World", Tags: []string{"go"}}

	var gotPath, gotMethod string
	var gotDoc postDoc
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotDoc))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":"created"}`))
	})

	require.NoError(t, es.IndexPost(context.Background(), post))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/posts/_doc/"+post.ID.String(), gotPath)
	assert.Equal(t, "Hello World", gotDoc.Title)
	assert.Equal(t, post.AuthorID.String(), gotDoc.AuthorID)
}

func TestDeletePost_MissingIsNotAnError(t *testing.T) {
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"result":"not_found"}`))
	})

	assert.NoError(t, es.DeletePost(context.Background(), uuid.New()))
}
