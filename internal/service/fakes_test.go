package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/memory"
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type published struct {
	queue string
	msg   any
}

type fakeBroker struct {
	mu         sync.Mutex
	published  []published
	deliveries map[string]chan amqp.Delivery
}

func (b *fakeBroker) Publish(ctx context.Context, queue string, v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, published{queue: queue, msg: v})
	return nil
}

func (b *fakeBroker) Consume(queue string) (<-chan amqp.Delivery, error) {
	return b.channel(queue), nil
}

func (b *fakeBroker) channel(queue string) chan amqp.Delivery {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deliveries == nil {
		b.deliveries = make(map[string]chan amqp.Delivery)
	}
	ch, ok := b.deliveries[queue]
	if !ok {
		ch = make(chan amqp.Delivery)
		b.deliveries[queue] = ch
	}
	return ch
}

func (b *fakeBroker) queues() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	queues := make([]string, 0, len(b.published))
	for _, p := range b.published {
		queues = append(queues, p.queue)
	}
	return queues
}

type fakeMedia struct {
	mu       sync.Mutex
	uploads  int
	uploaded [][]byte
	deleted  []string
	err      error
}

func (m *fakeMedia) Upload(ctx context.Context, filename string, data []byte) (*model.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.uploads++
	m.uploaded = append(m.uploaded, data)
	return &model.Image{
		URL:      fmt.Sprintf("https://media.example.com/%d.png", m.uploads),
		PublicID: fmt.Sprintf("pic-%d", m.uploads),
	}, nil
}

func (m *fakeMedia) Delete(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, publicID)
	return nil
}

type fakeSearcher struct {
	mu      sync.Mutex
	indexed []uuid.UUID
	removed []uuid.UUID
	hits    []uuid.UUID
	total   int64
}

func (s *fakeSearcher) IndexPost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed = append(s.indexed, post.ID)
	return nil
}

func (s *fakeSearcher) DeletePost(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, id)
	return nil
}

func (s *fakeSearcher) Search(ctx context.Context, q string, req paging.Request) ([]uuid.UUID, int64, error) {
	return s.hits, s.total, nil
}

type testEnv struct {
	svc      *Service
	repo     *repository.Repository
	broker   *fakeBroker
	media    *fakeMedia
	searcher *fakeSearcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:     repository.New(memory.New(), redisrepo.NewLocal()),
		broker:   &fakeBroker{},
		media:    &fakeMedia{},
		searcher: &fakeSearcher{},
	}
	env.svc = New(zap.NewNop(), env.repo, env.broker, env.media, env.searcher, config.ServiceConfig{
		Auth: config.AuthConfig{Secret: []byte("test-secret")},
	})
	return env
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader builds the *multipart.FileHeader a multipart request for data would carry.
func fileHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profile_picture"; filename="%s"`, filename))
	header.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["profile_picture"][0]
}
