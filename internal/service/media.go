package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/model"
	"go.uber.org/zap"
)

const defaultMediaTimeout = 15 * time.Second

type mediaClient struct {
	logger     *zap.Logger
	cfg        config.MediaConfig
	httpClient *http.Client
}

func NewMediaClient(logger *zap.Logger, cfg config.MediaConfig) Media {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMediaTimeout
	}

	return &mediaClient{
		logger:     logger,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type mediaErrorBody struct {
	Details string `json:"details"`
}

func (m *mediaClient) Upload(ctx context.Context, filename string, data []byte) (*model.Image, error) {
	if m.cfg.Origin == "" {
		return nil, ErrMediaNotConfigured
	}

	endpoint := "/upload"

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	fileWriter, err := writer.CreateFormFile("file", filename)
	if err != nil {
		m.logger.Sugar().Errorf("failed to create file part for media request: %s", err.Error())
		return nil, ErrInternal
	}

	if _, err := fileWriter.Write(data); err != nil {
		m.logger.Sugar().Errorf("failed to copy file content for media request: %s", err.Error())
		return nil, ErrInternal
	}

	if err := writer.WriteField("path", m.cfg.Folder); err != nil {
		m.logger.Sugar().Errorf("failed to write path field for media request: %s", err.Error())
		return nil, ErrInternal
	}

	if err := writer.Close(); err != nil {
		m.logger.Sugar().Errorf("failed to close writer for media request: %s", err.Error())
		return nil, ErrInternal
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Origin+endpoint, &requestBody)
	if err != nil {
		m.logger.Sugar().Errorf("failed to create media request: %s", err.Error())
		return nil, ErrInternal
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Add("type", "IMAGE")

	body, err := m.do(req, endpoint)
	if err != nil {
		return nil, err
	}

	var image model.Image
	if err := json.Unmarshal(body, &image); err != nil || image.URL == "" {
		m.logger.Sugar().Errorf("unexpected upload response from media host: %s", string(body))
		return nil, ErrMediaUnavailable
	}

	return &image, nil
}

func (m *mediaClient) Delete(ctx context.Context, publicID string) error {
	if m.cfg.Origin == "" {
		return ErrMediaNotConfigured
	}

	endpoint := "/files/" + url.PathEscape(publicID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, m.cfg.Origin+endpoint, nil)
	if err != nil {
		m.logger.Sugar().Errorf("failed to create media request: %s", err.Error())
		return ErrInternal
	}

	_, err = m.do(req, endpoint)
	return err
}

// do sends req and maps the outcome: 4xx means the host refused the image, anything
// else that is not 2xx means the host could not be used.
func (m *mediaClient) do(req *http.Request, endpoint string) ([]byte, error) {
	if m.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", m.cfg.APIKey)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.Sugar().Errorf("failed to do media request: %s", err.Error())
		return nil, ErrMediaUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		m.logger.Sugar().Errorf("failed to read response body from media host: %s", err.Error())
		return nil, ErrMediaUnavailable
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	var errBody mediaErrorBody
	if err := json.Unmarshal(body, &errBody); err != nil {
		m.logger.Sugar().Errorf("failed to decode error response from media host: %s", err.Error())
	} else {
		m.logger.Sugar().Errorf("ERROR from media endpoint(%s), code(%d), details: %s", endpoint, resp.StatusCode, errBody.Details)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, ErrMediaRejected
	}
	return nil, ErrMediaUnavailable
}
