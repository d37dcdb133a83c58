package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
)

// maxContentSize caps the fetched document.
const maxContentSize = 8 << 20

// HTTPContentSource fetches the quiz document once from a URL.
type HTTPContentSource struct {
	url    string
	client *http.Client
}

// NewHTTPContentSource creates a source for url. A zero timeout means 10s.
func NewHTTPContentSource(url string, timeout time.Duration) *HTTPContentSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPContentSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Load fetches, decodes and validates the document.
func (s *HTTPContentSource) Load(ctx context.Context) (*entities.Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build content request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch content: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxContentSize))
	if err != nil {
		return nil, fmt.Errorf("read content body: %w", err)
	}

	return DecodeJSON(data)
}
