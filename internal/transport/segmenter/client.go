// Package segmenter provides the HTTP client for the external Thai word
// segmentation service. Segmentation is best-effort: any failure hands the
// original text back to the caller so a search never fails on it.
package segmenter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/siamdocs/retrieval/internal/metrics"
)

// DefaultTimeout bounds one segmentation round-trip.
const DefaultTimeout = 2 * time.Second

// Client calls the Thai segmenter service.
type Client struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	logger     *zap.Logger
}

// Config holds segmenter client settings.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// New creates a segmenter client.
func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		// Per-request deadlines come from context; the transport-level
		// timeout is a backstop only.
		httpClient: &http.Client{Timeout: timeout + time.Second},
		endpoint:   cfg.Endpoint,
		timeout:    timeout,
		logger:     logger,
	}
}

type segmentRequest struct {
	Text string `json:"text"`
}

type segmentResponse struct {
	Text string `json:"text"`
}

// Segment asks the service to insert word boundaries into text. On any
// failure (transport, status, decode, timeout) it returns the original text
// together with the error; callers degrade to unsegmented tokenization.
func (c *Client) Segment(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(segmentRequest{Text: text})
	if err != nil {
		return text, c.fallback(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return text, c.fallback(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return text, c.fallback(fmt.Errorf("segmenter request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return text, c.fallback(fmt.Errorf("segmenter returned status %d", resp.StatusCode))
	}

	var parsed segmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return text, c.fallback(fmt.Errorf("decode response: %w", err))
	}
	if parsed.Text == "" {
		return text, c.fallback(fmt.Errorf("segmenter returned empty text"))
	}

	metrics.SegmenterRequestsTotal.WithLabelValues("success").Inc()
	return parsed.Text, nil
}

func (c *Client) fallback(err error) error {
	metrics.SegmenterRequestsTotal.WithLabelValues("fallback").Inc()
	c.logger.Warn("thai segmenter unavailable", zap.Error(err))
	return err
}
