// Package predict talks to the remote price prediction endpoint: one JSON
// POST per call, answered by a PredictionResult document.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-priceform/pkg/snapshot"
)

// DefaultEndpoint is where the reference prediction service listens.
const DefaultEndpoint = "http://localhost:2662/predict"

// Client posts form snapshots to the prediction endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the prediction URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded, which is
// the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a Client with defaults applied.
func NewClient(options ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		http:     http.DefaultClient,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Endpoint reports the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict sends snap and decodes the reply. The HTTP status is not inspected:
// the service reports failures as {"success": false} bodies, often with a
// 400. Transport errors are returned as produced by net/http; bodies that do
// not decode are wrapped in ErrMalformedResponse.
func (c *Client) Predict(ctx context.Context, snap snapshot.Snapshot) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("predict: context is required")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return Result{}, fmt.Errorf("predict: encode snapshot: %w", err)
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("predict: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("sending prediction request",
		zap.String("endpoint", c.endpoint),
		zap.Int("fields", snap.Len()),
	)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("prediction request failed", zap.Error(err))
		return Result{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}

	c.logger.Debug("prediction response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(started)),
	)

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Message != "" {
		c.logger.Debug("prediction service message", zap.String("message", result.Message))
	}
	return result, nil
}
