// Package client posts blood unit counts to the blood bank backend.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"bloodlink/internal/bloodbank"
	"bloodlink/pkg/platform/sentinel"
)

// SubmitPath is the backend route that records blood units.
const SubmitPath = "/bloodbank/add-bloods"

// HTTPClient is a bloodbank.SubmissionClient over HTTP. It never retries: a
// failed submission is surfaced to the operator, who may submit again.
type HTTPClient struct {
	http   *resty.Client
	logger *slog.Logger
}

type Option func(*HTTPClient)

func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.http.SetTimeout(d)
	}
}

// New builds a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts payload with the token repeated in the "token" header.
// Transport errors and non-2xx answers wrap sentinel.ErrUnavailable.
func (c *HTTPClient) Submit(ctx context.Context, payload bloodbank.Payload) (bloodbank.Ack, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("token", payload.Token).
		SetBody(payload).
		Post(SubmitPath)
	if err != nil {
		return bloodbank.Ack{}, fmt.Errorf("post %s: %w: %w", SubmitPath, sentinel.ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		c.logger.WarnContext(ctx, "backend rejected blood units",
			"status", resp.StatusCode(),
			"body", resp.String(),
		)
		return bloodbank.Ack{}, fmt.Errorf("post %s: status %d: %w", SubmitPath, resp.StatusCode(), sentinel.ErrUnavailable)
	}

	c.logger.DebugContext(ctx, "server response", "status", resp.StatusCode(), "body", resp.String())
	return bloodbank.Ack{StatusCode: resp.StatusCode(), Body: rawJSON(resp.Body())}, nil
}

// rawJSON keeps a body only when it can be embedded as JSON.
func rawJSON(b []byte) []byte {
	if len(b) == 0 || !json.Valid(b) {
		return nil
	}
	return b
}
