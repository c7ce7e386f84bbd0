package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/httpclient"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	"github.com/folio-dev/folio/pkg/retry"
	"github.com/folio-dev/folio/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	serviceName     = "portfolio_api"
	maxResponseSize = 10 << 20
)

// Client talks to the portfolio REST API. Reads are retried; writes go out
// exactly once so a retried POST can never create a duplicate row.
type Client struct {
	baseURL    string
	httpClient httpclient.Client
	readRetry  retry.Config
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, httpClient httpclient.Client, readRetries int) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		readRetry:  retry.BackendReadConfig(readRetries),
	}
}

// WithReadRetry replaces the retry policy used for GETs
func (c *Client) WithReadRetry(cfg retry.Config) *Client {
	c.readRetry = cfg
	return c
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var out models.TokenResponse
	if err := c.send(ctx, "login", http.MethodPost, "/api/auth/login", "", req, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &APIError{Status: http.StatusBadGateway, Message: ""}
	}
	return out.Token, nil
}

// Register creates an owner account. Some API versions answer with a token,
// which callers are free to ignore.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	var out models.TokenResponse
	if err := c.send(ctx, "register", http.MethodPost, "/api/auth/register", "", req, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// get fetches path into out, retrying transient failures
func (c *Client) get(ctx context.Context, op, path string, out any) error {
	return retry.Do(ctx, c.readRetry, op, func() error {
		return c.call(ctx, op, http.MethodGet, path, "", nil, "", out)
	})
}

// send encodes in as JSON and issues a single mutation
func (c *Client) send(ctx context.Context, op, method, path, token string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.call(ctx, op, method, path, token, body, contentType, out)
}

// call performs one HTTP round trip with tracing, metrics and logging
func (c *Client) call(ctx context.Context, op, method, path, token string, body io.Reader, contentType string, out any) error {
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, "portfolio_api."+op,
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	status, err := c.roundTrip(ctx, method, path, token, body, contentType, out)
	tracing.End(span, err)

	duration := metrics.MeasureDuration(start)
	label := metrics.Status(err)
	metrics.BackendRequestDuration.WithLabelValues(op, label).Observe(duration)
	metrics.BackendRequestTotal.WithLabelValues(op, label).Inc()

	fields := []zap.Field{zap.String("method", method), zap.String("path", path)}
	if status != 0 {
		fields = append(fields, zap.Int("http_status", status))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.LogAPICall(ctx, serviceName, op, label, duration, fields...)

	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, nil
}

// errorMessage pulls {error} (or {message}) out of an error body
func errorMessage(raw []byte) string {
	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
