// Package client is a Go client of the timexnorm HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/timexnorm/internal/application/annotation"
	"github.com/turtacn/timexnorm/pkg/errors"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

const Version = "0.1.0"

// Wire types shared with the server.
type (
	Document          = annotation.Document
	Span              = annotation.Span
	Annotation        = annotation.Annotation
	AnnotatedDocument = annotation.AnnotatedDocument
)

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Client calls the /api/v1 endpoints with retries on transport errors,
// 5xx responses and 429 with Retry-After.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// APIError is a non-2xx response.  Code is the server's error code, for
// example TMX_001 for an invalid reference date.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("timexnorm: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

// IsInvalidReference reports whether the server rejected the reference date.
func (e *APIError) IsInvalidReference() bool {
	return e.Code == string(errors.ErrCodeInvalidReferenceDate)
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates a client of the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.InvalidParam("baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid baseURL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.InvalidParam("baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("timexnorm-go-client/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

type normaliseRequest struct {
	Expressions []string `json:"expressions"`
	Reference   string   `json:"reference"`
	Domain      string   `json:"domain,omitempty"`
}

type normaliseResponse struct {
	Reference string         `json:"reference"`
	Results   []timex.Result `json:"results"`
}

// Normalise resolves expressions against reference ("YYYYMMDD" or
// "YYYYMMDDThhmmss").  An empty domain uses the server default.
func (c *Client) Normalise(ctx context.Context, reference, domain string, expressions ...string) ([]timex.Result, error) {
	if len(expressions) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyExpression, "at least one expression is required")
	}
	var resp normaliseResponse
	req := normaliseRequest{Expressions: expressions, Reference: reference, Domain: domain}
	if err := c.post(ctx, "/api/v1/normalise", req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Annotate annotates one document.
func (c *Client) Annotate(ctx context.Context, doc *Document) (*AnnotatedDocument, error) {
	if doc == nil {
		return nil, errors.InvalidParam("document is required")
	}
	var out AnnotatedDocument
	if err := c.post(ctx, "/api/v1/annotate", map[string]interface{}{"document": doc}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnnotateBatch annotates docs in one request.  Results keep input order.
func (c *Client) AnnotateBatch(ctx context.Context, docs []*Document) ([]*AnnotatedDocument, error) {
	if len(docs) == 0 {
		return nil, errors.InvalidParam("at least one document is required")
	}
	var out struct {
		Documents []*AnnotatedDocument `json:"documents"`
	}
	if err := c.post(ctx, "/api/v1/annotate", map[string]interface{}{"documents": docs}, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// Rules lists the cascade of domain in evaluation order.
func (c *Client) Rules(ctx context.Context, domain string) ([]string, error) {
	path := "/api/v1/rules"
	if domain != "" {
		path += "?domain=" + url.QueryEscape(domain)
	}
	var out struct {
		Rules []string `json:"rules"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Rules, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do performs a request with retries.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "marshal request body")
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		requestID := uuid.NewString()
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-Id", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Errorf("request failed: %v", err)
			lastErr = err
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}
		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.retryMax {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				c.logger.Infof("rate limited, retrying after %d seconds", seconds)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
			if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Code == "" {
				apiErr.Message = strings.TrimSpace(string(respBody))
			}
			apiErr.StatusCode = resp.StatusCode
			apiErr.RequestID = requestID
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "unmarshal response")
			}
		}
		return nil
	}
	return lastErr
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	if backoff < 4 {
		return backoff
	}
	return backoff + time.Duration(rand.Int63n(int64(backoff/4)))
}

//Personal.AI order the ending
