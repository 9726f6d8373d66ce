package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	herrors "harmoniq/internal/errors"
	"harmoniq/internal/logging"
)

const Version = "0.1.0"

// Client talks to the energy-planning REST backend
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	log          *logrus.Entry
	timeout      time.Duration
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	groups        *GroupsClient
	groupsOnce    sync.Once
	catalog       *CatalogClient
	catalogOnce   sync.Once
	scenarios     *ScenariosClient
	scenariosOnce sync.Once
}

// APIError represents an error response from the API
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("harmoniq: HTTP %d: %s [request_id=%s]", e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsNotImplemented() bool {
	return e.StatusCode == http.StatusNotImplemented
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// AsAPIError extracts an *APIError from an error chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewClient creates a backend client
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, herrors.ConfigInvalid("empty base URL")
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, herrors.Wrap(err, herrors.ErrCodeConfigInvalid, "invalid base URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, herrors.ConfigInvalid("base URL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{},
		userAgent:    fmt.Sprintf("harmoniq/%s", Version),
		log:          logging.Discard(),
		timeout:      10 * time.Second,
		retryMax:     2,
		retryWaitMin: 200 * time.Millisecond,
		retryWaitMax: 2 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Groups returns the infrastructure group sub-client
func (c *Client) Groups() *GroupsClient {
	c.groupsOnce.Do(func() {
		c.groups = &GroupsClient{client: c}
	})
	return c.groups
}

// Catalog returns the item list sub-client
func (c *Client) Catalog() *CatalogClient {
	c.catalogOnce.Do(func() {
		c.catalog = &CatalogClient{client: c}
	})
	return c.catalog
}

// Scenarios returns the scenario and simulation sub-client
func (c *Client) Scenarios() *ScenariosClient {
	c.scenariosOnce.Do(func() {
		c.scenarios = &ScenariosClient{client: c}
	})
	return c.scenarios
}

// do performs an HTTP request. Only GET is retried; every other method is
// sent at most once.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	retryMax := 0
	if method == http.MethodGet {
		retryMax = c.retryMax
	}
	op := method + " " + path

	var lastErr error
	for attempt := 0; attempt <= retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.log.Debugf("retry attempt %d for %s after %v", attempt, op, backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return herrors.Network(op, ctx.Err())
			}
		}

		retry, err := c.attempt(ctx, method, fullURL, op, bodyBytes, result, attempt < retryMax)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}

	return lastErr
}

// attempt sends one request and reports whether a failure may be retried
func (c *Client) attempt(ctx context.Context, method, fullURL, op string, bodyBytes []byte, result interface{}, canRetry bool) (bool, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"url":        fullURL,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		entry.WithError(err).Warn("request failed")
		return ctx.Err() == nil || errors.Is(ctx.Err(), context.DeadlineExceeded), herrors.Network(op, err).
			WithDetail("request_id", requestID)
	}

	entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": duration,
	}).Debug("request done")

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return false, herrors.Network(op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode == http.StatusTooManyRequests && canRetry {
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			entry.Infof("rate limited, retrying after %d seconds", seconds)
			select {
			case <-time.After(time.Duration(seconds) * time.Second):
				return true, &APIError{StatusCode: resp.StatusCode, RequestID: requestID, Message: "rate limited"}
			case <-ctx.Done():
				return false, herrors.Network(op, ctx.Err())
			}
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Message:    errorMessage(respBody, resp.Status),
		}
		return apiErr.IsServerError(), apiErr
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return false, herrors.Wrap(err, herrors.ErrCodeMalformedRemoteData, "failed to decode response").
				WithDetail("op", op).
				WithDetail("request_id", requestID)
		}
	}

	return false, nil
}

// errorMessage extracts {"detail": "..."} or {"message": "..."} from an error body
func errorMessage(body []byte, status string) string {
	if len(body) == 0 {
		return status
	}
	var errResp struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return strings.TrimSpace(string(body))
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	var detail string
	if err := json.Unmarshal(errResp.Detail, &detail); err == nil && detail != "" {
		return detail
	}
	if len(errResp.Detail) > 0 {
		return string(errResp.Detail)
	}
	return status
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}

	// 0-25% jitter
	if quarter := int64(backoff / 4); quarter > 0 {
		backoff += time.Duration(rand.Int63n(quarter))
	}
	return backoff
}
