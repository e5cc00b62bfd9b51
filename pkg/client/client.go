// Package client is the typed REST client for the external maintenance
// backend.  The tenant (company slug) is an explicit argument of every
// sub-client; nothing is read from global state.
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

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/turtacn/AeroOps/pkg/errors"
)

const Version = "0.1.0"

// Logger defines the logging interface used by the Client
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is a no-op implementation of Logger
type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to the maintenance backend.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	apiKey       string
	userAgent    string
	logger       Logger
	validate     *validator.Validate
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// APIError represents an error response from the backend
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates a backend client.  apiKey may be empty when the backend
// sits behind a gateway that authenticates for us.
func NewClient(baseURL string, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.InvalidParam("upstream base URL is required")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "invalid upstream base URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.InvalidParam("upstream base URL scheme must be http or https").WithDetail(baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("aeroops/%s", Version),
		logger:       &noopLogger{},
		validate:     validator.New(),
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Articles returns the inventory sub-client for company.
func (c *Client) Articles(company string) *ArticlesClient {
	return &ArticlesClient{client: c, company: company}
}

// WorkOrders returns the work-order sub-client for company.
func (c *Client) WorkOrders(company string) *WorkOrdersClient {
	return &WorkOrdersClient{client: c, company: company}
}

// Statistics returns the statistics sub-client for company.
func (c *Client) Statistics(company string) *StatisticsClient {
	return &StatisticsClient{client: c, company: company}
}

// SMS returns the safety-management sub-client for company.
func (c *Client) SMS(company string) *SMSClient {
	return &SMSClient{client: c, company: company}
}

// Aircraft returns the aircraft sub-client for company.
func (c *Client) Aircraft(company string) *AircraftClient {
	return &AircraftClient{client: c, company: company}
}

// Ping checks that the backend answers at all.  Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "ping upstream")
	}
	resp.Body.Close()
	return nil
}

func tenantPath(company string, segments ...string) string {
	var sb strings.Builder
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(company))
	for _, s := range segments {
		sb.WriteString("/")
		sb.WriteString(url.PathEscape(s))
	}
	return sb.String()
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	accept string
	header http.Header
}

type response struct {
	body   []byte
	header http.Header
}

// do performs an HTTP request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// send is do with the response headers kept.  Only GETs are retried;
// mutations surface the first failure.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	if !strings.HasPrefix(r.path, "/") {
		r.path = "/" + r.path
	}
	fullURL := c.baseURL + r.path
	if len(r.query) > 0 {
		fullURL += "?" + r.query.Encode()
	}
	if r.accept == "" {
		r.accept = "application/json"
	}

	var bodyBytes []byte
	if r.body != nil {
		var err error
		bodyBytes, err = json.Marshal(r.body)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "marshal request body")
		}
	}

	retryMax := 0
	if r.method == http.MethodGet {
		retryMax = c.retryMax
	}

	var lastErr error
	for attempt := 0; attempt <= retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		requestID := uuid.New().String()
		for k, vs := range r.header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", r.accept)
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Errorf("%s %s failed: %v", r.method, r.path, err)
			lastErr = errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "upstream request failed").WithDetail(r.method + " " + r.path)
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", r.method, r.path, resp.StatusCode, duration)

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "read upstream response")
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < retryMax {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				c.logger.Infof("rate limited, retrying after %d seconds", seconds)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := parseAPIError(resp.StatusCode, requestID, respBody)
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return nil, apiErr
		}
		return &response{body: respBody, header: resp.Header}, nil
	}
	return nil, lastErr
}

func parseAPIError(status int, requestID string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}
	if len(body) == 0 {
		return apiErr
	}
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Detail  string `json:"detail"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}
	apiErr.Code, apiErr.Message = errResp.Code, errResp.Message
	if errResp.Message == "" && errResp.Detail != "" {
		apiErr.Message = errResp.Detail
	}
	if errResp.Error != nil {
		apiErr.Code, apiErr.Message, apiErr.Detail = errResp.Error.Code, errResp.Error.Message, errResp.Error.Detail
	}
	return apiErr
}

// decode unmarshals a JSON body into result and validates it.
func (c *Client) decode(body []byte, result interface{}) error {
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return errors.Wrap(err, errors.ErrCodeUpstreamBadPayload, "decode upstream response")
	}
	return c.check(result)
}

// check runs struct validation on v.  Non-struct results are accepted as is.
func (c *Client) check(v interface{}) error {
	if err := c.validate.Struct(v); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeUpstreamBadPayload, "upstream response failed validation")
	}
	return nil
}

// list is the validation wrapper for array responses.
type list[T any] struct {
	Items []T `validate:"dive"`
}

func decodeList[T any](c *Client, body []byte) ([]T, error) {
	var items []T
	if len(body) > 0 {
		if err := json.Unmarshal(body, &items); err != nil {
			// Some endpoints wrap arrays in {"data": [...]}.
			var env struct {
				Data []T `json:"data"`
			}
			if err2 := json.Unmarshal(body, &env); err2 != nil {
				return nil, errors.Wrap(err, errors.ErrCodeUpstreamBadPayload, "decode upstream list")
			}
			items = env.Data
		}
	}
	if items == nil {
		items = []T{}
	}
	if err := c.check(&list[T]{Items: items}); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	body, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	return c.decode(body, result)
}

func (c *Client) post(ctx context.Context, path string, in interface{}, result interface{}) error {
	body, err := c.do(ctx, request{method: http.MethodPost, path: path, body: in})
	if err != nil {
		return err
	}
	return c.decode(body, result)
}

func (c *Client) put(ctx context.Context, path string, in interface{}, result interface{}) error {
	body, err := c.do(ctx, request{method: http.MethodPut, path: path, body: in})
	if err != nil {
		return err
	}
	return c.decode(body, result)
}

func (c *Client) patch(ctx context.Context, path string, in interface{}, result interface{}) error {
	body, err := c.do(ctx, request{method: http.MethodPatch, path: path, body: in})
	if err != nil {
		return err
	}
	return c.decode(body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: path})
	return err
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	// 0-25% jitter
	if q := int64(backoff / 4); q > 0 {
		backoff += time.Duration(rand.Int63n(q))
	}
	return backoff
}

// ToAppError translates a client error into the service error model.  A 404
// becomes notFound; other 4xx become UpstreamRejected; the rest stay
// UpstreamUnavailable.  AppErrors and context errors pass through.
func ToAppError(err error, notFound errors.ErrorCode, op string) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsNotFound():
			return errors.Wrap(err, notFound, op).WithDetail(apiErr.Message)
		case apiErr.StatusCode < 500:
			return errors.Wrap(err, errors.ErrCodeUpstreamRejected, op).WithDetail(apiErr.Message)
		default:
			return errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, op).WithDetail(apiErr.Message)
		}
	}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, op)
}

//Personal.AI order the ending
