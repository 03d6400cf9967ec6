package valyu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the production Valyu API endpoint.
	DefaultBaseURL = "https://api.valyu.network/v1"

	apiKeyEnv      = "VALYU_API_KEY"
	defaultTimeout = 90 * time.Second
)

// Client is the Valyu API client. It is immutable after construction and
// safe for concurrent use; each method call is an independent
// request/response cycle with no shared mutable state.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
	validate   *validator.Validate

	// DeepResearch exposes the asynchronous research task API.
	DeepResearch *DeepResearchService
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithAPIKey sets the API key explicitly instead of reading VALYU_API_KEY.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL overrides the API base URL, e.g. for testing or alternate
// deployments.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client. Connection pooling
// and transport-level concerns belong to this client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets the per-request timeout. On timeout the call completes
// with a failure-shaped response rather than hanging.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithLogger attaches a zerolog logger for request-level debug logging.
// The default logger discards everything.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient builds a Client. The API key comes from WithAPIKey or, when
// absent, from the VALYU_API_KEY environment variable; construction fails
// with ErrMissingAPIKey when neither is set. No network call is made.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey == "" {
		c.apiKey = os.Getenv(apiKeyEnv)
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	c.validate = newValidator()
	c.DeepResearch = &DeepResearchService{client: c}
	return c, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// validateStruct runs the struct-tag validators on a wire request and
// converts the first failure into a *ValidationError.
func (c *Client) validateStruct(v any) error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return newValidationError(fe.Field(), "value %v fails %q constraint", fe.Value(), fe.Tag())
	}
	return err
}

// postJSON issues a single authenticated POST with a JSON body and decodes
// the JSON response into out. Non-2xx statuses come back as *APIError with
// the server's error message and transaction id when present.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, payload, out, true)
}

// getJSON issues a single GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any, authenticated bool) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, authenticated)
}

// deleteJSON issues a single authenticated DELETE.
func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out, true)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any, authenticated bool) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("x-api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("valyu api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// fetch downloads an absolute URL (e.g. a presigned storage URL) without
// authentication and returns the response body reader. The caller must
// close it.
func (c *Client) fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("download failed with status %d", resp.StatusCode)}
	}
	return resp.Body, nil
}

func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var body struct {
		Error string `json:"error"`
		TxID  string `json:"tx_id"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Error
		apiErr.TxID = body.TxID
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP Error: %d", status)
	}
	return apiErr
}
