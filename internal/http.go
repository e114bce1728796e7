package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
)

// sessionCookieName is the cookie the service issues after an authenticated
// call; once captured it is attached to every subsequent request.
const sessionCookieName = "session_ruqqus"

// TokenSource supplies the Authorization header value for authenticated
// requests. Implementations refresh the underlying credential first when it
// is about to expire, so a header obtained here is valid for the immediate
// call.
type TokenSource interface {
	AuthHeader(ctx context.Context) (string, error)
}

// RateLimitConfig controls optional client-side throttling. The zero value
// disables throttling entirely: the service enforces its own limits and this
// library does not impose any policy of its own unless asked to.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. 0 disables throttling.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 1
	// when throttling is enabled and Burst is 0.
	Burst int
}

// Client manages communication with the Ruqqus API: authentication headers,
// the session cookie, and request execution.
type Client struct {
	client    *http.Client
	BaseURL   *url.URL
	UserAgent string
	auth      TokenSource
	logger    *slog.Logger
	limiter   *rate.Limiter

	mu      sync.Mutex
	session string
}

// NewClient returns a new API transport. If a nil httpClient is provided,
// http.DefaultClient is used.
func NewClient(httpClient *http.Client, auth TokenSource, baseURL, userAgent string, rateCfg *RateLimitConfig, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.APIError{Message: "failed to parse base URL", Err: err}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	var limiter *rate.Limiter
	if rateCfg != nil && rateCfg.RequestsPerMinute > 0 {
		burst := rateCfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rateCfg.RequestsPerMinute/60.0), burst)
	}

	return &Client{
		client:    httpClient,
		BaseURL:   parsedURL,
		UserAgent: userAgent,
		auth:      auth,
		logger:    logger,
		limiter:   limiter,
	}, nil
}

// NewRequest creates an API request for a path relative to the client's base
// URL. The token source is consulted first, which refreshes the credential
// when it is close to expiry, so the request carries a header that will not
// go stale mid-flight.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	authHeader, err := c.auth.AuthHeader(ctx)
	if err != nil {
		return nil, err
	}

	u, err := c.BaseURL.Parse(path)
	if err != nil {
		return nil, &pkgerrs.APIError{Message: "failed to resolve request path", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &pkgerrs.APIError{Message: "failed to create request", Err: err}
	}

	req.Header.Set("Authorization", authHeader)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.session})
	}
	c.mu.Unlock()

	return req, nil
}

// Do executes an API request and returns the raw response body. Non-2xx
// statuses are returned as *errors.APIError carrying the status code and
// body; callers map client-side statuses to more specific errors.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, &pkgerrs.APIError{URL: req.URL.String(), Err: err}
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &pkgerrs.APIError{URL: req.URL.String(), Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	c.captureSession(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrs.APIError{StatusCode: resp.StatusCode, URL: req.URL.String(), Message: "failed to read response body", Err: err}
	}

	if c.logger != nil {
		preview := body
		if len(preview) > 500 {
			preview = preview[:500]
		}
		c.logger.Debug("ruqqus API response",
			"method", req.Method,
			"url", req.URL.String(),
			"status", resp.StatusCode,
			"body_preview", string(preview))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &pkgerrs.APIError{
			StatusCode: resp.StatusCode,
			URL:        req.URL.String(),
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}

// Get issues a GET request to path with the given query parameters and
// returns the raw response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	return c.Do(req)
}

// PostJSON issues a POST request to path with params encoded as a JSON body
// and returns the raw response body.
func (c *Client) PostJSON(ctx context.Context, path string, params any) ([]byte, error) {
	var body io.Reader
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, &pkgerrs.APIError{Message: "failed to encode request body", Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.NewRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// PostMultipart issues a POST request to path with the given form fields and
// a single file attachment encoded as multipart form data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &pkgerrs.APIError{Message: "failed to open attachment", Err: err}
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, &pkgerrs.APIError{Message: "failed to encode form field", Err: err}
		}
	}
	part, err := writer.CreateFormFile(fileField, filepath.Base(filePath))
	if err != nil {
		return nil, &pkgerrs.APIError{Message: "failed to encode attachment", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &pkgerrs.APIError{Message: "failed to read attachment", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &pkgerrs.APIError{Message: "failed to finalize form body", Err: err}
	}

	req, err := c.NewRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.Do(req)
}

// captureSession records the service's session cookie when one is present in
// the response. The assignment is mutex-guarded so the transport is safe to
// share across goroutines.
func (c *Client) captureSession(resp *http.Response) {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			c.mu.Lock()
			c.session = cookie.Value
			c.mu.Unlock()
			return
		}
	}
}
