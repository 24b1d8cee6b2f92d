package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/stargazer/pkg/observability"
)

// Client provides shared HTTP functionality for the GitHub API client.
// It handles base URL resolution, common request headers and
// observability hooks. It never retries and never caches: every call
// is exactly one outbound request.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
}

// NewClient creates a Client rooted at baseURL with the given default headers.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed.
// A timeout of 0 selects the package default.
func NewClient(baseURL string, timeout time.Duration, headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
	}
}

// BaseURL returns the API root all request paths are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the response has status 200.
func (r *Response) OK() bool { return r.StatusCode == http.StatusOK }

// Get performs one HTTP GET against path (relative to the base URL) with the
// given query and returns the fully read response, whatever its status.
// Only transport failures are returned as errors; they wrap both [ErrNetwork]
// and the underlying error, so context cancellation stays detectable.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, reqPath := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, reqPath)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, reqPath, err)
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, reqPath, err)
		return nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}
	hooks.OnResponse(ctx, req.Method, host, reqPath, resp.StatusCode, time.Since(start))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
