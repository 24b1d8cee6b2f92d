package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/stargazer/pkg/buildinfo"
	"github.com/matzehuels/stargazer/pkg/integrations"
)

const (
	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// APIVersion is the REST API version pinned on every request.
	APIVersion = "2022-11-28"

	// PerPage is the page size requested from listing endpoints (GitHub's maximum).
	PerPage = 100
)

// Options configures a [Client].
type Options struct {
	// Token is an optional access token. Empty means unauthenticated requests
	// (60 requests/hour instead of 5000).
	Token string

	// BaseURL overrides [DefaultBaseURL] (tests, GitHub Enterprise).
	BaseURL string

	// Timeout bounds each individual request. 0 selects the integrations default.
	Timeout time.Duration
}

// Client fetches single pages from the GitHub stargazer and starred listings.
// It is safe for concurrent use; it holds no per-resolution state.
type Client struct {
	*integrations.Client
}

// NewClient creates a GitHub API client.
func NewClient(opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		Client: integrations.NewClient(base, opts.Timeout, Headers(opts.Token)),
	}
}

// Headers returns the request headers sent with every GitHub API call.
// The Authorization header is only present when token is non-empty.
func Headers(token string) map[string]string {
	headers := map[string]string{
		"Accept":               "application/json",
		"X-GitHub-Api-Version": APIVersion,
		"User-Agent":           buildinfo.UserAgent(),
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return headers
}

// FetchStargazerPage fetches one page of the users who starred owner/repo.
// Items are the stargazers' logins in response order.
func (c *Client) FetchStargazerPage(ctx context.Context, owner, repo string, page int) (Page, error) {
	path := fmt.Sprintf("/repos/%s/%s/stargazers", integrations.PathEscape(owner), integrations.PathEscape(repo))

	var data []stargazerResponse
	hasNext, err := c.fetchPage(ctx, path, page, &data)
	if err != nil {
		return Page{}, err
	}

	items := make([]string, 0, len(data))
	for _, u := range data {
		items = append(items, u.Login)
	}
	return Page{Items: items, HasNext: hasNext}, nil
}

// FetchStarredPage fetches one page of the repositories starred by user.
// Items are "owner/name" identifiers in response order, with GitHub's casing.
func (c *Client) FetchStarredPage(ctx context.Context, user string, page int) (Page, error) {
	path := fmt.Sprintf("/users/%s/starred", integrations.PathEscape(user))

	var data []starredResponse
	hasNext, err := c.fetchPage(ctx, path, page, &data)
	if err != nil {
		return Page{}, err
	}

	items := make([]string, 0, len(data))
	for _, r := range data {
		items = append(items, r.FullName())
	}
	return Page{Items: items, HasNext: hasNext}, nil
}

// fetchPage issues one listing request and decodes a 200 body into v.
// Any other outcome becomes a *RemoteAPIError.
func (c *Client) fetchPage(ctx context.Context, path string, page int, v any) (bool, error) {
	query := url.Values{
		"per_page": {strconv.Itoa(PerPage)},
		"page":     {strconv.Itoa(page)},
	}

	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return false, newTransportError(err)
	}
	if !resp.OK() {
		return false, newRemoteAPIError(resp.StatusCode, resp.Body)
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return false, newDecodeError(resp.StatusCode, err)
	}
	return integrations.HasNext(resp.Header), nil
}
