// Package github provides an HTTP client for the GitHub stargazer listings.
//
// # Overview
//
// The client fetches single pages from two paginated GitHub REST endpoints:
//
//   - GET /repos/{owner}/{repo}/stargazers: users who starred a repository
//   - GET /users/{user}/starred: repositories starred by a user
//
// Each call returns a [Page]: the page's items reduced to strings plus
// whether the response advertised a rel="next" Link relation. Walking the
// pages is left to the caller (see package neighbours).
//
// # Usage
//
//	client := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//
//	page, err := client.FetchStargazerPage(ctx, "pallets", "flask", 1)
//	if err != nil {
//	    var apiErr *github.RemoteAPIError
//	    if errors.As(err, &apiErr) {
//	        fmt.Println(apiErr.StatusCode, string(apiErr.Body))
//	    }
//	    return err
//	}
//	fmt.Println(page.Items, page.HasNext)
//
// # Authentication
//
// A GitHub personal access token is optional. Without a token the client is
// limited to 60 requests/hour; with one, 5000 requests/hour. The token is
// sent as "Authorization: Bearer <token>" and the header is omitted entirely
// when no token is configured.
//
// # Errors
//
// Any response other than HTTP 200 becomes a [*RemoteAPIError] carrying the
// upstream status and body. The client never retries; rate-limit responses
// (403/429) are reported like any other failure.
//
// # Validation
//
// [ValidateOwner], [ValidateRepo] and [ParseRepoRef] check owner and
// repository names against GitHub's naming rules before any request is made.
package github
