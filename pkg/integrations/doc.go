// Package integrations provides the HTTP plumbing shared by upstream API clients.
//
// # Overview
//
// The only upstream today is the GitHub REST API, implemented in the
// [github] subpackage. This package holds the parts that are independent
// of GitHub's payloads:
//
//   - [Client]: one-shot GET requests with default headers and a base URL
//   - [HasNext] / [LinkURL]: RFC 5988 Link header pagination
//   - [ErrNetwork]: transport failures with no HTTP status
//
// # Client Pattern
//
//	c := integrations.NewClient("https://api.github.com", 10*time.Second, headers)
//	resp, err := c.Get(ctx, "/users/pabroux/starred", url.Values{"page": {"1"}})
//	if err != nil {
//	    // transport failure
//	}
//	if !resp.OK() {
//	    // upstream failure, resp.Body holds the error document
//	}
//
// The client deliberately has no retry and no response cache: every call is
// exactly one outbound request, and non-200 responses are handed back to the
// caller untouched so the raw upstream error body can be surfaced.
//
// Each request emits [observability.HTTPHooks] events.
//
// [github]: github.com/matzehuels/stargazer/pkg/integrations/github
// [observability.HTTPHooks]: github.com/matzehuels/stargazer/pkg/observability.HTTPHooks
package integrations
