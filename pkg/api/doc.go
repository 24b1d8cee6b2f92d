// Package api serves the star neighbours HTTP API.
//
// # Routes
//
//	POST /token                              form login, returns a bearer token
//	GET  /health                             liveness check
//	GET  /repos/{user}/{repo}/starneighbours bearer-protected neighbour ranking
//
// # Errors
//
// Every error response uses one envelope:
//
//	{"message": "Bad Gateway for GitHub API", "status": 502, "detail": {...}}
//
// "detail" is only present when there is something to add: the list of
// invalid form fields for 422 responses, or {"github_api_message": <body>}
// with GitHub's raw error document for 502 responses.
//
// # Middleware
//
// Requests carry an X-Request-ID (generated when absent), are logged once
// on completion, and handler panics become 500 responses.
package api
