// Package pkg holds the libraries behind the stargazer API and CLI.
//
// # Overview
//
// Stargazer answers one question: which repositories do the stargazers of
// a GitHub repository also star? The pkg directory is organized as:
//
//  1. [neighbours] - Resolution and ranking of star neighbours
//  2. [integrations] - The shared HTTP client and the GitHub REST client
//  3. [api] - The chi HTTP server (POST /token, GET /health, starneighbours)
//  4. [auth] and [users] - Password hashing, bearer tokens and user stores
//  5. [config], [errors], [observability], [buildinfo] - Shared plumbing
//
// # Data Flow
//
//	GET /repos/{user}/{repo}/starneighbours
//	         ↓
//	    [api] (bearer token → [auth] → [users])
//	         ↓
//	    [neighbours] Resolver (stargazers → starred repos)
//	         ↓
//	    [integrations/github] Client (paginated REST listings)
//	         ↓
//	    ranked JSON list of {repo, stargazers}
//
// [neighbours]: github.com/matzehuels/stargazer/pkg/neighbours
// [integrations]: github.com/matzehuels/stargazer/pkg/integrations
// [integrations/github]: github.com/matzehuels/stargazer/pkg/integrations/github
// [api]: github.com/matzehuels/stargazer/pkg/api
// [auth]: github.com/matzehuels/stargazer/pkg/auth
// [users]: github.com/matzehuels/stargazer/pkg/users
// [config]: github.com/matzehuels/stargazer/pkg/config
// [errors]: github.com/matzehuels/stargazer/pkg/errors
// [observability]: github.com/matzehuels/stargazer/pkg/observability
// [buildinfo]: github.com/matzehuels/stargazer/pkg/buildinfo
package pkg
