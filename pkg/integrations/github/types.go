package github

// Page is one page of a GitHub paginated listing, already reduced to strings.
type Page struct {
	// Items are logins (stargazer listing) or "owner/name" identifiers
	// (starred listing), in response order.
	Items []string

	// HasNext is true iff the response carried a rel="next" Link relation.
	HasNext bool
}

// stargazerResponse is one element of GET /repos/{owner}/{repo}/stargazers.
type stargazerResponse struct {
	Login string `json:"login"`
}

// starredResponse is one element of GET /users/{user}/starred.
type starredResponse struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// FullName returns the "owner/name" identifier, with GitHub's casing.
func (r starredResponse) FullName() string {
	return r.Owner.Login + "/" + r.Name
}
