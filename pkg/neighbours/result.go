package neighbours

import (
	"cmp"
	"slices"
)

// Entry is one neighbour repository together with the stargazers of the
// target repository who also starred it.
type Entry struct {
	// Repo is the "owner/name" identifier with GitHub's casing.
	Repo string `json:"repo"`

	// Stargazers lists logins in the order the stargazers were visited.
	// A login repeats if GitHub returned it more than once.
	Stargazers []string `json:"stargazers"`
}

// Result is the ranked list of neighbours: stargazer count descending,
// first-seen order among equal counts. It is never nil, so it encodes as
// [] when empty.
type Result []Entry

// aggregator groups stargazer logins by starred repository, remembering
// the order in which repositories were first seen.
type aggregator struct {
	index   map[string]int
	entries []Entry
}

func newAggregator() *aggregator {
	return &aggregator{index: make(map[string]int)}
}

func (a *aggregator) add(repo, login string) {
	i, ok := a.index[repo]
	if !ok {
		i = len(a.entries)
		a.index[repo] = i
		a.entries = append(a.entries, Entry{Repo: repo})
	}
	a.entries[i].Stargazers = append(a.entries[i].Stargazers, login)
}

func (a *aggregator) ranked() Result {
	out := make(Result, len(a.entries))
	copy(out, a.entries)
	slices.SortStableFunc(out, func(x, y Entry) int {
		return cmp.Compare(len(y.Stargazers), len(x.Stargazers))
	})
	return out
}
