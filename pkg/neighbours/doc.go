// Package neighbours computes the "star neighbours" of a GitHub repository.
//
// # Overview
//
// Two repositories are star neighbours when at least one user starred both.
// Given a target repository, [Resolver.Resolve] lists its stargazers, walks
// the repositories each of them starred, and returns every such repository
// with the stargazers it shares with the target:
//
//	client := github.NewClient(github.Options{Token: token})
//	r := neighbours.NewResolver(client, neighbours.Options{MaxPageRepo: 2})
//
//	res, err := r.Resolve(ctx, "pallets", "flask")
//	if err != nil {
//	    return err
//	}
//	for _, e := range res {
//	    fmt.Println(e.Repo, len(e.Stargazers))
//	}
//
// # Ordering
//
// The [Result] is sorted by stargazer count, highest first. The sort is
// stable: neighbours with equal counts keep the order in which they were
// first seen while walking stargazers. Within an [Entry], stargazers appear
// in the order they were visited. Identifiers keep GitHub's casing.
//
// The target repository is usually part of its own result, since every
// stargazer starred it. It is not filtered out.
//
// # Limits
//
// [Options.MaxPageRepo] bounds the stargazer pages fetched for the target
// and [Options.MaxPageStargazer] bounds the starred pages per stargazer.
// Both default to 1 page of 100 items. Larger repositories are sampled,
// not exhausted.
//
// # Concurrency
//
// With [Options.Workers] greater than 1, starred listings of several
// stargazers are fetched in parallel. Results are merged in stargazer order,
// so the output is identical to a sequential run.
//
// # Errors
//
// Resolution is all-or-nothing. The first failed fetch aborts it and its
// error (typically a [*github.RemoteAPIError]) is returned as-is.
package neighbours
