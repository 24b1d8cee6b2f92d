package neighbours

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stargazer/pkg/integrations/github"
	"github.com/matzehuels/stargazer/pkg/observability"
)

const (
	DefaultMaxPageRepo      = 1 // Default stargazer pages fetched for the target repository
	DefaultMaxPageStargazer = 1 // Default starred pages fetched per stargazer
	DefaultWorkers          = 1 // Default concurrent stargazers (1 = sequential)
)

// Fetcher retrieves single pages of the GitHub listings the resolver walks.
// [*github.Client] satisfies it.
type Fetcher interface {
	FetchStargazerPage(ctx context.Context, owner, repo string, page int) (github.Page, error)
	FetchStarredPage(ctx context.Context, user string, page int) (github.Page, error)
}

// Options configures a resolution.
type Options struct {
	MaxPageRepo      int // Maximum stargazer pages for the target repository (floor 1)
	MaxPageStargazer int // Maximum starred pages per stargazer (floor 1)
	Workers          int // Stargazers fetched concurrently (floor 1)
}

// WithDefaults returns a copy of Options with values below 1 replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxPageRepo < 1 {
		opts.MaxPageRepo = DefaultMaxPageRepo
	}
	if opts.MaxPageStargazer < 1 {
		opts.MaxPageStargazer = DefaultMaxPageStargazer
	}
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	return opts
}

// Resolver computes the star neighbours of a repository. It holds only
// immutable configuration, so one Resolver may serve concurrent calls;
// every call owns its own aggregation state.
type Resolver struct {
	fetcher Fetcher
	opts    Options
}

// NewResolver creates a Resolver backed by fetcher.
func NewResolver(fetcher Fetcher, opts Options) *Resolver {
	return &Resolver{fetcher: fetcher, opts: opts.WithDefaults()}
}

// Options returns the effective options after defaults were applied.
func (r *Resolver) Options() Options { return r.opts }

// Resolve lists the stargazers of owner/repo, then the repositories each of
// them starred, and returns those repositories ranked by how many of the
// stargazers starred them. The first fetch error aborts the resolution and
// is returned unchanged; no partial result is produced.
func (r *Resolver) Resolve(ctx context.Context, owner, repo string) (Result, error) {
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, owner, repo)
	start := time.Now()

	res, err := r.resolve(ctx, owner, repo)
	hooks.OnResolveComplete(ctx, owner, repo, len(res), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, owner, repo string) (Result, error) {
	stargazers, pages, err := collect(r.opts.MaxPageRepo, func(page int) (github.Page, error) {
		return r.fetcher.FetchStargazerPage(ctx, owner, repo, page)
	})
	if err != nil {
		return nil, err
	}
	observability.Resolve().OnStargazers(ctx, owner, repo, len(stargazers), pages)

	starred, err := r.fetchStarred(ctx, stargazers)
	if err != nil {
		return nil, err
	}

	agg := newAggregator()
	for i, login := range stargazers {
		for _, id := range starred[i] {
			agg.add(id, login)
		}
	}
	return agg.ranked(), nil
}

// fetchStarred returns the starred repositories of every stargazer, indexed
// like stargazers. With more than one worker the lists are fetched
// concurrently, but each lands in its own slot so the caller merges them in
// stargazer order.
func (r *Resolver) fetchStarred(ctx context.Context, stargazers []string) ([][]string, error) {
	out := make([][]string, len(stargazers))
	fetch := func(ctx context.Context, i int) error {
		items, _, err := collect(r.opts.MaxPageStargazer, func(page int) (github.Page, error) {
			return r.fetcher.FetchStarredPage(ctx, stargazers[i], page)
		})
		out[i] = items
		return err
	}

	if r.opts.Workers == 1 {
		for i := range stargazers {
			if err := fetch(ctx, i); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i := range stargazers {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error { return fetch(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// collect walks pages 1..maxPages of one listing, stopping early when a
// page reports no successor. It returns the concatenated items and the
// number of pages fetched.
func collect(maxPages int, fetch func(page int) (github.Page, error)) ([]string, int, error) {
	var items []string
	pages := 0
	for page := 1; page <= maxPages; page++ {
		p, err := fetch(page)
		if err != nil {
			return nil, pages, err
		}
		pages++
		items = append(items, p.Items...)
		if !p.HasNext {
			break
		}
	}
	return items, pages, nil
}
