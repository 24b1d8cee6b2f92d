package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stargazer/pkg/errors"
	"github.com/matzehuels/stargazer/pkg/integrations/github"
	"github.com/matzehuels/stargazer/pkg/neighbours"
)

// Output formats for the neighbours command.
const (
	formatJSON  = "json"
	formatTable = "table"
	formatDOT   = "dot"
	formatSVG   = "svg"
)

type neighboursOpts struct {
	format           string
	output           string
	top              int
	maxPageRepo      int
	maxPageStargazer int
	workers          int
}

// neighboursCommand creates the neighbours command that runs a resolution
// without going through the HTTP API.
func (c *CLI) neighboursCommand() *cobra.Command {
	var opts neighboursOpts

	cmd := &cobra.Command{
		Use:     "neighbours <owner/repo>",
		Aliases: []string{"neighbors"},
		Short:   "Rank the repositories starred by a repository's stargazers",
		Long: `Rank the repositories starred by a repository's stargazers.

Output formats:
  json   the API response body (default)
  table  a ranked table
  dot    a Graphviz graph linking stargazers to repositories
  svg    the same graph rendered as SVG`,
		Example: `  stargazer neighbours pallets/flask
  stargazer neighbours pallets/flask --format table --top 20
  stargazer neighbours pallets/flask --format svg -o flask.svg --max-page-repo 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := github.ParseRepoRef(args[0])
			if err != nil {
				return err
			}
			if err := validateFormat(opts.format); err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("max-page-repo") {
				cfg.GitHub.MaxPageRepo = max(1, opts.maxPageRepo)
			}
			if flags.Changed("max-page-stargazer") {
				cfg.GitHub.MaxPageStargazer = max(1, opts.maxPageStargazer)
			}
			if flags.Changed("workers") {
				cfg.GitHub.Workers = max(1, opts.workers)
			}
			hooks := installHooks(c.Logger)

			res, err := c.runResolve(cmd.Context(), hooks, newResolver(cfg), owner, repo)
			if err != nil {
				return err
			}
			return writeNeighbours(cmd.Context(), cmd.OutOrStdout(), res, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, table, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&opts.top, "top", 0, "table format: show only the first N neighbours")
	cmd.Flags().IntVar(&opts.maxPageRepo, "max-page-repo", 0, "stargazer pages to fetch (overrides GITHUB_MAX_PAGE_REPO)")
	cmd.Flags().IntVar(&opts.maxPageStargazer, "max-page-stargazer", 0, "starred pages per stargazer (overrides GITHUB_MAX_PAGE_STARGAZERS)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "stargazers fetched concurrently (overrides GITHUB_WORKERS)")

	return cmd
}

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatTable, formatDOT, formatSVG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want json, table, dot or svg)", format)
}

func (c *CLI) runResolve(ctx context.Context, hooks *logHooks, r *neighbours.Resolver, owner, repo string) (neighbours.Result, error) {
	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Fetching stargazers of %s/%s...", owner, repo))
	hooks.attach(spinner)
	spinner.Start()

	res, err := r.Resolve(ctx, owner, repo)
	hooks.attach(nil)
	spinner.Stop()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *github.RemoteAPIError
		if stderrors.As(err, &apiErr) {
			return nil, errors.Wrap(errors.ErrCodeGitHubAPI, err, "resolve %s/%s", owner, repo)
		}
		return nil, err
	}

	prog.done(fmt.Sprintf("Resolved %d neighbours of %s/%s", len(res), owner, repo))
	if len(res) == 0 {
		printInfo("%s/%s has no stargazers with starred repositories", owner, repo)
	}
	return res, nil
}

// writeNeighbours renders res in the requested format to opts.output, or
// to stdout when no output file is given.
func writeNeighbours(ctx context.Context, stdout io.Writer, res neighbours.Result, opts neighboursOpts) error {
	data, err := renderNeighbours(ctx, res, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Wrote %s neighbours", StyleNumber.Render(strconv.Itoa(len(res))))
	printFile(opts.output)
	return nil
}

func renderNeighbours(ctx context.Context, res neighbours.Result, opts neighboursOpts) ([]byte, error) {
	switch opts.format {
	case formatTable:
		return []byte(renderTable(res, opts.top) + "\n"), nil
	case formatDOT:
		return []byte(res.DOT()), nil
	case formatSVG:
		return neighbours.RenderSVG(ctx, res.DOT())
	default:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
