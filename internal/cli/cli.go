// Package cli implements the stargazer command-line interface.
//
// The CLI serves the star neighbours API, runs resolutions directly from
// the terminal, and manages the user store the API authenticates against.
// It is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
//   - serve: Run the HTTP API
//   - neighbours: Resolve the star neighbours of a repository
//   - user: Initialise the user store and manage accounts
//   - token: Issue an access token for an existing user
//   - version, completion: Build information and shell completions
//
// # Configuration
//
// Every command reads the same configuration: an optional TOML file
// (--config or $STARGAZER_CONFIG) overridden by environment variables.
// See package config for the keys.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Commands log
// through the CLI's logger; status lines go to stderr so command output on
// stdout can be piped.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stargazer/pkg/buildinfo"
	"github.com/matzehuels/stargazer/pkg/config"
	"github.com/matzehuels/stargazer/pkg/integrations/github"
	"github.com/matzehuels/stargazer/pkg/neighbours"
)

// appName is the application name used for display.
const appName = "stargazer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stargazer finds the star neighbours of GitHub repositories",
		Long:         `Stargazer ranks the repositories that the stargazers of a GitHub repository also starred, either through an authenticated HTTP API or directly from the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvFile+")")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.neighboursCommand())
	root.AddCommand(c.userCommand())
	root.AddCommand(c.tokenCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads the configuration for the current invocation.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "config", cfg.String())
	return cfg, nil
}

// newResolver builds the GitHub client and resolver described by cfg.
func newResolver(cfg *config.Config) *neighbours.Resolver {
	client := github.NewClient(github.Options{
		Token:   cfg.GitHub.Token,
		BaseURL: cfg.GitHub.APIURL,
		Timeout: cfg.GitHub.Timeout.Duration,
	})
	return neighbours.NewResolver(client, neighbours.Options{
		MaxPageRepo:      cfg.GitHub.MaxPageRepo,
		MaxPageStargazer: cfg.GitHub.MaxPageStargazer,
		Workers:          cfg.GitHub.Workers,
	})
}
