package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stargazer/pkg/api"
	"github.com/matzehuels/stargazer/pkg/auth"
	"github.com/matzehuels/stargazer/pkg/users"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the star neighbours HTTP API",
		Long: `Run the star neighbours HTTP API.

The server listens on SERVER_ADDR (default :8000) until interrupted, then
drains in-flight requests for up to SHUTDOWN_TIMEOUT. JWT_SECRET_KEY must
be set, and the user store named by DATABASE_URL must exist (see
"stargazer user init").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			raiseVerbosity(c.Logger, cfg.Log.Level)
			installHooks(c.Logger)

			store, err := users.Open(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer store.Close()

			guard := auth.NewGuard([]byte(cfg.Auth.SecretKey), cfg.Auth.Algorithm, cfg.Auth.TokenTTL())
			resolver := newResolver(cfg)
			server := api.New(resolver, store, guard, c.Logger)

			opts := resolver.Options()
			c.Logger.Info("starting server",
				"github", cfg.GitHub.APIURL,
				"max_page_repo", opts.MaxPageRepo,
				"max_page_stargazer", opts.MaxPageStargazer,
				"workers", opts.Workers,
				"jwt", guard.Algorithm(),
			)
			return server.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER_ADDR)")
	return cmd
}
