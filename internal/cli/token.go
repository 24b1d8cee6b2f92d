package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stargazer/pkg/auth"
	"github.com/matzehuels/stargazer/pkg/users"
)

// tokenCommand creates the token command that issues an access token for
// an existing user without going through POST /token.
func (c *CLI) tokenCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "token <username>",
		Short: "Issue an access token for a user",
		Long: `Issue an access token for a user.

The token is signed with JWT_SECRET_KEY, so it is accepted by any server
sharing that secret. The user must exist in the configured store.`,
		Example: `  curl -H "Authorization: Bearer $(stargazer token jd --raw)" \
    localhost:8000/repos/pallets/flask/starneighbours`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			store, err := users.Open(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer store.Close()

			u, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if u == nil {
				return userNotFound(args[0])
			}
			if !u.Active() {
				printWarning("user %s is disabled; the API will reject this token", u.Username)
			}

			guard := auth.NewGuard([]byte(cfg.Auth.SecretKey), cfg.Auth.Algorithm, cfg.Auth.TokenTTL())
			tok, err := guard.Issue(u.Username)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, tok.AccessToken)
				return nil
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(tok)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print only the token")
	return cmd
}
