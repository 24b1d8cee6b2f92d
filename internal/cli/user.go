package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stargazer/pkg/auth"
	"github.com/matzehuels/stargazer/pkg/config"
	"github.com/matzehuels/stargazer/pkg/errors"
	"github.com/matzehuels/stargazer/pkg/users"
)

// envPassword supplies the password for "user create" without a flag.
const envPassword = "STARGAZER_PASSWORD"

// userCommand creates the user command group for managing API accounts.
func (c *CLI) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
		Long: `Manage the users allowed to request access tokens.

The store is selected by DATABASE_URL (default file://database/users).`,
	}

	cmd.AddCommand(c.userInitCommand())
	cmd.AddCommand(c.userCreateCommand())
	cmd.AddCommand(c.userSetDisabledCommand("disable", true))
	cmd.AddCommand(c.userSetDisabledCommand("enable", false))
	cmd.AddCommand(c.userShowCommand())

	return cmd
}

// userNotFound reports a missing user with the NOT_FOUND code.
func userNotFound(username string) error {
	return errors.Wrap(errors.ErrCodeNotFound, users.ErrNotFound, "user %q", username)
}

// withStore opens the configured user store, runs fn and closes the store.
func (c *CLI) withStore(ctx context.Context, fn func(users.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := users.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) userInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the user store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := users.Init(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Ping(cmd.Context()); err != nil {
				return err
			}
			printSuccess("User store ready")
			printKeyValue("database", config.MaskURL(cfg.Database.URL))
			return nil
		},
	}
}

func (c *CLI) userCreateCommand() *cobra.Command {
	var (
		email    string
		password string
		disabled bool
	)

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Example: `  stargazer user create jd --email jd@stargazer.com --password secret
  STARGAZER_PASSWORD=secret stargazer user create sileht --email sileht@stargazer.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				password = os.Getenv(envPassword)
			}
			if err := errors.ValidateUsername(username); err != nil {
				return err
			}
			if err := errors.ValidateEmail(email); err != nil {
				return err
			}
			if err := errors.ValidatePassword(password); err != nil {
				return err
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			u := users.New(username, email, hash)
			u.Disabled = disabled

			return c.withStore(cmd.Context(), func(store users.Store) error {
				if err := store.Create(cmd.Context(), u); err != nil {
					return err
				}
				printSuccess("Created user %s", StyleValue.Render(username))
				printKeyValue("id", u.ID)
				printKeyValue("email", u.Email)
				if disabled {
					printWarning("user is disabled")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (default $"+envPassword+")")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the user disabled")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (c *CLI) userSetDisabledCommand(name string, disabled bool) *cobra.Command {
	short := "Enable a user"
	if disabled {
		short = "Disable a user"
	}
	return &cobra.Command{
		Use:   name + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store users.Store) error {
				err := store.SetDisabled(cmd.Context(), args[0], disabled)
				if stderrors.Is(err, users.ErrNotFound) {
					return userNotFound(args[0])
				}
				if err != nil {
					return err
				}
				printSuccess("User %s %sd", StyleValue.Render(args[0]), name)
				return nil
			})
		},
	}
}

func (c *CLI) userShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store users.Store) error {
				u, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if u == nil {
					return userNotFound(args[0])
				}
				status := "active"
				if !u.Active() {
					status = "disabled"
				}
				fmt.Fprintln(statusOut, StyleTitle.Render(u.Username))
				printKeyValue("id", u.ID)
				printKeyValue("email", u.Email)
				printKeyValue("status", status)
				return nil
			})
		},
	}
}
