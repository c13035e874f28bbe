package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ecowallet/internal/client"
)

func newLoginCommand(app *App) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "login NAME",
		Short: "Choose who you are (" + strings.Join(presetNames(), ", ") + " or any name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Login(args[0]); err != nil {
				return err
			}
			if server != "" {
				if err := app.Session.SetServerURL(server); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", app.Session.UserName())
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "API base URL to remember, e.g. https://eco.example/api")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current user and cached incomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Session.LoggedIn() {
				return errors.New("not logged in")
			}
			if err := app.Session.Logout(client.KeyIncomePrefix); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user new records are attributed to",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			name := app.Session.UserName()
			if !app.Session.LoggedIn() {
				name += " (not logged in)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
		},
	}
}
