// Package commands implements the ecowallet command line client.
package commands

import (
	"time"

	"github.com/spf13/cobra"

	"ecowallet/internal/client"
	"ecowallet/internal/session"
)

// Version is set at build time with -ldflags "-X ecowallet/internal/commands.Version=...".
var Version = "dev"

// App carries what every command needs. It is built once by main.
type App struct {
	Client  *client.Client
	Session *session.Session
	Now     func() time.Time
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ecowallet",
		Short:   "Family budget and shared shopping list",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newDashboardCommand(app),
		newTxCommand(app),
		newShopCommand(app),
		newIncomeCommand(app),
		newChartCommand(app),
	)

	return rootCmd
}
