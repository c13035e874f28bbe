package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecowallet/internal/core"
)

func newIncomeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Read or set the income of a month",
	}
	cmd.AddCommand(newIncomeGetCommand(app), newIncomeSetCommand(app))
	return cmd
}

func newIncomeGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get [YYYY-MM]",
		Short: "Show the income of a month (default current)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var month string
			if len(args) > 0 {
				month = args[0]
			}
			m, err := parseMonth(month, app.now())
			if err != nil {
				return err
			}
			in := app.Client.Income(cmd.Context(), m)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", m, in.Amount.Format())
			return nil
		},
	}
}

func newIncomeSetCommand(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "set AMOUNT",
		Short: "Set the income of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMonth(month, app.now())
			if err != nil {
				return err
			}
			amt, err := core.ParseAmount(args[0])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[0], err)
			}
			saved, err := app.Client.SetIncome(cmd.Context(), m, amt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s income set to %s\n", saved.ID, saved.Amount.Format())
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}
