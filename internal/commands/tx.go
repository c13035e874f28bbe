package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ecowallet/internal/core"
	"ecowallet/internal/report"
)

func newTxCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "List and edit transactions",
	}
	cmd.AddCommand(
		newTxListCommand(app),
		newTxAddCommand(app),
		newTxEditCommand(app),
		newTxRemoveCommand(app),
	)
	return cmd
}

func newTxListCommand(app *App) *cobra.Command {
	var month string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the transactions of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			txs := app.Client.Transactions(cmd.Context())
			if !all {
				m, err := parseMonth(month, now)
				if err != nil {
					return err
				}
				txs = report.FilterMonth(txs, monthRef(m, now))
			}
			printTransactions(cmd.OutOrStdout(), report.Recent(txs, -1))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	cmd.Flags().BoolVar(&all, "all", false, "list every transaction")
	return cmd
}

func newTxAddCommand(app *App) *cobra.Command {
	var (
		title    string
		amount   string
		category string
		typ      string
		date     string
		icon     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense or an income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			amt, err := core.ParseAmount(amount)
			if err != nil {
				return fmt.Errorf("amount %q: %w", amount, err)
			}
			tt, err := core.ParseTransactionType(typ)
			if err != nil {
				return err
			}
			at, err := parseDate(date, now)
			if err != nil {
				return err
			}

			t := core.Transaction{
				Title:    title,
				Category: category,
				Amount:   amt,
				Date:     at,
				Type:     tt,
				Icon:     core.Icon(icon),
			}
			if c, ok := core.LookupCategory(category); ok {
				t.Category = c.Name
				if t.Title == "" {
					t.Title = c.Name
				}
			}

			created, err := app.Client.AddTransaction(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", created.Title, signed(created), created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "title (defaults to the category name)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 12.50 (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&category, "category", "other", "category")
	cmd.Flags().StringVar(&typ, "type", string(core.Expense), "expense or income")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default now)")
	cmd.Flags().StringVar(&icon, "icon", "", "icon tag (default from category)")
	return cmd
}

func newTxEditCommand(app *App) *cobra.Command {
	var (
		title    string
		amount   string
		category string
		typ      string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p core.TransactionPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				p.Title = &title
			}
			if flags.Changed("amount") {
				amt, err := core.ParseAmount(amount)
				if err != nil {
					return fmt.Errorf("amount %q: %w", amount, err)
				}
				p.Amount = &amt
			}
			if flags.Changed("type") {
				tt, err := core.ParseTransactionType(typ)
				if err != nil {
					return err
				}
				p.Type = &tt
			}
			if flags.Changed("category") {
				kind := core.Expense
				if p.Type != nil {
					kind = *p.Type
				}
				icon := core.IconFor(category, kind)
				if c, ok := core.LookupCategory(category); ok {
					category = c.Name
				}
				p.Category = &category
				p.Icon = &icon
			}
			if flags.Changed("date") {
				at, err := parseDate(date, app.now())
				if err != nil {
					return err
				}
				p.Date = &at
			}
			if p.IsEmpty() {
				return errors.New("nothing to change: pass at least one flag")
			}

			updated, err := app.Client.UpdateTransaction(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", updated.Title, signed(updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&typ, "type", "", "expense or income")
	cmd.Flags().StringVar(&date, "date", "", "new date as YYYY-MM-DD")
	return cmd
}

func newTxRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
