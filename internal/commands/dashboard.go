package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecowallet/internal/report"
)

func newDashboardCommand(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Month overview: income, spending and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			m, err := parseMonth(month, now)
			if err != nil {
				return err
			}

			d := app.Client.Dashboard(cmd.Context(), m)
			txs := report.FilterMonth(d.Transactions, monthRef(m, now))
			sum := report.Summarize(txs, d.Income.Amount)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n\n", m, app.Session.UserName())
			tw := newTable(out)
			fmt.Fprintf(tw, "Income\t%s\n", sum.Income.Format())
			fmt.Fprintf(tw, "Spent\t%s\t%s%%\n", sum.Expense.Format(), sum.SpentPercent.String())
			fmt.Fprintf(tw, "Balance\t%s\n", sum.Balance.Format())
			tw.Flush()

			fmt.Fprintln(out, "\nRecent activity")
			printTransactions(out, report.Recent(txs, report.RecentCount))

			var toBuy int
			for _, it := range d.Shopping {
				if !it.IsPurchased {
					toBuy++
				}
			}
			fmt.Fprintf(out, "\nShopping: %d items to buy\n", toBuy)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}
