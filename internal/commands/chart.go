package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"ecowallet/internal/report"
)

const barWidth = 30

func newChartCommand(app *App) *cobra.Command {
	var weekly bool
	var months int

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Income and expense per month (or per day with --weekly)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			txs := app.Client.Transactions(cmd.Context())
			var buckets []report.Bucket
			if weekly {
				buckets = report.WeeklyBuckets(txs, app.now())
			} else {
				buckets = report.MonthlyBuckets(txs, app.now(), months)
			}
			printChart(cmd.OutOrStdout(), buckets)
			return nil
		},
	}

	cmd.Flags().BoolVar(&weekly, "weekly", false, "show the last seven days")
	cmd.Flags().IntVar(&months, "months", report.DefaultMonths, "number of months")
	return cmd
}

func printChart(w io.Writer, buckets []report.Bucket) {
	peak := decimal.Zero
	for _, b := range buckets {
		peak = decimal.Max(peak, b.Income.Decimal, b.Expense.Decimal)
	}

	tw := newTable(w)
	for _, b := range buckets {
		fmt.Fprintf(tw, "%s\tin\t%s\t%s\n", b.Label, bar(b.Income.Decimal, peak, "+"), b.Income.Format())
		fmt.Fprintf(tw, "\tout\t%s\t%s\n", bar(b.Expense.Decimal, peak, "-"), b.Expense.Format())
	}
	tw.Flush()
}

func bar(v, peak decimal.Decimal, glyph string) string {
	if peak.IsZero() || v.IsZero() {
		return ""
	}
	n := int(v.Div(peak).Mul(decimal.NewFromInt(barWidth)).Ceil().IntPart())
	return strings.Repeat(glyph, n)
}
