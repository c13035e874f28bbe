package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"ecowallet/internal/core"
	"ecowallet/internal/session"
)

const dateLayout = "2006-01-02"

func presetNames() []string {
	return session.Presets
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func signed(t core.Transaction) string {
	if t.Type == core.Income {
		return "+" + t.Amount.Format()
	}
	return "-" + t.Amount.Format()
}

func printTransactions(w io.Writer, txs []core.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(w, "No transactions.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\t\tTITLE\tCATEGORY\tAMOUNT\tBY")
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date.Local().Format("Jan 02 15:04"), t.Icon.Glyph(), t.Title, t.Category, signed(t), t.CreatedBy)
	}
	tw.Flush()
}

func printShopping(w io.Writer, items []core.ShoppingItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Shopping list is empty.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\t\tNAME\tQTY\tCATEGORY\tADDED BY\tBOUGHT BY\tID")
	for i, it := range items {
		mark := "[ ]"
		if it.IsPurchased {
			mark = "[x]"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			i+1, mark, it.Name, it.Quantity, it.Category, it.AddedBy, it.BoughtBy, it.ID)
	}
	tw.Flush()
}

// resolveItem accepts a 1-based position, a full id or a unique id prefix.
func resolveItem(items []core.ShoppingItem, ref string) (string, error) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1].ID, nil
	}
	var match string
	for _, it := range items {
		if it.ID == ref {
			return it.ID, nil
		}
		if strings.HasPrefix(it.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%q matches more than one item", ref)
			}
			match = it.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no item matches %q", ref)
	}
	return match, nil
}

func parseMonth(s string, now time.Time) (core.MonthID, error) {
	if s == "" {
		return core.MonthIDOf(now), nil
	}
	m, err := core.ParseMonthID(s)
	if err != nil {
		return "", fmt.Errorf("month %q: want YYYY-MM: %w", s, err)
	}
	return m, nil
}

// monthRef returns a time inside m in now's location.
func monthRef(m core.MonthID, now time.Time) time.Time {
	start := m.Start()
	return time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, now.Location())
}

func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

// offlineNotice reports a write that changed the local view but failed to
// reach the server.
func offlineNotice(w io.Writer, err error) {
	fmt.Fprintf(w, "warning: change not saved on the server: %v\n", err)
}
