// Package report turns transaction lists into the figures shown on the
// dashboard and the history chart.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ecowallet/internal/core"
)

// DefaultMonths is the number of monthly buckets: the current month and the
// six before it.
const DefaultMonths = 7

// RecentCount is how many transactions the recent-activity list shows.
const RecentCount = 5

var (
	monthLabels = [12]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}
	dayLabels   = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}
)

// Bucket is one bar of the chart.
type Bucket struct {
	Label   string      `json:"name"`
	Income  core.Amount `json:"income"`
	Expense core.Amount `json:"expense"`
}

func (b *Bucket) add(t core.Transaction) {
	if t.Type == core.Income {
		b.Income = b.Income.Add(t.Amount)
	} else {
		b.Expense = b.Expense.Add(t.Amount)
	}
}

func addByLabel(buckets []Bucket, label string, t core.Transaction) {
	for i := range buckets {
		if buckets[i].Label == label {
			buckets[i].add(t)
			return
		}
	}
}

// MonthlyBuckets returns n buckets labelled by month, oldest first, ending
// with the month of now. A transaction lands in the bucket whose label equals
// its month name; the year is not compared, so with n > 12 only the first of
// two equal labels receives data and a transaction from an earlier year is
// counted in its month's bucket.
func MonthlyBuckets(txs []core.Transaction, now time.Time, n int) []Bucket {
	if n <= 0 {
		n = DefaultMonths
	}
	current := int(now.Month()) - 1
	buckets := make([]Bucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		idx := ((current-i)%12 + 12) % 12
		buckets = append(buckets, Bucket{Label: monthLabels[idx]})
	}
	for _, t := range txs {
		addByLabel(buckets, monthLabels[t.Date.In(now.Location()).Month()-1], t)
	}
	return buckets
}

// WeeklyBuckets returns seven buckets labelled by weekday, ending with today.
// Only transactions dated within those seven days are counted.
func WeeklyBuckets(txs []core.Transaction, now time.Time) []Bucket {
	today := startOfDay(now)
	from := today.AddDate(0, 0, -6)
	to := today.AddDate(0, 0, 1)

	buckets := make([]Bucket, 0, 7)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		buckets = append(buckets, Bucket{Label: dayLabels[d.Weekday()]})
	}
	for _, t := range txs {
		at := t.Date.In(now.Location())
		if at.Before(from) || !at.Before(to) {
			continue
		}
		addByLabel(buckets, dayLabels[at.Weekday()], t)
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FilterMonth keeps the transactions in the calendar month and year of ref.
func FilterMonth(txs []core.Transaction, ref time.Time) []core.Transaction {
	y, m, _ := ref.Date()
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		ty, tm, _ := t.Date.In(ref.Location()).Date()
		if ty == y && tm == m {
			out = append(out, t)
		}
	}
	return out
}

// Summary holds the totals of a set of transactions.
type Summary struct {
	Income  core.Amount `json:"income"`
	Expense core.Amount `json:"expense"`
	// Balance is income minus expense and may be negative.
	Balance core.Amount `json:"balance"`
	// SpentPercent is expense over income as a percentage, capped at 100.
	// Zero income counts as one.
	SpentPercent core.Amount `json:"spentPercent"`
}

var hundred = decimal.NewFromInt(100)

// Summarize totals txs. Extra income, such as the month's recorded income,
// is added to the income side.
func Summarize(txs []core.Transaction, extraIncome ...core.Amount) Summary {
	var s Summary
	for _, t := range txs {
		if t.Type == core.Income {
			s.Income = s.Income.Add(t.Amount)
		} else {
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	for _, a := range extraIncome {
		s.Income = s.Income.Add(a)
	}
	s.Balance = s.Income.Sub(s.Expense)

	divisor := s.Income.Decimal
	if divisor.IsZero() {
		divisor = decimal.NewFromInt(1)
	}
	s.SpentPercent = core.AmountFromDecimal(decimal.Min(s.Expense.Decimal.Div(divisor).Mul(hundred), hundred).Round(1))
	return s
}

// Recent returns up to n transactions, newest first.
func Recent(txs []core.Transaction, n int) []core.Transaction {
	sorted := append([]core.Transaction{}, txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
