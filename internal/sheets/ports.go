// Package sheets maps ledger events onto spreadsheet rows.
package sheets

import (
	"context"
	"errors"
	"time"

	"ecowallet/internal/core"
	"ecowallet/internal/events"
)

// ErrUnsupportedEvent marks events that have no ledger row.
var ErrUnsupportedEvent = errors.New("event has no ledger row")

// Header is the first row of the ledger sheet; EventRow fills the columns in
// this order.
var Header = []any{"Occurred At", "Event", "ID", "Date", "Title", "Category", "Type", "Amount", "User"}

// Ports for outbound adapters.
type (
	LedgerAppender interface {
		// AppendRow adds one row after the last used row and returns its A1
		// range.
		AppendRow(ctx context.Context, row []any) (rowRef string, err error)
	}

	HeaderWriter interface {
		EnsureHeader(ctx context.Context) error
	}
)

// EventRow renders a transaction or income event as an audit row. Amounts
// are plain decimal strings so the sheet parses them as numbers.
func EventRow(ev events.Event) ([]any, error) {
	occurred := ev.OccurredAt.UTC().Format(time.RFC3339)
	switch ev.Type {
	case events.TransactionCreated, events.TransactionUpdated:
		if ev.Transaction == nil {
			return nil, errors.New("transaction event without transaction")
		}
		t := ev.Transaction
		user := ev.User
		if user == "" {
			user = t.CreatedBy
		}
		return []any{occurred, ev.Type, t.ID, t.Date.UTC().Format("2006-01-02"), t.Title, t.Category, string(t.Type), t.Amount.StringFixed(2), user}, nil
	case events.TransactionDeleted:
		return []any{occurred, ev.Type, ev.ID, "", "", "", "", "", ev.User}, nil
	case events.IncomeSet:
		if ev.Income == nil {
			return nil, errors.New("income event without income")
		}
		return []any{occurred, ev.Type, string(ev.Income.ID), string(ev.Income.ID), "Monthly income", "", string(core.Income), ev.Income.Amount.StringFixed(2), ev.User}, nil
	default:
		return nil, ErrUnsupportedEvent
	}
}
