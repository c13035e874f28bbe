package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ecowallet/internal/events"
	"ecowallet/internal/metrics"
	"ecowallet/internal/sheets"
)

// Mirror appends every transaction and income event to the ledger sheet.
type Mirror struct {
	sheets  sheets.LedgerAppender
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewMirror(appender sheets.LedgerAppender, m *metrics.Metrics, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{sheets: appender, metrics: m, logger: logger}
}

// Start writes the sheet header when the appender supports it.
func (w *Mirror) Start(ctx context.Context) error {
	hw, ok := w.sheets.(sheets.HeaderWriter)
	if !ok {
		return nil
	}
	if err := hw.EnsureHeader(ctx); err != nil {
		return fmt.Errorf("ensure ledger header: %w", err)
	}
	return nil
}

// Handle processes one ledger event. Events without a ledger row are
// acknowledged and skipped; an append failure is returned so the message is
// requeued.
func (w *Mirror) Handle(ctx context.Context, ev events.Event) error {
	row, err := sheets.EventRow(ev)
	if errors.Is(err, sheets.ErrUnsupportedEvent) {
		w.logger.DebugContext(ctx, "Skipping event without ledger row", "event_type", ev.Type)
		w.metrics.Event(ev.Type, "skipped")
		return nil
	}
	if err != nil {
		// A malformed payload will not get better on redelivery.
		w.logger.ErrorContext(ctx, "Dropping malformed event", "event_type", ev.Type, "id", ev.ID, "error", err)
		w.metrics.Event(ev.Type, "dropped")
		return nil
	}

	ref, err := w.sheets.AppendRow(ctx, row)
	if err != nil {
		w.metrics.Event(ev.Type, "failed")
		return fmt.Errorf("append %s %s: %w", ev.Type, ev.ID, err)
	}

	w.metrics.Event(ev.Type, "mirrored")
	w.logger.InfoContext(ctx, "Mirrored ledger event",
		"event_type", ev.Type,
		"id", ev.ID,
		"range", ref)
	return nil
}
