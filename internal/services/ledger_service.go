package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ecowallet/internal/core"
	"ecowallet/internal/events"
	"ecowallet/internal/metrics"
	"ecowallet/internal/store"
)

// Publisher is the outbound side of the ledger event stream.
type Publisher interface {
	Publish(ctx context.Context, ev events.Event) error
	Close() error
}

// LedgerService decorates a store so that every successful mutation is
// announced on the event stream. Publishing is best effort: the write has
// already happened, so a publish failure is logged and never returned.
type LedgerService struct {
	store.Store
	publisher Publisher
	metrics   *metrics.Metrics
}

var _ store.Store = (*LedgerService)(nil)

// NewLedgerService wraps st. A nil publisher turns the service into a
// pass-through.
func NewLedgerService(st store.Store, publisher Publisher, m *metrics.Metrics) *LedgerService {
	return &LedgerService{Store: st, publisher: publisher, metrics: m}
}

func (s *LedgerService) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.Store.AddTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, events.NewTransactionEvent(events.TransactionCreated, created))
	return created, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	updated, err := s.Store.UpdateTransaction(ctx, id, p)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.publish(ctx, events.NewTransactionEvent(events.TransactionUpdated, updated))
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.Store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, events.NewDeleteEvent(id))
	return nil
}

func (s *LedgerService) ClearPurchased(ctx context.Context) (int, error) {
	n, err := s.Store.ClearPurchased(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear purchased: %w", err)
	}
	if n > 0 {
		s.publish(ctx, events.NewClearedEvent(n))
	}
	return n, nil
}

func (s *LedgerService) SetIncome(ctx context.Context, in core.MonthlyIncome) (core.MonthlyIncome, error) {
	saved, err := s.Store.SetIncome(ctx, in)
	if err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("save income: %w", err)
	}
	s.publish(ctx, events.NewIncomeEvent(saved))
	return saved, nil
}

func (s *LedgerService) publish(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"event_type", ev.Type, "id", ev.ID, "error", err)
		s.metrics.Event(ev.Type, "failed")
		return
	}
	s.metrics.Event(ev.Type, "published")
}

// Close closes the publisher and the underlying store.
func (s *LedgerService) Close() error {
	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
