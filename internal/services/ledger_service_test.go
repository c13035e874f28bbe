package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ecowallet/internal/core"
	"ecowallet/internal/events"
	"ecowallet/internal/store"
	"ecowallet/internal/store/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func TestLedgerServicePublishesMutations(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewLedgerService(memory.New(), pub, nil)
	ctx := context.Background()

	created, err := svc.AddTransaction(ctx, core.Transaction{Title: "Salary", Amount: core.MustParseAmount("2000"), Type: core.Income})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	title := "Salary March"
	if _, err := svc.UpdateTransaction(ctx, created.ID, core.TransactionPatch{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.SetIncome(ctx, core.MonthlyIncome{ID: "2024-03", Amount: core.MustParseAmount("2000")}); err != nil {
		t.Fatalf("set income: %v", err)
	}
	if _, err := svc.ClearPurchased(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	want := []string{events.TransactionCreated, events.TransactionUpdated, events.TransactionDeleted, events.IncomeSet}
	got := pub.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}

	if err := svc.Close(); err != nil || !pub.closed {
		t.Fatalf("close: err=%v closed=%v", err, pub.closed)
	}
}

func TestLedgerServiceIgnoresPublishFailures(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewLedgerService(memory.New(), pub, nil)

	if _, err := svc.AddTransaction(context.Background(), core.Transaction{Title: "Gas", Amount: core.MustParseAmount("40"), Type: core.Expense}); err != nil {
		t.Fatalf("publish failure leaked into the write: %v", err)
	}
	txs, _ := svc.ListTransactions(context.Background())
	if len(txs) != 1 {
		t.Fatalf("transaction not saved: %+v", txs)
	}
}

func TestLedgerServiceKeepsNotFound(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil, nil)
	if err := svc.DeleteTransaction(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
