package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ecowallet/internal/core"
	"ecowallet/internal/store"
	"ecowallet/internal/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "ecowallet.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newTestStore(t) })
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecowallet.db")
	first, err := New(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	ctx := context.Background()
	if _, err := first.AddTransaction(ctx, core.Transaction{
		Title: "Rent", Amount: core.MustParseAmount("900"), Date: time.Now(), Type: core.Expense,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	txs, err := second.ListTransactions(ctx)
	if err != nil || len(txs) != 1 {
		t.Fatalf("data lost across reopen: %+v err=%v", txs, err)
	}
}

func TestAmountsRoundTripExactly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.AddTransaction(ctx, core.Transaction{
		Title: "Groceries", Amount: core.MustParseAmount("0.10"), Date: time.Now(), Type: core.Expense,
	})
	if err != nil {
		t.Fatal(err)
	}
	txs, _ := s.ListTransactions(ctx)
	if len(txs) != 1 || txs[0].ID != created.ID || txs[0].Amount.String() != "0.1" {
		t.Fatalf("unexpected amount: %+v", txs)
	}
}

func TestSetIncomeKeepsUpdatedAtWhenOmitted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.SetIncome(ctx, core.MonthlyIncome{ID: "2024-02", Amount: core.MustParseAmount("100"), UpdatedAt: &at}); err != nil {
		t.Fatal(err)
	}
	got, err := s.SetIncome(ctx, core.MonthlyIncome{ID: "2024-02", Amount: core.MustParseAmount("150")})
	if err != nil {
		t.Fatal(err)
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(at) || got.Amount.String() != "150" {
		t.Fatalf("merge lost fields: %+v", got)
	}
}
