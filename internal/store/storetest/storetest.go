// Package storetest holds behaviour checks every store.Store implementation
// must pass.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecowallet/internal/core"
	"ecowallet/internal/store"
)

// Run exercises s, which must start empty.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
	t.Run("shopping", func(t *testing.T) { testShopping(t, newStore(t)) })
	t.Run("clear purchased", func(t *testing.T) { testClearPurchased(t, newStore(t)) })
	t.Run("direct batch delete", func(t *testing.T) { testBatchDelete(t, newStore(t)) })
	t.Run("income", func(t *testing.T) { testIncome(t, newStore(t)) })
	t.Run("not found", func(t *testing.T) { testNotFound(t, newStore(t)) })
}

func testTransactions(t *testing.T, s store.Store) {
	ctx := context.Background()
	date := time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC)

	created, err := s.AddTransaction(ctx, core.Transaction{
		Title: "Coffee", Category: "Food", Amount: core.MustParseAmount("3.40"),
		Date: date, Type: core.Expense, Icon: core.IconCoffee, CreatedBy: "Dad",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == "" {
		t.Fatal("store did not assign an id")
	}

	title := "Espresso"
	amount := core.MustParseAmount("2.10")
	updated, err := s.UpdateTransaction(ctx, created.ID, core.TransactionPatch{Title: &title, Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Espresso" || !updated.Amount.Equal(amount) || updated.Category != "Food" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.Date.Equal(date) || updated.CreatedBy != "Dad" || updated.Icon != core.IconCoffee {
		t.Fatalf("patch touched unrelated fields: %+v", updated)
	}

	list, err := s.ListTransactions(ctx)
	if err != nil || len(list) != 1 || list[0].Title != "Espresso" {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}

	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = s.ListTransactions(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(list))
	}
}

func testShopping(t *testing.T, s store.Store) {
	ctx := context.Background()
	item := core.ShoppingItem{Name: "Milk", AddedBy: "Mom"}
	item.ApplyDefaults(time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC))

	created, err := s.AddShoppingItem(ctx, item)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == "" || created.Quantity != 1 || created.Category != "Groceries" {
		t.Fatalf("unexpected created item: %+v", created)
	}

	purchased := true
	buyer := "Dad"
	patch := core.ShoppingPatch{IsPurchased: &purchased, BoughtBy: &buyer}
	once, err := s.UpdateShoppingItem(ctx, created.ID, patch)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	twice, err := s.UpdateShoppingItem(ctx, created.ID, patch)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if !once.IsPurchased || once.BoughtBy != "Dad" {
		t.Fatalf("unexpected patched item: %+v", once)
	}
	if once.IsPurchased != twice.IsPurchased || once.BoughtBy != twice.BoughtBy || once.Quantity != twice.Quantity {
		t.Fatalf("repeated patch changed the item: %+v vs %+v", once, twice)
	}

	if err := s.DeleteShoppingItem(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ := s.ListShoppingItems(ctx)
	if len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}

func testClearPurchased(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now()
	first, _ := s.AddShoppingItem(ctx, core.ShoppingItem{Name: "Eggs", Quantity: 1, Category: "Groceries", IsPurchased: true, CreatedAt: now})
	second, _ := s.AddShoppingItem(ctx, core.ShoppingItem{Name: "Bread", Quantity: 1, Category: "Groceries", CreatedAt: now})

	count, err := s.ClearPurchased(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	items, _ := s.ListShoppingItems(ctx)
	if len(items) != 1 || items[0].ID != second.ID {
		t.Fatalf("expected only %s left, got %+v (cleared %s)", second.ID, items, first.ID)
	}

	count, err = s.ClearPurchased(ctx)
	if err != nil || count != 0 {
		t.Fatalf("second clear: count=%d err=%v", count, err)
	}
}

func testBatchDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now()
	a, _ := s.AddShoppingItem(ctx, core.ShoppingItem{Name: "A", Quantity: 1, Category: "Groceries", IsPurchased: true, CreatedAt: now})
	b, _ := s.AddShoppingItem(ctx, core.ShoppingItem{Name: "B", Quantity: 1, Category: "Groceries", IsPurchased: true, CreatedAt: now})
	_, _ = s.AddShoppingItem(ctx, core.ShoppingItem{Name: "C", Quantity: 1, Category: "Groceries", CreatedAt: now})

	ids, err := s.ListPurchasedIDs(ctx)
	if err != nil || len(ids) != 2 {
		t.Fatalf("expected 2 purchased ids, got %v err=%v", ids, err)
	}
	n, err := s.DeleteShoppingItems(ctx, []string{a.ID, b.ID})
	if err != nil || n != 2 {
		t.Fatalf("batch delete: n=%d err=%v", n, err)
	}
	items, _ := s.ListShoppingItems(ctx)
	if len(items) != 1 || items[0].Name != "C" {
		t.Fatalf("unexpected remaining items: %+v", items)
	}
	if n, err := s.DeleteShoppingItems(ctx, nil); err != nil || n != 0 {
		t.Fatalf("empty batch: n=%d err=%v", n, err)
	}
}

func testIncome(t *testing.T, s store.Store) {
	ctx := context.Background()
	if _, err := s.GetIncome(ctx, "2024-05"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	if _, err := s.SetIncome(ctx, core.MonthlyIncome{ID: "2024-05", Amount: core.MustParseAmount("3000"), UpdatedAt: &at}); err != nil {
		t.Fatalf("set: %v", err)
	}
	later := at.Add(time.Hour)
	if _, err := s.SetIncome(ctx, core.MonthlyIncome{ID: "2024-05", Amount: core.MustParseAmount("3200.50"), UpdatedAt: &later}); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, err := s.GetIncome(ctx, "2024-05")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "2024-05" || !got.Amount.Equal(core.MustParseAmount("3200.50")) {
		t.Fatalf("unexpected income: %+v", got)
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(later) {
		t.Fatalf("updatedAt not merged: %v", got.UpdatedAt)
	}
}

func testNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()
	title := "x"
	if _, err := s.UpdateTransaction(ctx, "missing", core.TransactionPatch{Title: &title}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update transaction: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete transaction: expected ErrNotFound, got %v", err)
	}
	qty := 2
	if _, err := s.UpdateShoppingItem(ctx, "missing", core.ShoppingPatch{Quantity: &qty}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update item: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteShoppingItem(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete item: expected ErrNotFound, got %v", err)
	}
}
