package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ecowallet/internal/store"
	"ecowallet/internal/store/storetest"
)

func TestMemoryStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No files -> demo data
	s := NewFromFiles(dir)
	txs, _ := s.ListTransactions(context.Background())
	items, _ := s.ListShoppingItems(context.Background())
	if len(txs) != 2 || len(items) != 2 {
		t.Fatalf("expected demo seed, got %d transactions and %d items", len(txs), len(items))
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("seed_transactions.json", `[{"title":"Rent","amount":900,"type":"expense","icon":"Home"}]`)
	mustWrite("seed_shopping.json", `[{"name":"Rice"},{"name":"Beans","quantity":2}]`)

	s = NewFromFiles(dir)
	txs, _ = s.ListTransactions(context.Background())
	if len(txs) != 1 || txs[0].Title != "Rent" || txs[0].ID == "" || txs[0].Date.IsZero() {
		t.Fatalf("unexpected seeded transactions: %+v", txs)
	}
	items, _ = s.ListShoppingItems(context.Background())
	if len(items) != 2 || items[0].Quantity != 1 || items[0].Category != "Groceries" || items[1].Quantity != 2 {
		t.Fatalf("unexpected seeded items: %+v", items)
	}
}

func TestListReturnsCopies(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	items, _ := s.ListShoppingItems(context.Background())
	items[0].Name = "mutated"
	again, _ := s.ListShoppingItems(context.Background())
	if again[0].Name == "mutated" {
		t.Fatal("list leaked internal slice")
	}
}
