package firestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecowallet/internal/core"
	"ecowallet/internal/store"
)

func TestTransactionDocRoundTrip(t *testing.T) {
	date := time.Date(2023, 10, 27, 10, 0, 0, 0, time.UTC)
	in := core.Transaction{
		ID: "abc", Title: "Starbucks Coffee", Category: "Food & Drinks",
		Amount: core.MustParseAmount("5.50"), Date: date, Type: core.Expense,
		Icon: core.IconCoffee, CreatedBy: "Dad",
	}
	doc := toTransactionDoc(in)
	if doc.Date != "2023-10-27T10:00:00Z" || doc.Amount != 5.5 {
		t.Fatalf("unexpected doc: %+v", doc)
	}
	out := doc.toCore("abc")
	if out.ID != "abc" || !out.Date.Equal(date) || !out.Amount.Equal(in.Amount) || out.Icon != core.IconCoffee {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestShoppingDocToleratesMissingCreatedAt(t *testing.T) {
	item := shoppingDoc{Name: "Milk", Quantity: 2, Category: "Groceries"}.toCore("x")
	if !item.CreatedAt.IsZero() || item.Quantity != 2 {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestPatchUpdatesOnlyTouchSetFields(t *testing.T) {
	purchased := true
	ups := shoppingUpdates(core.ShoppingPatch{IsPurchased: &purchased})
	if len(ups) != 1 || ups[0].Path != "isPurchased" || ups[0].Value != true {
		t.Fatalf("unexpected updates: %+v", ups)
	}

	amount := core.MustParseAmount("12.99")
	ups = transactionUpdates(core.TransactionPatch{Amount: &amount})
	if len(ups) != 1 || ups[0].Path != "amount" || ups[0].Value != 12.99 {
		t.Fatalf("unexpected updates: %+v", ups)
	}
	if ups := transactionUpdates(core.TransactionPatch{}); len(ups) != 0 {
		t.Fatalf("empty patch produced updates: %+v", ups)
	}
}

func TestIncomeDoc(t *testing.T) {
	in := incomeDoc{Amount: 3000}.toCore("2024-05")
	if in.ID != "2024-05" || in.UpdatedAt != nil || in.Amount.String() != "3000" {
		t.Fatalf("unexpected income: %+v", in)
	}
}

func TestServiceAccountJSONRestoresNewlines(t *testing.T) {
	b, err := ServiceAccountJSON("eco", "svc@eco.iam.gserviceaccount.com", `-----BEGIN KEY-----\nabc\n-----END KEY-----`)
	if err != nil {
		t.Fatal(err)
	}
	var sa map[string]string
	if err := json.Unmarshal(b, &sa); err != nil {
		t.Fatal(err)
	}
	if sa["private_key"] != "-----BEGIN KEY-----\nabc\n-----END KEY-----" || sa["type"] != "service_account" {
		t.Fatalf("unexpected service account: %v", sa)
	}
	if _, err := ServiceAccountJSON("eco", "", "key"); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestWrapNotFound(t *testing.T) {
	err := wrapNotFound(status.Error(codes.NotFound, "no document"), "transaction", "1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	err = wrapNotFound(status.Error(codes.Unavailable, "down"), "transaction", "1")
	if errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unavailable mapped to not found: %v", err)
	}
}

func TestChunkIDs(t *testing.T) {
	ids := make([]string, 1001)
	for i := range ids {
		ids[i] = fmt.Sprintf("item-%d", i)
	}

	tests := []struct {
		name  string
		ids   []string
		sizes []int
	}{
		{"empty", nil, nil},
		{"single", ids[:1], []int{1}},
		{"exactly one batch", ids[:maxBatchWrites], []int{maxBatchWrites}},
		{"one over", ids[:maxBatchWrites+1], []int{maxBatchWrites, 1}},
		{"several", ids, []int{maxBatchWrites, maxBatchWrites, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkIDs(tt.ids, maxBatchWrites)
			if len(chunks) != len(tt.sizes) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.sizes))
			}
			var flat []string
			for i, c := range chunks {
				if len(c) != tt.sizes[i] {
					t.Errorf("chunk %d has %d ids, want %d", i, len(c), tt.sizes[i])
				}
				flat = append(flat, c...)
			}
			if len(flat) != len(tt.ids) {
				t.Fatalf("chunks hold %d ids, want %d", len(flat), len(tt.ids))
			}
			for i := range flat {
				if flat[i] != tt.ids[i] {
					t.Fatalf("id %d = %q, want %q", i, flat[i], tt.ids[i])
				}
			}
		})
	}
}
