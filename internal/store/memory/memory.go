package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecowallet/internal/core"
	"ecowallet/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	shopping     []core.ShoppingItem
	incomes      map[core.MonthID]core.MonthlyIncome
	now          func() time.Time
}

func New() *Store {
	return &Store{
		incomes: make(map[core.MonthID]core.MonthlyIncome),
		now:     time.Now,
	}
}

// NewFromFiles seeds the store from seed_transactions.json and
// seed_shopping.json under base, falling back to a small demo data set when
// either file is missing or unreadable.
func NewFromFiles(base string) *Store {
	s := New()
	now := s.now()

	var txs []core.Transaction
	if !readSeed(filepath.Join(base, "seed_transactions.json"), &txs) {
		txs = demoTransactions(now)
	}
	var items []core.ShoppingItem
	if !readSeed(filepath.Join(base, "seed_shopping.json"), &items) {
		items = demoShopping(now)
	}

	for _, t := range txs {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.ApplyDefaults(now)
		s.transactions = append(s.transactions, t)
	}
	for _, i := range items {
		if i.ID == "" {
			i.ID = uuid.NewString()
		}
		i.ApplyDefaults(now)
		s.shopping = append(s.shopping, i)
	}
	return s
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.transactions...), nil
}

func (s *Store) AddTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i] = p.Apply(s.transactions[i])
			return s.transactions[i], nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
}

func (s *Store) ListShoppingItems(_ context.Context) ([]core.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ShoppingItem{}, s.shopping...), nil
}

func (s *Store) AddShoppingItem(_ context.Context, item core.ShoppingItem) (core.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = uuid.NewString()
	s.shopping = append(s.shopping, item)
	return item, nil
}

func (s *Store) UpdateShoppingItem(_ context.Context, id string, p core.ShoppingPatch) (core.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shopping {
		if s.shopping[i].ID == id {
			s.shopping[i] = p.Apply(s.shopping[i])
			return s.shopping[i], nil
		}
	}
	return core.ShoppingItem{}, fmt.Errorf("shopping item %s: %w", id, store.ErrNotFound)
}

func (s *Store) DeleteShoppingItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shopping {
		if s.shopping[i].ID == id {
			s.shopping = append(s.shopping[:i], s.shopping[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("shopping item %s: %w", id, store.ErrNotFound)
}

// ClearPurchased filters and replaces the list under one lock.
func (s *Store) ClearPurchased(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]core.ShoppingItem, 0, len(s.shopping))
	for _, item := range s.shopping {
		if !item.IsPurchased {
			kept = append(kept, item)
		}
	}
	removed := len(s.shopping) - len(kept)
	s.shopping = kept
	return removed, nil
}

func (s *Store) ListPurchasedIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, item := range s.shopping {
		if item.IsPurchased {
			ids = append(ids, item.ID)
		}
	}
	return ids, nil
}

// DeleteShoppingItems removes the given ids; unknown ids are ignored.
func (s *Store) DeleteShoppingItems(_ context.Context, ids []string) (int, error) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]core.ShoppingItem, 0, len(s.shopping))
	for _, item := range s.shopping {
		if _, ok := drop[item.ID]; !ok {
			kept = append(kept, item)
		}
	}
	removed := len(s.shopping) - len(kept)
	s.shopping = kept
	return removed, nil
}

func (s *Store) GetIncome(_ context.Context, month core.MonthID) (core.MonthlyIncome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.incomes[month]
	if !ok {
		return core.MonthlyIncome{}, fmt.Errorf("income %s: %w", month, store.ErrNotFound)
	}
	return in, nil
}

func (s *Store) SetIncome(_ context.Context, in core.MonthlyIncome) (core.MonthlyIncome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := s.incomes[in.ID]
	merged.ID = in.ID
	merged.Amount = in.Amount
	if in.UpdatedAt != nil {
		merged.UpdatedAt = in.UpdatedAt
	}
	s.incomes[in.ID] = merged
	return merged, nil
}

func (s *Store) Close() error { return nil }

func readSeed(path string, v any) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func demoTransactions(now time.Time) []core.Transaction {
	return []core.Transaction{
		{
			ID: "1", Title: "Starbucks Coffee", Category: "Food & Drinks",
			Amount: core.MustParseAmount("5.50"), Date: now, Type: core.Expense,
			Icon: core.IconCoffee, CreatedBy: "Dad",
		},
		{
			ID: "2", Title: "Apple Subscription", Category: "Entertainment",
			Amount: core.MustParseAmount("12.99"), Date: now.Add(-24 * time.Hour), Type: core.Expense,
			Icon: core.IconMusic, CreatedBy: "Mom",
		},
	}
}

func demoShopping(now time.Time) []core.ShoppingItem {
	return []core.ShoppingItem{
		{ID: "1", Name: "Organic Avocado", Quantity: 3, Category: "Groceries", AddedBy: "Mom", CreatedAt: now},
		{ID: "2", Name: "Almond Milk", Quantity: 1, Category: "Groceries", AddedBy: "Dad", CreatedAt: now},
	}
}
