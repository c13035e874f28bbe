// Package shoplist keeps the local view of the shared shopping list. Every
// mutation is applied to the local slice first and then sent to the backend;
// a failed call is reported to the caller but the local change is kept, so
// the view may differ from the server until the next Reload.
package shoplist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecowallet/internal/core"
)

// PendingPrefix marks items added locally whose server id is not known yet.
const PendingPrefix = "pending-"

// ErrUnknownItem is returned for ids not present in the local list.
var ErrUnknownItem = errors.New("item not in list")

// Backend is the subset of the data-access layer the list needs.
type Backend interface {
	ShoppingItems(ctx context.Context) []core.ShoppingItem
	AddShoppingItem(ctx context.Context, item core.ShoppingItem) (core.ShoppingItem, error)
	UpdateShoppingItem(ctx context.Context, id string, p core.ShoppingPatch) (core.ShoppingItem, error)
	DeleteShoppingItem(ctx context.Context, id string) error
	ClearPurchased(ctx context.Context) (int, error)
	AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
}

type List struct {
	mu      sync.Mutex
	items   []core.ShoppingItem
	backend Backend
	user    func() string
	now     func() time.Time
}

// New creates an empty list. user names the person marking items as bought;
// nil means core.DefaultUser.
func New(backend Backend, user func() string) *List {
	if user == nil {
		user = func() string { return core.DefaultUser }
	}
	return &List{backend: backend, user: user, now: time.Now}
}

// Reload replaces the local view with the backend's list (or its cached copy).
func (l *List) Reload(ctx context.Context) []core.ShoppingItem {
	items := l.backend.ShoppingItems(ctx)
	l.mu.Lock()
	l.items = append([]core.ShoppingItem{}, items...)
	l.mu.Unlock()
	return l.Items()
}

// Items returns a copy of the local view.
func (l *List) Items() []core.ShoppingItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.ShoppingItem{}, l.items...)
}

// Counts returns how many items are still to buy and how many are bought.
func (l *List) Counts() (toBuy, bought int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if it.IsPurchased {
			bought++
		} else {
			toBuy++
		}
	}
	return toBuy, bought
}

func (l *List) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Toggle flips the purchased flag of id. Marking an item bought records the
// current user as buyer; unmarking clears it.
func (l *List) Toggle(ctx context.Context, id string) (core.ShoppingItem, error) {
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return core.ShoppingItem{}, fmt.Errorf("toggle %s: %w", id, ErrUnknownItem)
	}
	purchased := !l.items[i].IsPurchased
	buyer := ""
	if purchased {
		buyer = l.user()
	}
	patch := core.ShoppingPatch{IsPurchased: &purchased, BoughtBy: &buyer}
	l.items[i] = patch.Apply(l.items[i])
	item := l.items[i]
	l.mu.Unlock()

	if _, err := l.backend.UpdateShoppingItem(ctx, id, patch); err != nil {
		return item, err
	}
	return item, nil
}

// SetQuantity changes the quantity of id. Quantities below one are rejected
// locally without a network call.
func (l *List) SetQuantity(ctx context.Context, id string, quantity int) (core.ShoppingItem, error) {
	if quantity < 1 {
		return core.ShoppingItem{}, core.ErrInvalidQuantity
	}
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return core.ShoppingItem{}, fmt.Errorf("set quantity %s: %w", id, ErrUnknownItem)
	}
	patch := core.ShoppingPatch{Quantity: &quantity}
	l.items[i] = patch.Apply(l.items[i])
	item := l.items[i]
	l.mu.Unlock()

	if _, err := l.backend.UpdateShoppingItem(ctx, id, patch); err != nil {
		return item, err
	}
	return item, nil
}

// Add appends a placeholder entry and posts the item. On success the
// placeholder is replaced by the stored item; on failure it stays.
func (l *List) Add(ctx context.Context, name string, quantity int, category string) (core.ShoppingItem, error) {
	item := core.ShoppingItem{
		ID:       PendingPrefix + uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
		Category: strings.TrimSpace(category),
		AddedBy:  l.user(),
	}
	item.ApplyDefaults(l.now())
	if err := item.Validate(); err != nil {
		return core.ShoppingItem{}, err
	}

	l.mu.Lock()
	l.items = append(l.items, item)
	l.mu.Unlock()

	toSend := item
	toSend.ID = ""
	created, err := l.backend.AddShoppingItem(ctx, toSend)
	if err != nil {
		return item, err
	}

	l.mu.Lock()
	if i := l.indexOf(item.ID); i >= 0 {
		l.items[i] = created
	}
	l.mu.Unlock()
	return created, nil
}

// Remove drops id locally and deletes it on the backend. Placeholders are
// only dropped locally.
func (l *List) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("remove %s: %w", id, ErrUnknownItem)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.mu.Unlock()

	if strings.HasPrefix(id, PendingPrefix) {
		return nil
	}
	return l.backend.DeleteShoppingItem(ctx, id)
}

// removePurchased drops every purchased item locally and returns them.
func (l *List) removePurchased() []core.ShoppingItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	var gone []core.ShoppingItem
	kept := l.items[:0]
	for _, it := range l.items {
		if it.IsPurchased {
			gone = append(gone, it)
		} else {
			kept = append(kept, it)
		}
	}
	l.items = kept
	return gone
}

// ClearPurchased removes the purchased items locally, then on the backend.
// It returns the number the backend removed.
func (l *List) ClearPurchased(ctx context.Context) (int, error) {
	l.removePurchased()
	return l.backend.ClearPurchased(ctx)
}

// CompleteTrip records the purchased items as one grocery expense of total
// and clears them from the list. Nothing is cleared when the expense cannot
// be recorded.
func (l *List) CompleteTrip(ctx context.Context, total core.Amount) (core.Transaction, error) {
	if !total.IsPositive() {
		return core.Transaction{}, core.ErrInvalidAmount
	}

	l.mu.Lock()
	var names []string
	for _, it := range l.items {
		if it.IsPurchased {
			names = append(names, it.Name)
		}
	}
	l.mu.Unlock()
	if len(names) == 0 {
		return core.Transaction{}, errors.New("complete trip: no purchased items")
	}

	tx, err := l.backend.AddTransaction(ctx, core.Transaction{
		Title:     tripTitle(names),
		Category:  core.DefaultShoppingCategory,
		Amount:    total,
		Date:      l.now(),
		Type:      core.Expense,
		Icon:      core.IconShoppingBag,
		CreatedBy: l.user(),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("complete trip: %w", err)
	}

	if _, err := l.ClearPurchased(ctx); err != nil {
		return tx, fmt.Errorf("complete trip: expense saved but clear failed: %w", err)
	}
	return tx, nil
}

func tripTitle(names []string) string {
	const shown = 3
	if len(names) <= shown {
		return "Shopping trip: " + strings.Join(names, ", ")
	}
	return fmt.Sprintf("Shopping trip: %s +%d more", strings.Join(names[:shown], ", "), len(names)-shown)
}
