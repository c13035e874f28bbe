package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ecowallet/internal/core"
)

// Transactions returns every transaction, newest first. It never fails: when
// the backend is unreachable the last cached list (or an empty one) is
// returned.
func (c *Client) Transactions(ctx context.Context) []core.Transaction {
	txs, _ := fetchWithFallback(ctx, c, "/transactions", KeyTransactions, []core.Transaction{}, nil)
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs
}

// AddTransaction validates t, attributes it to the current user and posts it.
func (c *Client) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ApplyDefaults(c.now())
	if t.CreatedBy == "" {
		t.CreatedBy = c.userName()
	}
	if t.Icon == "" {
		t.Icon = core.IconFor(t.Category, t.Type)
	}
	t.Icon = t.Icon.Resolve()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	var created core.Transaction
	if err := c.send(ctx, http.MethodPost, "/transactions", t, &created); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	if p.IsEmpty() {
		return core.Transaction{}, errors.New("update transaction: nothing to change")
	}
	if p.Amount != nil && !p.Amount.IsPositive() {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", core.ErrInvalidAmount)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", core.ErrEmptyTitle)
	}

	var updated core.Transaction
	if err := c.send(ctx, http.MethodPatch, "/transactions/"+url.PathEscape(id), p, &updated); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}
	return updated, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	if err := c.send(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// ShoppingItems returns the shopping list, falling back like Transactions.
func (c *Client) ShoppingItems(ctx context.Context) []core.ShoppingItem {
	items, _ := fetchWithFallback(ctx, c, "/shopping", KeyShopping, []core.ShoppingItem{}, nil)
	if items == nil {
		items = []core.ShoppingItem{}
	}
	return items
}

func (c *Client) AddShoppingItem(ctx context.Context, item core.ShoppingItem) (core.ShoppingItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Quantity == 0 {
		item.Quantity = core.DefaultShoppingQuantity
	}
	if item.AddedBy == "" {
		item.AddedBy = c.userName()
	}
	if err := item.Validate(); err != nil {
		return core.ShoppingItem{}, fmt.Errorf("add shopping item: %w", err)
	}

	var created core.ShoppingItem
	if err := c.send(ctx, http.MethodPost, "/shopping", item, &created); err != nil {
		return core.ShoppingItem{}, fmt.Errorf("add shopping item: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateShoppingItem(ctx context.Context, id string, p core.ShoppingPatch) (core.ShoppingItem, error) {
	if p.IsEmpty() {
		return core.ShoppingItem{}, errors.New("update shopping item: nothing to change")
	}
	var updated core.ShoppingItem
	if err := c.send(ctx, http.MethodPatch, "/shopping/"+url.PathEscape(id), p, &updated); err != nil {
		return core.ShoppingItem{}, fmt.Errorf("update shopping item %s: %w", id, err)
	}
	return updated, nil
}

func (c *Client) DeleteShoppingItem(ctx context.Context, id string) error {
	if err := c.send(ctx, http.MethodDelete, "/shopping/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete shopping item %s: %w", id, err)
	}
	return nil
}

// ClearPurchased deletes every purchased item through the API. When the API
// call fails and a direct store is configured, the purchased items are
// queried and deleted there in one batch, with a single retry.
func (c *Client) ClearPurchased(ctx context.Context) (int, error) {
	var res core.ClearResult
	apiErr := c.send(ctx, http.MethodDelete, "/shopping/clear-purchased", nil, &res)
	if apiErr == nil {
		return res.Count, nil
	}
	if c.cleaner == nil {
		return 0, fmt.Errorf("clear purchased: %w", apiErr)
	}

	c.logger.WarnContext(ctx, "Clear purchased via API failed, using direct store", "error", apiErr)

	var directErr error
	for attempt := 1; attempt <= 2; attempt++ {
		var n int
		n, directErr = c.clearDirect(ctx)
		if directErr == nil {
			return n, nil
		}
		c.logger.WarnContext(ctx, "Direct clear purchased failed", "attempt", attempt, "error", directErr)
	}
	return 0, fmt.Errorf("clear purchased: %w", errors.Join(apiErr, directErr))
}

func (c *Client) clearDirect(ctx context.Context) (int, error) {
	ids, err := c.cleaner.ListPurchasedIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list purchased: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := c.cleaner.DeleteShoppingItems(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete purchased: %w", err)
	}
	return n, nil
}

// Income returns the income recorded for month, or a zero record.
func (c *Client) Income(ctx context.Context, month core.MonthID) core.MonthlyIncome {
	empty := core.MonthlyIncome{ID: month}
	in, _ := fetchWithFallback(ctx, c, "/income/"+url.PathEscape(string(month)), IncomeKey(month), empty, nil)
	if in.ID == "" {
		in.ID = month
	}
	return in
}

func (c *Client) SetIncome(ctx context.Context, month core.MonthID, amount core.Amount) (core.MonthlyIncome, error) {
	if amount.IsNegative() {
		return core.MonthlyIncome{}, fmt.Errorf("set income: %w", core.ErrInvalidAmount)
	}
	body := map[string]core.Amount{"amount": amount}
	var saved core.MonthlyIncome
	if err := c.send(ctx, http.MethodPost, "/income/"+url.PathEscape(string(month)), body, &saved); err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("set income %s: %w", month, err)
	}
	if saved.ID == "" {
		saved.ID = month
	}
	return saved, nil
}

// Ping checks that the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/health", nil, nil)
}
