package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ecowallet/internal/core"
)

// Dashboard is everything the home screen needs for one month.
type Dashboard struct {
	Month        core.MonthID
	Transactions []core.Transaction
	Shopping     []core.ShoppingItem
	Income       core.MonthlyIncome
}

// Dashboard loads transactions, the shopping list and the month's income in
// parallel. Each read falls back independently.
func (c *Client) Dashboard(ctx context.Context, month core.MonthID) Dashboard {
	d := Dashboard{Month: month}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.Transactions = c.Transactions(gctx)
		return nil
	})
	g.Go(func() error {
		d.Shopping = c.ShoppingItems(gctx)
		return nil
	})
	g.Go(func() error {
		d.Income = c.Income(gctx, month)
		return nil
	})
	_ = g.Wait()
	return d
}
