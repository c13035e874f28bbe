// Package store defines the persistence ports shared by every document store.
package store

import (
	"context"
	"errors"

	"ecowallet/internal/core"
)

// ErrNotFound is returned when a document addressed by id does not exist.
var ErrNotFound = errors.New("document not found")

// Ports for outbound adapters.
type (
	TransactionStore interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	ShoppingStore interface {
		ListShoppingItems(ctx context.Context) ([]core.ShoppingItem, error)
		AddShoppingItem(ctx context.Context, i core.ShoppingItem) (core.ShoppingItem, error)
		UpdateShoppingItem(ctx context.Context, id string, p core.ShoppingPatch) (core.ShoppingItem, error)
		DeleteShoppingItem(ctx context.Context, id string) error
		// ClearPurchased removes every purchased item atomically and returns
		// how many were removed.
		ClearPurchased(ctx context.Context) (int, error)
	}

	// PurchasedCleaner is the direct path used by clients when the REST
	// clear endpoint is unreachable.
	PurchasedCleaner interface {
		ListPurchasedIDs(ctx context.Context) ([]string, error)
		DeleteShoppingItems(ctx context.Context, ids []string) (int, error)
	}

	IncomeStore interface {
		// GetIncome returns ErrNotFound when the month has no record.
		GetIncome(ctx context.Context, month core.MonthID) (core.MonthlyIncome, error)
		// SetIncome upserts with merge semantics.
		SetIncome(ctx context.Context, in core.MonthlyIncome) (core.MonthlyIncome, error)
	}

	// Store is the full strategy interface selected once at startup.
	Store interface {
		TransactionStore
		ShoppingStore
		PurchasedCleaner
		IncomeStore
		Close() error
	}
)
