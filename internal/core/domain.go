package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Defaults injected on create.
const (
	DefaultShoppingCategory = "Groceries"
	DefaultShoppingQuantity = 1
	DefaultUser             = "Family"
)

type (
	TransactionType string

	Transaction struct {
		ID        string          `json:"id"`
		Title     string          `json:"title"`
		Category  string          `json:"category"`
		Amount    Amount          `json:"amount"`
		Date      time.Time       `json:"date"`
		Type      TransactionType `json:"type"`
		Icon      Icon            `json:"icon"`
		CreatedBy string          `json:"createdBy,omitempty"`
	}

	ShoppingItem struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Quantity    int       `json:"quantity"`
		Category    string    `json:"category"`
		IsPurchased bool      `json:"isPurchased"`
		AddedBy     string    `json:"addedBy,omitempty"`
		BoughtBy    string    `json:"boughtBy,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// MonthlyIncome is keyed by its month; a missing month reads as zero.
	MonthlyIncome struct {
		ID        MonthID    `json:"id,omitempty"`
		Amount    Amount     `json:"amount"`
		UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	}

	// ClearResult is returned by the bulk clear of purchased items.
	ClearResult struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrEmptyTitle      = errors.New("empty title")
	ErrEmptyName       = errors.New("empty item name")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidMonth    = errors.New("invalid month id")
)

// IsValid reports whether t is one of the two known transaction types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// ApplyDefaults fills the fields a client may omit on create.
func (t *Transaction) ApplyDefaults(now time.Time) {
	if t.Date.IsZero() {
		t.Date = now
	}
	if t.Type == "" {
		t.Type = Expense
	}
}

// Validate checks what a client must provide before posting a transaction.
// The server itself stores whatever it receives.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

// ApplyDefaults fills quantity, category and creation time.
func (i *ShoppingItem) ApplyDefaults(now time.Time) {
	if i.Quantity <= 0 {
		i.Quantity = DefaultShoppingQuantity
	}
	if strings.TrimSpace(i.Category) == "" {
		i.Category = DefaultShoppingCategory
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
}

func (i ShoppingItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// MonthID returns the month the transaction falls in.
func (t Transaction) MonthID() MonthID {
	return MonthIDOf(t.Date)
}
