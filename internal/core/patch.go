package core

import "time"

// TransactionPatch carries the fields of a partial transaction update.
// Nil fields are left untouched.
type TransactionPatch struct {
	Title    *string          `json:"title,omitempty"`
	Category *string          `json:"category,omitempty"`
	Amount   *Amount          `json:"amount,omitempty"`
	Date     *time.Time       `json:"date,omitempty"`
	Type     *TransactionType `json:"type,omitempty"`
	Icon     *Icon            `json:"icon,omitempty"`
}

func (p TransactionPatch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.Amount == nil &&
		p.Date == nil && p.Type == nil && p.Icon == nil
}

// Apply returns t with the patch fields merged in.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Icon != nil {
		t.Icon = *p.Icon
	}
	return t
}

// ShoppingPatch carries the fields of a partial shopping item update.
// An empty BoughtBy clears the buyer.
type ShoppingPatch struct {
	Name        *string `json:"name,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsPurchased *bool   `json:"isPurchased,omitempty"`
	BoughtBy    *string `json:"boughtBy,omitempty"`
}

func (p ShoppingPatch) IsEmpty() bool {
	return p.Name == nil && p.Quantity == nil && p.Category == nil &&
		p.IsPurchased == nil && p.BoughtBy == nil
}

// Apply returns i with the patch fields merged in. Applying the same patch
// twice yields the same item.
func (p ShoppingPatch) Apply(i ShoppingItem) ShoppingItem {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	if p.IsPurchased != nil {
		i.IsPurchased = *p.IsPurchased
	}
	if p.BoughtBy != nil {
		i.BoughtBy = *p.BoughtBy
	}
	return i
}
