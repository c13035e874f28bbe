package firestore

import (
	"time"

	"cloud.google.com/go/firestore"

	"ecowallet/internal/core"
)

// Document shapes as the web client wrote them: camelCase fields, ISO date
// strings and float amounts.
type (
	transactionDoc struct {
		Title     string  `firestore:"title"`
		Category  string  `firestore:"category"`
		Amount    float64 `firestore:"amount"`
		Date      string  `firestore:"date"`
		Type      string  `firestore:"type"`
		Icon      string  `firestore:"icon"`
		CreatedBy string  `firestore:"createdBy,omitempty"`
	}

	shoppingDoc struct {
		Name        string `firestore:"name"`
		Quantity    int64  `firestore:"quantity"`
		Category    string `firestore:"category"`
		IsPurchased bool   `firestore:"isPurchased"`
		AddedBy     string `firestore:"addedBy,omitempty"`
		BoughtBy    string `firestore:"boughtBy,omitempty"`
		CreatedAt   string `firestore:"createdAt,omitempty"`
	}

	incomeDoc struct {
		Amount    float64 `firestore:"amount"`
		UpdatedAt string  `firestore:"updatedAt,omitempty"`
	}
)

func toTransactionDoc(t core.Transaction) transactionDoc {
	return transactionDoc{
		Title:     t.Title,
		Category:  t.Category,
		Amount:    t.Amount.InexactFloat64(),
		Date:      formatTime(t.Date),
		Type:      string(t.Type),
		Icon:      string(t.Icon),
		CreatedBy: t.CreatedBy,
	}
}

func (d transactionDoc) toCore(id string) core.Transaction {
	return core.Transaction{
		ID:        id,
		Title:     d.Title,
		Category:  d.Category,
		Amount:    core.NewAmount(d.Amount),
		Date:      parseTime(d.Date),
		Type:      core.TransactionType(d.Type),
		Icon:      core.Icon(d.Icon),
		CreatedBy: d.CreatedBy,
	}
}

func toShoppingDoc(i core.ShoppingItem) shoppingDoc {
	return shoppingDoc{
		Name:        i.Name,
		Quantity:    int64(i.Quantity),
		Category:    i.Category,
		IsPurchased: i.IsPurchased,
		AddedBy:     i.AddedBy,
		BoughtBy:    i.BoughtBy,
		CreatedAt:   formatTime(i.CreatedAt),
	}
}

func (d shoppingDoc) toCore(id string) core.ShoppingItem {
	return core.ShoppingItem{
		ID:          id,
		Name:        d.Name,
		Quantity:    int(d.Quantity),
		Category:    d.Category,
		IsPurchased: d.IsPurchased,
		AddedBy:     d.AddedBy,
		BoughtBy:    d.BoughtBy,
		CreatedAt:   parseTime(d.CreatedAt),
	}
}

func (d incomeDoc) toCore(month core.MonthID) core.MonthlyIncome {
	in := core.MonthlyIncome{ID: month, Amount: core.NewAmount(d.Amount)}
	if t := parseTime(d.UpdatedAt); !t.IsZero() {
		in.UpdatedAt = &t
	}
	return in
}

func transactionUpdates(p core.TransactionPatch) []firestore.Update {
	var ups []firestore.Update
	if p.Title != nil {
		ups = append(ups, firestore.Update{Path: "title", Value: *p.Title})
	}
	if p.Category != nil {
		ups = append(ups, firestore.Update{Path: "category", Value: *p.Category})
	}
	if p.Amount != nil {
		ups = append(ups, firestore.Update{Path: "amount", Value: p.Amount.InexactFloat64()})
	}
	if p.Date != nil {
		ups = append(ups, firestore.Update{Path: "date", Value: formatTime(*p.Date)})
	}
	if p.Type != nil {
		ups = append(ups, firestore.Update{Path: "type", Value: string(*p.Type)})
	}
	if p.Icon != nil {
		ups = append(ups, firestore.Update{Path: "icon", Value: string(*p.Icon)})
	}
	return ups
}

func shoppingUpdates(p core.ShoppingPatch) []firestore.Update {
	var ups []firestore.Update
	if p.Name != nil {
		ups = append(ups, firestore.Update{Path: "name", Value: *p.Name})
	}
	if p.Quantity != nil {
		ups = append(ups, firestore.Update{Path: "quantity", Value: int64(*p.Quantity)})
	}
	if p.Category != nil {
		ups = append(ups, firestore.Update{Path: "category", Value: *p.Category})
	}
	if p.IsPurchased != nil {
		ups = append(ups, firestore.Update{Path: "isPurchased", Value: *p.IsPurchased})
	}
	if p.BoughtBy != nil {
		ups = append(ups, firestore.Update{Path: "boughtBy", Value: *p.BoughtBy})
	}
	return ups
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime tolerates documents written without a timestamp.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
