package core

import "strings"

// Category is an entry of the expense category picker.
type Category struct {
	ID   string
	Name string
	Icon Icon
	Tone string
}

// ExpenseCategories is the fixed picker offered when adding an expense.
var ExpenseCategories = []Category{
	{ID: "shopping", Name: "Shopping", Icon: IconShoppingBag, Tone: "primary"},
	{ID: "food", Name: "Food", Icon: IconUtensils, Tone: "orange"},
	{ID: "transport", Name: "Transport", Icon: IconCar, Tone: "blue"},
	{ID: "grocery", Name: "Grocery", Icon: IconShoppingBag, Tone: "green"},
	{ID: "bills", Name: "Bills", Icon: IconZap, Tone: "yellow"},
	{ID: "movies", Name: "Movies", Icon: IconClapperboard, Tone: "purple"},
	{ID: "health", Name: "Health", Icon: IconActivity, Tone: "red"},
	{ID: "other", Name: "Other", Icon: IconMoreHorizontal, Tone: "slate"},
}

// LookupCategory finds a category by id or display name, case-insensitively.
func LookupCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range ExpenseCategories {
		if strings.EqualFold(c.ID, s) || strings.EqualFold(c.Name, s) {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryTone returns the colour family used when listing a transaction of
// the given category.
func CategoryTone(category string) string {
	switch strings.ToLower(category) {
	case "income", "salary":
		return "green"
	}
	if c, ok := LookupCategory(category); ok {
		return c.Tone
	}
	return "primary"
}

// IconFor picks the icon of a new transaction from its category, using
// DollarSign for uncategorised income and Zap otherwise.
func IconFor(category string, t TransactionType) Icon {
	if c, ok := LookupCategory(category); ok {
		return c.Icon
	}
	if t == Income {
		return IconDollarSign
	}
	return IconZap
}
