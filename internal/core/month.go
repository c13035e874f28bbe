package core

import "time"

const monthLayout = "2006-01"

// MonthID identifies a calendar month as "YYYY-MM".
type MonthID string

// MonthIDOf derives the month id of t in t's own location.
func MonthIDOf(t time.Time) MonthID {
	return MonthID(t.Format(monthLayout))
}

// ParseMonthID validates s and returns it as a MonthID.
func ParseMonthID(s string) (MonthID, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil || t.Format(monthLayout) != s {
		return "", ErrInvalidMonth
	}
	return MonthID(s), nil
}

// Start returns midnight UTC on the first day of the month.
func (m MonthID) Start() time.Time {
	t, _ := time.Parse(monthLayout, string(m))
	return t
}

// Prev returns the month before m.
func (m MonthID) Prev() MonthID {
	return MonthIDOf(m.Start().AddDate(0, -1, 0))
}

func (m MonthID) String() string { return string(m) }
