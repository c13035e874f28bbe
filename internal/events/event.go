package events

import (
	"encoding/json"
	"time"

	"ecowallet/internal/core"
)

// Event types double as AMQP routing keys on the topic exchange.
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	ShoppingCleared    = "shopping.cleared"
	IncomeSet          = "income.set"
)

// Event is a ledger change notification. Transaction is set for the
// transaction.* types except deletes, Income for income.set and Count for
// shopping.cleared.
type Event struct {
	Type        string              `json:"type"`
	ID          string              `json:"id,omitempty"`
	Transaction *core.Transaction   `json:"transaction,omitempty"`
	Income      *core.MonthlyIncome `json:"income,omitempty"`
	Count       int                 `json:"count,omitempty"`
	User        string              `json:"user,omitempty"`
	OccurredAt  time.Time           `json:"occurredAt"`
}

func NewTransactionEvent(eventType string, t core.Transaction) Event {
	return Event{Type: eventType, ID: t.ID, Transaction: &t, User: t.CreatedBy, OccurredAt: time.Now()}
}

func NewDeleteEvent(id string) Event {
	return Event{Type: TransactionDeleted, ID: id, OccurredAt: time.Now()}
}

func NewIncomeEvent(in core.MonthlyIncome) Event {
	return Event{Type: IncomeSet, ID: string(in.ID), Income: &in, OccurredAt: time.Now()}
}

func NewClearedEvent(count int) Event {
	return Event{Type: ShoppingCleared, Count: count, OccurredAt: time.Now()}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event body.
func EventFromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}
