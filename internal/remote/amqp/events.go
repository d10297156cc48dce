package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type EventType string

const (
	EventExpenseInserted      EventType = "expense.inserted"
	EventExpenseUpdated       EventType = "expense.updated"
	EventExpenseDeleted       EventType = "expense.deleted"
	EventCategoryInserted     EventType = "category.inserted"
	EventCategoryUpdated      EventType = "category.updated"
	EventCategoryRenamed      EventType = "category.renamed"
	EventCategoryDeleted      EventType = "category.deleted"
	EventSavingTargetInserted EventType = "saving_target.inserted"
	EventSavingTargetDeleted  EventType = "saving_target.deleted"
	EventReset                EventType = "ledger.reset"
)

// Event describes one local change. Only the fields relevant to Type are set.
type Event struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`

	Expense    *ledger.Expense      `json:"expense,omitempty"`
	ExpenseIDs []uuid.UUID          `json:"expenseIds,omitempty"`
	Category   *ledger.Category     `json:"category,omitempty"`
	OldName    string               `json:"oldName,omitempty"`
	Target     *ledger.SavingTarget `json:"savingTarget,omitempty"`
	Snapshot   *ledger.Snapshot     `json:"snapshot,omitempty"`
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}

	return &e, nil
}
