package events

import (
	"encoding/json"
	"time"
)

// Actions carried by expense events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEvent is the message published for every expense mutation. It is an
// outbound audit feed for external consumers; the expense workflow never
// depends on it.
type ExpenseEvent struct {
	UserID    string    `json:"user_id"`
	ExpenseID string    `json:"expense_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(userID, expenseID, action string) *ExpenseEvent {
	return &ExpenseEvent{
		UserID:    userID,
		ExpenseID: expenseID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var event ExpenseEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
