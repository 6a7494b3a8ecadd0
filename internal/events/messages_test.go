package events

import (
	"testing"
	"time"
)

func TestExpenseEventJSONRoundTrip(t *testing.T) {
	event := NewExpenseEvent("u1", "e1", ActionCreated)

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back, err := ExpenseEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.UserID != "u1" || back.ExpenseID != "e1" || back.Action != ActionCreated {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if back.Timestamp.IsZero() || time.Since(back.Timestamp) > time.Minute {
		t.Fatalf("bad timestamp: %v", back.Timestamp)
	}
}

func TestExpenseEventFromJSONInvalid(t *testing.T) {
	if _, err := ExpenseEventFromJSON([]byte("{broken")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
