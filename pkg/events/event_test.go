package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewBaseEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("EAT", 3*60*60))
	event := NewBaseEvent("scoring.credit_score.refreshed", "user-123", "User", at)

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}
	if event.EventType() != "scoring.credit_score.refreshed" {
		t.Errorf("expected event type %q, got %q", "scoring.credit_score.refreshed", event.EventType())
	}
	if event.AggregateID() != "user-123" {
		t.Errorf("expected aggregate ID %q, got %q", "user-123", event.AggregateID())
	}
	if event.AggregateType() != "User" {
		t.Errorf("expected aggregate type %q, got %q", "User", event.AggregateType())
	}
	if !event.OccurredAt().Equal(at) {
		t.Errorf("expected occurredAt %v, got %v", at, event.OccurredAt())
	}
	if event.OccurredAt().Location() != time.UTC {
		t.Errorf("expected occurredAt in UTC, got %v", event.OccurredAt().Location())
	}
}

func TestNewBaseEventUniqueIDs(t *testing.T) {
	now := time.Now()
	a := NewBaseEvent("A", "agg", "Aggregate", now)
	b := NewBaseEvent("A", "agg", "Aggregate", now)
	if a.EventID() == b.EventID() {
		t.Errorf("expected distinct event IDs, both were %q", a.EventID())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestEmbeddedEnvelopeSerialises(t *testing.T) {
	type scoreEvent struct {
		BaseEvent
		Score int `json:"score"`
	}

	evt := scoreEvent{
		BaseEvent: NewBaseEvent("scored", "user-1", "User", time.Now()),
		Score:     710,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"event_id", "event_type", "aggregate_id", "aggregate_type", "occurred_at", "score"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("expected key %q in payload %s", key, payload)
		}
	}
}
