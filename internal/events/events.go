// Package events publishes ledger changes to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Type identifies what happened.
type Type string

const (
	MealRecorded    Type = "meal.recorded"
	MealDeleted     Type = "meal.deleted"
	DepositRecorded Type = "deposit.recorded"
	DepositUpdated  Type = "deposit.updated"
	DepositDeleted  Type = "deposit.deleted"
	MemberAdded     Type = "member.added"
	MemberRemoved   Type = "member.removed"
)

// Event is a committed ledger change.
// Only identifiers and the amount are carried; consumers read details back.
type Event struct {
	Type      Type      `json:"type"`
	MealID    string    `json:"meal_id,omitempty"`
	DepositID string    `json:"deposit_id,omitempty"`
	Member    string    `json:"member,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(t Type) Event {
	return Event{Type: t, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events after the change has been committed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps events in memory. Useful in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events, in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the type of every recorded event, in order.
func (r *Recorder) Types() []Type {
	events := r.Events()
	out := make([]Type, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
