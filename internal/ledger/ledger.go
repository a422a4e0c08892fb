// Package ledger is the balance and settlement engine of the lunch fund.
//
// Every exported operation runs as one transaction on the store. Validation
// happens before the first write, so a failed operation never leaves partial
// state behind. Balances are never cached: each read recomputes them from
// deposits and meal shares.
package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/lunchfund/internal/events"
	"github.com/mmynk/lunchfund/internal/storage"
)

const (
	dateLayout = "2006-01-02"

	DefaultDepositLimit = 100
	DefaultMealLimit    = 30
)

// CustomTotalCheck is consulted for total-mode meals with custom
// distribution. target is grand total minus guest total; sum is what the
// custom amounts add up to. A non-nil error rejects the meal.
type CustomTotalCheck func(target, sum int64) error

// StrictCustomTotals rejects custom amounts that do not add up to the target.
func StrictCustomTotals(target, sum int64) error {
	if target != sum {
		return validationf("custom amounts add up to %d, expected %d", sum, target)
	}
	return nil
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sends an event after every committed change.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithCustomTotalCheck installs a check for total-mode custom amounts.
// By default no check is performed.
func WithCustomTotalCheck(check CustomTotalCheck) Option {
	return func(l *Ledger) { l.customTotalCheck = check }
}

// WithClock overrides the source of "today" for requests without a date.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Ledger implements members, deposits, meals and balances on top of a store.
type Ledger struct {
	store            storage.Store
	publisher        events.Publisher
	customTotalCheck CustomTotalCheck
	now              func() time.Time
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		publisher: events.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// publish delivers e after commit. Failures are logged, never returned:
// the change itself has already been persisted.
func (l *Ledger) publish(ctx context.Context, e events.Event) {
	if err := l.publisher.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event", "type", e.Type, "error", err)
	}
}

// normalizeDate returns today for an empty date and validates the rest.
func (l *Ledger) normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return l.now().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return "", validationf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return raw, nil
}
