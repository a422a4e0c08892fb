package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/lunchfund/internal/calculator"
	"github.com/mmynk/lunchfund/internal/events"
	"github.com/mmynk/lunchfund/internal/models"
	"github.com/mmynk/lunchfund/internal/storage"
)

// ListMembers returns the roster ordered by name.
func (l *Ledger) ListMembers(ctx context.Context) ([]string, error) {
	var names []string
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		names, err = tx.ListMembers(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// AddMember registers a new member.
func (l *Ledger) AddMember(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationf("member name is required")
	}

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		return tx.CreateMember(ctx, name)
	})
	if errors.Is(err, storage.ErrConflict) {
		return constraintf(err, "member %q already exists", name)
	}
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Member added", "member", name)
	e := events.New(events.MemberAdded)
	e.Member = name
	l.publish(ctx, e)
	return nil
}

// InitMembers registers the first roster in one go. Blank and repeated names
// are dropped. It fails if any member is already registered.
func (l *Ledger) InitMembers(ctx context.Context, names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	var cleaned []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		cleaned = append(cleaned, n)
	}
	if len(cleaned) == 0 {
		return nil, validationf("at least one member name is required")
	}

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		existing, err := tx.ListMembers(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return constraintf(nil, "roster already has %d members", len(existing))
		}
		for _, n := range cleaned {
			if err := tx.CreateMember(ctx, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Roster initialized", "members", cleaned)
	for _, n := range cleaned {
		e := events.New(events.MemberAdded)
		e.Member = n
		l.publish(ctx, e)
	}
	return cleaned, nil
}

// RemoveMember deletes a member whose balance is exactly zero, together with
// their deposits and meal shares.
func (l *Ledger) RemoveMember(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationf("member name is required")
	}

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		balance, err := balanceOf(ctx, tx, name)
		if err != nil {
			return err
		}
		if balance != 0 {
			return constraintf(nil, "cannot remove %s: balance is %d, not 0", name, balance)
		}
		return tx.DeleteMember(ctx, name)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Member removed", "member", name)
	e := events.New(events.MemberRemoved)
	e.Member = name
	l.publish(ctx, e)
	return nil
}

// Balances returns every member's deposited, used and balance amounts,
// ordered by name.
func (l *Ledger) Balances(ctx context.Context) ([]models.MemberBalance, error) {
	var balances []models.MemberBalance
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		balances, err = allBalances(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

// NegativeBalances returns the members who owe the fund money.
func (l *Ledger) NegativeBalances(ctx context.Context) ([]models.MemberBalance, error) {
	balances, err := l.Balances(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.Negative(balances), nil
}

// BalanceOf returns deposited minus used for one member.
func (l *Ledger) BalanceOf(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	var balance int64
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		balance, err = balanceOf(ctx, tx, name)
		return err
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// MealCounts returns the number of meals each member took part in.
// Members without meals are reported with 0.
func (l *Ledger) MealCounts(ctx context.Context) (map[string]int, error) {
	var counts map[string]int
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		roster, err := tx.ListMembers(ctx)
		if err != nil {
			return err
		}
		shares, err := tx.ShareCounts(ctx)
		if err != nil {
			return err
		}
		counts = make(map[string]int, len(roster))
		for _, n := range roster {
			counts[n] = shares[n]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func allBalances(ctx context.Context, tx storage.Tx) ([]models.MemberBalance, error) {
	roster, err := tx.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	deposited, err := tx.DepositSums(ctx)
	if err != nil {
		return nil, err
	}
	used, err := tx.UsageSums(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.BuildBalances(roster, deposited, used), nil
}

func balanceOf(ctx context.Context, tx storage.Tx, name string) (int64, error) {
	exists, err := tx.MemberExists(ctx, name)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, notFoundf(storage.ErrNotFound, "member %q not found", name)
	}
	deposited, used, err := tx.MemberSums(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("balance of %s: %w", name, err)
	}
	return deposited - used, nil
}
