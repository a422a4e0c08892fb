package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmynk/lunchfund/internal/calculator"
	"github.com/mmynk/lunchfund/internal/events"
	"github.com/mmynk/lunchfund/internal/models"
	"github.com/mmynk/lunchfund/internal/storage"
)

// DepositInput is a manual deposit as submitted by the caller.
type DepositInput struct {
	// Date in YYYY-MM-DD; empty means today.
	Date   string
	Member string
	Amount int64
	Note   string
}

func (l *Ledger) checkDeposit(in DepositInput, minAmount int64) (DepositInput, error) {
	date, err := l.normalizeDate(in.Date)
	if err != nil {
		return in, err
	}
	in.Date = date
	in.Member = strings.TrimSpace(in.Member)
	in.Note = strings.TrimSpace(in.Note)
	if in.Member == "" {
		return in, validationf("member is required")
	}
	if in.Amount < minAmount {
		if minAmount > 0 {
			return in, validationf("amount must be positive")
		}
		return in, validationf("amount must not be negative")
	}
	if in.Amount > calculator.MaxAmount {
		return in, validationf("amount must not exceed %d", calculator.MaxAmount)
	}
	return in, nil
}

func requireMember(ctx context.Context, tx storage.Tx, name string) error {
	exists, err := tx.MemberExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return validationf("unknown member %q", name)
	}
	return nil
}

// RecordDeposit credits a member. The amount must be positive.
func (l *Ledger) RecordDeposit(ctx context.Context, in DepositInput) (*models.Deposit, error) {
	in, err := l.checkDeposit(in, 1)
	if err != nil {
		return nil, err
	}

	deposit := &models.Deposit{
		Date:   in.Date,
		Member: in.Member,
		Amount: in.Amount,
		Note:   in.Note,
	}
	err = l.store.InTx(ctx, func(tx storage.Tx) error {
		if err := requireMember(ctx, tx, in.Member); err != nil {
			return err
		}
		return tx.CreateDeposit(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Deposit recorded",
		"deposit_id", deposit.ID,
		"member", deposit.Member,
		"amount", deposit.Amount,
	)
	l.publish(ctx, depositEvent(events.DepositRecorded, deposit))
	return deposit, nil
}

// UpdateDeposit edits an existing deposit. Unlike creation, an amount of
// zero is accepted. The link to a source meal, if any, is kept.
func (l *Ledger) UpdateDeposit(ctx context.Context, id string, in DepositInput) (*models.Deposit, error) {
	in, err := l.checkDeposit(in, 0)
	if err != nil {
		return nil, err
	}

	var deposit *models.Deposit
	err = l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		deposit, err = tx.GetDeposit(ctx, id)
		if err != nil {
			return err
		}
		if err := requireMember(ctx, tx, in.Member); err != nil {
			return err
		}
		deposit.Date = in.Date
		deposit.Member = in.Member
		deposit.Amount = in.Amount
		deposit.Note = in.Note
		return tx.UpdateDeposit(ctx, deposit)
	})
	if err != nil {
		return nil, depositErr(id, err)
	}

	slog.InfoContext(ctx, "Deposit updated",
		"deposit_id", deposit.ID,
		"member", deposit.Member,
		"amount", deposit.Amount,
	)
	l.publish(ctx, depositEvent(events.DepositUpdated, deposit))
	return deposit, nil
}

// DeleteDeposit removes a deposit.
func (l *Ledger) DeleteDeposit(ctx context.Context, id string) error {
	var deposit *models.Deposit
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		deposit, err = tx.GetDeposit(ctx, id)
		if err != nil {
			return err
		}
		return tx.DeleteDeposit(ctx, id)
	})
	if err != nil {
		return depositErr(id, err)
	}

	slog.InfoContext(ctx, "Deposit deleted", "deposit_id", id, "member", deposit.Member)
	l.publish(ctx, depositEvent(events.DepositDeleted, deposit))
	return nil
}

// GetDeposit returns one deposit.
func (l *Ledger) GetDeposit(ctx context.Context, id string) (*models.Deposit, error) {
	var deposit *models.Deposit
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		deposit, err = tx.GetDeposit(ctx, id)
		return err
	})
	if err != nil {
		return nil, depositErr(id, err)
	}
	return deposit, nil
}

// ListDeposits returns the latest deposits, newest first.
// A non-positive limit means DefaultDepositLimit.
func (l *Ledger) ListDeposits(ctx context.Context, limit int) ([]*models.Deposit, error) {
	if limit <= 0 {
		limit = DefaultDepositLimit
	}
	var deposits []*models.Deposit
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		deposits, err = tx.ListDeposits(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deposits, nil
}

func depositErr(id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) && KindOf(err) == 0 {
		return notFoundf(err, "deposit %s not found", id)
	}
	return err
}

func depositEvent(t events.Type, d *models.Deposit) events.Event {
	e := events.New(t)
	e.DepositID = d.ID
	e.MealID = d.SourceMealID
	e.Member = d.Member
	e.Amount = d.Amount
	return e
}
