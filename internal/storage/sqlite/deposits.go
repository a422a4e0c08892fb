package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/lunchfund/internal/models"
	"github.com/mmynk/lunchfund/internal/storage"
)

const depositColumns = "id, dt, name, amount, note, source_meal_id, created_at"

// CreateDeposit persists a new deposit to the database.
func (s *txStore) CreateDeposit(ctx context.Context, deposit *models.Deposit) error {
	// Generate ID if not set
	if deposit.ID == "" {
		deposit.ID = uuid.New().String()
	}
	if deposit.CreatedAt == 0 {
		deposit.CreatedAt = time.Now().Unix()
	}

	var source interface{} = nil
	if deposit.SourceMealID != "" {
		source = deposit.SourceMealID
	}

	_, err := s.tx.ExecContext(ctx,
		`INSERT INTO deposits (`+depositColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		deposit.ID, deposit.Date, deposit.Member, deposit.Amount,
		deposit.Note, source, deposit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deposit: %w", err)
	}
	return nil
}

// GetDeposit retrieves a deposit by ID.
func (s *txStore) GetDeposit(ctx context.Context, id string) (*models.Deposit, error) {
	deposit, err := scanDeposit(s.tx.QueryRowContext(ctx,
		`SELECT `+depositColumns+` FROM deposits WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deposit not found: %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return deposit, nil
}

// UpdateDeposit overwrites the editable fields of a deposit.
func (s *txStore) UpdateDeposit(ctx context.Context, deposit *models.Deposit) error {
	res, err := s.tx.ExecContext(ctx,
		"UPDATE deposits SET dt = ?, name = ?, amount = ?, note = ? WHERE id = ?",
		deposit.Date, deposit.Member, deposit.Amount, deposit.Note, deposit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deposit: %w", err)
	}
	return requireAffected(res, "deposit", deposit.ID)
}

// DeleteDeposit removes a deposit by ID.
func (s *txStore) DeleteDeposit(ctx context.Context, id string) error {
	res, err := s.tx.ExecContext(ctx, "DELETE FROM deposits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete deposit: %w", err)
	}
	return requireAffected(res, "deposit", id)
}

// ListDeposits retrieves the most recent deposits.
func (s *txStore) ListDeposits(ctx context.Context, limit int) ([]*models.Deposit, error) {
	rows, err := s.tx.QueryContext(ctx,
		`SELECT `+depositColumns+` FROM deposits
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	var deposits []*models.Deposit
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, deposit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deposits: %w", err)
	}
	return deposits, nil
}

// DeleteMealDeposits removes the auto-deposits that reimburse mealID.
func (s *txStore) DeleteMealDeposits(ctx context.Context, mealID string) (int64, error) {
	res, err := s.tx.ExecContext(ctx, "DELETE FROM deposits WHERE source_meal_id = ?", mealID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete meal deposits: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete meal deposits: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeposit(row rowScanner) (*models.Deposit, error) {
	deposit := &models.Deposit{}
	var source sql.NullString
	if err := row.Scan(&deposit.ID, &deposit.Date, &deposit.Member, &deposit.Amount,
		&deposit.Note, &source, &deposit.CreatedAt); err != nil {
		return nil, err
	}
	if source.Valid {
		deposit.SourceMealID = source.String
	}
	return deposit, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
