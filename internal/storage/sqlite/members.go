package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/lunchfund/internal/storage"
)

// ListMembers returns all member names ordered by name.
func (s *txStore) ListMembers(ctx context.Context) ([]string, error) {
	rows, err := s.tx.QueryContext(ctx, "SELECT name FROM members ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return names, nil
}

// MemberExists reports whether name is registered.
func (s *txStore) MemberExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM members WHERE name = ?)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check member existence: %w", err)
	}
	return exists, nil
}

// CreateMember inserts a new member.
func (s *txStore) CreateMember(ctx context.Context, name string) error {
	res, err := s.tx.ExecContext(ctx,
		"INSERT INTO members (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member already exists: %s: %w", name, storage.ErrConflict)
	}
	return nil
}

// DeleteMember removes a member. Deposits and meal shares go with it through
// the foreign keys; meals the member prepaid keep their row with no payer.
func (s *txStore) DeleteMember(ctx context.Context, name string) error {
	res, err := s.tx.ExecContext(ctx, "DELETE FROM members WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member not found: %s: %w", name, storage.ErrNotFound)
	}
	return nil
}
