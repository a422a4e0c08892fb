package sqlite

import (
	"context"
	"fmt"
)

// DepositSums returns the total deposited per member.
func (s *txStore) DepositSums(ctx context.Context) (map[string]int64, error) {
	return s.sumBy(ctx, "SELECT name, COALESCE(SUM(amount), 0) FROM deposits GROUP BY name")
}

// UsageSums returns the total charged per member across all meals.
func (s *txStore) UsageSums(ctx context.Context) (map[string]int64, error) {
	return s.sumBy(ctx, "SELECT name, COALESCE(SUM(total_amount), 0) FROM meal_parts GROUP BY name")
}

// MemberSums returns deposited and used totals for one member.
func (s *txStore) MemberSums(ctx context.Context, name string) (int64, int64, error) {
	var deposited, used int64
	err := s.tx.QueryRowContext(ctx,
		`SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE name = ?),
			(SELECT COALESCE(SUM(total_amount), 0) FROM meal_parts WHERE name = ?)`,
		name, name,
	).Scan(&deposited, &used)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get member sums: %w", err)
	}
	return deposited, used, nil
}

// ShareCounts returns how many meals each member took part in.
func (s *txStore) ShareCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.tx.QueryContext(ctx, "SELECT name, COUNT(*) FROM meal_parts GROUP BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to count meal shares: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan meal share count: %w", err)
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal share counts: %w", err)
	}
	return counts, nil
}

func (s *txStore) sumBy(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := s.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int64)
	for rows.Next() {
		var name string
		var total int64
		if err := rows.Scan(&name, &total); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		sums[name] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregate: %w", err)
	}
	return sums, nil
}
