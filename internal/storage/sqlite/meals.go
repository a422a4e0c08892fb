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

const mealColumns = `id, dt, entry_mode, main_mode, side_mode, main_total, side_total,
	grand_total, guest_total, payer_name, created_at`

// CreateMeal persists a meal and its shares.
func (s *txStore) CreateMeal(ctx context.Context, meal *models.Meal) error {
	// Generate IDs if not set
	if meal.ID == "" {
		meal.ID = uuid.New().String()
	}
	if meal.CreatedAt == 0 {
		meal.CreatedAt = time.Now().Unix()
	}

	var payer interface{} = nil
	if meal.Payer != "" {
		payer = meal.Payer
	}

	// Insert meal
	_, err := s.tx.ExecContext(ctx,
		`INSERT INTO meals (`+mealColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meal.ID, meal.Date, string(meal.EntryMode), string(meal.MainMode), string(meal.SideMode),
		meal.MainTotal, meal.SideTotal, meal.GrandTotal, meal.GuestTotal, payer, meal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}

	// Insert shares
	for i := range meal.Shares {
		share := &meal.Shares[i]
		share.MealID = meal.ID
		_, err = s.tx.ExecContext(ctx,
			`INSERT INTO meal_parts (meal_id, name, main_amount, side_amount, total_amount)
			 VALUES (?, ?, ?, ?, ?)`,
			meal.ID, share.Member, share.Main, share.Side, share.Total,
		)
		if err != nil {
			return fmt.Errorf("failed to insert meal share: %w", err)
		}
	}

	return nil
}

// GetMeal retrieves a meal by ID, including its shares.
func (s *txStore) GetMeal(ctx context.Context, id string) (*models.Meal, error) {
	meal, err := scanMeal(s.tx.QueryRowContext(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meal not found: %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	rows, err := s.tx.QueryContext(ctx,
		`SELECT name, main_amount, side_amount, total_amount
		 FROM meal_parts WHERE meal_id = ? ORDER BY name`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		share := models.MealShare{MealID: id}
		if err := rows.Scan(&share.Member, &share.Main, &share.Side, &share.Total); err != nil {
			return nil, fmt.Errorf("failed to scan meal share: %w", err)
		}
		meal.Shares = append(meal.Shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal shares: %w", err)
	}

	return meal, nil
}

// ListMeals retrieves the most recent meals without their shares.
func (s *txStore) ListMeals(ctx context.Context, limit int) ([]*models.Meal, error) {
	rows, err := s.tx.QueryContext(ctx,
		`SELECT `+mealColumns+` FROM meals
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var meals []*models.Meal
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}
	return meals, nil
}

// DeleteMeal removes a meal; its shares follow through ON DELETE CASCADE.
func (s *txStore) DeleteMeal(ctx context.Context, id string) error {
	res, err := s.tx.ExecContext(ctx, "DELETE FROM meals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return requireAffected(res, "meal", id)
}

func scanMeal(row rowScanner) (*models.Meal, error) {
	meal := &models.Meal{}
	var entryMode, mainMode, sideMode string
	var payer sql.NullString
	if err := row.Scan(&meal.ID, &meal.Date, &entryMode, &mainMode, &sideMode,
		&meal.MainTotal, &meal.SideTotal, &meal.GrandTotal, &meal.GuestTotal,
		&payer, &meal.CreatedAt); err != nil {
		return nil, err
	}
	meal.EntryMode = models.EntryMode(entryMode)
	meal.MainMode = models.DistMode(mainMode)
	meal.SideMode = models.DistMode(sideMode)
	if payer.Valid {
		meal.Payer = payer.String
	}
	return meal, nil
}
