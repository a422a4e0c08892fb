// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/lunchfund/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would violate a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

// Store opens transactions against the ledger tables.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger layer.
type Store interface {
	// InTx runs fn inside a single transaction. The transaction is committed
	// if fn returns nil and rolled back otherwise, including on panic.
	// The Tx must not be used after fn returns.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the set of operations available within one transaction.
type Tx interface {
	MemberStore
	DepositStore
	MealStore
	LedgerReader
}

// MemberStore manages the roster.
type MemberStore interface {
	// ListMembers returns all member names ordered by name.
	ListMembers(ctx context.Context) ([]string, error)

	// MemberExists reports whether name is registered.
	MemberExists(ctx context.Context, name string) (bool, error)

	// CreateMember registers a member. Returns ErrConflict if the name is taken.
	CreateMember(ctx context.Context, name string) error

	// DeleteMember removes a member together with their deposits and meal shares.
	// Returns ErrNotFound if the member does not exist.
	DeleteMember(ctx context.Context, name string) error
}

// DepositStore manages deposits.
type DepositStore interface {
	// CreateDeposit persists a deposit. The ID and CreatedAt fields are
	// populated by the store when empty.
	CreateDeposit(ctx context.Context, deposit *models.Deposit) error

	// GetDeposit returns ErrNotFound if the deposit does not exist.
	GetDeposit(ctx context.Context, id string) (*models.Deposit, error)

	// UpdateDeposit overwrites date, member, amount and note.
	// Returns ErrNotFound if the deposit does not exist.
	UpdateDeposit(ctx context.Context, deposit *models.Deposit) error

	// DeleteDeposit returns ErrNotFound if the deposit does not exist.
	DeleteDeposit(ctx context.Context, id string) error

	// ListDeposits returns up to limit deposits, newest first.
	ListDeposits(ctx context.Context, limit int) ([]*models.Deposit, error)

	// DeleteMealDeposits removes every deposit whose SourceMealID is mealID
	// and returns how many were removed.
	DeleteMealDeposits(ctx context.Context, mealID string) (int64, error)
}

// MealStore manages meals and their shares.
type MealStore interface {
	// CreateMeal persists the meal and all of its shares. The ID and
	// CreatedAt fields are populated by the store when empty, and the
	// MealID of every share is set.
	CreateMeal(ctx context.Context, meal *models.Meal) error

	// GetMeal returns the meal with its shares ordered by member name.
	// Returns ErrNotFound if the meal does not exist.
	GetMeal(ctx context.Context, id string) (*models.Meal, error)

	// ListMeals returns up to limit meals, newest first, without shares.
	ListMeals(ctx context.Context, limit int) ([]*models.Meal, error)

	// DeleteMeal removes the meal and its shares.
	// Returns ErrNotFound if the meal does not exist.
	DeleteMeal(ctx context.Context, id string) error
}

// LedgerReader provides the aggregates balances are derived from.
type LedgerReader interface {
	// DepositSums returns the sum of deposit amounts per member.
	DepositSums(ctx context.Context) (map[string]int64, error)

	// UsageSums returns the sum of meal share totals per member.
	UsageSums(ctx context.Context) (map[string]int64, error)

	// MemberSums returns the deposit and usage sums of a single member.
	MemberSums(ctx context.Context, name string) (deposited, used int64, err error)

	// ShareCounts returns the number of meal shares per member.
	ShareCounts(ctx context.Context) (map[string]int, error)
}
