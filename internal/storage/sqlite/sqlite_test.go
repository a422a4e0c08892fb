package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/lunchfund/internal/models"
	"github.com/mmynk/lunchfund/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// inTx runs fn and fails the test on error.
func inTx(t *testing.T, store *SQLiteStore, fn func(tx storage.Tx) error) {
	t.Helper()
	if err := store.InTx(context.Background(), fn); err != nil {
		t.Fatalf("InTx failed: %v", err)
	}
}

func seedMembers(t *testing.T, store *SQLiteStore, names ...string) {
	t.Helper()
	inTx(t, store, func(tx storage.Tx) error {
		for _, n := range names {
			if err := tx.CreateMember(context.Background(), n); err != nil {
				return err
			}
		}
		return nil
	})
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedMembers(t, store, "Charlie", "Alice", "Bob")

	t.Run("ListMembers orders by name", func(t *testing.T) {
		inTx(t, store, func(tx storage.Tx) error {
			names, err := tx.ListMembers(ctx)
			if err != nil {
				return err
			}
			want := []string{"Alice", "Bob", "Charlie"}
			if len(names) != len(want) {
				t.Fatalf("got %v, want %v", names, want)
			}
			for i := range want {
				if names[i] != want[i] {
					t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
				}
			}
			return nil
		})
	})

	t.Run("CreateMember rejects duplicates", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			return tx.CreateMember(ctx, "Alice")
		})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("CreateDeposit generates ID", func(t *testing.T) {
		deposit := &models.Deposit{Date: "2024-03-01", Member: "Alice", Amount: 20000, Note: "march"}
		inTx(t, store, func(tx storage.Tx) error {
			return tx.CreateDeposit(ctx, deposit)
		})
		if deposit.ID == "" {
			t.Error("Expected deposit ID to be generated")
		}
		if deposit.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		inTx(t, store, func(tx storage.Tx) error {
			got, err := tx.GetDeposit(ctx, deposit.ID)
			if err != nil {
				return err
			}
			if got.Member != "Alice" || got.Amount != 20000 || got.Note != "march" || got.IsAuto() {
				t.Errorf("unexpected deposit: %+v", got)
			}
			return nil
		})
	})

	t.Run("GetDeposit returns ErrNotFound", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			_, err := tx.GetDeposit(ctx, "nonexistent-id")
			return err
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateMeal and GetMeal round trip", func(t *testing.T) {
		meal := &models.Meal{
			Date:       "2024-03-02",
			EntryMode:  models.EntryDetailed,
			MainMode:   models.DistEqual,
			SideMode:   models.DistCustom,
			MainTotal:  9000,
			SideTotal:  500,
			GrandTotal: 9500,
			Payer:      "Bob",
			Shares: []models.MealShare{
				{Member: "Charlie", Main: 3000, Side: 500, Total: 3500},
				{Member: "Alice", Main: 3000, Total: 3000},
				{Member: "Bob", Main: 3000, Total: 3000},
			},
		}
		inTx(t, store, func(tx storage.Tx) error {
			return tx.CreateMeal(ctx, meal)
		})
		if meal.ID == "" {
			t.Fatal("Expected meal ID to be generated")
		}
		for _, s := range meal.Shares {
			if s.MealID != meal.ID {
				t.Errorf("share %s MealID = %q, want %q", s.Member, s.MealID, meal.ID)
			}
		}

		inTx(t, store, func(tx storage.Tx) error {
			got, err := tx.GetMeal(ctx, meal.ID)
			if err != nil {
				return err
			}
			if got.EntryMode != models.EntryDetailed || got.SideMode != models.DistCustom {
				t.Errorf("modes mismatch: %+v", got)
			}
			if got.Payer != "Bob" {
				t.Errorf("Payer = %q, want Bob", got.Payer)
			}
			if len(got.Shares) != 3 || got.Shares[0].Member != "Alice" {
				t.Errorf("shares not ordered by name: %+v", got.Shares)
			}
			if got.MemberSum() != 9500 {
				t.Errorf("MemberSum = %d, want 9500", got.MemberSum())
			}
			return nil
		})
	})

	t.Run("failed transaction leaves nothing behind", func(t *testing.T) {
		meal := &models.Meal{
			Date:      "2024-03-03",
			EntryMode: models.EntryTotal,
			Shares: []models.MealShare{
				{Member: "Alice", Main: 100, Total: 100},
				{Member: "Nobody", Main: 100, Total: 100}, // violates foreign key
			},
		}
		err := store.InTx(ctx, func(tx storage.Tx) error {
			return tx.CreateMeal(ctx, meal)
		})
		if err == nil {
			t.Fatal("expected foreign key violation")
		}
		inTx(t, store, func(tx storage.Tx) error {
			_, err := tx.GetMeal(ctx, meal.ID)
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected meal to be rolled back, got %v", err)
			}
			return nil
		})
	})
}

func TestDeleteMealCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedMembers(t, store, "Alice", "Bob")

	meal := &models.Meal{
		Date:       "2024-04-01",
		EntryMode:  models.EntryTotal,
		MainMode:   models.DistEqual,
		SideMode:   models.DistNone,
		MainTotal:  10000,
		GrandTotal: 10000,
		Payer:      "Alice",
		Shares: []models.MealShare{
			{Member: "Alice", Main: 5000, Total: 5000},
			{Member: "Bob", Main: 5000, Total: 5000},
		},
	}
	manual := &models.Deposit{Date: "2024-04-01", Member: "Alice", Amount: 1000}
	inTx(t, store, func(tx storage.Tx) error {
		if err := tx.CreateMeal(ctx, meal); err != nil {
			return err
		}
		if err := tx.CreateDeposit(ctx, manual); err != nil {
			return err
		}
		return tx.CreateDeposit(ctx, &models.Deposit{
			Date: "2024-04-01", Member: "Alice", Amount: 10000, SourceMealID: meal.ID,
		})
	})

	inTx(t, store, func(tx storage.Tx) error {
		n, err := tx.DeleteMealDeposits(ctx, meal.ID)
		if err != nil {
			return err
		}
		if n != 1 {
			t.Errorf("DeleteMealDeposits removed %d, want 1", n)
		}
		return tx.DeleteMeal(ctx, meal.ID)
	})

	inTx(t, store, func(tx storage.Tx) error {
		used, err := tx.UsageSums(ctx)
		if err != nil {
			return err
		}
		if len(used) != 0 {
			t.Errorf("expected no meal shares left, got %v", used)
		}
		deposited, err := tx.DepositSums(ctx)
		if err != nil {
			return err
		}
		if deposited["Alice"] != 1000 {
			t.Errorf("Alice deposited = %d, want 1000 (manual deposit only)", deposited["Alice"])
		}
		return nil
	})

	err := store.InTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteMeal(ctx, meal.ID)
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteMeal: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMemberCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedMembers(t, store, "Alice", "Bob")

	meal := &models.Meal{
		Date:      "2024-05-01",
		EntryMode: models.EntryTotal,
		Payer:     "Bob",
		Shares:    []models.MealShare{{Member: "Bob", Main: 4000, Total: 4000}},
	}
	inTx(t, store, func(tx storage.Tx) error {
		if err := tx.CreateDeposit(ctx, &models.Deposit{Date: "2024-05-01", Member: "Bob", Amount: 4000}); err != nil {
			return err
		}
		return tx.CreateMeal(ctx, meal)
	})

	inTx(t, store, func(tx storage.Tx) error {
		return tx.DeleteMember(ctx, "Bob")
	})

	inTx(t, store, func(tx storage.Tx) error {
		dep, used, err := tx.MemberSums(ctx, "Bob")
		if err != nil {
			return err
		}
		if dep != 0 || used != 0 {
			t.Errorf("Bob sums = %d/%d, want 0/0", dep, used)
		}
		got, err := tx.GetMeal(ctx, meal.ID)
		if err != nil {
			return err
		}
		if got.Payer != "" {
			t.Errorf("Payer = %q, want empty after member deletion", got.Payer)
		}
		if len(got.Shares) != 0 {
			t.Errorf("expected shares removed, got %+v", got.Shares)
		}
		return nil
	})

	err := store.InTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteMember(ctx, "Bob")
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLedgerAggregates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedMembers(t, store, "Alice", "Bob")

	inTx(t, store, func(tx storage.Tx) error {
		for _, d := range []*models.Deposit{
			{Date: "2024-06-01", Member: "Alice", Amount: 10000},
			{Date: "2024-06-02", Member: "Alice", Amount: 5000},
			{Date: "2024-06-02", Member: "Bob", Amount: 3000},
		} {
			if err := tx.CreateDeposit(ctx, d); err != nil {
				return err
			}
		}
		for i := 0; i < 2; i++ {
			if err := tx.CreateMeal(ctx, &models.Meal{
				Date:      "2024-06-03",
				EntryMode: models.EntryTotal,
				Shares: []models.MealShare{
					{Member: "Alice", Main: 2000, Total: 2000},
					{Member: "Bob", Main: 1500, Total: 1500},
				},
			}); err != nil {
				return err
			}
		}
		return nil
	})

	inTx(t, store, func(tx storage.Tx) error {
		deposited, err := tx.DepositSums(ctx)
		if err != nil {
			return err
		}
		if deposited["Alice"] != 15000 || deposited["Bob"] != 3000 {
			t.Errorf("DepositSums = %v", deposited)
		}
		used, err := tx.UsageSums(ctx)
		if err != nil {
			return err
		}
		if used["Alice"] != 4000 || used["Bob"] != 3000 {
			t.Errorf("UsageSums = %v", used)
		}
		dep, use, err := tx.MemberSums(ctx, "Alice")
		if err != nil {
			return err
		}
		if dep != 15000 || use != 4000 {
			t.Errorf("MemberSums(Alice) = %d/%d, want 15000/4000", dep, use)
		}
		counts, err := tx.ShareCounts(ctx)
		if err != nil {
			return err
		}
		if counts["Alice"] != 2 || counts["Bob"] != 2 {
			t.Errorf("ShareCounts = %v", counts)
		}

		deposits, err := tx.ListDeposits(ctx, 2)
		if err != nil {
			return err
		}
		if len(deposits) != 2 || deposits[0].Member != "Bob" {
			t.Errorf("ListDeposits(2) not newest first: %+v", deposits)
		}
		meals, err := tx.ListMeals(ctx, 10)
		if err != nil {
			return err
		}
		if len(meals) != 2 {
			t.Errorf("ListMeals = %d meals, want 2", len(meals))
		}
		return nil
	})
}

func TestNewIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lunch.db")
	first, err := New(path)
	if err != nil {
		t.Fatalf("first New failed: %v", err)
	}
	first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatalf("second New failed: %v", err)
	}
	second.Close()
}
