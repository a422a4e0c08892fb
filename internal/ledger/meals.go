package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mmynk/lunchfund/internal/calculator"
	"github.com/mmynk/lunchfund/internal/events"
	"github.com/mmynk/lunchfund/internal/models"
	"github.com/mmynk/lunchfund/internal/storage"
)

// MealRequest is a meal submission as entered by the user. Amounts are raw
// text: anything that is not a non-negative integer counts as 0.
type MealRequest struct {
	// Date in YYYY-MM-DD; empty means today.
	Date string

	EntryMode models.EntryMode
	// TotalMode is the distribution used in total entry mode.
	TotalMode models.DistMode
	MainMode  models.DistMode
	SideMode  models.DistMode

	GrandTotal string
	MainTotal  string
	SideTotal  string
	GuestTotal string

	// Diners must all be registered members; order does not matter.
	Diners []string

	// Custom amounts keyed by member name.
	TotalAmounts map[string]string
	MainAmounts  map[string]string
	SideAmounts  map[string]string

	// Payer is the member who prepaid the meal. Optional.
	Payer string
}

// AutoDepositNote is the note attached to the deposit reimbursing a payer.
func AutoDepositNote(mealID string) string {
	return fmt.Sprintf("[auto] meal #%s prepaid reimbursement (guests excluded)", mealID)
}

// ResolveAndRecordMeal apportions the meal among its diners and stores the
// meal, its shares and, when a registered payer prepaid a positive member
// sum, a reimbursement deposit for that payer. All of it is committed
// together or not at all.
func (l *Ledger) ResolveAndRecordMeal(ctx context.Context, req MealRequest) (*models.Meal, error) {
	date, err := l.normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	var (
		meal    *models.Meal
		deposit *models.Deposit
	)
	err = l.store.InTx(ctx, func(tx storage.Tx) error {
		roster, err := tx.ListMembers(ctx)
		if err != nil {
			return err
		}

		input, payer, err := l.buildInput(ctx, req, roster)
		if err != nil {
			return err
		}

		res, err := calculator.ResolveMeal(input)
		if err != nil {
			return resolveErr(err)
		}
		if res.EntryMode == models.EntryTotal && res.MainMode == models.DistCustom && l.customTotalCheck != nil {
			if err := l.customTotalCheck(res.Target, res.Sum()); err != nil {
				return err
			}
		}

		meal = &models.Meal{
			Date:       date,
			EntryMode:  res.EntryMode,
			MainMode:   res.MainMode,
			SideMode:   res.SideMode,
			MainTotal:  res.MainTotal,
			SideTotal:  res.SideTotal,
			GrandTotal: res.GrandTotal,
			GuestTotal: res.GuestTotal,
			Payer:      payer,
			Shares:     res.Shares,
		}
		if err := tx.CreateMeal(ctx, meal); err != nil {
			return err
		}

		if sum := meal.MemberSum(); payer != "" && sum > 0 {
			deposit = &models.Deposit{
				Date:         date,
				Member:       payer,
				Amount:       sum,
				Note:         AutoDepositNote(meal.ID),
				SourceMealID: meal.ID,
			}
			if err := tx.CreateDeposit(ctx, deposit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Shares come back from the store ordered by name; match that here.
	sort.Slice(meal.Shares, func(i, j int) bool {
		return meal.Shares[i].Member < meal.Shares[j].Member
	})

	slog.InfoContext(ctx, "Meal recorded",
		"meal_id", meal.ID,
		"entry_mode", meal.EntryMode,
		"diners", len(meal.Shares),
		"member_sum", meal.MemberSum(),
		"guest_total", meal.GuestTotal,
		"payer", meal.Payer,
	)

	e := events.New(events.MealRecorded)
	e.MealID = meal.ID
	e.Member = meal.Payer
	e.Amount = meal.MemberSum()
	l.publish(ctx, e)
	if deposit != nil {
		slog.InfoContext(ctx, "Auto-deposit recorded",
			"deposit_id", deposit.ID,
			"meal_id", meal.ID,
			"member", deposit.Member,
			"amount", deposit.Amount,
		)
		l.publish(ctx, depositEvent(events.DepositRecorded, deposit))
	}
	return meal, nil
}

// buildInput validates the request against the roster and converts it into
// calculator input. Diners are put into roster order.
func (l *Ledger) buildInput(ctx context.Context, req MealRequest, roster []string) (calculator.MealInput, string, error) {
	registered := make(map[string]bool, len(roster))
	for _, n := range roster {
		registered[n] = true
	}

	dining := make(map[string]bool, len(req.Diners))
	var unknown []string
	for _, n := range req.Diners {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if !registered[n] {
			unknown = append(unknown, n)
			continue
		}
		dining[n] = true
	}
	if len(unknown) > 0 {
		return calculator.MealInput{}, "", validationf("unknown diners: %s", strings.Join(unknown, ", "))
	}

	diners := make([]string, 0, len(dining))
	for _, n := range roster {
		if dining[n] {
			diners = append(diners, n)
		}
	}

	totals, err := parseAmounts(req.TotalAmounts, registered)
	if err != nil {
		return calculator.MealInput{}, "", err
	}
	mains, err := parseAmounts(req.MainAmounts, registered)
	if err != nil {
		return calculator.MealInput{}, "", err
	}
	sides, err := parseAmounts(req.SideAmounts, registered)
	if err != nil {
		return calculator.MealInput{}, "", err
	}

	payer := strings.TrimSpace(req.Payer)
	if payer != "" && !registered[payer] {
		slog.WarnContext(ctx, "Ignoring unregistered payer", "payer", payer)
		payer = ""
	}

	return calculator.MealInput{
		EntryMode:    req.EntryMode,
		TotalMode:    req.TotalMode,
		MainMode:     req.MainMode,
		SideMode:     req.SideMode,
		GrandTotal:   calculator.ParseAmount(req.GrandTotal),
		MainTotal:    calculator.ParseAmount(req.MainTotal),
		SideTotal:    calculator.ParseAmount(req.SideTotal),
		GuestTotal:   calculator.ParseAmount(req.GuestTotal),
		TotalAmounts: totals,
		MainAmounts:  mains,
		SideAmounts:  sides,
		Diners:       diners,
	}, payer, nil
}

// parseAmounts converts raw per-member amounts. Keys must name registered
// members.
func parseAmounts(raw map[string]string, registered map[string]bool) (map[string]int64, error) {
	out := make(map[string]int64, len(raw))
	var unknown []string
	for name, v := range raw {
		name = strings.TrimSpace(name)
		if !registered[name] {
			unknown = append(unknown, name)
			continue
		}
		out[name] = calculator.ParseAmount(v)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, validationf("amounts given for unknown members: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

func resolveErr(err error) error {
	switch {
	case errors.Is(err, calculator.ErrNoParticipants):
		return &Error{Kind: KindValidation, Msg: "select at least one diner", Err: err}
	case errors.Is(err, calculator.ErrAmountTooLarge):
		return &Error{Kind: KindValidation, Msg: fmt.Sprintf("meal amounts must not exceed %d", calculator.MaxAmount), Err: err}
	case errors.Is(err, calculator.ErrUnknownEntryMode), errors.Is(err, calculator.ErrUnknownDistMode):
		return &Error{Kind: KindValidation, Msg: err.Error(), Err: err}
	}
	return err
}

// GetMeal returns a meal with its shares ordered by member name.
func (l *Ledger) GetMeal(ctx context.Context, id string) (*models.Meal, error) {
	var meal *models.Meal
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		meal, err = tx.GetMeal(ctx, id)
		return err
	})
	if err != nil {
		return nil, mealErr(id, err)
	}
	return meal, nil
}

// ListMeals returns the latest meals, newest first, without shares.
// A non-positive limit means DefaultMealLimit.
func (l *Ledger) ListMeals(ctx context.Context, limit int) ([]*models.Meal, error) {
	if limit <= 0 {
		limit = DefaultMealLimit
	}
	var meals []*models.Meal
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		meals, err = tx.ListMeals(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return meals, nil
}

// DeleteMeal removes a meal, its shares and the auto-deposit that reimbursed
// its payer, restoring every involved balance to its pre-meal value.
func (l *Ledger) DeleteMeal(ctx context.Context, id string) error {
	var removed int64
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetMeal(ctx, id); err != nil {
			return err
		}
		var err error
		removed, err = tx.DeleteMealDeposits(ctx, id)
		if err != nil {
			return err
		}
		return tx.DeleteMeal(ctx, id)
	})
	if err != nil {
		return mealErr(id, err)
	}

	slog.InfoContext(ctx, "Meal deleted", "meal_id", id, "auto_deposits_removed", removed)
	e := events.New(events.MealDeleted)
	e.MealID = id
	l.publish(ctx, e)
	return nil
}

func mealErr(id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) && KindOf(err) == 0 {
		return notFoundf(err, "meal %s not found", id)
	}
	return err
}
