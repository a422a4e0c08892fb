package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmynk/lunchfund/internal/models"
)

// MaxAmount is the largest amount accepted anywhere in a meal: a single
// entered value, a share, a component total or the grand total. Deposits use
// the same bound. It keeps every per-row value and every aggregate far from
// int64 overflow.
const MaxAmount int64 = 1_000_000_000_000

var (
	ErrNoParticipants   = errors.New("at least one diner is required")
	ErrUnknownEntryMode = errors.New("unknown entry mode")
	ErrUnknownDistMode  = errors.New("unknown distribution mode")
	ErrAmountTooLarge   = fmt.Errorf("amount exceeds %d", MaxAmount)
)

// SplitEven distributes total across n participants without losing a unit.
// Every participant gets total/n; the first total%n participants get one more.
// Returns nil if n <= 0.
func SplitEven(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	base := total / int64(n)
	rem := int(total % int64(n))

	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if i < rem {
			shares[i]++
		}
	}
	return shares
}

// ParseAmount parses a raw user-entered amount.
// Thousands separators and surrounding spaces are ignored. Anything that is
// not an integer between 0 and MaxAmount yields 0.
func ParseAmount(raw string) int64 {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 || v > MaxAmount {
		return 0
	}
	return v
}

// MealInput is everything needed to apportion one meal.
type MealInput struct {
	EntryMode models.EntryMode

	// TotalMode applies to EntryTotal; MainMode and SideMode to EntryDetailed.
	// Empty values fall back to equal, custom and none respectively.
	TotalMode models.DistMode
	MainMode  models.DistMode
	SideMode  models.DistMode

	GrandTotal int64
	MainTotal  int64
	SideTotal  int64
	GuestTotal int64

	// Per-diner custom amounts. Missing entries count as 0.
	TotalAmounts map[string]int64
	MainAmounts  map[string]int64
	SideAmounts  map[string]int64

	// Diners in canonical roster order. The remainder of an equal split goes
	// to the earliest diners.
	Diners []string
}

// Resolution is the outcome of ResolveMeal.
type Resolution struct {
	EntryMode models.EntryMode
	MainMode  models.DistMode
	SideMode  models.DistMode

	MainTotal  int64
	SideTotal  int64
	GrandTotal int64
	GuestTotal int64

	// Target is the member-attributable amount the shares were computed from.
	Target int64

	// Shares are in diner order.
	Shares []models.MealShare
}

// Sum returns the total charged to members.
func (r *Resolution) Sum() int64 {
	var sum int64
	for _, s := range r.Shares {
		sum += s.Total
	}
	return sum
}

// ResolveMeal computes each diner's main, side and total amount.
// It returns ErrAmountTooLarge if any input amount, share or total would
// exceed MaxAmount.
func ResolveMeal(in MealInput) (*Resolution, error) {
	if len(in.Diners) == 0 {
		return nil, ErrNoParticipants
	}
	for _, v := range []int64{in.GrandTotal, in.MainTotal, in.SideTotal, in.GuestTotal} {
		if v > MaxAmount {
			return nil, ErrAmountTooLarge
		}
	}

	res := &Resolution{
		EntryMode:  in.EntryMode,
		GuestTotal: clamp(in.GuestTotal),
	}
	if res.EntryMode == "" {
		res.EntryMode = models.EntryTotal
	}

	var (
		main, side []int64
		err        error
	)
	switch res.EntryMode {
	case models.EntryTotal:
		mode := orDefault(in.TotalMode, models.DistEqual)
		res.GrandTotal = clamp(in.GrandTotal)
		res.Target = clamp(res.GrandTotal - res.GuestTotal)

		switch mode {
		case models.DistEqual:
			main = SplitEven(res.Target, len(in.Diners))
		case models.DistCustom:
			if main, err = pick(in.TotalAmounts, in.Diners); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownDistMode, mode)
		}
		side = make([]int64, len(in.Diners))
		res.MainMode = mode
		res.SideMode = models.DistNone
		if res.MainTotal, err = checkedSum(main...); err != nil {
			return nil, err
		}

	case models.EntryDetailed:
		res.MainMode = orDefault(in.MainMode, models.DistCustom)
		res.SideMode = orDefault(in.SideMode, models.DistNone)

		switch res.MainMode {
		case models.DistEqual:
			main = SplitEven(clamp(in.MainTotal), len(in.Diners))
		case models.DistCustom:
			if main, err = pick(in.MainAmounts, in.Diners); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w for main: %q", ErrUnknownDistMode, res.MainMode)
		}

		switch res.SideMode {
		case models.DistEqual:
			side = SplitEven(clamp(in.SideTotal), len(in.Diners))
		case models.DistCustom:
			if side, err = pick(in.SideAmounts, in.Diners); err != nil {
				return nil, err
			}
		case models.DistNone:
			side = make([]int64, len(in.Diners))
		default:
			return nil, fmt.Errorf("%w for side: %q", ErrUnknownDistMode, res.SideMode)
		}

		if res.MainTotal, err = checkedSum(main...); err != nil {
			return nil, err
		}
		if res.SideTotal, err = checkedSum(side...); err != nil {
			return nil, err
		}
		if res.Target, err = checkedSum(res.MainTotal, res.SideTotal); err != nil {
			return nil, err
		}
		if res.GrandTotal, err = checkedSum(res.Target, res.GuestTotal); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntryMode, in.EntryMode)
	}

	res.Shares = make([]models.MealShare, len(in.Diners))
	for i, name := range in.Diners {
		total, err := checkedSum(main[i], side[i])
		if err != nil {
			return nil, err
		}
		res.Shares[i] = models.MealShare{
			Member: name,
			Main:   main[i],
			Side:   side[i],
			Total:  total,
		}
	}
	return res, nil
}

func pick(amounts map[string]int64, diners []string) ([]int64, error) {
	out := make([]int64, len(diners))
	for i, name := range diners {
		v := clamp(amounts[name])
		if v > MaxAmount {
			return nil, fmt.Errorf("%w: amount for %s", ErrAmountTooLarge, name)
		}
		out[i] = v
	}
	return out, nil
}

// checkedSum adds non-negative amounts, failing once the running total
// passes MaxAmount. Operands are at most MaxAmount, so the addition itself
// never overflows.
func checkedSum(values ...int64) (int64, error) {
	var total int64
	for _, v := range values {
		if v > MaxAmount || total > MaxAmount-v {
			return 0, ErrAmountTooLarge
		}
		total += v
	}
	return total, nil
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func orDefault(mode, fallback models.DistMode) models.DistMode {
	if mode == "" {
		return fallback
	}
	return mode
}
