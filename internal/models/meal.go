package models

// EntryMode selects how the cost of a meal was entered.
type EntryMode string

const (
	// EntryTotal means a single grand total was entered.
	EntryTotal EntryMode = "total"
	// EntryDetailed means main and side components were entered separately.
	EntryDetailed EntryMode = "detailed"
)

// DistMode selects how one cost component is apportioned among diners.
type DistMode string

const (
	DistEqual  DistMode = "equal"
	DistCustom DistMode = "custom"
	// DistNone is only valid for the side component.
	DistNone DistMode = "none"
)

// Meal is one shared-cost event.
type Meal struct {
	// ID is the unique identifier for the meal (UUID format).
	ID string

	// Date is the date of the meal in YYYY-MM-DD format.
	Date string

	EntryMode EntryMode
	MainMode  DistMode
	SideMode  DistMode

	MainTotal  int64
	SideTotal  int64
	GrandTotal int64

	// GuestTotal is the part of the cost attributable to non-members.
	// It is kept for the record and excluded from member settlement.
	GuestTotal int64

	// Payer is the member who prepaid the meal, if any.
	Payer string

	// Shares holds one entry per participating member, ordered by name.
	Shares []MealShare

	// CreatedAt is the Unix timestamp when the meal was recorded.
	CreatedAt int64
}

// MemberSum returns the sum of all share totals.
func (m *Meal) MemberSum() int64 {
	var sum int64
	for _, s := range m.Shares {
		sum += s.Total
	}
	return sum
}

// MealShare is one member's charge for a meal.
type MealShare struct {
	MealID string
	Member string
	Main   int64
	Side   int64
	// Total is always Main + Side.
	Total int64
}
