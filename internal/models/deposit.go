package models

// Deposit is a credit to a member's balance.
type Deposit struct {
	// ID is the unique identifier for the deposit (UUID format).
	ID string

	// Date is the booking date in YYYY-MM-DD format.
	Date string

	// Member is the name of the member credited.
	Member string

	// Amount is the credited amount. Never negative.
	Amount int64

	// Note is free text shown alongside the deposit.
	Note string

	// SourceMealID is set on auto-deposits and references the meal whose
	// prepaid cost this deposit reimburses. Empty for manual deposits.
	SourceMealID string

	// CreatedAt is the Unix timestamp when the deposit was recorded.
	CreatedAt int64
}

// IsAuto reports whether the deposit was synthesized for a meal payer.
func (d *Deposit) IsAuto() bool {
	return d.SourceMealID != ""
}
