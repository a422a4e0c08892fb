package models

// Member is a registered participant of the fund.
type Member struct {
	// Name is the unique identifier of the member.
	Name string
}

// MemberBalance is the running balance of one member.
// Balance is always Deposited - Used; it is recomputed on every read.
type MemberBalance struct {
	Name      string
	Deposited int64
	Used      int64
	Balance   int64
}
