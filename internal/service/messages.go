package service

import "github.com/mmynk/lunchfund/internal/models"

// Member messages

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []string `json:"members"`
}

type AddMemberRequest struct {
	Name string `json:"name"`
}

type AddMemberResponse struct {
	Members []string `json:"members"`
}

type RemoveMemberRequest struct {
	Name string `json:"name"`
}

type RemoveMemberResponse struct {
	Members []string `json:"members"`
}

type InitMembersRequest struct {
	Names []string `json:"names"`
}

type InitMembersResponse struct {
	Members []string `json:"members"`
}

// Deposit messages

type Deposit struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Member       string `json:"member"`
	Amount       int64  `json:"amount"`
	Note         string `json:"note,omitempty"`
	SourceMealID string `json:"source_meal_id,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

type RecordDepositRequest struct {
	Date   string `json:"date"`
	Member string `json:"member"`
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

type RecordDepositResponse struct {
	Deposit *Deposit `json:"deposit"`
}

type UpdateDepositRequest struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Member string `json:"member"`
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

type UpdateDepositResponse struct {
	Deposit *Deposit `json:"deposit"`
}

type DeleteDepositRequest struct {
	ID string `json:"id"`
}

type DeleteDepositResponse struct{}

type GetDepositRequest struct {
	ID string `json:"id"`
}

type GetDepositResponse struct {
	Deposit *Deposit `json:"deposit"`
}

type ListDepositsRequest struct {
	Limit int `json:"limit"`
}

type ListDepositsResponse struct {
	Deposits []*Deposit `json:"deposits"`
}

// Meal messages

type MealShare struct {
	Member string `json:"member"`
	Main   int64  `json:"main"`
	Side   int64  `json:"side"`
	Total  int64  `json:"total"`
}

type Meal struct {
	ID         string       `json:"id"`
	Date       string       `json:"date"`
	EntryMode  string       `json:"entry_mode"`
	MainMode   string       `json:"main_mode"`
	SideMode   string       `json:"side_mode"`
	MainTotal  int64        `json:"main_total"`
	SideTotal  int64        `json:"side_total"`
	GrandTotal int64        `json:"grand_total"`
	GuestTotal int64        `json:"guest_total"`
	Payer      string       `json:"payer,omitempty"`
	Shares     []*MealShare `json:"shares,omitempty"`
	CreatedAt  int64        `json:"created_at"`
}

// RecordMealRequest carries amounts as raw text, the way they are typed into
// the entry form.
type RecordMealRequest struct {
	Date      string `json:"date"`
	EntryMode string `json:"entry_mode"`
	TotalMode string `json:"total_mode"`
	MainMode  string `json:"main_mode"`
	SideMode  string `json:"side_mode"`

	GrandTotal string `json:"grand_total"`
	MainTotal  string `json:"main_total"`
	SideTotal  string `json:"side_total"`
	GuestTotal string `json:"guest_total"`

	Diners []string `json:"diners"`

	TotalAmounts map[string]string `json:"total_amounts,omitempty"`
	MainAmounts  map[string]string `json:"main_amounts,omitempty"`
	SideAmounts  map[string]string `json:"side_amounts,omitempty"`

	Payer string `json:"payer"`
}

type RecordMealResponse struct {
	Meal *Meal `json:"meal"`
}

type GetMealRequest struct {
	ID string `json:"id"`
}

type GetMealResponse struct {
	Meal *Meal `json:"meal"`
}

type DeleteMealRequest struct {
	ID string `json:"id"`
}

type DeleteMealResponse struct{}

type ListMealsRequest struct {
	Limit int `json:"limit"`
}

type ListMealsResponse struct {
	Meals []*Meal `json:"meals"`
}

// Balance messages

type MemberBalance struct {
	Name      string `json:"name"`
	Deposited int64  `json:"deposited"`
	Used      int64  `json:"used"`
	Balance   int64  `json:"balance"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
}

type GetBalanceRequest struct {
	Name string `json:"name"`
}

type GetBalanceResponse struct {
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

type GetMealCountsRequest struct{}

type GetMealCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

type GetNegativeBalancesRequest struct{}

type GetNegativeBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
}

func depositToMessage(d *models.Deposit) *Deposit {
	return &Deposit{
		ID:           d.ID,
		Date:         d.Date,
		Member:       d.Member,
		Amount:       d.Amount,
		Note:         d.Note,
		SourceMealID: d.SourceMealID,
		CreatedAt:    d.CreatedAt,
	}
}

func mealToMessage(m *models.Meal) *Meal {
	msg := &Meal{
		ID:         m.ID,
		Date:       m.Date,
		EntryMode:  string(m.EntryMode),
		MainMode:   string(m.MainMode),
		SideMode:   string(m.SideMode),
		MainTotal:  m.MainTotal,
		SideTotal:  m.SideTotal,
		GrandTotal: m.GrandTotal,
		GuestTotal: m.GuestTotal,
		Payer:      m.Payer,
		CreatedAt:  m.CreatedAt,
	}
	for _, s := range m.Shares {
		msg.Shares = append(msg.Shares, &MealShare{
			Member: s.Member,
			Main:   s.Main,
			Side:   s.Side,
			Total:  s.Total,
		})
	}
	return msg
}

func balancesToMessage(balances []models.MemberBalance) []*MemberBalance {
	out := make([]*MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = &MemberBalance{
			Name:      b.Name,
			Deposited: b.Deposited,
			Used:      b.Used,
			Balance:   b.Balance,
		}
	}
	return out
}
