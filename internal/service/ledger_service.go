package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/lunchfund/internal/ledger"
	"github.com/mmynk/lunchfund/internal/models"
	"github.com/mmynk/lunchfund/internal/storage"
)

// LedgerService implements the Connect LedgerService on top of a ledger.
type LedgerService struct {
	ledger *ledger.Ledger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// toConnectError maps ledger failures onto Connect codes. Anything that is
// not a ledger error is reported as internal.
func toConnectError(ctx context.Context, op string, err error) error {
	switch ledger.KindOf(err) {
	case ledger.KindValidation:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case ledger.KindConstraint:
		if errors.Is(err, storage.ErrConflict) {
			return connect.NewError(connect.CodeAlreadyExists, err)
		}
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case ledger.KindNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	}
	slog.ErrorContext(ctx, op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

// ListMembers returns the roster.
func (s *LedgerService) ListMembers(ctx context.Context, _ *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	names, err := s.ledger.ListMembers(ctx)
	if err != nil {
		return nil, toConnectError(ctx, "ListMembers", err)
	}
	return connect.NewResponse(&ListMembersResponse{Members: names}), nil
}

// AddMember registers a member and returns the updated roster.
func (s *LedgerService) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	if err := s.ledger.AddMember(ctx, req.Msg.Name); err != nil {
		return nil, toConnectError(ctx, "AddMember", err)
	}
	names, err := s.ledger.ListMembers(ctx)
	if err != nil {
		return nil, toConnectError(ctx, "AddMember", err)
	}
	return connect.NewResponse(&AddMemberResponse{Members: names}), nil
}

// RemoveMember deletes a member with a zero balance and returns the updated roster.
func (s *LedgerService) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	if err := s.ledger.RemoveMember(ctx, req.Msg.Name); err != nil {
		return nil, toConnectError(ctx, "RemoveMember", err)
	}
	names, err := s.ledger.ListMembers(ctx)
	if err != nil {
		return nil, toConnectError(ctx, "RemoveMember", err)
	}
	return connect.NewResponse(&RemoveMemberResponse{Members: names}), nil
}

// InitMembers sets up the first roster.
func (s *LedgerService) InitMembers(ctx context.Context, req *connect.Request[InitMembersRequest]) (*connect.Response[InitMembersResponse], error) {
	if _, err := s.ledger.InitMembers(ctx, req.Msg.Names); err != nil {
		return nil, toConnectError(ctx, "InitMembers", err)
	}
	names, err := s.ledger.ListMembers(ctx)
	if err != nil {
		return nil, toConnectError(ctx, "InitMembers", err)
	}
	return connect.NewResponse(&InitMembersResponse{Members: names}), nil
}

// RecordDeposit credits a member.
func (s *LedgerService) RecordDeposit(ctx context.Context, req *connect.Request[RecordDepositRequest]) (*connect.Response[RecordDepositResponse], error) {
	deposit, err := s.ledger.RecordDeposit(ctx, ledger.DepositInput{
		Date:   req.Msg.Date,
		Member: req.Msg.Member,
		Amount: req.Msg.Amount,
		Note:   req.Msg.Note,
	})
	if err != nil {
		return nil, toConnectError(ctx, "RecordDeposit", err)
	}
	return connect.NewResponse(&RecordDepositResponse{Deposit: depositToMessage(deposit)}), nil
}

// UpdateDeposit edits a deposit.
func (s *LedgerService) UpdateDeposit(ctx context.Context, req *connect.Request[UpdateDepositRequest]) (*connect.Response[UpdateDepositResponse], error) {
	deposit, err := s.ledger.UpdateDeposit(ctx, req.Msg.ID, ledger.DepositInput{
		Date:   req.Msg.Date,
		Member: req.Msg.Member,
		Amount: req.Msg.Amount,
		Note:   req.Msg.Note,
	})
	if err != nil {
		return nil, toConnectError(ctx, "UpdateDeposit", err)
	}
	return connect.NewResponse(&UpdateDepositResponse{Deposit: depositToMessage(deposit)}), nil
}

// DeleteDeposit removes a deposit.
func (s *LedgerService) DeleteDeposit(ctx context.Context, req *connect.Request[DeleteDepositRequest]) (*connect.Response[DeleteDepositResponse], error) {
	if err := s.ledger.DeleteDeposit(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, "DeleteDeposit", err)
	}
	return connect.NewResponse(&DeleteDepositResponse{}), nil
}

// GetDeposit returns one deposit.
func (s *LedgerService) GetDeposit(ctx context.Context, req *connect.Request[GetDepositRequest]) (*connect.Response[GetDepositResponse], error) {
	deposit, err := s.ledger.GetDeposit(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, "GetDeposit", err)
	}
	return connect.NewResponse(&GetDepositResponse{Deposit: depositToMessage(deposit)}), nil
}

// ListDeposits returns the latest deposits, newest first.
func (s *LedgerService) ListDeposits(ctx context.Context, req *connect.Request[ListDepositsRequest]) (*connect.Response[ListDepositsResponse], error) {
	deposits, err := s.ledger.ListDeposits(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, "ListDeposits", err)
	}
	out := make([]*Deposit, len(deposits))
	for i, d := range deposits {
		out[i] = depositToMessage(d)
	}
	return connect.NewResponse(&ListDepositsResponse{Deposits: out}), nil
}

// RecordMeal resolves and stores a meal, reimbursing its payer.
func (s *LedgerService) RecordMeal(ctx context.Context, req *connect.Request[RecordMealRequest]) (*connect.Response[RecordMealResponse], error) {
	slog.DebugContext(ctx, "Recording meal",
		"entry_mode", req.Msg.EntryMode,
		"diners", req.Msg.Diners,
		"payer", req.Msg.Payer,
	)
	meal, err := s.ledger.ResolveAndRecordMeal(ctx, ledger.MealRequest{
		Date:         req.Msg.Date,
		EntryMode:    models.EntryMode(req.Msg.EntryMode),
		TotalMode:    models.DistMode(req.Msg.TotalMode),
		MainMode:     models.DistMode(req.Msg.MainMode),
		SideMode:     models.DistMode(req.Msg.SideMode),
		GrandTotal:   req.Msg.GrandTotal,
		MainTotal:    req.Msg.MainTotal,
		SideTotal:    req.Msg.SideTotal,
		GuestTotal:   req.Msg.GuestTotal,
		Diners:       req.Msg.Diners,
		TotalAmounts: req.Msg.TotalAmounts,
		MainAmounts:  req.Msg.MainAmounts,
		SideAmounts:  req.Msg.SideAmounts,
		Payer:        req.Msg.Payer,
	})
	if err != nil {
		return nil, toConnectError(ctx, "RecordMeal", err)
	}
	return connect.NewResponse(&RecordMealResponse{Meal: mealToMessage(meal)}), nil
}

// GetMeal returns a meal with its per-diner shares.
func (s *LedgerService) GetMeal(ctx context.Context, req *connect.Request[GetMealRequest]) (*connect.Response[GetMealResponse], error) {
	meal, err := s.ledger.GetMeal(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, "GetMeal", err)
	}
	return connect.NewResponse(&GetMealResponse{Meal: mealToMessage(meal)}), nil
}

// DeleteMeal removes a meal and its auto-deposit.
func (s *LedgerService) DeleteMeal(ctx context.Context, req *connect.Request[DeleteMealRequest]) (*connect.Response[DeleteMealResponse], error) {
	if err := s.ledger.DeleteMeal(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, "DeleteMeal", err)
	}
	return connect.NewResponse(&DeleteMealResponse{}), nil
}

// ListMeals returns the latest meals, newest first.
func (s *LedgerService) ListMeals(ctx context.Context, req *connect.Request[ListMealsRequest]) (*connect.Response[ListMealsResponse], error) {
	meals, err := s.ledger.ListMeals(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, "ListMeals", err)
	}
	out := make([]*Meal, len(meals))
	for i, m := range meals {
		out[i] = mealToMessage(m)
	}
	return connect.NewResponse(&ListMealsResponse{Meals: out}), nil
}

// GetBalances returns every member's balance.
func (s *LedgerService) GetBalances(ctx context.Context, _ *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	balances, err := s.ledger.Balances(ctx)
	if err != nil {
		return nil, toConnectError(ctx, "GetBalances", err)
	}
	return connect.NewResponse(&GetBalancesResponse{Balances: balancesToMessage(balances)}), nil
}

// GetBalance returns one member's balance.
func (s *LedgerService) GetBalance(ctx context.Context, req *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	balance, err := s.ledger.BalanceOf(ctx, name)
	if err != nil {
		return nil, toConnectError(ctx, "GetBalance", err)
	}
	return connect.NewResponse(&GetBalanceResponse{Name: name, Balance: balance}), nil
}

// GetMealCounts returns how many meals each member took part in.
func (s *LedgerService) GetMealCounts(ctx context.Context, _ *connect.Request[GetMealCountsRequest]) (*connect.Response[GetMealCountsResponse], error) {
	counts, err := s.ledger.MealCounts(ctx)
	if err != nil {
		return nil, toConnectError(ctx, "GetMealCounts", err)
	}
	return connect.NewResponse(&GetMealCountsResponse{Counts: counts}), nil
}

// GetNegativeBalances returns the members who owe the fund.
func (s *LedgerService) GetNegativeBalances(ctx context.Context, _ *connect.Request[GetNegativeBalancesRequest]) (*connect.Response[GetNegativeBalancesResponse], error) {
	balances, err := s.ledger.NegativeBalances(ctx)
	if err != nil {
		return nil, toConnectError(ctx, "GetNegativeBalances", err)
	}
	return connect.NewResponse(&GetNegativeBalancesResponse{Balances: balancesToMessage(balances)}), nil
}
