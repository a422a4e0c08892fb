package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the service.
const LedgerServiceName = "lunchfund.v1.LedgerService"

// Procedure paths, relative to the server root.
const (
	ListMembersProcedure         = "/" + LedgerServiceName + "/ListMembers"
	AddMemberProcedure           = "/" + LedgerServiceName + "/AddMember"
	RemoveMemberProcedure        = "/" + LedgerServiceName + "/RemoveMember"
	InitMembersProcedure         = "/" + LedgerServiceName + "/InitMembers"
	RecordDepositProcedure       = "/" + LedgerServiceName + "/RecordDeposit"
	UpdateDepositProcedure       = "/" + LedgerServiceName + "/UpdateDeposit"
	DeleteDepositProcedure       = "/" + LedgerServiceName + "/DeleteDeposit"
	GetDepositProcedure          = "/" + LedgerServiceName + "/GetDeposit"
	ListDepositsProcedure        = "/" + LedgerServiceName + "/ListDeposits"
	RecordMealProcedure          = "/" + LedgerServiceName + "/RecordMeal"
	GetMealProcedure             = "/" + LedgerServiceName + "/GetMeal"
	DeleteMealProcedure          = "/" + LedgerServiceName + "/DeleteMeal"
	ListMealsProcedure           = "/" + LedgerServiceName + "/ListMeals"
	GetBalancesProcedure         = "/" + LedgerServiceName + "/GetBalances"
	GetBalanceProcedure          = "/" + LedgerServiceName + "/GetBalance"
	GetMealCountsProcedure       = "/" + LedgerServiceName + "/GetMealCounts"
	GetNegativeBalancesProcedure = "/" + LedgerServiceName + "/GetNegativeBalances"
)

func handle[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewLedgerServiceHandler builds an HTTP handler serving every LedgerService
// procedure. It returns the path to mount the handler on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	handle(mux, ListMembersProcedure, svc.ListMembers, opts)
	handle(mux, AddMemberProcedure, svc.AddMember, opts)
	handle(mux, RemoveMemberProcedure, svc.RemoveMember, opts)
	handle(mux, InitMembersProcedure, svc.InitMembers, opts)
	handle(mux, RecordDepositProcedure, svc.RecordDeposit, opts)
	handle(mux, UpdateDepositProcedure, svc.UpdateDeposit, opts)
	handle(mux, DeleteDepositProcedure, svc.DeleteDeposit, opts)
	handle(mux, GetDepositProcedure, svc.GetDeposit, opts)
	handle(mux, ListDepositsProcedure, svc.ListDeposits, opts)
	handle(mux, RecordMealProcedure, svc.RecordMeal, opts)
	handle(mux, GetMealProcedure, svc.GetMeal, opts)
	handle(mux, DeleteMealProcedure, svc.DeleteMeal, opts)
	handle(mux, ListMealsProcedure, svc.ListMeals, opts)
	handle(mux, GetBalancesProcedure, svc.GetBalances, opts)
	handle(mux, GetBalanceProcedure, svc.GetBalance, opts)
	handle(mux, GetMealCountsProcedure, svc.GetMealCounts, opts)
	handle(mux, GetNegativeBalancesProcedure, svc.GetNegativeBalances, opts)

	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls a remote LedgerService over Connect.
type LedgerServiceClient struct {
	listMembers         *connect.Client[ListMembersRequest, ListMembersResponse]
	addMember           *connect.Client[AddMemberRequest, AddMemberResponse]
	removeMember        *connect.Client[RemoveMemberRequest, RemoveMemberResponse]
	initMembers         *connect.Client[InitMembersRequest, InitMembersResponse]
	recordDeposit       *connect.Client[RecordDepositRequest, RecordDepositResponse]
	updateDeposit       *connect.Client[UpdateDepositRequest, UpdateDepositResponse]
	deleteDeposit       *connect.Client[DeleteDepositRequest, DeleteDepositResponse]
	getDeposit          *connect.Client[GetDepositRequest, GetDepositResponse]
	listDeposits        *connect.Client[ListDepositsRequest, ListDepositsResponse]
	recordMeal          *connect.Client[RecordMealRequest, RecordMealResponse]
	getMeal             *connect.Client[GetMealRequest, GetMealResponse]
	deleteMeal          *connect.Client[DeleteMealRequest, DeleteMealResponse]
	listMeals           *connect.Client[ListMealsRequest, ListMealsResponse]
	getBalances         *connect.Client[GetBalancesRequest, GetBalancesResponse]
	getBalance          *connect.Client[GetBalanceRequest, GetBalanceResponse]
	getMealCounts       *connect.Client[GetMealCountsRequest, GetMealCountsResponse]
	getNegativeBalances *connect.Client[GetNegativeBalancesRequest, GetNegativeBalancesResponse]
}

// NewLedgerServiceClient creates a client for the service at baseURL,
// e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &LedgerServiceClient{
		listMembers:         connect.NewClient[ListMembersRequest, ListMembersResponse](httpClient, baseURL+ListMembersProcedure, opts...),
		addMember:           connect.NewClient[AddMemberRequest, AddMemberResponse](httpClient, baseURL+AddMemberProcedure, opts...),
		removeMember:        connect.NewClient[RemoveMemberRequest, RemoveMemberResponse](httpClient, baseURL+RemoveMemberProcedure, opts...),
		initMembers:         connect.NewClient[InitMembersRequest, InitMembersResponse](httpClient, baseURL+InitMembersProcedure, opts...),
		recordDeposit:       connect.NewClient[RecordDepositRequest, RecordDepositResponse](httpClient, baseURL+RecordDepositProcedure, opts...),
		updateDeposit:       connect.NewClient[UpdateDepositRequest, UpdateDepositResponse](httpClient, baseURL+UpdateDepositProcedure, opts...),
		deleteDeposit:       connect.NewClient[DeleteDepositRequest, DeleteDepositResponse](httpClient, baseURL+DeleteDepositProcedure, opts...),
		getDeposit:          connect.NewClient[GetDepositRequest, GetDepositResponse](httpClient, baseURL+GetDepositProcedure, opts...),
		listDeposits:        connect.NewClient[ListDepositsRequest, ListDepositsResponse](httpClient, baseURL+ListDepositsProcedure, opts...),
		recordMeal:          connect.NewClient[RecordMealRequest, RecordMealResponse](httpClient, baseURL+RecordMealProcedure, opts...),
		getMeal:             connect.NewClient[GetMealRequest, GetMealResponse](httpClient, baseURL+GetMealProcedure, opts...),
		deleteMeal:          connect.NewClient[DeleteMealRequest, DeleteMealResponse](httpClient, baseURL+DeleteMealProcedure, opts...),
		listMeals:           connect.NewClient[ListMealsRequest, ListMealsResponse](httpClient, baseURL+ListMealsProcedure, opts...),
		getBalances:         connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+GetBalancesProcedure, opts...),
		getBalance:          connect.NewClient[GetBalanceRequest, GetBalanceResponse](httpClient, baseURL+GetBalanceProcedure, opts...),
		getMealCounts:       connect.NewClient[GetMealCountsRequest, GetMealCountsResponse](httpClient, baseURL+GetMealCountsProcedure, opts...),
		getNegativeBalances: connect.NewClient[GetNegativeBalancesRequest, GetNegativeBalancesResponse](httpClient, baseURL+GetNegativeBalancesProcedure, opts...),
	}
}

func (c *LedgerServiceClient) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) InitMembers(ctx context.Context, req *connect.Request[InitMembersRequest]) (*connect.Response[InitMembersResponse], error) {
	return c.initMembers.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecordDeposit(ctx context.Context, req *connect.Request[RecordDepositRequest]) (*connect.Response[RecordDepositResponse], error) {
	return c.recordDeposit.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdateDeposit(ctx context.Context, req *connect.Request[UpdateDepositRequest]) (*connect.Response[UpdateDepositResponse], error) {
	return c.updateDeposit.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteDeposit(ctx context.Context, req *connect.Request[DeleteDepositRequest]) (*connect.Response[DeleteDepositResponse], error) {
	return c.deleteDeposit.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetDeposit(ctx context.Context, req *connect.Request[GetDepositRequest]) (*connect.Response[GetDepositResponse], error) {
	return c.getDeposit.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListDeposits(ctx context.Context, req *connect.Request[ListDepositsRequest]) (*connect.Response[ListDepositsResponse], error) {
	return c.listDeposits.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecordMeal(ctx context.Context, req *connect.Request[RecordMealRequest]) (*connect.Response[RecordMealResponse], error) {
	return c.recordMeal.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetMeal(ctx context.Context, req *connect.Request[GetMealRequest]) (*connect.Response[GetMealResponse], error) {
	return c.getMeal.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteMeal(ctx context.Context, req *connect.Request[DeleteMealRequest]) (*connect.Response[DeleteMealResponse], error) {
	return c.deleteMeal.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListMeals(ctx context.Context, req *connect.Request[ListMealsRequest]) (*connect.Response[ListMealsResponse], error) {
	return c.listMeals.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalance(ctx context.Context, req *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetMealCounts(ctx context.Context, req *connect.Request[GetMealCountsRequest]) (*connect.Response[GetMealCountsResponse], error) {
	return c.getMealCounts.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetNegativeBalances(ctx context.Context, req *connect.Request[GetNegativeBalancesRequest]) (*connect.Response[GetNegativeBalancesResponse], error) {
	return c.getNegativeBalances.CallUnary(ctx, req)
}
