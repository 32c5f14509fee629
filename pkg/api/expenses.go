package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService.
const ExpenseServiceName = "splitledger.v1.ExpenseService"

// Procedure paths of the ExpenseService.
const (
	ExpenseServiceCreateExpenseProcedure     = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceGetExpenseProcedure        = "/" + ExpenseServiceName + "/GetExpense"
	ExpenseServiceListGroupExpensesProcedure = "/" + ExpenseServiceName + "/ListGroupExpenses"
	ExpenseServiceUpdateExpenseProcedure     = "/" + ExpenseServiceName + "/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure     = "/" + ExpenseServiceName + "/DeleteExpense"
	ExpenseServiceGetStatisticsProcedure     = "/" + ExpenseServiceName + "/GetStatistics"
)

// ExpenseServiceHandler records, edits and removes expenses.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	ListGroupExpenses(context.Context, *connect.Request[ListGroupExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteResponse], error)
	GetStatistics(context.Context, *connect.Request[GetStatisticsRequest]) (*connect.Response[StatisticsResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ExpenseServiceCreateExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(ExpenseServiceGetExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...))
	mux.Handle(ExpenseServiceListGroupExpensesProcedure, connect.NewUnaryHandler(ExpenseServiceListGroupExpensesProcedure, svc.ListGroupExpenses, opts...))
	mux.Handle(ExpenseServiceUpdateExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...))
	mux.Handle(ExpenseServiceDeleteExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(ExpenseServiceGetStatisticsProcedure, connect.NewUnaryHandler(ExpenseServiceGetStatisticsProcedure, svc.GetStatistics, opts...))
	return "/" + ExpenseServiceName + "/", mux
}

// ExpenseServiceClient is a client for the ExpenseService.
type ExpenseServiceClient struct {
	createExpense     *connect.Client[CreateExpenseRequest, ExpenseResponse]
	getExpense        *connect.Client[GetExpenseRequest, ExpenseResponse]
	listGroupExpenses *connect.Client[ListGroupExpensesRequest, ListExpensesResponse]
	updateExpense     *connect.Client[UpdateExpenseRequest, ExpenseResponse]
	deleteExpense     *connect.Client[DeleteExpenseRequest, DeleteResponse]
	getStatistics     *connect.Client[GetStatisticsRequest, StatisticsResponse]
}

// NewExpenseServiceClient constructs a client for the ExpenseService at baseURL
// (for example, http://localhost:8080).
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ExpenseServiceClient{
		createExpense:     connect.NewClient[CreateExpenseRequest, ExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:        connect.NewClient[GetExpenseRequest, ExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listGroupExpenses: connect.NewClient[ListGroupExpensesRequest, ListExpensesResponse](httpClient, baseURL+ExpenseServiceListGroupExpensesProcedure, opts...),
		updateExpense:     connect.NewClient[UpdateExpenseRequest, ExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		deleteExpense:     connect.NewClient[DeleteExpenseRequest, DeleteResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		getStatistics:     connect.NewClient[GetStatisticsRequest, StatisticsResponse](httpClient, baseURL+ExpenseServiceGetStatisticsProcedure, opts...),
	}
}

func (c *ExpenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) ListGroupExpenses(ctx context.Context, req *connect.Request[ListGroupExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listGroupExpenses.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) GetStatistics(ctx context.Context, req *connect.Request[GetStatisticsRequest]) (*connect.Response[StatisticsResponse], error) {
	return c.getStatistics.CallUnary(ctx, req)
}
