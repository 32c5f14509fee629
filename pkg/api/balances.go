package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// BalanceServiceName is the fully-qualified name of the BalanceService.
const BalanceServiceName = "splitledger.v1.BalanceService"

// Procedure paths of the BalanceService.
const (
	BalanceServiceGetUserGroupBalanceProcedure = "/" + BalanceServiceName + "/GetUserGroupBalance"
	BalanceServiceGetSystemSummaryProcedure    = "/" + BalanceServiceName + "/GetSystemSummary"
)

// BalanceServiceHandler answers point balance queries and the system summary.
type BalanceServiceHandler interface {
	GetUserGroupBalance(context.Context, *connect.Request[GetUserGroupBalanceRequest]) (*connect.Response[UserGroupBalanceResponse], error)
	GetSystemSummary(context.Context, *connect.Request[GetSystemSummaryRequest]) (*connect.Response[SummaryResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(BalanceServiceGetUserGroupBalanceProcedure, connect.NewUnaryHandler(BalanceServiceGetUserGroupBalanceProcedure, svc.GetUserGroupBalance, opts...))
	mux.Handle(BalanceServiceGetSystemSummaryProcedure, connect.NewUnaryHandler(BalanceServiceGetSystemSummaryProcedure, svc.GetSystemSummary, opts...))
	return "/" + BalanceServiceName + "/", mux
}

// BalanceServiceClient is a client for the BalanceService.
type BalanceServiceClient struct {
	getUserGroupBalance *connect.Client[GetUserGroupBalanceRequest, UserGroupBalanceResponse]
	getSystemSummary    *connect.Client[GetSystemSummaryRequest, SummaryResponse]
}

// NewBalanceServiceClient constructs a client for the BalanceService at baseURL
// (for example, http://localhost:8080).
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &BalanceServiceClient{
		getUserGroupBalance: connect.NewClient[GetUserGroupBalanceRequest, UserGroupBalanceResponse](httpClient, baseURL+BalanceServiceGetUserGroupBalanceProcedure, opts...),
		getSystemSummary:    connect.NewClient[GetSystemSummaryRequest, SummaryResponse](httpClient, baseURL+BalanceServiceGetSystemSummaryProcedure, opts...),
	}
}

func (c *BalanceServiceClient) GetUserGroupBalance(ctx context.Context, req *connect.Request[GetUserGroupBalanceRequest]) (*connect.Response[UserGroupBalanceResponse], error) {
	return c.getUserGroupBalance.CallUnary(ctx, req)
}

func (c *BalanceServiceClient) GetSystemSummary(ctx context.Context, req *connect.Request[GetSystemSummaryRequest]) (*connect.Response[SummaryResponse], error) {
	return c.getSystemSummary.CallUnary(ctx, req)
}
