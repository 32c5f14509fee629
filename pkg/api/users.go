package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// UserServiceName is the fully-qualified name of the UserService.
const UserServiceName = "splitledger.v1.UserService"

// Procedure paths of the UserService.
const (
	UserServiceCreateUserProcedure      = "/" + UserServiceName + "/CreateUser"
	UserServiceGetUserProcedure         = "/" + UserServiceName + "/GetUser"
	UserServiceListUsersProcedure       = "/" + UserServiceName + "/ListUsers"
	UserServiceUpdateUserProcedure      = "/" + UserServiceName + "/UpdateUser"
	UserServiceDeleteUserProcedure      = "/" + UserServiceName + "/DeleteUser"
	UserServiceGetUserBalancesProcedure = "/" + UserServiceName + "/GetUserBalances"
	UserServiceGetUserSummaryProcedure  = "/" + UserServiceName + "/GetUserSummary"
)

// UserServiceHandler manages users and reports their balances.
type UserServiceHandler interface {
	CreateUser(context.Context, *connect.Request[CreateUserRequest]) (*connect.Response[UserResponse], error)
	GetUser(context.Context, *connect.Request[GetUserRequest]) (*connect.Response[UserResponse], error)
	ListUsers(context.Context, *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error)
	UpdateUser(context.Context, *connect.Request[UpdateUserRequest]) (*connect.Response[UserResponse], error)
	DeleteUser(context.Context, *connect.Request[DeleteUserRequest]) (*connect.Response[DeleteResponse], error)
	GetUserBalances(context.Context, *connect.Request[GetUserBalancesRequest]) (*connect.Response[UserBalancesResponse], error)
	GetUserSummary(context.Context, *connect.Request[GetUserSummaryRequest]) (*connect.Response[UserSummaryResponse], error)
}

// NewUserServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(UserServiceCreateUserProcedure, connect.NewUnaryHandler(UserServiceCreateUserProcedure, svc.CreateUser, opts...))
	mux.Handle(UserServiceGetUserProcedure, connect.NewUnaryHandler(UserServiceGetUserProcedure, svc.GetUser, opts...))
	mux.Handle(UserServiceListUsersProcedure, connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, opts...))
	mux.Handle(UserServiceUpdateUserProcedure, connect.NewUnaryHandler(UserServiceUpdateUserProcedure, svc.UpdateUser, opts...))
	mux.Handle(UserServiceDeleteUserProcedure, connect.NewUnaryHandler(UserServiceDeleteUserProcedure, svc.DeleteUser, opts...))
	mux.Handle(UserServiceGetUserBalancesProcedure, connect.NewUnaryHandler(UserServiceGetUserBalancesProcedure, svc.GetUserBalances, opts...))
	mux.Handle(UserServiceGetUserSummaryProcedure, connect.NewUnaryHandler(UserServiceGetUserSummaryProcedure, svc.GetUserSummary, opts...))
	return "/" + UserServiceName + "/", mux
}

// UserServiceClient is a client for the UserService.
type UserServiceClient struct {
	createUser      *connect.Client[CreateUserRequest, UserResponse]
	getUser         *connect.Client[GetUserRequest, UserResponse]
	listUsers       *connect.Client[ListUsersRequest, ListUsersResponse]
	updateUser      *connect.Client[UpdateUserRequest, UserResponse]
	deleteUser      *connect.Client[DeleteUserRequest, DeleteResponse]
	getUserBalances *connect.Client[GetUserBalancesRequest, UserBalancesResponse]
	getUserSummary  *connect.Client[GetUserSummaryRequest, UserSummaryResponse]
}

// NewUserServiceClient constructs a client for the UserService at baseURL
// (for example, http://localhost:8080).
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *UserServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &UserServiceClient{
		createUser:      connect.NewClient[CreateUserRequest, UserResponse](httpClient, baseURL+UserServiceCreateUserProcedure, opts...),
		getUser:         connect.NewClient[GetUserRequest, UserResponse](httpClient, baseURL+UserServiceGetUserProcedure, opts...),
		listUsers:       connect.NewClient[ListUsersRequest, ListUsersResponse](httpClient, baseURL+UserServiceListUsersProcedure, opts...),
		updateUser:      connect.NewClient[UpdateUserRequest, UserResponse](httpClient, baseURL+UserServiceUpdateUserProcedure, opts...),
		deleteUser:      connect.NewClient[DeleteUserRequest, DeleteResponse](httpClient, baseURL+UserServiceDeleteUserProcedure, opts...),
		getUserBalances: connect.NewClient[GetUserBalancesRequest, UserBalancesResponse](httpClient, baseURL+UserServiceGetUserBalancesProcedure, opts...),
		getUserSummary:  connect.NewClient[GetUserSummaryRequest, UserSummaryResponse](httpClient, baseURL+UserServiceGetUserSummaryProcedure, opts...),
	}
}

func (c *UserServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[UserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *UserServiceClient) GetUser(ctx context.Context, req *connect.Request[GetUserRequest]) (*connect.Response[UserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *UserServiceClient) ListUsers(ctx context.Context, req *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *UserServiceClient) UpdateUser(ctx context.Context, req *connect.Request[UpdateUserRequest]) (*connect.Response[UserResponse], error) {
	return c.updateUser.CallUnary(ctx, req)
}

func (c *UserServiceClient) DeleteUser(ctx context.Context, req *connect.Request[DeleteUserRequest]) (*connect.Response[DeleteResponse], error) {
	return c.deleteUser.CallUnary(ctx, req)
}

func (c *UserServiceClient) GetUserBalances(ctx context.Context, req *connect.Request[GetUserBalancesRequest]) (*connect.Response[UserBalancesResponse], error) {
	return c.getUserBalances.CallUnary(ctx, req)
}

func (c *UserServiceClient) GetUserSummary(ctx context.Context, req *connect.Request[GetUserSummaryRequest]) (*connect.Response[UserSummaryResponse], error) {
	return c.getUserSummary.CallUnary(ctx, req)
}
