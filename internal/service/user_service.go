package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/balance"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// UserService implements the Connect UserService.
type UserService struct {
	ledger   *ledger.Ledger
	balances *balance.Aggregator
}

var _ api.UserServiceHandler = (*UserService)(nil)

// NewUserService creates a UserService.
func NewUserService(l *ledger.Ledger, balances *balance.Aggregator) *UserService {
	return &UserService{ledger: l, balances: balances}
}

// CreateUser registers a new user.
func (s *UserService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.UserResponse], error) {
	slog.Info("CreateUser request received", "name", req.Msg.Name)

	user, err := s.ledger.CreateUser(ctx, req.Msg.Name, req.Msg.Email)
	if err != nil {
		return nil, fail("CreateUser", err, "name", req.Msg.Name)
	}

	slog.Info("User created", "user_id", user.ID)
	return connect.NewResponse(&api.UserResponse{User: toAPIUser(user)}), nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.UserResponse], error) {
	userID := req.Msg.UserID
	if err := required("user_id", userID); err != nil {
		return nil, fail("GetUser", err)
	}

	user, err := s.ledger.GetUser(ctx, userID)
	if err != nil {
		return nil, fail("GetUser", err, "user_id", userID)
	}
	return connect.NewResponse(&api.UserResponse{User: toAPIUser(user)}), nil
}

// ListUsers lists users by name, optionally filtered by a name search.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	page, err := pageOf(req.Msg.Offset, req.Msg.Limit, defaultPageSize, maxPageSize)
	if err != nil {
		return nil, fail("ListUsers", err)
	}

	users, err := s.ledger.ListUsers(ctx, req.Msg.Search, page)
	if err != nil {
		return nil, fail("ListUsers", err)
	}

	slog.Info("ListUsers successful", "count", len(users))
	return connect.NewResponse(&api.ListUsersResponse{Users: toAPIUsers(users)}), nil
}

// UpdateUser changes a user's name or email.
func (s *UserService) UpdateUser(ctx context.Context, req *connect.Request[api.UpdateUserRequest]) (*connect.Response[api.UserResponse], error) {
	userID := req.Msg.UserID
	slog.Info("UpdateUser request received", "user_id", userID)
	if err := required("user_id", userID); err != nil {
		return nil, fail("UpdateUser", err)
	}

	user, err := s.ledger.UpdateUser(ctx, userID, models.UserPatch{
		Name:  req.Msg.Name,
		Email: req.Msg.Email,
	})
	if err != nil {
		return nil, fail("UpdateUser", err, "user_id", userID)
	}

	slog.Info("User updated", "user_id", userID)
	return connect.NewResponse(&api.UserResponse{User: toAPIUser(user)}), nil
}

// DeleteUser removes a user who is settled up everywhere.
func (s *UserService) DeleteUser(ctx context.Context, req *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteResponse], error) {
	userID := req.Msg.UserID
	slog.Info("DeleteUser request received", "user_id", userID)
	if err := required("user_id", userID); err != nil {
		return nil, fail("DeleteUser", err)
	}

	if err := s.ledger.DeleteUser(ctx, userID); err != nil {
		return nil, fail("DeleteUser", err, "user_id", userID)
	}

	slog.Info("User deleted", "user_id", userID)
	return connect.NewResponse(deleted("user", userID)), nil
}

// GetUserBalances returns the user's balance in each of their groups.
func (s *UserService) GetUserBalances(ctx context.Context, req *connect.Request[api.GetUserBalancesRequest]) (*connect.Response[api.UserBalancesResponse], error) {
	userID := req.Msg.UserID
	if err := required("user_id", userID); err != nil {
		return nil, fail("GetUserBalances", err)
	}

	balances, err := s.balances.BalancesOfUser(ctx, userID)
	if err != nil {
		return nil, fail("GetUserBalances", err, "user_id", userID)
	}
	return connect.NewResponse(&api.UserBalancesResponse{Balances: toAPIGroupBalances(balances)}), nil
}

// GetUserSummary returns the user with their groups, balances and rollup.
func (s *UserService) GetUserSummary(ctx context.Context, req *connect.Request[api.GetUserSummaryRequest]) (*connect.Response[api.UserSummaryResponse], error) {
	userID := req.Msg.UserID
	if err := required("user_id", userID); err != nil {
		return nil, fail("GetUserSummary", err)
	}

	user, err := s.ledger.GetUser(ctx, userID)
	if err != nil {
		return nil, fail("GetUserSummary", err, "user_id", userID)
	}
	groups, err := s.ledger.ListUserGroups(ctx, userID)
	if err != nil {
		return nil, fail("GetUserSummary", err, "user_id", userID)
	}
	balances, err := s.balances.BalancesOfUser(ctx, userID)
	if err != nil {
		return nil, fail("GetUserSummary", err, "user_id", userID)
	}
	summary, err := s.balances.Summary(ctx, userID)
	if err != nil {
		return nil, fail("GetUserSummary", err, "user_id", userID)
	}

	return connect.NewResponse(&api.UserSummaryResponse{
		User:     toAPIUser(user),
		Summary:  toAPISummary(summary),
		Groups:   toAPIGroups(groups),
		Balances: toAPIGroupBalances(balances),
	}), nil
}
