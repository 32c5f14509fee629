package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/balance"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/pkg/api"
)

// BalanceService implements the Connect BalanceService.
type BalanceService struct {
	ledger   *ledger.Ledger
	balances *balance.Aggregator
}

var _ api.BalanceServiceHandler = (*BalanceService)(nil)

// NewBalanceService creates a BalanceService.
func NewBalanceService(l *ledger.Ledger, balances *balance.Aggregator) *BalanceService {
	return &BalanceService{ledger: l, balances: balances}
}

// GetUserGroupBalance returns what a user paid, owes and nets in a group.
// A user outside the group gets a zero balance.
func (s *BalanceService) GetUserGroupBalance(ctx context.Context, req *connect.Request[api.GetUserGroupBalanceRequest]) (*connect.Response[api.UserGroupBalanceResponse], error) {
	userID, groupID := req.Msg.UserID, req.Msg.GroupID
	if err := required("user_id", userID); err != nil {
		return nil, fail("GetUserGroupBalance", err)
	}
	if err := required("group_id", groupID); err != nil {
		return nil, fail("GetUserGroupBalance", err)
	}

	user, err := s.ledger.GetUser(ctx, userID)
	if err != nil {
		return nil, fail("GetUserGroupBalance", err, "user_id", userID)
	}
	group, err := s.ledger.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fail("GetUserGroupBalance", err, "group_id", groupID)
	}
	b, err := s.balances.BalanceOf(ctx, userID, groupID)
	if err != nil {
		return nil, fail("GetUserGroupBalance", err, "user_id", userID, "group_id", groupID)
	}

	return connect.NewResponse(&api.UserGroupBalanceResponse{
		UserID:    user.ID,
		UserName:  user.Name,
		GroupID:   group.ID,
		GroupName: group.Name,
		Balance:   api.NewNumber(b.Balance),
		PaidTotal: api.NewNumber(b.Paid),
		OwesTotal: api.NewNumber(b.Owed),
	}), nil
}

// GetSystemSummary rolls balances up across every group.
func (s *BalanceService) GetSystemSummary(ctx context.Context, req *connect.Request[api.GetSystemSummaryRequest]) (*connect.Response[api.SummaryResponse], error) {
	summary, err := s.balances.Summary(ctx, "")
	if err != nil {
		return nil, fail("GetSystemSummary", err)
	}
	return connect.NewResponse(&api.SummaryResponse{Summary: toAPISummary(summary)}), nil
}
