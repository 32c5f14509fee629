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

// GroupService implements the Connect GroupService.
type GroupService struct {
	ledger   *ledger.Ledger
	balances *balance.Aggregator
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a GroupService.
func NewGroupService(l *ledger.Ledger, balances *balance.Aggregator) *GroupService {
	return &GroupService{ledger: l, balances: balances}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
	)

	group, err := s.ledger.CreateGroup(ctx, req.Msg.Name, req.Msg.MemberIDs)
	if err != nil {
		return nil, fail("CreateGroup", err, "name", req.Msg.Name)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	groupID := req.Msg.GroupID
	if err := required("group_id", groupID); err != nil {
		return nil, fail("GetGroup", err)
	}

	group, err := s.ledger.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fail("GetGroup", err, "group_id", groupID)
	}
	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups lists groups by name.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	page, err := pageOf(req.Msg.Offset, req.Msg.Limit, defaultPageSize, maxPageSize)
	if err != nil {
		return nil, fail("ListGroups", err)
	}

	groups, err := s.ledger.ListGroups(ctx, page)
	if err != nil {
		return nil, fail("ListGroups", err)
	}

	slog.Info("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: toAPIGroups(groups)}), nil
}

// ListUserGroups lists the groups a user belongs to.
func (s *GroupService) ListUserGroups(ctx context.Context, req *connect.Request[api.ListUserGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID := req.Msg.UserID
	if err := required("user_id", userID); err != nil {
		return nil, fail("ListUserGroups", err)
	}

	groups, err := s.ledger.ListUserGroups(ctx, userID)
	if err != nil {
		return nil, fail("ListUserGroups", err, "user_id", userID)
	}
	return connect.NewResponse(&api.ListGroupsResponse{Groups: toAPIGroups(groups)}), nil
}

// UpdateGroup renames a group or replaces its members.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("UpdateGroup request received",
		"group_id", groupID,
		"members_count", len(req.Msg.MemberIDs),
	)
	if err := required("group_id", groupID); err != nil {
		return nil, fail("UpdateGroup", err)
	}

	group, err := s.ledger.UpdateGroup(ctx, groupID, models.GroupPatch{
		Name:      req.Msg.Name,
		MemberIDs: req.Msg.MemberIDs,
	})
	if err != nil {
		return nil, fail("UpdateGroup", err, "group_id", groupID)
	}

	slog.Info("Group updated", "group_id", groupID, "members_count", len(group.Members))
	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group that has no expenses.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("DeleteGroup request received", "group_id", groupID)
	if err := required("group_id", groupID); err != nil {
		return nil, fail("DeleteGroup", err)
	}

	if err := s.ledger.DeleteGroup(ctx, groupID); err != nil {
		return nil, fail("DeleteGroup", err, "group_id", groupID)
	}

	slog.Info("Group deleted", "group_id", groupID)
	return connect.NewResponse(deleted("group", groupID)), nil
}

// GetGroupBalances returns every member's balance, most indebted first.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)
	if err := required("group_id", groupID); err != nil {
		return nil, fail("GetGroupBalances", err)
	}

	group, err := s.ledger.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fail("GetGroupBalances", err, "group_id", groupID)
	}
	balances, err := s.balances.BalancesInGroup(ctx, groupID)
	if err != nil {
		return nil, fail("GetGroupBalances", err, "group_id", groupID)
	}

	return connect.NewResponse(&api.GroupBalancesResponse{
		GroupID:   group.ID,
		GroupName: group.Name,
		Balances:  toAPIMemberBalances(balances),
	}), nil
}

// GetSettlements suggests the payments that would settle a group.
func (s *GroupService) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.SettlementsResponse], error) {
	groupID := req.Msg.GroupID
	if err := required("group_id", groupID); err != nil {
		return nil, fail("GetSettlements", err)
	}

	settlements, err := s.balances.SuggestSettlements(ctx, groupID)
	if err != nil {
		return nil, fail("GetSettlements", err, "group_id", groupID)
	}

	slog.Info("GetSettlements successful", "group_id", groupID, "count", len(settlements))
	return connect.NewResponse(&api.SettlementsResponse{Settlements: toAPISettlements(settlements)}), nil
}
