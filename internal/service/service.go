// Package service implements the splitledger.v1 Connect services on top of
// the ledger, the balance aggregator and the assistant.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// Listing windows.
const (
	defaultPageSize        = 100
	maxPageSize            = 1000
	defaultExpensePageSize = 50
	maxExpensePageSize     = 200
)

// connectError maps a ledger error onto a Connect error code.
func connectError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	}

	switch errs.KindOf(err) {
	case errs.NotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case errs.Validation:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errs.Conflict:
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs a failed call and returns its Connect error. Caller mistakes
// are logged at warn level, everything else at error level.
func fail(procedure string, err error, args ...any) error {
	cerr := connectError(err)
	args = append(args, "error", err)
	if connect.CodeOf(cerr) == connect.CodeInternal {
		slog.Error(procedure+" failed", args...)
	} else {
		slog.Warn(procedure+" failed", args...)
	}
	return cerr
}

// required rejects an empty identifier.
func required(field, value string) error {
	if value == "" {
		return errs.Validationf("%s required", field)
	}
	return nil
}

// pageOf validates a requested window. A zero limit selects def.
func pageOf(offset, limit, def, maxLimit int) (models.Page, error) {
	if offset < 0 {
		return models.Page{}, errs.Validationf("offset must not be negative")
	}
	if limit < 0 || limit > maxLimit {
		return models.Page{}, errs.Validationf("limit must be between 1 and %d", maxLimit)
	}
	if limit == 0 {
		limit = def
	}
	return models.Page{Offset: offset, Limit: limit}, nil
}

func deleted(kind, id string) *api.DeleteResponse {
	return &api.DeleteResponse{Message: fmt.Sprintf("%s %s deleted", kind, id)}
}

// Model to message conversions.

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIUsers(users []*models.User) []api.User {
	out := make([]api.User, len(users))
	for i, u := range users {
		out[i] = toAPIUser(u)
	}
	return out
}

func toAPIGroup(g *models.Group) api.Group {
	members := make([]api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = api.Member{UserID: m.UserID, Name: m.Name}
	}
	return api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIGroups(groups []*models.Group) []api.Group {
	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}
	return out
}

func toAPIExpense(e *models.Expense) api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{
			ID:         s.ID,
			UserID:     s.UserID,
			UserName:   s.UserName,
			Amount:     api.NewNumber(s.Amount),
			Percentage: api.NumberPtr(s.Percentage),
		}
	}
	return api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      api.NewNumber(e.Amount),
		PaidBy:      e.PaidBy,
		PaidByName:  e.PaidByName,
		SplitType:   string(e.SplitType),
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

func toAPIMemberBalances(balances []models.Balance) []api.MemberBalance {
	out := make([]api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = api.MemberBalance{
			UserID:    b.UserID,
			UserName:  b.UserName,
			Balance:   api.NewNumber(b.Balance),
			PaidTotal: api.NewNumber(b.Paid),
			OwesTotal: api.NewNumber(b.Owed),
		}
	}
	return out
}

func toAPIGroupBalances(balances []models.Balance) []api.GroupBalance {
	out := make([]api.GroupBalance, len(balances))
	for i, b := range balances {
		out[i] = api.GroupBalance{
			GroupID:   b.GroupID,
			GroupName: b.GroupName,
			Balance:   api.NewNumber(b.Balance),
			PaidTotal: api.NewNumber(b.Paid),
			OwesTotal: api.NewNumber(b.Owed),
		}
	}
	return out
}

func toAPISummary(s models.BalanceSummary) api.BalanceSummary {
	return api.BalanceSummary{
		TotalBalance:     api.NewNumber(s.TotalBalance),
		GroupsWithDebt:   s.GroupsWithDebt,
		GroupsWithCredit: s.GroupsWithCredit,
		LargestDebt:      api.NewNumber(s.LargestDebt),
		LargestCredit:    api.NewNumber(s.LargestCredit),
		TotalGroups:      s.TotalGroups,
		TotalExpenses:    api.NewNumber(s.TotalExpenses),
	}
}

func toAPISettlements(settlements []models.Settlement) []api.Settlement {
	out := make([]api.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = api.Settlement{
			FromUserID:   s.FromUserID,
			FromUserName: s.FromUserName,
			ToUserID:     s.ToUserID,
			ToUserName:   s.ToUserName,
			Amount:       api.NewNumber(s.Amount),
		}
	}
	return out
}
