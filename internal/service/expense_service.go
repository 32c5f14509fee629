package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	ledger *ledger.Ledger
}

var _ api.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates an ExpenseService.
func NewExpenseService(l *ledger.Ledger) *ExpenseService {
	return &ExpenseService{ledger: l}
}

// CreateExpense records an expense and its splits.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	msg := req.Msg
	slog.Info("CreateExpense request received",
		"group_id", msg.GroupID,
		"amount", msg.Amount.String(),
		"split_type", msg.SplitType,
		"splits_count", len(msg.Splits),
	)

	var entries []calculator.PercentageEntry
	for _, sp := range msg.Splits {
		entries = append(entries, calculator.PercentageEntry{UserID: sp.UserID, Percentage: sp.Percentage.Decimal})
	}

	expense, err := s.ledger.CreateExpense(ctx, ledger.NewExpense{
		GroupID:     msg.GroupID,
		Description: msg.Description,
		Amount:      msg.Amount.Decimal,
		PaidBy:      msg.PaidBy,
		SplitType:   models.SplitType(msg.SplitType),
		Splits:      entries,
	})
	if err != nil {
		return nil, fail("CreateExpense", err, "group_id", msg.GroupID)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"splits_count", len(expense.Splits),
	)
	return connect.NewResponse(&api.ExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense retrieves an expense with its splits.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	expenseID := req.Msg.ExpenseID
	if err := required("expense_id", expenseID); err != nil {
		return nil, fail("GetExpense", err)
	}

	expense, err := s.ledger.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, fail("GetExpense", err, "expense_id", expenseID)
	}
	return connect.NewResponse(&api.ExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListGroupExpenses lists a group's expenses, newest first.
func (s *ExpenseService) ListGroupExpenses(ctx context.Context, req *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	groupID := req.Msg.GroupID
	if err := required("group_id", groupID); err != nil {
		return nil, fail("ListGroupExpenses", err)
	}
	page, err := pageOf(req.Msg.Offset, req.Msg.Limit, defaultExpensePageSize, maxExpensePageSize)
	if err != nil {
		return nil, fail("ListGroupExpenses", err)
	}

	expenses, err := s.ledger.ListGroupExpenses(ctx, groupID, page)
	if err != nil {
		return nil, fail("ListGroupExpenses", err, "group_id", groupID)
	}

	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	slog.Info("ListGroupExpenses successful", "group_id", groupID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// UpdateExpense changes an expense's description or amount.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	expenseID := req.Msg.ExpenseID
	slog.Info("UpdateExpense request received", "expense_id", expenseID)
	if err := required("expense_id", expenseID); err != nil {
		return nil, fail("UpdateExpense", err)
	}

	patch := models.ExpensePatch{Description: req.Msg.Description}
	if req.Msg.Amount != nil {
		amount := req.Msg.Amount.Decimal
		patch.Amount = &amount
	}

	expense, err := s.ledger.UpdateExpense(ctx, expenseID, patch)
	if err != nil {
		return nil, fail("UpdateExpense", err, "expense_id", expenseID)
	}

	slog.Info("Expense updated", "expense_id", expenseID, "amount", expense.Amount)
	return connect.NewResponse(&api.ExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteResponse], error) {
	expenseID := req.Msg.ExpenseID
	slog.Info("DeleteExpense request received", "expense_id", expenseID)
	if err := required("expense_id", expenseID); err != nil {
		return nil, fail("DeleteExpense", err)
	}

	if err := s.ledger.DeleteExpense(ctx, expenseID); err != nil {
		return nil, fail("DeleteExpense", err, "expense_id", expenseID)
	}

	slog.Info("Expense deleted", "expense_id", expenseID)
	return connect.NewResponse(deleted("expense", expenseID)), nil
}

// GetStatistics aggregates expense amounts for a group or the whole ledger.
func (s *ExpenseService) GetStatistics(ctx context.Context, req *connect.Request[api.GetStatisticsRequest]) (*connect.Response[api.StatisticsResponse], error) {
	stats, err := s.ledger.ExpenseStatistics(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("GetStatistics", err, "group_id", req.Msg.GroupID)
	}

	return connect.NewResponse(&api.StatisticsResponse{
		Count:   stats.Count,
		Total:   api.NewNumber(stats.Total),
		Average: api.NewNumber(stats.Average),
		Min:     api.NewNumber(stats.Min),
		Max:     api.NewNumber(stats.Max),
	}), nil
}
