package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// NewExpense is a request to record an expense.
type NewExpense struct {
	GroupID     string
	Description string
	Amount      decimal.Decimal
	PaidBy      string
	SplitType   models.SplitType

	// Splits must be empty for equal splits.
	Splits []calculator.PercentageEntry
}

// CreateExpense validates req, computes its splits and stores the expense
// with all of its splits atomically.
func (l *Ledger) CreateExpense(ctx context.Context, req NewExpense) (*models.Expense, error) {
	expense, err := l.createExpense(ctx, req)
	return expense, l.observe("create_expense", err)
}

func (l *Ledger) createExpense(ctx context.Context, req NewExpense) (*models.Expense, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, errs.ErrEmptyDescription
	}
	amount, err := validAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	group, err := l.store.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(req.PaidBy) {
		return nil, errs.ErrPayerNotInGroup
	}

	shares, err := calculator.ComputeSplits(amount, req.SplitType, req.Splits, group.MemberIDs())
	if err != nil {
		return nil, err
	}

	names := memberNames(group)
	expense := &models.Expense{
		Description: description,
		Amount:      amount,
		GroupID:     group.ID,
		PaidBy:      req.PaidBy,
		PaidByName:  names[req.PaidBy],
		SplitType:   req.SplitType,
		Splits:      make([]models.Split, len(shares)),
	}
	for i, share := range shares {
		expense.Splits[i] = models.Split{
			UserID:     share.UserID,
			UserName:   names[share.UserID],
			Amount:     share.Amount,
			Percentage: share.Percentage,
		}
	}

	if err := l.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	l.balances.Invalidate(group.ID, union(group.MemberIDs(), []string{expense.PaidBy}, expense.SplitUserIDs())...)
	return expense, nil
}

// UpdateExpense changes an expense's description and amount. When the
// amount of an equal split changes every split is recomputed; percentage
// splits keep their stored amounts.
func (l *Ledger) UpdateExpense(ctx context.Context, expenseID string, patch models.ExpensePatch) (*models.Expense, error) {
	expense, err := l.updateExpense(ctx, expenseID, patch)
	return expense, l.observe("update_expense", err)
}

func (l *Ledger) updateExpense(ctx context.Context, expenseID string, patch models.ExpensePatch) (*models.Expense, error) {
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, errs.ErrEmptyDescription
	}
	if patch.Amount != nil {
		amount, err := validAmount(*patch.Amount)
		if err != nil {
			return nil, err
		}
		patch.Amount = &amount
	}

	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return expense, nil
	}

	group, err := l.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}

	if patch.Apply(expense) && expense.SplitType == models.SplitEqual {
		amounts := calculator.EqualShares(expense.Amount, len(expense.Splits))
		for i := range expense.Splits {
			expense.Splits[i].Amount = amounts[i]
		}
	}

	if err := l.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}

	l.balances.Invalidate(group.ID, union(group.MemberIDs(), []string{expense.PaidBy}, expense.SplitUserIDs())...)
	return expense, nil
}

// DeleteExpense removes an expense and its splits.
func (l *Ledger) DeleteExpense(ctx context.Context, expenseID string) error {
	return l.observe("delete_expense", l.deleteExpense(ctx, expenseID))
}

func (l *Ledger) deleteExpense(ctx context.Context, expenseID string) error {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	// Membership is captured before the delete.
	group, err := l.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return err
	}
	affected := union(group.MemberIDs(), []string{expense.PaidBy}, expense.SplitUserIDs())

	if err := l.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}

	l.balances.Invalidate(group.ID, affected...)
	return nil
}

// GetExpense retrieves an expense with its splits.
func (l *Ledger) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	return l.store.GetExpense(ctx, expenseID)
}

// ListGroupExpenses lists a group's expenses, newest first.
func (l *Ledger) ListGroupExpenses(ctx context.Context, groupID string, page models.Page) ([]*models.Expense, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return l.store.ListGroupExpenses(ctx, groupID, page)
}

// ExpenseStatistics aggregates expense amounts for groupID, or for the
// whole ledger when groupID is empty.
func (l *Ledger) ExpenseStatistics(ctx context.Context, groupID string) (*models.ExpenseStats, error) {
	if groupID != "" {
		if _, err := l.store.GetGroup(ctx, groupID); err != nil {
			return nil, err
		}
	}
	return l.store.ExpenseStatistics(ctx, groupID)
}

// validAmount rounds amount to cents and rejects anything not positive
// after rounding.
func validAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := money.Round(amount)
	if !rounded.IsPositive() {
		return decimal.Zero, errs.ErrNonPositiveAmount
	}
	return rounded, nil
}

func memberNames(group *models.Group) map[string]string {
	names := make(map[string]string, len(group.Members))
	for _, m := range group.Members {
		names[m.UserID] = m.Name
	}
	return names
}
