package sqldb

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/money"
)

// SumPaid totals the amounts of a group's expenses paid by the user.
func (s *Store) SumPaid(ctx context.Context, userID, groupID string) (decimal.Decimal, error) {
	return s.sumCents(ctx, "failed to sum paid amounts", `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM expenses
		WHERE group_id = ? AND paid_by = ?`,
		groupID, userID,
	)
}

// SumOwed totals the user's split amounts over a group's expenses.
func (s *Store) SumOwed(ctx context.Context, userID, groupID string) (decimal.Decimal, error) {
	return s.sumCents(ctx, "failed to sum owed amounts", `
		SELECT COALESCE(SUM(es.amount_cents), 0)
		FROM expense_splits es
		JOIN expenses e ON e.id = es.expense_id
		WHERE e.group_id = ? AND es.user_id = ?`,
		groupID, userID,
	)
}

func (s *Store) sumCents(ctx context.Context, msg, query string, args ...any) (decimal.Decimal, error) {
	var cents int64
	if err := s.queryRow(ctx, s.db, query, args...).Scan(&cents); err != nil {
		return decimal.Zero, errs.StorageErr(msg, err)
	}
	return money.FromCents(cents), nil
}
