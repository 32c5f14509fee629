package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

const expenseSelect = `
	SELECT e.id, e.description, e.amount_cents, e.group_id, e.paid_by, u.name, e.split_type, e.created_at
	FROM expenses e
	JOIN users u ON u.id = e.paid_by`

// CreateExpense persists an expense and all of its splits in one transaction.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx, `
			INSERT INTO expenses (id, description, amount_cents, group_id, paid_by, split_type, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.Description, money.ToCents(expense.Amount),
			expense.GroupID, expense.PaidBy, string(expense.SplitType), expense.CreatedAt,
		)
		if err != nil {
			return errs.StorageErr("failed to insert expense", err)
		}

		for i := range expense.Splits {
			split := &expense.Splits[i]
			if split.ID == "" {
				split.ID = uuid.New().String()
			}
			split.ExpenseID = expense.ID

			var pct decimal.NullDecimal
			if split.Percentage != nil {
				pct = decimal.NewNullDecimal(*split.Percentage)
			}

			_, err = s.exec(ctx, tx,
				"INSERT INTO expense_splits (id, expense_id, user_id, amount_cents, percentage) VALUES (?, ?, ?, ?, ?)",
				split.ID, expense.ID, split.UserID, money.ToCents(split.Amount), pct,
			)
			if err != nil {
				return errs.StorageErr("failed to insert expense split", err)
			}
		}
		return nil
	})
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.queryRow(ctx, s.db, expenseSelect+" WHERE e.id = ?", expenseID))
	if err != nil {
		return nil, notFound(err, "expense", expenseID)
	}

	if expense.Splits, err = s.loadSplits(ctx, expenseID); err != nil {
		return nil, err
	}
	return expense, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		expense   models.Expense
		cents     int64
		splitType string
	)
	err := row.Scan(
		&expense.ID,
		&expense.Description,
		&cents,
		&expense.GroupID,
		&expense.PaidBy,
		&expense.PaidByName,
		&splitType,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.Amount = money.FromCents(cents)
	expense.SplitType = models.SplitType(splitType)
	return &expense, nil
}

// loadSplits returns an expense's splits ordered by user name.
func (s *Store) loadSplits(ctx context.Context, expenseID string) ([]models.Split, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT es.id, es.expense_id, es.user_id, u.name, es.amount_cents, es.percentage
		FROM expense_splits es
		JOIN users u ON u.id = es.user_id
		WHERE es.expense_id = ?
		ORDER BY u.name, es.user_id`,
		expenseID,
	)
	if err != nil {
		return nil, errs.StorageErr("failed to get expense splits", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var (
			split models.Split
			cents int64
			pct   decimal.NullDecimal
		)
		if err := rows.Scan(&split.ID, &split.ExpenseID, &split.UserID, &split.UserName, &cents, &pct); err != nil {
			return nil, errs.StorageErr("failed to scan expense split", err)
		}
		split.Amount = money.FromCents(cents)
		if pct.Valid {
			p := pct.Decimal
			split.Percentage = &p
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.StorageErr("failed to iterate expense splits", err)
	}
	return splits, nil
}

// ListGroupExpenses lists a group's expenses, newest first.
func (s *Store) ListGroupExpenses(ctx context.Context, groupID string, page models.Page) ([]*models.Expense, error) {
	query, args := paginate(expenseSelect+" WHERE e.group_id = ? ORDER BY e.created_at DESC, e.id", []any{groupID}, page)

	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, errs.StorageErr("failed to list expenses", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, errs.StorageErr("failed to scan expense", err)
		}
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errs.StorageErr("failed to iterate expenses", err)
	}

	for _, expense := range expenses {
		if expense.Splits, err = s.loadSplits(ctx, expense.ID); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// CountGroupExpenses returns the number of expenses recorded in a group.
func (s *Store) CountGroupExpenses(ctx context.Context, groupID string) (int64, error) {
	var n int64
	err := s.queryRow(ctx, s.db, "SELECT COUNT(*) FROM expenses WHERE group_id = ?", groupID).Scan(&n)
	if err != nil {
		return 0, errs.StorageErr("failed to count expenses", err)
	}
	return n, nil
}

// CountUserExpenses returns the number of expenses a user paid for or
// holds a split in.
func (s *Store) CountUserExpenses(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.queryRow(ctx, s.db, `
		SELECT COUNT(*) FROM expenses e
		WHERE e.paid_by = ?
		   OR EXISTS (SELECT 1 FROM expense_splits es WHERE es.expense_id = e.id AND es.user_id = ?)`,
		userID, userID,
	).Scan(&n)
	if err != nil {
		return 0, errs.StorageErr("failed to count user expenses", err)
	}
	return n, nil
}

// UpdateExpense writes the description, amount and split amounts in one
// transaction. Split percentages and membership are never touched.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx,
			"UPDATE expenses SET description = ?, amount_cents = ? WHERE id = ?",
			expense.Description, money.ToCents(expense.Amount), expense.ID,
		)
		if err != nil {
			return errs.StorageErr("failed to update expense", err)
		}
		if err := requireAffected(res, "expense", expense.ID); err != nil {
			return err
		}

		for _, split := range expense.Splits {
			_, err := s.exec(ctx, tx,
				"UPDATE expense_splits SET amount_cents = ? WHERE id = ? AND expense_id = ?",
				money.ToCents(split.Amount), split.ID, expense.ID,
			)
			if err != nil {
				return errs.StorageErr("failed to update expense split", err)
			}
		}
		return nil
	})
}

// DeleteExpense removes an expense and its splits in one transaction.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
			return errs.StorageErr("failed to delete expense splits", err)
		}
		res, err := s.exec(ctx, tx, "DELETE FROM expenses WHERE id = ?", expenseID)
		if err != nil {
			return errs.StorageErr("failed to delete expense", err)
		}
		return requireAffected(res, "expense", expenseID)
	})
}

// ExpenseStatistics aggregates expense amounts for a group, or for every
// group when groupID is empty.
func (s *Store) ExpenseStatistics(ctx context.Context, groupID string) (*models.ExpenseStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount_cents), 0), COALESCE(MIN(amount_cents), 0), COALESCE(MAX(amount_cents), 0)
		FROM expenses`
	var args []any
	if groupID != "" {
		query += " WHERE group_id = ?"
		args = append(args, groupID)
	}

	var count, total, minCents, maxCents int64
	if err := s.queryRow(ctx, s.db, query, args...).Scan(&count, &total, &minCents, &maxCents); err != nil {
		return nil, errs.StorageErr("failed to compute expense statistics", err)
	}

	stats := &models.ExpenseStats{
		Count: count,
		Total: money.FromCents(total),
		Min:   money.FromCents(minCents),
		Max:   money.FromCents(maxCents),
	}
	if count > 0 {
		stats.Average = money.Round(stats.Total.Div(decimal.NewFromInt(count)))
	}
	return stats, nil
}
