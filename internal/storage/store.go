// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// UserStore persists users.
type UserStore interface {
	// CreateUser persists a new user. The ID and CreatedAt fields are
	// populated by the store when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Missing users yield an errs.NotFound error.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUserByEmail retrieves a user by normalized email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs retrieves the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// ListUsers lists users ordered by name. A non-empty search filters
	// by a case-insensitive name substring.
	ListUsers(ctx context.Context, search string, page models.Page) ([]*models.User, error)

	// UpdateUser writes the user's name and email.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser removes a user and their group memberships.
	DeleteUser(ctx context.Context, userID string) error
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a group and its members in one transaction.
	// Only Member.UserID is read; names are resolved on the way back out.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members ordered by name.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups lists groups ordered by name.
	ListGroups(ctx context.Context, page models.Page) ([]*models.Group, error)

	// ListUserGroups lists the groups userID belongs to, ordered by name.
	ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup writes the group's name and replaces its membership.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and its membership rows.
	DeleteGroup(ctx context.Context, groupID string) error
}

// ExpenseStore persists expenses together with their splits.
type ExpenseStore interface {
	// CreateExpense inserts the expense and all of its splits atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListGroupExpenses lists a group's expenses, newest first.
	ListGroupExpenses(ctx context.Context, groupID string, page models.Page) ([]*models.Expense, error)

	// CountGroupExpenses returns the number of expenses recorded in a group.
	CountGroupExpenses(ctx context.Context, groupID string) (int64, error)

	// CountUserExpenses returns the number of expenses a user paid for or
	// holds a split in.
	CountUserExpenses(ctx context.Context, userID string) (int64, error)

	// UpdateExpense writes the description, the amount and every split
	// amount in one transaction.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes the expense and its splits in one transaction.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ExpenseStatistics aggregates expense amounts. An empty groupID
	// covers the whole ledger.
	ExpenseStatistics(ctx context.Context, groupID string) (*models.ExpenseStats, error)
}

// BalanceReader supplies the filtered sums balances are derived from.
type BalanceReader interface {
	// SumPaid totals the amounts of the group's expenses paid by userID.
	SumPaid(ctx context.Context, userID, groupID string) (decimal.Decimal, error)

	// SumOwed totals userID's split amounts over the group's expenses.
	SumOwed(ctx context.Context, userID, groupID string) (decimal.Decimal, error)
}

// Store defines the full persistence boundary.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	BalanceReader

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
