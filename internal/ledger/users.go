package ledger

import (
	"context"
	"log/slog"
	"net/mail"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// CreateUser registers a user with a unique email.
func (l *Ledger) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	user, err := l.createUser(ctx, name, email)
	return user, l.observe("create_user", err)
}

func (l *Ledger) createUser(ctx context.Context, name, email string) (*models.User, error) {
	user := &models.User{}
	models.UserPatch{Name: &name, Email: &email}.Apply(user)
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if err := l.ensureEmailFree(ctx, user.Email, ""); err != nil {
		return nil, err
	}

	if err := l.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (l *Ledger) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return l.store.GetUser(ctx, userID)
}

// ListUsers lists users ordered by name, optionally filtered by name.
func (l *Ledger) ListUsers(ctx context.Context, search string, page models.Page) ([]*models.User, error) {
	return l.store.ListUsers(ctx, search, page)
}

// UpdateUser applies patch to a user. Cached balances carrying the user's
// name are invalidated.
func (l *Ledger) UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	user, err := l.updateUser(ctx, userID, patch)
	return user, l.observe("update_user", err)
}

func (l *Ledger) updateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	user, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return user, nil
	}

	previousEmail := user.Email
	patch.Apply(user)
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if user.Email != previousEmail {
		if err := l.ensureEmailFree(ctx, user.Email, user.ID); err != nil {
			return nil, err
		}
	}

	groups, err := l.store.ListUserGroups(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := l.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	l.balances.InvalidateUser(userID, groupIDs(groups)...)
	return user, nil
}

// DeleteUser removes a user who neither owes nor is owed anything, has no
// expense history and whose groups keep enough members without them.
func (l *Ledger) DeleteUser(ctx context.Context, userID string) error {
	return l.observe("delete_user", l.deleteUser(ctx, userID))
}

func (l *Ledger) deleteUser(ctx context.Context, userID string) error {
	balances, err := l.balances.BalancesOfUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, b := range balances {
		if !money.IsDust(b.Balance) {
			slog.Warn("Refusing to delete user with outstanding balance",
				"user_id", userID,
				"group_id", b.GroupID,
				"balance", b.Balance,
			)
			return errs.ErrOutstandingBalance
		}
	}

	n, err := l.store.CountUserExpenses(ctx, userID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.ErrUserHasExpenses
	}

	groups, err := l.store.ListUserGroups(ctx, userID)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if len(g.Members)-1 < models.MinGroupMembers {
			slog.Warn("Refusing to delete user from minimal group",
				"user_id", userID,
				"group_id", g.ID,
				"members", len(g.Members),
			)
			return errs.ErrGroupTooSmall
		}
	}

	if err := l.store.DeleteUser(ctx, userID); err != nil {
		return err
	}

	l.balances.InvalidateUser(userID, groupIDs(groups)...)
	return nil
}

func validateUser(user *models.User) error {
	if user.Name == "" {
		return errs.ErrEmptyName
	}
	addr, err := mail.ParseAddress(user.Email)
	if err != nil || addr.Address != user.Email {
		return errs.ErrInvalidEmail
	}
	return nil
}

// ensureEmailFree fails with a Conflict when email belongs to a user other
// than exceptID.
func (l *Ledger) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := l.store.GetUserByEmail(ctx, email)
	switch {
	case errs.Is(err, errs.NotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		slog.Warn("Email already registered", "email", email)
		return errs.ErrEmailTaken
	}
	return nil
}

func groupIDs(groups []*models.Group) []string {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return ids
}
