package ledger

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
)

// CreateGroup creates a group of at least two distinct existing users.
func (l *Ledger) CreateGroup(ctx context.Context, name string, memberIDs []string) (*models.Group, error) {
	group, err := l.createGroup(ctx, name, memberIDs)
	return group, l.observe("create_group", err)
}

func (l *Ledger) createGroup(ctx context.Context, name string, memberIDs []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	members, err := l.resolveMembers(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	group := &models.Group{Name: name, Members: members}
	if err := l.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	// Members' all-groups views gain a group.
	l.balances.Invalidate(group.ID, group.MemberIDs()...)
	return group, nil
}

// GetGroup retrieves a group with its members.
func (l *Ledger) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return l.store.GetGroup(ctx, groupID)
}

// ListGroups lists groups ordered by name.
func (l *Ledger) ListGroups(ctx context.Context, page models.Page) ([]*models.Group, error) {
	return l.store.ListGroups(ctx, page)
}

// ListUserGroups lists the groups userID belongs to, ordered by name.
func (l *Ledger) ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	if _, err := l.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return l.store.ListUserGroups(ctx, userID)
}

// UpdateGroup renames a group and/or replaces its membership. The group
// must still have at least two members afterwards.
func (l *Ledger) UpdateGroup(ctx context.Context, groupID string, patch models.GroupPatch) (*models.Group, error) {
	group, err := l.updateGroup(ctx, groupID, patch)
	return group, l.observe("update_group", err)
}

func (l *Ledger) updateGroup(ctx context.Context, groupID string, patch models.GroupPatch) (*models.Group, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return group, nil
	}

	previous := group.MemberIDs()
	patch.Apply(group)
	if group.Name == "" {
		return nil, errs.ErrEmptyName
	}
	if patch.MemberIDs != nil {
		if group.Members, err = l.resolveMembers(ctx, patch.MemberIDs); err != nil {
			return nil, err
		}
	}

	if err := l.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}

	l.balances.Invalidate(groupID, union(previous, group.MemberIDs())...)
	return group, nil
}

// DeleteGroup removes a group that has no expenses.
func (l *Ledger) DeleteGroup(ctx context.Context, groupID string) error {
	return l.observe("delete_group", l.deleteGroup(ctx, groupID))
}

func (l *Ledger) deleteGroup(ctx context.Context, groupID string) error {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	n, err := l.store.CountGroupExpenses(ctx, groupID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.ErrGroupHasExpenses
	}

	if err := l.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}

	l.balances.Invalidate(groupID, group.MemberIDs()...)
	return nil
}

// resolveMembers turns member IDs into name-ordered members, requiring at
// least two distinct existing users.
func (l *Ledger) resolveMembers(ctx context.Context, memberIDs []string) ([]models.Member, error) {
	ids := union(memberIDs)
	if len(ids) < models.MinGroupMembers {
		return nil, errs.ErrTooFewMembers
	}

	users, err := l.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	members := make([]models.Member, 0, len(ids))
	for _, id := range ids {
		user, ok := users[id]
		if !ok {
			return nil, errs.NotFoundf("user not found: %s", id)
		}
		members = append(members, models.Member{UserID: user.ID, Name: user.Name})
	}

	slices.SortFunc(members, func(a, b models.Member) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return members, nil
}
