package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
)

// CreateGroup persists a new group and its members in one transaction.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx,
			"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)",
			group.ID, group.Name, group.CreatedAt,
		)
		if err != nil {
			return errs.StorageErr("failed to insert group", err)
		}
		return s.insertMembers(ctx, tx, group)
	})
}

func (s *Store) insertMembers(ctx context.Context, tx *sql.Tx, group *models.Group) error {
	for _, m := range group.Members {
		_, err := s.exec(ctx, tx,
			"INSERT INTO group_members (group_id, user_id) VALUES (?, ?)",
			group.ID, m.UserID,
		)
		if err != nil {
			return errs.StorageErr("failed to insert group member", err)
		}
	}
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.queryRow(ctx, s.db,
		"SELECT id, name, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err != nil {
		return nil, notFound(err, "group", groupID)
	}

	if group.Members, err = s.loadMembers(ctx, groupID); err != nil {
		return nil, err
	}
	return group, nil
}

// loadMembers returns a group's members ordered by name.
func (s *Store) loadMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT u.id, u.name
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY u.name, u.id`,
		groupID,
	)
	if err != nil {
		return nil, errs.StorageErr("failed to get group members", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Name); err != nil {
			return nil, errs.StorageErr("failed to scan group member", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.StorageErr("failed to iterate group members", err)
	}
	return members, nil
}

// ListGroups lists groups ordered by name.
func (s *Store) ListGroups(ctx context.Context, page models.Page) ([]*models.Group, error) {
	query, args := paginate("SELECT id, name, created_at FROM groups ORDER BY name, id", nil, page)
	return s.listGroups(ctx, query, args...)
}

// ListUserGroups lists the groups a user belongs to, ordered by name.
func (s *Store) ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.listGroups(ctx, `
		SELECT g.id, g.name, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.name, g.id`,
		userID,
	)
}

func (s *Store) listGroups(ctx context.Context, query string, args ...any) ([]*models.Group, error) {
	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, errs.StorageErr("failed to list groups", err)
	}

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			rows.Close()
			return nil, errs.StorageErr("failed to scan group", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errs.StorageErr("failed to iterate groups", err)
	}

	// Members are loaded after the cursor is closed so a single-connection
	// pool is never asked for a second one.
	for _, group := range groups {
		if group.Members, err = s.loadMembers(ctx, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup writes the group's name and replaces its membership.
func (s *Store) UpdateGroup(ctx context.Context, group *models.Group) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx, "UPDATE groups SET name = ? WHERE id = ?", group.Name, group.ID)
		if err != nil {
			return errs.StorageErr("failed to update group", err)
		}
		if err := requireAffected(res, "group", group.ID); err != nil {
			return err
		}

		if _, err := s.exec(ctx, tx, "DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
			return errs.StorageErr("failed to clear group members", err)
		}
		return s.insertMembers(ctx, tx, group)
	})
}

// DeleteGroup removes a group and its membership rows.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, "DELETE FROM group_members WHERE group_id = ?", groupID); err != nil {
			return errs.StorageErr("failed to delete group members", err)
		}
		res, err := s.exec(ctx, tx, "DELETE FROM groups WHERE id = ?", groupID)
		if err != nil {
			return errs.StorageErr("failed to delete group", err)
		}
		return requireAffected(res, "group", groupID)
	})
}
