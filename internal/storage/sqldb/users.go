package sqldb

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
)

const userColumns = "id, name, email, created_at"

// CreateUser inserts a new user into the database.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.exec(ctx, s.db,
		"INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.CreatedAt,
	)
	return errs.StorageErr("failed to create user", err)
}

// GetUser retrieves a user by their ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{}
	err := s.queryRow(ctx, s.db,
		"SELECT "+userColumns+" FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.queryRow(ctx, s.db,
		"SELECT "+userColumns+" FROM users WHERE email = ?",
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Returns a map of user ID to User for efficient lookup. IDs with no
// matching user are absent from the map.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	if len(ids) == 0 {
		return make(map[string]*models.User), nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.query(ctx, s.db,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+repeatPlaceholder(len(ids))+")",
		args...,
	)
	if err != nil {
		return nil, errs.StorageErr("failed to get users by IDs", err)
	}
	defer rows.Close()

	users := make(map[string]*models.User, len(ids))
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt); err != nil {
			return nil, errs.StorageErr("failed to scan user", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, errs.StorageErr("failed to iterate users", err)
	}
	return users, nil
}

// ListUsers lists users ordered by name, optionally filtered by a name
// substring.
func (s *Store) ListUsers(ctx context.Context, search string, page models.Page) ([]*models.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += " WHERE LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query, args = paginate(query+" ORDER BY name, id", args, page)

	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, errs.StorageErr("failed to list users", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt); err != nil {
			return nil, errs.StorageErr("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.StorageErr("failed to iterate users", err)
	}
	return users, nil
}

// UpdateUser writes the user's name and email.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.exec(ctx, s.db,
		"UPDATE users SET name = ?, email = ? WHERE id = ?",
		user.Name, user.Email, user.ID,
	)
	if err != nil {
		return errs.StorageErr("failed to update user", err)
	}
	return requireAffected(res, "user", user.ID)
}

// DeleteUser removes a user. Group memberships cascade; expense history
// referencing the user makes the delete fail on its foreign keys.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	res, err := s.exec(ctx, s.db, "DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		return errs.StorageErr("failed to delete user", err)
	}
	return requireAffected(res, "user", userID)
}
