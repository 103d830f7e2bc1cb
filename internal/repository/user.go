package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/IndraW01/API-Contact-Management/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
)

const userColumns = `username, name, password, token, created_at, updated_at`

// CreateUser inserts a new user and fills in its timestamps.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, name, password)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Username,
		user.Name,
		user.Password,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE username = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// GetUserByToken retrieves the user currently holding a session token.
func (r *Repository) GetUserByToken(ctx context.Context, token string) (*model.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE token = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}

	return user, nil
}

// SetUserToken replaces the session token. A nil token logs the user out.
func (r *Repository) SetUserToken(ctx context.Context, username string, token *string) error {
	query := `
		UPDATE users
		SET token = $2, updated_at = NOW()
		WHERE username = $1
	`

	result, err := r.db.ExecContext(ctx, query, username, token)
	if err != nil {
		return fmt.Errorf("failed to set user token: %w", err)
	}

	return requireAffected(result, ErrUserNotFound)
}

// UpdateUser applies the set fields of patch and returns the updated row.
func (r *Repository) UpdateUser(ctx context.Context, username string, patch model.UserPatch) (*model.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
			password = COALESCE($3, password),
			updated_at = NOW()
		WHERE username = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query,
		username,
		patch.Name.Ptr(),
		patch.Password.Ptr(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	var token sql.NullString

	err := row.Scan(
		&user.Username,
		&user.Name,
		&user.Password,
		&token,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if token.Valid {
		user.Token = &token.String
	}
	return &user, nil
}

// requireAffected maps a zero-row UPDATE or DELETE to notFound.
func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
