package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrRefreshTokenRotated means the stored token no longer matched when the
	// rotation ran — a concurrent refresh already consumed it.
	ErrRefreshTokenRotated = errors.New("refresh token already rotated")
)

type User struct {
	ID                    string
	Username              string
	PasswordHash          string
	Role                  string
	RefreshToken          sql.NullString
	RefreshTokenExpiresAt sql.NullTime
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*User, error)
	SetRefreshToken(ctx context.Context, userID, refreshToken string, expiresAt time.Time) error
	// RotateRefreshToken swaps the stored token for a new one, but only when
	// the stored value still equals previousToken. The compare-and-swap keeps
	// two concurrent refresh calls from both succeeding.
	RotateRefreshToken(ctx context.Context, userID, previousToken, newToken string, expiresAt time.Time) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, password_hash, role, refresh_token, refresh_token_expires_at, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var user User
	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash,
		&user.Role, &user.RefreshToken, &user.RefreshTokenExpiresAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*User, error) {
	query := `
		SELECT id, username, password_hash, role, refresh_token, refresh_token_expires_at, created_at, updated_at
		FROM users
		WHERE refresh_token = $1
	`

	var user User
	err := r.db.QueryRowContext(ctx, query, refreshToken).Scan(&user.ID, &user.Username, &user.PasswordHash,
		&user.Role, &user.RefreshToken, &user.RefreshTokenExpiresAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user by refresh token: %v", err)
	}

	return &user, nil
}

func (r *userRepository) SetRefreshToken(ctx context.Context, userID, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1,
			refresh_token_expires_at = $2,
			updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, refreshToken, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("could not store refresh token: %v", err)
	}
	return nil
}

func (r *userRepository) RotateRefreshToken(ctx context.Context, userID, previousToken, newToken string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1,
			refresh_token_expires_at = $2,
			updated_at = NOW()
		WHERE id = $3 AND refresh_token = $4
	`
	result, err := r.db.ExecContext(ctx, query, newToken, expiresAt, userID, previousToken)
	if err != nil {
		return fmt.Errorf("could not rotate refresh token: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not rotate refresh token: %v", err)
	}
	if affected == 0 {
		return ErrRefreshTokenRotated
	}
	return nil
}
