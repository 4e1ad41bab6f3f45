package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/mswatii/steam-price-tracker/internal/models"
)

// CreateUser stores a new account; a taken email yields ErrConflict
func (db *Database) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	var user models.User
	err := db.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id::text, email, password_hash, created_at
	`, normalizeEmail(email), passwordHash).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", translate(err))
	}
	return &user, nil
}

func (db *Database) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := db.pool.QueryRow(ctx, `
		SELECT id::text, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`, normalizeEmail(email)).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", email, translate(err))
	}
	return &user, nil
}

func (db *Database) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := db.pool.QueryRow(ctx, `
		SELECT id::text, email, password_hash, created_at
		FROM users
		WHERE id = $1::uuid
	`, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, translate(err))
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
