package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Postgres error codes we translate into sentinels
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type Database struct {
	pool *pgxpool.Pool
}

// NewDatabase creates a new database connection
func NewDatabase(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Database{pool: pool}, nil
}

// Close closes the database connection
func (db *Database) Close() {
	db.pool.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (db *Database) CreateTables(ctx context.Context) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"games", `
			CREATE TABLE IF NOT EXISTS games (
				app_id BIGINT PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				short_description TEXT NOT NULL DEFAULT '',
				header_image_url TEXT NOT NULL DEFAULT '',
				release_date DATE,
				developers TEXT[] NOT NULL DEFAULT '{}',
				publishers TEXT[] NOT NULL DEFAULT '{}',
				genres TEXT[] NOT NULL DEFAULT '{}',
				platform_windows BOOLEAN NOT NULL DEFAULT false,
				platform_mac BOOLEAN NOT NULL DEFAULT false,
				platform_linux BOOLEAN NOT NULL DEFAULT false,
				metacritic_score INTEGER,
				recommendation_count INTEGER NOT NULL DEFAULT 0,
				last_updated TIMESTAMP NOT NULL DEFAULT NOW()
			)`},
		{"price_history", `
			CREATE TABLE IF NOT EXISTS price_history (
				id BIGSERIAL PRIMARY KEY,
				app_id BIGINT NOT NULL REFERENCES games(app_id) ON DELETE CASCADE,
				currency VARCHAR(10) NOT NULL,
				initial_price BIGINT NOT NULL,
				final_price BIGINT NOT NULL,
				discount_percent INTEGER NOT NULL DEFAULT 0,
				checked_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(app_id, checked_at)
			)`},
		{"tracked_games", `
			CREATE TABLE IF NOT EXISTS tracked_games (
				app_id BIGINT PRIMARY KEY,
				source VARCHAR(50) NOT NULL,
				is_free_to_play BOOLEAN NOT NULL DEFAULT false,
				status VARCHAR(20) NOT NULL DEFAULT 'active',
				added_at TIMESTAMP NOT NULL DEFAULT NOW(),
				last_seen_in_top TIMESTAMP NOT NULL DEFAULT NOW()
			)`},
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				email VARCHAR(255) NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			)`},
		{"watchlist", `
			CREATE TABLE IF NOT EXISTS watchlist (
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				app_id BIGINT NOT NULL REFERENCES games(app_id) ON DELETE CASCADE,
				target_price_cents BIGINT,
				added_at TIMESTAMP NOT NULL DEFAULT NOW(),
				PRIMARY KEY (user_id, app_id)
			)`},
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("error creating %s table: %w", stmt.name, err)
		}
	}

	return nil
}

// translate maps pgx and Postgres errors onto the package sentinels
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}
