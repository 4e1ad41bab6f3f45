package database

import (
	"context"
	"fmt"
	"time"

	"github.com/mswatii/steam-price-tracker/internal/models"
	"github.com/mswatii/steam-price-tracker/internal/pricing"
)

// ListWatchlist returns the user's entries joined with the current game data,
// oldest first.
func (db *Database) ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT w.added_at, w.target_price_cents, `+gameColumns+`
		FROM watchlist w
		JOIN games g ON g.app_id = w.app_id
		`+latestPriceJoin+`
		WHERE w.user_id = $1::uuid
		ORDER BY w.added_at, g.app_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying watchlist: %w", err)
	}
	defer rows.Close()

	entries := []models.WatchlistEntry{}
	for rows.Next() {
		var (
			addedAt     time.Time
			targetCents *int64
		)
		game, err := scanGame(prefixedRow{row: rows, prefix: []any{&addedAt, &targetCents}})
		if err != nil {
			return nil, fmt.Errorf("error scanning watchlist entry: %w", err)
		}
		entry := models.WatchlistEntry{UserID: userID, Game: game, AddedAt: addedAt}
		if targetCents != nil {
			target := pricing.CentsToDollars(*targetCents)
			entry.TargetPrice = &target
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}
	rows.Close()

	games := make([]models.Game, len(entries))
	for i := range entries {
		games[i] = entries[i].Game
	}
	if err := db.annotate(ctx, games); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Game = games[i]
	}
	return entries, nil
}

// AddToWatchlist adds a game to the user's watchlist. A game already present
// yields ErrConflict and an unknown game yields ErrNotFound.
func (db *Database) AddToWatchlist(ctx context.Context, userID string, appID int64, targetPrice *float64) error {
	var targetCents *int64
	if targetPrice != nil {
		cents := pricing.DollarsToCents(*targetPrice)
		targetCents = &cents
	}

	_, err := db.pool.Exec(ctx, `
		INSERT INTO watchlist (user_id, app_id, target_price_cents)
		VALUES ($1::uuid, $2, $3)
	`, userID, appID, targetCents)
	if err != nil {
		return fmt.Errorf("error adding %d to watchlist: %w", appID, translate(err))
	}
	return nil
}

func (db *Database) RemoveFromWatchlist(ctx context.Context, userID string, appID int64) error {
	tag, err := db.pool.Exec(ctx, `
		DELETE FROM watchlist WHERE user_id = $1::uuid AND app_id = $2
	`, userID, appID)
	if err != nil {
		return fmt.Errorf("error removing %d from watchlist: %w", appID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("watchlist entry %d: %w", appID, ErrNotFound)
	}
	return nil
}

// prefixedRow scans leading columns into prefix before handing the rest to
// the caller's destinations.
type prefixedRow struct {
	row interface {
		Scan(dest ...any) error
	}
	prefix []any
}

func (r prefixedRow) Scan(dest ...any) error {
	return r.row.Scan(append(r.prefix, dest...)...)
}
