package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mswatii/steam-price-tracker/internal/catalog"
	"github.com/mswatii/steam-price-tracker/internal/models"
	"github.com/mswatii/steam-price-tracker/internal/pricing"
)

// gameColumns selects a game with its latest observed price
const gameColumns = `
	g.app_id, g.name, g.short_description, g.header_image_url, g.release_date,
	g.developers, g.publishers, g.genres,
	g.platform_windows, g.platform_mac, g.platform_linux,
	g.metacritic_score, g.recommendation_count, g.last_updated,
	COALESCE(lp.initial_price, 0), COALESCE(lp.final_price, 0),
	COALESCE(lp.discount_percent, 0), COALESCE(lp.currency, '')
`

const latestPriceJoin = `
	LEFT JOIN LATERAL (
		SELECT initial_price, final_price, discount_percent, currency
		FROM price_history ph
		WHERE ph.app_id = g.app_id
		ORDER BY ph.checked_at DESC
		LIMIT 1
	) lp ON true
`

// UpsertGame inserts a game or refreshes its store metadata
func (db *Database) UpsertGame(ctx context.Context, game *models.Game) error {
	appID, err := ParseAppID(game.ID)
	if err != nil {
		return err
	}

	var releaseDate *time.Time
	if t, ok := catalog.ParseReleaseDate(game.ReleaseDate); ok {
		releaseDate = &t
	}

	_, err = db.pool.Exec(ctx, `
		INSERT INTO games (
			app_id, name, short_description, header_image_url, release_date,
			developers, publishers, genres,
			platform_windows, platform_mac, platform_linux,
			metacritic_score, recommendation_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (app_id)
		DO UPDATE SET
			name = $2,
			short_description = $3,
			header_image_url = $4,
			release_date = $5,
			developers = $6,
			publishers = $7,
			genres = $8,
			platform_windows = $9,
			platform_mac = $10,
			platform_linux = $11,
			metacritic_score = $12,
			recommendation_count = $13,
			last_updated = NOW()
	`,
		appID, game.Name, game.ShortDescription, game.HeaderImage, releaseDate,
		nonNilStrings(game.Developers), nonNilStrings(game.Publishers), nonNilStrings(game.Genres),
		game.Platforms.Windows, game.Platforms.Mac, game.Platforms.Linux,
		game.MetacriticScore, game.RecommendationCount,
	)
	if err != nil {
		return fmt.Errorf("error upserting game %d: %w", appID, err)
	}
	return nil
}

// InsertPrice records one price observation; a repeated timestamp is ignored
func (db *Database) InsertPrice(ctx context.Context, appID int64, price models.SteamPriceOverview, checkedAt time.Time) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO price_history (app_id, currency, initial_price, final_price, discount_percent, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (app_id, checked_at) DO NOTHING
	`, appID, price.Currency, price.Initial, price.Final, price.DiscountPercent, checkedAt)
	if err != nil {
		return fmt.Errorf("error inserting price for %d: %w", appID, translate(err))
	}
	return nil
}

// ListGames returns the full catalog snapshot, most recommended first
func (db *Database) ListGames(ctx context.Context) ([]models.Game, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+gameColumns+`
		FROM games g
		`+latestPriceJoin+`
		ORDER BY g.recommendation_count DESC, g.app_id
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying games: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	if err := db.annotate(ctx, games); err != nil {
		return nil, err
	}
	return games, nil
}

// GetGame retrieves a single game by its Steam app id
func (db *Database) GetGame(ctx context.Context, appID int64) (*models.Game, error) {
	row := db.pool.QueryRow(ctx, `
		SELECT `+gameColumns+`
		FROM games g
		`+latestPriceJoin+`
		WHERE g.app_id = $1
	`, appID)

	game, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", appID, translate(err))
	}

	games := []models.Game{game}
	if err := db.annotate(ctx, games); err != nil {
		return nil, err
	}
	return &games[0], nil
}

// GetPriceHistory returns the samples of the last lookback period, oldest first
func (db *Database) GetPriceHistory(ctx context.Context, appID int64, lookback time.Duration) ([]models.PriceSample, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT checked_at, final_price
		FROM price_history
		WHERE app_id = $1 AND checked_at >= $2
		ORDER BY checked_at ASC
	`, appID, time.Now().Add(-lookback))
	if err != nil {
		return nil, fmt.Errorf("error querying price history: %w", err)
	}
	defer rows.Close()

	samples := []models.PriceSample{}
	for rows.Next() {
		var checkedAt time.Time
		var cents int64
		if err := rows.Scan(&checkedAt, &cents); err != nil {
			return nil, fmt.Errorf("error scanning price sample: %w", err)
		}
		samples = append(samples, models.PriceSample{Date: checkedAt, Price: pricing.CentsToDollars(cents)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}
	return samples, nil
}

// annotate loads the lowest recorded price and recent samples of each game
// and fills grade, forecast and historical low.
func (db *Database) annotate(ctx context.Context, games []models.Game) error {
	if len(games) == 0 {
		return nil
	}
	appIDs := make([]int64, 0, len(games))
	for _, g := range games {
		if id, err := strconv.ParseInt(g.ID, 10, 64); err == nil {
			appIDs = append(appIDs, id)
		}
	}

	lows := make(map[string]float64, len(games))
	rows, err := db.pool.Query(ctx, `
		SELECT app_id, MIN(final_price)
		FROM price_history
		WHERE final_price > 0 AND app_id = ANY($1)
		GROUP BY app_id
	`, appIDs)
	if err != nil {
		return fmt.Errorf("error querying historical lows: %w", err)
	}
	for rows.Next() {
		var appID, cents int64
		if err := rows.Scan(&appID, &cents); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning historical low: %w", err)
		}
		lows[strconv.FormatInt(appID, 10)] = pricing.CentsToDollars(cents)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating historical lows: %w", err)
	}

	recent := make(map[string][]models.PriceSample, len(games))
	rows, err = db.pool.Query(ctx, `
		SELECT app_id, checked_at, final_price
		FROM (
			SELECT app_id, checked_at, final_price,
			       ROW_NUMBER() OVER (PARTITION BY app_id ORDER BY checked_at DESC) AS rn
			FROM price_history
			WHERE app_id = ANY($1)
		) r
		WHERE rn <= $2
		ORDER BY app_id, checked_at
	`, appIDs, pricing.ForecastWindow)
	if err != nil {
		return fmt.Errorf("error querying recent prices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var appID, cents int64
		var checkedAt time.Time
		if err := rows.Scan(&appID, &checkedAt, &cents); err != nil {
			return fmt.Errorf("error scanning recent price: %w", err)
		}
		key := strconv.FormatInt(appID, 10)
		recent[key] = append(recent[key], models.PriceSample{Date: checkedAt, Price: pricing.CentsToDollars(cents)})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating recent prices: %w", err)
	}

	for i := range games {
		pricing.Annotate(&games[i], lows[games[i].ID], recent[games[i].ID])
	}
	return nil
}

// TrackGame adds an app id to the collection list or refreshes its last sighting
func (db *Database) TrackGame(ctx context.Context, appID int64, source string) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO tracked_games (app_id, source)
		VALUES ($1, $2)
		ON CONFLICT (app_id)
		DO UPDATE SET last_seen_in_top = NOW()
	`, appID, source)
	if err != nil {
		return fmt.Errorf("error tracking game %d: %w", appID, err)
	}
	return nil
}

// MarkFreeToPlay excludes a tracked game from further price collection
func (db *Database) MarkFreeToPlay(ctx context.Context, appID int64) error {
	_, err := db.pool.Exec(ctx, `
		UPDATE tracked_games SET is_free_to_play = true WHERE app_id = $1
	`, appID)
	if err != nil {
		return fmt.Errorf("error marking game %d free to play: %w", appID, err)
	}
	return nil
}

// TrackedGameIDs lists the active, paid games to collect prices for
func (db *Database) TrackedGameIDs(ctx context.Context) ([]int64, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT app_id
		FROM tracked_games
		WHERE status = 'active' AND is_free_to_play = false
		ORDER BY added_at
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying tracked games: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error collecting tracked games: %w", err)
	}
	return ids, nil
}

func scanGame(row pgx.Row) (models.Game, error) {
	var (
		game         models.Game
		appID        int64
		releaseDate  *time.Time
		initialCents int64
		finalCents   int64
	)
	err := row.Scan(
		&appID, &game.Name, &game.ShortDescription, &game.HeaderImage, &releaseDate,
		&game.Developers, &game.Publishers, &game.Genres,
		&game.Platforms.Windows, &game.Platforms.Mac, &game.Platforms.Linux,
		&game.MetacriticScore, &game.RecommendationCount, &game.UpdatedAt,
		&initialCents, &finalCents, &game.DiscountPercent, &game.Currency,
	)
	if err != nil {
		return models.Game{}, err
	}

	game.ID = strconv.FormatInt(appID, 10)
	if releaseDate != nil {
		game.ReleaseDate = releaseDate.Format("2006-01-02")
	}
	game.CurrentPrice = pricing.CentsToDollars(finalCents)
	game.OriginalPrice = pricing.CentsToDollars(initialCents)
	return game, nil
}

// ParseAppID converts the string id used by the API into a Steam app id
func ParseAppID(id string) (int64, error) {
	appID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || appID <= 0 {
		return 0, fmt.Errorf("invalid app id %q", id)
	}
	return appID, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
