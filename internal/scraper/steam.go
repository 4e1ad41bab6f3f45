package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mswatii/steam-price-tracker/internal/models"
	"github.com/mswatii/steam-price-tracker/internal/pricing"
)

const (
	SteamStoreURL    = "https://store.steampowered.com"
	TopSellersSource = "top_sellers"
	RequestTimeout   = 10 * time.Second
	userAgent        = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"
)

var (
	ErrAppUnavailable = errors.New("app details unavailable")
	ErrNoPrice        = errors.New("no price overview")
)

// Store is the persistence the collector writes to
type Store interface {
	UpsertGame(ctx context.Context, game *models.Game) error
	InsertPrice(ctx context.Context, appID int64, price models.SteamPriceOverview, checkedAt time.Time) error
	TrackGame(ctx context.Context, appID int64, source string) error
	MarkFreeToPlay(ctx context.Context, appID int64) error
	TrackedGameIDs(ctx context.Context) ([]int64, error)
}

// CollectResult summarizes one collection run
type CollectResult struct {
	Tracked    int `json:"tracked"`
	Collected  int `json:"collected"`
	FreeToPlay int `json:"free_to_play"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// SteamScraper collects game metadata and prices from the Steam store
type SteamScraper struct {
	store          Store
	client         *fasthttp.Client
	baseURL        string
	currency       string
	delay          time.Duration
	topSellerPages int
	now            func() time.Time
}

// NewSteamScraper creates a collector for the given store country code
func NewSteamScraper(store Store, currency string, delay time.Duration, topSellerPages int) *SteamScraper {
	return &SteamScraper{
		store:          store,
		client:         &fasthttp.Client{Name: "steam-price-tracker"},
		baseURL:        SteamStoreURL,
		currency:       currency,
		delay:          delay,
		topSellerPages: topSellerPages,
		now:            time.Now,
	}
}

// Run refreshes the tracking list from the top sellers, then collects prices
// for every tracked game.
func (s *SteamScraper) Run(ctx context.Context) (CollectResult, error) {
	var result CollectResult
	if s.topSellerPages > 0 {
		tracked, err := s.TrackTopSellers(ctx, s.topSellerPages)
		if err != nil {
			return result, err
		}
		result.Tracked = tracked
	}

	collected, err := s.CollectTracked(ctx)
	collected.Tracked = result.Tracked
	return collected, err
}

// CollectTracked collects prices for the games in the tracking list
func (s *SteamScraper) CollectTracked(ctx context.Context) (CollectResult, error) {
	appIDs, err := s.store.TrackedGameIDs(ctx)
	if err != nil {
		return CollectResult{}, fmt.Errorf("error loading tracked games: %w", err)
	}
	return s.CollectPrices(ctx, appIDs)
}

// CollectPrices fetches and stores details and the current price of each app.
// A failing app is logged and skipped.
func (s *SteamScraper) CollectPrices(ctx context.Context, appIDs []int64) (CollectResult, error) {
	var result CollectResult
	log.Printf("Collecting prices for %d games (cc=%s)...", len(appIDs), s.currency)

	for i, appID := range appIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		details, err := s.FetchAppDetails(ctx, appID)
		if err != nil {
			log.Printf("Error fetching app %d: %v", appID, err)
			result.Failed++
		} else {
			switch err := s.processApp(ctx, details); {
			case err == nil:
				result.Collected++
			case errors.Is(err, errFreeToPlay):
				result.FreeToPlay++
			case errors.Is(err, ErrNoPrice):
				log.Printf("Warning: %s (%d) has no price, skipping", details.Name, appID)
				result.Skipped++
			default:
				log.Printf("Error processing app %d: %v", appID, err)
				result.Failed++
			}
		}

		if (i+1)%50 == 0 {
			log.Printf("Progress: %d/%d - collected %d, failed %d", i+1, len(appIDs), result.Collected, result.Failed)
		}
		if i < len(appIDs)-1 {
			if err := s.wait(ctx); err != nil {
				return result, err
			}
		}
	}

	log.Printf("Completed price collection: %d collected, %d free to play, %d skipped, %d failed",
		result.Collected, result.FreeToPlay, result.Skipped, result.Failed)
	return result, nil
}

// FetchAppDetails requests the store details of a single app
func (s *SteamScraper) FetchAppDetails(ctx context.Context, appID int64) (*models.SteamAppDetails, error) {
	url := fmt.Sprintf("%s/api/appdetails?appids=%d&cc=%s", s.baseURL, appID, s.currency)
	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var envelope map[string]models.SteamAppDetailsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse appdetails response: %w", err)
	}

	entry, ok := envelope[strconv.FormatInt(appID, 10)]
	if !ok || !entry.Success {
		return nil, fmt.Errorf("app %d: %w", appID, ErrAppUnavailable)
	}
	if entry.Data.AppID == 0 {
		entry.Data.AppID = appID
	}
	return &entry.Data, nil
}

var errFreeToPlay = errors.New("free to play")

// processApp stores the game metadata and its current price
func (s *SteamScraper) processApp(ctx context.Context, details *models.SteamAppDetails) error {
	game := GameFromDetails(details)
	if err := s.store.UpsertGame(ctx, &game); err != nil {
		return fmt.Errorf("error upserting game: %w", err)
	}

	if details.IsFree {
		if err := s.store.MarkFreeToPlay(ctx, details.AppID); err != nil {
			return err
		}
		return errFreeToPlay
	}
	if details.PriceOverview == nil {
		return ErrNoPrice
	}

	if err := s.store.InsertPrice(ctx, details.AppID, *details.PriceOverview, s.now().UTC()); err != nil {
		return fmt.Errorf("error inserting price: %w", err)
	}
	return nil
}

// GameFromDetails converts the store payload into a catalog game
func GameFromDetails(d *models.SteamAppDetails) models.Game {
	game := models.Game{
		ID:               strconv.FormatInt(d.AppID, 10),
		Name:             d.Name,
		HeaderImage:      d.HeaderImage,
		ShortDescription: d.ShortDescription,
		ReleaseDate:      d.ReleaseDate.Date,
		Developers:       d.Developers,
		Publishers:       d.Publishers,
		Genres:           d.GenreNames(),
		Platforms: models.Platforms{
			Windows: d.Platforms.Windows,
			Mac:     d.Platforms.Mac,
			Linux:   d.Platforms.Linux,
		},
	}
	if d.Metacritic != nil {
		score := d.Metacritic.Score
		game.MetacriticScore = &score
	}
	if d.Recommendations != nil {
		game.RecommendationCount = d.Recommendations.Total
	}
	if p := d.PriceOverview; p != nil {
		game.CurrentPrice = pricing.CentsToDollars(p.Final)
		game.OriginalPrice = pricing.CentsToDollars(p.Initial)
		game.DiscountPercent = p.DiscountPercent
		game.Currency = p.Currency
	}
	return game
}

// get performs a GET request and returns a copy of the response body
func (s *SteamScraper) get(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = s.client.DoDeadline(req, resp, deadline)
	} else {
		err = s.client.DoTimeout(req, resp, RequestTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("steam returned non-200 status code: %d", resp.StatusCode())
	}

	return append([]byte(nil), resp.Body()...), nil
}

// wait sleeps for the request delay unless the context ends first
func (s *SteamScraper) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
