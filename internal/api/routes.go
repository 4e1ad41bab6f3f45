package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mswatii/steam-price-tracker/internal/auth"
	"github.com/mswatii/steam-price-tracker/internal/cache"
	"github.com/mswatii/steam-price-tracker/internal/config"
	"github.com/mswatii/steam-price-tracker/internal/database"
	"github.com/mswatii/steam-price-tracker/internal/models"
	"github.com/mswatii/steam-price-tracker/internal/scraper"
)

// Store is the persistence the API reads from and writes to
type Store interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	GetGame(ctx context.Context, appID int64) (*models.Game, error)
	GetPriceHistory(ctx context.Context, appID int64, lookback time.Duration) ([]models.PriceSample, error)

	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
	AddToWatchlist(ctx context.Context, userID string, appID int64, targetPrice *float64) error
	RemoveFromWatchlist(ctx context.Context, userID string, appID int64) error
}

// Collector runs one price collection pass
type Collector interface {
	Run(ctx context.Context) (scraper.CollectResult, error)
}

// Handler represents the API handler
type Handler struct {
	store     Store
	cache     cache.Cache
	tokens    *auth.TokenService
	collector Collector

	webDir          string
	cacheTTL        time.Duration
	historyLookback time.Duration

	refreshing atomic.Bool
	catalogGen cache.Generation
}

// NewHandler creates a new API handler
func NewHandler(store Store, c cache.Cache, tokens *auth.TokenService, collector Collector, cfg *config.Config) *Handler {
	return &Handler{
		store:           store,
		cache:           c,
		tokens:          tokens,
		collector:       collector,
		webDir:          cfg.WebDir,
		cacheTTL:        cfg.CatalogCacheTTL,
		historyLookback: cfg.HistoryLookback,
	}
}

func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	setCORSHeaders(ctx)
	if ctx.IsOptions() {
		ctx.SetStatusCode(fasthttp.StatusNoContent)
		return
	}

	path := string(ctx.Path())

	// Handle web routes first
	if path == "/" || path == "/index.html" {
		h.handleIndex(ctx)
		return
	}
	if strings.HasPrefix(path, "/static/") {
		h.handleStatic(ctx)
		return
	}

	switch {
	case path == "/api/health":
		h.handleHealth(ctx)
	case path == "/api/games":
		h.handleGames(ctx)
	case strings.HasPrefix(path, "/api/games/"):
		h.routeGame(ctx, strings.TrimPrefix(path, "/api/games/"))
	case path == "/api/deals":
		h.handleDeals(ctx)
	case path == "/api/auth/register":
		h.handleRegister(ctx)
	case path == "/api/auth/login":
		h.handleLogin(ctx)
	case path == "/api/auth/me":
		h.handleMe(ctx)
	case path == "/api/watchlist":
		h.routeWatchlist(ctx)
	case strings.HasPrefix(path, "/api/watchlist/"):
		h.handleRemoveFromWatchlist(ctx, strings.TrimPrefix(path, "/api/watchlist/"))
	case path == "/api/refresh":
		h.handleRefresh(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

// routeGame dispatches /api/games/{id}[/price-history|/chart]
func (h *Handler) routeGame(ctx *fasthttp.RequestCtx, rest string) {
	id, sub, _ := strings.Cut(rest, "/")
	appID, err := database.ParseAppID(id)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	switch sub {
	case "":
		h.handleGame(ctx, appID)
	case "price-history":
		h.handlePriceHistory(ctx, appID)
	case "chart":
		h.handleChart(ctx, appID)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

func (h *Handler) routeWatchlist(ctx *fasthttp.RequestCtx) {
	switch {
	case ctx.IsGet():
		h.handleListWatchlist(ctx)
	case ctx.IsPost():
		h.handleAddToWatchlist(ctx)
	default:
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleRefresh starts a collection run in the background
func (h *Handler) handleRefresh(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.collector == nil {
		writeError(ctx, fasthttp.StatusServiceUnavailable, "collector disabled")
		return
	}
	if !h.refreshing.CompareAndSwap(false, true) {
		writeError(ctx, fasthttp.StatusConflict, "refresh already running")
		return
	}

	go func() {
		defer h.refreshing.Store(false)
		if _, err := h.runCollector(context.Background()); err != nil {
			log.Printf("Error during refresh: %v", err)
		}
	}()

	writeJSON(ctx, fasthttp.StatusAccepted, map[string]string{"status": "started"})
}

// Refresh runs the collector unless a run is already in progress and then
// drops the cached catalog.
func (h *Handler) Refresh(ctx context.Context) (scraper.CollectResult, error) {
	if !h.refreshing.CompareAndSwap(false, true) {
		return scraper.CollectResult{}, errRefreshRunning
	}
	defer h.refreshing.Store(false)
	return h.runCollector(ctx)
}

var errRefreshRunning = errors.New("refresh already running")

func (h *Handler) runCollector(ctx context.Context) (scraper.CollectResult, error) {
	result, err := h.collector.Run(ctx)
	if delErr := h.catalogGen.Invalidate(context.Background(), h.cache, cache.CatalogKey); delErr != nil {
		log.Printf("Warning: could not invalidate catalog cache: %v", delErr)
	}
	return result, err
}

func setCORSHeaders(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"error":"internal error"}`)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, map[string]string{"error": message})
}

// writeStoreError maps store sentinels onto HTTP statuses
func writeStoreError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(ctx, fasthttp.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrConflict):
		writeError(ctx, fasthttp.StatusConflict, err.Error())
	default:
		log.Printf("Error handling %s %s: %v", ctx.Method(), ctx.Path(), err)
		writeError(ctx, fasthttp.StatusInternalServerError, "internal error")
	}
}
