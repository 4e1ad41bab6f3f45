package api

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"

	"github.com/mswatii/steam-price-tracker/internal/auth"
	"github.com/mswatii/steam-price-tracker/internal/catalog"
	"github.com/mswatii/steam-price-tracker/internal/database"
	"github.com/mswatii/steam-price-tracker/internal/models"
)

type addWatchlistRequest struct {
	AppID       json.Number `json:"app_id"`
	TargetPrice *float64    `json:"target_price"`
}

type watchlistItem struct {
	models.WatchlistEntry
	BelowTarget bool `json:"below_target"`
}

func (h *Handler) handleListWatchlist(ctx *fasthttp.RequestCtx) {
	id, ok := h.authenticate(ctx)
	if !ok {
		return
	}
	h.listWatchlist(ctx, id)
}

func (h *Handler) listWatchlist(ctx *fasthttp.RequestCtx, id auth.Identity) {
	entries, err := h.store.ListWatchlist(ctx, id.UserID)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}

	sortBy, order := parseWatchlistSort(ctx.QueryArgs())
	sorted := catalog.SortWatchlist(entries, sortBy, order)

	items := make([]watchlistItem, len(sorted))
	for i, e := range sorted {
		items[i] = watchlistItem{WatchlistEntry: e, BelowTarget: e.BelowTarget()}
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"watchlist": items,
		"sortBy":    sortBy,
		"sortOrder": order,
	})
}

func (h *Handler) handleAddToWatchlist(ctx *fasthttp.RequestCtx) {
	id, ok := h.authenticate(ctx)
	if !ok {
		return
	}

	var req addWatchlistRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}
	appID, err := database.ParseAppID(req.AppID.String())
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if req.TargetPrice != nil && *req.TargetPrice < 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "target_price must not be negative")
		return
	}

	err = h.store.AddToWatchlist(ctx, id.UserID, appID, req.TargetPrice)
	switch {
	case errors.Is(err, database.ErrConflict):
		writeError(ctx, fasthttp.StatusConflict, "game already in watchlist")
		return
	case err != nil:
		writeStoreError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusCreated, map[string]interface{}{"app_id": appID, "added": true})
}

func (h *Handler) handleRemoveFromWatchlist(ctx *fasthttp.RequestCtx, rawID string) {
	if !ctx.IsDelete() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := h.authenticate(ctx)
	if !ok {
		return
	}
	appID, err := database.ParseAppID(rawID)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.RemoveFromWatchlist(ctx, id.UserID, appID); err != nil {
		writeStoreError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}
