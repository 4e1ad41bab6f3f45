package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valyala/fasthttp"

	"github.com/mswatii/steam-price-tracker/internal/cache"
	"github.com/mswatii/steam-price-tracker/internal/catalog"
	"github.com/mswatii/steam-price-tracker/internal/chart"
	"github.com/mswatii/steam-price-tracker/internal/models"
)

type gamesResponse struct {
	Games      []models.Game          `json:"games"`
	Pagination pagination             `json:"pagination"`
	Filters    catalog.FilterCriteria `json:"filters"`
}

type pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type dealsResponse struct {
	Deals []models.Game `json:"deals"`
	catalog.DealSections
}

type chartResponse struct {
	Chart   *chart.Geometry `json:"chart"`
	Nearest *chart.Point    `json:"nearest,omitempty"`
}

// loadCatalog returns the catalog snapshot, served from cache when fresh
func (h *Handler) loadCatalog(ctx context.Context) ([]models.Game, error) {
	raw, err := cache.GetOrLoad(ctx, h.cache, &h.catalogGen, cache.CatalogKey, h.cacheTTL, func(ctx context.Context) ([]byte, error) {
		games, err := h.store.ListGames(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(games)
	})
	if err != nil {
		return nil, err
	}

	var games []models.Game
	if err := json.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("error decoding cached catalog: %w", err)
	}
	return games, nil
}

// handleGames serves one filtered page of the catalog
func (h *Handler) handleGames(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	criteria := parseCriteria(args)
	if err := criteria.Validate(); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	page, perPage := parsePage(args)

	games, err := h.loadCatalog(ctx)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}

	filtered := catalog.FilterAndSort(games, string(args.Peek("search")), criteria)
	p := catalog.Paginate(filtered, page, perPage)

	writeJSON(ctx, fasthttp.StatusOK, gamesResponse{
		Games: p.Items,
		Pagination: pagination{
			Page:       p.Page,
			PerPage:    p.PerPage,
			TotalItems: p.TotalItems,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext,
			HasPrev:    p.HasPrev,
		},
		Filters: criteria,
	})
}

func (h *Handler) handleGame(ctx *fasthttp.RequestCtx, appID int64) {
	game, err := h.store.GetGame(ctx, appID)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, game)
}

func (h *Handler) handlePriceHistory(ctx *fasthttp.RequestCtx, appID int64) {
	history, err := h.store.GetPriceHistory(ctx, appID, h.historyLookback)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, history)
}

// handleChart serves the plot geometry of a game's price history. With an x
// query value the nearest point is included for the hover tooltip.
func (h *Handler) handleChart(ctx *fasthttp.RequestCtx, appID int64) {
	history, err := h.store.GetPriceHistory(ctx, appID, h.historyLookback)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}

	args := ctx.QueryArgs()
	vp := chart.Viewport{
		Width:  queryFloat(args, "width", chart.DefaultViewport.Width),
		Height: queryFloat(args, "height", chart.DefaultViewport.Height),
	}

	resp := chartResponse{Chart: chart.ComputeGeometry(history, vp)}
	if resp.Chart != nil && args.Has("x") {
		if p, ok := chart.Nearest(resp.Chart.Points, queryFloat(args, "x", 0)); ok {
			resp.Nearest = &p
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

// handleDeals serves every discounted game plus the daily deal sections
func (h *Handler) handleDeals(ctx *fasthttp.RequestCtx) {
	games, err := h.loadCatalog(ctx)
	if err != nil {
		writeStoreError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, dealsResponse{
		Deals:        catalog.TopDeals(games, queryInt(ctx.QueryArgs(), "limit", 0)),
		DealSections: catalog.BuildDealSections(games),
	})
}
