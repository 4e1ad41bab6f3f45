package api

import (
	"math"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/mswatii/steam-price-tracker/internal/catalog"
)

// Query values that fail to parse fall back to their defaults.

func queryInt(args *fasthttp.Args, key string, def int) int {
	raw := args.Peek(key)
	if len(raw) == 0 {
		return def
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return def
	}
	return n
}

func queryFloat(args *fasthttp.Args, key string, def float64) float64 {
	raw := args.Peek(key)
	if len(raw) == 0 {
		return def
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// parseCriteria reads the catalog filter from the query string
func parseCriteria(args *fasthttp.Args) catalog.FilterCriteria {
	def := catalog.DefaultCriteria()
	return catalog.FilterCriteria{
		DiscountMin: queryInt(args, "discountMin", def.DiscountMin),
		PriceMin:    queryFloat(args, "priceMin", def.PriceMin),
		PriceMax:    queryFloat(args, "priceMax", def.PriceMax),
		ReleaseYear: queryInt(args, "releaseYear", def.ReleaseYear),
	}
}

// parsePage reads page and perPage; page defaults to 1
func parsePage(args *fasthttp.Args) (page, perPage int) {
	return queryInt(args, "page", 1), queryInt(args, "perPage", catalog.DefaultPerPage)
}

// parseWatchlistSort reads sortBy and sortOrder, defaulting to newest first
func parseWatchlistSort(args *fasthttp.Args) (catalog.SortField, catalog.SortOrder) {
	field, err := catalog.ParseSortField(string(args.Peek("sortBy")))
	if err != nil {
		field = catalog.SortByDateAdded
	}
	order, err := catalog.ParseSortOrder(string(args.Peek("sortOrder")))
	if err != nil {
		order = catalog.Descending
	}
	return field, order
}
