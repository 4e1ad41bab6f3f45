package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/mswatii/steam-price-tracker/internal/catalog"
)

func args(query string) *fasthttp.Args {
	a := &fasthttp.Args{}
	a.Parse(query)
	return a
}

func TestParseCriteria(t *testing.T) {
	got := parseCriteria(args("discountMin=25&priceMin=5.5&priceMax=40&releaseYear=2021"))
	assert.Equal(t, catalog.FilterCriteria{DiscountMin: 25, PriceMin: 5.5, PriceMax: 40, ReleaseYear: 2021}, got)

	assert.Equal(t, catalog.DefaultCriteria(), parseCriteria(args("")))
	assert.Equal(t, catalog.DefaultCriteria(), parseCriteria(args("discountMin=ten&priceMin=&priceMax=1e&releaseYear=20x1")))
}

func TestParsePage(t *testing.T) {
	page, perPage := parsePage(args("page=3&perPage=12"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 12, perPage)

	page, perPage = parsePage(args("page=three"))
	assert.Equal(t, 1, page)
	assert.Equal(t, catalog.DefaultPerPage, perPage)
}

func TestParseWatchlistSort(t *testing.T) {
	field, order := parseWatchlistSort(args("sortBy=price&sortOrder=ASC"))
	assert.Equal(t, catalog.SortByPrice, field)
	assert.Equal(t, catalog.Ascending, order)

	field, order = parseWatchlistSort(args(""))
	assert.Equal(t, catalog.SortByDateAdded, field)
	assert.Equal(t, catalog.Descending, order)
}
