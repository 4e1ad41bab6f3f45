package catalog

import (
	"slices"

	"github.com/mswatii/steam-price-tracker/internal/models"
)

const (
	HomepageDealLimit = 6 // Top deals highlighted on the homepage
	SectionDealLimit  = 4 // Games per section on the daily deals page
	TrendingDiscount  = 30
)

// DealSections groups the derived deal lists shown on the deals page
type DealSections struct {
	Highlights     []models.Game `json:"highlights"`
	HistoricalLows []models.Game `json:"historical_lows"`
	LargestDrops   []models.Game `json:"largest_drops"`
	Trending       []models.Game `json:"trending"`
}

// TopDeals returns discounted games ordered by discount, highest first.
// Equal discounts keep their input order. A limit <= 0 keeps every deal.
func TopDeals(games []models.Game, limit int) []models.Game {
	deals := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.DiscountPercent > 0 {
			deals = append(deals, g)
		}
	}
	slices.SortStableFunc(deals, func(a, b models.Game) int {
		return b.DiscountPercent - a.DiscountPercent
	})
	return truncate(deals, limit)
}

// HistoricalLows returns paid games currently selling at their lowest recorded price
func HistoricalLows(games []models.Game, limit int) []models.Game {
	var lows []models.Game
	for _, g := range games {
		if g.CurrentPrice > 0 && g.CurrentPrice == g.HistoricalLow {
			lows = append(lows, g)
		}
	}
	return truncate(lows, limit)
}

// Trending returns games discounted by more than TrendingDiscount percent, in input order
func Trending(games []models.Game, limit int) []models.Game {
	var hot []models.Game
	for _, g := range games {
		if g.DiscountPercent > TrendingDiscount {
			hot = append(hot, g)
		}
	}
	return truncate(hot, limit)
}

// BuildDealSections derives every deal list from one catalog snapshot
func BuildDealSections(games []models.Game) DealSections {
	return DealSections{
		Highlights:     nonNil(TopDeals(games, HomepageDealLimit)),
		HistoricalLows: nonNil(HistoricalLows(games, SectionDealLimit)),
		LargestDrops:   nonNil(TopDeals(games, SectionDealLimit)),
		Trending:       nonNil(Trending(games, SectionDealLimit)),
	}
}

func truncate(games []models.Game, limit int) []models.Game {
	if limit > 0 && len(games) > limit {
		return games[:limit]
	}
	return games
}

// nonNil keeps empty sections encoded as [] instead of null
func nonNil(games []models.Game) []models.Game {
	if games == nil {
		return []models.Game{}
	}
	return games
}
