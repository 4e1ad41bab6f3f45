package catalog

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mswatii/steam-price-tracker/internal/models"
)

const (
	MaxDiscountFilter = 90
	DefaultPriceMax   = 100
)

// FilterCriteria narrows the catalog. ReleaseYear 0 means any year.
type FilterCriteria struct {
	DiscountMin int     `json:"discountMin"`
	PriceMin    float64 `json:"priceMin"`
	PriceMax    float64 `json:"priceMax"`
	ReleaseYear int     `json:"releaseYear,omitempty"`
}

// DefaultCriteria lets every game priced between 0 and 100 through
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		DiscountMin: 0,
		PriceMin:    0,
		PriceMax:    DefaultPriceMax,
	}
}

// Validate reports the first out-of-range field
func (c FilterCriteria) Validate() error {
	switch {
	case !isFinite(c.PriceMin) || !isFinite(c.PriceMax):
		return fmt.Errorf("prices must be finite numbers, got %v and %v", c.PriceMin, c.PriceMax)
	case c.DiscountMin < 0 || c.DiscountMin > MaxDiscountFilter:
		return fmt.Errorf("discountMin must be between 0 and %d, got %d", MaxDiscountFilter, c.DiscountMin)
	case c.PriceMin < 0:
		return fmt.Errorf("priceMin must not be negative, got %v", c.PriceMin)
	case c.PriceMax < c.PriceMin:
		return fmt.Errorf("priceMax (%v) must not be below priceMin (%v)", c.PriceMax, c.PriceMin)
	case c.ReleaseYear < 0:
		return fmt.Errorf("releaseYear must not be negative, got %d", c.ReleaseYear)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FilterAndSort returns the games matching query and criteria.
//
// The filter is stable and order-preserving: no sort is applied, so the
// output keeps the input (server) order. The input slice is not modified.
func FilterAndSort(games []models.Game, query string, criteria FilterCriteria) []models.Game {
	needle := strings.ToLower(query)
	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		if matchesQuery(g, needle) && matchesCriteria(g, criteria) {
			out = append(out, g)
		}
	}
	return out
}

// Matches reports whether a single game passes both the search and filter stages
func Matches(game models.Game, query string, criteria FilterCriteria) bool {
	return matchesQuery(game, strings.ToLower(query)) && matchesCriteria(game, criteria)
}

// matchesQuery expects an already lower-cased needle
func matchesQuery(g models.Game, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(g.Name), needle) {
		return true
	}
	for _, genre := range g.Genres {
		if strings.Contains(strings.ToLower(genre), needle) {
			return true
		}
	}
	return false
}

func matchesCriteria(g models.Game, c FilterCriteria) bool {
	if g.DiscountPercent < c.DiscountMin {
		return false
	}
	if g.CurrentPrice < c.PriceMin || g.CurrentPrice > c.PriceMax {
		return false
	}
	if c.ReleaseYear != 0 {
		released, ok := ParseReleaseDate(g.ReleaseDate)
		if !ok || released.Year() != c.ReleaseYear {
			return false
		}
	}
	return true
}

var releaseDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2 Jan, 2006",
	"Jan 2, 2006",
	"2 January, 2006",
	"January 2, 2006",
}

// ParseReleaseDate accepts ISO dates and the formats used by the Steam store.
// Unknown formats report ok=false rather than an error.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
