package catalog

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mswatii/steam-price-tracker/internal/models"
)

type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByDiscount  SortField = "discount"
	SortByDateAdded SortField = "dateAdded"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortField maps a query value onto a SortField
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortByName, SortByPrice, SortByDiscount, SortByDateAdded:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// ParseSortOrder maps a query value onto a SortOrder
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case Ascending, Descending:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// SortWatchlist returns a sorted copy of entries. The sort is stable and
// descending order negates the ascending comparison, so entries with equal
// keys keep their input order in both directions.
func SortWatchlist(entries []models.WatchlistEntry, sortBy SortField, order SortOrder) []models.WatchlistEntry {
	sorted := slices.Clone(entries)
	compare := comparator(sortBy)
	slices.SortStableFunc(sorted, func(a, b models.WatchlistEntry) int {
		c := compare(a, b)
		if order == Descending {
			return -c
		}
		return c
	})
	return sorted
}

func comparator(sortBy SortField) func(a, b models.WatchlistEntry) int {
	switch sortBy {
	case SortByName:
		// collate.Collator is not safe for concurrent use
		coll := collate.New(language.English)
		return func(a, b models.WatchlistEntry) int {
			return coll.CompareString(a.Game.Name, b.Game.Name)
		}
	case SortByPrice:
		return func(a, b models.WatchlistEntry) int {
			return sign(a.Game.CurrentPrice - b.Game.CurrentPrice)
		}
	case SortByDiscount:
		return func(a, b models.WatchlistEntry) int {
			return a.Game.DiscountPercent - b.Game.DiscountPercent
		}
	case SortByDateAdded:
		return func(a, b models.WatchlistEntry) int {
			return a.AddedAt.Compare(b.AddedAt)
		}
	}
	return func(a, b models.WatchlistEntry) int { return 0 }
}

func sign(v float64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
