package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mswatii/steam-price-tracker/internal/models"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func entry(id, name string, price float64, discount int, addedDaysAgo int) models.WatchlistEntry {
	return models.WatchlistEntry{
		UserID: "user-1",
		Game: models.Game{
			ID:              id,
			Name:            name,
			CurrentPrice:    price,
			DiscountPercent: discount,
		},
		AddedAt: baseTime.AddDate(0, 0, -addedDaysAgo),
	}
}

func entryIDs(entries []models.WatchlistEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Game.ID
	}
	return out
}

func sampleWatchlist() []models.WatchlistEntry {
	return []models.WatchlistEntry{
		entry("1", "Elden Ring", 47.99, 20, 3),
		entry("2", "Cyberpunk 2077", 29.99, 50, 10),
		entry("3", "hades", 12.49, 50, 1),
		entry("4", "Baldur's Gate 3", 59.99, 0, 7),
	}
}

func TestSortWatchlist_ByName(t *testing.T) {
	asc := SortWatchlist(sampleWatchlist(), SortByName, Ascending)
	assert.Equal(t, []string{"4", "2", "1", "3"}, entryIDs(asc))

	desc := SortWatchlist(sampleWatchlist(), SortByName, Descending)
	assert.Equal(t, []string{"3", "1", "2", "4"}, entryIDs(desc))
}

func TestSortWatchlist_NameIsLocaleAwareNotByteOrder(t *testing.T) {
	entries := []models.WatchlistEntry{
		entry("upper", "Zombie Army", 10, 0, 0),
		entry("lower", "anno 1800", 10, 0, 0),
		entry("accent", "Édith Finch", 10, 0, 0),
	}

	sorted := SortWatchlist(entries, SortByName, Ascending)

	// Byte order would put "Zombie" before "anno" and "Édith" last
	assert.Equal(t, []string{"lower", "accent", "upper"}, entryIDs(sorted))
}

func TestSortWatchlist_ByPrice(t *testing.T) {
	asc := SortWatchlist(sampleWatchlist(), SortByPrice, Ascending)
	assert.Equal(t, []string{"3", "2", "1", "4"}, entryIDs(asc))

	desc := SortWatchlist(sampleWatchlist(), SortByPrice, Descending)
	assert.Equal(t, []string{"4", "1", "2", "3"}, entryIDs(desc))
}

func TestSortWatchlist_ByDiscountKeepsTiesInInputOrder(t *testing.T) {
	asc := SortWatchlist(sampleWatchlist(), SortByDiscount, Ascending)
	assert.Equal(t, []string{"4", "1", "2", "3"}, entryIDs(asc))

	desc := SortWatchlist(sampleWatchlist(), SortByDiscount, Descending)
	assert.Equal(t, []string{"2", "3", "1", "4"}, entryIDs(desc))
}

func TestSortWatchlist_ByDateAdded(t *testing.T) {
	asc := SortWatchlist(sampleWatchlist(), SortByDateAdded, Ascending)
	assert.Equal(t, []string{"2", "4", "1", "3"}, entryIDs(asc))

	desc := SortWatchlist(sampleWatchlist(), SortByDateAdded, Descending)
	assert.Equal(t, []string{"3", "1", "4", "2"}, entryIDs(desc))
}

func TestSortWatchlist_DuplicateNamesStableBothDirections(t *testing.T) {
	entries := []models.WatchlistEntry{
		entry("a", "Portal 2", 9.99, 0, 0),
		entry("b", "Celeste", 19.99, 0, 0),
		entry("c", "Portal 2", 1.99, 80, 0),
		entry("d", "Celeste", 4.99, 75, 0),
		entry("e", "Portal 2", 4.99, 50, 0),
	}

	asc := SortWatchlist(entries, SortByName, Ascending)
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, entryIDs(asc))

	desc := SortWatchlist(entries, SortByName, Descending)
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, entryIDs(desc))
}

func TestSortWatchlist_DoesNotMutateInput(t *testing.T) {
	entries := sampleWatchlist()

	_ = SortWatchlist(entries, SortByPrice, Descending)

	assert.Equal(t, []string{"1", "2", "3", "4"}, entryIDs(entries))
}

func TestParseSortFieldAndOrder(t *testing.T) {
	field, err := ParseSortField("dateAdded")
	require.NoError(t, err)
	assert.Equal(t, SortByDateAdded, field)

	_, err = ParseSortField("rating")
	assert.Error(t, err)

	order, err := ParseSortOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, order)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)
}
