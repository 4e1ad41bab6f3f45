package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mswatii/steam-price-tracker/internal/models"
)

func TestTopDeals_OnlyDiscountedSortedDescending(t *testing.T) {
	games := make([]models.Game, 0, 10)
	for i := 0; i < 10; i++ {
		games = append(games, newGame(string(rune('a'+i)), "Game", 10, 0, "2020-01-01"))
	}
	games[2].DiscountPercent = 25
	games[5].DiscountPercent = 80
	games[8].DiscountPercent = 40

	result := TopDeals(games, 4)

	assert.Equal(t, []string{"f", "i", "c"}, ids(result))
}

func TestTopDeals_StableOnEqualDiscounts(t *testing.T) {
	games := []models.Game{
		newGame("a", "A", 10, 50, ""),
		newGame("b", "B", 10, 75, ""),
		newGame("c", "C", 10, 50, ""),
		newGame("d", "D", 10, 75, ""),
		newGame("e", "E", 10, 50, ""),
	}

	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(TopDeals(games, 0)))
	assert.Equal(t, []string{"b", "d", "a"}, ids(TopDeals(games, 3)))
}

func TestTopDeals_DoesNotReorderInput(t *testing.T) {
	games := sampleCatalog()
	before := ids(games)

	_ = TopDeals(games, HomepageDealLimit)

	assert.Equal(t, before, ids(games))
}

func TestTopDeals_HomepageLimit(t *testing.T) {
	var games []models.Game
	for i := 1; i <= 10; i++ {
		games = append(games, newGame(string(rune('a'+i)), "G", 5, i*5, ""))
	}

	result := TopDeals(games, HomepageDealLimit)

	assert.Len(t, result, HomepageDealLimit)
	assert.Equal(t, 50, result[0].DiscountPercent)
	assert.Equal(t, 25, result[5].DiscountPercent)
}

func TestHistoricalLows(t *testing.T) {
	games := []models.Game{
		{ID: "free", CurrentPrice: 0, HistoricalLow: 0},
		{ID: "low", CurrentPrice: 9.99, HistoricalLow: 9.99},
		{ID: "above", CurrentPrice: 19.99, HistoricalLow: 9.99},
		{ID: "low2", CurrentPrice: 4.99, HistoricalLow: 4.99},
	}

	assert.Equal(t, []string{"low", "low2"}, ids(HistoricalLows(games, SectionDealLimit)))
	assert.Equal(t, []string{"low"}, ids(HistoricalLows(games, 1)))
}

func TestTrending_KeepsInputOrder(t *testing.T) {
	games := []models.Game{
		{ID: "a", DiscountPercent: 30},
		{ID: "b", DiscountPercent: 31},
		{ID: "c", DiscountPercent: 90},
		{ID: "d", DiscountPercent: 45},
	}

	assert.Equal(t, []string{"b", "c", "d"}, ids(Trending(games, SectionDealLimit)))
}

func TestBuildDealSections(t *testing.T) {
	sections := BuildDealSections(sampleCatalog())

	assert.Equal(t, []string{"292030", "1174180", "1091500", "367520", "999"}, ids(sections.Highlights))
	assert.Equal(t, []string{"292030", "1174180", "1091500", "367520"}, ids(sections.LargestDrops))
	assert.Equal(t, []string{"1091500", "1174180", "292030", "367520"}, ids(sections.Trending))
	assert.Len(t, sections.HistoricalLows, SectionDealLimit)
}

func TestBuildDealSections_EmptyCatalogYieldsEmptySlices(t *testing.T) {
	sections := BuildDealSections(nil)

	assert.NotNil(t, sections.Highlights)
	assert.NotNil(t, sections.HistoricalLows)
	assert.NotNil(t, sections.LargestDrops)
	assert.NotNil(t, sections.Trending)
}
