package pricing

import (
	"math"
	"slices"

	"github.com/mswatii/steam-price-tracker/internal/models"
)

const (
	ForecastRising  = "rising"
	ForecastFalling = "falling"
	ForecastStable  = "stable"

	ForecastWindow    = 7   // Most recent samples considered for the forecast
	ForecastThreshold = 5.0 // Percent change needed to call a trend
)

// gradeSteps maps the ratio of current price to historical low onto a grade
var gradeSteps = []struct {
	maxRatio float64
	grade    string
}{
	{1.1, "A"},
	{1.2, "B+"},
	{1.3, "B"},
	{1.5, "C+"},
	{1.8, "C"},
	{2.0, "D"},
}

// CentsToDollars converts the integer cents used by Steam and the database
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100.0
}

// DollarsToCents rounds to the nearest cent
func DollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// Grade classifies how good the current price is relative to the lowest
// price ever seen, from A+ (at or below the low, or free) down to F.
func Grade(currentPrice, historicalLow float64) string {
	if currentPrice == 0 || currentPrice <= historicalLow {
		return "A+"
	}
	ratio := 1.0
	if historicalLow > 0 {
		ratio = currentPrice / historicalLow
	}
	for _, step := range gradeSteps {
		if ratio <= step.maxRatio {
			return step.grade
		}
	}
	return "F"
}

// Forecast compares the oldest and newest of the last ForecastWindow samples.
// Samples may arrive in any order.
func Forecast(history []models.PriceSample) string {
	if len(history) < 2 {
		return ForecastStable
	}
	recent := slices.Clone(history)
	slices.SortStableFunc(recent, func(a, b models.PriceSample) int {
		return a.Date.Compare(b.Date)
	})
	if len(recent) > ForecastWindow {
		recent = recent[len(recent)-ForecastWindow:]
	}

	first, last := recent[0].Price, recent[len(recent)-1].Price
	if first == 0 {
		return ForecastStable
	}
	change := (last - first) / first * 100
	switch {
	case change < -ForecastThreshold:
		return ForecastFalling
	case change > ForecastThreshold:
		return ForecastRising
	default:
		return ForecastStable
	}
}

// Annotate fills the derived price fields of a game. lowestPrice is the
// lowest positive price ever recorded, or 0 when none is known; recent holds
// the latest samples used for the forecast.
func Annotate(game *models.Game, lowestPrice float64, recent []models.PriceSample) {
	game.HistoricalLow = lowestPrice
	if lowestPrice <= 0 {
		game.HistoricalLow = game.CurrentPrice
	}
	game.PriceGrade = Grade(game.CurrentPrice, game.HistoricalLow)
	game.Forecast = Forecast(recent)
}
