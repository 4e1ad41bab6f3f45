package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mswatii/steam-price-tracker/internal/models"
)

func history(prices ...float64) []models.PriceSample {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PriceSample, len(prices))
	for i, p := range prices {
		out[i] = models.PriceSample{Date: start.AddDate(0, 0, i), Price: p}
	}
	return out
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		low     float64
		want    string
	}{
		{"free", 0, 0, "A+"},
		{"at low", 9.99, 9.99, "A+"},
		{"below low", 8.99, 9.99, "A+"},
		{"within 10%", 10.5, 10, "A"},
		{"within 20%", 11.5, 10, "B+"},
		{"within 30%", 12.5, 10, "B"},
		{"within 50%", 15, 10, "C+"},
		{"within 80%", 17.5, 10, "C"},
		{"double", 20, 10, "D"},
		{"over double", 25, 10, "F"},
		{"no known low", 25, 0, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(tt.current, tt.low))
		})
	}
}

func TestForecast(t *testing.T) {
	assert.Equal(t, ForecastStable, Forecast(nil))
	assert.Equal(t, ForecastStable, Forecast(history(10)))
	assert.Equal(t, ForecastRising, Forecast(history(10, 10, 11)))
	assert.Equal(t, ForecastFalling, Forecast(history(10, 10, 9)))
	assert.Equal(t, ForecastStable, Forecast(history(10, 10.4)))
}

func TestForecast_UsesOnlyLastWindow(t *testing.T) {
	// The early jump from 5 falls outside the 7-sample window
	h := history(5, 20, 20, 20, 20, 20, 20, 20.5)

	assert.Equal(t, ForecastStable, Forecast(h))
}

func TestForecast_OrdersByDate(t *testing.T) {
	h := history(10, 12)
	h[0], h[1] = h[1], h[0]

	assert.Equal(t, ForecastRising, Forecast(h))
}

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, 29.99, CentsToDollars(2999))
	assert.Equal(t, int64(2999), DollarsToCents(29.99))
	assert.Equal(t, int64(1), DollarsToCents(0.005))
}

func TestAnnotate(t *testing.T) {
	game := models.Game{CurrentPrice: 29.99}

	Annotate(&game, 24.99, history(59.99, 59.99, 29.99, 24.99, 29.99))

	assert.Equal(t, 24.99, game.HistoricalLow)
	assert.Equal(t, "B", game.PriceGrade) // 29.99 / 24.99 is just over 1.2
	assert.Equal(t, ForecastFalling, game.Forecast)
}

func TestAnnotate_NoRecordedLow(t *testing.T) {
	game := models.Game{CurrentPrice: 19.99}

	Annotate(&game, 0, nil)

	assert.Equal(t, 19.99, game.HistoricalLow)
	assert.Equal(t, "A+", game.PriceGrade)
	assert.Equal(t, ForecastStable, game.Forecast)
}
