package models

import (
	"time"
)

// Game is a catalog entry with its current pricing, as served to the storefront.
// Prices are in major currency units (dollars).
type Game struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	HeaderImage         string    `json:"header_image"`
	ShortDescription    string    `json:"short_description"`
	ReleaseDate         string    `json:"release_date"`
	Developers          []string  `json:"developers"`
	Publishers          []string  `json:"publishers"`
	Genres              []string  `json:"genres"`
	Platforms           Platforms `json:"platforms"`
	CurrentPrice        float64   `json:"current_price"`
	OriginalPrice       float64   `json:"original_price"`
	DiscountPercent     int       `json:"discount_percent"`
	HistoricalLow       float64   `json:"historical_low"`
	PriceGrade          string    `json:"price_grade"`
	Forecast            string    `json:"forecast"`
	MetacriticScore     *int      `json:"metacritic_score"`
	RecommendationCount int       `json:"recommendation_count"`
	Currency            string    `json:"currency,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Platforms holds the operating systems a game supports
type Platforms struct {
	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`
}

// PriceSample is one observed price of a game at a point in time
type PriceSample struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}
