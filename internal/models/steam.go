package models

// SteamAppDetailsEnvelope is the per-app wrapper returned by the store appdetails API
type SteamAppDetailsEnvelope struct {
	Success bool            `json:"success"`
	Data    SteamAppDetails `json:"data"`
}

// SteamAppDetails represents the subset of store.steampowered.com/api/appdetails we keep
type SteamAppDetails struct {
	Type             string              `json:"type"`
	Name             string              `json:"name"`
	AppID            int64               `json:"steam_appid"`
	IsFree           bool                `json:"is_free"`
	ShortDescription string              `json:"short_description"`
	HeaderImage      string              `json:"header_image"`
	Developers       []string            `json:"developers"`
	Publishers       []string            `json:"publishers"`
	Genres           []SteamGenre        `json:"genres"`
	Platforms        SteamPlatforms      `json:"platforms"`
	ReleaseDate      SteamReleaseDate    `json:"release_date"`
	PriceOverview    *SteamPriceOverview `json:"price_overview"`
	Metacritic       *SteamMetacritic    `json:"metacritic"`
	Recommendations  *SteamRecommend     `json:"recommendations"`
}

// SteamPriceOverview carries prices in cents of the requested currency
type SteamPriceOverview struct {
	Currency        string `json:"currency"`
	Initial         int64  `json:"initial"`
	Final           int64  `json:"final"`
	DiscountPercent int    `json:"discount_percent"`
}

type SteamGenre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type SteamPlatforms struct {
	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`
}

type SteamReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"` // e.g. "10 Dec, 2020"
}

type SteamMetacritic struct {
	Score int    `json:"score"`
	URL   string `json:"url"`
}

type SteamRecommend struct {
	Total int `json:"total"`
}

// TopSellersResponse is the JSON form of the store search results page
type TopSellersResponse struct {
	Success     int    `json:"success"`
	ResultsHTML string `json:"results_html"`
	TotalCount  int    `json:"total_count"`
	Start       int    `json:"start"`
}

// GenreNames flattens the Steam genre objects to their descriptions
func (d SteamAppDetails) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		if g.Description != "" {
			names = append(names, g.Description)
		}
	}
	return names
}
