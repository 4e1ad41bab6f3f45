package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
)

// TopSellersPageSize is the number of results the search endpoint returns per page
const TopSellersPageSize = 25

var appIDPattern = regexp.MustCompile(`data-ds-appid="(\d+)"`)

// TopSellers scrapes the app ids of the first pages of the store's top sellers.
// Ids are de-duplicated keeping their first position.
func (s *SteamScraper) TopSellers(ctx context.Context, pages int) ([]int64, error) {
	var all []int64

	for page := 0; page < pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Printf("Fetching top sellers page %d/%d...", page+1, pages)

		url := fmt.Sprintf("%s/search/results/?filter=topsellers&json=1&infinite=1&start=%d&count=%d&cc=%s",
			s.baseURL, page*TopSellersPageSize, TopSellersPageSize, s.currency)
		body, err := s.get(ctx, url)
		if err != nil {
			log.Printf("Error on top sellers page %d: %v", page+1, err)
			continue
		}

		var results struct {
			ResultsHTML string `json:"results_html"`
		}
		if err := json.Unmarshal(body, &results); err != nil {
			log.Printf("Error parsing top sellers page %d: %v", page+1, err)
			continue
		}

		ids := ExtractAppIDs(results.ResultsHTML)
		if len(ids) == 0 {
			log.Printf("Warning: no games found on page %d, stopping", page+1)
			break
		}
		all = append(all, ids...)

		if page < pages-1 {
			if err := s.wait(ctx); err != nil {
				return nil, err
			}
		}
	}

	unique := Dedupe(all)
	log.Printf("Scraped %d unique top sellers", len(unique))
	return unique, nil
}

// TrackTopSellers adds the current top sellers to the tracking list
func (s *SteamScraper) TrackTopSellers(ctx context.Context, pages int) (int, error) {
	appIDs, err := s.TopSellers(ctx, pages)
	if err != nil {
		return 0, err
	}

	tracked := 0
	for _, appID := range appIDs {
		if err := s.store.TrackGame(ctx, appID, TopSellersSource); err != nil {
			log.Printf("Error tracking app %d: %v", appID, err)
			continue
		}
		tracked++
	}
	return tracked, nil
}

// ExtractAppIDs returns the app ids of the search result rows in a results page
func ExtractAppIDs(html string) []int64 {
	matches := appIDPattern.FindAllStringSubmatch(html, -1)
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Dedupe removes repeated ids, keeping the first occurrence
func Dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
