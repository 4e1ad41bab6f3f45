package models

import (
	"time"
)

// User is a registered storefront account
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// WatchlistEntry ties a user to a tracked game. Entries are only ever
// created or removed, never edited.
type WatchlistEntry struct {
	UserID      string    `json:"user_id"`
	Game        Game      `json:"game"`
	TargetPrice *float64  `json:"target_price,omitempty"` // Alert threshold in dollars
	AddedAt     time.Time `json:"added_at"`
}

// BelowTarget reports whether the game currently sells at or below the
// entry's target price.
func (e WatchlistEntry) BelowTarget() bool {
	return e.TargetPrice != nil && e.Game.CurrentPrice <= *e.TargetPrice
}
