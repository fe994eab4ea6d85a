package cache

import (
	"time"

	"github.com/rshade/pokedeck/internal/catalog"
)

// Snapshot is one persisted catalog build.
type Snapshot struct {
	// Source is the description of the source the records were built from.
	Source []string `json:"source"`

	Records []catalog.Record `json:"records"`

	SavedAt   time.Time `json:"saved_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the snapshot is past its expiry at now.
func (s *Snapshot) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Age returns how long before now the snapshot was saved.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.SavedAt)
}
