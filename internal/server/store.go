package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/pokedeck/internal/catalog"
	"github.com/rshade/pokedeck/internal/server/cache"
	"github.com/rshade/pokedeck/internal/server/source"
)

// ErrInvalidPage is returned by Page for negative pages or non-positive sizes.
var ErrInvalidPage = errors.New("page must be >= 0 and size must be >= 1")

// Store holds the in-memory catalog served over HTTP.
type Store struct {
	src   source.Source
	cache *cache.Dir

	mu       sync.RWMutex
	records  []catalog.Record
	byID     map[catalog.ID]int
	loadedAt time.Time
}

// NewStore creates an empty store. snapshots may be nil to disable caching.
func NewStore(src source.Source, snapshots *cache.Dir) *Store {
	return &Store{
		src:   src,
		cache: snapshots,
		byID:  make(map[catalog.ID]int),
	}
}

// Warm populates the store, preferring a live cache entry over the source.
func (s *Store) Warm(ctx context.Context) error {
	log := zerolog.Ctx(ctx)

	if records, ok := s.fromCache(ctx); ok {
		s.replace(records)
		log.Info().Int("records", len(records)).Msg("catalog loaded from cache")
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh rebuilds the catalog from the source and rewrites the cache entry.
// On failure the previous catalog keeps being served.
func (s *Store) Refresh(ctx context.Context) error {
	log := zerolog.Ctx(ctx)

	records, err := s.src.Load(ctx)
	fallback := errors.Is(err, source.ErrFallback)
	if err != nil && !fallback {
		return fmt.Errorf("loading catalog: %w", err)
	}
	s.replace(records)

	if fallback {
		log.Warn().Err(err).Int("records", len(records)).Msg("serving fallback catalog, cache not updated")
		return nil
	}
	if s.cache != nil {
		if err = s.cache.Save(s.src.Describe(), records); err != nil {
			log.Warn().Err(err).Msg("could not write catalog cache")
		}
	}

	log.Info().Int("records", len(records)).Msg("catalog refreshed")
	return nil
}

// RunRefresher refreshes the catalog every interval until ctx is done.
func (s *Store) RunRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log := zerolog.Ctx(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Info().Msg("refreshing catalog")
			if err := s.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("catalog refresh failed")
			}
		}
	}
}

func (s *Store) fromCache(ctx context.Context) ([]catalog.Record, bool) {
	if s.cache == nil {
		return nil, false
	}

	snap, err := s.cache.Load(s.src.Describe())
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("catalog cache unusable")
		}
		return nil, false
	}
	if len(snap.Records) == 0 {
		return nil, false
	}
	zerolog.Ctx(ctx).Debug().Dur("age", snap.Age(time.Now())).Msg("catalog cache hit")
	return snap.Records, true
}

func (s *Store) replace(records []catalog.Record) {
	byID := make(map[catalog.ID]int, len(records))
	for i, rec := range records {
		if _, dup := byID[rec.ID]; !dup {
			byID[rec.ID] = i
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.byID = byID
	s.loadedAt = time.Now()
}

// Page returns records [page*size, page*size+size). Pages past the end are empty.
func (s *Store) Page(page, size int) ([]catalog.Record, error) {
	if page < 0 || size < 1 {
		return nil, ErrInvalidPage
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	// The last page index is (n-1)/size; checking it first keeps page*size from overflowing.
	if n == 0 || page > (n-1)/size {
		return []catalog.Record{}, nil
	}
	from := page * size
	to := min(from+size, n)

	out := make([]catalog.Record, to-from)
	copy(out, s.records[from:to])
	return out, nil
}

// Get returns the record with id.
func (s *Store) Get(id catalog.ID) (catalog.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return catalog.Record{}, false
	}
	return s.records[i], true
}

// Len returns the catalog size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// LoadedAt returns when the catalog was last replaced.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
