package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rshade/pokedeck/internal/catalog"
)

const snapshotExt = ".json"

// Lookup errors returned by Load.
var (
	ErrMiss    = errors.New("no cached catalog for source")
	ErrExpired = errors.New("cached catalog expired")
)

// Dir keeps catalog snapshots as JSON files in one directory, one file per source.
// It is safe for concurrent use.
type Dir struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu sync.Mutex
}

// Open returns a Dir rooted at path, creating the directory if needed.
// A ttl of zero or less selects DefaultTTLSeconds.
func Open(path string, ttl time.Duration) (*Dir, error) {
	if path == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTLSeconds * time.Second
	}
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Dir{path: path, ttl: ttl, now: time.Now}, nil
}

// Path returns the cache directory.
func (d *Dir) Path() string {
	return d.path
}

// TTL returns how long saved snapshots stay valid.
func (d *Dir) TTL() time.Duration {
	return d.ttl
}

// Load returns the live snapshot saved for source.
// An expired snapshot is removed and reported as ErrExpired.
func (d *Dir) Load(source []string) (*Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	file := d.file(source)
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("reading cached catalog: %w", err)
	}

	var snap Snapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding cached catalog %s: %w", filepath.Base(file), err)
	}
	if snap.Expired(d.now()) {
		_ = os.Remove(file)
		return nil, ErrExpired
	}
	return &snap, nil
}

// Save writes records as the snapshot for source, replacing any previous one.
// The file is written to a temp name and renamed into place.
func (d *Dir) Save(source []string, records []catalog.Record) error {
	now := d.now()
	snap := Snapshot{
		Source:    source,
		Records:   records,
		SavedAt:   now,
		ExpiresAt: now.Add(d.ttl),
	}
	data, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encoding catalog snapshot: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	file := d.file(source)
	tmp := file + ".tmp"
	if err = os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing catalog snapshot: %w", err)
	}
	if err = os.Rename(tmp, file); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing catalog snapshot: %w", err)
	}
	return nil
}

// Prune removes expired and unreadable snapshots and returns how many were removed.
func (d *Dir) Prune() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries, err := os.ReadDir(d.path)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}

	now := d.now()
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != snapshotExt {
			continue
		}
		file := filepath.Join(d.path, entry.Name())
		data, readErr := os.ReadFile(file)
		if readErr != nil {
			continue
		}

		var snap Snapshot
		if json.Unmarshal(data, &snap) == nil && !snap.Expired(now) {
			continue
		}
		if os.Remove(file) == nil {
			removed++
		}
	}
	return removed, nil
}

func (d *Dir) file(source []string) string {
	return filepath.Join(d.path, Key(source...)+snapshotExt)
}

// Key derives the snapshot file name from the parts describing a source.
func Key(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h[:])
}
