// Package source loads the full record set served by the catalog server.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rshade/pokedeck/internal/catalog"
)

// ErrFallback accompanies records that stand in for an unavailable upstream.
// They may be served but must not be cached.
var ErrFallback = errors.New("upstream unavailable, serving fallback catalog")

// Source produces the complete catalog.
type Source interface {
	// Load returns every record in catalog order. A non-nil record slice with an
	// error wrapping ErrFallback is a usable stand-in catalog.
	Load(ctx context.Context) ([]catalog.Record, error)

	// Describe returns a stable description used as the cache key.
	Describe() []string
}

// Fixture reads records from a YAML (or JSON) file.
type Fixture struct {
	Path string
}

// NewFixture returns a Fixture source for path.
func NewFixture(path string) *Fixture {
	return &Fixture{Path: path}
}

// Load parses the fixture file. Records without an id are rejected.
func (f *Fixture) Load(_ context.Context) ([]catalog.Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", f.Path, err)
	}

	var records []catalog.Record
	if err = yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", f.Path, err)
	}
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("fixture %s: record %d has no id", f.Path, i)
		}
	}
	return records, nil
}

// Describe implements Source.
func (f *Fixture) Describe() []string {
	return []string{"fixture", f.Path}
}

// Placeholders returns n generic records served when the upstream is unavailable.
func Placeholders(n int) []catalog.Record {
	const spriteBase = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/"

	records := make([]catalog.Record, 0, n)
	for i := 1; i <= n; i++ {
		id := strconv.Itoa(i)
		records = append(records, catalog.Record{
			ID:         catalog.ID(id),
			Name:       "Pokemon " + id,
			Types:      catalog.NewTypeTags("normal"),
			FrontImage: spriteBase + id + ".png",
			BackImage:  spriteBase + "back/" + id + ".png",
			Region:     "Unknown",
			Weaknesses: []string{"fighting"},
		})
	}
	return records
}
