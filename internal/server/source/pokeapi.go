package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshade/pokedeck/internal/catalog"
)

// PokeAPI defaults.
const (
	// PlaceholderCount is how many placeholder records are served when every upstream
	// request fails.
	PlaceholderCount = 10

	// DefaultRegion is assigned to upstream records; the first 151 ids are all Kanto.
	DefaultRegion = "Kanto"

	upstreamTimeout = 15 * time.Second
)

// weaknessByType is the simplified single-weakness table.
//
//nolint:gochecknoglobals // Static lookup table.
var weaknessByType = map[string]string{
	"fire":     "water",
	"water":    "electric",
	"grass":    "fire",
	"electric": "ground",
	"psychic":  "ghost",
	"rock":     "water",
}

// Weaknesses maps each type to its weakness, defaulting to "normal".
func Weaknesses(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		w, ok := weaknessByType[strings.ToLower(t)]
		if !ok {
			w = "normal"
		}
		out = append(out, w)
	}
	return out
}

// PokeAPI loads records 1..Total from a PokeAPI-compatible upstream, one request per id.
type PokeAPI struct {
	BaseURL     string
	Total       int
	Concurrency int
	HTTPClient  *http.Client
}

// NewPokeAPI returns a PokeAPI source with its own HTTP client.
func NewPokeAPI(baseURL string, total, concurrency int) *PokeAPI {
	return &PokeAPI{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Total:       total,
		Concurrency: concurrency,
		HTTPClient:  &http.Client{Timeout: upstreamTimeout},
	}
}

// Describe implements Source.
func (p *PokeAPI) Describe() []string {
	return []string{"pokeapi", p.BaseURL, strconv.Itoa(p.Total)}
}

// upstreamPokemon is the subset of the PokeAPI pokemon document we read.
type upstreamPokemon struct {
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault *string `json:"front_default"`
		BackDefault  *string `json:"back_default"`
	} `json:"sprites"`
	Types []catalog.TypeTag `json:"types"`
}

// Load fetches every id concurrently. Individual failures are logged and skipped; if
// nothing could be fetched, placeholder records are returned with ErrFallback.
func (p *PokeAPI) Load(ctx context.Context) ([]catalog.Record, error) {
	log := zerolog.Ctx(ctx)
	results := make([]*catalog.Record, p.Total)
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.Concurrency, 1))
	for i := range p.Total {
		id := i + 1
		g.Go(func() error {
			rec, err := p.fetchOne(gctx, id)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failed.Add(1)
				log.Warn().Err(err).Int("id", id).Msg("upstream fetch failed")
				return nil
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]catalog.Record, 0, p.Total)
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}

	if len(records) == 0 {
		log.Warn().Int64("failed", failed.Load()).Msg("upstream unavailable, serving placeholder catalog")
		return Placeholders(PlaceholderCount), fmt.Errorf("%w: %d ids failed", ErrFallback, failed.Load())
	}

	log.Info().Int("records", len(records)).Int64("failed", failed.Load()).Msg("upstream catalog loaded")
	return records, nil
}

func (p *PokeAPI) fetchOne(ctx context.Context, id int) (*catalog.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var doc upstreamPokemon
	if err = json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding upstream pokemon %d: %w", id, err)
	}

	types := make([]string, 0, len(doc.Types))
	for _, t := range doc.Types {
		if t.Name != "" {
			types = append(types, t.Name)
		}
	}

	rec := &catalog.Record{
		ID:         catalog.ID(strconv.Itoa(id)),
		Name:       Capitalize(doc.Name),
		Types:      catalog.NewTypeTags(types...),
		Region:     DefaultRegion,
		Weaknesses: Weaknesses(types),
	}
	if doc.Sprites.FrontDefault != nil {
		rec.FrontImage = *doc.Sprites.FrontDefault
	}
	if doc.Sprites.BackDefault != nil {
		rec.BackImage = *doc.Sprites.BackDefault
	}
	return rec, nil
}

// Capitalize upper-cases the first letter of name, leaving the rest alone
// ("mr-mime" -> "Mr-mime").
func Capitalize(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	first := cases.Upper(language.English).String(string(runes[0]))
	return first + string(runes[1:])
}
