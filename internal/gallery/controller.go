package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/pokedeck/internal/catalog"
)

// Fetcher loads one page of records. *catalog.Client satisfies it.
type Fetcher interface {
	FetchPage(ctx context.Context, page, size int) ([]catalog.Record, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, page, size int) ([]catalog.Record, error)

// FetchPage calls f.
func (f FetcherFunc) FetchPage(ctx context.Context, page, size int) ([]catalog.Record, error) {
	return f(ctx, page, size)
}

// Controller owns pagination state for one browsing session.
// All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	fetcher  Fetcher
	pageSize int
	backend  string
	logger   zerolog.Logger

	records     []catalog.Record
	seen        map[catalog.ID]struct{}
	page        int
	exhausted   bool
	inFlight    bool
	initialLoad bool
	generation  uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize overrides DefaultPageSize. Non-positive values are ignored.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithBackendName sets the backend description used in connection notices.
func WithBackendName(name string) Option {
	return func(c *Controller) {
		c.backend = name
	}
}

// NewController creates an empty controller in its initial-load state.
func NewController(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:     fetcher,
		pageSize:    DefaultPageSize,
		backend:     "the catalog server",
		logger:      zerolog.Nop(),
		seen:        make(map[catalog.ID]struct{}),
		initialLoad: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Begin starts a fetch cycle. It returns false without changing anything when a fetch
// is already in flight or the controller is exhausted.
func (c *Controller) Begin() (PageRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight || c.exhausted {
		return PageRequest{}, false
	}

	c.inFlight = true
	req := PageRequest{Page: c.page, Size: c.pageSize, Generation: c.generation}
	c.logger.Debug().Int("page", req.Page).Uint64("generation", req.Generation).Msg("fetching page")
	return req, true
}

// Fetch performs the network call for req. It does not touch controller state and may
// run on any goroutine.
func (c *Controller) Fetch(ctx context.Context, req PageRequest) PageResult {
	records, err := c.fetcher.FetchPage(ctx, req.Page, req.Size)
	return PageResult{Request: req, Records: records, Err: err}
}

// Complete applies a settled fetch. Results from an earlier generation are discarded.
func (c *Controller) Complete(res PageResult) Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := Report{Page: res.Request.Page, Received: len(res.Records)}

	if res.Request.Generation != c.generation {
		c.logger.Debug().
			Uint64("generation", res.Request.Generation).
			Uint64("current", c.generation).
			Msg("discarding stale page")
		report.Outcome = OutcomeStale
		return report
	}

	c.inFlight = false
	c.initialLoad = false

	if res.Err != nil {
		return c.failLocked(res, report)
	}

	if len(res.Records) == 0 {
		c.exhausted = true
		report.Outcome = OutcomeExhausted
		c.logger.Info().Int("page", res.Request.Page).Int("total", len(c.records)).Msg("catalog exhausted")
		return report
	}

	for _, rec := range res.Records {
		if _, dup := c.seen[rec.ID]; dup {
			report.Duplicates++
			continue
		}
		c.seen[rec.ID] = struct{}{}
		c.records = append(c.records, rec)
		report.Added++
	}
	c.page++

	report.Outcome = OutcomeMerged
	if len(res.Records) < res.Request.Size {
		c.exhausted = true
		report.Outcome = OutcomeExhausted
	}

	c.logger.Debug().
		Int("page", res.Request.Page).
		Int("added", report.Added).
		Int("duplicates", report.Duplicates).
		Int("total", len(c.records)).
		Bool("exhausted", c.exhausted).
		Msg("page merged")
	return report
}

// failLocked handles a failed fetch. Malformed bodies count as end-of-data;
// everything else raises a notice. Must be called with c.mu held.
func (c *Controller) failLocked(res PageResult, report Report) Report {
	c.exhausted = true

	if errors.Is(res.Err, catalog.ErrMalformed) {
		c.logger.Warn().Err(res.Err).Int("page", res.Request.Page).Msg("malformed page, treating as end of data")
		report.Outcome = OutcomeExhausted
		return report
	}

	report.Outcome = OutcomeFailed
	if catalog.IsConnectionError(res.Err) {
		report.Notice = &Notice{
			Kind:    NoticeConnectionFailed,
			Message: fmt.Sprintf("Backend connection failed! Make sure %s is running.", c.backend),
			Err:     res.Err,
		}
	} else {
		report.Notice = &Notice{
			Kind:    NoticeRequestFailed,
			Message: fmt.Sprintf("Error fetching Pokémon: %v", res.Err),
			Err:     res.Err,
		}
	}

	c.logger.Error().Err(res.Err).Int("page", res.Request.Page).Msg("page fetch failed")
	return report
}

// FetchNextPage runs one full fetch cycle synchronously.
func (c *Controller) FetchNextPage(ctx context.Context) Report {
	req, ok := c.Begin()
	if !ok {
		return Report{Outcome: OutcomeSkipped}
	}
	return c.Complete(c.Fetch(ctx, req))
}

// Reset discards all accumulated state and starts a new generation. It does not fetch;
// the caller triggers the next FetchNextPage. A fetch still outstanding from the previous
// generation is ignored when it settles.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = nil
	c.seen = make(map[catalog.ID]struct{})
	c.page = 0
	c.exhausted = false
	c.inFlight = false
	c.initialLoad = true
	c.generation++

	c.logger.Info().Uint64("generation", c.generation).Msg("gallery reset")
}

// State returns a snapshot. The Records slice is a copy.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]catalog.Record, len(c.records))
	copy(records, c.records)
	return State{
		Records:       records,
		CurrentPage:   c.page,
		Exhausted:     c.exhausted,
		FetchInFlight: c.inFlight,
		InitialLoad:   c.initialLoad,
		Generation:    c.generation,
	}
}

// Len returns the number of accumulated records.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Exhausted reports whether the controller stopped requesting pages.
func (c *Controller) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}
