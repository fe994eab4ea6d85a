package gallery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedeck/internal/catalog"
)

// scriptedFetcher returns canned responses per call and counts calls.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses []scriptedResponse
	calls     []int
}

type scriptedResponse struct {
	records []catalog.Record
	err     error
}

func (f *scriptedFetcher) FetchPage(_ context.Context, page, _ int) ([]catalog.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, page)
	if len(f.responses) == 0 {
		return []catalog.Record{}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp.records, resp.err
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// makeRecords builds records with ids from..from+n-1.
func makeRecords(from, n int) []catalog.Record {
	recs := make([]catalog.Record, n)
	for i := range recs {
		id := from + i
		recs[i] = catalog.Record{ID: catalog.ID(strconv.Itoa(id)), Name: fmt.Sprintf("Mon %d", id)}
	}
	return recs
}

func ids(recs []catalog.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID.String()
	}
	return out
}

func connErr() error {
	return &catalog.FetchError{Err: fmt.Errorf("%w: dial tcp: refused", catalog.ErrConnection)}
}

func TestNewController_InitialState(t *testing.T) {
	c := NewController(&scriptedFetcher{})
	s := c.State()

	assert.Empty(t, s.Records)
	assert.Equal(t, 0, s.CurrentPage)
	assert.False(t, s.Exhausted)
	assert.False(t, s.FetchInFlight)
	assert.True(t, s.InitialLoad)
	assert.Equal(t, DefaultPageSize, c.PageSize())
}

// Scenarios 1 and 2: a full page followed by a short page.
func TestController_FullThenShortPage(t *testing.T) {
	f := &scriptedFetcher{responses: []scriptedResponse{
		{records: makeRecords(1, 20)},
		{records: makeRecords(21, 5)},
	}}
	c := NewController(f)
	ctx := context.Background()

	report := c.FetchNextPage(ctx)
	assert.Equal(t, OutcomeMerged, report.Outcome)
	assert.Equal(t, 20, report.Added)

	s := c.State()
	assert.Len(t, s.Records, 20)
	assert.Equal(t, 1, s.CurrentPage)
	assert.False(t, s.Exhausted)
	assert.False(t, s.InitialLoad)

	report = c.FetchNextPage(ctx)
	assert.Equal(t, OutcomeExhausted, report.Outcome)

	s = c.State()
	assert.Len(t, s.Records, 25)
	assert.Equal(t, 2, s.CurrentPage)
	assert.True(t, s.Exhausted)
	assert.Equal(t, []int{0, 1}, f.calls)
}

// Scenario 3: empty first page.
func TestController_EmptyFirstPage(t *testing.T) {
	f := &scriptedFetcher{responses: []scriptedResponse{{records: []catalog.Record{}}}}
	c := NewController(f)

	report := c.FetchNextPage(context.Background())
	assert.Equal(t, OutcomeExhausted, report.Outcome)
	assert.Nil(t, report.Notice)

	s := c.State()
	assert.Empty(t, s.Records)
	assert.Equal(t, 0, s.CurrentPage)
	assert.True(t, s.Exhausted)
	assert.False(t, s.InitialLoad)
	assert.False(t, s.FetchInFlight)
}

// Scenario 4: network failure on the first page.
func TestController_ConnectionFailure(t *testing.T) {
	f := &scriptedFetcher{responses: []scriptedResponse{{err: connErr()}}}
	c := NewController(f, WithBackendName("http://localhost:8080"))

	report := c.FetchNextPage(context.Background())
	assert.Equal(t, OutcomeFailed, report.Outcome)
	require.NotNil(t, report.Notice)
	assert.Equal(t, NoticeConnectionFailed, report.Notice.Kind)
	assert.Contains(t, report.Notice.Message, "http://localhost:8080")

	s := c.State()
	assert.Empty(t, s.Records)
	assert.True(t, s.Exhausted)
	assert.False(t, s.InitialLoad)
	assert.False(t, s.FetchInFlight)
}

func TestController_OtherFailuresAndMalformed(t *testing.T) {
	t.Run("bad status raises a request notice", func(t *testing.T) {
		f := &scriptedFetcher{responses: []scriptedResponse{
			{err: &catalog.FetchError{Status: 500, Err: catalog.ErrBadStatus}},
		}}
		c := NewController(f)

		report := c.FetchNextPage(context.Background())
		assert.Equal(t, OutcomeFailed, report.Outcome)
		require.NotNil(t, report.Notice)
		assert.Equal(t, NoticeRequestFailed, report.Notice.Kind)
		assert.True(t, c.Exhausted())
	})

	t.Run("malformed body is end of data", func(t *testing.T) {
		f := &scriptedFetcher{responses: []scriptedResponse{
			{err: &catalog.FetchError{Status: 200, Err: catalog.ErrMalformed}},
		}}
		c := NewController(f)

		report := c.FetchNextPage(context.Background())
		assert.Equal(t, OutcomeExhausted, report.Outcome)
		assert.Nil(t, report.Notice)
		assert.True(t, c.Exhausted())
		assert.Equal(t, 0, c.State().CurrentPage)
	})
}

// Scenario 5: reset after exhaustion.
func TestController_Reset(t *testing.T) {
	f := &scriptedFetcher{responses: []scriptedResponse{
		{records: makeRecords(1, 20)},
		{records: makeRecords(21, 5)},
		{records: makeRecords(1, 3)},
	}}
	c := NewController(f)
	ctx := context.Background()

	c.FetchNextPage(ctx)
	c.FetchNextPage(ctx)
	require.True(t, c.Exhausted())

	c.Reset()
	s := c.State()
	assert.Empty(t, s.Records)
	assert.Equal(t, 0, s.CurrentPage)
	assert.False(t, s.Exhausted)
	assert.True(t, s.InitialLoad)
	assert.Equal(t, uint64(1), s.Generation)
	assert.Equal(t, 2, f.callCount(), "reset must not fetch on its own")

	// Ids seen before the reset are accepted again.
	report := c.FetchNextPage(ctx)
	assert.Equal(t, 3, report.Added)
	assert.Equal(t, []string{"1", "2", "3"}, ids(c.State().Records))
	assert.Equal(t, []int{0, 1, 0}, f.calls)
}

func TestController_Deduplication(t *testing.T) {
	pages := [][]catalog.Record{
		makeRecords(1, 4),
		append(makeRecords(3, 2), makeRecords(10, 2)...), // 3,4 repeat
		append(makeRecords(11, 1), makeRecords(1, 3)...), // 11,1,2,3 repeat
	}
	f := &scriptedFetcher{}
	for _, p := range pages {
		f.responses = append(f.responses, scriptedResponse{records: p})
	}
	c := NewController(f, WithPageSize(4))
	ctx := context.Background()

	r1 := c.FetchNextPage(ctx)
	r2 := c.FetchNextPage(ctx)
	r3 := c.FetchNextPage(ctx)

	assert.Equal(t, 4, r1.Added)
	assert.Equal(t, 2, r2.Added)
	assert.Equal(t, 2, r2.Duplicates)
	assert.Equal(t, 0, r3.Added)
	assert.Equal(t, 4, r3.Duplicates)

	// Raw length decides exhaustion, not the deduplicated count.
	assert.Equal(t, OutcomeMerged, r3.Outcome)
	assert.False(t, c.Exhausted())
	assert.Equal(t, 3, c.State().CurrentPage)

	assert.Equal(t, []string{"1", "2", "3", "4", "10", "11"}, ids(c.State().Records))
}

func TestController_DuplicatesWithinOnePage(t *testing.T) {
	page := []catalog.Record{{ID: "1"}, {ID: "1"}, {ID: "2"}}
	c := NewController(&scriptedFetcher{responses: []scriptedResponse{{records: page}}}, WithPageSize(3))

	report := c.FetchNextPage(context.Background())
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, []string{"1", "2"}, ids(c.State().Records))
}

func TestController_ExhaustionIsSticky(t *testing.T) {
	f := &scriptedFetcher{responses: []scriptedResponse{{records: makeRecords(1, 2)}}}
	c := NewController(f)
	ctx := context.Background()

	c.FetchNextPage(ctx)
	require.True(t, c.Exhausted())
	before := c.State()

	for range 3 {
		report := c.FetchNextPage(ctx)
		assert.Equal(t, OutcomeSkipped, report.Outcome)
	}

	assert.Equal(t, before, c.State())
	assert.Equal(t, 1, f.callCount())

	_, ok := c.Begin()
	assert.False(t, ok)
}

func TestController_SingleFlight(t *testing.T) {
	c := NewController(&scriptedFetcher{})

	req, ok := c.Begin()
	require.True(t, ok)
	assert.True(t, c.State().FetchInFlight)

	_, ok = c.Begin()
	assert.False(t, ok, "second Begin while in flight must be a no-op")

	report := c.FetchNextPage(context.Background())
	assert.Equal(t, OutcomeSkipped, report.Outcome)

	c.Complete(PageResult{Request: req, Records: makeRecords(1, DefaultPageSize)})
	assert.False(t, c.State().FetchInFlight)

	_, ok = c.Begin()
	assert.True(t, ok)
}

func TestController_SingleFlightConcurrent(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	f := FetcherFunc(func(context.Context, int, int) ([]catalog.Record, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return makeRecords(1, DefaultPageSize), nil
	})
	c := NewController(f)

	req, ok := c.Begin()
	require.True(t, ok)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.FetchNextPage(context.Background())
		}()
	}
	wg.Wait()

	done := make(chan PageResult)
	go func() { done <- c.Fetch(context.Background(), req) }()
	close(release)
	c.Complete(<-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.State().CurrentPage)
}

func TestController_StaleResultAfterReset(t *testing.T) {
	c := NewController(&scriptedFetcher{})

	stale, ok := c.Begin()
	require.True(t, ok)

	c.Reset()
	assert.False(t, c.State().FetchInFlight)

	fresh, ok := c.Begin()
	require.True(t, ok)
	assert.NotEqual(t, stale.Generation, fresh.Generation)

	report := c.Complete(PageResult{Request: stale, Records: makeRecords(100, 20)})
	assert.Equal(t, OutcomeStale, report.Outcome)

	s := c.State()
	assert.Empty(t, s.Records)
	assert.True(t, s.FetchInFlight, "stale completion must not clear the fresh request")
	assert.True(t, s.InitialLoad)

	c.Complete(PageResult{Request: fresh, Records: makeRecords(1, 3)})
	assert.Equal(t, []string{"1", "2", "3"}, ids(c.State().Records))
}

func TestController_StaleFailureAfterReset(t *testing.T) {
	c := NewController(&scriptedFetcher{})

	stale, ok := c.Begin()
	require.True(t, ok)
	c.Reset()

	report := c.Complete(PageResult{Request: stale, Err: connErr()})
	assert.Equal(t, OutcomeStale, report.Outcome)
	assert.Nil(t, report.Notice)
	assert.False(t, c.Exhausted())
}

func TestController_MonotonicCursor(t *testing.T) {
	f := &scriptedFetcher{}
	for i := range 5 {
		f.responses = append(f.responses, scriptedResponse{records: makeRecords(i*3+1, 3)})
	}
	f.responses = append(f.responses, scriptedResponse{err: errors.New("late failure")})
	c := NewController(f, WithPageSize(3))

	prev := 0
	for range 6 {
		c.FetchNextPage(context.Background())
		page := c.State().CurrentPage
		assert.GreaterOrEqual(t, page, prev)
		assert.LessOrEqual(t, page-prev, 1)
		prev = page
	}
	assert.Equal(t, 5, prev)
	assert.True(t, c.Exhausted())
}

func TestController_StateIsACopy(t *testing.T) {
	c := NewController(&scriptedFetcher{responses: []scriptedResponse{{records: makeRecords(1, 2)}}})
	c.FetchNextPage(context.Background())

	s := c.State()
	s.Records[0].Name = "mutated"

	assert.Equal(t, "Mon 1", c.State().Records[0].Name)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "merged", OutcomeMerged.String())
	assert.Equal(t, "stale", OutcomeStale.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
