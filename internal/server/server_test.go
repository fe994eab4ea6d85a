package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedeck/internal/catalog"
	"github.com/rshade/pokedeck/internal/server/cache"
	"github.com/rshade/pokedeck/internal/server/source"
)

type stubSource struct {
	records []catalog.Record
	err     error
	loads   int
}

func (s *stubSource) Load(context.Context) ([]catalog.Record, error) {
	s.loads++
	return s.records, s.err
}

func (s *stubSource) Describe() []string { return []string{"stub"} }

func makeCatalog(n int) []catalog.Record {
	out := make([]catalog.Record, n)
	for i := range n {
		id := strconv.Itoa(i + 1)
		out[i] = catalog.Record{
			ID:    catalog.ID(id),
			Name:  "Mon" + id,
			Types: catalog.NewTypeTags("normal"),
		}
	}
	return out
}

func newTestServer(t *testing.T, n int) (*Server, *Store) {
	t.Helper()
	store := NewStore(&stubSource{records: makeCatalog(n)}, nil)
	require.NoError(t, store.Refresh(context.Background()))
	return New(store, zerolog.Nop()), store
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_ListPage(t *testing.T) {
	srv, _ := newTestServer(t, 45)

	tests := []struct {
		name    string
		target  string
		wantLen int
		firstID catalog.ID
	}{
		{"first page", "/api/pokemons?page=0&size=20", 20, "1"},
		{"second page", "/api/pokemons?page=1&size=20", 20, "21"},
		{"partial last page", "/api/pokemons?page=2&size=20", 5, "41"},
		{"past the end", "/api/pokemons?page=3&size=20", 0, ""},
		{"page*size wraps to zero", "/api/pokemons?page=4611686018427387904&size=4", 0, ""},
		{"max int page", "/api/pokemons?page=9223372036854775807&size=1000", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			records, err := catalog.DecodePage(rec.Body.Bytes())
			require.NoError(t, err)
			assert.Len(t, records, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.firstID, records[0].ID)
			}
		})
	}
}

func TestServer_ListPageBadRequest(t *testing.T) {
	srv, _ := newTestServer(t, 5)

	for _, target := range []string{
		"/api/pokemons",
		"/api/pokemons?page=0",
		"/api/pokemons?size=20",
		"/api/pokemons?page=x&size=20",
		"/api/pokemons?page=-1&size=20",
		"/api/pokemons?page=0&size=0",
		"/api/pokemons?page=0&size=5000",
	} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, srv, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestServer_GetRecord(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	rec := get(t, srv, "/api/pokemons/2")
	require.Equal(t, http.StatusOK, rec.Code)

	var got catalog.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, catalog.ID("2"), got.ID)
	assert.Equal(t, "Mon2", got.Name)

	rec = get(t, srv, "/api/pokemons/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pokemon with ID 99 not found")
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, 7)

	rec := get(t, srv, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.InDelta(t, 7, body["records"], 0)
}

func TestServer_CORS(t *testing.T) {
	srv, _ := newTestServer(t, 1)

	req := httptest.NewRequest(http.MethodOptions, "/api/pokemons?page=0&size=1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Contains(t, []string{"*", "http://localhost:3000"}, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/pokemons?page=0&size=1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	srv.ServeHTTP(rec, req)
	assert.Contains(t, []string{"*", "http://localhost:3000"}, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_ClientRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, 25)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client, err := catalog.NewClient(ts.URL)
	require.NoError(t, err)

	page0, err := client.FetchPage(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Len(t, page0, 20)

	page1, err := client.FetchPage(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Len(t, page1, 5)
	assert.Equal(t, catalog.ID("25"), page1[4].ID)
}

func TestStore_RefreshFailureKeepsCatalog(t *testing.T) {
	src := &stubSource{records: makeCatalog(3)}
	store := NewStore(src, nil)
	require.NoError(t, store.Refresh(context.Background()))

	src.err = errors.New("upstream down")
	src.records = nil
	require.Error(t, store.Refresh(context.Background()))
	assert.Equal(t, 3, store.Len())
}

func TestStore_WarmPrefersCache(t *testing.T) {
	snapshots, err := cache.Open(t.TempDir(), time.Hour)
	require.NoError(t, err)

	src := &stubSource{records: makeCatalog(4)}
	first := NewStore(src, snapshots)
	require.NoError(t, first.Warm(context.Background()))
	assert.Equal(t, 1, src.loads)

	second := NewStore(src, snapshots)
	require.NoError(t, second.Warm(context.Background()))
	assert.Equal(t, 1, src.loads, "second warm should be served from cache")
	assert.Equal(t, 4, second.Len())

	rec, ok := second.Get("3")
	require.True(t, ok)
	assert.Equal(t, "Mon3", rec.Name)
}

func TestStore_FallbackCatalogIsNotCached(t *testing.T) {
	snapshots, err := cache.Open(t.TempDir(), time.Hour)
	require.NoError(t, err)

	down := &stubSource{
		records: source.Placeholders(source.PlaceholderCount),
		err:     fmt.Errorf("%w: 150 ids failed", source.ErrFallback),
	}
	first := NewStore(down, snapshots)
	require.NoError(t, first.Warm(context.Background()))
	assert.Equal(t, source.PlaceholderCount, first.Len(), "fallback records are still served")

	_, err = snapshots.Load(down.Describe())
	require.ErrorIs(t, err, cache.ErrMiss)

	// Upstream recovered: the next start must rebuild rather than reuse the fallback.
	up := &stubSource{records: makeCatalog(30)}
	second := NewStore(up, snapshots)
	require.NoError(t, second.Warm(context.Background()))
	assert.Equal(t, 1, up.loads)
	assert.Equal(t, 30, second.Len())
}

func TestStore_PageRejectsInvalid(t *testing.T) {
	store := NewStore(&stubSource{}, nil)

	_, err := store.Page(-1, 10)
	require.ErrorIs(t, err, ErrInvalidPage)
	_, err = store.Page(0, 0)
	require.ErrorIs(t, err, ErrInvalidPage)

	got, err := store.Page(0, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_PageBounds(t *testing.T) {
	store := NewStore(&stubSource{records: makeCatalog(150)}, nil)
	require.NoError(t, store.Refresh(context.Background()))

	tests := []struct {
		name       string
		page, size int
		wantLen    int
	}{
		{"last full page", 14, 10, 10},
		{"one past the end", 15, 10, 0},
		{"short last page", 37, 4, 2},
		{"product wraps to a small value", math.MaxInt/2 + 1, 4, 0},
		{"max int page", math.MaxInt, 1, 0},
		{"max int size", 0, math.MaxInt, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Page(tt.page, tt.size)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}
