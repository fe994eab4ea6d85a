package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedeck/internal/catalog"
)

var testSource = []string{"pokeapi", "https://pokeapi.co/api/v2/pokemon", "150"}

func testRecords() []catalog.Record {
	return []catalog.Record{
		{ID: "1", Name: "Bulbasaur", Types: catalog.NewTypeTags("grass", "poison")},
		{ID: "4", Name: "Charmander", Types: catalog.NewTypeTags("fire"), Region: "Kanto"},
	}
}

// openAt returns a Dir whose clock is pinned to *now.
func openAt(t *testing.T, ttl time.Duration, now *time.Time) *Dir {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "cache"), ttl)
	require.NoError(t, err)
	d.now = func() time.Time { return *now }
	return d
}

func TestKey(t *testing.T) {
	a := Key("pokeapi", "https://pokeapi.co/api/v2/pokemon", "150")
	b := Key("pokeapi", "https://pokeapi.co/api/v2/pokemon", "151")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Key("pokeapi", "https://pokeapi.co/api/v2/pokemon", "150"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}

func TestOpen(t *testing.T) {
	_, err := Open("", time.Minute)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "nested", "cache")
	d, err := Open(path, 0)
	require.NoError(t, err)
	assert.DirExists(t, path)
	assert.Equal(t, path, d.Path())
	assert.Equal(t, DefaultTTLSeconds*time.Second, d.TTL())
}

func TestDir_SaveLoad(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	d := openAt(t, time.Hour, &now)

	_, err := d.Load(testSource)
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, d.Save(testSource, testRecords()))

	snap, err := d.Load(testSource)
	require.NoError(t, err)
	assert.Equal(t, testSource, snap.Source)
	require.Len(t, snap.Records, 2)
	assert.Equal(t, catalog.ID("4"), snap.Records[1].ID)
	assert.Equal(t, []string{"fire"}, snap.Records[1].TypeNames())
	assert.Equal(t, "Kanto", snap.Records[1].Region)
	assert.True(t, snap.ExpiresAt.Equal(now.Add(time.Hour)))

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 20*time.Minute, snap.Age(now))

	_, err = d.Load([]string{"fixture", "other.yaml"})
	require.ErrorIs(t, err, ErrMiss, "snapshots are per source")

	entries, err := os.ReadDir(d.Path())
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp file left behind")
	assert.Equal(t, Key(testSource...)+".json", entries[0].Name())
}

func TestDir_LoadExpired(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	d := openAt(t, time.Hour, &now)
	require.NoError(t, d.Save(testSource, testRecords()))

	now = now.Add(61 * time.Minute)
	_, err := d.Load(testSource)
	require.ErrorIs(t, err, ErrExpired)
	assert.NoFileExists(t, d.file(testSource))

	_, err = d.Load(testSource)
	require.ErrorIs(t, err, ErrMiss)
}

func TestDir_LoadCorrupt(t *testing.T) {
	now := time.Now()
	d := openAt(t, time.Hour, &now)
	require.NoError(t, os.WriteFile(d.file(testSource), []byte("{not json"), 0600))

	_, err := d.Load(testSource)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestDir_Prune(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	d := openAt(t, time.Hour, &now)

	old := []string{"fixture", "old.yaml"}
	require.NoError(t, d.Save(old, testRecords()))
	now = now.Add(2 * time.Hour)
	require.NoError(t, d.Save(testSource, testRecords()))
	require.NoError(t, os.WriteFile(filepath.Join(d.Path(), "garbage.json"), []byte("??"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(d.Path(), "notes.txt"), []byte("keep"), 0600))

	removed, err := d.Prune()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.FileExists(t, d.file(testSource))
	assert.NoFileExists(t, d.file(old))
	assert.FileExists(t, filepath.Join(d.Path(), "notes.txt"))
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr error
	}{
		{in: "3600", want: 3600},
		{in: "1h30m", want: 5400},
		{in: "60", want: 60},
		{in: "10", wantErr: ErrInvalidTTL},
		{in: "30s", wantErr: ErrInvalidTTL},
		{in: "8760h", wantErr: ErrInvalidTTL},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseTTL("soon")
	require.Error(t, err)
}
