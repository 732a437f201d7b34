package card

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteCacheRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.db")
	cache, err := OpenSQLiteCache(path)
	require.NoError(t, err)

	def := &Definition{
		Name:       "Storm Crow",
		ManaCost:   "{1}{U}",
		CMC:        2,
		TypeLine:   "Creature — Bird",
		OracleText: "Flying",
		Power:      "1",
		Toughness:  "2",
		Colors:     []string{"U"},
		Keywords:   []string{"Flying"},
	}
	require.NoError(t, cache.Put(def))

	got, ok := cache.Get("Storm Crow")
	require.True(t, ok)
	assert.Equal(t, def, got)

	_, ok = cache.Get("Black Lotus")
	assert.False(t, ok)

	// Same name upserts rather than duplicating.
	def2 := &Definition{Name: "Storm Crow", TypeLine: "Creature — Bird Illusion"}
	require.NoError(t, cache.Put(def2))
	n, err := cache.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, _ = cache.Get("Storm Crow")
	assert.Equal(t, "Creature — Bird Illusion", got.TypeLine)

	require.NoError(t, cache.Close())

	// The cache survives reopening.
	cache, err = OpenSQLiteCache(path)
	require.NoError(t, err)
	defer cache.Close()
	got, ok = cache.Get("Storm Crow")
	require.True(t, ok)
	assert.Equal(t, "Creature — Bird Illusion", got.TypeLine)
}

func TestSQLiteCacheRejectsNamelessDefinitions(t *testing.T) {
	cache, err := OpenSQLiteCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	assert.ErrorContains(t, cache.Put(&Definition{}), "without a name")
	assert.ErrorContains(t, cache.Put(nil), "without a name")
}
