package card

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeScryfall serves canned card objects keyed by exact name and
// counts the requests it answers.
func fakeScryfall(t *testing.T, cards map[string]string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cards/named", r.URL.Path)
		hits++
		body, ok := cards[r.URL.Query().Get("exact")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchNamedParsesCard(t *testing.T) {
	srv, _ := fakeScryfall(t, map[string]string{
		"Storm Crow": `{
			"name": "Storm Crow",
			"mana_cost": "{1}{U}",
			"cmc": 2.0,
			"type_line": "Creature — Bird",
			"oracle_text": "Flying",
			"power": "1",
			"toughness": "2",
			"colors": ["U"],
			"keywords": ["Flying"]
		}`,
	})
	client := NewRemoteClient(srv.URL, zaptest.NewLogger(t))

	def, err := client.FetchNamed(context.Background(), "Storm Crow")
	require.NoError(t, err)

	assert.Equal(t, "Storm Crow", def.Name)
	assert.Equal(t, "{1}{U}", def.ManaCost)
	assert.Equal(t, 2, def.CMC)
	assert.Equal(t, "1", def.Power)
	assert.Equal(t, []string{"Flying"}, def.Keywords)

	_, err = client.FetchNamed(context.Background(), "Black Lotus")
	assert.ErrorContains(t, err, "not found in remote catalog")
}

func TestFetchNamedFallsBackToFrontFace(t *testing.T) {
	srv, _ := fakeScryfall(t, map[string]string{
		"Delver of Secrets // Insectile Aberration": `{
			"name": "Delver of Secrets // Insectile Aberration",
			"cmc": 1.0,
			"type_line": "Creature — Human Wizard // Creature — Human Insect",
			"card_faces": [
				{"name": "Delver of Secrets", "mana_cost": "{U}", "oracle_text": "At the beginning of your upkeep...", "power": "1", "toughness": "1", "colors": ["U"]},
				{"name": "Insectile Aberration", "power": "3", "toughness": "2"}
			]
		}`,
	})
	client := NewRemoteClient(srv.URL, zaptest.NewLogger(t))

	def, err := client.FetchNamed(context.Background(), "Delver of Secrets // Insectile Aberration")
	require.NoError(t, err)

	assert.Equal(t, "{U}", def.ManaCost)
	assert.Equal(t, "1", def.Power)
	assert.Equal(t, "1", def.Toughness)
	assert.Equal(t, []string{"U"}, def.Colors)
}

func TestBuildCatalogLayersSources(t *testing.T) {
	cache, err := OpenSQLiteCache(filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	defer cache.Close()
	require.NoError(t, cache.Put(&Definition{Name: "Cached Curio", TypeLine: "Artifact"}))

	srv, hits := fakeScryfall(t, map[string]string{
		"Storm Crow": `{"name": "Storm Crow", "mana_cost": "{1}{U}", "cmc": 2.0, "type_line": "Creature — Bird"}`,
	})
	remote := NewRemoteClient(srv.URL, zaptest.NewLogger(t))

	names := []string{"Swamp", "Cached Curio", "Storm Crow"}
	catalog, err := BuildCatalog(context.Background(), names, cache, remote, zaptest.NewLogger(t))
	require.NoError(t, err)

	for _, name := range names {
		_, ok := catalog.Get(name)
		assert.True(t, ok, "catalog missing %s", name)
	}
	assert.Equal(t, 1, *hits, "only the unknown card goes to the network")

	// The remote hit was written back; a rebuild stays offline.
	_, ok := cache.Get("Storm Crow")
	assert.True(t, ok)

	_, err = BuildCatalog(context.Background(), names, cache, remote, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 1, *hits)
}

func TestBuildCatalogWithoutRemoteFailsOnUnknowns(t *testing.T) {
	_, err := BuildCatalog(context.Background(), []string{"Swamp", "Storm Crow"}, nil, nil, zaptest.NewLogger(t))
	require.ErrorContains(t, err, "no remote catalog configured")

	catalog, err := BuildCatalog(context.Background(), []string{"Swamp", "Mountain"}, nil, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	_, ok := catalog.Get("Swamp")
	assert.True(t, ok)
}
