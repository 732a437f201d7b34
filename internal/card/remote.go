package card

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultRemoteBaseURL = "https://api.scryfall.com"

// RemoteClient fetches card metadata from a Scryfall-compatible HTTP
// API. It is only used while assembling the catalog before a match; the
// game core never touches the network.
type RemoteClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	// Courtesy delay between requests; the public API asks for 50-100ms.
	delay time.Duration
}

// NewRemoteClient creates a client against the given base URL (empty
// for the public API).
func NewRemoteClient(baseURL string, logger *zap.Logger) *RemoteClient {
	if baseURL == "" {
		baseURL = defaultRemoteBaseURL
	}
	return &RemoteClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
		delay:   100 * time.Millisecond,
	}
}

// remoteCard mirrors the subset of the API card object the simulator
// needs. Double-faced cards carry their stats on card_faces.
type remoteCard struct {
	Name       string   `json:"name"`
	ManaCost   string   `json:"mana_cost"`
	CMC        float64  `json:"cmc"`
	TypeLine   string   `json:"type_line"`
	OracleText string   `json:"oracle_text"`
	Power      string   `json:"power"`
	Toughness  string   `json:"toughness"`
	Loyalty    string   `json:"loyalty"`
	Colors     []string `json:"colors"`
	Keywords   []string `json:"keywords"`
	CardFaces  []struct {
		Name       string   `json:"name"`
		ManaCost   string   `json:"mana_cost"`
		TypeLine   string   `json:"type_line"`
		OracleText string   `json:"oracle_text"`
		Power      string   `json:"power"`
		Toughness  string   `json:"toughness"`
		Loyalty    string   `json:"loyalty"`
		Colors     []string `json:"colors"`
	} `json:"card_faces"`
}

func (rc *remoteCard) toDefinition() *Definition {
	def := &Definition{
		Name:       rc.Name,
		ManaCost:   rc.ManaCost,
		CMC:        int(rc.CMC),
		TypeLine:   rc.TypeLine,
		OracleText: rc.OracleText,
		Power:      rc.Power,
		Toughness:  rc.Toughness,
		Loyalty:    rc.Loyalty,
		Colors:     rc.Colors,
		Keywords:   rc.Keywords,
	}
	// Fall back to the front face for stats a DFC carries per-face.
	if len(rc.CardFaces) > 0 {
		front := rc.CardFaces[0]
		if def.ManaCost == "" {
			def.ManaCost = front.ManaCost
		}
		if def.OracleText == "" {
			def.OracleText = front.OracleText
		}
		if def.Power == "" {
			def.Power = front.Power
		}
		if def.Toughness == "" {
			def.Toughness = front.Toughness
		}
		if def.Loyalty == "" {
			def.Loyalty = front.Loyalty
		}
		if len(def.Colors) == 0 {
			def.Colors = front.Colors
		}
	}
	return def
}

// FetchNamed fetches a single card by exact name.
func (c *RemoteClient) FetchNamed(ctx context.Context, name string) (*Definition, error) {
	endpoint := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build card request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch card %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("card %q not found in remote catalog", name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch card %q: unexpected status %s", name, resp.Status)
	}

	var rc remoteCard
	if err := json.NewDecoder(resp.Body).Decode(&rc); err != nil {
		return nil, fmt.Errorf("decode card %q: %w", name, err)
	}
	return rc.toDefinition(), nil
}

// FetchAll fetches every name in the list, pacing requests. Names that
// fail are reported together after the rest have been fetched.
func (c *RemoteClient) FetchAll(ctx context.Context, names []string) ([]*Definition, error) {
	var defs []*Definition
	var failed []string
	for i, name := range names {
		if i > 0 {
			select {
			case <-ctx.Done():
				return defs, ctx.Err()
			case <-time.After(c.delay):
			}
		}
		def, err := c.FetchNamed(ctx, name)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("remote card fetch failed", zap.String("card", name), zap.Error(err))
			}
			failed = append(failed, name)
			continue
		}
		defs = append(defs, def)
	}
	if len(failed) > 0 {
		return defs, fmt.Errorf("failed to fetch %d card(s)", len(failed))
	}
	return defs, nil
}

// BuildCatalog assembles a Memory catalog for the given names: built-in
// pool first, then the optional cache, then the optional remote client.
// Remote hits are written back to the cache when one is present.
func BuildCatalog(ctx context.Context, names []string, cache *SQLiteCache, remote *RemoteClient, logger *zap.Logger) (*Memory, error) {
	catalog := NewBuiltin()

	var unresolved []string
	for _, name := range names {
		if _, ok := catalog.Get(name); ok {
			continue
		}
		if cache != nil {
			if def, ok := cache.Get(name); ok {
				catalog.Put(def)
				continue
			}
		}
		unresolved = append(unresolved, name)
	}

	if len(unresolved) == 0 {
		return catalog, nil
	}
	if remote == nil {
		return nil, fmt.Errorf("no remote catalog configured and %d card(s) unknown: %v", len(unresolved), unresolved)
	}

	if logger != nil {
		logger.Info("fetching cards from remote catalog", zap.Int("count", len(unresolved)))
	}
	defs, err := remote.FetchAll(ctx, unresolved)
	for _, def := range defs {
		catalog.Put(def)
		if cache != nil {
			if cacheErr := cache.Put(def); cacheErr != nil && logger != nil {
				logger.Warn("failed to cache card", zap.String("card", def.Name), zap.Error(cacheErr))
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return catalog, nil
}
