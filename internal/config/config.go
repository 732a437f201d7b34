// Package config loads simulator configuration from a YAML file plus
// GAUNTLET_-prefixed environment variables. Environment wins over the
// file, the file over defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runner configuration.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Match       MatchConfig       `mapstructure:"match"`
	Adjudicator AdjudicatorConfig `mapstructure:"adjudicator"`
	Spectate    SpectateConfig    `mapstructure:"spectate"`
	Seats       []SeatConfig      `mapstructure:"seats"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig carries the per-game rules knobs.
type EngineConfig struct {
	StartingLife int   `mapstructure:"starting_life"`
	MaxTurns     int   `mapstructure:"max_turns"`
	MaxActions   int   `mapstructure:"max_actions"`
	MaxMulligans int   `mapstructure:"max_mulligans"`
	Seed         int64 `mapstructure:"seed"`
}

// CatalogConfig selects where card definitions come from. The built-in
// pool is always consulted first; the SQLite cache and remote fetch
// fill the gaps. A Postgres URL adds a shared store for card imports.
type CatalogConfig struct {
	CachePath   string `mapstructure:"cache_path"`
	RemoteURL   string `mapstructure:"remote_url"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// MatchConfig controls the match layer.
type MatchConfig struct {
	ID          string `mapstructure:"id"`
	ResultsPath string `mapstructure:"results_path"`
	IncludeLog  bool   `mapstructure:"include_log"`
}

// AdjudicatorConfig selects the tier-3 oracle: "none", "grpc" or
// "openai".
type AdjudicatorConfig struct {
	Kind   string `mapstructure:"kind"`
	Addr   string `mapstructure:"addr"`
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SpectateConfig enables the websocket spectator hub.
type SpectateConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// SeatConfig describes one player: deck source, the agent kind
// ("pilot", "scripted" or "goldfish") and its tuning.
type SeatConfig struct {
	ID        string       `mapstructure:"id"`
	Name      string       `mapstructure:"name"`
	DeckPath  string       `mapstructure:"deck_path"`
	DeckName  string       `mapstructure:"deck_name"`
	Agent     string       `mapstructure:"agent"`
	CastOrder []string     `mapstructure:"cast_order"`
	Sideboard []SwapConfig `mapstructure:"sideboard"`
}

// SwapConfig is one sideboard exchange.
type SwapConfig struct {
	Out string `mapstructure:"out"`
	In  string `mapstructure:"in"`
}

// Load reads the configuration. An explicit path must exist; with an
// empty path the default search locations are tried and a missing file
// just means defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GAUNTLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("gauntlet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("engine.starting_life", 20)
	v.SetDefault("engine.max_turns", 50)
	v.SetDefault("engine.max_actions", 200)
	v.SetDefault("engine.max_mulligans", 3)
	v.SetDefault("catalog.cache_path", "cards.db")
	v.SetDefault("catalog.remote_url", "https://api.scryfall.com")
	v.SetDefault("match.id", "match-1")
	v.SetDefault("match.results_path", "results.jsonl")
	v.SetDefault("adjudicator.kind", "none")
	v.SetDefault("adjudicator.model", "")
	v.SetDefault("spectate.enabled", false)
	v.SetDefault("spectate.addr", ":8089")
}

func (c *Config) validate() error {
	if len(c.Seats) == 1 {
		return fmt.Errorf("config needs at least two seats, got %d", len(c.Seats))
	}
	for i, seat := range c.Seats {
		if seat.ID == "" {
			return fmt.Errorf("seat %d: missing id", i)
		}
		if seat.DeckPath == "" {
			return fmt.Errorf("seat %s: missing deck_path", seat.ID)
		}
		switch seat.Agent {
		case "", "pilot", "scripted", "goldfish":
		default:
			return fmt.Errorf("seat %s: unknown agent %q", seat.ID, seat.Agent)
		}
	}
	switch c.Adjudicator.Kind {
	case "", "none", "grpc", "openai":
	default:
		return fmt.Errorf("unknown adjudicator kind %q", c.Adjudicator.Kind)
	}
	if c.Adjudicator.Kind == "grpc" && c.Adjudicator.Addr == "" {
		return fmt.Errorf("grpc adjudicator needs an addr")
	}
	return nil
}
