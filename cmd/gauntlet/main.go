package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spellstack/gauntlet/internal/adjudicator"
	"github.com/spellstack/gauntlet/internal/agent"
	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/config"
	"github.com/spellstack/gauntlet/internal/game"
	"github.com/spellstack/gauntlet/internal/match"
	"github.com/spellstack/gauntlet/internal/observer"
	"github.com/spellstack/gauntlet/internal/tournament"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting gauntlet",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if len(cfg.Seats) < 2 {
		return fmt.Errorf("configuration needs at least two seats, got %d", len(cfg.Seats))
	}

	var seats []match.Seat
	var decks []*card.Decklist
	for _, sc := range cfg.Seats {
		seat, deck, err := buildSeat(sc, logger)
		if err != nil {
			return err
		}
		seats = append(seats, seat)
		decks = append(decks, deck)
	}

	catalog, cleanup, err := buildCatalog(ctx, cfg.Catalog, deckNames(decks...), logger)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := game.Options{
		StartingLife: cfg.Engine.StartingLife,
		MaxTurns:     cfg.Engine.MaxTurns,
		MaxActions:   cfg.Engine.MaxActions,
		MaxMulligans: cfg.Engine.MaxMulligans,
		Seed:         cfg.Engine.Seed,
	}
	runner := match.NewRunner(catalog, opts, logger)
	runner.KeepLogs = cfg.Match.IncludeLog
	runner.AddObserver(observer.NewConsole(logger))

	if cfg.Spectate.Enabled {
		hub := observer.NewHub(logger)
		go hub.Run()
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.ServeWS)
		go func() {
			logger.Info("spectator hub listening", zap.String("addr", cfg.Spectate.Addr))
			if serveErr := http.ListenAndServe(cfg.Spectate.Addr, mux); serveErr != nil {
				logger.Error("spectator hub stopped", zap.Error(serveErr))
			}
		}()
		runner.AddObserver(hub)
	}

	adj, closeAdj, err := buildAdjudicator(cfg.Adjudicator, logger)
	if err != nil {
		return err
	}
	if adj != nil {
		runner.SetAdjudicator(adj)
	}
	defer closeAdj()

	sink, err := match.OpenResultSink(cfg.Match.ResultsPath)
	if err != nil {
		return err
	}
	defer sink.Close()
	runner.SetSink(sink)

	// Two seats play a single match; more run a round-robin league.
	if len(seats) == 2 {
		result, err := runner.Play(ctx, cfg.Match.ID, seats[0], seats[1])
		if err != nil {
			return err
		}
		logger.Info("match finished",
			zap.String("match_id", result.MatchID),
			zap.String("winner", result.Winner),
			zap.Int("games", len(result.GameResults)),
			zap.String("results", cfg.Match.ResultsPath),
		)
		return nil
	}

	name := cfg.Match.ID
	if name == "" {
		name = "league"
	}
	league, err := tournament.NewLeague(name, seats, runner, logger)
	if err != nil {
		return err
	}
	if err := league.Run(ctx); err != nil {
		return err
	}
	for place, s := range league.Standings() {
		logger.Info("league standing",
			zap.Int("place", place+1),
			zap.String("seat", s.SeatID),
			zap.Int("points", s.Points),
			zap.Int("wins", s.Wins),
			zap.Int("losses", s.Losses),
			zap.Int("draws", s.Draws),
			zap.Int("game_wins", s.GameWins),
		)
	}
	return nil
}

// buildSeat loads a seat's deck and constructs its agent.
func buildSeat(sc config.SeatConfig, logger *zap.Logger) (match.Seat, *card.Decklist, error) {
	deck, err := card.LoadDecklist(sc.DeckPath, sc.DeckName)
	if err != nil {
		return match.Seat{}, nil, fmt.Errorf("seat %s: %w", sc.ID, err)
	}
	name := sc.Name
	if name == "" {
		name = sc.ID
	}

	var ag game.Agent
	switch sc.Agent {
	case "", "pilot":
		ag = agent.NewDeterministicPilot(sc.CastOrder...)
	case "scripted":
		ag = agent.NewScriptedOpponent()
	case "goldfish":
		ag = agent.NewGoldfishOpponent()
	default:
		return match.Seat{}, nil, fmt.Errorf("seat %s: unknown agent %q", sc.ID, sc.Agent)
	}

	seat := match.Seat{ID: sc.ID, Name: name, Deck: deck, Agent: ag}
	for _, sw := range sc.Sideboard {
		seat.Sideboard = append(seat.Sideboard, match.Swap{Out: sw.Out, In: sw.In})
	}
	logger.Info("seat ready",
		zap.String("seat", sc.ID),
		zap.String("deck", deck.Name),
		zap.Int("main", len(deck.Main)),
		zap.Int("sideboard", len(deck.Sideboard)),
	)
	return seat, deck, nil
}

// buildCatalog assembles the card catalog: built-in pool, SQLite
// cache, optional Postgres store, remote fetch for the rest.
func buildCatalog(ctx context.Context, cfg config.CatalogConfig, names []string, logger *zap.Logger) (*card.Memory, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var cache *card.SQLiteCache
	if cfg.CachePath != "" {
		var err error
		cache, err = card.OpenSQLiteCache(cfg.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open card cache: %w", err)
		}
		cleanups = append(cleanups, func() { cache.Close() })
	}

	if cfg.PostgresURL != "" {
		store, err := card.NewPostgresStore(ctx, cfg.PostgresURL, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect card store: %w", err)
		}
		cleanups = append(cleanups, store.Close)
		if err := store.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("card store schema: %w", err)
		}
		seedCache(ctx, store, cache, names, logger)
	}

	var remote *card.RemoteClient
	if cfg.RemoteURL != "" {
		remote = card.NewRemoteClient(cfg.RemoteURL, logger)
	}

	catalog, err := card.BuildCatalog(ctx, names, cache, remote, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	logger.Info("card catalog ready", zap.Int("cards", catalog.Len()))
	return catalog, cleanup, nil
}

// seedCache copies definitions the shared store already has into the
// local cache so BuildCatalog finds them without going remote.
func seedCache(ctx context.Context, store *card.PostgresStore, cache *card.SQLiteCache, names []string, logger *zap.Logger) {
	if cache == nil {
		return
	}
	for _, name := range names {
		if _, ok := cache.Get(name); ok {
			continue
		}
		def, ok, err := store.GetContext(ctx, name)
		if err != nil {
			logger.Warn("card store lookup failed", zap.String("card", name), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		if err := cache.Put(def); err != nil {
			logger.Warn("card cache write failed", zap.String("card", name), zap.Error(err))
		}
	}
}

func buildAdjudicator(cfg config.AdjudicatorConfig, logger *zap.Logger) (adjudicator.Adjudicator, func(), error) {
	noop := func() {}
	switch cfg.Kind {
	case "", "none":
		return nil, noop, nil
	case "grpc":
		adj, err := adjudicator.NewGRPC(cfg.Addr, logger)
		if err != nil {
			return nil, noop, err
		}
		return adj, func() { adj.Close() }, nil
	case "openai":
		return adjudicator.NewOpenAI(cfg.APIKey, cfg.Model, logger), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown adjudicator kind %q", cfg.Kind)
	}
}

func deckNames(decks ...*card.Decklist) []string {
	seen := make(map[string]bool)
	var names []string
	for _, deck := range decks {
		for _, name := range append(append([]string(nil), deck.Main...), deck.Sideboard...) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
