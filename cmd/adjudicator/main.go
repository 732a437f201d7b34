package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spellstack/gauntlet/internal/adjudicator"
	"github.com/spellstack/gauntlet/internal/config"
	"github.com/spellstack/gauntlet/internal/server"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	listenAddr = flag.String("addr", "", "listen address (overrides adjudicator.addr)")
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

	backend, err := buildBackend(cfg.Adjudicator, logger)
	if err != nil {
		logger.Fatal("backend setup failed", zap.Error(err))
	}

	addr := *listenAddr
	if addr == "" {
		addr = cfg.Adjudicator.Addr
	}
	if addr == "" {
		addr = ":9090"
	}

	srv := server.NewAdjudicatorServer(backend, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		srv.GracefulStop()
	}()

	if err := srv.ListenAndServe(addr); err != nil {
		logger.Fatal("serve failed", zap.Error(err))
	}
	logger.Info("adjudicator service stopped")
}

// buildBackend picks the adjudicator this process serves. The grpc
// kind is the client side and cannot back its own service.
func buildBackend(cfg config.AdjudicatorConfig, logger *zap.Logger) (adjudicator.Adjudicator, error) {
	switch cfg.Kind {
	case "openai":
		return adjudicator.NewOpenAI(cfg.APIKey, cfg.Model, logger), nil
	case "", "none":
		logger.Warn("serving the null adjudicator; every verdict will be 'not legal'")
		return adjudicator.Null{}, nil
	case "grpc":
		return nil, fmt.Errorf("adjudicator kind %q is the remote client, not a servable backend", cfg.Kind)
	default:
		return nil, fmt.Errorf("unknown adjudicator kind %q", cfg.Kind)
	}
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
