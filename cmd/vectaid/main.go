package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"vectai/config"
	"vectai/native/oracle"
	"vectai/native/raydium"
	"vectai/native/token"
	"vectai/native/trader"
	"vectai/observability/logging"
	"vectai/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("VECTAI_ENV"))
	logger := logging.Setup("vectaid", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	pool, err := cfg.Venue.Parse()
	if err != nil {
		logger.Error("Failed to parse venue whitelist", slog.Any("error", err))
		os.Exit(1)
	}
	admin, err := cfg.Admin()
	if err != nil {
		logger.Error("Failed to parse admin address", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	validator := oracle.NewValidator(
		oracle.WithMaxAge(time.Duration(cfg.Oracle.MaxAgeSeconds)*time.Second),
		oracle.WithMaxConfidenceBps(cfg.Oracle.MaxConfidenceBps),
	)
	source := oracle.NewHermesSource(nil, cfg.Oracle.Endpoint)

	invoker := &logInvoker{logger: logging.Component(logger, "venue")}
	engine := trader.NewEngine(db, validator, pool, invoker, admin,
		trader.WithCooldown(time.Duration(cfg.Trader.CooldownSeconds)*time.Second),
		trader.WithPauseView(cfg.Pauses),
		trader.WithLogger(logging.Component(logger, "trader")),
	)
	tokens := token.NewGuard(db, nil, nil, admin, logging.Component(logger, "token"))

	srv := newServer(engine, tokens, source, cfg.Oracle.FeedID, pool, logger)
	logger.Info("vectaid listening", slog.String("address", cfg.ListenAddress))
	if err := http.ListenAndServe(cfg.ListenAddress, srv.router()); err != nil {
		logger.Error("HTTP server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// logInvoker records composed venue instructions instead of submitting them.
// Deployments wire a host-specific invoker; the daemon's default is a dry run.
type logInvoker struct {
	logger *slog.Logger
}

func (l *logInvoker) Invoke(ix raydium.Instruction) error {
	l.logger.Info("venue instruction composed",
		slog.String("program", ix.ProgramID.String()),
		slog.Int("accounts", len(ix.Accounts)),
		slog.String("data", fmt.Sprintf("%x", ix.Data)))
	return nil
}
