package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wonny/growthscore/internal/external/alphavantage"
	"github.com/wonny/growthscore/internal/external/fmp"
	"github.com/wonny/growthscore/internal/external/sec"
	"github.com/wonny/growthscore/internal/fetcher"
	"github.com/wonny/growthscore/internal/profile"
	"github.com/wonny/growthscore/internal/scoring"
	"github.com/wonny/growthscore/internal/xbrl"
	"github.com/wonny/growthscore/pkg/config"
	"github.com/wonny/growthscore/pkg/httputil"
	"github.com/wonny/growthscore/pkg/logger"
)

// app bundles the wired components every command needs
type app struct {
	cfg         *config.Config
	logger      *logger.Logger
	profile     *profile.Profile
	profileHash string
	chain       *fetcher.Chain
	engine      *scoring.Engine
}

// loadConfig reads env config and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp wires config → logger → http → providers → chain → engine
// ⭐ SSOT: Provider 순서 SEC → FMP → Alpha Vantage
func newApp(profilePath string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)

	if profilePath == "" {
		profilePath = cfg.ProfilePath
	}
	p, err := profile.Load(profilePath)
	if err != nil {
		return nil, err
	}
	hash, err := profile.Hash(p)
	if err != nil {
		return nil, fmt.Errorf("failed to hash profile: %w", err)
	}

	httpClient := httputil.New(cfg, log)

	fmpClient := fmp.NewClient(httpClient, cfg.FMP, log)
	avClient := alphavantage.NewClient(httpClient, cfg.AlphaVantage, log)
	secClient := sec.NewClient(httpClient, cfg.SEC, fmpClient, fmpClient, log,
		sec.WithExtractor(&xbrl.Extractor{MaxQuarterDays: p.Extraction.MaxQuarterDays}),
	)

	return &app{
		cfg:         cfg,
		logger:      log,
		profile:     p,
		profileHash: hash,
		chain:       fetcher.NewChain(log, secClient, fmpClient, avClient),
		engine:      scoring.NewEngine(p),
	}, nil
}

// signalContext is cancelled on Ctrl+C
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
