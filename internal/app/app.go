package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/dcacalc/internal/clients/cryptocompare"
	"github.com/bobmcallan/dcacalc/internal/common"
	"github.com/bobmcallan/dcacalc/internal/interfaces"
	"github.com/bobmcallan/dcacalc/internal/models"
	"github.com/bobmcallan/dcacalc/internal/services/prices"
	"github.com/bobmcallan/dcacalc/internal/services/returns"
)

// App holds the initialized client and services.
// It is the shared core used by both cmd/dcacalc-server and cmd/dcacalc.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	QuoteClient   interfaces.QuoteClient
	PriceService  *prices.Service
	ReturnService *returns.Service
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath picks the config file: the given path, DCACALC_CONFIG,
// dcacalc.toml next to the binary, then config/dcacalc.toml.
func resolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("DCACALC_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "dcacalc.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/dcacalc.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp loads configuration and initializes all services.
// configPath may be empty, in which case the default resolution logic is used.
// A missing config file is not an error; defaults and env overrides apply.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	return NewAppWithConfig(config, logger)
}

// NewAppWithConfig initializes services from an already-loaded config.
// Extra client options are applied after the configured ones.
func NewAppWithConfig(config *common.Config, logger *common.Logger, opts ...cryptocompare.ClientOption) (*App, error) {
	startupStart := time.Now()

	if logger == nil {
		logger = common.NewSilentLogger()
	}

	earliest, err := models.ParseDate(config.Limits.EarliestDate)
	if err != nil {
		return nil, fmt.Errorf("invalid earliest date: %w", err)
	}

	clientOpts := []cryptocompare.ClientOption{
		cryptocompare.WithBaseURL(config.Quote.BaseURL),
		cryptocompare.WithLogger(logger),
		cryptocompare.WithRateLimit(config.Quote.RateLimit),
		cryptocompare.WithTimeout(config.Quote.GetTimeout()),
		cryptocompare.WithRetry(config.Quote.Retries, config.Quote.GetRetryDelay()),
	}
	if config.Quote.APIKey != "" {
		clientOpts = append(clientOpts, cryptocompare.WithAPIKey(config.Quote.APIKey))
	} else {
		logger.Warn().Msg("CryptoCompare API key not configured - anonymous rate limits apply")
	}
	client := cryptocompare.NewClient(append(clientOpts, opts...)...)

	priceService := prices.NewService(client, prices.NewRangeCache(), config.Quote.Symbol, config.Quote.Currency, logger)

	returnService := returns.NewService(priceService,
		models.Benchmark{Name: config.Benchmarks.A.Name, AnnualRate: config.Benchmarks.A.AnnualRate},
		models.Benchmark{Name: config.Benchmarks.B.Name, AnnualRate: config.Benchmarks.B.AnnualRate},
		models.InputLimits{
			EarliestDate:     earliest,
			MaxLumpSum:       config.Limits.MaxLumpSum,
			MaxMonthlyAmount: config.Limits.MaxMonthlyAmount,
		},
		logger,
	)

	a := &App{
		Config:        config,
		Logger:        logger,
		QuoteClient:   client,
		PriceService:  priceService,
		ReturnService: returnService,
		StartupTime:   startupStart,
	}

	logger.Info().
		Str("symbol", config.Quote.Symbol).
		Str("currency", config.Quote.Currency).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// SetClock replaces the clock of every service that depends on today.
func (a *App) SetClock(now func() time.Time) {
	a.PriceService.SetClock(now)
	a.ReturnService.SetClock(now)
}
