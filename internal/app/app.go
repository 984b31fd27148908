// Package app wires configuration, storage, clients, and services into
// one composition root shared by the command binaries.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minseokoh/folio/internal/clients/alphavantage"
	"github.com/minseokoh/folio/internal/clients/koreaexim"
	"github.com/minseokoh/folio/internal/clients/krx"
	"github.com/minseokoh/folio/internal/clients/yahoo"
	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/services/allocation"
	"github.com/minseokoh/folio/internal/services/balance"
	"github.com/minseokoh/folio/internal/services/marketdata"
	"github.com/minseokoh/folio/internal/services/rates"
	"github.com/minseokoh/folio/internal/services/symbols"
	"github.com/minseokoh/folio/internal/storage/surrealdb"
)

// App holds all initialized clients and services.
type App struct {
	Config  *common.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	RateClient interfaces.RateClient
	KRXClient  interfaces.ListingClient

	MarketData        interfaces.PriceProvider
	RateService       interfaces.RateService
	SymbolService     interfaces.SymbolService
	BalanceService    interfaces.BalanceService
	AllocationService interfaces.AllocationService

	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services. configPath may be
// empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, FOLIO_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Resolve API keys
	kexKey := common.ResolveAPIKey("koreaexim_api_key", config.Clients.KoreaExim.APIKey)
	if kexKey == "" {
		logger.Warn().Msg("Korea Eximbank API key not configured - exchange rate refresh will be unavailable")
	}
	avKey := common.ResolveAPIKey("alphavantage_api_key", config.Clients.AlphaVantage.APIKey)
	if avKey == "" {
		logger.Warn().Msg("Alpha Vantage API key not configured - foreign ETF industry lookup will fall back to name keywords")
	}

	// Initialize API clients
	rateClient := koreaexim.NewClient(kexKey,
		koreaexim.WithLogger(logger),
		koreaexim.WithBaseURL(config.Clients.KoreaExim.BaseURL),
		koreaexim.WithRateLimit(config.Clients.KoreaExim.RateLimit),
		koreaexim.WithTimeout(config.Clients.KoreaExim.GetTimeout()),
	)
	krxClient := krx.NewClient(
		krx.WithLogger(logger),
		krx.WithBaseURL(config.Clients.KRX.BaseURL),
		krx.WithRateLimit(config.Clients.KRX.RateLimit),
		krx.WithTimeout(config.Clients.KRX.GetTimeout()),
		krx.WithCacheTTL(config.Clients.KRX.GetListingTTL()),
	)
	yahooClient := yahoo.NewClient(
		yahoo.WithLogger(logger),
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)
	avClient := alphavantage.NewClient(avKey,
		alphavantage.WithLogger(logger),
		alphavantage.WithBaseURL(config.Clients.AlphaVantage.BaseURL),
		alphavantage.WithRateLimit(config.Clients.AlphaVantage.RateLimit),
		alphavantage.WithTimeout(config.Clients.AlphaVantage.GetTimeout()),
	)

	// Initialize services
	marketData := marketdata.NewService(krxClient, yahooClient, avClient, logger)
	rateService := rates.NewService(storageManager, rateClient, &config.Sync, logger)
	symbolService := symbols.NewService(storageManager, marketData, yahooClient, avClient, &config.Sync, logger)
	balanceService := balance.NewService(storageManager, rateService, logger)
	allocationService := allocation.NewService(storageManager, rateService, symbolService, logger)

	a := &App{
		Config:            config,
		Logger:            logger,
		Storage:           storageManager,
		RateClient:        rateClient,
		KRXClient:         krxClient,
		MarketData:        marketData,
		RateService:       rateService,
		SymbolService:     symbolService,
		BalanceService:    balanceService,
		AllocationService: allocationService,
		StartupTime:       startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
