package interfaces

import (
	"context"
	"time"

	"github.com/minseokoh/folio/internal/models"
)

// RateService keeps stored exchange rates aligned with the business date.
type RateService interface {
	// GetRates returns rates for the requested currencies (all tracked
	// currencies when the slice is empty). With autoUpdate, stale
	// entries are refreshed from the provider before returning; entries
	// that fail to refresh come back with their old value.
	GetRates(ctx context.Context, currencies []string, autoUpdate bool) ([]*models.CurrencyRate, error)
	// UpdateRates force-refreshes the given currencies (all tracked
	// currencies when the slice is empty).
	UpdateRates(ctx context.Context, currencies []string) (*models.RefreshReport, error)
}

// PriceProvider answers market data questions across domestic and
// global venues.
type PriceProvider interface {
	DomesticPrice(ctx context.Context, symbol, exchange string) (*models.PriceQuote, error)
	GlobalPrice(ctx context.Context, ticker string) (*models.PriceQuote, error)
	// ResolveSymbol maps a free-form product name to a symbol record.
	// A nil result with nil error means unresolvable.
	ResolveSymbol(ctx context.Context, name string) (*models.SymbolRecord, error)
	IsETF(ctx context.Context, name, symbol, exchange string) (bool, error)
	InferIndustry(name string) string
}

// SymbolService maintains the symbol catalog.
type SymbolService interface {
	// RefreshPrices updates quotes for the named catalog entries, or the
	// whole catalog when names is empty.
	RefreshPrices(ctx context.Context, names []string) (*models.RefreshReport, error)
	RefreshSectorInfo(ctx context.Context) (*models.RefreshReport, error)
	// FindUnmatched lists holding names absent from the symbol catalog,
	// optionally scoped to one account.
	FindUnmatched(ctx context.Context, account string) ([]string, error)
	RegisterUnmatched(ctx context.Context, names []string) (*models.RegisterReport, error)
}

// BalanceService reconciles cash-side tables into the daily snapshot.
type BalanceService interface {
	ResyncCash(ctx context.Context) (*models.SyncOpResult, error)
	ResyncDeposits(ctx context.Context) (*models.SyncOpResult, error)
	ResyncAll(ctx context.Context) (*models.SyncReport, error)
	CashSummary(ctx context.Context) (*models.CashSummary, error)
}

// AllocationService aggregates holdings into asset-class buckets.
type AllocationService interface {
	Aggregate(ctx context.Context, account string) (*models.AssetAllocation, error)
}

// Clock supplies the current time. Injected so services can be tested
// against fixed instants.
type Clock func() time.Time
