package interfaces

import (
	"context"
	"time"

	"github.com/minseokoh/folio/internal/models"
)

// RateClient fetches official exchange rates for a business date.
type RateClient interface {
	// FetchRates returns the full table published for searchDate.
	// An empty slice with a nil error means the authority has not
	// published for that date yet.
	FetchRates(ctx context.Context, searchDate time.Time) ([]*models.CurrencyRate, error)
	// FetchRatesFor filters FetchRates down to the given currency codes.
	FetchRatesFor(ctx context.Context, searchDate time.Time, currencies []string) ([]*models.CurrencyRate, error)
}

// ListingClient provides domestic exchange listings.
type ListingClient interface {
	StockListing(ctx context.Context) ([]*models.ListingRow, error)
	ETFListing(ctx context.Context) ([]*models.ListingRow, error)
}

// QuoteClient provides global quote metadata and daily history.
type QuoteClient interface {
	// Info returns quote metadata for ticker, or nil when the ticker
	// is unknown to the provider.
	Info(ctx context.Context, ticker string) (*models.QuoteInfo, error)
	History(ctx context.Context, ticker string, from, to time.Time) ([]*models.Bar, error)
}

// OverviewClient provides company fundamentals as a fallback source.
type OverviewClient interface {
	Overview(ctx context.Context, ticker string) (*models.SymbolOverview, error)
}
