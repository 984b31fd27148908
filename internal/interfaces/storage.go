// Package interfaces defines service and storage contracts for Folio
package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minseokoh/folio/internal/models"
)

// StorageManager coordinates all table stores behind one connection.
type StorageManager interface {
	Currencies() CurrencyStore
	Symbols() SymbolStore
	Holdings() HoldingStore
	Cash() CashStore
	Snapshots() SnapshotStore

	// Lifecycle
	Close() error
}

// CurrencyStore manages exchange rate rows keyed by currency code.
type CurrencyStore interface {
	GetAll(ctx context.Context) ([]*models.CurrencyRate, error)
	Get(ctx context.Context, currency string) (*models.CurrencyRate, error)
	Upsert(ctx context.Context, rate *models.CurrencyRate) error
}

// SymbolStore manages the symbol catalog keyed by product name.
type SymbolStore interface {
	GetAll(ctx context.Context) ([]*models.SymbolRecord, error)
	GetByName(ctx context.Context, name string) (*models.SymbolRecord, error)
	Upsert(ctx context.Context, record *models.SymbolRecord) error
	// UpdatePrice patches latest_close, market_cap and updated_at only.
	UpdatePrice(ctx context.Context, name string, close float64, marketCap *float64, asOf time.Time) error
	// UpdateClassification patches sector and industry, skipping empty
	// values. Price fields are untouched.
	UpdateClassification(ctx context.Context, name string, sector, industry string) error
}

// HoldingStore reads brokerage and fund positions.
type HoldingStore interface {
	Positions(ctx context.Context) ([]*models.Position, error)
	FundPositions(ctx context.Context) ([]*models.FundPosition, error)
}

// CashStore reads cash balances and time deposits.
type CashStore interface {
	Balances(ctx context.Context) ([]*models.CashBalance, error)
	TimeDeposits(ctx context.Context) ([]*models.TimeDeposit, error)
}

// SnapshotStore manages daily balance snapshot rows keyed by date.
type SnapshotStore interface {
	// Latest returns the most recent snapshot on or before date, or nil.
	Latest(ctx context.Context, onOrBefore time.Time) (*models.BalanceSnapshot, error)
	Get(ctx context.Context, date time.Time) (*models.BalanceSnapshot, error)
	Upsert(ctx context.Context, snapshot *models.BalanceSnapshot) error
	// PatchField updates a single numeric column on the row for date.
	// The row must exist.
	PatchField(ctx context.Context, date time.Time, field string, value decimal.Decimal) error
}
