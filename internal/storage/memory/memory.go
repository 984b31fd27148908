// Package memory implements the storage contracts in process memory.
// It backs tests and local development without a running database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/models"
)

// Manager implements interfaces.StorageManager with map-backed tables.
type Manager struct {
	currencies *CurrencyStore
	symbols    *SymbolStore
	holdings   *HoldingStore
	cash       *CashStore
	snapshots  *SnapshotStore
}

// NewManager creates an empty in-memory storage manager.
func NewManager() *Manager {
	return &Manager{
		currencies: &CurrencyStore{rates: make(map[string]models.CurrencyRate)},
		symbols:    &SymbolStore{records: make(map[string]models.SymbolRecord)},
		holdings:   &HoldingStore{},
		cash:       &CashStore{},
		snapshots:  &SnapshotStore{rows: make(map[string]models.BalanceSnapshot)},
	}
}

func (m *Manager) Currencies() interfaces.CurrencyStore { return m.currencies }
func (m *Manager) Symbols() interfaces.SymbolStore      { return m.symbols }
func (m *Manager) Holdings() interfaces.HoldingStore    { return m.holdings }
func (m *Manager) Cash() interfaces.CashStore           { return m.cash }
func (m *Manager) Snapshots() interfaces.SnapshotStore  { return m.snapshots }
func (m *Manager) Close() error                         { return nil }

// SeedPositions replaces the position table.
func (m *Manager) SeedPositions(positions ...*models.Position) {
	m.holdings.mu.Lock()
	defer m.holdings.mu.Unlock()
	m.holdings.positions = positions
}

// SeedFunds replaces the fund position table.
func (m *Manager) SeedFunds(funds ...*models.FundPosition) {
	m.holdings.mu.Lock()
	defer m.holdings.mu.Unlock()
	m.holdings.funds = funds
}

// SeedBalances replaces the cash balance table.
func (m *Manager) SeedBalances(balances ...*models.CashBalance) {
	m.cash.mu.Lock()
	defer m.cash.mu.Unlock()
	m.cash.balances = balances
}

// SeedDeposits replaces the time deposit table.
func (m *Manager) SeedDeposits(deposits ...*models.TimeDeposit) {
	m.cash.mu.Lock()
	defer m.cash.mu.Unlock()
	m.cash.deposits = deposits
}

// CurrencyStore is the in-memory currency table.
type CurrencyStore struct {
	mu    sync.RWMutex
	rates map[string]models.CurrencyRate
}

func (s *CurrencyStore) GetAll(ctx context.Context) ([]*models.CurrencyRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.rates))
	for code := range s.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]*models.CurrencyRate, 0, len(codes))
	for _, code := range codes {
		rate := s.rates[code]
		out = append(out, &rate)
	}
	return out, nil
}

func (s *CurrencyStore) Get(ctx context.Context, currency string) (*models.CurrencyRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rate, ok := s.rates[currency]
	if !ok {
		return nil, nil
	}
	return &rate, nil
}

func (s *CurrencyStore) Upsert(ctx context.Context, rate *models.CurrencyRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[rate.Currency] = *rate
	return nil
}

// SymbolStore is the in-memory symbol catalog.
type SymbolStore struct {
	mu      sync.RWMutex
	records map[string]models.SymbolRecord
}

func (s *SymbolStore) GetAll(ctx context.Context) ([]*models.SymbolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*models.SymbolRecord, 0, len(names))
	for _, name := range names {
		rec := s.records[name]
		out = append(out, &rec)
	}
	return out, nil
}

func (s *SymbolStore) GetByName(ctx context.Context, name string) (*models.SymbolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[name]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *SymbolStore) Upsert(ctx context.Context, record *models.SymbolRecord) error {
	if record.Symbol == "" {
		return fmt.Errorf("symbol record %q has no symbol", record.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Name] = *record
	return nil
}

func (s *SymbolStore) UpdatePrice(ctx context.Context, name string, close float64, marketCap *float64, asOf time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[name]
	if !ok {
		return fmt.Errorf("symbol record %q not found", name)
	}
	rec.LatestClose = &close
	if marketCap != nil {
		rec.MarketCap = marketCap
	}
	rec.UpdatedAt = asOf
	s.records[name] = rec
	return nil
}

func (s *SymbolStore) UpdateClassification(ctx context.Context, name string, sector, industry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[name]
	if !ok {
		return fmt.Errorf("symbol record %q not found", name)
	}
	if sector != "" {
		rec.Sector = &sector
	}
	if industry != "" {
		rec.Industry = &industry
	}
	s.records[name] = rec
	return nil
}

// HoldingStore is the in-memory positions table.
type HoldingStore struct {
	mu        sync.RWMutex
	positions []*models.Position
	funds     []*models.FundPosition
}

func (s *HoldingStore) Positions(ctx context.Context) ([]*models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Position(nil), s.positions...), nil
}

func (s *HoldingStore) FundPositions(ctx context.Context) ([]*models.FundPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.FundPosition(nil), s.funds...), nil
}

// CashStore is the in-memory cash table.
type CashStore struct {
	mu       sync.RWMutex
	balances []*models.CashBalance
	deposits []*models.TimeDeposit
}

func (s *CashStore) Balances(ctx context.Context) ([]*models.CashBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.CashBalance(nil), s.balances...), nil
}

func (s *CashStore) TimeDeposits(ctx context.Context) ([]*models.TimeDeposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.TimeDeposit(nil), s.deposits...), nil
}

// SnapshotStore is the in-memory snapshot table keyed by date string.
type SnapshotStore struct {
	mu   sync.RWMutex
	rows map[string]models.BalanceSnapshot
}

func snapshotKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (s *SnapshotStore) Get(ctx context.Context, date time.Time) (*models.BalanceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[snapshotKey(date)]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *SnapshotStore) Latest(ctx context.Context, onOrBefore time.Time) (*models.BalanceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := snapshotKey(onOrBefore)
	var bestKey string
	for key := range s.rows {
		if key <= cutoff && key > bestKey {
			bestKey = key
		}
	}
	if bestKey == "" {
		return nil, nil
	}
	row := s.rows[bestKey]
	return &row, nil
}

func (s *SnapshotStore) Upsert(ctx context.Context, snapshot *models.BalanceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[snapshotKey(snapshot.Date)] = *snapshot
	return nil
}

func (s *SnapshotStore) PatchField(ctx context.Context, date time.Time, field string, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[snapshotKey(date)]
	if !ok {
		return fmt.Errorf("snapshot for %s not found", snapshotKey(date))
	}
	switch field {
	case "cash":
		row.Cash = value
	case "time_deposit":
		row.TimeDeposit = value
	case "security_cash_balance":
		row.SecurityCashBalance = value
	default:
		return fmt.Errorf("unknown snapshot field %q", field)
	}
	s.rows[snapshotKey(date)] = row
	return nil
}

var _ interfaces.StorageManager = (*Manager)(nil)
