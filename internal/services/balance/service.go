// Package balance reconciles the cash-side source tables into the
// daily balance-sheet snapshot.
package balance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/models"
)

// Snapshot fields patched by the reconciler.
const (
	fieldSecurityCash = "security_cash_balance"
	fieldTimeDeposit  = "time_deposit"
)

// Service implements interfaces.BalanceService. The snapshot is a
// best-effort projection: reconciliation failures are reported and
// logged, never propagated back to the write that triggered them.
type Service struct {
	storage interfaces.StorageManager
	rates   interfaces.RateService
	logger  *common.Logger
	now     interfaces.Clock
}

// NewService creates a balance reconciliation service
func NewService(storage interfaces.StorageManager, rates interfaces.RateService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		rates:   rates,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now interfaces.Clock) *Service {
	s.now = now
	return s
}

// ResyncCash recomputes the total brokerage KRW cash across accounts
// and writes it into today's snapshot row.
func (s *Service) ResyncCash(ctx context.Context) (*models.SyncOpResult, error) {
	balances, err := s.storage.Cash().Balances(ctx)
	if err != nil {
		return failedOp(err), nil
	}

	total := decimal.Zero
	for _, bal := range balances {
		total = total.Add(bal.KRW)
	}

	if err := s.writeSnapshotField(ctx, fieldSecurityCash, total); err != nil {
		s.logger.Error().Err(err).Msg("security cash reconciliation failed")
		return failedOp(err), nil
	}

	s.logger.Info().Str("total", total.String()).Msg("security cash reconciled")
	return &models.SyncOpResult{Status: models.SyncStatusSuccess, Amount: total}, nil
}

// ResyncDeposits recomputes the total time-deposit market value across
// accounts and writes it into today's snapshot row.
func (s *Service) ResyncDeposits(ctx context.Context) (*models.SyncOpResult, error) {
	deposits, err := s.storage.Cash().TimeDeposits(ctx)
	if err != nil {
		return failedOp(err), nil
	}

	total := decimal.Zero
	for _, dep := range deposits {
		total = total.Add(dep.MarketValue)
	}

	if err := s.writeSnapshotField(ctx, fieldTimeDeposit, total); err != nil {
		s.logger.Error().Err(err).Msg("time deposit reconciliation failed")
		return failedOp(err), nil
	}

	s.logger.Info().Str("total", total.String()).Msg("time deposits reconciled")
	return &models.SyncOpResult{Status: models.SyncStatusSuccess, Amount: total}, nil
}

// ResyncAll runs both reconciliations and reports per-operation
// outcomes. A failed operation never aborts the other.
func (s *Service) ResyncAll(ctx context.Context) (*models.SyncReport, error) {
	cashResult, _ := s.ResyncCash(ctx)
	depositResult, _ := s.ResyncDeposits(ctx)

	report := &models.SyncReport{
		ID:               uuid.New().String(),
		SecurityCashSync: *cashResult,
		TimeDepositSync:  *depositResult,
		Timestamp:        s.now(),
	}
	report.Summary.TotalOperations = 2
	for _, result := range []*models.SyncOpResult{cashResult, depositResult} {
		if result.Status == models.SyncStatusSuccess {
			report.Summary.SuccessfulOperations++
		} else {
			report.Summary.FailedOperations++
		}
	}

	s.logger.Info().
		Str("report_id", report.ID).
		Int("success", report.Summary.SuccessfulOperations).
		Int("fail", report.Summary.FailedOperations).
		Msg("snapshot reconciliation complete")
	return report, nil
}

// writeSnapshotField patches one field of today's snapshot, creating
// the row first when the day has rolled over. A new row seeds its
// other fields from the most recent prior snapshot so one field's
// resync never zeroes the others.
func (s *Service) writeSnapshotField(ctx context.Context, field string, value decimal.Decimal) error {
	today := dateOnly(s.now())

	existing, err := s.storage.Snapshots().Get(ctx, today)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.storage.Snapshots().PatchField(ctx, today, field, value)
	}

	snapshot := &models.BalanceSnapshot{Date: today}
	if latest, err := s.storage.Snapshots().Latest(ctx, today); err != nil {
		return err
	} else if latest != nil {
		snapshot.Cash = latest.Cash
		snapshot.TimeDeposit = latest.TimeDeposit
		snapshot.SecurityCashBalance = latest.SecurityCashBalance
	}

	switch field {
	case fieldSecurityCash:
		snapshot.SecurityCashBalance = value
	case fieldTimeDeposit:
		snapshot.TimeDeposit = value
	}

	return s.storage.Snapshots().Upsert(ctx, snapshot)
}

// CashSummary reports current cash-like totals with USD converted at
// the latest synchronized rate.
func (s *Service) CashSummary(ctx context.Context) (*models.CashSummary, error) {
	balances, err := s.storage.Cash().Balances(ctx)
	if err != nil {
		return nil, err
	}
	deposits, err := s.storage.Cash().TimeDeposits(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.CashSummary{AsOf: s.now()}
	for _, bal := range balances {
		summary.TotalKRWCash = summary.TotalKRWCash.Add(bal.KRW)
		summary.TotalUSDCash = summary.TotalUSDCash.Add(bal.USD)
	}
	for _, dep := range deposits {
		summary.TotalTimeDeposit = summary.TotalTimeDeposit.Add(dep.MarketValue)
	}

	summary.USDRate = s.usdRate(ctx)
	summary.TotalCashInKRW = summary.TotalKRWCash.Add(summary.TotalUSDCash.Mul(summary.USDRate))

	return summary, nil
}

func (s *Service) usdRate(ctx context.Context) decimal.Decimal {
	rates, err := s.rates.GetRates(ctx, []string{"USD"}, true)
	if err != nil || len(rates) == 0 {
		s.logger.Warn().Err(err).Msg("USD rate unavailable, conversion skipped")
		return decimal.Zero
	}
	return rates[0].Rate
}

func failedOp(err error) *models.SyncOpResult {
	return &models.SyncOpResult{
		Status: models.SyncStatusFailed,
		Amount: decimal.Zero,
		Error:  err.Error(),
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var _ interfaces.BalanceService = (*Service)(nil)
