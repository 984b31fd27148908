package balance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/models"
	"github.com/minseokoh/folio/internal/storage/memory"
)

type mockRateService struct {
	usdRate decimal.Decimal
	err     error
}

func (m *mockRateService) GetRates(_ context.Context, currencies []string, _ bool) ([]*models.CurrencyRate, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.CurrencyRate
	for _, currency := range currencies {
		out = append(out, &models.CurrencyRate{Currency: currency, Rate: m.usdRate})
	}
	return out, nil
}

func (m *mockRateService) UpdateRates(_ context.Context, _ []string) (*models.RefreshReport, error) {
	return &models.RefreshReport{}, nil
}

func today() time.Time {
	return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
}

func newTestService(storage *memory.Manager) *Service {
	return newTestServiceWithRates(storage, &mockRateService{usdRate: decimal.NewFromInt(1400)})
}

func newTestServiceWithRates(storage *memory.Manager, rates *mockRateService) *Service {
	return NewService(storage, rates, common.NewSilentLogger()).WithClock(today)
}

func TestResyncCash_CreatesSnapshotSeededFromPrior(t *testing.T) {
	storage := memory.NewManager()
	storage.SeedBalances(
		&models.CashBalance{Account: "연금저축", KRW: decimal.NewFromInt(1_500_000)},
		&models.CashBalance{Account: "IRP", KRW: decimal.NewFromInt(500_000)},
	)

	// Yesterday's snapshot carries a deposit total that must survive
	// today's cash-only resync.
	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	err := storage.Snapshots().Upsert(context.Background(), &models.BalanceSnapshot{
		Date:        yesterday,
		TimeDeposit: decimal.NewFromInt(30_000_000),
	})
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	svc := newTestService(storage)
	result, err := svc.ResyncCash(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != models.SyncStatusSuccess {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.Amount.Equal(decimal.NewFromInt(2_000_000)) {
		t.Errorf("expected summed cash, got %s", result.Amount)
	}

	snap, err := storage.Snapshots().Get(context.Background(), time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap == nil {
		t.Fatal("expected today's snapshot created")
	}
	if !snap.SecurityCashBalance.Equal(decimal.NewFromInt(2_000_000)) {
		t.Errorf("unexpected cash field: %s", snap.SecurityCashBalance)
	}
	if !snap.TimeDeposit.Equal(decimal.NewFromInt(30_000_000)) {
		t.Errorf("expected deposit total seeded from prior day, got %s", snap.TimeDeposit)
	}
}

func TestResyncDeposits_PatchesExistingSnapshot(t *testing.T) {
	storage := memory.NewManager()
	storage.SeedDeposits(
		&models.TimeDeposit{Account: "은행", ProductName: "정기예금 12M", MarketValue: decimal.NewFromInt(20_000_000)},
		&models.TimeDeposit{Account: "은행", ProductName: "정기예금 24M", MarketValue: decimal.NewFromInt(10_000_000)},
	)

	todayDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	err := storage.Snapshots().Upsert(context.Background(), &models.BalanceSnapshot{
		Date:                todayDate,
		SecurityCashBalance: decimal.NewFromInt(2_000_000),
	})
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	svc := newTestService(storage)
	result, err := svc.ResyncDeposits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(decimal.NewFromInt(30_000_000)) {
		t.Errorf("expected summed deposits, got %s", result.Amount)
	}

	snap, _ := storage.Snapshots().Get(context.Background(), todayDate)
	if !snap.TimeDeposit.Equal(decimal.NewFromInt(30_000_000)) {
		t.Errorf("expected patched deposit field, got %s", snap.TimeDeposit)
	}
	if !snap.SecurityCashBalance.Equal(decimal.NewFromInt(2_000_000)) {
		t.Errorf("other fields must be untouched, got %s", snap.SecurityCashBalance)
	}
}

func TestResyncAll_ReportsPerOperation(t *testing.T) {
	storage := memory.NewManager()
	storage.SeedBalances(&models.CashBalance{Account: "연금저축", KRW: decimal.NewFromInt(1_000_000)})
	storage.SeedDeposits(&models.TimeDeposit{Account: "은행", ProductName: "정기예금", MarketValue: decimal.NewFromInt(5_000_000)})

	svc := newTestService(storage)
	report, err := svc.ResyncAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ID == "" {
		t.Error("expected report id")
	}
	if report.Summary.TotalOperations != 2 || report.Summary.SuccessfulOperations != 2 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}
	if report.SecurityCashSync.Status != models.SyncStatusSuccess {
		t.Errorf("unexpected cash result: %+v", report.SecurityCashSync)
	}
	if !report.TimeDepositSync.Amount.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("unexpected deposit amount: %s", report.TimeDepositSync.Amount)
	}

	// Both operations land on the same daily row.
	snap, _ := storage.Snapshots().Get(context.Background(), time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if snap == nil {
		t.Fatal("expected snapshot row")
	}
	if !snap.SecurityCashBalance.Equal(decimal.NewFromInt(1_000_000)) || !snap.TimeDeposit.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestResyncCash_EmptyTableWritesZero(t *testing.T) {
	storage := memory.NewManager()

	svc := newTestService(storage)
	result, err := svc.ResyncCash(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != models.SyncStatusSuccess || !result.Amount.IsZero() {
		t.Errorf("expected zero-amount success, got %+v", result)
	}
}

func TestCashSummary_ConvertsUSDAtLatestRate(t *testing.T) {
	storage := memory.NewManager()
	storage.SeedBalances(
		&models.CashBalance{Account: "연금저축", KRW: decimal.NewFromInt(1_000_000), USD: decimal.NewFromInt(100)},
	)
	storage.SeedDeposits(&models.TimeDeposit{Account: "은행", ProductName: "정기예금", MarketValue: decimal.NewFromInt(5_000_000)})

	svc := newTestServiceWithRates(storage, &mockRateService{usdRate: decimal.NewFromInt(1400)})
	summary, err := svc.CashSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.TotalCashInKRW.Equal(decimal.NewFromInt(1_140_000)) {
		t.Errorf("expected KRW + USD*rate, got %s", summary.TotalCashInKRW)
	}
	if !summary.TotalTimeDeposit.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("unexpected deposit total: %s", summary.TotalTimeDeposit)
	}
}

func TestCashSummary_RateFailureSkipsConversion(t *testing.T) {
	storage := memory.NewManager()
	storage.SeedBalances(
		&models.CashBalance{Account: "연금저축", KRW: decimal.NewFromInt(1_000_000), USD: decimal.NewFromInt(100)},
	)

	svc := newTestServiceWithRates(storage, &mockRateService{err: errors.New("provider down")})
	summary, err := svc.CashSummary(context.Background())
	if err != nil {
		t.Fatalf("rate failure must not surface: %v", err)
	}
	if !summary.USDRate.IsZero() {
		t.Errorf("expected zero rate, got %s", summary.USDRate)
	}
	if !summary.TotalCashInKRW.Equal(decimal.NewFromInt(1_000_000)) {
		t.Errorf("expected KRW only, got %s", summary.TotalCashInKRW)
	}
}
