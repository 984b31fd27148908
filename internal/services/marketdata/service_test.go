package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/models"
)

// --- Mocks ---

type mockListingClient struct {
	stocks []*models.ListingRow
	etfs   []*models.ListingRow
	err    error
}

func (m *mockListingClient) StockListing(_ context.Context) ([]*models.ListingRow, error) {
	return m.stocks, m.err
}

func (m *mockListingClient) ETFListing(_ context.Context) ([]*models.ListingRow, error) {
	return m.etfs, m.err
}

type mockQuoteClient struct {
	infos map[string]*models.QuoteInfo
	bars  map[string][]*models.Bar
	err   error
}

func (m *mockQuoteClient) Info(_ context.Context, ticker string) (*models.QuoteInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.infos[ticker], nil
}

func (m *mockQuoteClient) History(_ context.Context, ticker string, _, _ time.Time) ([]*models.Bar, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bars[ticker], nil
}

type mockOverviewClient struct {
	overview *models.SymbolOverview
	err      error
}

func (m *mockOverviewClient) Overview(_ context.Context, _ string) (*models.SymbolOverview, error) {
	return m.overview, m.err
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
}

func newTestService(listings *mockListingClient, quotes *mockQuoteClient) *Service {
	return NewService(listings, quotes, &mockOverviewClient{}, common.NewSilentLogger()).
		WithClock(fixedClock)
}

// --- Tests ---

func TestDomesticPrice_ETFListingIsAuthoritative(t *testing.T) {
	listings := &mockListingClient{
		etfs: []*models.ListingRow{
			{Symbol: "069500", Name: "KODEX 200", Market: "KOSPI", Close: 35500, MarketCap: 52000},
		},
	}
	svc := newTestService(listings, &mockQuoteClient{})

	quote, err := svc.DomesticPrice(context.Background(), "069500", "KOSPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Close != 35500 {
		t.Errorf("expected listing close, got %f", quote.Close)
	}
	// Listing reports hundred-million KRW; merged unit is billions.
	if quote.MarketCap == nil || *quote.MarketCap != 520 {
		t.Errorf("expected market cap rescaled to 520 billions, got %v", quote.MarketCap)
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !quote.PriceDate.Equal(want) {
		t.Errorf("expected ETF price dated today, got %v", quote.PriceDate)
	}
}

func TestDomesticPrice_MergesHistoryAndQuoteInfo(t *testing.T) {
	// Non-ETF: close comes from the daily series, market cap from the
	// secondary quote provider. Per-field merge, primary preferred.
	listings := &mockListingClient{}
	quotes := &mockQuoteClient{
		bars: map[string][]*models.Bar{
			"005930.KS": {
				{Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Close: 70800},
				{Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Close: 71200},
			},
		},
		infos: map[string]*models.QuoteInfo{
			"005930.KS": {MarketCap: 425_000_000_000_000, RegularMarketPrice: 71000},
		},
	}
	svc := newTestService(listings, quotes)

	quote, err := svc.DomesticPrice(context.Background(), "005930", "KOSPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Close != 71200 {
		t.Errorf("expected latest bar close, got %f", quote.Close)
	}
	if quote.MarketCap == nil || *quote.MarketCap != 425000 {
		t.Errorf("expected market cap in billions from quote info, got %v", quote.MarketCap)
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !quote.PriceDate.Equal(want) {
		t.Errorf("expected bar date, got %v", quote.PriceDate)
	}
}

func TestDomesticPrice_FallsBackToQuoteInfo(t *testing.T) {
	listings := &mockListingClient{}
	quotes := &mockQuoteClient{
		infos: map[string]*models.QuoteInfo{
			"035720.KS": {
				CurrentPrice:      41150,
				RegularMarketTime: time.Date(2026, 3, 10, 6, 30, 0, 0, time.UTC).Unix(),
			},
		},
	}
	svc := newTestService(listings, quotes)

	quote, err := svc.DomesticPrice(context.Background(), "035720", "KOSPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Close != 41150 {
		t.Errorf("expected real-time quote close, got %f", quote.Close)
	}
}

func TestGlobalPrice_UsesLatestBar(t *testing.T) {
	quotes := &mockQuoteClient{
		bars: map[string][]*models.Bar{
			"SCHD": {{Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Close: 28.41}},
		},
		infos: map[string]*models.QuoteInfo{
			"SCHD": {MarketCap: 55_000_000_000},
		},
	}
	svc := newTestService(&mockListingClient{}, quotes)

	quote, err := svc.GlobalPrice(context.Background(), "SCHD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Close != 28.41 {
		t.Errorf("expected bar close, got %f", quote.Close)
	}
	if quote.MarketCap == nil || *quote.MarketCap != 55 {
		t.Errorf("expected 55 billions, got %v", quote.MarketCap)
	}
}

func TestResolveSymbol_DomesticListing(t *testing.T) {
	listings := &mockListingClient{
		stocks: []*models.ListingRow{
			{Symbol: "005930", Name: "삼성전자", Market: "KOSPI", Close: 71200, MarketCap: 425_000_000_000_000},
		},
	}
	svc := newTestService(listings, &mockQuoteClient{})

	rec, err := svc.ResolveSymbol(context.Background(), "삼성전자")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected resolution")
	}
	if rec.Symbol != "005930" || rec.Exchange != "KOSPI" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.RegionType != models.RegionDomestic {
		t.Errorf("expected domestic region, got %s", rec.RegionType)
	}
	if rec.LatestClose == nil || *rec.LatestClose != 71200 {
		t.Errorf("expected listing close carried over, got %v", rec.LatestClose)
	}
}

func TestResolveSymbol_ETFListingFallback(t *testing.T) {
	listings := &mockListingClient{
		etfs: []*models.ListingRow{
			{Symbol: "069500", Name: "KODEX 200", Close: 35500},
		},
	}
	svc := newTestService(listings, &mockQuoteClient{})

	rec, err := svc.ResolveSymbol(context.Background(), "KODEX 200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.Symbol != "069500" {
		t.Fatalf("expected ETF listing match, got %+v", rec)
	}
	if rec.Exchange != "KOSPI" {
		t.Errorf("expected KOSPI default for ETF rows, got %s", rec.Exchange)
	}
}

func TestResolveSymbol_GlobalCandidates(t *testing.T) {
	quotes := &mockQuoteClient{
		infos: map[string]*models.QuoteInfo{
			"SCHD": {LongName: "Schwab US Dividend Equity ETF", Exchange: "PCX", QuoteType: "ETF"},
		},
	}
	svc := newTestService(&mockListingClient{}, quotes)

	rec, err := svc.ResolveSymbol(context.Background(), "schd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected upper-cased candidate to resolve")
	}
	if rec.Symbol != "SCHD" || rec.RegionType != models.RegionGlobal {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestResolveSymbol_AllStrategiesFail(t *testing.T) {
	svc := newTestService(&mockListingClient{}, &mockQuoteClient{})

	rec, err := svc.ResolveSymbol(context.Background(), "XYZ Fund")
	if err != nil {
		t.Fatalf("resolution failure must not be an error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil for unresolvable name, got %+v", rec)
	}
}

func TestIsETF_BrandKeyword(t *testing.T) {
	svc := newTestService(&mockListingClient{}, &mockQuoteClient{})

	isETF, err := svc.IsETF(context.Background(), "KODEX 200", "069500", "KOSPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isETF {
		t.Error("expected brand keyword to classify as ETF")
	}
}

func TestIsETF_ListingMembership(t *testing.T) {
	listings := &mockListingClient{
		etfs: []*models.ListingRow{{Symbol: "069500", Name: "어떤 상장지수"}},
	}
	svc := newTestService(listings, &mockQuoteClient{})

	isETF, err := svc.IsETF(context.Background(), "어떤 상장지수", "069500", "KOSPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isETF {
		t.Error("expected ETF listing membership to classify as ETF")
	}
}

func TestIsETF_QuoteType(t *testing.T) {
	quotes := &mockQuoteClient{
		infos: map[string]*models.QuoteInfo{"VT": {QuoteType: "ETF"}},
	}
	svc := newTestService(&mockListingClient{}, quotes)

	isETF, err := svc.IsETF(context.Background(), "Vanguard Total World", "VT", "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isETF {
		t.Error("expected quoteType ETF to classify as ETF")
	}
}

func TestIsETF_QuoteTypeForDomesticSymbol(t *testing.T) {
	// No brand keyword and no ETF listing row: the quote-type check must
	// query the exchange-suffixed ticker, not the bare 6-digit code.
	quotes := &mockQuoteClient{
		infos: map[string]*models.QuoteInfo{"088980.KS": {QuoteType: "ETF"}},
	}
	svc := newTestService(&mockListingClient{}, quotes)

	isETF, err := svc.IsETF(context.Background(), "맥쿼리인프라", "088980", "KOSPI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isETF {
		t.Error("expected suffixed ticker to reach the quote-type check")
	}
}

func TestIsETF_ProviderFailureDegrades(t *testing.T) {
	listings := &mockListingClient{err: errors.New("listing down")}
	quotes := &mockQuoteClient{err: errors.New("quotes down")}
	svc := newTestService(listings, quotes)

	isETF, err := svc.IsETF(context.Background(), "삼성전자", "005930", "KOSPI")
	if err != nil {
		t.Fatalf("expected degraded check, got error: %v", err)
	}
	if isETF {
		t.Error("expected non-ETF when no check can confirm")
	}
}
