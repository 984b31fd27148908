// Package marketdata answers price, resolution, and classification
// questions across the domestic exchange and global quote providers.
package marketdata

import (
	"context"
	"strings"
	"time"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/models"
)

// historyLookback bounds the daily-series fallback when the exchange
// listing has no price for a symbol.
const historyLookback = 30 * 24 * time.Hour

// Service implements interfaces.PriceProvider.
type Service struct {
	listings interfaces.ListingClient
	quotes   interfaces.QuoteClient
	overview interfaces.OverviewClient
	logger   *common.Logger
	now      interfaces.Clock
}

// NewService creates a market data service
func NewService(listings interfaces.ListingClient, quotes interfaces.QuoteClient, overview interfaces.OverviewClient, logger *common.Logger) *Service {
	return &Service{
		listings: listings,
		quotes:   quotes,
		overview: overview,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now interfaces.Clock) *Service {
	s.now = now
	return s
}

// DomesticPrice returns the latest close for a KOSPI/KOSDAQ symbol.
// The ETF listing is checked first: its price column refreshes intraday
// so it is authoritative and dated today. Non-ETF symbols fall back to
// the daily history series, then to the global provider's real-time
// quote. Close and market cap are merged per field, primary source
// preferred. Market cap is normalized to billions of KRW.
func (s *Service) DomesticPrice(ctx context.Context, symbol, exchange string) (*models.PriceQuote, error) {
	if row, err := s.etfListingRow(ctx, symbol); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("ETF listing lookup failed")
	} else if row != nil {
		mcap := row.MarketCap / 100 // hundred-million KRW to billions
		return &models.PriceQuote{
			Close:     row.Close,
			MarketCap: &mcap,
			PriceDate: s.today(),
		}, nil
	}

	var (
		primaryClose float64
		primaryDate  time.Time
		havePrimary  bool
	)

	ticker := yahooTicker(symbol, exchange)
	to := s.now()
	bars, err := s.quotes.History(ctx, ticker, to.Add(-historyLookback), to)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("price history lookup failed")
	} else if len(bars) > 0 {
		last := bars[len(bars)-1]
		primaryClose = last.Close
		primaryDate = dateOnly(last.Date)
		havePrimary = true
	}

	info, err := s.quotes.Info(ctx, ticker)
	if err != nil {
		if !havePrimary {
			return nil, err
		}
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("quote info lookup failed")
		info = nil
	}

	quote := &models.PriceQuote{}
	if havePrimary {
		quote.Close = primaryClose
		quote.PriceDate = primaryDate
	} else if info != nil {
		quote.Close = firstNonZero(info.CurrentPrice, info.RegularMarketPrice)
		quote.PriceDate = s.quoteDate(info)
	}
	if info != nil && info.MarketCap > 0 {
		mcap := float64(info.MarketCap) / 1_000_000_000
		quote.MarketCap = &mcap
	}

	if quote.Close == 0 {
		return nil, nil
	}
	return quote, nil
}

// GlobalPrice returns the latest close for a globally listed ticker.
func (s *Service) GlobalPrice(ctx context.Context, ticker string) (*models.PriceQuote, error) {
	to := s.now()
	bars, err := s.quotes.History(ctx, ticker, to.Add(-historyLookback), to)
	if err != nil {
		return nil, err
	}

	info, infoErr := s.quotes.Info(ctx, ticker)

	quote := &models.PriceQuote{}
	if len(bars) > 0 {
		last := bars[len(bars)-1]
		quote.Close = last.Close
		quote.PriceDate = dateOnly(last.Date)
	} else {
		if infoErr != nil {
			return nil, infoErr
		}
		if info == nil {
			return nil, nil
		}
		quote.Close = firstNonZero(info.CurrentPrice, info.RegularMarketPrice)
		quote.PriceDate = s.quoteDate(info)
	}

	if infoErr != nil {
		s.logger.Warn().Err(infoErr).Str("ticker", ticker).Msg("quote info lookup failed")
	} else if info != nil && info.MarketCap > 0 {
		mcap := float64(info.MarketCap) / 1_000_000_000
		quote.MarketCap = &mcap
	}

	if quote.Close == 0 {
		return nil, nil
	}
	return quote, nil
}

// ResolveSymbol maps a free-form product name to a symbol record.
// Resolution order: substring match against the domestic stock listing,
// then the domestic ETF listing, then a small set of normalized ticker
// candidates against the global provider. Nil means unresolvable; that
// is a data problem the caller reports, never a retryable fault.
func (s *Service) ResolveSymbol(ctx context.Context, name string) (*models.SymbolRecord, error) {
	if rec, err := s.resolveDomestic(ctx, name); err != nil {
		s.logger.Warn().Err(err).Str("name", name).Msg("domestic symbol search failed")
	} else if rec != nil {
		return rec, nil
	}

	for _, candidate := range tickerCandidates(name) {
		info, err := s.quotes.Info(ctx, candidate)
		if err != nil {
			s.logger.Debug().Err(err).Str("ticker", candidate).Msg("candidate ticker lookup failed")
			continue
		}
		if info == nil || (info.LongName == "" && info.ShortName == "") {
			continue
		}

		exchange := info.Exchange
		if exchange == "" {
			exchange = "US"
		}
		rec := &models.SymbolRecord{
			Name:       name,
			Symbol:     candidate,
			Exchange:   exchange,
			AssetType:  models.AssetEquity,
			RegionType: models.RegionGlobal,
		}
		if info.Sector != "" {
			rec.Sector = &info.Sector
		}
		if info.Industry != "" {
			rec.Industry = &info.Industry
		}
		s.logger.Info().Str("name", name).Str("symbol", candidate).Msg("resolved global symbol")
		return rec, nil
	}

	s.logger.Warn().Str("name", name).Msg("symbol not resolved")
	return nil, nil
}

func (s *Service) resolveDomestic(ctx context.Context, name string) (*models.SymbolRecord, error) {
	stocks, err := s.listings.StockListing(ctx)
	if err != nil {
		return nil, err
	}
	row := findByName(stocks, name)
	mcapDivisor := 1_000_000_000.0 // stock listing reports raw KRW

	if row == nil {
		etfs, err := s.listings.ETFListing(ctx)
		if err != nil {
			return nil, err
		}
		row = findByName(etfs, name)
		mcapDivisor = 100 // ETF listing reports hundred-million KRW
	}
	if row == nil {
		return nil, nil
	}

	market := row.Market
	if market == "" {
		market = models.ExchangeKOSPI
	}

	rec := &models.SymbolRecord{
		Name:       name,
		Symbol:     row.Symbol,
		Exchange:   market,
		AssetType:  models.AssetEquity,
		RegionType: models.RegionDomestic,
	}
	if row.Close > 0 {
		px := row.Close
		rec.LatestClose = &px
	}
	if row.MarketCap > 0 {
		mcap := row.MarketCap / mcapDivisor
		rec.MarketCap = &mcap
	}

	// Sector data is a best-effort enrichment; resolution succeeds
	// without it.
	if info, err := s.quotes.Info(ctx, yahooTicker(row.Symbol, market)); err == nil && info != nil {
		if info.Sector != "" {
			rec.Sector = &info.Sector
		}
		if info.Industry != "" {
			rec.Industry = &info.Industry
		}
	}

	s.logger.Info().Str("name", name).Str("symbol", rec.Symbol).Str("exchange", market).Msg("resolved domestic symbol")
	return rec, nil
}

// etfBrandKeywords are fund-family brands whose presence in a product
// name marks it as an exchange traded fund.
var etfBrandKeywords = []string{
	"ETF", "KODEX", "TIGER", "ARIRANG", "KBSTAR", "ACE", "PLUS", "ARK",
}

// IsETF reports whether the instrument is an exchange traded fund:
// listed in the domestic ETF table, carrying a fund-family brand in its
// name, or reported by the global provider with quote type "ETF".
// Provider failures degrade to the remaining checks.
func (s *Service) IsETF(ctx context.Context, name, symbol, exchange string) (bool, error) {
	if symbol != "" {
		row, err := s.etfListingRow(ctx, symbol)
		if err != nil {
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("ETF listing check failed")
		} else if row != nil {
			return true, nil
		}
	}

	upper := strings.ToUpper(name)
	for _, kw := range etfBrandKeywords {
		if strings.Contains(upper, kw) {
			return true, nil
		}
	}

	ticker := symbol
	if models.IsDomesticExchange(exchange) {
		ticker = yahooTicker(symbol, exchange)
	}
	info, err := s.quotes.Info(ctx, ticker)
	if err != nil {
		s.logger.Debug().Err(err).Str("ticker", ticker).Msg("quote type check failed")
		return false, nil
	}
	if info != nil && info.QuoteType == "ETF" {
		return true, nil
	}

	return false, nil
}

func (s *Service) etfListingRow(ctx context.Context, symbol string) (*models.ListingRow, error) {
	etfs, err := s.listings.ETFListing(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range etfs {
		if row.Symbol == symbol {
			return row, nil
		}
	}
	return nil, nil
}

func (s *Service) quoteDate(info *models.QuoteInfo) time.Time {
	if info.RegularMarketTime > 0 {
		return dateOnly(time.Unix(info.RegularMarketTime, 0).In(s.now().Location()))
	}
	return s.today()
}

func (s *Service) today() time.Time {
	return dateOnly(s.now())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func findByName(rows []*models.ListingRow, name string) *models.ListingRow {
	for _, row := range rows {
		if strings.Contains(row.Name, name) {
			return row
		}
	}
	return nil
}

func tickerCandidates(name string) []string {
	seen := make(map[string]bool, 3)
	candidates := make([]string, 0, 3)
	for _, c := range []string{
		name,
		strings.ToUpper(name),
		strings.ReplaceAll(name, " ", ""),
	} {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		candidates = append(candidates, c)
	}
	return candidates
}

func yahooTicker(symbol, exchange string) string {
	if exchange == models.ExchangeKOSDAQ {
		return symbol + ".KQ"
	}
	return symbol + ".KS"
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

var _ interfaces.PriceProvider = (*Service)(nil)
