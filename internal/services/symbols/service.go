// Package symbols maintains the symbol catalog: price refreshes,
// sector/industry backfill, and registration of holdings that have no
// catalog entry yet.
package symbols

import (
	"context"
	"fmt"
	"time"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/models"
)

// Service implements interfaces.SymbolService.
type Service struct {
	storage  interfaces.StorageManager
	provider interfaces.PriceProvider
	quotes   interfaces.QuoteClient
	overview interfaces.OverviewClient
	logger   *common.Logger
	now      interfaces.Clock

	maxAttempts  int
	initialDelay time.Duration
}

// NewService creates a symbol catalog service
func NewService(storage interfaces.StorageManager, provider interfaces.PriceProvider, quotes interfaces.QuoteClient, overview interfaces.OverviewClient, cfg *common.SyncConfig, logger *common.Logger) *Service {
	return &Service{
		storage:      storage,
		provider:     provider,
		quotes:       quotes,
		overview:     overview,
		logger:       logger,
		now:          time.Now,
		maxAttempts:  cfg.MaxAttempts,
		initialDelay: cfg.GetInitialDelay(),
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now interfaces.Clock) *Service {
	s.now = now
	return s
}

// RefreshPrices updates latest_close and market cap for the named
// catalog rows, or for every row when names is empty, skipping rows
// already current for the trading session. The persisted updated_at is
// the quote's own date, so the next pass compares trading dates like
// for like and skips rows already at the boundary.
func (s *Service) RefreshPrices(ctx context.Context, names []string) (*models.RefreshReport, error) {
	businessDate := common.LatestBusinessDate(s.now(), common.QuoteCutoffHour)

	records, err := s.storage.Symbols().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		wanted := make(map[string]bool, len(names))
		for _, name := range names {
			wanted[name] = true
		}
		var scoped []*models.SymbolRecord
		for _, rec := range records {
			if wanted[rec.Name] {
				scoped = append(scoped, rec)
			}
		}
		records = scoped
	}

	report := &models.RefreshReport{
		TotalCount: len(records),
		TargetDate: businessDate,
		Timestamp:  s.now(),
	}

	for _, rec := range records {
		if !common.IsStale(rec.UpdatedAt, businessDate) {
			report.SkipCount++
			s.logger.Debug().Str("name", rec.Name).Msg("price already current for session")
			continue
		}

		quote, err := s.fetchQuote(ctx, rec)
		if err != nil {
			report.FailCount++
			report.Failed = append(report.Failed, fmt.Sprintf("%s (%s): %v", rec.Name, rec.Symbol, err))
			s.logger.Error().Err(err).Str("name", rec.Name).Str("symbol", rec.Symbol).Msg("price fetch failed")
			continue
		}
		if quote == nil || quote.Close == 0 {
			report.FailCount++
			report.Failed = append(report.Failed, fmt.Sprintf("%s (%s): no price data", rec.Name, rec.Symbol))
			s.logger.Warn().Str("name", rec.Name).Str("symbol", rec.Symbol).Msg("no price data")
			continue
		}

		if err := s.storage.Symbols().UpdatePrice(ctx, rec.Name, quote.Close, quote.MarketCap, quote.PriceDate); err != nil {
			report.FailCount++
			report.Failed = append(report.Failed, fmt.Sprintf("%s (%s): %v", rec.Name, rec.Symbol, err))
			s.logger.Error().Err(err).Str("name", rec.Name).Msg("price persist failed")
			continue
		}

		report.SuccessCount++
		s.logger.Info().
			Str("name", rec.Name).
			Float64("close", quote.Close).
			Time("price_date", quote.PriceDate).
			Msg("price updated")
	}

	s.logger.Info().
		Int("success", report.SuccessCount).
		Int("fail", report.FailCount).
		Int("skip", report.SkipCount).
		Msg("price refresh complete")
	return report, nil
}

func (s *Service) fetchQuote(ctx context.Context, rec *models.SymbolRecord) (*models.PriceQuote, error) {
	return common.RetryValue(ctx, s.maxAttempts, s.initialDelay, s.logger, func() (*models.PriceQuote, error) {
		if rec.IsDomestic() {
			return s.provider.DomesticPrice(ctx, rec.Symbol, rec.Exchange)
		}
		return s.provider.GlobalPrice(ctx, rec.Symbol)
	})
}

// RefreshSectorInfo backfills sector/industry on rows missing either.
// ETFs get the fixed sector "ETF"; their industry comes from the
// fundamentals provider for foreign listings, else from name keywords.
// Non-ETF rows take sector/industry straight from the quote provider.
// A row resolving neither field counts as a failure; one resolved
// field is enough to persist.
func (s *Service) RefreshSectorInfo(ctx context.Context) (*models.RefreshReport, error) {
	records, err := s.storage.Symbols().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var missing []*models.SymbolRecord
	for _, rec := range records {
		if rec.MissingClassification() {
			missing = append(missing, rec)
		}
	}

	report := &models.RefreshReport{Timestamp: s.now()}
	if len(missing) == 0 {
		report.SkipCount = len(records)
		report.TotalCount = len(records)
		return report, nil
	}
	report.TotalCount = len(missing)

	for _, rec := range missing {
		sector, industry := s.classify(ctx, rec)

		if sector == "" && industry == "" {
			report.FailCount++
			report.Failed = append(report.Failed, fmt.Sprintf("%s (%s): no sector/industry data", rec.Name, rec.Symbol))
			s.logger.Warn().Str("name", rec.Name).Str("symbol", rec.Symbol).Msg("no sector/industry data")
			continue
		}

		if err := s.storage.Symbols().UpdateClassification(ctx, rec.Name, sector, industry); err != nil {
			report.FailCount++
			report.Failed = append(report.Failed, fmt.Sprintf("%s (%s): %v", rec.Name, rec.Symbol, err))
			s.logger.Error().Err(err).Str("name", rec.Name).Msg("classification persist failed")
			continue
		}

		report.SuccessCount++
		s.logger.Info().
			Str("name", rec.Name).
			Str("sector", sector).
			Str("industry", industry).
			Msg("sector info updated")
	}

	s.logger.Info().
		Int("success", report.SuccessCount).
		Int("fail", report.FailCount).
		Msg("sector refresh complete")
	return report, nil
}

func (s *Service) classify(ctx context.Context, rec *models.SymbolRecord) (sector, industry string) {
	isETF, err := s.provider.IsETF(ctx, rec.Name, rec.Symbol, rec.Exchange)
	if err != nil {
		s.logger.Debug().Err(err).Str("name", rec.Name).Msg("ETF check failed")
	}

	if isETF {
		sector = "ETF"
		if !rec.IsDomestic() {
			if ov, err := s.overview.Overview(ctx, rec.Symbol); err != nil {
				s.logger.Warn().Err(err).Str("symbol", rec.Symbol).Msg("overview lookup failed")
			} else if ov != nil && ov.AssetType == "ETF" && ov.Industry != "" {
				industry = ov.Industry
			}
		}
		if industry == "" {
			industry = s.provider.InferIndustry(rec.Name)
		}
		return sector, industry
	}

	info, err := s.quotes.Info(ctx, quoteTicker(rec))
	if err != nil {
		s.logger.Error().Err(err).Str("name", rec.Name).Msg("quote lookup failed")
		return "", ""
	}
	if info == nil {
		return "", ""
	}
	return info.Sector, info.Industry
}

// quoteTicker suffixes domestic symbols for the global quote provider.
func quoteTicker(rec *models.SymbolRecord) string {
	switch rec.Exchange {
	case models.ExchangeKOSPI:
		return rec.Symbol + ".KS"
	case models.ExchangeKOSDAQ:
		return rec.Symbol + ".KQ"
	}
	return rec.Symbol
}

// FindUnmatched returns holding and fund product names that have no
// symbol catalog entry, optionally scoped to one account.
func (s *Service) FindUnmatched(ctx context.Context, account string) ([]string, error) {
	known := make(map[string]bool)
	records, err := s.storage.Symbols().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		known[rec.Name] = true
	}

	positions, err := s.storage.Holdings().Positions(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var unmatched []string
	for _, pos := range positions {
		if account != "" && pos.Account != account {
			continue
		}
		if known[pos.Name] || seen[pos.Name] {
			continue
		}
		seen[pos.Name] = true
		unmatched = append(unmatched, pos.Name)
	}

	if len(unmatched) > 0 {
		s.logger.Warn().Int("count", len(unmatched)).Msg("holdings without symbol catalog entries")
	}
	return unmatched, nil
}

// RegisterUnmatched resolves each name and inserts a catalog row for
// the ones that yield a symbol. Unresolvable names are counted as
// failed and never inserted: the catalog's symbol column is required,
// and partial rows are not allowed.
func (s *Service) RegisterUnmatched(ctx context.Context, names []string) (*models.RegisterReport, error) {
	report := &models.RegisterReport{}

	for _, name := range names {
		resolved, err := s.provider.ResolveSymbol(ctx, name)
		if err != nil {
			report.Failed++
			report.Names = append(report.Names, name)
			s.logger.Error().Err(err).Str("name", name).Msg("symbol resolution failed")
			continue
		}
		if resolved == nil || resolved.Symbol == "" {
			report.Failed++
			report.Names = append(report.Names, name)
			s.logger.Warn().Str("name", name).Msg("symbol not found, skipping registration")
			continue
		}

		resolved.Name = name
		resolved.UpdatedAt = s.now()
		if err := s.storage.Symbols().Upsert(ctx, resolved); err != nil {
			report.Failed++
			report.Names = append(report.Names, name)
			s.logger.Error().Err(err).Str("name", name).Msg("symbol insert failed")
			continue
		}

		report.Added++
		s.logger.Info().Str("name", name).Str("symbol", resolved.Symbol).Msg("symbol registered")
	}

	s.logger.Info().Int("added", report.Added).Int("failed", report.Failed).Msg("unmatched registration complete")
	return report, nil
}

var _ interfaces.SymbolService = (*Service)(nil)
