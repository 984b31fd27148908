// Package allocation aggregates holdings into asset-class buckets.
package allocation

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/models"
)

// fallbackUSDRate stands in when no synchronized rate is available,
// so foreign positions still appear in the allocation rather than
// vanishing.
var fallbackUSDRate = decimal.NewFromInt(1400)

// Service implements interfaces.AllocationService. Aggregate is the
// system's entry point: it synchronizes rates, registers unmatched
// holdings, refreshes prices, and only then joins and buckets.
type Service struct {
	storage interfaces.StorageManager
	rates   interfaces.RateService
	symbols interfaces.SymbolService
	logger  *common.Logger
	now     interfaces.Clock
}

// NewService creates an allocation service
func NewService(storage interfaces.StorageManager, rates interfaces.RateService, symbols interfaces.SymbolService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		rates:   rates,
		symbols: symbols,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now interfaces.Clock) *Service {
	s.now = now
	return s
}

// Aggregate computes the asset allocation for one account, or for all
// accounts when account is empty.
func (s *Service) Aggregate(ctx context.Context, account string) (*models.AssetAllocation, error) {
	usdRate := s.usdRate(ctx)

	s.syncCatalog(ctx, account)

	positions, err := s.storage.Holdings().Positions(ctx)
	if err != nil {
		return nil, err
	}
	funds, err := s.storage.Holdings().FundPositions(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.storage.Symbols().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make(map[string]*models.SymbolRecord, len(records))
	for _, rec := range records {
		catalog[rec.Name] = rec
	}

	buckets := make(map[string]*models.AllocationBucket)
	total := decimal.Zero

	for _, pos := range positions {
		if account != "" && pos.Account != account {
			continue
		}
		if pos.Quantity.Sign() <= 0 {
			continue
		}

		rec, ok := catalog[pos.Name]
		if !ok || rec.LatestClose == nil {
			// Unmatched rows are handled by the registration pass,
			// never silently priced at zero.
			s.logger.Warn().Str("name", pos.Name).Msg("holding missing from symbol catalog, excluded from allocation")
			continue
		}

		value := pos.Quantity.Mul(decimal.NewFromFloat(*rec.LatestClose))
		if !rec.IsDomestic() {
			value = value.Mul(usdRate)
		}

		category := models.CategoryFor(rec.AssetType, rec.RegionType)
		addToBucket(buckets, category, pos.Name, value)
		total = total.Add(value)
	}

	for _, fund := range funds {
		if account != "" && fund.Account != account {
			continue
		}
		if fund.MarketValue.Sign() <= 0 {
			continue
		}

		category := models.CategoryFor(fund.AssetType, fund.RegionType)
		addToBucket(buckets, category, fund.Name, fund.MarketValue)
		total = total.Add(fund.MarketValue)
	}

	result := &models.AssetAllocation{
		TotalValue:  total,
		Account:     account,
		LastUpdated: s.now(),
	}
	for _, bucket := range buckets {
		if total.Sign() > 0 {
			pct, _ := bucket.TotalMarketValue.Div(total).Mul(decimal.NewFromInt(100)).Float64()
			bucket.AllocationPercentage = math.Round(pct*100) / 100
		}
		result.Buckets = append(result.Buckets, bucket)
	}
	sort.Slice(result.Buckets, func(i, j int) bool {
		return result.Buckets[i].TotalMarketValue.GreaterThan(result.Buckets[j].TotalMarketValue)
	})

	s.logger.Info().
		Str("account", account).
		Str("total_value", total.String()).
		Int("buckets", len(result.Buckets)).
		Msg("allocation aggregated")
	return result, nil
}

// syncCatalog brings the symbol catalog up to date before the join:
// unmatched holdings are registered, prices refreshed, and sector data
// backfilled when new rows appeared. All of it is best effort; an
// aggregation over slightly stale data beats no aggregation.
func (s *Service) syncCatalog(ctx context.Context, account string) {
	unmatched, err := s.symbols.FindUnmatched(ctx, account)
	if err != nil {
		s.logger.Error().Err(err).Msg("unmatched lookup failed")
	}

	added := 0
	if len(unmatched) > 0 {
		report, err := s.symbols.RegisterUnmatched(ctx, unmatched)
		if err != nil {
			s.logger.Error().Err(err).Msg("unmatched registration failed")
		} else {
			added = report.Added
		}
	}

	if _, err := s.symbols.RefreshPrices(ctx, nil); err != nil {
		s.logger.Error().Err(err).Msg("price refresh failed")
	}
	if added > 0 {
		if _, err := s.symbols.RefreshSectorInfo(ctx); err != nil {
			s.logger.Error().Err(err).Msg("sector refresh failed")
		}
	}
}

func (s *Service) usdRate(ctx context.Context) decimal.Decimal {
	rates, err := s.rates.GetRates(ctx, []string{"USD"}, true)
	if err != nil || len(rates) == 0 {
		s.logger.Warn().Err(err).Msg("USD rate unavailable, using fallback")
		return fallbackUSDRate
	}
	return rates[0].Rate
}

func addToBucket(buckets map[string]*models.AllocationBucket, category, name string, value decimal.Decimal) {
	bucket, ok := buckets[category]
	if !ok {
		bucket = &models.AllocationBucket{Category: category}
		buckets[category] = bucket
	}
	bucket.HoldingsCount++
	bucket.TotalMarketValue = bucket.TotalMarketValue.Add(value)
	bucket.Holdings = append(bucket.Holdings, name)
}

var _ interfaces.AllocationService = (*Service)(nil)
