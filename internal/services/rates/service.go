// Package rates keeps stored exchange rates aligned with the business date.
package rates

import (
	"context"
	"errors"
	"time"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/models"
)

// Service implements interfaces.RateService. Rates use the morning
// cutoff throughout: staleness evaluation, the provider search date,
// and the persisted updated_at all refer to the same business date, so
// a freshly written row is never re-flagged within the same session.
type Service struct {
	storage interfaces.StorageManager
	client  interfaces.RateClient
	logger  *common.Logger
	now     interfaces.Clock

	maxAttempts  int
	initialDelay time.Duration
}

// NewService creates a currency rate service
func NewService(storage interfaces.StorageManager, client interfaces.RateClient, cfg *common.SyncConfig, logger *common.Logger) *Service {
	return &Service{
		storage:      storage,
		client:       client,
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

// GetRates loads the requested currency rows, refreshing stale ones
// from the provider when autoUpdate is set. Refresh failures leave the
// old value in place: the result is best effort, never empty.
func (s *Service) GetRates(ctx context.Context, currencies []string, autoUpdate bool) ([]*models.CurrencyRate, error) {
	stored, err := s.load(ctx, currencies)
	if err != nil {
		return nil, err
	}

	businessDate := common.LatestBusinessDate(s.now(), common.RateCutoffHour)

	var staleCurrencies []string
	for _, rate := range stored {
		if common.IsStale(rate.UpdatedAt, businessDate) {
			staleCurrencies = append(staleCurrencies, rate.Currency)
			s.logger.Warn().
				Str("currency", rate.Currency).
				Time("updated_at", rate.UpdatedAt).
				Time("business_date", businessDate).
				Msg("stored exchange rate is stale")
		}
	}

	if len(staleCurrencies) == 0 || !autoUpdate {
		return stored, nil
	}

	refreshed := s.refresh(ctx, staleCurrencies, businessDate)
	for _, fresh := range refreshed {
		for i, rate := range stored {
			if rate.Currency == fresh.Currency {
				stored[i] = fresh
				break
			}
		}
	}

	return stored, nil
}

// UpdateRates force-refreshes the given currencies, or every tracked
// currency when the slice is empty.
func (s *Service) UpdateRates(ctx context.Context, currencies []string) (*models.RefreshReport, error) {
	if len(currencies) == 0 {
		stored, err := s.storage.Currencies().GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, rate := range stored {
			currencies = append(currencies, rate.Currency)
		}
	}

	businessDate := common.LatestBusinessDate(s.now(), common.RateCutoffHour)
	refreshed := s.refresh(ctx, currencies, businessDate)

	updated := make(map[string]bool, len(refreshed))
	for _, rate := range refreshed {
		updated[rate.Currency] = true
	}

	report := &models.RefreshReport{
		TotalCount: len(currencies),
		TargetDate: businessDate,
		Timestamp:  s.now(),
	}
	for _, currency := range currencies {
		if updated[currency] {
			report.SuccessCount++
		} else {
			report.FailCount++
			report.Failed = append(report.Failed, currency)
		}
	}

	s.logger.Info().
		Int("success", report.SuccessCount).
		Int("fail", report.FailCount).
		Time("business_date", businessDate).
		Msg("exchange rate update complete")
	return report, nil
}

// refresh fetches the given currencies for businessDate and persists
// the results. A missing API key fails fast with an empty result; any
// other provider failure is retried before giving up.
func (s *Service) refresh(ctx context.Context, currencies []string, businessDate time.Time) []*models.CurrencyRate {
	fetched, err := common.RetryValue(ctx, s.maxAttempts, s.initialDelay, s.logger, func() ([]*models.CurrencyRate, error) {
		return s.client.FetchRatesFor(ctx, businessDate, currencies)
	})
	if errors.Is(err, common.ErrMissingAPIKey) {
		s.logger.Error().Msg("exchange rate provider credential missing, skipping refresh")
		return nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("exchange rate fetch failed")
		return nil
	}

	persisted := make([]*models.CurrencyRate, 0, len(fetched))
	for _, rate := range fetched {
		rate.UpdatedAt = businessDate
		if err := s.storage.Currencies().Upsert(ctx, rate); err != nil {
			s.logger.Error().Err(err).Str("currency", rate.Currency).Msg("failed to persist exchange rate")
			continue
		}
		s.logger.Info().
			Str("currency", rate.Currency).
			Str("rate", rate.Rate.String()).
			Msg("exchange rate updated")
		persisted = append(persisted, rate)
	}
	return persisted
}

func (s *Service) load(ctx context.Context, currencies []string) ([]*models.CurrencyRate, error) {
	all, err := s.storage.Currencies().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(currencies) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(currencies))
	for _, currency := range currencies {
		wanted[currency] = true
	}

	filtered := make([]*models.CurrencyRate, 0, len(currencies))
	for _, rate := range all {
		if wanted[rate.Currency] {
			filtered = append(filtered, rate)
		}
	}
	return filtered, nil
}

var _ interfaces.RateService = (*Service)(nil)
