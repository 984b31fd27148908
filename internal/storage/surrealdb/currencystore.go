package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/models"
)

// CurrencyStore persists exchange rates, one record per currency code.
type CurrencyStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewCurrencyStore(db *surrealdb.DB, logger *common.Logger) *CurrencyStore {
	return &CurrencyStore{db: db, logger: logger}
}

func (s *CurrencyStore) GetAll(ctx context.Context) ([]*models.CurrencyRate, error) {
	sql := "SELECT * FROM currency ORDER BY currency"

	results, err := surrealdb.Query[[]models.CurrencyRate](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency rates: %w", err)
	}

	var rates []*models.CurrencyRate
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			rates = append(rates, &(*results)[0].Result[i])
		}
	}
	return rates, nil
}

func (s *CurrencyStore) Get(ctx context.Context, currency string) (*models.CurrencyRate, error) {
	rate, err := surrealdb.Select[models.CurrencyRate](ctx, s.db, surrealmodels.NewRecordID("currency", currency))
	if err != nil {
		return nil, fmt.Errorf("failed to select currency rate: %w", err)
	}
	if rate == nil || rate.Currency == "" {
		return nil, nil
	}
	return rate, nil
}

func (s *CurrencyStore) Upsert(ctx context.Context, rate *models.CurrencyRate) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("currency", rate.Currency),
		"data": rate,
	}

	if _, err := surrealdb.Query[[]models.CurrencyRate](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to upsert currency rate: %w", err)
	}
	return nil
}
