package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/models"
)

// CashStore reads cash balances and time deposits.
type CashStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewCashStore(db *surrealdb.DB, logger *common.Logger) *CashStore {
	return &CashStore{db: db, logger: logger}
}

func (s *CashStore) Balances(ctx context.Context) ([]*models.CashBalance, error) {
	sql := "SELECT * FROM cash_balance ORDER BY account"

	results, err := surrealdb.Query[[]models.CashBalance](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash balances: %w", err)
	}

	var balances []*models.CashBalance
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			balances = append(balances, &(*results)[0].Result[i])
		}
	}
	return balances, nil
}

func (s *CashStore) TimeDeposits(ctx context.Context) ([]*models.TimeDeposit, error) {
	sql := "SELECT * FROM time_deposit ORDER BY account, invest_prod_name"

	results, err := surrealdb.Query[[]models.TimeDeposit](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list time deposits: %w", err)
	}

	var deposits []*models.TimeDeposit
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			deposits = append(deposits, &(*results)[0].Result[i])
		}
	}
	return deposits, nil
}
