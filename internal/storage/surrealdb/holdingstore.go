package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/models"
)

// HoldingStore reads brokerage positions and fund positions. Both
// tables are maintained by the account import flow and are read-only
// from the sync engine's perspective.
type HoldingStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewHoldingStore(db *surrealdb.DB, logger *common.Logger) *HoldingStore {
	return &HoldingStore{db: db, logger: logger}
}

func (s *HoldingStore) Positions(ctx context.Context) ([]*models.Position, error) {
	sql := "SELECT * FROM by_accounts ORDER BY account, invest_prod_name"

	results, err := surrealdb.Query[[]models.Position](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	var positions []*models.Position
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			positions = append(positions, &(*results)[0].Result[i])
		}
	}
	return positions, nil
}

func (s *HoldingStore) FundPositions(ctx context.Context) ([]*models.FundPosition, error) {
	sql := "SELECT * FROM funds ORDER BY account, invest_prod_name"

	results, err := surrealdb.Query[[]models.FundPosition](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list fund positions: %w", err)
	}

	var funds []*models.FundPosition
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			funds = append(funds, &(*results)[0].Result[i])
		}
	}
	return funds, nil
}
