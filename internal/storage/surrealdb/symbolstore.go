package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/models"
)

// SymbolStore persists the symbol catalog, keyed by product name.
type SymbolStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewSymbolStore(db *surrealdb.DB, logger *common.Logger) *SymbolStore {
	return &SymbolStore{db: db, logger: logger}
}

func (s *SymbolStore) GetAll(ctx context.Context) ([]*models.SymbolRecord, error) {
	sql := "SELECT * FROM symbol_table ORDER BY name"

	results, err := surrealdb.Query[[]models.SymbolRecord](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbol records: %w", err)
	}

	var records []*models.SymbolRecord
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			records = append(records, &(*results)[0].Result[i])
		}
	}
	return records, nil
}

func (s *SymbolStore) GetByName(ctx context.Context, name string) (*models.SymbolRecord, error) {
	rec, err := surrealdb.Select[models.SymbolRecord](ctx, s.db, surrealmodels.NewRecordID("symbol_table", name))
	if err != nil {
		return nil, fmt.Errorf("failed to select symbol record: %w", err)
	}
	if rec == nil || rec.Name == "" {
		return nil, nil
	}
	return rec, nil
}

func (s *SymbolStore) Upsert(ctx context.Context, record *models.SymbolRecord) error {
	if record.Symbol == "" {
		return fmt.Errorf("symbol record %q has no symbol", record.Name)
	}

	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("symbol_table", record.Name),
		"data": record,
	}

	if _, err := surrealdb.Query[[]models.SymbolRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to upsert symbol record: %w", err)
	}
	return nil
}

func (s *SymbolStore) UpdatePrice(ctx context.Context, name string, close float64, marketCap *float64, asOf time.Time) error {
	sql := "UPDATE $rid SET latest_close = $close, updated_at = $as_of"
	vars := map[string]any{
		"rid":   surrealmodels.NewRecordID("symbol_table", name),
		"close": close,
		"as_of": asOf,
	}
	if marketCap != nil {
		sql += ", marketcap = $marketcap"
		vars["marketcap"] = *marketCap
	}

	if _, err := surrealdb.Query[[]models.SymbolRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to update price for %q: %w", name, err)
	}
	return nil
}

func (s *SymbolStore) UpdateClassification(ctx context.Context, name string, sector, industry string) error {
	sql := "UPDATE $rid SET"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("symbol_table", name)}

	sep := " "
	if sector != "" {
		sql += sep + "sector = $sector"
		vars["sector"] = sector
		sep = ", "
	}
	if industry != "" {
		sql += sep + "industry = $industry"
		vars["industry"] = industry
		sep = ", "
	}
	if sep == " " {
		return nil
	}

	if _, err := surrealdb.Query[[]models.SymbolRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to update classification for %q: %w", name, err)
	}
	return nil
}
