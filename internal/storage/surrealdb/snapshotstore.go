package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/models"
)

// SnapshotStore persists daily balance-sheet snapshots, one record per
// calendar day keyed by the date string.
type SnapshotStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewSnapshotStore(db *surrealdb.DB, logger *common.Logger) *SnapshotStore {
	return &SnapshotStore{db: db, logger: logger}
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (s *SnapshotStore) Get(ctx context.Context, date time.Time) (*models.BalanceSnapshot, error) {
	snapshot, err := surrealdb.Select[models.BalanceSnapshot](ctx, s.db, surrealmodels.NewRecordID("bs_timeseries", dateKey(date)))
	if err != nil {
		return nil, fmt.Errorf("failed to select snapshot: %w", err)
	}
	if snapshot == nil || snapshot.Date.IsZero() {
		return nil, nil
	}
	return snapshot, nil
}

func (s *SnapshotStore) Latest(ctx context.Context, onOrBefore time.Time) (*models.BalanceSnapshot, error) {
	sql := "SELECT * FROM bs_timeseries WHERE date <= $cutoff ORDER BY date DESC LIMIT 1"
	vars := map[string]any{"cutoff": onOrBefore}

	results, err := surrealdb.Query[[]models.BalanceSnapshot](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *SnapshotStore) Upsert(ctx context.Context, snapshot *models.BalanceSnapshot) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("bs_timeseries", dateKey(snapshot.Date)),
		"data": snapshot,
	}

	if _, err := surrealdb.Query[[]models.BalanceSnapshot](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) PatchField(ctx context.Context, date time.Time, field string, value decimal.Decimal) error {
	switch field {
	case "cash", "time_deposit", "security_cash_balance":
	default:
		return fmt.Errorf("unknown snapshot field %q", field)
	}

	sql := fmt.Sprintf("UPDATE $rid SET %s = $value", field)
	vars := map[string]any{
		"rid":   surrealmodels.NewRecordID("bs_timeseries", dateKey(date)),
		"value": value,
	}

	if _, err := surrealdb.Query[[]models.BalanceSnapshot](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to patch snapshot field %s: %w", field, err)
	}
	return nil
}
