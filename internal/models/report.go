package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefreshReport summarizes one batch refresh pass. Partial failure is
// reported, never thrown: callers decide whether the failure count is
// acceptable.
type RefreshReport struct {
	SuccessCount int       `json:"success_count"`
	FailCount    int       `json:"fail_count"`
	SkipCount    int       `json:"skip_count"`
	TotalCount   int       `json:"total_count"`
	Failed       []string  `json:"failed,omitempty"`
	TargetDate   time.Time `json:"target_date,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// RegisterReport summarizes an unmatched-product registration pass.
type RegisterReport struct {
	Added  int      `json:"added"`
	Failed int      `json:"failed"`
	Names  []string `json:"failed_names,omitempty"`
}

// Sync operation statuses.
const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// SyncOpResult is the outcome of one reconciliation operation.
type SyncOpResult struct {
	Status string          `json:"status"`
	Amount decimal.Decimal `json:"amount"`
	Error  string          `json:"error,omitempty"`
}

// SyncSummary counts reconciliation outcomes across one ResyncAll pass.
type SyncSummary struct {
	TotalOperations      int `json:"total_operations"`
	SuccessfulOperations int `json:"successful_operations"`
	FailedOperations     int `json:"failed_operations"`
}

// SyncReport is the full result of ResyncAll.
type SyncReport struct {
	ID               string       `json:"id"`
	SecurityCashSync SyncOpResult `json:"security_cash_sync"`
	TimeDepositSync  SyncOpResult `json:"time_deposit_sync"`
	Summary          SyncSummary  `json:"summary"`
	Timestamp        time.Time    `json:"timestamp"`
}
