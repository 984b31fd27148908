// Package models defines data structures for Folio
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate is one row of the currency table: the latest KRW exchange
// rate for a currency. Rows are overwritten in place; no history is kept.
type CurrencyRate struct {
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"exchange_rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}
