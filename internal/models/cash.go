package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashBalance is one row of the cash_balance table: uninvested cash held
// at one brokerage account, split by currency.
type CashBalance struct {
	Account   string          `json:"account"`
	KRW       decimal.Decimal `json:"krw"`
	USD       decimal.Decimal `json:"usd"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}

// TimeDeposit is one row of the time_deposit table, keyed by
// (account, product name).
type TimeDeposit struct {
	Account      string          `json:"account"`
	ProductName  string          `json:"invest_prod_name"`
	MarketValue  decimal.Decimal `json:"market_value"`
	Principal    decimal.Decimal `json:"invested_principal"`
	MaturityDate time.Time       `json:"maturity_date,omitempty"`
	InterestRate *float64        `json:"interest_rate,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at,omitempty"`
}

// BalanceSnapshot is one row of the bs_timeseries table: a derived daily
// rollup of cash-like balances, one row per calendar day. Today's row is
// re-derived after every cash or deposit write; prior rows are immutable.
type BalanceSnapshot struct {
	Date                time.Time       `json:"date"`
	Cash                decimal.Decimal `json:"cash"`
	TimeDeposit         decimal.Decimal `json:"time_deposit"`
	SecurityCashBalance decimal.Decimal `json:"security_cash_balance"`
}

// CashSummary is the current view across the cash-like tables, with USD
// balances converted at the latest synchronized rate.
type CashSummary struct {
	TotalKRWCash     decimal.Decimal `json:"total_krw_cash"`
	TotalUSDCash     decimal.Decimal `json:"total_usd_cash"`
	USDRate          decimal.Decimal `json:"usd_rate"`
	TotalCashInKRW   decimal.Decimal `json:"total_cash_in_krw"`
	TotalTimeDeposit decimal.Decimal `json:"total_time_deposit"`
	AsOf             time.Time       `json:"as_of"`
}
