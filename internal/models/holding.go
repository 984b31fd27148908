package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a direct holding (the by_accounts table): quantity of an
// instrument held in one account. Read-only from this engine's
// perspective; the instrument name joins against SymbolRecord.Name.
type Position struct {
	Account    string          `json:"account"`
	Name       string          `json:"invest_prod_name"`
	Quantity   decimal.Decimal `json:"amount"`
	AvgPrice   decimal.Decimal `json:"avg_price_krw"`
	FirstBuyAt time.Time       `json:"first_buy_at,omitempty"`
	LastBuyAt  time.Time       `json:"last_buy_at,omitempty"`
}

// FundPosition is a fund-like holding (the funds table). Unlike direct
// positions it carries its own valuation and classification, so it never
// joins against the symbol table for pricing.
type FundPosition struct {
	Account     string          `json:"account"`
	Name        string          `json:"invest_prod_name"`
	MarketValue decimal.Decimal `json:"market_value"`
	Principal   decimal.Decimal `json:"invested_principal"`
	AssetType   string          `json:"asset_type"`
	RegionType  string          `json:"region_type"`
}
