package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset categories: the closed taxonomy holdings aggregate into.
const (
	CategoryDomesticEquity = "Domestic Equity"
	CategoryForeignEquity  = "Foreign Equity"
	CategoryDomesticBond   = "Domestic Bond"
	CategoryForeignBond    = "Foreign Bond"
	CategoryDomesticREIT   = "Domestic REIT"
	CategoryForeignREIT    = "Foreign REIT"
	CategoryTDF            = "Target Date Fund"
	CategoryCommodity      = "Commodity"
	CategoryGold           = "Gold"
	CategoryCashEquivalent = "Cash Equivalent"
	CategoryOther          = "Other"
)

// CategoryFor maps an (asset type, region type) pair onto the closed
// allocation taxonomy. Unknown combinations land in Other.
func CategoryFor(assetType, regionType string) string {
	switch assetType {
	case AssetEquity:
		if regionType == RegionDomestic {
			return CategoryDomesticEquity
		}
		if regionType == RegionGlobal {
			return CategoryForeignEquity
		}
	case AssetBond:
		if regionType == RegionDomestic {
			return CategoryDomesticBond
		}
		if regionType == RegionGlobal {
			return CategoryForeignBond
		}
	case AssetREIT:
		if regionType == RegionDomestic {
			return CategoryDomesticREIT
		}
		if regionType == RegionGlobal {
			return CategoryForeignREIT
		}
	case AssetTDF:
		return CategoryTDF
	case AssetCommodity:
		return CategoryCommodity
	case AssetGold:
		return CategoryGold
	case AssetCash:
		return CategoryCashEquivalent
	}
	return CategoryOther
}

// AllocationBucket is the per-category rollup: how many holdings landed in
// the category, their combined value, the category's share of the total,
// and the member instrument names.
type AllocationBucket struct {
	Category             string          `json:"asset_category"`
	HoldingsCount        int             `json:"holdings_count"`
	TotalMarketValue     decimal.Decimal `json:"total_market_value"`
	AllocationPercentage float64         `json:"allocation_percentage"`
	Holdings             []string        `json:"holdings"`
}

// AssetAllocation is the aggregated view over all active holdings,
// recomputed on every request and never persisted.
type AssetAllocation struct {
	TotalValue  decimal.Decimal     `json:"total_portfolio_value"`
	Buckets     []*AllocationBucket `json:"allocations"`
	Account     string              `json:"account,omitempty"`
	LastUpdated time.Time           `json:"last_updated"`
}
