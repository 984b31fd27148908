package models

import "time"

// Asset type values stored on symbol and fund rows.
const (
	AssetEquity    = "equity"
	AssetBond      = "bond"
	AssetREIT      = "REITs"
	AssetTDF       = "TDF"
	AssetCommodity = "commodity"
	AssetGold      = "gold"
	AssetCash      = "cash"
)

// Region type values.
const (
	RegionDomestic = "domestic"
	RegionGlobal   = "global"
)

// Domestic exchanges. Everything else is priced through the global quote
// provider and valued in USD.
const (
	ExchangeKOSPI  = "KOSPI"
	ExchangeKOSDAQ = "KOSDAQ"
)

// IsDomesticExchange reports whether the exchange is a Korean venue.
func IsDomesticExchange(exchange string) bool {
	return exchange == ExchangeKOSPI || exchange == ExchangeKOSDAQ
}

// SymbolRecord is one row of the symbol table. Name is the primary key and
// the join key used by holdings; Symbol must be non-empty before a row may
// be inserted. Sector, Industry, LatestClose and MarketCap are optional,
// with nil meaning the field has never been resolved. MarketCap is in
// billions of the listing currency.
type SymbolRecord struct {
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	Exchange    string    `json:"exchange"`
	Sector      *string   `json:"sector,omitempty"`
	Industry    *string   `json:"industry,omitempty"`
	AssetType   string    `json:"asset_type"`
	RegionType  string    `json:"region_type"`
	LatestClose *float64  `json:"latest_close,omitempty"`
	MarketCap   *float64  `json:"marketcap,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// IsDomestic reports whether the record is listed on a Korean exchange.
func (s *SymbolRecord) IsDomestic() bool {
	return IsDomesticExchange(s.Exchange)
}

// MissingClassification reports whether sector or industry still needs
// resolving.
func (s *SymbolRecord) MissingClassification() bool {
	return s.Sector == nil || s.Industry == nil
}

// PriceQuote is a normalized price observation from a provider: the close,
// an optional market cap in billions, and the session date the quote
// belongs to. PriceDate, not wall-clock time, becomes the row's updated_at
// so staleness checks compare trading dates like-for-like.
type PriceQuote struct {
	Close     float64   `json:"close"`
	MarketCap *float64  `json:"marketcap,omitempty"`
	PriceDate time.Time `json:"price_date"`
}
