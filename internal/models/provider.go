package models

import "time"

// ListingRow is one entry of a bulk domestic listing (stock or ETF).
// For ETF rows Close is the intraday NAV snapshot and MarketCap is in
// hundred-million KRW, the listing vendor's native unit.
type ListingRow struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Market    string  `json:"market"`
	Close     float64 `json:"close"`
	MarketCap float64 `json:"marketcap"`
}

// QuoteInfo is the per-ticker info block from the global quote provider.
// Fields the provider omits are zero-valued.
type QuoteInfo struct {
	Sector             string  `json:"sector"`
	Industry           string  `json:"industry"`
	MarketCap          int64   `json:"marketCap"`
	CurrentPrice       float64 `json:"currentPrice"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	RegularMarketTime  int64   `json:"regularMarketTime"` // epoch seconds
	QuoteType          string  `json:"quoteType"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
	Exchange           string  `json:"exchange"`
}

// Bar is a single daily bar from the global quote provider's history.
type Bar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// SymbolOverview is the Alpha Vantage style company/fund overview used to
// resolve industries for foreign-listed ETFs.
type SymbolOverview struct {
	AssetType string `json:"AssetType"`
	Sector    string `json:"Sector"`
	Industry  string `json:"Industry"`
}

