package marketdata

import "strings"

// Keyword tables for inferring an ETF's industry from its product name
// when no provider supplies one. Tables are scanned in priority order
// and, within a table, top to bottom, so more specific entries sit
// above the terms they contain.

type keywordRule struct {
	keyword string
	label   string
}

// Specific compound terms.
var compoundKeywords = []keywordRule{
	{"미국배당귀족", "US Dividend Aristocrats"},
	{"미국배당주", "US Dividend Stocks"},
	{"글로벌배당주", "Global Dividend Stocks"},
	{"미국S&P500", "S&P 500"},
	{"미국나스닥100", "NASDAQ 100"},
	{"미국나스닥", "NASDAQ"},
	{"미국부동산리츠", "US REITs"},
	{"미국달러단기채권", "US Short-Term Bonds"},
	{"미국30년국채", "US 30Y Treasury"},
	{"미국10년국채", "US 10Y Treasury"},
	{"미국투자등급회사채", "US Investment Grade Bonds"},
	{"타겟커버드콜", "Target Covered Call"},
	{"타겟데이트", "Target Date"},
	{"중국본토", "China A-Shares"},
	{"중국대형주", "China Large Cap"},
}

// Sector and theme terms.
var sectorKeywords = []keywordRule{
	{"반도체", "Semiconductors"},
	{"2차전지", "Battery"},
	{"바이오", "Biotechnology"},
	{"헬스케어", "Healthcare"},
	{"제약", "Pharmaceuticals"},
	{"신재생에너지", "Renewable Energy"},
	{"에너지", "Energy"},
	{"금융", "Financial"},
	{"은행", "Banking"},
	{"보험", "Insurance"},
	{"소재", "Materials"},
	{"화학", "Chemicals"},
	{"철강", "Steel"},
	{"산업재", "Industrials"},
	{"건설", "Construction"},
	{"소프트웨어", "Software"},
	{"인터넷", "Internet"},
	{"게임", "Gaming"},
	{"미디어", "Media"},
	{"통신", "Communication"},
	{"유틸리티", "Utilities"},
	{"전기가스", "Utilities"},
	{"필수소비재", "Consumer Staples"},
	{"식품", "Food & Beverage"},
	{"임의소비재", "Consumer Discretionary"},
	{"전기차", "Electric Vehicles"},
	{"자동차", "Automotive"},
	{"반려동물", "Pet Care"},
	{"AI", "Artificial Intelligence"},
	{"로봇", "Robotics"},
	{"우주항공", "Aerospace"},
	{"우주", "Space Exploration"},
	{"Space", "Space Exploration"},
	{"Exploration", "Space Exploration"},
	{"Innovation", "Innovation"},
	{"IT", "Information Technology"},
}

// Broad asset-class terms.
var assetClassKeywords = []keywordRule{
	{"고배당", "High Dividend"},
	{"배당", "Dividend"},
	{"국고채", "Government Bond"},
	{"국채", "Government Bond"},
	{"단기채권", "Short-Term Bond"},
	{"장기채권", "Long-Term Bond"},
	{"회사채", "Corporate Bond"},
	{"하이일드", "High Yield Bond"},
	{"골드", "Gold"},
	{"금", "Gold"},
	{"실버", "Silver"},
	{"은", "Silver"},
	{"원유", "Crude Oil"},
	{"천연가스", "Natural Gas"},
	{"구리", "Copper"},
	{"달러", "US Dollar"},
	{"유로", "Euro"},
	{"엔화", "Japanese Yen"},
	{"위안화", "Chinese Yuan"},
	{"리츠", "REITs"},
	{"부동산", "Real Estate"},
	{"농산물", "Agricultural Commodities"},
	{"곡물", "Grains"},
	{"대두", "Soybeans"},
	{"옥수수", "Corn"},
	{"밀", "Wheat"},
	{"S&P500", "S&P 500"},
	{"나스닥", "NASDAQ"},
	{"다우존스", "Dow Jones"},
	{"러셀2000", "Russell 2000"},
	{"코스피", "KOSPI"},
	{"코스닥", "KOSDAQ"},
	{"밸류", "Value"},
	{"그로스", "Growth"},
	{"모멘텀", "Momentum"},
	{"퀄리티", "Quality"},
	{"저변동성", "Low Volatility"},
}

// Strategy modifiers, appended parenthetically to the sector hit.
var strategyKeywords = []keywordRule{
	{"인버스2X", "2X Inverse"},
	{"인버스", "Inverse"},
	{"레버리지", "Leveraged"},
	{"3X", "3X Leveraged"},
	{"2X", "2X Leveraged"},
	{"액티브", "Active"},
	{"커버드콜", "Covered Call"},
	{"합성", "Synthetic"},
}

// InferIndustry derives an industry label from an ETF product name.
// The three industry tables are scanned in priority order. A strategy
// keyword found independently is appended in parentheses, or stands
// alone when no industry term matched. The fallback label is "ETF".
func (s *Service) InferIndustry(name string) string {
	var industry string
	for _, table := range [][]keywordRule{compoundKeywords, sectorKeywords, assetClassKeywords} {
		industry = matchKeyword(table, name)
		if industry != "" {
			break
		}
	}

	strategy := matchKeyword(strategyKeywords, name)

	switch {
	case industry != "" && strategy != "":
		return industry + " (" + strategy + ")"
	case industry != "":
		return industry
	case strategy != "":
		return strategy
	}
	return "ETF"
}

func matchKeyword(table []keywordRule, name string) string {
	for _, rule := range table {
		if strings.Contains(name, rule.keyword) {
			return rule.label
		}
	}
	return ""
}
