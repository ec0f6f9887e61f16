package models

import (
	"github.com/guregu/null/v6"
)

// RankedEntry is one row of a ranked list, ranks start at 1
type RankedEntry struct {
	Rank   int        `json:"rank"`
	Symbol string     `json:"symbol"`
	Value  null.Float `json:"value"`
}

type RankedList []RankedEntry

func (rl RankedList) Symbols() []string {
	res := make([]string, len(rl))
	for i, e := range rl {
		res[i] = e.Symbol
	}
	return res
}

type SymbolPerformance struct {
	Symbol        string     `json:"symbol"`
	Sector        string     `json:"sector"`
	FirstClose    null.Float `json:"firstclose"`
	LastClose     null.Float `json:"lastclose"`
	ReturnPct     null.Float `json:"returnpct"`
	VolatilityPct null.Float `json:"volatilitypct"`
	AvgVolume     null.Float `json:"avgvolume"`
	TradingDays   int        `json:"tradingdays"`
}

type MarketSummary struct {
	Period      string     `json:"period"`
	StartDate   string     `json:"startdate"`
	EndDate     string     `json:"enddate"`
	TotalStocks int        `json:"totalstocks"`
	Green       int        `json:"green"`
	Red         int        `json:"red"`
	GreenPct    null.Float `json:"greenpct"`
	AvgClose    null.Float `json:"avgclose"`
	AvgVolume   null.Float `json:"avgvolume"`
}

type MetricAverage struct {
	Metric  string     `json:"metric"`
	Average null.Float `json:"average"`
}

type SectorPerformance struct {
	Sector       string     `json:"sector"`
	Stocks       int        `json:"stocks"`
	AvgReturnPct null.Float `json:"avgreturnpct"`
}

type CumulativePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type CumulativeSeries struct {
	Symbol string            `json:"symbol"`
	Points []CumulativePoint `json:"points"`
}

type CorrelationMatrix struct {
	Symbols []string       `json:"symbols"`
	Values  [][]null.Float `json:"values"`
}

type MonthlyRanking struct {
	Month   string     `json:"month"`
	Gainers RankedList `json:"gainers"`
	Losers  RankedList `json:"losers"`
}

type Dashboard struct {
	Period       string              `json:"period"`
	Symbols      []string            `json:"symbols"`
	Summary      MarketSummary       `json:"summary"`
	Averages     []MetricAverage     `json:"averages"`
	Gainers      RankedList          `json:"gainers"`
	Losers       RankedList          `json:"losers"`
	MostVolatile RankedList          `json:"mostvolatile"`
	MostTraded   RankedList          `json:"mosttraded"`
	Performance  []SymbolPerformance `json:"performance"`
	Sectors      []SectorPerformance `json:"sectors"`
	Cumulative   []CumulativeSeries  `json:"cumulative"`
	Correlation  CorrelationMatrix   `json:"correlation"`
	Monthly      []MonthlyRanking    `json:"monthly"`
}
