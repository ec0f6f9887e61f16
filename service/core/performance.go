package core

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/guregu/null/v6"

	ex "stockreport/data/extensions"
	dm "stockreport/data/models"
	sm "stockreport/service/models"
)

// SectorLookup maps a symbol to its sector
type SectorLookup func(symbol string) string

// GetSymbolPerformances is the per symbol return and risk table, ordered by symbol
func GetSymbolPerformances(records []*dm.PriceRecord, sectorOf SectorLookup) []sm.SymbolPerformance {
	bySymbol := ex.GroupBy(records, func(r *dm.PriceRecord) string { return r.Symbol })
	daily := DailyReturns(records)

	res := make([]sm.SymbolPerformance, 0, len(bySymbol))
	for _, symbol := range ex.SortedKeys(bySymbol) {
		symbolRecords := bySymbol[symbol]
		closes := closesOf(symbol, symbolRecords)

		perf := sm.SymbolPerformance{
			Symbol:        symbol,
			TradingDays:   len(closes),
			AvgVolume:     nullable(ex.Round(Average(dm.MetricVolume, symbolRecords), 2)),
			VolatilityPct: nullable(ex.Round(AnnualizedVolatility(daily[symbol]), 2)),
		}
		if sectorOf != nil {
			perf.Sector = sectorOf(symbol)
		}
		if len(closes) > 0 {
			perf.FirstClose = closes[0].Close
			perf.LastClose = closes[len(closes)-1].Close
		}
		if ret := PeriodReturn(symbol, symbolRecords); ret.Valid {
			perf.ReturnPct = nullable(percent(ret.Float64))
		}

		res = append(res, perf)
	}
	return res
}

// GetMarketSummary counts green (return > 0) and red (return <= 0) symbols and averages
// close and volume over every record in scope. Symbols without a return are in neither count.
func GetMarketSummary(period string, records []*dm.PriceRecord, performances []sm.SymbolPerformance) sm.MarketSummary {
	res := sm.MarketSummary{
		Period:      period,
		TotalStocks: len(performances),
		AvgClose:    nullable(ex.Round(Average(dm.MetricClose, records), 2)),
		AvgVolume:   nullable(ex.Round(Average(dm.MetricVolume, records), 2)),
	}

	for _, p := range performances {
		if !p.ReturnPct.Valid {
			continue
		}
		if p.ReturnPct.Float64 > 0 {
			res.Green++
		} else {
			res.Red++
		}
	}

	if res.TotalStocks > 0 {
		res.GreenPct = null.FloatFrom(ex.Round(float64(res.Green)/float64(res.TotalStocks)*sm.PercentScale, 1))
	}

	for _, r := range records {
		d := ex.FmtShort(r.Date)
		if res.StartDate == "" || d < res.StartDate {
			res.StartDate = d
		}
		if d > res.EndDate {
			res.EndDate = d
		}
	}

	return res
}

// GetSectorPerformances averages the return of each sector's symbols, best sector first
func GetSectorPerformances(performances []sm.SymbolPerformance) []sm.SectorPerformance {
	withReturn := ex.FilterMultiple(performances, func(p sm.SymbolPerformance) bool { return p.ReturnPct.Valid })
	bySector := ex.GroupBy(withReturn, func(p sm.SymbolPerformance) string { return p.Sector })

	res := make([]sm.SectorPerformance, 0, len(bySector))
	for sector, members := range bySector {
		returns := make([]float64, len(members))
		for i, m := range members {
			returns[i] = m.ReturnPct.Float64
		}
		res = append(res, sm.SectorPerformance{
			Sector:       sector,
			Stocks:       len(members),
			AvgReturnPct: nullable(ex.Round(ex.Sum(returns)/float64(len(returns)), 2)),
		})
	}

	slices.SortFunc(res, func(a, b sm.SectorPerformance) int {
		if c := cmp.Compare(b.AvgReturnPct.Float64, a.AvgReturnPct.Float64); c != 0 {
			return c
		}
		return cmp.Compare(a.Sector, b.Sector)
	})
	return res
}

// GetMonthlyRankings ranks the n best and worst symbols of each calendar month, returns in percent
func GetMonthlyRankings(records []*dm.PriceRecord, n int) []sm.MonthlyRanking {
	byMonth := ex.GroupBy(records, func(r *dm.PriceRecord) string { return ex.FmtMonth(r.Date) })

	res := make([]sm.MonthlyRanking, 0, len(byMonth))
	for _, month := range ex.SortedKeys(byMonth) {
		entries := PeriodReturns(byMonth[month])
		for i := range entries {
			entries[i].Value = percent(entries[i].Value)
		}

		res = append(res, sm.MonthlyRanking{
			Month:   month,
			Gainers: TopN(entries, n, sm.Gainers),
			Losers:  TopN(entries, n, sm.Losers),
		})
	}
	return res
}

// GetCumulativeLeaders is the growth of one unit invested in each of the n best performers
func GetCumulativeLeaders(records []*dm.PriceRecord, n int) []sm.CumulativeSeries {
	leaders := TopN(PeriodReturns(records), n, sm.Gainers)
	daily := DailyReturns(records)

	res := make([]sm.CumulativeSeries, 0, len(leaders))
	for _, leader := range leaders {
		res = append(res, sm.CumulativeSeries{
			Symbol: leader.Symbol,
			Points: CumulativeReturns(daily[leader.Symbol]),
		})
	}
	return res
}

func ParseRankBy(s string) (sm.RankBy, error) {
	switch sm.RankBy(strings.ToLower(s)) {
	case "", sm.RankByReturn:
		return sm.RankByReturn, nil
	case sm.RankByVolume:
		return sm.RankByVolume, nil
	case sm.RankByVolatility:
		return sm.RankByVolatility, nil
	default:
		return "", fmt.Errorf("unknown ranking %q", s)
	}
}

// RankingEntries turns the records into rankable entries: return and volatility in percent,
// volume as the mean daily volume
func RankingEntries(records []*dm.PriceRecord, by sm.RankBy) []Entry {
	switch by {
	case sm.RankByVolume:
		return AverageVolumes(records)
	case sm.RankByVolatility:
		daily := DailyReturns(records)
		res := make([]Entry, 0, len(daily))
		for _, symbol := range ex.SortedKeys(daily) {
			if v := AnnualizedVolatility(daily[symbol]); !math.IsNaN(v) {
				res = append(res, Entry{Symbol: symbol, Value: ex.Round(v, 2)})
			}
		}
		return res
	default:
		entries := PeriodReturns(records)
		for i := range entries {
			entries[i].Value = percent(entries[i].Value)
		}
		return entries
	}
}
