package core

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"

	ex "stockreport/data/extensions"
	dm "stockreport/data/models"
	sm "stockreport/service/models"
)

// Entry is a symbol and the value it is ranked on
type Entry struct {
	Symbol string
	Value  float64
}

func ParseDirection(s string) (sm.Direction, error) {
	switch strings.ToLower(s) {
	case "", string(sm.Gainers), "top":
		return sm.Gainers, nil
	case string(sm.Losers), "bottom":
		return sm.Losers, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// Average is the arithmetic mean of metric over the records, skipping missing values.
// An empty scope is NaN, never zero.
func Average(metric dm.Metric, records []*dm.PriceRecord) float64 {
	var sum float64
	var count int
	for _, r := range records {
		if v := r.Value(metric); v.Valid && !math.IsNaN(v.Float64) {
			sum += v.Float64
			count++
		}
	}

	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// PeriodReturn is (last - first) / first over the chronologically ordered non missing closes
// of symbol. Blank with fewer than two closes or a zero first close.
func PeriodReturn(symbol string, records []*dm.PriceRecord) null.Float {
	closes := closesOf(symbol, records)
	if len(closes) < 2 {
		return null.Float{}
	}

	first, last := closes[0].Close.Float64, closes[len(closes)-1].Close.Float64
	if first == 0 {
		return null.Float{}
	}
	return nullable((last - first) / first)
}

// PeriodReturns computes PeriodReturn for every symbol in scope, ordered by symbol
func PeriodReturns(records []*dm.PriceRecord) []Entry {
	bySymbol := ex.GroupBy(records, func(r *dm.PriceRecord) string { return r.Symbol })

	res := make([]Entry, 0, len(bySymbol))
	for _, symbol := range ex.SortedKeys(bySymbol) {
		if ret := PeriodReturn(symbol, bySymbol[symbol]); ret.Valid {
			res = append(res, Entry{Symbol: symbol, Value: ret.Float64})
		}
	}
	return res
}

// AverageVolumes is the mean traded volume per symbol, ordered by symbol
func AverageVolumes(records []*dm.PriceRecord) []Entry {
	bySymbol := ex.GroupBy(records, func(r *dm.PriceRecord) string { return r.Symbol })

	res := make([]Entry, 0, len(bySymbol))
	for _, symbol := range ex.SortedKeys(bySymbol) {
		if avg := Average(dm.MetricVolume, bySymbol[symbol]); !math.IsNaN(avg) {
			res = append(res, Entry{Symbol: symbol, Value: avg})
		}
	}
	return res
}

// TopN returns at most n entries with the largest (gainers) or smallest (losers) values.
// A symbol is ranked once on its best value for the direction, NaN and Inf are not ranked,
// and equal values are ordered by symbol.
func TopN(entries []Entry, n int, direction sm.Direction) sm.RankedList {
	if n <= 0 {
		return sm.RankedList{}
	}

	better := func(a, b float64) bool { return a > b }
	if direction == sm.Losers {
		better = func(a, b float64) bool { return a < b }
	}

	best := make(map[string]float64, len(entries))
	for _, e := range entries {
		if !ex.IsFinite(e.Value) {
			continue
		}
		if cur, ok := best[e.Symbol]; !ok || better(e.Value, cur) {
			best[e.Symbol] = e.Value
		}
	}

	ranked := make([]Entry, 0, len(best))
	for symbol, value := range best {
		ranked = append(ranked, Entry{Symbol: symbol, Value: value})
	}

	slices.SortFunc(ranked, func(a, b Entry) int {
		if a.Value != b.Value {
			if better(a.Value, b.Value) {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})

	size := ex.Min(n, len(ranked))
	res := make(sm.RankedList, size)
	for i := range size {
		res[i] = sm.RankedEntry{Rank: i + 1, Symbol: ranked[i].Symbol, Value: nullable(ranked[i].Value)}
	}
	return res
}

// closesOf returns the records of symbol with a close, in date order
func closesOf(symbol string, records []*dm.PriceRecord) []*dm.PriceRecord {
	res := ex.FilterMultiple(records, func(r *dm.PriceRecord) bool {
		return r.Symbol == symbol && r.Close.Valid && !math.IsNaN(r.Close.Float64)
	})
	slices.SortStableFunc(res, func(a, b *dm.PriceRecord) int { return a.Date.Compare(b.Date) })
	return res
}

// nullable maps NaN and Inf to a blank value
func nullable(v float64) null.Float {
	if !ex.IsFinite(v) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

func percent(v float64) float64 {
	return ex.Round(v*sm.PercentScale, 2)
}

func formatNullFloat(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
