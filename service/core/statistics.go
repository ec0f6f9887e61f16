package core

import (
	"math"
	"time"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	ex "stockreport/data/extensions"
	dm "stockreport/data/models"
	sm "stockreport/service/models"
)

type DailyReturn struct {
	Date   time.Time
	Return float64
}

// DailyReturns is close / previous close - 1 per symbol in date order, the first day of a symbol is 0.
// Records without a close are skipped.
func DailyReturns(records []*dm.PriceRecord) map[string][]DailyReturn {
	bySymbol := ex.GroupBy(records, func(r *dm.PriceRecord) string { return r.Symbol })

	res := make(map[string][]DailyReturn, len(bySymbol))
	for symbol, symbolRecords := range bySymbol {
		closes := closesOf(symbol, symbolRecords)
		if len(closes) == 0 {
			continue
		}

		returns := make([]DailyReturn, len(closes))
		returns[0] = DailyReturn{Date: closes[0].Date}
		for i := 1; i < len(closes); i++ {
			prev := closes[i-1].Close.Float64
			ret := 0.0
			if prev != 0 {
				ret = closes[i].Close.Float64/prev - 1
			}
			returns[i] = DailyReturn{Date: closes[i].Date, Return: ret}
		}
		res[symbol] = returns
	}
	return res
}

// AnnualizedVolatility is the sample standard deviation of daily returns scaled to a
// trading year, in percent. NaN with fewer than two observations.
func AnnualizedVolatility(returns []DailyReturn) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}

	values := make([]float64, len(returns))
	for i, r := range returns {
		values[i] = r.Return
	}

	return stat.StdDev(values, nil) * math.Sqrt(sm.TradingDaysPerYear) * sm.PercentScale
}

// CumulativeReturns is the running product of (1 + daily return)
func CumulativeReturns(returns []DailyReturn) []sm.CumulativePoint {
	res := make([]sm.CumulativePoint, len(returns))
	growth := 1.0
	for i, r := range returns {
		growth *= 1 + r.Return
		res[i] = sm.CumulativePoint{Date: ex.FmtShort(r.Date), Value: growth}
	}
	return res
}

// GetCorrelationMatrix correlates close prices of every symbol pair over the dates both have
// a close. Cells are blank with fewer than two shared dates or no variance.
func GetCorrelationMatrix(records []*dm.PriceRecord) sm.CorrelationMatrix {
	bySymbol := ex.GroupBy(records, func(r *dm.PriceRecord) string { return r.Symbol })
	symbols := ex.SortedKeys(bySymbol)

	closes := make([]map[string]float64, len(symbols))
	for i, symbol := range symbols {
		closes[i] = make(map[string]float64)
		for _, r := range closesOf(symbol, bySymbol[symbol]) {
			closes[i][ex.FmtShort(r.Date)] = r.Close.Float64
		}
	}

	n := len(symbols)
	values := make([][]null.Float, n)
	for i := range n {
		values[i] = make([]null.Float, n)
	}

	// symmetric, only the lower triangle is computed
	for i := range n {
		for j := range i + 1 {
			v := nullable(ex.Round(pairwiseCorrelation(closes[i], closes[j]), 2))
			values[i][j], values[j][i] = v, v
		}
	}

	return sm.CorrelationMatrix{Symbols: symbols, Values: values}
}

func pairwiseCorrelation(a, b map[string]float64) float64 {
	dates := ex.SortedKeys(a)

	x := make([]float64, 0, len(dates))
	y := make([]float64, 0, len(dates))
	for _, d := range dates {
		if bv, ok := b[d]; ok {
			x = append(x, a[d])
			y = append(y, bv)
		}
	}

	if len(x) < 2 || stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
