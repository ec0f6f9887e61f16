package core

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dm "stockreport/data/models"
	sm "stockreport/service/models"
)

var testSectors = map[string]string{"UP": "BANKING", "DOWN": "BANKING", "FLAT": "ENERGY"}

func sectorLookup(symbol string) string {
	if s, ok := testSectors[symbol]; ok {
		return s
	}
	return "UNMAPPED"
}

// performanceRecords: UP +20%, DOWN -10%, FLAT 0%, ONE has a single close
func performanceRecords() []*dm.PriceRecord {
	return []*dm.PriceRecord{
		mockRecord("UP", 0, 100),
		mockRecord("UP", 1, 110),
		mockRecord("UP", 2, 120),
		mockRecord("DOWN", 0, 50),
		mockRecord("DOWN", 2, 45),
		mockRecord("FLAT", 0, 10),
		mockRecord("FLAT", 2, 10),
		mockRecord("ONE", 1, 30),
	}
}

func TestGetSymbolPerformances(t *testing.T) {
	perf := GetSymbolPerformances(performanceRecords(), sectorLookup)
	require.Len(t, perf, 4)

	bySymbol := map[string]sm.SymbolPerformance{}
	for _, p := range perf {
		bySymbol[p.Symbol] = p
	}

	up := bySymbol["UP"]
	assert.Equal(t, "BANKING", up.Sector)
	assert.Equal(t, null.FloatFrom(20), up.ReturnPct)
	assert.Equal(t, null.FloatFrom(100), up.FirstClose)
	assert.Equal(t, null.FloatFrom(120), up.LastClose)
	assert.Equal(t, 3, up.TradingDays)
	assert.True(t, up.VolatilityPct.Valid)

	assert.Equal(t, null.FloatFrom(-10), bySymbol["DOWN"].ReturnPct)
	assert.Equal(t, null.FloatFrom(0), bySymbol["FLAT"].VolatilityPct)

	one := bySymbol["ONE"]
	assert.False(t, one.ReturnPct.Valid)
	assert.False(t, one.VolatilityPct.Valid)
	assert.Equal(t, "UNMAPPED", one.Sector)
}

func TestGetMarketSummary(t *testing.T) {
	records := performanceRecords()
	summary := GetMarketSummary("2024", records, GetSymbolPerformances(records, sectorLookup))

	assert.Equal(t, 4, summary.TotalStocks)
	assert.Equal(t, 1, summary.Green)
	assert.Equal(t, 2, summary.Red, "zero return counts as red")
	assert.Equal(t, null.FloatFrom(25), summary.GreenPct)
	assert.Equal(t, null.FloatFrom(1000), summary.AvgVolume)
	assert.Equal(t, null.FloatFrom(59.38), summary.AvgClose)
	assert.Equal(t, "2024-01-01", summary.StartDate)
	assert.Equal(t, "2024-01-03", summary.EndDate)

	// the green share keeps one decimal place
	thirds := GetMarketSummary("2024", nil, []sm.SymbolPerformance{
		{Symbol: "A", ReturnPct: null.FloatFrom(1)},
		{Symbol: "B", ReturnPct: null.FloatFrom(2)},
		{Symbol: "C", ReturnPct: null.FloatFrom(-1)},
	})
	assert.Equal(t, null.FloatFrom(66.7), thirds.GreenPct)

	empty := GetMarketSummary("2030", nil, nil)
	assert.Equal(t, 0, empty.TotalStocks)
	assert.False(t, empty.GreenPct.Valid)
	assert.False(t, empty.AvgClose.Valid)
}

func TestGetSectorPerformances(t *testing.T) {
	sectors := GetSectorPerformances(GetSymbolPerformances(performanceRecords(), sectorLookup))
	require.Len(t, sectors, 2, "a symbol without a return is not averaged")

	assert.Equal(t, "BANKING", sectors[0].Sector)
	assert.Equal(t, 2, sectors[0].Stocks)
	assert.Equal(t, null.FloatFrom(5), sectors[0].AvgReturnPct)
	assert.Equal(t, "ENERGY", sectors[1].Sector)
}

func TestGetMonthlyRankings(t *testing.T) {
	jan := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	at := func(symbol string, d time.Time, close float64) *dm.PriceRecord {
		r := mockRecord(symbol, 0, close)
		r.Date = d
		return r
	}

	records := []*dm.PriceRecord{
		at("A", jan, 10), at("A", jan.AddDate(0, 0, 20), 11),
		at("B", jan, 10), at("B", jan.AddDate(0, 0, 20), 9),
		at("A", feb, 11), at("A", feb.AddDate(0, 0, 10), 11.55),
		at("B", feb, 9), at("B", feb.AddDate(0, 0, 10), 9.9),
	}

	monthly := GetMonthlyRankings(records, 1)
	require.Len(t, monthly, 2)

	assert.Equal(t, "2024-01", monthly[0].Month)
	assert.Equal(t, []string{"A"}, monthly[0].Gainers.Symbols())
	assert.Equal(t, null.FloatFrom(10), monthly[0].Gainers[0].Value)
	assert.Equal(t, []string{"B"}, monthly[0].Losers.Symbols())
	assert.Equal(t, null.FloatFrom(-10), monthly[0].Losers[0].Value)

	assert.Equal(t, "2024-02", monthly[1].Month)
	assert.Equal(t, []string{"B"}, monthly[1].Gainers.Symbols())
}

func TestGetCumulativeLeaders(t *testing.T) {
	leaders := GetCumulativeLeaders(performanceRecords(), 2)
	require.Len(t, leaders, 2)

	assert.Equal(t, "UP", leaders[0].Symbol)
	require.Len(t, leaders[0].Points, 3)
	assert.Equal(t, 1.0, leaders[0].Points[0].Value)
	assert.InDelta(t, 1.2, leaders[0].Points[2].Value, 1e-12)
	assert.Equal(t, "FLAT", leaders[1].Symbol)
}

func TestRankingEntries(t *testing.T) {
	records := performanceRecords()

	byReturn := TopN(RankingEntries(records, sm.RankByReturn), 10, sm.Losers)
	assert.Equal(t, []string{"DOWN", "FLAT", "UP"}, byReturn.Symbols())
	assert.Equal(t, null.FloatFrom(-10), byReturn[0].Value)

	byVolatility := TopN(RankingEntries(records, sm.RankByVolatility), 10, sm.Gainers)
	assert.Equal(t, "FLAT", byVolatility[len(byVolatility)-1].Symbol)

	byVolume := RankingEntries(records, sm.RankByVolume)
	assert.Len(t, byVolume, 4)

	_, err := ParseRankBy("momentum")
	assert.Error(t, err)
}
