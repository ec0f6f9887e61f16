package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sm "stockreport/service/models"
)

func testDashboard() *sm.Dashboard {
	return &sm.Dashboard{
		Period:  "2024",
		Symbols: []string{},
		Summary: sm.MarketSummary{
			Period:      "2024",
			StartDate:   "2024-01-01",
			EndDate:     "2024-12-31",
			TotalStocks: 3,
			Green:       2,
			Red:         1,
			GreenPct:    null.FloatFrom(66.7),
			AvgClose:    null.FloatFrom(1234.5),
			AvgVolume:   null.FloatFrom(1500000),
		},
		Gainers: sm.RankedList{
			{Rank: 1, Symbol: "TCS", Value: null.FloatFrom(25.5)},
			{Rank: 2, Symbol: "INFY", Value: null.FloatFrom(3)},
		},
		Losers: sm.RankedList{
			{Rank: 1, Symbol: "ITC", Value: null.FloatFrom(-4.25)},
		},
		Sectors: []sm.SectorPerformance{
			{Sector: "SOFTWARE", Stocks: 2, AvgReturnPct: null.FloatFrom(14.25)},
		},
		Correlation: sm.CorrelationMatrix{
			Symbols: []string{"INFY", "TCS"},
			Values: [][]null.Float{
				{null.FloatFrom(1), null.FloatFrom(0.83)},
				{null.FloatFrom(0.83), null.FloatFrom(1)},
			},
		},
		Monthly: []sm.MonthlyRanking{
			{
				Month:   "2024-03",
				Gainers: sm.RankedList{{Rank: 1, Symbol: "TCS", Value: null.FloatFrom(4)}},
				Losers:  sm.RankedList{{Rank: 1, Symbol: "ITC", Value: null.FloatFrom(-2)}, {Rank: 2, Symbol: "INFY", Value: null.Float{}}},
			},
		},
		Averages: []sm.MetricAverage{
			{Metric: "close", Average: null.FloatFrom(1234.5)},
			{Metric: "volume", Average: null.Float{}},
		},
	}
}

func TestDashboardMarkdown(t *testing.T) {
	out := DashboardMarkdown(testDashboard())

	assert.Contains(t, out, "# Stock Performance Dashboard")
	assert.Contains(t, out, "Period: 2024 (2024-01-01 to 2024-12-31), all symbols")
	assert.Contains(t, out, "## 1. Market Summary")
	assert.Contains(t, out, "1,500,000")
	assert.Contains(t, out, "1,234.5")
	assert.Contains(t, out, "+25.50%")
	assert.Contains(t, out, "-4.25%")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "SOFTWARE")
	assert.Contains(t, out, "0.83")
	assert.Contains(t, out, "### 2024-03")
}

func TestDashboardMarkdownEmptyScope(t *testing.T) {
	out := DashboardMarkdown(&sm.Dashboard{Period: "2030", Symbols: []string{"NOPE"}})

	assert.Contains(t, out, "No price records in scope.")
	assert.Contains(t, out, "NOPE")
	assert.NotContains(t, out, "Market Summary")
}

func TestFormatBlankValues(t *testing.T) {
	assert.Equal(t, "", fmtPercent(null.Float{}))
	assert.Equal(t, "", fmtPrice(null.Float{}))
	assert.Equal(t, "", fmtVolume(null.Float{}))
	assert.Equal(t, "+0.50%", fmtSignedPercent(null.FloatFrom(0.5)))
	assert.Equal(t, "0.00%", fmtSignedPercent(null.FloatFrom(0)))
}

func TestDashboardPage(t *testing.T) {
	var buf bytes.Buffer
	err := DashboardPage(&buf, DashboardMarkdown(testDashboard()), "2024", "<b>TCS</b>", []string{"all", "2024", "2024-03"})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<h2>1. Market Summary</h2>")
	assert.Contains(t, html, `<option value="2024" selected>2024</option>`)
	assert.Contains(t, html, `<option value="2024-03">2024-03</option>`)
	assert.Contains(t, html, "&lt;b&gt;TCS&lt;/b&gt;")
	assert.False(t, strings.Contains(html, "<b>TCS</b>"))
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Title\n\nbody text\n")
	require.NoError(t, err)
	assert.Contains(t, out, "body text")
}
