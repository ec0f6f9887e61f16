package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	dm "stockreport/data/models"
	sm "stockreport/service/models"
)

// DashboardQuery scopes one query and render cycle
type DashboardQuery struct {
	Period  dm.Period
	Symbols []string
}

// DashboardSizes are the lengths of the ranked sections
type DashboardSizes struct {
	Rank    int
	Leaders int
	Monthly int
}

// ParseDashboardQuery reads a period label and a comma separated symbol list
func ParseDashboardQuery(period, symbols string) (DashboardQuery, error) {
	p, err := dm.ParsePeriod(period)
	if err != nil {
		return DashboardQuery{}, err
	}

	var list []string
	for _, s := range strings.Split(symbols, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" && !slices.Contains(list, s) {
			list = append(list, s)
		}
	}
	return DashboardQuery{Period: p, Symbols: list}, nil
}

func (sc *ServiceContext) LoadRecords(ctx context.Context, q DashboardQuery) ([]*dm.PriceRecord, error) {
	records, err := sc.Store.GetPriceRecords(ctx, dm.PriceFilter{Period: q.Period, Symbols: q.Symbols})
	if err != nil {
		return nil, fmt.Errorf("error loading price records: %w", err)
	}
	return records, nil
}

// BuildDashboard reads the records in scope once and computes every section from them
func (sc *ServiceContext) BuildDashboard(ctx context.Context, q DashboardQuery) (*sm.Dashboard, error) {
	records, err := sc.LoadRecords(ctx, q)
	if err != nil {
		return nil, err
	}

	dashboard := BuildDashboard(q, records, sc.sizes(), sc.sectorOf)
	return &dashboard, nil
}

func (sc *ServiceContext) GetReportResources(ctx context.Context) (*sm.ReportResources, error) {
	months, err := sc.Store.GetMonths(ctx)
	if err != nil {
		return nil, err
	}

	res := &sm.ReportResources{
		Directions: []string{string(sm.Gainers), string(sm.Losers)},
		RankBy:     []string{string(sm.RankByReturn), string(sm.RankByVolume), string(sm.RankByVolatility)},
		Periods:    AvailablePeriods(months),
	}
	for _, m := range dm.Metrics {
		res.Metrics = append(res.Metrics, string(m))
	}
	return res, nil
}

// AvailablePeriods lists "all", each year and each month, most recent first
func AvailablePeriods(months []string) []string {
	res := []string{dm.PeriodAll}

	var years []string
	for _, m := range months {
		if len(m) >= 4 && !slices.Contains(years, m[:4]) {
			years = append(years, m[:4])
		}
	}
	slices.Sort(years)
	slices.Reverse(years)
	res = append(res, years...)

	sorted := slices.Clone(months)
	slices.Sort(sorted)
	slices.Reverse(sorted)
	return append(res, sorted...)
}

func (sc *ServiceContext) sizes() DashboardSizes {
	if sc.Config == nil {
		return DashboardSizes{Rank: 10, Leaders: 5, Monthly: 5}
	}
	return DashboardSizes{
		Rank:    sc.Config.Report.RankSize,
		Leaders: sc.Config.Report.LeadersSize,
		Monthly: sc.Config.Report.MonthlySize,
	}
}

func BuildDashboard(q DashboardQuery, records []*dm.PriceRecord, sizes DashboardSizes, sectorOf SectorLookup) sm.Dashboard {
	performances := GetSymbolPerformances(records, sectorOf)
	returns := RankingEntries(records, sm.RankByReturn)

	averages := make([]sm.MetricAverage, 0, len(dm.Metrics))
	for _, m := range dm.Metrics {
		averages = append(averages, sm.MetricAverage{Metric: string(m), Average: nullable(Average(m, records))})
	}

	symbols := q.Symbols
	if symbols == nil {
		symbols = []string{}
	}

	return sm.Dashboard{
		Period:       q.Period.Label,
		Symbols:      symbols,
		Summary:      GetMarketSummary(q.Period.Label, records, performances),
		Averages:     averages,
		Gainers:      TopN(returns, sizes.Rank, sm.Gainers),
		Losers:       TopN(returns, sizes.Rank, sm.Losers),
		MostVolatile: TopN(RankingEntries(records, sm.RankByVolatility), sizes.Rank, sm.Gainers),
		MostTraded:   TopN(RankingEntries(records, sm.RankByVolume), sizes.Rank, sm.Gainers),
		Performance:  performances,
		Sectors:      GetSectorPerformances(performances),
		Cumulative:   GetCumulativeLeaders(records, sizes.Leaders),
		Correlation:  GetCorrelationMatrix(records),
		Monthly:      GetMonthlyRankings(records, sizes.Monthly),
	}
}
