package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
	md "github.com/nao1215/markdown"

	sm "stockreport/service/models"
)

// DashboardMarkdown lays the dashboard out as one markdown document, shared by the
// terminal report and the html page
func DashboardMarkdown(d *sm.Dashboard) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Stock Performance Dashboard")
	scope := "all symbols"
	if len(d.Symbols) > 0 {
		scope = strings.Join(d.Symbols, ", ")
	}
	doc.PlainText(fmt.Sprintf("Period: %s (%s to %s), %s", d.Period, d.Summary.StartDate, d.Summary.EndDate, scope))

	if d.Summary.TotalStocks == 0 {
		doc.PlainText("No price records in scope.")
		return doc.String()
	}

	doc.H2("1. Market Summary")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Stocks", strconv.Itoa(d.Summary.TotalStocks)},
			{"Green Stocks", strconv.Itoa(d.Summary.Green)},
			{"Red Stocks", strconv.Itoa(d.Summary.Red)},
			{"Green Share", fmtShare(d.Summary.GreenPct)},
			{"Average Close", fmtPrice(d.Summary.AvgClose)},
			{"Average Volume", fmtVolume(d.Summary.AvgVolume)},
		},
	})

	doc.H2("2. Top Gainers and Losers")
	doc.H3(fmt.Sprintf("Top %d Green Stocks", len(d.Gainers)))
	doc.Table(rankedTable(d.Gainers, "Return", fmtSignedPercent))
	doc.H3(fmt.Sprintf("Top %d Loss Stocks", len(d.Losers)))
	doc.Table(rankedTable(d.Losers, "Return", fmtSignedPercent))

	doc.H2("3. Risk and Sector Breakdown")
	doc.H3("Most Volatile Stocks")
	doc.Table(rankedTable(d.MostVolatile, "Annualized Volatility", fmtPercent))
	doc.H3("Most Traded Stocks")
	doc.Table(rankedTable(d.MostTraded, "Average Volume", fmtVolume))
	doc.H3("Average Return by Sector")
	sectors := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Sector", "Stocks", "Avg Return"},
	}
	for _, s := range d.Sectors {
		sectors.Rows = append(sectors.Rows, []string{s.Sector, strconv.Itoa(s.Stocks), fmtSignedPercent(s.AvgReturnPct)})
	}
	doc.Table(sectors)

	if len(d.Cumulative) > 0 {
		doc.H2("4. Cumulative Return of Top Performers")
		cumulative := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Symbol", "From", "To", "Growth of 1"},
		}
		for _, s := range d.Cumulative {
			if len(s.Points) == 0 {
				continue
			}
			first, last := s.Points[0], s.Points[len(s.Points)-1]
			cumulative.Rows = append(cumulative.Rows, []string{s.Symbol, first.Date, last.Date, strconv.FormatFloat(last.Value, 'f', 4, 64)})
		}
		doc.Table(cumulative)
	}

	if len(d.Correlation.Symbols) > 1 {
		doc.H2("5. Closing Price Correlation")
		doc.Table(correlationTable(d.Correlation))
	}

	if len(d.Monthly) > 0 {
		doc.H2("6. Monthly Top Gainers and Losers")
		for _, m := range d.Monthly {
			doc.H3(m.Month)
			doc.Table(monthlyTable(m))
		}
	}

	doc.H2("Averages")
	averages := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Average"},
	}
	for _, a := range d.Averages {
		value := fmtPrice(a.Average)
		if a.Metric == "volume" {
			value = fmtVolume(a.Average)
		}
		averages.Rows = append(averages.Rows, []string{a.Metric, value})
	}
	doc.Table(averages)

	return doc.String()
}

func rankedTable(list sm.RankedList, valueHeader string, format func(v null.Float) string) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignRight},
		Header:    []string{"#", "Symbol", valueHeader},
	}
	for _, e := range list {
		table.Rows = append(table.Rows, []string{strconv.Itoa(e.Rank), e.Symbol, format(e.Value)})
	}
	return table
}

func correlationTable(corr sm.CorrelationMatrix) md.TableSet {
	table := md.TableSet{
		Header: append([]string{""}, corr.Symbols...),
	}
	for i, symbol := range corr.Symbols {
		row := []string{md.Bold(symbol)}
		for j := range corr.Symbols {
			row = append(row, fmtRatio(corr.Values[i][j]))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func monthlyTable(m sm.MonthlyRanking) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignRight},
		Header:    []string{"#", "Gainer", "Return", "Loser", "Return"},
	}
	for i := range max(len(m.Gainers), len(m.Losers)) {
		row := []string{strconv.Itoa(i + 1), "", "", "", ""}
		if i < len(m.Gainers) {
			row[1], row[2] = m.Gainers[i].Symbol, fmtSignedPercent(m.Gainers[i].Value)
		}
		if i < len(m.Losers) {
			row[3], row[4] = m.Losers[i].Symbol, fmtSignedPercent(m.Losers[i].Value)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
