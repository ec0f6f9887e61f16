package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	ex "stockreport/data/extensions"
	dm "stockreport/data/models"
	av "stockreport/service/api/alpha_vantage"
)

// SyncSymbolPriceRecords pulls the daily series of symbol and stores every bar newer than
// the most recent stored date. Returns the last refreshed date reported by the source.
func (sc *ServiceContext) SyncSymbolPriceRecords(ctx context.Context, symbol string) (time.Time, int64, error) {
	mrd, err := sc.Store.GetMostRecentDate(ctx, symbol)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("error getting most recent date for symbol %s: %w", symbol, err)
	}

	// a first sync needs the whole history, afterwards the last 100 bars are enough
	size := av.OutputSizeFull
	if mrd != nil {
		size = av.OutputSizeCompact
		log.Printf("symbol %s is stored up to %s", symbol, ex.FmtShort(*mrd))
	} else {
		log.Printf("adding new symbol to db: %s", symbol)
	}

	tsr, err := sc.AlphaVantageClient.GetTimeSeries(ctx, av.TimeSeriesDaily, symbol, size)
	if err != nil {
		return time.Time{}, 0, err
	}

	toInsert := make([]*dm.PriceRecord, 0, len(tsr.Records))
	for i := range tsr.Records {
		r := &tsr.Records[i]
		r.Symbol = symbol
		if mrd == nil || r.Date.After(*mrd) {
			toInsert = append(toInsert, r)
		}
	}

	ra, err := sc.Store.InsertPriceRecords(ctx, toInsert)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("error inserting price records for %s: %w", symbol, err)
	}

	log.Printf("symbol %s got %v records from av, inserted %v values", symbol, len(tsr.Records), ra)
	return tsr.Metadata.LastRefreshed, ra, nil
}

var exportHeader = []string{"Symbol", "Date", "open", "high", "low", "close", "volume", "Sector", "Daily_Return"}

// ExportCSV writes the records in scope with their sector and daily return, one row per record
func (sc *ServiceContext) ExportCSV(ctx context.Context, q DashboardQuery, w io.Writer) (int, error) {
	records, err := sc.LoadRecords(ctx, q)
	if err != nil {
		return 0, err
	}
	return WriteMasterCSV(w, records, sc.sectorOf)
}

func WriteMasterCSV(w io.Writer, records []*dm.PriceRecord, sectorOf SectorLookup) (int, error) {
	daily := make(map[string]map[time.Time]float64)
	for symbol, returns := range DailyReturns(records) {
		daily[symbol] = make(map[time.Time]float64, len(returns))
		for _, r := range returns {
			daily[symbol][r.Date] = r.Return
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("error writing csv header: %w", err)
	}

	for _, r := range records {
		ret := ""
		if v, ok := daily[r.Symbol][r.Date]; ok {
			ret = strconv.FormatFloat(v, 'f', -1, 64)
		}

		row := []string{
			r.Symbol,
			ex.FmtShort(r.Date),
			formatNullFloat(r.Open),
			formatNullFloat(r.High),
			formatNullFloat(r.Low),
			formatNullFloat(r.Close),
			"",
			sectorOf(r.Symbol),
			ret,
		}
		if r.Volume.Valid {
			row[6] = strconv.FormatInt(r.Volume.Int64, 10)
		}

		if err := writer.Write(row); err != nil {
			return 0, fmt.Errorf("error writing csv row: %w", err)
		}
	}

	writer.Flush()
	return len(records), writer.Error()
}
