package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/guregu/null/v6"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	ex "stockreport/data/extensions"
	dm "stockreport/data/models"
)

var (
	sourceDateFormats = []string{
		time.DateOnly,
		time.DateTime,
		time.RFC3339,
		"2006-01-02 15:04:05-07:00",
		"2006/01/02",
		"02-01-2006",
	}

	requiredColumns = []string{"date", "open", "high", "low", "close", "volume"}
)

// IngestSummary counts what happened to a batch of source files
type IngestSummary struct {
	Files          int
	FailedFiles    int
	Records        int
	Dropped        int
	NonTradingDays int
	Inserted       int64
}

// ParsedFile is the outcome of one source file
type ParsedFile struct {
	Records []*dm.PriceRecord
	Dropped int
}

// LoadDirectory parses every .csv/.yaml/.yml file under dir concurrently. A file that cannot be
// parsed is logged and skipped; it is an error only when nothing could be loaded.
func LoadDirectory(ctx context.Context, dir string, workers int) ([]*dm.PriceRecord, IngestSummary, error) {
	var summary IngestSummary

	files, err := sourceFiles(dir)
	if err != nil {
		return nil, summary, err
	}
	summary.Files = len(files)
	if len(files) == 0 {
		return nil, summary, fmt.Errorf("no csv or yaml files found in %s", dir)
	}

	results := make([]*ParsedFile, len(files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := ParseSourceFile(path)
			if err != nil {
				log.Printf("skipping %s: %v", path, err)
				mu.Lock()
				summary.FailedFiles++
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, summary, err
	}

	var records []*dm.PriceRecord
	for _, res := range results {
		if res == nil {
			continue
		}
		records = append(records, res.Records...)
		summary.Dropped += res.Dropped
	}
	summary.Records = len(records)

	if len(records) == 0 {
		return nil, summary, fmt.Errorf("no valid stock data could be loaded from %s", dir)
	}

	slices.SortFunc(records, func(a, b *dm.PriceRecord) int {
		if c := strings.Compare(a.Symbol, b.Symbol); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
	return records, summary, nil
}

// Ingest loads a directory into the store, rows already stored are skipped
func (sc *ServiceContext) Ingest(ctx context.Context, dir string) (IngestSummary, error) {
	workers, mic := 1, ""
	if sc.Config != nil {
		workers, mic = sc.Config.Ingest.Workers, sc.Config.Ingest.Exchange
	}

	records, summary, err := LoadDirectory(ctx, dir, workers)
	if err != nil {
		return summary, err
	}

	if mic != "" {
		cal := GetTradingCalendar(mic)
		for _, r := range records {
			if !cal.IsTradingDay(r.Date) {
				summary.NonTradingDays++
			}
		}
		if summary.NonTradingDays > 0 {
			log.Printf("warning: %d records fall on non trading days of %s", summary.NonTradingDays, mic)
		}
	}

	summary.Inserted, err = sc.Store.InsertPriceRecords(ctx, records)
	if err != nil {
		return summary, fmt.Errorf("error inserting price records: %w", err)
	}

	log.Printf("ingested %s: %d files (%d failed), %d records, %d dropped, %d inserted",
		dir, summary.Files, summary.FailedFiles, summary.Records, summary.Dropped, summary.Inserted)
	return summary, nil
}

func sourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", dir, err)
	}

	slices.Sort(files)
	return files, nil
}

func ParseSourceFile(path string) (*ParsedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ParseCSV(f, filepath.Base(path))
	}
	return ParseYAML(f)
}

// ParseCSV reads a header driven price file. Ticker is read as Symbol, and without either the
// symbol is the file name up to the first underscore.
func ParseCSV(r io.Reader, fileName string) (*ParsedFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[normalizeColumn(h)] = i
	}

	if err := checkColumns(columns); err != nil {
		return nil, err
	}

	fallbackSymbol := ""
	if _, ok := columns["symbol"]; !ok {
		fallbackSymbol = symbolFromFileName(fileName)
	}

	res := &ParsedFile{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row: %w", err)
		}

		values := make(map[string]string, len(columns))
		for name, i := range columns {
			if i < len(row) {
				values[name] = row[i]
			}
		}
		if fallbackSymbol != "" {
			values["symbol"] = fallbackSymbol
		}

		if record, ok := toPriceRecord(values); ok {
			res.Records = append(res.Records, record)
		} else {
			res.Dropped++
		}
	}
	return res, nil
}

// ParseYAML reads one or more documents, each a single record or a list of records
func ParseYAML(r io.Reader) (*ParsedFile, error) {
	decoder := yaml.NewDecoder(r)
	res := &ParsedFile{}

	for {
		var doc yaml.Node
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error decoding yaml: %w", err)
		}
		if len(doc.Content) == 0 {
			continue
		}

		var raw []map[string]string
		root := doc.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			if err := root.Decode(&raw); err != nil {
				return nil, fmt.Errorf("error decoding yaml records: %w", err)
			}
		case yaml.MappingNode:
			var single map[string]string
			if err := root.Decode(&single); err != nil {
				return nil, fmt.Errorf("error decoding yaml record: %w", err)
			}
			raw = append(raw, single)
		default:
			return nil, fmt.Errorf("unexpected yaml document at line %d", root.Line)
		}

		for _, item := range raw {
			values := make(map[string]string, len(item))
			for k, v := range item {
				values[normalizeColumn(k)] = v
			}
			if record, ok := toPriceRecord(values); ok {
				res.Records = append(res.Records, record)
			} else {
				res.Dropped++
			}
		}
	}
	return res, nil
}

// toPriceRecord coerces a row; rows without symbol, date or close are rejected
func toPriceRecord(values map[string]string) (*dm.PriceRecord, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(values["symbol"]))
	if symbol == "" {
		return nil, false
	}

	date, err := parseSourceDate(values["date"])
	if err != nil {
		return nil, false
	}

	record := &dm.PriceRecord{
		Symbol: symbol,
		Date:   date,
		Open:   parseNumber(values["open"]),
		High:   parseNumber(values["high"]),
		Low:    parseNumber(values["low"]),
		Close:  parseNumber(values["close"]),
	}
	if !record.Close.Valid {
		return nil, false
	}

	if v := parseNumber(values["volume"]); v.Valid && ex.FitsInt64(v.Float64) {
		record.Volume = null.IntFrom(int64(v.Float64))
	}
	return record, true
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	if name == "ticker" {
		return "symbol"
	}
	return name
}

func checkColumns(columns map[string]int) error {
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns %v", missing)
	}
	return nil
}

func symbolFromFileName(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	symbol, _, _ := strings.Cut(base, "_")
	return strings.ToUpper(symbol)
}

func parseSourceDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, format := range sourceDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parseNumber(value string) null.Float {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || !ex.IsFinite(f) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}
