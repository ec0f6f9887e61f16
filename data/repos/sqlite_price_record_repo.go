package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guregu/null/v6"

	m "stockreport/data/models"
	q "stockreport/data/queries"
)

// dates are stored as ISO text so range comparisons stay lexical
const sqliteDateLayout = time.DateOnly

func (s *SQLite) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, q.Get(q.QueryHelper.SQLite.Create.PriceRecords)); err != nil {
		return fmt.Errorf("error creating price_records: %w", err)
	}
	return nil
}

func (s *SQLite) GetPriceRecords(ctx context.Context, filter m.PriceFilter) ([]*m.PriceRecord, error) {
	symbols, err := json.Marshal(normalizeSymbols(filter.Symbols))
	if err != nil {
		return nil, fmt.Errorf("error encoding symbol filter: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, q.Get(q.QueryHelper.SQLite.Select.PriceRecords),
		sql.Named("start", sqliteDate(filter.Period.Start)),
		sql.Named("end", sqliteDate(filter.Period.End)),
		sql.Named("symbols", string(symbols)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to query price records for period %s: %w", filter.Period, err)
	}
	defer rows.Close()

	var res []*m.PriceRecord
	for rows.Next() {
		var (
			r         m.PriceRecord
			tradeDate string
		)
		if err := rows.Scan(&r.Symbol, &tradeDate, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume); err != nil {
			return nil, fmt.Errorf("error scanning price record: %w", err)
		}
		if r.Date, err = time.Parse(sqliteDateLayout, tradeDate); err != nil {
			return nil, fmt.Errorf("error parsing trade date %q for %s: %w", tradeDate, r.Symbol, err)
		}
		res = append(res, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price records: %w", err)
	}
	return res, nil
}

func (s *SQLite) GetSymbols(ctx context.Context) ([]string, error) {
	res, err := s.queryStrings(ctx, q.Get(q.QueryHelper.SQLite.Select.Symbols))
	if err != nil {
		return nil, fmt.Errorf("unable to query symbols: %w", err)
	}
	return res, nil
}

func (s *SQLite) GetMonths(ctx context.Context) ([]string, error) {
	res, err := s.queryStrings(ctx, q.Get(q.QueryHelper.SQLite.Select.Months))
	if err != nil {
		return nil, fmt.Errorf("unable to query months: %w", err)
	}
	return res, nil
}

func (s *SQLite) GetMostRecentDate(ctx context.Context, symbol string) (*time.Time, error) {
	var mostRecent null.String
	row := s.db.QueryRowContext(ctx, q.Get(q.QueryHelper.SQLite.Select.MostRecentDateBySymbol), sql.Named("symbol", symbol))
	if err := row.Scan(&mostRecent); err != nil {
		return nil, fmt.Errorf("unable to query most recent date for %s: %w", symbol, err)
	}

	if !mostRecent.Valid {
		return nil, nil
	}

	t, err := time.Parse(sqliteDateLayout, mostRecent.String)
	if err != nil {
		return nil, fmt.Errorf("error parsing most recent date %q for %s: %w", mostRecent.String, symbol, err)
	}
	return &t, nil
}

// InsertPriceRecords inserts in one transaction with a prepared statement. Rows already
// present for (symbol, trade_date) are ignored and not counted.
func (s *SQLite) InsertPriceRecords(ctx context.Context, records []*m.PriceRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.GetTransaction(ctx)
	if err != nil {
		return 0, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	stmt, err := tx.PrepareContext(ctx, q.Get(q.QueryHelper.SQLite.Insert.PriceRecord))
	if err != nil {
		return 0, fmt.Errorf("error preparing price record insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, r := range records {
		res, err := stmt.ExecContext(ctx,
			sql.Named("symbol", r.Symbol),
			sql.Named("trade_date", r.Date.Format(sqliteDateLayout)),
			sql.Named("open", r.Open),
			sql.Named("high", r.High),
			sql.Named("low", r.Low),
			sql.Named("close", r.Close),
			sql.Named("volume", r.Volume),
		)
		if err != nil {
			return 0, fmt.Errorf("error inserting price record %s %s: %w", r.Symbol, r.Date.Format(sqliteDateLayout), err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing price records: %w", err)
	}
	return inserted, nil
}

func (s *SQLite) DeletePriceRecords(ctx context.Context, symbol string) (int64, error) {
	res, err := s.db.ExecContext(ctx, q.Get(q.QueryHelper.SQLite.Delete.PriceRecordsBySymbol), sql.Named("symbol", symbol))
	if err != nil {
		return 0, fmt.Errorf("error deleting price records for %s: %w", symbol, err)
	}
	return res.RowsAffected()
}

func (s *SQLite) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func sqliteDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(sqliteDateLayout)
}
