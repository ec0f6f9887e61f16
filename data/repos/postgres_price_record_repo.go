package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	m "stockreport/data/models"
	q "stockreport/data/queries"
)

var priceRecordColumns = []string{
	"symbol", "trade_date", "open", "high", "low", "close", "volume",
}

func (pg *Postgres) Migrate(ctx context.Context) error {
	if _, err := pg.db.Exec(ctx, q.Get(q.QueryHelper.Postgres.Create.PriceRecords)); err != nil {
		return fmt.Errorf("error creating price_records: %w", err)
	}
	return nil
}

func (pg *Postgres) GetPriceRecords(ctx context.Context, filter m.PriceFilter) ([]*m.PriceRecord, error) {
	args := pgx.NamedArgs{
		"start":   nullableDate(filter.Period.Start),
		"end":     nullableDate(filter.Period.End),
		"symbols": normalizeSymbols(filter.Symbols),
	}

	res, err := Query[m.PriceRecord](ctx, pg, q.Get(q.QueryHelper.Postgres.Select.PriceRecords), args)
	if err != nil {
		return nil, fmt.Errorf("unable to query price records for period %s: %w", filter.Period, err)
	}
	return res, nil
}

func (pg *Postgres) GetSymbols(ctx context.Context) ([]string, error) {
	res, err := QueryScalars[string](ctx, pg, q.Get(q.QueryHelper.Postgres.Select.Symbols), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to query symbols: %w", err)
	}
	return res, nil
}

func (pg *Postgres) GetMonths(ctx context.Context) ([]string, error) {
	res, err := QueryScalars[string](ctx, pg, q.Get(q.QueryHelper.Postgres.Select.Months), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to query months: %w", err)
	}
	return res, nil
}

func (pg *Postgres) GetMostRecentDate(ctx context.Context, symbol string) (*time.Time, error) {
	type mostRecent struct {
		TradeDate *time.Time `db:"trade_date"`
	}

	args := pgx.NamedArgs{"symbol": symbol}
	res, err := QuerySingle[mostRecent](ctx, pg, q.Get(q.QueryHelper.Postgres.Select.MostRecentDateBySymbol), args)
	if err != nil {
		return nil, fmt.Errorf("unable to query most recent date for %s: %w", symbol, err)
	}
	return res.TradeDate, nil
}

// InsertPriceRecords copies into a transaction scoped staging table, then moves rows across
// skipping any (symbol, trade_date) that is already loaded.
func (pg *Postgres) InsertPriceRecords(ctx context.Context, records []*m.PriceRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := pg.GetTransaction(ctx)
	if err != nil {
		return 0, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // this will kick off if we return before committing

	if _, err := tx.Exec(ctx, q.Get(q.QueryHelper.Postgres.Create.PriceRecordsStaging)); err != nil {
		return 0, fmt.Errorf("error creating staging table: %w", err)
	}

	entries := make([][]any, len(records))
	for i, r := range records {
		entries[i] = []any{
			r.Symbol, r.Date, r.Open, r.High, r.Low, r.Close, r.Volume,
		}
	}

	if _, err := pg.BulkInsert(ctx, "price_records_staging", priceRecordColumns, entries, tx); err != nil {
		return 0, fmt.Errorf("error copying price records: %w", err)
	}

	tag, err := tx.Exec(ctx, q.Get(q.QueryHelper.Postgres.Insert.PriceRecordsFromStaging))
	if err != nil {
		return 0, fmt.Errorf("error moving staged price records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("error committing price records: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (pg *Postgres) DeletePriceRecords(ctx context.Context, symbol string) (int64, error) {
	tag, err := pg.db.Exec(ctx, q.Get(q.QueryHelper.Postgres.Delete.PriceRecordsBySymbol), pgx.NamedArgs{"symbol": symbol})
	if err != nil {
		return 0, fmt.Errorf("error deleting price records for %s: %w", symbol, err)
	}
	return tag.RowsAffected(), nil
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
