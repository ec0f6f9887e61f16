package repos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/joho/godotenv"

	ex "stockreport/data/extensions"
	m "stockreport/data/models"
)

func Test_SQLite_CanMigrateAndPing(t *testing.T) {
	ctx := context.Background()
	store := getSQLiteConnection(t, ctx)

	if err := store.Ping(ctx); err != nil {
		t.Errorf("error pinging sqlite database: %s", err)
	}

	// migrations are idempotent
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("error re-running migration: %s", err)
	}
}

func Test_SQLite_PriceRecordRepo_CanInsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := getSQLiteConnection(t, ctx)
	testPriceRecordRepoCanInsertAndGet(t, ctx, store)
}

func Test_SQLite_PriceRecordRepo_SkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := getSQLiteConnection(t, ctx)
	testPriceRecordRepoSkipsDuplicates(t, ctx, store)
}

func Test_SQLite_PriceRecordRepo_FiltersByPeriodAndSymbol(t *testing.T) {
	ctx := context.Background()
	store := getSQLiteConnection(t, ctx)
	testPriceRecordRepoFilters(t, ctx, store)
}

func Test_SQLite_PriceRecordRepo_MostRecentDate(t *testing.T) {
	ctx := context.Background()
	store := getSQLiteConnection(t, ctx)
	testPriceRecordRepoMostRecentDate(t, ctx, store)
}

func Test_Postgres_PriceRecordRepo(t *testing.T) {
	ctx := context.Background()
	pg := getPostgresConnection(t, ctx)

	t.Run("insert and get", func(t *testing.T) { testPriceRecordRepoCanInsertAndGet(t, ctx, pg) })
	t.Run("skips duplicates", func(t *testing.T) { testPriceRecordRepoSkipsDuplicates(t, ctx, pg) })
	t.Run("filters", func(t *testing.T) { testPriceRecordRepoFilters(t, ctx, pg) })
	t.Run("most recent date", func(t *testing.T) { testPriceRecordRepoMostRecentDate(t, ctx, pg) })
}

func Test_Open_RejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", "whatever"); err == nil {
		t.Fatalf("expected an error for an unknown driver")
	}
}

func testPriceRecordRepoCanInsertAndGet(t *testing.T, ctx context.Context, store PriceStore) {
	t.Helper()
	symbol := "_TEST1"
	defer deleteTestPriceRecords(t, ctx, store, symbol)

	records := []*m.PriceRecord{
		newRecord(symbol, time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), 102, 1000),
		newRecord(symbol, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), 100, 2000),
	}
	records[1].High = null.Float{} // missing values survive the round trip

	ct, err := store.InsertPriceRecords(ctx, records)
	if err != nil {
		t.Fatalf("error inserting price records: %s", err)
	}
	ex.AssertAreEqual(t, "inserted", int64(len(records)), ct)

	res, err := store.GetPriceRecords(ctx, m.PriceFilter{Period: m.AllTime(), Symbols: []string{symbol}})
	if err != nil {
		t.Fatalf("error getting price records: %s", err)
	}
	ex.AssertAreEqual(t, "count", 2, len(res))

	// ordered by symbol then date
	comparePriceRecord(t, records[1], res[0])
	comparePriceRecord(t, records[0], res[1])
}

func testPriceRecordRepoSkipsDuplicates(t *testing.T, ctx context.Context, store PriceStore) {
	t.Helper()
	symbol := "_TEST2"
	defer deleteTestPriceRecords(t, ctx, store, symbol)

	d := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	if _, err := store.InsertPriceRecords(ctx, []*m.PriceRecord{newRecord(symbol, d, 10, 5)}); err != nil {
		t.Fatalf("error inserting price records: %s", err)
	}

	ct, err := store.InsertPriceRecords(ctx, []*m.PriceRecord{
		newRecord(symbol, d, 99, 5),
		newRecord(symbol, d.AddDate(0, 0, 1), 11, 5),
	})
	if err != nil {
		t.Fatalf("error inserting duplicate price records: %s", err)
	}
	ex.AssertAreEqual(t, "inserted", int64(1), ct)

	res, err := store.GetPriceRecords(ctx, m.PriceFilter{Period: m.AllTime(), Symbols: []string{symbol}})
	if err != nil {
		t.Fatalf("error getting price records: %s", err)
	}
	ex.AssertAreEqual(t, "count", 2, len(res))
	ex.AssertAreEqual(t, "first close is not overwritten", 10.0, res[0].Close.Float64)
}

func testPriceRecordRepoFilters(t *testing.T, ctx context.Context, store PriceStore) {
	t.Helper()
	defer deleteTestPriceRecords(t, ctx, store, "_TESTA")
	defer deleteTestPriceRecords(t, ctx, store, "_TESTB")

	records := []*m.PriceRecord{
		newRecord("_TESTA", time.Date(2023, time.December, 29, 0, 0, 0, 0, time.UTC), 1, 1),
		newRecord("_TESTA", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), 2, 1),
		newRecord("_TESTA", time.Date(2024, time.March, 28, 0, 0, 0, 0, time.UTC), 3, 1),
		newRecord("_TESTB", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), 4, 1),
		newRecord("_TESTB", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), 5, 1),
	}
	if _, err := store.InsertPriceRecords(ctx, records); err != nil {
		t.Fatalf("error inserting price records: %s", err)
	}

	march, _ := m.ParsePeriod("2024-03")
	res, err := store.GetPriceRecords(ctx, m.PriceFilter{Period: march, Symbols: []string{"_TESTA", "_testb"}})
	if err != nil {
		t.Fatalf("error getting price records: %s", err)
	}
	ex.AssertAreEqual(t, "march rows", 3, len(res))

	res, err = store.GetPriceRecords(ctx, m.PriceFilter{Period: march, Symbols: []string{"_TESTB"}})
	if err != nil {
		t.Fatalf("error getting price records: %s", err)
	}
	ex.AssertAreEqual(t, "march rows for one symbol", 1, len(res))
	ex.AssertAreEqual(t, "close", 4.0, res[0].Close.Float64)

	months, err := store.GetMonths(ctx)
	if err != nil {
		t.Fatalf("error getting months: %s", err)
	}
	for _, expected := range []string{"2023-12", "2024-03", "2024-04"} {
		if ex.FilterFirst(months, func(s string) bool { return s == expected }) == "" {
			t.Fatalf("expected month %s in %v", expected, months)
		}
	}

	symbols, err := store.GetSymbols(ctx)
	if err != nil {
		t.Fatalf("error getting symbols: %s", err)
	}
	if ex.FilterFirst(symbols, func(s string) bool { return s == "_TESTB" }) == "" {
		t.Fatalf("expected _TESTB in %v", symbols)
	}
}

func testPriceRecordRepoMostRecentDate(t *testing.T, ctx context.Context, store PriceStore) {
	t.Helper()
	symbol := "_TEST3"
	defer deleteTestPriceRecords(t, ctx, store, symbol)

	mrd, err := store.GetMostRecentDate(ctx, symbol)
	if err != nil {
		t.Fatalf("error getting most recent date: %s", err)
	}
	if mrd != nil {
		t.Fatalf("expected no most recent date before insert, got %s", ex.FmtShort(*mrd))
	}

	latest := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	if _, err := store.InsertPriceRecords(ctx, []*m.PriceRecord{
		newRecord(symbol, latest.AddDate(0, 0, -3), 1, 1),
		newRecord(symbol, latest, 1, 1),
	}); err != nil {
		t.Fatalf("error inserting price records: %s", err)
	}

	mrd, err = store.GetMostRecentDate(ctx, symbol)
	if err != nil {
		t.Fatalf("error getting most recent date: %s", err)
	}
	if mrd == nil {
		t.Fatalf("expected a most recent date after insert")
	}
	ex.AssertAreEqual(t, "most recent", ex.FmtShort(latest), ex.FmtShort(*mrd))
}

func newRecord(symbol string, date time.Time, close float64, volume int64) *m.PriceRecord {
	return &m.PriceRecord{
		Symbol: symbol,
		Date:   date,
		Open:   null.FloatFrom(close - 1),
		High:   null.FloatFrom(close + 1),
		Low:    null.FloatFrom(close - 2),
		Close:  null.FloatFrom(close),
		Volume: null.IntFrom(volume),
	}
}

func comparePriceRecord(t *testing.T, expected, actual *m.PriceRecord) {
	t.Helper()
	ex.AssertAreEqual(t, "symbol", expected.Symbol, actual.Symbol)
	ex.AssertAreEqual(t, "date", ex.FmtShort(expected.Date), ex.FmtShort(actual.Date))
	ex.AssertAreEqual(t, "open", expected.Open, actual.Open)
	ex.AssertAreEqual(t, "high", expected.High, actual.High)
	ex.AssertAreEqual(t, "low", expected.Low, actual.Low)
	ex.AssertAreEqual(t, "close", expected.Close, actual.Close)
	ex.AssertAreEqual(t, "volume", expected.Volume, actual.Volume)
}

func getSQLiteConnection(t *testing.T, ctx context.Context) *SQLite {
	t.Helper()
	res, err := GetSQLiteConnection(ctx, MemoryDSN)
	if err != nil {
		t.Fatalf("error getting sqlite connection: %s", err)
	}
	t.Cleanup(res.Close)

	if err := res.Migrate(ctx); err != nil {
		t.Fatalf("error migrating sqlite database: %s", err)
	}
	return res
}

func getPostgresConnection(t *testing.T, ctx context.Context) *Postgres {
	t.Helper()
	_ = godotenv.Load("../../.env")

	connectionString := os.Getenv("DATABASE_URL")
	if connectionString == "" {
		t.Skip("DATABASE_URL not set, skipping postgres repository tests")
	}

	res, err := GetPostgresConnection(ctx, connectionString)
	if err != nil {
		t.Fatalf("error getting postgres connection: %s", err)
	}
	t.Cleanup(res.Close)

	if err := res.Migrate(ctx); err != nil {
		t.Fatalf("error migrating postgres database: %s", err)
	}
	return res
}

func deleteTestPriceRecords(t *testing.T, ctx context.Context, store PriceStore, symbol string) {
	t.Helper()
	if _, err := store.DeletePriceRecords(ctx, symbol); err != nil {
		t.Errorf("cleanup price_records for %s failed: %s", symbol, err)
	}
}
