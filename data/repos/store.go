package repos

import (
	"context"
	"fmt"
	"strings"
	"time"

	m "stockreport/data/models"
)

// PriceStore is the read/bulk-load surface the reporting layer needs from a database.
type PriceStore interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()

	GetPriceRecords(ctx context.Context, filter m.PriceFilter) ([]*m.PriceRecord, error)
	GetSymbols(ctx context.Context) ([]string, error)
	GetMonths(ctx context.Context) ([]string, error)
	GetMostRecentDate(ctx context.Context, symbol string) (*time.Time, error)

	InsertPriceRecords(ctx context.Context, records []*m.PriceRecord) (int64, error)
	DeletePriceRecords(ctx context.Context, symbol string) (int64, error)
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open returns the store for the given driver, pinged and ready to use
func Open(ctx context.Context, driver, dsn string) (PriceStore, error) {
	switch strings.ToLower(driver) {
	case DriverPostgres:
		pg, err := GetPostgresConnection(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case DriverSQLite, "":
		lite, err := GetSQLiteConnection(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return lite, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// normalizeSymbols trims and upper cases, and never returns nil so it binds as an empty array
func normalizeSymbols(symbols []string) []string {
	res := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			res = append(res, s)
		}
	}
	return res
}
