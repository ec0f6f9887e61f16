package queries

import (
	"embed"
	"fmt"
)

//go:embed postgres/*/*.sql sqlite/*/*.sql
var Files embed.FS

// ^^^ the go:embed directive is used to embed the files in the queries package
// meaning on compile time it will convert the files to binary data and embed it in the queries package

type CreateQueries struct {
	PriceRecords        string
	PriceRecordsStaging string
}

type DeleteQueries struct {
	PriceRecordsBySymbol string
}

type InsertQueries struct {
	PriceRecord             string
	PriceRecordsFromStaging string
}

type SelectQueries struct {
	Months                 string
	MostRecentDateBySymbol string
	PriceRecords           string
	Symbols                string
}

// DialectQueries are the statements for one database engine. Not every dialect needs every statement.
type DialectQueries struct {
	Create CreateQueries
	Delete DeleteQueries
	Insert InsertQueries
	Select SelectQueries
}

type QueryHelperStruct struct {
	Postgres DialectQueries
	SQLite   DialectQueries
}

var QueryHelper = QueryHelperStruct{
	Postgres: DialectQueries{
		Create: CreateQueries{
			PriceRecords:        "postgres/create/price_records.sql",
			PriceRecordsStaging: "postgres/create/price_records_staging.sql",
		},
		Delete: DeleteQueries{
			PriceRecordsBySymbol: "postgres/delete/price_records_by_symbol.sql",
		},
		Insert: InsertQueries{
			PriceRecordsFromStaging: "postgres/insert/price_records_from_staging.sql",
		},
		Select: SelectQueries{
			Months:                 "postgres/select/months.sql",
			MostRecentDateBySymbol: "postgres/select/most_recent_date_by_symbol.sql",
			PriceRecords:           "postgres/select/price_records.sql",
			Symbols:                "postgres/select/symbols.sql",
		},
	},
	SQLite: DialectQueries{
		Create: CreateQueries{
			PriceRecords: "sqlite/create/price_records.sql",
		},
		Delete: DeleteQueries{
			PriceRecordsBySymbol: "sqlite/delete/price_records_by_symbol.sql",
		},
		Insert: InsertQueries{
			PriceRecord: "sqlite/insert/price_record.sql",
		},
		Select: SelectQueries{
			Months:                 "sqlite/select/months.sql",
			MostRecentDateBySymbol: "sqlite/select/most_recent_date_by_symbol.sql",
			PriceRecords:           "sqlite/select/price_records.sql",
			Symbols:                "sqlite/select/symbols.sql",
		},
	},
}

func Get(path string) string {
	content, err := Files.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("error reading query file: %w", err))
	}

	return string(content)
}
