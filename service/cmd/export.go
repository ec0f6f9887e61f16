package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"stockreport/service/core"
)

type exportCmd struct {
	out     string
	period  string
	symbols string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export price records with sector and daily return as CSV" }
func (*exportCmd) Usage() string {
	return `stockreport export [-out <file>] [-period <all|YYYY|YYYY-MM>] [-symbols <A,B>]

  Writes one row per record with its sector and daily return, for BI tools.
  Use -out - to write to stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "master_stock_data.csv", "Output file, - for stdout.")
	f.StringVar(&c.period, "period", "all", "Period to export: all, a year (2024) or a month (2024-03).")
	f.StringVar(&c.symbols, "symbols", "", "Comma separated symbols to restrict the export to.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := core.ParseDashboardQuery(c.period, c.symbols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}

	sc, closeStore, err := openServiceContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	w := os.Stdout
	if c.out != "-" {
		f, err := os.Create(c.out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.out, err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		w = f
	}

	ct, err := sc.ExportCSV(ctx, q, w)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting records: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.out != "-" {
		log.Printf("exported %d records to %s", ct, c.out)
	}
	return subcommands.ExitSuccess
}
