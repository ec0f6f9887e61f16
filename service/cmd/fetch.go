package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	ex "stockreport/data/extensions"
)

type fetchCmd struct {
	symbols string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch daily prices from Alpha Vantage into the store" }
func (*fetchCmd) Usage() string {
	return `stockreport fetch -symbols <A,B>

  Pulls the daily time series of each symbol and stores the bars newer than
  the latest stored date. Requires ALPHAVANTAGE_API_KEY.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbols, "symbols", "", "Comma separated symbols to fetch.")
}

func (c *fetchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var symbols []string
	for _, s := range strings.Split(c.symbols, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -symbols is required")
		return subcommands.ExitUsageError
	}

	sc, closeStore, err := openServiceContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	status := subcommands.ExitSuccess
	for _, symbol := range symbols {
		lastRefreshed, inserted, err := sc.SyncSymbolPriceRecords(ctx, symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", symbol, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s: %d new records, last refreshed %s\n", symbol, inserted, ex.FmtShort(lastRefreshed))
	}
	return status
}
