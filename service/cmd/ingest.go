package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type ingestCmd struct {
	dir string
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "load CSV and YAML price files into the store" }
func (*ingestCmd) Usage() string {
	return `stockreport ingest [-dir <path>]

  Parses every .csv, .yaml and .yml file under the directory and inserts the
  records. Rows already stored for a symbol and date are skipped.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Directory of source files. Defaults to the configured ingest directory.")
}

func (c *ingestCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sc, closeStore, err := openServiceContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	dir := c.dir
	if dir == "" {
		dir = sc.Config.Ingest.Dir
	}
	if dir == "" {
		fmt.Fprintln(os.Stderr, "Error: no directory given, use -dir or set ingest.dir")
		return subcommands.ExitUsageError
	}

	summary, err := sc.Ingest(ctx, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error ingesting %q: %v\n", dir, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("files: %d (failed %d), records: %d, dropped: %d, non trading days: %d, inserted: %d\n",
		summary.Files, summary.FailedFiles, summary.Records, summary.Dropped, summary.NonTradingDays, summary.Inserted)
	return subcommands.ExitSuccess
}
