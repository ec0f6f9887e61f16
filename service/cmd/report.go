package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	dm "stockreport/data/models"
	"stockreport/service/core"
	"stockreport/service/render"
)

type reportCmd struct {
	period  string
	symbols string
	raw     bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the performance dashboard in the terminal" }
func (*reportCmd) Usage() string {
	return `stockreport report [-period <all|YYYY|YYYY-MM>] [-symbols <A,B>] [-raw]

  Displays the market summary, gainers and losers, risk, sectors, cumulative
  returns, correlation and monthly rankings for the selected period.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "Period to report on: all, a year (2024) or a month (2024-03). Defaults to the configured period.")
	f.StringVar(&c.symbols, "symbols", "", "Comma separated symbols to restrict the report to.")
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown instead of the styled terminal output.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sc, closeStore, err := openServiceContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	period := c.period
	if period == "" {
		period = sc.Config.Report.DefaultPeriod
	}

	q, err := core.ParseDashboardQuery(period, c.symbols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}

	d, err := sc.BuildDashboard(ctx, q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building dashboard: %v\n", err)
		if errors.Is(err, dm.ErrInvalidPeriod) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	markdown := render.DashboardMarkdown(d)
	if c.raw {
		fmt.Print(markdown)
		return subcommands.ExitSuccess
	}

	printMarkdown(markdown)
	return subcommands.ExitSuccess
}
