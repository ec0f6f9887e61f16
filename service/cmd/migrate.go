package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create the price_records table if it does not exist" }
func (*migrateCmd) Usage() string {
	return `stockreport migrate

  Creates the schema of the configured store. Safe to run more than once.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sc, closeStore, err := openServiceContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if err := sc.Store.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error migrating store: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s store is up to date\n", sc.Config.Database.Driver)
	return subcommands.ExitSuccess
}
