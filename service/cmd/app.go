// Package cmd implements the command line of the stock report service.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	r "stockreport/data/repos"
	av "stockreport/service/api/alpha_vantage"
	"stockreport/service/config"
	"stockreport/service/core"
	"stockreport/service/render"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&serveCmd{}, "server")
	c.Register(&reportCmd{}, "report")
	c.Register(&exportCmd{}, "report")

	c.Register(&ingestCmd{}, "data")
	c.Register(&fetchCmd{}, "data")
	c.Register(&migrateCmd{}, "data")
}

// as a CLI application the lifecycle is short, a global flag is fine
var configPath = flag.String("config", config.DefaultPath, "Path to the YAML configuration file")

// openServiceContext loads the configuration and opens the store. The returned func closes the store.
func openServiceContext(ctx context.Context) (*core.ServiceContext, func(), error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, err
	}

	store, err := r.Open(ctx, cfg.Database.Driver, cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sc := &core.ServiceContext{
		Store:              store,
		AlphaVantageClient: av.GetClient(cfg.AlphaVantage.APIKey, cfg.AlphaVantage.Timeout),
		Config:             cfg,
	}
	return sc, store.Close, nil
}

// printMarkdown styles markdown for the terminal, and falls back to the raw text
func printMarkdown(markdown string) {
	out, err := render.Terminal(markdown)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering markdown: %v\n", err)
		out = markdown
	}
	fmt.Print(out)
}
