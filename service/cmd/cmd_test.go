package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrices = "Ticker,Date,Open,High,Low,Close,Volume\n" +
	"TCS,2024-01-02,3700,3720,3690,3710,500\n" +
	"TCS,2024-01-03,3710,3760,3700,3750,600\n" +
	"INFY,2024-01-02,1500,1510,1490,1505,800\n" +
	"INFY,2024-01-03,1505,1506,1470,1480,900\n"

func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("SQLITE_PATH", "")

	cfg := "database:\n  driver: sqlite\n  path: " + filepath.Join(dir, "stocks.db") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o600))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "nifty.csv"), []byte(testPrices), 0o600))

	previous := *configPath
	*configPath = filepath.Join(dir, "config.yaml")
	t.Cleanup(func() { *configPath = previous })
	return dir
}

func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

func TestMigrateIngestExport(t *testing.T) {
	dir := setupWorkspace(t)

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &migrateCmd{}))
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &ingestCmd{}, "-dir", filepath.Join(dir, "data")))

	out := filepath.Join(dir, "export.csv")
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &exportCmd{}, "-out", out, "-period", "2024-01"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Symbol,Date,open,high,low,close,volume,Sector,Daily_Return", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "INFY,2024-01-02,"))
	assert.Contains(t, lines[1], ",SOFTWARE,0")

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &reportCmd{}, "-period", "2024", "-raw"))
}

func TestUsageErrors(t *testing.T) {
	setupWorkspace(t)

	assert.Equal(t, subcommands.ExitUsageError, execute(t, &exportCmd{}, "-period", "someday"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &fetchCmd{}))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &ingestCmd{}))
}

func TestRegister(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("stockreport", flag.ContinueOnError), "stockreport")
	Register(commander)

	var names []string
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		names = append(names, c.Name())
	})
	assert.ElementsMatch(t, []string{"serve", "report", "export", "ingest", "fetch", "migrate"}, names)
}
