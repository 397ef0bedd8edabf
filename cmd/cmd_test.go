package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/fundperf"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run parses args into the command's flags and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

// workspace moves to a fresh directory with its own database.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	*dbPath = filepath.Join(dir, "test.db")
	t.Cleanup(func() { *dbPath = "" })
	return dir
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestImportAndExport(t *testing.T) {
	workspace(t)
	prices := write(t, "prices.jsonl", `{"date":"2025-03-03","net_value":1.0,"full_value":1.0}
{"date":"2025-03-04","net_value":1.1,"full_value":1.1}
{"date":"2025-03-05","net_value":1.2,"full_value":1.2}
`)
	trades := write(t, "trades.jsonl", `{"fund":"F1","effective":"2025-03-03","event":"buy","value":100,"price":1,"amount":100}
`)
	assert.Equal(t, subcommands.ExitSuccess, run(t, &importPricesCmd{}, "-i", "F1", prices))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &importTradesCmd{}, trades))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &statsCmd{}, "-i", "F1", "-periods", "-daily"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &portfolioCmd{}, "-period", "week"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &tradesCmd{}))

	assert.Equal(t, subcommands.ExitSuccess, run(t, &exportCmd{}, "-i", "F1", "-o", "stats.jsonl"))
	content, err := os.ReadFile("stats.jsonl")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], `"shares":100`)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &exportCmd{}, "-i", "F1", "-what", "trades", "-o", "out.jsonl"))
	out, err := os.Open("out.jsonl")
	require.NoError(t, err)
	defer out.Close()
	got, err := fundperf.DecodeTrades(out, "out.jsonl")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].Quantity)
}

func TestTrade(t *testing.T) {
	workspace(t)
	prices := write(t, "prices.jsonl", `{"date":"2025-03-03","net_value":1.25,"full_value":1.25}
`)
	require.Equal(t, subcommands.ExitSuccess, run(t, &importPricesCmd{}, "-i", "F1", prices))

	buy := &tradeCmd{direction: fundperf.Buy}
	assert.Equal(t, "buy", buy.Name())
	assert.Equal(t, subcommands.ExitSuccess, run(t, buy, "-i", "F1", "-value", "100", "-t", "2025-03-03T10:00:00+08:00"))
	assert.Equal(t, subcommands.ExitFailure, run(t, buy, "-i", "F1", "-value", "100", "-t", "2025-03-10T10:00:00+08:00"), "no price")
	assert.Equal(t, subcommands.ExitSuccess, run(t, buy, "-i", "F1", "-value", "100", "-effective", "2025-03-10", "-price", "1.3", "-quantity", "76.92"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, buy, "-i", "F1"))
}

func TestUsageErrors(t *testing.T) {
	workspace(t)
	assert.Equal(t, subcommands.ExitUsageError, run(t, &importFeedCmd{}, "feed.json"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &statsCmd{}))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &portfolioCmd{}, "-period", "decade"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &effectiveCmd{}, "-t", "yesterday"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &topicCmd{}, "nope"))
}

func TestImportFeed(t *testing.T) {
	workspace(t)
	feed := write(t, "feed.json", `{
  "net_value": [{"date": "2025-03-03", "value": 1.0}, {"date": "2025-03-04", "value": 1.1}],
  "cumulative_value": [{"date": "2025-03-03", "value": 1.0}, {"date": "2025-03-04", "value": 1.1}],
  "dividends": [],
  "splits": []
}`)
	assert.Equal(t, subcommands.ExitSuccess, run(t, &importFeedCmd{}, "-i", "F1", feed))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &exportCmd{}, "-i", "F1", "-what", "prices", "-o", "prices.jsonl"))
	content, err := os.ReadFile("prices.jsonl")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(content), "\n"))
}

func TestConfigFile(t *testing.T) {
	dir := workspace(t)
	write(t, "fundperf.toml", `
[calendar]
close_hour = 14
timezone = "UTC"
holidays = ["2025-03-04"]
`)
	a, err := loadApp()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test.db"), a.config.Storage.Path, "-db wins")
	assert.Equal(t, 14, a.calendar.CloseHour())

	tm, err := a.parseTime("2025-03-03 14:30")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-05", a.calendar.EffectiveDate(tm).String(), "after the close, skipping the holiday")
	assert.Equal(t, subcommands.ExitSuccess, run(t, &nextTradeDateCmd{}, "-d", "2025-03-03"))
}
