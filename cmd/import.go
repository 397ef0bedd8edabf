package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundperf"
	"github.com/etnz/fundperf/renderer"
	"github.com/google/subcommands"
)

type importFeedCmd struct {
	id    string
	cache string
}

func (*importFeedCmd) Name() string     { return "import-feed" }
func (*importFeedCmd) Synopsis() string { return "normalize and store a provider price feed" }
func (*importFeedCmd) Usage() string {
	return `fp import-feed -i <fund> [<file.json>|<url>]

  Reads the net values, cumulative values, dividends and splits of a fund from a provider JSON
  document, derives the daily gains and stores the price history. The published and implied gains
  are reconciled and the outcome is printed.

  Without a file or URL, the document is fetched from the feeds.url configuration template.
  Fetched documents are cached for the day.
`
}

func (c *importFeedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Fund identifier")
	f.StringVar(&c.cache, "cache", "", "Directory caching fetched documents. Defaults to the temporary directory.")
}

func (c *importFeedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: -i and at most one feed location are required")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	location := f.Arg(0)
	if location == "" {
		location = fundperf.FeedURL(a.config.Feeds.URL, c.id)
	}
	if location == "" {
		fmt.Fprintln(os.Stderr, "Error: no feed file and no feeds.url configured")
		return subcommands.ExitUsageError
	}

	feeds, err := c.read(ctx, a, location)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading feed %q: %v\n", location, err)
		return subcommands.ExitFailure
	}
	n := fundperf.Normalize(feeds, a.params())
	if err := a.store.PutPrices(ctx, c.id, n.Records); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing prices: %v\n", err)
		return subcommands.ExitFailure
	}
	a.log.Info().Str("fund", c.id).Int("records", len(n.Records)).Msg("prices imported")
	printMarkdown(renderer.NormalizedMarkdown(c.id, n))
	return subcommands.ExitSuccess
}

func (c *importFeedCmd) read(ctx context.Context, a *app, location string) (fundperf.Feeds, error) {
	if fundperf.IsURL(location) {
		return fundperf.FetchFeeds(ctx, fundperf.NewFeedClient(c.cache, &a.log), location, a.config.Feeds)
	}
	file, err := os.Open(location)
	if err != nil {
		return fundperf.Feeds{}, err
	}
	defer file.Close()
	return fundperf.DecodeFeeds(file, a.config.Feeds)
}

type importPricesCmd struct {
	id string
}

func (*importPricesCmd) Name() string     { return "import-prices" }
func (*importPricesCmd) Synopsis() string { return "store a JSONL price history" }
func (*importPricesCmd) Usage() string {
	return `fp import-prices -i <fund> <file.jsonl>

  Stores a price history, one JSON object per line. Existing dates are replaced.
`
}

func (c *importPricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Fund identifier")
}

func (c *importPricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: -i and one price file are required")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening prices: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	prices, err := fundperf.DecodePrices(file, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.store.PutPrices(ctx, c.id, prices); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing prices: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d prices for %s\n", len(prices), c.id)
	return subcommands.ExitSuccess
}

type importTradesCmd struct{}

func (*importTradesCmd) Name() string     { return "import-trades" }
func (*importTradesCmd) Synopsis() string { return "append a JSONL trade ledger to the trade book" }
func (*importTradesCmd) Usage() string {
	return `fp import-trades <file.jsonl>

  Appends trades, one JSON object per line, to the trade book. Trades are stored as is, their
  price and quantity are not looked up. Either every trade of the file is stored or none is.
`
}

func (c *importTradesCmd) SetFlags(f *flag.FlagSet) {}

func (c *importTradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: one trade file is required")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trades: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	trades, err := fundperf.DecodeTrades(file, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.store.AddTrades(ctx, trades); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing trades, none imported: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d trades\n", len(trades))
	return subcommands.ExitSuccess
}
