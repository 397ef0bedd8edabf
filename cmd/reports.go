package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/fundperf"
	"github.com/etnz/fundperf/date"
	"github.com/etnz/fundperf/renderer"
	"github.com/google/subcommands"
)

type statsCmd struct {
	id      string
	periods bool
	daily   bool
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "performance statistics of a fund" }
func (*statsCmd) Usage() string {
	return `fp stats -i <fund> [-periods] [-daily]

  Reconstructs the position of a fund from its trades and prices and prints its performance
  summary: returns, profit, dividends and fees. See "fp topic metrics".
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Fund identifier")
	f.BoolVar(&c.periods, "periods", false, "Also print one summary per investment period")
	f.BoolVar(&c.daily, "daily", false, "Also print the daily statistics")
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.analyst().Instrument(ctx, c.id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", c.id, err)
		return subcommands.ExitFailure
	}
	if !c.periods {
		report.Periods = nil
	}
	md := renderer.InstrumentMarkdown(report, a.config.Currency)
	if c.daily {
		md += "\n" + renderer.StatsMarkdown("Daily", report.Combined.Rows, a.config.Currency)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

type portfolioCmd struct {
	period string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "combined performance of several funds" }
func (*portfolioCmd) Usage() string {
	return `fp portfolio [-period <period>] [fund...]

  Rolls up the positions of several funds, defaulting to the configured instruments or to every
  traded fund, and prints the combined summary and the returns of each period.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", date.Monthly.String(), "Bucket period (day, week, month, quarter, year)")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.analyst().Portfolio(ctx, a.instruments(f.Args()), period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, gap := range report.Issues.DataGaps() {
		a.log.Warn().Str("fund", gap.Instrument).Stringer("date", gap.Date).Msg("trade without price")
	}
	printMarkdown(renderer.PortfolioMarkdown(report, a.config.Currency))
	return subcommands.ExitSuccess
}

type exportCmd struct {
	id     string
	what   string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export statistics, prices or trades as JSONL" }
func (*exportCmd) Usage() string {
	return `fp export -i <fund> [-what stats|prices|trades] [-o <file>]

  Writes the daily statistics, the stored prices or the trades of a fund, one JSON object per line.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Fund identifier")
	f.StringVar(&c.what, "what", "stats", "What to export: stats, prices or trades")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	if err := c.export(ctx, a, w); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting %s of %s: %v\n", c.what, c.id, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *exportCmd) export(ctx context.Context, a *app, w io.Writer) error {
	switch c.what {
	case "stats":
		report, err := a.analyst().Instrument(ctx, c.id)
		if err != nil {
			return err
		}
		return fundperf.EncodeStats(w, report.Combined.Rows)
	case "prices":
		prices, err := a.store.Prices(ctx, c.id, fundperf.AllTime)
		if err != nil {
			return err
		}
		return fundperf.EncodePrices(w, prices)
	case "trades":
		trades, err := a.store.Trades(ctx, c.id, fundperf.AllTime)
		if err != nil {
			return err
		}
		return fundperf.EncodeTrades(w, trades)
	default:
		return fmt.Errorf("unknown export %q", c.what)
	}
}
