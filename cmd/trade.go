package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundperf"
	"github.com/etnz/fundperf/date"
	"github.com/etnz/fundperf/renderer"
	"github.com/google/subcommands"
)

// tradeCmd records a buy or a sell, depending on its direction.
type tradeCmd struct {
	direction fundperf.Direction

	id        string
	at        string
	effective string
	value     float64
	cost      float64
	price     float64
	quantity  float64
}

func (c *tradeCmd) Name() string { return c.direction.String() }
func (c *tradeCmd) Synopsis() string {
	return fmt.Sprintf("record a %s order priced at the net value of its trade date", c.direction)
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`fp %s -i <fund> -value <amount> [-cost <fee>] [-t <time>] [-effective <date>] [-price <nav> -quantity <shares>]

  Records an order. The trade date is the order time's trade date when placed before the close,
  the next trade date otherwise. The order is priced at the net value of that date. When no net
  value is known yet, -price and -quantity are used instead.
`, c.direction)
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Fund identifier")
	f.StringVar(&c.at, "t", "now", "Order time, RFC3339 or \"2006-01-02 15:04\" in the calendar time zone")
	f.StringVar(&c.effective, "effective", "", "Effective trade date, overrides the one derived from -t")
	f.Float64Var(&c.value, "value", 0, "Cash value of the shares, fees excluded")
	f.Float64Var(&c.cost, "cost", 0, "Fees")
	f.Float64Var(&c.price, "price", 0, "Net value used when none is known for the trade date")
	f.Float64Var(&c.quantity, "quantity", 0, "Shares used when no net value is known for the trade date")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || c.value <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -i and a positive -value are required")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	req := fundperf.TradeRequest{
		Instrument: c.id,
		Direction:  c.direction,
		Value:      c.value,
		Cost:       c.cost,
		Price:      c.price,
		Quantity:   c.quantity,
	}
	if req.Time, err = a.parseTime(c.at); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.effective != "" {
		if req.EffectiveDate, err = date.Parse(c.effective); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing effective date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	book := &fundperf.Book{Calendar: a.calendar, Prices: a.store, Sink: a.store, Params: a.params()}
	entry, err := book.Record(ctx, req)
	var gap *fundperf.DataGapError
	if errors.As(err, &gap) {
		fmt.Fprintf(os.Stderr, "Error: %v, import the prices or pass -price and -quantity\n", err)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording trade: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s\n", entry)
	return subcommands.ExitSuccess
}

type tradesCmd struct {
	id string
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list the trade book" }
func (*tradesCmd) Usage() string {
	return `fp trades [-i <fund>]

  Lists the trades of a fund, or of every fund, in trade date order.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "i", "", "Fund identifier. Defaults to every fund.")
}

func (c *tradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	ids := []string{c.id}
	if c.id == "" {
		if ids, err = a.store.Instruments(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing funds: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	var trades []fundperf.TradeEntry
	for _, id := range ids {
		list, err := a.store.Trades(ctx, id, fundperf.AllTime)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading trades of %s: %v\n", id, err)
			return subcommands.ExitFailure
		}
		trades = append(trades, list...)
	}
	printMarkdown(renderer.TradesMarkdown(trades, a.config.Currency))
	return subcommands.ExitSuccess
}
