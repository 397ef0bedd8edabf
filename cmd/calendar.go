package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/fundperf/date"
	"github.com/google/subcommands"
)

type effectiveCmd struct {
	at string
}

func (*effectiveCmd) Name() string     { return "effective" }
func (*effectiveCmd) Synopsis() string { return "trade date of an order placed at a given time" }
func (*effectiveCmd) Usage() string {
	return `fp effective [-t <time>]

  Prints the trade date whose net value prices an order placed at the given time.
`
}

func (c *effectiveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.at, "t", "now", "Order time, RFC3339 or \"2006-01-02 15:04\" in the calendar time zone")
}

func (c *effectiveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	t, err := a.parseTime(c.at)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	fmt.Println(a.calendar.EffectiveDate(t))
	return subcommands.ExitSuccess
}

type nextTradeDateCmd struct {
	day      string
	previous bool
}

func (*nextTradeDateCmd) Name() string     { return "next-trade-date" }
func (*nextTradeDateCmd) Synopsis() string { return "next trade date after a day" }
func (*nextTradeDateCmd) Usage() string {
	return `fp next-trade-date [-d <date>] [-prev]

  Prints the first trade date strictly after the given day, or strictly before it with -prev.
`
}

func (c *nextTradeDateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "Day. Defaults to today.")
	f.BoolVar(&c.previous, "prev", false, "Print the previous trade date instead")
}

func (c *nextTradeDateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	day := date.FromTime(time.Now().In(a.calendar.Location()))
	if c.day != "" {
		if day, err = date.Parse(c.day); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	next, ok := a.calendar.NextTradeDate(day)
	if c.previous {
		next, ok = a.calendar.PreviousTradeDate(day)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no trade date found around %s\n", day)
		return subcommands.ExitFailure
	}
	fmt.Println(next)
	return subcommands.ExitSuccess
}
