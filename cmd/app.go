// Package cmd implements the fp command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/fundperf"
	"github.com/etnz/fundperf/calendar"
	"github.com/etnz/fundperf/store"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importFeedCmd{}, "data")
	c.Register(&importPricesCmd{}, "data")
	c.Register(&importTradesCmd{}, "data")

	c.Register(&tradeCmd{direction: fundperf.Buy}, "trades")
	c.Register(&tradeCmd{direction: fundperf.Sell}, "trades")
	c.Register(&tradesCmd{}, "trades")

	c.Register(&statsCmd{}, "reports")
	c.Register(&portfolioCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")

	c.Register(&effectiveCmd{}, "calendar")
	c.Register(&nextTradeDateCmd{}, "calendar")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", "", "Path to the configuration file. Defaults to $"+fundperf.EnvConfig+" or fundperf.toml")
var dbPath = flag.String("db", "", "Path to the SQLite database, overrides the configuration")
var verbose = flag.Bool("v", false, "Log debug messages")

// app is the environment shared by the subcommands.
type app struct {
	config   *fundperf.Config
	log      zerolog.Logger
	calendar *calendar.Calendar
	store    *store.Store
}

// loadApp reads the .env file and the configuration, and sets up the logger and the calendar.
func loadApp() (*app, error) {
	// a missing .env file is fine.
	_ = godotenv.Load()

	path := *configPath
	if path == "" {
		path = os.Getenv(fundperf.EnvConfig)
	}
	if path == "" {
		path = "fundperf.toml"
	}
	config, err := fundperf.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(os.LookupEnv)
	if *dbPath != "" {
		config.Storage.Path = *dbPath
	}

	level, err := zerolog.ParseLevel(strings.ToLower(config.Logging.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.Logging.Level, err)
	}
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	cal, err := calendar.Parse(config.Calendar.Holidays, config.Calendar.CloseHour, config.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar configuration: %w", err)
	}
	logger.Debug().Str("config", path).Str("db", config.Storage.Path).Msg("configuration loaded")
	return &app{config: config, log: logger, calendar: cal}, nil
}

// openApp loads the app and opens its database.
func openApp() (*app, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	if a.store, err = store.Open(a.config.Storage.Path); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// params returns the analysis parameters, logging through the app logger.
func (a *app) params() fundperf.Params {
	return a.config.Analysis.WithLogger(a.log)
}

func (a *app) analyst() *fundperf.Analyst {
	return &fundperf.Analyst{Prices: a.store, Trades: a.store, Params: a.params()}
}

// instruments returns ids, or the configured watch list, or every traded instrument.
func (a *app) instruments(ids []string) []string {
	if len(ids) > 0 {
		return ids
	}
	return a.config.Instruments
}

// parseTime reads "now", an RFC3339 time, or a date-time in the calendar's location.
func (a *app) parseTime(s string) (time.Time, error) {
	if s == "" || s == "now" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, a.calendar.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, use RFC3339, \"2006-01-02 15:04\" or now", s)
}
