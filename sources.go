package fundperf

import (
	"context"

	"github.com/etnz/fundperf/date"
)

// PriceSource provides the normalized price history of instruments.
type PriceSource interface {
	// Prices returns the date-ordered records of instrument within r.
	Prices(ctx context.Context, instrument string, r date.Range) ([]PriceRecord, error)
}

// TradeSource provides the trade ledger.
type TradeSource interface {
	// Trades returns the trades of instrument whose effective date is within r.
	Trades(ctx context.Context, instrument string, r date.Range) ([]TradeEntry, error)
	// Instruments returns every instrument with at least one trade.
	Instruments(ctx context.Context) ([]string, error)
}

// TradeSink stores new trades.
type TradeSink interface {
	AddTrade(ctx context.Context, t TradeEntry) error
}

// AllTime is a range covering any date of interest.
var AllTime = date.Range{From: date.New(1900, 1, 1), To: date.New(9999, 12, 31)}
