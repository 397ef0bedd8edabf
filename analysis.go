package fundperf

import (
	"context"
	"fmt"
	"runtime"

	"github.com/etnz/fundperf/date"
	"golang.org/x/sync/errgroup"
)

// Analyst computes reports from a price and a trade source.
type Analyst struct {
	Prices PriceSource
	Trades TradeSource
	Params Params
}

// InstrumentReport is the analysis of one instrument.
type InstrumentReport struct {
	Position Position
	Combined Statistics   // over the whole ledger
	Periods  []Statistics // one per investment period
}

// PortfolioReport is the analysis of several instruments rolled up.
type PortfolioReport struct {
	Instruments []string
	Positions   []Position
	Combined    Statistics
	Buckets     []PeriodPerformance
	Issues      Issues
}

// Instrument loads and analyzes one instrument.
func (a *Analyst) Instrument(ctx context.Context, id string) (*InstrumentReport, error) {
	pos, err := a.position(ctx, id)
	if err != nil {
		return nil, err
	}
	return AnalyzePosition(pos, a.Params), nil
}

// AnalyzePosition computes the combined and per period statistics of a reconstructed position.
func AnalyzePosition(pos Position, p Params) *InstrumentReport {
	r := &InstrumentReport{Position: pos, Combined: Analyze(pos.Days, p)}
	for _, days := range Periods(pos.Days, p) {
		r.Periods = append(r.Periods, Analyze(days, p))
	}
	return r
}

// Portfolio reconstructs the instruments concurrently, rolls them up and buckets the combined
// ledger by period. Without ids, every traded instrument is used.
func (a *Analyst) Portfolio(ctx context.Context, ids []string, period date.Period) (*PortfolioReport, error) {
	if len(ids) == 0 {
		var err error
		if ids, err = a.Trades.Instruments(ctx); err != nil {
			return nil, fmt.Errorf("cannot list instruments: %w", err)
		}
	}

	positions := make([]Position, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range ids {
		g.Go(func() error {
			pos, err := a.position(ctx, id)
			if err != nil {
				return err
			}
			positions[i] = pos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &PortfolioReport{Instruments: ids, Positions: positions}
	ledgers := make([][]PositionDay, len(positions))
	for i, pos := range positions {
		ledgers[i] = pos.Days
		report.Issues = append(report.Issues, pos.Issues...)
	}
	report.Combined = Analyze(Combine(ledgers...), a.Params)
	report.Buckets = Bucket(report.Combined.Rows, period)
	return report, nil
}

// position loads the trades and prices of id and reconstructs its ledger.
func (a *Analyst) position(ctx context.Context, id string) (Position, error) {
	trades, err := a.Trades.Trades(ctx, id, AllTime)
	if err != nil {
		return Position{}, fmt.Errorf("cannot read trades of %s: %w", id, err)
	}
	prices, err := a.Prices.Prices(ctx, id, AllTime)
	if err != nil {
		return Position{}, fmt.Errorf("cannot read prices of %s: %w", id, err)
	}
	pos := Reconstruct(prices, trades, a.Params)
	pos.Instrument = id
	return pos, nil
}
