package fundperf

import (
	"math"
	"slices"

	"github.com/etnz/fundperf/date"
	"github.com/rs/zerolog"
)

// PositionDay is the state of a position at the close of one price date.
//
// Flows follow the investor's virtual cash account: CashFlow is positive when cash comes out of
// the position (dividends, sells) and negative when cash is deployed into it.
type PositionDay struct {
	Date       date.Date
	NetValue   float64
	Dividend   float64 // per share
	SplitRatio float64

	Shares           float64
	SharesDelta      float64
	MarketValue      float64
	Gain             float64
	DividendReceived float64
	Cost             float64
	CashFlow         float64

	// Investment and Withdrawal are the trade principal flows, without cost or dividends.
	Investment float64
	Withdrawal float64
}

// Position is the reconstructed daily ledger of one instrument.
type Position struct {
	Instrument string
	Days       []PositionDay
	Issues     Issues
}

// Reconstruct builds the daily ledger of an instrument from its date-ordered prices and trades.
//
// The ledger has one day per price date starting at the earliest trade's effective date, and
// follows
//
//	Shares[t] = Shares[t-1]*SplitRatio[t] + SharesDelta[t]
//	CashFlow[t] = DividendReceived[t] - NetValue[t]*SharesDelta[t] - Cost[t]
//
// A trade whose effective date has no price is skipped with a *DataGapError, unless it is an
// Override trade, which is applied on the next price date at its own Price. Neither input is
// modified.
func Reconstruct(prices []PriceRecord, trades []TradeEntry, p Params) Position {
	log := p.log()
	pos := Position{}
	if len(trades) == 0 {
		return pos
	}
	pos.Instrument = trades[0].Instrument

	start := trades[0].EffectiveDate
	for _, t := range trades[1:] {
		if t.EffectiveDate.Before(start) {
			start = t.EffectiveDate
		}
	}
	first := searchPrices(prices, start)
	if first == len(prices) {
		for _, t := range trades {
			pos.Issues = append(pos.Issues, gap(log, t))
		}
		return pos
	}
	prices = prices[first:]

	delta := make([]float64, len(prices))
	principal := make([]float64, len(prices))
	cost := make([]float64, len(prices))
	for _, t := range trades {
		i := searchPrices(prices, t.EffectiveDate)
		price := 0.0
		switch {
		case i < len(prices) && prices[i].Date == t.EffectiveDate:
			price = prices[i].NetValue
		case i < len(prices) && t.Override:
			log.Warn().Str("instrument", t.Instrument).Stringer("date", t.EffectiveDate).Stringer("on", prices[i].Date).
				Msgf("no price for %s, override applied on the next price date", t.Direction)
			price = t.Price
			if math.IsNaN(price) {
				price = prices[i].NetValue
			}
		default:
			pos.Issues = append(pos.Issues, gap(log, t))
			continue
		}
		delta[i] += t.SignedQuantity()
		principal[i] += price * t.SignedQuantity()
		cost[i] += t.Cost
	}

	pos.Days = make([]PositionDay, len(prices))
	shares := 0.0
	for i, pr := range prices {
		prev := shares
		shares = prev*pr.SplitRatio + delta[i]
		if math.Abs(shares) < p.RoundingEpsilon {
			shares = 0
		}

		day := PositionDay{
			Date:        pr.Date,
			NetValue:    pr.NetValue,
			Dividend:    pr.Dividend,
			SplitRatio:  pr.SplitRatio,
			Shares:      shares,
			SharesDelta: delta[i],
			MarketValue: pr.NetValue * shares,
			Cost:        cost[i],
		}
		if prev != 0 {
			day.Gain = pr.Gain * prev
			day.DividendReceived = pr.Dividend * prev
		}
		traded := principal[i]
		day.CashFlow = day.DividendReceived - traded - day.Cost
		day.Investment = math.Max(traded, 0)
		day.Withdrawal = math.Max(-traded, 0)
		pos.Days[i] = day
	}
	return pos
}

// gap logs and returns the price gap of a skipped trade.
func gap(log *zerolog.Logger, t TradeEntry) error {
	err := &DataGapError{Instrument: t.Instrument, Date: t.EffectiveDate, Direction: t.Direction}
	log.Error().Str("instrument", t.Instrument).Stringer("date", t.EffectiveDate).Float64("value", t.Value).Msg(err.Error())
	return err
}

// Dates returns the dates of a ledger.
func Dates(days []PositionDay) []date.Date {
	dates := make([]date.Date, len(days))
	for i, d := range days {
		dates[i] = d.Date
	}
	return dates
}

// Between returns the days of a ledger within r.
func Between(days []PositionDay, r date.Range) []PositionDay {
	from := slices.IndexFunc(days, func(d PositionDay) bool { return !d.Date.Before(r.From) })
	if from < 0 {
		return nil
	}
	to := from
	for to < len(days) && !days[to].Date.After(r.To) {
		to++
	}
	return days[from:to]
}
