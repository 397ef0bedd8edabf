package fundperf

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/fundperf/calendar"
	"github.com/etnz/fundperf/date"
	"github.com/shopspring/decimal"
)

// TradeRequest is a trade as entered by the investor.
type TradeRequest struct {
	Instrument string
	Time       time.Time
	Direction  Direction
	Value      float64 // cash value of the shares, net of Cost
	Cost       float64

	// Price and Quantity are used only when no price exists on the effective date.
	Price    float64
	Quantity float64
	// EffectiveDate overrides the date derived from Time when set.
	EffectiveDate date.Date
}

// Book records trades, pricing them at the net value of their effective date.
type Book struct {
	Calendar *calendar.Calendar
	Prices   PriceSource
	Sink     TradeSink
	Params   Params
}

// Record prices and stores a trade.
//
// The effective date comes from the calendar unless the request sets it. The trade is priced
// at the net value of that date, its quantity is Value/Price. Without a price record, the
// request's own Price and Quantity are used and the entry is marked Override. Without either,
// nothing is stored and a *DataGapError is returned.
func (b *Book) Record(ctx context.Context, req TradeRequest) (TradeEntry, error) {
	log := b.Params.log()
	if req.Instrument == "" {
		return TradeEntry{}, fmt.Errorf("trade has no instrument")
	}
	if req.Value <= 0 || req.Cost < 0 {
		return TradeEntry{}, fmt.Errorf("invalid trade value %g and cost %g", req.Value, req.Cost)
	}

	t := TradeEntry{
		Instrument:    req.Instrument,
		Time:          req.Time,
		EffectiveDate: req.EffectiveDate,
		Direction:     req.Direction,
		Value:         req.Value,
		Cost:          req.Cost,
	}
	if t.EffectiveDate.IsZero() {
		t.EffectiveDate = b.Calendar.EffectiveDate(req.Time)
		if t.EffectiveDate.IsZero() {
			return TradeEntry{}, fmt.Errorf("no trade date after %s", req.Time)
		}
	}

	prices, err := b.Prices.Prices(ctx, req.Instrument, date.Range{From: t.EffectiveDate, To: t.EffectiveDate})
	if err != nil {
		return TradeEntry{}, fmt.Errorf("cannot read price of %s on %s: %w", req.Instrument, t.EffectiveDate, err)
	}
	if p, ok := PriceOn(prices, t.EffectiveDate); ok && p.NetValue > 0 {
		t.Price = p.NetValue
		t.Quantity = decimal.NewFromFloat(req.Value).DivRound(decimal.NewFromFloat(p.NetValue), 4).InexactFloat64()
	} else if req.Price > 0 && req.Quantity > 0 {
		log.Warn().Str("instrument", req.Instrument).Stringer("date", t.EffectiveDate).
			Msg("no price on the effective date, using the given price and quantity")
		t.Price, t.Quantity, t.Override = req.Price, req.Quantity, true
	} else {
		err := &DataGapError{Instrument: req.Instrument, Date: t.EffectiveDate, Direction: req.Direction}
		log.Error().Str("instrument", req.Instrument).Stringer("date", t.EffectiveDate).Msg(err.Error())
		return TradeEntry{}, err
	}

	if err := b.Sink.AddTrade(ctx, t); err != nil {
		return TradeEntry{}, fmt.Errorf("cannot store %s: %w", t, err)
	}
	log.Info().Str("instrument", t.Instrument).Stringer("date", t.EffectiveDate).
		Str("direction", t.Direction.String()).Float64("quantity", t.Quantity).Msg("trade recorded")
	return t, nil
}
