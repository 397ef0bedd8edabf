package fundperf

import (
	"math"
	"testing"

	"github.com/etnz/fundperf/date"
	"github.com/stretchr/testify/assert"
)

// day0 is a monday.
var day0 = date.MustParse("2025-03-03")

// navs returns consecutive daily price records starting at day0 with a per-share gain derived
// from the net values. Dividend and split are neutral.
func navs(values ...float64) []PriceRecord {
	prices := make([]PriceRecord, len(values))
	for i, v := range values {
		prices[i] = PriceRecord{Date: day0.Add(i), NetValue: v, SplitRatio: 1}
		if i > 0 {
			prices[i].Gain = v - values[i-1]
		}
	}
	return prices
}

// trade returns a trade priced at the net value of its day.
func trade(prices []PriceRecord, i int, dir Direction, quantity, cost float64) TradeEntry {
	return TradeEntry{
		Instrument:    "F1",
		EffectiveDate: prices[i].Date,
		Direction:     dir,
		Price:         prices[i].NetValue,
		Quantity:      quantity,
		Value:         prices[i].NetValue * quantity,
		Cost:          cost,
	}
}

// assertFloats compares two series of floats within delta, NaN matching NaN.
func assertFloats(t *testing.T, want, got []float64, msg string) {
	t.Helper()
	if !assert.Len(t, got, len(want), msg) {
		return
	}
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "%s[%d] = %v, want NaN", msg, i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-9, "%s[%d]", msg, i)
	}
}

func column[T any](rows []T, f func(T) float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = f(r)
	}
	return out
}
