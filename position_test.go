package fundperf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstruct_SharesRecurrence(t *testing.T) {
	prices := navs(1.0, 1.1, 1.2, 0.6, 0.62, 0.65)
	prices[3].SplitRatio = 2
	prices[3].Gain = 0.6*2 - 1.2
	trades := []TradeEntry{
		trade(prices, 1, Buy, 1000, 1.5),
		trade(prices, 2, Buy, 500, 0),
		trade(prices, 4, Sell, 1200, 2),
	}

	pos := Reconstruct(prices, trades, DefaultParams())
	require.Empty(t, pos.Issues)
	require.Len(t, pos.Days, 5, "the ledger starts on the first trade")
	assert.Equal(t, prices[1].Date, pos.Days[0].Date)

	prev := 0.0
	for i, d := range pos.Days {
		assert.InDelta(t, prev*d.SplitRatio+d.SharesDelta, d.Shares, 1e-9, "shares[%d]", i)
		assert.InDelta(t, d.NetValue*d.Shares, d.MarketValue, 1e-9, "market value[%d]", i)
		prev = d.Shares
	}
	assertFloats(t, []float64{1000, 1500, 3000, 1800, 1800}, column(pos.Days, func(d PositionDay) float64 { return d.Shares }), "shares")
	// gain is computed on the previous holding.
	assertFloats(t, []float64{0, 100, 0, 60, 54}, column(pos.Days, func(d PositionDay) float64 { return d.Gain }), "gain")
}

func TestReconstruct_CashFlowSign(t *testing.T) {
	prices := navs(2, 2, 2.5)
	trades := []TradeEntry{
		trade(prices, 0, Buy, 100, 3),
		trade(prices, 2, Sell, 100, 4),
	}

	pos := Reconstruct(prices, trades, DefaultParams())
	require.Len(t, pos.Days, 3)

	buy, sell := pos.Days[0], pos.Days[2]
	assert.InDelta(t, -trades[0].Value-trades[0].Cost, buy.CashFlow, 1e-9)
	assert.InDelta(t, trades[1].Value-trades[1].Cost, sell.CashFlow, 1e-9)
	assert.Equal(t, 200.0, buy.Investment)
	assert.Equal(t, 0.0, buy.Withdrawal)
	assert.Equal(t, 250.0, sell.Withdrawal)
	assert.Equal(t, 0.0, sell.Shares)
	assert.Equal(t, 0.0, pos.Days[1].CashFlow)
}

func TestReconstruct_Dividend(t *testing.T) {
	prices := navs(1, 1, 1)
	prices[2].Dividend = 0.05
	prices[2].Gain = 0.05

	pos := Reconstruct(prices, []TradeEntry{trade(prices, 0, Buy, 1000, 0)}, DefaultParams())
	d := pos.Days[2]
	assert.InDelta(t, 50, d.DividendReceived, 1e-9)
	assert.InDelta(t, 50, d.CashFlow, 1e-9, "a dividend is an inflow")
	assert.InDelta(t, 50, d.Gain, 1e-9)
}

func TestReconstruct_RoundingSnap(t *testing.T) {
	prices := navs(3, 3)
	trades := []TradeEntry{
		trade(prices, 0, Buy, 100, 0),
		trade(prices, 1, Sell, 99.6, 0),
	}
	pos := Reconstruct(prices, trades, DefaultParams())
	assert.Equal(t, 0.0, pos.Days[1].Shares)
	assert.Equal(t, 0.0, pos.Days[1].MarketValue)
}

func TestReconstruct_DataGap(t *testing.T) {
	prices := navs(1, 1, 1, 1)
	// drop the price of the third day
	prices = append(prices[:2:2], prices[3:]...)

	missing := TradeEntry{Instrument: "F1", EffectiveDate: day0.Add(2), Direction: Buy, Quantity: 10, Value: 10}
	override := missing
	override.Override = true

	testCases := []struct {
		name       string
		trade      TradeEntry
		wantShares float64
		wantIssues int
	}{
		{"skipped without override", missing, 100, 1},
		{"applied on the next price with override", override, 110, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trades := []TradeEntry{trade(prices, 0, Buy, 100, 0), tc.trade}
			pos := Reconstruct(prices, trades, DefaultParams())

			require.Len(t, pos.Days, 3)
			assert.Equal(t, tc.wantShares, pos.Days[2].Shares)
			assert.Len(t, pos.Issues, tc.wantIssues)
			if tc.wantIssues > 0 {
				gaps := pos.Issues.DataGaps()
				require.Len(t, gaps, 1)
				assert.Equal(t, day0.Add(2), gaps[0].Date)
			}
		})
	}
}

func TestReconstruct_OverridePrincipal(t *testing.T) {
	prices := navs(1, 1, 1.5)
	prices = append(prices[:1:1], prices[2:]...)

	override := TradeEntry{Instrument: "F1", EffectiveDate: day0.Add(1), Direction: Buy,
		Price: 1.25, Quantity: 10, Value: 12.5, Cost: 0.5, Override: true}
	pos := Reconstruct(prices, []TradeEntry{trade(prices, 0, Buy, 100, 0), override}, DefaultParams())

	require.Len(t, pos.Days, 2)
	require.Empty(t, pos.Issues)
	day := pos.Days[1]
	assert.Equal(t, 110.0, day.Shares)
	assert.InDelta(t, -(override.Value + override.Cost), day.CashFlow, 1e-12)
	assert.InDelta(t, override.Value, day.Investment, 1e-12)
	assert.InDelta(t, 165, day.MarketValue, 1e-12)
}

func TestReconstruct_NoTrades(t *testing.T) {
	pos := Reconstruct(navs(1, 2), nil, DefaultParams())
	assert.Empty(t, pos.Days)
	assert.Empty(t, pos.Issues)
}

func TestReconstruct_DoesNotMutate(t *testing.T) {
	prices := navs(1, 1.5)
	trades := []TradeEntry{trade(prices, 1, Sell, 5, 0), trade(prices, 0, Buy, 10, 0)}
	before := append([]TradeEntry(nil), trades...)
	beforePrices := append([]PriceRecord(nil), prices...)

	Reconstruct(prices, trades, DefaultParams())
	assert.Equal(t, before, trades)
	assert.Equal(t, beforePrices, prices)
}
