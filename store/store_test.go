package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/fundperf"
	"github.com/etnz/fundperf/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Prices(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	d := date.MustParse("2025-03-03")

	prices := []fundperf.PriceRecord{
		{Date: d, NetValue: 1, CumulativeValue: 1, SplitRatio: 1, Gain: 0, DailyReturn: 0, EquivCash: 0, PositionValue: 1},
		{Date: d.Add(1), NetValue: 1.1, CumulativeValue: 1.1, SplitRatio: 1, Gain: 0.1, DailyReturn: 0.1, EquivCash: 0, PositionValue: 1.1},
		{Date: d.Add(2), NetValue: math.NaN(), CumulativeValue: math.NaN(), Dividend: 0.05, SplitRatio: 1,
			Gain: math.NaN(), DailyReturn: math.NaN(), EquivCash: math.NaN(), PositionValue: math.NaN()},
	}
	require.NoError(t, s.PutPrices(ctx, "F1", prices))

	got, err := s.Prices(ctx, "F1", fundperf.AllTime)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, prices[:2], got[:2])
	assert.True(t, math.IsNaN(got[2].NetValue), "NULL reads back as NaN")
	assert.Equal(t, 0.05, got[2].Dividend)

	got, err = s.Prices(ctx, "F1", date.Range{From: d.Add(1), To: d.Add(1)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.1, got[0].NetValue)

	// Upsert replaces the existing record.
	fixed := prices[1]
	fixed.NetValue = 1.2
	require.NoError(t, s.PutPrices(ctx, "F1", []fundperf.PriceRecord{fixed}))
	got, err = s.Prices(ctx, "F1", fundperf.AllTime)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1.2, got[1].NetValue)

	latest, ok, err := s.LatestPriceDate(ctx, "F1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, d.Add(2), latest)

	_, ok, err = s.LatestPriceDate(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Trades(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	d := date.MustParse("2025-03-03")
	at := time.Date(2025, 3, 3, 10, 30, 0, 0, time.UTC)

	trades := []fundperf.TradeEntry{
		{Instrument: "F2", EffectiveDate: d, Direction: fundperf.Buy, Value: 10, Price: 1, Quantity: 10},
		{Instrument: "F1", Time: at, EffectiveDate: d.Add(3), Direction: fundperf.Sell, Value: 50, Cost: 0.5, Price: 1.25, Quantity: 40},
		{Instrument: "F1", Time: at, EffectiveDate: d, Direction: fundperf.Buy, Value: 100, Cost: 1, Price: math.NaN(), Quantity: 100, Override: true},
	}
	for _, tr := range trades {
		require.NoError(t, s.AddTrade(ctx, tr))
	}

	ids, err := s.Instruments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"F1", "F2"}, ids)

	got, err := s.Trades(ctx, "F1", fundperf.AllTime)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, d, got[0].EffectiveDate, "ordered by effective date")
	assert.True(t, got[0].Override)
	assert.True(t, math.IsNaN(got[0].Price))
	assert.Equal(t, fundperf.Sell, got[1].Direction)
	assert.Equal(t, 40.0, got[1].Quantity, "quantities read back positive")
	assert.Equal(t, -40.0, got[1].SignedQuantity())
	assert.True(t, got[1].Time.Equal(at))

	got, err = s.Trades(ctx, "F1", date.Range{From: d.Add(1), To: d.Add(10)})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_AddTradesAtomic(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	d := date.MustParse("2025-03-03")

	batch := []fundperf.TradeEntry{
		{Instrument: "F1", EffectiveDate: d, Direction: fundperf.Buy, Value: 10, Price: 1, Quantity: 10},
		{EffectiveDate: d.Add(1), Direction: fundperf.Buy, Value: 10, Price: 1, Quantity: 10},
	}
	require.Error(t, s.AddTrades(ctx, batch))
	got, err := s.Trades(ctx, "F1", fundperf.AllTime)
	require.NoError(t, err)
	assert.Empty(t, got, "a failed batch stores nothing")

	batch[1].Instrument = "F1"
	require.NoError(t, s.AddTrades(ctx, batch))
	got, err = s.Trades(ctx, "F1", fundperf.AllTime)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
