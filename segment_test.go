package fundperf

import (
	"slices"
	"testing"

	"github.com/etnz/fundperf/date"
	"github.com/stretchr/testify/assert"
)

func holdings(shares ...float64) []PositionDay {
	days := make([]PositionDay, len(shares))
	for i, s := range shares {
		days[i] = PositionDay{Date: day0.Add(i), Shares: s, SplitRatio: 1}
	}
	return days
}

func TestSegment(t *testing.T) {
	testCases := []struct {
		name   string
		shares []float64
		idle   int
		want   []date.Range
	}{
		{
			name:   "closed by a long idle run then reopened",
			shares: []float64{0, 0, 5, 5, 0, 0, 0, 0, 0, 0, 0, 0, 5},
			idle:   3,
			want: []date.Range{
				{From: day0.Add(2), To: day0.Add(4)},
				{From: day0.Add(12), To: day0.Add(12)},
			},
		},
		{
			name:   "short idle run does not close",
			shares: []float64{5, 0, 0, 5, 5},
			idle:   3,
			want:   []date.Range{{From: day0, To: day0.Add(4)}},
		},
		{
			name:   "idle tail shorter than the threshold",
			shares: []float64{5, 5, 0, 0},
			idle:   3,
			want:   []date.Range{{From: day0, To: day0.Add(3)}},
		},
		{
			name:   "below the amount threshold is idle",
			shares: []float64{0.5, 2, 0.2, 0.2, 0.2, 0.2},
			idle:   2,
			want:   []date.Range{{From: day0.Add(1), To: day0.Add(2)}},
		},
		{
			name:   "never invested",
			shares: []float64{0, 0, 0},
			idle:   1,
			want:   nil,
		},
		{
			name:   "empty",
			shares: nil,
			idle:   10,
			want:   nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := slices.Collect(Segment(holdings(tc.shares...), 1, tc.idle))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSegment_StopEarly(t *testing.T) {
	days := holdings(5, 0, 0, 5, 0, 0, 5)
	n := 0
	for range Segment(days, 1, 1) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestPeriods(t *testing.T) {
	p := DefaultParams()
	p.ThresIdleInterval = 1
	days := holdings(5, 0, 0, 0, 7, 7)

	periods := Periods(days, p)
	if assert.Len(t, periods, 2) {
		assert.Equal(t, days[0:2], periods[0])
		assert.Equal(t, days[4:6], periods[1])
	}
}
