package calendar

import (
	"testing"
	"time"

	"github.com/etnz/fundperf/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-10-01..07 is a national holiday week, 2025-10-03 is a Friday.
var golden = New([]date.Date{
	date.MustParse("2025-10-01"),
	date.MustParse("2025-10-02"),
	date.MustParse("2025-10-03"),
	date.MustParse("2025-10-06"),
	date.MustParse("2025-10-07"),
}, WithLocation(time.UTC))

func at(s string) time.Time {
	t, err := time.Parse(time.DateTime, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsTradeDate(t *testing.T) {
	testCases := []struct {
		on   string
		want bool
	}{
		{"2025-09-29", true},  // monday
		{"2025-09-27", false}, // saturday
		{"2025-09-28", false}, // sunday
		{"2025-10-02", false}, // holiday
		{"2025-10-08", true},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, golden.IsTradeDate(date.MustParse(tc.on)), "IsTradeDate(%s)", tc.on)
	}
}

func TestEffectiveDate(t *testing.T) {
	testCases := []struct {
		name string
		at   string
		want string
	}{
		{"before close on a trade date", "2025-09-24 14:00:00", "2025-09-24"},
		{"after close on a trade date", "2025-09-24 16:00:00", "2025-09-25"},
		{"exactly at close", "2025-09-24 15:00:00", "2025-09-25"},
		{"saturday morning", "2025-09-27 10:00:00", "2025-09-29"},
		{"friday after close", "2025-09-26 15:30:00", "2025-09-29"},
		{"before a holiday week", "2025-09-30 16:00:00", "2025-10-08"},
		{"inside a holiday", "2025-10-02 09:30:00", "2025-10-08"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, date.MustParse(tc.want), golden.EffectiveDate(at(tc.at)))
		})
	}
}

func TestEffectiveDate_Location(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	c := New(nil, WithLocation(shanghai))

	// 06:00 UTC is 14:00 in Shanghai, before the close.
	got := c.EffectiveDate(at("2025-09-24 06:00:00"))
	assert.Equal(t, date.MustParse("2025-09-24"), got)

	// 08:00 UTC is 16:00 in Shanghai, after the close.
	got = c.EffectiveDate(at("2025-09-24 08:00:00"))
	assert.Equal(t, date.MustParse("2025-09-25"), got)
}

func TestNextPreviousTradeDate(t *testing.T) {
	next, ok := golden.NextTradeDate(date.MustParse("2025-09-30"))
	require.True(t, ok)
	assert.Equal(t, date.MustParse("2025-10-08"), next)

	prev, ok := golden.PreviousTradeDate(date.MustParse("2025-10-08"))
	require.True(t, ok)
	assert.Equal(t, date.MustParse("2025-09-30"), prev)

	// strictly after: a trade date is not its own next trade date.
	next, ok = golden.NextTradeDate(date.MustParse("2025-09-24"))
	require.True(t, ok)
	assert.Equal(t, date.MustParse("2025-09-25"), next)
}

func TestMostRecentTradeDate(t *testing.T) {
	assert.Equal(t, date.MustParse("2025-09-24"), golden.MostRecentTradeDate(date.MustParse("2025-09-24")))
	assert.Equal(t, date.MustParse("2025-09-26"), golden.MostRecentTradeDate(date.MustParse("2025-09-28")))
	assert.Equal(t, date.MustParse("2025-09-30"), golden.MostRecentTradeDate(date.MustParse("2025-10-05")))
}

func TestHorizon(t *testing.T) {
	// A calendar where every day is a holiday never terminates without the horizon.
	var all []date.Date
	start := date.MustParse("2025-01-01")
	for i := -horizon - 10; i <= horizon+10; i++ {
		all = append(all, start.Add(i))
	}
	c := New(all)
	_, ok := c.NextTradeDate(start)
	assert.False(t, ok)
	_, ok = c.PreviousTradeDate(start)
	assert.False(t, ok)
	assert.True(t, c.EffectiveDate(at("2025-01-01 10:00:00")).IsZero())
}

func TestParse(t *testing.T) {
	c, err := Parse([]string{"2025-05-01"}, 0, "UTC")
	require.NoError(t, err)
	assert.Equal(t, DefaultCloseHour, c.CloseHour())
	assert.False(t, c.IsTradeDate(date.MustParse("2025-05-01")))

	_, err = Parse([]string{"first of may"}, 15, "")
	assert.Error(t, err)
	_, err = Parse(nil, 15, "Nowhere/Town")
	assert.Error(t, err)
}
