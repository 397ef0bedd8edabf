package fundperf

import (
	"sort"

	"github.com/etnz/fundperf/date"
)

// PriceRecord is the normalized daily price of one instrument.
//
// Dividend is per share and SplitRatio multiplies the share count on that day (1 for no event).
// Gain is the per-share gain over the previous record, DailyReturn the same gain in percent of
// the previous net value.
type PriceRecord struct {
	Date            date.Date
	NetValue        float64
	CumulativeValue float64
	Dividend        float64
	SplitRatio      float64
	Gain            float64
	DailyReturn     float64

	// EquivCash is the cash one original share would have received in dividends so far.
	EquivCash float64
	// PositionValue is the value of one original share, splits included.
	PositionValue float64
}

// PriceOn returns the record on day, using binary search on date-ordered records.
func PriceOn(prices []PriceRecord, day date.Date) (PriceRecord, bool) {
	i := searchPrices(prices, day)
	if i < len(prices) && prices[i].Date == day {
		return prices[i], true
	}
	return PriceRecord{}, false
}

// searchPrices returns the index of the first record on or after day.
func searchPrices(prices []PriceRecord, day date.Date) int {
	return sort.Search(len(prices), func(i int) bool { return !prices[i].Date.Before(day) })
}
