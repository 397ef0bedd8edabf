package fundperf

import (
	"github.com/etnz/fundperf/date"
)

// Combine rolls several ledgers up into a single ledger on the union of their dates.
//
// Additive fields (MarketValue, Gain, Cost, DividendReceived, Investment, Withdrawal and
// CashFlow) are summed, a ledger with no row on a date contributes 0. Shares of different
// instruments do not add up: share fields are left at 0 and SplitRatio at 1.
func Combine(ledgers ...[]PositionDay) []PositionDay {
	dates := make([][]date.Date, len(ledgers))
	for i, l := range ledgers {
		dates[i] = Dates(l)
	}
	next := make([]int, len(ledgers))

	var combined []PositionDay
	for on := range date.Union(dates...) {
		day := PositionDay{Date: on, SplitRatio: 1}
		for i, l := range ledgers {
			if next[i] >= len(l) || l[next[i]].Date != on {
				continue
			}
			d := l[next[i]]
			next[i]++
			day.MarketValue += d.MarketValue
			day.Gain += d.Gain
			day.Cost += d.Cost
			day.DividendReceived += d.DividendReceived
			day.Investment += d.Investment
			day.Withdrawal += d.Withdrawal
			day.CashFlow += d.CashFlow
		}
		combined = append(combined, day)
	}
	return combined
}

// PeriodPerformance is the aggregate of the days of one calendar period.
type PeriodPerformance struct {
	Range date.Range
	Days  int

	StartValue  float64 // market value before the first day's flows
	MarketValue float64 // at the last day
	Gain        float64
	Cost        float64
	Dividend    float64
	Investment  float64
	Withdrawal  float64
	CashFlow    float64

	// HPR is derived from the period boundary values:
	//	(MarketValue + Withdrawal + Dividend) / (StartValue + Investment + Cost) - 1
	HPR float64
	// ChainedReturn links the daily HPR of the period.
	ChainedReturn float64
}

// Bucket groups aggregated rows by calendar period.
func Bucket(rows []StatRow, period date.Period) []PeriodPerformance {
	var buckets []PeriodPerformance
	for i := 0; i < len(rows); {
		r := date.NewRange(rows[i].Date, period)
		b := PeriodPerformance{Range: r}
		first := rows[i]
		b.StartValue = first.MarketValue + first.CashFlow + first.Cost - first.Gain
		chained := 1.0
		for ; i < len(rows) && r.Contains(rows[i].Date); i++ {
			row := rows[i]
			b.Days++
			b.MarketValue = row.MarketValue
			b.Gain += row.Gain
			b.Cost += row.Cost
			b.Dividend += row.DividendReceived
			b.Investment += row.Investment
			b.Withdrawal += row.Withdrawal
			b.CashFlow += row.CashFlow
			chained *= 1 + known(row.HPR)
		}
		b.ChainedReturn = chained - 1
		if denom := b.StartValue + b.Investment + b.Cost; denom != 0 {
			b.HPR = (b.MarketValue+b.Withdrawal+b.Dividend)/denom - 1
		}
		buckets = append(buckets, b)
	}
	return buckets
}
