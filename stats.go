package fundperf

import (
	"math"

	"github.com/etnz/fundperf/date"
	"gonum.org/v1/gonum/floats"
)

// StatRow is a ledger day with the running statistics of its series.
type StatRow struct {
	PositionDay

	AdjBuyQuantity   float64 // split adjusted count of shares ever bought
	Invested         float64
	Withdrawn        float64
	AverageCost      float64
	HPR              float64 // holding period return of the day
	TWR              float64 // time weighted return since the first row
	AccountingReturn float64
}

// Aggregate computes the running statistics of a ledger, in date order.
//
// HPR is (Gain-Cost)/MarketValue[t-1], 0 on the first row and after an empty day. TWR chains
// the daily HPR, an unknown HPR counting as 0. AverageCost and AccountingReturn are NaN while
// nothing has been bought or invested.
func Aggregate(days []PositionDay) []StatRow {
	rows := make([]StatRow, len(days))
	var adjBuy, invested, withdrawn, twr float64
	for i, d := range days {
		adjBuy = adjBuy*d.SplitRatio + math.Max(d.SharesDelta, 0)
		if cf := d.CashFlow; !math.IsNaN(cf) {
			invested -= math.Min(cf, 0)
			withdrawn += math.Max(cf, 0)
		}

		hpr := 0.0
		if i > 0 && days[i-1].MarketValue != 0 {
			hpr = (d.Gain - d.Cost) / days[i-1].MarketValue
		}
		twr = (1+twr)*(1+known(hpr)) - 1

		rows[i] = StatRow{
			PositionDay:      d,
			AdjBuyQuantity:   adjBuy,
			Invested:         invested,
			Withdrawn:        withdrawn,
			AverageCost:      ratio(invested, adjBuy),
			HPR:              hpr,
			TWR:              twr,
			AccountingReturn: ratio(d.MarketValue+withdrawn-invested, invested),
		}
	}
	return rows
}

// known maps NaN to 0.
func known(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Summary is the statistics of a series as of its last row.
type Summary struct {
	Start, End   date.Date
	CalendarDays int
	TradingDays  int

	Shares         float64
	AdjBuyQuantity float64
	Invested       float64
	Withdrawn      float64
	MarketValue    float64
	LastPrice      float64
	AverageCost    float64
	Profit         float64

	TWR                        float64
	TWRAnnualized              float64
	AccountingReturn           float64
	AccountingReturnAnnualized float64
	MIRR                       float64
	MIRRAnnualized             float64

	TotalDividend float64
	TotalCost     float64
	FeeRate       float64
}

// Summarize computes the summary of aggregated rows. Ratios with a zero denominator, like the
// annualized returns of a single day, are NaN.
func Summarize(rows []StatRow, p Params) Summary {
	if len(rows) == 0 {
		return Summary{}
	}
	first, last := rows[0], rows[len(rows)-1]
	s := Summary{
		Start:            first.Date,
		End:              last.Date,
		CalendarDays:     last.Date.Sub(first.Date),
		TradingDays:      len(rows),
		Shares:           last.Shares,
		AdjBuyQuantity:   last.AdjBuyQuantity,
		Invested:         last.Invested,
		Withdrawn:        last.Withdrawn,
		MarketValue:      last.MarketValue,
		LastPrice:        last.NetValue,
		AverageCost:      last.AverageCost,
		Profit:           last.MarketValue + last.Withdrawn - last.Invested,
		TWR:              last.TWR,
		AccountingReturn: last.AccountingReturn,
	}

	days := float64(s.CalendarDays)
	logHPR := make([]float64, len(rows))
	dividends := make([]float64, len(rows))
	costs := make([]float64, len(rows))
	for i, r := range rows {
		logHPR[i] = math.Log1p(known(r.HPR))
		dividends[i] = r.DividendReceived
		costs[i] = r.Cost
	}
	s.AccountingReturnAnnualized = ratio(math.Log1p(s.AccountingReturn)*365, days)
	s.TWRAnnualized = ratio(floats.Sum(logHPR)*365, days)
	s.MIRR, s.MIRRAnnualized = MIRR(rows, p.WACC, p.ReinvestRate)

	s.TotalDividend = floats.Sum(dividends)
	s.TotalCost = floats.Sum(costs)
	s.FeeRate = ratio(s.TotalCost, s.Withdrawn+s.Invested-s.TotalDividend-s.TotalCost)
	return s
}

// Statistics are the rows and summary of one series.
type Statistics struct {
	Range   date.Range
	Rows    []StatRow
	Summary Summary
}

// Analyze aggregates and summarizes a ledger.
func Analyze(days []PositionDay, p Params) Statistics {
	rows := Aggregate(days)
	st := Statistics{Rows: rows, Summary: Summarize(rows, p)}
	if len(days) > 0 {
		st.Range = date.Range{From: days[0].Date, To: days[len(days)-1].Date}
	}
	return st
}
