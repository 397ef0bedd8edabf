package fundperf

import (
	"iter"
	"math"

	"github.com/etnz/fundperf/date"
)

// Segment returns the investment periods of a ledger.
//
// A day is idle when |Shares| < thresAmount. A period closes once an idle run is longer than
// thresIdleInterval days, and ends on the first idle day of that run. The next non idle day
// opens a new period. A period still open at the end of the ledger ends on its last day.
//
// The sequence is computed while it is ranged over.
func Segment(days []PositionDay, thresAmount float64, thresIdleInterval int) iter.Seq[date.Range] {
	return func(yield func(date.Range) bool) {
		var start, end *date.Date
		idle := 0
		for i := range days {
			on := days[i].Date
			if math.Abs(days[i].Shares) < thresAmount {
				if idle == 0 {
					end = &on
				}
				idle++
				if idle > thresIdleInterval {
					if start != nil && end != nil {
						if !yield(date.Range{From: *start, To: *end}) {
							return
						}
					}
					start, end = nil, nil
				}
				continue
			}
			idle = 0
			if start == nil {
				start = &on
			}
		}
		if start != nil {
			yield(date.Range{From: *start, To: days[len(days)-1].Date})
		}
	}
}

// Periods returns the ledger slices of each investment period.
func Periods(days []PositionDay, p Params) [][]PositionDay {
	var periods [][]PositionDay
	for r := range Segment(days, p.ThresAmount, p.ThresIdleInterval) {
		periods = append(periods, Between(days, r))
	}
	return periods
}
