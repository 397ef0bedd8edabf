package fundperf

import (
	"math"
	"slices"
	"sort"

	"github.com/etnz/fundperf/date"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// GainCheck is the per-share gain of one day with the outcome of its reconciliation.
//
// Value is always the gain computed from net values and corporate actions. Divergence is the
// relative difference with the gain derived from cumulative values, NaN when one of them is
// unknown.
type GainCheck struct {
	Value      float64
	Agreement  bool
	Divergence float64
}

// Normalized is the result of Normalize.
type Normalized struct {
	Records []PriceRecord
	Checks  []GainCheck // one per record
	Issues  Issues
}

// MaxDivergence returns the largest known gain divergence, 0 when there is none.
func (n Normalized) MaxDivergence() float64 {
	m := 0.0
	for _, c := range n.Checks {
		if !math.IsNaN(c.Divergence) && c.Divergence > m {
			m = c.Divergence
		}
	}
	return m
}

// Agreement reports whether every day reconciled within tolerance.
func (n Normalized) Agreement() bool {
	for _, c := range n.Checks {
		if !c.Agreement {
			return false
		}
	}
	return true
}

// Normalize merges the feeds of one instrument into date-ordered price records.
//
// Records are the union of net value and cumulative value dates, a value missing on one side
// is NaN. Corporate actions are placed on their date, or on the first following value date if
// they fall between two. Actions outside the value dates are dropped, and undisclosed ones are
// excluded and reported. Of two actions announced on the same date, the later one is kept.
//
// The per-share gain is computed from net values, splits and dividends, and checked against the
// gain implied by cumulative values.
func Normalize(f Feeds, p Params) Normalized {
	log := p.log()
	dates := slices.Collect(date.Iterate(&f.NetValue, &f.CumulativeValue))
	n := len(dates)
	if n == 0 {
		return Normalized{}
	}

	nv := make([]float64, n)
	cv := make([]float64, n)
	div := make([]float64, n)
	split := make([]float64, n)
	for i, on := range dates {
		nv[i] = valueOrNaN(&f.NetValue, on)
		cv[i] = valueOrNaN(&f.CumulativeValue, on)
		split[i] = 1
	}

	var issues Issues
	first, last := dates[0], dates[n-1]
	merge := func(kind ActionKind, actions []CorporateAction, target []float64) {
		undisclosed := func(a CorporateAction) bool {
			return math.IsNaN(a.Value) || (kind == SplitAction && a.Value <= 0) || a.Value < 0
		}
		// a later announcement on the same date replaces an earlier one
		latest := make(map[date.Date]int, len(actions))
		for i, a := range actions {
			if !undisclosed(a) {
				latest[a.Date] = i
			}
		}
		for i, a := range actions {
			if undisclosed(a) {
				issue := &UndisclosedCorporateAction{Kind: kind, Date: a.Date, Raw: a.Raw}
				log.Warn().Stringer("date", a.Date).Str("raw", a.Raw).Msgf("undisclosed %s excluded", kind)
				issues = append(issues, issue)
				continue
			}
			if latest[a.Date] != i {
				log.Debug().Stringer("date", a.Date).Str("raw", a.Raw).Msgf("%s replaced by a later one", kind)
				continue
			}
			if a.Date.Before(first) {
				log.Warn().Stringer("date", a.Date).Stringer("first", first).Msgf("%s before the first price dropped", kind)
				continue
			}
			if a.Date.After(last) {
				log.Warn().Stringer("date", a.Date).Stringer("last", last).Msgf("%s after the last price dropped", kind)
				continue
			}
			i := sort.Search(n, func(i int) bool { return !dates[i].Before(a.Date) })
			if dates[i] != a.Date {
				log.Debug().Stringer("date", a.Date).Stringer("on", dates[i]).Msgf("%s moved to the next price", kind)
			}
			if kind == SplitAction {
				target[i] *= a.Value
			} else {
				target[i] += a.Value
			}
		}
	}
	merge(DividendAction, f.Dividends, div)
	merge(SplitAction, f.Splits, split)

	cum := floats.CumProd(make([]float64, n), split)

	out := Normalized{
		Records: make([]PriceRecord, n),
		Checks:  make([]GainCheck, n),
	}
	equivCash := 0.0
	for i, on := range dates {
		rec := PriceRecord{
			Date:            on,
			NetValue:        nv[i],
			CumulativeValue: cv[i],
			Dividend:        div[i],
			SplitRatio:      split[i],
			PositionValue:   cum[i] * nv[i],
		}
		prevCum := 1.0
		check := GainCheck{Agreement: true}
		if i > 0 {
			prevCum = cum[i-1]
			gain := nv[i]*split[i] - nv[i-1] + div[i]
			implied := (cv[i] - cv[i-1]) / prevCum
			check = reconcile(gain, implied, p.GainRounding, p.GainTolerance)
			rec.Gain = gain
			rec.DailyReturn = ratio(100*gain, nv[i-1])
		}
		equivCash += prevCum * div[i]
		rec.EquivCash = equivCash

		if !check.Agreement {
			log.Warn().Stringer("date", on).Float64("divergence", check.Divergence).Msg("per-share gain does not reconcile with cumulative value")
			issues = append(issues, &ReconciliationWarning{Date: on, Divergence: check.Divergence, Tolerance: p.GainTolerance})
		}
		out.Records[i] = rec
		out.Checks[i] = check
	}
	out.Issues = issues
	return out
}

// reconcile compares gain with implied, both rounded to digits decimals.
//
// The comparison is done on decimals so that a divergence exactly equal to the tolerance is
// accepted.
func reconcile(gain, implied float64, digits int32, tolerance float64) GainCheck {
	check := GainCheck{Value: gain, Agreement: true, Divergence: math.NaN()}
	if Insufficient(gain) || Insufficient(implied) {
		return check
	}
	a := decimal.NewFromFloat(gain).Round(digits)
	b := decimal.NewFromFloat(implied).Round(digits)
	diff := a.Sub(b).Abs()
	switch {
	case diff.IsZero():
		check.Divergence = 0
	case a.IsZero():
		check.Divergence = math.Inf(1)
		check.Agreement = false
	default:
		rel := diff.Div(a.Abs())
		check.Divergence = rel.InexactFloat64()
		check.Agreement = rel.LessThanOrEqual(decimal.NewFromFloat(tolerance))
	}
	return check
}

func valueOrNaN(h *date.History[float64], on date.Date) float64 {
	if v, ok := h.Get(on); ok {
		return v
	}
	return math.NaN()
}

// ratio returns a/b, or NaN when b is zero.
func ratio(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	return a / b
}
