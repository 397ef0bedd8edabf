package fundperf

import (
	"errors"
	"fmt"
	"math"

	"github.com/etnz/fundperf/date"
)

// DataGapError reports a trade whose effective date has no price record.
type DataGapError struct {
	Instrument string
	Date       date.Date
	Direction  Direction
}

func (e *DataGapError) Error() string {
	return fmt.Sprintf("no price for %s on %s, %s skipped", e.Instrument, e.Date, e.Direction)
}

// ReconciliationWarning reports a day where the two per-share gain computations disagree.
type ReconciliationWarning struct {
	Date       date.Date
	Divergence float64
	Tolerance  float64
}

func (e *ReconciliationWarning) Error() string {
	return fmt.Sprintf("gain divergence on %s: %.6g > %g", e.Date, e.Divergence, e.Tolerance)
}

// UndisclosedCorporateAction reports a dividend or split announcement with no usable value.
type UndisclosedCorporateAction struct {
	Kind ActionKind
	Date date.Date
	Raw  string
}

func (e *UndisclosedCorporateAction) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("undisclosed %s %q", e.Kind, e.Raw)
	}
	return fmt.Sprintf("undisclosed %s on %s: %q", e.Kind, e.Date, e.Raw)
}

// Issues collects the recoverable diagnostics of a computation.
type Issues []error

// Err returns all issues joined in a single error, or nil.
func (is Issues) Err() error { return errors.Join(is...) }

// DataGaps returns the issues that are price gaps.
func (is Issues) DataGaps() []*DataGapError {
	var gaps []*DataGapError
	for _, err := range is {
		var gap *DataGapError
		if errors.As(err, &gap) {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// Insufficient reports whether v is not a usable number (NaN or infinite).
//
// Ratios with a zero denominator, like the average cost of an empty position, are NaN and
// must be read as "insufficient data".
func Insufficient(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
