package fundperf

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MIRR returns the modified internal rate of return of a series and its annualized value.
//
// The last cash flow is increased by the ending market value, as if the position was sold.
// Negative flows are discounted to the first date at the financing rate, non negative flows are
// compounded to the last date at the reinvestment rate, both continuously over calendar days:
//
//	MIRR = -FVin/PVout - 1
//	MIRRAnnualized = ln(-FVin/PVout) * 365 / days
//
// Both are NaN when nothing was invested or when the ending market value is unknown.
func MIRR(rows []StatRow, financeRate, reinvestRate float64) (mirr, annualized float64) {
	if len(rows) == 0 || math.IsNaN(rows[len(rows)-1].MarketValue) {
		return math.NaN(), math.NaN()
	}
	start, end := rows[0].Date, rows[len(rows)-1].Date
	pv := make([]float64, 0, len(rows))
	fv := make([]float64, 0, len(rows))
	for i, r := range rows {
		cf := known(r.CashFlow)
		if i == len(rows)-1 {
			cf += known(r.MarketValue)
		}
		if cf < 0 {
			years := float64(r.Date.Sub(start)) / 365
			pv = append(pv, cf*math.Exp(-financeRate*years))
		} else {
			years := float64(end.Sub(r.Date)) / 365
			fv = append(fv, cf*math.Exp(reinvestRate*years))
		}
	}
	pvOut, fvIn := floats.Sum(pv), floats.Sum(fv)
	if pvOut == 0 {
		return math.NaN(), math.NaN()
	}
	growth := -fvIn / pvOut
	return growth - 1, ratio(math.Log(growth)*365, float64(end.Sub(start)))
}
