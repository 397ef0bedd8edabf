package renderer

import (
	"fmt"
	"math"
)

// Percent is a ratio printed as a percentage: 0.05 is "5.00%".
type Percent float64

func (p Percent) known() bool { return !math.IsNaN(float64(p)) && !math.IsInf(float64(p), 0) }

func (p Percent) String() string {
	if !p.known() {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", float64(p)*100)
}

func (p Percent) SignedString() string {
	if !p.known() {
		return NotAvailable
	}
	res := fmt.Sprintf("%+.2f%%", float64(p)*100)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}

// number prints a plain quantity or price.
func number(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%.*f", digits, v)
}
