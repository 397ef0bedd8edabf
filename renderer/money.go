package renderer

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// NotAvailable is printed for unknown values.
const NotAvailable = "n/a"

// Money is an amount in a currency, printed with the currency's own format.
type Money struct {
	value float64
	cur   string
}

// M returns value in currency cur.
func M(value float64, cur string) Money { return Money{value: value, cur: cur} }

// currency returns the go-money currency, never nil even for unknown codes.
func (m Money) currency() money.Currency {
	return *money.New(0, m.cur).Currency()
}

func (m Money) known() bool { return !math.IsNaN(m.value) && !math.IsInf(m.value, 0) }

func (m Money) String() string {
	if !m.known() {
		return NotAvailable
	}
	cur := m.currency()
	minor := decimal.NewFromFloat(m.value).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// SignedString prints the amount with an explicit sign, and "-" for zero.
func (m Money) SignedString() string {
	if !m.known() {
		return NotAvailable
	}
	if decimal.NewFromFloat(m.value).Round(int32(m.currency().Fraction)).IsZero() {
		return "-"
	}
	if m.value > 0 {
		return "+" + m.String()
	}
	return m.String()
}
