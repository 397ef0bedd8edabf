package fundperf

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/fundperf/date"
)

// Direction of a trade.
type Direction int

const (
	Buy Direction = iota
	Sell
)

func (d Direction) String() string {
	if d == Sell {
		return "sell"
	}
	return "buy"
}

// ParseDirection parses "buy" or "sell".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return Buy, fmt.Errorf("unknown trade direction %q, want buy or sell", s)
	}
}

func (d Direction) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// TradeEntry is one settled trade of an instrument.
//
// Value is the cash value of the shares traded, net of Cost, and equals Price*Quantity.
// Quantity is always positive, SignedQuantity gives the change in holding.
type TradeEntry struct {
	Instrument    string
	Time          time.Time
	EffectiveDate date.Date
	Direction     Direction
	Value         float64
	Cost          float64
	Price         float64
	Quantity      float64

	// Override is set when Price and Quantity were supplied by the caller because no price
	// record existed on the effective date.
	Override bool
}

// SignedQuantity returns the quantity, negated for a sell.
func (t TradeEntry) SignedQuantity() float64 {
	if t.Direction == Sell {
		return -t.Quantity
	}
	return t.Quantity
}

func (t TradeEntry) String() string {
	return fmt.Sprintf("%s %s %g %s @%g", t.EffectiveDate, t.Direction, t.Quantity, t.Instrument, t.Price)
}
