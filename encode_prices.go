package fundperf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/etnz/fundperf/date"
)

// jprice is the JSONL form of a PriceRecord, named after the price table columns. Unknown
// values are null.
type jprice struct {
	Date          date.Date `json:"date"`
	NetValue      *float64  `json:"net_value"`
	FullValue     *float64  `json:"full_value"`
	Div           *float64  `json:"div"`
	SplitRatio    *float64  `json:"split_ratio"`
	PnL           *float64  `json:"pnl"`
	EquivCash     *float64  `json:"equiv_cash"`
	PositionValue *float64  `json:"position_value"`
	DailyReturn   *float64  `json:"daily_return"`
}

func orNaN(v *float64) float64 { return or(v, math.NaN()) }

func or(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// DecodePrices reads a JSONL price history. Records must be in strictly increasing date order,
// with a positive split ratio and a non negative dividend. A missing dividend is 0 and a missing
// split ratio is 1.
func DecodePrices(r io.Reader, name string) ([]PriceRecord, error) {
	var prices []PriceRecord
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if strings.TrimSpace(string(line)) == "" {
			continue
		}
		var jp jprice
		if err := json.Unmarshal(line, &jp); err != nil {
			return nil, fmt.Errorf("parse error %s:%v: not a correct json: %w", name, i, err)
		}
		if jp.Date.IsZero() {
			return nil, fmt.Errorf("parse error %s:%v: missing the property %q with a date", name, i, "date")
		}
		if n := len(prices); n > 0 && !prices[n-1].Date.Before(jp.Date) {
			return nil, fmt.Errorf("parse error %s:%v: date %s is not after %s", name, i, jp.Date, prices[n-1].Date)
		}
		rec := PriceRecord{
			Date:            jp.Date,
			NetValue:        orNaN(jp.NetValue),
			CumulativeValue: orNaN(jp.FullValue),
			Dividend:        or(jp.Div, 0),
			SplitRatio:      or(jp.SplitRatio, 1),
			Gain:            orNaN(jp.PnL),
			EquivCash:       orNaN(jp.EquivCash),
			PositionValue:   orNaN(jp.PositionValue),
			DailyReturn:     orNaN(jp.DailyReturn),
		}
		if rec.SplitRatio <= 0 {
			return nil, fmt.Errorf("parse error %s:%v: property %q must be positive", name, i, "split_ratio")
		}
		if rec.Dividend < 0 {
			return nil, fmt.Errorf("parse error %s:%v: property %q must not be negative", name, i, "div")
		}
		prices = append(prices, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error %s: %w", name, err)
	}
	return prices, nil
}

// EncodePrices writes a price history as JSONL.
func EncodePrices(w io.Writer, prices []PriceRecord) error {
	for _, p := range prices {
		var o jsonObjectWriter
		o.Append("date", p.Date).
			Number("net_value", p.NetValue).
			Number("full_value", p.CumulativeValue).
			Number("div", p.Dividend).
			Number("split_ratio", p.SplitRatio).
			Number("pnl", p.Gain).
			Number("equiv_cash", p.EquivCash).
			Number("position_value", p.PositionValue).
			Number("daily_return", p.DailyReturn)
		if err := writeLine(w, &o); err != nil {
			return err
		}
	}
	return nil
}
