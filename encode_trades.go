package fundperf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/fundperf/date"
	"github.com/shopspring/decimal"
)

// jtrade is the JSONL form of a TradeEntry, one trade per line.
//
//	{"fund":"000001","time":"2025-03-03T10:12:00+08:00","effective":"2025-03-03","event":"buy","value":1000,"cost":1.5,"price":1.2345,"amount":810.0405}
type jtrade struct {
	Fund      string          `json:"fund"`
	Time      time.Time       `json:"time"`
	Effective date.Date       `json:"effective"`
	Event     string          `json:"event"`
	Value     decimal.Decimal `json:"value"`
	Cost      decimal.Decimal `json:"cost"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	Override  bool            `json:"override"`
}

// DecodeTrades reads a JSONL trade ledger. name is only used in error messages.
func DecodeTrades(r io.Reader, name string) ([]TradeEntry, error) {
	var trades []TradeEntry
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if strings.TrimSpace(string(line)) == "" {
			continue
		}
		var jt jtrade
		if err := json.Unmarshal(line, &jt); err != nil {
			return nil, fmt.Errorf("parse error %s:%v: not a correct trade: %w", name, i, err)
		}
		if jt.Fund == "" {
			return nil, fmt.Errorf("parse error %s:%v: missing the property %q", name, i, "fund")
		}
		if jt.Effective.IsZero() {
			return nil, fmt.Errorf("parse error %s:%v: missing the property %q with a date", name, i, "effective")
		}
		dir, err := ParseDirection(jt.Event)
		if err != nil {
			return nil, fmt.Errorf("parse error %s:%v: %w", name, i, err)
		}
		if jt.Amount.IsNegative() || jt.Cost.IsNegative() {
			return nil, fmt.Errorf("parse error %s:%v: amount and cost must be positive, the event gives the direction", name, i)
		}
		trades = append(trades, TradeEntry{
			Instrument:    jt.Fund,
			Time:          jt.Time,
			EffectiveDate: jt.Effective,
			Direction:     dir,
			Value:         jt.Value.InexactFloat64(),
			Cost:          jt.Cost.InexactFloat64(),
			Price:         jt.Price.InexactFloat64(),
			Quantity:      jt.Amount.InexactFloat64(),
			Override:      jt.Override,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error %s: %w", name, err)
	}
	return trades, nil
}

// EncodeTrades writes trades as JSONL.
func EncodeTrades(w io.Writer, trades []TradeEntry) error {
	for _, t := range trades {
		var o jsonObjectWriter
		o.Append("fund", t.Instrument)
		if !t.Time.IsZero() {
			o.Append("time", t.Time)
		}
		o.Append("effective", t.EffectiveDate).
			Append("event", t.Direction).
			Number("value", t.Value).
			Number("cost", t.Cost).
			Number("price", t.Price).
			Number("amount", t.Quantity).
			Optional("override", t.Override)
		if err := writeLine(w, &o); err != nil {
			return err
		}
	}
	return nil
}

// writeLine writes a JSON object followed by a new line.
func writeLine(w io.Writer, o *jsonObjectWriter) error {
	b, err := o.MarshalJSON()
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
