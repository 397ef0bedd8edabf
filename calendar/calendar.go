// Package calendar resolves which trading day settles a trade.
//
// A trade date is a weekday that is not a public holiday. Trades placed before the market close
// on a trade date settle at that day's closing price, any other trade settles at the next trade
// date.
package calendar

import (
	"fmt"
	"time"

	"github.com/etnz/fundperf/date"
)

// DefaultCloseHour is the hour at which the market closes, in the calendar location.
const DefaultCloseHour = 15

// horizon bounds every scan for a trade date.
const horizon = 10000

// Calendar is an immutable trading calendar. It is safe for concurrent use.
type Calendar struct {
	holidays  map[date.Date]struct{}
	closeHour int
	loc       *time.Location
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithCloseHour sets the market close hour, defaults to DefaultCloseHour.
func WithCloseHour(hour int) Option { return func(c *Calendar) { c.closeHour = hour } }

// WithLocation sets the market time zone used to read trade timestamps. Defaults to time.Local.
func WithLocation(loc *time.Location) Option { return func(c *Calendar) { c.loc = loc } }

// New returns a Calendar closed on weekends and on the given holidays.
func New(holidays []date.Date, opts ...Option) *Calendar {
	c := &Calendar{
		holidays:  make(map[date.Date]struct{}, len(holidays)),
		closeHour: DefaultCloseHour,
		loc:       time.Local,
	}
	for _, h := range holidays {
		c.holidays[h] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse builds a Calendar from holiday strings and a time zone name, as read from a config file.
func Parse(holidays []string, closeHour int, timezone string) (*Calendar, error) {
	days := make([]date.Date, 0, len(holidays))
	for _, h := range holidays {
		d, err := date.Parse(h)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday: %w", err)
		}
		days = append(days, d)
	}
	loc := time.Local
	if timezone != "" {
		var err error
		if loc, err = time.LoadLocation(timezone); err != nil {
			return nil, fmt.Errorf("invalid calendar timezone %q: %w", timezone, err)
		}
	}
	if closeHour <= 0 || closeHour > 24 {
		closeHour = DefaultCloseHour
	}
	return New(days, WithCloseHour(closeHour), WithLocation(loc)), nil
}

// CloseHour returns the market close hour.
func (c *Calendar) CloseHour() int { return c.closeHour }

// Location returns the market time zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// IsHoliday reports whether d is a declared public holiday.
func (c *Calendar) IsHoliday(d date.Date) bool {
	_, ok := c.holidays[d]
	return ok
}

// IsTradeDate reports whether d is a business day that is not a holiday.
func (c *Calendar) IsTradeDate(d date.Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(d)
}

// NextTradeDate returns the first trade date strictly after d.
// It returns false if none is found within the scan horizon.
func (c *Calendar) NextTradeDate(d date.Date) (date.Date, bool) { return c.scan(d, 1) }

// PreviousTradeDate returns the last trade date strictly before d.
// It returns false if none is found within the scan horizon.
func (c *Calendar) PreviousTradeDate(d date.Date) (date.Date, bool) { return c.scan(d, -1) }

func (c *Calendar) scan(d date.Date, step int) (date.Date, bool) {
	for i := 1; i <= horizon; i++ {
		if on := d.Add(i * step); c.IsTradeDate(on) {
			return on, true
		}
	}
	return date.Date{}, false
}

// EffectiveDate returns the trade date whose closing price settles a trade placed at t.
//
// It is the date of t if t is before the close on a trade date, the next trade date otherwise.
// It returns the zero Date if no trade date exists within the scan horizon.
func (c *Calendar) EffectiveDate(t time.Time) date.Date {
	t = t.In(c.loc)
	d := date.FromTime(t)
	if t.Hour() < c.closeHour && c.IsTradeDate(d) {
		return d
	}
	next, _ := c.NextTradeDate(d)
	return next
}

// MostRecentTradeDate returns today if it is a trade date, the previous trade date otherwise.
func (c *Calendar) MostRecentTradeDate(today date.Date) date.Date {
	if c.IsTradeDate(today) {
		return today
	}
	prev, _ := c.PreviousTradeDate(today)
	return prev
}
