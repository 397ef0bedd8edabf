package fundperf

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fundperf/date"
)

// ActionKind is the kind of a corporate action.
type ActionKind int

const (
	DividendAction ActionKind = iota
	SplitAction
)

func (k ActionKind) String() string {
	if k == SplitAction {
		return "split"
	}
	return "dividend"
}

// CorporateAction is a dividend (per share cash) or split (share multiplier) announcement.
// Value is NaN when the announcement has not disclosed a usable number.
type CorporateAction struct {
	Date  date.Date
	Value float64
	Raw   string
}

// Feeds are the four raw, independently dated feeds of one instrument.
type Feeds struct {
	NetValue        date.History[float64]
	CumulativeValue date.History[float64]
	Dividends       []CorporateAction
	Splits          []CorporateAction
}

var numberRE = regexp.MustCompile(`\d+\.?\d*`)

// ParseAnnouncement reads the value of a textual corporate-action announcement.
//
// A dividend announcement must contain exactly one number, the cash per share. A split
// announcement must contain exactly two numbers, like "1:1.05", and the second one is the ratio.
// Anything else, like a "not yet disclosed" notice, returns NaN and an
// *UndisclosedCorporateAction.
func ParseAnnouncement(kind ActionKind, text string) (float64, error) {
	want := 1
	if kind == SplitAction {
		want = 2
	}
	numbers := numberRE.FindAllString(text, -1)
	if len(numbers) != want {
		return math.NaN(), &UndisclosedCorporateAction{Kind: kind, Raw: text}
	}
	v, err := strconv.ParseFloat(numbers[want-1], 64)
	if err != nil {
		return math.NaN(), &UndisclosedCorporateAction{Kind: kind, Raw: text}
	}
	return v, nil
}

// FeedPaths are the jsonpath expressions selecting each feed in a provider document.
// Each selects an array of {"date": "2006-01-02", "value": ...} objects.
type FeedPaths struct {
	// URL locates the provider document of a fund, {id} is replaced by the fund identifier.
	URL string `toml:"url"`

	NetValue        string `toml:"net_value"`
	CumulativeValue string `toml:"cumulative_value"`
	Dividends       string `toml:"dividends"`
	Splits          string `toml:"splits"`
}

func DefaultFeedPaths() FeedPaths {
	return FeedPaths{
		NetValue:        "$.net_value",
		CumulativeValue: "$.cumulative_value",
		Dividends:       "$.dividends",
		Splits:          "$.splits",
	}
}

// DecodeFeeds reads a provider JSON document and extracts the feeds of one instrument.
// An empty path skips that feed.
//
// Values must be numbers. Corporate action values may be numbers or announcement texts, texts
// are read with ParseAnnouncement and kept as NaN when undisclosed.
func DecodeFeeds(r io.Reader, paths FeedPaths) (Feeds, error) {
	var f Feeds
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return f, fmt.Errorf("parse error: not a correct json: %w", err)
	}

	points, err := selectPoints(doc, paths.NetValue)
	if err != nil {
		return f, err
	}
	for _, p := range points {
		v, ok := p.value.(float64)
		if !ok {
			return f, fmt.Errorf("parse error %s[%d]: property \"value\" must be of type 'number'", paths.NetValue, p.i)
		}
		f.NetValue.Append(p.on, v)
	}

	if points, err = selectPoints(doc, paths.CumulativeValue); err != nil {
		return f, err
	}
	for _, p := range points {
		v, ok := p.value.(float64)
		if !ok {
			return f, fmt.Errorf("parse error %s[%d]: property \"value\" must be of type 'number'", paths.CumulativeValue, p.i)
		}
		f.CumulativeValue.Append(p.on, v)
	}

	if f.Dividends, err = selectActions(doc, paths.Dividends, DividendAction); err != nil {
		return f, err
	}
	if f.Splits, err = selectActions(doc, paths.Splits, SplitAction); err != nil {
		return f, err
	}
	return f, nil
}

type point struct {
	i     int
	on    date.Date
	value any
}

// selectPoints evaluates path on doc and reads the resulting array of dated objects.
func selectPoints(doc any, path string) ([]point, error) {
	if path == "" {
		return nil, nil
	}
	res, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("parse error: cannot evaluate %q: %w", path, err)
	}
	list, ok := res.([]any)
	if !ok {
		return nil, fmt.Errorf("parse error: %q must select an array, got %T", path, res)
	}
	points := make([]point, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parse error %s[%d]: must be an object", path, i)
		}
		jdate, ok := obj["date"].(string)
		if !ok {
			return nil, fmt.Errorf("parse error %s[%d]: missing the property \"date\" with a date", path, i)
		}
		on, err := date.Parse(strings.TrimSpace(jdate))
		if err != nil {
			return nil, fmt.Errorf("parse error %s[%d]: %w", path, i, err)
		}
		points = append(points, point{i: i, on: on, value: obj["value"]})
	}
	return points, nil
}

func selectActions(doc any, path string, kind ActionKind) ([]CorporateAction, error) {
	points, err := selectPoints(doc, path)
	if err != nil {
		return nil, err
	}
	actions := make([]CorporateAction, 0, len(points))
	for _, p := range points {
		a := CorporateAction{Date: p.on}
		switch v := p.value.(type) {
		case float64:
			a.Value, a.Raw = v, strconv.FormatFloat(v, 'f', -1, 64)
		case string:
			// undisclosed values stay NaN, Normalize reports them.
			a.Value, _ = ParseAnnouncement(kind, v)
			a.Raw = v
		case nil:
			a.Value = math.NaN()
		default:
			return nil, fmt.Errorf("parse error %s[%d]: property \"value\" must be a number or a string", path, p.i)
		}
		actions = append(actions, a)
	}
	return actions, nil
}
