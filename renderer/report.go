// Package renderer prints analysis reports as markdown.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/fundperf"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the summary of one series as a two column table.
func SummaryMarkdown(title string, s fundperf.Summary, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(title)
	summaryTable(doc, s, cur)
	return doc.String()
}

func summaryTable(doc *md.Markdown, s fundperf.Summary, cur string) {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Period", fmt.Sprintf("%s..%s", s.Start, s.End)},
			{"Calendar days", fmt.Sprint(s.CalendarDays)},
			{"Trading days", fmt.Sprint(s.TradingDays)},
			{"Shares", number(s.Shares, 2)},
			{"Last price", number(s.LastPrice, 4)},
			{"Average cost", number(s.AverageCost, 4)},
			{"Market value", M(s.MarketValue, cur).String()},
			{"Invested", M(s.Invested, cur).String()},
			{"Withdrawn", M(s.Withdrawn, cur).String()},
			{"Profit", M(s.Profit, cur).SignedString()},
			{"Dividends", M(s.TotalDividend, cur).String()},
			{"Costs", M(s.TotalCost, cur).String()},
			{"Fee rate", Percent(s.FeeRate).String()},
			{"TWR", Percent(s.TWR).SignedString()},
			{"TWR (annualized)", Percent(s.TWRAnnualized).SignedString()},
			{"Accounting return", Percent(s.AccountingReturn).SignedString()},
			{"Accounting return (annualized)", Percent(s.AccountingReturnAnnualized).SignedString()},
			{"MIRR", Percent(s.MIRR).SignedString()},
			{"MIRR (annualized)", Percent(s.MIRRAnnualized).SignedString()},
		},
	}
	doc.Table(table)
	doc.LF()
}

// StatsMarkdown renders the daily rows of a series.
func StatsMarkdown(title string, rows []fundperf.StatRow, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(title)
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Price", "Shares", "Flow", "Value", "Gain", "HPR", "TWR"},
		Rows:   [][]string{},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Date.String(),
			number(r.NetValue, 4),
			number(r.Shares, 2),
			M(r.CashFlow, cur).SignedString(),
			M(r.MarketValue, cur).String(),
			M(r.Gain, cur).SignedString(),
			Percent(r.HPR).SignedString(),
			Percent(r.TWR).SignedString(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// InstrumentMarkdown renders the combined summary of an instrument followed by one summary per
// investment period.
func InstrumentMarkdown(r *fundperf.InstrumentReport, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Performance of %s", r.Position.Instrument))
	if len(r.Combined.Rows) == 0 {
		doc.LF()
		doc.PlainText("No position.")
		return doc.String()
	}
	summaryTable(doc, r.Combined.Summary, cur)

	for i, st := range r.Periods {
		doc.H2(fmt.Sprintf("Period %d: %s", i+1, st.Range))
		summaryTable(doc, st.Summary, cur)
	}
	issues(doc, r.Position.Issues)
	return doc.String()
}

// PortfolioMarkdown renders the roll-up of several instruments, bucketed by period.
func PortfolioMarkdown(r *fundperf.PortfolioReport, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Portfolio")
	doc.BulletList(r.Instruments...)
	doc.LF()
	if len(r.Combined.Rows) == 0 {
		doc.PlainText("No position.")
		return doc.String()
	}
	summaryTable(doc, r.Combined.Summary, cur)

	doc.H2("Periods")
	doc.PlainText(PeriodsMarkdown(r.Buckets, cur))
	doc.LF()
	issues(doc, r.Issues)
	return doc.String()
}

// PeriodsMarkdown renders period buckets as a table, without a title.
func PeriodsMarkdown(buckets []fundperf.PeriodPerformance, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Period", "Start", "End", "Invested", "Withdrawn", "Gain", "Return", "Chained"},
		Rows:   [][]string{},
	}
	for _, b := range buckets {
		table.Rows = append(table.Rows, []string{
			b.Range.Identifier(),
			M(b.StartValue, cur).String(),
			M(b.MarketValue, cur).String(),
			M(b.Investment, cur).String(),
			M(b.Withdrawal, cur).String(),
			M(b.Gain, cur).SignedString(),
			Percent(b.HPR).SignedString(),
			Percent(b.ChainedReturn).SignedString(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// NormalizedMarkdown renders the reconciliation outcome of an imported feed.
func NormalizedMarkdown(id string, n fundperf.Normalized) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Import of %s", id))
	status := "agree"
	if !n.Agreement() {
		status = "disagree"
	}
	doc.BulletList(
		fmt.Sprintf("records: %d", len(n.Records)),
		fmt.Sprintf("published and implied gains %s, max divergence %s", status, number(n.MaxDivergence(), 6)),
	)
	doc.LF()
	if len(n.Records) > 0 {
		first, last := n.Records[0], n.Records[len(n.Records)-1]
		doc.PlainText(fmt.Sprintf("From %s to %s, last net value %s.", first.Date, last.Date, number(last.NetValue, 4)))
	}
	issues(doc, n.Issues)
	return doc.String()
}

// TradesMarkdown renders a list of trades.
func TradesMarkdown(trades []fundperf.TradeEntry, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Trades")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Fund", "Event", "Quantity", "Price", "Value", "Cost"},
		Rows:   [][]string{},
	}
	for _, t := range trades {
		event := t.Direction.String()
		if t.Override {
			event += " (override)"
		}
		table.Rows = append(table.Rows, []string{
			t.EffectiveDate.String(),
			t.Instrument,
			event,
			number(t.Quantity, 2),
			number(t.Price, 4),
			M(t.Value, cur).String(),
			M(t.Cost, cur).String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

func issues(doc *md.Markdown, is fundperf.Issues) {
	if len(is) == 0 {
		return
	}
	doc.H2("Issues")
	items := make([]string, len(is))
	for i, err := range is {
		items[i] = err.Error()
	}
	doc.BulletList(items...)
}
