package fundperf

import "io"

// EncodeStats writes aggregated rows as JSONL, one row per line in a stable field order.
// Unknown values are null.
func EncodeStats(w io.Writer, rows []StatRow) error {
	for _, r := range rows {
		var o jsonObjectWriter
		o.Append("date", r.Date).
			Number("net_value", r.NetValue).
			Number("shares", r.Shares).
			Number("shares_delta", r.SharesDelta).
			Number("market_value", r.MarketValue).
			Number("gain", r.Gain).
			Number("dividend", r.DividendReceived).
			Number("cost", r.Cost).
			Number("cash_flow", r.CashFlow).
			Number("adj_buy_quantity", r.AdjBuyQuantity).
			Number("invested", r.Invested).
			Number("withdrawn", r.Withdrawn).
			Number("average_cost", r.AverageCost).
			Number("hpr", r.HPR).
			Number("twr", r.TWR).
			Number("accounting_return", r.AccountingReturn)
		if err := writeLine(w, &o); err != nil {
			return err
		}
	}
	return nil
}
