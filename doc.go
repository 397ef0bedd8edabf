// Package fundperf reconstructs personal investment positions and measures their performance.
//
// The engine is a chain of pure functions over typed daily series:
//   - Normalize merges raw net value, cumulative value, dividend and split feeds into one
//     PriceRecord per trading day, computing the per-share gain two independent ways.
//   - Reconstruct walks the price history together with a trade ledger and produces the
//     per-day PositionDay ledger: shares held, market value, gain, dividends and cash flows.
//   - Segment splits a ledger into investment periods separated by long idle gaps.
//   - Aggregate and Summarize compute average cost, accounting return, time-weighted return
//     (TWR) and modified internal rate of return (MIRR), with their annualized variants.
//   - Combine rolls several instruments up into a portfolio ledger, and Bucket groups any
//     ledger by calendar period.
//
// Recoverable data problems (price gaps, undisclosed corporate actions, diverging gains) never
// abort a computation. They are logged and returned as Issues next to the result, and
// degenerate ratios are reported as NaN.
//
// Book is the ledger-entry layer: it resolves a trade timestamp to its effective date with a
// calendar.Calendar and prices the trade from the stored history. Analyst wires sources,
// the engine and its parameters together, and is what the `fp` command line tool uses.
package fundperf
