// Package store persists price histories and the trade book in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/fundperf"
	"github.com/etnz/fundperf/date"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Schema creates the tables if they do not exist yet.
//
// Sell amounts are stored negative in the trade book.
const Schema = `
CREATE TABLE IF NOT EXISTS mutualfundhist (
	fund_id        TEXT NOT NULL,
	date           TEXT NOT NULL,
	net_value      REAL,
	full_value     REAL,
	div            REAL NOT NULL DEFAULT 0,
	split_ratio    REAL NOT NULL DEFAULT 1,
	pnl            REAL,
	equiv_cash     REAL,
	position_value REAL,
	daily_return   REAL,
	PRIMARY KEY (fund_id, date)
);

CREATE TABLE IF NOT EXISTS tradebook (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	fund_id        TEXT NOT NULL,
	trade_datetime TEXT,
	effect_date    TEXT NOT NULL,
	event          TEXT NOT NULL CHECK (event IN ('buy', 'sell')),
	value          REAL NOT NULL,
	price          REAL,
	amount         REAL NOT NULL,
	cost           REAL NOT NULL DEFAULT 0,
	override       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS tradebook_fund_date ON tradebook (fund_id, effect_date);
`

// Store is a SQLite database of prices and trades. It implements fundperf.PriceSource,
// fundperf.TradeSource and fundperf.TradeSink.
type Store struct {
	db   *sql.DB
	path string
}

var (
	_ fundperf.PriceSource = (*Store)(nil)
	_ fundperf.TradeSource = (*Store)(nil)
	_ fundperf.TradeSink   = (*Store)(nil)
)

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema in %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// PutPrices inserts or replaces the price records of a fund, in a single transaction.
func (s *Store) PutPrices(ctx context.Context, fund string, prices []fundperf.PriceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO mutualfundhist
		(fund_id, date, net_value, full_value, div, split_ratio, pnl, equiv_cash, position_value, daily_return)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range prices {
		_, err := stmt.ExecContext(ctx, fund, p.Date.String(),
			nullable(p.NetValue), nullable(p.CumulativeValue), p.Dividend, p.SplitRatio,
			nullable(p.Gain), nullable(p.EquivCash), nullable(p.PositionValue), nullable(p.DailyReturn))
		if err != nil {
			return fmt.Errorf("cannot store price of %s on %s: %w", fund, p.Date, err)
		}
	}
	return tx.Commit()
}

// Prices returns the date-ordered price records of a fund within r.
func (s *Store) Prices(ctx context.Context, fund string, r date.Range) ([]fundperf.PriceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, net_value, full_value, div, split_ratio, pnl, equiv_cash, position_value, daily_return
		FROM mutualfundhist
		WHERE fund_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`, fund, r.From.String(), r.To.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []fundperf.PriceRecord
	for rows.Next() {
		var (
			on                           string
			nv, full, pnl, eq, pv, daily sql.NullFloat64
			p                            fundperf.PriceRecord
		)
		if err := rows.Scan(&on, &nv, &full, &p.Dividend, &p.SplitRatio, &pnl, &eq, &pv, &daily); err != nil {
			return nil, err
		}
		if p.Date, err = date.Parse(on); err != nil {
			return nil, fmt.Errorf("corrupted price of %s: %w", fund, err)
		}
		p.NetValue, p.CumulativeValue, p.Gain = orNaN(nv), orNaN(full), orNaN(pnl)
		p.EquivCash, p.PositionValue, p.DailyReturn = orNaN(eq), orNaN(pv), orNaN(daily)
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// LatestPriceDate returns the date of the last stored price of a fund.
func (s *Store) LatestPriceDate(ctx context.Context, fund string) (date.Date, bool, error) {
	var on sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(date) FROM mutualfundhist WHERE fund_id = ?`, fund).Scan(&on)
	if err != nil || !on.Valid {
		return date.Date{}, false, err
	}
	d, err := date.Parse(on.String)
	return d, err == nil, err
}

// AddTrade appends a trade to the trade book.
func (s *Store) AddTrade(ctx context.Context, t fundperf.TradeEntry) error {
	return s.AddTrades(ctx, []fundperf.TradeEntry{t})
}

// AddTrades appends trades to the trade book in a single transaction: either all of them are
// stored or none is.
func (s *Store) AddTrades(ctx context.Context, trades []fundperf.TradeEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tradebook
		(fund_id, trade_datetime, effect_date, event, value, price, amount, cost, override)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range trades {
		if t.Instrument == "" {
			return fmt.Errorf("cannot store trade on %s: no fund", t.EffectiveDate)
		}
		var at any
		if !t.Time.IsZero() {
			at = t.Time.Format(time.RFC3339)
		}
		_, err := stmt.ExecContext(ctx, t.Instrument, at, t.EffectiveDate.String(), t.Direction.String(),
			t.Value, nullable(t.Price), t.SignedQuantity(), t.Cost, t.Override)
		if err != nil {
			return fmt.Errorf("cannot store trade of %s on %s: %w", t.Instrument, t.EffectiveDate, err)
		}
	}
	return tx.Commit()
}

// Trades returns the trades of a fund with an effective date within r, in date order.
func (s *Store) Trades(ctx context.Context, fund string, r date.Range) ([]fundperf.TradeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fund_id, trade_datetime, effect_date, event, value, price, amount, cost, override
		FROM tradebook
		WHERE fund_id = ? AND effect_date BETWEEN ? AND ?
		ORDER BY effect_date, id`, fund, r.From.String(), r.To.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []fundperf.TradeEntry
	for rows.Next() {
		var (
			t          fundperf.TradeEntry
			at         sql.NullString
			eff, event string
			price      sql.NullFloat64
			amount     float64
		)
		if err := rows.Scan(&t.Instrument, &at, &eff, &event, &t.Value, &price, &amount, &t.Cost, &t.Override); err != nil {
			return nil, err
		}
		if t.EffectiveDate, err = date.Parse(eff); err != nil {
			return nil, fmt.Errorf("corrupted trade of %s: %w", fund, err)
		}
		if t.Direction, err = fundperf.ParseDirection(event); err != nil {
			return nil, fmt.Errorf("corrupted trade of %s: %w", fund, err)
		}
		if at.Valid {
			if t.Time, err = time.Parse(time.RFC3339, at.String); err != nil {
				return nil, fmt.Errorf("corrupted trade of %s: %w", fund, err)
			}
		}
		t.Price = orNaN(price)
		t.Quantity = math.Abs(amount)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Instruments returns the funds with at least one trade.
func (s *Store) Instruments(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT fund_id FROM tradebook ORDER BY fund_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// nullable maps unknown values to NULL.
func nullable(v float64) any {
	if fundperf.Insufficient(v) {
		return nil
	}
	return v
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
