package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

var _ Journal = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordRun writes the run and its trades and equity points in one
// transaction, so a run is either fully journaled or absent.
func (j *SQLite) RecordRun(run Run, trades []Trade, equity []EquityPoint) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO backtest_runs
		(run_id, created, strategy, symbol, timeframe, dataset,
		 start_date, end_date,
		 initial_capital, final_capital, total_return, total_return_pct,
		 num_trades, wins, losses, win_rate,
		 profit_factor, max_drawdown_pct, sharpe_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created, run.Strategy, run.Symbol, run.Timeframe, run.Dataset,
		run.Start, run.End,
		run.InitialCapital, run.FinalCapital, run.TotalReturn, run.TotalReturnPct,
		run.NumTrades, run.Wins, run.Losses, run.WinRate,
		run.ProfitFactor, run.MaxDrawdownPct, run.SharpeRatio,
	)
	if err != nil {
		return err
	}

	for _, t := range trades {
		_, err = tx.Exec(`
			INSERT INTO backtest_trades
			(trade_id, run_id, symbol, entry_date, entry_price, exit_date, exit_price,
			 quantity, side, pnl, pnl_pct, exit_reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.TradeID, t.RunID, t.Symbol, t.EntryDate, t.EntryPrice, t.ExitDate, t.ExitPrice,
			t.Quantity, t.Side, t.PnL, t.PnLPct, t.ExitReason,
		)
		if err != nil {
			return err
		}
	}

	for _, p := range equity {
		_, err = tx.Exec(`
			INSERT INTO equity_points (run_id, time, equity) VALUES (?, ?, ?)`,
			p.RunID, p.Time, p.Equity,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

const runColumns = `run_id, created, strategy, symbol, timeframe, dataset,
	start_date, end_date,
	initial_capital, final_capital, total_return, total_return_pct,
	num_trades, wins, losses, win_rate,
	profit_factor, max_drawdown_pct, sharpe_ratio`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	err := row.Scan(
		&r.RunID, &r.Created, &r.Strategy, &r.Symbol, &r.Timeframe, &r.Dataset,
		&r.Start, &r.End,
		&r.InitialCapital, &r.FinalCapital, &r.TotalReturn, &r.TotalReturnPct,
		&r.NumTrades, &r.Wins, &r.Losses, &r.WinRate,
		&r.ProfitFactor, &r.MaxDrawdownPct, &r.SharpeRatio,
	)
	return r, err
}

func (j *SQLite) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM backtest_runs WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %q not found", runID)
	}
	return r, err
}

// ListRuns returns the most recent runs first. ULIDs sort by creation
// time, so ordering by run_id is chronological.
func (j *SQLite) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(`SELECT `+runColumns+` FROM backtest_runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLite) ListTrades(runID string) ([]Trade, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, symbol, entry_date, entry_price, exit_date, exit_price,
		       quantity, side, pnl, pnl_pct, exit_reason
		FROM backtest_trades
		WHERE run_id = ?
		ORDER BY exit_date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		var t Trade
		if err := rows.Scan(
			&t.TradeID, &t.RunID, &t.Symbol, &t.EntryDate, &t.EntryPrice, &t.ExitDate, &t.ExitPrice,
			&t.Quantity, &t.Side, &t.PnL, &t.PnLPct, &t.ExitReason,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLite) ListEquity(runID string) ([]EquityPoint, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, equity
		FROM equity_points
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityPoint
	for rows.Next() {
		var p EquityPoint
		if err := rows.Scan(&p.RunID, &p.Time, &p.Equity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
