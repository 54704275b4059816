package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/types"
)

// SQLiteStore keeps the ledger in a SQLite table. Save replaces the table
// contents inside one transaction.
type SQLiteStore struct {
	db *sql.DB
}

var _ interfaces.TradeStore = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (or creates) the database and runs migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps in-memory databases coherent
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id            INTEGER PRIMARY KEY,
			ticker        TEXT NOT NULL,
			action        TEXT NOT NULL,
			entry_price   REAL NOT NULL,
			target_price  REAL NOT NULL,
			stop_loss     REAL NOT NULL,
			position_size TEXT,
			rating        TEXT,
			reason        TEXT,
			entry_date    TEXT NOT NULL,
			status        TEXT NOT NULL,
			exit_price    REAL,
			exit_date     TEXT,
			pnl_pct       REAL,
			notes         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) ([]types.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, ticker, action, entry_price, target_price, stop_loss,
		position_size, rating, reason, entry_date, status, exit_price, exit_date, pnl_pct, notes
		FROM trades ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	trades := []types.Trade{}
	for rows.Next() {
		var (
			t                           types.Trade
			action, status              string
			entryDate                   string
			positionSize, reason, notes sql.NullString
			rating, exitDate            sql.NullString
			exitPrice, pnl              sql.NullFloat64
		)
		if err := rows.Scan(&t.ID, &t.Ticker, &action, &t.EntryPrice, &t.TargetPrice, &t.StopLoss,
			&positionSize, &rating, &reason, &entryDate, &status, &exitPrice, &exitDate, &pnl, &notes); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}

		t.Action = types.Action(action)
		t.Status = types.TradeStatus(status)
		t.Rating = types.Rating(rating.String)
		t.PositionSize = positionSize.String
		t.Reason = reason.String
		t.Notes = notes.String
		if t.EntryDate, err = time.Parse(time.RFC3339Nano, entryDate); err != nil {
			return nil, fmt.Errorf("trade %d entry_date: %w", t.ID, err)
		}
		if exitPrice.Valid {
			v := exitPrice.Float64
			t.ExitPrice = &v
		}
		if pnl.Valid {
			v := pnl.Float64
			t.PnLPct = &v
		}
		if exitDate.Valid {
			at, err := time.Parse(time.RFC3339Nano, exitDate.String)
			if err != nil {
				return nil, fmt.Errorf("trade %d exit_date: %w", t.ID, err)
			}
			t.ExitDate = &at
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, trades []types.Trade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return fmt.Errorf("clear trades: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trades (id, ticker, action, entry_price, target_price,
		stop_loss, position_size, rating, reason, entry_date, status, exit_price, exit_date, pnl_pct, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		var exitPrice, pnl sql.NullFloat64
		var exitDate sql.NullString
		if t.ExitPrice != nil {
			exitPrice = sql.NullFloat64{Float64: *t.ExitPrice, Valid: true}
		}
		if t.PnLPct != nil {
			pnl = sql.NullFloat64{Float64: *t.PnLPct, Valid: true}
		}
		if t.ExitDate != nil {
			exitDate = sql.NullString{String: t.ExitDate.Format(time.RFC3339Nano), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Ticker, string(t.Action), t.EntryPrice, t.TargetPrice,
			t.StopLoss, t.PositionSize, string(t.Rating), t.Reason, t.EntryDate.Format(time.RFC3339Nano),
			string(t.Status), exitPrice, exitDate, pnl, t.Notes); err != nil {
			return fmt.Errorf("insert trade %d: %w", t.ID, err)
		}
	}

	return tx.Commit()
}
