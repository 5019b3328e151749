package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"DeskDisplay/internal/model"
)

var _ Recorder = (*SQLiteRecorder)(nil)
var _ Recorder = (*NoopRecorder)(nil)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db    *sql.DB
	mu    sync.Mutex
	runID string
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, runID: uuid.NewString()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s (run %s)", dbPath, r.runID)
	return r, nil
}

// RunID identifies rows written by this process.
func (r *SQLiteRecorder) RunID() string { return r.runID }

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quote_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			price          REAL,
			previous_close REAL,
			day_high       REAL,
			day_low        REAL,
			change         REAL,
			change_percent REAL,
			final_sample   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quote_symbol_ts ON quote_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS housekeeping_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			kind      TEXT,
			detail    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_housekeeping_ts ON housekeeping_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordQuote(snap *QuoteSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := snap.Quote
	_, err := r.db.Exec(`INSERT INTO quote_snapshots
		(run_id, timestamp, symbol, price, previous_close, day_high, day_low, change, change_percent, final_sample)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		r.runID, unixOrNow(snap.TakenAt), q.Symbol, q.Price, q.PreviousClose,
		q.DayHigh, q.DayLow, q.Change, q.ChangePercent, snap.Final,
	)
	return err
}

func (r *SQLiteRecorder) RecordHousekeeping(evt *HousekeepingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO housekeeping_events
		(run_id, timestamp, kind, detail)
		VALUES (?,?,?,?)`,
		r.runID, unixOrNow(evt.At), evt.Kind, evt.Detail,
	)
	return err
}

func (r *SQLiteRecorder) LatestQuotes(symbols []string) ([]model.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quotes := make([]model.Quote, 0, len(symbols))
	for _, sym := range symbols {
		q := model.Quote{Symbol: sym}
		err := r.db.QueryRow(`SELECT price, previous_close, day_high, day_low, change, change_percent
			FROM quote_snapshots WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT 1`, sym).
			Scan(&q.Price, &q.PreviousClose, &q.DayHigh, &q.DayLow, &q.Change, &q.ChangePercent)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("latest quote %s: %w", sym, err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func unixOrNow(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().Unix()
	}
	return t.Unix()
}
