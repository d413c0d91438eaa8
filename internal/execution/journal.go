package execution

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"signal-enginev1/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Journal persists every gate decision to SQLite for analysis and audit.
// Both accepted and rejected intents are recorded.
type Journal struct {
	mu sync.Mutex
	db *sql.DB
}

// NewJournal opens (or creates) a SQLite journal database.
func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_sync=NORMAL")
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id    INTEGER DEFAULT 0,
		symbol      TEXT NOT NULL,
		side        TEXT NOT NULL,
		signal_type TEXT NOT NULL,
		qty         INTEGER NOT NULL,
		price       REAL NOT NULL,
		value       REAL NOT NULL,
		accepted    INTEGER NOT NULL,
		reason      TEXT,
		decided_at  DATETIME NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_symbol ON decisions(symbol);
	CREATE INDEX IF NOT EXISTS idx_decisions_signal ON decisions(signal_type);
	CREATE INDEX IF NOT EXISTS idx_decisions_decided_at ON decisions(decided_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[journal] opened decision journal at %s", dbPath)
	return &Journal{db: db}, nil
}

// DB exposes the underlying handle for health probes.
func (j *Journal) DB() *sql.DB { return j.db }

// RecordDecision persists one gate decision. orderID is 0 for rejections.
func (j *Journal) RecordDecision(intent model.TradeIntent, accepted bool, reason string, orderID int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	acceptedInt := 0
	if accepted {
		acceptedInt = 1
	}
	_, err := j.db.Exec(
		`INSERT INTO decisions (order_id, symbol, side, signal_type, qty, price, value, accepted, reason, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orderID,
		intent.Symbol,
		string(intent.Side),
		intent.SignalType,
		intent.Quantity,
		intent.Price,
		intent.Value(),
		acceptedInt,
		reason,
		time.Now().Format(time.RFC3339),
	)
	return err
}

// DecisionRecord is a row from the decisions table.
type DecisionRecord struct {
	ID         int64   `json:"id"`
	OrderID    int64   `json:"order_id"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	SignalType string  `json:"signal_type"`
	Qty        int64   `json:"qty"`
	Price      float64 `json:"price"`
	Value      float64 `json:"value"`
	Accepted   bool    `json:"accepted"`
	Reason     string  `json:"reason"`
	DecidedAt  string  `json:"decided_at"`
}

// GetDecisions returns the last N decisions, newest first.
func (j *Journal) GetDecisions(limit int) ([]DecisionRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(
		`SELECT id, order_id, symbol, side, signal_type, qty, price, value, accepted, reason, decided_at
		 FROM decisions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var d DecisionRecord
		var accepted int
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Symbol, &d.Side, &d.SignalType,
			&d.Qty, &d.Price, &d.Value, &accepted, &d.Reason, &d.DecidedAt); err != nil {
			continue
		}
		d.Accepted = accepted != 0
		out = append(out, d)
	}
	return out, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
