package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/stocksim/portfolio"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTransaction(portfolioID string, tx portfolio.Transaction) error {
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(tx_id, portfolio_id, type, symbol, quantity, price_per_unit, total_value, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, portfolioID, string(tx.Type), tx.Symbol,
		tx.Quantity, tx.PricePerUnit, tx.TotalValue, tx.Timestamp,
	)
	return err
}

func (j *SQLiteJournal) RecordState(s StateSnapshot) error {
	holdings, err := json.Marshal(s.Holdings)
	if err != nil {
		return fmt.Errorf("marshal holdings: %w", err)
	}

	_, err = j.db.Exec(`
		INSERT INTO portfolio_state
		(portfolio_id, time, cash_balance, holdings)
		VALUES (?, ?, ?, ?)`,
		s.PortfolioID, s.Time, s.CashBalance, string(holdings),
	)
	return err
}

// GetTransaction looks up one transaction by ID, returning the portfolio it
// belongs to alongside the record.
func (j *SQLiteJournal) GetTransaction(txID string) (string, portfolio.Transaction, error) {
	row := j.db.QueryRow(`
		SELECT tx_id, portfolio_id, type, symbol, quantity, price_per_unit, total_value, executed_at
		FROM transactions WHERE tx_id = ?`, txID)

	var portfolioID string
	tx, err := scanTransaction(row, &portfolioID)
	if err == sql.ErrNoRows {
		return "", portfolio.Transaction{}, fmt.Errorf("transaction %q not found", txID)
	}
	if err != nil {
		return "", portfolio.Transaction{}, err
	}
	return portfolioID, tx, nil
}

// ListTransactions returns a portfolio's transactions in execution order
// (ULIDs sort by creation time).
func (j *SQLiteJournal) ListTransactions(portfolioID string) ([]portfolio.Transaction, error) {
	rows, err := j.db.Query(`
		SELECT tx_id, portfolio_id, type, symbol, quantity, price_per_unit, total_value, executed_at
		FROM transactions WHERE portfolio_id = ? ORDER BY tx_id`, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []portfolio.Transaction
	for rows.Next() {
		var pid string
		tx, err := scanTransaction(rows, &pid)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// LatestState returns the most recent snapshot recorded for a portfolio.
func (j *SQLiteJournal) LatestState(portfolioID string) (StateSnapshot, error) {
	row := j.db.QueryRow(`
		SELECT portfolio_id, time, cash_balance, holdings
		FROM portfolio_state WHERE portfolio_id = ?
		ORDER BY time DESC LIMIT 1`, portfolioID)

	var s StateSnapshot
	var holdings string
	err := row.Scan(&s.PortfolioID, &s.Time, &s.CashBalance, &holdings)
	if err == sql.ErrNoRows {
		return StateSnapshot{}, fmt.Errorf("no state recorded for portfolio %q", portfolioID)
	}
	if err != nil {
		return StateSnapshot{}, err
	}
	if err := json.Unmarshal([]byte(holdings), &s.Holdings); err != nil {
		return StateSnapshot{}, fmt.Errorf("unmarshal holdings: %w", err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(r rowScanner, portfolioID *string) (portfolio.Transaction, error) {
	var tx portfolio.Transaction
	var typ string
	err := r.Scan(&tx.ID, portfolioID, &typ, &tx.Symbol,
		&tx.Quantity, &tx.PricePerUnit, &tx.TotalValue, &tx.Timestamp)
	if err != nil {
		return portfolio.Transaction{}, err
	}
	tx.Type = portfolio.TransactionType(typ)
	return tx, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
