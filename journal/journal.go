// Package journal persists executed transactions and portfolio snapshots.
// The engine treats the journal as an external collaborator: a write
// failure never rolls back the in-memory ledger, it is surfaced so the
// caller can re-fetch authoritative state.
package journal

import (
	"time"

	"github.com/rustyeddy/stocksim/portfolio"
)

// StateSnapshot captures a portfolio's cash and positions at a moment.
type StateSnapshot struct {
	PortfolioID string
	Time        time.Time
	CashBalance float64
	Holdings    []portfolio.Holding
}

// Journal records durable ledger history.
type Journal interface {
	RecordTransaction(portfolioID string, tx portfolio.Transaction) error
	RecordState(s StateSnapshot) error
	Close() error
}

// Reader is the query side, implemented by backends that support it.
type Reader interface {
	GetTransaction(txID string) (string, portfolio.Transaction, error)
	ListTransactions(portfolioID string) ([]portfolio.Transaction, error)
	LatestState(portfolioID string) (StateSnapshot, error)
}
