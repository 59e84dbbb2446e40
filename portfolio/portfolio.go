package portfolio

import (
	"errors"
	"time"
)

// MaxOrderQuantity caps the number of units a single buy or sell may move.
const MaxOrderQuantity = 100

// Operation failures. Validation errors are detected before any mutation,
// so a rejected operation leaves the portfolio untouched.
var (
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer within the per-order cap")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrUnknownInstrument  = errors.New("unknown instrument")
)

// TransactionType discriminates ledger entries.
type TransactionType string

const (
	Buy  TransactionType = "BUY"
	Sell TransactionType = "SELL"
)

// Transaction is an immutable record of one executed order.
type Transaction struct {
	ID           string          `json:"id"`
	Type         TransactionType `json:"type"`
	Symbol       string          `json:"symbol"`
	Quantity     int             `json:"quantity"`
	PricePerUnit float64         `json:"price_per_unit"`
	TotalValue   float64         `json:"total_value"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Holding is a portfolio's position in one instrument. TotalCostBasis is
// maintained incrementally; AvgPricePaid is always derived from it, never
// the other way around, so repeated blends don't drift.
type Holding struct {
	Symbol         string  `json:"symbol"`
	Quantity       int     `json:"quantity"`
	AvgPricePaid   float64 `json:"avg_price_paid"`
	TotalCostBasis float64 `json:"total_cost_basis"`
}

// Portfolio holds cash and positions. Only the ledger operations in this
// package mutate CashBalance and Holdings; every other component treats a
// Portfolio as read-only.
type Portfolio struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	CashBalance    float64             `json:"cash_balance"`
	InitialBalance float64             `json:"initial_balance"`
	Holdings       map[string]*Holding `json:"holdings"`
	Transactions   []Transaction       `json:"transactions"`
}

// New creates a portfolio with the given starting cash. InitialBalance is
// the immutable earnings baseline.
func New(id, name string, initialBalance float64) *Portfolio {
	return &Portfolio{
		ID:             id,
		Name:           name,
		CashBalance:    initialBalance,
		InitialBalance: initialBalance,
		Holdings:       make(map[string]*Holding),
	}
}

// Holding returns the position for symbol, or nil when none is held.
func (p *Portfolio) Holding(symbol string) *Holding {
	return p.Holdings[symbol]
}

// Copy returns a deep copy that shares no mutable state with p. The ledger
// keeps mutating the original; readers hold the copy.
func (p *Portfolio) Copy() Portfolio {
	cp := *p
	cp.Holdings = make(map[string]*Holding, len(p.Holdings))
	for sym, h := range p.Holdings {
		dup := *h
		cp.Holdings[sym] = &dup
	}
	cp.Transactions = append([]Transaction(nil), p.Transactions...)
	return cp
}
