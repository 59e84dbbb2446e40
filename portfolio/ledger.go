package portfolio

import (
	"time"

	"github.com/rustyeddy/stocksim/internal/id"
	"github.com/rustyeddy/stocksim/market"
)

// Ledger applies buy and sell orders to portfolios. It carries no state of
// its own; all state lives on the Portfolio.
type Ledger struct{}

func NewLedger() *Ledger { return &Ledger{} }

// Buy purchases qty units of the instrument at its current price. The whole
// order fills or nothing does. Cost basis blends by weighted average.
func (l *Ledger) Buy(p *Portfolio, in *market.Instrument, qty int, now time.Time) (Transaction, error) {
	if qty <= 0 || qty > MaxOrderQuantity {
		return Transaction{}, ErrInvalidQuantity
	}
	if in == nil || in.Price <= 0 {
		return Transaction{}, ErrUnknownInstrument
	}

	cost := float64(qty) * in.Price
	if cost > p.CashBalance {
		return Transaction{}, ErrInsufficientFunds
	}

	p.CashBalance -= cost

	h := p.Holdings[in.Symbol]
	if h == nil {
		p.Holdings[in.Symbol] = &Holding{
			Symbol:         in.Symbol,
			Quantity:       qty,
			AvgPricePaid:   in.Price,
			TotalCostBasis: cost,
		}
	} else {
		h.Quantity += qty
		h.TotalCostBasis += cost
		h.AvgPricePaid = h.TotalCostBasis / float64(h.Quantity)
	}

	tx := Transaction{
		ID:           id.New(),
		Type:         Buy,
		Symbol:       in.Symbol,
		Quantity:     qty,
		PricePerUnit: in.Price,
		TotalValue:   cost,
		Timestamp:    now,
	}
	p.Transactions = append(p.Transactions, tx)
	return tx, nil
}

// Sell disposes of qty units at the instrument's current price. The cost
// basis drops proportionally, so the average price paid is unchanged by a
// partial sell. A position sold to zero is removed from the map.
func (l *Ledger) Sell(p *Portfolio, in *market.Instrument, qty int, now time.Time) (Transaction, error) {
	if qty <= 0 || qty > MaxOrderQuantity {
		return Transaction{}, ErrInvalidQuantity
	}
	if in == nil || in.Price <= 0 {
		return Transaction{}, ErrUnknownInstrument
	}

	h := p.Holdings[in.Symbol]
	if h == nil || h.Quantity < qty {
		return Transaction{}, ErrInsufficientShares
	}

	proceeds := float64(qty) * in.Price
	p.CashBalance += proceeds

	reduction := h.TotalCostBasis * float64(qty) / float64(h.Quantity)
	h.TotalCostBasis -= reduction
	h.Quantity -= qty

	if h.Quantity == 0 {
		delete(p.Holdings, in.Symbol)
	} else {
		h.AvgPricePaid = h.TotalCostBasis / float64(h.Quantity)
	}

	tx := Transaction{
		ID:           id.New(),
		Type:         Sell,
		Symbol:       in.Symbol,
		Quantity:     qty,
		PricePerUnit: in.Price,
		TotalValue:   proceeds,
		Timestamp:    now,
	}
	p.Transactions = append(p.Transactions, tx)
	return tx, nil
}
