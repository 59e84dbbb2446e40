package journal

import (
	"fmt"
	"sync"

	"github.com/rustyeddy/stocksim/portfolio"
)

// MemoryJournal keeps records in process. Used by tests and by the `run`
// command when no durable backend is configured. FailWrites makes every
// write return an error, for exercising persistence-failure paths.
type MemoryJournal struct {
	mu         sync.Mutex
	txs        map[string][]portfolio.Transaction
	txOwner    map[string]string
	states     map[string][]StateSnapshot
	FailWrites bool
}

func NewMemory() *MemoryJournal {
	return &MemoryJournal{
		txs:     make(map[string][]portfolio.Transaction),
		txOwner: make(map[string]string),
		states:  make(map[string][]StateSnapshot),
	}
}

func (j *MemoryJournal) RecordTransaction(portfolioID string, tx portfolio.Transaction) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.FailWrites {
		return fmt.Errorf("journal unavailable")
	}
	j.txs[portfolioID] = append(j.txs[portfolioID], tx)
	j.txOwner[tx.ID] = portfolioID
	return nil
}

func (j *MemoryJournal) RecordState(s StateSnapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.FailWrites {
		return fmt.Errorf("journal unavailable")
	}
	j.states[s.PortfolioID] = append(j.states[s.PortfolioID], s)
	return nil
}

func (j *MemoryJournal) GetTransaction(txID string) (string, portfolio.Transaction, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	pid, ok := j.txOwner[txID]
	if !ok {
		return "", portfolio.Transaction{}, fmt.Errorf("transaction %q not found", txID)
	}
	for _, tx := range j.txs[pid] {
		if tx.ID == txID {
			return pid, tx, nil
		}
	}
	return "", portfolio.Transaction{}, fmt.Errorf("transaction %q not found", txID)
}

func (j *MemoryJournal) ListTransactions(portfolioID string) ([]portfolio.Transaction, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]portfolio.Transaction, len(j.txs[portfolioID]))
	copy(out, j.txs[portfolioID])
	return out, nil
}

func (j *MemoryJournal) LatestState(portfolioID string) (StateSnapshot, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	states := j.states[portfolioID]
	if len(states) == 0 {
		return StateSnapshot{}, fmt.Errorf("no state recorded for portfolio %q", portfolioID)
	}
	return states[len(states)-1], nil
}

func (j *MemoryJournal) Close() error { return nil }
