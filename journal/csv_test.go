package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stocksim/portfolio"
)

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txPath := filepath.Join(dir, "transactions.csv")
	statePath := filepath.Join(dir, "state.csv")

	j, err := NewCSV(txPath, statePath)
	require.NoError(t, err)

	require.NoError(t, j.RecordTransaction("p1", testTx("01A", portfolio.Buy)))
	require.NoError(t, j.RecordState(StateSnapshot{
		PortfolioID: "p1",
		Time:        time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		CashBalance: 572.50,
		Holdings: []portfolio.Holding{
			{Symbol: "ATLS", Quantity: 3, AvgPricePaid: 142.50, TotalCostBasis: 427.50},
		},
	}))
	require.NoError(t, j.Close())

	tf, err := os.Open(txPath)
	require.NoError(t, err)
	defer tf.Close()
	rows, err := csv.NewReader(tf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "tx_id", rows[0][0])
	assert.Equal(t, []string{"01A", "p1", "BUY", "ATLS", "3", "142.500000", "427.500000", "2026-03-14T09:30:00Z"}, rows[1])

	sf, err := os.Open(statePath)
	require.NoError(t, err)
	defer sf.Close()
	rows, err = csv.NewReader(sf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[1][0])
	assert.Equal(t, "572.500000", rows[1][2])
	assert.Contains(t, rows[1][3], `"symbol":"ATLS"`)
}

func TestMemoryJournalFailWrites(t *testing.T) {
	t.Parallel()

	j := NewMemory()
	require.NoError(t, j.RecordTransaction("p1", testTx("01A", portfolio.Buy)))

	j.FailWrites = true
	assert.Error(t, j.RecordTransaction("p1", testTx("01B", portfolio.Buy)))
	assert.Error(t, j.RecordState(StateSnapshot{PortfolioID: "p1"}))

	j.FailWrites = false
	txs, err := j.ListTransactions("p1")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}
