package journal

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/stocksim/portfolio"
)

type CSVJournal struct {
	txs    *csv.Writer
	states *csv.Writer
	tf, sf *os.File
}

func NewCSV(txPath, statePath string) (*CSVJournal, error) {
	tf, err := os.Create(txPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(statePath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	sw := csv.NewWriter(sf)

	if err := tw.Write([]string{"tx_id", "portfolio_id", "type", "symbol", "quantity", "price_per_unit", "total_value", "executed_at"}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{"portfolio_id", "time", "cash_balance", "holdings"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{tw, sw, tf, sf}, nil
}

func (j *CSVJournal) RecordTransaction(portfolioID string, tx portfolio.Transaction) error {
	err := j.txs.Write([]string{
		tx.ID,
		portfolioID,
		string(tx.Type),
		tx.Symbol,
		strconv.Itoa(tx.Quantity),
		f(tx.PricePerUnit),
		f(tx.TotalValue),
		tx.Timestamp.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.txs.Flush()
	return j.txs.Error()
}

func (j *CSVJournal) RecordState(s StateSnapshot) error {
	holdings, err := json.Marshal(s.Holdings)
	if err != nil {
		return err
	}
	err = j.states.Write([]string{
		s.PortfolioID,
		s.Time.Format(time.RFC3339),
		f(s.CashBalance),
		string(holdings),
	})
	if err != nil {
		return err
	}
	j.states.Flush()
	return j.states.Error()
}

func (j *CSVJournal) Close() error {
	j.txs.Flush()
	if err := j.txs.Error(); err != nil {
		return err
	}
	j.states.Flush()
	if err := j.states.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.sf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
