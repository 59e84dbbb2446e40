package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stocksim/market"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testInstrument(symbol string, price float64) *market.Instrument {
	return market.NewInstrument(symbol, symbol+" Corp", "Technology", price, 0.02)
}

func TestBuyCreatesHolding(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 1000)
	in := testInstrument("ATLS", 100)

	tx, err := l.Buy(p, in, 2, testTime)
	require.NoError(t, err)

	assert.Equal(t, 800.0, p.CashBalance)
	h := p.Holding("ATLS")
	require.NotNil(t, h)
	assert.Equal(t, 2, h.Quantity)
	assert.Equal(t, 100.0, h.AvgPricePaid)
	assert.Equal(t, 200.0, h.TotalCostBasis)

	assert.Equal(t, Buy, tx.Type)
	assert.Equal(t, 200.0, tx.TotalValue)
	assert.NotEmpty(t, tx.ID)
	require.Len(t, p.Transactions, 1)
	assert.Equal(t, tx, p.Transactions[0])
}

func TestBuyWeightedAverage(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 1000)
	in := testInstrument("ATLS", 100)

	_, err := l.Buy(p, in, 1, testTime)
	require.NoError(t, err)

	in.Price = 200
	_, err = l.Buy(p, in, 1, testTime)
	require.NoError(t, err)

	h := p.Holding("ATLS")
	require.NotNil(t, h)
	assert.Equal(t, 2, h.Quantity)
	assert.InDelta(t, 150.0, h.AvgPricePaid, 1e-9)
	assert.InDelta(t, 300.0, h.TotalCostBasis, 1e-9)
}

func TestBuyValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cash    float64
		price   float64
		qty     int
		wantErr error
	}{
		{"zero_quantity", 1000, 100, 0, ErrInvalidQuantity},
		{"negative_quantity", 1000, 100, -3, ErrInvalidQuantity},
		{"over_cap", 1e9, 100, MaxOrderQuantity + 1, ErrInvalidQuantity},
		{"insufficient_funds", 150, 100, 2, ErrInsufficientFunds},
		{"no_price", 1000, 0, 1, ErrUnknownInstrument},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := NewLedger()
			p := New("p1", "main", tt.cash)
			in := testInstrument("ATLS", tt.price)

			_, err := l.Buy(p, in, tt.qty, testTime)
			require.ErrorIs(t, err, tt.wantErr)

			// Rejected atomically: nothing changed.
			assert.Equal(t, tt.cash, p.CashBalance)
			assert.Empty(t, p.Holdings)
			assert.Empty(t, p.Transactions)
		})
	}
}

func TestBuyNilInstrument(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 1000)
	_, err := l.Buy(p, nil, 1, testTime)
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}

func TestSellProportionalCostBasis(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 1000)
	in := testInstrument("ATLS", 100)

	_, err := l.Buy(p, in, 4, testTime)
	require.NoError(t, err)

	in.Price = 150
	_, err = l.Sell(p, in, 1, testTime)
	require.NoError(t, err)

	h := p.Holding("ATLS")
	require.NotNil(t, h)
	assert.Equal(t, 3, h.Quantity)
	// Average price paid is unchanged by a partial sell.
	assert.InDelta(t, 100.0, h.AvgPricePaid, 1e-9)
	assert.InDelta(t, 300.0, h.TotalCostBasis, 1e-9)
	assert.InDelta(t, 750.0, p.CashBalance, 1e-9)
}

func TestSellToZeroRemovesHolding(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 1000)
	in := testInstrument("ATLS", 100)

	_, err := l.Buy(p, in, 3, testTime)
	require.NoError(t, err)
	_, err = l.Sell(p, in, 3, testTime)
	require.NoError(t, err)

	assert.NotContains(t, p.Holdings, "ATLS")
	assert.InDelta(t, 1000.0, p.CashBalance, 1e-9)
}

func TestSellValidation(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 1000)
	in := testInstrument("ATLS", 100)

	_, err := l.Buy(p, in, 2, testTime)
	require.NoError(t, err)

	cash := p.CashBalance
	held := *p.Holding("ATLS")

	_, err = l.Sell(p, in, 3, testTime)
	require.ErrorIs(t, err, ErrInsufficientShares)

	_, err = l.Sell(p, testInstrument("NONE", 50), 1, testTime)
	require.ErrorIs(t, err, ErrInsufficientShares)

	_, err = l.Sell(p, in, 0, testTime)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	// All rejections left state untouched.
	assert.Equal(t, cash, p.CashBalance)
	assert.Equal(t, held, *p.Holding("ATLS"))
	assert.Len(t, p.Transactions, 1)
}

func TestCashConservation(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 10000)
	in := testInstrument("ATLS", 100)

	steps := []struct {
		price float64
		typ   TransactionType
		qty   int
	}{
		{100, Buy, 10},
		{110, Buy, 5},
		{95, Sell, 7},
		{120, Buy, 3},
		{130, Sell, 11},
		{80, Buy, 20},
	}

	var bought, sold float64
	for _, s := range steps {
		in.Price = s.price
		var err error
		if s.typ == Buy {
			_, err = l.Buy(p, in, s.qty, testTime)
			bought += float64(s.qty) * s.price
		} else {
			_, err = l.Sell(p, in, s.qty, testTime)
			sold += float64(s.qty) * s.price
		}
		require.NoError(t, err)

		assert.InDelta(t, bought-sold, p.InitialBalance-p.CashBalance, 1e-9)
		if h := p.Holding("ATLS"); h != nil {
			assert.GreaterOrEqual(t, h.Quantity, 0)
		}
	}
}

func TestRoundTripScenario(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 500)
	in := testInstrument("ATLS", 100)

	_, err := l.Buy(p, in, 2, testTime)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, p.CashBalance, 1e-9)

	h := p.Holding("ATLS")
	require.NotNil(t, h)
	assert.Equal(t, 2, h.Quantity)
	assert.InDelta(t, 100.0, h.AvgPricePaid, 1e-9)
	assert.InDelta(t, 200.0, h.TotalCostBasis, 1e-9)

	in.Price = 150
	_, err = l.Sell(p, in, 1, testTime)
	require.NoError(t, err)

	assert.InDelta(t, 450.0, p.CashBalance, 1e-9)
	h = p.Holding("ATLS")
	require.NotNil(t, h)
	assert.Equal(t, 1, h.Quantity)
	assert.InDelta(t, 100.0, h.AvgPricePaid, 1e-9)
	assert.InDelta(t, 100.0, h.TotalCostBasis, 1e-9)

	v := Valuate(p, map[string]*market.Instrument{"ATLS": in})
	assert.InDelta(t, 150.0, v.PortfolioValue, 1e-9)
	assert.InDelta(t, 600.0, v.TotalAssets, 1e-9)
	assert.InDelta(t, 100.0, v.Earnings, 1e-9)
}
