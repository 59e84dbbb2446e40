package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stocksim/market"
)

func TestValuateEmptyPortfolio(t *testing.T) {
	t.Parallel()

	p := New("p1", "main", 1000)
	v := Valuate(p, nil)

	assert.Equal(t, 0.0, v.PortfolioValue)
	assert.Equal(t, 1000.0, v.TotalAssets)
	assert.Equal(t, 0.0, v.Earnings)
	assert.Equal(t, 0.0, v.PercentReturn)
	assert.Empty(t, v.Holdings)
	assert.Empty(t, v.SectorAllocation)
}

func TestValuatePerHoldingDetail(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 10000)

	tech := market.NewInstrument("ATLS", "Atlas Semiconductor", "Technology", 100, 0.02)
	energy := market.NewInstrument("BRYN", "Brynmore Energy", "Energy", 50, 0.02)

	_, err := l.Buy(p, tech, 10, testTime)
	require.NoError(t, err)
	_, err = l.Buy(p, energy, 20, testTime)
	require.NoError(t, err)

	tech.Price = 120
	energy.Price = 40

	quotes := map[string]*market.Instrument{"ATLS": tech, "BRYN": energy}
	v := Valuate(p, quotes)

	require.Len(t, v.Holdings, 2)
	atls, bryn := v.Holdings[0], v.Holdings[1]

	assert.Equal(t, "ATLS", atls.Symbol)
	assert.InDelta(t, 1200.0, atls.CurrentValue, 1e-9)
	assert.InDelta(t, 200.0, atls.UnrealizedPL, 1e-9)
	assert.InDelta(t, 20.0, atls.PercentChange, 1e-9)

	assert.Equal(t, "BRYN", bryn.Symbol)
	assert.InDelta(t, 800.0, bryn.CurrentValue, 1e-9)
	assert.InDelta(t, -200.0, bryn.UnrealizedPL, 1e-9)
	assert.InDelta(t, -20.0, bryn.PercentChange, 1e-9)

	assert.InDelta(t, 2000.0, v.PortfolioValue, 1e-9)
	assert.InDelta(t, 10000.0, v.TotalAssets, 1e-9)
	assert.InDelta(t, 0.0, v.Earnings, 1e-9)

	assert.InDelta(t, 60.0, v.SectorAllocation["Technology"], 1e-9)
	assert.InDelta(t, 40.0, v.SectorAllocation["Energy"], 1e-9)
}

func TestValuateMissingInstrumentCountsZero(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	p := New("p1", "main", 1000)
	in := market.NewInstrument("GONE", "Gone Inc", "Technology", 100, 0.02)

	_, err := l.Buy(p, in, 2, testTime)
	require.NoError(t, err)

	v := Valuate(p, map[string]*market.Instrument{})
	assert.Equal(t, 0.0, v.PortfolioValue)
	assert.InDelta(t, 800.0, v.TotalAssets, 1e-9)
	require.Len(t, v.Holdings, 1)
	assert.Equal(t, 0.0, v.Holdings[0].CurrentPrice)
	assert.InDelta(t, -200.0, v.Holdings[0].UnrealizedPL, 1e-9)
}

func TestValuatePercentReturn(t *testing.T) {
	t.Parallel()

	p := New("p1", "main", 1000)
	p.CashBalance = 1250

	v := Valuate(p, nil)
	assert.InDelta(t, 250.0, v.Earnings, 1e-9)
	assert.InDelta(t, 25.0, v.PercentReturn, 1e-9)

	// Zero initial balance must not divide.
	z := New("p2", "empty", 0)
	z.CashBalance = 100
	vz := Valuate(z, nil)
	assert.InDelta(t, 100.0, vz.Earnings, 1e-9)
	assert.Equal(t, 0.0, vz.PercentReturn)
}
