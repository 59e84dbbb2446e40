package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}

	v, err := SMA(samples, 5)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-9)

	v, err = SMA(samples, 2)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, v, 1e-9)
}

func TestSMAErrors(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 0)
	assert.Error(t, err)

	_, err = SMA([]float64{1, 2}, 3)
	assert.Error(t, err)
}

func TestEMAConstantSeries(t *testing.T) {
	samples := make([]float64, 40)
	for i := range samples {
		samples[i] = 50
	}

	v, err := EMA(samples, 20)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, v, 1e-9)
}

func TestEMATracksRisingSeries(t *testing.T) {
	samples := make([]float64, 40)
	for i := range samples {
		samples[i] = float64(i + 1)
	}

	ema, err := EMA(samples, 10)
	require.NoError(t, err)
	sma, err := SMA(samples, 10)
	require.NoError(t, err)

	// EMA lags the latest price but sits above the early-series values.
	assert.Greater(t, ema, samples[20])
	assert.Less(t, ema, samples[39])
	assert.Less(t, ema, sma+5)
}

func TestStreamingEMAMatchesBatch(t *testing.T) {
	samples := []float64{10, 11, 12, 11, 13, 14, 13, 15, 16, 15, 17, 18}

	s := NewStreamingEMA(5)
	assert.False(t, s.Ready())
	for _, p := range samples {
		s.Update(p)
	}
	require.True(t, s.Ready())

	batch, err := EMA(samples, 5)
	require.NoError(t, err)
	assert.InDelta(t, batch, s.Value(), 1e-9)
}

func TestStreamingEMAReset(t *testing.T) {
	s := NewStreamingEMA(2)
	s.Update(1)
	s.Update(2)
	require.True(t, s.Ready())

	s.Reset()
	assert.False(t, s.Ready())
	assert.Zero(t, s.Value())
}

func TestSummarize(t *testing.T) {
	short := []float64{1, 2, 3}
	assert.Zero(t, Summarize(short).SMA20)

	long := make([]float64, 30)
	for i := range long {
		long[i] = 100
	}
	s := Summarize(long)
	assert.InDelta(t, 100.0, s.SMA20, 1e-9)
	assert.InDelta(t, 100.0, s.EMA20, 1e-9)
}
