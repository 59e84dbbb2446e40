// Package indicators computes derived statistics over price history
// samples. Everything here is pure; callers pass a snapshot of the series
// they want analyzed.
package indicators

import "fmt"

// SMA calculates the Simple Moving Average of the last period samples.
func SMA(samples []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(samples) < period {
		return 0, fmt.Errorf("not enough samples: need %d, got %d", period, len(samples))
	}

	sum := 0.0
	for i := len(samples) - period; i < len(samples); i++ {
		sum += samples[i]
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average for the given period,
// seeded with the SMA of the first period samples.
func EMA(samples []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(samples) < period {
		return 0, fmt.Errorf("not enough samples: need %d, got %d", period, len(samples))
	}

	multiplier := 2.0 / float64(period+1)

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += samples[i]
	}
	ema := sma / float64(period)

	for i := period; i < len(samples); i++ {
		ema = (samples[i]-ema)*multiplier + ema
	}

	return ema, nil
}

// StreamingEMA is an Exponential Moving Average fed one price at a time.
// It warms up on the first period updates, then applies the EMA formula.
type StreamingEMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

func NewStreamingEMA(period int) *StreamingEMA {
	return &StreamingEMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *StreamingEMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *StreamingEMA) Warmup() int {
	return e.period
}

func (e *StreamingEMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *StreamingEMA) Update(price float64) {
	if e.count < e.period {
		e.warmupSum += price
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
	} else {
		e.ema = (price-e.ema)*e.multiplier + e.ema
	}
}

func (e *StreamingEMA) Ready() bool {
	return e.count >= e.period
}

func (e *StreamingEMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}

// Summary bundles the moving averages served alongside a quote. Fields are
// zero when the history is too short for their period.
type Summary struct {
	SMA20 float64 `json:"sma_20,omitempty"`
	EMA20 float64 `json:"ema_20,omitempty"`
}

// Summarize computes the standard quote-detail indicators, tolerating a
// short history.
func Summarize(samples []float64) Summary {
	var s Summary
	if v, err := SMA(samples, 20); err == nil {
		s.SMA20 = v
	}
	if v, err := EMA(samples, 20); err == nil {
		s.EMA20 = v
	}
	return s
}
