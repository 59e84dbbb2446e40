package market

import "math/rand"

// Price model parameters. A single sentiment coefficient is applied at
// every call site.
const (
	// trendStep bounds the market trend: re-rolled uniform in
	// [-trendStep/2, trendStep/2].
	trendStep      = 0.01
	sentimentCoeff = 0.005 // price effect per unit of sentiment
	sentimentDecay = 0.95  // applied once per tick
	trendRerollP   = 0.10  // chance per tick that the market trend re-rolls
)

// Process advances instrument prices one tick at a time. It owns the shared
// market trend, a slowly changing macro bias applied to every instrument.
//
// Process is not safe for concurrent use; the sim engine serializes calls.
type Process struct {
	rng   *rand.Rand
	trend float64
}

// NewProcess creates a price process driven by the given RNG. Tests pass a
// fixed-seed source; production wiring passes a time-seeded one.
func NewProcess(rng *rand.Rand) *Process {
	return &Process{
		rng:   rng,
		trend: (rng.Float64() - 0.5) * trendStep,
	}
}

// Trend reports the current market-wide bias.
func (p *Process) Trend() float64 { return p.trend }

// AdvanceTrend re-rolls the market trend with small probability. Called once
// per engine tick, before the per-instrument updates.
func (p *Process) AdvanceTrend() {
	if p.rng.Float64() < trendRerollP {
		p.trend = (p.rng.Float64() - 0.5) * trendStep
	}
}

// Tick moves the instrument's price one step: a volatility-scaled uniform
// random factor plus the market trend plus the sentiment effect, floored at
// MinPrice. The new
// price is appended to the history, day extremes are updated, and sentiment
// decays. Tick never fails.
func (p *Process) Tick(in *Instrument) {
	randomFactor := (p.rng.Float64() - 0.5) * in.Volatility
	sentimentEffect := in.Sentiment * sentimentCoeff
	combined := randomFactor + p.trend + sentimentEffect

	newPrice := in.Price * (1 + combined)
	if newPrice < MinPrice {
		newPrice = MinPrice
	}
	in.Price = newPrice
	in.History.Append(newPrice)

	if !in.ticked {
		in.DayHigh = newPrice
		in.DayLow = newPrice
		in.ticked = true
	} else {
		if newPrice > in.DayHigh {
			in.DayHigh = newPrice
		}
		if newPrice < in.DayLow {
			in.DayLow = newPrice
		}
	}

	in.Sentiment *= sentimentDecay
}

// SeedHistory fills the instrument's history with days synthetic samples by
// walking backward from startPrice with volatility-scaled steps, then
// appends startPrice as the most recent sample. Used once at creation.
func (p *Process) SeedHistory(in *Instrument, days int) {
	if days < 1 {
		in.History.Append(in.Price)
		return
	}

	prices := make([]float64, 0, days+1)
	price := in.Price
	for i := 0; i < days; i++ {
		change := (p.rng.Float64() - 0.5) * in.Volatility
		price = price / (1 + change)
		if price < MinPrice {
			price = MinPrice
		}
		prices = append(prices, price)
	}

	// prices is newest-to-oldest; append oldest first.
	for i := len(prices) - 1; i >= 0; i-- {
		in.History.Append(prices[i])
	}
	in.History.Append(in.Price)
}
