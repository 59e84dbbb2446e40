package market

import "time"

// MinPrice is the floor below which no simulated price may fall.
const MinPrice = 0.01

// DefaultHistoryCap bounds an instrument's price history ring.
const DefaultHistoryCap = 60

// Instrument is one simulated tradable asset. All mutation happens through
// Process.Tick and the news generator; everything else reads.
type Instrument struct {
	Symbol      string
	CompanyName string
	Sector      string

	Price         float64
	PreviousClose float64
	OpenPrice     float64
	DayHigh       float64
	DayLow        float64

	// Volatility scales the per-tick random step. Always > 0.
	Volatility float64

	// Sentiment is the accumulated news bias. News events add to it,
	// each tick decays it toward zero.
	Sentiment float64

	History *History

	ticked bool // day high/low initialized
}

// NewInstrument builds an instrument at a starting price with an empty,
// bounded history.
func NewInstrument(symbol, company, sector string, price, volatility float64) *Instrument {
	if price < MinPrice {
		price = MinPrice
	}
	return &Instrument{
		Symbol:        symbol,
		CompanyName:   company,
		Sector:        sector,
		Price:         price,
		PreviousClose: price,
		OpenPrice:     price,
		DayHigh:       price,
		DayLow:        price,
		Volatility:    volatility,
		History:       NewHistory(DefaultHistoryCap),
	}
}

// Quote is a read-only snapshot of an instrument handed to the valuation
// and server layers.
type Quote struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name"`
	Sector        string    `json:"sector"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	OpenPrice     float64   `json:"open_price"`
	DayHigh       float64   `json:"day_high"`
	DayLow        float64   `json:"day_low"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_pct"`
	Time          time.Time `json:"time"`
}

// Snapshot captures the instrument's current quote.
func (in *Instrument) Snapshot(now time.Time) Quote {
	q := Quote{
		Symbol:        in.Symbol,
		CompanyName:   in.CompanyName,
		Sector:        in.Sector,
		Price:         in.Price,
		PreviousClose: in.PreviousClose,
		OpenPrice:     in.OpenPrice,
		DayHigh:       in.DayHigh,
		DayLow:        in.DayLow,
		Time:          now,
	}
	q.Change = in.Price - in.PreviousClose
	if in.PreviousClose > 0 {
		q.ChangePct = q.Change / in.PreviousClose * 100
	}
	return q
}

// Seed describes an instrument to create at startup.
type Seed struct {
	Symbol      string  `json:"symbol" yaml:"symbol"`
	CompanyName string  `json:"company_name" yaml:"company_name"`
	Sector      string  `json:"sector" yaml:"sector"`
	StartPrice  float64 `json:"start_price" yaml:"start_price"`
	Volatility  float64 `json:"volatility" yaml:"volatility"`
}

// DefaultSeeds is the built-in catalog used when the config supplies none.
var DefaultSeeds = []Seed{
	{Symbol: "ATLS", CompanyName: "Atlas Semiconductor", Sector: "Technology", StartPrice: 142.50, Volatility: 0.022},
	{Symbol: "BRYN", CompanyName: "Brynmore Energy", Sector: "Energy", StartPrice: 68.10, Volatility: 0.018},
	{Symbol: "CMDL", CompanyName: "Camden Logistics", Sector: "Industrials", StartPrice: 54.75, Volatility: 0.015},
	{Symbol: "DELV", CompanyName: "Delverra Health", Sector: "Healthcare", StartPrice: 211.30, Volatility: 0.012},
	{Symbol: "EQNX", CompanyName: "Equinox Capital", Sector: "Financials", StartPrice: 89.90, Volatility: 0.020},
	{Symbol: "FLNT", CompanyName: "Flintlock Media", Sector: "Communications", StartPrice: 33.40, Volatility: 0.028},
	{Symbol: "GRVT", CompanyName: "Gravitas Motors", Sector: "Consumer", StartPrice: 120.00, Volatility: 0.025},
	{Symbol: "HLCN", CompanyName: "Halcyon Foods", Sector: "Consumer", StartPrice: 47.25, Volatility: 0.010},
}
