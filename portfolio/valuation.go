package portfolio

import (
	"sort"

	"github.com/rustyeddy/stocksim/market"
)

// HoldingDetail is the per-position slice of a valuation.
type HoldingDetail struct {
	Symbol         string  `json:"symbol"`
	Quantity       int     `json:"quantity"`
	AvgPricePaid   float64 `json:"avg_price_paid"`
	TotalCostBasis float64 `json:"total_cost_basis"`
	CurrentPrice   float64 `json:"current_price"`
	CurrentValue   float64 `json:"current_value"`
	UnrealizedPL   float64 `json:"unrealized_pl"`
	PercentChange  float64 `json:"percent_change"`
}

// Valuation is a derived snapshot of a portfolio against current prices.
// Nothing here is stored; it is recomputed on demand.
type Valuation struct {
	PortfolioValue   float64            `json:"portfolio_value"`
	TotalAssets      float64            `json:"total_assets"`
	Earnings         float64            `json:"earnings"`
	PercentReturn    float64            `json:"percent_return"`
	Holdings         []HoldingDetail    `json:"holdings"`
	SectorAllocation map[string]float64 `json:"sector_allocation"`
}

// Valuate derives market value, earnings, and per-holding P/L from the
// portfolio and the given instruments. A holding whose symbol has no
// instrument contributes zero value rather than failing; sector allocation
// is the percentage of portfolio value held in each sector. Pure; safe to
// call every render tick.
func Valuate(p *Portfolio, instruments map[string]*market.Instrument) Valuation {
	v := Valuation{
		SectorAllocation: make(map[string]float64),
	}

	sectorValue := make(map[string]float64)

	for _, h := range p.Holdings {
		d := HoldingDetail{
			Symbol:         h.Symbol,
			Quantity:       h.Quantity,
			AvgPricePaid:   h.AvgPricePaid,
			TotalCostBasis: h.TotalCostBasis,
		}

		sector := ""
		if in := instruments[h.Symbol]; in != nil {
			d.CurrentPrice = in.Price
			sector = in.Sector
		}

		d.CurrentValue = float64(h.Quantity) * d.CurrentPrice
		d.UnrealizedPL = d.CurrentValue - h.TotalCostBasis
		if h.TotalCostBasis > 0 {
			d.PercentChange = d.UnrealizedPL / h.TotalCostBasis * 100
		}

		v.PortfolioValue += d.CurrentValue
		sectorValue[sector] += d.CurrentValue
		v.Holdings = append(v.Holdings, d)
	}

	v.TotalAssets = p.CashBalance + v.PortfolioValue
	v.Earnings = v.TotalAssets - p.InitialBalance
	if p.InitialBalance > 0 {
		v.PercentReturn = v.Earnings / p.InitialBalance * 100
	}

	if v.PortfolioValue > 0 {
		for sector, val := range sectorValue {
			v.SectorAllocation[sector] = val / v.PortfolioValue * 100
		}
	}

	sort.Slice(v.Holdings, func(i, j int) bool {
		return v.Holdings[i].Symbol < v.Holdings[j].Symbol
	})

	return v
}
