package pricing

import (
	"basket-service/internal/models"

	"github.com/shopspring/decimal"
)

// mundialBias is the fixed -1.5% commercial adjustment applied to the
// preferred chain. It affects which market wins and must not change.
const mundialBias = 0.985

// Round2 rounds a price to whole cents, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// MarketBias returns the multiplicative bias for a market.
func MarketBias(m models.Market) float64 {
	if m == models.MarketMundial {
		return mundialBias
	}
	return 1
}

// RegionalPrice converts a stored base price into the shopper-facing unit
// price for one market in one region. Rounding happens exactly once, after
// all multiplications; rounding intermediates would compound cent errors.
func RegionalPrice(base float64, m models.Market, region models.Region) float64 {
	mult, ok := region.Multipliers[m]
	if !ok {
		mult = 1
	}
	return Round2(base * MarketBias(m) * mult * (1 + region.DeliveryAdj))
}

// MinAcrossMarkets returns the lowest regional unit price among all markets.
// Used for "starting from" catalog display, not basket totals.
func MinAcrossMarkets(p models.Product, region models.Region) float64 {
	min := RegionalPrice(p.Prices[models.Markets[0]], models.Markets[0], region)
	for _, m := range models.Markets[1:] {
		if v := RegionalPrice(p.Prices[m], m, region); v < min {
			min = v
		}
	}
	return min
}
