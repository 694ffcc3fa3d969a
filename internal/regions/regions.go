package regions

import "basket-service/internal/models"

// regions is the static region table. The first entry is the fallback when
// a location selection matches nothing.
var regions = []models.Region{
	{
		Country: "Brasil",
		State:   "RJ",
		City:    "Rio de Janeiro",
		Code:    "BR-RJ-Rio",
		Multipliers: map[models.Market]float64{
			models.MarketMundial:   0.995,
			models.MarketGuanabara: 1.0,
			models.MarketAssai:     0.995,
		},
		DeliveryAdj: 0.02,
	},
	{
		Country: "Brasil",
		State:   "RJ",
		City:    "Niterói",
		Code:    "BR-RJ-Niteroi",
		Multipliers: map[models.Market]float64{
			models.MarketMundial:   0.995,
			models.MarketGuanabara: 1.01,
			models.MarketAssai:     1.0,
		},
		DeliveryAdj: 0.022,
	},
	{
		Country: "Brasil",
		State:   "SP",
		City:    "São Paulo",
		Code:    "BR-SP-SP",
		Multipliers: map[models.Market]float64{
			models.MarketMundial:   0.995,
			models.MarketGuanabara: 1.05,
			models.MarketAssai:     1.0,
		},
		DeliveryAdj: 0.015,
	},
}

// All returns every configured region in declaration order.
func All() []models.Region {
	res := make([]models.Region, len(regions))
	copy(res, regions)
	return res
}

// Default returns the fallback region.
func Default() models.Region {
	return regions[0]
}

// Resolve finds the region for a location selection, falling back to the
// default region when nothing matches. An invalid selection is never an
// error, the shopper just gets default pricing.
func Resolve(country, state, city string) models.Region {
	for _, r := range regions {
		if r.Country == country && r.State == state && r.City == city {
			return r
		}
	}
	return Default()
}

// ByCode finds a region by its code.
func ByCode(code string) (models.Region, bool) {
	for _, r := range regions {
		if r.Code == code {
			return r, true
		}
	}
	return models.Region{}, false
}
