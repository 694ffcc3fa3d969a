package catalog

import "basket-service/internal/models"

// Curated returns the hand-picked seed products that always open the demo
// catalog, regardless of region. Returned fresh on every call so callers
// can't mutate the shared list.
func Curated() []models.Product {
	return []models.Product{
		{
			ID:       "frango_1kg",
			Name:     "Frango Congelado 1kg",
			Brand:    "Seara",
			Category: models.CategoryProteina,
			Unit:     "1 kg",
			Quality:  4,
			Prices:   prices(19.90, 18.50, 17.90),
		},
		{
			ID:       "iogurte_5un",
			Name:     "Iogurte Natural 5 un.",
			Brand:    "Nestlé",
			Category: models.CategoryLaticinio,
			Unit:     "bandeja 5",
			Quality:  5,
			Prices:   prices(16.90, 15.90, 15.50),
		},
		{
			ID:       "arroz_int_1kg",
			Name:     "Arroz Integral 1kg",
			Brand:    "Tio João",
			Category: models.CategoryCarbo,
			Unit:     "1 kg",
			Quality:  4,
			Prices:   prices(9.50, 8.90, 8.30),
		},
		{
			ID:       "feijao_1kg",
			Name:     "Feijão Carioca 1kg",
			Brand:    "Kicaldo",
			Category: models.CategoryCarbo,
			Unit:     "1 kg",
			Quality:  3,
			Prices:   prices(8.20, 7.90, 7.70),
		},
		{
			ID:       "ovos_duzia",
			Name:     "Ovos Brancos Dúzia",
			Brand:    "Granja Real",
			Category: models.CategoryProteina,
			Unit:     "12 un",
			Quality:  3,
			Prices:   prices(14.50, 13.90, 13.50),
		},
		{
			ID:       "azeite_500",
			Name:     "Azeite Extra Virgem 500 ml",
			Brand:    "Andorinha",
			Category: models.CategoryGordura,
			Unit:     "500 ml",
			Quality:  4,
			Prices:   prices(31.90, 29.90, 30.50),
		},
		{
			ID:       "detergente_500",
			Name:     "Detergente Neutro 500 ml",
			Brand:    "Ypê",
			Category: models.CategoryLimpeza,
			Unit:     "500 ml",
			Quality:  4,
			Prices:   prices(3.99, 3.79, 3.69),
		},
		{
			ID:       "esponja_2un",
			Name:     "Esponja Multiuso 2 un.",
			Brand:    "Scotch-Brite",
			Category: models.CategoryCozinha,
			Unit:     "2 un",
			Quality:  5,
			Prices:   prices(7.90, 7.50, 7.30),
		},
		{
			ID:       "pao_integral",
			Name:     "Pão Integral 500 g",
			Brand:    "Wickbold",
			Category: models.CategoryPadaria,
			Unit:     "500 g",
			Quality:  4,
			Prices:   prices(11.90, 10.90, 10.70),
		},
	}
}

func prices(mundial, guanabara, assai float64) map[models.Market]float64 {
	return map[models.Market]float64{
		models.MarketMundial:   mundial,
		models.MarketGuanabara: guanabara,
		models.MarketAssai:     assai,
	}
}
