package catalog

import (
	"fmt"
	"math"

	"basket-service/internal/models"
	"basket-service/internal/pricing"
)

// rng is a xorshift32 generator. The three shift/XOR steps and the
// division by 0xffffffff are fixed: demo catalogs must be byte-identical
// across runs for the same seed.
type rng struct {
	x uint32
}

func newRNG(seed uint32) *rng {
	if seed == 0 {
		seed = 123456789
	}
	return &rng{x: seed}
}

// next returns a value in [0,1).
func (r *rng) next() float64 {
	r.x ^= r.x << 13
	r.x ^= r.x >> 17
	r.x ^= r.x << 5
	return float64(r.x) / float64(0xffffffff)
}

// pickIndex maps a draw to a slice index. next() returns exactly 1.0 when
// the state lands on 0xffffffff, which every full-period seed eventually
// visits; the index is clamped so that draw selects the last element
// instead of reading past the end.
func pickIndex(v float64, n int) int {
	i := int(v * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func (r *rng) pickCategory(cats []models.Category) models.Category {
	return cats[pickIndex(r.next(), len(cats))]
}

func (r *rng) pickString(arr []string) string {
	return arr[pickIndex(r.next(), len(arr))]
}

func (r *rng) inRange(min, max float64) float64 {
	return min + (max-min)*r.next()
}

// demoBrands is the fixed brand list. Index order matters: the brand price
// adjustment is derived from a brand's position in this slice.
var demoBrands = []string{
	"Seara",
	"Perdigão",
	"Aurora",
	"Nestlé",
	"Danone",
	"Quaker",
	"Tio João",
	"Camil",
	"Kicaldo",
	"Tirolez",
	"Piracanjuba",
	"Itambé",
	"Ypê",
	"Scotch-Brite",
	"Bombril",
	"Wickbold",
	"Bauducco",
}

var nameStems = []string{
	"Frango",
	"Peito",
	"Leite",
	"Queijo",
	"Arroz",
	"Feijão",
	"Aveia",
	"Azeite",
	"Detergente",
	"Esponja",
	"Pão",
	"Biscoito",
	"Molho",
	"Atum",
}

// brandIndex caches brand -> position lookups.
var brandIndex = func() map[string]int {
	idx := make(map[string]int, len(demoBrands))
	for i, b := range demoBrands {
		idx[b] = i
	}
	return idx
}()

func makeSKU(i int) string {
	return fmt.Sprintf("SKU%06d", i)
}

// unitFor derives the unit string for a category. Cleaning and kitchen
// items consume one random draw to choose between two pack sizes; every
// other category is fixed.
func unitFor(cat models.Category, r *rng) string {
	switch cat {
	case models.CategoryProteina, models.CategoryCarbo:
		return "1 kg"
	case models.CategoryLaticinio, models.CategoryGraos, models.CategoryPadaria:
		return "500 g"
	case models.CategoryGordura:
		return "500 ml"
	case models.CategoryLimpeza:
		if r.next() < 0.5 {
			return "500 ml"
		}
		return "1 L"
	case models.CategoryCozinha:
		if r.next() < 0.5 {
			return "2 un"
		}
		return "1 un"
	case models.CategoryMerceariaMisc:
		return "340 g"
	default:
		return "1 un"
	}
}

// basePriceRange returns the category-specific base price bounds.
func basePriceRange(cat models.Category) (min, max float64) {
	switch cat {
	case models.CategoryProteina:
		return 12, 45
	case models.CategoryLaticinio:
		return 6, 30
	case models.CategoryCarbo:
		return 5, 18
	case models.CategoryGraos:
		return 6, 28
	case models.CategoryGordura:
		return 12, 45
	case models.CategoryLegumesFolhas:
		return 3, 12
	case models.CategoryFrutas:
		return 4, 14
	case models.CategoryLimpeza:
		return 3, 35
	case models.CategoryCozinha:
		return 4, 28
	case models.CategoryPadaria:
		return 6, 24
	default:
		return 5, 20
	}
}

// seedFor derives the generator seed from the region code and item count.
func seedFor(regionCode string, total int) uint32 {
	var sum uint32
	for _, c := range regionCode {
		sum += uint32(c)
	}
	return sum + uint32(total)
}

// Generate synthesizes a reproducible pseudo-random catalog for a region.
// Same (regionCode, total) always yields an identical product sequence,
// prices included. A non-positive total yields an empty slice.
//
// The per-item draw order is fixed: category, name stem, brand, unit
// (cleaning/kitchen only), quality, base price, then one jitter per market.
// Reordering the draws changes every product after the first.
func Generate(regionCode string, total int) []models.Product {
	if total <= 0 {
		return []models.Product{}
	}

	r := newRNG(seedFor(regionCode, total))
	res := make([]models.Product, 0, total)

	for i := 0; i < total; i++ {
		cat := r.pickCategory(models.Categories)
		stem := r.pickString(nameStems)
		brand := r.pickString(demoBrands)
		unit := unitFor(cat, r)

		quality := int(math.Round(r.inRange(2.5, 4.8)))
		if quality < 1 {
			quality = 1
		}
		if quality > 5 {
			quality = 5
		}

		lo, hi := basePriceRange(cat)
		base := r.inRange(lo, hi)
		brandAdj := 1 + float64(brandIndex[brand]%5)*0.015

		pM := pricing.Round2(base * brandAdj * (0.98 + r.next()*0.06))
		pG := pricing.Round2(base * brandAdj * (0.99 + r.next()*0.07))
		pA := pricing.Round2(base * brandAdj * (0.99 + r.next()*0.08))

		res = append(res, models.Product{
			ID:       makeSKU(i + 1),
			Name:     stem + " " + unit,
			Brand:    brand,
			Category: cat,
			Unit:     unit,
			Quality:  quality,
			Prices: map[models.Market]float64{
				models.MarketMundial:   pM,
				models.MarketGuanabara: pG,
				models.MarketAssai:     pA,
			},
		})
	}

	return res
}

// Demo builds the full fallback catalog: the curated seed list followed by
// synthesized products, deduplicated by id.
func Demo(regionCode string, total int) []models.Product {
	curated := Curated()
	seen := make(map[string]bool, len(curated))
	for _, p := range curated {
		seen[p.ID] = true
	}

	res := make([]models.Product, 0, len(curated)+total)
	res = append(res, curated...)
	for _, p := range Generate(regionCode, total) {
		if seen[p.ID] {
			continue
		}
		res = append(res, p)
	}
	return res
}
