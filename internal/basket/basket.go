package basket

import (
	"sort"

	"basket-service/internal/models"
	"basket-service/internal/pricing"
)

// Quantity bounds per basket item.
const (
	MinQty = 1
	MaxQty = 99
)

// Basket is the shopper's selection set. At most one entry per product id.
// All operations return a new slice; callers own persistence.
type Basket []models.BasketItem

// Add inserts a product with quantity 1, or bumps an existing entry by one,
// capped at MaxQty.
func (b Basket) Add(productID string) Basket {
	res := make(Basket, len(b))
	copy(res, b)
	for i := range res {
		if res[i].ProductID == productID {
			if res[i].Qty < MaxQty {
				res[i].Qty++
			}
			return res
		}
	}
	return append(res, models.BasketItem{ProductID: productID, Qty: 1})
}

// ChangeQty adjusts an item's quantity by delta, clamped to [MinQty, MaxQty].
// Dropping below MinQty keeps the item at MinQty; removal is always explicit.
// Unknown product ids are a no-op.
func (b Basket) ChangeQty(productID string, delta int) Basket {
	res := make(Basket, len(b))
	copy(res, b)
	for i := range res {
		if res[i].ProductID != productID {
			continue
		}
		qty := res[i].Qty + delta
		if qty < MinQty {
			qty = MinQty
		}
		if qty > MaxQty {
			qty = MaxQty
		}
		res[i].Qty = qty
	}
	return res
}

// Remove deletes an item. Removing an unknown product id is a no-op.
func (b Basket) Remove(productID string) Basket {
	res := make(Basket, 0, len(b))
	for _, it := range b {
		if it.ProductID != productID {
			res = append(res, it)
		}
	}
	return res
}

// Qty returns the quantity for a product id, zero when absent.
func (b Basket) Qty(productID string) int {
	for _, it := range b {
		if it.ProductID == productID {
			return it.Qty
		}
	}
	return 0
}

// Compare computes the full market comparison for a basket. It is a pure
// recomputation: nothing is cached and the basket itself is never mutated.
//
// Basket entries whose product id is not in the catalog are dropped from the
// computed view only; a stale reference must not break the comparison.
// Totals are rounded per market, and when home delivery is selected the 5%
// surcharge is applied on the rounded total and rounded again. The two-stage
// rounding is part of the totals contract.
func Compare(catalogList []models.Product, region models.Region, b Basket, deliveryMode string) models.BasketDetail {
	index := make(map[string]models.Product, len(catalogList))
	for _, p := range catalogList {
		index[p.ID] = p
	}

	items := make([]models.BasketLine, 0, len(b))
	for _, it := range b {
		p, ok := index[it.ProductID]
		if !ok {
			continue
		}
		line := models.BasketLine{
			Product: p,
			Qty:     it.Qty,
			Prices:  make(map[models.Market]float64, len(models.Markets)),
		}
		for _, m := range models.Markets {
			line.Prices[m] = pricing.RegionalPrice(p.Prices[m], m, region)
		}
		items = append(items, line)
	}

	totals := make(map[models.Market]float64, len(models.Markets))
	for _, m := range models.Markets {
		totals[m] = 0
	}
	for _, line := range items {
		for _, m := range models.Markets {
			totals[m] += line.Prices[m] * float64(line.Qty)
		}
	}
	for _, m := range models.Markets {
		totals[m] = pricing.Round2(totals[m])
	}

	if deliveryMode == models.DeliveryHome {
		for _, m := range models.Markets {
			totals[m] = pricing.Round2(totals[m] * 1.05)
		}
	}

	// Left-to-right fold: on ties the earlier market in priority order wins.
	winner := models.Markets[0]
	for _, m := range models.Markets[1:] {
		if totals[m] < totals[winner] {
			winner = m
		}
	}

	return models.BasketDetail{
		Items:  items,
		Totals: totals,
		Winner: winner,
		Empty:  len(items) == 0,
	}
}

// DefaultPremiumSize is how many products the suggested premium basket holds.
const DefaultPremiumSize = 12

// Premium builds the suggested high-tier basket: the cheapest products, by
// minimum regional price, among those with quality 4 or better, one unit
// each. It replaces the current basket rather than extending it.
func Premium(catalogList []models.Product, region models.Region, size int) Basket {
	if size <= 0 {
		return Basket{}
	}

	candidates := make([]models.Product, 0, len(catalogList))
	for _, p := range catalogList {
		if p.Quality >= 4 {
			candidates = append(candidates, p)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return pricing.MinAcrossMarkets(candidates[i], region) < pricing.MinAcrossMarkets(candidates[j], region)
	})

	if len(candidates) > size {
		candidates = candidates[:size]
	}
	res := make(Basket, 0, len(candidates))
	for _, p := range candidates {
		res = append(res, models.BasketItem{ProductID: p.ID, Qty: 1})
	}
	return res
}
