package models

import "time"

// Market is one of the three retail chains compared by the service.
// The declaration order of Markets is the tie-break priority when basket
// totals are equal.
type Market string

const (
	MarketMundial   Market = "Mundial"
	MarketGuanabara Market = "Guanabara"
	MarketAssai     Market = "Assai"
)

// Markets lists all chains in comparison priority order.
var Markets = []Market{MarketMundial, MarketGuanabara, MarketAssai}

// Category is the raw product category used by the catalog generator
// and the price model.
type Category string

const (
	CategoryProteina      Category = "proteina"
	CategoryLaticinio     Category = "laticinio"
	CategoryCarbo         Category = "carbo"
	CategoryGraos         Category = "graos"
	CategoryGordura       Category = "gordura"
	CategoryLegumesFolhas Category = "legumes_folhas"
	CategoryFrutas        Category = "frutas"
	CategoryLimpeza       Category = "limpeza"
	CategoryCozinha       Category = "cozinha"
	CategoryPadaria       Category = "padaria"
	CategoryMerceariaMisc Category = "mercearia_misc"
)

// Categories lists all raw categories.
var Categories = []Category{
	CategoryProteina,
	CategoryLaticinio,
	CategoryCarbo,
	CategoryGraos,
	CategoryGordura,
	CategoryLegumesFolhas,
	CategoryFrutas,
	CategoryLimpeza,
	CategoryCozinha,
	CategoryPadaria,
	CategoryMerceariaMisc,
}

// SentinelPrice replaces a missing per-market price on externally supplied
// rows. It is large enough that the market never wins the comparison, which
// is the intended "exclude, don't crash" behavior. It is an approximation,
// not a hard exclusion guarantee.
const SentinelPrice = 9999

// Product is an immutable catalog entry with base prices for every market.
type Product struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Brand    string             `json:"brand"`
	Category Category           `json:"category"`
	Unit     string             `json:"unit"`
	Quality  int                `json:"quality"`
	Prices   map[Market]float64 `json:"prices"`
}

// Region carries the per-market pricing multipliers and the logistics
// surcharge fraction for one city. Multipliers are defined for every market.
type Region struct {
	Country     string             `json:"country"`
	State       string             `json:"state"`
	City        string             `json:"city"`
	Code        string             `json:"code"`
	Multipliers map[Market]float64 `json:"multipliers"`
	DeliveryAdj float64            `json:"delivery_adj"`
}

// BasketItem is one shopper selection. At most one item per product id.
type BasketItem struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// BasketLine is a basket item with its product resolved and the regional
// unit price computed for every market.
type BasketLine struct {
	Product Product            `json:"product"`
	Qty     int                `json:"qty"`
	Prices  map[Market]float64 `json:"prices"`
}

// BasketDetail is the full comparison result, recomputed from scratch on
// every change to basket, region, catalog or delivery mode.
type BasketDetail struct {
	Items  []BasketLine       `json:"items"`
	Totals map[Market]float64 `json:"totals"`
	Winner Market             `json:"winner"`
	Empty  bool               `json:"empty"`
}

// Delivery modes. The wire values are stable, they appear in exported orders.
const (
	DeliveryPickup = "retirada"
	DeliveryHome   = "entrega"
)

// Payment method tags accepted at checkout.
const (
	PaymentPix         = "pix"
	PaymentCredito     = "credito"
	PaymentDebito      = "debito"
	PaymentPicpay      = "picpay"
	PaymentAlimentacao = "alimentacao"
)

// ValidPayment reports whether tag is a known payment method.
func ValidPayment(tag string) bool {
	switch tag {
	case PaymentPix, PaymentCredito, PaymentDebito, PaymentPicpay, PaymentAlimentacao:
		return true
	}
	return false
}

// OrderSnapshot is the exported order artifact. The JSON field names are a
// stable schema consumed outside this service; do not rename them.
type OrderSnapshot struct {
	CreatedAt    time.Time           `json:"createdAt"`
	Region       string              `json:"region"`
	DeliveryMode string              `json:"deliveryMode"`
	Payment      string              `json:"payment"`
	MarketWinner Market              `json:"marketWinner"`
	Totals       map[Market]float64  `json:"totals"`
	Items        []OrderSnapshotItem `json:"items"`
}

// OrderSnapshotItem is one line of an exported order.
type OrderSnapshotItem struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// ProductRow mirrors the products table of the external price feed.
type ProductRow struct {
	ID       int64  `db:"id" json:"id"`
	SKU      string `db:"sku" json:"sku"`
	Name     string `db:"name" json:"name"`
	Brand    string `db:"brand" json:"brand"`
	Unit     string `db:"unit" json:"unit"`
	Category string `db:"category" json:"category"`
	Quality  *int   `db:"quality" json:"quality"`
}

// MarketRow mirrors the markets table of the external price feed.
type MarketRow struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// LatestPriceRow mirrors the latest_prices view of the external price feed.
type LatestPriceRow struct {
	ProductID int64   `db:"product_id" json:"product_id"`
	MarketID  int64   `db:"market_id" json:"market_id"`
	Price     float64 `db:"price" json:"price"`
}
