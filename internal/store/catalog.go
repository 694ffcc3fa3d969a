package store

import (
	"context"
	"fmt"
	"strconv"

	"basket-service/internal/models"
)

// GetMarkets retrieves the market id/name index.
func (s *Store) GetMarkets(ctx context.Context) ([]models.MarketRow, error) {
	var markets []models.MarketRow
	err := s.db.SelectContext(ctx, &markets, "SELECT id, name FROM markets ORDER BY id")
	return markets, err
}

// GetProductRows retrieves the raw product rows of the feed.
func (s *Store) GetProductRows(ctx context.Context) ([]models.ProductRow, error) {
	var rows []models.ProductRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, sku, name, brand, unit, category, quality FROM products ORDER BY id LIMIT $1",
		maxProductRows)
	return rows, err
}

// GetLatestPrices retrieves the most recent price per (product, market).
func (s *Store) GetLatestPrices(ctx context.Context) ([]models.LatestPriceRow, error) {
	var rows []models.LatestPriceRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT product_id, market_id, price FROM latest_prices LIMIT $1",
		maxPriceRows)
	return rows, err
}

// LoadCatalog joins the feed tables into the Product shape the core
// consumes. A market with no price row for a product gets the sentinel
// price, which keeps the product comparable without letting that market
// win on missing data. Rows with no SKU fall back to the numeric id.
func (s *Store) LoadCatalog(ctx context.Context) ([]models.Product, error) {
	markets, err := s.GetMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load markets: %w", err)
	}
	marketNames := make(map[int64]string, len(markets))
	for _, m := range markets {
		marketNames[m.ID] = m.Name
	}

	rows, err := s.GetProductRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	priceRows, err := s.GetLatestPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	priceMap := make(map[int64]map[models.Market]float64, len(rows))
	for _, pr := range priceRows {
		name, ok := marketNames[pr.MarketID]
		if !ok {
			continue
		}
		if priceMap[pr.ProductID] == nil {
			priceMap[pr.ProductID] = make(map[models.Market]float64, len(models.Markets))
		}
		priceMap[pr.ProductID][models.Market(name)] = pr.Price
	}

	result := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		raw := priceMap[row.ID]
		prices := make(map[models.Market]float64, len(models.Markets))
		for _, m := range models.Markets {
			if v, ok := raw[m]; ok {
				prices[m] = v
			} else {
				prices[m] = models.SentinelPrice
			}
		}

		id := row.SKU
		if id == "" {
			id = strconv.FormatInt(row.ID, 10)
		}
		category := models.Category(row.Category)
		if row.Category == "" {
			category = models.CategoryMerceariaMisc
		}
		quality := 3
		if row.Quality != nil && *row.Quality != 0 {
			quality = *row.Quality
		}

		result = append(result, models.Product{
			ID:       id,
			Name:     row.Name,
			Brand:    row.Brand,
			Category: category,
			Unit:     row.Unit,
			Quality:  quality,
			Prices:   prices,
		})
	}

	return result, nil
}
