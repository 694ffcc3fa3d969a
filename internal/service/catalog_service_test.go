package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"basket-service/internal/catalog"
	"basket-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products []models.Product
	err      error
	calls    int
}

func (f *fakeSource) LoadCatalog(ctx context.Context) ([]models.Product, error) {
	f.calls++
	return f.products, f.err
}

func testRegion() models.Region {
	return models.Region{
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
	}
}

func externalProduct(id string) models.Product {
	return models.Product{
		ID:       id,
		Name:     "Feed " + id,
		Brand:    "Marca",
		Category: models.CategoryMerceariaMisc,
		Unit:     "1 un",
		Quality:  3,
		Prices: map[models.Market]float64{
			models.MarketMundial:   10,
			models.MarketGuanabara: 10,
			models.MarketAssai:     10,
		},
	}
}

func TestCatalogPrefersExternalSource(t *testing.T) {
	source := &fakeSource{products: []models.Product{externalProduct("ext-1"), externalProduct("ext-2")}}
	cs := NewCatalogService(source, nil, nil, 50, time.Hour)

	products := cs.Catalog(context.Background(), testRegion())

	require.Len(t, products, 2)
	assert.Equal(t, "ext-1", products[0].ID)
}

func TestCatalogFallsBackOnSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	cs := NewCatalogService(source, nil, nil, 50, time.Hour)

	products := cs.Catalog(context.Background(), testRegion())

	// Curated seed list plus 50 synthesized products.
	assert.Len(t, products, len(catalog.Curated())+50)
	assert.Equal(t, "frango_1kg", products[0].ID)
}

func TestCatalogFallsBackOnEmptySource(t *testing.T) {
	source := &fakeSource{products: []models.Product{}}
	cs := NewCatalogService(source, nil, nil, 50, time.Hour)

	products := cs.Catalog(context.Background(), testRegion())

	assert.Len(t, products, len(catalog.Curated())+50)
}

func TestCatalogNilSourceUsesDemo(t *testing.T) {
	cs := NewCatalogService(nil, nil, nil, 30, time.Hour)

	products := cs.Catalog(context.Background(), testRegion())

	assert.Len(t, products, len(catalog.Curated())+30)
}

func TestCatalogMemoizesPerRegion(t *testing.T) {
	source := &fakeSource{products: []models.Product{externalProduct("ext-1")}}
	cs := NewCatalogService(source, nil, nil, 50, time.Hour)
	region := testRegion()

	first := cs.Catalog(context.Background(), region)
	second := cs.Catalog(context.Background(), region)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
}

func TestCatalogDemoIsStableAcrossCalls(t *testing.T) {
	region := testRegion()

	a := NewCatalogService(nil, nil, nil, 100, time.Hour).Catalog(context.Background(), region)
	b := NewCatalogService(nil, nil, nil, 100, time.Hour).Catalog(context.Background(), region)

	// Two independent service instances synthesize identical catalogs for
	// the same region and size.
	assert.Equal(t, a, b)
}

func TestListAppliesFilter(t *testing.T) {
	cs := NewCatalogService(nil, nil, nil, 200, time.Hour)
	region := testRegion()

	entries := cs.List(context.Background(), region, catalog.Filter{MinQuality: 4, Limit: 10})

	require.NotEmpty(t, entries)
	assert.LessOrEqual(t, len(entries), 10)
	for _, e := range entries {
		assert.GreaterOrEqual(t, e.Quality, 4)
		assert.Greater(t, e.MinPrice, 0.0)
		assert.NotEmpty(t, e.Group)
	}
}

func TestListQueryFilter(t *testing.T) {
	cs := NewCatalogService(nil, nil, nil, 0, time.Hour)
	region := testRegion()

	entries := cs.List(context.Background(), region, catalog.Filter{Query: "detergente"})

	require.Len(t, entries, 1)
	assert.Equal(t, "detergente_500", entries[0].ID)
	assert.Equal(t, catalog.GroupLimpeza, entries[0].Group)
}

func TestListGroupFilter(t *testing.T) {
	cs := NewCatalogService(nil, nil, nil, 0, time.Hour)
	region := testRegion()

	entries := cs.List(context.Background(), region, catalog.Filter{Group: catalog.GroupPadaria})

	require.Len(t, entries, 1)
	assert.Equal(t, "pao_integral", entries[0].ID)
}
