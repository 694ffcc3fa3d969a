package catalog

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"basket-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterminism(t *testing.T) {
	first := Generate("BR-RJ-Rio", 500)
	second := Generate("BR-RJ-Rio", 500)

	require.Len(t, first, 500)
	assert.Equal(t, first, second)
}

func TestGenerateVariesByRegion(t *testing.T) {
	rio := Generate("BR-RJ-Rio", 200)
	sp := Generate("BR-SP-SP", 200)

	assert.NotEqual(t, rio, sp)
}

func TestGenerateVariesByCount(t *testing.T) {
	// The item count feeds the seed, so prefixes differ too.
	a := Generate("BR-RJ-Rio", 100)
	b := Generate("BR-RJ-Rio", 101)

	assert.NotEqual(t, a[0], b[0])
}

func TestGenerateNonPositiveCount(t *testing.T) {
	assert.Empty(t, Generate("BR-RJ-Rio", 0))
	assert.Empty(t, Generate("BR-RJ-Rio", -5))
}

func TestGenerateSKUs(t *testing.T) {
	products := Generate("BR-RJ-Rio", 50)

	seen := make(map[string]bool)
	for i, p := range products {
		assert.Equal(t, fmt.Sprintf("SKU%06d", i+1), p.ID)
		assert.False(t, seen[p.ID], "duplicate SKU %s", p.ID)
		seen[p.ID] = true
	}
}

func TestGenerateQualityBounds(t *testing.T) {
	for _, p := range Generate("BR-RJ-Niteroi", 1000) {
		assert.GreaterOrEqual(t, p.Quality, 1, "product %s", p.ID)
		assert.LessOrEqual(t, p.Quality, 5, "product %s", p.ID)
	}
}

func TestGenerateUnitInvariant(t *testing.T) {
	allowed := map[models.Category][]string{
		models.CategoryProteina:      {"1 kg"},
		models.CategoryLaticinio:     {"500 g"},
		models.CategoryCarbo:         {"1 kg"},
		models.CategoryGraos:         {"500 g"},
		models.CategoryGordura:       {"500 ml"},
		models.CategoryLegumesFolhas: {"1 un"},
		models.CategoryFrutas:        {"1 un"},
		models.CategoryLimpeza:       {"500 ml", "1 L"},
		models.CategoryCozinha:       {"2 un", "1 un"},
		models.CategoryPadaria:       {"500 g"},
		models.CategoryMerceariaMisc: {"340 g"},
	}

	for _, p := range Generate("BR-SP-SP", 1000) {
		assert.Contains(t, allowed[p.Category], p.Unit, "product %s category %s", p.ID, p.Category)
	}
}

func TestGeneratePrices(t *testing.T) {
	for _, p := range Generate("BR-RJ-Rio", 500) {
		require.Len(t, p.Prices, 3)
		for _, m := range models.Markets {
			price := p.Prices[m]
			assert.Greater(t, price, 0.0, "product %s market %s", p.ID, m)
			cents := price * 100
			assert.InDelta(t, math.Round(cents), cents, 1e-6,
				"product %s market %s price %v not whole cents", p.ID, m, price)
		}
	}
}

func TestGenerateNames(t *testing.T) {
	for _, p := range Generate("BR-RJ-Rio", 200) {
		assert.True(t, strings.HasSuffix(p.Name, p.Unit), "name %q should end with unit %q", p.Name, p.Unit)
		assert.Contains(t, demoBrands, p.Brand)
	}
}

func TestDemoCatalog(t *testing.T) {
	products := Demo("BR-RJ-Rio", 100)

	curated := Curated()
	require.Greater(t, len(products), len(curated))
	assert.Equal(t, curated, products[:len(curated)])

	seen := make(map[string]bool)
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, products, len(curated)+100)
}

// unshiftLeft inverts y = x ^ (x << s).
func unshiftLeft(y uint32, s uint) uint32 {
	x := y
	for i := 0; i < 32/int(s)+1; i++ {
		x = y ^ (x << s)
	}
	return x
}

// unshiftRight inverts y = x ^ (x >> s).
func unshiftRight(y uint32, s uint) uint32 {
	x := y
	for i := 0; i < 32/int(s)+1; i++ {
		x = y ^ (x >> s)
	}
	return x
}

// allOnesState returns the rng state whose next step lands on 0xffffffff,
// the one state where next() returns exactly 1.0.
func allOnesState() uint32 {
	x := unshiftLeft(0xffffffff, 5)
	x = unshiftRight(x, 17)
	return unshiftLeft(x, 13)
}

func TestPicksAtMaxDraw(t *testing.T) {
	r := &rng{x: allOnesState()}
	require.Equal(t, 1.0, r.next())

	// A 1.0 draw selects the last element rather than indexing past the end.
	r = &rng{x: allOnesState()}
	assert.Equal(t, demoBrands[len(demoBrands)-1], r.pickString(demoBrands))

	r = &rng{x: allOnesState()}
	assert.Equal(t, models.Categories[len(models.Categories)-1], r.pickCategory(models.Categories))
}

func TestRNGZeroSeed(t *testing.T) {
	// A zero seed would lock xorshift at zero forever; it is replaced.
	r := newRNG(0)
	assert.NotZero(t, r.x)
	v := r.next()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}
