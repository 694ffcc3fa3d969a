package service

import (
	"context"
	"testing"
	"time"

	"basket-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBasketService() *BasketService {
	catalogs := NewCatalogService(nil, nil, nil, 0, time.Hour)
	return NewBasketService(catalogs, nil, nil, time.Hour)
}

func TestSessionLifecycle(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()
	region := testRegion()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	b, err := bs.Basket(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, b)

	b, err = bs.AddItem(ctx, sessionID, "frango_1kg", region)
	require.NoError(t, err)
	require.Len(t, b, 1)
	assert.Equal(t, 1, b.Qty("frango_1kg"))

	b, err = bs.ChangeQty(ctx, sessionID, "frango_1kg", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Qty("frango_1kg"))

	b, err = bs.RemoveItem(ctx, sessionID, "frango_1kg")
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestAddItemUnknownProduct(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)

	_, err = bs.AddItem(ctx, sessionID, "not-a-product", testRegion())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUnknownSessionIsEmpty(t *testing.T) {
	bs := newTestBasketService()

	b, err := bs.Basket(context.Background(), "never-created")
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestSessionsAreIsolated(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()
	region := testRegion()

	first, err := bs.CreateSession(ctx)
	require.NoError(t, err)
	second, err := bs.CreateSession(ctx)
	require.NoError(t, err)

	_, err = bs.AddItem(ctx, first, "frango_1kg", region)
	require.NoError(t, err)

	b, err := bs.Basket(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestApplyPremium(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()
	region := testRegion()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)

	b, err := bs.ApplyPremium(ctx, sessionID, region, 3)
	require.NoError(t, err)
	require.Len(t, b, 3)
	for _, it := range b {
		assert.Equal(t, 1, it.Qty)
	}

	// The suggestion replaces whatever was in the basket before.
	stored, err := bs.Basket(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, b, stored)
}

func TestCompareDefaultsToPickup(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()
	region := testRegion()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)
	_, err = bs.AddItem(ctx, sessionID, "frango_1kg", region)
	require.NoError(t, err)

	blank, err := bs.Compare(ctx, sessionID, region, "")
	require.NoError(t, err)
	pickup, err := bs.Compare(ctx, sessionID, region, models.DeliveryPickup)
	require.NoError(t, err)

	assert.Equal(t, pickup.Totals, blank.Totals)
	assert.False(t, blank.Empty)
}

func TestCompareRejectsUnknownDeliveryMode(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)

	_, err = bs.Compare(ctx, sessionID, testRegion(), "teleporte")
	assert.ErrorIs(t, err, ErrInvalidDeliveryMode)
}

func TestCheckout(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()
	region := testRegion()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)
	_, err = bs.AddItem(ctx, sessionID, "frango_1kg", region)
	require.NoError(t, err)

	snapshot, err := bs.Checkout(ctx, sessionID, region, CheckoutRequest{
		DeliveryMode: models.DeliveryHome,
		Payment:      models.PaymentPix,
	})
	require.NoError(t, err)

	assert.Equal(t, region.Code, snapshot.Region)
	assert.Equal(t, models.DeliveryHome, snapshot.DeliveryMode)
	assert.Equal(t, models.PaymentPix, snapshot.Payment)
	assert.NotEmpty(t, snapshot.MarketWinner)
	assert.WithinDuration(t, time.Now(), snapshot.CreatedAt, time.Minute)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "frango_1kg", snapshot.Items[0].SKU)
	for _, m := range models.Markets {
		assert.Greater(t, snapshot.Totals[m], 0.0)
	}

	// Checkout does not consume the basket.
	b, err := bs.Basket(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, b, 1)
}

func TestCheckoutEmptyBasket(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)

	_, err = bs.Checkout(ctx, sessionID, testRegion(), CheckoutRequest{Payment: models.PaymentPix})
	assert.ErrorIs(t, err, ErrEmptyBasket)
}

func TestCheckoutDuplicateIdempotencyKey(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()
	region := testRegion()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)
	_, err = bs.AddItem(ctx, sessionID, "frango_1kg", region)
	require.NoError(t, err)

	req := CheckoutRequest{Payment: models.PaymentPix, IdempotencyKey: "key-1"}

	_, err = bs.Checkout(ctx, sessionID, region, req)
	require.NoError(t, err)

	_, err = bs.Checkout(ctx, sessionID, region, req)
	assert.ErrorIs(t, err, ErrDuplicateCheckout)
}

func TestCheckoutRejectionKeepsIdempotencyKey(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()
	region := testRegion()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)

	// A checkout that fails validation must not consume the key; the
	// corrected retry with the same key goes through.
	req := CheckoutRequest{Payment: models.PaymentPix, IdempotencyKey: "key-2"}
	_, err = bs.Checkout(ctx, sessionID, region, req)
	require.ErrorIs(t, err, ErrEmptyBasket)

	badPayment := CheckoutRequest{Payment: "cheque", IdempotencyKey: "key-3"}
	_, err = bs.Checkout(ctx, sessionID, region, badPayment)
	require.ErrorIs(t, err, ErrInvalidPayment)

	_, err = bs.AddItem(ctx, sessionID, "frango_1kg", region)
	require.NoError(t, err)

	_, err = bs.Checkout(ctx, sessionID, region, req)
	assert.NoError(t, err)

	_, err = bs.Checkout(ctx, sessionID, region, CheckoutRequest{Payment: models.PaymentPix, IdempotencyKey: "key-3"})
	assert.NoError(t, err)
}

func TestCheckoutInvalidPayment(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)

	_, err = bs.Checkout(ctx, sessionID, testRegion(), CheckoutRequest{Payment: "cheque"})
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestCheckoutInvalidDeliveryMode(t *testing.T) {
	bs := newTestBasketService()
	ctx := context.Background()

	sessionID, err := bs.CreateSession(ctx)
	require.NoError(t, err)

	_, err = bs.Checkout(ctx, sessionID, testRegion(), CheckoutRequest{
		DeliveryMode: "drone",
		Payment:      models.PaymentPix,
	})
	assert.ErrorIs(t, err, ErrInvalidDeliveryMode)
}
