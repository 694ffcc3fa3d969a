package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"basket-service/internal/basket"
	"basket-service/internal/broker"
	"basket-service/internal/models"
	"basket-service/internal/redisclient"
	"basket-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound     = errors.New("product not found in catalog")
	ErrEmptyBasket         = errors.New("basket is empty")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrInvalidDeliveryMode = errors.New("invalid delivery mode")
	ErrDuplicateCheckout   = errors.New("duplicate checkout request")
)

// BasketService owns shopper basket sessions and runs the market
// comparison and checkout flows. Sessions live in Redis; when Redis is
// unavailable they fall back to process-local storage.
type BasketService struct {
	catalogs  *CatalogService
	redis     *redisclient.Client
	publisher *broker.EventPublisher
	logger    *zap.Logger
	basketTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]basket.Basket
	usedKeys map[string]bool
}

// NewBasketService creates a new basket service. redis and publisher may be nil.
func NewBasketService(catalogs *CatalogService, redis *redisclient.Client, publisher *broker.EventPublisher, basketTTL time.Duration) *BasketService {
	return &BasketService{
		catalogs:  catalogs,
		redis:     redis,
		publisher: publisher,
		logger:    util.GetLogger(),
		basketTTL: basketTTL,
		sessions:  make(map[string]basket.Basket),
		usedKeys:  make(map[string]bool),
	}
}

// CreateSession starts a new empty basket session and returns its id.
func (bs *BasketService) CreateSession(ctx context.Context) (string, error) {
	sessionID := uuid.New().String()
	if err := bs.saveBasket(ctx, sessionID, basket.Basket{}); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	bs.logger.Info("Basket session created", zap.String("session_id", sessionID))
	return sessionID, nil
}

// Basket returns the current items of a session. Unknown sessions yield an
// empty basket.
func (bs *BasketService) Basket(ctx context.Context, sessionID string) (basket.Basket, error) {
	return bs.loadBasket(ctx, sessionID)
}

// AddItem adds one unit of a product to the session basket. The product
// must exist in the region's active catalog.
func (bs *BasketService) AddItem(ctx context.Context, sessionID, productID string, region models.Region) (basket.Basket, error) {
	ctx, span := util.StartSpan(ctx, "BasketService.AddItem")
	defer span.End()

	if !bs.productExists(ctx, productID, region) {
		return nil, ErrProductNotFound
	}

	b, err := bs.loadBasket(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	b = b.Add(productID)
	if err := bs.saveBasket(ctx, sessionID, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ChangeQty adjusts an item quantity by delta. Unknown products are a no-op.
func (bs *BasketService) ChangeQty(ctx context.Context, sessionID, productID string, delta int) (basket.Basket, error) {
	b, err := bs.loadBasket(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	b = b.ChangeQty(productID, delta)
	if err := bs.saveBasket(ctx, sessionID, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RemoveItem removes a product from the basket. Unknown products are a no-op.
func (bs *BasketService) RemoveItem(ctx context.Context, sessionID, productID string) (basket.Basket, error) {
	b, err := bs.loadBasket(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	b = b.Remove(productID)
	if err := bs.saveBasket(ctx, sessionID, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ApplyPremium replaces the session basket with the suggested premium
// selection for the region.
func (bs *BasketService) ApplyPremium(ctx context.Context, sessionID string, region models.Region, size int) (basket.Basket, error) {
	ctx, span := util.StartSpan(ctx, "BasketService.ApplyPremium")
	defer span.End()

	if size <= 0 {
		size = basket.DefaultPremiumSize
	}

	b := basket.Premium(bs.catalogs.Catalog(ctx, region), region, size)
	if err := bs.saveBasket(ctx, sessionID, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Compare computes the market comparison for a session basket.
func (bs *BasketService) Compare(ctx context.Context, sessionID string, region models.Region, deliveryMode string) (models.BasketDetail, error) {
	ctx, span := util.StartSpan(ctx, "BasketService.Compare")
	defer span.End()

	deliveryMode, err := normalizeDelivery(deliveryMode)
	if err != nil {
		return models.BasketDetail{}, err
	}

	b, err := bs.loadBasket(ctx, sessionID)
	if err != nil {
		return models.BasketDetail{}, err
	}

	start := time.Now()
	detail := basket.Compare(bs.catalogs.Catalog(ctx, region), region, b, deliveryMode)
	util.ComparisonLatency.Observe(time.Since(start).Seconds())
	util.ComparisonsTotal.Inc()

	return detail, nil
}

// CheckoutRequest carries the checkout parameters for a session.
type CheckoutRequest struct {
	DeliveryMode   string `json:"delivery_mode"`
	Payment        string `json:"payment" binding:"required"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// Checkout finalizes a basket: it computes the comparison, builds the
// stable order snapshot and publishes an OrderPlaced event for the export
// worker. The basket itself is left untouched.
func (bs *BasketService) Checkout(ctx context.Context, sessionID string, region models.Region, req CheckoutRequest) (*models.OrderSnapshot, error) {
	ctx, span := util.StartSpan(ctx, "BasketService.Checkout")
	defer span.End()

	deliveryMode, err := normalizeDelivery(req.DeliveryMode)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("invalid_delivery").Inc()
		return nil, err
	}
	if !models.ValidPayment(req.Payment) {
		util.CheckoutsFailedTotal.WithLabelValues("invalid_payment").Inc()
		return nil, ErrInvalidPayment
	}

	b, err := bs.loadBasket(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	detail := basket.Compare(bs.catalogs.Catalog(ctx, region), region, b, deliveryMode)
	if detail.Empty {
		util.CheckoutsFailedTotal.WithLabelValues("empty_basket").Inc()
		return nil, ErrEmptyBasket
	}

	// The key is claimed only after every validation has passed, so a
	// rejected checkout never burns the client's retry key.
	if req.IdempotencyKey != "" {
		claimed, err := bs.claimKey(ctx, req.IdempotencyKey)
		if err != nil {
			bs.logger.Warn("Idempotency check failed, continuing", zap.Error(err))
		} else if !claimed {
			util.CheckoutsFailedTotal.WithLabelValues("duplicate").Inc()
			return nil, ErrDuplicateCheckout
		}
	}

	snapshot := buildSnapshot(region, deliveryMode, req.Payment, detail)
	util.CheckoutsTotal.WithLabelValues(string(detail.Winner)).Inc()

	orderRef := uuid.New().String()
	bs.logger.Info("Checkout completed",
		zap.String("order_ref", orderRef),
		zap.String("region", region.Code),
		zap.String("winner", string(detail.Winner)))

	if bs.publisher != nil {
		event := &models.OrderPlacedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderPlaced,
				Timestamp: time.Now(),
			},
			OrderRef: orderRef,
			Snapshot: *snapshot,
		}
		if err := bs.publisher.PublishOrderPlaced(ctx, event); err != nil {
			bs.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
		}
	}

	return snapshot, nil
}

// buildSnapshot maps a comparison result onto the exported order schema.
func buildSnapshot(region models.Region, deliveryMode, payment string, detail models.BasketDetail) *models.OrderSnapshot {
	items := make([]models.OrderSnapshotItem, 0, len(detail.Items))
	for _, line := range detail.Items {
		items = append(items, models.OrderSnapshotItem{
			SKU:  line.Product.ID,
			Name: line.Product.Name,
			Qty:  line.Qty,
		})
	}

	return &models.OrderSnapshot{
		CreatedAt:    time.Now().UTC(),
		Region:       region.Code,
		DeliveryMode: deliveryMode,
		Payment:      payment,
		MarketWinner: detail.Winner,
		Totals:       detail.Totals,
		Items:        items,
	}
}

func normalizeDelivery(mode string) (string, error) {
	switch mode {
	case "":
		return models.DeliveryPickup, nil
	case models.DeliveryPickup, models.DeliveryHome:
		return mode, nil
	}
	return "", ErrInvalidDeliveryMode
}

// claimKey atomically claims a checkout idempotency key, in Redis when
// available, otherwise in process.
func (bs *BasketService) claimKey(ctx context.Context, key string) (bool, error) {
	if bs.redis != nil {
		return bs.redis.ClaimIdempotencyKey(ctx, key, bs.basketTTL)
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.usedKeys[key] {
		return false, nil
	}
	bs.usedKeys[key] = true
	return true, nil
}

func (bs *BasketService) productExists(ctx context.Context, productID string, region models.Region) bool {
	for _, p := range bs.catalogs.Catalog(ctx, region) {
		if p.ID == productID {
			return true
		}
	}
	return false
}

func (bs *BasketService) loadBasket(ctx context.Context, sessionID string) (basket.Basket, error) {
	if bs.redis != nil {
		items, err := bs.redis.GetBasket(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load basket: %w", err)
		}
		return basket.Basket(items), nil
	}

	bs.mu.RLock()
	defer bs.mu.RUnlock()
	b, ok := bs.sessions[sessionID]
	if !ok {
		return basket.Basket{}, nil
	}
	res := make(basket.Basket, len(b))
	copy(res, b)
	return res, nil
}

func (bs *BasketService) saveBasket(ctx context.Context, sessionID string, b basket.Basket) error {
	if bs.redis != nil {
		if err := bs.redis.SaveBasket(ctx, sessionID, []models.BasketItem(b), bs.basketTTL); err != nil {
			return fmt.Errorf("failed to save basket: %w", err)
		}
		return nil
	}

	bs.mu.Lock()
	bs.sessions[sessionID] = b
	bs.mu.Unlock()
	return nil
}
