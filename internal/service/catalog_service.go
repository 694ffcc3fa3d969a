package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"basket-service/internal/broker"
	"basket-service/internal/catalog"
	"basket-service/internal/models"
	"basket-service/internal/pricing"
	"basket-service/internal/redisclient"
	"basket-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogSource fetches the current externally supplied catalog. A nil
// result or an error means "no external data"; the caller falls back to
// the synthesized demo catalog. The core never talks to the feed directly.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) ([]models.Product, error)
}

// Catalog build sources, used for logging and metrics.
const (
	sourceExternal = "external"
	sourceDemo     = "demo"
)

// CatalogService builds and caches per-region catalogs. Generation for
// thousands of products is the one expensive operation in the system, so
// results are memoized in process and in Redis keyed by (region code, size);
// a region change is the only thing that invalidates the key.
type CatalogService struct {
	source    CatalogSource
	redis     *redisclient.Client
	publisher *broker.EventPublisher
	logger    *zap.Logger

	size int
	ttl  time.Duration

	mu   sync.RWMutex
	memo map[string][]models.Product
}

// NewCatalogService creates a new catalog service. source, redis and
// publisher may each be nil; the service degrades to pure in-process
// demo catalogs.
func NewCatalogService(source CatalogSource, redis *redisclient.Client, publisher *broker.EventPublisher, size int, ttl time.Duration) *CatalogService {
	return &CatalogService{
		source:    source,
		redis:     redis,
		publisher: publisher,
		logger:    util.GetLogger(),
		size:      size,
		ttl:       ttl,
		memo:      make(map[string][]models.Product),
	}
}

func (cs *CatalogService) cacheKey(region models.Region) string {
	return fmt.Sprintf("%s:%d", region.Code, cs.size)
}

// Catalog returns the active catalog for a region: the external feed when it
// yields a non-empty product list, otherwise the curated+synthesized demo
// catalog. It never fails; any feed error degrades to demo data.
func (cs *CatalogService) Catalog(ctx context.Context, region models.Region) []models.Product {
	ctx, span := util.StartSpan(ctx, "CatalogService.Catalog")
	defer span.End()

	key := cs.cacheKey(region)

	cs.mu.RLock()
	cached, ok := cs.memo[key]
	cs.mu.RUnlock()
	if ok {
		util.CatalogCacheHitsTotal.WithLabelValues("memory").Inc()
		return cached
	}

	if cs.redis != nil {
		products, hit, err := cs.redis.GetCatalog(ctx, key)
		if err != nil {
			cs.logger.Warn("Redis catalog lookup failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			util.CatalogCacheHitsTotal.WithLabelValues("redis").Inc()
			cs.remember(key, products)
			return products
		}
	}

	products, source := cs.build(ctx, region)
	cs.remember(key, products)

	if cs.redis != nil {
		if err := cs.redis.SetCatalog(ctx, key, products, cs.ttl); err != nil {
			cs.logger.Warn("Failed to cache catalog in Redis", zap.String("key", key), zap.Error(err))
		}
	}

	util.CatalogBuildsTotal.WithLabelValues(source).Inc()
	cs.logger.Info("Catalog built",
		zap.String("region", region.Code),
		zap.String("source", source),
		zap.Int("count", len(products)))

	if cs.publisher != nil {
		event := &models.CatalogRefreshedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeCatalogRefreshed,
				Timestamp: time.Now(),
			},
			RegionCode: region.Code,
			Source:     source,
			Count:      len(products),
		}
		if err := cs.publisher.PublishCatalogRefreshed(ctx, event); err != nil {
			cs.logger.Error("Failed to publish CatalogRefreshed event", zap.Error(err))
		}
	}

	return products
}

// build loads the external feed, falling back to demo synthesis.
func (cs *CatalogService) build(ctx context.Context, region models.Region) ([]models.Product, string) {
	if cs.source != nil {
		products, err := cs.source.LoadCatalog(ctx)
		if err != nil {
			cs.logger.Warn("External catalog load failed, using demo data", zap.Error(err))
		} else if len(products) > 0 {
			return products, sourceExternal
		}
	}

	start := time.Now()
	products := catalog.Demo(region.Code, cs.size)
	util.CatalogGenerateLatency.Observe(time.Since(start).Seconds())
	return products, sourceDemo
}

func (cs *CatalogService) remember(key string, products []models.Product) {
	cs.mu.Lock()
	cs.memo[key] = products
	cs.mu.Unlock()
}

// CatalogEntry is one row of a catalog listing: the product plus its display
// group and the lowest regional unit price across markets.
type CatalogEntry struct {
	models.Product
	Group    string  `json:"group"`
	MinPrice float64 `json:"min_price"`
}

// List returns a filtered catalog page for a region with display pricing.
func (cs *CatalogService) List(ctx context.Context, region models.Region, filter catalog.Filter) []CatalogEntry {
	products := filter.Apply(cs.Catalog(ctx, region))

	entries := make([]CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, CatalogEntry{
			Product:  p,
			Group:    catalog.GroupFor(p.Category),
			MinPrice: pricing.MinAcrossMarkets(p, region),
		})
	}
	return entries
}

// Warmup pre-builds the catalog for a region so the first request doesn't
// pay the generation cost.
func (cs *CatalogService) Warmup(ctx context.Context, region models.Region) {
	_ = cs.Catalog(ctx, region)
}
