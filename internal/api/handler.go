package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"basket-service/internal/catalog"
	"basket-service/internal/regions"
	"basket-service/internal/service"
	"basket-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	baskets  *service.BasketService
	catalogs *service.CatalogService
}

// NewHandler creates a new HTTP handler
func NewHandler(baskets *service.BasketService, catalogs *service.CatalogService) *Handler {
	return &Handler{
		baskets:  baskets,
		catalogs: catalogs,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/regions", h.listRegions)
		v1.GET("/catalog", h.listCatalog)

		v1.POST("/baskets", h.createBasket)
		v1.GET("/baskets/:id", h.getBasket)
		v1.POST("/baskets/:id/items", h.addItem)
		v1.PATCH("/baskets/:id/items/:productId", h.changeQty)
		v1.DELETE("/baskets/:id/items/:productId", h.removeItem)
		v1.POST("/baskets/:id/premium", h.applyPremium)
		v1.GET("/baskets/:id/compare", h.compare)
		v1.POST("/baskets/:id/checkout", h.checkout)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listRegions returns the configured regions
func (h *Handler) listRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"regions": regions.All(),
		"groups":  catalog.Groups,
	})
}

// listCatalog returns a filtered catalog page for the selected location
func (h *Handler) listCatalog(c *gin.Context) {
	region := regions.Resolve(c.Query("country"), c.Query("state"), c.Query("city"))

	minQuality, _ := strconv.Atoi(c.DefaultQuery("min_quality", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries := h.catalogs.List(c.Request.Context(), region, catalog.Filter{
		Group:      c.Query("group"),
		Query:      c.Query("q"),
		MinQuality: minQuality,
		Limit:      limit,
	})

	c.JSON(http.StatusOK, gin.H{
		"region": region.Code,
		"count":  len(entries),
		"items":  entries,
	})
}

// createBasket starts a new basket session
func (h *Handler) createBasket(c *gin.Context) {
	sessionID, err := h.baskets.CreateSession(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create basket session",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

// getBasket returns the current basket items
func (h *Handler) getBasket(c *gin.Context) {
	items, err := h.baskets.Basket(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load basket",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// addItem adds one unit of a product to the basket
func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	region := regions.Resolve(c.Query("country"), c.Query("state"), c.Query("city"))

	items, err := h.baskets.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, region)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to add item",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type changeQtyRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// changeQty adjusts an item quantity
func (h *Handler) changeQty(c *gin.Context) {
	var req changeQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	items, err := h.baskets.ChangeQty(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Delta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to change quantity",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// removeItem removes a product from the basket
func (h *Handler) removeItem(c *gin.Context) {
	items, err := h.baskets.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to remove item",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type premiumRequest struct {
	Count int `json:"count,omitempty"`
}

// applyPremium replaces the basket with the suggested premium selection
func (h *Handler) applyPremium(c *gin.Context) {
	// Body is optional; an absent body means the default selection size.
	var req premiumRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	region := regions.Resolve(c.Query("country"), c.Query("state"), c.Query("city"))

	items, err := h.baskets.ApplyPremium(c.Request.Context(), c.Param("id"), region, req.Count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build premium basket",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// compare computes the market comparison for the basket
func (h *Handler) compare(c *gin.Context) {
	region := regions.Resolve(c.Query("country"), c.Query("state"), c.Query("city"))

	detail, err := h.baskets.Compare(c.Request.Context(), c.Param("id"), region, c.Query("delivery"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidDeliveryMode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery mode"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to compare basket",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region": region.Code,
		"detail": detail,
	})
}

// checkout finalizes the basket and returns the exported order snapshot
func (h *Handler) checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	region := regions.Resolve(c.Query("country"), c.Query("state"), c.Query("city"))

	snapshot, err := h.baskets.Checkout(c.Request.Context(), c.Param("id"), region, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBasket):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Basket is empty"})
		case errors.Is(err, service.ErrInvalidPayment):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		case errors.Is(err, service.ErrInvalidDeliveryMode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery mode"})
		case errors.Is(err, service.ErrDuplicateCheckout):
			c.JSON(http.StatusConflict, gin.H{"error": "Duplicate checkout request"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to checkout",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
