package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/domain/stock"
)

// InventoryService is the catalog surface exposed over HTTP.
type InventoryService interface {
	CreateItem(req models.CreateItemRequest) (stock.Snapshot, error)
	Get(sku string) (stock.StockItem, error)
	List() []stock.Snapshot
	Restock(sku string, amount int) (models.OperationResult, error)
	RestockSerial(sku, serial string) (models.OperationResult, error)
	Reserve(sku string, amount int) (models.OperationResult, error)
	Release(sku string, amount int) (models.OperationResult, error)
	Ship(sku string, amount int) (models.OperationResult, error)
	Quote(sku string, units int, strategyKey string) (models.PriceQuote, error)
	Strategies() []models.StrategyInfo
	AuditLog(sku string, limit int) ([]stock.Event, error)
}

// InventoryHandler serves the item catalog.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns every item.
func (h *InventoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.svc.List()})
}

// Create registers a new item of any kind.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid item payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	snap, err := h.svc.CreateItem(req)
	if err != nil {
		h.logger.Warn("item creation rejected", zap.String("sku", req.SKU), zap.Error(err))
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}

// Get returns one item.
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Param("sku"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item.Snapshot())
}

// Audit returns the item's audit trail, optionally only the latest ?limit entries.
func (h *InventoryHandler) Audit(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	sku := c.Param("sku")
	events, err := h.svc.AuditLog(sku, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = ev.String()
	}
	c.JSON(http.StatusOK, gin.H{"sku": sku, "events": events, "lines": lines})
}

// Restock adds {amount} units, or one unit when {serial} is given.
func (h *InventoryHandler) Restock(c *gin.Context) {
	var req models.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sku := c.Param("sku")
	var (
		res models.OperationResult
		err error
	)
	if req.Serial != "" {
		res, err = h.svc.RestockSerial(sku, req.Serial)
	} else {
		res, err = h.svc.Restock(sku, req.Amount)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Reserve earmarks {amount} units.
func (h *InventoryHandler) Reserve(c *gin.Context) {
	h.quantityOperation(c, h.svc.Reserve)
}

// Release un-earmarks up to {amount} units.
func (h *InventoryHandler) Release(c *gin.Context) {
	h.quantityOperation(c, h.svc.Release)
}

// Ship removes {amount} reserved units.
func (h *InventoryHandler) Ship(c *gin.Context) {
	h.quantityOperation(c, h.svc.Ship)
}

// Price quotes ?units under ?strategy (flat by default).
func (h *InventoryHandler) Price(c *gin.Context) {
	units, err := strconv.Atoi(c.DefaultQuery("units", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "units must be an integer"})
		return
	}

	quote, err := h.svc.Quote(c.Param("sku"), units, c.Query("strategy"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Strategies lists registered pricing strategies.
func (h *InventoryHandler) Strategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": h.svc.Strategies()})
}

// quantityOperation runs op and answers 409 when the item refused it.
func (h *InventoryHandler) quantityOperation(c *gin.Context, op func(sku string, amount int) (models.OperationResult, error)) {
	var req models.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := op(c.Param("sku"), req.Amount)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !res.Accepted {
		c.JSON(http.StatusConflict, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
