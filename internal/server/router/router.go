package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/server/handlers"
)

// Handlers groups the HTTP handler adapters mounted by New.
type Handlers struct {
	Inventory *handlers.InventoryHandler
	Queue     *handlers.QueueHandler
	Commands  *handlers.CommandHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	items := r.Group("/items")
	items.GET("", h.Inventory.List)
	items.POST("", h.Inventory.Create)
	items.GET("/:sku", h.Inventory.Get)
	items.GET("/:sku/audit", h.Inventory.Audit)
	items.GET("/:sku/price", h.Inventory.Price)
	items.POST("/:sku/restock", h.Inventory.Restock)
	items.POST("/:sku/reserve", h.Inventory.Reserve)
	items.POST("/:sku/release", h.Inventory.Release)
	items.POST("/:sku/ship", h.Inventory.Ship)
	r.GET("/strategies", h.Inventory.Strategies)

	queue := r.Group("/queue")
	queue.GET("", h.Queue.State)
	queue.POST("/items", h.Queue.Add)
	queue.POST("/take", h.Queue.Take)
	queue.POST("/pause", h.Queue.Pause)
	queue.POST("/resume", h.Queue.Resume)

	r.POST("/commands", h.Commands.Execute)
	r.POST("/reports", h.Commands.PublishReport)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
