package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
)

// Queue is the bounded queue surface exposed over HTTP.
type Queue interface {
	AddContext(ctx context.Context, item string) error
	RemoveContext(ctx context.Context) (string, error)
	Pause()
	Resume()
	Snapshot() []string
	Cap() int
	Paused() bool
}

// QueueHandler serves the bounded queue. Blocking calls end when the request
// context does, or after ?timeout when given.
type QueueHandler struct {
	queue  Queue
	logger *zap.Logger
}

// NewQueueHandler constructs the HTTP handler adapter.
func NewQueueHandler(queue Queue, logger *zap.Logger) *QueueHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueHandler{queue: queue, logger: logger}
}

// State returns the queue contents.
func (h *QueueHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.state())
}

// Add enqueues {item}, waiting while the queue is full or paused.
func (h *QueueHandler) Add(c *gin.Context) {
	var req models.QueueItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel, ok := h.requestContext(c)
	if !ok {
		return
	}
	defer cancel()

	if err := h.queue.AddContext(ctx, req.Item); err != nil {
		h.logger.Info("queue add gave up", zap.String("item", req.Item), zap.Error(err))
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.state())
}

// Take dequeues the oldest item, waiting while the queue is empty or paused.
func (h *QueueHandler) Take(c *gin.Context) {
	ctx, cancel, ok := h.requestContext(c)
	if !ok {
		return
	}
	defer cancel()

	item, err := h.queue.RemoveContext(ctx)
	if err != nil {
		h.logger.Info("queue take gave up", zap.Error(err))
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "queue": h.state()})
}

// Pause blocks producers and consumers.
func (h *QueueHandler) Pause(c *gin.Context) {
	h.queue.Pause()
	c.JSON(http.StatusOK, h.state())
}

// Resume unblocks producers and consumers.
func (h *QueueHandler) Resume(c *gin.Context) {
	h.queue.Resume()
	c.JSON(http.StatusOK, h.state())
}

func (h *QueueHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc, bool) {
	raw := c.Query("timeout")
	if raw == "" {
		ctx, cancel := context.WithCancel(c.Request.Context())
		return ctx, cancel, true
	}

	timeout, err := time.ParseDuration(raw)
	if err != nil || timeout <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timeout must be a positive duration"})
		return nil, nil, false
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	return ctx, cancel, true
}

func (h *QueueHandler) state() models.QueueState {
	items := h.queue.Snapshot()
	return models.QueueState{
		Items:    items,
		Len:      len(items),
		Capacity: h.queue.Cap(),
		Paused:   h.queue.Paused(),
	}
}
