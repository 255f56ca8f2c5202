package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/service/commands"
	"github.com/mamadbah2/stockroom/internal/service/reporting"
)

// ReportPublisher builds, archives and delivers a stock report.
type ReportPublisher interface {
	Publish(ctx context.Context) (models.StockReport, error)
}

// CommandHandler handles text commands and on-demand reports.
type CommandHandler struct {
	dispatcher commands.Dispatcher
	reports    ReportPublisher
	logger     *zap.Logger
}

// NewCommandHandler constructs the HTTP handler adapter.
func NewCommandHandler(dispatcher commands.Dispatcher, reports ReportPublisher, logger *zap.Logger) *CommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandHandler{dispatcher: dispatcher, reports: reports, logger: logger}
}

// Execute runs one line of text through the command dispatcher.
func (h *CommandHandler) Execute(c *gin.Context) {
	var req models.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid command payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cmd := models.ParseCommand(req.Text)
	reply, err := h.dispatcher.HandleCommand(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warn("command failed", zap.String("command", string(cmd.Type)), zap.Error(err))
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CommandReply{Command: string(cmd.Type), Message: reply})
}

// PublishReport builds and delivers a stock report now. A report that was
// archived but not delivered is still returned, flagged undelivered.
func (h *CommandHandler) PublishReport(c *gin.Context) {
	report, err := h.reports.Publish(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"report": report, "delivered": true})
	case errors.Is(err, reporting.ErrNotifyFailed):
		c.JSON(http.StatusCreated, gin.H{"report": report, "delivered": false, "error": err.Error()})
	default:
		h.logger.Error("failed publishing report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish report"})
	}
}
