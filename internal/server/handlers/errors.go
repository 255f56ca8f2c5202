package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockroom/internal/domain/stock"
	"github.com/mamadbah2/stockroom/internal/service/commands"
	"github.com/mamadbah2/stockroom/internal/service/inventory"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrItemExists):
		return http.StatusConflict
	case errors.Is(err, stock.ErrInvalidOperation),
		errors.Is(err, inventory.ErrUnknownStrategy),
		errors.Is(err, inventory.ErrNotSerialized),
		errors.Is(err, commands.ErrInvalidArguments),
		errors.Is(err, commands.ErrUnsupportedCommand):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
