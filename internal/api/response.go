package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meeting-room-backend/internal/booking"
	"meeting-room-backend/internal/store"
)

// envelope is the body of every API response.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, envelope{Status: "success", Message: message, Data: data})
}

// emptyObject and emptyList are the data payloads of error responses.
var (
	emptyObject = struct{}{}
	emptyList   = []struct{}{}
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrConflict), errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, store.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error, data any) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, envelope{Status: "error", Message: message, Data: data})
}

// badRequest reports a request body or path that could not be bound.
func (h *Handler) badRequest(c *gin.Context, message string, data any) {
	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Status: "error", Message: message, Data: data})
}
