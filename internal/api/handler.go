package api

import (
	"context"

	"go.uber.org/zap"

	"meeting-room-backend/internal/booking"
)

// ReservationService is what the handlers need from the booking layer.
type ReservationService interface {
	AvailableRooms(ctx context.Context, req booking.AvailabilityRequest) ([]booking.AvailableRoom, error)
	RoomDetails(ctx context.Context, roomID int64) (*booking.RoomDetails, error)
	Reserve(ctx context.Context, req booking.ReserveRequest) (*booking.Confirmation, error)
	Cancel(ctx context.Context, reservationID int64) error
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc    ReservationService
	logger *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc ReservationService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}
