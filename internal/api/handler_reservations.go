package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"meeting-room-backend/internal/booking"
)

type reserveRequest struct {
	RoomID       int64  `json:"room_id" binding:"required,gt=0"`
	MeetingTitle string `json:"meeting_title" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	MeetingLevel string `json:"meeting_level"`
	Capacity     int    `json:"capacity"`
	ReservedBy   string `json:"reserved_by" binding:"required"`
}

// Reserve handles POST /api/reserve.
func (h *Handler) Reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error(), emptyObject)
		return
	}

	conf, err := h.svc.Reserve(c.Request.Context(), booking.ReserveRequest{
		RoomID:       req.RoomID,
		MeetingTitle: req.MeetingTitle,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ReservedBy:   req.ReservedBy,
	})
	if err != nil {
		h.fail(c, err, emptyObject)
		return
	}
	ok(c, "reservation created", conf)
}

type cancelRequest struct {
	ReservationID int64 `json:"reservation_id" binding:"required,gt=0"`
}

type cancelResponse struct {
	ReservationID int64 `json:"reservation_id"`
}

// CancelReservation handles DELETE /api/cancel-reservation and
// DELETE /api/cancel-reservation/:reservation_id.
func (h *Handler) CancelReservation(c *gin.Context) {
	var id int64
	if raw := c.Param("reservation_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			h.badRequest(c, "reservation_id must be a positive integer", emptyObject)
			return
		}
		id = parsed
	} else {
		var req cancelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, err.Error(), emptyObject)
			return
		}
		id = req.ReservationID
	}

	if err := h.svc.Cancel(c.Request.Context(), id); err != nil {
		h.fail(c, err, emptyObject)
		return
	}
	ok(c, "reservation cancelled", cancelResponse{ReservationID: id})
}
