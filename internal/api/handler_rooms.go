package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"meeting-room-backend/internal/booking"
)

type availableRoomsRequest struct {
	MeetingTitle string `json:"meeting_title"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	MeetingLevel string `json:"meeting_level" binding:"required"`
	Capacity     int    `json:"capacity" binding:"required,gt=0"`
	ReservedBy   string `json:"reserved_by"`
}

// AvailableRooms handles POST /api/available-rooms.
func (h *Handler) AvailableRooms(c *gin.Context) {
	var req availableRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error(), emptyList)
		return
	}

	rooms, err := h.svc.AvailableRooms(c.Request.Context(), booking.AvailabilityRequest{
		MeetingTitle: req.MeetingTitle,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		MeetingLevel: req.MeetingLevel,
		Capacity:     req.Capacity,
		ReservedBy:   req.ReservedBy,
	})
	if err != nil {
		h.fail(c, err, emptyList)
		return
	}

	message := "available rooms found"
	if len(rooms) == 0 {
		message = "no room available for the requested time"
	}
	ok(c, message, rooms)
}

// RoomDetails handles GET /api/room-details/:room_id.
func (h *Handler) RoomDetails(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil || roomID <= 0 {
		h.badRequest(c, "room_id must be a positive integer", emptyObject)
		return
	}

	details, err := h.svc.RoomDetails(c.Request.Context(), roomID)
	if err != nil {
		h.fail(c, err, emptyObject)
		return
	}
	ok(c, "room details retrieved", details)
}
