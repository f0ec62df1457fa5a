package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"meeting-room-backend/internal/model"
	"meeting-room-backend/internal/store"
)

// ReserveRequest asks to book one room for [StartTime, EndTime).
type ReserveRequest struct {
	RoomID       int64
	MeetingTitle string
	StartTime    string
	EndTime      string
	ReservedBy   string
}

// Confirmation describes a booking that was written to the store.
type Confirmation struct {
	ReservationID      int64               `json:"reservation_id"`
	RoomID             int64               `json:"room_id"`
	RoomNumber         string              `json:"room_number"`
	StartTime          string              `json:"start_time"`
	EndTime            string              `json:"end_time"`
	RecentReservations []model.Reservation `json:"recent_reservations"`
}

func (r ReserveRequest) validate() error {
	if r.RoomID <= 0 {
		return invalidf("room_id must be a positive integer")
	}
	if strings.TrimSpace(r.MeetingTitle) == "" {
		return invalidf("meeting_title is required")
	}
	if strings.TrimSpace(r.ReservedBy) == "" {
		return invalidf("reserved_by is required")
	}
	return validateInterval(r.StartTime, r.EndTime)
}

// Reserve books a room. The overlap check runs again right before the insert,
// and a conflict reported by the store on insert is treated the same way.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (*Confirmation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	room, err := s.lookupRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	isBusy, err := s.busy(ctx, room.ID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if isBusy {
		return nil, fmt.Errorf("room %s: %w", room.RoomNumber, ErrConflict)
	}

	created, err := s.store.CreateReservation(ctx, model.Reservation{
		RoomID:       room.ID,
		MeetingTitle: req.MeetingTitle,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ReservedBy:   req.ReservedBy,
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		return nil, fmt.Errorf("room %s: %w", room.RoomNumber, ErrConflict)
	case errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("room %d: %w", room.ID, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.logger.Info("reservation created",
		zap.Int64("reservation_id", created.ID),
		zap.Int64("room_id", room.ID),
		zap.String("reserved_by", req.ReservedBy),
	)

	return &Confirmation{
		ReservationID:      created.ID,
		RoomID:             room.ID,
		RoomNumber:         room.RoomNumber,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		RecentReservations: s.recent(ctx),
	}, nil
}

// recent never fails a booking that already went through.
func (s *Service) recent(ctx context.Context) []model.Reservation {
	if s.recentLimit == 0 {
		return []model.Reservation{}
	}
	list, err := s.store.RecentReservations(ctx, s.recentLimit)
	if err != nil {
		s.logger.Warn("failed to load recent reservations", zap.Error(err))
		return []model.Reservation{}
	}
	if list == nil {
		list = []model.Reservation{}
	}
	return list
}
