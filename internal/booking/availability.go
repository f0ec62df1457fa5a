package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"meeting-room-backend/internal/model"
	"meeting-room-backend/internal/parse"
	"meeting-room-backend/internal/store"
)

// AvailabilityRequest asks for rooms that can host a meeting.
type AvailabilityRequest struct {
	MeetingTitle string
	StartTime    string
	EndTime      string
	MeetingLevel string
	Capacity     int
	ReservedBy   string
}

// AvailableRoom is one entry of an availability answer.
type AvailableRoom struct {
	RoomID     int64  `json:"room_id"`
	RoomNumber string `json:"room_number"`
}

// AvailableRooms returns the rooms eligible for the request that are free for
// its whole interval, in store order.
//
// Provincial meetings are offered the exclusive provincial rooms first. Only
// when none of those is free are the compatible rooms offered instead; the two
// pools are never merged. Headquarters meetings only ever see compatible rooms.
func (s *Service) AvailableRooms(ctx context.Context, req AvailabilityRequest) ([]AvailableRoom, error) {
	level, ok := model.ParseMeetingLevel(req.MeetingLevel)
	if !ok {
		return nil, invalidf("unsupported meeting_level %q", req.MeetingLevel)
	}
	if req.Capacity <= 0 {
		return nil, invalidf("capacity must be a positive integer")
	}
	if err := validateInterval(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	switch level {
	case model.LevelProvincial:
		rooms, err := s.freeRooms(ctx, model.ExclusiveProvincial, req)
		if err != nil || len(rooms) > 0 {
			return rooms, err
		}
		s.logger.Debug("no exclusive provincial room free, falling back to compatible rooms",
			zap.Int("capacity", req.Capacity),
			zap.String("start_time", req.StartTime),
			zap.String("end_time", req.EndTime),
		)
		return s.freeRooms(ctx, model.CompatibleProvincial, req)
	default:
		return s.freeRooms(ctx, model.CompatibleHeadquarters, req)
	}
}

// freeRooms loads the pool of rooms carrying want and keeps those with no
// overlapping reservation. Overlap checks run concurrently up to s.concurrency.
func (s *Service) freeRooms(ctx context.Context, want model.Capability, req AvailabilityRequest) ([]AvailableRoom, error) {
	q := store.RoomQuery{MinCapacity: req.Capacity}
	if want == model.ExclusiveProvincial {
		q.LevelEquals = s.vocab.ExclusiveProvincial
	} else {
		q.LevelContains = s.vocab.CompatibleMarker
	}

	rooms, err := s.store.FindRooms(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find rooms: %w", err)
	}

	candidates := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Capacity < req.Capacity {
			continue
		}
		if !parse.ClassifyTag(r.MeetingLevel, s.vocab).Has(want) {
			continue
		}
		candidates = append(candidates, r)
	}

	free := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, room := range candidates {
		i, room := i, room
		g.Go(func() error {
			isBusy, err := s.busy(gctx, room.ID, req.StartTime, req.EndTime)
			if err != nil {
				return err
			}
			free[i] = !isBusy
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]AvailableRoom, 0, len(candidates))
	for i, room := range candidates {
		if free[i] {
			result = append(result, AvailableRoom{RoomID: room.ID, RoomNumber: room.RoomNumber})
		}
	}
	return result, nil
}
