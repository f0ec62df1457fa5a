// Package booking implements room eligibility, the overlap check, the
// reservation writer and the canceller on top of a store.Store.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"meeting-room-backend/internal/model"
	"meeting-room-backend/internal/parse"
	"meeting-room-backend/internal/store"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("time slot is already reserved")
)

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	Vocabulary  parse.TagVocabulary
	Concurrency int // parallel overlap checks per availability request
	RecentLimit int // reservations echoed after a booking, 0 disables
	Logger      *zap.Logger
}

// Service answers availability queries and books or cancels reservations.
// It holds no mutable state of its own; the store is the only source of truth.
type Service struct {
	store       store.Store
	vocab       parse.TagVocabulary
	concurrency int
	recentLimit int
	logger      *zap.Logger
}

// NewService creates a new reservation service.
func NewService(s store.Store, opts Options) *Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.RecentLimit < 0 {
		opts.RecentLimit = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		store:       s,
		vocab:       opts.Vocabulary,
		concurrency: opts.Concurrency,
		recentLimit: opts.RecentLimit,
		logger:      opts.Logger,
	}
}

// RoomDetails is the public view of a single room.
type RoomDetails struct {
	RoomID         int64         `json:"room_id"`
	RoomNumber     string        `json:"room_number"`
	Capacity       int           `json:"capacity"`
	MeetingLevel   string        `json:"meeting_level"`
	LeaderPriority model.RawJSON `json:"leader_priority"`
}

// RoomDetails looks up one room by id.
func (s *Service) RoomDetails(ctx context.Context, roomID int64) (*RoomDetails, error) {
	if roomID <= 0 {
		return nil, invalidf("room_id must be a positive integer")
	}
	room, err := s.lookupRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &RoomDetails{
		RoomID:         room.ID,
		RoomNumber:     room.RoomNumber,
		Capacity:       room.Capacity,
		MeetingLevel:   room.MeetingLevel,
		LeaderPriority: room.LeaderPriority,
	}, nil
}

func (s *Service) lookupRoom(ctx context.Context, roomID int64) (*model.Room, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("room %d: %w", roomID, ErrNotFound)
		}
		return nil, fmt.Errorf("get room %d: %w", roomID, err)
	}
	return room, nil
}

// busy reports whether roomID has any reservation overlapping [start, end).
func (s *Service) busy(ctx context.Context, roomID int64, start, end string) (bool, error) {
	overlapping, err := s.store.FindOverlapping(ctx, roomID, start, end)
	if err != nil {
		return false, fmt.Errorf("check room %d: %w", roomID, err)
	}
	return len(overlapping) > 0, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateInterval(start, end string) error {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return invalidf("start_time and end_time are required")
	}
	if _, _, err := parse.Interval(start, end); err != nil {
		return invalidf("%v", err)
	}
	return nil
}
