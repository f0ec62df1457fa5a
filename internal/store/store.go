package store

import (
	"context"
	"errors"

	"meeting-room-backend/internal/model"
)

var (
	// ErrNotFound is returned when a single-row lookup matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when the store itself rejects a reservation
	// because it overlaps an existing one.
	ErrConflict = errors.New("reservation overlaps an existing one")
	// ErrUnavailable covers network failures, timeouts and non-2xx replies.
	ErrUnavailable = errors.New("store unavailable")
	// ErrMalformedResponse is returned when the store answers with an unexpected shape.
	ErrMalformedResponse = errors.New("malformed store response")
)

// RoomQuery filters the meeting_rooms table. Zero fields are not applied.
type RoomQuery struct {
	MinCapacity   int
	LevelEquals   string
	LevelContains string
}

// Store defines the operations the reservation service needs from the backing store.
type Store interface {
	FindRooms(ctx context.Context, q RoomQuery) ([]model.Room, error)
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
	// FindOverlapping returns reservations of roomID with start < end and end > start.
	FindOverlapping(ctx context.Context, roomID int64, start, end string) ([]model.Reservation, error)
	CreateReservation(ctx context.Context, r model.Reservation) (*model.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*model.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
	RecentReservations(ctx context.Context, limit int) ([]model.Reservation, error)
}
