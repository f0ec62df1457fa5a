package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"meeting-room-backend/internal/model"
	"meeting-room-backend/internal/parse"
	"meeting-room-backend/internal/store"
)

// memStore is an in-memory store.Store that applies the same filters as PostgREST.
type memStore struct {
	mu           sync.Mutex
	rooms        []model.Room
	reservations []model.Reservation
	nextID       int64

	overlapErr  map[int64]error // per room
	createErr   error
	recentErr   error
	deleteCalls int
	createCalls int
}

func newMemStore(rooms ...model.Room) *memStore {
	return &memStore{rooms: rooms, nextID: 1, overlapErr: map[int64]error{}}
}

func (m *memStore) FindRooms(_ context.Context, q store.RoomQuery) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Room
	for _, r := range m.rooms {
		if q.MinCapacity > 0 && r.Capacity < q.MinCapacity {
			continue
		}
		if q.LevelEquals != "" && r.MeetingLevel != q.LevelEquals {
			continue
		}
		if q.LevelContains != "" && !strings.Contains(r.MeetingLevel, q.LevelContains) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) GetRoom(_ context.Context, id int64) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, fmt.Errorf("room %d: %w", id, store.ErrNotFound)
}

func (m *memStore) FindOverlapping(_ context.Context, roomID int64, start, end string) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.overlapErr[roomID]; err != nil {
		return nil, err
	}
	return m.overlapping(roomID, start, end)
}

func (m *memStore) overlapping(roomID int64, start, end string) ([]model.Reservation, error) {
	from, to, err := parse.Interval(start, end)
	if err != nil {
		return nil, err
	}
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.RoomID != roomID {
			continue
		}
		rs, re, err := parse.Interval(r.StartTime, r.EndTime)
		if err != nil {
			return nil, err
		}
		if rs.Before(to) && re.After(from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) CreateReservation(_ context.Context, r model.Reservation) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	r.ID = m.nextID
	r.CreatedAt = fmt.Sprintf("2025-03-14T00:00:%02d", m.nextID)
	m.nextID++
	m.reservations = append(m.reservations, r)
	return &r, nil
}

func (m *memStore) GetReservation(_ context.Context, id int64) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, fmt.Errorf("reservation %d: %w", id, store.ErrNotFound)
}

func (m *memStore) DeleteReservation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	for i, r := range m.reservations {
		if r.ID == id {
			m.reservations = append(m.reservations[:i], m.reservations[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("reservation %d: %w", id, store.ErrNotFound)
}

func (m *memStore) RecentReservations(_ context.Context, limit int) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	out := []model.Reservation{}
	for i := len(m.reservations) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.reservations[i])
	}
	return out, nil
}
