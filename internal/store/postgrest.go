package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"meeting-room-backend/internal/model"
)

const (
	roomsPath        = "/meeting_rooms"
	reservationsPath = "/reservations"

	roomSearchColumns = "id,room_number,capacity,meeting_level"
)

// PostgREST talks to a PostgREST endpoint exposing meeting_rooms and reservations.
type PostgREST struct {
	client *resty.Client
	logger *zap.Logger
}

// NewPostgREST creates a store client rooted at baseURL. Requests are sent
// once; a zero timeout leaves the client default in place.
func NewPostgREST(baseURL string, timeout time.Duration, logger *zap.Logger) *PostgREST {
	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgREST{client: client, logger: logger}
}

// FindRooms lists rooms matching q in the store's natural order.
// Only the columns eligibility needs are selected.
func (s *PostgREST) FindRooms(ctx context.Context, q RoomQuery) ([]model.Room, error) {
	params := url.Values{}
	params.Set("select", roomSearchColumns)
	if q.MinCapacity > 0 {
		params.Set("capacity", "gte."+strconv.Itoa(q.MinCapacity))
	}
	switch {
	case q.LevelEquals != "":
		params.Set("meeting_level", "eq."+q.LevelEquals)
	case q.LevelContains != "":
		params.Set("meeting_level", "like.*"+q.LevelContains+"*")
	}

	var rooms []model.Room
	if err := s.get(ctx, roomsPath, params, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom returns the room with the given id or ErrNotFound.
func (s *PostgREST) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	var rooms []model.Room
	if err := s.get(ctx, roomsPath, idFilter(id), &rooms); err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("room %d: %w", id, ErrNotFound)
	}
	return &rooms[0], nil
}

// FindOverlapping returns the reservations of roomID that intersect [start, end).
func (s *PostgREST) FindOverlapping(ctx context.Context, roomID int64, start, end string) ([]model.Reservation, error) {
	params := url.Values{}
	params.Set("room_id", "eq."+strconv.FormatInt(roomID, 10))
	params.Set("start_time", "lt."+end)
	params.Set("end_time", "gt."+start)

	var reservations []model.Reservation
	if err := s.get(ctx, reservationsPath, params, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// CreateReservation inserts r and returns the stored row. PostgREST answers
// either with the row or with an array holding it; both are accepted.
func (s *PostgREST) CreateReservation(ctx context.Context, r model.Reservation) (*model.Reservation, error) {
	body := model.Reservation{
		RoomID:       r.RoomID,
		MeetingTitle: r.MeetingTitle,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		ReservedBy:   r.ReservedBy,
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		Post(reservationsPath)
	if err != nil {
		s.logger.Warn("store request failed", zap.String("method", http.MethodPost), zap.String("path", reservationsPath), zap.Error(err))
		return nil, fmt.Errorf("%w: POST %s: %v", ErrUnavailable, reservationsPath, err)
	}
	s.logResponse(http.MethodPost, reservationsPath, resp, time.Since(start))
	if err := checkStatus(http.MethodPost, reservationsPath, resp); err != nil {
		return nil, err
	}

	created, err := decodeCreated(resp.Body())
	if err != nil {
		s.logger.Warn("unexpected create response", zap.ByteString("body", resp.Body()), zap.Error(err))
		return nil, err
	}
	return created, nil
}

// GetReservation returns the reservation with the given id or ErrNotFound.
func (s *PostgREST) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	var reservations []model.Reservation
	if err := s.get(ctx, reservationsPath, idFilter(id), &reservations); err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	return &reservations[0], nil
}

// DeleteReservation removes the reservation row with the given id.
func (s *PostgREST) DeleteReservation(ctx context.Context, id int64) error {
	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(idFilter(id)).
		Delete(reservationsPath)
	if err != nil {
		s.logger.Warn("store request failed", zap.String("method", http.MethodDelete), zap.String("path", reservationsPath), zap.Error(err))
		return fmt.Errorf("%w: DELETE %s: %v", ErrUnavailable, reservationsPath, err)
	}
	s.logResponse(http.MethodDelete, reservationsPath, resp, time.Since(start))
	return checkStatus(http.MethodDelete, reservationsPath, resp)
}

// RecentReservations returns the newest reservations by created_at.
func (s *PostgREST) RecentReservations(ctx context.Context, limit int) ([]model.Reservation, error) {
	params := url.Values{}
	params.Set("order", "created_at.desc")
	params.Set("limit", strconv.Itoa(limit))

	var reservations []model.Reservation
	if err := s.get(ctx, reservationsPath, params, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *PostgREST) get(ctx context.Context, path string, params url.Values, out any) error {
	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(path)
	if err != nil {
		s.logger.Warn("store request failed", zap.String("method", http.MethodGet), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: GET %s: %v", ErrUnavailable, path, err)
	}
	s.logResponse(http.MethodGet, path, resp, time.Since(start))
	if err := checkStatus(http.MethodGet, path, resp); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

func (s *PostgREST) logResponse(method, path string, resp *resty.Response, took time.Duration) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("latency", took),
	}
	if resp.IsError() {
		s.logger.Warn("store request rejected", append(fields, zap.ByteString("body", resp.Body()))...)
		return
	}
	s.logger.Debug("store request", fields...)
}

// checkStatus accepts 200, 201 and 204. A 409 on the reservation insert means
// a constraint on the reservations table refused the row; elsewhere it is an
// ordinary upstream failure.
func checkStatus(method, path string, resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusConflict:
		if method == http.MethodPost && path == reservationsPath {
			return fmt.Errorf("%s %s: %w", method, path, ErrConflict)
		}
	}
	return fmt.Errorf("%w: %s %s returned %d: %s", ErrUnavailable, method, path, resp.StatusCode(), truncate(resp.Body(), 256))
}

func decodeCreated(body []byte) (*model.Reservation, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty create response", ErrMalformedResponse)
	}

	var created model.Reservation
	switch body[0] {
	case '[':
		var rows []model.Reservation
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: create returned no rows", ErrMalformedResponse)
		}
		created = rows[0]
	case '{':
		if err := json.Unmarshal(body, &created); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected create payload", ErrMalformedResponse)
	}

	if created.ID == 0 {
		return nil, fmt.Errorf("%w: created reservation has no id", ErrMalformedResponse)
	}
	return &created, nil
}

func idFilter(id int64) url.Values {
	return url.Values{"id": []string{"eq." + strconv.FormatInt(id, 10)}}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
