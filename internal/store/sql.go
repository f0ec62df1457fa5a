package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"meeting-room-backend/internal/model"
	"meeting-room-backend/internal/parse"
)

// sqlStore implements Store directly against the tables PostgREST exposes.
// It performs the overlap check and the insert in one transaction.
type sqlStore struct {
	db *gorm.DB
}

// NewSQLStore creates a new GORM-backed store.
func NewSQLStore(db *gorm.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) FindRooms(ctx context.Context, q RoomQuery) ([]model.Room, error) {
	tx := s.db.WithContext(ctx).Model(&model.Room{})
	if q.MinCapacity > 0 {
		tx = tx.Where("capacity >= ?", q.MinCapacity)
	}
	switch {
	case q.LevelEquals != "":
		tx = tx.Where("meeting_level = ?", q.LevelEquals)
	case q.LevelContains != "":
		tx = tx.Where("meeting_level LIKE ? ESCAPE '\\'", "%"+escapeLike(q.LevelContains)+"%")
	}

	var rooms []model.Room
	if err := tx.Order("id").Find(&rooms).Error; err != nil {
		return nil, dbErr("find rooms", err)
	}
	return rooms, nil
}

func (s *sqlStore) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room %d: %w", id, ErrNotFound)
		}
		return nil, dbErr("get room", err)
	}
	return &room, nil
}

func (s *sqlStore) FindOverlapping(ctx context.Context, roomID int64, start, end string) ([]model.Reservation, error) {
	from, to, err := parse.Interval(start, end)
	if err != nil {
		return nil, err
	}

	var rows []model.ReservationRow
	if err := overlapping(s.db.WithContext(ctx), roomID, from, to).Order("start_time").Find(&rows).Error; err != nil {
		return nil, dbErr("find overlapping", err)
	}
	return toReservations(rows), nil
}

func (s *sqlStore) CreateReservation(ctx context.Context, r model.Reservation) (*model.Reservation, error) {
	from, to, err := parse.Interval(r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}

	row := model.ReservationRow{
		RoomID:       r.RoomID,
		MeetingTitle: r.MeetingTitle,
		StartTime:    from.UTC(),
		EndTime:      to.UTC(),
		ReservedBy:   r.ReservedBy,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize bookings per room on PostgreSQL; SQLite locks the whole database anyway.
		roomQuery := tx
		if tx.Dialector.Name() == "postgres" {
			roomQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var room model.Room
		if err := roomQuery.Select("id").First(&room, r.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("room %d: %w", r.RoomID, ErrNotFound)
			}
			return err
		}

		var busy int64
		if err := overlapping(tx, r.RoomID, from, to).Count(&busy).Error; err != nil {
			return err
		}
		if busy > 0 {
			return fmt.Errorf("room %d: %w", r.RoomID, ErrConflict)
		}

		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, dbErr("create reservation", err)
	}

	created := toReservation(row)
	return &created, nil
}

func (s *sqlStore) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	var row model.ReservationRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
		}
		return nil, dbErr("get reservation", err)
	}
	r := toReservation(row)
	return &r, nil
}

func (s *sqlStore) DeleteReservation(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.ReservationRow{}, id)
	if res.Error != nil {
		return dbErr("delete reservation", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *sqlStore) RecentReservations(ctx context.Context, limit int) ([]model.Reservation, error) {
	var rows []model.ReservationRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, dbErr("recent reservations", err)
	}
	return toReservations(rows), nil
}

// overlapping scopes tx to reservations of roomID intersecting [from, to).
func overlapping(tx *gorm.DB, roomID int64, from, to time.Time) *gorm.DB {
	return tx.Model(&model.ReservationRow{}).
		Where("room_id = ? AND start_time < ? AND end_time > ?", roomID, to.UTC(), from.UTC())
}

// dbErr keeps domain sentinels intact and classifies everything else as an
// unavailable store.
func dbErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	if isOverlapViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// isOverlapViolation recognizes a unique or exclusion constraint refusing the row.
func isOverlapViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toReservation(row model.ReservationRow) model.Reservation {
	return model.Reservation{
		ID:           row.ID,
		RoomID:       row.RoomID,
		MeetingTitle: row.MeetingTitle,
		StartTime:    parse.FormatTimestamp(row.StartTime),
		EndTime:      parse.FormatTimestamp(row.EndTime),
		ReservedBy:   row.ReservedBy,
		CreatedAt:    parse.FormatTimestamp(row.CreatedAt),
	}
}

func toReservations(rows []model.ReservationRow) []model.Reservation {
	out := make([]model.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, toReservation(row))
	}
	return out
}
