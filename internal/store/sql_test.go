package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"meeting-room-backend/internal/model"
)

// newSQLiteStore opens a private in-memory database seeded with rooms.
func newSQLiteStore(t *testing.T, rooms ...model.Room) (Store, *gorm.DB) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	testDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(&model.Room{}, &model.ReservationRow{}))
	for _, r := range rooms {
		require.NoError(t, testDB.Create(&r).Error)
	}
	return NewSQLStore(testDB), testDB
}

func TestSQLStore_FindRooms(t *testing.T) {
	s, _ := newSQLiteStore(t,
		model.Room{ID: 1, RoomNumber: "P101", Capacity: 12, MeetingLevel: "省公司会议（不可兼容总部会议）"},
		model.Room{ID: 2, RoomNumber: "H201", Capacity: 30, MeetingLevel: "总部会议（可兼容省公司会议）", LeaderPriority: model.TextValue("high")},
		model.Room{ID: 3, RoomNumber: "H202", Capacity: 8, MeetingLevel: "总部会议（可兼容省公司会议）"},
	)
	ctx := context.Background()

	rooms, err := s.FindRooms(ctx, RoomQuery{MinCapacity: 10, LevelContains: "可兼容省公司会议"})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "H201", rooms[0].RoomNumber)
	assert.JSONEq(t, `"high"`, string(rooms[0].LeaderPriority))

	rooms, err = s.FindRooms(ctx, RoomQuery{MinCapacity: 10, LevelEquals: "省公司会议（不可兼容总部会议）"})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, int64(1), rooms[0].ID)

	rooms, err = s.FindRooms(ctx, RoomQuery{LevelContains: "100%"})
	require.NoError(t, err)
	assert.Empty(t, rooms, "LIKE wildcards in the marker are matched literally")
}

func TestSQLStore_ReservationLifecycle(t *testing.T) {
	s, _ := newSQLiteStore(t, model.Room{ID: 5, RoomNumber: "A501", Capacity: 10, MeetingLevel: "可兼容省公司会议"})
	ctx := context.Background()

	first, err := s.CreateReservation(ctx, model.Reservation{
		RoomID: 5, MeetingTitle: "Standup", StartTime: "2025-03-14T09:00:00", EndTime: "2025-03-14T10:00:00", ReservedBy: "wang",
	})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "2025-03-14T09:00:00", first.StartTime)
	assert.NotEmpty(t, first.CreatedAt)

	t.Run("overlap is rejected inside the transaction", func(t *testing.T) {
		_, err := s.CreateReservation(ctx, model.Reservation{
			RoomID: 5, MeetingTitle: "Clash", StartTime: "2025-03-14T09:30:00", EndTime: "2025-03-14T10:30:00", ReservedBy: "zhao",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("back-to-back is allowed", func(t *testing.T) {
		next, err := s.CreateReservation(ctx, model.Reservation{
			RoomID: 5, MeetingTitle: "Review", StartTime: "2025-03-14T10:00:00", EndTime: "2025-03-14T11:00:00", ReservedBy: "zhao",
		})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, next.ID)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := s.CreateReservation(ctx, model.Reservation{
			RoomID: 99, MeetingTitle: "Ghost", StartTime: "2025-03-14T09:00:00", EndTime: "2025-03-14T10:00:00", ReservedBy: "x",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("overlap query uses half-open intervals", func(t *testing.T) {
		got, err := s.FindOverlapping(ctx, 5, "2025-03-14T08:00:00", "2025-03-14T09:00:00")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = s.FindOverlapping(ctx, 5, "2025-03-14T09:59:00", "2025-03-14T10:01:00")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("recent reservations newest first", func(t *testing.T) {
		recent, err := s.RecentReservations(ctx, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "Review", recent[0].MeetingTitle)
	})

	t.Run("get and delete", func(t *testing.T) {
		got, err := s.GetReservation(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Standup", got.MeetingTitle)

		require.NoError(t, s.DeleteReservation(ctx, first.ID))
		_, err = s.GetReservation(ctx, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteReservation(ctx, first.ID), ErrNotFound)
	})
}

// newMockPostgres returns a postgres-flavoured gorm DB backed by sqlmock.
func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestSQLStore_CreateReservationPostgres(t *testing.T) {
	reservation := model.Reservation{
		RoomID: 5, MeetingTitle: "Board", StartTime: "2025-03-14T09:00:00", EndTime: "2025-03-14T10:00:00", ReservedBy: "chen",
	}

	testCases := []struct {
		name             string
		mockExpectations func(mock sqlmock.Sqlmock)
		wantErrIs        error
	}{
		{
			name: "Locks the room row and inserts",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "id" FROM "meeting_rooms" WHERE "meeting_rooms"."id" = \$1 .*FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reservations" WHERE room_id = $1 AND start_time < $2 AND end_time > $3`)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reservations"`)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
				mock.ExpectCommit()
			},
		},
		{
			name: "Overlap found under the lock",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "id" FROM "meeting_rooms" .*FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reservations"`)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectRollback()
			},
			wantErrIs: ErrConflict,
		},
		{
			name: "Exclusion constraint rejects the insert",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "id" FROM "meeting_rooms" .*FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reservations"`)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reservations"`)).
					WillReturnError(&pgconn.PgError{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})
				mock.ExpectRollback()
			},
			wantErrIs: ErrConflict,
		},
		{
			name: "Connection failure",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErrIs: ErrUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newMockPostgres(t)
			s := NewSQLStore(gormDB)

			tc.mockExpectations(mock)

			created, err := s.CreateReservation(context.Background(), reservation)
			if tc.wantErrIs != nil {
				assert.ErrorIs(t, err, tc.wantErrIs)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(11), created.ID)
				assert.Equal(t, "2025-03-14T10:00:00", created.EndTime)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
