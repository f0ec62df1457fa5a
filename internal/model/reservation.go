package model

import "time"

// Reservation is a booked slot on one room. Timestamps are kept as the
// strings the store speaks so they round-trip unchanged.
type Reservation struct {
	ID           int64  `json:"id,omitempty"`
	RoomID       int64  `json:"room_id"`
	MeetingTitle string `json:"meeting_title"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ReservedBy   string `json:"reserved_by"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// ReservationRow is the relational shape of the reservations table used by the SQL store.
type ReservationRow struct {
	ID           int64     `gorm:"primaryKey"`
	RoomID       int64     `gorm:"not null;index:idx_reservations_room_span,priority:1"`
	MeetingTitle string    `gorm:"size:256;not null"`
	StartTime    time.Time `gorm:"not null;index:idx_reservations_room_span,priority:2"`
	EndTime      time.Time `gorm:"not null"`
	ReservedBy   string    `gorm:"size:128;not null"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName pins the table name shared with the PostgREST schema.
func (ReservationRow) TableName() string { return "reservations" }
