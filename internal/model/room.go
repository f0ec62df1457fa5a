package model

// Room represents a meeting room as stored in the meeting_rooms table.
// Rooms are managed outside this service.
type Room struct {
	ID             int64   `json:"id" gorm:"primaryKey"`
	RoomNumber     string  `json:"room_number" gorm:"size:64;not null"`
	Capacity       int     `json:"capacity" gorm:"not null;index"`
	MeetingLevel   string  `json:"meeting_level" gorm:"size:128;not null"` // free-text level tag
	LeaderPriority RawJSON `json:"leader_priority" gorm:"size:128"`        // passed through untyped
}

// TableName pins the table name shared with the PostgREST schema.
func (Room) TableName() string { return "meeting_rooms" }

// Capability is a single eligibility flag resolved from a room's level tag.
type Capability uint8

const (
	ExclusiveProvincial Capability = 1 << iota
	CompatibleProvincial
	CompatibleHeadquarters
)

// Capabilities is the set of flags a room tag resolves to.
type Capabilities uint8

// Has reports whether c is in the set.
func (s Capabilities) Has(c Capability) bool {
	return uint8(s)&uint8(c) != 0
}

// With returns the set extended by c.
func (s Capabilities) With(c Capability) Capabilities {
	return Capabilities(uint8(s) | uint8(c))
}
