package db

import (
	"time"

	"gorm.io/datatypes"
)

// Event is one applied room event. RoomVersion is the room state version
// the event produced and orders a room's rows.
type Event struct {
	ID           uint           `gorm:"primaryKey"`
	RoomID       uint           `gorm:"index;index:idx_events_room_version,priority:1;not null"`
	RoomVersion  uint64         `gorm:"index:idx_events_room_version,priority:2;not null;default:0"`
	Type         string         `gorm:"size:64;not null"`
	ConnectionID *string        `gorm:"size:64"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time      `gorm:"not null"`
}
