package db

import "time"

// Room is the journal row for one (family, room id) pair.
type Room struct {
	ID        uint      `gorm:"primaryKey"`
	Family    string    `gorm:"size:16;not null;uniqueIndex:idx_rooms_family_room"`
	Key       string    `gorm:"column:room_key;size:64;not null;uniqueIndex:idx_rooms_family_room"`
	GameType  string    `gorm:"size:32"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Events    []Event
}
