package server

import (
	"bytes"
	"encoding/json"
	"errors"

	"party-relay/internal/db"
	"party-relay/internal/game"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// journal appends an applied event to the events table. Rows carry the
// room version the event produced; concurrent writers may insert out of
// order, so readers sort by it. Failures are logged and never touch room
// state.
func (s *Server) journal(family game.Family, roomID, gameType, event string, version uint64, client *wsClient, data json.RawMessage) {
	if err := s.persistEvent(family, roomID, gameType, event, version, client, data); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Str("event", event).Msg("journal write failed")
	}
}

func (s *Server) persistEvent(family game.Family, roomID, gameType, event string, version uint64, client *wsClient, data json.RawMessage) error {
	if s.db == nil {
		return nil
	}
	roomDBID, err := s.ensureRoomDBID(family, roomID, gameType)
	if err != nil {
		return err
	}
	payload := bytes.TrimSpace(data)
	if len(payload) == 0 || !json.Valid(payload) {
		payload = []byte("{}")
	}
	record := db.Event{
		RoomID:      roomDBID,
		RoomVersion: version,
		Type:        event,
		Payload:     datatypes.JSON(payload),
	}
	if client != nil {
		id := client.id
		record.ConnectionID = &id
	}
	return s.db.Create(&record).Error
}

func (s *Server) ensureRoomDBID(family game.Family, roomID, gameType string) (uint, error) {
	key := roomKey(family, roomID)
	s.journalMu.Lock()
	id, ok := s.roomDBIDs[key]
	s.journalMu.Unlock()
	if ok {
		return id, nil
	}

	record := db.Room{Family: string(family), Key: roomID, GameType: gameType}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
	if err != nil && !isUniqueViolation(err) {
		return 0, err
	}
	if record.ID == 0 {
		if err := s.db.Where("family = ? AND room_key = ?", record.Family, record.Key).First(&record).Error; err != nil {
			return 0, err
		}
	}
	if record.ID == 0 {
		return 0, errors.New("room not found")
	}

	s.journalMu.Lock()
	s.roomDBIDs[key] = record.ID
	s.journalMu.Unlock()
	return record.ID, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
