package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"party-relay/internal/bridge"
	"party-relay/internal/game"
	"party-relay/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": s.roomSummaries()})
}

func (s *Server) roomSummaries() []web.RoomSummary {
	summaries := []web.RoomSummary{}
	s.elimination.Each(func(id string, room *game.EliminationRoom) {
		summaries = append(summaries, web.RoomSummary{
			Family:  string(game.FamilyElimination),
			ID:      id,
			Status:  string(room.Status),
			Players: len(room.Players),
			JoinURL: web.JoinURL(s.cfg.PublicURL, string(game.FamilyElimination), id),
		})
	})
	s.teams.Each(func(id string, room *game.TeamRoom) {
		summaries = append(summaries, web.RoomSummary{
			Family:   string(game.FamilyTeam),
			ID:       id,
			Status:   string(room.Status),
			GameType: string(room.GameType),
			Players:  len(room.Players),
			JoinURL:  web.JoinURL(s.cfg.PublicURL, string(game.FamilyTeam), id),
		})
	})
	return summaries
}

func (s *Server) handleGetRoom(c *gin.Context) {
	var uri roomURI
	if !bindURI(c, &uri) {
		return
	}
	family, _ := game.ParseFamily(uri.Family)
	switch family {
	case game.FamilyElimination:
		if room, ok := s.elimination.Get(uri.RoomID); ok {
			c.JSON(http.StatusOK, room)
			return
		}
	case game.FamilyTeam:
		if room, ok := s.teams.Get(uri.RoomID); ok {
			c.JSON(http.StatusOK, room)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
}

// handleRoomQR renders the join link whether or not the room exists yet, so
// a host can print it before the first join.
func (s *Server) handleRoomQR(c *gin.Context) {
	var uri roomURI
	if !bindURI(c, &uri) {
		return
	}
	family, _ := game.ParseFamily(uri.Family)
	link := web.JoinURL(s.cfg.PublicURL, string(family), uri.RoomID)
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Str("room_id", uri.RoomID).Msg("qr encode failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// handlePostEvent runs the dispatcher for callers without a websocket, such
// as host consoles and scripts. The caller is not subscribed to the room.
func (s *Server) handlePostEvent(c *gin.Context) {
	var uri eventURI
	if !bindURI(c, &uri) {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed json"})
		return
	}
	accepted := s.dispatch(nil, uri.Event, body)
	c.JSON(http.StatusAccepted, gin.H{"accepted": accepted})
}

func (s *Server) handleBridgeFeed(c *gin.Context) {
	var uri roomURI
	if !bindURI(c, &uri) {
		return
	}
	var messages []bridge.Message
	if !bindJSON(c, &messages, "expected a list of chat messages") {
		return
	}
	family, _ := game.ParseFamily(uri.Family)
	processed := s.bridge.Feed(family, uri.RoomID, messages)
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}
