package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"party-relay/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 64 * 1024
)

// envelope is the {"event", "data"} frame used in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type wsClient struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// wsHub groups connections by room key. A connection may watch any number
// of rooms.
type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*wsClient]struct{}
	subs   map[*wsClient]map[string]struct{}
	order  map[string]*roomOrder
}

// roomOrder serializes fan-out for one room key. last is the newest room
// version sent to the group, full the newest one sent as a whole room.
type roomOrder struct {
	mu   sync.Mutex
	last uint64
	full uint64
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*wsClient]struct{}),
		subs:   make(map[*wsClient]map[string]struct{}),
		order:  make(map[string]*roomOrder),
	}
}

func (h *wsHub) sequencer(key string) *roomOrder {
	h.mu.Lock()
	defer h.mu.Unlock()
	seq := h.order[key]
	if seq == nil {
		seq = &roomOrder{}
		h.order[key] = seq
	}
	return seq
}

// snapshotFunc reads a room's current state and version. ok is false once
// the room is gone.
type snapshotFunc func() (version uint64, payload any, ok bool)

// PublishState broadcasts the room state read by snapshot. The read happens
// under the key's lock, so concurrent publishers deliver states in version
// order and the last frame a subscriber sees is the newest state.
func (h *wsHub) PublishState(key string, snapshot snapshotFunc) bool {
	seq := h.sequencer(key)
	seq.mu.Lock()
	defer seq.mu.Unlock()
	version, payload, ok := snapshot()
	if !ok {
		return false
	}
	if version <= seq.full {
		log.Debug().Str("room", key).Uint64("version", version).Msg("room state already sent")
		return false
	}
	seq.full = version
	seq.last = max(seq.last, version)
	h.Broadcast(key, payload)
	return true
}

// PublishPartial broadcasts a payload carrying part of the room at the given
// version. It is dropped when a newer version already went out.
func (h *wsHub) PublishPartial(key string, version uint64, payload any) bool {
	seq := h.sequencer(key)
	seq.mu.Lock()
	defer seq.mu.Unlock()
	if version <= seq.last {
		log.Debug().Str("room", key).Uint64("version", version).Uint64("last", seq.last).Msg("stale update dropped")
		return false
	}
	seq.last = version
	h.Broadcast(key, payload)
	return true
}

// SendState sends one client the room state read by snapshot, ordered
// against the key's broadcasts.
func (h *wsHub) SendState(client *wsClient, key string, snapshot snapshotFunc) {
	seq := h.sequencer(key)
	seq.mu.Lock()
	defer seq.mu.Unlock()
	if _, payload, ok := snapshot(); ok {
		h.Send(client, payload)
	}
}

func roomKey(family game.Family, roomID string) string {
	return string(family) + ":" + roomID
}

func (h *wsHub) Subscribe(key string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[key]
	if group == nil {
		group = make(map[*wsClient]struct{})
		h.groups[key] = group
	}
	group[client] = struct{}{}
	keys := h.subs[client]
	if keys == nil {
		keys = make(map[string]struct{})
		h.subs[client] = keys
	}
	keys[key] = struct{}{}
}

// Remove drops the client from every group and closes it.
func (h *wsHub) Remove(client *wsClient) {
	h.mu.Lock()
	for key := range h.subs[client] {
		group := h.groups[key]
		delete(group, client)
		if len(group) == 0 {
			delete(h.groups, key)
		}
	}
	delete(h.subs, client)
	h.mu.Unlock()
	_ = client.conn.Close()
}

func (h *wsHub) Count(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.groups[key])
}

func (h *wsHub) Send(client *wsClient, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("ws encode failed")
		return
	}
	if err := client.write(data); err != nil {
		h.Remove(client)
	}
}

func (h *wsHub) Broadcast(key string, payload any) {
	h.mu.Lock()
	group := h.groups[key]
	clients := make([]*wsClient, 0, len(group))
	for client := range group {
		clients = append(clients, client)
	}
	h.mu.Unlock()
	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("room", key).Msg("ws encode failed")
		return
	}
	for _, client := range clients {
		if err := client.write(data); err != nil {
			log.Debug().Err(err).Str("conn_id", client.id).Msg("ws write failed")
			h.Remove(client)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{id: uuid.NewString(), conn: conn}
	log.Info().Str("conn_id", client.id).Str("remote", c.Request.RemoteAddr).Msg("ws connected")
	s.ws.Send(client, outbound{Event: "welcome", Data: gin.H{"connectionId": client.id}})
	go s.readWS(client)
}

func (s *Server) readWS(client *wsClient) {
	defer s.ws.Remove(client)
	client.conn.SetReadLimit(maxMessageSize)
	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			log.Info().Str("conn_id", client.id).Err(err).Msg("ws disconnected")
			return
		}
		var msg envelope
		if err := json.Unmarshal(payload, &msg); err != nil || msg.Event == "" {
			log.Debug().Str("conn_id", client.id).Msg("ws frame ignored")
			continue
		}
		s.dispatch(client, msg.Event, msg.Data)
	}
}

func (s *Server) eliminationSnapshot(roomID string) snapshotFunc {
	return func() (uint64, any, bool) {
		room, version, ok := s.elimination.GetVersion(roomID)
		return version, outbound{Event: "elimination_state", Data: room}, ok
	}
}

func (s *Server) teamSnapshot(roomID string) snapshotFunc {
	return func() (uint64, any, bool) {
		room, version, ok := s.teams.GetVersion(roomID)
		return version, outbound{Event: "team_state", Data: room}, ok
	}
}

// broadcastElimination sends subscribers the room as it is now, which
// includes every mutation up to the caller's.
func (s *Server) broadcastElimination(roomID string) {
	s.ws.PublishState(roomKey(game.FamilyElimination, roomID), s.eliminationSnapshot(roomID))
}

func (s *Server) broadcastTeam(roomID string) {
	s.ws.PublishState(roomKey(game.FamilyTeam, roomID), s.teamSnapshot(roomID))
}
