package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"

	"party-relay/internal/game"
)

// Message is one chat record as delivered by the chat source.
type Message struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Dispatch hands a translated event to the room dispatcher and reports
// whether it was applied.
type Dispatch func(event string, data json.RawMessage) bool

type joinPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type switchPayload struct {
	RoomID string `json:"roomId"`
	Team   string `json:"team"`
	Name   string `json:"name"`
}

// Bridge turns chat trigger phrases into join events. Each record id is
// handled once while it stays in the bounded cache.
type Bridge struct {
	trigger  string
	seen     *lru.Cache
	dispatch Dispatch
}

func New(trigger string, cacheSize int, dispatch Dispatch) (*Bridge, error) {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil, fmt.Errorf("bridge: empty trigger phrase")
	}
	seen, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("bridge cache: %w", err)
	}
	return &Bridge{trigger: trigger, seen: seen, dispatch: dispatch}, nil
}

func (b *Bridge) IsTrigger(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), b.trigger)
}

// Feed processes a batch for one room and returns how many records were new.
// Records without an id cannot be deduplicated and are always processed.
func (b *Bridge) Feed(family game.Family, roomID string, messages []Message) int {
	processed := 0
	for _, msg := range messages {
		if msg.ID != "" {
			if seen, _ := b.seen.ContainsOrAdd(msg.ID, struct{}{}); seen {
				continue
			}
		}
		processed++
		sender := strings.TrimSpace(msg.Sender)
		if sender == "" || !b.IsTrigger(msg.Text) {
			continue
		}
		event, data, err := joinEvent(family, roomID, sender)
		if err != nil {
			log.Warn().Err(err).Str("family", string(family)).Str("room_id", roomID).Msg("bridge event encode failed")
			continue
		}
		applied := b.dispatch(event, data)
		log.Debug().
			Str("family", string(family)).
			Str("room_id", roomID).
			Str("sender", sender).
			Bool("applied", applied).
			Msg("chat trigger")
	}
	return processed
}

func joinEvent(family game.Family, roomID, sender string) (string, json.RawMessage, error) {
	var (
		event   string
		payload any
	)
	switch family {
	case game.FamilyElimination:
		event = "bridge_join"
		payload = joinPayload{RoomID: roomID, Username: sender}
	case game.FamilyTeam:
		event = "switch_team"
		payload = switchPayload{RoomID: roomID, Team: string(game.TeamGold), Name: sender}
	default:
		return "", nil, fmt.Errorf("unknown family %q", family)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", nil, err
	}
	return event, data, nil
}
