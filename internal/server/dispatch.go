package server

import (
	"bytes"
	"encoding/json"

	"party-relay/internal/game"

	"github.com/rs/zerolog/log"
)

type eventHandler func(s *Server, client *wsClient, data json.RawMessage) error

var eventHandlers map[string]eventHandler

func init() {
	eventHandlers = map[string]eventHandler{
		"lobby_join":        (*Server).handleLobbyJoin,
		"bridge_join":       (*Server).handleBridgeJoin,
		"start_match":       (*Server).handleStartMatch,
		"select_categories": (*Server).handleSelectCategories,
		"choose_category":   (*Server).handleChooseCategory,
		"place_bid":         (*Server).handlePlaceBid,
		"challenge":         (*Server).handleChallenge,
		"submit_answer":     (*Server).handleSubmitAnswer,
		"decide_outcome":    (*Server).handleDecideOutcome,
		"advance_round":     (*Server).handleAdvanceRound,
		"reset_elimination": (*Server).handleResetElimination,
		"team_join":         (*Server).handleTeamJoin,
		"switch_team":       (*Server).handleSwitchTeam,
		"start_team_game":   (*Server).handleStartTeamGame,
		"reset_team_game":   (*Server).handleResetTeamGame,
		"team_action":       (*Server).handleTeamAction,
		"watch_room":        (*Server).handleWatchRoom,
	}
}

// dispatch applies one inbound event. Rejected events are dropped without
// telling the sender; the return value only serves the HTTP surface.
func (s *Server) dispatch(client *wsClient, event string, data json.RawMessage) bool {
	handler, ok := eventHandlers[event]
	if !ok {
		log.Debug().Str("event", event).Msg("unknown event dropped")
		return false
	}
	if err := handler(s, client, data); err != nil {
		var target struct {
			RoomID string `json:"roomId"`
		}
		_ = json.Unmarshal(data, &target)
		log.Debug().Err(err).Str("event", event).Str("room_id", target.RoomID).Msg("event dropped")
		return false
	}
	return true
}

func (s *Server) dispatchBridge(event string, data json.RawMessage) bool {
	return s.dispatch(nil, event, data)
}

func decode(data json.RawMessage, req any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(data, req); err != nil {
		return err
	}
	return validatePayload(req)
}

func connectionID(client *wsClient) string {
	if client == nil {
		return ""
	}
	return client.id
}

func (s *Server) subscribe(client *wsClient, family game.Family, roomID string) {
	if client == nil {
		return
	}
	s.ws.Subscribe(roomKey(family, roomID), client)
}

// updateElimination runs fn on an existing room, then broadcasts and
// journals the result.
func (s *Server) updateElimination(client *wsClient, event string, data json.RawMessage, roomID string, fn func(room *game.EliminationRoom) error) (*game.EliminationRoom, error) {
	room, version, err := s.elimination.Update(roomID, fn)
	if err != nil {
		return nil, err
	}
	s.broadcastElimination(room.ID)
	s.journal(game.FamilyElimination, room.ID, "", event, version, client, data)
	return room, nil
}

func (s *Server) updateTeam(client *wsClient, event string, data json.RawMessage, roomID string, fn func(room *game.TeamRoom) error) (*game.TeamRoom, error) {
	room, version, err := s.teams.Update(roomID, fn)
	if err != nil {
		return nil, err
	}
	s.broadcastTeam(room.ID)
	s.journal(game.FamilyTeam, room.ID, string(room.GameType), event, version, client, data)
	return room, nil
}

func (s *Server) handleLobbyJoin(client *wsClient, data json.RawMessage) error {
	var req lobbyJoinRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	room, version, created, err := s.elimination.Upsert(req.RoomID,
		func() (*game.EliminationRoom, error) {
			return game.NewEliminationRoom(req.RoomID, s.cfg.NamingSeconds), nil
		},
		func(room *game.EliminationRoom) error {
			_, err := room.JoinLobby(connectionID(client), req.Name)
			return err
		})
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("room_id", room.ID).Str("family", string(game.FamilyElimination)).Msg("room created")
	}
	s.subscribe(client, game.FamilyElimination, room.ID)
	s.broadcastElimination(room.ID)
	s.journal(game.FamilyElimination, room.ID, "", "lobby_join", version, client, data)
	return nil
}

func (s *Server) handleBridgeJoin(client *wsClient, data json.RawMessage) error {
	var req bridgeJoinRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	_, err := s.updateElimination(client, "bridge_join", data, req.RoomID, func(room *game.EliminationRoom) error {
		_, err := room.JoinByName(req.Username)
		return err
	})
	return err
}

func (s *Server) handleStartMatch(client *wsClient, data json.RawMessage) error {
	var req roomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	_, err := s.updateElimination(client, "start_match", data, req.RoomID, func(room *game.EliminationRoom) error {
		return room.Start()
	})
	return err
}

func (s *Server) handleSelectCategories(client *wsClient, data json.RawMessage) error {
	var req selectCategoriesRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	categories := req.Categories
	if len(categories) == 0 {
		categories = s.content.SampleCategories(s.rng, s.cfg.CategorySampleSize)
	}
	_, err := s.updateElimination(client, "select_categories", data, req.RoomID, func(room *game.EliminationRoom) error {
		return room.SelectCategories(categories)
	})
	return err
}

func (s *Server) handleChooseCategory(client *wsClient, data json.RawMessage) error {
	var req chooseCategoryRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	_, err := s.updateElimination(client, "choose_category", data, req.RoomID, func(room *game.EliminationRoom) error {
		return room.ChooseCategory(req.Category)
	})
	return err
}

func (s *Server) handlePlaceBid(client *wsClient, data json.RawMessage) error {
	var req placeBidRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	_, err := s.updateElimination(client, "place_bid", data, req.RoomID, func(room *game.EliminationRoom) error {
		return room.PlaceBid(*req.Amount, s.cfg.StrictBids)
	})
	return err
}

func (s *Server) handleChallenge(client *wsClient, data json.RawMessage) error {
	var req roomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	var epoch uint64
	room, err := s.updateElimination(client, "challenge", data, req.RoomID, func(room *game.EliminationRoom) error {
		var err error
		epoch, err = room.Challenge(s.cfg.NamingSeconds)
		return err
	})
	if err != nil {
		return err
	}
	s.startNamingCountdown(room.ID, epoch)
	return nil
}

func (s *Server) handleSubmitAnswer(client *wsClient, data json.RawMessage) error {
	var req submitAnswerRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	_, err := s.updateElimination(client, "submit_answer", data, req.RoomID, func(room *game.EliminationRoom) error {
		return room.SubmitAnswer(req.Answer)
	})
	return err
}

func (s *Server) handleDecideOutcome(client *wsClient, data json.RawMessage) error {
	var req decideOutcomeRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	_, err := s.updateElimination(client, "decide_outcome", data, req.RoomID, func(room *game.EliminationRoom) error {
		return room.Decide(*req.Passed)
	})
	return err
}

func (s *Server) handleAdvanceRound(client *wsClient, data json.RawMessage) error {
	var req roomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	_, err := s.updateElimination(client, "advance_round", data, req.RoomID, func(room *game.EliminationRoom) error {
		return room.AdvanceRound()
	})
	return err
}

func (s *Server) handleResetElimination(client *wsClient, data json.RawMessage) error {
	var req roomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	room, err := s.updateElimination(client, "reset_elimination", data, req.RoomID, func(room *game.EliminationRoom) error {
		room.Reset(s.cfg.NamingSeconds)
		return nil
	})
	if err != nil {
		return err
	}
	s.stopCountdown(roomKey(game.FamilyElimination, room.ID), room.Epoch())
	return nil
}

func (s *Server) handleTeamJoin(client *wsClient, data json.RawMessage) error {
	var req teamJoinRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	room, version, created, err := s.teams.Upsert(req.RoomID,
		func() (*game.TeamRoom, error) {
			return game.NewTeamRoom(req.RoomID, game.GameType(req.GameType))
		},
		func(room *game.TeamRoom) error {
			_, err := room.Join(connectionID(client), req.Name)
			return err
		})
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("room_id", room.ID).Str("game_type", string(room.GameType)).Msg("room created")
	}
	s.subscribe(client, game.FamilyTeam, room.ID)
	s.broadcastTeam(room.ID)
	s.journal(game.FamilyTeam, room.ID, string(room.GameType), "team_join", version, client, data)
	return nil
}

func (s *Server) handleSwitchTeam(client *wsClient, data json.RawMessage) error {
	var req switchTeamRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	team, _ := game.ParseTeam(req.Team)
	_, err := s.updateTeam(client, "switch_team", data, req.RoomID, func(room *game.TeamRoom) error {
		return room.SwitchTeam(req.PlayerID, team, req.Name)
	})
	return err
}

func (s *Server) handleStartTeamGame(client *wsClient, data json.RawMessage) error {
	var req roomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	var (
		epoch     uint64
		countdown bool
	)
	settings := game.TeamSettings{BuzzerSeconds: s.cfg.BuzzerSeconds, BombSeconds: s.cfg.BombSeconds}
	room, err := s.updateTeam(client, "start_team_game", data, req.RoomID, func(room *game.TeamRoom) error {
		var err error
		epoch, countdown, err = room.Start(s.content, s.rng, settings)
		return err
	})
	if err != nil {
		return err
	}
	if countdown {
		s.startTeamCountdown(room.ID, epoch)
	} else {
		s.stopCountdown(roomKey(game.FamilyTeam, room.ID), room.Epoch())
	}
	return nil
}

func (s *Server) handleResetTeamGame(client *wsClient, data json.RawMessage) error {
	var req roomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	room, err := s.updateTeam(client, "reset_team_game", data, req.RoomID, func(room *game.TeamRoom) error {
		room.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	s.stopCountdown(roomKey(game.FamilyTeam, room.ID), room.Epoch())
	return nil
}

func (s *Server) handleTeamAction(client *wsClient, data json.RawMessage) error {
	var req teamActionRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	var payload game.ActionPayload
	if trimmed := bytes.TrimSpace(req.Payload); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return err
		}
	}
	room, err := s.updateTeam(client, "team_action", data, req.RoomID, func(room *game.TeamRoom) error {
		return room.Apply(req.Action, payload)
	})
	if err != nil {
		return err
	}
	if room.Status == game.TeamStatusResults {
		s.stopCountdown(roomKey(game.FamilyTeam, room.ID), room.Epoch())
	}
	return nil
}

// handleWatchRoom subscribes a dashboard without adding it to the roster.
// The current state, if the room exists, is sent to the watcher only.
func (s *Server) handleWatchRoom(client *wsClient, data json.RawMessage) error {
	var req watchRoomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	if client == nil {
		return errNoConnection
	}
	family, _ := game.ParseFamily(req.Family)
	s.subscribe(client, family, req.RoomID)
	key := roomKey(family, req.RoomID)
	switch family {
	case game.FamilyElimination:
		s.ws.SendState(client, key, s.eliminationSnapshot(req.RoomID))
	case game.FamilyTeam:
		s.ws.SendState(client, key, s.teamSnapshot(req.RoomID))
	}
	return nil
}
