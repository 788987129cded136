package server

import (
	"sync"
	"time"

	"party-relay/internal/game"

	"github.com/rs/zerolog/log"
)

// countdown is the handle of one running per-room ticker. epoch is the room
// epoch it was started under.
type countdown struct {
	epoch uint64
	stop  chan struct{}
	once  sync.Once
}

func (c *countdown) cancel() {
	c.once.Do(func() { close(c.stop) })
}

// startCountdown replaces the room's running countdown unless that one
// belongs to a newer epoch. tick reports whether the countdown is over.
func (s *Server) startCountdown(key string, epoch uint64, tick func() bool) {
	cd := &countdown{epoch: epoch, stop: make(chan struct{})}
	s.countdownsMu.Lock()
	if existing, ok := s.countdowns[key]; ok {
		if existing.epoch >= epoch {
			s.countdownsMu.Unlock()
			return
		}
		existing.cancel()
	}
	s.countdowns[key] = cd
	s.countdownsMu.Unlock()
	go s.runCountdown(key, cd, tick)
}

// stopCountdown cancels the room's countdown if it was started at or
// before epoch.
func (s *Server) stopCountdown(key string, epoch uint64) {
	s.countdownsMu.Lock()
	defer s.countdownsMu.Unlock()
	if cd, ok := s.countdowns[key]; ok && cd.epoch <= epoch {
		cd.cancel()
		delete(s.countdowns, key)
	}
}

func (s *Server) runCountdown(key string, cd *countdown, tick func() bool) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	defer s.releaseCountdown(key, cd)
	for {
		select {
		case <-cd.stop:
			return
		case <-ticker.C:
			if tick() {
				return
			}
		}
	}
}

func (s *Server) releaseCountdown(key string, cd *countdown) {
	s.countdownsMu.Lock()
	defer s.countdownsMu.Unlock()
	if s.countdowns[key] == cd {
		delete(s.countdowns, key)
	}
	cd.cancel()
}

func (s *Server) hasCountdown(key string) bool {
	s.countdownsMu.Lock()
	defer s.countdownsMu.Unlock()
	_, ok := s.countdowns[key]
	return ok
}

// startNamingCountdown sends timer_tick each second and the full room once
// the naming phase expires into review.
func (s *Server) startNamingCountdown(roomID string, epoch uint64) {
	key := roomKey(game.FamilyElimination, roomID)
	s.startCountdown(key, epoch, func() bool {
		var expired bool
		room, version, err := s.elimination.Update(roomID, func(room *game.EliminationRoom) error {
			var err error
			expired, err = room.TickNaming(epoch)
			return err
		})
		if err != nil {
			log.Debug().Err(err).Str("room_id", roomID).Msg("naming countdown stopped")
			return true
		}
		if !expired {
			s.ws.PublishPartial(key, version, outbound{Event: "timer_tick", Data: room.Timer})
			return false
		}
		log.Info().Str("room_id", roomID).Int("answers", room.CurrentCount).Msg("naming phase expired")
		s.broadcastElimination(roomID)
		s.journal(game.FamilyElimination, roomID, "", "naming_expired", version, nil, nil)
		return true
	})
}

// startTeamCountdown drives the buzzer or bomb timer, broadcasting the room
// on every tick.
func (s *Server) startTeamCountdown(roomID string, epoch uint64) {
	key := roomKey(game.FamilyTeam, roomID)
	s.startCountdown(key, epoch, func() bool {
		var done bool
		room, version, err := s.teams.Update(roomID, func(room *game.TeamRoom) error {
			var err error
			done, err = room.Tick(epoch)
			return err
		})
		if err != nil {
			log.Debug().Err(err).Str("room_id", roomID).Msg("team countdown stopped")
			return true
		}
		s.broadcastTeam(roomID)
		if done {
			log.Info().Str("room_id", roomID).Str("game_type", string(room.GameType)).Msg("team countdown finished")
			s.journal(game.FamilyTeam, roomID, string(room.GameType), "countdown_finished", version, nil, nil)
		}
		return done
	})
}
