package server

import (
	"strings"
	"sync"

	"party-relay/internal/game"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxRoomIDLength = 64

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("roomid", func(fl validator.FieldLevel) bool {
			return isRoomID(fl.Field().String())
		})
		_ = engine.RegisterValidation("team", func(fl validator.FieldLevel) bool {
			_, ok := game.ParseTeam(fl.Field().String())
			return ok
		})
		_ = engine.RegisterValidation("gametype", func(fl validator.FieldLevel) bool {
			_, ok := game.ParseGameType(fl.Field().String())
			return ok
		})
		_ = engine.RegisterValidation("family", func(fl validator.FieldLevel) bool {
			_, ok := game.ParseFamily(fl.Field().String())
			return ok
		})
	})
}

// isRoomID accepts ids that are safe in URLs, hub keys and chat subjects.
func isRoomID(id string) bool {
	if id == "" || len(id) > maxRoomIDLength || strings.TrimSpace(id) != id {
		return false
	}
	for _, r := range id {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}

func validatePayload(req any) error {
	return binding.Validator.ValidateStruct(req)
}
