package server

import (
	"party-relay/internal/game"
	"party-relay/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleHome(c *gin.Context) {
	templ.Handler(web.Home(s.roomSummaries())).ServeHTTP(c.Writer, c.Request)
}

func (s *Server) handlePlayView(c *gin.Context) {
	var uri roomURI
	if !bindURI(c, &uri) {
		return
	}
	family, _ := game.ParseFamily(uri.Family)
	templ.Handler(web.Play(string(family), uri.RoomID)).ServeHTTP(c.Writer, c.Request)
}
