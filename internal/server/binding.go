package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type roomURI struct {
	Family string `uri:"family" binding:"required,family"`
	RoomID string `uri:"roomId" binding:"required,roomid"`
}

type eventURI struct {
	Event string `uri:"event" binding:"required,max=32"`
}

// bindJSON answers 400 with message when the body does not bind.
func bindJSON(c *gin.Context, req any, message string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return false
	}
	return true
}

func bindURI(c *gin.Context, req any) bool {
	if err := c.ShouldBindUri(req); err != nil {
		c.Status(http.StatusNotFound)
		return false
	}
	return true
}
