package server

import "encoding/json"

type roomRequest struct {
	RoomID string `json:"roomId" binding:"required,roomid"`
}

type lobbyJoinRequest struct {
	RoomID string `json:"roomId" binding:"required,roomid"`
	Name   string `json:"name" binding:"max=32"`
}

type bridgeJoinRequest struct {
	RoomID   string `json:"roomId" binding:"required,roomid"`
	Username string `json:"username" binding:"required,max=64"`
}

type selectCategoriesRequest struct {
	RoomID     string   `json:"roomId" binding:"required,roomid"`
	Categories []string `json:"categories" binding:"max=20,dive,required,max=64"`
}

type chooseCategoryRequest struct {
	RoomID   string `json:"roomId" binding:"required,roomid"`
	Category string `json:"category" binding:"required,max=64"`
}

type placeBidRequest struct {
	RoomID string `json:"roomId" binding:"required,roomid"`
	Amount *int   `json:"amount" binding:"required"`
}

type submitAnswerRequest struct {
	RoomID string `json:"roomId" binding:"required,roomid"`
	Answer string `json:"answer" binding:"required,max=64"`
}

type decideOutcomeRequest struct {
	RoomID string `json:"roomId" binding:"required,roomid"`
	Passed *bool  `json:"passed" binding:"required"`
}

type teamJoinRequest struct {
	RoomID   string `json:"roomId" binding:"required,roomid"`
	Name     string `json:"name" binding:"max=32"`
	GameType string `json:"gameType" binding:"omitempty,gametype"`
}

type switchTeamRequest struct {
	RoomID   string `json:"roomId" binding:"required,roomid"`
	PlayerID string `json:"playerId" binding:"max=64"`
	Team     string `json:"team" binding:"required,team"`
	Name     string `json:"name" binding:"max=64"`
}

type teamActionRequest struct {
	RoomID  string          `json:"roomId" binding:"required,roomid"`
	Action  string          `json:"action" binding:"required,max=32"`
	Payload json.RawMessage `json:"payload"`
}

type watchRoomRequest struct {
	RoomID string `json:"roomId" binding:"required,roomid"`
	Family string `json:"family" binding:"required,family"`
}
