package web

// RoomSummary is one row of the status page and of GET /api/rooms.
type RoomSummary struct {
	Family   string `json:"family"`
	ID       string `json:"id"`
	Status   string `json:"status"`
	GameType string `json:"game_type,omitempty"`
	Players  int    `json:"players"`
	JoinURL  string `json:"join_url"`
}
