package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"party-relay/internal/bridge"
	"party-relay/internal/config"
	"party-relay/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	_, ts := newRelay(t, nil)

	resp := doRequest(t, ts, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestNewRejectsEmptyTrigger(t *testing.T) {
	cfg := config.Default()
	cfg.TriggerPhrase = " "
	_, err := New(nil, cfg)
	assert.Error(t, err)
}

func TestHomeListsRooms(t *testing.T) {
	_, ts := newRelay(t, nil)

	resp := doRequest(t, ts, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "No active rooms.")

	require.True(t, postEvent(t, ts, "lobby_join", map[string]any{"roomId": "quiz-night", "name": "Ana"}))
	resp = doRequest(t, ts, http.MethodGet, "/", nil)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "quiz-night")
}

func TestPlayView(t *testing.T) {
	_, ts := newRelay(t, nil)

	resp := doRequest(t, ts, http.MethodGet, "/play/team/den", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodGet, "/play/poker/den", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListRoomsCoversBothFamilies(t *testing.T) {
	_, ts := newRelay(t, func(cfg *config.Config) { cfg.PublicURL = "https://party.example/" })

	require.True(t, postEvent(t, ts, "lobby_join", map[string]any{"roomId": "r1", "name": "Ana"}))
	require.True(t, postEvent(t, ts, "team_join", map[string]any{"roomId": "t1", "name": "Bo", "gameType": "grid_reveal"}))

	resp := doRequest(t, ts, http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rooms, ok := decodeBody(t, resp)["rooms"].([]any)
	require.True(t, ok)
	require.Len(t, rooms, 2)

	first := rooms[0].(map[string]any)
	assert.Equal(t, "elimination", first["family"])
	assert.Equal(t, "waiting", first["status"])
	assert.Equal(t, "https://party.example/play/elimination/r1", first["join_url"])

	second := rooms[1].(map[string]any)
	assert.Equal(t, "team", second["family"])
	assert.Equal(t, "grid_reveal", second["game_type"])
	assert.EqualValues(t, 1, second["players"])
}

func TestGetRoom(t *testing.T) {
	_, ts := newRelay(t, nil)

	resp := doRequest(t, ts, http.MethodGet, "/api/rooms/elimination/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.True(t, postEvent(t, ts, "team_join", map[string]any{"roomId": "t1", "name": "Bo", "gameType": "buzzer_trivia"}))
	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/team/t1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "buzzer_trivia", body["gameType"])
	assert.Equal(t, map[string]any{}, body["data"])

	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/elimination/bad%20id", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoomQRIsPNG(t *testing.T) {
	_, ts := newRelay(t, nil)

	resp := doRequest(t, ts, http.MethodGet, "/api/rooms/team/t1/qr.png", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
}

func TestPostEventRejectsMalformedJSON(t *testing.T) {
	_, ts := newRelay(t, nil)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/events/lobby_join", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostEventReportsDroppedEvents(t *testing.T) {
	_, ts := newRelay(t, nil)

	assert.False(t, postEvent(t, ts, "no_such_event", map[string]any{"roomId": "r1"}))
	assert.False(t, postEvent(t, ts, "start_match", map[string]any{"roomId": "missing"}))
	assert.False(t, postEvent(t, ts, "lobby_join", map[string]any{"roomId": "has space", "name": "Ana"}))
	assert.False(t, postEvent(t, ts, "watch_room", map[string]any{"roomId": "r1", "family": "team"}))
}

func TestEliminationMatchOverHTTP(t *testing.T) {
	srv, ts := newRelay(t, func(cfg *config.Config) { cfg.NamingSeconds = 1000 })

	room := map[string]any{"roomId": "r1"}
	require.True(t, postEvent(t, ts, "lobby_join", map[string]any{"roomId": "r1", "name": "Ana"}))
	require.True(t, postEvent(t, ts, "lobby_join", map[string]any{"roomId": "r1", "name": "Ben"}))
	require.True(t, postEvent(t, ts, "start_match", room))
	require.True(t, postEvent(t, ts, "select_categories", map[string]any{"roomId": "r1"}))

	snapshot, ok := srv.elimination.Get("r1")
	require.True(t, ok)
	require.Len(t, snapshot.Categories, 3)

	require.True(t, postEvent(t, ts, "choose_category", map[string]any{"roomId": "r1", "category": snapshot.Categories[0]}))
	require.True(t, postEvent(t, ts, "place_bid", map[string]any{"roomId": "r1", "amount": 2}))
	assert.False(t, postEvent(t, ts, "place_bid", map[string]any{"roomId": "r1"}))
	require.True(t, postEvent(t, ts, "challenge", room))
	require.True(t, srv.hasCountdown(roomKey(game.FamilyElimination, "r1")))

	require.True(t, postEvent(t, ts, "submit_answer", map[string]any{"roomId": "r1", "answer": "apple"}))
	assert.False(t, postEvent(t, ts, "submit_answer", map[string]any{"roomId": "r1", "answer": "Apple "}))
	assert.False(t, postEvent(t, ts, "decide_outcome", map[string]any{"roomId": "r1", "passed": true}))

	snapshot, _ = srv.elimination.Get("r1")
	assert.Equal(t, game.StatusNaming, snapshot.Status)
	assert.Equal(t, 1, snapshot.CurrentCount)
	assert.Equal(t, []string{"apple"}, snapshot.Answers)
}

func TestBridgeFeedJoinsChatParticipants(t *testing.T) {
	srv, ts := newRelay(t, nil)

	require.True(t, postEvent(t, ts, "lobby_join", map[string]any{"roomId": "r1", "name": "Host"}))
	messages := []bridge.Message{
		{ID: "1", Sender: "viewer1", Text: "!join"},
		{ID: "1", Sender: "viewer1", Text: "!join"},
		{ID: "2", Sender: "viewer2", Text: "hello"},
		{ID: "3", Sender: "viewer3", Text: " !JOIN "},
	}
	resp := doRequest(t, ts, http.MethodPost, "/api/bridge/elimination/r1", messages)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, decodeBody(t, resp)["processed"])

	room, ok := srv.elimination.Get("r1")
	require.True(t, ok)
	require.Len(t, room.Players, 3)
	assert.Equal(t, "chat_viewer1", room.Players[1].ID)
	assert.Equal(t, "chat_viewer3", room.Players[2].ID)
}

func TestBridgeFeedTeamJoinsGold(t *testing.T) {
	srv, ts := newRelay(t, nil)

	require.True(t, postEvent(t, ts, "team_join", map[string]any{"roomId": "t1", "name": "Host", "gameType": "cooperative_timer"}))
	resp := doRequest(t, ts, http.MethodPost, "/api/bridge/team/t1", []bridge.Message{{Sender: "viewer", Text: "!join"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	room, ok := srv.teams.Get("t1")
	require.True(t, ok)
	require.Len(t, room.Players, 2)
	assert.Equal(t, "viewer", room.Players[1].DisplayName)
	assert.Equal(t, game.TeamGold, room.Players[1].Team)
}

func TestBridgeFeedRejectsBadBody(t *testing.T) {
	_, ts := newRelay(t, nil)

	resp := doRequest(t, ts, http.MethodPost, "/api/bridge/elimination/r1", map[string]any{"sender": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "expected a list of chat messages", decodeBody(t, resp)["error"])

	resp = doRequest(t, ts, http.MethodPost, "/api/bridge/poker/r1", []bridge.Message{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIsRoomID(t *testing.T) {
	assert.True(t, isRoomID("quiz-night_2.0"))
	assert.False(t, isRoomID(""))
	assert.False(t, isRoomID("a b"))
	assert.False(t, isRoomID("a:b"))
	assert.False(t, isRoomID(strings.Repeat("x", maxRoomIDLength+1)))
}

func TestValidatorTags(t *testing.T) {
	registerValidators()

	assert.NoError(t, validatePayload(&switchTeamRequest{RoomID: "t1", Team: "black"}))
	assert.Error(t, validatePayload(&switchTeamRequest{RoomID: "t1", Team: "purple"}))
	assert.NoError(t, validatePayload(&teamJoinRequest{RoomID: "t1"}))
	assert.Error(t, validatePayload(&teamJoinRequest{RoomID: "t1", GameType: "poker"}))
	assert.Error(t, validatePayload(&watchRoomRequest{RoomID: "t1", Family: "poker"}))
}

func TestJournalWithoutDatabaseIsNoop(t *testing.T) {
	srv, _ := newRelay(t, nil)
	assert.NoError(t, srv.persistEvent(game.FamilyTeam, "t1", "grid_reveal", "team_join", 1, nil, nil))
}
