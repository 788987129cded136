package server

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"party-relay/internal/config"
	"party-relay/internal/game"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// newRelay starts a database-less server with fast countdowns.
func newRelay(t *testing.T, tune func(cfg *config.Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	cfg.TickInterval = 10 * time.Millisecond
	if tune != nil {
		tune(&cfg)
	}
	srv, err := New(nil, cfg)
	require.NoError(t, err)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// postEvent sends an event through the HTTP dispatcher and reports whether
// it was applied.
func postEvent(t *testing.T, ts *httptest.Server, event string, data any) bool {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/events/"+event, data)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	accepted, ok := decodeBody(t, resp)["accepted"].(bool)
	require.True(t, ok)
	return accepted
}

// dialWS connects to /ws and consumes the welcome frame.
func dialWS(t *testing.T, ts *httptest.Server) (*websocket.Conn, string) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	frame := readEvent(t, conn, "welcome", nil)
	var welcome struct {
		ConnectionID string `json:"connectionId"`
	}
	require.NoError(t, json.Unmarshal(frame, &welcome))
	require.NotEmpty(t, welcome.ConnectionID)
	return conn, welcome.ConnectionID
}

func sendWS(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	frame, err := json.Marshal(envelope{Event: event, Data: payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

// readEvent skips frames until one named event satisfies match.
func readEvent(t *testing.T, conn *websocket.Conn, event string, match func(data json.RawMessage) bool) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", event)
		var msg envelope
		require.NoError(t, json.Unmarshal(payload, &msg))
		if msg.Event != event {
			continue
		}
		if match == nil || match(msg.Data) {
			return msg.Data
		}
	}
}

func readElimination(t *testing.T, conn *websocket.Conn, match func(room game.EliminationRoom) bool) game.EliminationRoom {
	t.Helper()
	var room game.EliminationRoom
	readEvent(t, conn, "elimination_state", func(data json.RawMessage) bool {
		room = game.EliminationRoom{}
		require.NoError(t, json.Unmarshal(data, &room))
		return match == nil || match(room)
	})
	return room
}

// teamView is the wire shape of a team room; data stays raw because its
// shape depends on the game type.
type teamView struct {
	ID       string            `json:"id"`
	Status   game.TeamStatus   `json:"status"`
	GameType game.GameType     `json:"gameType"`
	Players  []game.TeamPlayer `json:"players"`
	Data     json.RawMessage   `json:"data"`
}

func readTeam(t *testing.T, conn *websocket.Conn, match func(room teamView) bool) teamView {
	t.Helper()
	var room teamView
	readEvent(t, conn, "team_state", func(data json.RawMessage) bool {
		room = teamView{}
		require.NoError(t, json.Unmarshal(data, &room))
		return match == nil || match(room)
	})
	return room
}
