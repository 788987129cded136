package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTeamRoom(t *testing.T) {
	room, err := NewTeamRoom("t1", "Grid_Reveal")
	require.NoError(t, err)
	assert.Equal(t, GameGridReveal, room.GameType)
	assert.Equal(t, TeamStatusWaiting, room.Status)
	assert.Empty(t, room.Players)

	_, err = NewTeamRoom("t1", "charades")
	assert.ErrorIs(t, err, ErrUnknownGameType)
}

func TestTeamJoin(t *testing.T) {
	room, err := NewTeamRoom("t1", GameBuzzerTrivia)
	require.NoError(t, err)

	player, err := room.Join("c1", "Ana")
	require.NoError(t, err)
	assert.Equal(t, TeamPlayer{ID: "c1", DisplayName: "Ana", Team: TeamNone}, player)

	again, err := room.Join("c1", "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, player, again)
	assert.Len(t, room.Players, 1)

	require.NoError(t, room.SwitchTeam("c1", TeamGold, ""))
	rejoined, err := room.Join("c9", "ana")
	require.NoError(t, err)
	assert.Equal(t, "c9", rejoined.ID)
	assert.Equal(t, TeamGold, rejoined.Team)
	assert.Len(t, room.Players, 1)

	anonymous, err := room.Join("c2", "  ")
	require.NoError(t, err)
	assert.Equal(t, "Player 2", anonymous.DisplayName)

	_, err = room.Join("", "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestTeamSwitch(t *testing.T) {
	room, err := NewTeamRoom("t1", GameGridReveal)
	require.NoError(t, err)
	_, err = room.Join("c1", "Ana")
	require.NoError(t, err)

	require.NoError(t, room.SwitchTeam("c1", TeamBlack, ""))
	player, ok := room.FindPlayer("c1")
	require.True(t, ok)
	assert.Equal(t, TeamBlack, player.Team)

	require.NoError(t, room.SwitchTeam("", TeamGold, "Viewer"))
	viewer, ok := room.FindPlayer("chat_Viewer")
	require.True(t, ok)
	assert.Equal(t, TeamGold, viewer.Team)

	require.NoError(t, room.SwitchTeam("", TeamBlack, "viewer"))
	assert.Len(t, room.Players, 2)
	assert.Equal(t, TeamBlack, room.Players[1].Team)

	assert.ErrorIs(t, room.SwitchTeam("ghost", TeamGold, ""), ErrPlayerNotFound)
}

func TestTeamRoomJSONWithoutData(t *testing.T) {
	room, err := NewTeamRoom("t1", GameCooperativeTimer)
	require.NoError(t, err)

	raw, err := json.Marshal(room)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"t1","players":[],"status":"waiting","gameType":"cooperative_timer","data":{}}`, string(raw))
}

func TestTeamRoomJSONWithFeudData(t *testing.T) {
	room, _ := startFeud(t, feudContent())

	raw, err := json.Marshal(room)
	require.NoError(t, err)
	var decoded struct {
		Status string `json:"status"`
		Data   struct {
			Question    string `json:"question"`
			BuzzerTimer int    `json:"buzzerTimer"`
			Leaders     struct {
				Gold *string `json:"gold"`
			} `json:"leaders"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "buzzer", decoded.Status)
	assert.Equal(t, "Things on a desk", decoded.Data.Question)
	assert.Equal(t, 3, decoded.Data.BuzzerTimer)
	assert.Nil(t, decoded.Data.Leaders.Gold)
}

func TestTeamRestartInvalidatesCountdown(t *testing.T) {
	room, first := startFeud(t, feudContent())
	second, _, err := room.Start(feudContent(), testRand(), TeamSettings{BuzzerSeconds: 3})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	_, err = room.Tick(first)
	assert.ErrorIs(t, err, ErrStaleTimer)
	_, err = room.Tick(second)
	assert.NoError(t, err)
}

func TestTeamTickWithoutCountdown(t *testing.T) {
	room := startGrid(t)
	_, err := room.Tick(room.Epoch())
	assert.ErrorIs(t, err, ErrStaleTimer)
}

func TestCloneTeamRoomIsDeep(t *testing.T) {
	room := startGrid(t)
	require.NoError(t, room.Apply("set_spymaster", ActionPayload{Team: "gold", PlayerID: "p1"}))
	index := 0
	require.NoError(t, room.Apply("vote", ActionPayload{Index: &index, PlayerID: "p1"}))
	_, err := room.Join("c1", "Ana")
	require.NoError(t, err)

	clone := CloneTeamRoom(room)
	require.NoError(t, room.Apply("vote", ActionPayload{Index: &index, PlayerID: "p2"}))
	require.NoError(t, room.SwitchTeam("c1", TeamGold, ""))
	*grid(t, room).Spymasters.Gold = "changed"

	data := grid(t, clone)
	assert.Equal(t, []string{"p1"}, data.Board[0].Votes)
	assert.Equal(t, TeamNone, clone.Players[0].Team)
	assert.Equal(t, "p1", *data.Spymasters.Gold)
	assert.Equal(t, room.Epoch(), clone.Epoch())
}

func TestApplyRejectsMismatchedData(t *testing.T) {
	room, err := NewTeamRoom("t1", GameGridReveal)
	require.NoError(t, err)
	room.Data = &BombData{}
	room.Status = TeamStatusPlaying

	assert.ErrorIs(t, room.Apply("reveal", ActionPayload{}), ErrWrongGameType)
}
