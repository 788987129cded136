package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func feudContent() Content {
	content := DefaultContent()
	content.FeudQuestions = []FeudQuestion{{
		Question: "Things on a desk",
		Answers:  []FeudAnswer{{"lamp", 25}, {"pen", 10}, {"mug", 5}},
	}}
	return content
}

func startFeud(t *testing.T, content Content) (*TeamRoom, uint64) {
	t.Helper()
	room, err := NewTeamRoom("t1", GameBuzzerTrivia)
	require.NoError(t, err)
	epoch, countdown, err := room.Start(content, testRand(), TeamSettings{BuzzerSeconds: 3})
	require.NoError(t, err)
	require.True(t, countdown)
	return room, epoch
}

func feud(t *testing.T, room *TeamRoom) *FeudData {
	t.Helper()
	data, ok := room.Data.(*FeudData)
	require.True(t, ok, "expected feud data, got %T", room.Data)
	return data
}

func openBuzzer(t *testing.T, room *TeamRoom, epoch uint64) {
	t.Helper()
	for {
		done, err := room.Tick(epoch)
		require.NoError(t, err)
		if done {
			return
		}
	}
}

func TestFeudStartInitialisesRound(t *testing.T) {
	room, _ := startFeud(t, feudContent())
	data := feud(t, room)

	assert.Equal(t, TeamStatusBuzzer, room.Status)
	assert.Equal(t, "Things on a desk", data.Question)
	assert.Len(t, data.Answers, 3)
	assert.Equal(t, TeamGold, data.CurrentTurn)
	assert.Equal(t, 3, data.BuzzerTimer)
	assert.False(t, data.BuzzerActive)
	assert.Equal(t, TeamScores{}, data.Strikes)
}

func TestFeudBuzzerCountdown(t *testing.T) {
	room, epoch := startFeud(t, feudContent())
	data := feud(t, room)

	require.ErrorIs(t, room.Apply("buzz", ActionPayload{Team: "gold"}), ErrBuzzerInactive)

	seen := []int{data.BuzzerTimer}
	for !data.BuzzerActive {
		_, err := room.Tick(epoch)
		require.NoError(t, err)
		seen = append(seen, data.BuzzerTimer)
	}
	assert.Equal(t, []int{3, 2, 1, 0}, seen)

	_, err := room.Tick(epoch)
	assert.NoError(t, err, "ticks keep validating while the room still waits for a buzz")
}

func TestFeudBuzzMovesToPlaying(t *testing.T) {
	room, epoch := startFeud(t, feudContent())
	openBuzzer(t, room, epoch)

	assert.ErrorIs(t, room.Apply("buzz", ActionPayload{Team: "purple"}), ErrInvalidTeam)
	require.NoError(t, room.Apply("buzz", ActionPayload{Team: "black"}))
	data := feud(t, room)
	assert.Equal(t, TeamStatusPlaying, room.Status)
	assert.Equal(t, TeamBlack, data.CurrentTurn)
	assert.False(t, data.BuzzerActive)

	assert.ErrorIs(t, room.Apply("buzz", ActionPayload{Team: "gold"}), ErrInvalidStatus)
	_, err := room.Tick(epoch)
	assert.ErrorIs(t, err, ErrStaleTimer)
}

func TestFeudScenarioAllRevealedBanks(t *testing.T) {
	content := feudContent()
	content.FeudQuestions[0].Answers = []FeudAnswer{{"lamp", 25}, {"pen", 10}}
	room, epoch := startFeud(t, content)
	openBuzzer(t, room, epoch)
	require.NoError(t, room.Apply("buzz", ActionPayload{Team: "gold"}))

	require.NoError(t, room.Apply("guess", ActionPayload{Guess: "lamp"}))
	data := feud(t, room)
	assert.True(t, data.Answers[0].Revealed)
	assert.Equal(t, 25, data.RoundPoints)
	assert.Equal(t, TeamStatusPlaying, room.Status)

	require.NoError(t, room.Apply("guess", ActionPayload{Guess: "pen"}))
	assert.Equal(t, 35, data.Scores.Gold)
	assert.Equal(t, 0, data.RoundPoints)
	assert.Equal(t, TeamStatusResults, room.Status)
}

func TestFeudGuessBeforeBuzzIsDropped(t *testing.T) {
	room, _ := startFeud(t, feudContent())
	assert.ErrorIs(t, room.Apply("guess", ActionPayload{Guess: "lamp"}), ErrInvalidStatus)
	assert.False(t, feud(t, room).Answers[0].Revealed)
}

func TestFeudRepeatedCorrectGuessIsAStrike(t *testing.T) {
	room, epoch := startFeud(t, feudContent())
	openBuzzer(t, room, epoch)
	require.NoError(t, room.Apply("buzz", ActionPayload{Team: "gold"}))
	require.NoError(t, room.Apply("guess", ActionPayload{Guess: "lamp"}))
	require.NoError(t, room.Apply("guess", ActionPayload{Guess: "lamp"}))

	data := feud(t, room)
	assert.Equal(t, 25, data.RoundPoints)
	assert.Equal(t, 1, data.Strikes.Gold)
}

func strikeOut(t *testing.T, room *TeamRoom) {
	t.Helper()
	for i := 0; i < feudMaxStrikes; i++ {
		require.NoError(t, room.Apply("guess", ActionPayload{Guess: "nope"}))
	}
}

func TestFeudThreeStrikesOpenSteal(t *testing.T) {
	room, epoch := startFeud(t, feudContent())
	openBuzzer(t, room, epoch)
	require.NoError(t, room.Apply("buzz", ActionPayload{Team: "gold"}))
	require.NoError(t, room.Apply("guess", ActionPayload{Guess: "lamp"}))
	strikeOut(t, room)

	data := feud(t, room)
	assert.True(t, data.IsStealOpportunity)
	assert.Equal(t, TeamBlack, data.CurrentTurn)
	assert.Equal(t, 0, data.Strikes.Black)
	assert.Equal(t, 3, data.Strikes.Gold)
	assert.Equal(t, TeamStatusPlaying, room.Status)
}

func TestFeudSuccessfulSteal(t *testing.T) {
	room, epoch := startFeud(t, feudContent())
	openBuzzer(t, room, epoch)
	require.NoError(t, room.Apply("buzz", ActionPayload{Team: "gold"}))
	require.NoError(t, room.Apply("guess", ActionPayload{Guess: "lamp"}))
	strikeOut(t, room)

	require.NoError(t, room.Apply("guess", ActionPayload{Guess: "mug"}))
	data := feud(t, room)
	assert.Equal(t, 30, data.Scores.Black)
	assert.Equal(t, 0, data.Scores.Gold)
	assert.Equal(t, TeamStatusResults, room.Status)
}

func TestFeudFailedStealPaysOriginalTeam(t *testing.T) {
	room, epoch := startFeud(t, feudContent())
	openBuzzer(t, room, epoch)
	require.NoError(t, room.Apply("buzz", ActionPayload{Team: "gold"}))
	require.NoError(t, room.Apply("guess", ActionPayload{Guess: "lamp"}))
	strikeOut(t, room)

	require.NoError(t, room.Apply("guess", ActionPayload{Guess: "stapler"}))
	data := feud(t, room)
	assert.Equal(t, 25, data.Scores.Gold)
	assert.Equal(t, 0, data.Scores.Black)
	assert.Equal(t, 1, data.Strikes.Black)
	assert.Equal(t, TeamStatusResults, room.Status)

	assert.ErrorIs(t, room.Apply("guess", ActionPayload{Guess: "pen"}), ErrInvalidStatus)
}

func TestFeudScoresAndLeadersSurviveReset(t *testing.T) {
	room, epoch := startFeud(t, feudContent())
	require.NoError(t, room.Apply("set_leader", ActionPayload{Team: "gold", PlayerID: "p1"}))
	openBuzzer(t, room, epoch)
	require.NoError(t, room.Apply("buzz", ActionPayload{Team: "gold"}))
	for _, guess := range []string{"lamp", "pen", "mug"} {
		require.NoError(t, room.Apply("guess", ActionPayload{Guess: guess}))
	}
	require.Equal(t, 40, feud(t, room).Scores.Gold)

	room.Reset()
	assert.Nil(t, room.Data)
	assert.Equal(t, TeamStatusWaiting, room.Status)
	_, err := room.Tick(epoch)
	assert.ErrorIs(t, err, ErrStaleTimer)

	require.NoError(t, room.Apply("set_leader", ActionPayload{Team: "black", PlayerID: "p2"}))

	_, _, err = room.Start(feudContent(), testRand(), TeamSettings{BuzzerSeconds: 3})
	require.NoError(t, err)
	data := feud(t, room)
	assert.Equal(t, 40, data.Scores.Gold)
	require.NotNil(t, data.Leaders.Gold)
	assert.Equal(t, "p1", *data.Leaders.Gold)
	require.NotNil(t, data.Leaders.Black)
	assert.Equal(t, "p2", *data.Leaders.Black)
	assert.Equal(t, TeamScores{}, data.Strikes)
	assert.False(t, data.Answers[0].Revealed)
}

func TestFeudUnknownAction(t *testing.T) {
	room, _ := startFeud(t, feudContent())
	assert.ErrorIs(t, room.Apply("reveal", ActionPayload{}), ErrUnknownAction)
	assert.ErrorIs(t, room.Apply("set_leader", ActionPayload{Team: "none"}), ErrInvalidTeam)
}
