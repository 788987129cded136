package game

import (
	"math/rand/v2"
	"strings"
)

const (
	feudMaxStrikes    = 3
	feudDefaultBuzzer = 3
)

type FeudAnswerState struct {
	Text     string `json:"text"`
	Points   int    `json:"points"`
	Revealed bool   `json:"revealed"`
}

type FeudData struct {
	Question           string            `json:"question"`
	Answers            []FeudAnswerState `json:"answers"`
	Strikes            TeamScores        `json:"strikes"`
	Scores             TeamScores        `json:"scores"`
	CurrentTurn        Team              `json:"currentTurn"`
	RoundPoints        int               `json:"roundPoints"`
	IsStealOpportunity bool              `json:"isStealOpportunity"`
	Leaders            TeamSlots         `json:"leaders"`
	BuzzerTimer        int               `json:"buzzerTimer"`
	BuzzerActive       bool              `json:"buzzerActive"`
}

func (d *FeudData) GameType() GameType { return GameBuzzerTrivia }

func (d *FeudData) cloneData() TeamData {
	out := *d
	out.Answers = append([]FeudAnswerState{}, d.Answers...)
	out.Leaders = d.Leaders.clone()
	return &out
}

func newFeudData(content Content, rng *rand.Rand, kept retained, buzzerSeconds int) (*FeudData, error) {
	if len(content.FeudQuestions) == 0 {
		return nil, ErrContentTooSmall
	}
	if buzzerSeconds <= 0 {
		buzzerSeconds = feudDefaultBuzzer
	}
	question := content.FeudQuestions[rng.IntN(len(content.FeudQuestions))]
	answers := make([]FeudAnswerState, 0, len(question.Answers))
	for _, answer := range question.Answers {
		answers = append(answers, FeudAnswerState{Text: answer.Text, Points: answer.Points})
	}
	return &FeudData{
		Question:    question.Question,
		Answers:     answers,
		Scores:      kept.scores,
		CurrentTurn: TeamGold,
		Leaders:     kept.leaders.clone(),
		BuzzerTimer: buzzerSeconds,
	}, nil
}

func (d *FeudData) tick() bool {
	d.BuzzerTimer--
	if d.BuzzerTimer <= 0 {
		d.BuzzerTimer = 0
		d.BuzzerActive = true
		return true
	}
	return false
}

func (d *FeudData) allRevealed() bool {
	for _, answer := range d.Answers {
		if !answer.Revealed {
			return false
		}
	}
	return true
}

func (d *FeudData) bank(team Team) {
	d.Scores.Add(team, d.RoundPoints)
	d.RoundPoints = 0
}

func (r *TeamRoom) applyFeud(action string, payload ActionPayload) error {
	if action == "set_leader" {
		team, ok := PlayingTeam(payload.Team)
		if !ok {
			return ErrInvalidTeam
		}
		if data, ok := r.Data.(*FeudData); ok {
			data.Leaders.Set(team, payload.PlayerID)
		} else {
			r.kept.leaders.Set(team, payload.PlayerID)
		}
		return nil
	}
	data, ok := r.Data.(*FeudData)
	if !ok {
		switch action {
		case "buzz", "guess":
			return ErrInvalidStatus
		default:
			return ErrUnknownAction
		}
	}
	switch action {
	case "buzz":
		return r.feudBuzz(data, payload)
	case "guess":
		return r.feudGuess(data, payload)
	default:
		return ErrUnknownAction
	}
}

func (r *TeamRoom) feudBuzz(data *FeudData, payload ActionPayload) error {
	if r.Status != TeamStatusBuzzer {
		return ErrInvalidStatus
	}
	if !data.BuzzerActive {
		return ErrBuzzerInactive
	}
	team, ok := PlayingTeam(payload.Team)
	if !ok {
		return ErrInvalidTeam
	}
	data.CurrentTurn = team
	data.BuzzerActive = false
	r.Status = TeamStatusPlaying
	return nil
}

// feudGuess reveals the first hidden answer with exactly the guessed text.
// A miss is a strike; the third strike hands a single steal attempt to the
// other team, and the steal decides who banks the round.
func (r *TeamRoom) feudGuess(data *FeudData, payload ActionPayload) error {
	if r.Status != TeamStatusPlaying {
		return ErrInvalidStatus
	}
	guess := strings.TrimSpace(payload.Guess)
	if guess == "" {
		return ErrEmptyAnswer
	}
	turn := data.CurrentTurn
	for i := range data.Answers {
		answer := &data.Answers[i]
		if answer.Revealed || answer.Text != guess {
			continue
		}
		answer.Revealed = true
		data.RoundPoints += answer.Points
		if data.IsStealOpportunity || data.allRevealed() {
			data.bank(turn)
			r.Status = TeamStatusResults
		}
		return nil
	}

	data.Strikes.Add(turn, 1)
	if data.IsStealOpportunity {
		data.bank(turn.Opponent())
		r.Status = TeamStatusResults
		return nil
	}
	if data.Strikes.Get(turn) >= feudMaxStrikes {
		stealer := turn.Opponent()
		data.IsStealOpportunity = true
		data.CurrentTurn = stealer
		data.Strikes.Set(stealer, 0)
	}
	return nil
}
