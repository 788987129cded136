package game

import "strings"

type Family string

const (
	FamilyElimination Family = "elimination"
	FamilyTeam        Family = "team"
)

func ParseFamily(raw string) (Family, bool) {
	switch Family(strings.ToLower(strings.TrimSpace(raw))) {
	case FamilyElimination:
		return FamilyElimination, true
	case FamilyTeam:
		return FamilyTeam, true
	default:
		return "", false
	}
}

type Team string

const (
	TeamGold  Team = "gold"
	TeamBlack Team = "black"
	TeamNone  Team = "none"
)

// ParseTeam accepts "gold", "black" and "none"; an empty string is none.
func ParseTeam(raw string) (Team, bool) {
	switch Team(strings.ToLower(strings.TrimSpace(raw))) {
	case TeamGold:
		return TeamGold, true
	case TeamBlack:
		return TeamBlack, true
	case TeamNone, "":
		return TeamNone, true
	default:
		return "", false
	}
}

// PlayingTeam is ParseTeam restricted to gold and black.
func PlayingTeam(raw string) (Team, bool) {
	team, ok := ParseTeam(raw)
	if !ok || team == TeamNone {
		return "", false
	}
	return team, true
}

func (t Team) Opponent() Team {
	switch t {
	case TeamGold:
		return TeamBlack
	case TeamBlack:
		return TeamGold
	default:
		return TeamNone
	}
}

type GameType string

const (
	GameBuzzerTrivia     GameType = "buzzer_trivia"
	GameGridReveal       GameType = "grid_reveal"
	GameCooperativeTimer GameType = "cooperative_timer"
)

func ParseGameType(raw string) (GameType, bool) {
	switch GameType(strings.ToLower(strings.TrimSpace(raw))) {
	case GameBuzzerTrivia:
		return GameBuzzerTrivia, true
	case GameGridReveal:
		return GameGridReveal, true
	case GameCooperativeTimer:
		return GameCooperativeTimer, true
	default:
		return "", false
	}
}

// TeamScores is keyed by the two playing teams.
type TeamScores struct {
	Gold  int `json:"gold"`
	Black int `json:"black"`
}

func (s *TeamScores) Get(team Team) int {
	if team == TeamBlack {
		return s.Black
	}
	return s.Gold
}

func (s *TeamScores) Add(team Team, delta int) {
	switch team {
	case TeamGold:
		s.Gold += delta
	case TeamBlack:
		s.Black += delta
	}
}

func (s *TeamScores) Set(team Team, value int) {
	switch team {
	case TeamGold:
		s.Gold = value
	case TeamBlack:
		s.Black = value
	}
}

// TeamSlots holds one player id per playing team, e.g. leaders or spymasters.
type TeamSlots struct {
	Gold  *string `json:"gold"`
	Black *string `json:"black"`
}

func (s *TeamSlots) Set(team Team, playerID string) {
	value := playerID
	switch team {
	case TeamGold:
		s.Gold = &value
	case TeamBlack:
		s.Black = &value
	}
}

func (s TeamSlots) clone() TeamSlots {
	return TeamSlots{Gold: cloneString(s.Gold), Black: cloneString(s.Black)}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func stringPtr(value string) *string {
	return &value
}
