package game

import (
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"strings"
)

type TeamStatus string

const (
	TeamStatusWaiting TeamStatus = "waiting"
	TeamStatusBuzzer  TeamStatus = "buzzer"
	TeamStatusPlaying TeamStatus = "playing"
	TeamStatusResults TeamStatus = "results"
)

type TeamPlayer struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Team        Team   `json:"team"`
}

// TeamData is the per-game payload of a team room. Exactly one variant
// exists per GameType: *FeudData, *GridData or *BombData.
type TeamData interface {
	GameType() GameType
	cloneData() TeamData
}

// TeamSettings carries the countdown lengths used when a game starts.
type TeamSettings struct {
	BuzzerSeconds int
	BombSeconds   int
}

// ActionPayload is the union of every team_action payload field.
type ActionPayload struct {
	Team     string  `json:"team"`
	PlayerID string  `json:"playerId"`
	Guess    string  `json:"guess"`
	Word     string  `json:"word"`
	Count    int     `json:"count"`
	Index    *int    `json:"index"`
	TaskID   int     `json:"taskId"`
	Answer   *string `json:"answer"`
}

// retained survives reset so the next start keeps the match standing.
type retained struct {
	scores     TeamScores
	leaders    TeamSlots
	spymasters TeamSlots
}

type TeamRoom struct {
	ID       string       `json:"id"`
	Players  []TeamPlayer `json:"players"`
	Status   TeamStatus   `json:"status"`
	GameType GameType     `json:"gameType"`
	Data     TeamData     `json:"data"`

	kept  retained
	epoch uint64
}

func NewTeamRoom(id string, gameType GameType) (*TeamRoom, error) {
	parsed, ok := ParseGameType(string(gameType))
	if !ok {
		return nil, ErrUnknownGameType
	}
	return &TeamRoom{
		ID:       id,
		Players:  []TeamPlayer{},
		Status:   TeamStatusWaiting,
		GameType: parsed,
	}, nil
}

func (r *TeamRoom) Epoch() uint64 {
	return r.epoch
}

func (r *TeamRoom) MarshalJSON() ([]byte, error) {
	var data any = struct{}{}
	if r.Data != nil {
		data = r.Data
	}
	return json.Marshal(struct {
		ID       string       `json:"id"`
		Players  []TeamPlayer `json:"players"`
		Status   TeamStatus   `json:"status"`
		GameType GameType     `json:"gameType"`
		Data     any          `json:"data"`
	}{
		ID:       r.ID,
		Players:  r.Players,
		Status:   r.Status,
		GameType: r.GameType,
		Data:     data,
	})
}

func (r *TeamRoom) FindPlayer(id string) (*TeamPlayer, bool) {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i], true
		}
	}
	return nil, false
}

func (r *TeamRoom) findByName(name string) (*TeamPlayer, bool) {
	for i := range r.Players {
		if strings.EqualFold(r.Players[i].DisplayName, name) {
			return &r.Players[i], true
		}
	}
	return nil, false
}

// Join resolves by connection id, then by name. A name match adopts the new
// connection id so a reconnecting player keeps their team.
func (r *TeamRoom) Join(connectionID, name string) (TeamPlayer, error) {
	name = strings.TrimSpace(name)
	if connectionID != "" {
		if existing, ok := r.FindPlayer(connectionID); ok {
			return *existing, nil
		}
	}
	if name != "" {
		if existing, ok := r.findByName(name); ok {
			if connectionID != "" {
				existing.ID = connectionID
			}
			return *existing, nil
		}
	}
	if connectionID == "" && name == "" {
		return TeamPlayer{}, ErrEmptyName
	}
	if name == "" {
		name = "Player " + strconv.Itoa(len(r.Players)+1)
	}
	id := connectionID
	if id == "" {
		id = chatIDPrefix + name
	}
	player := TeamPlayer{ID: id, DisplayName: name, Team: TeamNone}
	r.Players = append(r.Players, player)
	return player, nil
}

// SwitchTeam moves a player by id or name. An unknown name is added to the
// roster, which is how chat participants enter team games.
func (r *TeamRoom) SwitchTeam(playerID string, team Team, name string) error {
	name = strings.TrimSpace(name)
	var player *TeamPlayer
	if playerID != "" {
		player, _ = r.FindPlayer(playerID)
	}
	if player == nil && name != "" {
		player, _ = r.findByName(name)
	}
	if player != nil {
		player.Team = team
		if playerID != "" {
			player.ID = playerID
		}
		return nil
	}
	if name == "" {
		return ErrPlayerNotFound
	}
	id := playerID
	if id == "" {
		id = chatIDPrefix + name
	}
	r.Players = append(r.Players, TeamPlayer{ID: id, DisplayName: name, Team: team})
	return nil
}

// Start initialises the data for the room's game type. countdown reports
// whether the caller must run a per-second ticker under the returned epoch.
func (r *TeamRoom) Start(content Content, rng *rand.Rand, settings TeamSettings) (epoch uint64, countdown bool, err error) {
	r.capture()
	switch r.GameType {
	case GameBuzzerTrivia:
		data, err := newFeudData(content, rng, r.kept, settings.BuzzerSeconds)
		if err != nil {
			return 0, false, err
		}
		r.Data = data
		r.Status = TeamStatusBuzzer
		countdown = true
	case GameGridReveal:
		data, err := newGridData(content, rng, r.kept)
		if err != nil {
			return 0, false, err
		}
		r.Data = data
		r.Status = TeamStatusPlaying
	case GameCooperativeTimer:
		data, err := newBombData(content, rng, settings.BombSeconds)
		if err != nil {
			return 0, false, err
		}
		r.Data = data
		r.Status = TeamStatusPlaying
		countdown = true
	default:
		return 0, false, ErrUnknownGameType
	}
	r.epoch++
	return r.epoch, countdown, nil
}

// Reset discards the round in progress. Scores, leaders and spymasters are
// kept for the next start.
func (r *TeamRoom) Reset() {
	r.capture()
	r.Data = nil
	r.Status = TeamStatusWaiting
	r.epoch++
}

func (r *TeamRoom) capture() {
	switch data := r.Data.(type) {
	case *FeudData:
		r.kept.scores = data.Scores
		r.kept.leaders = data.Leaders.clone()
	case *GridData:
		r.kept.spymasters = data.Spymasters.clone()
	}
}

// Apply routes a team_action to the handler of the room's game type.
func (r *TeamRoom) Apply(action string, payload ActionPayload) error {
	if r.Data != nil && r.Data.GameType() != r.GameType {
		return ErrWrongGameType
	}
	switch r.GameType {
	case GameBuzzerTrivia:
		return r.applyFeud(action, payload)
	case GameGridReveal:
		return r.applyGrid(action, payload)
	case GameCooperativeTimer:
		return r.applyBomb(action, payload)
	default:
		return ErrUnknownGameType
	}
}

// Tick advances the running countdown by one second. done reports that the
// countdown reached its end and must stop.
func (r *TeamRoom) Tick(epoch uint64) (done bool, err error) {
	if r.epoch != epoch {
		return false, ErrStaleTimer
	}
	switch data := r.Data.(type) {
	case *FeudData:
		if r.GameType != GameBuzzerTrivia || r.Status != TeamStatusBuzzer {
			return false, ErrStaleTimer
		}
		return data.tick(), nil
	case *BombData:
		if r.GameType != GameCooperativeTimer || r.Status != TeamStatusPlaying {
			return false, ErrStaleTimer
		}
		done = data.tick()
		if done {
			r.Status = TeamStatusResults
		}
		return done, nil
	default:
		return false, ErrStaleTimer
	}
}

func CloneTeamRoom(r *TeamRoom) *TeamRoom {
	out := *r
	out.Players = append([]TeamPlayer{}, r.Players...)
	if r.Data != nil {
		out.Data = r.Data.cloneData()
	}
	out.kept = retained{
		scores:     r.kept.scores,
		leaders:    r.kept.leaders.clone(),
		spymasters: r.kept.spymasters.clone(),
	}
	return &out
}
