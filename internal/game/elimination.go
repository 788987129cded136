package game

import (
	"strconv"
	"strings"
)

type EliminationStatus string

const (
	StatusWaiting           EliminationStatus = "waiting"
	StatusMatchmaking       EliminationStatus = "matchmaking"
	StatusCategorySelection EliminationStatus = "category_selection"
	StatusGambling          EliminationStatus = "gambling"
	StatusNaming            EliminationStatus = "naming"
	StatusReview            EliminationStatus = "review"
	StatusResult            EliminationStatus = "result"
	StatusGameOver          EliminationStatus = "game_over"
)

const (
	noWinnerName = "No one"
	chatIDPrefix = "chat_"
	defaultTimer = 30
	matchSize    = 2
)

type Participant struct {
	ID             string  `json:"id"`
	DisplayName    string  `json:"displayName"`
	IsEliminated   bool    `json:"isEliminated"`
	IsRemoteJoined bool    `json:"isRemoteJoined"`
	ConnectionID   *string `json:"connectionId"`
}

// EliminationRoom is the 1v1 bidding game: two active players bid on how
// many items of a category they can name, the challenged bidder has to
// deliver, and the loser of each round is eliminated.
type EliminationRoom struct {
	ID               string            `json:"id"`
	Players          []Participant     `json:"players"`
	Status           EliminationStatus `json:"status"`
	CurrentMatch     []string          `json:"currentMatch"`
	Categories       []string          `json:"categories"`
	SelectedCategory *string           `json:"selectedCategory"`
	GamblerID        *string           `json:"gamblerId"`
	TargetCount      int               `json:"targetCount"`
	CurrentCount     int               `json:"currentCount"`
	Timer            int               `json:"timer"`
	Answers          []string          `json:"answers"`
	Winner           *string           `json:"winner"`
	Turn             *string           `json:"turn"`
	Bid              int               `json:"bid"`

	epoch uint64
}

func NewEliminationRoom(id string, namingSeconds int) *EliminationRoom {
	if namingSeconds <= 0 {
		namingSeconds = defaultTimer
	}
	return &EliminationRoom{
		ID:         id,
		Players:    []Participant{},
		Status:     StatusWaiting,
		Categories: []string{},
		Answers:    []string{},
		Timer:      namingSeconds,
	}
}

// Epoch changes whenever a countdown starts or the room is reset.
func (r *EliminationRoom) Epoch() uint64 {
	return r.epoch
}

func (r *EliminationRoom) FindPlayer(id string) (*Participant, bool) {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i], true
		}
	}
	return nil, false
}

func (r *EliminationRoom) findByConnection(connectionID string) (*Participant, bool) {
	for i := range r.Players {
		conn := r.Players[i].ConnectionID
		if conn != nil && *conn == connectionID {
			return &r.Players[i], true
		}
	}
	return nil, false
}

func (r *EliminationRoom) findByName(name string) (*Participant, bool) {
	for i := range r.Players {
		if strings.EqualFold(r.Players[i].DisplayName, name) {
			return &r.Players[i], true
		}
	}
	return nil, false
}

// JoinLobby registers a directly connected participant. The connection id
// is matched first, then the display name, so a chat-joined player who
// opens the participant page keeps a single roster entry.
func (r *EliminationRoom) JoinLobby(connectionID, name string) (Participant, error) {
	name = strings.TrimSpace(name)
	if connectionID == "" {
		if name == "" {
			return Participant{}, ErrEmptyName
		}
		return r.JoinByName(name)
	}
	if existing, ok := r.findByConnection(connectionID); ok {
		return *existing, nil
	}
	if name == "" {
		name = "Player " + strconv.Itoa(len(r.Players)+1)
	} else if existing, ok := r.findByName(name); ok {
		existing.ConnectionID = stringPtr(connectionID)
		existing.IsRemoteJoined = true
		return *existing, nil
	}
	participant := Participant{
		ID:             connectionID,
		DisplayName:    name,
		IsRemoteJoined: true,
		ConnectionID:   stringPtr(connectionID),
	}
	r.Players = append(r.Players, participant)
	return participant, nil
}

// JoinByName registers a chat participant, who has a name but no connection.
func (r *EliminationRoom) JoinByName(name string) (Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Participant{}, ErrEmptyName
	}
	if existing, ok := r.findByName(name); ok {
		return *existing, nil
	}
	participant := Participant{
		ID:          chatIDPrefix + name,
		DisplayName: name,
	}
	r.Players = append(r.Players, participant)
	return participant, nil
}

func (r *EliminationRoom) activePlayers() []Participant {
	active := make([]Participant, 0, len(r.Players))
	for _, player := range r.Players {
		if !player.IsEliminated {
			active = append(active, player)
		}
	}
	return active
}

func (r *EliminationRoom) Start() error {
	if r.Status != StatusWaiting {
		return ErrInvalidStatus
	}
	if len(r.Players) < matchSize {
		return ErrNotEnoughPlayers
	}
	r.pairNextMatch()
	return nil
}

// pairNextMatch pairs the first two active players in join order, or ends
// the game when fewer than two remain.
func (r *EliminationRoom) pairNextMatch() {
	active := r.activePlayers()
	if len(active) < matchSize {
		winner := noWinnerName
		if len(active) == 1 {
			winner = active[0].DisplayName
		}
		r.Status = StatusGameOver
		r.Winner = stringPtr(winner)
		r.CurrentMatch = nil
		return
	}
	r.Status = StatusMatchmaking
	r.CurrentMatch = []string{active[0].ID, active[1].ID}
}

func (r *EliminationRoom) SelectCategories(categories []string) error {
	if r.Status != StatusMatchmaking && r.Status != StatusCategorySelection {
		return ErrInvalidStatus
	}
	r.Categories = append([]string{}, categories...)
	r.Status = StatusCategorySelection
	return nil
}

func (r *EliminationRoom) ChooseCategory(category string) error {
	if r.Status != StatusCategorySelection {
		return ErrInvalidStatus
	}
	if len(r.CurrentMatch) != matchSize {
		return ErrNoMatch
	}
	r.SelectedCategory = stringPtr(category)
	r.Bid = 0
	r.Turn = stringPtr(r.CurrentMatch[0])
	r.Status = StatusGambling
	return nil
}

// PlaceBid records the standing bid and hands the turn to the opponent.
// With strict set, a bid that does not raise the current one is rejected.
func (r *EliminationRoom) PlaceBid(amount int, strict bool) error {
	if r.Status != StatusGambling {
		return ErrInvalidStatus
	}
	if amount < 0 {
		return ErrInvalidBid
	}
	if strict && amount <= r.Bid {
		return ErrBidTooLow
	}
	other, err := r.otherInMatch(r.Turn)
	if err != nil {
		return err
	}
	r.Bid = amount
	r.Turn = stringPtr(other)
	return nil
}

func (r *EliminationRoom) otherInMatch(id *string) (string, error) {
	if len(r.CurrentMatch) != matchSize || id == nil {
		return "", ErrNoMatch
	}
	switch *id {
	case r.CurrentMatch[0]:
		return r.CurrentMatch[1], nil
	case r.CurrentMatch[1]:
		return r.CurrentMatch[0], nil
	default:
		return "", ErrNoMatch
	}
}

// Challenge calls the last bid. The gambler is the player who made that
// bid, i.e. the one whose turn it is not. The returned epoch identifies the
// naming countdown that the caller must start.
func (r *EliminationRoom) Challenge(namingSeconds int) (uint64, error) {
	if r.Status != StatusGambling {
		return 0, ErrInvalidStatus
	}
	gambler, err := r.otherInMatch(r.Turn)
	if err != nil {
		return 0, err
	}
	if namingSeconds <= 0 {
		namingSeconds = defaultTimer
	}
	r.GamblerID = stringPtr(gambler)
	r.TargetCount = r.Bid
	r.CurrentCount = 0
	r.Answers = []string{}
	r.Timer = namingSeconds
	r.Status = StatusNaming
	r.epoch++
	return r.epoch, nil
}

// SubmitAnswer counts a new answer. Case variants of an earlier answer are
// rejected.
func (r *EliminationRoom) SubmitAnswer(answer string) error {
	if r.Status != StatusNaming {
		return ErrInvalidStatus
	}
	normalized := strings.ToLower(strings.TrimSpace(answer))
	if normalized == "" {
		return ErrEmptyAnswer
	}
	for _, existing := range r.Answers {
		if existing == normalized {
			return ErrDuplicateAnswer
		}
	}
	r.Answers = append(r.Answers, normalized)
	r.CurrentCount++
	return nil
}

// TickNaming advances the naming countdown by one second. expired reports
// the move to review, after which the countdown must stop.
func (r *EliminationRoom) TickNaming(epoch uint64) (expired bool, err error) {
	if r.epoch != epoch || r.Status != StatusNaming {
		return false, ErrStaleTimer
	}
	r.Timer--
	if r.Timer <= 0 {
		r.Timer = 0
		r.Status = StatusReview
		return true, nil
	}
	return false, nil
}

// Decide records the host's verdict and overrides the submitted tally: a
// pass sets CurrentCount to the target, a fail leaves it below the target.
// The loser of the match is eliminated.
func (r *EliminationRoom) Decide(passed bool) error {
	if r.Status != StatusReview {
		return ErrInvalidStatus
	}
	if r.GamblerID == nil {
		return ErrNoMatch
	}
	loserID := *r.GamblerID
	if passed {
		other, err := r.otherInMatch(r.GamblerID)
		if err != nil {
			return err
		}
		loserID = other
		r.CurrentCount = r.TargetCount
	} else if r.CurrentCount >= r.TargetCount {
		r.CurrentCount = max(r.TargetCount-1, 0)
	}
	r.Status = StatusResult
	if loser, ok := r.FindPlayer(loserID); ok {
		loser.IsEliminated = true
	}
	return nil
}

func (r *EliminationRoom) AdvanceRound() error {
	if r.Status != StatusResult {
		return ErrInvalidStatus
	}
	r.clearRound()
	r.pairNextMatch()
	return nil
}

// Reset starts a new game run with the same roster.
func (r *EliminationRoom) Reset(namingSeconds int) {
	if namingSeconds <= 0 {
		namingSeconds = defaultTimer
	}
	for i := range r.Players {
		r.Players[i].IsEliminated = false
	}
	r.clearRound()
	r.Status = StatusWaiting
	r.CurrentMatch = nil
	r.Winner = nil
	r.Timer = namingSeconds
	r.epoch++
}

func (r *EliminationRoom) clearRound() {
	r.Categories = []string{}
	r.SelectedCategory = nil
	r.GamblerID = nil
	r.TargetCount = 0
	r.CurrentCount = 0
	r.Answers = []string{}
	r.Turn = nil
	r.Bid = 0
}

func CloneEliminationRoom(r *EliminationRoom) *EliminationRoom {
	out := *r
	out.Players = make([]Participant, len(r.Players))
	for i, player := range r.Players {
		player.ConnectionID = cloneString(player.ConnectionID)
		out.Players[i] = player
	}
	if r.CurrentMatch != nil {
		out.CurrentMatch = append([]string(nil), r.CurrentMatch...)
	}
	out.Categories = append([]string{}, r.Categories...)
	out.Answers = append([]string{}, r.Answers...)
	out.SelectedCategory = cloneString(r.SelectedCategory)
	out.GamblerID = cloneString(r.GamblerID)
	out.Winner = cloneString(r.Winner)
	out.Turn = cloneString(r.Turn)
	return &out
}
