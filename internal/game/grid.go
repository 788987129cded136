package game

import (
	"math/rand/v2"
	"strings"
)

type CellType string

const (
	CellGold     CellType = "gold"
	CellBlack    CellType = "black"
	CellAssassin CellType = "assassin"
	CellNeutral  CellType = "neutral"
)

type GridCell struct {
	Word     string   `json:"word"`
	Type     CellType `json:"type"`
	Revealed bool     `json:"revealed"`
	Votes    []string `json:"votes"`
}

type Hint struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type GridData struct {
	Board       []GridCell `json:"board"`
	CurrentTurn Team       `json:"currentTurn"`
	Scores      TeamScores `json:"scores"`
	Winner      *Team      `json:"winner,omitempty"`
	Spymasters  TeamSlots  `json:"spymasters"`
	CurrentHint *Hint      `json:"currentHint"`
}

func (d *GridData) GameType() GameType { return GameGridReveal }

func (d *GridData) cloneData() TeamData {
	out := *d
	out.Board = make([]GridCell, len(d.Board))
	for i, cell := range d.Board {
		cell.Votes = append([]string{}, cell.Votes...)
		out.Board[i] = cell
	}
	if d.Winner != nil {
		winner := *d.Winner
		out.Winner = &winner
	}
	if d.CurrentHint != nil {
		hint := *d.CurrentHint
		out.CurrentHint = &hint
	}
	out.Spymasters = d.Spymasters.clone()
	return &out
}

// cellTypeAt assigns types by position before the final shuffle: gold gets
// one more agent than black because it plays first.
func cellTypeAt(i int) CellType {
	switch {
	case i < gridGoldCells:
		return CellGold
	case i < gridGoldCells+gridBlackCells:
		return CellBlack
	case i == gridGoldCells+gridBlackCells:
		return CellAssassin
	default:
		return CellNeutral
	}
}

// BuildBoard samples 25 distinct words and shuffles the typed cells again so
// word order carries no hint of the type.
func BuildBoard(words []string, rng *rand.Rand) ([]GridCell, error) {
	pool := distinctWords(words)
	if len(pool) < gridBoardSize {
		return nil, ErrContentTooSmall
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	board := make([]GridCell, gridBoardSize)
	for i := range board {
		board[i] = GridCell{Word: pool[i], Type: cellTypeAt(i), Votes: []string{}}
	}
	rng.Shuffle(len(board), func(i, j int) { board[i], board[j] = board[j], board[i] })
	return board, nil
}

func newGridData(content Content, rng *rand.Rand, kept retained) (*GridData, error) {
	board, err := BuildBoard(content.GridWords, rng)
	if err != nil {
		return nil, err
	}
	return &GridData{
		Board:       board,
		CurrentTurn: TeamGold,
		Scores:      TeamScores{Gold: gridGoldCells, Black: gridBlackCells},
		Spymasters:  kept.spymasters.clone(),
	}, nil
}

func (r *TeamRoom) applyGrid(action string, payload ActionPayload) error {
	if action == "set_spymaster" {
		team, ok := PlayingTeam(payload.Team)
		if !ok {
			return ErrInvalidTeam
		}
		if data, ok := r.Data.(*GridData); ok {
			data.Spymasters.Set(team, payload.PlayerID)
		} else {
			r.kept.spymasters.Set(team, payload.PlayerID)
		}
		return nil
	}
	data, ok := r.Data.(*GridData)
	if !ok {
		switch action {
		case "give_hint", "vote", "reveal":
			return ErrInvalidStatus
		default:
			return ErrUnknownAction
		}
	}
	switch action {
	case "give_hint":
		data.CurrentHint = &Hint{Word: strings.TrimSpace(payload.Word), Count: payload.Count}
		return nil
	case "vote":
		return data.vote(payload)
	case "reveal":
		if r.Status != TeamStatusPlaying {
			return ErrInvalidStatus
		}
		return r.gridReveal(data, payload)
	default:
		return ErrUnknownAction
	}
}

func (d *GridData) cell(index *int) (*GridCell, error) {
	if index == nil || *index < 0 || *index >= len(d.Board) {
		return nil, ErrIndexOutOfRange
	}
	return &d.Board[*index], nil
}

// vote toggles the player's marker on a hidden cell. Votes only signal
// consensus; reveal ignores them.
func (d *GridData) vote(payload ActionPayload) error {
	cell, err := d.cell(payload.Index)
	if err != nil {
		return err
	}
	if cell.Revealed {
		return ErrCellRevealed
	}
	if payload.PlayerID == "" {
		return ErrPlayerNotFound
	}
	for i, voter := range cell.Votes {
		if voter == payload.PlayerID {
			cell.Votes = append(cell.Votes[:i], cell.Votes[i+1:]...)
			return nil
		}
	}
	cell.Votes = append(cell.Votes, payload.PlayerID)
	return nil
}

// gridReveal checks, in order: a team with no agents left wins, the
// assassin hands the win to the opponent of the team in turn, and any cell
// not of the current team's colour ends the turn.
func (r *TeamRoom) gridReveal(data *GridData, payload ActionPayload) error {
	cell, err := data.cell(payload.Index)
	if err != nil {
		return err
	}
	if cell.Revealed {
		return ErrCellRevealed
	}
	cell.Revealed = true
	switch cell.Type {
	case CellGold:
		data.Scores.Add(TeamGold, -1)
	case CellBlack:
		data.Scores.Add(TeamBlack, -1)
	}

	switch {
	case data.Scores.Gold <= 0:
		r.finishGrid(data, TeamGold)
	case data.Scores.Black <= 0:
		r.finishGrid(data, TeamBlack)
	case cell.Type == CellAssassin:
		r.finishGrid(data, data.CurrentTurn.Opponent())
	case string(cell.Type) != string(data.CurrentTurn):
		data.CurrentTurn = data.CurrentTurn.Opponent()
		data.CurrentHint = nil
	}
	return nil
}

func (r *TeamRoom) finishGrid(data *GridData, winner Team) {
	data.Winner = &winner
	r.Status = TeamStatusResults
}
