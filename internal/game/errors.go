package game

import "errors"

// Transitions return these to reject an event. Callers drop the event
// without telling the sender.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrInvalidStatus    = errors.New("action not allowed in current status")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrNoMatch          = errors.New("no active match")
	ErrInvalidBid       = errors.New("bid must not be negative")
	ErrBidTooLow        = errors.New("bid must exceed the current bid")
	ErrEmptyAnswer      = errors.New("answer is empty")
	ErrDuplicateAnswer  = errors.New("answer already submitted")
	ErrUnknownAction    = errors.New("unknown action")
	ErrInvalidTeam      = errors.New("invalid team")
	ErrUnknownGameType  = errors.New("unknown game type")
	ErrWrongGameType    = errors.New("room data does not match game type")
	ErrBuzzerInactive   = errors.New("buzzer not active")
	ErrCellRevealed     = errors.New("cell already revealed")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskCompleted    = errors.New("task already completed")
	ErrWrongAnswer      = errors.New("wrong answer")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrEmptyName        = errors.New("name is empty")
	ErrStaleTimer       = errors.New("countdown no longer current")
	ErrContentTooSmall  = errors.New("content pool too small")
)
