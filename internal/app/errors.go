package app

import "errors"

// Recoverable client errors. Each maps to a stable wire code via ErrorCode;
// none of them may crash the room.
var (
	ErrInvalidPhase     = errors.New("operation invalid for current room phase")
	ErrTerminalState    = errors.New("room already completed")
	ErrRoomFull         = errors.New("room is full")
	ErrNotHost          = errors.New("actor is not room host")
	ErrAlreadyTaken     = errors.New("character class already taken")
	ErrNotAllSelected   = errors.New("not all players selected a character")
	ErrAlreadySubmitted = errors.New("cards already submitted this round")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrOutOfRange       = errors.New("target out of range")
	ErrNotFound         = errors.New("unknown room, player or character")
	ErrUnknownCard      = errors.New("card not in selected hand")
	ErrElementNotStrong = errors.New("element not strong")
)

// Stable error codes surfaced to clients alongside the message.
const (
	CodePhaseError     = 1
	CodeConflict       = 2
	CodeNotYourTurn    = 3
	CodeInvalidTarget  = 4
	CodeNotFound       = 5
	CodeTerminalState  = 6
	CodeInternal       = 99
)

// ErrorCode maps an error from the service to its stable wire code.
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidPhase), errors.Is(err, ErrNotHost), errors.Is(err, ErrNotAllSelected):
		return CodePhaseError
	case errors.Is(err, ErrAlreadyTaken), errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrRoomFull):
		return CodeConflict
	case errors.Is(err, ErrNotYourTurn):
		return CodeNotYourTurn
	case errors.Is(err, ErrInvalidTarget), errors.Is(err, ErrOutOfRange), errors.Is(err, ErrUnknownCard), errors.Is(err, ErrElementNotStrong):
		return CodeInvalidTarget
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrTerminalState):
		return CodeTerminalState
	default:
		return CodeInternal
	}
}
