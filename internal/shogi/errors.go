package shogi

import (
	"errors"
	"fmt"
)

var (
	ErrWrongState      = errors.New("move not allowed in current state")
	ErrNotCandidate    = errors.New("move is not in the candidate list")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidSFEN     = errors.New("invalid SFEN")
	ErrInvalidToken    = errors.New("invalid move token")
)

// MoveError 带上手数与着法，方便定位
type MoveError struct {
	Err   error
	Ply   int
	Move  Move
	State GameState
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("ply %d, move %q, state %s: %v", e.Ply, e.Move.String(), e.State, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }
