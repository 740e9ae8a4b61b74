package game

import "errors"

// Every error below is an expected, user-recoverable outcome. They are
// mapped to chat notices at the transport layer and never crash the
// process. Anything the state machine treats as impossible (a remapped
// vote index out of range, a vote for one's own option) panics instead.
var (
	ErrInvalidPhase    = errors.New("action not allowed in current phase")
	ErrNotOwner        = errors.New("only the room owner may do that")
	ErrDuplicateAnswer = errors.New("duplicate answer")
	ErrAlreadyAnswered = errors.New("already answered")
	ErrAlreadyVoted    = errors.New("already voted")
	ErrRoomFull        = errors.New("room full")
	ErrRoomNotJoinable = errors.New("room not joinable")
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotInRoom       = errors.New("not in a room")
	ErrAlreadyInRoom   = errors.New("already in a room")
	ErrPoolExhausted   = errors.New("no room identifiers left")
	ErrStaleBallot     = errors.New("ballot is no longer active")
	ErrNotEnoughReady  = errors.New("not enough players to start")
)
