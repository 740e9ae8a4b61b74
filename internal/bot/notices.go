package bot

import (
	"errors"

	"drawfulbot/internal/game"
)

const helpText = "Commands: /new (open a room), /join <room id>, /start, " +
	"/done (end the drawing phase, owner only), /name <name>, /leave. " +
	"During guessing, just send your guess as text."

// noticeFor maps an expected game error to the text shown to the
// player who triggered it.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidPhase):
		return "Please wait."
	case errors.Is(err, game.ErrNotOwner):
		return "Only the room owner can do that."
	case errors.Is(err, game.ErrAlreadyAnswered):
		return "You already answered."
	case errors.Is(err, game.ErrDuplicateAnswer):
		return "Someone already gave that answer. Send a different one."
	case errors.Is(err, game.ErrAlreadyVoted):
		return "You cannot change your answer."
	case errors.Is(err, game.ErrRoomFull):
		return "That room is full."
	case errors.Is(err, game.ErrRoomNotJoinable):
		return "That room is in the middle of a game."
	case errors.Is(err, game.ErrRoomNotFound):
		return "No such room."
	case errors.Is(err, game.ErrNotInRoom):
		return "You are not in a room. " + helpText
	case errors.Is(err, game.ErrAlreadyInRoom):
		return "You are already in a room. Send /leave first."
	case errors.Is(err, game.ErrPoolExhausted):
		return "All rooms are taken right now. Try again later."
	case errors.Is(err, game.ErrStaleBallot):
		return "That poll is no longer active."
	case errors.Is(err, game.ErrNotEnoughReady):
		return "You need at least 3 players to start."
	default:
		return "Something went wrong. Try again."
	}
}
