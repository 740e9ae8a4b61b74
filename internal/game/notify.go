package game

// Notification is one outbound message produced by a state transition.
// Delivery is fire-and-forget: the state machine emits an ordered slice
// and the transport is responsible for getting each one to its player.
type Notification struct {
	To   *Player
	Text string

	// Ballot is set when this notification asks the player to vote.
	// Text is empty in that case.
	Ballot *BallotRequest
}

// BallotRequest asks one player for a single-choice vote. ID is the
// opaque handle later quoted back by SubmitVote to guard against votes
// on polls from an earlier drawing.
type BallotRequest struct {
	ID       string
	Question string
	Options  []string
}

func notifyText(to *Player, text string) Notification {
	return Notification{To: to, Text: text}
}

// broadcast expands a per-player text function into one notification
// per room member, in roster order.
func (r *Room) broadcast(textFor func(*Player) string) []Notification {
	out := make([]Notification, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, notifyText(p, textFor(p)))
	}
	return out
}

func (r *Room) broadcastAll(text string) []Notification {
	return r.broadcast(func(*Player) string { return text })
}
