package game

import (
	"fmt"
	"math/rand"
	"sync"

	"drawfulbot/internal/prompt"
)

type Phase string

const (
	PhaseWaiting  Phase = "WaitingForPlayers"
	PhaseDrawing  Phase = "Drawing"
	PhaseGuessing Phase = "Guessing"
	PhaseVoting   Phase = "Voting"
	PhaseResults  Phase = "ShowingResults"
	PhaseFinished Phase = "Finished"

	// PhaseClosed marks a dead room. An event arriving through a stale
	// room reference after teardown must fail the phase gate rather
	// than touch the emptied roster.
	PhaseClosed Phase = "Closed"
)

const (
	MinPlayers = 3
	MaxPlayers = 8
)

// Room is one isolated game. All state behind the mutex; every inbound
// event for a room goes through exactly one of the methods below, so
// the "everyone has answered" counters can never race.
type Room struct {
	mu sync.Mutex

	id      int
	players []*Player // roster order; shuffled into draw order at start
	owner   *Player
	phase   Phase

	drawTurn   int // index into players of the player being guessed
	round      int
	roundCount int
	guesses    *GuessSet

	prompts  *prompt.Pool
	cycleLog []string // reveal lines of the running cycle, for export
}

func newRoom(id int, prompts *prompt.Pool) *Room {
	return &Room{id: id, phase: PhaseWaiting, prompts: prompts}
}

func (r *Room) ID() int { return r.id }

func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Room) Players() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

func (r *Room) Owner() *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owner
}

// Drawer returns the player whose drawing is being guessed, or nil
// outside active phases.
func (r *Room) Drawer() *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.phase {
	case PhaseDrawing, PhaseGuessing, PhaseVoting, PhaseResults:
		return r.players[r.drawTurn]
	}
	return nil
}

// close marks the room dead. Callers hold the lock.
func (r *Room) close() {
	r.phase = PhaseClosed
	r.guesses = nil
	r.owner = nil
}

// CycleLog returns the reveal lines accumulated since the last game
// start. Read by the exporter once a cycle finishes.
func (r *Room) CycleLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.cycleLog))
	copy(out, r.cycleLog)
	return out
}

// Join adds a player while the roster is open (waiting for players, or
// finished and gathering for a rematch).
func (r *Room) Join(p *Player) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseWaiting && r.phase != PhaseFinished {
		return nil, ErrRoomNotJoinable
	}
	if len(r.players) >= MaxPlayers {
		return nil, ErrRoomFull
	}
	p.room = r
	p.score = 0
	r.players = append(r.players, p)
	return r.broadcast(func(to *Player) string {
		if to == p {
			return fmt.Sprintf("You joined room %d (%d/%d players).", r.id, len(r.players), MaxPlayers)
		}
		return fmt.Sprintf("%s joined (%d/%d players).", p.Name, len(r.players), MaxPlayers)
	}), nil
}

// Leave removes a player. Returns everyone who left the room as a
// result (just the leaver, or the whole roster when an active game is
// dissolved) and whether the room is now dead and its id reclaimable.
func (r *Room) Leave(p *Player) (notes []Notification, removed []*Player, dead bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, m := range r.players {
		if m == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, false
	}
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	p.room = nil
	removed = []*Player{p}
	notes = append(notes, notifyText(p, fmt.Sprintf("You left room %d.", r.id)))

	if len(r.players) == 0 {
		r.close()
		return notes, removed, true
	}

	if r.phase != PhaseWaiting && r.phase != PhaseFinished {
		// A guess or vote target count is now unreachable; the game
		// cannot continue. Evict everyone and kill the room.
		for _, m := range r.players {
			notes = append(notes, notifyText(m,
				fmt.Sprintf("%s left mid-game. The room has been closed.", p.Name)))
			m.room = nil
			removed = append(removed, m)
		}
		r.players = nil
		r.close()
		return notes, removed, true
	}

	if r.owner == p {
		r.owner = r.players[0]
		notes = append(notes, notifyText(r.owner, "You are the new room owner."))
	}
	notes = append(notes, r.broadcastAll(fmt.Sprintf("%s left (%d/%d players).",
		p.Name, len(r.players), MaxPlayers))...)
	return notes, removed, false
}

// Start begins a fresh game cycle: scores wiped, draw order shuffled,
// a distinct prompt dealt to every player. Owner only, three players
// minimum, from the lobby or after a finished game.
func (r *Room) Start(by *Player) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseWaiting && r.phase != PhaseFinished {
		return nil, ErrInvalidPhase
	}
	if by != r.owner {
		return nil, ErrNotOwner
	}
	if len(r.players) < MinPlayers {
		return nil, ErrNotEnoughReady
	}

	for _, p := range r.players {
		p.score = 0
	}
	if len(r.players) > 5 {
		r.roundCount = 1
	} else {
		r.roundCount = 2
	}
	r.round = 1
	r.cycleLog = nil
	return r.startRound(), nil
}

// startRound shuffles the draw order, deals prompts and enters Drawing.
// Caller holds the lock.
func (r *Room) startRound() []Notification {
	rand.Shuffle(len(r.players), func(i, j int) {
		r.players[i], r.players[j] = r.players[j], r.players[i]
	})
	texts := r.prompts.NextDistinct(len(r.players))
	for i, p := range r.players {
		p.prompt = texts[i]
		p.finishedDrawing = false
	}
	r.drawTurn = 0
	r.guesses = nil
	r.phase = PhaseDrawing

	return r.broadcast(func(to *Player) string {
		msg := fmt.Sprintf("Round %d of %d! Your prompt: %q. Draw it!", r.round, r.roundCount, to.prompt)
		if to == r.owner {
			msg += " Send /done once everyone has finished drawing."
		}
		return msg
	})
}

// FinishDrawing is the owner's signal that every drawing is ready. It
// ends the drawing phase for the whole room at once and opens guessing
// on the first drawer in turn order.
func (r *Room) FinishDrawing(by *Player) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseDrawing {
		return nil, ErrInvalidPhase
	}
	if by != r.owner {
		return nil, ErrNotOwner
	}
	for _, p := range r.players {
		p.finishedDrawing = true
	}
	return r.enterGuessing(), nil
}

// enterGuessing opens guessing for players[drawTurn]. Caller holds the
// lock.
func (r *Room) enterGuessing() []Notification {
	drawer := r.players[r.drawTurn]
	r.guesses = NewGuessSet(drawer.prompt)
	r.phase = PhaseGuessing

	return r.broadcast(func(to *Player) string {
		if to == drawer {
			return "Show everyone your drawing! The others are guessing what it is."
		}
		return fmt.Sprintf("Look at %s's drawing. What is it? Send your guess.", drawer.Name)
	})
}

// SubmitGuess records one player's guess for the current drawing. Once
// every non-drawer has answered, the option order freezes and ballots
// go out.
func (r *Room) SubmitGuess(p *Player, raw string) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseGuessing {
		return nil, ErrInvalidPhase
	}
	drawer := r.players[r.drawTurn]
	if p == drawer {
		return nil, ErrInvalidPhase
	}
	if err := r.guesses.AddGuess(p, raw); err != nil {
		return nil, err
	}

	notes := []Notification{notifyText(p, "Guess registered. Waiting for the others.")}
	if r.guesses.OptionCount() < len(r.players) {
		return notes, nil
	}

	// everyone eligible has answered
	r.guesses.Freeze()
	r.phase = PhaseVoting
	question := fmt.Sprintf("What did %s draw?", drawer.Name)
	for _, m := range r.players {
		if m == drawer {
			notes = append(notes, notifyText(m, "All guesses are in. The others are voting now."))
			continue
		}
		b, texts := r.guesses.MakeBallot(m)
		notes = append(notes, Notification{To: m, Ballot: &BallotRequest{
			ID:       b.ID,
			Question: question,
			Options:  texts,
		}})
	}
	return notes, nil
}

// SubmitVote records one ballot answer. raw indexes the ballot as shown
// to that player (own option omitted); it is remapped to the canonical
// option order here. When the last eligible voter answers, scoring runs
// and the room advances.
func (r *Room) SubmitVote(p *Player, ballotID string, raw int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseVoting {
		return nil, ErrInvalidPhase
	}
	b := r.guesses.BallotFor(p)
	if b == nil {
		// the drawer, or someone who never got a ballot
		return nil, ErrInvalidPhase
	}
	if ballotID != "" && ballotID != b.ID {
		return nil, ErrStaleBallot
	}
	if raw < 0 || raw >= b.size {
		// wire input that does not match the ballot we sent
		return nil, ErrStaleBallot
	}
	if err := r.guesses.Vote(p, b.Remap(raw)); err != nil {
		return nil, err
	}

	notes := []Notification{notifyText(p, "Vote counted.")}
	if r.guesses.VoterCount() < len(r.players)-1 {
		return notes, nil
	}

	r.phase = PhaseResults
	notes = append(notes, r.runScoring()...)
	notes = append(notes, r.advance()...)
	return notes, nil
}

// advance moves past ShowingResults: next drawer, next round, or game
// over. Caller holds the lock.
func (r *Room) advance() []Notification {
	if r.drawTurn < len(r.players)-1 {
		r.drawTurn++
		return r.enterGuessing()
	}
	if r.round < r.roundCount {
		r.round++
		return r.startRound()
	}

	winners := r.winners()
	line := fmt.Sprintf("Game over! Winner: %s", nameList(winners))
	if len(winners) > 1 {
		line = fmt.Sprintf("Game over! It's a tie between %s", nameList(winners))
	}
	r.cycleLog = append(r.cycleLog, line)
	notes := r.broadcastAll(line)
	notes = append(notes, r.broadcastAll("Send /start for a rematch, or /leave to go.")...)

	for _, p := range r.players {
		p.score = 0
	}
	r.guesses = nil
	r.phase = PhaseFinished
	return notes
}

// Rename updates a player's display name. Allowed in any phase.
func (r *Room) Rename(p *Player, name string) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := p.Name
	p.Name = name
	return r.broadcastAll(fmt.Sprintf("%s is now known as %s.", old, name))
}
