package game

import (
	"math/rand"

	"github.com/google/uuid"

	"drawfulbot/internal/text"
)

// Option is one candidate answer for the drawing being guessed. The
// correct answer has a nil Author; every other option was written by a
// player trying to fool the room.
type Option struct {
	Text   string
	Author *Player
	Voters []*Player
}

func (o *Option) IsCorrect() bool { return o.Author == nil }

// GuessSet is the candidate-answer pool for one drawing: the correct
// prompt plus each submitted decoy, with vote bookkeeping. It lives
// from the moment a drawing enters guessing until its scoring is done.
type GuessSet struct {
	options  []*Option
	byAuthor map[string]bool // player id -> has authored a decoy
	votedBy  map[string]bool // player id -> has voted
	ballots  map[string]*Ballot
	frozen   bool
}

func NewGuessSet(correct string) *GuessSet {
	return &GuessSet{
		options:  []*Option{{Text: text.Normalize(correct)}},
		byAuthor: make(map[string]bool),
		votedBy:  make(map[string]bool),
		ballots:  make(map[string]*Ballot),
	}
}

// AddGuess appends a decoy option. One guess per author; texts must be
// pairwise distinct after normalization, including against the correct
// answer (guessing the prompt exactly counts as a duplicate and the
// player is asked to resubmit).
func (g *GuessSet) AddGuess(author *Player, raw string) error {
	if g.byAuthor[author.ID] {
		return ErrAlreadyAnswered
	}
	t := text.Normalize(raw)
	for _, o := range g.options {
		if o.Text == t {
			return ErrDuplicateAnswer
		}
	}
	g.options = append(g.options, &Option{Text: t, Author: author})
	g.byAuthor[author.ID] = true
	return nil
}

func (g *GuessSet) HasAnswered(p *Player) bool { return g.byAuthor[p.ID] }

func (g *GuessSet) OptionCount() int { return len(g.options) }

// Freeze shuffles the option order once. The canonical order is fixed
// from here on; all ballots and vote indices refer to it.
func (g *GuessSet) Freeze() {
	if g.frozen {
		return
	}
	rand.Shuffle(len(g.options), func(i, j int) {
		g.options[i], g.options[j] = g.options[j], g.options[i]
	})
	g.frozen = true
}

// Ballot is the vote request prepared for one player: the canonical
// option list with the player's own decoy removed. Remap translates an
// index into that reduced list back to the canonical order.
type Ballot struct {
	ID       string
	ownIndex int // canonical index of the voter's own option; len(options) if none
	size     int // number of options shown to the voter
}

func (b *Ballot) Remap(raw int) int {
	if raw < 0 || raw >= b.size {
		panic("game: ballot option index out of range")
	}
	if b.ownIndex <= raw {
		return raw + 1
	}
	return raw
}

// MakeBallot builds and registers the ballot for one voter. Must be
// called after Freeze. The drawer never gets one; callers enforce that.
func (g *GuessSet) MakeBallot(voter *Player) (*Ballot, []string) {
	if !g.frozen {
		panic("game: ballot requested before option order was frozen")
	}
	own := len(g.options)
	texts := make([]string, 0, len(g.options)-1)
	for i, o := range g.options {
		if o.Author == voter {
			own = i
			continue
		}
		texts = append(texts, o.Text)
	}
	b := &Ballot{ID: uuid.NewString(), ownIndex: own, size: len(texts)}
	g.ballots[voter.ID] = b
	return b, texts
}

func (g *GuessSet) BallotFor(voter *Player) *Ballot { return g.ballots[voter.ID] }

// Vote records one player's choice by canonical option index. Voting
// for one's own option is unreachable through Remap and treated as a
// contract violation.
func (g *GuessSet) Vote(voter *Player, canonical int) error {
	if g.votedBy[voter.ID] {
		return ErrAlreadyVoted
	}
	if canonical < 0 || canonical >= len(g.options) {
		panic("game: canonical vote index out of range")
	}
	o := g.options[canonical]
	if o.Author == voter {
		panic("game: player voted for their own option")
	}
	o.Voters = append(o.Voters, voter)
	g.votedBy[voter.ID] = true
	return nil
}

func (g *GuessSet) VoterCount() int { return len(g.votedBy) }

// Correct returns the correct option.
func (g *GuessSet) Correct() *Option {
	for _, o := range g.options {
		if o.IsCorrect() {
			return o
		}
	}
	panic("game: guess set without a correct option")
}

// Decoys returns the authored options in canonical order.
func (g *GuessSet) Decoys() []*Option {
	out := make([]*Option, 0, len(g.options)-1)
	for _, o := range g.options {
		if !o.IsCorrect() {
			out = append(out, o)
		}
	}
	return out
}
