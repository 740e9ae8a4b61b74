package game

import (
	"fmt"
	"sort"
	"strings"
)

// Points awarded during the reveal after each drawing.
const (
	FooledBonus        = 500  // per player fooled by a decoy
	CorrectGuessBonus  = 500  // per player who picked the right answer
	CorrectAuthorBonus = 1000 // to the drawer, per correct voter
)

// runScoring settles the active guess set and returns the reveal
// announcements in order: decoys (ascending by votes, stable), the
// correct answer, then the leaderboard. Caller holds the room lock and
// advances the phase afterwards.
func (r *Room) runScoring() []Notification {
	drawer := r.players[r.drawTurn]

	var lines []string

	decoys := r.guesses.Decoys()
	sort.SliceStable(decoys, func(i, j int) bool {
		return len(decoys[i].Voters) < len(decoys[j].Voters)
	})
	for _, d := range decoys {
		if len(d.Voters) == 0 {
			continue
		}
		gain := FooledBonus * len(d.Voters)
		d.Author.score += gain
		lines = append(lines, fmt.Sprintf("%q by %s fooled %s (+%d)",
			d.Text, d.Author.Name, nameList(d.Voters), gain))
	}

	correct := r.guesses.Correct()
	if len(correct.Voters) == 0 {
		lines = append(lines, fmt.Sprintf("The real answer was %q. Nobody guessed it!", correct.Text))
	} else {
		for _, v := range correct.Voters {
			v.score += CorrectGuessBonus
		}
		drawer.score += CorrectAuthorBonus * len(correct.Voters)
		lines = append(lines, fmt.Sprintf("The real answer was %q. Guessed by %s (+%d each, %s +%d)",
			correct.Text, nameList(correct.Voters), CorrectGuessBonus,
			drawer.Name, CorrectAuthorBonus*len(correct.Voters)))
	}

	lines = append(lines, r.leaderboardLine())

	r.cycleLog = append(r.cycleLog, lines...)

	var notes []Notification
	for _, l := range lines {
		notes = append(notes, r.broadcastAll(l)...)
	}
	return notes
}

func (r *Room) leaderboardLine() string {
	ranked := make([]*Player, len(r.players))
	copy(ranked, r.players)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var sb strings.Builder
	sb.WriteString("Scores:")
	for _, p := range ranked {
		sb.WriteString(fmt.Sprintf("\n%s: %d", p.Name, p.score))
	}
	return sb.String()
}

// winners returns every player tied for the maximum score.
func (r *Room) winners() []*Player {
	max := r.players[0].score
	for _, p := range r.players[1:] {
		if p.score > max {
			max = p.score
		}
	}
	var out []*Player
	for _, p := range r.players {
		if p.score == max {
			out = append(out, p)
		}
	}
	return out
}

func nameList(players []*Player) string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
