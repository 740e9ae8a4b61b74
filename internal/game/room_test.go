package game

import (
	"fmt"
	"testing"

	"drawfulbot/internal/prompt"
)

var guessSeq int

func testPrompts(t *testing.T) *prompt.Pool {
	t.Helper()
	var src prompt.StaticSource
	for i := 0; i < 20; i++ {
		src = append(src, fmt.Sprintf("prompt %d", i))
	}
	p, err := prompt.NewPool(src)
	if err != nil {
		t.Fatalf("building prompt pool: %v", err)
	}
	return p
}

func newTestRoom(t *testing.T, n int) (*Room, []*Player) {
	t.Helper()
	r := newRoom(42, testPrompts(t))
	players := make([]*Player, n)
	for i := range players {
		p := &Player{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("%c", 'A'+i)}
		if _, err := r.Join(p); err != nil {
			t.Fatalf("join player %d: %v", i, err)
		}
		players[i] = p
	}
	r.owner = players[0]
	return r, players
}

// submitAllGuesses sends one distinct guess per non-drawer and returns
// the ballot request each voter received.
func submitAllGuesses(t *testing.T, r *Room) map[*Player]*BallotRequest {
	t.Helper()
	drawer := r.Drawer()
	ballots := make(map[*Player]*BallotRequest)
	for _, p := range r.Players() {
		if p == drawer {
			continue
		}
		guessSeq++
		notes, err := r.SubmitGuess(p, fmt.Sprintf("guess %d", guessSeq))
		if err != nil {
			t.Fatalf("guess from %s: %v", p.Name, err)
		}
		for _, n := range notes {
			if n.Ballot != nil {
				ballots[n.To] = n.Ballot
			}
		}
	}
	return ballots
}

func TestJoinBounds(t *testing.T) {
	r, _ := newTestRoom(t, MaxPlayers)
	extra := &Player{ID: "extra", Name: "X"}
	if _, err := r.Join(extra); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	if extra.Room() != nil {
		t.Fatal("rejected player must not be attached to the room")
	}
}

func TestStartRequiresThreePlayers(t *testing.T) {
	r, players := newTestRoom(t, 2)
	if _, err := r.Start(players[0]); err != ErrNotEnoughReady {
		t.Fatalf("expected ErrNotEnoughReady, got %v", err)
	}
	if r.Phase() != PhaseWaiting {
		t.Fatalf("failed start must not change phase, got %s", r.Phase())
	}
}

func TestStartRequiresOwner(t *testing.T) {
	r, players := newTestRoom(t, 4)
	if _, err := r.Start(players[1]); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if r.Phase() != PhaseWaiting {
		t.Fatalf("failed start must not change phase, got %s", r.Phase())
	}
}

func TestStartDealsDistinctPrompts(t *testing.T) {
	r, players := newTestRoom(t, 4)
	notes, err := r.Start(players[0])
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(notes) != 4 {
		t.Fatalf("expected one prompt notification per player, got %d", len(notes))
	}
	if r.Phase() != PhaseDrawing {
		t.Fatalf("expected Drawing, got %s", r.Phase())
	}
	if r.roundCount != 2 {
		t.Fatalf("expected 2 rounds for 4 players, got %d", r.roundCount)
	}

	seen := make(map[string]bool)
	for _, p := range players {
		if p.Prompt() == "" {
			t.Fatalf("player %s has no prompt", p.Name)
		}
		if seen[p.Prompt()] {
			t.Fatalf("prompt %q dealt twice", p.Prompt())
		}
		seen[p.Prompt()] = true
	}
}

func TestStartSixPlayersSingleRound(t *testing.T) {
	r, players := newTestRoom(t, 6)
	if _, err := r.Start(players[0]); err != nil {
		t.Fatalf("start: %v", err)
	}
	if r.roundCount != 1 {
		t.Fatalf("expected 1 round for 6 players, got %d", r.roundCount)
	}
}

func TestJoinDuringGameRejected(t *testing.T) {
	r, players := newTestRoom(t, 4)
	if _, err := r.Start(players[0]); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := r.Join(&Player{ID: "late", Name: "L"}); err != ErrRoomNotJoinable {
		t.Fatalf("expected ErrRoomNotJoinable, got %v", err)
	}
}

func TestFinishDrawingOwnerOnly(t *testing.T) {
	r, players := newTestRoom(t, 4)
	if _, err := r.Start(players[0]); err != nil {
		t.Fatalf("start: %v", err)
	}
	var nonOwner *Player
	for _, p := range players {
		if p != r.owner {
			nonOwner = p
			break
		}
	}
	if _, err := r.FinishDrawing(nonOwner); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := r.FinishDrawing(r.owner); err != nil {
		t.Fatalf("finish drawing: %v", err)
	}
	if r.Phase() != PhaseGuessing {
		t.Fatalf("expected Guessing, got %s", r.Phase())
	}
}

// End-to-end drawing cycle with 4 players: guesses, ballots, votes,
// scoring, advancement to the next drawer.
func TestFullDrawingCycle(t *testing.T) {
	r, players := newTestRoom(t, 4)
	if _, err := r.Start(r.owner); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := r.FinishDrawing(r.owner); err != nil {
		t.Fatalf("finish drawing: %v", err)
	}

	drawer := r.Drawer()
	if drawer == nil {
		t.Fatal("no drawer in guessing phase")
	}

	// the drawer cannot guess
	if _, err := r.SubmitGuess(drawer, "self guess"); err != ErrInvalidPhase {
		t.Fatalf("expected ErrInvalidPhase for drawer guess, got %v", err)
	}

	var nonDrawers []*Player
	for _, p := range players {
		if p != drawer {
			nonDrawers = append(nonDrawers, p)
		}
	}

	if _, err := r.SubmitGuess(nonDrawers[0], "first guess"); err != nil {
		t.Fatalf("guess: %v", err)
	}
	// resubmission and duplicate rejection
	if _, err := r.SubmitGuess(nonDrawers[0], "another"); err != ErrAlreadyAnswered {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}
	if _, err := r.SubmitGuess(nonDrawers[1], " FIRST guess "); err != ErrDuplicateAnswer {
		t.Fatalf("expected ErrDuplicateAnswer, got %v", err)
	}

	if _, err := r.SubmitGuess(nonDrawers[1], "second guess"); err != nil {
		t.Fatalf("guess: %v", err)
	}
	if r.Phase() != PhaseGuessing {
		t.Fatalf("phase advanced early, got %s", r.Phase())
	}
	notes, err := r.SubmitGuess(nonDrawers[2], "third guess")
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if r.Phase() != PhaseVoting {
		t.Fatalf("expected Voting after last guess, got %s", r.Phase())
	}

	ballots := make(map[*Player]*BallotRequest)
	for _, n := range notes {
		if n.Ballot != nil {
			ballots[n.To] = n.Ballot
		}
	}
	if len(ballots) != 3 {
		t.Fatalf("expected 3 ballots, got %d", len(ballots))
	}
	if _, ok := ballots[drawer]; ok {
		t.Fatal("drawer must not receive a ballot")
	}
	for _, b := range ballots {
		if len(b.Options) != 3 {
			t.Fatalf("expected 3 options per ballot, got %d", len(b.Options))
		}
	}

	// guessing during voting is a phase error
	if _, err := r.SubmitGuess(nonDrawers[0], "late"); err != ErrInvalidPhase {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}

	scoresBefore := 0
	for _, p := range players {
		scoresBefore += p.Score()
	}

	gs := r.guesses
	voted := 0
	for p, b := range ballots {
		if _, err := r.SubmitVote(p, b.ID, 0); err != nil {
			t.Fatalf("vote from %s: %v", p.Name, err)
		}
		voted++
		if voted == 1 {
			// the first voter cannot change their answer
			if _, err := r.SubmitVote(p, b.ID, 1); err != ErrAlreadyVoted {
				t.Fatalf("expected ErrAlreadyVoted, got %v", err)
			}
		}
	}

	// four players, first drawer done, so guessing continues
	if r.Phase() != PhaseGuessing {
		t.Fatalf("expected Guessing for next drawer, got %s", r.Phase())
	}
	if r.Drawer() == drawer {
		t.Fatal("draw turn did not advance")
	}

	// score conservation over the settled guess set
	decoyVotes, correctVotes := 0, 0
	for _, o := range gs.Decoys() {
		decoyVotes += len(o.Voters)
	}
	correctVotes = len(gs.Correct().Voters)
	want := FooledBonus*decoyVotes + (CorrectGuessBonus+CorrectAuthorBonus)*correctVotes
	scoresAfter := 0
	for _, p := range players {
		scoresAfter += p.Score()
	}
	if scoresAfter-scoresBefore != want {
		t.Fatalf("score delta %d, want %d (decoy votes %d, correct votes %d)",
			scoresAfter-scoresBefore, want, decoyVotes, correctVotes)
	}
}

func playDrawing(t *testing.T, r *Room) {
	t.Helper()
	ballots := submitAllGuesses(t, r)
	for p, b := range ballots {
		if _, err := r.SubmitVote(p, b.ID, 0); err != nil {
			t.Fatalf("vote from %s: %v", p.Name, err)
		}
	}
}

func TestFullGameAndRestart(t *testing.T) {
	r, players := newTestRoom(t, 3)
	if _, err := r.Start(r.owner); err != nil {
		t.Fatalf("start: %v", err)
	}

	// 3 players, 2 rounds of 3 drawings each
	for round := 1; round <= 2; round++ {
		if r.Phase() != PhaseDrawing {
			t.Fatalf("round %d: expected Drawing, got %s", round, r.Phase())
		}
		if r.round != round {
			t.Fatalf("expected round cursor %d, got %d", round, r.round)
		}
		if _, err := r.FinishDrawing(r.owner); err != nil {
			t.Fatalf("finish drawing: %v", err)
		}
		for turn := 0; turn < 3; turn++ {
			if r.Phase() != PhaseGuessing {
				t.Fatalf("round %d turn %d: expected Guessing, got %s", round, turn, r.Phase())
			}
			playDrawing(t, r)
		}
	}

	if r.Phase() != PhaseFinished {
		t.Fatalf("expected Finished, got %s", r.Phase())
	}
	for _, p := range players {
		if p.Score() != 0 {
			t.Fatalf("scores must reset after the cycle, %s has %d", p.Name, p.Score())
		}
	}
	if len(r.CycleLog()) == 0 {
		t.Fatal("finished cycle left no result log")
	}

	// owner gating still applies in Finished
	var nonOwner *Player
	for _, p := range players {
		if p != r.owner {
			nonOwner = p
			break
		}
	}
	if _, err := r.Start(nonOwner); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	// rematch: fresh prompts, zero scores, Drawing again
	oldPrompts := make(map[string]string)
	for _, p := range players {
		oldPrompts[p.ID] = p.Prompt()
	}
	if _, err := r.Start(r.owner); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if r.Phase() != PhaseDrawing {
		t.Fatalf("expected Drawing after restart, got %s", r.Phase())
	}
	if r.round != 1 || r.drawTurn != 0 {
		t.Fatalf("cursors not reset: round %d, drawTurn %d", r.round, r.drawTurn)
	}
	fresh := false
	for _, p := range players {
		if p.Score() != 0 {
			t.Fatalf("restart must reset scores, %s has %d", p.Name, p.Score())
		}
		if p.Prompt() != oldPrompts[p.ID] {
			fresh = true
		}
	}
	if !fresh {
		t.Fatal("restart dealt the identical prompt to every player")
	}
}

func TestLeaveWhileWaiting(t *testing.T) {
	r, players := newTestRoom(t, 4)
	notes, removed, dead := r.Leave(players[0])
	if dead {
		t.Fatal("room with remaining players must survive a lobby leave")
	}
	if len(removed) != 1 || removed[0] != players[0] {
		t.Fatalf("expected only the leaver removed, got %d", len(removed))
	}
	if r.owner != players[1] {
		t.Fatal("ownership must pass to the first remaining player")
	}
	if players[0].Room() != nil {
		t.Fatal("leaver still attached to the room")
	}
	if len(notes) == 0 {
		t.Fatal("leave produced no notifications")
	}
}

func TestLeaveDuringGameDissolvesRoom(t *testing.T) {
	r, players := newTestRoom(t, 4)
	if _, err := r.Start(r.owner); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, removed, dead := r.Leave(players[2])
	if !dead {
		t.Fatal("mid-game leave must dissolve the room")
	}
	if len(removed) != 4 {
		t.Fatalf("expected all 4 players evicted, got %d", len(removed))
	}
	for _, p := range players {
		if p.Room() != nil {
			t.Fatalf("player %s still attached after dissolution", p.Name)
		}
	}
}

// A caller that looked a room up just before it dissolved still holds
// the pointer. Every event on such a room must be rejected cleanly,
// never crash on the emptied roster.
func TestEventsAfterDissolutionRejected(t *testing.T) {
	r, players := newTestRoom(t, 4)
	if _, err := r.Start(r.owner); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := r.FinishDrawing(r.owner); err != nil {
		t.Fatalf("finish drawing: %v", err)
	}
	owner := r.owner
	_, _, dead := r.Leave(players[2])
	if !dead {
		t.Fatal("mid-game leave must dissolve the room")
	}
	if r.Phase() != PhaseClosed {
		t.Fatalf("dissolved room must be closed, got %s", r.Phase())
	}

	if _, err := r.SubmitGuess(players[0], "late guess"); err != ErrInvalidPhase {
		t.Fatalf("expected ErrInvalidPhase for late guess, got %v", err)
	}
	if _, err := r.SubmitVote(players[0], "", 0); err != ErrInvalidPhase {
		t.Fatalf("expected ErrInvalidPhase for late vote, got %v", err)
	}
	if _, err := r.Start(owner); err != ErrInvalidPhase {
		t.Fatalf("expected ErrInvalidPhase for late start, got %v", err)
	}
	if _, err := r.FinishDrawing(owner); err != ErrInvalidPhase {
		t.Fatalf("expected ErrInvalidPhase for late drawing-finished, got %v", err)
	}
	if _, err := r.Join(&Player{ID: "late", Name: "L"}); err != ErrRoomNotJoinable {
		t.Fatalf("expected ErrRoomNotJoinable, got %v", err)
	}
	if r.Drawer() != nil {
		t.Fatal("closed room must have no drawer")
	}
}

func TestLastPlayerLeaveKillsRoom(t *testing.T) {
	r := newRoom(7, testPrompts(t))
	p := &Player{ID: "solo", Name: "S"}
	if _, err := r.Join(p); err != nil {
		t.Fatalf("join: %v", err)
	}
	r.owner = p
	_, _, dead := r.Leave(p)
	if !dead {
		t.Fatal("empty room must die")
	}
}

func TestLeaveUnknownPlayerIsNoop(t *testing.T) {
	r, _ := newTestRoom(t, 3)
	notes, removed, dead := r.Leave(&Player{ID: "ghost", Name: "G"})
	if notes != nil || removed != nil || dead {
		t.Fatal("leaving a room you are not in must be a no-op")
	}
}

func TestRename(t *testing.T) {
	r, players := newTestRoom(t, 3)
	notes := r.Rename(players[1], "Bobby")
	if players[1].Name != "Bobby" {
		t.Fatalf("rename not applied, got %s", players[1].Name)
	}
	if len(notes) != 3 {
		t.Fatalf("expected a broadcast to all 3 players, got %d", len(notes))
	}
}
