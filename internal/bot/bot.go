// Package bot translates chat-gateway updates into game events and
// game notifications back into chat messages and polls. It is thin by
// design: all rules live in the game package.
package bot

import (
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"drawfulbot/internal/game"
)

type Bot struct {
	reg      *game.Registry
	send     Sender
	exporter *game.Exporter // nil disables export
	adminID  string

	mu         sync.Mutex
	polls      map[string]pollRef // transport poll id -> outstanding ballot
	activePoll map[string]string  // identity -> their latest poll id
}

type pollRef struct {
	identity string
	ballotID string
}

func New(reg *game.Registry, send Sender, exporter *game.Exporter, adminID string) *Bot {
	return &Bot{
		reg:        reg,
		send:       send,
		exporter:   exporter,
		adminID:    adminID,
		polls:      make(map[string]pollRef),
		activePoll: make(map[string]string),
	}
}

// HandleMessage routes one incoming text message. Commands start with
// a slash; anything else is a guess while the player's room is in the
// guessing phase.
func (b *Bot) HandleMessage(identity, name, msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	if name == "" {
		name = "player " + identity
	}

	if !strings.HasPrefix(msg, "/") {
		b.dispatch(identity, func() ([]game.Notification, error) {
			return b.reg.SubmitGuess(identity, msg)
		})
		return
	}

	cmd, arg, _ := strings.Cut(msg[1:], " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "new", "newroom":
		b.dispatch(identity, func() ([]game.Notification, error) {
			return b.reg.CreateRoom(identity, name)
		})
	case "join":
		roomID, err := strconv.Atoi(arg)
		if err != nil {
			b.notice(identity, "Usage: /join <room id>")
			return
		}
		b.dispatch(identity, func() ([]game.Notification, error) {
			return b.reg.JoinRoom(identity, name, roomID)
		})
	case "leave":
		b.dispatch(identity, func() ([]game.Notification, error) {
			return b.reg.LeaveRoom(identity)
		})
	case "start":
		b.dispatch(identity, func() ([]game.Notification, error) {
			return b.reg.StartGame(identity)
		})
	case "done":
		b.dispatch(identity, func() ([]game.Notification, error) {
			return b.reg.DrawingFinished(identity)
		})
	case "name":
		if arg == "" {
			b.notice(identity, "Usage: /name <new name>")
			return
		}
		b.dispatch(identity, func() ([]game.Notification, error) {
			return b.reg.Rename(identity, arg)
		})
	case "reset":
		if identity != b.adminID || b.adminID == "" {
			b.notice(identity, "Unknown command. "+helpText)
			return
		}
		b.reg.HardReset()
		b.clearPolls()
		b.notice(identity, "All rooms cleared.")
	case "help":
		b.notice(identity, helpText)
	default:
		b.notice(identity, "Unknown command. "+helpText)
	}
}

// HandlePollAnswer routes one poll vote back to the game, using the
// recorded poll id to find the ballot it belongs to.
func (b *Bot) HandlePollAnswer(identity, pollID string, option int) {
	b.mu.Lock()
	ref, ok := b.polls[pollID]
	b.mu.Unlock()
	if !ok || ref.identity != identity {
		log.Debug().Str("poll", pollID).Str("player", identity).Msg("vote for unknown poll ignored")
		return
	}
	ok = b.dispatch(identity, func() ([]game.Notification, error) {
		return b.reg.SubmitVote(identity, ref.ballotID, option)
	})
	if !ok {
		return
	}
	// The vote settled, the poll is done. The next ballot for this
	// player may already be registered, so only drop the reverse entry
	// if it still points here.
	b.mu.Lock()
	delete(b.polls, pollID)
	if b.activePoll[identity] == pollID {
		delete(b.activePoll, identity)
	}
	b.mu.Unlock()
}

// dispatch runs one game operation, reports its error to the sender as
// a notice, and delivers its notifications. When the operation ends a
// game cycle the results are exported. Reports whether the operation
// was accepted.
func (b *Bot) dispatch(identity string, op func() ([]game.Notification, error)) bool {
	room := b.reg.PlayerRoom(identity)
	var prePhase game.Phase
	if room != nil {
		prePhase = room.Phase()
	}
	notes, err := op()
	if err != nil {
		b.notice(identity, noticeFor(err))
		return false
	}
	b.deliver(notes)
	if room == nil {
		room = b.reg.PlayerRoom(identity)
	}
	if b.exporter != nil && room != nil &&
		room.Phase() == game.PhaseFinished && prePhase != game.PhaseFinished {
		if err := b.exporter.WriteCycle(room); err != nil {
			log.Warn().Err(err).Int("room", room.ID()).Msg("result export failed")
		}
	}
	return true
}

func (b *Bot) deliver(notes []game.Notification) {
	for _, n := range notes {
		if n.Ballot != nil {
			pollID, err := b.send.SendPoll(n.To.ID, n.Ballot.Question, n.Ballot.Options)
			if err != nil {
				log.Warn().Err(err).Str("to", n.To.ID).Msg("poll delivery failed")
				continue
			}
			b.mu.Lock()
			// a newer ballot supersedes whatever poll this player
			// still had open
			if old, ok := b.activePoll[n.To.ID]; ok {
				delete(b.polls, old)
			}
			b.polls[pollID] = pollRef{identity: n.To.ID, ballotID: n.Ballot.ID}
			b.activePoll[n.To.ID] = pollID
			b.mu.Unlock()
			continue
		}
		if err := b.send.SendText(n.To.ID, n.Text); err != nil {
			log.Warn().Err(err).Str("to", n.To.ID).Msg("message delivery failed")
		}
	}
}

func (b *Bot) notice(identity, text string) {
	if err := b.send.SendText(identity, text); err != nil {
		log.Warn().Err(err).Str("to", identity).Msg("notice delivery failed")
	}
}

func (b *Bot) clearPolls() {
	b.mu.Lock()
	b.polls = make(map[string]pollRef)
	b.activePoll = make(map[string]string)
	b.mu.Unlock()
}
