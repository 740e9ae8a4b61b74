package game

import (
	"sync"

	"github.com/rs/zerolog/log"

	"drawfulbot/internal/prompt"
)

// Registry maps transport identities to live rooms and players and
// routes every inbound event to the owning room. It owns room creation
// and teardown; the per-room mutex serializes everything else.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*Player // identity -> player, while in a room
	rooms   map[int]*Room

	ids     *IDPool
	prompts *prompt.Pool
}

func NewRegistry(ids *IDPool, prompts *prompt.Pool) *Registry {
	return &Registry{
		players: make(map[string]*Player),
		rooms:   make(map[int]*Room),
		ids:     ids,
		prompts: prompts,
	}
}

// CreateRoom opens a new room with the requester as owner.
func (reg *Registry) CreateRoom(identity, name string) ([]Notification, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.players[identity] != nil {
		return nil, ErrAlreadyInRoom
	}
	id, err := reg.ids.Allocate()
	if err != nil {
		return nil, err
	}
	r := newRoom(id, reg.prompts)
	p := &Player{ID: identity, Name: name}
	notes, err := r.Join(p)
	if err != nil {
		reg.ids.Release(id)
		return nil, err
	}
	r.owner = p
	reg.rooms[id] = r
	reg.players[identity] = p
	log.Info().Int("room", id).Str("player", identity).Msg("room created")
	return notes, nil
}

// JoinRoom adds the requester to an existing room.
func (reg *Registry) JoinRoom(identity, name string, roomID int) ([]Notification, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.players[identity] != nil {
		return nil, ErrAlreadyInRoom
	}
	r := reg.rooms[roomID]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	p := &Player{ID: identity, Name: name}
	notes, err := r.Join(p)
	if err != nil {
		return nil, err
	}
	reg.players[identity] = p
	log.Info().Int("room", roomID).Str("player", identity).Msg("player joined")
	return notes, nil
}

// LeaveRoom removes the requester from their room, tearing the room
// down when it empties or when the departure breaks an active game.
// Leaving while not in any room is a reported no-op.
func (reg *Registry) LeaveRoom(identity string) ([]Notification, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	p := reg.players[identity]
	if p == nil || p.room == nil {
		return nil, ErrRoomNotFound
	}
	r := p.room
	notes, removed, dead := r.Leave(p)
	for _, m := range removed {
		delete(reg.players, m.ID)
	}
	if dead {
		delete(reg.rooms, r.id)
		reg.ids.Release(r.id)
		log.Info().Int("room", r.id).Msg("room torn down")
	}
	return notes, nil
}

func (reg *Registry) StartGame(identity string) ([]Notification, error) {
	p, r, err := reg.lookup(identity)
	if err != nil {
		return nil, err
	}
	return r.Start(p)
}

func (reg *Registry) DrawingFinished(identity string) ([]Notification, error) {
	p, r, err := reg.lookup(identity)
	if err != nil {
		return nil, err
	}
	return r.FinishDrawing(p)
}

func (reg *Registry) SubmitGuess(identity, text string) ([]Notification, error) {
	p, r, err := reg.lookup(identity)
	if err != nil {
		return nil, err
	}
	return r.SubmitGuess(p, text)
}

func (reg *Registry) SubmitVote(identity, ballotID string, optionIndex int) ([]Notification, error) {
	p, r, err := reg.lookup(identity)
	if err != nil {
		return nil, err
	}
	return r.SubmitVote(p, ballotID, optionIndex)
}

func (reg *Registry) Rename(identity, name string) ([]Notification, error) {
	p, r, err := reg.lookup(identity)
	if err != nil {
		return nil, err
	}
	return r.Rename(p, name), nil
}

// Room returns the live room for an id, if any.
func (reg *Registry) Room(id int) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[id]
}

// PlayerRoom returns the room an identity currently belongs to.
func (reg *Registry) PlayerRoom(identity string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if p := reg.players[identity]; p != nil {
		return p.room
	}
	return nil
}

// Rooms returns a snapshot of all live rooms.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// HardReset drops every room and player and reclaims all identifiers.
// Restricted to a privileged identity at the transport layer.
func (reg *Registry) HardReset() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, p := range reg.players {
		p.room = nil
	}
	reg.players = make(map[string]*Player)
	reg.rooms = make(map[int]*Room)
	reg.ids.ReleaseAll()
	log.Warn().Msg("hard reset: all rooms and players dropped")
}

func (reg *Registry) lookup(identity string) (*Player, *Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	p := reg.players[identity]
	if p == nil || p.room == nil {
		return nil, nil, ErrNotInRoom
	}
	return p, p.room, nil
}
