package game

// Player is one participant. ID is the stable identity supplied by the
// transport (a chat/user id); it never changes across rooms. Name is
// whatever the player last called themselves and carries no uniqueness
// guarantee.
type Player struct {
	ID   string
	Name string

	room            *Room
	score           int
	prompt          string
	finishedDrawing bool
}

func (p *Player) Room() *Room    { return p.room }
func (p *Player) Score() int     { return p.score }
func (p *Player) Prompt() string { return p.prompt }

func (p *Player) IsOwner() bool {
	return p.room != nil && p.room.owner == p
}
