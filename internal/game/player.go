package game

import "github.com/google/uuid"

// Player is a seated participant. Players are never removed, only deactivated.
type Player struct {
	ID      uuid.UUID
	Name    string
	Seat    int
	Color   string
	Hand    []Card
	Figures [FiguresPerPlayer]*Figure
	Active  bool
}

func newPlayer(name string, seat int) *Player {
	id, _ := uuid.NewRandom()
	p := &Player{
		ID:     id,
		Name:   name,
		Seat:   seat,
		Color:  seatColors[seat],
		Hand:   []Card{},
		Active: true,
	}
	for i := range p.Figures {
		p.Figures[i] = newFigure(id, seat)
	}
	return p
}

// StartTile is the track tile where this seat's figures enter play.
func (p *Player) StartTile() int { return startTileOf(p.Seat) }

// FinishEntry is the last track tile before the finish lane.
func (p *Player) FinishEntry() int { return finishEntryOf(p.Seat) }

// ownsFigure reports whether f belongs to this player.
func (p *Player) ownsFigure(f *Figure) bool {
	return f != nil && f.Owner == p.ID
}

// finished reports whether every figure reached the finish lane.
func (p *Player) finished() bool {
	for _, f := range p.Figures {
		if !f.inFinish() {
			return false
		}
	}
	return true
}

func (p *Player) homeFigure() *Figure {
	for _, f := range p.Figures {
		if f.atHome() {
			return f
		}
	}
	return nil
}

func (p *Player) positionedFigures() []*Figure {
	var out []*Figure
	for _, f := range p.Figures {
		if !f.atHome() {
			out = append(out, f)
		}
	}
	return out
}
