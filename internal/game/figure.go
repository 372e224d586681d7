package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Zone is the tri-state location of a figure.
type Zone uint8

const (
	ZoneHome   Zone = iota // not yet in play
	ZoneTrack              // on the shared main track
	ZoneFinish             // in the owner's finish lane
)

func (z Zone) String() string {
	switch z {
	case ZoneTrack:
		return "track"
	case ZoneFinish:
		return "finish"
	default:
		return "home"
	}
}

// Position is where a figure stands. Index is a track tile for ZoneTrack and a
// lane slot for ZoneFinish; it is ignored at home.
type Position struct {
	Zone  Zone
	Index int
}

// Home is the position of a figure that is not in play.
var Home = Position{Zone: ZoneHome}

// Track returns the main-track position n (wrapped onto the ring).
func Track(n int) Position { return Position{Zone: ZoneTrack, Index: mod(n, TrackLength)} }

// FinishLane returns finish slot k.
func FinishLane(k int) Position { return Position{Zone: ZoneFinish, Index: k} }

func (p Position) String() string {
	if p.Zone == ZoneHome {
		return "home"
	}
	return fmt.Sprintf("%s(%d)", p.Zone, p.Index)
}

// Figure is one playable token. Owner is a plain id, not a back-pointer.
type Figure struct {
	ID    uuid.UUID
	Owner uuid.UUID
	Seat  int
	Color string
	Pos   Position
}

func newFigure(owner uuid.UUID, seat int) *Figure {
	id, _ := uuid.NewRandom()
	return &Figure{ID: id, Owner: owner, Seat: seat, Color: seatColors[seat], Pos: Home}
}

// StartTile is the safe tile of the figure's seat.
func (f *Figure) StartTile() int { return startTileOf(f.Seat) }

// OnOwnStart reports whether the figure is standing on its own safe start tile.
func (f *Figure) OnOwnStart() bool {
	return f.Pos.Zone == ZoneTrack && f.Pos.Index == f.StartTile()
}

func (f *Figure) atHome() bool   { return f.Pos.Zone == ZoneHome }
func (f *Figure) onTrack() bool  { return f.Pos.Zone == ZoneTrack }
func (f *Figure) inFinish() bool { return f.Pos.Zone == ZoneFinish }

// progress is the distance travelled from the seat's start tile; finish slots rank ahead of the track.
func (f *Figure) progress() int {
	switch f.Pos.Zone {
	case ZoneTrack:
		return mod(f.Pos.Index-f.StartTile(), TrackLength)
	case ZoneFinish:
		return TrackLength + f.Pos.Index
	default:
		return -1
	}
}

func startTileOf(seat int) int   { return mod(seat*SeatSpacing, TrackLength) }
func finishEntryOf(seat int) int { return mod(startTileOf(seat)-1, TrackLength) }
