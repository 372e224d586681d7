// internal/game/moves.go
package game

import (
	"sort"

	"github.com/google/uuid"
)

// movePlan is a computed move that has not been applied yet.
type movePlan struct {
	fig  *Figure
	to   Position
	path []Position // intermediate slots in walking order, excluding start and destination
}

// planMove computes where f lands after steps and which slots it walks over.
// Negative steps walk backwards on the main track and never enter the finish lane.
func (g *Game) planMove(f *Figure, steps int) (movePlan, error) {
	if steps == 0 {
		return movePlan{}, invalidf("a move needs at least one step")
	}
	plan := movePlan{fig: f}
	switch f.Pos.Zone {
	case ZoneHome:
		return movePlan{}, invalidf("figure is not on the board")

	case ZoneFinish:
		k := f.Pos.Index
		if steps < 0 {
			return movePlan{}, invalidf("figures in the finish lane cannot move backwards")
		}
		if k+steps >= FiguresPerPlayer {
			return movePlan{}, invalidf("cannot move beyond the finishing area")
		}
		for i := k + 1; i < k+steps; i++ {
			plan.path = append(plan.path, FinishLane(i))
		}
		plan.to = FinishLane(k + steps)

	case ZoneTrack:
		n := f.Pos.Index
		if steps < 0 {
			for i := 1; i < -steps; i++ {
				plan.path = append(plan.path, Track(n-i))
			}
			plan.to = Track(n + steps)
			break
		}
		toEntry := mod(finishEntryOf(f.Seat)-n, TrackLength)
		if steps <= toEntry {
			for i := 1; i < steps; i++ {
				plan.path = append(plan.path, Track(n+i))
			}
			plan.to = Track(n + steps)
			break
		}
		k := steps - toEntry - 1 // finish slot reached after stepping off the entry tile
		if k >= FiguresPerPlayer {
			return movePlan{}, invalidf("cannot move %d slots past the finish entry", k)
		}
		for i := 1; i <= toEntry; i++ {
			plan.path = append(plan.path, Track(n+i))
		}
		for i := 0; i < k; i++ {
			plan.path = append(plan.path, FinishLane(i))
		}
		plan.to = FinishLane(k)
	}

	for _, pos := range plan.path {
		occ := g.occupant(f.Seat, pos)
		if occ == nil {
			continue
		}
		if pos.Zone == ZoneFinish {
			return movePlan{}, invalidf("cannot jump over a figure in the finish lane")
		}
		if occ.OnOwnStart() {
			return movePlan{}, invalidf("path blocked by a figure on its start tile %d", pos.Index)
		}
	}
	return plan, nil
}

// landing validates the destination and returns the figure that would be captured, if any.
func (g *Game) landing(plan movePlan) (*Figure, error) {
	occ := g.occupant(plan.fig.Seat, plan.to)
	switch {
	case occ == nil:
		return nil, nil
	case occ.OnOwnStart():
		return nil, invalidf("cannot land on a figure guarding its start tile")
	case occ.Seat == plan.fig.Seat:
		return nil, invalidf("cannot move to a field occupied by your own figure")
	}
	return occ, nil
}

// legalMove reports whether f could move by steps right now.
func (g *Game) legalMove(f *Figure, steps int) bool {
	plan, err := g.planMove(f, steps)
	if err != nil {
		return false
	}
	_, err = g.landing(plan)
	return err == nil
}

// moveFigure moves f by steps, capturing an opponent on the destination.
func (g *Game) moveFigure(f *Figure, steps int) error {
	plan, err := g.planMove(f, steps)
	if err != nil {
		return err
	}
	captured, err := g.landing(plan)
	if err != nil {
		return err
	}
	if captured != nil {
		g.log.Debugf("Figure %s captured figure %s on %s.", f.ID, captured.ID, plan.to)
		g.sendHome(captured)
	}
	g.relocate(f, plan.to)
	return nil
}

// moveAndBurn is moveFigure for the burn split: every figure standing on the
// walked track tiles goes home as well. Guards on a start tile already failed
// planMove, so nothing is mutated when the path is blocked. It returns the
// figures sent home and does not log, since legality checks run it too.
func (g *Game) moveAndBurn(f *Figure, steps int) ([]*Figure, error) {
	plan, err := g.planMove(f, steps)
	if err != nil {
		return nil, err
	}
	captured, err := g.landing(plan)
	if err != nil {
		return nil, err
	}
	sent := g.burnedBy(plan)
	for _, burned := range sent {
		g.sendHome(burned)
	}
	if captured != nil {
		g.sendHome(captured)
		sent = append(sent, captured)
	}
	g.relocate(f, plan.to)
	return sent, nil
}

// burnedBy lists the figures on the walked track tiles of plan.
func (g *Game) burnedBy(plan movePlan) []*Figure {
	var out []*Figure
	for _, pos := range plan.path {
		if pos.Zone != ZoneTrack {
			continue
		}
		if occ := g.occupant(plan.fig.Seat, pos); occ != nil {
			out = append(out, occ)
		}
	}
	return out
}

// startFigure places a home figure on its seat's start tile.
func (g *Game) startFigure(p *Player, f *Figure) error {
	if !f.atHome() {
		return invalidf("this figure is already in play")
	}
	start := Track(p.StartTile())
	if g.occupant(p.Seat, start) != nil {
		return invalidf("the start tile is currently blocked")
	}
	g.relocate(f, start)
	return nil
}

// swapFigures exchanges two figures on the main track.
func (g *Game) swapFigures(a, b *Figure) error {
	switch {
	case a == b:
		return invalidf("cannot swap a figure with itself")
	case !a.onTrack() || !b.onTrack():
		return invalidf("figures at home or in the finish lane cannot be swapped")
	case a.OnOwnStart() || b.OnOwnStart():
		return invalidf("a figure on its start tile cannot be swapped")
	}
	pa, pb := a.Pos, b.Pos
	a.Pos, b.Pos = pb, pa
	g.occupancy[slotAt(a.Seat, a.Pos)] = a
	g.occupancy[slotAt(b.Seat, b.Pos)] = b
	return nil
}

// splitMove applies a burn split. Moves run front figure first so the result
// does not depend on the order the caller listed them in.
func (g *Game) splitMove(p *Player, moves []SplitMove) ([]*Figure, error) {
	if len(moves) == 0 {
		return nil, invalidf("a list of moves must be provided for the burn split")
	}
	type resolved struct {
		fig   *Figure
		steps int
	}
	var (
		total int
		seen  = make(map[uuid.UUID]bool, len(moves))
		todo  = make([]resolved, 0, len(moves))
	)
	for _, m := range moves {
		if m.Steps < 0 {
			return nil, invalidf("split steps must not be negative")
		}
		if seen[m.FigureID] {
			return nil, invalidf("figure %s listed twice", m.FigureID)
		}
		seen[m.FigureID] = true
		f, err := g.ownFigure(p, m.FigureID)
		if err != nil {
			return nil, err
		}
		if f.atHome() {
			return nil, invalidf("figure %s is not on the board", f.ID)
		}
		total += m.Steps
		if m.Steps > 0 {
			todo = append(todo, resolved{fig: f, steps: m.Steps})
		}
	}
	if total != BurnSplitTotalSteps {
		return nil, invalidf("the steps of all moves must sum to %d, got %d", BurnSplitTotalSteps, total)
	}
	sort.SliceStable(todo, func(i, j int) bool {
		return todo[i].fig.progress() > todo[j].fig.progress()
	})
	var sent []*Figure
	for _, m := range todo {
		out, err := g.moveAndBurn(m.fig, m.steps)
		if err != nil {
			return nil, err
		}
		sent = append(sent, out...)
	}
	return sent, nil
}
