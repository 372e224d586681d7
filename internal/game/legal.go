package game

// HasAnyValidMove reports whether p can play at least one card in hand.
// False means passing is the only thing left to do.
func (g *Game) HasAnyValidMove(p *Player) bool {
	for _, c := range p.Hand {
		if g.CanPlay(p, c) {
			return true
		}
	}
	return false
}

// CanPlay reports whether p has at least one legal use of c.
func (g *Game) CanPlay(p *Player, c Card) bool {
	switch cc := c.(type) {
	case WildcardCard:
		return true
	case BurnSplitCard:
		return g.canSplit(p)
	case NumberCard:
		return g.canMoveAny(p, cc.Value)
	case FlexCard:
		return g.canMoveAny(p, FlexSteps) || g.canMoveAny(p, -FlexSteps)
	case StartCard:
		if g.canStart(p) {
			return true
		}
		for _, v := range cc.MoveValues {
			if g.canMoveAny(p, v) {
				return true
			}
		}
		return false
	case SwapCard:
		return g.canSwap(p)
	}
	return false
}

func (g *Game) canMoveAny(p *Player, steps int) bool {
	for _, f := range p.Figures {
		if !f.atHome() && g.legalMove(f, steps) {
			return true
		}
	}
	return false
}

func (g *Game) canStart(p *Player) bool {
	return p.homeFigure() != nil && g.occupant(p.Seat, Track(p.StartTile())) == nil
}

func (g *Game) canSwap(p *Player) bool {
	own, other := false, false
	for _, q := range g.Players {
		for _, f := range q.Figures {
			if !f.onTrack() || f.OnOwnStart() {
				continue
			}
			if q.ID == p.ID {
				own = true
			} else {
				other = true
			}
		}
	}
	return own && other
}

// canSplit tries every way of spreading seven steps over p's positioned figures.
// Each attempt runs the real split and is rolled back afterwards.
func (g *Game) canSplit(p *Player) bool {
	figs := p.positionedFigures()
	if len(figs) == 0 {
		return false
	}
	if len(figs) > FiguresPerPlayer {
		figs = figs[:FiguresPerPlayer]
	}
	snap := g.snapshot()
	found := false
	forEachComposition(BurnSplitTotalSteps, len(figs), func(parts []int) bool {
		moves := make([]SplitMove, len(figs))
		for i, f := range figs {
			moves[i] = SplitMove{FigureID: f.ID, Steps: parts[i]}
		}
		_, err := g.splitMove(p, moves)
		g.restore(snap)
		found = err == nil
		return !found
	})
	return found
}

// forEachComposition calls fn with every way of writing total as an ordered sum
// of k non-negative parts, stopping early when fn returns false.
func forEachComposition(total, k int, fn func(parts []int) bool) {
	parts := make([]int, k)
	var rec func(i, left int) bool
	rec = func(i, left int) bool {
		if i == k-1 {
			parts[i] = left
			return fn(parts)
		}
		for v := 0; v <= left; v++ {
			parts[i] = v
			if !rec(i+1, left-v) {
				return false
			}
		}
		return true
	}
	if k > 0 {
		rec(0, total)
	}
}
