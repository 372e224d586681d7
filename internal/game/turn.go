// internal/game/turn.go
package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// PlayCard plays the card at cardIndex of the player's hand. On error nothing changed,
// except for ErrStaleTurn: the elapsed turn was passed and the returned events must
// still be delivered.
func (g *Game) PlayCard(playerID uuid.UUID, cardIndex int, a Action, now time.Time) ([]Event, error) {
	p, evs, err := g.checkTurn(playerID, now)
	if err != nil {
		return evs, err
	}
	if cardIndex < 0 || cardIndex >= len(p.Hand) {
		return nil, invalidf("card index %d is out of bounds (hand size %d)", cardIndex, len(p.Hand))
	}
	card := p.Hand[cardIndex]

	snap := g.snapshot()
	if err := card.Play(g, p, a); err != nil {
		g.restore(snap)
		g.log.Debugf("Player %s failed to play %s: %v", p.ID, card.Name(), err)
		return nil, err
	}

	p.Hand = slices.Delete(p.Hand, cardIndex, cardIndex+1)
	g.Deck.DiscardCard(card)
	g.LastPlayedCard = card
	g.LastActivityTime = now
	g.log.Infof("Player %s played %s.", p.ID, card.Name())

	if !g.checkWin(now) {
		g.finishTurn(now)
	}
	return g.drain(), nil
}

// PassTurn discards the current player's hand and hands the turn on.
func (g *Game) PassTurn(playerID uuid.UUID, now time.Time) ([]Event, error) {
	p, evs, err := g.checkTurn(playerID, now)
	if err != nil {
		return evs, err
	}
	g.LastActivityTime = now
	g.log.Infof("Player %s passed.", p.ID)
	g.discardHand(p)
	g.finishTurn(now)
	return g.drain(), nil
}

// CheckTimeout passes the current turn if it ran longer than the turn duration.
// It returns nil when nothing happened.
func (g *Game) CheckTimeout(now time.Time) []Event {
	if !g.Started || g.Over || g.Closed {
		return nil
	}
	if now.Sub(g.TurnStartTime) <= g.Settings.TurnDuration {
		return nil
	}
	p := g.CurrentPlayer()
	g.log.Infof("Turn %d: player %s timed out.", g.TurnID, p.ID)
	g.discardHand(p)
	g.finishTurn(now)
	return g.drain()
}

// TurnDeadline is when the current turn times out.
func (g *Game) TurnDeadline() time.Time {
	return g.TurnStartTime.Add(g.Settings.TurnDuration)
}

// checkTurn runs the shared turn-protocol checks for a player action.
func (g *Game) checkTurn(playerID uuid.UUID, now time.Time) (*Player, []Event, error) {
	if err := g.checkOpen(); err != nil {
		return nil, nil, err
	}
	if g.Over {
		return nil, nil, invalidf("the game is over")
	}
	if !g.Started {
		return nil, nil, invalidf("the game has not started")
	}
	if evs := g.CheckTimeout(now); evs != nil {
		return nil, evs, fmt.Errorf("%w: the turn was passed automatically", ErrStaleTurn)
	}
	p, ok := g.PlayerByID(playerID)
	if !ok {
		return nil, nil, notFoundf("player %s", playerID)
	}
	if !p.Active {
		return nil, nil, invalidf("player %s was removed from the game", playerID)
	}
	if g.CurrentPlayer() != p {
		return nil, nil, invalidf("it is not your turn")
	}
	return p, nil, nil
}

func (g *Game) discardHand(p *Player) {
	for _, c := range p.Hand {
		g.Deck.DiscardCard(c)
	}
	p.Hand = []Card{}
}

// roundComplete reports whether every active player has played out their hand.
func (g *Game) roundComplete() bool {
	for _, p := range g.Players {
		if p.Active && len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// finishTurn hands the turn to the next active seat, or starts the next round.
func (g *Game) finishTurn(now time.Time) {
	if g.Over {
		return
	}
	if g.roundComplete() {
		g.startNextRound(now)
	} else if err := g.advanceSeat(); err != nil {
		g.endGame(now, uuid.Nil)
		return
	}
	g.openTurn(now)
}

// openTurn resets the turn clock and skips every player who cannot move.
// Skipping is bounded: a full lap of skips forces a new round, and after
// maxForcedRoundsPerOp rounds the turn is left open for the timeout to resolve.
func (g *Game) openTurn(now time.Time) {
	g.TurnID++
	g.TurnStartTime = now
	skips, rounds := 0, 0
	for !g.Over {
		cur := g.CurrentPlayer()
		if g.HasAnyValidMove(cur) {
			return
		}
		if rounds >= maxForcedRoundsPerOp {
			g.log.Warnf("Turn %d: no playable card after %d dealt rounds; waiting for timeout.", g.TurnID, rounds)
			return
		}
		g.log.Debugf("Turn %d: player %s has no valid move, skipping.", g.TurnID, cur.ID)
		g.discardHand(cur)
		skips++
		if g.roundComplete() || skips >= g.activeCount() {
			g.startNextRound(now)
			rounds++
			skips = 0
			continue
		}
		if err := g.advanceSeat(); err != nil {
			g.endGame(now, uuid.Nil)
			return
		}
	}
}

// startNextRound collects leftover hands, deals the next round and picks its first seat.
func (g *Game) startNextRound(now time.Time) {
	for _, p := range g.Players {
		g.discardHand(p)
	}
	g.RoundNumber++
	first, err := g.nextActiveFrom(mod(g.RoundNumber-1, len(g.Players)))
	if err != nil {
		g.endGame(now, uuid.Nil)
		return
	}
	if err := g.Deck.Deal(g.activePlayers(), g.RoundNumber); err != nil {
		g.log.Errorf("Round %d: dealing failed: %v", g.RoundNumber, err)
		g.endGame(now, uuid.Nil)
		return
	}
	g.CurrentPlayerIndex = first
	g.log.Infof("Round %d started. Dealt %d cards, seat %d begins.", g.RoundNumber, CardsPerRound(g.RoundNumber), first)
}

// advanceSeat moves the turn to the next active seat after the current one.
func (g *Game) advanceSeat() error {
	next, err := g.nextActiveFrom(g.CurrentPlayerIndex + 1)
	if err != nil {
		return err
	}
	g.CurrentPlayerIndex = next
	return nil
}

// nextActiveFrom returns the first active seat at or after start, wrapping around.
func (g *Game) nextActiveFrom(start int) (int, error) {
	n := len(g.Players)
	for i := 0; i < n; i++ {
		idx := mod(start+i, n)
		if g.Players[idx].Active {
			return idx, nil
		}
	}
	return 0, ErrNoActivePlayers
}

// checkWin ends the game if some player has all figures in the finish lane.
func (g *Game) checkWin(now time.Time) bool {
	for _, p := range g.Players {
		if p.Active && p.finished() {
			g.endGame(now, p.ID)
			return true
		}
	}
	return false
}

// endGame is terminal. A nil winner means no active seat was left.
func (g *Game) endGame(now time.Time, winner uuid.UUID) {
	if g.Over {
		return
	}
	g.Over = true
	g.EndedAt = now
	g.WinnerID = winner
	ev := Event{Type: EventGameOver, GameID: g.ID}
	if winner != uuid.Nil {
		w := winner
		ev.Winner = &w
		g.log.Infof("Game over. Winner: %s.", winner)
	} else {
		g.log.Infof("Game over. No active players left.")
	}
	g.emit(ev)
}

// Tick is the poll entry point. It resolves an elapsed turn and reports whether the
// game should be removed, because it sat idle too long or finished past its grace.
// An expired game is marked Closed and every later operation fails with ErrNotFound.
func (g *Game) Tick(now time.Time) ([]Event, bool) {
	if g.Closed {
		return nil, true
	}
	if g.Over {
		if now.Sub(g.EndedAt) > g.Settings.FinishedGrace {
			return g.close(CloseReasonFinished), true
		}
		return nil, false
	}
	if now.Sub(g.LastActivityTime) > g.Settings.InactivityTimeout {
		return g.close(CloseReasonInactivity), true
	}
	return g.CheckTimeout(now), false
}

// Close marks the game removed, e.g. on server shutdown.
func (g *Game) Close(reason string) []Event {
	if g.Closed {
		return nil
	}
	return g.close(reason)
}

func (g *Game) close(reason string) []Event {
	g.Closed = true
	g.log.Infof("Game closed (%s).", reason)
	evs := append(g.pending, ClosedEvent(g.ID, reason))
	g.pending = nil
	return evs
}
