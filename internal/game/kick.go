package game

import (
	"time"

	"github.com/google/uuid"
)

// VoteKick records voterID's vote against the player in targetSeat. Once more than
// half of the other active players agree, the target is deactivated: their figures
// go home, their hand is discarded and the turn moves on if they held it.
func (g *Game) VoteKick(voterID uuid.UUID, targetSeat int, now time.Time) ([]Event, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	if !g.Started {
		return nil, invalidf("the game has not started")
	}
	if g.Over {
		return nil, invalidf("the game is over")
	}
	voter, ok := g.PlayerByID(voterID)
	if !ok {
		return nil, notFoundf("player %s", voterID)
	}
	if !voter.Active {
		return nil, invalidf("removed players cannot vote")
	}
	if targetSeat < 0 || targetSeat >= len(g.Players) {
		return nil, notFoundf("seat %d", targetSeat)
	}
	target := g.Players[targetSeat]
	if !target.Active {
		return nil, invalidf("player in seat %d was already removed", targetSeat)
	}
	if target == voter {
		return nil, invalidf("you cannot vote to kick yourself")
	}

	votes := g.kickVotes[targetSeat]
	if votes == nil {
		votes = make(map[uuid.UUID]struct{})
		g.kickVotes[targetSeat] = votes
	}
	votes[voterID] = struct{}{}
	g.LastActivityTime = now
	g.log.Infof("Player %s voted to kick seat %d (%d vote(s)).", voterID, targetSeat, len(votes))

	if 2*len(votes) <= g.activeCount()-1 {
		return g.drain(), nil
	}
	g.kick(target, now)
	return g.drain(), nil
}

// KickVotes returns the number of votes against the player in seat.
func (g *Game) KickVotes(seat int) int {
	return len(g.kickVotes[seat])
}

func (g *Game) kick(target *Player, now time.Time) {
	g.log.Infof("Player %s (seat %d) was kicked.", target.ID, target.Seat)
	target.Active = false
	for _, f := range target.Figures {
		g.sendHome(f)
	}
	g.discardHand(target)
	delete(g.kickVotes, target.Seat)
	for _, votes := range g.kickVotes {
		delete(votes, target.ID)
	}

	if g.activeCount() == 0 {
		g.endGame(now, uuid.Nil)
		return
	}
	if g.CurrentPlayer() != target {
		return
	}
	g.finishTurn(now)
}
