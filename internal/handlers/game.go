// internal/handlers/game.go
package handlers

import (
	"net/http"

	"github.com/catboard/cat/internal/game"
	"github.com/google/uuid"
)

type playCardRequest struct {
	PlayerID      uuid.UUID   `json:"player_id"`
	CardIndex     int         `json:"card_index"`
	ActionDetails game.Action `json:"action_details"`
}

type playerRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
}

type voteKickRequest struct {
	VoterID    uuid.UUID `json:"voter_id"`
	TargetSeat int       `json:"target_seat"`
}

// runAction applies op to the game named in the path and answers with the game
// as seen by viewer. Events are broadcast even when op fails with a stale turn.
func runAction(gs *GameServer, w http.ResponseWriter, r *http.Request, viewer uuid.UUID,
	op func(g *game.Game) ([]game.Event, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var (
		view game.GameView
		err  error
	)
	found := gs.withGame(id, func(g *game.Game) []game.Event {
		var evs []game.Event
		evs, err = op(g)
		view = g.View(viewer)
		return evs
	})
	if !found {
		gameNotFound(w)
		return
	}
	if err != nil {
		gs.Logger.Debugf("Action on game %s rejected: %v", id, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// StartGameHandler deals the first round.
func StartGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if !decodeBody(r, &req) {
			http.Error(w, "bad start request payload", http.StatusBadRequest)
			return
		}
		runAction(gs, w, r, req.PlayerID, func(g *game.Game) ([]game.Event, error) {
			return g.Start(gs.Now())
		})
	}
}

// GameStateHandler returns the game as seen by the player_id query parameter.
func GameStateHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		viewer, _ := uuid.Parse(r.URL.Query().Get("player_id"))
		g, ok := gs.GameStore.GetGame(id)
		if !ok {
			gameNotFound(w)
			return
		}
		g.Mu.Lock()
		closed := g.Closed
		view := g.View(viewer)
		g.Mu.Unlock()
		if closed {
			gameNotFound(w)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// PlayCardHandler plays one card from the player's hand.
func PlayCardHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playCardRequest
		if !decodeBody(r, &req) {
			http.Error(w, "bad play request payload", http.StatusBadRequest)
			return
		}
		runAction(gs, w, r, req.PlayerID, func(g *game.Game) ([]game.Event, error) {
			return g.PlayCard(req.PlayerID, req.CardIndex, req.ActionDetails, gs.Now())
		})
	}
}

// PassTurnHandler gives up the rest of the player's hand.
func PassTurnHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if !decodeBody(r, &req) {
			http.Error(w, "bad pass request payload", http.StatusBadRequest)
			return
		}
		runAction(gs, w, r, req.PlayerID, func(g *game.Game) ([]game.Event, error) {
			return g.PassTurn(req.PlayerID, gs.Now())
		})
	}
}

// VoteKickHandler records a kick vote.
func VoteKickHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req voteKickRequest
		if !decodeBody(r, &req) {
			http.Error(w, "bad kick request payload", http.StatusBadRequest)
			return
		}
		runAction(gs, w, r, req.VoterID, func(g *game.Game) ([]game.Event, error) {
			return g.VoteKick(req.VoterID, req.TargetSeat, gs.Now())
		})
	}
}
