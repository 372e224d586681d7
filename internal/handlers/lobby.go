// internal/handlers/lobby.go
package handlers

import (
	"net/http"

	"github.com/catboard/cat/internal/game"
	"github.com/google/uuid"
)

type createLobbyRequest struct {
	LobbyName  string `json:"lobby_name"`
	PlayerName string `json:"player_name"`
}

type joinLobbyRequest struct {
	PlayerName string `json:"player_name"`
}

type seatResponse struct {
	GameID   uuid.UUID `json:"game_id"`
	PlayerID uuid.UUID `json:"player_id"`
	Seat     int       `json:"seat"`
	Color    string    `json:"color"`
}

// CreateLobbyHandler creates an in-memory game seated with the host.
func CreateLobbyHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLobbyRequest
		if !decodeBody(r, &req) {
			http.Error(w, "bad lobby request payload", http.StatusBadRequest)
			return
		}
		g, host, err := gs.GameStore.CreateGame(req.LobbyName, req.PlayerName, gs.Now())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, seatResponse{GameID: g.ID, PlayerID: host.ID, Seat: host.Seat, Color: host.Color})
	}
}

// JoinLobbyHandler seats a new player in an unstarted game.
func JoinLobbyHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req joinLobbyRequest
		if !decodeBody(r, &req) {
			http.Error(w, "bad join request payload", http.StatusBadRequest)
			return
		}
		var (
			p   *game.Player
			err error
		)
		found := gs.withGame(id, func(g *game.Game) []game.Event {
			p, err = g.AddPlayer(req.PlayerName, gs.Now())
			if err != nil {
				return nil
			}
			return []game.Event{{Type: game.EventUpdate, GameID: g.ID}}
		})
		if !found {
			gameNotFound(w)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, seatResponse{GameID: id, PlayerID: p.ID, Seat: p.Seat, Color: p.Color})
	}
}

// ListLobbiesHandler returns every open game, oldest first.
func ListLobbiesHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gs.GameStore.Lobbies())
	}
}
