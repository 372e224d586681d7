// internal/handlers/api_server.go
package handlers

import (
	"net/http"

	"github.com/catboard/cat/internal/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter registers every route of the game server, each wrapped in request logging.
func NewRouter(logger *logrus.Logger, gs *GameServer) http.Handler {
	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(logger)

	// lobby endpoints
	mux.Handle("POST /lobby/create", logged(CreateLobbyHandler(gs)))
	mux.Handle("POST /lobby/{id}/join", logged(JoinLobbyHandler(gs)))
	mux.Handle("GET /lobby/list", logged(ListLobbiesHandler(gs)))

	// game endpoints
	mux.Handle("POST /game/{id}/start", logged(StartGameHandler(gs)))
	mux.Handle("GET /game/{id}/state", logged(GameStateHandler(gs)))
	mux.Handle("POST /game/{id}/play", logged(PlayCardHandler(gs)))
	mux.Handle("POST /game/{id}/pass", logged(PassTurnHandler(gs)))
	mux.Handle("POST /game/{id}/kick", logged(VoteKickHandler(gs)))

	// game websocket
	mux.Handle("GET /game/{id}/ws", logged(GameWSHandler(logger, gs)))

	return mux
}
