// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/catboard/cat/internal/game"
	"github.com/catboard/cat/internal/middleware"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GameMessage is an incoming websocket message. Game actions go through the REST
// routes; the socket only carries pings from the client.
type GameMessage struct {
	Type string `json:"type"`
}

// GameWSHandler upgrades the connection for /game/{id}/ws?player_id=... and streams
// the game's events until the client leaves or the game is removed.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, ok := pathID(w, r)
		if !ok {
			return
		}
		playerID, err := uuid.Parse(r.URL.Query().Get("player_id"))
		if err != nil {
			http.Error(w, "invalid player_id", http.StatusBadRequest)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "game" {
			c.Close(BadSubprotocolError, "client must speak the game subprotocol")
			return
		}

		g, exists := gs.GameStore.GetGame(gameID)
		if !exists {
			c.Close(InvalidGameIDError, "game does not exist")
			return
		}
		g.Mu.Lock()
		_, seated := g.PlayerByID(playerID)
		closed := g.Closed
		g.Mu.Unlock()
		if closed {
			c.Close(InvalidGameIDError, "game does not exist")
			return
		}
		if !seated {
			c.Close(InvalidPlayerIDError, "player is not seated in this game")
			return
		}

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		s := newSession(gameID, playerID)
		gs.Hub.Register(s)
		gs.Hub.Send(s, game.Event{Type: game.EventUpdate, GameID: gameID})

		go func() {
			writePump(ctx, c, s, logger)
			cancel()
		}()
		err = readPump(ctx, c, gs.Hub, s, logger)

		gs.Hub.Unregister(s)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
	}
}

// readPump reads client messages until the connection closes. It answers pings
// through the session's OutChan so all writes stay in writePump.
func readPump(ctx context.Context, c *websocket.Conn, hub *Hub, s *Session, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}
		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debugf("Invalid JSON from player %s in game %s: %v", s.PlayerID, s.GameID, err)
			continue
		}
		if msg.Type == "ping" {
			hub.Send(s, map[string]string{"type": "pong"})
		}
	}
}

// writePump drains the session's OutChan onto the connection and pings periodically.
// A closed OutChan means the game was removed or the session detached.
func writePump(ctx context.Context, c *websocket.Conn, s *Session, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.OutChan:
			if !ok {
				c.Close(websocket.StatusNormalClosure, GameClosedReason)
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("Failed to marshal outgoing msg for player %s: %v", s.PlayerID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Failed to write to websocket for player %s: %v", s.PlayerID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("Failed to send ping to player %s: %v. Assuming disconnect.", s.PlayerID, err)
				return
			}
		}
	}
}
