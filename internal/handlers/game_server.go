// internal/handlers/game_server.go
package handlers

import (
	"context"
	"time"

	"github.com/catboard/cat/internal/game"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GameServer is a high-level struct that holds a reference to a GameStore
// and the Hub that carries each game's events to its sessions.
type GameServer struct {
	GameStore *game.GameStore
	Hub       *Hub
	Logger    *logrus.Logger

	// Now is the clock handed to game operations.
	Now func() time.Time
}

func NewGameServer(store *game.GameStore, hub *Hub, logger *logrus.Logger) *GameServer {
	return &GameServer{
		GameStore: store,
		Hub:       hub,
		Logger:    logger,
		Now:       time.Now,
	}
}

// withGame runs fn on the game with its lock held, then dispatches the events fn returned.
// It reports false when the game does not exist.
func (gs *GameServer) withGame(id uuid.UUID, fn func(g *game.Game) []game.Event) bool {
	g, ok := gs.GameStore.GetGame(id)
	if !ok {
		return false
	}
	g.Mu.Lock()
	evs := fn(g)
	g.Mu.Unlock()
	gs.Hub.Dispatch(evs)
	return true
}

// RunJanitor polls every game each interval until ctx is done. Elapsed turns are
// passed, idle and finished games are removed from the store.
func (gs *GameServer) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gs.sweep(gs.Now())
		}
	}
}

// sweep is one janitor pass.
func (gs *GameServer) sweep(now time.Time) {
	for _, g := range gs.GameStore.Games() {
		g.Mu.Lock()
		evs, expire := g.Tick(now)
		if expire {
			// Removal happens under the game lock so no action can slip in between.
			gs.GameStore.DeleteGame(g.ID)
		}
		g.Mu.Unlock()

		gs.Hub.Dispatch(evs)
		if expire {
			gs.Logger.Infof("Removed game %s.", g.ID)
			gs.Hub.CloseGame(g.ID)
		}
	}
}

// Shutdown closes every game and tells its sessions why.
func (gs *GameServer) Shutdown() {
	for _, g := range gs.GameStore.Games() {
		g.Mu.Lock()
		evs := g.Close(game.CloseReasonShutdown)
		gs.GameStore.DeleteGame(g.ID)
		g.Mu.Unlock()

		gs.Hub.Dispatch(evs)
		gs.Hub.CloseGame(g.ID)
	}
}
