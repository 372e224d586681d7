// internal/handlers/hub.go
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/catboard/cat/internal/cache"
	"github.com/catboard/cat/internal/game"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is one websocket connection attached to a game.
type Session struct {
	GameID   uuid.UUID
	PlayerID uuid.UUID
	OutChan  chan interface{}
}

func newSession(gameID, playerID uuid.UUID) *Session {
	return &Session{GameID: gameID, PlayerID: playerID, OutChan: make(chan interface{}, 16)}
}

// Write pushes a message onto the session's OutChan non-blockingly. Logs if dropped.
// Callers hold the hub lock, so the channel is never closed underneath it.
func (s *Session) Write(logger *logrus.Logger, msg interface{}) {
	select {
	case s.OutChan <- msg:
	default:
		logger.Warnf("OutChan for player %s in game %s is full. Dropped message.", s.PlayerID, s.GameID)
	}
}

// Hub fans game events out to every session of a game and to the publisher.
type Hub struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]map[*Session]struct{}
	publisher cache.EventPublisher
	logger    *logrus.Logger
}

func NewHub(publisher cache.EventPublisher, logger *logrus.Logger) *Hub {
	if publisher == nil {
		publisher = cache.NopPublisher{}
	}
	return &Hub{
		sessions:  make(map[uuid.UUID]map[*Session]struct{}),
		publisher: publisher,
		logger:    logger,
	}
}

// Register attaches s to its game.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.sessions[s.GameID]
	if set == nil {
		set = make(map[*Session]struct{})
		h.sessions[s.GameID] = set
	}
	set[s] = struct{}{}
}

// Unregister detaches s and closes its OutChan. Safe to call after CloseGame.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.sessions[s.GameID]
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	close(s.OutChan)
	if len(set) == 0 {
		delete(h.sessions, s.GameID)
	}
}

// Send queues msg for s alone, unless s was already detached.
func (h *Hub) Send(s *Session, msg interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s.GameID][s]; ok {
		s.Write(h.logger, msg)
	}
}

// SessionCount is the number of sessions attached to gameID.
func (h *Hub) SessionCount(gameID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[gameID])
}

// Dispatch delivers events in order. Must not be called with a game lock held.
func (h *Hub) Dispatch(events []game.Event) {
	if len(events) == 0 {
		return
	}
	h.mu.Lock()
	for _, ev := range events {
		for s := range h.sessions[ev.GameID] {
			s.Write(h.logger, ev)
		}
	}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, ev := range events {
		if err := h.publisher.Publish(ctx, ev); err != nil {
			h.logger.Warnf("Failed to publish %s event for game %s: %v", ev.Type, ev.GameID, err)
		}
	}
}

// CloseGame detaches every session of gameID. Their write pumps flush what is
// queued and then close the connection.
func (h *Hub) CloseGame(gameID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions[gameID] {
		close(s.OutChan)
	}
	delete(h.sessions, gameID)
}
