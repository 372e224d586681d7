package game

import "github.com/google/uuid"

// EventType names an outbound notification for the sessions of one game.
type EventType string

const (
	EventUpdate     EventType = "update"      // state changed, clients re-fetch
	EventGameClosed EventType = "game_closed" // game removed from the server
	EventGameOver   EventType = "game_over"   // a player won or no active seat remains
)

// Reasons carried by EventGameClosed.
const (
	CloseReasonInactivity = "inactivity"
	CloseReasonFinished   = "finished"
	CloseReasonShutdown   = "shutdown"
)

// Event is returned by game operations; the transport decides how to deliver it.
type Event struct {
	Type   EventType  `json:"type"`
	GameID uuid.UUID  `json:"game_id"`
	Reason string     `json:"reason,omitempty"`
	Winner *uuid.UUID `json:"winner,omitempty"`
}

func (g *Game) updateEvent() Event {
	return Event{Type: EventUpdate, GameID: g.ID}
}

// ClosedEvent builds the notification sent when a game is removed.
func ClosedEvent(gameID uuid.UUID, reason string) Event {
	return Event{Type: EventGameClosed, GameID: gameID, Reason: reason}
}
