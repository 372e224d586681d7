// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the game handler.
// These provide more specific reasons for closure than standard codes.
const (
	BadSubprotocolError  = 3000 // Client connected with an unsupported subprotocol.
	InvalidPlayerIDError = 3002 // player_id is not seated in the requested game.
	InvalidGameIDError   = 3003 // Target game ID specified in the WS URL does not exist.
)

// GameClosedReason is the close-frame reason sent when a game is removed from the server.
const GameClosedReason = "game closed"
