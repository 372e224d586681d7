// internal/game/rules.go
package game

import "time"

// Board geometry and seating limits.
const (
	TrackLength       = 56 // number of tiles on the main track
	FiguresPerPlayer  = 4  // figures per player, also the finish lane length
	MaxPlayers        = 4
	MinPlayersToStart = 2
	SeatSpacing       = TrackLength / MaxPlayers // distance between two seats' start tiles
)

// Dealing cycle: 6, 5, 4, 3, 2 cards, then back to 6.
const (
	MaxCardsDealt        = 6
	MinCardsDealt        = 2
	CardDealCycleLength  = 5
	BurnSplitTotalSteps  = 7
	FlexSteps            = 4
	maxForcedRoundsPerOp = CardDealCycleLength
)

// Default timings, overridable through Settings.
const (
	DefaultTurnDuration          = 20 * time.Second
	DefaultGameInactivityTimeout = 180 * time.Second
	DefaultFinishedGameGrace     = 60 * time.Second
)

// seatColors fixes the color of each seat.
var seatColors = [MaxPlayers]string{"green", "pink", "orange", "blue"}

// Settings holds the per-process timing rules applied to every new game.
type Settings struct {
	TurnDuration      time.Duration `json:"turnDuration"`      // time a player has to act before the turn is passed
	InactivityTimeout time.Duration `json:"inactivityTimeout"` // idle time after which a game is closed
	FinishedGrace     time.Duration `json:"finishedGrace"`     // time a finished game stays readable before removal
}

// DefaultSettings returns the stock timings.
func DefaultSettings() Settings {
	return Settings{
		TurnDuration:      DefaultTurnDuration,
		InactivityTimeout: DefaultGameInactivityTimeout,
		FinishedGrace:     DefaultFinishedGameGrace,
	}
}

// withDefaults fills any zero or negative field with its default.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.TurnDuration <= 0 {
		s.TurnDuration = d.TurnDuration
	}
	if s.InactivityTimeout <= 0 {
		s.InactivityTimeout = d.InactivityTimeout
	}
	if s.FinishedGrace <= 0 {
		s.FinishedGrace = d.FinishedGrace
	}
	return s
}

// CardsPerRound returns how many cards each player receives in the given round.
func CardsPerRound(round int) int {
	if round < 1 {
		round = 1
	}
	n := MaxCardsDealt - (round-1)%CardDealCycleLength
	return max(MinCardsDealt, n)
}

// mod returns a non-negative remainder.
func mod(a, n int) int {
	return ((a % n) + n) % n
}
