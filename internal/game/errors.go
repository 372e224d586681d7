package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is returned for any illegal move or card use. State is unchanged.
	ErrInvalidAction = errors.New("invalid action")
	// ErrNotFound is returned for an unknown game, player or figure.
	ErrNotFound = errors.New("not found")
	// ErrStaleTurn is returned when the caller's turn already timed out and was passed.
	ErrStaleTurn = errors.New("turn timed out")
	// ErrNoActivePlayers is raised internally when no active seat remains; it ends the game.
	ErrNoActivePlayers = errors.New("no active players")

	errDeckExhausted = errors.New("draw and discard piles are both empty")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
