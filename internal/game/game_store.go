package game

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// GameStore is the in-memory registry of games. mu guards the map only;
// each Game carries its own Mu.
type GameStore struct {
	mu       sync.Mutex
	games    map[uuid.UUID]*Game
	settings Settings
}

// LobbySummary is one entry of the lobby list.
type LobbySummary struct {
	ID              uuid.UUID `json:"game_id"`
	Name            string    `json:"name"`
	NumberOfPlayers int       `json:"number_of_players"`
	Started         bool      `json:"started"`
}

func NewGameStore(settings Settings) *GameStore {
	return &GameStore{
		games:    make(map[uuid.UUID]*Game),
		settings: settings.withDefaults(),
	}
}

// Settings returns the timings applied to new games.
func (s *GameStore) Settings() Settings {
	return s.settings
}

// CreateGame builds a lobby seated with the host and registers it.
func (s *GameStore) CreateGame(name, hostName string, now time.Time) (*Game, *Player, error) {
	g, host, err := NewGame(name, hostName, s.settings, nil, now)
	if err != nil {
		return nil, nil, err
	}
	s.AddGame(g)
	return g, host, nil
}

func (s *GameStore) AddGame(game *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
}

func (s *GameStore) GetGame(id uuid.UUID) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Games returns a snapshot of every registered game.
func (s *GameStore) Games() []*Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	return out
}

// Lobbies lists every game, oldest first. Each game is locked briefly to read it.
func (s *GameStore) Lobbies() []LobbySummary {
	games := s.Games()
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	out := make([]LobbySummary, 0, len(games))
	for _, g := range games {
		g.Mu.Lock()
		if !g.Closed {
			out = append(out, LobbySummary{
				ID:              g.ID,
				Name:            g.Name,
				NumberOfPlayers: len(g.Players),
				Started:         g.Started,
			})
		}
		g.Mu.Unlock()
	}
	return out
}
