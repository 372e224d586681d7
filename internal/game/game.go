// internal/game/game.go
package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// slot is a key of the occupancy index. Finish slots are per seat; track slots use seat -1.
type slot struct {
	zone  Zone
	seat  int
	index int
}

func slotAt(seat int, p Position) slot {
	if p.Zone == ZoneTrack {
		return slot{zone: ZoneTrack, seat: -1, index: p.Index}
	}
	return slot{zone: ZoneFinish, seat: seat, index: p.Index}
}

// Game holds the entire state for a single game instance in memory.
//
// Game methods are not synchronized. Callers take Mu around every call, including
// reads such as View, so that one action at a time mutates a game.
type Game struct {
	ID     uuid.UUID
	Name   string
	HostID uuid.UUID

	Players []*Player
	Deck    *Deck

	CurrentPlayerIndex int
	RoundNumber        int
	TurnID             int // increments every time a turn opens

	Started  bool
	Over     bool
	Closed   bool // removed from the store; every operation fails with ErrNotFound
	WinnerID uuid.UUID

	CreatedAt        time.Time
	TurnStartTime    time.Time
	LastActivityTime time.Time
	EndedAt          time.Time

	LastPlayedCard Card
	Settings       Settings

	Mu sync.Mutex

	occupancy map[slot]*Figure
	kickVotes map[int]map[uuid.UUID]struct{} // target seat -> voter ids
	pending   []Event
	log       *log.Entry
}

// NewGame creates a lobby with the host seated at seat 0. A nil rng shuffles from the clock.
func NewGame(name, hostName string, settings Settings, rng *rand.Rand, now time.Time) (*Game, *Player, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return nil, nil, invalidf("player name must not be empty")
	}
	id, _ := uuid.NewRandom()
	g := &Game{
		ID:               id,
		Name:             strings.TrimSpace(name),
		Deck:             NewDeck(rng),
		RoundNumber:      1,
		CreatedAt:        now,
		LastActivityTime: now,
		Settings:         settings.withDefaults(),
		occupancy:        make(map[slot]*Figure),
		kickVotes:        make(map[int]map[uuid.UUID]struct{}),
		log:              log.WithField("game", id),
	}
	if g.Name == "" {
		g.Name = hostName + "'s game"
	}
	host := newPlayer(hostName, 0)
	g.Players = append(g.Players, host)
	g.HostID = host.ID
	g.log.Infof("Lobby %q created by %s.", g.Name, host.ID)
	return g, host, nil
}

// AddPlayer seats a new player at the next free seat.
func (g *Game) AddPlayer(name string, now time.Time) (*Player, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	switch {
	case g.Started:
		return nil, invalidf("the game has already started")
	case len(g.Players) >= MaxPlayers:
		return nil, invalidf("the lobby is full (%d players)", MaxPlayers)
	case name == "":
		return nil, invalidf("player name must not be empty")
	}
	p := newPlayer(name, len(g.Players))
	g.Players = append(g.Players, p)
	g.LastActivityTime = now
	g.log.Infof("Player %s joined at seat %d.", p.ID, p.Seat)
	return p, nil
}

// Start deals the first round and opens seat 0's turn.
func (g *Game) Start(now time.Time) ([]Event, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	if g.Started {
		return nil, invalidf("the game has already started")
	}
	if len(g.Players) < MinPlayersToStart {
		return nil, invalidf("at least %d players are required to start", MinPlayersToStart)
	}
	if err := g.Deck.Deal(g.activePlayers(), g.RoundNumber); err != nil {
		return nil, err
	}
	g.Started = true
	g.CurrentPlayerIndex = 0
	g.LastActivityTime = now
	g.log.Infof("Game started with %d players. Dealt %d cards for round %d.", len(g.Players), CardsPerRound(g.RoundNumber), g.RoundNumber)
	g.openTurn(now)
	return g.drain(), nil
}

func (g *Game) checkOpen() error {
	if g.Closed {
		return notFoundf("game %s was closed", g.ID)
	}
	return nil
}

// PlayerByID returns the seated player with the given id.
func (g *Game) PlayerByID(id uuid.UUID) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// CurrentPlayer returns the player holding the turn, or nil before the game starts.
func (g *Game) CurrentPlayer() *Player {
	if !g.Started || g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

func (g *Game) figureByID(id uuid.UUID) (*Figure, error) {
	if id == uuid.Nil {
		return nil, invalidf("a figure must be specified")
	}
	for _, p := range g.Players {
		for _, f := range p.Figures {
			if f.ID == id {
				return f, nil
			}
		}
	}
	return nil, notFoundf("figure %s", id)
}

func (g *Game) ownFigure(p *Player, id uuid.UUID) (*Figure, error) {
	f, err := g.figureByID(id)
	if err != nil {
		return nil, err
	}
	if !p.ownsFigure(f) {
		return nil, invalidf("figure %s does not belong to you", id)
	}
	return f, nil
}

func (g *Game) activePlayers() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) activeCount() int { return len(g.activePlayers()) }

// --- occupancy index ---

func (g *Game) occupant(seat int, p Position) *Figure {
	if p.Zone == ZoneHome {
		return nil
	}
	return g.occupancy[slotAt(seat, p)]
}

// relocate moves f to p, keeping the index in sync. The target slot must be free.
func (g *Game) relocate(f *Figure, p Position) {
	if f.Pos.Zone != ZoneHome {
		delete(g.occupancy, slotAt(f.Seat, f.Pos))
	}
	f.Pos = p
	if p.Zone != ZoneHome {
		g.occupancy[slotAt(f.Seat, p)] = f
	}
}

func (g *Game) sendHome(f *Figure) {
	g.relocate(f, Home)
}

// boardSnapshot records every figure's position so a failed play can be undone.
type boardSnapshot map[*Figure]Position

func (g *Game) snapshot() boardSnapshot {
	snap := make(boardSnapshot, len(g.Players)*FiguresPerPlayer)
	for _, p := range g.Players {
		for _, f := range p.Figures {
			snap[f] = f.Pos
		}
	}
	return snap
}

func (g *Game) restore(snap boardSnapshot) {
	g.occupancy = make(map[slot]*Figure, len(snap))
	for f, pos := range snap {
		f.Pos = pos
		if pos.Zone != ZoneHome {
			g.occupancy[slotAt(f.Seat, pos)] = f
		}
	}
}

// --- events ---

func (g *Game) emit(ev Event) {
	g.pending = append(g.pending, ev)
}

// drain returns an update followed by anything emitted during the operation.
func (g *Game) drain() []Event {
	evs := append([]Event{g.updateEvent()}, g.pending...)
	g.pending = nil
	return evs
}
