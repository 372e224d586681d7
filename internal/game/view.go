// internal/game/view.go
package game

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PositionView is the wire shape of a figure position.
type PositionView struct {
	Zone  string `json:"zone"`
	Index int    `json:"index"`
}

// FigureView is one figure as seen by any client.
type FigureView struct {
	ID       uuid.UUID    `json:"id"`
	Owner    uuid.UUID    `json:"owner"`
	Color    string       `json:"color"`
	Position PositionView `json:"position"`
}

// PlayerView holds one player's state from the perspective of a requesting user.
// Hand is only filled in for the requesting player.
type PlayerView struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Seat          int          `json:"seat"`
	Color         string       `json:"color"`
	StartTile     int          `json:"start_tile"`
	FinishEntry   int          `json:"finish_entry"`
	Active        bool         `json:"is_active"`
	IsCurrentTurn bool         `json:"is_current_turn"`
	CardCount     int          `json:"card_count"`
	KickVotes     int          `json:"kick_votes"`
	Hand          []CardView   `json:"hand,omitempty"`
	Figures       []FigureView `json:"figures"`
}

// GameView is the serialized game returned by getState.
type GameView struct {
	ID                 uuid.UUID            `json:"id"`
	Name               string               `json:"name"`
	HostID             uuid.UUID            `json:"host_id"`
	NumberOfPlayers    int                  `json:"number_of_players"`
	Started            bool                 `json:"started"`
	Over               bool                 `json:"over"`
	WinnerID           *uuid.UUID           `json:"winner_id,omitempty"`
	RoundNumber        int                  `json:"round_number"`
	TurnID             int                  `json:"turn_id"`
	CurrentPlayerIndex int                  `json:"current_player_index"`
	TurnDeadline       *time.Time           `json:"turn_deadline,omitempty"`
	LastPlayedCard     *CardView            `json:"last_played_card,omitempty"`
	DrawPileSize       int                  `json:"draw_pile_size"`
	DiscardPileSize    int                  `json:"discard_pile_size"`
	Players            []PlayerView         `json:"players"`
	Occupancy          map[string]uuid.UUID `json:"occupancy"`
}

func viewPosition(p Position) PositionView {
	return PositionView{Zone: p.Zone.String(), Index: p.Index}
}

// occupancyKey renders a slot as "12" for track tile 12 or "finish:<seat>:<k>".
func occupancyKey(s slot) string {
	if s.zone == ZoneTrack {
		return strconv.Itoa(s.index)
	}
	return fmt.Sprintf("finish:%d:%d", s.seat, s.index)
}

// View builds a snapshot of the game for the perspective player.
func (g *Game) View(perspective uuid.UUID) GameView {
	v := GameView{
		ID:                 g.ID,
		Name:               g.Name,
		HostID:             g.HostID,
		NumberOfPlayers:    len(g.Players),
		Started:            g.Started,
		Over:               g.Over,
		RoundNumber:        g.RoundNumber,
		TurnID:             g.TurnID,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		DrawPileSize:       g.Deck.DrawCount(),
		DiscardPileSize:    g.Deck.DiscardCount(),
		Players:            make([]PlayerView, 0, len(g.Players)),
		Occupancy:          make(map[string]uuid.UUID, len(g.occupancy)),
	}
	if g.Over && g.WinnerID != uuid.Nil {
		w := g.WinnerID
		v.WinnerID = &w
	}
	if g.Started && !g.Over {
		d := g.TurnDeadline()
		v.TurnDeadline = &d
	}
	if g.LastPlayedCard != nil {
		cv := ViewCard(g.LastPlayedCard)
		v.LastPlayedCard = &cv
	}

	cur := g.CurrentPlayer()
	for _, p := range g.Players {
		pv := PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			Seat:          p.Seat,
			Color:         p.Color,
			StartTile:     p.StartTile(),
			FinishEntry:   p.FinishEntry(),
			Active:        p.Active,
			IsCurrentTurn: p == cur && !g.Over,
			CardCount:     len(p.Hand),
			KickVotes:     g.KickVotes(p.Seat),
			Figures:       make([]FigureView, 0, FiguresPerPlayer),
		}
		if p.ID == perspective {
			pv.Hand = make([]CardView, len(p.Hand))
			for i, c := range p.Hand {
				pv.Hand[i] = ViewCard(c)
			}
		}
		for _, f := range p.Figures {
			pv.Figures = append(pv.Figures, FigureView{
				ID:       f.ID,
				Owner:    f.Owner,
				Color:    f.Color,
				Position: viewPosition(f.Pos),
			})
		}
		v.Players = append(v.Players, pv)
	}
	for s, f := range g.occupancy {
		v.Occupancy[occupancyKey(s)] = f.ID
	}
	return v
}
