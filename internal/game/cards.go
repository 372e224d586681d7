// internal/game/cards.go
package game

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

// CardKind tags a card variant on the wire.
type CardKind string

const (
	KindNumber    CardKind = "number"
	KindFlex      CardKind = "flex"
	KindSwap      CardKind = "swap"
	KindStart     CardKind = "start"
	KindBurnSplit CardKind = "burn_split"
	KindWildcard  CardKind = "wildcard"
)

// Flex directions.
const (
	DirectionForward  = "forward"
	DirectionBackward = "backward"
)

// StartCard actions.
const (
	StartActionStart = "start"
	StartActionMove  = "move"
)

// Card is one playable effect. Cards are values; identity is never significant.
type Card interface {
	Kind() CardKind
	Name() string
	Description() string
	// Play applies the card for p. It may leave the board half-moved on error;
	// Game.PlayCard restores the board in that case.
	Play(g *Game, p *Player, a Action) error
}

// SplitMove is one component of a burn split.
type SplitMove struct {
	FigureID uuid.UUID `json:"figure_id"`
	Steps    int       `json:"steps"`
}

// Action carries the caller-supplied details of a card play.
type Action struct {
	FigureID      uuid.UUID   `json:"figure_id"`
	OtherFigureID uuid.UUID   `json:"other_figure_id"`
	Direction     string      `json:"direction,omitempty"`
	Action        string      `json:"action,omitempty"`
	Value         int         `json:"value,omitempty"`
	Moves         []SplitMove `json:"moves,omitempty"`

	// Wildcard imitation.
	Imitate      CardKind `json:"imitate,omitempty"`
	ImitateValue int      `json:"imitate_value,omitempty"`
	MoveValues   []int    `json:"move_values,omitempty"`
}

// NumberCard moves one figure forward by a fixed value.
type NumberCard struct {
	Value int
}

func (c NumberCard) Kind() CardKind { return KindNumber }
func (c NumberCard) Name() string   { return strconv.Itoa(c.Value) }
func (c NumberCard) Description() string {
	return fmt.Sprintf("Move your figure %d fields forward.", c.Value)
}

func (c NumberCard) Play(g *Game, p *Player, a Action) error {
	f, err := g.ownFigure(p, a.FigureID)
	if err != nil {
		return err
	}
	return g.moveFigure(f, c.Value)
}

// FlexCard moves one figure four fields forward or backward.
type FlexCard struct{}

func (FlexCard) Kind() CardKind { return KindFlex }
func (FlexCard) Name() string   { return "Flex Card" }
func (FlexCard) Description() string {
	return "Choose to move either forward or backward by 4."
}

func (FlexCard) Play(g *Game, p *Player, a Action) error {
	f, err := g.ownFigure(p, a.FigureID)
	if err != nil {
		return err
	}
	switch a.Direction {
	case DirectionForward:
		return g.moveFigure(f, FlexSteps)
	case DirectionBackward:
		return g.moveFigure(f, -FlexSteps)
	default:
		return invalidf("direction must be %q or %q", DirectionForward, DirectionBackward)
	}
}

// SwapCard exchanges one of the player's figures with an opponent's figure.
type SwapCard struct{}

func (SwapCard) Kind() CardKind { return KindSwap }
func (SwapCard) Name() string   { return "Swap Card" }
func (SwapCard) Description() string {
	return "Choose one of your cats and swap its position with an opponent's cat."
}

func (SwapCard) Play(g *Game, p *Player, a Action) error {
	if a.FigureID == uuid.Nil || a.OtherFigureID == uuid.Nil {
		return invalidf("two figures must be provided for a swap")
	}
	own, err := g.figureByID(a.FigureID)
	if err != nil {
		return err
	}
	other, err := g.figureByID(a.OtherFigureID)
	if err != nil {
		return err
	}
	if !p.ownsFigure(own) {
		return invalidf("you can only initiate a swap with one of your own figures")
	}
	if own.Owner == other.Owner {
		return invalidf("swap target must be an opponent's figure")
	}
	return g.swapFigures(own, other)
}

// StartCard brings a figure into play or moves it by one of its values.
type StartCard struct {
	MoveValues []int
}

var (
	startValues13   = []int{13}
	startValues1_11 = []int{1, 11}
)

func validStartValues(v []int) bool {
	return slices.Equal(v, startValues13) || slices.Equal(v, startValues1_11)
}

func (c StartCard) Kind() CardKind { return KindStart }

func (c StartCard) Name() string {
	if slices.Equal(c.MoveValues, startValues1_11) {
		return "1/11/Start"
	}
	return "13/Start"
}

func (c StartCard) Description() string {
	if slices.Equal(c.MoveValues, startValues1_11) {
		return "Move a cat from the start area or move 1 or 11 fields forward."
	}
	return "Move a cat from the start area or move 13 fields forward."
}

func (c StartCard) Play(g *Game, p *Player, a Action) error {
	switch a.Action {
	case StartActionStart:
		var f *Figure
		if a.FigureID == uuid.Nil {
			f = p.homeFigure()
			if f == nil {
				return invalidf("no figure left at home")
			}
		} else {
			var err error
			if f, err = g.ownFigure(p, a.FigureID); err != nil {
				return err
			}
		}
		return g.startFigure(p, f)
	case StartActionMove:
		if !slices.Contains(c.MoveValues, a.Value) {
			return invalidf("move value must be one of %v", c.MoveValues)
		}
		f, err := g.ownFigure(p, a.FigureID)
		if err != nil {
			return err
		}
		return g.moveFigure(f, a.Value)
	default:
		return invalidf("action must be %q or %q", StartActionStart, StartActionMove)
	}
}

// BurnSplitCard splits seven steps across own figures and burns what it passes.
type BurnSplitCard struct{}

func (BurnSplitCard) Kind() CardKind { return KindBurnSplit }
func (BurnSplitCard) Name() string   { return "Inferno Card" }
func (BurnSplitCard) Description() string {
	return "Split the value of 7 among your cats and burn any cat it passes over."
}

func (BurnSplitCard) Play(g *Game, p *Player, a Action) error {
	burned, err := g.splitMove(p, a.Moves)
	if err != nil {
		return err
	}
	for _, f := range burned {
		g.log.Debugf("Player %s burned figure %s.", p.ID, f.ID)
	}
	return nil
}

// WildcardCard imitates any other variant.
type WildcardCard struct{}

func (WildcardCard) Kind() CardKind { return KindWildcard }
func (WildcardCard) Name() string   { return "Joker Card" }
func (WildcardCard) Description() string {
	return "Can be played as a substitute for any other card."
}

func (WildcardCard) Play(g *Game, p *Player, a Action) error {
	card, err := imitation(a)
	if err != nil {
		return err
	}
	return card.Play(g, p, a)
}

// imitation builds the transient card a wildcard stands in for.
func imitation(a Action) (Card, error) {
	switch a.Imitate {
	case KindNumber:
		if !validNumberValue(a.ImitateValue) {
			return nil, invalidf("cannot imitate a number card with value %d", a.ImitateValue)
		}
		return NumberCard{Value: a.ImitateValue}, nil
	case KindFlex:
		return FlexCard{}, nil
	case KindSwap:
		return SwapCard{}, nil
	case KindStart:
		if !validStartValues(a.MoveValues) {
			return nil, invalidf("only [1 11] or [13] are allowed as move values")
		}
		return StartCard{MoveValues: slices.Clone(a.MoveValues)}, nil
	case KindBurnSplit:
		return BurnSplitCard{}, nil
	case "":
		return nil, invalidf("a wildcard must name the card it imitates")
	default:
		return nil, invalidf("unknown card type to imitate: %s", a.Imitate)
	}
}

// validNumberValue: 2..13 except the values carried by special cards.
func validNumberValue(v int) bool {
	if v < 2 || v > 13 {
		return false
	}
	return v != 4 && v != 7 && v != 11
}

// CardView is the wire shape of a card.
type CardView struct {
	Type        CardKind `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Value       int      `json:"value,omitempty"`
	MoveValues  []int    `json:"move_values,omitempty"`
}

// ViewCard serializes a card to its variant tag and payload.
func ViewCard(c Card) CardView {
	v := CardView{Type: c.Kind(), Name: c.Name(), Description: c.Description()}
	switch cc := c.(type) {
	case NumberCard:
		v.Value = cc.Value
	case StartCard:
		v.MoveValues = slices.Clone(cc.MoveValues)
	}
	return v
}
