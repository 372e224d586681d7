package game

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardNames(t *testing.T) {
	assert.Equal(t, "8", NumberCard{Value: 8}.Name())
	assert.Equal(t, "Flex Card", FlexCard{}.Name())
	assert.Equal(t, "Swap Card", SwapCard{}.Name())
	assert.Equal(t, "13/Start", StartCard{MoveValues: startValues13}.Name())
	assert.Equal(t, "1/11/Start", StartCard{MoveValues: startValues1_11}.Name())
	assert.Equal(t, "Inferno Card", BurnSplitCard{}.Name())
	assert.Equal(t, "Joker Card", WildcardCard{}.Name())
}

func TestViewCard(t *testing.T) {
	v := ViewCard(StartCard{MoveValues: startValues1_11})
	assert.Equal(t, KindStart, v.Type)
	assert.Equal(t, []int{1, 11}, v.MoveValues)

	raw, err := json.Marshal(ViewCard(NumberCard{Value: 12}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"number","name":"12","description":"Move your figure 12 fields forward.","value":12}`, string(raw))
}

func TestFlexCardDirection(t *testing.T) {
	g, players := setupTestGame(t, 2)
	p0 := players[0]
	f := p0.Figures[0]
	place(g, f, Track(10))

	assert.ErrorIs(t, FlexCard{}.Play(g, p0, Action{FigureID: f.ID}), ErrInvalidAction)
	require.NoError(t, FlexCard{}.Play(g, p0, Action{FigureID: f.ID, Direction: DirectionBackward}))
	assert.Equal(t, Track(6), f.Pos)
	require.NoError(t, FlexCard{}.Play(g, p0, Action{FigureID: f.ID, Direction: DirectionForward}))
	assert.Equal(t, Track(10), f.Pos)
}

func TestMoveCardsRequireOwnFigure(t *testing.T) {
	g, players := setupTestGame(t, 2)
	p0 := players[0]
	theirs := players[1].Figures[0]
	place(g, theirs, Track(20))

	assert.ErrorIs(t, NumberCard{Value: 5}.Play(g, p0, Action{FigureID: theirs.ID}), ErrInvalidAction)
	assert.ErrorIs(t, NumberCard{Value: 5}.Play(g, p0, Action{}), ErrInvalidAction, "no figure given")
	assert.ErrorIs(t, NumberCard{Value: 5}.Play(g, p0, Action{FigureID: uuid.New()}), ErrNotFound)
	assert.Equal(t, Track(20), theirs.Pos)
}

func TestStartCardActions(t *testing.T) {
	g, players := setupTestGame(t, 2)
	p0 := players[0]
	card := StartCard{MoveValues: startValues1_11}

	require.NoError(t, card.Play(g, p0, Action{Action: StartActionStart}), "first home figure is used")
	assert.Equal(t, Track(0), p0.Figures[0].Pos)

	f := p0.Figures[0]
	assert.ErrorIs(t, card.Play(g, p0, Action{Action: StartActionMove, FigureID: f.ID, Value: 13}), ErrInvalidAction)
	require.NoError(t, card.Play(g, p0, Action{Action: StartActionMove, FigureID: f.ID, Value: 11}))
	assert.Equal(t, Track(11), f.Pos)

	assert.ErrorIs(t, card.Play(g, p0, Action{Action: "jump"}), ErrInvalidAction)

	place(g, p0.Figures[1], FinishLane(1))
	place(g, p0.Figures[2], FinishLane(2))
	place(g, p0.Figures[3], FinishLane(3))
	place(g, f, Track(30))
	assert.ErrorIs(t, card.Play(g, p0, Action{Action: StartActionStart}), ErrInvalidAction, "nobody left at home")
}

func TestWildcardImitation(t *testing.T) {
	g, players := setupTestGame(t, 2)
	p0 := players[0]
	f := p0.Figures[0]
	joker := WildcardCard{}

	assert.ErrorIs(t, joker.Play(g, p0, Action{}), ErrInvalidAction, "must name a card")
	assert.ErrorIs(t, joker.Play(g, p0, Action{Imitate: KindWildcard}), ErrInvalidAction)
	assert.ErrorIs(t, joker.Play(g, p0, Action{Imitate: KindStart, MoveValues: []int{7}, Action: StartActionStart}), ErrInvalidAction)

	require.NoError(t, joker.Play(g, p0, Action{Imitate: KindStart, MoveValues: []int{13}, Action: StartActionStart}))
	assert.Equal(t, Track(0), f.Pos)

	for _, v := range []int{1, 4, 7, 11, 14} {
		err := joker.Play(g, p0, Action{Imitate: KindNumber, ImitateValue: v, FigureID: f.ID})
		assert.ErrorIs(t, err, ErrInvalidAction, "value %d", v)
	}
	require.NoError(t, joker.Play(g, p0, Action{Imitate: KindNumber, ImitateValue: 13, FigureID: f.ID}))
	assert.Equal(t, Track(13), f.Pos)

	require.NoError(t, joker.Play(g, p0, Action{Imitate: KindFlex, Direction: DirectionBackward, FigureID: f.ID}))
	assert.Equal(t, Track(9), f.Pos)

	require.NoError(t, joker.Play(g, p0, Action{Imitate: KindBurnSplit, Moves: []SplitMove{{FigureID: f.ID, Steps: 7}}}))
	assert.Equal(t, Track(16), f.Pos)
}

func TestSwapCardPlay(t *testing.T) {
	g, players := setupTestGame(t, 2)
	p0 := players[0]
	own, theirs := p0.Figures[0], players[1].Figures[0]
	place(g, own, Track(5))
	place(g, theirs, Track(40))

	assert.ErrorIs(t, SwapCard{}.Play(g, p0, Action{FigureID: own.ID}), ErrInvalidAction)
	assert.ErrorIs(t, SwapCard{}.Play(g, p0, Action{FigureID: theirs.ID, OtherFigureID: own.ID}), ErrInvalidAction,
		"must start from an own figure")
	require.NoError(t, SwapCard{}.Play(g, p0, Action{FigureID: own.ID, OtherFigureID: theirs.ID}))
	assert.Equal(t, Track(40), own.Pos)
	assert.Equal(t, Track(5), theirs.Pos)
}

func TestSwapCardNeedsOpponentFigure(t *testing.T) {
	g, players := setupTestGame(t, 2)
	p0 := players[0]
	a, b := p0.Figures[0], p0.Figures[1]
	place(g, a, Track(5))
	place(g, b, Track(9))
	beginTurns(g, []Card{SwapCard{}})

	assert.False(t, g.CanPlay(p0, SwapCard{}))
	assert.False(t, g.HasAnyValidMove(p0))

	_, err := g.PlayCard(p0.ID, 0, Action{FigureID: a.ID, OtherFigureID: b.ID}, testNow)
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, Track(5), a.Pos)
	assert.Equal(t, Track(9), b.Pos)
	assert.Len(t, p0.Hand, 1)

	err = WildcardCard{}.Play(g, p0, Action{Imitate: KindSwap, FigureID: a.ID, OtherFigureID: b.ID})
	assert.ErrorIs(t, err, ErrInvalidAction, "an imitated swap follows the same rule")
	assertBoardConsistent(t, g)
}

func TestActionDecoding(t *testing.T) {
	id := uuid.New()
	var a Action
	raw := `{"figure_id":"` + id.String() + `","imitate":"start","move_values":[1,11],"action":"move","value":11}`
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	assert.Equal(t, id, a.FigureID)
	assert.Equal(t, KindStart, a.Imitate)
	assert.Equal(t, []int{1, 11}, a.MoveValues)
	assert.Equal(t, StartActionMove, a.Action)
	assert.Equal(t, 11, a.Value)
}
