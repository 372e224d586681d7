// internal/game/deck.go
package game

import (
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
)

// Deck composition.
var numberCardValues = []int{2, 3, 5, 6, 8, 9, 10, 12}

const (
	numberCardKinds = 8
	numberCardsEach = 8
	flexCards       = 8
	burnSplitCards  = 8
	swapCards       = 8
	start13Cards    = 8
	start1_11Cards  = 8
	wildcardCards   = 6

	// DeckSize is the total number of cards in a fresh deck.
	DeckSize = numberCardKinds*numberCardsEach + flexCards + burnSplitCards + swapCards + start13Cards + start1_11Cards + wildcardCards
)

// Deck is the draw pile (top = end of slice) plus the discard pile.
type Deck struct {
	Draw    []Card
	Discard []Card
	rng     *rand.Rand
}

// NewDeck builds the full composition and shuffles it. A nil rng is seeded from the clock.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Deck{Draw: composition(), Discard: []Card{}, rng: rng}
	d.shuffle()
	return d
}

// composition lists every card of a fresh deck. Slots reuse one template value per kind.
func composition() []Card {
	cards := make([]Card, 0, DeckSize)
	add := func(c Card, n int) {
		for i := 0; i < n; i++ {
			cards = append(cards, c)
		}
	}
	for _, v := range numberCardValues {
		add(NumberCard{Value: v}, numberCardsEach)
	}
	add(FlexCard{}, flexCards)
	add(BurnSplitCard{}, burnSplitCards)
	add(SwapCard{}, swapCards)
	add(StartCard{MoveValues: startValues13}, start13Cards)
	add(StartCard{MoveValues: startValues1_11}, start1_11Cards)
	add(WildcardCard{}, wildcardCards)
	return cards
}

func (d *Deck) shuffle() {
	d.rng.Shuffle(len(d.Draw), func(i, j int) {
		d.Draw[i], d.Draw[j] = d.Draw[j], d.Draw[i]
	})
}

// Reshuffle moves the discard pile under the draw pile and shuffles everything.
func (d *Deck) Reshuffle() {
	d.Draw = append(d.Draw, d.Discard...)
	d.Discard = []Card{}
	d.shuffle()
}

// draw pops the top card, reshuffling the discard pile in when the draw pile is empty.
func (d *Deck) draw() (Card, error) {
	if len(d.Draw) == 0 {
		if len(d.Discard) == 0 {
			return nil, errDeckExhausted
		}
		log.Debugf("Draw pile empty. Reshuffling %d card(s) from discard pile.", len(d.Discard))
		d.Reshuffle()
	}
	top := len(d.Draw) - 1
	c := d.Draw[top]
	d.Draw = d.Draw[:top]
	return c, nil
}

// Deal gives every player CardsPerRound(round) cards, one at a time in seat order.
func (d *Deck) Deal(players []*Player, round int) error {
	n := CardsPerRound(round)
	for i := 0; i < n; i++ {
		for _, p := range players {
			c, err := d.draw()
			if err != nil {
				return err
			}
			p.Hand = append(p.Hand, c)
		}
	}
	return nil
}

// DiscardCard puts a played or passed card on the discard pile.
func (d *Deck) DiscardCard(c Card) {
	d.Discard = append(d.Discard, c)
}

// DrawCount is the size of the draw pile.
func (d *Deck) DrawCount() int { return len(d.Draw) }

// DiscardCount is the size of the discard pile.
func (d *Deck) DiscardCount() int { return len(d.Discard) }
