// game/deck.go
package game

import (
	"fmt"
	"math/rand"
)

// Deck is the bag of undealt role cards: three copies of every role in play
// at game start. It shrinks when cards are dealt to hands or exchange offers
// and grows when cards come back.
type Deck struct {
	cards  []Role
	rng    *rand.Rand
	pinned bool
}

// NewDeck builds a shuffled deck of three copies of each role.
func NewDeck(roles []Role, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	for _, r := range roles {
		for i := 0; i < 3; i++ {
			d.cards = append(d.cards, r)
		}
	}
	d.shuffle()
	return d
}

// Draw removes and returns the top card. An empty deck cannot occur under
// correct card accounting, so drawing from one is an invariant violation.
func (d *Deck) Draw() Role {
	if len(d.cards) == 0 {
		panic("deck: draw from empty deck")
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card
}

// ReturnAndShuffle puts cards back and re-randomizes the order.
func (d *Deck) ReturnAndShuffle(cards ...Role) {
	d.cards = append(d.cards, cards...)
	d.shuffle()
}

// Size returns the number of undealt cards.
func (d *Deck) Size() int {
	return len(d.cards)
}

// Pin fixes the deck to the given order and disables shuffling. Test use only.
func (d *Deck) Pin(order []Role) {
	d.cards = append([]Role(nil), order...)
	d.pinned = true
}

func (d *Deck) shuffle() {
	if d.pinned {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) String() string {
	return fmt.Sprintf("deck(%d cards)", len(d.cards))
}
