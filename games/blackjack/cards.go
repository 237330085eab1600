package blackjack

import (
	"math/rand"
	"strings"
	"time"
)

// Card represents a playing card on the table. FaceDown cards are hidden
// from scoring and rendering until flipped.
type Card struct {
	Rank     string
	Suit     string
	FaceDown bool
}

// NewCard creates a new face-up card
func NewCard(rank, suit string) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card
func (c Card) String() string {
	return c.Rank + c.Suit
}

// Flip returns the card with its face-down flag toggled
func (c Card) Flip() Card {
	c.FaceDown = !c.FaceDown
	return c
}

// IsAce checks if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == "A"
}

// Value returns the card's blackjack value. Aces count as 11 here; the
// hand scorer decides between 1 and 11 per ace.
func (c Card) Value() int {
	if value, exists := CardRanks[c.Rank]; exists {
		return value
	}
	return 0
}

// CardRanks defines the base values for card ranks
var CardRanks = map[string]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
	"J": 10, "Q": 10, "K": 10, "A": 11,
}

// CardSuits defines the available card suits
var CardSuits = []string{"♠️", "♥️", "♦️", "♣️"}

var cardRankOrder = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Deck is a single 52-card deck owned by one session. It is shuffled once
// at construction and never replenished: drawing past the end is an
// invariant violation reported as ErrEmptyDeck.
type Deck struct {
	cards []Card
	dealt int
}

// NewDeck creates a full deck in suit-by-rank order and shuffles it with
// the given source. A nil rng falls back to a time-seeded source.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	deck := &Deck{cards: make([]Card, 0, 52)}
	for _, suit := range CardSuits {
		for _, rank := range cardRankOrder {
			deck.cards = append(deck.cards, NewCard(rank, suit))
		}
	}

	rng.Shuffle(len(deck.cards), func(i, j int) {
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	})
	return deck
}

// NewStackedDeck creates an unshuffled deck that deals the given cards in
// order. Used for scripted deals in simulations and tests.
func NewStackedDeck(cards ...Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Draw deals the next card from the deck
func (d *Deck) Draw() (Card, error) {
	if d.dealt >= len(d.cards) {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[d.dealt]
	d.dealt++
	return card, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.dealt
}

// Hand represents the ordered cards held by one party
type Hand struct {
	Cards []Card
}

// NewHand creates an empty hand
func NewHand() *Hand {
	return &Hand{Cards: make([]Card, 0, 5)}
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card Card) {
	h.Cards = append(h.Cards, card)
}

// Count returns the number of cards in the hand
func (h *Hand) Count() int {
	return len(h.Cards)
}

// FlipHoleCard turns the first face-down card face up. No-op if every
// card is already showing.
func (h *Hand) FlipHoleCard() {
	for i, card := range h.Cards {
		if card.FaceDown {
			h.Cards[i] = card.Flip()
			return
		}
	}
}

// Score computes the best blackjack value of the visible cards. Face-down
// cards contribute nothing. Non-aces are summed first, then each ace in
// hand order counts 11 while the running total is 10 or less, otherwise 1.
func (h *Hand) Score() int {
	sum := 0
	for _, card := range h.Cards {
		if card.FaceDown || card.IsAce() {
			continue
		}
		sum += card.Value()
	}
	for _, card := range h.Cards {
		if card.FaceDown || !card.IsAce() {
			continue
		}
		if sum <= 10 {
			sum += 11
		} else {
			sum++
		}
	}
	return sum
}

// IsBlackjack reports a natural: exactly two cards, all showing, scoring 21
func (h *Hand) IsBlackjack() bool {
	if len(h.Cards) != 2 {
		return false
	}
	for _, card := range h.Cards {
		if card.FaceDown {
			return false
		}
	}
	return h.Score() == 21
}

// String returns the hand's visible representation, masking face-down cards
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		if card.FaceDown {
			parts[i] = "🎴"
		} else {
			parts[i] = card.String()
		}
	}
	return strings.Join(parts, " ")
}
