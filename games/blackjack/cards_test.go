package blackjack

import (
	"errors"
	"math/rand"
	"testing"
)

func TestHandScore(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
		want  int
	}{
		{"empty hand", nil, 0},
		{"face cards", []Card{NewCard("K", "♠️"), NewCard("Q", "♥️")}, 20},
		{"natural", []Card{NewCard("A", "♠️"), NewCard("K", "♥️")}, 21},
		{"two aces", []Card{NewCard("A", "♠️"), NewCard("A", "♥️")}, 12},
		{"two aces and nine", []Card{NewCard("A", "♠️"), NewCard("A", "♥️"), NewCard("9", "♦️")}, 21},
		{"three aces", []Card{NewCard("A", "♠️"), NewCard("A", "♥️"), NewCard("A", "♦️")}, 13},
		{"four aces", []Card{NewCard("A", "♠️"), NewCard("A", "♥️"), NewCard("A", "♦️"), NewCard("A", "♣️")}, 14},
		{"four aces and seven", []Card{NewCard("A", "♠️"), NewCard("A", "♥️"), NewCard("A", "♦️"), NewCard("A", "♣️"), NewCard("7", "♠️")}, 21},
		{"soft seventeen", []Card{NewCard("A", "♠️"), NewCard("6", "♥️")}, 17},
		{"ace demoted after bust threshold", []Card{NewCard("K", "♠️"), NewCard("5", "♥️"), NewCard("A", "♦️")}, 16},
		{"hard total over twenty one", []Card{NewCard("K", "♠️"), NewCard("Q", "♥️"), NewCard("5", "♦️")}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := NewHand()
			for _, c := range tt.cards {
				hand.AddCard(c)
			}
			if got := hand.Score(); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandScoreAceBeforeNonAce(t *testing.T) {
	// Aces resolve after all non-aces regardless of where they sit in the
	// hand, so encounter order of the non-aces never changes the total.
	hand := NewHand()
	hand.AddCard(NewCard("A", "♠️"))
	hand.AddCard(NewCard("9", "♦️"))
	hand.AddCard(NewCard("A", "♥️"))
	if got := hand.Score(); got != 21 {
		t.Errorf("Score() = %d, want 21", got)
	}
}

func TestHandScoreIgnoresFaceDown(t *testing.T) {
	hand := NewHand()
	hand.AddCard(NewCard("7", "♠️"))
	hand.AddCard(NewCard("6", "♥️").Flip())

	if got := hand.Score(); got != 7 {
		t.Errorf("visible score = %d, want 7", got)
	}

	hand.FlipHoleCard()
	if got := hand.Score(); got != 13 {
		t.Errorf("score after reveal = %d, want 13", got)
	}
}

func TestHandScoreAllFaceDown(t *testing.T) {
	hand := NewHand()
	hand.AddCard(NewCard("K", "♠️").Flip())
	hand.AddCard(NewCard("A", "♥️").Flip())
	if got := hand.Score(); got != 0 {
		t.Errorf("Score() = %d, want 0", got)
	}
}

func TestHandIsBlackjack(t *testing.T) {
	natural := NewHand()
	natural.AddCard(NewCard("A", "♠️"))
	natural.AddCard(NewCard("K", "♥️"))
	if !natural.IsBlackjack() {
		t.Error("expected A K to be a natural")
	}

	hidden := NewHand()
	hidden.AddCard(NewCard("A", "♠️"))
	hidden.AddCard(NewCard("K", "♥️").Flip())
	if hidden.IsBlackjack() {
		t.Error("hand with a hole card must not count as a natural")
	}

	threeCard := NewHand()
	threeCard.AddCard(NewCard("7", "♠️"))
	threeCard.AddCard(NewCard("7", "♥️"))
	threeCard.AddCard(NewCard("7", "♦️"))
	if threeCard.IsBlackjack() {
		t.Error("21 with three cards is not a natural")
	}
}

func TestNewDeckHas52DistinctCards(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	if deck.Remaining() != 52 {
		t.Fatalf("Remaining() = %d, want 52", deck.Remaining())
	}

	seen := make(map[string]bool)
	for i := 0; i < 52; i++ {
		card, err := deck.Draw()
		if err != nil {
			t.Fatalf("Draw() %d failed: %v", i, err)
		}
		key := card.Rank + card.Suit
		if seen[key] {
			t.Errorf("duplicate card %s", key)
		}
		seen[key] = true

		if want := 52 - i - 1; deck.Remaining() != want {
			t.Errorf("after %d draws Remaining() = %d, want %d", i+1, deck.Remaining(), want)
		}
	}
	if len(seen) != 52 {
		t.Errorf("drew %d distinct cards, want 52", len(seen))
	}
}

func TestDrawFromEmptyDeck(t *testing.T) {
	deck := NewStackedDeck(NewCard("A", "♠️"))
	if _, err := deck.Draw(); err != nil {
		t.Fatalf("first draw failed: %v", err)
	}
	if _, err := deck.Draw(); !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("expected ErrEmptyDeck, got %v", err)
	}
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	deck := NewStackedDeck(NewCard("2", "♠️"), NewCard("3", "♥️"), NewCard("4", "♦️"))
	for _, want := range []string{"2", "3", "4"} {
		card, err := deck.Draw()
		if err != nil {
			t.Fatalf("Draw() failed: %v", err)
		}
		if card.Rank != want {
			t.Errorf("got rank %s, want %s", card.Rank, want)
		}
	}
}

func TestCardFlip(t *testing.T) {
	card := NewCard("K", "♠️")
	down := card.Flip()
	if !down.FaceDown {
		t.Error("Flip() should set FaceDown on an up card")
	}
	if card.FaceDown {
		t.Error("Flip() must not mutate the receiver")
	}
	if up := down.Flip(); up.FaceDown {
		t.Error("double flip should restore face up")
	}
}
