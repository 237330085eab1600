package blackjack

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/coder/quartz"
)

// Blackjack rule constants. The dealer stands on every 17; a natural pays
// 3:2.
const (
	DealerStandValue = 17
	BlackjackPayout  = 1.5
	DecisionTimeout  = 90 * time.Second
)

// State is the turn state machine's position
type State int

const (
	StateDealing State = iota
	StatePlayerTurn
	StateDealerTurn
	StateResolved
)

// GameConfig carries a session's identity and collaborators. Clock, Deck
// and Timeout are optional and default to the real clock, a fresh shuffled
// deck and DecisionTimeout.
type GameConfig struct {
	ParticipantID int64
	Wager         int64
	Ledger        Ledger
	Renderer      Renderer
	Input         Input
	Clock         quartz.Clock
	Deck          *Deck
	Timeout       time.Duration
}

// Game drives one blackjack session from deal to settlement. It is
// strictly sequential: the deck and hands are owned by the session and
// only the decision wait yields control.
type Game struct {
	participantID int64
	wager         int64
	ledger        Ledger
	renderer      Renderer
	input         Input
	clock         quartz.Clock
	timeout       time.Duration

	deck    *Deck
	player  *Hand
	dealer  *Hand
	state   State
	settled bool
}

// NewGame creates a session from the given config
func NewGame(cfg GameConfig) *Game {
	clock := cfg.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	deck := cfg.Deck
	if deck == nil {
		deck = NewDeck(nil)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DecisionTimeout
	}

	return &Game{
		participantID: cfg.ParticipantID,
		wager:         cfg.Wager,
		ledger:        cfg.Ledger,
		renderer:      cfg.Renderer,
		input:         cfg.Input,
		clock:         clock,
		timeout:       timeout,
		deck:          deck,
		player:        NewHand(),
		dealer:        NewHand(),
		state:         StateDealing,
	}
}

// State returns the machine's current state
func (g *Game) State() State {
	return g.state
}

// Run plays the session to completion and returns the settled result.
// Cancelling ctx aborts the session without settlement; the caller owns
// guard release on every path.
func (g *Game) Run(ctx context.Context) (*Result, error) {
	if err := g.deal(); err != nil {
		return nil, err
	}

	for g.state == StatePlayerTurn {
		switch score := g.player.Score(); {
		case score == 21:
			return g.resolve(ctx, OutcomePlayerBlackjack)
		case score > 21:
			return g.resolve(ctx, OutcomePlayerBust)
		}

		if err := g.renderer.Present(ctx, g.view()); err != nil {
			log.Printf("blackjack: failed to present table for %d: %v", g.participantID, err)
		}

		decision, err := g.awaitDecision(ctx)
		if err != nil {
			return nil, err
		}

		if decision == DecisionHit {
			if err := g.drawTo(g.player); err != nil {
				return nil, err
			}
			continue
		}
		g.state = StateDealerTurn
	}

	g.dealer.FlipHoleCard()
	for g.dealer.Score() < DealerStandValue {
		if err := g.drawTo(g.dealer); err != nil {
			return nil, err
		}
	}

	playerScore := g.player.Score()
	dealerScore := g.dealer.Score()
	switch {
	case dealerScore == 21:
		return g.resolve(ctx, OutcomeDealerBlackjack)
	case dealerScore > 21:
		return g.resolve(ctx, OutcomeDealerBust)
	case dealerScore == playerScore:
		return g.resolve(ctx, OutcomePush)
	case dealerScore > playerScore:
		return g.resolve(ctx, OutcomeDealerHigher)
	default:
		return g.resolve(ctx, OutcomePlayerHigher)
	}
}

// deal gives the player two cards face up and the dealer one up, one down
func (g *Game) deal() error {
	if err := g.drawTo(g.player); err != nil {
		return err
	}
	if err := g.drawTo(g.dealer); err != nil {
		return err
	}
	if err := g.drawTo(g.player); err != nil {
		return err
	}

	hole, err := g.deck.Draw()
	if err != nil {
		return fmt.Errorf("dealing: %w", err)
	}
	g.dealer.AddCard(hole.Flip())

	g.state = StatePlayerTurn
	return nil
}

// drawTo deals one face-up card into the given hand
func (g *Game) drawTo(hand *Hand) error {
	card, err := g.deck.Draw()
	if err != nil {
		return fmt.Errorf("dealing: %w", err)
	}
	hand.AddCard(card)
	return nil
}

// awaitDecision waits for the player's choice, bounded by the session
// timeout. A timeout is not an error: the player is stood by default.
func (g *Game) awaitDecision(ctx context.Context) (Decision, error) {
	timedOut := make(chan struct{})
	timer := g.clock.AfterFunc(g.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case decision := <-g.input.Decisions():
		return decision, nil
	case <-timedOut:
		log.Printf("blackjack: decision timeout for %d, standing", g.participantID)
		return DecisionStand, nil
	case <-ctx.Done():
		return DecisionStand, ctx.Err()
	}
}

// resolve terminates the session: the dealer's hole card is revealed on
// every path so final scores match what is displayed, the wager is settled
// exactly once, and the final table is rendered.
func (g *Game) resolve(ctx context.Context, outcome Outcome) (*Result, error) {
	g.state = StateResolved
	g.dealer.FlipHoleCard()

	result := &Result{
		Outcome:     outcome,
		Delta:       outcome.Delta(g.wager),
		PlayerScore: g.player.Score(),
		DealerScore: g.dealer.Score(),
	}

	if err := g.settle(ctx, result.Delta); err != nil {
		return nil, err
	}

	if err := g.renderer.PresentResult(ctx, g.view(), *result); err != nil {
		// The wager is already settled; a failed final render must not
		// fail the session.
		log.Printf("blackjack: failed to present result for %d: %v", g.participantID, err)
	}

	return result, nil
}

// settle applies the balance delta through the ledger once per session
func (g *Game) settle(ctx context.Context, delta int64) error {
	if g.settled {
		return nil
	}
	if delta != 0 {
		if err := g.ledger.ApplyDelta(ctx, g.participantID, delta); err != nil {
			return fmt.Errorf("failed to settle wager: %w", err)
		}
	}
	g.settled = true
	return nil
}

// view snapshots the current table for the renderer
func (g *Game) view() TableView {
	return TableView{
		PlayerCards: append([]Card(nil), g.player.Cards...),
		PlayerScore: g.player.Score(),
		DealerCards: append([]Card(nil), g.dealer.Cards...),
		DealerScore: g.dealer.Score(),
		Wager:       g.wager,
	}
}
