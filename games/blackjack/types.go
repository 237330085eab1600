package blackjack

import "context"

// Decision is a player choice during their turn
type Decision int

const (
	DecisionHit Decision = iota
	DecisionStand
)

// String returns the decision name
func (d Decision) String() string {
	switch d {
	case DecisionHit:
		return "hit"
	case DecisionStand:
		return "stand"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a session. Exactly one outcome fires
// per game.
type Outcome int

const (
	OutcomePlayerBlackjack Outcome = iota
	OutcomePlayerBust
	OutcomeDealerBlackjack
	OutcomeDealerBust
	OutcomeDealerHigher
	OutcomePlayerHigher
	OutcomePush
)

// String returns the outcome's display text
func (o Outcome) String() string {
	switch o {
	case OutcomePlayerBlackjack:
		return "Blackjack!"
	case OutcomePlayerBust:
		return "Player busts"
	case OutcomeDealerBlackjack:
		return "Dealer blackjack"
	case OutcomeDealerBust:
		return "Dealer busts"
	case OutcomeDealerHigher:
		return "Dealer wins"
	case OutcomePlayerHigher:
		return "You win!"
	case OutcomePush:
		return "Push"
	default:
		return "unknown"
	}
}

// PlayerWon reports whether the outcome pays the player
func (o Outcome) PlayerWon() bool {
	switch o {
	case OutcomePlayerBlackjack, OutcomeDealerBust, OutcomePlayerHigher:
		return true
	default:
		return false
	}
}

// Delta returns the signed balance change for the wager: 1.5x for a
// natural, the wager back and forth otherwise, nothing on a push.
func (o Outcome) Delta(wager int64) int64 {
	switch o {
	case OutcomePlayerBlackjack:
		return int64(float64(wager) * BlackjackPayout)
	case OutcomeDealerBust, OutcomePlayerHigher:
		return wager
	case OutcomePlayerBust, OutcomeDealerBlackjack, OutcomeDealerHigher:
		return -wager
	default:
		return 0
	}
}

// TableView is a snapshot of the visible table state handed to the
// renderer. Face-down cards keep their flag set so the renderer can mask
// them; the scores already count visible cards only.
type TableView struct {
	PlayerCards []Card
	PlayerScore int
	DealerCards []Card
	DealerScore int
	Wager       int64
}

// Result describes a resolved session
type Result struct {
	Outcome     Outcome
	Delta       int64
	PlayerScore int
	DealerScore int
}

// Ledger is the balance store consumed by the engine. ApplyDelta must be
// atomic: it is called exactly once per resolved session.
type Ledger interface {
	GetBalance(ctx context.Context, participantID int64) (int64, error)
	ApplyDelta(ctx context.Context, participantID, delta int64) error
}

// Renderer presents table state to the participant. It is purely a
// function of the visible cards it is given and holds no game logic.
type Renderer interface {
	Present(ctx context.Context, view TableView) error
	PresentResult(ctx context.Context, view TableView, result Result) error
}

// Input delivers player decisions from the transport. Implementations keep
// the channel buffered so a late button press never blocks the sender; the
// engine owns the bounded wait and the timeout default.
type Input interface {
	Decisions() <-chan Decision
}
