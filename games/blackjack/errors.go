package blackjack

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyDeck is returned when a session tries to draw from an exhausted
// deck. A single-session deal can never legitimately use all 52 cards, so
// this is an invariant violation: the session aborts without settlement.
var ErrEmptyDeck = errors.New("blackjack: deck is empty")

// AlreadyActiveError rejects a session start while the participant still
// has a game in flight.
type AlreadyActiveError struct {
	ParticipantID int64
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("participant %d already has an active game", e.ParticipantID)
}

// InvalidWagerError rejects a wager before any session state exists.
type InvalidWagerError struct {
	Wager   int64
	Balance int64
}

func (e *InvalidWagerError) Error() string {
	if e.Wager <= 0 {
		return fmt.Sprintf("wager must be greater than 0, got %d", e.Wager)
	}
	return fmt.Sprintf("wager %d exceeds balance %d", e.Wager, e.Balance)
}

// ValidateWager checks the wager against the participant's balance at the
// session-start boundary. On failure the session is never created and no
// guard entry exists.
func ValidateWager(ctx context.Context, ledger Ledger, participantID, wager int64) error {
	if wager <= 0 {
		return &InvalidWagerError{Wager: wager}
	}
	balance, err := ledger.GetBalance(ctx, participantID)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}
	if wager > balance {
		return &InvalidWagerError{Wager: wager, Balance: balance}
	}
	return nil
}
