package blackjack

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	mu       sync.Mutex
	balances map[int64]int64
	applied  []int64
}

func newFakeLedger(id, balance int64) *fakeLedger {
	return &fakeLedger{balances: map[int64]int64{id: balance}}
}

func (l *fakeLedger) GetBalance(_ context.Context, id int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[id], nil
}

func (l *fakeLedger) ApplyDelta(_ context.Context, id, delta int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[id] += delta
	l.applied = append(l.applied, delta)
	return nil
}

type finalRender struct {
	view   TableView
	result Result
}

type recordingRenderer struct {
	mu     sync.Mutex
	views  []TableView
	finals []finalRender
}

func (r *recordingRenderer) Present(_ context.Context, view TableView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
	return nil
}

func (r *recordingRenderer) PresentResult(_ context.Context, view TableView, result Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finals = append(r.finals, finalRender{view: view, result: result})
	return nil
}

type scriptedInput struct {
	ch chan Decision
}

func newScriptedInput(decisions ...Decision) *scriptedInput {
	in := &scriptedInput{ch: make(chan Decision, len(decisions)+1)}
	for _, d := range decisions {
		in.ch <- d
	}
	return in
}

func (in *scriptedInput) Decisions() <-chan Decision {
	return in.ch
}

func newTestGame(t *testing.T, wager int64, deck *Deck, input Input) (*Game, *fakeLedger, *recordingRenderer) {
	t.Helper()
	ledger := newFakeLedger(1, 10000)
	renderer := &recordingRenderer{}
	game := NewGame(GameConfig{
		ParticipantID: 1,
		Wager:         wager,
		Ledger:        ledger,
		Renderer:      renderer,
		Input:         input,
		Deck:          deck,
	})
	return game, ledger, renderer
}

func TestRunDealerBust(t *testing.T) {
	// Deal order is player, dealer up, player, dealer hole. Player stands
	// on 19; the dealer reveals 13 and draws a 9 to bust at 22.
	deck := NewStackedDeck(
		NewCard("10", "♠️"),
		NewCard("7", "♥️"),
		NewCard("9", "♦️"),
		NewCard("6", "♣️"),
		NewCard("9", "♠️"),
	)
	game, ledger, renderer := newTestGame(t, 100, deck, newScriptedInput(DecisionStand))

	result, err := game.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeDealerBust, result.Outcome)
	require.Equal(t, int64(100), result.Delta)
	require.Equal(t, 19, result.PlayerScore)
	require.Equal(t, 22, result.DealerScore)

	require.Equal(t, []int64{100}, ledger.applied)
	require.Equal(t, int64(10100), ledger.balances[1])
	require.Equal(t, StateResolved, game.State())

	// During the player turn only the dealer's upcard counts.
	require.NotEmpty(t, renderer.views)
	require.Equal(t, 7, renderer.views[0].DealerScore)
	require.True(t, renderer.views[0].DealerCards[1].FaceDown)

	// The final render shows the full dealer hand.
	require.Len(t, renderer.finals, 1)
	final := renderer.finals[0]
	require.Equal(t, 22, final.view.DealerScore)
	for _, card := range final.view.DealerCards {
		require.False(t, card.FaceDown)
	}
}

func TestRunPlayerBlackjackShortCircuit(t *testing.T) {
	deck := NewStackedDeck(
		NewCard("A", "♠️"),
		NewCard("7", "♥️"),
		NewCard("K", "♦️"),
		NewCard("6", "♣️"),
	)
	game, ledger, renderer := newTestGame(t, 100, deck, newScriptedInput())

	result, err := game.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomePlayerBlackjack, result.Outcome)
	require.Equal(t, int64(150), result.Delta)
	require.Equal(t, []int64{150}, ledger.applied)

	// No dealer draws on this path, but the hole card is still revealed
	// before the final summary.
	require.Equal(t, 0, deck.Remaining())
	require.Empty(t, renderer.views)
	require.Len(t, renderer.finals, 1)
	require.Equal(t, 13, renderer.finals[0].view.DealerScore)
	require.False(t, renderer.finals[0].view.DealerCards[1].FaceDown)
}

func TestRunTwentyOneAfterHitPaysBlackjack(t *testing.T) {
	deck := NewStackedDeck(
		NewCard("5", "♠️"),
		NewCard("7", "♥️"),
		NewCard("6", "♦️"),
		NewCard("9", "♣️"),
		NewCard("10", "♠️"),
	)
	game, ledger, _ := newTestGame(t, 100, deck, newScriptedInput(DecisionHit))

	result, err := game.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomePlayerBlackjack, result.Outcome)
	require.Equal(t, int64(150), result.Delta)
	require.Equal(t, []int64{150}, ledger.applied)
}

func TestRunPlayerBust(t *testing.T) {
	deck := NewStackedDeck(
		NewCard("10", "♠️"),
		NewCard("7", "♥️"),
		NewCard("9", "♦️"),
		NewCard("6", "♣️"),
		NewCard("8", "♠️"),
	)
	game, ledger, renderer := newTestGame(t, 100, deck, newScriptedInput(DecisionHit))

	result, err := game.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomePlayerBust, result.Outcome)
	require.Equal(t, int64(-100), result.Delta)
	require.Equal(t, 27, result.PlayerScore)
	require.Equal(t, []int64{-100}, ledger.applied)
	require.Equal(t, int64(9900), ledger.balances[1])

	// The dealer drew nothing, yet the final view reveals the hole card.
	require.Len(t, renderer.finals, 1)
	require.Equal(t, 13, renderer.finals[0].view.DealerScore)
}

func TestRunDealerStandsOnSeventeen(t *testing.T) {
	deck := NewStackedDeck(
		NewCard("10", "♠️"),
		NewCard("10", "♥️"),
		NewCard("9", "♦️"),
		NewCard("7", "♣️"),
	)
	game, ledger, _ := newTestGame(t, 100, deck, newScriptedInput(DecisionStand))

	result, err := game.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomePlayerHigher, result.Outcome)
	require.Equal(t, int64(100), result.Delta)
	require.Equal(t, 17, result.DealerScore)
	require.Equal(t, 0, deck.Remaining(), "dealer must not draw on 17")
	require.Equal(t, []int64{100}, ledger.applied)
}

func TestRunDealerHigher(t *testing.T) {
	deck := NewStackedDeck(
		NewCard("10", "♠️"),
		NewCard("10", "♥️"),
		NewCard("8", "♦️"),
		NewCard("9", "♣️"),
	)
	game, ledger, _ := newTestGame(t, 50, deck, newScriptedInput(DecisionStand))

	result, err := game.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeDealerHigher, result.Outcome)
	require.Equal(t, int64(-50), result.Delta)
	require.Equal(t, []int64{-50}, ledger.applied)
}

func TestRunDealerBlackjack(t *testing.T) {
	deck := NewStackedDeck(
		NewCard("10", "♠️"),
		NewCard("A", "♥️"),
		NewCard("9", "♦️"),
		NewCard("K", "♣️"),
	)
	game, ledger, _ := newTestGame(t, 100, deck, newScriptedInput(DecisionStand))

	result, err := game.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeDealerBlackjack, result.Outcome)
	require.Equal(t, int64(-100), result.Delta)
	require.Equal(t, 21, result.DealerScore)
	require.Equal(t, []int64{-100}, ledger.applied)
}

func TestRunPush(t *testing.T) {
	deck := NewStackedDeck(
		NewCard("10", "♠️"),
		NewCard("10", "♥️"),
		NewCard("8", "♦️"),
		NewCard("8", "♣️"),
	)
	game, ledger, _ := newTestGame(t, 100, deck, newScriptedInput(DecisionStand))

	result, err := game.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomePush, result.Outcome)
	require.Equal(t, int64(0), result.Delta)
	require.Empty(t, ledger.applied, "a push moves no chips")
	require.Equal(t, int64(10000), ledger.balances[1])
}

func TestRunDecisionTimeoutStands(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	trap := mClock.Trap().AfterFunc()
	defer trap.Close()

	deck := NewStackedDeck(
		NewCard("10", "♠️"),
		NewCard("7", "♥️"),
		NewCard("9", "♦️"),
		NewCard("6", "♣️"),
		NewCard("9", "♠️"),
	)
	ledger := newFakeLedger(1, 10000)
	game := NewGame(GameConfig{
		ParticipantID: 1,
		Wager:         100,
		Ledger:        ledger,
		Renderer:      &recordingRenderer{},
		Input:         newScriptedInput(),
		Clock:         mClock,
		Deck:          deck,
	})

	type outcome struct {
		result *Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := game.Run(ctx)
		done <- outcome{result, err}
	}()

	// Wait for the bounded wait to arm its timer, then expire it.
	call := trap.MustWait(ctx)
	call.Release(ctx)
	mClock.Advance(DecisionTimeout).MustWait(ctx)

	got := <-done
	require.NoError(t, got.err)
	require.Equal(t, OutcomeDealerBust, got.result.Outcome)
	require.Equal(t, int64(100), got.result.Delta)
	require.Equal(t, []int64{100}, ledger.applied)
}

func TestRunAbortedContextSettlesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	deck := NewStackedDeck(
		NewCard("10", "♠️"),
		NewCard("7", "♥️"),
		NewCard("9", "♦️"),
		NewCard("6", "♣️"),
	)
	game, ledger, renderer := newTestGame(t, 100, deck, newScriptedInput())

	result, err := game.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, result)
	require.Empty(t, ledger.applied)
	require.Empty(t, renderer.finals)
}

func TestRunEmptyDeckAborts(t *testing.T) {
	deck := NewStackedDeck(
		NewCard("10", "♠️"),
		NewCard("7", "♥️"),
	)
	game, ledger, _ := newTestGame(t, 100, deck, newScriptedInput())

	result, err := game.Run(context.Background())
	require.ErrorIs(t, err, ErrEmptyDeck)
	require.Nil(t, result)
	require.Empty(t, ledger.applied, "no settlement on an aborted session")
}

func TestValidateWager(t *testing.T) {
	ledger := newFakeLedger(1, 500)

	require.NoError(t, ValidateWager(context.Background(), ledger, 1, 500))

	err := ValidateWager(context.Background(), ledger, 1, 0)
	var invalid *InvalidWagerError
	require.ErrorAs(t, err, &invalid)

	err = ValidateWager(context.Background(), ledger, 1, 501)
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, int64(501), invalid.Wager)
	require.Equal(t, int64(500), invalid.Balance)
}
