package cogs

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/coder/quartz"

	"lsa-go/games/blackjack"
	"lsa-go/utils"
)

// BlackjackCog owns the /blackjack command: wager validation, the session
// guard, and the plumbing between Discord interactions and the game
// engine. Sessions run in their own goroutine; button presses are relayed
// through the participant's decision channel.
type BlackjackCog struct {
	ledger  blackjack.Ledger
	guard   *blackjack.SessionGuard
	clock   quartz.Clock
	baseCtx context.Context

	mu     sync.RWMutex
	relays map[int64]*decisionRelay
}

// NewBlackjackCog creates the cog. baseCtx aborts in-flight sessions on
// shutdown.
func NewBlackjackCog(baseCtx context.Context, ledger blackjack.Ledger, guard *blackjack.SessionGuard) *BlackjackCog {
	return &BlackjackCog{
		ledger:  ledger,
		guard:   guard,
		clock:   quartz.NewReal(),
		baseCtx: baseCtx,
		relays:  make(map[int64]*decisionRelay),
	}
}

// Command returns the slash command definition for blackjack
func (c *BlackjackCog) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "blackjack",
		Description: "Play a game of blackjack",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "bet",
				Description: "Chips to wager (e.g. 500, 10k, 50%, all)",
				Required:    true,
			},
		},
	}
}

// HandleCommand handles the /blackjack slash command
func (c *BlackjackCog) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		respondError(s, i, "Failed to parse user ID")
		return
	}

	betStr := i.ApplicationCommandData().Options[0].StringValue()

	user, err := utils.GetCachedUser(userID)
	if err != nil {
		respondError(s, i, "Failed to get user data. Please try again.")
		return
	}

	wager, err := utils.ParseBet(betStr, user.Chips)
	if err != nil {
		respondError(s, i, "Invalid bet: "+err.Error())
		return
	}

	// Wager validation happens before the guard entry exists, so a
	// rejected bet never locks the participant out.
	if err := blackjack.ValidateWager(c.baseCtx, c.ledger, userID, wager); err != nil {
		var invalid *blackjack.InvalidWagerError
		switch {
		case errors.As(err, &invalid) && invalid.Wager > 0:
			utils.SendInteractionResponse(s, i, utils.InsufficientChipsEmbed(invalid.Wager, invalid.Balance), nil, true)
		case errors.As(err, &invalid):
			respondError(s, i, "Bet must be greater than 0.")
		default:
			respondError(s, i, "Failed to check your balance. Please try again.")
		}
		return
	}

	if err := c.guard.Admit(userID); err != nil {
		var active *blackjack.AlreadyActiveError
		if errors.As(err, &active) {
			utils.RespondEphemeral(s, i, "You have an ongoing game. Please finish it first.")
			return
		}
		respondError(s, i, "Failed to start game.")
		return
	}

	relay := newDecisionRelay()
	c.mu.Lock()
	c.relays[userID] = relay
	c.mu.Unlock()

	game := blackjack.NewGame(blackjack.GameConfig{
		ParticipantID: userID,
		Wager:         wager,
		Ledger:        c.ledger,
		Renderer:      newInteractionRenderer(s, i, userID),
		Input:         relay,
		Clock:         c.clock,
	})

	log.Printf("Started blackjack game for user %d with bet %d", userID, wager)

	go func() {
		// The guard entry is released on every exit path, including
		// aborts, so a crashed session never locks the participant out.
		defer func() {
			c.mu.Lock()
			delete(c.relays, userID)
			c.mu.Unlock()
			c.guard.Release(userID)
		}()

		result, err := game.Run(c.baseCtx)
		if err != nil {
			log.Printf("Blackjack game for user %d aborted: %v", userID, err)
			return
		}
		log.Printf("Finished blackjack game for user %d: %s (%+d)", userID, result.Outcome, result.Delta)
	}()
}

// HandleInteraction routes blackjack button presses to the pressing
// participant's live game
func (c *BlackjackCog) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	userID, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		return
	}

	var decision blackjack.Decision
	var ownerSuffix string
	switch {
	case strings.HasPrefix(customID, "bj_hit_"):
		decision = blackjack.DecisionHit
		ownerSuffix = strings.TrimPrefix(customID, "bj_hit_")
	case strings.HasPrefix(customID, "bj_stand_"):
		decision = blackjack.DecisionStand
		ownerSuffix = strings.TrimPrefix(customID, "bj_stand_")
	default:
		return
	}

	ownerID, err := utils.ParseUserID(ownerSuffix)
	if err != nil {
		return
	}
	if ownerID != userID {
		utils.RespondEphemeral(s, i, "You are not allowed to use this button.")
		return
	}

	c.mu.RLock()
	relay, exists := c.relays[userID]
	c.mu.RUnlock()
	if !exists {
		utils.RespondEphemeral(s, i, "No active blackjack game found.")
		return
	}

	if err := utils.AcknowledgeComponentInteraction(s, i); err != nil {
		log.Printf("Failed to acknowledge blackjack interaction: %v", err)
	}

	if !relay.Offer(decision) {
		// A decision is already queued; the extra press is dropped.
		log.Printf("Dropped duplicate %s from user %d", decision, userID)
	}
}

func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	utils.SendInteractionResponse(s, i, utils.ErrorEmbed(message), nil, true)
}
