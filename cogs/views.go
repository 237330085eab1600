package cogs

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"lsa-go/games/blackjack"
	"lsa-go/utils"
)

// decisionRelay bridges Discord button presses into the engine's input
// channel. The channel is buffered so a press between turns never blocks
// the interaction handler; Offer drops presses when no decision is
// pending.
type decisionRelay struct {
	ch chan blackjack.Decision
}

func newDecisionRelay() *decisionRelay {
	return &decisionRelay{ch: make(chan blackjack.Decision, 1)}
}

// Decisions implements blackjack.Input
func (r *decisionRelay) Decisions() <-chan blackjack.Decision {
	return r.ch
}

// Offer hands a decision to the engine without blocking
func (r *decisionRelay) Offer(d blackjack.Decision) bool {
	select {
	case r.ch <- d:
		return true
	default:
		return false
	}
}

// decisionButtons builds the Hit/Stand row for a participant's game
func decisionButtons(userID int64, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		utils.CreateActionRow(
			utils.CreateButton(
				fmt.Sprintf("bj_hit_%d", userID),
				"Hit",
				discordgo.PrimaryButton,
				disabled,
				&discordgo.ComponentEmoji{Name: "🇭"},
			),
			utils.CreateButton(
				fmt.Sprintf("bj_stand_%d", userID),
				"Stand",
				discordgo.SecondaryButton,
				disabled,
				&discordgo.ComponentEmoji{Name: "🇸"},
			),
		),
	}
}
