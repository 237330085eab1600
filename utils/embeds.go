package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"lsa-go/games/blackjack"
)

// CreateBrandedEmbed creates a basic embed with consistent styling
func CreateBrandedEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "LSA Casino",
		},
	}
}

// ErrorEmbed creates a red error embed
func ErrorEmbed(message string) *discordgo.MessageEmbed {
	return CreateBrandedEmbed("❌ Error", message, ColorLoss)
}

// InsufficientChipsEmbed tells the user their wager exceeds their balance
func InsufficientChipsEmbed(wager, balance int64) *discordgo.MessageEmbed {
	return CreateBrandedEmbed(
		"💸 Insufficient Chips",
		fmt.Sprintf("You tried to bet %s but only have %s.", FormatChips(wager), FormatChips(balance)),
		ColorLoss,
	)
}

// FormatCards renders a card slice, masking face-down cards
func FormatCards(cards []blackjack.Card) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		if card.FaceDown {
			parts[i] = "🎴"
		} else {
			parts[i] = card.String()
		}
	}
	return strings.Join(parts, " ")
}

// BlackjackTableEmbed renders the table from visible card state. While the
// game is live the dealer's value covers the upcard only; the final embed
// carries the outcome and recolors by result.
func BlackjackTableEmbed(view blackjack.TableView, result *blackjack.Result, newBalance int64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🃏 Blackjack",
		Color: BotColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "💰 Bet",
				Value:  FormatChips(view.Wager),
				Inline: true,
			},
			{
				Name:   "🎯 Your Hand",
				Value:  fmt.Sprintf("%s\n**Value: %d**", FormatCards(view.PlayerCards), view.PlayerScore),
				Inline: true,
			},
			{
				Name:   "🏠 Dealer",
				Value:  fmt.Sprintf("%s\n**Value: %d**", FormatCards(view.DealerCards), view.DealerScore),
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if result == nil {
		embed.Description = "Hit to take another card, or stand to let the dealer play."
		return embed
	}

	resultValue := fmt.Sprintf("**%s**", result.Outcome)
	switch {
	case result.Delta > 0:
		resultValue += fmt.Sprintf("\nYou won %s", FormatChips(result.Delta))
		embed.Color = ColorWin
	case result.Delta < 0:
		resultValue += fmt.Sprintf("\nYou lost %s", FormatChips(-result.Delta))
		embed.Color = ColorLoss
	default:
		resultValue += "\nYour bet was returned"
		embed.Color = ColorPush
	}
	resultValue += fmt.Sprintf("\nBalance: %s", FormatChips(newBalance))

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "🎊 Result",
		Value:  resultValue,
		Inline: false,
	})

	return embed
}

// BalanceEmbed shows the user's current chip balance
func BalanceEmbed(username string, user *User) *discordgo.MessageEmbed {
	embed := CreateBrandedEmbed(
		fmt.Sprintf("💰 %s's Balance", username),
		fmt.Sprintf("You currently have **%s**", FormatChips(user.Chips)),
		BotColor,
	)
	return embed
}

// ProfileEmbed shows the user's casino profile
func ProfileEmbed(username string, user *User) *discordgo.MessageEmbed {
	rank := GetRank(user.Wins)

	totalGames := user.Wins + user.Losses
	winRate := 0.0
	if totalGames > 0 {
		winRate = float64(user.Wins) / float64(totalGames) * 100
	}

	embed := CreateBrandedEmbed(fmt.Sprintf("🎰 %s's Casino Profile", username), "", BotColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "💰 Chips",
			Value:  FormatChips(user.Chips),
			Inline: true,
		},
		{
			Name:   "🏆 Rank",
			Value:  fmt.Sprintf("%s %s", rank.Icon, rank.Name),
			Inline: true,
		},
		{
			Name:   "🎯 Games Won",
			Value:  FormatNumber(int64(user.Wins)),
			Inline: true,
		},
		{
			Name:   "💔 Games Lost",
			Value:  FormatNumber(int64(user.Losses)),
			Inline: true,
		},
		{
			Name:   "📊 Win Rate",
			Value:  fmt.Sprintf("%.1f%%", winRate),
			Inline: true,
		},
	}

	return embed
}
