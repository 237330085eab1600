package utils

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// CreateButton builds a message component button
func CreateButton(customID, label string, style discordgo.ButtonStyle, disabled bool, emoji *discordgo.ComponentEmoji) discordgo.MessageComponent {
	return &discordgo.Button{
		CustomID: customID,
		Label:    label,
		Style:    style,
		Disabled: disabled,
		Emoji:    emoji,
	}
}

// CreateActionRow wraps buttons in an action row
func CreateActionRow(buttons ...discordgo.MessageComponent) discordgo.MessageComponent {
	return &discordgo.ActionsRow{Components: buttons}
}

// SendInteractionResponse sends the initial response to an interaction
func SendInteractionResponse(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if components != nil {
		data.Components = components
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// UpdateInteractionResponse edits the original response of an interaction
func UpdateInteractionResponse(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	edit := &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	}
	_, err := s.InteractionResponseEdit(i.Interaction, edit)
	return err
}

// AcknowledgeComponentInteraction defers a component interaction so the
// message can be edited later
func AcknowledgeComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// RespondEphemeral sends a short ephemeral text reply to an interaction
func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// ParseUserID converts a Discord snowflake string to int64
func ParseUserID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
