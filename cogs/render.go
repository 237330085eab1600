package cogs

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"lsa-go/games/blackjack"
	"lsa-go/utils"
)

// interactionRenderer implements blackjack.Renderer on top of a slash
// command interaction: the first Present sends the response, later calls
// edit it. It renders only the visible card state it is given.
type interactionRenderer struct {
	session     *discordgo.Session
	interaction *discordgo.InteractionCreate
	userID      int64
	sent        bool
}

func newInteractionRenderer(s *discordgo.Session, i *discordgo.InteractionCreate, userID int64) *interactionRenderer {
	return &interactionRenderer{session: s, interaction: i, userID: userID}
}

// Present shows the live table with the decision buttons enabled
func (r *interactionRenderer) Present(_ context.Context, view blackjack.TableView) error {
	embed := utils.BlackjackTableEmbed(view, nil, 0)
	components := decisionButtons(r.userID, false)

	if !r.sent {
		if err := utils.SendInteractionResponse(r.session, r.interaction, embed, components, false); err != nil {
			return err
		}
		r.sent = true
		return nil
	}
	return utils.UpdateInteractionResponse(r.session, r.interaction, embed, components)
}

// PresentResult shows the final table with the outcome and disables the
// buttons. On short-circuit paths no live table was ever sent, so this is
// the initial response.
func (r *interactionRenderer) PresentResult(_ context.Context, view blackjack.TableView, result blackjack.Result) error {
	newBalance := int64(0)
	if user, err := utils.GetCachedUser(r.userID); err == nil {
		newBalance = user.Chips
	} else {
		log.Printf("Failed to load balance for final render of user %d: %v", r.userID, err)
	}

	embed := utils.BlackjackTableEmbed(view, &result, newBalance)

	if !r.sent {
		if err := utils.SendInteractionResponse(r.session, r.interaction, embed, nil, false); err != nil {
			return err
		}
		r.sent = true
		return nil
	}
	return utils.UpdateInteractionResponse(r.session, r.interaction, embed, decisionButtons(r.userID, true))
}
