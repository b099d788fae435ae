package bot

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
)

// handleRequest posts a voting embed for a requested title. Members vote
// with the seeded reactions; mods act on the tally.
func (b *Bot) handleRequest(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := *e.GuildID()
	cfg, ok := b.cfg[guildID]
	if !ok || cfg.RequestChannelID == 0 {
		botutil.RespondEphemeral(e, "No request channel is configured for this server.")
		return
	}
	title := data.String("title")

	embed := discord.Embed{
		Title:       "Media request",
		Description: fmt.Sprintf("**%s**\nrequested by %s", title, e.User().Username),
		Color:       0x3498db,
	}
	sent, err := botutil.PostWithRetry(b.Client.Rest, cfg.RequestChannelID, discord.MessageCreate{Embeds: []discord.Embed{embed}}, b.Log)
	if err != nil {
		b.Log.Error("Failed to post request", "guild_id", guildID, "error", err)
		botutil.RespondEphemeral(e, "Could not post the request, try again in a bit.")
		return
	}

	for _, emoji := range []string{"✅", "🚫"} {
		if err := b.Client.Rest.AddReaction(cfg.RequestChannelID, sent.ID, emoji); err != nil {
			b.Log.Info("Failed to seed vote reaction", "message_id", sent.ID, "emoji", emoji, "error", err)
		}
	}

	b.Log.Info("Request posted", "guild_id", guildID, "user_id", e.User().ID, "title", title)
	botutil.RespondEphemeral(e, fmt.Sprintf("Your request for %q is up for votes in <#%d>.", title, cfg.RequestChannelID))
}
