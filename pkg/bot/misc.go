package bot

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
)

func (b *Bot) handleSay(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	channel, ok := data.OptChannel("channel")
	if !ok {
		botutil.RespondEphemeral(e, "Pick a channel.")
		return
	}
	message := data.String("message")

	if _, err := botutil.PostWithRetry(b.Client.Rest, channel.ID, discord.MessageCreate{Content: message}, b.Log); err != nil {
		b.Log.Error("Failed to relay message", "channel_id", channel.ID, "error", err)
		botutil.RespondEphemeral(e, "Could not post there, check the bot's channel permissions.")
		return
	}
	b.Log.Info("Relayed message", "channel_id", channel.ID, "user_id", e.User().ID)
	botutil.RespondEphemeral(e, "Sent.")
}

func (b *Bot) handleInfo(e *events.ApplicationCommandInteractionCreate) {
	embed := discord.Embed{
		Title: "Soft Dreamings Member Bot",
		Description: "Keeps track of birthdays, runs the watch-party pick pool, " +
			"posts the question of the day and dresses the server up for the holidays.",
		Color: 0x9b59b6,
		Fields: []discord.EmbedField{
			{Name: "Birthdays", Value: "/set, /birthdays"},
			{Name: "Pick pool", Value: "/pick, /repick, /pool"},
			{Name: "Media list", Value: "/list, /request"},
		},
	}
	if err := e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Flags:  discord.MessageFlagEphemeral,
	}); err != nil {
		b.Log.Error("Failed to send info", "error", err)
	}
}

func (b *Bot) handleCommandList(e *events.ApplicationCommandInteractionCreate) {
	var sb strings.Builder
	sb.WriteString("**Everyone**\n")
	for _, line := range []string{
		"/set - save your birthday",
		"/birthdays - see the birthday list",
		"/pick - put a title in the pick pool",
		"/repick - swap one of your entries",
		"/pool - see the pool",
		"/list - browse the media list",
		"/request - request a new title",
		"/random - draw a winner from the pool",
		"/color - cycle the dead chat color (needs the role)",
		"/info - about the bot",
	} {
		fmt.Fprintf(&sb, "%s\n", line)
	}
	sb.WriteString("\n**Mods**\n")
	for _, line := range []string{
		"/set_for, /remove_for - manage someone else's birthday",
		"/publish_birthdays, /publish_pool - post the public lists",
		"/pick_remove - prune pool entries",
		"/media_add, /media_reload - maintain the media list",
		"/holiday_add, /holiday_remove - seasonal theme",
		"/qotd_now - post a question right away",
		"/say - speak as the bot",
	} {
		fmt.Fprintf(&sb, "%s\n", line)
	}
	botutil.RespondEphemeral(e, sb.String())
}
