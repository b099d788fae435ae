package bot

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/qotd"
)

// runDailyQuestion posts the question of the day in every configured guild.
func (b *Bot) runDailyQuestion() {
	for guildID, cfg := range b.cfg {
		if cfg.QOTDChannelID == 0 {
			continue
		}
		if err := b.postQuestion(guildID, cfg.QOTDChannelID); err != nil {
			b.Log.Error("Failed to post daily question", "guild_id", guildID, "error", err)
		}
	}
}

func (b *Bot) postQuestion(guildID, channelID snowflake.ID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	question, tab, err := b.qotd.Pick(ctx)
	if err != nil {
		return err
	}

	embed := discord.Embed{
		Title:       "Question of the Day",
		Description: question,
		Color:       qotd.ColorFor(tab),
	}
	if _, err := botutil.PostWithRetry(b.Client.Rest, channelID, discord.MessageCreate{Embeds: []discord.Embed{embed}}, b.Log); err != nil {
		return err
	}
	b.Log.Info("Posted question of the day", "guild_id", guildID, "tab", tab)
	return nil
}

func (b *Bot) handleQOTDNow(e *events.ApplicationCommandInteractionCreate) {
	guildID := *e.GuildID()
	cfg, ok := b.cfg[guildID]
	if !ok || cfg.QOTDChannelID == 0 {
		botutil.RespondEphemeral(e, "No question channel is configured for this server.")
		return
	}

	if err := e.DeferCreateMessage(true); err != nil {
		b.Log.Error("Failed to defer qotd", "error", err)
		return
	}

	err := b.postQuestion(guildID, cfg.QOTDChannelID)
	content := "Question posted."
	switch {
	case errors.Is(err, qotd.ErrNotConfigured):
		content = "The question sheet is not configured."
	case errors.Is(err, qotd.ErrNoQuestions):
		content = "The question sheet is empty."
	case err != nil:
		b.Log.Error("Failed to post question", "guild_id", guildID, "error", err)
		content = "Could not post a question, try again in a bit."
	}
	b.followupEphemeral(e.Token(), content)
}
