package bot

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// welcomeDM is what new members get. Kept as a template so the member's
// name can be dropped in.
const welcomeDM = "Welcome to Soft Dreamings, %s! 💜\n\n" +
	"A few things to get you started:\n" +
	"• Save your birthday with /set so we can celebrate with you.\n" +
	"• Put a movie or show in the watch-party pool with /pick.\n" +
	"• /commands shows everything else the bot can do.\n\n" +
	"Glad you're here!"

// welcomeSentTTL guards against duplicate join events for the same member.
const welcomeSentTTL = 5 * time.Minute

func (b *Bot) onMemberJoin(e *events.GuildMemberJoin) {
	if e.Member.User.Bot {
		return
	}
	if _, ok := b.cfg[e.GuildID]; !ok {
		return
	}
	b.sendWelcomeDM(e.GuildID, e.Member.User.ID, e.Member.User.Username)
}

func (b *Bot) sendWelcomeDM(guildID, userID snowflake.ID, username string) {
	b.mu.Lock()
	now := time.Now()
	for uid, t := range b.welcomeSent {
		if now.Sub(t) > welcomeSentTTL {
			delete(b.welcomeSent, uid)
		}
	}
	_, seen := b.welcomeSent[userID]
	if !seen {
		b.welcomeSent[userID] = now
	}
	b.mu.Unlock()
	if seen {
		return
	}

	ch, err := b.Client.Rest.CreateDMChannel(userID)
	if err != nil {
		b.Log.Info("Failed to open DM for welcome", "guild_id", guildID, "user_id", userID, "error", err)
		return
	}
	if _, err := b.Client.Rest.CreateMessage(ch.ID(), discord.MessageCreate{
		Content: fmt.Sprintf(welcomeDM, username),
	}); err != nil {
		b.Log.Info("Failed to send welcome DM", "guild_id", guildID, "user_id", userID, "error", err)
		return
	}
	b.Log.Info("Welcome DM sent", "guild_id", guildID, "user_id", userID)
}
