package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/idleloop"
)

// Dead chat thresholds: once five messages (or an hour of trickle) show the
// channel was alive, two quiet hours ping the role. Six hours force a ping
// even during a slow day.
const (
	deadChatMinIdleMins       = 120
	deadChatMaxIdleMins       = 360
	deadChatMsgThreshold      = 5
	deadChatTimeThresholdMins = 60
)

var deadChatNudges = []string{
	"It's gotten quiet in here... someone say something interesting!",
	"Chat check! What's everyone watching this week?",
	"The silence is deafening. Hot takes, go.",
	"Somebody share a song, a snack, or a spoiler-free review.",
}

// startDeadChatLoops launches one idle watcher per guild that has both a
// general channel and a dead chat role configured.
func (b *Bot) startDeadChatLoops() {
	for guildID, cfg := range b.cfg {
		ch, ok := b.deadChatMsgs[cfg.GeneralChannelID]
		if !ok {
			continue
		}
		guildID := guildID
		roleID := cfg.DeadChatRoleID
		channelID := cfg.GeneralChannelID
		go idleloop.Run(idleloop.Config{
			MinIdleMins:       deadChatMinIdleMins,
			MaxIdleMins:       deadChatMaxIdleMins,
			MsgThreshold:      deadChatMsgThreshold,
			TimeThresholdMins: deadChatTimeThresholdMins,
		}, ch, b.stop, func() bool {
			return b.nudgeDeadChat(guildID, channelID, roleID)
		})
	}
}

func (b *Bot) onMessage(e *events.GuildMessageCreate) {
	if e.Message.Author.Bot || e.Message.Author.System {
		return
	}
	if ch, ok := b.deadChatMsgs[e.ChannelID]; ok {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// nudgeDeadChat recolors the dead chat role and pokes the channel. Returns
// whether the nudge went out, so the idle loop knows to re-arm.
func (b *Bot) nudgeDeadChat(guildID, channelID, roleID snowflake.ID) bool {
	if _, err := b.cycleDeadChatColor(guildID, roleID); err != nil {
		b.Log.Error("Failed to cycle dead chat color", "guild_id", guildID, "error", err)
	}

	nudge := deadChatNudges[rand.IntN(len(deadChatNudges))]
	msg := discord.MessageCreate{Content: fmt.Sprintf("<@&%d> %s", roleID, nudge)}
	if _, err := botutil.PostWithRetry(b.Client.Rest, channelID, msg, b.Log); err != nil {
		b.Log.Error("Failed to post dead chat nudge", "guild_id", guildID, "error", err)
		return false
	}
	b.Log.Info("Dead chat nudge posted", "guild_id", guildID, "channel_id", channelID)
	return true
}
