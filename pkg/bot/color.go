package bot

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
)

// deadChatColors is the palette the dead chat role cycles through, in
// order. The next color after the last wraps to the first.
var deadChatColors = []int{
	0xe74c3c, // red
	0xe67e22, // orange
	0xf1c40f, // yellow
	0x2ecc71, // green
	0x3498db, // blue
	0x9b59b6, // purple
	0xe91e63, // pink
}

// nextDeadChatColor returns the palette entry after current. An unknown
// current color starts the cycle over.
func nextDeadChatColor(current int) int {
	for i, c := range deadChatColors {
		if c == current {
			return deadChatColors[(i+1)%len(deadChatColors)]
		}
	}
	return deadChatColors[0]
}

// cycleDeadChatColor advances the dead chat role one step through the
// palette and returns the new color.
func (b *Bot) cycleDeadChatColor(guildID snowflake.ID, roleID snowflake.ID) (int, error) {
	roles, err := b.Client.Rest.GetRoles(guildID)
	if err != nil {
		return 0, fmt.Errorf("listing roles: %w", err)
	}

	current := -1
	for _, role := range roles {
		if role.ID == roleID {
			current = role.Color
			break
		}
	}
	if current == -1 {
		return 0, fmt.Errorf("dead chat role %d not found", roleID)
	}

	next := nextDeadChatColor(current)
	if _, err := b.Client.Rest.UpdateRole(guildID, roleID, discord.RoleUpdate{Color: &next}); err != nil {
		return 0, fmt.Errorf("recoloring role: %w", err)
	}
	b.Log.Info("Dead chat color cycled", "guild_id", guildID, "color", fmt.Sprintf("#%06x", next))
	return next, nil
}

func (b *Bot) handleColor(e *events.ApplicationCommandInteractionCreate) {
	guildID := *e.GuildID()
	cfg, ok := b.cfg[guildID]
	if !ok || cfg.DeadChatRoleID == 0 {
		botutil.RespondEphemeral(e, "No dead chat role is configured for this server.")
		return
	}

	holdsRole := false
	if member := e.Member(); member != nil {
		for _, id := range member.RoleIDs {
			if id == cfg.DeadChatRoleID {
				holdsRole = true
				break
			}
		}
	}
	if !holdsRole {
		botutil.RespondEphemeral(e, "Only members holding the dead chat role can recolor it.")
		return
	}

	next, err := b.cycleDeadChatColor(guildID, cfg.DeadChatRoleID)
	if err != nil {
		b.Log.Error("Failed to cycle dead chat color", "guild_id", guildID, "error", err)
		botutil.RespondEphemeral(e, "Could not recolor the role, check the bot's permissions.")
		return
	}
	botutil.RespondEphemeral(e, fmt.Sprintf("Dead chat is now #%06x.", next))
}
