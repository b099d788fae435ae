package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/memberbot"
)

func (b *Bot) handleHolidayAdd(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := *e.GuildID()
	season := data.String("theme")

	if err := e.DeferCreateMessage(true); err != nil {
		b.Log.Error("Failed to defer holiday add", "error", err)
		return
	}

	err := b.applyTheme(guildID, season)
	content := fmt.Sprintf("The %s theme is on. 🎉", season)
	if err != nil {
		b.Log.Error("Failed to apply theme", "guild_id", guildID, "season", season, "error", err)
		content = "Could not apply the theme, check the bot's role permissions."
	}
	b.followupEphemeral(e.Token(), content)
}

func (b *Bot) handleHolidayRemove(e *events.ApplicationCommandInteractionCreate) {
	guildID := *e.GuildID()

	if err := e.DeferCreateMessage(true); err != nil {
		b.Log.Error("Failed to defer holiday remove", "error", err)
		return
	}

	err := b.applyTheme(guildID, memberbot.SeasonNone)
	content := "Back to normal."
	if err != nil {
		b.Log.Error("Failed to remove theme", "guild_id", guildID, "error", err)
		content = "Could not remove the theme, check the bot's role permissions."
	}
	b.followupEphemeral(e.Token(), content)
}

func (b *Bot) followupEphemeral(token, content string) {
	if _, err := b.Client.Rest.CreateFollowupMessage(b.Client.ApplicationID, token, discord.MessageCreate{
		Content: content,
		Flags:   discord.MessageFlagEphemeral,
	}); err != nil {
		b.Log.Error("Failed to send followup", "error", err)
	}
}

// runSeasonSweep flips the guild into or out of its seasonal theme when the
// calendar says so. The applied season is recorded in the document so the
// swap happens once per transition.
func (b *Bot) runSeasonSweep() {
	want := memberbot.SeasonFor(time.Now())

	b.mu.Lock()
	pending := make(map[snowflake.ID]string)
	for guildID, doc := range b.docs {
		rec := doc.Guild(guildID)
		if rec.Season != want {
			pending[guildID] = want
		}
	}
	b.mu.Unlock()

	for guildID, season := range pending {
		if err := b.applyTheme(guildID, season); err != nil {
			b.Log.Error("Season sweep failed", "guild_id", guildID, "season", season, "error", err)
		}
	}
}

// applyTheme renames the themed color roles, swaps the guild icon and
// records the season. SeasonNone restores the base names.
func (b *Bot) applyTheme(guildID snowflake.ID, season string) error {
	roles, err := b.Client.Rest.GetRoles(guildID)
	if err != nil {
		return fmt.Errorf("listing roles: %w", err)
	}

	for _, role := range roles {
		base, ok := memberbot.BaseRoleName(role.Name)
		if !ok {
			continue
		}
		want := memberbot.ThemedName(season, base)
		if role.Name == want {
			continue
		}
		if _, err := b.Client.Rest.UpdateRole(guildID, role.ID, discord.RoleUpdate{Name: &want}); err != nil {
			return fmt.Errorf("renaming role %q to %q: %w", role.Name, want, err)
		}
		b.Log.Info("Theme role renamed", "guild_id", guildID, "from", role.Name, "to", want)
	}

	b.updateGuildIcon(guildID, season)

	b.mu.Lock()
	if doc := b.docs[guildID]; doc != nil {
		doc.Guild(guildID).Season = season
		b.saveDocumentsLocked()
	}
	b.mu.Unlock()

	if season != memberbot.SeasonNone {
		b.announceTheme(guildID, season)
	}
	return nil
}

func (b *Bot) updateGuildIcon(guildID snowflake.ID, season string) {
	if b.S3 == nil {
		b.Log.Info("S3 not configured, skipping guild icon swap", "guild_id", guildID)
		return
	}

	cfg := b.cfg[guildID]
	var iconURL string
	switch season {
	case memberbot.SeasonHalloween:
		iconURL = cfg.HalloweenIconURL
	case memberbot.SeasonChristmas:
		iconURL = cfg.ChristmasIconURL
	default:
		iconURL = cfg.DefaultIconURL
	}
	if iconURL == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	data, err := b.S3.FetchThemeIcon(ctx, iconURL)
	if err != nil {
		b.Log.Error("Failed to fetch theme icon", "guild_id", guildID, "url", iconURL, "error", err)
		return
	}

	seasonKey := season
	if seasonKey == memberbot.SeasonNone {
		seasonKey = "default"
	}
	if hosted, err := b.S3.SaveThemeIcon(ctx, guildID.String(), seasonKey, data); err != nil {
		b.Log.Error("Failed to archive theme icon", "guild_id", guildID, "season", season, "error", err)
	} else {
		b.Log.Info("Theme icon archived", "guild_id", guildID, "url", hosted)
	}

	update := discord.GuildUpdate{Icon: omit.New(discord.NewIconRaw(discord.IconTypePNG, data))}
	if _, err := b.Client.Rest.UpdateGuild(guildID, update); err != nil {
		b.Log.Error("Failed to update guild icon", "guild_id", guildID, "error", err)
		return
	}
	b.Log.Info("Guild icon updated", "guild_id", guildID, "season", season)
}

func (b *Bot) announceTheme(guildID snowflake.ID, season string) {
	cfg := b.cfg[guildID]
	if cfg.GeneralChannelID == 0 {
		return
	}
	var content string
	switch season {
	case memberbot.SeasonHalloween:
		content = "🎃 Spooky season is here! Roles and icon are dressed up until November."
	case memberbot.SeasonChristmas:
		content = "🎄 It's the holidays! Roles and icon are festive until the 26th."
	default:
		return
	}
	if _, err := botutil.PostWithRetry(b.Client.Rest, cfg.GeneralChannelID, discord.MessageCreate{Content: content}, b.Log); err != nil {
		b.Log.Error("Failed to announce theme", "guild_id", guildID, "error", err)
	}
}
