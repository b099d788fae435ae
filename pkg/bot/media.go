package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/catalog"
)

const listPagerPrefix = "medialist:"

// reloadLibrary rebuilds the media list from the list channels. Every line
// of every message is a title; leading bullets are stripped.
func (b *Bot) reloadLibrary() {
	for guildID, cfg := range b.cfg {
		if cfg.MoviesChannelID != 0 {
			titles := b.scanTitleChannel(cfg.MoviesChannelID)
			b.library.Replace(catalog.Movies, titles)
			b.Log.Info("Loaded movie list", "guild_id", guildID, "titles", b.library.Len(catalog.Movies))
		}
		if cfg.ShowsChannelID != 0 {
			titles := b.scanTitleChannel(cfg.ShowsChannelID)
			b.library.Replace(catalog.Shows, titles)
			b.Log.Info("Loaded show list", "guild_id", guildID, "titles", b.library.Len(catalog.Shows))
		}
	}
}

func (b *Bot) scanTitleChannel(channelID snowflake.ID) []string {
	var titles []string
	var before snowflake.ID
	for {
		msgs, err := b.Client.Rest.GetMessages(channelID, 0, before, 0, 100)
		if err != nil {
			b.Log.Error("Failed to scan list channel", "channel_id", channelID, "error", err)
			break
		}
		if len(msgs) == 0 {
			break
		}
		for _, m := range msgs {
			titles = append(titles, parseTitleLines(m.Content)...)
		}
		// Messages come back newest first, so page from the oldest one.
		before = msgs[len(msgs)-1].ID
		if len(msgs) < 100 {
			break
		}
	}
	return titles
}

// parseTitleLines splits a list message into titles, one per line, with
// leading bullets stripped.
func parseTitleLines(content string) []string {
	var titles []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		if line != "" {
			titles = append(titles, line)
		}
	}
	return titles
}

func (b *Bot) handleMediaAdd(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := *e.GuildID()
	cat := catalog.Category(data.String("category"))
	title := strings.TrimSpace(data.String("title"))

	if !b.library.Add(cat, title) {
		botutil.RespondEphemeral(e, fmt.Sprintf("%q is already on the %s list.", title, cat))
		return
	}

	// Append to the list channel too, so the title survives a reload.
	cfg := b.cfg[guildID]
	channelID := cfg.MoviesChannelID
	if cat == catalog.Shows {
		channelID = cfg.ShowsChannelID
	}
	if channelID != 0 {
		if _, err := botutil.PostWithRetry(b.Client.Rest, channelID, discord.MessageCreate{Content: title}, b.Log); err != nil {
			b.Log.Error("Failed to append title to list channel", "channel_id", channelID, "title", title, "error", err)
		}
	}

	b.Log.Info("Media title added", "guild_id", guildID, "category", cat, "title", title)
	botutil.RespondEphemeral(e, fmt.Sprintf("Added %q to the %s list.", title, cat))
}

func (b *Bot) handleMediaReload(e *events.ApplicationCommandInteractionCreate) {
	if err := e.DeferCreateMessage(true); err != nil {
		b.Log.Error("Failed to defer media reload", "error", err)
		return
	}

	b.reloadLibrary()

	content := fmt.Sprintf("Reloaded: %d movies, %d shows.",
		b.library.Len(catalog.Movies), b.library.Len(catalog.Shows))
	if _, err := b.Client.Rest.CreateFollowupMessage(b.Client.ApplicationID, e.Token(), discord.MessageCreate{
		Content: content,
		Flags:   discord.MessageFlagEphemeral,
	}); err != nil {
		b.Log.Error("Failed to send media reload followup", "error", err)
	}
}

func (b *Bot) handleList(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	cat := catalog.Category(data.String("category"))

	content, components := b.listPage(cat, 0)
	if err := e.CreateMessage(discord.MessageCreate{
		Content:    content,
		Flags:      discord.MessageFlagEphemeral,
		Components: components,
	}); err != nil {
		b.Log.Error("Failed to send media list", "error", err)
	}
}

func (b *Bot) handleListPager(e *events.ComponentInteractionCreate) {
	customID := e.Data.CustomID()
	if !strings.HasPrefix(customID, listPagerPrefix) {
		return
	}
	parts := strings.Split(strings.TrimPrefix(customID, listPagerPrefix), ":")
	if len(parts) != 2 {
		return
	}
	cat := catalog.Category(parts[0])
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}

	content, components := b.listPage(cat, page)
	if err := e.UpdateMessage(discord.MessageUpdate{
		Content:    &content,
		Components: &components,
	}); err != nil {
		b.Log.Error("Failed to update media list page", "error", err)
	}
}

func (b *Bot) listPage(cat catalog.Category, page int) (string, []discord.LayoutComponent) {
	items, page, maxPage := b.library.Page(cat, page)
	if len(items) == 0 {
		return fmt.Sprintf("The %s list is empty.", cat), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (page %d/%d)\n", capitalize(string(cat)), page+1, maxPage+1)
	for _, title := range items {
		sb.WriteString("• " + title + "\n")
	}

	components := []discord.LayoutComponent{
		discord.NewActionRow(
			discord.NewSecondaryButton("◀", fmt.Sprintf("%s%s:%d", listPagerPrefix, cat, page-1)).
				WithDisabled(page == 0),
			discord.NewSecondaryButton("▶", fmt.Sprintf("%s%s:%d", listPagerPrefix, cat, page+1)).
				WithDisabled(page == maxPage),
		),
	}
	return sb.String(), components
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
