package bot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/catalog"
	"github.com/kasstmaster/softdreamingsmember/pkg/memberbot"
	"github.com/kasstmaster/softdreamingsmember/pkg/pickpool"
)

// libraryView matches titles against both media categories, so pool
// submissions work with one title argument.
type libraryView struct {
	library *catalog.Library
}

func (v libraryView) Match(title string) (string, bool) {
	if canonical, ok := v.library.View(catalog.Movies).Match(title); ok {
		return canonical, true
	}
	return v.library.View(catalog.Shows).Match(title)
}

// submitMessage turns a pool error into the line the member sees.
func submitMessage(err error, title string, limit int) string {
	switch {
	case errors.Is(err, pickpool.ErrNotInCatalog):
		return fmt.Sprintf("%q is not on the media list. Check /list for the titles you can pick.", title)
	case errors.Is(err, pickpool.ErrDuplicateItem):
		return fmt.Sprintf("%q is already in the pool.", title)
	case errors.Is(err, pickpool.ErrQuotaExceeded):
		return fmt.Sprintf("You already have %d entries in the pool. Swap one out with /repick.", limit)
	case errors.Is(err, pickpool.ErrNotFound):
		return "That entry is not in the pool."
	default:
		return "Something went wrong, try again in a bit."
	}
}

func (b *Bot) handlePick(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := *e.GuildID()
	title := data.String("title")

	b.mu.Lock()
	cfg, _, pool, ok := b.guildState(guildID)
	if !ok {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "This server has no pick pool.")
		return
	}
	canonical, err := pool.Submit(guildID, e.User().ID, title, libraryView{b.library})
	if err == nil {
		b.savePoolsLocked()
		b.refreshPoolMirrorLocked(guildID)
	}
	b.mu.Unlock()

	if err != nil {
		botutil.RespondEphemeral(e, submitMessage(err, title, cfg.PoolLimit))
		return
	}
	b.Log.Info("Pool entry added", "guild_id", guildID, "user_id", e.User().ID, "title", canonical)
	botutil.RespondEphemeral(e, fmt.Sprintf("%q is in the pool. Good luck!", canonical))
}

func (b *Bot) handleRepick(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := *e.GuildID()
	oldTitle := data.String("old")
	newTitle := data.String("new")

	b.mu.Lock()
	cfg, _, pool, ok := b.guildState(guildID)
	if !ok {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "This server has no pick pool.")
		return
	}
	canonical, err := pool.Replace(guildID, e.User().ID, oldTitle, newTitle, libraryView{b.library})
	if err == nil {
		b.savePoolsLocked()
		b.refreshPoolMirrorLocked(guildID)
	}
	b.mu.Unlock()

	if err != nil {
		if errors.Is(err, pickpool.ErrNotFound) {
			botutil.RespondEphemeral(e, fmt.Sprintf("You have no pool entry for %q.", oldTitle))
			return
		}
		botutil.RespondEphemeral(e, submitMessage(err, newTitle, cfg.PoolLimit))
		return
	}
	b.Log.Info("Pool entry replaced", "guild_id", guildID, "user_id", e.User().ID, "old", oldTitle, "new", canonical)
	botutil.RespondEphemeral(e, fmt.Sprintf("Swapped %q for %q.", oldTitle, canonical))
}

func (b *Bot) handlePickRemove(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := *e.GuildID()

	var userID snowflake.ID
	if user, ok := data.OptUser("member"); ok {
		userID = user.ID
	}
	title, _ := data.OptString("title")
	if userID == 0 && title == "" {
		botutil.RespondEphemeral(e, "Give a member, a title, or both.")
		return
	}

	b.mu.Lock()
	_, _, pool, ok := b.guildState(guildID)
	if !ok {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "This server has no pick pool.")
		return
	}
	removed := pool.Remove(guildID, userID, title)
	if len(removed) > 0 {
		b.savePoolsLocked()
		b.refreshPoolMirrorLocked(guildID)
	}
	b.mu.Unlock()

	if len(removed) == 0 {
		botutil.RespondEphemeral(e, "Nothing in the pool matched.")
		return
	}
	b.Log.Info("Pool entries removed", "guild_id", guildID, "count", len(removed))
	botutil.RespondEphemeral(e, fmt.Sprintf("Removed %d entr%s from the pool.", len(removed), pluralY(len(removed))))
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func (b *Bot) handleRandom(e *events.ApplicationCommandInteractionCreate) {
	guildID := *e.GuildID()

	b.mu.Lock()
	_, _, pool, ok := b.guildState(guildID)
	if !ok {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "This server has no pick pool.")
		return
	}
	entry, err := pool.Draw(guildID)
	if err == nil {
		b.savePoolsLocked()
		b.refreshPoolMirrorLocked(guildID)
	}
	b.mu.Unlock()

	if err != nil {
		botutil.RespondEphemeral(e, "The pool is empty.")
		return
	}

	b.Log.Info("Pool draw", "guild_id", guildID, "title", entry.Title, "user_id", entry.UserID)
	if err := e.CreateMessage(discord.MessageCreate{
		Content: fmt.Sprintf("🎲 The pool picks **%s**, submitted by <@%d>!", entry.Title, entry.UserID),
	}); err != nil {
		b.Log.Error("Failed to announce draw", "guild_id", guildID, "error", err)
	}
}

func (b *Bot) handlePool(e *events.ApplicationCommandInteractionCreate) {
	guildID := *e.GuildID()

	b.mu.Lock()
	_, _, pool, ok := b.guildState(guildID)
	var content string
	if ok {
		content = b.renderPoolLocked(guildID, pool)
	}
	b.mu.Unlock()

	if content == "" {
		content = "The pool is empty. Add a title with /pick."
	}
	botutil.RespondEphemeral(e, content)
}

func (b *Bot) handlePublishPool(e *events.ApplicationCommandInteractionCreate) {
	guildID := *e.GuildID()

	b.mu.Lock()
	cfg, doc, pool, ok := b.guildState(guildID)
	if !ok || cfg.PoolChannelID == 0 {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "No pool channel is configured for this server.")
		return
	}

	content := b.renderPoolLocked(guildID, pool)
	if content == "" {
		content = "The pool is empty. Add a title with /pick."
	}

	rec := doc.Guild(guildID)
	if rec.PoolMirror != nil && b.updateMirrorLocked(rec.PoolMirror, content) {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "Pool list refreshed.")
		return
	}

	sent, err := botutil.PostWithRetry(b.Client.Rest, cfg.PoolChannelID, discord.MessageCreate{Content: content}, b.Log)
	if err != nil {
		b.mu.Unlock()
		b.Log.Error("Failed to publish pool list", "guild_id", guildID, "error", err)
		botutil.RespondEphemeral(e, "Could not post the pool list, try again in a bit.")
		return
	}
	rec.PoolMirror = &memberbot.MessageRef{ChannelID: cfg.PoolChannelID, MessageID: sent.ID}
	b.saveDocumentsLocked()
	b.mu.Unlock()

	botutil.RespondEphemeral(e, "Pool list published.")
}

func (b *Bot) refreshPoolMirrorLocked(guildID snowflake.ID) {
	doc := b.docs[guildID]
	if doc == nil {
		return
	}
	rec := doc.Lookup(guildID)
	if rec == nil || rec.PoolMirror == nil {
		return
	}
	content := b.renderPoolLocked(guildID, b.pools[guildID])
	if content == "" {
		content = "The pool is empty. Add a title with /pick."
	}
	if !b.updateMirrorLocked(rec.PoolMirror, content) {
		rec.PoolMirror = nil
	}
}

// renderPoolLocked builds the pool list grouped by member, sorted by
// display name. Empty when there are no entries.
func (b *Bot) renderPoolLocked(guildID snowflake.ID, pool *pickpool.Pool) string {
	entries := pool.Entries(guildID)
	if len(entries) == 0 {
		return ""
	}

	byUser := make(map[snowflake.ID][]string)
	for _, entry := range entries {
		byUser[entry.UserID] = append(byUser[entry.UserID], entry.Title)
	}

	type userLines struct {
		name   string
		titles []string
	}
	users := make([]userLines, 0, len(byUser))
	for userID, titles := range byUser {
		users = append(users, userLines{name: b.displayName(guildID, userID), titles: titles})
	}
	sort.Slice(users, func(i, j int) bool {
		return strings.ToLower(users[i].name) < strings.ToLower(users[j].name)
	})

	var sb strings.Builder
	sb.WriteString("🎬 **Pick Pool** 🎬\n")
	for _, u := range users {
		fmt.Fprintf(&sb, "**%s**: %s\n", u.name, strings.Join(u.titles, ", "))
	}
	return sb.String()
}

// handleTitleAutocomplete suggests titles for /pick and /repick. The "old"
// argument completes from the member's own entries, everything else from
// the media list.
func (b *Bot) handleTitleAutocomplete(e *events.AutocompleteInteractionCreate) {
	if e.GuildID() == nil {
		return
	}
	guildID := *e.GuildID()

	focused := "title"
	for name, opt := range e.Data.Options {
		if opt.Focused {
			focused = name
			break
		}
	}
	query := e.Data.String(focused)

	var titles []string
	if focused == "old" {
		b.mu.Lock()
		if pool := b.pools[guildID]; pool != nil {
			for _, entry := range pool.Entries(guildID) {
				if entry.UserID == e.User().ID && strings.Contains(strings.ToLower(entry.Title), strings.ToLower(query)) {
					titles = append(titles, entry.Title)
				}
			}
		}
		b.mu.Unlock()
	} else {
		titles = b.library.Filter(catalog.Movies, query, 15)
		titles = append(titles, b.library.Filter(catalog.Shows, query, 25-len(titles))...)
	}

	choices := make([]discord.AutocompleteChoice, 0, len(titles))
	for _, title := range titles {
		if len(choices) >= 25 {
			break
		}
		choices = append(choices, discord.AutocompleteChoiceString{Name: title, Value: title})
	}
	if err := e.AutocompleteResult(choices); err != nil {
		b.Log.Error("Failed to send autocomplete choices", "error", err)
	}
}
