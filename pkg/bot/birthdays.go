package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/memberbot"
)

func (b *Bot) handleSet(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	b.setBirthday(e, *e.GuildID(), e.User().ID, data.String("month"), data.Int("day"), "Your")
}

func (b *Bot) handleSetFor(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	target := data.User("member")
	b.setBirthday(e, *e.GuildID(), target.ID, data.String("month"), data.Int("day"), target.Username+"'s")
}

func (b *Bot) setBirthday(e *events.ApplicationCommandInteractionCreate, guildID, userID snowflake.ID, month string, day int, whose string) {
	date := memberbot.BuildDate(month, day)
	if date == "" {
		botutil.RespondEphemeral(e, fmt.Sprintf("%s %d is not a real date.", month, day))
		return
	}

	b.mu.Lock()
	_, doc, _, ok := b.guildState(guildID)
	if !ok {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "This server is not set up for birthdays yet.")
		return
	}
	doc.Guild(guildID).SetBirthday(userID, date)
	b.saveDocumentsLocked()
	b.refreshBirthdayMirrorLocked(guildID)
	b.mu.Unlock()

	b.Log.Info("Birthday set", "guild_id", guildID, "user_id", userID, "date", date)
	botutil.RespondEphemeral(e, fmt.Sprintf("Saved! %s birthday is down as %s %d.", whose, month, day))
}

func (b *Bot) handleRemoveFor(e *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	guildID := *e.GuildID()
	target := data.User("member")

	b.mu.Lock()
	_, doc, _, ok := b.guildState(guildID)
	if !ok {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "This server is not set up for birthdays yet.")
		return
	}
	rec := doc.Lookup(guildID)
	removed := rec != nil && rec.RemoveBirthday(target.ID)
	if removed {
		b.saveDocumentsLocked()
		b.refreshBirthdayMirrorLocked(guildID)
	}
	b.mu.Unlock()

	if !removed {
		botutil.RespondEphemeral(e, fmt.Sprintf("No birthday stored for %s.", target.Username))
		return
	}
	b.Log.Info("Birthday removed", "guild_id", guildID, "user_id", target.ID)
	botutil.RespondEphemeral(e, fmt.Sprintf("Removed %s's birthday.", target.Username))
}

func (b *Bot) handleBirthdays(e *events.ApplicationCommandInteractionCreate) {
	guildID := *e.GuildID()

	b.mu.Lock()
	_, doc, _, ok := b.guildState(guildID)
	var content string
	if ok {
		content = b.renderBirthdaysLocked(guildID, doc.Lookup(guildID))
	}
	b.mu.Unlock()

	if content == "" {
		content = "No birthdays stored yet. Add yours with /set."
	}
	botutil.RespondEphemeral(e, content)
}

func (b *Bot) handlePublishBirthdays(e *events.ApplicationCommandInteractionCreate) {
	guildID := *e.GuildID()

	b.mu.Lock()
	cfg, doc, _, ok := b.guildState(guildID)
	if !ok || cfg.BirthdayChannelID == 0 {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "No birthday channel is configured for this server.")
		return
	}

	rec := doc.Guild(guildID)
	content := b.renderBirthdaysLocked(guildID, rec)
	if content == "" {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "Nothing to publish, no birthdays stored yet.")
		return
	}

	if rec.Mirror != nil && b.updateMirrorLocked(rec.Mirror, content) {
		b.mu.Unlock()
		botutil.RespondEphemeral(e, "Birthday list refreshed.")
		return
	}

	sent, err := botutil.PostWithRetry(b.Client.Rest, cfg.BirthdayChannelID, discord.MessageCreate{Content: content}, b.Log)
	if err != nil {
		b.mu.Unlock()
		b.Log.Error("Failed to publish birthday list", "guild_id", guildID, "error", err)
		botutil.RespondEphemeral(e, "Could not post the birthday list, try again in a bit.")
		return
	}
	rec.Mirror = &memberbot.MessageRef{ChannelID: cfg.BirthdayChannelID, MessageID: sent.ID}
	b.saveDocumentsLocked()
	b.mu.Unlock()

	botutil.RespondEphemeral(e, "Birthday list published.")
}

// refreshBirthdayMirrorLocked re-renders the public birthday list if one has
// been published. A mirror that was deleted out from under us is dropped so
// the next publish recreates it.
func (b *Bot) refreshBirthdayMirrorLocked(guildID snowflake.ID) {
	doc := b.docs[guildID]
	if doc == nil {
		return
	}
	rec := doc.Lookup(guildID)
	if rec == nil || rec.Mirror == nil {
		return
	}
	content := b.renderBirthdaysLocked(guildID, rec)
	if content == "" {
		content = "No birthdays stored yet."
	}
	if !b.updateMirrorLocked(rec.Mirror, content) {
		rec.Mirror = nil
	}
}

func (b *Bot) updateMirrorLocked(ref *memberbot.MessageRef, content string) bool {
	_, err := b.Client.Rest.UpdateMessage(ref.ChannelID, ref.MessageID, discord.MessageUpdate{Content: &content})
	if err != nil {
		b.Log.Warn("Failed to update mirror message", "channel_id", ref.ChannelID, "message_id", ref.MessageID, "error", err)
		return false
	}
	return true
}

type birthdayLine struct {
	date string
	name string
}

// renderBirthdaysLocked builds the shared list text, sorted by date and
// then name. Empty when nothing is stored.
func (b *Bot) renderBirthdaysLocked(guildID snowflake.ID, rec *memberbot.GuildRecord) string {
	if rec == nil || len(rec.Birthdays) == 0 {
		return ""
	}

	lines := make([]birthdayLine, 0, len(rec.Birthdays))
	for uid, date := range rec.Birthdays {
		name := uid
		if id, err := snowflake.Parse(uid); err == nil {
			name = b.displayName(guildID, id)
		}
		lines = append(lines, birthdayLine{date: date, name: name})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].date != lines[j].date {
			return lines[i].date < lines[j].date
		}
		return strings.ToLower(lines[i].name) < strings.ToLower(lines[j].name)
	})

	var sb strings.Builder
	sb.WriteString("🎂 **Birthdays** 🎂\n")
	for _, l := range lines {
		fmt.Fprintf(&sb, "`%s` %s\n", l.date, l.name)
	}
	return sb.String()
}

const memberPageSize = 1000

// birthdayActions decides role changes for one guild. Members whose stored
// date is today gain the role; every current holder without a matching
// stored date loses it, whether or not they still have an entry.
func birthdayActions(entries map[string]string, members []discord.Member, roleID snowflake.ID, today string) (add, remove []snowflake.ID) {
	for _, m := range members {
		holds := false
		for _, id := range m.RoleIDs {
			if id == roleID {
				holds = true
				break
			}
		}
		matches := entries[m.User.ID.String()] == today
		switch {
		case matches && !holds:
			add = append(add, m.User.ID)
		case !matches && holds:
			remove = append(remove, m.User.ID)
		}
	}
	return add, remove
}

func (b *Bot) allGuildMembers(guildID snowflake.ID) ([]discord.Member, error) {
	var members []discord.Member
	var after snowflake.ID
	for {
		page, err := b.Client.Rest.GetMembers(guildID, memberPageSize, after)
		if err != nil {
			return nil, fmt.Errorf("listing members after %d: %w", after, err)
		}
		members = append(members, page...)
		if len(page) < memberPageSize {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// runBirthdaySweep hands out the birthday role to members whose stored date
// is today, takes it back from every other current holder, and posts the
// congratulations.
func (b *Bot) runBirthdaySweep() {
	today := memberbot.DateOfYear(time.Now())

	b.mu.Lock()
	type sweep struct {
		cfg     guildConfig
		entries map[string]string
	}
	sweeps := make(map[snowflake.ID]sweep)
	for guildID, doc := range b.docs {
		rec := doc.Lookup(guildID)
		entries := make(map[string]string)
		if rec != nil {
			for uid, date := range rec.Birthdays {
				entries[uid] = date
			}
		}
		sweeps[guildID] = sweep{cfg: b.cfg[guildID], entries: entries}
	}
	b.mu.Unlock()

	for guildID, s := range sweeps {
		if s.cfg.BirthdayRoleID == 0 {
			continue
		}
		members, err := b.allGuildMembers(guildID)
		if err != nil {
			b.Log.Error("Failed to list members for birthday sweep", "guild_id", guildID, "error", err)
			continue
		}

		add, remove := birthdayActions(s.entries, members, s.cfg.BirthdayRoleID, today)
		for _, userID := range add {
			if err := b.Client.Rest.AddMemberRole(guildID, userID, s.cfg.BirthdayRoleID); err != nil {
				b.Log.Error("Failed to add birthday role", "guild_id", guildID, "user_id", userID, "error", err)
				continue
			}
			b.Log.Info("Birthday role added", "guild_id", guildID, "user_id", userID)
			if s.cfg.GeneralChannelID != 0 {
				msg := discord.MessageCreate{Content: fmt.Sprintf("Happy birthday <@%d>! 🎂🎉", userID)}
				if _, err := botutil.PostWithRetry(b.Client.Rest, s.cfg.GeneralChannelID, msg, b.Log); err != nil {
					b.Log.Error("Failed to post birthday message", "guild_id", guildID, "user_id", userID, "error", err)
				}
			}
		}
		for _, userID := range remove {
			if err := b.Client.Rest.RemoveMemberRole(guildID, userID, s.cfg.BirthdayRoleID); err != nil {
				b.Log.Info("Failed to remove birthday role", "guild_id", guildID, "user_id", userID, "error", err)
			}
		}
	}
}
