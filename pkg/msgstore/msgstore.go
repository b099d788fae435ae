// Package msgstore persists a small JSON document inside the body of a
// Discord message, using only plain channel primitives: list recent
// messages, fetch by ID, send, and edit. It is deliberately forgiving:
// a store that cannot reach its channel degrades to a no-op rather than
// failing the feature that uses it.
package msgstore

import (
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// MaxContentLen is the largest serialized document the store will write.
// Writes past the cap are truncated silently; documents are expected to
// stay well under it.
const MaxContentLen = 1900

// scanWindow is how many recent messages are searched for an existing
// storage message at startup.
const scanWindow = 50

// Client is the slice of the Discord REST surface the store needs.
// disgo's rest.Rest satisfies it.
type Client interface {
	GetMessages(channelID snowflake.ID, around snowflake.ID, before snowflake.ID, after snowflake.ID, limit int, opts ...rest.RequestOpt) ([]discord.Message, error)
	GetMessage(channelID snowflake.ID, messageID snowflake.ID, opts ...rest.RequestOpt) (*discord.Message, error)
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	UpdateMessage(channelID snowflake.ID, messageID snowflake.ID, messageUpdate discord.MessageUpdate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// Store reads and writes one document held in one message. The backing
// message is located once at Open and the locator is kept for the life of
// the process.
type Store struct {
	client    Client
	log       *slog.Logger
	channelID snowflake.ID
	messageID snowflake.ID
	selfID    snowflake.ID
	kind      string
}

// Open locates the storage message for the given document kind in
// channelID, creating it if no recent message matches. kind distinguishes
// documents sharing one channel; the empty kind is the channel's primary
// document. selfID is the bot's own user ID, used to recognize our
// messages.
//
// A channel that cannot be read yields a degraded store: Ready reports
// false and Read/Write become no-ops.
func Open(client Client, log *slog.Logger, channelID, selfID snowflake.ID, kind string) *Store {
	s := &Store{
		client:    client,
		log:       log,
		channelID: channelID,
		selfID:    selfID,
		kind:      kind,
	}
	if channelID == 0 {
		log.Info("Storage channel not configured, store disabled", "kind", kind)
		return s
	}

	messages, err := client.GetMessages(channelID, 0, 0, 0, scanWindow)
	if err != nil {
		log.Error("Failed to scan storage channel, store disabled", "channel_id", channelID, "kind", kind, "error", err)
		return s
	}

	for _, msg := range messages {
		if msg.Author.ID != selfID {
			continue
		}
		if s.matches(msg.Content) {
			s.messageID = msg.ID
			log.Info("Found existing storage message", "channel_id", channelID, "message_id", msg.ID, "kind", kind)
			return s
		}
	}

	created, err := client.CreateMessage(channelID, discord.MessageCreate{Content: s.encode([]byte("{}"))})
	if err != nil {
		log.Error("Failed to create storage message, store disabled", "channel_id", channelID, "kind", kind, "error", err)
		return s
	}
	s.messageID = created.ID
	log.Info("Created storage message", "channel_id", channelID, "message_id", created.ID, "kind", kind)
	return s
}

// matches reports whether existing message content carries this store's
// document. The primary (unnamed) document is a bare JSON object; named
// kinds are tagged with a "KIND:" marker.
func (s *Store) matches(content string) bool {
	content = strings.TrimSpace(content)
	if s.kind != "" {
		return strings.HasPrefix(content, s.kind+":")
	}
	return strings.HasPrefix(content, "{")
}

// Ready reports whether the store resolved a backing message.
func (s *Store) Ready() bool {
	return s != nil && s.messageID != 0
}

// Locator returns the (channel, message) pair backing the store. Both are
// zero for a degraded store's message.
func (s *Store) Locator() (channelID, messageID snowflake.ID) {
	if s == nil {
		return 0, 0
	}
	return s.channelID, s.messageID
}

// Read fetches and returns the stored document body with the kind marker
// stripped. Any failure (missing message, lost permission, foreign
// content) returns nil, which callers decode as the empty document.
func (s *Store) Read() []byte {
	if !s.Ready() {
		return nil
	}

	msg, err := s.client.GetMessage(s.channelID, s.messageID)
	if err != nil {
		s.log.Info("Failed to fetch storage message", "channel_id", s.channelID, "message_id", s.messageID, "kind", s.kind, "error", err)
		return nil
	}

	content := strings.TrimSpace(msg.Content)
	if s.kind != "" {
		body, ok := strings.CutPrefix(content, s.kind+":")
		if !ok {
			return nil
		}
		content = strings.TrimSpace(body)
	}
	if content == "" {
		return nil
	}
	return []byte(content)
}

// Write replaces the stored document. The serialized form is truncated to
// MaxContentLen and failures are swallowed after logging; the store trades
// durability guarantees for never blocking a command.
func (s *Store) Write(data []byte) {
	if !s.Ready() {
		return
	}

	content := s.encode(data)
	if _, err := s.client.UpdateMessage(s.channelID, s.messageID, discord.MessageUpdate{Content: &content}); err != nil {
		s.log.Error("Failed to update storage message", "channel_id", s.channelID, "message_id", s.messageID, "kind", s.kind, "error", err)
	}
}

// encode applies the kind marker and the length cap.
func (s *Store) encode(data []byte) string {
	content := string(data)
	if s.kind != "" {
		content = s.kind + ": " + content
	}
	return truncate(content, MaxContentLen)
}

// truncate caps content at n characters without splitting a UTF-8 rune.
func truncate(content string, n int) string {
	if len(content) <= n {
		return content
	}
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n])
}
