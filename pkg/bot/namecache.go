package bot

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const nameCacheSize = 2000

func newNameCache() *lru.Cache[snowflake.ID, string] {
	cache, err := lru.New[snowflake.ID, string](nameCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(fmt.Sprintf("creating name cache: %v", err))
	}
	return cache
}

// displayName resolves a member's display name, preferring the guild
// nickname. Lookups are cached; a member who has left renders as their
// raw ID so lists stay readable.
func (b *Bot) displayName(guildID, userID snowflake.ID) string {
	if name, ok := b.names.Get(userID); ok {
		return name
	}

	member, err := b.Client.Rest.GetMember(guildID, userID)
	if err != nil {
		b.Log.Info("Failed to resolve member name", "guild_id", guildID, "user_id", userID, "error", err)
		return userID.String()
	}

	name := member.User.Username
	if member.Nick != nil && *member.Nick != "" {
		name = *member.Nick
	} else if member.User.GlobalName != nil && *member.User.GlobalName != "" {
		name = *member.User.GlobalName
	}

	b.names.Add(userID, name)
	return name
}
