package botutil

import (
	"github.com/disgoorg/snowflake/v2"
)

// ProdGuildID is the community guild the bot runs in.
const ProdGuildID = snowflake.ID(1205041211610501120)

// GetGuildIDs returns the guilds to register commands in for the given env.
// Dev reads MEMBERBOT_DEV_GUILD so a test guild can be used without touching
// the real one. An unknown env gets no guilds.
func GetGuildIDs(env string) []snowflake.ID {
	switch env {
	case "prod":
		return []snowflake.ID{ProdGuildID}
	case "dev":
		if id := EnvID("MEMBERBOT_DEV_GUILD"); id != 0 {
			return []snowflake.ID{id}
		}
		return nil
	default:
		return nil
	}
}
