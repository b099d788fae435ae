package bot

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/pickpool"
)

// guildConfig holds the per-guild wiring: where the backing messages live,
// which channels get the mirrors and announcements, and the seasonal icons.
type guildConfig struct {
	StorageChannelID  snowflake.ID
	BirthdayChannelID snowflake.ID
	PoolChannelID     snowflake.ID
	QOTDChannelID     snowflake.ID
	GeneralChannelID  snowflake.ID
	RequestChannelID  snowflake.ID
	MoviesChannelID   snowflake.ID
	ShowsChannelID    snowflake.ID

	BirthdayRoleID snowflake.ID
	DeadChatRoleID snowflake.ID

	HalloweenIconURL string
	ChristmasIconURL string
	DefaultIconURL   string

	PoolLimit  int
	DrawPolicy pickpool.DrawPolicy
}

func getGuildConfig(env string) map[snowflake.ID]guildConfig {
	switch env {
	case "prod":
		return map[snowflake.ID]guildConfig{
			botutil.ProdGuildID: {
				StorageChannelID:  1205044662235635792,
				BirthdayChannelID: 1205044728664428584,
				PoolChannelID:     1221590012478484533,
				QOTDChannelID:     1205041212608944240,
				GeneralChannelID:  1205041212608944238,
				RequestChannelID:  1221590103541223435,
				MoviesChannelID:   1221590200237949060,
				ShowsChannelID:    1221590240685141125,
				BirthdayRoleID:    1213950152427184178,
				DeadChatRoleID:    1206021624452685864,
				HalloweenIconURL:  "https://softdreamings.us-southeast-1.linodeobjects.com/icons/halloween.png",
				ChristmasIconURL:  "https://softdreamings.us-southeast-1.linodeobjects.com/icons/christmas.png",
				DefaultIconURL:    "https://softdreamings.us-southeast-1.linodeobjects.com/icons/default.png",
				PoolLimit:         pickpool.DefaultLimit,
				DrawPolicy:        pickpool.Rollover,
			},
		}
	case "dev":
		guildID := botutil.EnvID("MEMBERBOT_DEV_GUILD")
		if guildID == 0 {
			return nil
		}
		return map[snowflake.ID]guildConfig{
			guildID: {
				StorageChannelID:  botutil.EnvID("MEMBERBOT_STORAGE_CHANNEL"),
				BirthdayChannelID: botutil.EnvID("MEMBERBOT_BIRTHDAY_CHANNEL"),
				PoolChannelID:     botutil.EnvID("MEMBERBOT_POOL_CHANNEL"),
				QOTDChannelID:     botutil.EnvID("MEMBERBOT_QOTD_CHANNEL"),
				GeneralChannelID:  botutil.EnvID("MEMBERBOT_GENERAL_CHANNEL"),
				RequestChannelID:  botutil.EnvID("MEMBERBOT_REQUEST_CHANNEL"),
				MoviesChannelID:   botutil.EnvID("MEMBERBOT_MOVIES_CHANNEL"),
				ShowsChannelID:    botutil.EnvID("MEMBERBOT_SHOWS_CHANNEL"),
				BirthdayRoleID:    botutil.EnvID("MEMBERBOT_BIRTHDAY_ROLE"),
				DeadChatRoleID:    botutil.EnvID("MEMBERBOT_DEAD_CHAT_ROLE"),
				HalloweenIconURL:  botutil.EnvStr("MEMBERBOT_HALLOWEEN_ICON", ""),
				ChristmasIconURL:  botutil.EnvStr("MEMBERBOT_CHRISTMAS_ICON", ""),
				DefaultIconURL:    botutil.EnvStr("MEMBERBOT_DEFAULT_ICON", ""),
				PoolLimit:         botutil.EnvInt("MEMBERBOT_POOL_LIMIT", pickpool.DefaultLimit),
				DrawPolicy:        drawPolicyFromEnv(),
			},
		}
	default:
		return nil
	}
}

func drawPolicyFromEnv() pickpool.DrawPolicy {
	if botutil.EnvStr("MEMBERBOT_DRAW_POLICY", "rollover") == "clear" {
		return pickpool.ClearAll
	}
	return pickpool.Rollover
}
