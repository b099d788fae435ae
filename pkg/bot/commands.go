package bot

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/memberbot"
)

var modPerm = discord.PermissionAdministrator

func monthOptionChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(memberbot.MonthChoices))
	for _, m := range memberbot.MonthChoices {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{Name: m, Value: m})
	}
	return choices
}

func categoryChoices() []discord.ApplicationCommandOptionChoiceString {
	return []discord.ApplicationCommandOptionChoiceString{
		{Name: "movies", Value: "movies"},
		{Name: "shows", Value: "shows"},
	}
}

func allCommands() []discord.ApplicationCommandCreate {
	minDay := 1
	maxDay := 31

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        "set",
			Description: "Set your birthday",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "month",
					Description: "Month of your birthday",
					Required:    true,
					Choices:     monthOptionChoices(),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "day",
					Description: "Day of the month",
					Required:    true,
					MinValue:    &minDay,
					MaxValue:    &maxDay,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     "set_for",
			Description:              "Set a birthday for another member",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member to set the birthday for",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "month",
					Description: "Month of the birthday",
					Required:    true,
					Choices:     monthOptionChoices(),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "day",
					Description: "Day of the month",
					Required:    true,
					MinValue:    &minDay,
					MaxValue:    &maxDay,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     "remove_for",
			Description:              "Remove a member's stored birthday",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member to remove the birthday for",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "birthdays",
			Description: "List the stored birthdays",
		},
		discord.SlashCommandCreate{
			Name:                     "publish_birthdays",
			Description:              "Post or refresh the public birthday list",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
		},
		discord.SlashCommandCreate{
			Name:        "pick",
			Description: "Add a title to the pick pool",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "title",
					Description:  "Title from the media list",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "repick",
			Description: "Swap one of your pool entries for another title",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "old",
					Description:  "Entry to replace",
					Required:     true,
					Autocomplete: true,
				},
				discord.ApplicationCommandOptionString{
					Name:         "new",
					Description:  "Replacement title",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     "pick_remove",
			Description:              "Remove pool entries by member, title or both",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Remove this member's entries",
				},
				discord.ApplicationCommandOptionString{
					Name:        "title",
					Description: "Remove entries for this title",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "random",
			Description: "Draw a random entry from the pick pool",
		},
		discord.SlashCommandCreate{
			Name:        "pool",
			Description: "Show the current pick pool",
		},
		discord.SlashCommandCreate{
			Name:                     "publish_pool",
			Description:              "Post or refresh the public pick pool list",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
		},
		discord.SlashCommandCreate{
			Name:                     "media_add",
			Description:              "Add a title to the media list",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "category",
					Description: "Which list to add to",
					Required:    true,
					Choices:     categoryChoices(),
				},
				discord.ApplicationCommandOptionString{
					Name:        "title",
					Description: "Title to add",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     "media_reload",
			Description:              "Rebuild the media list from the list channels",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
		},
		discord.SlashCommandCreate{
			Name:        "list",
			Description: "Browse the media list",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "category",
					Description: "Which list to browse",
					Required:    true,
					Choices:     categoryChoices(),
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     "holiday_add",
			Description:              "Apply a seasonal theme now",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "theme",
					Description: "Theme to apply",
					Required:    true,
					Choices: []discord.ApplicationCommandOptionChoiceString{
						{Name: "halloween", Value: memberbot.SeasonHalloween},
						{Name: "christmas", Value: memberbot.SeasonChristmas},
					},
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     "holiday_remove",
			Description:              "Remove the active seasonal theme",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
		},
		discord.SlashCommandCreate{
			Name:                     "qotd_now",
			Description:              "Post a question of the day immediately",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
		},
		discord.SlashCommandCreate{
			Name:                     "say",
			Description:              "Post a message as the bot",
			DefaultMemberPermissions: omit.NewPtr(modPerm),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Channel to post in",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "message",
					Description: "What to say",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "color",
			Description: "Cycle the dead chat role to its next color",
		},
		discord.SlashCommandCreate{
			Name:        "request",
			Description: "Request a title for the media list",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "title",
					Description: "Title to request",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "info",
			Description: "About this bot",
		},
		discord.SlashCommandCreate{
			Name:        "commands",
			Description: "List what the bot can do",
		},
	}
}

func (b *Bot) registerAllCommands() error {
	return botutil.RegisterGuildCommands(b.Client, b.Env, allCommands(), b.Log)
}

// modCommands require the Administrator permission. The permission is
// also declared on the command itself, but server admins can loosen
// those overrides, so it is re-checked here before anything mutates.
var modCommands = map[string]bool{
	"set_for":           true,
	"remove_for":        true,
	"publish_birthdays": true,
	"pick_remove":       true,
	"publish_pool":      true,
	"media_add":         true,
	"media_reload":      true,
	"holiday_add":       true,
	"holiday_remove":    true,
	"qotd_now":          true,
	"say":               true,
}

func (b *Bot) onCommand(e *events.ApplicationCommandInteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			b.Log.Error("Panic in command handler", "error", r)
			botutil.RespondEphemeral(e, "Something went wrong, try again in a bit.")
		}
	}()

	if e.GuildID() == nil {
		return
	}

	data, ok := e.Data.(discord.SlashCommandInteractionData)
	if !ok {
		return
	}

	if modCommands[data.CommandName()] {
		member := e.Member()
		if member == nil || !member.Permissions.Has(modPerm) {
			botutil.RespondEphemeral(e, "You need the Administrator permission for that.")
			return
		}
	}

	switch data.CommandName() {
	case "set":
		b.handleSet(e, data)
	case "set_for":
		b.handleSetFor(e, data)
	case "remove_for":
		b.handleRemoveFor(e, data)
	case "birthdays":
		b.handleBirthdays(e)
	case "publish_birthdays":
		b.handlePublishBirthdays(e)
	case "pick":
		b.handlePick(e, data)
	case "repick":
		b.handleRepick(e, data)
	case "pick_remove":
		b.handlePickRemove(e, data)
	case "random":
		b.handleRandom(e)
	case "pool":
		b.handlePool(e)
	case "publish_pool":
		b.handlePublishPool(e)
	case "media_add":
		b.handleMediaAdd(e, data)
	case "media_reload":
		b.handleMediaReload(e)
	case "list":
		b.handleList(e, data)
	case "holiday_add":
		b.handleHolidayAdd(e, data)
	case "holiday_remove":
		b.handleHolidayRemove(e)
	case "qotd_now":
		b.handleQOTDNow(e)
	case "say":
		b.handleSay(e, data)
	case "color":
		b.handleColor(e)
	case "request":
		b.handleRequest(e, data)
	case "info":
		b.handleInfo(e)
	case "commands":
		b.handleCommandList(e)
	}
}

func (b *Bot) onComponent(e *events.ComponentInteractionCreate) {
	b.handleListPager(e)
}

func (b *Bot) onAutocomplete(e *events.AutocompleteInteractionCreate) {
	switch e.Data.CommandName {
	case "pick", "repick":
		b.handleTitleAutocomplete(e)
	}
}
