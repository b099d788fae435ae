package memberbot

import "time"

// Season names as recorded in the document and accepted by /holiday_add.
const (
	SeasonNone      = ""
	SeasonHalloween = "halloween"
	SeasonChristmas = "christmas"
)

// ThemeRoles maps a seasonal color role name to the base-role keyword whose
// holders receive it.
type ThemeRoles map[string]string

var ChristmasRoles = ThemeRoles{
	"Cranberry": "Admin",
	"lights":    "Original Member",
	"Grinch":    "Member",
	"Christmas": "Bots",
}

var HalloweenRoles = ThemeRoles{
	"Cauldron":  "Admin",
	"Candy":     "Original Member",
	"Witchy":    "Member",
	"Halloween": "Bots",
}

// RolesFor returns the theme role map for a season, nil for SeasonNone or
// an unknown season name.
func RolesFor(season string) ThemeRoles {
	switch season {
	case SeasonHalloween:
		return HalloweenRoles
	case SeasonChristmas:
		return ChristmasRoles
	default:
		return nil
	}
}

// BaseRoleName maps a role name back to the base-role keyword it themes,
// accepting either the base name itself or any season's themed name.
func BaseRoleName(name string) (string, bool) {
	for _, themes := range []ThemeRoles{HalloweenRoles, ChristmasRoles} {
		if base, ok := themes[name]; ok {
			return base, true
		}
		for _, base := range themes {
			if base == name {
				return base, true
			}
		}
	}
	return "", false
}

// ThemedName returns what a base role should be called in the given season.
// SeasonNone and unknown seasons keep the base name.
func ThemedName(season, base string) string {
	for themed, b := range RolesFor(season) {
		if b == base {
			return themed
		}
	}
	return base
}

// SeasonFor returns which seasonal theme should be active on the given day:
// halloween for Oct 1-31, christmas for Dec 1-26, none otherwise.
func SeasonFor(t time.Time) string {
	mmdd := DateOfYear(t)
	switch {
	case mmdd >= "10-01" && mmdd <= "10-31":
		return SeasonHalloween
	case mmdd >= "12-01" && mmdd <= "12-26":
		return SeasonChristmas
	default:
		return SeasonNone
	}
}
