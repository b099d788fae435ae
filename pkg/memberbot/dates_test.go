package memberbot

import (
	"testing"
	"time"
)

func TestBuildDate(t *testing.T) {
	tests := []struct {
		month string
		day   int
		want  string
	}{
		{"January", 1, "01-01"},
		{"February", 14, "02-14"},
		{"December", 31, "12-31"},
		{"December", 0, ""},
		{"December", 32, ""},
		{"Decembruary", 5, ""},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := BuildDate(tt.month, tt.day); got != tt.want {
			t.Errorf("BuildDate(%q, %d) = %q, want %q", tt.month, tt.day, got, tt.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	if got := NormalizeDate("02-14"); got != "02-14" {
		t.Errorf("NormalizeDate(02-14) = %q", got)
	}
	if got := NormalizeDate("13-01"); got != "" {
		t.Errorf("expected empty for month 13, got %q", got)
	}
	if got := NormalizeDate("bogus"); got != "" {
		t.Errorf("expected empty for garbage, got %q", got)
	}
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-09-30", SeasonNone},
		{"2026-10-01", SeasonHalloween},
		{"2026-10-31", SeasonHalloween},
		{"2026-11-01", SeasonNone},
		{"2026-12-01", SeasonChristmas},
		{"2026-12-26", SeasonChristmas},
		{"2026-12-27", SeasonNone},
		{"2026-01-15", SeasonNone},
	}
	for _, tt := range tests {
		day, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := SeasonFor(day); got != tt.want {
			t.Errorf("SeasonFor(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestRolesFor(t *testing.T) {
	if RolesFor(SeasonNone) != nil {
		t.Error("expected nil roles for no season")
	}
	if RolesFor("easter") != nil {
		t.Error("expected nil roles for unknown season")
	}
	if RolesFor(SeasonChristmas)["Grinch"] != "Member" {
		t.Error("christmas Grinch role should map to Member keyword")
	}
	if RolesFor(SeasonHalloween)["Cauldron"] != "Admin" {
		t.Error("halloween Cauldron role should map to Admin keyword")
	}
}

func TestBaseRoleName(t *testing.T) {
	tests := []struct {
		name string
		base string
		ok   bool
	}{
		{"Admin", "Admin", true},
		{"Cauldron", "Admin", true},
		{"Cranberry", "Admin", true},
		{"Witchy", "Member", true},
		{"Grinch", "Member", true},
		{"Moderator", "", false},
	}
	for _, tt := range tests {
		base, ok := BaseRoleName(tt.name)
		if base != tt.base || ok != tt.ok {
			t.Errorf("BaseRoleName(%q) = %q, %v, want %q, %v", tt.name, base, ok, tt.base, tt.ok)
		}
	}
}

func TestThemedName(t *testing.T) {
	if got := ThemedName(SeasonHalloween, "Member"); got != "Witchy" {
		t.Errorf("ThemedName(halloween, Member) = %q", got)
	}
	if got := ThemedName(SeasonChristmas, "Bots"); got != "Christmas" {
		t.Errorf("ThemedName(christmas, Bots) = %q", got)
	}
	if got := ThemedName(SeasonNone, "Member"); got != "Member" {
		t.Errorf("ThemedName(none, Member) = %q, want base name", got)
	}
}
