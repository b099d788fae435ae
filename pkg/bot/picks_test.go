package bot

import (
	"strings"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/catalog"
	"github.com/kasstmaster/softdreamingsmember/pkg/pickpool"
)

func TestLibraryViewMatchesBothCategories(t *testing.T) {
	library := catalog.New()
	library.Replace(catalog.Movies, []string{"The Matrix"})
	library.Replace(catalog.Shows, []string{"Severance"})
	view := libraryView{library}

	if got, ok := view.Match("the matrix"); !ok || got != "The Matrix" {
		t.Errorf("Match(the matrix) = %q, %v", got, ok)
	}
	if got, ok := view.Match("SEVERANCE"); !ok || got != "Severance" {
		t.Errorf("Match(SEVERANCE) = %q, %v", got, ok)
	}
	if _, ok := view.Match("Unlisted"); ok {
		t.Error("Match(Unlisted) should fail")
	}
}

func TestSubmitMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{pickpool.ErrNotInCatalog, "not on the media list"},
		{pickpool.ErrDuplicateItem, "already in the pool"},
		{pickpool.ErrQuotaExceeded, "3 entries"},
		{pickpool.ErrNotFound, "not in the pool"},
	}
	for _, tc := range tests {
		got := submitMessage(tc.err, "Title", 3)
		if !strings.Contains(got, tc.want) {
			t.Errorf("submitMessage(%v) = %q, want it to mention %q", tc.err, got, tc.want)
		}
	}
}

func TestPluralY(t *testing.T) {
	if pluralY(1) != "y" || pluralY(2) != "ies" {
		t.Error("pluralY is wrong")
	}
}

func TestRenderPoolGroupsAndSortsByName(t *testing.T) {
	guildID := snowflake.ID(10)
	library := catalog.New()
	library.Replace(catalog.Movies, []string{"Alien", "Blade Runner", "Coraline"})

	pool := pickpool.New(3, pickpool.Rollover)
	view := libraryView{library}
	if _, err := pool.Submit(guildID, 2, "Alien", view); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Submit(guildID, 2, "Coraline", view); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Submit(guildID, 1, "Blade Runner", view); err != nil {
		t.Fatal(err)
	}

	b := &Bot{names: newNameCache()}
	b.names.Add(1, "alice")
	b.names.Add(2, "Bob")

	content := b.renderPoolLocked(guildID, pool)
	aliceAt := strings.Index(content, "alice")
	bobAt := strings.Index(content, "Bob")
	if aliceAt == -1 || bobAt == -1 {
		t.Fatalf("render missing names: %q", content)
	}
	if aliceAt > bobAt {
		t.Errorf("names not sorted case-insensitively: %q", content)
	}
	if !strings.Contains(content, "Alien, Coraline") {
		t.Errorf("entries not grouped per member: %q", content)
	}
}

func TestRenderPoolEmpty(t *testing.T) {
	b := &Bot{names: newNameCache()}
	if got := b.renderPoolLocked(10, pickpool.New(3, pickpool.Rollover)); got != "" {
		t.Errorf("renderPoolLocked on empty pool = %q, want empty", got)
	}
}
