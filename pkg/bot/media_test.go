package bot

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kasstmaster/softdreamingsmember/pkg/catalog"
)

func TestParseTitleLines(t *testing.T) {
	content := "- The Matrix\n* Alien \n• Coraline\n\n  Blade Runner  "
	want := []string{"The Matrix", "Alien", "Coraline", "Blade Runner"}
	if got := parseTitleLines(content); !reflect.DeepEqual(got, want) {
		t.Errorf("parseTitleLines = %v, want %v", got, want)
	}
}

func TestParseTitleLinesEmpty(t *testing.T) {
	if got := parseTitleLines("  \n\n- "); got != nil {
		t.Errorf("parseTitleLines on blanks = %v, want nil", got)
	}
}

func TestListPage(t *testing.T) {
	b := &Bot{library: catalog.New()}
	titles := make([]string, 30)
	for i := range titles {
		titles[i] = "Title " + string(rune('A'+i))
	}
	b.library.Replace(catalog.Movies, titles)

	content, components := b.listPage(catalog.Movies, 0)
	if !strings.Contains(content, "page 1/2") {
		t.Errorf("first page header wrong: %q", content)
	}
	if len(components) != 1 {
		t.Fatalf("expected one action row, got %d", len(components))
	}

	content, _ = b.listPage(catalog.Movies, 99)
	if !strings.Contains(content, "page 2/2") {
		t.Errorf("out-of-range page should clamp: %q", content)
	}
}

func TestListPageEmpty(t *testing.T) {
	b := &Bot{library: catalog.New()}
	content, components := b.listPage(catalog.Shows, 0)
	if !strings.Contains(content, "empty") {
		t.Errorf("empty list content = %q", content)
	}
	if components != nil {
		t.Error("empty list should have no pager buttons")
	}
}

func TestCapitalize(t *testing.T) {
	if capitalize("movies") != "Movies" || capitalize("") != "" {
		t.Error("capitalize is wrong")
	}
}
