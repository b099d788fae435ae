package catalog

import (
	"strings"
	"testing"
)

func TestReplaceDedupesAndSorts(t *testing.T) {
	l := New()
	l.Replace(Movies, []string{"dune", "Alien", "DUNE", "  ", "Blade Runner", "alien"})

	got := l.Titles(Movies)
	want := []string{"Alien", "Blade Runner", "dune"}
	if len(got) != len(want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAdd(t *testing.T) {
	l := New()
	if !l.Add(Movies, "Dune") {
		t.Error("first add should succeed")
	}
	if l.Add(Movies, "dune") {
		t.Error("case-insensitive duplicate add should fail")
	}
	if l.Add(Movies, "  ") {
		t.Error("blank add should fail")
	}
	if l.Len(Movies) != 1 {
		t.Errorf("len = %d, want 1", l.Len(Movies))
	}
}

func TestAddKeepsSortOrder(t *testing.T) {
	l := New()
	l.Replace(Shows, []string{"Severance", "Andor"})
	l.Add(Shows, "The Bear")
	l.Add(Shows, "barry")

	got := l.Titles(Shows)
	want := []string{"Andor", "barry", "Severance", "The Bear"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("titles = %v, want %v", got, want)
		}
	}
}

func TestViewMatch(t *testing.T) {
	l := New()
	l.Replace(Movies, []string{"Blade Runner"})
	v := l.View(Movies)

	canonical, ok := v.Match("  blade RUNNER ")
	if !ok || canonical != "Blade Runner" {
		t.Errorf("Match = %q, %v; want canonical spelling", canonical, ok)
	}
	if _, ok := v.Match("Plan 9"); ok {
		t.Error("unknown title should not match")
	}
	if _, ok := l.View(Shows).Match("Blade Runner"); ok {
		t.Error("match must be scoped to its category")
	}
}

func TestPage(t *testing.T) {
	l := New()
	var titles []string
	for r := 'a'; r <= 'z'; r++ { // 26 titles, two pages
		titles = append(titles, "Movie "+string(r))
	}
	l.Replace(Movies, titles)

	items, page, maxPage := l.Page(Movies, 0)
	if len(items) != PageSize || page != 0 || maxPage != 1 {
		t.Errorf("page 0: %d items, page %d, max %d", len(items), page, maxPage)
	}

	items, page, _ = l.Page(Movies, 1)
	if len(items) != 1 || page != 1 {
		t.Errorf("page 1: %d items, page %d; want the single leftover title", len(items), page)
	}

	// Out-of-range pages clamp.
	_, page, _ = l.Page(Movies, 99)
	if page != 1 {
		t.Errorf("clamped page = %d, want 1", page)
	}
	_, page, _ = l.Page(Movies, -5)
	if page != 0 {
		t.Errorf("clamped page = %d, want 0", page)
	}
}

func TestPageEmpty(t *testing.T) {
	l := New()
	items, page, maxPage := l.Page(Movies, 3)
	if items != nil || page != 0 || maxPage != 0 {
		t.Errorf("empty catalog page = %v, %d, %d", items, page, maxPage)
	}
}

func TestFilter(t *testing.T) {
	l := New()
	l.Replace(Movies, []string{"Dune", "Dune Part Two", "Alien"})

	got := l.Filter(Movies, "dune", 25)
	if len(got) != 2 {
		t.Fatalf("filter matched %d titles, want 2", len(got))
	}
	for _, title := range got {
		if !strings.Contains(strings.ToLower(title), "dune") {
			t.Errorf("unexpected match %q", title)
		}
	}

	if got := l.Filter(Movies, "", 2); len(got) != 2 {
		t.Errorf("empty query with limit 2 returned %d titles", len(got))
	}
	if got := l.Filter(Movies, "zzz", 25); len(got) != 0 {
		t.Errorf("no-match query returned %v", got)
	}
}

func TestFilterRanksPrefixFirst(t *testing.T) {
	l := New()
	l.Replace(Movies, []string{"A Quiet Place", "Quiz Show", "The Quick and the Dead"})

	got := l.Filter(Movies, "qui", 25)
	want := []string{"Quiz Show", "A Quiet Place", "The Quick and the Dead"}
	if len(got) != len(want) {
		t.Fatalf("filter matched %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %q, want %q", i, got[i], want[i])
		}
	}
}
