// Package catalog maintains the canonical movie and TV title lists that
// pool submissions are validated against.
package catalog

import (
	"sort"
	"strings"
	"sync"
)

// Category names a title list.
type Category string

const (
	Movies Category = "movies"
	Shows  Category = "shows"
)

// PageSize is how many titles a catalog page holds.
const PageSize = 25

// Library holds the canonical title lists. Safe for concurrent use.
type Library struct {
	mu     sync.RWMutex
	titles map[Category][]string
}

func New() *Library {
	return &Library{titles: make(map[Category][]string)}
}

// Replace swaps in a freshly loaded title list for the category,
// deduplicating case-insensitively and sorting for display.
func (l *Library) Replace(cat Category, titles []string) {
	cleaned := dedupe(titles)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.titles[cat] = cleaned
}

// Add inserts a title if no case-insensitive match exists yet. It reports
// whether the title was added.
func (l *Library) Add(cat Category, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range l.titles[cat] {
		if strings.EqualFold(t, title) {
			return false
		}
	}
	l.titles[cat] = append(l.titles[cat], title)
	sortTitles(l.titles[cat])
	return true
}

// Titles returns a copy of the category's title list.
func (l *Library) Titles(cat Category) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.titles[cat]))
	copy(out, l.titles[cat])
	return out
}

// Len returns how many titles the category holds.
func (l *Library) Len(cat Category) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.titles[cat])
}

// View returns the category's catalog for submission validation.
func (l *Library) View(cat Category) View {
	return View{lib: l, cat: cat}
}

// View adapts one category of a Library to the pick pool's catalog
// interface.
type View struct {
	lib *Library
	cat Category
}

// Match returns the canonical spelling of title and whether it is known.
func (v View) Match(title string) (string, bool) {
	title = strings.TrimSpace(title)

	v.lib.mu.RLock()
	defer v.lib.mu.RUnlock()

	for _, t := range v.lib.titles[v.cat] {
		if strings.EqualFold(t, title) {
			return t, true
		}
	}
	return "", false
}

// Page returns one display page, clamping page into range. maxPage is the
// last valid page index.
func (l *Library) Page(cat Category, page int) (items []string, clamped, maxPage int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	titles := l.titles[cat]
	if len(titles) == 0 {
		return nil, 0, 0
	}
	maxPage = (len(titles) - 1) / PageSize
	clamped = min(max(page, 0), maxPage)

	start := clamped * PageSize
	end := min(start+PageSize, len(titles))
	items = make([]string, end-start)
	copy(items, titles[start:end])
	return items, clamped, maxPage
}

// Filter returns up to limit titles matching query (case-insensitive),
// titles starting with the query ranked before mere substring matches.
// An empty query matches everything.
func (l *Library) Filter(cat Category, query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))

	l.mu.RLock()
	defer l.mu.RUnlock()

	var prefix, contains []string
	for _, t := range l.titles[cat] {
		lower := strings.ToLower(t)
		switch {
		case query == "" || strings.HasPrefix(lower, query):
			prefix = append(prefix, t)
		case strings.Contains(lower, query):
			contains = append(contains, t)
		}
	}

	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func dedupe(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	sortTitles(out)
	return out
}

func sortTitles(titles []string) {
	sort.Slice(titles, func(i, j int) bool {
		return strings.ToLower(titles[i]) < strings.ToLower(titles[j])
	})
}
