// Package pickpool implements the per-guild movie-night request pool: a
// bounded, deduplicated list of picks per guild with a uniformly random
// winner draw.
package pickpool

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrNotInCatalog  = errors.New("title is not in the catalog")
	ErrDuplicateItem = errors.New("title is already in the pool")
	ErrQuotaExceeded = errors.New("submitter has reached the pick limit")
	ErrNotFound      = errors.New("no matching pick")
	ErrEmpty         = errors.New("pool is empty")
)

// DefaultLimit is the per-submitter pick cap unless configured otherwise.
const DefaultLimit = 3

// DrawPolicy controls what happens to the losing entries after a draw.
type DrawPolicy int

const (
	// Rollover removes only the winning entry; the rest stay queued for
	// the next round.
	Rollover DrawPolicy = iota
	// ClearAll empties the guild's pool after a draw, as the earliest bot
	// revisions did.
	ClearAll
)

// Catalog validates submitted titles and supplies their canonical spelling.
type Catalog interface {
	// Match returns the canonical form of title and whether it is known.
	// Matching is case-insensitive.
	Match(title string) (string, bool)
}

// Entry is one pending pick.
type Entry struct {
	UserID snowflake.ID `json:"user_id"`
	Title  string       `json:"title"`
}

// Pool holds the pending picks for every guild. All methods are safe for
// concurrent use.
type Pool struct {
	mu     sync.Mutex
	limit  int
	policy DrawPolicy
	groups map[snowflake.ID][]Entry
}

func New(limit int, policy DrawPolicy) *Pool {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Pool{
		limit:  limit,
		policy: policy,
		groups: make(map[snowflake.ID][]Entry),
	}
}

// Submit validates title against the catalog and appends it to the guild's
// pool. The returned string is the catalog's canonical spelling.
func (p *Pool) Submit(guildID, userID snowflake.ID, title string, cat Catalog) (string, error) {
	canonical, ok := cat.Match(title)
	if !ok {
		return "", ErrNotInCatalog
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.groups[guildID]
	mine := 0
	for _, e := range entries {
		if strings.EqualFold(e.Title, canonical) {
			return "", ErrDuplicateItem
		}
		if e.UserID == userID {
			mine++
		}
	}
	if mine >= p.limit {
		return "", ErrQuotaExceeded
	}

	p.groups[guildID] = append(entries, Entry{UserID: userID, Title: canonical})
	return canonical, nil
}

// Replace swaps the caller's existing pick for a new title, keeping its
// position in the queue. The new title is validated against the catalog and
// the pool-wide duplicate rule (the entry being replaced excepted).
func (p *Pool) Replace(guildID, userID snowflake.ID, oldTitle, newTitle string, cat Catalog) (string, error) {
	canonical, ok := cat.Match(newTitle)
	if !ok {
		return "", ErrNotInCatalog
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.groups[guildID]
	target := -1
	for i, e := range entries {
		if e.UserID == userID && strings.EqualFold(e.Title, oldTitle) {
			target = i
			break
		}
	}
	if target < 0 {
		return "", ErrNotFound
	}
	for i, e := range entries {
		if i != target && strings.EqualFold(e.Title, canonical) {
			return "", ErrDuplicateItem
		}
	}

	entries[target].Title = canonical
	return canonical, nil
}

// Draw picks one entry uniformly at random and removes it. Under the
// Rollover policy the other entries stay queued; under ClearAll the whole
// pool is emptied.
func (p *Pool) Draw(guildID snowflake.ID) (Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.groups[guildID]
	if len(entries) == 0 {
		return Entry{}, ErrEmpty
	}

	i := rand.IntN(len(entries))
	winner := entries[i]

	switch p.policy {
	case ClearAll:
		delete(p.groups, guildID)
	default:
		p.groups[guildID] = append(entries[:i:i], entries[i+1:]...)
	}
	return winner, nil
}

// Remove deletes every entry matching the given submitter and/or exact
// title. A zero userID matches any submitter; an empty title matches any
// title. The removed entries are returned for the audit message.
func (p *Pool) Remove(guildID, userID snowflake.ID, title string) []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.groups[guildID]
	var kept []Entry
	var removed []Entry
	for _, e := range entries {
		if (userID == 0 || e.UserID == userID) && (title == "" || strings.EqualFold(e.Title, title)) {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	if len(removed) > 0 {
		if len(kept) == 0 {
			delete(p.groups, guildID)
		} else {
			p.groups[guildID] = kept
		}
	}
	return removed
}

// Entries returns a copy of the guild's pending picks in insertion order.
func (p *Pool) Entries(guildID snowflake.ID) []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.groups[guildID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Len returns the number of pending picks for the guild.
func (p *Pool) Len(guildID snowflake.ID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.groups[guildID])
}

// Snapshot copies the whole pool keyed by string guild ID, ready for JSON
// persistence.
func (p *Pool) Snapshot() map[string][]Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string][]Entry, len(p.groups))
	for gid, entries := range p.groups {
		cp := make([]Entry, len(entries))
		copy(cp, entries)
		out[gid.String()] = cp
	}
	return out
}

// Restore replaces the pool contents with a previously persisted snapshot.
// Guild keys that do not parse are dropped.
func (p *Pool) Restore(data map[string][]Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.groups = make(map[snowflake.ID][]Entry, len(data))
	for key, entries := range data {
		gid, err := snowflake.Parse(key)
		if err != nil || len(entries) == 0 {
			continue
		}
		cp := make([]Entry, len(entries))
		copy(cp, entries)
		p.groups[gid] = cp
	}
}
