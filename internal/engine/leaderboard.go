package engine

import (
	"context"
	"sort"
	"strings"
)

// LeaderboardEntry is one participant's score.
type LeaderboardEntry struct {
	Name string `json:"name"`
	XP   int    `json:"xp"`
}

// Feed supplies leaderboard entries from outside the engine.
type Feed interface {
	Fetch(ctx context.Context) ([]LeaderboardEntry, error)
}

// FeedFunc adapts a function to Feed.
type FeedFunc func(ctx context.Context) ([]LeaderboardEntry, error)

func (f FeedFunc) Fetch(ctx context.Context) ([]LeaderboardEntry, error) { return f(ctx) }

// Leaderboard is a working copy of the feed plus the current user.
type Leaderboard struct {
	entries    []LeaderboardEntry
	self       *LeaderboardEntry
	generation uint64
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{}
}

// BeginRefresh returns the token to hand back to ApplyFeed.
func (b *Leaderboard) BeginRefresh() uint64 {
	return b.generation
}

// ApplyFeed installs entries fetched under token. If the board changed since
// the token was taken, the fetched entries are only merged in for names not
// already present and ErrStaleWriteIgnored is returned.
func (b *Leaderboard) ApplyFeed(token uint64, entries []LeaderboardEntry) error {
	clean := dedupe(entries)
	if token != b.generation {
		for _, e := range clean {
			if !hasName(b.entries, e.Name) {
				b.entries = append(b.entries, e)
			}
		}
		b.generation++
		return ErrStaleWriteIgnored
	}
	if b.self != nil && !hasName(clean, b.self.Name) {
		clean = append(clean, *b.self)
	}
	b.entries = clean
	b.generation++
	return nil
}

// UpsertSelf appends name when it is missing. An existing entry keeps its XP.
func (b *Leaderboard) UpsertSelf(name string, xp int) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if hasName(b.entries, name) {
		return false
	}
	e := LeaderboardEntry{Name: name, XP: xp}
	b.entries = append(b.entries, e)
	b.self = &e
	b.generation++
	return true
}

// Ranked returns the entries by XP, highest first. Ties keep feed order.
func (b *Leaderboard) Ranked() []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(b.entries))
	copy(out, b.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].XP > out[j].XP })
	return out
}

func (b *Leaderboard) Len() int { return len(b.entries) }

func hasName(entries []LeaderboardEntry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// dedupe keeps the first entry for each name and drops blank names.
func dedupe(entries []LeaderboardEntry) []LeaderboardEntry {
	seen := map[string]bool{}
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	return out
}
