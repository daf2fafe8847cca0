// Package feed provides leaderboard sources for the engine.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"habitquest/internal/engine"
)

// Static serves a fixed list of entries.
type Static struct {
	entries []engine.LeaderboardEntry
}

func NewStatic(entries []engine.LeaderboardEntry) *Static {
	cp := make([]engine.LeaderboardEntry, len(entries))
	copy(cp, entries)
	return &Static{entries: cp}
}

// DefaultEntries is the demo leaderboard used when no feed URL is configured.
func DefaultEntries() []engine.LeaderboardEntry {
	return []engine.LeaderboardEntry{
		{Name: "Alex", XP: 420},
		{Name: "Sam", XP: 310},
		{Name: "Jordan", XP: 275},
		{Name: "Riley", XP: 190},
		{Name: "Casey", XP: 80},
	}
}

func (s *Static) Fetch(ctx context.Context) ([]engine.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]engine.LeaderboardEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// maxBody caps how much of a feed response is read.
const maxBody = 1 << 20

// HTTP fetches entries as a JSON array from a remote endpoint.
type HTTP struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTP creates a feed that GETs url. A zero timeout means no per-fetch limit
// beyond the caller's context.
func NewHTTP(url string, timeout time.Duration, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{url: url, timeout: timeout, client: client}
}

func (h *HTTP) Fetch(ctx context.Context) ([]engine.LeaderboardEntry, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	var entries []engine.LeaderboardEntry
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return entries, nil
}

// New picks the HTTP feed when url is set and the static demo feed otherwise.
func New(url string, timeout time.Duration) engine.Feed {
	if url == "" {
		return NewStatic(DefaultEntries())
	}
	return NewHTTP(url, timeout, nil)
}
