package engine

import (
	"fmt"
	"sort"
)

// Ledger owns per-category XP and the streak counter.
// Category totals only ever grow; Reset is the single way back to zero.
type Ledger struct {
	points    map[string]int
	streak    int
	streakCap int
}

func NewLedger(streakCap int) *Ledger {
	if streakCap <= 0 {
		streakCap = DefaultStreakCap
	}
	return &Ledger{
		points:    map[string]int{},
		streakCap: streakCap,
	}
}

// AddPoints credits delta to category.
func (l *Ledger) AddPoints(category string, delta int) error {
	c := ParseCategory(category)
	if c == "" || delta <= 0 {
		return &InvalidDeltaError{Category: c, Delta: delta}
	}
	l.points[c] += delta
	return nil
}

func (l *Ledger) Points(category string) int {
	return l.points[ParseCategory(category)]
}

// Categories returns a copy of the category totals.
func (l *Ledger) Categories() map[string]int {
	out := make(map[string]int, len(l.points))
	for k, v := range l.points {
		out[k] = v
	}
	return out
}

// CategoryNames returns the categories with points, sorted by name.
func (l *Ledger) CategoryNames() []string {
	names := make([]string, 0, len(l.points))
	for k, v := range l.points {
		if v > 0 {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// PointsSum is the sum of all category totals.
func (l *Ledger) PointsSum() int {
	sum := 0
	for _, v := range l.points {
		sum += v
	}
	return sum
}

// TotalXP adds the completed-task bonus to the category sum.
// completedTasks is supplied by the task store.
func (l *Ledger) TotalXP(completedTasks int) int {
	if completedTasks < 0 {
		completedTasks = 0
	}
	return l.PointsSum() + TaskCompletionXP*completedTasks
}

func (l *Ledger) Streak() int { return l.streak }

func (l *Ledger) SetStreak(n int) error {
	if n < 0 {
		return &ValidationError{Field: "streak", Reason: fmt.Sprintf("%d is negative", n)}
	}
	l.streak = n
	return nil
}

// DisplayStreak caps the streak at the configured maximum.
func (l *Ledger) DisplayStreak() int {
	if l.streak > l.streakCap {
		return l.streakCap
	}
	return l.streak
}

func (l *Ledger) StreakCap() int { return l.streakCap }

// Reset clears every category total. The streak is left alone.
func (l *Ledger) Reset() {
	l.points = map[string]int{}
}

// restore replaces the category totals with a persisted snapshot, dropping
// non-positive values.
func (l *Ledger) restore(points map[string]int, streak int) {
	l.points = make(map[string]int, len(points))
	for k, v := range points {
		if v > 0 {
			l.points[k] = v
		}
	}
	if streak < 0 {
		streak = 0
	}
	l.streak = streak
}
