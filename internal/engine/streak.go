package engine

import "fmt"

// StreakTracker advances the streak from qualifying-day verdicts.
// Whether a day qualifies is decided by the caller.
type StreakTracker struct {
	Last DateKey // last qualifying day, empty if none
}

// StreakUpdate describes what RecordDay did.
type StreakUpdate struct {
	Before int
	After  int
	Reset  bool
}

// RecordDay applies the verdict for day to the ledger's streak.
//   - same day as the last qualifying day: no change
//   - the day right after: +1
//   - a gap: the streak resets to 0, then counts day if it qualifies
//   - a non-qualifying day: the streak resets to 0
func (t *StreakTracker) RecordDay(l *Ledger, day DateKey, qualified bool) (StreakUpdate, error) {
	if _, err := day.Time(); err != nil {
		return StreakUpdate{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", day)}
	}
	before := l.Streak()
	res := StreakUpdate{Before: before, After: before}

	if !qualified {
		if before > 0 {
			res.Reset = true
		}
		res.After = 0
		_ = l.SetStreak(0)
		return res, nil
	}

	if t.Last == day {
		return res, nil
	}
	if t.Last != "" && day < t.Last {
		return StreakUpdate{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%s is before last qualifying day %s", day, t.Last)}
	}

	next := 1
	if t.Last != "" {
		expected, err := t.Last.AddDays(1)
		if err != nil {
			return StreakUpdate{}, fmt.Errorf("record day: %w", err)
		}
		if expected == day {
			next = before + 1
		} else if before > 0 {
			res.Reset = true
		}
	}
	if err := l.SetStreak(next); err != nil {
		return StreakUpdate{}, err
	}
	t.Last = day
	res.After = next
	return res, nil
}
