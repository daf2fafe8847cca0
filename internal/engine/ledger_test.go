package engine

import (
	"errors"
	"testing"
)

func TestTotalXPIsSumOfDeltasPlusTaskBonus(t *testing.T) {
	l := NewLedger(0)
	deltas := []struct {
		cat   string
		delta int
	}{
		{"fitness", 5}, {"reading", 12}, {"fitness", 33}, {"mindfulness", 1}, {"reading", 7},
	}
	sum := 0
	for _, d := range deltas {
		if err := l.AddPoints(d.cat, d.delta); err != nil {
			t.Fatalf("AddPoints(%s, %d): %v", d.cat, d.delta, err)
		}
		sum += d.delta
	}
	for completed := 0; completed < 4; completed++ {
		if got, want := l.TotalXP(completed), sum+10*completed; got != want {
			t.Fatalf("TotalXP(%d)=%d, want %d", completed, got, want)
		}
	}
}

func TestAddPointsRejectsNonPositiveDelta(t *testing.T) {
	l := NewLedger(0)
	for _, d := range []int{0, -1, -100} {
		err := l.AddPoints("fitness", d)
		var de *InvalidDeltaError
		if !errors.As(err, &de) {
			t.Fatalf("AddPoints delta=%d err=%v, want InvalidDeltaError", d, err)
		}
	}
	if err := l.AddPoints("   ", 5); err == nil {
		t.Fatalf("expected error for blank category")
	}
	if got := l.PointsSum(); got != 0 {
		t.Fatalf("points after rejected deltas=%d, want 0", got)
	}
}

func TestLevelScenario(t *testing.T) {
	l := NewLedger(0)
	if err := l.AddPoints("fitness", 50); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	total := l.TotalXP(1)
	if total != 60 {
		t.Fatalf("TotalXP=%d, want 60", total)
	}
	if got := LevelForTotalXP(total); got != 1 {
		t.Fatalf("level=%d, want 1", got)
	}
	if got := LevelProgress(total); got != 60 {
		t.Fatalf("progress=%d, want 60", got)
	}
}

func TestXPBoundaries(t *testing.T) {
	cases := []struct {
		xp, level, progress int
	}{
		{0, 1, 0}, {99, 1, 99}, {100, 2, 0}, {250, 3, 50}, {-5, 1, 0},
	}
	for _, c := range cases {
		if got := LevelForTotalXP(c.xp); got != c.level {
			t.Fatalf("LevelForTotalXP(%d)=%d, want %d", c.xp, got, c.level)
		}
		if got := LevelProgress(c.xp); got != c.progress {
			t.Fatalf("LevelProgress(%d)=%d, want %d", c.xp, got, c.progress)
		}
	}
	if got := XPRequiredForLevel(3); got != 200 {
		t.Fatalf("XPRequiredForLevel(3)=%d, want 200", got)
	}
}

func TestStreakAccessors(t *testing.T) {
	l := NewLedger(14)
	if err := l.SetStreak(-1); err == nil {
		t.Fatalf("expected error for negative streak")
	}
	if err := l.SetStreak(20); err != nil {
		t.Fatalf("SetStreak: %v", err)
	}
	if l.Streak() != 20 {
		t.Fatalf("streak=%d, want 20", l.Streak())
	}
	if l.DisplayStreak() != 14 {
		t.Fatalf("display streak=%d, want 14", l.DisplayStreak())
	}
}

func TestCategoryAliases(t *testing.T) {
	l := NewLedger(0)
	_ = l.AddPoints("Workout", 5)
	_ = l.AddPoints("fitness", 5)
	if got := l.Points("fit"); got != 10 {
		t.Fatalf("fitness points=%d, want 10", got)
	}
	l.Reset()
	if got := l.PointsSum(); got != 0 {
		t.Fatalf("points after reset=%d, want 0", got)
	}
}
