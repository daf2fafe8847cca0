package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"habitquest/internal/engine"
	"habitquest/internal/storage"
)

func newTestModel(t *testing.T) (boardModel, *engine.Service) {
	t.Helper()
	ctx := context.Background()
	svc, err := engine.Open(ctx, storage.NewMemoryStore(), engine.Options{
		UserID:      "main_user",
		DisplayName: "You",
		Rand:        engine.NewSeededSource(1),
		Now:         func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local) },
	})
	if err != nil {
		t.Fatalf("open service: %v", err)
	}
	return newBoardModel(ctx, svc), svc
}

// step feeds msg to the model and runs any command it returns once.
func step(t *testing.T, m boardModel, msg tea.Msg) boardModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(boardModel)
	if cmd != nil {
		if follow := cmd(); follow != nil {
			next, _ = m.Update(follow)
			m = next.(boardModel)
		}
	}
	return m
}

func TestBoardTogglesSelectedTask(t *testing.T) {
	m, svc := newTestModel(t)
	if _, err := svc.AddTask(context.Background(), svc.Today(), "Drink water"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	m = step(t, m, m.reloadCmd()())
	if m.snap == nil || len(m.snap.tasks) != 1 {
		t.Fatalf("snapshot not loaded: %+v", m.snap)
	}
	if !strings.Contains(m.View(), "Drink water") {
		t.Fatalf("view missing task:\n%s", m.View())
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = next.(boardModel)
	if cmd == nil {
		t.Fatalf("c should toggle the selected task")
	}
	m = step(t, m, cmd())
	if !strings.Contains(m.lastLog, "+10 XP") {
		t.Fatalf("lastLog=%q", m.lastLog)
	}
	if m.snap.progress.CompletedTasks != 1 {
		t.Fatalf("completed=%d, want 1", m.snap.progress.CompletedTasks)
	}
}

func TestBoardSwitchesPanels(t *testing.T) {
	m, _ := newTestModel(t)
	m = step(t, m, m.reloadCmd()())

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.panel != panelAchievements || !strings.Contains(m.View(), "First Week Streak") {
		t.Fatalf("achievements panel not shown:\n%s", m.View())
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.panel != panelLeaderboard || !strings.Contains(m.View(), "You (you)") {
		t.Fatalf("leaderboard panel not shown:\n%s", m.View())
	}

	// Toggling does nothing outside the task panel.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if cmd != nil {
		t.Fatalf("toggle outside task panel should be ignored")
	}
}

func TestBoardPicksUpServiceEvents(t *testing.T) {
	m, svc := newTestModel(t)
	m = step(t, m, m.reloadCmd()())

	if err := svc.AddPoints(context.Background(), "fitness", 120); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	m = step(t, m, eventMsg{ev: engine.Event{Kind: engine.EventXP}})
	if m.snap.progress.Level != 2 {
		t.Fatalf("level=%d, want 2", m.snap.progress.Level)
	}
	if !strings.Contains(m.View(), "Level 2") {
		t.Fatalf("header not updated:\n%s", m.View())
	}
}
