package engine

import (
	"errors"
	"testing"
)

const testDay DateKey = "2026-10-16"

func TestToggleCreditsOnCompletion(t *testing.T) {
	l := NewLedger(0)
	s := NewTaskStore(l)
	task, err := s.AddTask(testDay, "Drink water")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Completed {
		t.Fatalf("new task should not be completed")
	}

	res, err := s.ToggleCompletion(testDay, task.ID, true)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if res.XPAwarded != 10 || l.Points(CategoryTasks) != 10 {
		t.Fatalf("xp awarded=%d tasks points=%d, want 10/10", res.XPAwarded, l.Points(CategoryTasks))
	}

	res, err = s.ToggleCompletion(testDay, task.ID, true)
	if err != nil {
		t.Fatalf("toggle on again: %v", err)
	}
	if res.Changed || l.Points(CategoryTasks) != 10 {
		t.Fatalf("re-completing should be a no-op")
	}

	if _, err := s.ToggleCompletion(testDay, task.ID, false); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if l.Points(CategoryTasks) != 10 {
		t.Fatalf("un-completing must not retract xp, points=%d", l.Points(CategoryTasks))
	}
	if s.CompletedCount() != 0 {
		t.Fatalf("completed=%d, want 0", s.CompletedCount())
	}

	// Completing again credits again.
	if _, err := s.ToggleCompletion(testDay, task.ID, true); err != nil {
		t.Fatalf("toggle on third time: %v", err)
	}
	if l.Points(CategoryTasks) != 20 {
		t.Fatalf("tasks points=%d, want 20", l.Points(CategoryTasks))
	}
}

func TestTaskIDsAreUnique(t *testing.T) {
	s := NewTaskStore(NewLedger(0))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		task, err := s.AddTask(testDay, "t")
		if err != nil {
			t.Fatalf("AddTask: %v", err)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate id %s at %d", task.ID, i)
		}
		seen[task.ID] = true
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	l := NewLedger(0)
	s := NewTaskStore(l)
	task, _ := s.AddTask(testDay, "Stretch")

	title := "  Stretch 10 min "
	editing := true
	got, err := s.UpdateTask(testDay, task.ID, TaskPatch{Title: &title, Editing: &editing})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Title != "Stretch 10 min" || !got.Editing {
		t.Fatalf("updated task=%+v", got)
	}

	var nf *NotFoundError
	if _, err := s.UpdateTask(testDay, "missing", TaskPatch{Title: &title}); !errors.As(err, &nf) {
		t.Fatalf("UpdateTask missing err=%v, want NotFoundError", err)
	}
	if _, err := s.UpdateTask("2020-01-01", task.ID, TaskPatch{Title: &title}); !errors.As(err, &nf) {
		t.Fatalf("UpdateTask wrong date err=%v, want NotFoundError", err)
	}

	if _, err := s.ToggleCompletion(testDay, task.ID, true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := s.DeleteTask(testDay, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if len(s.Tasks(testDay)) != 0 {
		t.Fatalf("task still listed after delete")
	}
	if l.Points(CategoryTasks) != 10 {
		t.Fatalf("delete must not compensate xp")
	}
	if err := s.DeleteTask(testDay, task.ID); !errors.As(err, &nf) {
		t.Fatalf("second delete err=%v, want NotFoundError", err)
	}
}

func TestAddTaskValidation(t *testing.T) {
	s := NewTaskStore(NewLedger(0))
	if _, err := s.AddTask(testDay, "   "); err == nil {
		t.Fatalf("expected error for blank title")
	}
	if _, err := s.AddTask("16/10/2026", "x"); err == nil {
		t.Fatalf("expected error for bad date")
	}
}

func TestPastDatesStayReachable(t *testing.T) {
	s := NewTaskStore(NewLedger(0))
	a, _ := s.AddTask("2026-10-14", "old")
	_, _ = s.AddTask(testDay, "new")
	_, _ = s.ToggleCompletion("2026-10-14", a.ID, true)

	dates := s.Dates()
	if len(dates) != 2 || dates[0] != "2026-10-14" {
		t.Fatalf("dates=%v", dates)
	}
	if s.CompletedCount() != 1 || s.CompletedOn(testDay) != 0 {
		t.Fatalf("completed=%d today=%d", s.CompletedCount(), s.CompletedOn(testDay))
	}
	if got, ok := s.Find(a.ID); !ok || got.Title != "old" {
		t.Fatalf("Find=%+v ok=%v", got, ok)
	}
}
