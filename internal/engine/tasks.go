package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Task is a daily habit check-off.
type Task struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	Editing   bool    `json:"editing,omitempty"`
	CreatedOn DateKey `json:"createdOn"`
}

// TaskPatch is a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title   *string `json:"title,omitempty"`
	Editing *bool   `json:"editing,omitempty"`
}

// ToggleResult reports a completion change.
type ToggleResult struct {
	Task      Task `json:"task"`
	Changed   bool `json:"changed"`
	XPAwarded int  `json:"xpAwarded"`
}

// TaskStore owns the date-keyed task lists. Completion credits go to the
// ledger it was built with.
type TaskStore struct {
	byDate map[DateKey][]Task
	ledger *Ledger
	newID  func() (string, error)
}

func NewTaskStore(ledger *Ledger) *TaskStore {
	return &TaskStore{
		byDate: map[DateKey][]Task{},
		ledger: ledger,
		newID:  newTaskID,
	}
}

// newTaskID returns a UUIDv7: time-ordered, and monotonic within the process
// even for calls in the same millisecond.
func newTaskID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("new task id: %w", err)
	}
	return id.String(), nil
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return t, nil
}

func (s *TaskStore) AddTask(date DateKey, title string) (Task, error) {
	if _, err := date.Time(); err != nil {
		return Task{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", date)}
	}
	t, err := normalizeTitle(title)
	if err != nil {
		return Task{}, err
	}
	id, err := s.newID()
	if err != nil {
		return Task{}, err
	}
	task := Task{ID: id, Title: t, CreatedOn: date}
	s.byDate[date] = append(s.byDate[date], task)
	return task, nil
}

func (s *TaskStore) find(date DateKey, id string) (int, error) {
	list, ok := s.byDate[date]
	if !ok {
		return -1, &NotFoundError{Kind: "task", ID: id, Date: date}
	}
	for i := range list {
		if list[i].ID == id {
			return i, nil
		}
	}
	return -1, &NotFoundError{Kind: "task", ID: id, Date: date}
}

// ToggleCompletion sets the completed flag. Only a false→true transition
// credits the ledger; un-completing does not take the XP back.
func (s *TaskStore) ToggleCompletion(date DateKey, id string, completed bool) (ToggleResult, error) {
	i, err := s.find(date, id)
	if err != nil {
		return ToggleResult{}, err
	}
	task := &s.byDate[date][i]
	if task.Completed == completed {
		return ToggleResult{Task: *task}, nil
	}

	xp := 0
	if completed {
		if err := s.ledger.AddPoints(CategoryTasks, TaskCompletionXP); err != nil {
			return ToggleResult{}, err
		}
		xp = TaskCompletionXP
	}
	task.Completed = completed
	return ToggleResult{Task: *task, Changed: true, XPAwarded: xp}, nil
}

func (s *TaskStore) UpdateTask(date DateKey, id string, patch TaskPatch) (Task, error) {
	i, err := s.find(date, id)
	if err != nil {
		return Task{}, err
	}
	task := &s.byDate[date][i]
	if patch.Title != nil {
		t, err := normalizeTitle(*patch.Title)
		if err != nil {
			return Task{}, err
		}
		task.Title = t
	}
	if patch.Editing != nil {
		task.Editing = *patch.Editing
	}
	return *task, nil
}

// DeleteTask removes the task. XP it earned stays on the ledger.
func (s *TaskStore) DeleteTask(date DateKey, id string) error {
	i, err := s.find(date, id)
	if err != nil {
		return err
	}
	list := s.byDate[date]
	s.byDate[date] = append(list[:i:i], list[i+1:]...)
	return nil
}

// Tasks returns a copy of the tasks for date, in insertion order.
func (s *TaskStore) Tasks(date DateKey) []Task {
	list := s.byDate[date]
	out := make([]Task, len(list))
	copy(out, list)
	return out
}

// Find looks a task up by id across every date.
func (s *TaskStore) Find(id string) (Task, bool) {
	for _, list := range s.byDate {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return Task{}, false
}

// Dates returns every date-key that has ever held tasks, oldest first.
func (s *TaskStore) Dates() []DateKey {
	out := make([]DateKey, 0, len(s.byDate))
	for d := range s.byDate {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *TaskStore) CompletedOn(date DateKey) int {
	n := 0
	for _, t := range s.byDate[date] {
		if t.Completed {
			n++
		}
	}
	return n
}

// CompletedCount counts completed tasks across all dates.
func (s *TaskStore) CompletedCount() int {
	n := 0
	for d := range s.byDate {
		n += s.CompletedOn(d)
	}
	return n
}

// restore replaces the list for one date with a persisted snapshot.
func (s *TaskStore) restore(date DateKey, tasks []Task) {
	list := make([]Task, len(tasks))
	copy(list, tasks)
	s.byDate[date] = list
}
