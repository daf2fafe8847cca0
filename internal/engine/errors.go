package engine

import (
	"errors"
	"fmt"
)

// ErrStaleWriteIgnored signals that an asynchronous result arrived after a
// newer state change and was not applied. It is never shown to the user.
var ErrStaleWriteIgnored = errors.New("stale write ignored")

// InvalidDeltaError is returned when an XP delta is not a positive integer.
type InvalidDeltaError struct {
	Category string
	Delta    int
}

func (e *InvalidDeltaError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("invalid xp delta %d: category is required", e.Delta)
	}
	return fmt.Sprintf("invalid xp delta %d for category %q: must be positive", e.Delta, e.Category)
}

// NotFoundError is returned for an unknown task, date or quiz session.
type NotFoundError struct {
	Kind string
	ID   string
	Date DateKey
}

func (e *NotFoundError) Error() string {
	if e.Date != "" {
		return fmt.Sprintf("%s %s not found on %s", e.Kind, e.ID, e.Date)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidWeightError is returned when a wheel is built from an empty segment
// list or from a segment with a non-positive weight.
type InvalidWeightError struct {
	Index  int
	Reason string
}

func (e *InvalidWeightError) Error() string {
	if e.Index < 0 {
		return "invalid wheel: " + e.Reason
	}
	return fmt.Sprintf("invalid wheel segment %d: %s", e.Index, e.Reason)
}

// ValidationError is returned for malformed user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError is returned when a quiz action is attempted in the wrong state.
type StateError struct {
	Action string
	State  QuizState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while quiz is %s", e.Action, e.State)
}

// GateError indicates a feature is currently locked.
// This is returned by gate checks and should be shown to the user.
type GateError struct {
	Feature string
	Reason  string
}

func (e GateError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("feature '%s' is locked", e.Feature)
	}
	return fmt.Sprintf("feature '%s' is locked: %s", e.Feature, e.Reason)
}
