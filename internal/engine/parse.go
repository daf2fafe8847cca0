package engine

import (
	"fmt"
	"strings"
	"time"
)

// DateKey is an ISO calendar day (YYYY-MM-DD) used to bucket daily tasks.
type DateKey string

const dateKeyLayout = "2006-01-02"

// DateKeyFor returns the date-key of t in t's own location.
func DateKeyFor(t time.Time) DateKey {
	return DateKey(t.Format(dateKeyLayout))
}

// ParseDateKey validates user input as a date-key.
func ParseDateKey(input string) (DateKey, error) {
	s := strings.TrimSpace(input)
	if _, err := time.Parse(dateKeyLayout, s); err != nil {
		return "", &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", input)}
	}
	return DateKey(s), nil
}

// Time returns midnight UTC of the date-key.
func (d DateKey) Time() (time.Time, error) {
	return time.Parse(dateKeyLayout, string(d))
}

// AddDays returns the date-key n days after d.
func (d DateKey) AddDays(n int) (DateKey, error) {
	t, err := d.Time()
	if err != nil {
		return "", err
	}
	return DateKeyFor(t.AddDate(0, 0, n)), nil
}

// ParseCategory normalises a category name.
// Supported aliases map onto the built-in habit domains; anything else is
// kept as typed (trimmed, lower-cased).
func ParseCategory(input string) string {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "fit", "exercise", "workout":
		return "fitness"
	case "recovery", "sober", "sobriety":
		return "addiction-recovery"
	case "mind", "meditation", "mindfulness":
		return "mindfulness"
	case "read", "reading", "books":
		return "reading"
	default:
		return s
	}
}
