package root

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
)

// addDateFlag registers --date and returns a resolver defaulting to today.
func addDateFlag(cmd *cobra.Command) func(svc *engine.Service) (engine.DateKey, error) {
	var raw string
	cmd.Flags().StringVar(&raw, "date", "", "Day as YYYY-MM-DD (default today)")
	return func(svc *engine.Service) (engine.DateKey, error) {
		if strings.TrimSpace(raw) == "" {
			return svc.Today(), nil
		}
		return engine.ParseDateKey(raw)
	}
}

// resolveTask accepts the 1-based position shown by `hq list` or a task id.
func resolveTask(svc *engine.Service, day engine.DateKey, ref string) (engine.Task, engine.DateKey, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		tasks := svc.Tasks(day)
		if n < 1 || n > len(tasks) {
			return engine.Task{}, "", &engine.NotFoundError{Kind: "task", ID: "#" + ref, Date: day}
		}
		return tasks[n-1], day, nil
	}
	t, ok := svc.FindTask(ref)
	if !ok {
		return engine.Task{}, "", &engine.NotFoundError{Kind: "task", ID: ref}
	}
	return t, t.CreatedOn, nil
}

func exactArgs(n int, msg string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.New(msg)
		}
		return nil
	}
}
