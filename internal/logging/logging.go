// Package logging builds the structured logger shared by the CLI, TUI and
// HTTP server.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := log.ParseLevel(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		lvl = parsed
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "hq",
		ReportTimestamp: true,
	}), nil
}
