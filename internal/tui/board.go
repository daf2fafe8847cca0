package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"habitquest/internal/engine"
)

// RunBoard runs the dashboard until the user quits. Service events are
// forwarded to the program so other writers show up live.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	m := newBoardModel(ctx, svc)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	unsubscribe := svc.Subscribe(func(ev engine.Event) {
		p.Send(eventMsg{ev: ev})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
