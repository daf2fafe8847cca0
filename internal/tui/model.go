package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

type panel int

const (
	panelTasks panel = iota
	panelAchievements
	panelLeaderboard
	panelCount
)

func (p panel) String() string {
	switch p {
	case panelAchievements:
		return "Achievements"
	case panelLeaderboard:
		return "Leaderboard"
	default:
		return "Today"
	}
}

// snapshot is everything the view renders, read from the service in one go.
type snapshot struct {
	today        engine.DateKey
	progress     engine.Progress
	tasks        []engine.Task
	achievements []engine.Achievement
	ranked       []engine.LeaderboardEntry
}

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	snap     *snapshot
	panel    panel
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	snap  *snapshot
	stale bool
	err   error
}

type toggledMsg struct {
	title string
	res   engine.ToggleResult
	err   error
}

type deletedMsg struct {
	title string
	err   error
}

type leaderboardMsg struct {
	err error
}

type eventMsg struct {
	ev engine.Event
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.reloadCmd(), m.refreshLeaderboardCmd())
}

func takeSnapshot(svc *engine.Service) *snapshot {
	today := svc.Today()
	return &snapshot{
		today:        today,
		progress:     svc.Progress(),
		tasks:        svc.Tasks(today),
		achievements: svc.Achievements(),
		ranked:       svc.Ranked(),
	}
}

// reloadCmd re-reads the store. A reload that raced with a local change is
// dropped by the service; the in-memory state is shown instead.
func (m boardModel) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.svc.Reload(m.ctx)
		stale := errors.Is(err, engine.ErrStaleWriteIgnored)
		if err != nil && !stale {
			return loadedMsg{err: err}
		}
		return loadedMsg{snap: takeSnapshot(m.svc), stale: stale}
	}
}

func (m boardModel) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{snap: takeSnapshot(m.svc)}
	}
}

func (m boardModel) toggleCmd(t engine.Task, day engine.DateKey) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ToggleCompletion(m.ctx, day, t.ID, !t.Completed)
		return toggledMsg{title: t.Title, res: res, err: err}
	}
}

func (m boardModel) deleteCmd(t engine.Task, day engine.DateKey) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.DeleteTask(m.ctx, day, t.ID)
		return deletedMsg{title: t.Title, err: err}
	}
}

func (m boardModel) refreshLeaderboardCmd() tea.Cmd {
	return func() tea.Msg {
		return leaderboardMsg{err: m.svc.RefreshLeaderboard(m.ctx)}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.err = nil
		m.snap = msg.snap
		m.clampSelection()
		if msg.stale {
			m.lastLog = "Kept newer local changes."
		} else {
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		}
		return m, nil
	case eventMsg:
		return m, m.snapshotCmd()
	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		}
		switch {
		case msg.res.XPAwarded > 0:
			m.lastLog = fmt.Sprintf("Completed %q: +%d XP", msg.title, msg.res.XPAwarded)
		case msg.res.Task.Completed:
			m.lastLog = fmt.Sprintf("Completed %q", msg.title)
		default:
			m.lastLog = fmt.Sprintf("Reopened %q", msg.title)
		}
		return m, m.snapshotCmd()
	case deletedMsg:
		if msg.err != nil {
			m.lastLog = "Delete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Deleted %q", msg.title)
		return m, m.snapshotCmd()
	case leaderboardMsg:
		if msg.err != nil {
			m.lastLog = "Leaderboard refresh failed: " + msg.err.Error()
		}
		return m, m.snapshotCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		m.lastLog = "Refreshing…"
		return m, m.reloadCmd()
	case "L":
		m.lastLog = "Refreshing leaderboard…"
		return m, m.refreshLeaderboardCmd()
	case "tab":
		m.panel = (m.panel + 1) % panelCount
		m.selected = 0
		return m, nil
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < m.rowCount()-1 {
			m.selected++
		}
		return m, nil
	case "c", " ":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m, m.toggleCmd(t, m.snap.today)
	case "x":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m, m.deleteCmd(t, m.snap.today)
	}
	return m, nil
}

func (m boardModel) selectedTask() (engine.Task, bool) {
	if m.panel != panelTasks || m.snap == nil {
		return engine.Task{}, false
	}
	if m.selected < 0 || m.selected >= len(m.snap.tasks) {
		return engine.Task{}, false
	}
	return m.snap.tasks[m.selected], true
}

func (m boardModel) rowCount() int {
	if m.snap == nil {
		return 0
	}
	switch m.panel {
	case panelAchievements:
		return len(m.snap.achievements)
	case panelLeaderboard:
		return len(m.snap.ranked)
	default:
		return len(m.snap.tasks)
	}
}

func (m *boardModel) clampSelection() {
	if n := m.rowCount(); m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := len(linesLeft)
	if len(linesRight) > rows {
		rows = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.snap == nil {
		return "Habitquest | loading…"
	}
	p := m.snap.progress
	bar := ui.ProgressBar(p.LevelProgress, engine.XPPerLevel, 30)
	return fmt.Sprintf("Habitquest | %s | Level %d | XP %d %s | %s",
		m.svc.DisplayName(), p.Level, p.TotalXP, bar, ui.StreakText(p.DisplayStreak, p.StreakCap))
}

func (m boardModel) renderSidebar() string {
	if m.snap == nil {
		return "Points\n\nLoading…"
	}
	lines := []string{"Points"}
	cats := m.snap.progress.Categories
	names := make([]string, 0, len(cats))
	for name := range cats {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		lines = append(lines, "(none yet)")
	}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("- %s %s %d", ui.CategoryIcon(name), name, cats[name]))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- tab: switch panel")
	lines = append(lines, "- c/space: toggle task")
	lines = append(lines, "- x: delete task")
	lines = append(lines, "- r: reload")
	lines = append(lines, "- L: refresh leaderboard")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading || m.snap == nil {
		return "Loading…"
	}
	var tabs []string
	for p := panel(0); p < panelCount; p++ {
		if p == m.panel {
			tabs = append(tabs, "["+p.String()+"]")
		} else {
			tabs = append(tabs, " "+p.String()+" ")
		}
	}
	out := []string{strings.Join(tabs, " "), ""}

	switch m.panel {
	case panelAchievements:
		earned := engine.CountEarned(m.snap.achievements)
		out = append(out, fmt.Sprintf("%d/%d earned", earned, len(m.snap.achievements)))
		for i, a := range m.snap.achievements {
			out = append(out, m.cursor(i)+ui.AchievementLine(a.Icon, a.Title, a.Description, a.Earned))
		}
	case panelLeaderboard:
		if len(m.snap.ranked) == 0 {
			out = append(out, "(empty)")
		}
		for i, e := range m.snap.ranked {
			name := e.Name
			if name == m.svc.DisplayName() {
				name += " (you)"
			}
			out = append(out, fmt.Sprintf("%s%2d. %-16s %5d XP", m.cursor(i), i+1, name, e.XP))
		}
	default:
		out = append(out, fmt.Sprintf("Tasks for %s", m.snap.today))
		if len(m.snap.tasks) == 0 {
			out = append(out, "(no tasks today; add one with `hq add`)")
		}
		for i, t := range m.snap.tasks {
			out = append(out, fmt.Sprintf("%s%s %s", m.cursor(i), ui.CheckBox(t.Completed), t.Title))
		}
	}
	return strings.Join(out, "\n")
}

func (m boardModel) cursor(i int) string {
	if i == m.selected {
		return "> "
	}
	return "  "
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
