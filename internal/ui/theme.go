package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Habitquest theme (CLI + TUI).
// Reusable styles and a few emojis.

const (
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTodo    = "⬜"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconFire    = "🔥"
	IconWheel   = "🎡"
	IconQuiz    = "❓"
	IconLock    = "🔒"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconTrash   = "🗑️"
	IconUndo    = "↩️"
	IconPencil  = "✏️"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func CheckBox(done bool) string {
	if done {
		return IconDone
	}
	return IconTodo
}

// AchievementLine renders an achievement, dimmed while locked.
func AchievementLine(icon, title, description string, earned bool) string {
	if earned {
		return fmt.Sprintf("%s %s %s", icon, Gold.Render(title), Muted.Render(description))
	}
	return Muted.Render(fmt.Sprintf("%s %s %s", IconLock, title, description))
}

// CategoryIcon picks an emoji for a habit category.
func CategoryIcon(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "fitness":
		return "💪"
	case "mindfulness":
		return "🧘"
	case "reading":
		return "📚"
	case "addiction-recovery":
		return "🌱"
	case "tasks":
		return IconDone
	case "quiz":
		return IconQuiz
	case "wheel":
		return IconWheel
	default:
		return IconBolt
	}
}

// ProgressBar draws value/total as a fixed-width bar.
func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := int(float64(value) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// StreakText renders the capped streak with a marker when it is at the cap.
func StreakText(display, cap int) string {
	s := fmt.Sprintf("%s %d", IconFire, display)
	if cap > 0 && display >= cap {
		return Gold.Render(s + "+")
	}
	return s
}
