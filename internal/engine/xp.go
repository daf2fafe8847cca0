package engine

const (
	// XPPerLevel is the flat amount of XP between two levels.
	XPPerLevel = 100

	// TaskCompletionXP is credited on every false→true completion toggle.
	TaskCompletionXP = 10

	// QuizCorrectXP is credited for each correct quiz answer.
	QuizCorrectXP = 10

	// DefaultStreakCap is the maximum streak shown to the user.
	DefaultStreakCap = 14
)

// Built-in categories written by the engine itself.
const (
	CategoryTasks = "tasks"
	CategoryQuiz  = "quiz"
	CategoryWheel = "wheel"
)

// LevelForTotalXP returns the 1-based level for the given total XP.
// Negative totals are treated as zero.
func LevelForTotalXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

// LevelProgress returns how far into the current level totalXP is (0..99).
func LevelProgress(totalXP int) int {
	if totalXP < 0 {
		return 0
	}
	return totalXP % XPPerLevel
}

// XPRequiredForLevel returns the total XP threshold required to be at the given level.
// Level 1 requires 0 XP.
func XPRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * XPPerLevel
}
