package engine

// Achievement represents a badge the player can earn.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Earned      bool   `json:"earned"`
}

// Snapshot is the read-only state achievements are derived from.
type Snapshot struct {
	Points         map[string]int
	Streak         int
	CompletedTasks int
	TotalXP        int
}

// NewSnapshot captures the ledger together with the task store's completion count.
func NewSnapshot(l *Ledger, tasks *TaskStore) Snapshot {
	completed := tasks.CompletedCount()
	return Snapshot{
		Points:         l.Categories(),
		Streak:         l.Streak(),
		CompletedTasks: completed,
		TotalXP:        l.TotalXP(completed),
	}
}

// AchievementDef is one rule of the catalogue.
type AchievementDef struct {
	ID          string
	Title       string
	Description string
	Icon        string

	Condition func(s Snapshot) bool
}

func builtinAchievements() []AchievementDef {
	return []AchievementDef{
		{
			ID:          "first_week",
			Title:       "First Week Streak",
			Description: "Keep a 7-day streak",
			Icon:        "🔥",
			Condition:   func(s Snapshot) bool { return s.Streak >= 7 },
		},
		{
			ID:          "centurion",
			Title:       "XP Milestone",
			Description: "Earn 100 XP",
			Icon:        "💯",
			Condition:   func(s Snapshot) bool { return s.TotalXP >= 100 },
		},
		{
			ID:          "consistency",
			Title:       "Consistency",
			Description: "Earn points in 3 different categories",
			Icon:        "🧩",
			Condition:   func(s Snapshot) bool { return nonZeroCategories(s.Points) >= 3 },
		},
		{
			ID:          "first_task",
			Title:       "First Check-off",
			Description: "Complete a task",
			Icon:        "✓",
			Condition:   func(s Snapshot) bool { return s.CompletedTasks >= 1 },
		},
		{
			ID:          "quiz_whiz",
			Title:       "Quiz Whiz",
			Description: "Earn 30 XP from quizzes",
			Icon:        "🧠",
			Condition:   func(s Snapshot) bool { return s.Points[CategoryQuiz] >= 30 },
		},
		{
			ID:          "lucky_spin",
			Title:       "Lucky Spin",
			Description: "Win XP on the reward wheel",
			Icon:        "🎡",
			Condition:   func(s Snapshot) bool { return s.Points[CategoryWheel] > 0 },
		},
		{
			ID:          "level_five",
			Title:       "Rising Star",
			Description: "Reach level 5",
			Icon:        "🌟",
			Condition:   func(s Snapshot) bool { return LevelForTotalXP(s.TotalXP) >= 5 },
		},
	}
}

func nonZeroCategories(points map[string]int) int {
	n := 0
	for _, v := range points {
		if v > 0 {
			n++
		}
	}
	return n
}

// Evaluate returns every achievement with its earned status.
// It has no side effects; calling it twice on the same snapshot gives the
// same answer.
func Evaluate(s Snapshot) []Achievement {
	defs := builtinAchievements()
	out := make([]Achievement, 0, len(defs))
	for _, def := range defs {
		out = append(out, Achievement{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Earned:      def.Condition(s),
		})
	}
	return out
}

// CountEarned returns how many achievements have been earned.
func CountEarned(list []Achievement) int {
	count := 0
	for _, a := range list {
		if a.Earned {
			count++
		}
	}
	return count
}
