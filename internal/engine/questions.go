package engine

// Question is a multiple-choice quiz question.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
	Answer  int      `json:"-"`
}

// Correct reports whether choice is the right answer.
func (q Question) Correct(choice int) bool {
	return choice == q.Answer
}

// DefaultQuestions is the built-in habit trivia pool.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID:      "habit-loop",
			Prompt:  "Which three parts make up the habit loop?",
			Choices: []string{"Cue, routine, reward", "Plan, do, check", "Wake, work, sleep", "Goal, grit, glory"},
			Answer:  0,
		},
		{
			ID:      "water",
			Prompt:  "Roughly how many glasses of water a day are commonly recommended?",
			Choices: []string{"2", "8", "15", "20"},
			Answer:  1,
		},
		{
			ID:      "sleep",
			Prompt:  "How many hours of sleep do most adults need per night?",
			Choices: []string{"4-5", "5-6", "7-9", "10-12"},
			Answer:  2,
		},
		{
			ID:      "steps",
			Prompt:  "What daily step count is a popular activity target?",
			Choices: []string{"1,000", "3,000", "10,000", "50,000"},
			Answer:  2,
		},
		{
			ID:      "two-minute",
			Prompt:  "The \"two-minute rule\" suggests a new habit should start by taking…",
			Choices: []string{"Two hours", "Less than two minutes", "Two days", "Two weeks"},
			Answer:  1,
		},
		{
			ID:      "stacking",
			Prompt:  "Attaching a new habit to an existing one is called…",
			Choices: []string{"Habit stacking", "Habit swapping", "Habit fasting", "Habit cycling"},
			Answer:  0,
		},
		{
			ID:      "exercise-week",
			Prompt:  "How many minutes of moderate exercise per week do health guidelines suggest?",
			Choices: []string{"30", "60", "150", "600"},
			Answer:  2,
		},
		{
			ID:      "relapse",
			Prompt:  "In recovery, a single slip is best treated as…",
			Choices: []string{"Proof of failure", "A reason to quit", "Something to learn from", "Irrelevant"},
			Answer:  2,
		},
	}
}
