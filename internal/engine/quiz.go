package engine

import "fmt"

// QuizRounds is the number of rounds in one playthrough.
const QuizRounds = 3

type QuizState string

const (
	QuizAwaitingAnswer  QuizState = "awaiting_answer"
	QuizRoundComplete   QuizState = "round_complete"
	QuizSpinEligible    QuizState = "spin_eligible"
	QuizSessionComplete QuizState = "session_complete"
	QuizAbandoned       QuizState = "abandoned"
)

// QuizSession is the transient state of one playthrough. Only
// WheelShownToday outlives it (persisted per user per day).
type QuizSession struct {
	Round               int             `json:"round"`
	AskedThisRound      map[string]bool `json:"askedThisRound"`
	Correct             int             `json:"correct"`
	WheelShownThisRound bool            `json:"wheelShownThisRound"`
	WheelShownToday     bool            `json:"wheelShownToday"`
}

// AnswerResult is the outcome of SubmitAnswer.
type AnswerResult struct {
	Round     int  `json:"round"`
	Correct   bool `json:"correct"`
	Answer    int  `json:"answer"`
	XPAwarded int  `json:"xpAwarded"`
}

// Quiz runs the round state machine. Correct answers are credited to the
// ledger as soon as they are submitted, so abandoning keeps earned XP.
type Quiz struct {
	state   QuizState
	session QuizSession
	pool    []Question
	asked   map[string]bool
	current Question
	ledger  *Ledger
	src     RandomSource
}

func NewQuiz(ledger *Ledger, pool []Question, src RandomSource, wheelShownToday bool) (*Quiz, error) {
	if len(pool) < QuizRounds {
		return nil, fmt.Errorf("quiz needs at least %d questions, got %d", QuizRounds, len(pool))
	}
	seen := map[string]bool{}
	for _, q := range pool {
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		if q.Answer < 0 || q.Answer >= len(q.Choices) {
			return nil, fmt.Errorf("question %q: answer out of range", q.ID)
		}
		seen[q.ID] = true
	}

	q := &Quiz{
		session: QuizSession{WheelShownToday: wheelShownToday},
		pool:    pool,
		asked:   map[string]bool{},
		ledger:  ledger,
		src:     src,
	}
	q.startRound(0)
	return q, nil
}

func (q *Quiz) State() QuizState { return q.state }

// Session returns a copy of the session flags.
func (q *Quiz) Session() QuizSession {
	s := q.session
	s.AskedThisRound = make(map[string]bool, len(q.session.AskedThisRound))
	for k, v := range q.session.AskedThisRound {
		s.AskedThisRound[k] = v
	}
	return s
}

func (q *Quiz) Current() (Question, error) {
	if q.state != QuizAwaitingAnswer {
		return Question{}, &StateError{Action: "show a question", State: q.state}
	}
	return q.current, nil
}

// startRound resets the per-round flags and draws a question nobody has seen
// in this session.
func (q *Quiz) startRound(round int) {
	q.session.Round = round
	q.session.AskedThisRound = map[string]bool{}
	q.session.WheelShownThisRound = false

	var remaining []Question
	for _, p := range q.pool {
		if !q.asked[p.ID] {
			remaining = append(remaining, p)
		}
	}
	i := int(q.src.Float64() * float64(len(remaining)))
	if i >= len(remaining) {
		i = len(remaining) - 1
	}
	q.current = remaining[i]
	q.asked[q.current.ID] = true
	q.session.AskedThisRound[q.current.ID] = true
	q.state = QuizAwaitingAnswer
}

// SubmitAnswer scores the current question. The quiz then moves through
// RoundComplete to SpinEligible regardless of the answer, so callers only
// ever observe SpinEligible; whether the wheel actually fires is up to CanSpin.
func (q *Quiz) SubmitAnswer(choice int) (AnswerResult, error) {
	if q.state != QuizAwaitingAnswer {
		return AnswerResult{}, &StateError{Action: "answer", State: q.state}
	}
	if choice < 0 || choice >= len(q.current.Choices) {
		return AnswerResult{}, &ValidationError{Field: "choice", Reason: fmt.Sprintf("%d out of range (0-%d)", choice, len(q.current.Choices)-1)}
	}

	res := AnswerResult{Round: q.session.Round, Answer: q.current.Answer}
	if q.current.Correct(choice) {
		if err := q.ledger.AddPoints(CategoryQuiz, QuizCorrectXP); err != nil {
			return AnswerResult{}, err
		}
		q.session.Correct++
		res.Correct = true
		res.XPAwarded = QuizCorrectXP
	}
	q.state = QuizRoundComplete
	q.completeRound()
	return res, nil
}

// completeRound is the unconditional RoundComplete → SpinEligible step.
func (q *Quiz) completeRound() {
	if q.state == QuizRoundComplete {
		q.state = QuizSpinEligible
	}
}

// checkSpin reports whether MarkSpun would succeed, without changing anything.
func (q *Quiz) checkSpin() error {
	if q.state != QuizSpinEligible {
		return &StateError{Action: "spin", State: q.state}
	}
	return CheckSpin(q.session)
}

// MarkSpun records that the wheel fired in this round.
func (q *Quiz) MarkSpun() error {
	if err := q.checkSpin(); err != nil {
		return err
	}
	q.session.WheelShownThisRound = true
	q.session.WheelShownToday = true
	return nil
}

// Advance leaves SpinEligible, whether or not the wheel was spun, and starts
// the next round or completes the session after the last one.
func (q *Quiz) Advance() error {
	if q.state != QuizSpinEligible {
		return &StateError{Action: "advance", State: q.state}
	}
	if q.session.Round >= QuizRounds-1 {
		q.state = QuizSessionComplete
		return nil
	}
	q.startRound(q.session.Round + 1)
	return nil
}

// Abandon drops the session. XP already credited stays on the ledger.
func (q *Quiz) Abandon() {
	if q.state == QuizSessionComplete {
		return
	}
	q.state = QuizAbandoned
	q.current = Question{}
}

func (q *Quiz) Done() bool {
	return q.state == QuizSessionComplete || q.state == QuizAbandoned
}

// markShownToday is used when another session already spun today.
func (q *Quiz) markShownToday() {
	q.session.WheelShownToday = true
}
