package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Options configures a Service. Zero values fall back to the defaults.
type Options struct {
	UserID          string
	DisplayName     string
	StreakCap       int
	WheelExtraTurns int
	Segments        []Segment
	Questions       []Question
	Feed            Feed
	Logger          *log.Logger
	Rand            RandomSource
	Now             func() time.Time
}

// Service owns one user's ledger, tasks and leaderboard and saves them to a
// Store. Every mutation is serialized through mu.
type Service struct {
	mu     sync.Mutex
	store  Store
	logger *log.Logger

	userID      string
	displayName string
	extraTurns  int
	questions   []Question
	feed        Feed
	rnd         RandomSource
	now         func() time.Time

	ledger  *Ledger
	tasks   *TaskStore
	streak  StreakTracker
	board   *Leaderboard
	wheel   *Wheel
	quizzes map[string]*openQuiz
	// spunOn is the last day the wheel fired for this user.
	spunOn DateKey

	// generation is bumped by every applied mutation; Reload uses it to
	// drop results that raced with a newer change.
	generation uint64

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
}

func NewService(store Store, opts Options) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if opts.UserID == "" {
		return nil, errors.New("user id is required")
	}
	segments := opts.Segments
	if len(segments) == 0 {
		segments = DefaultSegments()
	}
	wheel, err := NewWheel(segments)
	if err != nil {
		return nil, err
	}
	questions := opts.Questions
	if len(questions) == 0 {
		questions = DefaultQuestions()
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd, err = NewRandomSource()
		if err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	name := opts.DisplayName
	if name == "" {
		name = opts.UserID
	}
	extra := opts.WheelExtraTurns
	if extra < 0 {
		extra = 0
	}

	ledger := NewLedger(opts.StreakCap)
	return &Service{
		store:       store,
		logger:      logger.With("user", opts.UserID),
		userID:      opts.UserID,
		displayName: name,
		extraTurns:  extra,
		questions:   questions,
		feed:        opts.Feed,
		rnd:         rnd,
		now:         now,
		ledger:      ledger,
		tasks:       NewTaskStore(ledger),
		board:       NewLeaderboard(),
		wheel:       wheel,
		quizzes:     map[string]*openQuiz{},
	}, nil
}

// Open builds a Service and loads the user's saved state.
func Open(ctx context.Context, store Store, opts Options) (*Service, error) {
	s, err := NewService(store, opts)
	if err != nil {
		return nil, err
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) UserID() string      { return s.userID }
func (s *Service) DisplayName() string { return s.displayName }

// Today is the current date-key in local time.
func (s *Service) Today() DateKey {
	return DateKeyFor(s.now())
}

// persisted is everything Load reads back from the store.
type persisted struct {
	points     map[string]int
	streak     int
	streakLast DateKey
	tasks      map[DateKey][]Task
}

func (s *Service) readState(ctx context.Context) (*persisted, error) {
	all, err := s.store.ListAll(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	p := &persisted{points: map[string]int{}, tasks: map[DateKey][]Task{}}
	for key, value := range all {
		switch {
		case key == keyLedgerCategories:
			if err := json.Unmarshal([]byte(value), &p.points); err != nil {
				return nil, fmt.Errorf("load %s: %w", key, err)
			}
		case key == keyLedgerStreak:
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", key, err)
			}
			p.streak = n
		case key == keyStreakLast:
			p.streakLast = DateKey(value)
		default:
			d, ok := dateFromTasksKey(key)
			if !ok {
				continue
			}
			var list []Task
			if err := json.Unmarshal([]byte(value), &list); err != nil {
				return nil, fmt.Errorf("load %s: %w", key, err)
			}
			p.tasks[d] = list
		}
	}
	return p, nil
}

func (s *Service) applyState(p *persisted) {
	s.ledger.restore(p.points, p.streak)
	s.streak = StreakTracker{Last: p.streakLast}
	s.tasks = NewTaskStore(s.ledger)
	for d, list := range p.tasks {
		s.tasks.restore(d, list)
	}
	s.board.UpsertSelf(s.displayName, s.totalXPLocked())
	s.generation++
}

// Load reads the saved state and replaces the in-memory state with it.
func (s *Service) Load(ctx context.Context) error {
	p, err := s.readState(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.applyState(p)
	s.mu.Unlock()
	return nil
}

// Reload is Load for callers that read in the background. If any mutation
// was applied while the store was being read, the result is discarded and
// ErrStaleWriteIgnored is returned.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	p, err := s.readState(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		s.logger.Debug("discarded stale reload", "generation", gen)
		return ErrStaleWriteIgnored
	}
	s.applyState(p)
	ev := s.eventLocked(EventReloaded)
	s.mu.Unlock()

	s.publish([]Event{ev})
	return nil
}

func (s *Service) ledgerValue() (string, error) {
	data, err := json.Marshal(s.ledger.Categories())
	if err != nil {
		return "", fmt.Errorf("encode ledger: %w", err)
	}
	return string(data), nil
}

func (s *Service) tasksValue(d DateKey) (string, error) {
	data, err := json.Marshal(s.tasks.Tasks(d))
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

// setMany writes values in one batch when the store supports it.
func (s *Service) setMany(ctx context.Context, values map[string]string) error {
	if b, ok := s.store.(batchSetter); ok {
		return b.SetMany(ctx, s.userID, values)
	}
	for k, v := range values {
		if err := s.store.Set(ctx, s.userID, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) saveLedger(ctx context.Context) error {
	v, err := s.ledgerValue()
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.userID, keyLedgerCategories, v); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (s *Service) saveStreak(ctx context.Context) error {
	values := map[string]string{keyLedgerStreak: strconv.Itoa(s.ledger.Streak())}
	if s.streak.Last != "" {
		values[keyStreakLast] = string(s.streak.Last)
	}
	if err := s.setMany(ctx, values); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

func (s *Service) saveTasks(ctx context.Context, d DateKey, withLedger bool) error {
	tv, err := s.tasksValue(d)
	if err != nil {
		return err
	}
	values := map[string]string{tasksKey(d): tv}
	if withLedger {
		lv, err := s.ledgerValue()
		if err != nil {
			return err
		}
		values[keyLedgerCategories] = lv
	}
	if err := s.setMany(ctx, values); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Service) totalXPLocked() int {
	return s.ledger.TotalXP(s.tasks.CompletedCount())
}

func (s *Service) eventLocked(kind EventKind) Event {
	total := s.totalXPLocked()
	return Event{Kind: kind, UserID: s.userID, TotalXP: total, Level: LevelForTotalXP(total)}
}

// xpChangedLocked keeps the leaderboard in sync and returns the events to publish.
func (s *Service) xpChangedLocked(kinds ...EventKind) []Event {
	s.generation++
	if s.board.UpsertSelf(s.displayName, s.totalXPLocked()) {
		kinds = append(kinds, EventLeaderboard)
	}
	events := make([]Event, 0, len(kinds))
	for _, k := range kinds {
		events = append(events, s.eventLocked(k))
	}
	return events
}

// Progress is the dashboard summary.
type Progress struct {
	UserID         string         `json:"userId"`
	TotalXP        int            `json:"totalXp"`
	Level          int            `json:"level"`
	LevelProgress  int            `json:"levelProgress"`
	Streak         int            `json:"streak"`
	DisplayStreak  int            `json:"displayStreak"`
	StreakCap      int            `json:"streakCap"`
	Categories     map[string]int `json:"categories"`
	CompletedTasks int            `json:"completedTasks"`
}

func (s *Service) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	completed := s.tasks.CompletedCount()
	total := s.ledger.TotalXP(completed)
	return Progress{
		UserID:         s.userID,
		TotalXP:        total,
		Level:          LevelForTotalXP(total),
		LevelProgress:  LevelProgress(total),
		Streak:         s.ledger.Streak(),
		DisplayStreak:  s.ledger.DisplayStreak(),
		StreakCap:      s.ledger.StreakCap(),
		Categories:     s.ledger.Categories(),
		CompletedTasks: completed,
	}
}

func (s *Service) TotalXP() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalXPLocked()
}

func (s *Service) Level() int {
	return LevelForTotalXP(s.TotalXP())
}

func (s *Service) Streak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Streak()
}

// AddPoints credits delta XP to a habit category.
func (s *Service) AddPoints(ctx context.Context, category string, delta int) error {
	s.mu.Lock()
	if err := s.ledger.AddPoints(category, delta); err != nil {
		s.mu.Unlock()
		return err
	}
	err := s.saveLedger(ctx)
	events := s.xpChangedLocked(EventXP)
	s.mu.Unlock()

	s.publish(events)
	return err
}

// RecordDay feeds a qualifying-day verdict into the streak.
func (s *Service) RecordDay(ctx context.Context, day DateKey, qualified bool) (StreakUpdate, error) {
	s.mu.Lock()
	res, err := s.streak.RecordDay(s.ledger, day, qualified)
	if err != nil {
		s.mu.Unlock()
		return StreakUpdate{}, err
	}
	err = s.saveStreak(ctx)
	s.generation++
	events := []Event{s.eventLocked(EventStreak)}
	s.mu.Unlock()

	if res.Reset {
		s.logger.Info("streak reset", "day", day, "was", res.Before)
	}
	s.publish(events)
	return res, err
}

// SetStreak overrides the streak counter.
func (s *Service) SetStreak(ctx context.Context, n int) error {
	s.mu.Lock()
	if err := s.ledger.SetStreak(n); err != nil {
		s.mu.Unlock()
		return err
	}
	err := s.saveStreak(ctx)
	s.generation++
	events := []Event{s.eventLocked(EventStreak)}
	s.mu.Unlock()

	s.publish(events)
	return err
}

// ResetPoints clears every category total.
func (s *Service) ResetPoints(ctx context.Context) error {
	s.mu.Lock()
	s.ledger.Reset()
	err := s.saveLedger(ctx)
	events := s.xpChangedLocked(EventXP)
	s.mu.Unlock()

	s.publish(events)
	return err
}

func (s *Service) Tasks(d DateKey) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Tasks(d)
}

func (s *Service) Dates() []DateKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Dates()
}

// FindTask looks a task up by id on any date.
func (s *Service) FindTask(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Find(id)
}

func (s *Service) AddTask(ctx context.Context, d DateKey, title string) (Task, error) {
	s.mu.Lock()
	task, err := s.tasks.AddTask(d, title)
	if err != nil {
		s.mu.Unlock()
		return Task{}, err
	}
	err = s.saveTasks(ctx, d, false)
	s.generation++
	events := []Event{s.eventLocked(EventTasks)}
	s.mu.Unlock()

	s.publish(events)
	return task, err
}

func (s *Service) ToggleCompletion(ctx context.Context, d DateKey, id string, completed bool) (ToggleResult, error) {
	s.mu.Lock()
	res, err := s.tasks.ToggleCompletion(d, id, completed)
	if err != nil || !res.Changed {
		s.mu.Unlock()
		return res, err
	}
	err = s.saveTasks(ctx, d, res.XPAwarded > 0)
	events := s.xpChangedLocked(EventTasks, EventXP)
	s.mu.Unlock()

	s.publish(events)
	return res, err
}

func (s *Service) UpdateTask(ctx context.Context, d DateKey, id string, patch TaskPatch) (Task, error) {
	s.mu.Lock()
	task, err := s.tasks.UpdateTask(d, id, patch)
	if err != nil {
		s.mu.Unlock()
		return Task{}, err
	}
	err = s.saveTasks(ctx, d, false)
	s.generation++
	events := []Event{s.eventLocked(EventTasks)}
	s.mu.Unlock()

	s.publish(events)
	return task, err
}

func (s *Service) DeleteTask(ctx context.Context, d DateKey, id string) error {
	s.mu.Lock()
	if err := s.tasks.DeleteTask(d, id); err != nil {
		s.mu.Unlock()
		return err
	}
	err := s.saveTasks(ctx, d, false)
	events := s.xpChangedLocked(EventTasks, EventXP)
	s.mu.Unlock()

	s.publish(events)
	return err
}

// Achievements evaluates the catalogue against the current state.
func (s *Service) Achievements() []Achievement {
	s.mu.Lock()
	snap := NewSnapshot(s.ledger, s.tasks)
	s.mu.Unlock()
	return Evaluate(snap)
}

func (s *Service) Ranked() []LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Ranked()
}

// RefreshLeaderboard fetches the feed without holding the lock. Feed errors
// are logged and treated as an empty feed.
func (s *Service) RefreshLeaderboard(ctx context.Context) error {
	s.mu.Lock()
	token := s.board.BeginRefresh()
	s.mu.Unlock()

	var entries []LeaderboardEntry
	if s.feed != nil {
		fetched, err := s.feed.Fetch(ctx)
		if err != nil {
			s.logger.Warn("leaderboard feed failed", "err", err)
		} else {
			entries = fetched
		}
	}

	s.mu.Lock()
	err := s.board.ApplyFeed(token, entries)
	s.board.UpsertSelf(s.displayName, s.totalXPLocked())
	ev := s.eventLocked(EventLeaderboard)
	s.mu.Unlock()

	if errors.Is(err, ErrStaleWriteIgnored) {
		s.logger.Debug("leaderboard feed arrived after a newer change; merged")
	}
	s.publish([]Event{ev})
	return nil
}

// Wheel returns the wheel the service spins.
func (s *Service) Wheel() *Wheel { return s.wheel }

// QuizView is a snapshot of a quiz for the presentation layer.
type QuizView struct {
	ID       string      `json:"id"`
	State    QuizState   `json:"state"`
	Round    int         `json:"round"`
	Rounds   int         `json:"rounds"`
	Question *Question   `json:"question,omitempty"`
	Session  QuizSession `json:"session"`
	CanSpin  bool        `json:"canSpin"`
}

func viewQuiz(id string, q *Quiz) QuizView {
	v := QuizView{
		ID:      id,
		State:   q.State(),
		Session: q.Session(),
		Rounds:  QuizRounds,
	}
	v.Round = v.Session.Round
	if cur, err := q.Current(); err == nil {
		v.Question = &cur
	}
	v.CanSpin = v.State == QuizSpinEligible && CanSpin(v.Session)
	return v
}

func (s *Service) wheelShownToday(ctx context.Context) (bool, error) {
	_, ok, err := s.store.Get(ctx, s.userID, wheelShownKey(s.Today()))
	if err != nil {
		return false, fmt.Errorf("read wheel flag: %w", err)
	}
	return ok, nil
}

// Open quiz sessions are dropped after quizIdleTimeout without a call, and
// the oldest is evicted once maxOpenQuizzes are open.
const (
	maxOpenQuizzes  = 32
	quizIdleTimeout = 2 * time.Hour
)

type openQuiz struct {
	quiz     *Quiz
	lastUsed time.Time
}

func (s *Service) quizLocked(id string) (*Quiz, error) {
	oq, ok := s.quizzes[id]
	if !ok || s.now().Sub(oq.lastUsed) > quizIdleTimeout {
		delete(s.quizzes, id)
		return nil, &NotFoundError{Kind: "quiz", ID: id}
	}
	oq.lastUsed = s.now()
	return oq.quiz, nil
}

// pruneQuizzesLocked drops idle sessions and makes room for one more.
func (s *Service) pruneQuizzesLocked() {
	now := s.now()
	oldestID := ""
	var oldest time.Time
	for id, oq := range s.quizzes {
		if now.Sub(oq.lastUsed) > quizIdleTimeout {
			delete(s.quizzes, id)
			continue
		}
		if oldestID == "" || oq.lastUsed.Before(oldest) {
			oldestID, oldest = id, oq.lastUsed
		}
	}
	if len(s.quizzes) >= maxOpenQuizzes {
		delete(s.quizzes, oldestID)
		s.logger.Debug("evicted quiz session", "quiz", oldestID)
	}
}

// OpenQuizzes is the number of live quiz sessions.
func (s *Service) OpenQuizzes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quizzes)
}

// StartQuiz opens a new playthrough.
func (s *Service) StartQuiz(ctx context.Context) (QuizView, error) {
	shown, err := s.wheelShownToday(ctx)
	if err != nil {
		return QuizView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spunOn == s.Today() {
		shown = true
	}
	q, err := NewQuiz(s.ledger, s.questions, s.rnd, shown)
	if err != nil {
		return QuizView{}, err
	}
	s.pruneQuizzesLocked()
	id := uuid.NewString()
	s.quizzes[id] = &openQuiz{quiz: q, lastUsed: s.now()}
	return viewQuiz(id, q), nil
}

func (s *Service) Quiz(id string) (QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, err := s.quizLocked(id)
	if err != nil {
		return QuizView{}, err
	}
	return viewQuiz(id, q), nil
}

// SubmitAnswer scores the current question and credits the quiz category.
func (s *Service) SubmitAnswer(ctx context.Context, id string, choice int) (AnswerResult, QuizView, error) {
	s.mu.Lock()
	q, err := s.quizLocked(id)
	if err != nil {
		s.mu.Unlock()
		return AnswerResult{}, QuizView{}, err
	}
	res, err := q.SubmitAnswer(choice)
	if err != nil {
		s.mu.Unlock()
		return AnswerResult{}, QuizView{}, err
	}
	var events []Event
	if res.XPAwarded > 0 {
		err = s.saveLedger(ctx)
		events = s.xpChangedLocked(EventXP)
	}
	view := viewQuiz(id, q)
	s.mu.Unlock()

	s.publish(events)
	return res, view, err
}

// Spin fires the reward wheel for the quiz's current round, if the gate
// allows it, and credits the reward to the wheel category. The daily flag is
// checked and set under the lock, and saved before memory changes, so a failed
// save leaves the spin available.
func (s *Service) Spin(ctx context.Context, id string) (SpinResult, error) {
	s.mu.Lock()
	res, events, err := s.spinLocked(ctx, id)
	s.mu.Unlock()

	if err != nil {
		return SpinResult{}, err
	}
	s.logger.Info("wheel spun", "segment", res.Segment.Label, "reward", res.Segment.Reward)
	s.publish(events)
	return res, nil
}

func (s *Service) spinLocked(ctx context.Context, id string) (SpinResult, []Event, error) {
	q, err := s.quizLocked(id)
	if err != nil {
		return SpinResult{}, nil, err
	}

	today := s.Today()
	if s.spunOn != today {
		// Another process sharing the store may have spun today.
		shown, err := s.wheelShownToday(ctx)
		if err != nil {
			return SpinResult{}, nil, err
		}
		if shown {
			s.spunOn = today
		}
	}
	if s.spunOn == today {
		q.markShownToday()
	}
	if err := q.checkSpin(); err != nil {
		return SpinResult{}, nil, err
	}

	res := s.wheel.Spin(s.rnd, s.extraTurns)
	reward := res.Segment.Reward
	kinds := []EventKind{EventWheel}
	values := map[string]string{wheelShownKey(today): "1"}
	if reward > 0 {
		points := s.ledger.Categories()
		points[CategoryWheel] += reward
		data, err := json.Marshal(points)
		if err != nil {
			return SpinResult{}, nil, fmt.Errorf("encode ledger: %w", err)
		}
		values[keyLedgerCategories] = string(data)
		kinds = append(kinds, EventXP)
	}
	if err := s.setMany(ctx, values); err != nil {
		return SpinResult{}, nil, fmt.Errorf("save spin: %w", err)
	}

	s.spunOn = today
	if err := q.MarkSpun(); err != nil {
		return SpinResult{}, nil, err
	}
	if reward > 0 {
		if err := s.ledger.AddPoints(CategoryWheel, reward); err != nil {
			return SpinResult{}, nil, err
		}
	}
	return res, s.xpChangedLocked(kinds...), nil
}

// NextRound continues past SpinEligible, spun or not.
func (s *Service) NextRound(id string) (QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, err := s.quizLocked(id)
	if err != nil {
		return QuizView{}, err
	}
	if err := q.Advance(); err != nil {
		return QuizView{}, err
	}
	view := viewQuiz(id, q)
	if q.Done() {
		delete(s.quizzes, id)
	}
	return view, nil
}

// AbandonQuiz drops a session. XP already credited is kept.
func (s *Service) AbandonQuiz(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, err := s.quizLocked(id)
	if err != nil {
		return err
	}
	q.Abandon()
	delete(s.quizzes, id)
	return nil
}
