package engine

// EventKind names what changed.
type EventKind string

const (
	EventXP          EventKind = "xp"
	EventTasks       EventKind = "tasks"
	EventStreak      EventKind = "streak"
	EventWheel       EventKind = "wheel"
	EventLeaderboard EventKind = "leaderboard"
	EventReloaded    EventKind = "reloaded"
)

// Event is published to subscribers after a mutation has been applied.
type Event struct {
	Kind    EventKind
	UserID  string
	TotalXP int
	Level   int
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for every event and returns a function that removes it.
// fn is called without the service lock held, so it may read from the service.
func (s *Service) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Service) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, ev := range events {
		for _, sub := range subs {
			sub.fn(ev)
		}
	}
}
