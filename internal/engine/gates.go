package engine

// CanSpin reports whether the reward wheel may fire for session: at most once
// per round, and at most once per calendar day.
func CanSpin(s QuizSession) bool {
	return !s.WheelShownThisRound && !s.WheelShownToday
}

// CheckSpin is CanSpin as an error, for callers that surface the reason.
func CheckSpin(s QuizSession) error {
	switch {
	case s.WheelShownToday:
		return GateError{Feature: "reward wheel", Reason: "already spun today"}
	case s.WheelShownThisRound:
		return GateError{Feature: "reward wheel", Reason: "already spun this round"}
	}
	return nil
}
