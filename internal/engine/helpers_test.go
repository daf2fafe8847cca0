package engine

// seqSource replays a fixed sequence of draws, repeating the last one.
type seqSource struct {
	vals []float64
	i    int
}

func newSeqSource(vals ...float64) *seqSource {
	return &seqSource{vals: vals}
}

func (s *seqSource) Float64() float64 {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i]
	if s.i < len(s.vals)-1 {
		s.i++
	}
	return v
}
