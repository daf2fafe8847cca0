package engine

import (
	"math"
)

// Segment is one weighted slice of the reward wheel.
type Segment struct {
	Label  string  `json:"label"`
	Reward int     `json:"reward"`
	Weight float64 `json:"weight"`
}

// RandomSource yields uniform values in [0, 1).
// *math/rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Wheel selects segments with probability proportional to their weight.
type Wheel struct {
	segments []Segment
	bounds   []float64 // cumulative upper bound of each segment
	total    float64
}

// SpinResult is the outcome of one spin. Rotation is derived from Index.
type SpinResult struct {
	Index    int     `json:"index"`
	Segment  Segment `json:"segment"`
	Rotation float64 `json:"rotation"`
}

func NewWheel(segments []Segment) (*Wheel, error) {
	if len(segments) == 0 {
		return nil, &InvalidWeightError{Index: -1, Reason: "no segments"}
	}
	w := &Wheel{
		segments: make([]Segment, len(segments)),
		bounds:   make([]float64, len(segments)),
	}
	copy(w.segments, segments)

	for i, s := range segments {
		if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) || s.Weight <= 0 {
			return nil, &InvalidWeightError{Index: i, Reason: "weight must be a positive number"}
		}
		if s.Reward < 0 {
			return nil, &InvalidWeightError{Index: i, Reason: "reward must not be negative"}
		}
		w.total += s.Weight
		w.bounds[i] = w.total
	}
	if math.IsInf(w.total, 0) {
		return nil, &InvalidWeightError{Index: -1, Reason: "total weight overflows"}
	}
	return w, nil
}

// DefaultSegments is the built-in wheel.
func DefaultSegments() []Segment {
	return []Segment{
		{Label: "+5 XP", Reward: 5, Weight: 30},
		{Label: "+10 XP", Reward: 10, Weight: 30},
		{Label: "+25 XP", Reward: 25, Weight: 20},
		{Label: "+50 XP", Reward: 50, Weight: 15},
		{Label: "Jackpot +100 XP", Reward: 100, Weight: 5},
	}
}

func (w *Wheel) Segments() []Segment {
	out := make([]Segment, len(w.segments))
	copy(out, w.segments)
	return out
}

func (w *Wheel) TotalWeight() float64 { return w.total }

// Select returns the index of the first segment whose cumulative upper bound
// exceeds r. r is clamped into [0, total).
func (w *Wheel) Select(r float64) int {
	if r < 0 || math.IsNaN(r) {
		r = 0
	}
	for i, b := range w.bounds {
		if b > r {
			return i
		}
	}
	return len(w.bounds) - 1
}

// Spin draws r uniformly from [0, total) and selects a segment. extraTurns
// full rotations are added to the visual rotation.
func (w *Wheel) Spin(src RandomSource, extraTurns int) SpinResult {
	r := src.Float64() * w.total
	i := w.Select(r)
	return SpinResult{
		Index:    i,
		Segment:  w.segments[i],
		Rotation: w.Rotation(i, extraTurns),
	}
}

// segmentArc returns the start and end angle of segment i in degrees.
// Segments are laid out clockwise from 0° with arcs proportional to weight.
func (w *Wheel) segmentArc(i int) (float64, float64) {
	lo := 0.0
	if i > 0 {
		lo = w.bounds[i-1]
	}
	return lo / w.total * 360, w.bounds[i] / w.total * 360
}

// Rotation returns the clockwise rotation in degrees that brings the
// midpoint of segment i under the pointer at 0°.
func (w *Wheel) Rotation(i int, extraTurns int) float64 {
	if extraTurns < 0 {
		extraTurns = 0
	}
	start, end := w.segmentArc(i)
	mid := (start + end) / 2
	return float64(extraTurns)*360 + math.Mod(360-mid, 360)
}

// SegmentAtAngle returns the segment under the pointer after rotating the
// wheel clockwise by rotation degrees.
func (w *Wheel) SegmentAtAngle(rotation float64) int {
	a := math.Mod(360-math.Mod(rotation, 360), 360)
	return w.Select(a / 360 * w.total)
}
