package engine

import (
	"errors"
	"math"
	"testing"
)

func equalSegments(labels ...string) []Segment {
	out := make([]Segment, len(labels))
	for i, l := range labels {
		out[i] = Segment{Label: l, Reward: i + 1, Weight: 1}
	}
	return out
}

func TestSelectUsesCumulativeBounds(t *testing.T) {
	w, err := NewWheel(equalSegments("A", "B", "C", "D"))
	if err != nil {
		t.Fatalf("NewWheel: %v", err)
	}
	res := w.Spin(newSeqSource(0.76), 0)
	if res.Segment.Label != "D" {
		t.Fatalf("0.76 selected %s, want D", res.Segment.Label)
	}

	cases := []struct {
		r    float64
		want int
	}{
		{0, 0}, {0.99, 0}, {1, 1}, {2.5, 2}, {3.99, 3}, {4, 3}, {-1, 0},
	}
	for _, c := range cases {
		if got := w.Select(c.r); got != c.want {
			t.Fatalf("Select(%v)=%d, want %d", c.r, got, c.want)
		}
	}
}

func TestSpinFrequenciesMatchWeights(t *testing.T) {
	const n = 100000
	w, err := NewWheel(equalSegments("A", "B", "C", "D", "E"))
	if err != nil {
		t.Fatalf("NewWheel: %v", err)
	}
	src := NewSeededSource(42)
	counts := make([]int, 5)
	for i := 0; i < n; i++ {
		counts[w.Spin(src, 0).Index]++
	}
	for i, c := range counts {
		freq := float64(c) / n
		if math.Abs(freq-0.2) > 0.02 {
			t.Fatalf("segment %d frequency %.4f, want 0.20±0.02", i, freq)
		}
	}
}

func TestWeightedSpinFavoursHeavySegment(t *testing.T) {
	w, err := NewWheel([]Segment{{Label: "rare", Weight: 1}, {Label: "common", Weight: 9}})
	if err != nil {
		t.Fatalf("NewWheel: %v", err)
	}
	src := NewSeededSource(7)
	common := 0
	for i := 0; i < 20000; i++ {
		if w.Spin(src, 0).Index == 1 {
			common++
		}
	}
	if freq := float64(common) / 20000; math.Abs(freq-0.9) > 0.02 {
		t.Fatalf("common frequency %.4f, want 0.90±0.02", freq)
	}
}

func TestRotationLandsOnSelectedSegment(t *testing.T) {
	w, err := NewWheel(DefaultSegments())
	if err != nil {
		t.Fatalf("NewWheel: %v", err)
	}
	for i := range w.Segments() {
		for _, turns := range []int{0, 1, 5} {
			rot := w.Rotation(i, turns)
			if rot < float64(turns)*360 {
				t.Fatalf("rotation %v for %d turns is short", rot, turns)
			}
			if got := w.SegmentAtAngle(rot); got != i {
				t.Fatalf("segment %d rotation %v points at %d", i, rot, got)
			}
		}
	}
}

func TestNewWheelRejectsBadWeights(t *testing.T) {
	cases := map[string][]Segment{
		"empty":    nil,
		"zero":     {{Label: "a", Weight: 0}},
		"negative": {{Label: "a", Weight: 1}, {Label: "b", Weight: -2}},
		"nan":      {{Label: "a", Weight: math.NaN()}},
		"inf":      {{Label: "a", Weight: math.Inf(1)}},
		"overflow": {{Label: "a", Weight: math.MaxFloat64}, {Label: "b", Weight: math.MaxFloat64}},
	}
	for name, segs := range cases {
		_, err := NewWheel(segs)
		var we *InvalidWeightError
		if !errors.As(err, &we) {
			t.Fatalf("%s: err=%v, want InvalidWeightError", name, err)
		}
	}
}
