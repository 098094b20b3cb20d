// Package trace provides the 1-D timestamped sample sequences shared by the
// movement detection pipeline, with explicit handling of missing-value gaps.
package trace

import "math"

// Gap returns the missing-value sentinel. Marker dropouts, filter failures
// and unmatched timestamps all surface as this value.
func Gap() float64 {
	return math.NaN()
}

// IsGap reports whether v is the missing-value sentinel. All gap checks in
// the pipeline go through this predicate rather than comparing floats
// directly.
func IsGap(v float64) bool {
	return math.IsNaN(v)
}

// Trace is an ordered sequence of samples at a fixed nominal rate.
// Timestamps are strictly increasing and never missing; Values may contain
// gaps at any index.
type Trace struct {
	Timestamps []float64 // seconds
	Values     []float64
}

// Len returns the number of samples.
func (t Trace) Len() int {
	return len(t.Values)
}

// ValidCount returns the number of non-gap samples.
func (t Trace) ValidCount() int {
	n := 0
	for _, v := range t.Values {
		if !IsGap(v) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the trace.
func (t Trace) Clone() Trace {
	out := Trace{
		Timestamps: make([]float64, len(t.Timestamps)),
		Values:     make([]float64, len(t.Values)),
	}
	copy(out.Timestamps, t.Timestamps)
	copy(out.Values, t.Values)
	return out
}

// AllGaps reports whether every sample is missing.
func (t Trace) AllGaps() bool {
	for _, v := range t.Values {
		if !IsGap(v) {
			return false
		}
	}
	return true
}

// Filled returns a slice of n gap sentinels.
func Filled(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = Gap()
	}
	return out
}

// LinearFill returns a copy of values with every gap replaced by linear
// interpolation between the bracketing valid samples. Leading and trailing
// gaps are extrapolated from the two nearest valid samples; if only one
// valid sample exists the whole trace is held at that value. An all-gap
// input is returned unchanged.
func LinearFill(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	var valid []int
	for i, v := range out {
		if !IsGap(v) {
			valid = append(valid, i)
		}
	}
	switch len(valid) {
	case 0:
		return out
	case 1:
		for i := range out {
			out[i] = out[valid[0]]
		}
		return out
	}

	// interior gaps: interpolate between consecutive valid samples
	for k := 0; k+1 < len(valid); k++ {
		lo, hi := valid[k], valid[k+1]
		if hi == lo+1 {
			continue
		}
		slope := (out[hi] - out[lo]) / float64(hi-lo)
		for i := lo + 1; i < hi; i++ {
			out[i] = out[lo] + slope*float64(i-lo)
		}
	}

	// leading gaps: extrapolate from the first two valid samples
	first, second := valid[0], valid[1]
	slope := (out[second] - out[first]) / float64(second-first)
	for i := 0; i < first; i++ {
		out[i] = out[first] - slope*float64(first-i)
	}

	// trailing gaps: extrapolate from the last two valid samples
	last, prev := valid[len(valid)-1], valid[len(valid)-2]
	slope = (out[last] - out[prev]) / float64(last-prev)
	for i := last + 1; i < len(out); i++ {
		out[i] = out[last] + slope*float64(i-last)
	}

	return out
}
