// Package geometry derives the 1-D traces the detector consumes from raw
// 2-D marker coordinates: wrist-to-origin distance, inter-shoulder distance
// and backward-difference velocity. Gaps in the inputs propagate naturally
// through the arithmetic.
package geometry

import "math"

// Distance returns the Euclidean distance of each (x, y) sample from the
// reference origin (ox, oy).
func Distance(xs, ys []float64, ox, oy float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = math.Hypot(xs[i]-ox, ys[i]-oy)
	}
	return out
}

// PairDistance returns the per-sample Euclidean distance between two marker
// tracks, e.g. the two shoulders.
func PairDistance(x1, y1, x2, y2 []float64) []float64 {
	out := make([]float64, len(x1))
	for i := range x1 {
		out[i] = math.Hypot(x2[i]-x1[i], y2[i]-y1[i])
	}
	return out
}

// Velocity returns the discrete backward difference of pos over elapsed
// time. The first sample has no predecessor and its velocity is defined
// as zero.
func Velocity(pos, timestamps []float64) []float64 {
	out := make([]float64, len(pos))
	for i := 1; i < len(pos); i++ {
		dt := timestamps[i] - timestamps[i-1]
		out[i] = (pos[i] - pos[i-1]) / dt
	}
	return out
}
