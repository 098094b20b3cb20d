// Package testutil provides shared trace fixtures for tests.
//
// This package centralises common signal builders to reduce duplication
// across the detection and fusion test files.
package testutil

import (
	"math"

	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
)

// Timestamps returns n sample times at the given rate, starting at zero.
func Timestamps(n int, sampleRateHz float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / sampleRateHz
	}
	return out
}

// Constant returns n copies of v.
func Constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Sine returns n samples of amplitude*sin(2*pi*freqHz*t) around offset.
func Sine(n int, sampleRateHz, freqHz, amplitude, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / sampleRateHz
		out[i] = offset + amplitude*math.Sin(2*math.Pi*freqHz*t)
	}
	return out
}

// WithGaps returns a copy of values with the given indices replaced by the
// missing-value sentinel.
func WithGaps(values []float64, indices ...int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	for _, i := range indices {
		out[i] = trace.Gap()
	}
	return out
}

// Signal builds a binary signal of length n with the given inclusive "on"
// ranges.
func Signal(n int, onRanges ...[2]int) []int {
	out := make([]int, n)
	for _, r := range onRanges {
		for i := r[0]; i <= r[1]; i++ {
			out[i] = 1
		}
	}
	return out
}
