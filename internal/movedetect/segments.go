package movedetect

import (
	"math"

	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
)

// BuildSignal folds the accepted crossings, in ascending time order, into a
// binary use-signal over n samples. Later pairs may overwrite decisions made
// by earlier ones; the ascending iteration order is authoritative.
//
// Per consecutive crossing pair (k, k+1):
//   - the first pair always opens a movement: "on" over [T_k, T_{k+1});
//   - a swing below the local threshold is a settling fluctuation, not a
//     real reversal: "off" over [T_k, T_{k+1}), and movement is assumed to
//     continue over [T_{k+1}, T_{k+2}) when a further crossing exists;
//   - a swing at or above threshold is a confirmed reversal: one "off"
//     sample at T_k, then "on" up to the last sample before T_{k+1}.
//
// Fewer than two crossings means no movement was detected and the signal is
// all "off".
func BuildSignal(crossings []Crossing, n int) []int {
	signal := make([]int, n)
	if len(crossings) < 2 {
		return signal
	}

	for k := 0; k+1 < len(crossings); k++ {
		cur, next := crossings[k], crossings[k+1]
		if k == 0 {
			fill(signal, cur.Index, next.Index, 1)
			continue
		}
		swing := math.Abs(next.Pos - cur.Pos)
		if swing < cur.Threshold {
			fill(signal, cur.Index, next.Index, 0)
			if k+2 < len(crossings) {
				fill(signal, next.Index, crossings[k+2].Index, 1)
			}
		} else {
			signal[cur.Index] = 0
			fill(signal, cur.Index+1, next.Index, 1)
		}
	}
	return signal
}

// fill writes v over the half-open index range [start, end).
func fill(signal []int, start, end, v int) {
	if start < 0 {
		start = 0
	}
	if end > len(signal) {
		end = len(signal)
	}
	for i := start; i < end; i++ {
		signal[i] = v
	}
}

// QualityFilter zeroes every "on" segment that is too short, too long, or
// spans a run of max allowed gap consecutive missing position samples. The
// duration bounds are exclusive on the valid side: a segment of length
// exactly tooFast or exactly tooSlow is invalid.
func QualityFilter(signal []int, pos []float64, maxAllowedGap, tooFast, tooSlow int) []int {
	out := make([]int, len(signal))
	copy(out, signal)
	for _, seg := range trace.OnSegments(out) {
		if !segmentValid(seg, pos, maxAllowedGap, tooFast, tooSlow) {
			for i := seg.Start; i <= seg.End; i++ {
				out[i] = 0
			}
		}
	}
	return out
}

func segmentValid(seg trace.Segment, pos []float64, maxAllowedGap, tooFast, tooSlow int) bool {
	if seg.Len() <= tooFast || seg.Len() >= tooSlow {
		return false
	}
	run := 0
	for i := seg.Start; i <= seg.End; i++ {
		if trace.IsGap(pos[i]) {
			run++
			if run >= maxAllowedGap {
				return false
			}
		} else {
			run = 0
		}
	}
	return true
}

// DurationFilter re-applies only the duration rule of QualityFilter. Fusion
// runs this over the merged signal, where the per-view gap rule no longer
// applies.
func DurationFilter(signal []int, tooFast, tooSlow int) []int {
	out := make([]int, len(signal))
	copy(out, signal)
	for _, seg := range trace.OnSegments(out) {
		if seg.Len() <= tooFast || seg.Len() >= tooSlow {
			for i := seg.Start; i <= seg.End; i++ {
				out[i] = 0
			}
		}
	}
	return out
}
