// Package movedetect turns a filtered wrist-distance trace into a binary
// limb-in-use signal: adaptive zero-crossing detection, segment
// construction, and segment quality filtering.
package movedetect

import "math"

// Crossing is an accepted velocity sign reversal.
type Crossing struct {
	Index     int     // sample index into the trace
	Time      float64 // timestamp at Index
	Pos       float64 // filtered position at Index
	Threshold float64 // unscaled adaptive threshold at Index
}

// DetectCrossings locates velocity sign changes in vel and keeps those whose
// position swing against an adjacent candidate reaches the local adaptive
// threshold scaled by shoulderRatio. The threshold trace tracks the
// subject's inter-shoulder distance, so acceptance is invariant to how far
// the subject stands from the camera.
//
// The first and last candidates are judged against their single neighbour;
// a lone candidate has nothing to compare against and is rejected.
func DetectCrossings(pos, vel, thr, timestamps []float64, shoulderRatio float64) []Crossing {
	var cand []int
	for i := 0; i+1 < len(vel); i++ {
		if vel[i]*vel[i+1] < 0 {
			cand = append(cand, i)
		}
	}

	var out []Crossing
	for k, i := range cand {
		limit := thr[i] * shoulderRatio
		keep := false
		if k > 0 {
			if math.Abs(pos[i]-pos[cand[k-1]]) >= limit {
				keep = true
			}
		}
		if !keep && k+1 < len(cand) {
			if math.Abs(pos[cand[k+1]]-pos[i]) >= limit {
				keep = true
			}
		}
		if keep {
			out = append(out, Crossing{Index: i, Time: timestamps[i], Pos: pos[i], Threshold: thr[i]})
		}
	}
	return out
}
