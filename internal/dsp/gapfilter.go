package dsp

import (
	"math"

	"github.com/lrlcardoso/GrossMovDetector/internal/monitoring"
	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
)

// MinValidSamples is the smallest number of non-gap samples the
// gap-preserving filter will operate on. Below this the zero-phase edge
// extension has nothing to reflect and the output is all gaps.
const MinValidSamples = 7

// FilterWithGaps zero-phase filters a trace that may contain missing-value
// gaps. The valid samples are compacted into one block, filtered as if
// contiguous, and written back to their original indices; gap indices stay
// gaps. Marker dropouts are common and filtering across one would smear
// energy over the gap boundary, hence the excision.
//
// With fewer than MinValidSamples valid samples, or when the filter is
// numerically unstable for the supplied coefficients, the result is all
// gaps; instability is reported through monitoring.Logf as a warning rather
// than an error so the batch can continue with degraded data.
func FilterWithGaps(b, a, values []float64) []float64 {
	var idx []int
	var compact []float64
	for i, v := range values {
		if !trace.IsGap(v) {
			idx = append(idx, i)
			compact = append(compact, v)
		}
	}

	if len(compact) < MinValidSamples {
		return trace.Filled(len(values))
	}

	filtered, err := FiltFilt(b, a, compact)
	if err != nil {
		monitoring.Logf("warning: gap-preserving filter skipped: %v", err)
		return trace.Filled(len(values))
	}
	for _, v := range filtered {
		if math.IsInf(v, 0) || trace.IsGap(v) {
			monitoring.Logf("warning: gap-preserving filter unstable for %d samples, output discarded", len(compact))
			return trace.Filled(len(values))
		}
	}

	out := trace.Filled(len(values))
	for k, i := range idx {
		out[i] = filtered[k]
	}
	return out
}
