package geometry

import (
	"github.com/lrlcardoso/GrossMovDetector/internal/dsp"
	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
)

// ThresholdTrace smooths an inter-shoulder distance trace with the given
// low-pass coefficients and fills any residual gaps by linear
// interpolation/extrapolation. The detector requires the threshold trace to
// be fully defined; an input with no valid samples at all stays all-gap and
// the caller treats that view as unusable.
func ThresholdTrace(shoulderDist, b, a []float64) []float64 {
	filtered := dsp.FilterWithGaps(b, a, shoulderDist)
	return trace.LinearFill(filtered)
}
