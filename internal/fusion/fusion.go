// Package fusion reconciles the per-camera use-signals for one limb into a
// single authoritative signal: the view with the most detected segments
// anchors the result and its dropout gaps are backfilled from the others.
package fusion

import (
	"errors"

	"github.com/lrlcardoso/GrossMovDetector/internal/movedetect"
	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
)

// ErrNoViews is returned when Combine is called with zero views. Supplying
// no views is a usage error in the caller, not a data-quality condition.
var ErrNoViews = errors.New("fusion: no views supplied")

// View is one camera's observation of a limb over a recording segment.
type View struct {
	Camera     string
	Timestamps []float64
	Signal     []int     // quality-filtered binary use-signal
	Filtered   []float64 // filtered distance trace, gaps mark camera dropouts
	Raw        []float64 // unfiltered distance trace, pass-through
}

// Result is the fused use-signal for one limb plus its provenance.
type Result struct {
	Signal       []int
	BaseCamera   string
	SegmentCount int
}

// Combine fuses the views of one limb. The base view is the one with the
// most "on" segments, ties broken by input order. Wherever the base view's
// filtered distance is a gap, the sample is filled from the first other
// view (in input order) that shares the timestamp and has a defined
// filtered distance there; samples the base view observed are never
// overwritten. The duration rule is then re-applied to the merged signal.
//
// A single view passes through unchanged. Zero views returns ErrNoViews.
func Combine(views []View, tooFast, tooSlow int) (Result, error) {
	if len(views) == 0 {
		return Result{}, ErrNoViews
	}

	if len(views) == 1 {
		v := views[0]
		return Result{
			Signal:       append([]int(nil), v.Signal...),
			BaseCamera:   v.Camera,
			SegmentCount: len(trace.OnSegments(v.Signal)),
		}, nil
	}

	base := selectBase(views)
	bv := views[base]

	fused := append([]int(nil), bv.Signal...)

	// gap mask captured before any fills, so one fill per timestamp and
	// earlier views keep priority
	missing := make([]bool, len(bv.Filtered))
	for i, d := range bv.Filtered {
		missing[i] = trace.IsGap(d)
	}

	for vi, other := range views {
		if vi == base {
			continue
		}
		byTime := timestampIndex(other.Timestamps)
		for i := range fused {
			if !missing[i] {
				continue
			}
			j, ok := byTime[bv.Timestamps[i]]
			if !ok || trace.IsGap(other.Filtered[j]) {
				continue
			}
			fused[i] = other.Signal[j]
			missing[i] = false
		}
	}

	fused = movedetect.DurationFilter(fused, tooFast, tooSlow)

	return Result{
		Signal:       fused,
		BaseCamera:   bv.Camera,
		SegmentCount: len(trace.OnSegments(fused)),
	}, nil
}

// selectBase returns the index of the view with the most "on" segments,
// first view winning ties.
func selectBase(views []View) int {
	best, bestCount := 0, -1
	for i, v := range views {
		if n := len(trace.OnSegments(v.Signal)); n > bestCount {
			best, bestCount = i, n
		}
	}
	return best
}

func timestampIndex(timestamps []float64) map[float64]int {
	m := make(map[float64]int, len(timestamps))
	for i, t := range timestamps {
		m[t] = i
	}
	return m
}
