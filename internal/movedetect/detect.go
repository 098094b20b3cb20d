package movedetect

// Params holds the caller-supplied detection tuning.
type Params struct {
	ShoulderRatio float64 // reversal-acceptance scale factor, (0, 1]
	MaxAllowedGap int     // max consecutive missing samples tolerated inside a segment
	TooFast       int     // segments of this length or shorter are invalid
	TooSlow       int     // segments of this length or longer are invalid
}

// Detection bundles the outputs of one detect pass for a single view/limb.
type Detection struct {
	Signal    []int // cleaned binary use-signal
	Crossings []Crossing
}

// Detect runs the full per-view pipeline over a filtered position trace:
// adaptive zero-crossing detection, segment construction, and segment
// quality filtering. pos, vel, thr and timestamps must share one time base.
// Detect is a pure function of its inputs and safe to call concurrently for
// independent units.
func Detect(pos, vel, thr, timestamps []float64, p Params) Detection {
	crossings := DetectCrossings(pos, vel, thr, timestamps, p.ShoulderRatio)
	signal := BuildSignal(crossings, len(pos))
	signal = QualityFilter(signal, pos, p.MaxAllowedGap, p.TooFast, p.TooSlow)
	return Detection{Signal: signal, Crossings: crossings}
}
