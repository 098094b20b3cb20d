// Package units provides shared constants and conversions for limbs and
// sample/time arithmetic.
package units

// Limb identifies which arm a trace belongs to.
type Limb string

// Limb constants
const (
	Left  Limb = "left"
	Right Limb = "right"
)

// Limbs lists the limbs processed per view.
var Limbs = []Limb{Left, Right}

// IsValid checks if the given limb is a recognized value.
func IsValid(l Limb) bool {
	return l == Left || l == Right
}

// WristMarker returns the marker name carrying this limb's wrist track.
func (l Limb) WristMarker() string {
	if l == Left {
		return "LWrist"
	}
	return "RWrist"
}

// SamplesToSeconds converts a sample count to seconds at the given rate.
func SamplesToSeconds(samples int, sampleRateHz float64) float64 {
	return float64(samples) / sampleRateHz
}

// SecondsToSamples converts a duration in seconds to whole samples at the
// given rate, truncating.
func SecondsToSamples(seconds, sampleRateHz float64) int {
	return int(seconds * sampleRateHz)
}

// RatePerMinute converts an event count over a span in seconds to a
// per-minute rate. A non-positive span yields zero.
func RatePerMinute(count int, spanSeconds float64) float64 {
	if spanSeconds <= 0 {
		return 0
	}
	return float64(count) / (spanSeconds / 60)
}
