// Package runner drives the batch: it loads marker tables per recording
// segment, runs the detection pipeline per camera and limb, fuses the
// per-camera results, and hands the outcome to persistence and reporting.
package runner

import (
	"fmt"

	"github.com/lrlcardoso/GrossMovDetector/internal/config"
	"github.com/lrlcardoso/GrossMovDetector/internal/dsp"
	"github.com/lrlcardoso/GrossMovDetector/internal/fusion"
	"github.com/lrlcardoso/GrossMovDetector/internal/geometry"
	"github.com/lrlcardoso/GrossMovDetector/internal/markers"
	"github.com/lrlcardoso/GrossMovDetector/internal/movedetect"
	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
	"github.com/lrlcardoso/GrossMovDetector/internal/units"
)

// Shoulder marker names shared by all camera tables.
const (
	leftShoulderMarker  = "LShoulder"
	rightShoulderMarker = "RShoulder"
)

// ViewResult is one camera's processed observation of a limb: the traces
// the detector consumed plus its outputs. It is the value object fusion
// receives; nothing is accumulated globally across cameras.
type ViewResult struct {
	Camera     string
	Timestamps []float64
	Raw        []float64 // wrist-to-origin distance
	Filtered   []float64
	Velocity   []float64
	Threshold  []float64
	Detection  movedetect.Detection
}

// FusionView adapts the result to the fusion input type.
func (v ViewResult) FusionView() fusion.View {
	return fusion.View{
		Camera:     v.Camera,
		Timestamps: v.Timestamps,
		Signal:     v.Detection.Signal,
		Filtered:   v.Filtered,
		Raw:        v.Raw,
	}
}

// coefficients caches the two filter designs for a run.
type coefficients struct {
	posB, posA []float64
	thrB, thrA []float64
}

func designFilters(cfg *config.Config) (coefficients, error) {
	var c coefficients
	var err error
	c.posB, c.posA, err = dsp.Butterworth(cfg.GetFilterOrder(), cfg.GetPositionCutoffHz(), cfg.GetSampleRateHz())
	if err != nil {
		return c, fmt.Errorf("position filter design: %w", err)
	}
	c.thrB, c.thrA, err = dsp.Butterworth(cfg.GetFilterOrder(), cfg.GetThresholdCutoffHz(), cfg.GetSampleRateHz())
	if err != nil {
		return c, fmt.Errorf("threshold filter design: %w", err)
	}
	return c, nil
}

// ProcessView runs components 1-4 of the pipeline for one camera and limb:
// wrist distance from the image origin, gap-preserving smoothing, backward-
// difference velocity, adaptive threshold from the inter-shoulder distance,
// then crossing detection, segment construction and quality filtering.
func ProcessView(camera string, table *markers.Table, limb units.Limb, cfg *config.Config, coeffs coefficients) (ViewResult, error) {
	wx, wy, err := table.Marker(limb.WristMarker())
	if err != nil {
		return ViewResult{}, err
	}
	lsx, lsy, err := table.Marker(leftShoulderMarker)
	if err != nil {
		return ViewResult{}, err
	}
	rsx, rsy, err := table.Marker(rightShoulderMarker)
	if err != nil {
		return ViewResult{}, err
	}

	raw := geometry.Distance(wx, wy, 0, 0)
	filtered := dsp.FilterWithGaps(coeffs.posB, coeffs.posA, raw)
	vel := geometry.Velocity(filtered, table.Timestamps)

	shoulder := geometry.PairDistance(lsx, lsy, rsx, rsy)
	thr := geometry.ThresholdTrace(shoulder, coeffs.thrB, coeffs.thrA)
	if allGaps(thr) {
		return ViewResult{}, fmt.Errorf("camera %s: no shoulder data, threshold trace undefined", camera)
	}

	det := movedetect.Detect(filtered, vel, thr, table.Timestamps, movedetect.Params{
		ShoulderRatio: cfg.GetShoulderRatio(),
		MaxAllowedGap: cfg.GetMaxAllowedGap(),
		TooFast:       cfg.GetTooFast(),
		TooSlow:       cfg.GetTooSlow(),
	})

	return ViewResult{
		Camera:     camera,
		Timestamps: table.Timestamps,
		Raw:        raw,
		Filtered:   filtered,
		Velocity:   vel,
		Threshold:  thr,
		Detection:  det,
	}, nil
}

func allGaps(values []float64) bool {
	for _, v := range values {
		if !trace.IsGap(v) {
			return false
		}
	}
	return true
}
