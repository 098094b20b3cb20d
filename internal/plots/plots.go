// Package plots renders per-unit diagnostic figures: the filtered distance
// trace, the accepted zero-crossings, and shading over the detected
// movement intervals.
package plots

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lrlcardoso/GrossMovDetector/internal/movedetect"
	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
)

// Unit describes one (segment, camera, limb) figure.
type Unit struct {
	Title      string
	Timestamps []float64
	Raw        []float64
	Filtered   []float64
	Crossings  []movedetect.Crossing
	Signal     []int
}

// Render writes the unit's figure as a PNG under outputDir, returning the
// file path.
func Render(outputDir string, u Unit) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = u.Title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "distance"

	// movement intervals as shaded spans behind the trace
	yMin, yMax := valueRange(u.Filtered)
	for _, seg := range trace.OnSegments(u.Signal) {
		span := plotter.XYs{
			{X: u.Timestamps[seg.Start], Y: yMin},
			{X: u.Timestamps[seg.Start], Y: yMax},
			{X: u.Timestamps[seg.End], Y: yMax},
			{X: u.Timestamps[seg.End], Y: yMin},
		}
		poly, err := plotter.NewPolygon(span)
		if err != nil {
			return "", err
		}
		poly.Color = color.NRGBA{R: 120, G: 200, B: 120, A: 60}
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	rawLine, err := plotter.NewLine(gapBrokenXYs(u.Timestamps, u.Raw))
	if err != nil {
		return "", err
	}
	rawLine.Color = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
	rawLine.Width = vg.Points(0.5)
	p.Add(rawLine)
	p.Legend.Add("raw", rawLine)

	filtLine, err := plotter.NewLine(gapBrokenXYs(u.Timestamps, u.Filtered))
	if err != nil {
		return "", err
	}
	filtLine.Color = color.NRGBA{B: 200, A: 255}
	filtLine.Width = vg.Points(1)
	p.Add(filtLine)
	p.Legend.Add("filtered", filtLine)

	crossPts := make(plotter.XYs, 0, len(u.Crossings))
	for _, c := range u.Crossings {
		crossPts = append(crossPts, plotter.XY{X: c.Time, Y: c.Pos})
	}
	scatter, err := plotter.NewScatter(crossPts)
	if err != nil {
		return "", err
	}
	scatter.Color = color.NRGBA{R: 220, A: 255}
	p.Add(scatter)
	p.Legend.Add("crossings", scatter)

	file := filepath.Join(outputDir, fmt.Sprintf("%s.png", u.Title))
	if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return "", fmt.Errorf("failed to save plot: %w", err)
	}
	return file, nil
}

// gapBrokenXYs maps a trace to plot points, dropping gap samples so the
// line breaks across dropouts instead of bridging them.
func gapBrokenXYs(ts, values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if trace.IsGap(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: ts[i], Y: v})
	}
	return pts
}

func valueRange(values []float64) (lo, hi float64) {
	first := true
	for _, v := range values {
		if trace.IsGap(v) {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
