// Package report renders an HTML summary of a detection run using
// go-echarts: per-limb movement counts and rates across recording segments.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lrlcardoso/GrossMovDetector/internal/results"
	"github.com/lrlcardoso/GrossMovDetector/internal/units"
)

// Write renders the run summary to an HTML file at path.
func Write(path, runID string, summaries []results.Summary) error {
	if len(summaries) == 0 {
		return fmt.Errorf("report: no summaries for run %s", runID)
	}

	labels := make([]string, 0, len(summaries))
	seen := make(map[string]bool)
	for _, s := range summaries {
		key := s.Session + "/" + s.Segment
		if !seen[key] {
			seen[key] = true
			labels = append(labels, key)
		}
	}

	counts := charts.NewBar()
	counts.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Movement Summary", Width: "1100px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Movement segments per limb", Subtitle: fmt.Sprintf("run %s", runID)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	counts.SetXAxis(labels)

	rates := charts.NewBar()
	rates.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Movement rate (per minute)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	rates.SetXAxis(labels)

	for _, limb := range units.Limbs {
		countData := make([]opts.BarData, len(labels))
		rateData := make([]opts.BarData, len(labels))
		for i, label := range labels {
			for _, s := range summaries {
				if s.Session+"/"+s.Segment == label && s.Limb == string(limb) {
					countData[i] = opts.BarData{Value: s.SegmentCount}
					rateData[i] = opts.BarData{Value: s.RatePerMin}
				}
			}
		}
		counts.AddSeries(string(limb), countData)
		rates.AddSeries(string(limb), rateData)
	}

	page := components.NewPage()
	page.AddCharts(counts, rates)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}
