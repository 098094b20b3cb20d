package runner

import (
	"context"
	"fmt"
	"io/fs"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lrlcardoso/GrossMovDetector/internal/config"
	"github.com/lrlcardoso/GrossMovDetector/internal/fsutil"
	"github.com/lrlcardoso/GrossMovDetector/internal/fusion"
	"github.com/lrlcardoso/GrossMovDetector/internal/markers"
	"github.com/lrlcardoso/GrossMovDetector/internal/monitoring"
	"github.com/lrlcardoso/GrossMovDetector/internal/plots"
	"github.com/lrlcardoso/GrossMovDetector/internal/results"
	"github.com/lrlcardoso/GrossMovDetector/internal/timeutil"
	"github.com/lrlcardoso/GrossMovDetector/internal/units"
)

// Options configures a batch run. DB and PlotDir are optional; leaving them
// unset skips persistence or figure rendering.
type Options struct {
	Config  *config.Config
	DB      *results.DB
	PlotDir string
	Clock   timeutil.Clock
	Workers int
}

// RunResult bundles a batch run's identifier with its per-limb outcomes.
type RunResult struct {
	RunID    string
	Outcomes []LimbOutcome
}

// LimbOutcome is the fused result for one limb of one recording segment.
type LimbOutcome struct {
	Session string
	Segment string
	Limb    units.Limb
	Fused   fusion.Result
	Views   []ViewResult
	Summary results.Summary
}

// Run processes every recording segment found in fsys. Segments are
// independent units and run concurrently; each limb's per-view results are
// collected into one value and passed to fusion in camera order. Data
// problems inside a unit are logged and skipped; only structural failures
// (bad filter design, persistence errors) abort the run.
func Run(ctx context.Context, fsys fs.FS, opts Options) (RunResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	coeffs, err := designFilters(cfg)
	if err != nil {
		return RunResult{}, err
	}

	segments, err := fsutil.DiscoverSegments(fsys)
	if err != nil {
		return RunResult{}, fmt.Errorf("discovery failed: %w", err)
	}
	if len(segments) == 0 {
		return RunResult{}, fmt.Errorf("no recording segments found")
	}

	runID := uuid.NewString()
	started := clock.Now()
	monitoring.Logf("run %s: %d segments, %d workers", runID, len(segments), workers)

	var mu sync.Mutex
	var outcomes []LimbOutcome

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, seg := range segments {
		g.Go(func() error {
			out, err := processSegment(ctx, fsys, seg, cfg, coeffs, runID, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			outcomes = append(outcomes, out...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RunResult{}, err
	}

	monitoring.Logf("run %s: finished %d limb outcomes in %s", runID, len(outcomes), clock.Since(started))
	return RunResult{RunID: runID, Outcomes: outcomes}, nil
}

func processSegment(ctx context.Context, fsys fs.FS, seg fsutil.SegmentFiles, cfg *config.Config, coeffs coefficients, runID string, opts Options) ([]LimbOutcome, error) {
	tables := make(map[string]*markers.Table, len(seg.Cameras))
	for _, cam := range seg.Cameras {
		f, err := fsys.Open(cam.Path)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", seg.Session, seg.Segment, err)
		}
		table, err := markers.Read(f)
		f.Close()
		if err != nil {
			monitoring.Logf("warning: %s/%s camera %s skipped: %v", seg.Session, seg.Segment, cam.Camera, err)
			continue
		}
		tables[cam.Camera] = table
	}

	var outcomes []LimbOutcome
	for _, limb := range units.Limbs {
		var views []ViewResult
		for _, cam := range seg.Cameras {
			table, ok := tables[cam.Camera]
			if !ok {
				continue
			}
			v, err := ProcessView(cam.Camera, table, limb, cfg, coeffs)
			if err != nil {
				monitoring.Logf("warning: %s/%s %s limb: %v", seg.Session, seg.Segment, limb, err)
				continue
			}
			views = append(views, v)
		}
		if len(views) == 0 {
			monitoring.Logf("warning: %s/%s %s limb: no usable views", seg.Session, seg.Segment, limb)
			continue
		}

		fusionViews := make([]fusion.View, len(views))
		for i, v := range views {
			fusionViews[i] = v.FusionView()
		}
		fused, err := fusion.Combine(fusionViews, cfg.GetTooFast(), cfg.GetTooSlow())
		if err != nil {
			return nil, fmt.Errorf("%s/%s %s limb: %w", seg.Session, seg.Segment, limb, err)
		}

		base := baseView(views, fused.BaseCamera)
		span := 0.0
		if n := len(base.Timestamps); n > 1 {
			span = base.Timestamps[n-1] - base.Timestamps[0]
		}
		summary := results.Summary{
			RunID:           runID,
			Session:         seg.Session,
			Segment:         seg.Segment,
			Limb:            string(limb),
			BaseCamera:      fused.BaseCamera,
			SegmentCount:    fused.SegmentCount,
			RatePerMin:      units.RatePerMinute(fused.SegmentCount, span),
			DurationSeconds: span,
		}

		if opts.DB != nil {
			if err := opts.DB.RecordUseSignal(ctx, runID, seg.Session, seg.Segment, string(limb), fused.BaseCamera, base.Timestamps, fused.Signal); err != nil {
				return nil, err
			}
			if err := opts.DB.RecordSummary(ctx, summary); err != nil {
				return nil, err
			}
		}

		if opts.PlotDir != "" {
			for _, v := range views {
				unit := plots.Unit{
					Title:      fmt.Sprintf("%s_%s_%s_%s", seg.Session, seg.Segment, v.Camera, limb),
					Timestamps: v.Timestamps,
					Raw:        v.Raw,
					Filtered:   v.Filtered,
					Crossings:  v.Detection.Crossings,
					Signal:     v.Detection.Signal,
				}
				if _, err := plots.Render(opts.PlotDir, unit); err != nil {
					monitoring.Logf("warning: plot for %s failed: %v", unit.Title, err)
				}
			}
		}

		outcomes = append(outcomes, LimbOutcome{
			Session: seg.Session,
			Segment: seg.Segment,
			Limb:    limb,
			Fused:   fused,
			Views:   views,
			Summary: summary,
		})
	}
	return outcomes, nil
}

func baseView(views []ViewResult, camera string) ViewResult {
	for _, v := range views {
		if v.Camera == camera {
			return v
		}
	}
	return views[0]
}
