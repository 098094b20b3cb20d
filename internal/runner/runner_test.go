package runner

import (
	"context"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrlcardoso/GrossMovDetector/internal/monitoring"
	"github.com/lrlcardoso/GrossMovDetector/internal/results"
	"github.com/lrlcardoso/GrossMovDetector/internal/timeutil"
	"github.com/lrlcardoso/GrossMovDetector/internal/units"
)

// cameraCSV builds a marker table: the left wrist swings on a 0.5 Hz sine,
// the right wrist stays still, shoulders are fixed 100 px apart.
func cameraCSV(n int, amplitude float64) []byte {
	var b strings.Builder
	b.WriteString("time,LWrist_x,LWrist_y,RWrist_x,RWrist_y,LShoulder_x,LShoulder_y,RShoulder_x,RShoulder_y\n")
	for i := 0; i < n; i++ {
		t := float64(i) / 30.0
		lwx := 300 + amplitude*math.Sin(2*math.Pi*0.5*t)
		fmt.Fprintf(&b, "%.6f,%.4f,400,500,400,350,200,450,200\n", t, lwx)
	}
	return []byte(b.String())
}

func testFS(n int) fstest.MapFS {
	return fstest.MapFS{
		"p01/seg1/cam1.csv": {Data: cameraCSV(n, 80)},
		"p01/seg1/cam2.csv": {Data: cameraCSV(n, 80)},
	}
}

func muteLogs(t *testing.T) {
	t.Helper()
	monitoring.SetLogger(t.Logf)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })
}

func TestRun(t *testing.T) {
	muteLogs(t)
	clock := timeutil.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	res, err := Run(context.Background(), testFS(240), Options{Clock: clock, Workers: 2})
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)
	require.Len(t, res.Outcomes, 2, "one outcome per limb")

	byLimb := map[units.Limb]LimbOutcome{}
	for _, o := range res.Outcomes {
		byLimb[o.Limb] = o
	}

	left, ok := byLimb[units.Left]
	require.True(t, ok)
	assert.Equal(t, "p01", left.Session)
	assert.Equal(t, "seg1", left.Segment)
	assert.Len(t, left.Fused.Signal, 240)
	assert.Greater(t, left.Fused.SegmentCount, 0, "swinging wrist produces movement")
	assert.Equal(t, "cam1", left.Fused.BaseCamera, "tie between identical views goes to the first camera")
	require.Len(t, left.Views, 2)
	assert.InDelta(t, 239.0/30.0, left.Summary.DurationSeconds, 1e-5)
	assert.Greater(t, left.Summary.RatePerMin, 0.0)

	right, ok := byLimb[units.Right]
	require.True(t, ok)
	assert.Equal(t, 0, right.Fused.SegmentCount, "still wrist produces no movement")
	assert.Equal(t, make([]int, 240), right.Fused.Signal)
}

func TestRunPersistsResults(t *testing.T) {
	muteLogs(t)
	db, err := results.NewDB(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer db.Close()

	res, err := Run(context.Background(), testFS(240), Options{DB: db})
	require.NoError(t, err)

	summaries, err := db.Summaries(context.Background(), res.RunID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.Equal(t, res.RunID, s.RunID)
		assert.NotEmpty(t, s.BaseCamera)
	}
}

func TestRunSingleCamera(t *testing.T) {
	muteLogs(t)
	fsys := fstest.MapFS{
		"p01/seg1/cam1.csv": {Data: cameraCSV(240, 80)},
	}
	res, err := Run(context.Background(), fsys, Options{})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2)
	for _, o := range res.Outcomes {
		assert.Equal(t, "cam1", o.Fused.BaseCamera)
	}
}

func TestRunSkipsBrokenCamera(t *testing.T) {
	muteLogs(t)
	fsys := fstest.MapFS{
		"p01/seg1/cam1.csv": {Data: cameraCSV(240, 80)},
		"p01/seg1/cam2.csv": {Data: []byte("not,a,marker\ntable\n")},
	}
	res, err := Run(context.Background(), fsys, Options{})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2, "good camera still processed")
	for _, o := range res.Outcomes {
		require.Len(t, o.Views, 1)
		assert.Equal(t, "cam1", o.Views[0].Camera)
	}
}

func TestRunNoSegments(t *testing.T) {
	muteLogs(t)
	_, err := Run(context.Background(), fstest.MapFS{}, Options{})
	assert.Error(t, err)
}

func TestProcessViewMissingShoulders(t *testing.T) {
	muteLogs(t)
	fsys := fstest.MapFS{
		"p01/seg1/cam1.csv": {Data: []byte("time,LWrist_x,LWrist_y,RWrist_x,RWrist_y\n0.0,1,2,3,4\n0.033,1,2,3,4\n")},
	}
	res, err := Run(context.Background(), fsys, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Outcomes, "views without shoulder markers are unusable")
}
