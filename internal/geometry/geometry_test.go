package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrlcardoso/GrossMovDetector/internal/dsp"
	"github.com/lrlcardoso/GrossMovDetector/internal/testutil"
	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
)

func TestDistance(t *testing.T) {
	xs := []float64{3, 0, trace.Gap()}
	ys := []float64{4, 0, 1}
	got := Distance(xs, ys, 0, 0)
	assert.InDelta(t, 5, got[0], 1e-12)
	assert.InDelta(t, 0, got[1], 1e-12)
	assert.True(t, trace.IsGap(got[2]), "gap in a coordinate propagates")
}

func TestPairDistance(t *testing.T) {
	x1 := []float64{0, 1}
	y1 := []float64{0, 1}
	x2 := []float64{3, trace.Gap()}
	y2 := []float64{4, 2}
	got := PairDistance(x1, y1, x2, y2)
	assert.InDelta(t, 5, got[0], 1e-12)
	assert.True(t, trace.IsGap(got[1]))
}

func TestVelocity(t *testing.T) {
	ts := testutil.Timestamps(4, 10) // dt = 0.1s
	pos := []float64{0, 1, 1, trace.Gap()}
	got := Velocity(pos, ts)
	require.Len(t, got, 4)
	assert.Equal(t, 0.0, got[0], "first sample velocity is defined as zero")
	assert.InDelta(t, 10, got[1], 1e-9)
	assert.InDelta(t, 0, got[2], 1e-9)
	assert.True(t, math.IsNaN(got[3]), "gap position propagates to velocity")
}

func TestThresholdTrace(t *testing.T) {
	b, a, err := dsp.Butterworth(2, 0.5, 30)
	require.NoError(t, err)

	t.Run("fully defined after filtering and fill", func(t *testing.T) {
		shoulder := testutil.WithGaps(testutil.Constant(60, 2.0), 0, 1, 30, 59)
		got := ThresholdTrace(shoulder, b, a)
		require.Len(t, got, 60)
		for i, v := range got {
			assert.False(t, trace.IsGap(v), "index %d", i)
			assert.InDelta(t, 2.0, v, 1e-6)
		}
	})

	t.Run("all-gap input stays all gaps", func(t *testing.T) {
		got := ThresholdTrace(trace.Filled(20), b, a)
		for _, v := range got {
			assert.True(t, trace.IsGap(v))
		}
	})
}
