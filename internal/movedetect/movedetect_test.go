package movedetect

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrlcardoso/GrossMovDetector/internal/testutil"
	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
)

// crossingFixture builds pos/vel/thr traces with velocity sign changes at
// the given indices and position values chosen per index.
func crossingFixture(n int, pos map[int]float64, signFlips []int, thr float64) (p, v, thrTrace, ts []float64) {
	ts = testutil.Timestamps(n, 30)
	p = make([]float64, n)
	for i := range p {
		p[i] = 0
	}
	for i, val := range pos {
		p[i] = val
	}
	// velocity alternates sign across each flip index
	v = make([]float64, n)
	sign := 1.0
	flip := map[int]bool{}
	for _, i := range signFlips {
		flip[i] = true
	}
	for i := 1; i < n; i++ {
		if flip[i-1] {
			sign = -sign
		}
		v[i] = sign
	}
	thrTrace = testutil.Constant(n, thr)
	return p, v, thrTrace, ts
}

func TestDetectCrossings(t *testing.T) {
	t.Run("lone candidate rejected", func(t *testing.T) {
		pos, vel, thr, ts := crossingFixture(20, map[int]float64{10: 5}, []int{10}, 1.0)
		got := DetectCrossings(pos, vel, thr, ts, 0.5)
		assert.Empty(t, got)
	})

	t.Run("neighbour amplitude accepts both", func(t *testing.T) {
		pos, vel, thr, ts := crossingFixture(40, map[int]float64{10: 0, 30: 5}, []int{10, 30}, 1.0)
		got := DetectCrossings(pos, vel, thr, ts, 0.5)
		require.Len(t, got, 2)
		assert.Equal(t, 10, got[0].Index)
		assert.Equal(t, 30, got[1].Index)
		assert.Equal(t, ts[10], got[0].Time)
		assert.Equal(t, 1.0, got[0].Threshold)
	})

	t.Run("sub-threshold swings rejected", func(t *testing.T) {
		pos, vel, thr, ts := crossingFixture(40, map[int]float64{10: 0, 30: 0.2}, []int{10, 30}, 1.0)
		got := DetectCrossings(pos, vel, thr, ts, 0.5)
		assert.Empty(t, got)
	})

	t.Run("swing exactly at threshold accepted", func(t *testing.T) {
		pos, vel, thr, ts := crossingFixture(40, map[int]float64{10: 0, 30: 0.5}, []int{10, 30}, 1.0)
		got := DetectCrossings(pos, vel, thr, ts, 0.5)
		assert.Len(t, got, 2)
	})

	t.Run("middle candidate kept via either neighbour", func(t *testing.T) {
		pos, vel, thr, ts := crossingFixture(60, map[int]float64{10: 0, 30: 0.1, 50: 5}, []int{10, 30, 50}, 1.0)
		got := DetectCrossings(pos, vel, thr, ts, 0.5)
		// 10 only neighbours 30, too close, so it is dropped; 30 is close to
		// 10 but rescued by its far neighbour 50
		require.Len(t, got, 2)
		assert.Equal(t, 30, got[0].Index)
		assert.Equal(t, 50, got[1].Index)
	})

	t.Run("ratio monotonicity", func(t *testing.T) {
		pos, vel, thr, ts := crossingFixture(90, map[int]float64{10: 0, 30: 0.6, 50: 1.4, 70: 3.0}, []int{10, 30, 50, 70}, 2.0)
		prev := len(DetectCrossings(pos, vel, thr, ts, 0.1))
		for _, ratio := range []float64{0.25, 0.5, 0.75, 1.0} {
			n := len(DetectCrossings(pos, vel, thr, ts, ratio))
			assert.LessOrEqual(t, n, prev, "ratio %v", ratio)
			prev = n
		}
	})
}

func TestBuildSignal(t *testing.T) {
	t.Run("fewer than two crossings is all off", func(t *testing.T) {
		assert.Equal(t, make([]int, 10), BuildSignal(nil, 10))
		assert.Equal(t, make([]int, 10), BuildSignal([]Crossing{{Index: 4}}, 10))
	})

	t.Run("first pair opens movement over half-open interval", func(t *testing.T) {
		signal := BuildSignal([]Crossing{
			{Index: 0, Pos: 0, Threshold: 1},
			{Index: 40, Pos: 5, Threshold: 1},
		}, 90)
		want := testutil.Signal(90, [2]int{0, 39})
		if diff := cmp.Diff(want, signal); diff != "" {
			t.Errorf("signal mismatch (-want +got):\n%s", diff)
		}
		segs := trace.OnSegments(signal)
		require.Len(t, segs, 1)
		assert.Equal(t, 40, segs[0].Len())
	})

	t.Run("confirmed reversal ends one movement and starts the next", func(t *testing.T) {
		signal := BuildSignal([]Crossing{
			{Index: 0, Pos: 0, Threshold: 1},
			{Index: 20, Pos: 5, Threshold: 1},
			{Index: 50, Pos: 0, Threshold: 1},
		}, 70)
		// pair 0: on [0,20); pair 1: swing 5 >= 1 so off at 20, on [21,50)
		assert.Equal(t, 1, signal[0])
		assert.Equal(t, 1, signal[19])
		assert.Equal(t, 0, signal[20])
		assert.Equal(t, 1, signal[21])
		assert.Equal(t, 1, signal[49])
		assert.Equal(t, 0, signal[50])
	})

	t.Run("sub-threshold swing absorbed into following interval", func(t *testing.T) {
		signal := BuildSignal([]Crossing{
			{Index: 0, Pos: 0, Threshold: 1},
			{Index: 20, Pos: 5, Threshold: 1},
			{Index: 25, Pos: 5.2, Threshold: 1}, // settling wiggle
			{Index: 60, Pos: 0, Threshold: 1},
		}, 80)
		// pair (20,25) swing 0.2 < 1: off over [20,25), on over [25,60);
		// then the confirmed pair (25,60) overwrites sample 25 to off and
		// re-marks [26,60) on
		assert.Equal(t, 0, signal[20])
		assert.Equal(t, 0, signal[24])
		assert.Equal(t, 0, signal[25])
		assert.Equal(t, 1, signal[26])
		assert.Equal(t, 1, signal[59])
		assert.Equal(t, 0, signal[60])
	})

	t.Run("later pairs overwrite earlier decisions in ascending order", func(t *testing.T) {
		// the sub-threshold pair at (20,25) forces off over samples the
		// first pair had marked on
		signal := BuildSignal([]Crossing{
			{Index: 0, Pos: 0, Threshold: 1},
			{Index: 20, Pos: 0.1, Threshold: 1},
			{Index: 25, Pos: 0.2, Threshold: 1},
		}, 40)
		// first pair writes on [0,20); pair (20,25) swing 0.1 < 1 writes off
		// [20,25) and has no following crossing to re-open
		assert.Equal(t, 1, signal[19])
		for i := 20; i < 40; i++ {
			assert.Equal(t, 0, signal[i], "sample %d", i)
		}
	})
}

func TestQualityFilter(t *testing.T) {
	pos := testutil.Constant(100, 1.0)

	t.Run("duration boundaries", func(t *testing.T) {
		tests := []struct {
			name   string
			length int
			valid  bool
		}{
			{"exactly too_fast invalid", 3, false},
			{"too_fast plus one valid", 4, true},
			{"too_slow minus one valid", 89, true},
			{"exactly too_slow invalid", 90, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				signal := testutil.Signal(100, [2]int{0, tt.length - 1})
				got := QualityFilter(signal, pos, 10, 3, 90)
				if tt.valid {
					assert.Equal(t, signal, got)
				} else {
					assert.Equal(t, make([]int, 100), got)
				}
			})
		}
	})

	t.Run("segment spanning a long gap run dropped", func(t *testing.T) {
		gappy := testutil.WithGaps(pos, 10, 11, 12, 13, 14)
		signal := testutil.Signal(100, [2]int{5, 30})
		got := QualityFilter(signal, gappy, 5, 3, 90)
		assert.Equal(t, make([]int, 100), got)
	})

	t.Run("gap run shorter than allowance kept", func(t *testing.T) {
		gappy := testutil.WithGaps(pos, 10, 11, 12, 13)
		signal := testutil.Signal(100, [2]int{5, 30})
		got := QualityFilter(signal, gappy, 5, 3, 90)
		assert.Equal(t, signal, got)
	})

	t.Run("only invalid segments zeroed", func(t *testing.T) {
		signal := testutil.Signal(100, [2]int{0, 2}, [2]int{10, 40})
		got := QualityFilter(signal, pos, 10, 3, 90)
		want := testutil.Signal(100, [2]int{10, 40})
		assert.Equal(t, want, got)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		signal := testutil.Signal(100, [2]int{0, 2})
		_ = QualityFilter(signal, pos, 10, 3, 90)
		assert.Equal(t, 1, signal[0])
	})
}

func TestDurationFilterIdempotent(t *testing.T) {
	signal := testutil.Signal(100, [2]int{0, 2}, [2]int{10, 40}, [2]int{50, 99})
	once := DurationFilter(signal, 3, 45)
	twice := DurationFilter(once, 3, 45)
	assert.Equal(t, once, twice)
}

func TestDetectScenario(t *testing.T) {
	// 90 samples at 30 Hz, velocity sign changes at samples 1 and 41 with an
	// above-threshold amplitude swing between them: one movement of 40
	// samples which survives quality filtering with too_fast=3, too_slow=90.
	n := 90
	ts := testutil.Timestamps(n, 30)
	pos := make([]float64, n)
	vel := make([]float64, n)
	for i := 2; i <= 41; i++ {
		pos[i] = pos[i-1] + 0.25
	}
	for i := 42; i < n; i++ {
		pos[i] = pos[i-1] - 0.01
	}
	vel[1] = -0.1
	for i := 2; i <= 41; i++ {
		vel[i] = 0.25 * 30
	}
	for i := 42; i < n; i++ {
		vel[i] = -0.01 * 30
	}
	thr := testutil.Constant(n, 1.0)

	det := Detect(pos, vel, thr, ts, Params{
		ShoulderRatio: 1.0,
		MaxAllowedGap: 10,
		TooFast:       3,
		TooSlow:       90,
	})

	require.Len(t, det.Crossings, 2)
	assert.Equal(t, 1, det.Crossings[0].Index)
	assert.Equal(t, 41, det.Crossings[1].Index)

	segs := trace.OnSegments(det.Signal)
	require.Len(t, segs, 1)
	assert.Equal(t, 40, segs[0].Len())
	assert.Equal(t, 1, segs[0].Start)
	assert.Equal(t, 41-1, segs[0].End)
}
