package metrics

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Elapsed times are measured from the detected run start, which for a trace that
// leaves rest lies one sample past the movement threshold. Expectations below
// therefore subtract the start offset t0 and the distance d0 already covered by then.

func TestDistanceMetrics(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		metric    models.MetricType
		target    float64
		accel     float64
		duration  float64
		tolerance float64
	}{
		{"60ft", models.MetricSixtyFeet, SixtyFeet, 5.0, 5, 0.1},
		{"eighth mile", models.MetricEighthMile, EighthMile, 4.0, 12, 0.2},
		{"quarter mile", models.MetricQuarterMile, QuarterMile, 3.5, 18, 0.3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			session := syntheticSession(constantAcceleration(tc.accel), tc.duration, 25, 2.0)
			summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)

			result := summary.ResultFor(tc.metric)
			require.NotNil(t, result, "%s not reached", tc.metric)

			t0 := runStartSeconds(session)
			d0 := 0.5 * tc.accel * t0 * t0
			absolute := math.Sqrt(2 * (tc.target + d0) / tc.accel)

			assert.InDelta(t, absolute-t0, result.ElapsedTime, tc.tolerance)
			assert.GreaterOrEqual(t, result.Distance, tc.target)
			assert.InDelta(t, tc.accel*absolute, result.TrapSpeed, 0.05)
			assert.GreaterOrEqual(t, result.PeakSpeed, result.TrapSpeed)
			assert.Zero(t, result.StartDistance)
			assert.True(t, result.IsReliable)
			assert.InDelta(t, 2.0, result.AvgHorizontalAccuracy, 1e-9)
			assert.True(t, result.EndTimestamp.After(result.StartTimestamp))
		})
	}
}

func TestZeroToSixty(t *testing.T) {
	t.Parallel()

	const accel = 4.0
	session := syntheticSession(constantAcceleration(accel), 8, 25, 2.0)
	summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)

	result := summary.ResultFor(models.MetricZeroToSixty)
	require.NotNil(t, result)

	t0 := runStartSeconds(session)
	assert.InDelta(t, MPH60/accel-t0, result.ElapsedTime, 0.2)
	assert.GreaterOrEqual(t, result.TrapSpeed, 26.8)
	assert.Equal(t, MPH60, result.TrapSpeed)

	// Distance is the cumulative distance from the run start at 60 mph
	wantDistance := 0.5*accel*math.Pow(MPH60/accel, 2) - 0.5*accel*t0*t0
	assert.InDelta(t, wantDistance, result.Distance, 0.5)

	// start at sample 6 (0.96 m/s), first sample at or above 60 mph is 168 (26.88 m/s)
	assert.Equal(t, 163, result.SampleCount)
}

func TestSpeedMetricsReachedAndOmitted(t *testing.T) {
	t.Parallel()

	// 4 m/s² for 10 s tops out at 40 m/s after 200 m
	session := syntheticSession(constantAcceleration(4.0), 10, 25, 2.0)
	summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)

	for _, reached := range []models.MetricType{
		models.MetricSixtyFeet,
		models.MetricZeroToThirty, models.MetricZeroToForty, models.MetricZeroToSixty, models.MetricZeroToEighty,
		models.MetricThirtyToSeventy,
	} {
		assert.NotNil(t, summary.ResultFor(reached), "%s should be reached", reached)
	}
	for _, omitted := range []models.MetricType{
		models.MetricEighthMile, models.MetricQuarterMile,
		models.MetricZeroToHundred, models.MetricFortyToHundred, models.MetricSixtyToZero,
	} {
		assert.Nil(t, summary.ResultFor(omitted), "%s should be omitted", omitted)
	}
	assert.Len(t, summary.Results, 6)

	for _, r := range summary.Results {
		assert.GreaterOrEqual(t, r.SampleCount, 1)
		assert.GreaterOrEqual(t, r.Distance, 0.0)
		assert.GreaterOrEqual(t, r.StartDistance, 0.0)
	}
}

func TestRollingInterval(t *testing.T) {
	t.Parallel()

	const accel = 4.0
	session := syntheticSession(constantAcceleration(accel), 10, 25, 2.0)
	summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)

	result := summary.ResultFor(models.MetricThirtyToSeventy)
	require.NotNil(t, result)

	assert.InDelta(t, (MPH70-MPH30)/accel, result.ElapsedTime, 0.3)
	assert.GreaterOrEqual(t, result.TrapSpeed, 31.0)

	t0 := runStartSeconds(session)
	d0 := 0.5 * accel * t0 * t0
	assert.InDelta(t, MPH30*MPH30/(2*accel)-d0, result.StartDistance, 0.5)
	assert.InDelta(t, MPH70*MPH70/(2*accel)-d0, result.Distance, 0.5)
	assert.True(t, result.EndTimestamp.After(result.StartTimestamp))
}

func TestRollingStartAlreadyAboveLowerBound(t *testing.T) {
	t.Parallel()

	// Recording begins mid-run at 20 m/s accelerating at 2 m/s²
	p := func(t float64) (float64, float64) { return 20 + 2*t, 20*t + t*t }
	session := syntheticSession(p, 8, 25, 2.0)
	summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)

	rolling := summary.ResultFor(models.MetricThirtyToSeventy)
	require.NotNil(t, rolling)
	assert.Equal(t, session.Samples[0].Timestamp, rolling.StartTimestamp)
	assert.InDelta(t, (MPH70-20)/2, rolling.ElapsedTime, 0.01)
	assert.Zero(t, rolling.StartDistance)

	// Target speed already exceeded at the run start: no interpolation, single sample
	zeroToThirty := summary.ResultFor(models.MetricZeroToThirty)
	require.NotNil(t, zeroToThirty)
	assert.Zero(t, zeroToThirty.ElapsedTime)
	assert.Equal(t, 1, zeroToThirty.SampleCount)
	assert.Equal(t, MPH30, zeroToThirty.TrapSpeed)
}

func TestBrakingMetric(t *testing.T) {
	t.Parallel()

	const (
		accel = 5.0
		peak  = 30.0
		brake = 10.0
	)
	session := syntheticSession(accelerateThenBrake(accel, peak, brake), 10, 25, 2.0)
	summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)

	result := summary.ResultFor(models.MetricSixtyToZero)
	require.NotNil(t, result)

	// Brake onset is the first time 60 mph is reached, on the way up
	wantDistance := (peak*peak-MPH60*MPH60)/(2*accel) + peak*peak/(2*brake)
	wantElapsed := (peak-MPH60)/accel + peak/brake

	assert.InDelta(t, wantDistance, result.Distance, 0.05)
	assert.InDelta(t, wantElapsed, result.ElapsedTime, 0.01)
	assert.Zero(t, result.TrapSpeed)
	assert.InDelta(t, peak, result.PeakSpeed, 1e-6)
	assert.InDelta(t, MPH60*MPH60/(2*accel)-0.5*accel*math.Pow(runStartSeconds(session), 2), result.StartDistance, 0.05)
}

func TestBrakingDropsNegativeStoppingDistance(t *testing.T) {
	t.Parallel()

	session := sessionFromTrace([][3]float64{{0, 0, 0}, {0, 1, 27}, {0, 2, 30}, {0, 3, 0}})
	tr := &track{
		samples:   session.Samples,
		distances: []float64{0, 50, 40, 30}, // backtracking trace
		start:     0,
		threshold: DefaultAccuracyThreshold,
	}

	_, ok := tr.brakingMetric(Definition{Type: models.MetricSixtyToZero, Family: models.FamilyBraking, StartSpeed: MPH60})
	assert.False(t, ok)
}

func TestBrakingOnsetAtRunStartReachesBehindStart(t *testing.T) {
	t.Parallel()

	// The run starts at the 28 m/s sample; onset is interpolated back toward the
	// stationary sample, which sits 10 m before the start
	session := sessionFromTrace([][3]float64{{0, 0, 0}, {10, 1, 28}, {30, 2, 20}, {50, 3, 0}})
	summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)

	result := summary.ResultFor(models.MetricSixtyToZero)
	require.NotNil(t, result)

	wantStart := -10 * (1 - MPH60/28)
	assert.InDelta(t, wantStart, result.StartDistance, 1e-3)
	assert.Less(t, result.StartDistance, 0.0)
	assert.InDelta(t, 40-wantStart, result.Distance, 1e-3)
}

func TestBrakingNeedsStopAfterOnset(t *testing.T) {
	t.Parallel()

	// Reaches 60 mph on the last sample, so there is nothing after onset
	session := sessionFromTrace([][3]float64{{0, 0, 0}, {10, 1, 10}, {40, 2, 27}})
	summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)
	assert.Nil(t, summary.ResultFor(models.MetricSixtyToZero))
}

func TestInterpolationBetweenSamples(t *testing.T) {
	t.Parallel()

	t.Run("standing start leaves too little distance", func(t *testing.T) {
		// The run starts at the second sample, leaving only 10 m before the trace ends
		session := sessionFromTrace([][3]float64{{0, 0, 0}, {15, 2.0, 10}, {25, 3.5, 15}})
		summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)
		assert.Nil(t, summary.ResultFor(models.MetricSixtyFeet))
	})

	t.Run("already moving at first sample", func(t *testing.T) {
		session := sessionFromTrace([][3]float64{{0, 0, 1.0}, {15, 2.0, 10}, {25, 3.5, 15}})
		summary := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)

		result := summary.ResultFor(models.MetricSixtyFeet)
		require.NotNil(t, result)
		assert.Greater(t, result.ElapsedTime, 2.0)
		assert.Less(t, result.ElapsedTime, 3.5)
		assert.GreaterOrEqual(t, result.Distance, SixtyFeet)

		frac := (SixtyFeet - 15) / 10
		assert.InDelta(t, 2.0+1.5*frac, result.ElapsedTime, 1e-6)
		assert.InDelta(t, 10+5*frac, result.TrapSpeed, 1e-6)
		assert.Equal(t, 3, result.SampleCount)
	})
}

func TestReliabilityFlag(t *testing.T) {
	t.Parallel()

	session := syntheticSession(constantAcceleration(4.0), 10, 25, 100.0)
	summary := NewEngine().ComputeMetrics(session, 50.0)

	require.NotEmpty(t, summary.Results)
	for _, r := range summary.Results {
		assert.False(t, r.IsReliable, "%s should be unreliable", r.MetricType)
		assert.Greater(t, r.AvgHorizontalAccuracy, 50.0)
	}
	assert.Equal(t, 50.0, summary.AccuracyThreshold)

	// The comparison is strict
	boundary := NewEngine().ComputeMetrics(syntheticSession(constantAcceleration(4.0), 10, 25, 50.0), 50.0)
	require.NotEmpty(t, boundary.Results)
	assert.False(t, boundary.Results[0].IsReliable)
}

func TestEmptyResults(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	cases := map[string]*models.RecordingSession{
		"no samples":     models.NewRecordingSession(epoch, 25),
		"single sample":  sessionFromTrace([][3]float64{{0, 0, 20}}),
		"never departed": sessionFromTrace([][3]float64{{0, 0, 0}, {0.1, 1, 0.5}, {0.2, 2, 0.894}, {0.3, 3, 0.2}}),
	}
	for name, session := range cases {
		summary := engine.ComputeMetrics(session, DefaultAccuracyThreshold)
		assert.Empty(t, summary.Results, name)
		assert.NotNil(t, summary.Results, name)
		assert.Equal(t, session.ID, summary.SessionID, name)
	}
}

func TestIdempotence(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	fixed := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return fixed }

	session := syntheticSession(accelerateThenBrake(3, 46, 9), 22, 25, 3.0)
	first := engine.ComputeMetrics(session, DefaultAccuracyThreshold)
	second := engine.ComputeMetrics(session, DefaultAccuracyThreshold)

	require.Len(t, first.Results, len(DefaultDefinitions()))
	assert.Equal(t, first, second)
}

func TestFamilyIndependence(t *testing.T) {
	t.Parallel()

	session := syntheticSession(accelerateThenBrake(3, 46, 9), 22, 25, 3.0)
	baseline := NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)

	var altered []Definition
	for _, def := range DefaultDefinitions() {
		switch def.Type {
		case models.MetricSixtyFeet:
			continue // removed
		case models.MetricZeroToSixty:
			def.EndSpeed = 20
		}
		altered = append(altered, def)
	}
	custom := NewEngineWithDefinitions(altered).ComputeMetrics(session, DefaultAccuracyThreshold)

	assert.Nil(t, custom.ResultFor(models.MetricSixtyFeet))
	assert.Equal(t, 20.0, custom.ResultFor(models.MetricZeroToSixty).TrapSpeed)

	for _, r := range custom.Results {
		if r.MetricType == models.MetricZeroToSixty {
			continue
		}
		assert.Equal(t, *baseline.ResultFor(r.MetricType), r, "%s changed", r.MetricType)
	}
}

func TestComputeMetricsContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := syntheticSession(constantAcceleration(4.0), 10, 25, 2.0)
	summary, err := NewEngine().ComputeMetricsContext(ctx, session, DefaultAccuracyThreshold)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Results)
}

func TestComputeDoesNotMutateSession(t *testing.T) {
	t.Parallel()

	session := syntheticSession(constantAcceleration(4.0), 10, 25, 2.0)
	before := session.Snapshot()

	NewEngine().ComputeMetrics(session, DefaultAccuracyThreshold)
	assert.Equal(t, before.Samples, session.Samples)
}
