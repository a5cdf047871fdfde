package metrics

import (
	"testing"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
)

func speeds(values ...float64) []models.LocationSample {
	out := make([]models.LocationSample, len(values))
	for i, v := range values {
		out[i] = models.LocationSample{Speed: v}
	}
	return out
}

func TestDetectStart(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		speeds []float64
		want   int
		ok     bool
	}{
		{"departure from rest", []float64{0, 0, 1.2, 3}, 2, true},
		{"threshold is inclusive at rest", []float64{MovementThreshold, 0.895}, 1, true},
		{"already moving", []float64{1, 2, 3}, 0, true},
		{"transition wins over moving first sample", []float64{1, 0, 2}, 2, true},
		{"never moves", []float64{0, 0.5, MovementThreshold}, 0, false},
		{"single sample", []float64{5}, 0, false},
		{"empty", nil, 0, false},
	}

	for _, tc := range cases {
		got, ok := DetectStart(speeds(tc.speeds...))
		assert.Equal(t, tc.ok, ok, tc.name)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.name)
		}
	}
}

func TestCumulativeDistances(t *testing.T) {
	t.Parallel()

	session := sessionFromTrace([][3]float64{{0, 0, 0}, {10, 1, 1}, {25, 2, 2}, {40, 3, 3}})

	got := CumulativeDistances(session.Samples, 1)
	want := []float64{-10, 0, 15, 30}
	assert.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6, "index %d", i)
	}

	// out of range start leaves everything at zero
	assert.Equal(t, []float64{0, 0, 0, 0}, CumulativeDistances(session.Samples, 4))
}

func TestLinearInterpolate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5.0, LinearInterpolate(0, 0, 10, 10, 5))
	assert.Equal(t, 2.5, LinearInterpolate(10, 2, 20, 3, 15))
	assert.Equal(t, 7.0, LinearInterpolate(3, 7, 3, 9, 100), "degenerate segment returns y0")
	assert.Equal(t, 20.0, LinearInterpolate(0, 0, 1, 10, 2), "extrapolates outside the segment")
}

func TestWindow(t *testing.T) {
	t.Parallel()

	samples := speeds(1, 5, 3, 9)
	for i := range samples {
		samples[i].HorizontalAccuracy = float64(10 * (i + 1))
	}
	tr := &track{samples: samples, distances: make([]float64, 4), threshold: 30}

	w := tr.window(1, 2)
	assert.Equal(t, 5.0, w.peakSpeed)
	assert.Equal(t, 25.0, w.avgAccuracy)
	assert.Equal(t, 2, w.count)
	assert.True(t, w.reliable)

	w = tr.window(2, 3)
	assert.Equal(t, 9.0, w.peakSpeed)
	assert.Equal(t, 35.0, w.avgAccuracy)
	assert.False(t, w.reliable)
}
