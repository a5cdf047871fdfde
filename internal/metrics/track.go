package metrics

import (
	"time"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"github.com/jengzang/perf-timing-backend-go/internal/spatial"
)

// DetectStart returns the index of the first sample of the run: the first sample
// above the movement threshold whose predecessor was at or below it. A recording
// that is already moving at its first sample starts at 0. ok is false when the
// vehicle never departs from rest.
func DetectStart(samples []models.LocationSample) (idx int, ok bool) {
	if len(samples) < 2 {
		return 0, false
	}

	for i := 0; i < len(samples)-1; i++ {
		if samples[i].Speed <= MovementThreshold && samples[i+1].Speed > MovementThreshold {
			return i + 1, true
		}
	}

	if samples[0].Speed > MovementThreshold {
		return 0, true
	}
	return 0, false
}

// CumulativeDistances returns the haversine path length at every sample, measured
// from startIndex (where it is zero). Samples before startIndex get negative values
// accumulated backwards; braking reads one when its onset is the start sample.
//
// Values are not clamped: a backtracking position trace makes the sequence decrease.
func CumulativeDistances(samples []models.LocationSample, startIndex int) []float64 {
	distances := make([]float64, len(samples))
	if startIndex < 0 || startIndex >= len(samples) {
		return distances
	}

	for i := startIndex + 1; i < len(samples); i++ {
		distances[i] = distances[i-1] + segmentLength(samples[i-1], samples[i])
	}
	for i := startIndex - 1; i >= 0; i-- {
		distances[i] = distances[i+1] - segmentLength(samples[i], samples[i+1])
	}

	return distances
}

func segmentLength(a, b models.LocationSample) float64 {
	return spatial.HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// LinearInterpolate returns y at x on the line through (x0, y0) and (x1, y1).
// A degenerate segment (x0 == x1) yields y0.
func LinearInterpolate(x0, y0, x1, y1, x float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// track is the per-call view shared by the metric families
type track struct {
	samples   []models.LocationSample
	distances []float64
	start     int
	threshold float64
}

// point is a reconstructed moment on the track
type point struct {
	at       time.Time
	distance float64
	speed    float64
}

// sampleAt returns sample i as a point without interpolation
func (t *track) sampleAt(i int) point {
	return point{at: t.samples[i].Timestamp, distance: t.distances[i], speed: t.samples[i].Speed}
}

// atSpeed reconstructs the moment between samples i-1 and i where speed equals target
func (t *track) atSpeed(i int, target float64) point {
	prev, curr := t.samples[i-1], t.samples[i]
	offset := LinearInterpolate(prev.Speed, 0, curr.Speed, curr.Timestamp.Sub(prev.Timestamp).Seconds(), target)
	return point{
		at:       prev.Timestamp.Add(seconds(offset)),
		distance: LinearInterpolate(prev.Speed, t.distances[i-1], curr.Speed, t.distances[i], target),
		speed:    target,
	}
}

// atDistance reconstructs the moment between samples i-1 and i where cumulative distance equals target
func (t *track) atDistance(i int, target float64) point {
	prev, curr := t.samples[i-1], t.samples[i]
	d0, d1 := t.distances[i-1], t.distances[i]
	offset := LinearInterpolate(d0, 0, d1, curr.Timestamp.Sub(prev.Timestamp).Seconds(), target)
	return point{
		at:       prev.Timestamp.Add(seconds(offset)),
		distance: target,
		speed:    LinearInterpolate(d0, prev.Speed, d1, curr.Speed, target),
	}
}

// firstIndex returns the first index >= from whose sample satisfies pred
func (t *track) firstIndex(from int, pred func(i int) bool) (int, bool) {
	for i := from; i < len(t.samples); i++ {
		if pred(i) {
			return i, true
		}
	}
	return 0, false
}

// window summarizes samples [from, to]
type window struct {
	peakSpeed   float64
	avgAccuracy float64
	count       int
	reliable    bool
}

func (t *track) window(from, to int) window {
	peak := t.samples[from].Speed
	total := 0.0
	for i := from; i <= to; i++ {
		if t.samples[i].Speed > peak {
			peak = t.samples[i].Speed
		}
		total += t.samples[i].HorizontalAccuracy
	}
	count := to - from + 1
	avg := total / float64(count)
	return window{
		peakSpeed:   peak,
		avgAccuracy: avg,
		count:       count,
		reliable:    avg < t.threshold,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
