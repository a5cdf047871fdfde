package metrics

import (
	"log"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
)

// distanceMetric times the run from its start sample to the target distance
func (t *track) distanceMetric(def Definition) (models.MetricResult, bool) {
	startDistance := t.distances[t.start]
	target := startDistance + def.Distance

	end, ok := t.firstIndex(t.start, func(i int) bool { return t.distances[i] >= target })
	if !ok {
		return models.MetricResult{}, false
	}

	origin := t.sampleAt(t.start)
	finish := t.sampleAt(end)
	if end != t.start {
		finish = t.atDistance(end, target)
	}

	w := t.window(t.start, end)
	return models.MetricResult{
		MetricType:            def.Type,
		ElapsedTime:           finish.at.Sub(origin.at).Seconds(),
		StartTimestamp:        origin.at,
		EndTimestamp:          finish.at,
		TrapSpeed:             finish.speed,
		PeakSpeed:             w.peakSpeed,
		Distance:              target,
		StartDistance:         startDistance,
		AvgHorizontalAccuracy: w.avgAccuracy,
		SampleCount:           w.count,
		IsReliable:            w.reliable,
	}, true
}

// speedMetric times the run from its start sample to the target speed
func (t *track) speedMetric(def Definition) (models.MetricResult, bool) {
	target := def.EndSpeed

	end, ok := t.firstIndex(t.start, func(i int) bool { return t.samples[i].Speed >= target })
	if !ok {
		return models.MetricResult{}, false
	}

	origin := t.sampleAt(t.start)
	finish := t.sampleAt(end)
	if end != t.start {
		finish = t.atSpeed(end, target)
	}

	w := t.window(t.start, end)
	return models.MetricResult{
		MetricType:            def.Type,
		ElapsedTime:           finish.at.Sub(origin.at).Seconds(),
		StartTimestamp:        origin.at,
		EndTimestamp:          finish.at,
		TrapSpeed:             target,
		PeakSpeed:             w.peakSpeed,
		Distance:              finish.distance,
		StartDistance:         origin.distance,
		AvgHorizontalAccuracy: w.avgAccuracy,
		SampleCount:           w.count,
		IsReliable:            w.reliable,
	}, true
}

// rollingMetric times the interval between two non-zero speeds
func (t *track) rollingMetric(def Definition) (models.MetricResult, bool) {
	lo, hi := def.StartSpeed, def.EndSpeed

	from, ok := t.firstIndex(t.start, func(i int) bool { return t.samples[i].Speed >= lo })
	if !ok {
		return models.MetricResult{}, false
	}
	to, ok := t.firstIndex(from, func(i int) bool { return t.samples[i].Speed >= hi })
	if !ok {
		return models.MetricResult{}, false
	}

	begin := t.sampleAt(from)
	if from != 0 && from != t.start && t.samples[from-1].Speed < lo {
		begin = t.atSpeed(from, lo)
	}
	finish := t.sampleAt(to)
	if to != 0 && to != from && t.samples[to-1].Speed < hi {
		finish = t.atSpeed(to, hi)
	}

	w := t.window(from, to)
	return models.MetricResult{
		MetricType:            def.Type,
		ElapsedTime:           finish.at.Sub(begin.at).Seconds(),
		StartTimestamp:        begin.at,
		EndTimestamp:          finish.at,
		TrapSpeed:             hi,
		PeakSpeed:             w.peakSpeed,
		Distance:              finish.distance,
		StartDistance:         begin.distance,
		AvgHorizontalAccuracy: w.avgAccuracy,
		SampleCount:           w.count,
		IsReliable:            w.reliable,
	}, true
}

// brakingMetric measures the stop from StartSpeed down to EndSpeed. The result is
// dropped when the stopping distance comes out negative, which only happens with a
// non-monotonic position trace.
func (t *track) brakingMetric(def Definition) (models.MetricResult, bool) {
	from, ok := t.firstIndex(t.start, func(i int) bool { return t.samples[i].Speed >= def.StartSpeed })
	if !ok {
		return models.MetricResult{}, false
	}
	// The stop is always searched strictly after brake onset
	to, ok := t.firstIndex(from+1, func(i int) bool { return t.samples[i].Speed <= def.EndSpeed })
	if !ok {
		return models.MetricResult{}, false
	}

	begin := t.sampleAt(from)
	if from != 0 && t.samples[from-1].Speed < def.StartSpeed {
		begin = t.atSpeed(from, def.StartSpeed)
	}
	finish := t.atSpeed(to, def.EndSpeed)

	stopping := finish.distance - begin.distance
	if stopping < 0 {
		log.Printf("[MetricsEngine] Dropping %s: negative stopping distance %.3f m between samples %d and %d (non-monotonic positions)",
			def.Type, stopping, from, to)
		return models.MetricResult{}, false
	}

	w := t.window(from, to)
	return models.MetricResult{
		MetricType:            def.Type,
		ElapsedTime:           finish.at.Sub(begin.at).Seconds(),
		StartTimestamp:        begin.at,
		EndTimestamp:          finish.at,
		TrapSpeed:             def.EndSpeed,
		PeakSpeed:             w.peakSpeed,
		Distance:              stopping,
		StartDistance:         begin.distance,
		AvgHorizontalAccuracy: w.avgAccuracy,
		SampleCount:           w.count,
		IsReliable:            w.reliable,
	}, true
}
