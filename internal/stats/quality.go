package stats

import (
	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"github.com/jengzang/perf-timing-backend-go/internal/spatial"
)

const (
	// gapFactor marks an interval as a dropout when it exceeds the nominal period by this factor
	gapFactor = 3.0
	// movingSpeed is the speed (m/s) above which headings count toward the course figures
	movingSpeed = 1.0
)

// Quality summarizes the GNSS signal quality of a recording
type Quality struct {
	SampleCount int `json:"sampleCount"`

	// Horizontal accuracy, meters
	AccuracyMean float64 `json:"accuracyMean"`
	AccuracyP50  float64 `json:"accuracyP50"`
	AccuracyP95  float64 `json:"accuracyP95"`

	// Sample spacing, seconds
	IntervalMean    float64 `json:"intervalMean"`
	IntervalMax     float64 `json:"intervalMax"`
	EffectiveRateHz float64 `json:"effectiveRateHz"`
	Gaps            int     `json:"gaps"`

	SatellitesMean float64                `json:"satellitesMean,omitempty"`
	FixTypes       map[models.FixType]int `json:"fixTypes"`

	// Course while moving, degrees. A straight pass has a small spread.
	HeadingMean   *float64 `json:"headingMean,omitempty"`
	HeadingSpread *float64 `json:"headingSpread,omitempty"`
}

// SessionQuality computes the quality summary of a session's samples
func SessionQuality(session *models.RecordingSession) Quality {
	q := Quality{
		SampleCount: len(session.Samples),
		FixTypes:    map[models.FixType]int{},
	}
	if q.SampleCount == 0 {
		return q
	}

	accuracies := make([]float64, 0, q.SampleCount)
	var satellites, headings []float64
	for _, s := range session.Samples {
		accuracies = append(accuracies, s.HorizontalAccuracy)
		q.FixTypes[s.FixType]++
		if s.Satellites != nil {
			satellites = append(satellites, float64(*s.Satellites))
		}
		if s.Heading != nil && s.Speed > movingSpeed {
			headings = append(headings, *s.Heading)
		}
	}
	q.AccuracyMean = Mean(accuracies)
	p := Percentiles(accuracies, 50, 95)
	q.AccuracyP50, q.AccuracyP95 = p[0], p[1]
	q.SatellitesMean = Mean(satellites)
	if len(headings) > 0 {
		q.HeadingMean = models.Float64(spatial.MeanHeading(headings))
		q.HeadingSpread = models.Float64(spatial.HeadingSpread(headings))
	}

	if q.SampleCount < 2 {
		return q
	}

	intervals := make([]float64, 0, q.SampleCount-1)
	for i := 1; i < q.SampleCount; i++ {
		intervals = append(intervals, session.Samples[i].Timestamp.Sub(session.Samples[i-1].Timestamp).Seconds())
	}
	q.IntervalMean = Mean(intervals)
	q.IntervalMax = Max(intervals)
	if q.IntervalMean > 0 {
		q.EffectiveRateHz = 1 / q.IntervalMean
	}

	if session.SampleRateHz > 0 {
		limit := gapFactor / float64(session.SampleRateHz)
		for _, dt := range intervals {
			if dt > limit {
				q.Gaps++
			}
		}
	}

	return q
}
