package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MetricType identifies a performance metric
type MetricType string

const (
	// Distance-based
	MetricSixtyFeet   MetricType = "60ft"
	MetricEighthMile  MetricType = "1/8 mile"
	MetricQuarterMile MetricType = "1/4 mile"

	// Speed-based (0 to X)
	MetricZeroToThirty  MetricType = "0-30"
	MetricZeroToForty   MetricType = "0-40"
	MetricZeroToSixty   MetricType = "0-60"
	MetricZeroToEighty  MetricType = "0-80"
	MetricZeroToHundred MetricType = "0-100"

	// Rolling intervals
	MetricThirtyToSeventy MetricType = "30-70"
	MetricFortyToHundred  MetricType = "40-100"

	// Braking
	MetricSixtyToZero MetricType = "60-0"
)

// AllMetricTypes lists every metric type in display order
var AllMetricTypes = []MetricType{
	MetricSixtyFeet, MetricEighthMile, MetricQuarterMile,
	MetricZeroToThirty, MetricZeroToForty, MetricZeroToSixty, MetricZeroToEighty, MetricZeroToHundred,
	MetricThirtyToSeventy, MetricFortyToHundred,
	MetricSixtyToZero,
}

// MetricFamily groups metric types that share a computation
type MetricFamily string

const (
	FamilyDistance MetricFamily = "distance"
	FamilySpeed    MetricFamily = "speed"
	FamilyRolling  MetricFamily = "rolling"
	FamilyBraking  MetricFamily = "braking"
)

// ParseMetricType validates a raw metric type string
func ParseMetricType(raw string) (MetricType, error) {
	for _, t := range AllMetricTypes {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown metric type %q", raw)
}

// DisplayName returns the label used in exports and listings
func (t MetricType) DisplayName() string {
	return string(t)
}

// Family returns the family the metric type belongs to
func (t MetricType) Family() MetricFamily {
	switch t {
	case MetricSixtyFeet, MetricEighthMile, MetricQuarterMile:
		return FamilyDistance
	case MetricZeroToThirty, MetricZeroToForty, MetricZeroToSixty, MetricZeroToEighty, MetricZeroToHundred:
		return FamilySpeed
	case MetricThirtyToSeventy, MetricFortyToHundred:
		return FamilyRolling
	case MetricSixtyToZero:
		return FamilyBraking
	default:
		return ""
	}
}

func (t MetricType) IsDistanceBased() bool   { return t.Family() == FamilyDistance }
func (t MetricType) IsSpeedBased() bool      { return t.Family() == FamilySpeed }
func (t MetricType) IsRollingInterval() bool { return t.Family() == FamilyRolling }
func (t MetricType) IsBraking() bool         { return t.Family() == FamilyBraking }

// MetricResult is the outcome of one metric that was reached during a run.
//
// The meaning of Distance depends on the family:
//   - distance-based: absolute cumulative target distance
//   - speed-based: cumulative distance when the target speed was reached
//   - rolling interval: cumulative distance at the end speed
//   - braking: stopping distance covered between start and end speed
type MetricResult struct {
	ID         uuid.UUID  `json:"id"`
	MetricType MetricType `json:"metricType"`

	// Timing data
	ElapsedTime    float64   `json:"elapsedTime"` // seconds
	StartTimestamp time.Time `json:"startTimestamp"`
	EndTimestamp   time.Time `json:"endTimestamp"`

	// Speed data, m/s
	TrapSpeed float64 `json:"trapSpeed"`
	PeakSpeed float64 `json:"peakSpeed"`

	// Distance data, meters
	Distance      float64 `json:"distance"`
	StartDistance float64 `json:"startDistance"`

	// Quality indicators
	AvgHorizontalAccuracy float64 `json:"avgHorizontalAccuracy"`
	SampleCount           int     `json:"sampleCount"`
	IsReliable            bool    `json:"isReliable"`
}

// MetricsSummary collects the metrics computed for one session
type MetricsSummary struct {
	SessionID  uuid.UUID      `json:"sessionId"`
	ComputedAt time.Time      `json:"computedAt"`
	Results    []MetricResult `json:"results"`

	// Configuration used for the calculation
	AccuracyThreshold float64 `json:"accuracyThreshold"` // meters
	UseFilteredData   bool    `json:"useFilteredData"`
}

// ResultFor returns the result for a metric type, or nil when it was not reached
func (s *MetricsSummary) ResultFor(t MetricType) *MetricResult {
	for i := range s.Results {
		if s.Results[i].MetricType == t {
			return &s.Results[i]
		}
	}
	return nil
}
