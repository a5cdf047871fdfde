// Package metrics computes drag-strip style performance metrics (acceleration,
// distance traps, rolling intervals, braking) from an ordered telemetry trace.
//
// The engine is stateless: every call recomputes from the full sample set and
// unreached metrics are simply absent from the summary.
package metrics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/perf-timing-backend-go/internal/models"
)

// Engine computes MetricsSummary values. It holds no mutable state and is safe
// for concurrent use; callers must not mutate the samples while a call runs.
type Engine struct {
	definitions []Definition
	now         func() time.Time
}

// NewEngine creates an engine computing the default metric set
func NewEngine() *Engine {
	return NewEngineWithDefinitions(DefaultDefinitions())
}

// NewEngineWithDefinitions creates an engine for a custom metric set
func NewEngineWithDefinitions(defs []Definition) *Engine {
	return &Engine{
		definitions: append([]Definition(nil), defs...),
		now:         time.Now,
	}
}

// Definitions returns the metric definitions the engine computes
func (e *Engine) Definitions() []Definition {
	return append([]Definition(nil), e.definitions...)
}

// ComputeMetrics computes every reachable metric for the session
func (e *Engine) ComputeMetrics(session *models.RecordingSession, accuracyThreshold float64) *models.MetricsSummary {
	summary, _ := e.ComputeMetricsContext(context.Background(), session, accuracyThreshold)
	return summary
}

// ComputeMetricsContext is ComputeMetrics with cooperative cancellation checked
// between metrics. On cancellation it returns the partial summary and ctx.Err().
func (e *Engine) ComputeMetricsContext(ctx context.Context, session *models.RecordingSession, accuracyThreshold float64) (*models.MetricsSummary, error) {
	summary := &models.MetricsSummary{
		SessionID:         session.ID,
		ComputedAt:        e.now(),
		Results:           []models.MetricResult{},
		AccuracyThreshold: accuracyThreshold,
	}

	samples := session.Samples
	if len(samples) < 2 {
		return summary, nil
	}

	start, ok := DetectStart(samples)
	if !ok {
		return summary, nil
	}

	t := &track{
		samples:   samples,
		distances: CumulativeDistances(samples, start),
		start:     start,
		threshold: accuracyThreshold,
	}

	for _, def := range e.definitions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, ok := t.compute(def)
		if !ok {
			continue
		}
		// Derived from session and type so repeated runs yield identical results
		result.ID = uuid.NewSHA1(session.ID, []byte(def.Type))
		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

func (t *track) compute(def Definition) (models.MetricResult, bool) {
	switch def.Family {
	case models.FamilyDistance:
		return t.distanceMetric(def)
	case models.FamilySpeed:
		return t.speedMetric(def)
	case models.FamilyRolling:
		return t.rollingMetric(def)
	case models.FamilyBraking:
		return t.brakingMetric(def)
	default:
		return models.MetricResult{}, false
	}
}
