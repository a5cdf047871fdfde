package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jengzang/perf-timing-backend-go/internal/metrics"
	"github.com/jengzang/perf-timing-backend-go/internal/models"
)

// MetricTypeInfo describes one computable metric
type MetricTypeInfo struct {
	Type       models.MetricType   `json:"type"`
	Family     models.MetricFamily `json:"family"`
	Definition metrics.Definition  `json:"definition"`
}

type summaryKey struct {
	sessionID uuid.UUID
	threshold float64
}

// MetricsService computes performance metrics for stored and ad-hoc sample sets.
// Summaries of stopped sessions are cached since their samples can no longer change.
type MetricsService struct {
	sessions         *SessionService
	engine           *metrics.Engine
	cache            *lru.Cache[summaryKey, *models.MetricsSummary]
	defaultThreshold float64
}

// NewMetricsService creates a metrics service; cacheSize < 1 disables caching
func NewMetricsService(sessions *SessionService, engine *metrics.Engine, defaultThreshold float64, cacheSize int) (*MetricsService, error) {
	s := &MetricsService{
		sessions:         sessions,
		engine:           engine,
		defaultThreshold: defaultThreshold,
	}
	if cacheSize > 0 {
		cache, err := lru.New[summaryKey, *models.MetricsSummary](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// MetricTypes lists the metrics the engine computes, in computation order
func (s *MetricsService) MetricTypes() []MetricTypeInfo {
	defs := s.engine.Definitions()
	out := make([]MetricTypeInfo, len(defs))
	for i, def := range defs {
		out[i] = MetricTypeInfo{Type: def.Type, Family: def.Family, Definition: def}
	}
	return out
}

// ComputeForSession computes the summary of a stored session. A nil threshold
// uses the configured default.
func (s *MetricsService) ComputeForSession(ctx context.Context, id uuid.UUID, threshold *float64) (*models.MetricsSummary, error) {
	t, err := s.threshold(threshold)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.load(ctx, id)
	if err != nil {
		return nil, err
	}

	key := summaryKey{sessionID: id, threshold: t}
	cacheable := s.cache != nil && !session.IsRecording()
	if cacheable {
		if summary, ok := s.cache.Get(key); ok {
			return summary, nil
		}
	}

	summary, err := s.engine.ComputeMetricsContext(ctx, session.Snapshot(), t)
	if err != nil {
		return nil, fmt.Errorf("failed to compute metrics for session %s: %w", id, err)
	}

	if cacheable {
		s.cache.Add(key, summary)
	}
	return summary, nil
}

// Compute computes the summary of an unsaved sample sequence
func (s *MetricsService) Compute(ctx context.Context, samples []models.LocationSample, threshold *float64) (*models.MetricsSummary, error) {
	t, err := s.threshold(threshold)
	if err != nil {
		return nil, err
	}
	if err := checkOrdered(samples); err != nil {
		return nil, err
	}

	session := &models.RecordingSession{ID: uuid.New(), Samples: samples}
	if len(samples) > 0 {
		session.StartTime = samples[0].Timestamp
	}

	summary, err := s.engine.ComputeMetricsContext(ctx, session, t)
	if err != nil {
		return nil, fmt.Errorf("failed to compute metrics: %w", err)
	}
	return summary, nil
}

func (s *MetricsService) threshold(v *float64) (float64, error) {
	if v == nil {
		return s.defaultThreshold, nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return 0, ErrInvalidThreshold
	}
	return *v, nil
}
