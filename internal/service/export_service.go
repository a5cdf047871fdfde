package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jengzang/perf-timing-backend-go/internal/export"
	"github.com/jengzang/perf-timing-backend-go/internal/models"
)

// ExportFile is a rendered session ready for download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders stored sessions into export formats
type ExportService struct {
	sessions *SessionService
	metrics  *MetricsService
}

// NewExportService creates a new export service
func NewExportService(sessions *SessionService, metrics *MetricsService) *ExportService {
	return &ExportService{sessions: sessions, metrics: metrics}
}

// Export renders the session in the named format, including its metrics
// summary for the formats that carry one
func (s *ExportService) Export(ctx context.Context, id uuid.UUID, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(session.Samples) == 0 {
		return nil, ErrNoSamples
	}

	var summary *models.MetricsSummary
	if format == export.FormatJSON || format == export.FormatCSV {
		summary, err = s.metrics.ComputeForSession(ctx, id, nil)
		if err != nil {
			return nil, err
		}
	}

	data, err := export.Export(session, summary, format)
	if err != nil {
		return nil, fmt.Errorf("failed to export session %s: %w", id, err)
	}

	return &ExportFile{
		Filename:    export.SuggestedFilename(session, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Bundle packs the session in every format into one tar.gz download
func (s *ExportService) Bundle(ctx context.Context, id uuid.UUID) (*ExportFile, error) {
	session, err := s.sessions.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(session.Samples) == 0 {
		return nil, ErrNoSamples
	}

	summary, err := s.metrics.ComputeForSession(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	data, err := export.Bundle(ctx, session, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to bundle session %s: %w", id, err)
	}

	return &ExportFile{
		Filename:    export.BundleFilename(session),
		ContentType: export.BundleContentType,
		Data:        data,
	}, nil
}
