package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/perf-timing-backend-go/internal/export"
	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"github.com/jengzang/perf-timing-backend-go/internal/repository"
	"github.com/jengzang/perf-timing-backend-go/internal/stats"
)

var (
	ErrSessionNotFound     = repository.ErrSessionNotFound
	ErrSessionNotRecording = repository.ErrSessionClosed
	ErrNoSamples           = export.ErrNoSamples
	ErrUnsupportedFormat   = export.ErrUnsupportedFormat
	ErrUnorderedSamples    = repository.ErrSamplesOutOfOrder
	ErrInvalidThreshold    = errors.New("accuracy threshold must be positive")
)

// StartSessionRequest carries the optional metadata of a new recording
type StartSessionRequest struct {
	Name         *string  `json:"name"`
	Tags         []string `json:"tags"`
	Notes        *string  `json:"notes"`
	SampleRateHz int      `json:"sampleRateHz" binding:"min=0"`
}

// SessionDetail is a stored session together with its derived figures
type SessionDetail struct {
	*models.RecordingSession
	Stats   models.SessionStats `json:"stats"`
	Quality stats.Quality       `json:"quality"`
}

// SessionService handles the recording lifecycle of sessions
type SessionService struct {
	repo      *repository.SessionRepository
	maxStored int
	now       func() time.Time
}

// NewSessionService creates a new session service keeping at most maxStored stopped sessions
func NewSessionService(repo *repository.SessionRepository, maxStored int) *SessionService {
	return &SessionService{
		repo:      repo,
		maxStored: maxStored,
		now:       time.Now,
	}
}

// StartSession opens a new recording. The sample rate is capped at models.MaxSampleRateHz.
func (s *SessionService) StartSession(ctx context.Context, req StartSessionRequest) (*models.RecordingSession, error) {
	session := models.NewRecordingSession(s.now().UTC(), req.SampleRateHz)
	session.Name = req.Name
	session.Tags = req.Tags
	session.Notes = req.Notes

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	log.Printf("[SessionService] Started session %s at %d Hz", session.ID, session.SampleRateHz)
	return session, nil
}

// AddSamples appends samples to a session that is still recording and returns
// the session's new sample count
func (s *SessionService) AddSamples(ctx context.Context, id uuid.UUID, samples []models.LocationSample) (int, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}
	if err := checkOrdered(samples); err != nil {
		return 0, err
	}

	count, err := s.repo.AppendSamples(ctx, id, samples)
	if err != nil {
		return 0, fmt.Errorf("failed to add samples to session %s: %w", id, err)
	}
	return count, nil
}

// AddDeviceFixes converts decoded device fixes into samples and appends them
func (s *SessionService) AddDeviceFixes(ctx context.Context, id uuid.UUID, fixes []models.DeviceFix) (int, error) {
	samples := make([]models.LocationSample, len(fixes))
	for i, fix := range fixes {
		samples[i] = models.SampleFromDeviceFix(fix)
	}
	return s.AddSamples(ctx, id, samples)
}

// StopSession ends a recording and prunes the oldest stopped sessions beyond the cap
func (s *SessionService) StopSession(ctx context.Context, id uuid.UUID) (*SessionDetail, error) {
	if err := s.repo.Stop(ctx, id, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to stop session %s: %w", id, err)
	}

	if s.maxStored > 0 {
		removed, err := s.repo.PruneStopped(ctx, s.maxStored)
		if err != nil {
			return nil, fmt.Errorf("failed to prune sessions: %w", err)
		}
		if len(removed) > 0 {
			log.Printf("[SessionService] Pruned %d sessions beyond the %d most recent", len(removed), s.maxStored)
		}
	}

	return s.GetSession(ctx, id)
}

// GetSession retrieves a session with its samples
func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*SessionDetail, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{
		RecordingSession: session,
		Stats:            session.Stats(),
		Quality:          stats.SessionQuality(session),
	}, nil
}

func (s *SessionService) load(ctx context.Context, id uuid.UUID) (*models.RecordingSession, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ListSessions retrieves session headers with pagination
func (s *SessionService) ListSessions(ctx context.Context, filter models.SessionFilter) (*models.SessionsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	return &models.SessionsResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// DeleteSession removes one session
func (s *SessionService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// ClearAll removes every session
func (s *SessionService) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear sessions: %w", err)
	}
	log.Printf("[SessionService] Cleared %d sessions", n)
	return n, nil
}

func checkOrdered(samples []models.LocationSample) error {
	for i := 1; i < len(samples); i++ {
		if samples[i].Timestamp.Before(samples[i-1].Timestamp) {
			return fmt.Errorf("%w: sample %d precedes sample %d", ErrUnorderedSamples, i, i-1)
		}
	}
	return nil
}
