package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/perf-timing-backend-go/internal/spatial"
)

// MaxSampleRateHz is the highest sample rate a session can be configured with
const MaxSampleRateHz = 25

// RecordingSession holds the samples of one driving run plus free-form metadata
type RecordingSession struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	StartTime    time.Time        `json:"startTime" db:"start_time"`
	EndTime      *time.Time       `json:"endTime,omitempty" db:"end_time"`
	Samples      []LocationSample `json:"samples" db:"-"`
	Name         *string          `json:"name,omitempty" db:"name"`
	Tags         []string         `json:"tags,omitempty" db:"tags_json"`
	Notes        *string          `json:"notes,omitempty" db:"notes"`
	SampleRateHz int              `json:"sampleRateHz" db:"sample_rate_hz"`
}

// NewRecordingSession creates an open session starting at startTime
func NewRecordingSession(startTime time.Time, sampleRateHz int) *RecordingSession {
	return &RecordingSession{
		ID:           uuid.New(),
		StartTime:    startTime,
		SampleRateHz: ClampSampleRate(sampleRateHz),
	}
}

// ClampSampleRate caps the rate at MaxSampleRateHz; non-positive rates fall back to the max
func ClampSampleRate(hz int) int {
	if hz <= 0 || hz > MaxSampleRateHz {
		return MaxSampleRateHz
	}
	return hz
}

// IsRecording reports whether the session is still open
func (s *RecordingSession) IsRecording() bool {
	return s.EndTime == nil
}

// Duration returns the session length in seconds
func (s *RecordingSession) Duration() float64 {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime).Seconds()
	}
	if n := len(s.Samples); n > 0 {
		return s.Samples[n-1].Timestamp.Sub(s.StartTime).Seconds()
	}
	return 0
}

// TotalDistance returns the haversine path length over all samples in meters
func (s *RecordingSession) TotalDistance() float64 {
	if len(s.Samples) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(s.Samples); i++ {
		prev, curr := s.Samples[i-1], s.Samples[i]
		total += spatial.HaversineDistance(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
	}
	return total
}

// MaxSpeed returns the highest sample speed in m/s
func (s *RecordingSession) MaxSpeed() float64 {
	max := 0.0
	for _, sample := range s.Samples {
		if sample.Speed > max {
			max = sample.Speed
		}
	}
	return max
}

// AvgSpeed returns the mean sample speed in m/s
func (s *RecordingSession) AvgSpeed() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	total := 0.0
	for _, sample := range s.Samples {
		total += sample.Speed
	}
	return total / float64(len(s.Samples))
}

// Snapshot returns a copy whose sample and tag slices do not alias the receiver's.
// Hand snapshots to the metrics engine so appends on the live session can't race with it.
func (s *RecordingSession) Snapshot() *RecordingSession {
	cp := *s
	cp.Samples = append([]LocationSample(nil), s.Samples...)
	cp.Tags = append([]string(nil), s.Tags...)
	return &cp
}

// SessionStats are the derived figures shown next to a session
type SessionStats struct {
	SampleCount     int     `json:"sampleCount"`
	DurationSeconds float64 `json:"durationSeconds"`
	TotalDistance   float64 `json:"totalDistance"`
	MaxSpeed        float64 `json:"maxSpeed"`
	AvgSpeed        float64 `json:"avgSpeed"`
}

// Stats computes the derived figures for the session
func (s *RecordingSession) Stats() SessionStats {
	return SessionStats{
		SampleCount:     len(s.Samples),
		DurationSeconds: s.Duration(),
		TotalDistance:   s.TotalDistance(),
		MaxSpeed:        s.MaxSpeed(),
		AvgSpeed:        s.AvgSpeed(),
	}
}

// SessionFilter represents pagination parameters for listing sessions
type SessionFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// SessionListItem is a session header without samples
type SessionListItem struct {
	ID           uuid.UUID  `json:"id"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Name         *string    `json:"name,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	SampleRateHz int        `json:"sampleRateHz"`
	SampleCount  int        `json:"sampleCount"`
}

// SessionsResponse represents a paginated response of sessions
type SessionsResponse struct {
	Data       []SessionListItem `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
