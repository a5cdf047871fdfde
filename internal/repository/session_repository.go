package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/perf-timing-backend-go/internal/database"
	"github.com/jengzang/perf-timing-backend-go/internal/models"
)

var (
	// ErrSessionNotFound is returned when no session has the given ID
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed is returned when writing samples to, or stopping, a stopped session
	ErrSessionClosed = errors.New("session is not recording")
	// ErrSamplesOutOfOrder is returned when appended samples predate the stored ones
	ErrSamplesOutOfOrder = errors.New("sample timestamps must be non-decreasing")
)

// SessionRepository handles database operations for recording sessions and their samples
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts the session header and any samples it already holds
func (r *SessionRepository) Create(ctx context.Context, session *models.RecordingSession) error {
	tags, err := json.Marshal(nonNilTags(session.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, start_time, end_time, name, tags_json, notes, sample_rate_hz)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			session.ID.String(), toNanos(session.StartTime), nullTime(session.EndTime),
			nullString(session.Name), string(tags), nullString(session.Notes), session.SampleRateHz,
		)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		return insertSamples(ctx, tx, session.ID, 0, session.Samples)
	})
}

// AppendSamples appends samples to an open session and returns its new sample count
func (r *SessionRepository) AppendSamples(ctx context.Context, id uuid.UUID, samples []models.LocationSample) (int, error) {
	var count int
	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		var endTime sql.NullInt64
		err := tx.QueryRowContext(ctx, "SELECT end_time FROM sessions WHERE id = ?", id.String()).Scan(&endTime)
		if err == sql.ErrNoRows {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to query session: %w", err)
		}
		if endTime.Valid {
			return ErrSessionClosed
		}

		var next int
		var last sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(seq) + 1, 0), MAX(timestamp) FROM samples WHERE session_id = ?", id.String(),
		).Scan(&next, &last); err != nil {
			return fmt.Errorf("failed to query sample sequence: %w", err)
		}
		if last.Valid && len(samples) > 0 && toNanos(samples[0].Timestamp) < last.Int64 {
			return ErrSamplesOutOfOrder
		}

		if err := insertSamples(ctx, tx, id, next, samples); err != nil {
			return err
		}
		count = next + len(samples)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func insertSamples(ctx context.Context, tx *sql.Tx, sessionID uuid.UUID, seq int, samples []models.LocationSample) error {
	if len(samples) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (
		id, session_id, seq, latitude, longitude, altitude, timestamp,
		horizontal_accuracy, vertical_accuracy, speed, speed_accuracy,
		heading, heading_accuracy, fix_type, age_of_fix, satellites, hdop, vdop, pdop
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range samples {
		id := s.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := stmt.ExecContext(ctx,
			id.String(), sessionID.String(), seq+i, s.Latitude, s.Longitude, nullFloat(s.Altitude), toNanos(s.Timestamp),
			s.HorizontalAccuracy, nullFloat(s.VerticalAccuracy), s.Speed, nullFloat(s.SpeedAccuracy),
			nullFloat(s.Heading), nullFloat(s.HeadingAccuracy), string(s.FixType), nullFloat(s.AgeOfFix),
			nullInt(s.Satellites), nullFloat(s.HDOP), nullFloat(s.VDOP), nullFloat(s.PDOP),
		)
		if err != nil {
			return fmt.Errorf("failed to insert sample %d: %w", seq+i, err)
		}
	}
	return nil
}

// GetByID retrieves a session with its samples in recording order, or nil when absent
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RecordingSession, error) {
	query := `SELECT id, start_time, end_time, name, tags_json, notes, sample_rate_hz
		FROM sessions WHERE id = ?`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, latitude, longitude, altitude, timestamp,
		horizontal_accuracy, vertical_accuracy, speed, speed_accuracy,
		heading, heading_accuracy, fix_type, age_of_fix, satellites, hdop, vdop, pdop
		FROM samples WHERE session_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.LocationSample
		var sampleID, fixType string
		var ts int64
		var altitude, vAcc, sAcc, heading, hAcc, ageOfFix, hdop, vdop, pdop sql.NullFloat64
		var satellites sql.NullInt64
		err := rows.Scan(
			&sampleID, &s.Latitude, &s.Longitude, &altitude, &ts,
			&s.HorizontalAccuracy, &vAcc, &s.Speed, &sAcc,
			&heading, &hAcc, &fixType, &ageOfFix, &satellites, &hdop, &vdop, &pdop,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		if s.ID, err = uuid.Parse(sampleID); err != nil {
			return nil, fmt.Errorf("failed to parse sample id: %w", err)
		}
		s.Timestamp = fromNanos(ts)
		s.FixType = models.FixType(fixType)
		s.Altitude = floatPtr(altitude)
		s.VerticalAccuracy = floatPtr(vAcc)
		s.SpeedAccuracy = floatPtr(sAcc)
		s.Heading = floatPtr(heading)
		s.HeadingAccuracy = floatPtr(hAcc)
		s.AgeOfFix = floatPtr(ageOfFix)
		s.HDOP = floatPtr(hdop)
		s.VDOP = floatPtr(vdop)
		s.PDOP = floatPtr(pdop)
		if satellites.Valid {
			s.Satellites = models.Int(int(satellites.Int64))
		}
		session.Samples = append(session.Samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate samples: %w", err)
	}

	return session, nil
}

// List retrieves session headers, newest first, with pagination
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionListItem, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	// Add pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize

	rows, err := r.db.QueryContext(ctx, `SELECT s.id, s.start_time, s.end_time, s.name, s.tags_json, s.notes, s.sample_rate_hz,
		(SELECT COUNT(*) FROM samples WHERE session_id = s.id)
		FROM sessions s ORDER BY s.start_time DESC LIMIT ? OFFSET ?`, filter.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	items := []models.SessionListItem{}
	for rows.Next() {
		var count int
		session, err := scanSession(rows, &count)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		items = append(items, models.SessionListItem{
			ID:           session.ID,
			StartTime:    session.StartTime,
			EndTime:      session.EndTime,
			Name:         session.Name,
			Tags:         session.Tags,
			SampleRateHz: session.SampleRateHz,
			SampleCount:  count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return items, total, nil
}

// Stop sets the end time of an open session
func (r *SessionRepository) Stop(ctx context.Context, id uuid.UUID, endTime time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET end_time = ? WHERE id = ? AND end_time IS NULL", toNanos(endTime), id.String())
	if err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = r.db.QueryRowContext(ctx, "SELECT 1 FROM sessions WHERE id = ?", id.String()).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query session: %w", err)
	}
	return ErrSessionClosed
}

// Delete removes a session and its samples
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM samples WHERE session_id = ?", id.String()); err != nil {
			return fmt.Errorf("failed to delete samples: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id.String())
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		} else if n == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
}

// DeleteAll removes every session and returns how many were removed
func (r *SessionRepository) DeleteAll(ctx context.Context) (int64, error) {
	var n int64
	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM samples"); err != nil {
			return fmt.Errorf("failed to delete samples: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM sessions")
		if err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// PruneStopped keeps the newest keep stopped sessions and deletes the rest.
// Open sessions are never pruned. It returns the IDs that were removed.
func (r *SessionRepository) PruneStopped(ctx context.Context, keep int) ([]uuid.UUID, error) {
	var removed []uuid.UUID
	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM sessions WHERE end_time IS NOT NULL
			ORDER BY start_time DESC LIMIT -1 OFFSET ?`, keep)
		if err != nil {
			return fmt.Errorf("failed to query sessions to prune: %w", err)
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan session id: %w", err)
			}
			ids = append(ids, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate sessions to prune: %w", err)
		}

		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, "DELETE FROM samples WHERE session_id = ?", id); err != nil {
				return fmt.Errorf("failed to delete samples: %w", err)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
			parsed, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("failed to parse session id: %w", err)
			}
			removed = append(removed, parsed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession reads the session header columns followed by any extra destinations
func scanSession(row rowScanner, extra ...any) (*models.RecordingSession, error) {
	var (
		id, tagsJSON string
		start        int64
		end          sql.NullInt64
		name, notes  sql.NullString
		session      models.RecordingSession
	)
	dest := append([]any{&id, &start, &end, &name, &tagsJSON, &notes, &session.SampleRateHz}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session id: %w", err)
	}
	session.ID = parsed
	session.StartTime = fromNanos(start)
	if end.Valid {
		t := fromNanos(end.Int64)
		session.EndTime = &t
	}
	if name.Valid {
		session.Name = &name.String
	}
	if notes.Valid {
		session.Notes = &notes.String
	}
	if err := json.Unmarshal([]byte(tagsJSON), &session.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if len(session.Tags) == 0 {
		session.Tags = nil
	}
	return &session, nil
}

func toNanos(t time.Time) int64 { return t.UnixNano() }

func fromNanos(ns int64) time.Time { return time.Unix(0, ns).UTC() }

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return toNanos(*t)
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float64(v.Float64)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
