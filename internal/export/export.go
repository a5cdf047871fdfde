// Package export renders recording sessions as JSON, CSV, GPX 1.1 and KML 2.2 documents.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoSamples is returned when exporting a session without samples
	ErrNoSamples = errors.New("session contains no samples to export")
	// ErrUnsupportedFormat is returned for an unknown format name
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatGPX  Format = "gpx"
	FormatKML  Format = "kml"
)

// AllFormats lists every supported format
var AllFormats = []Format{FormatJSON, FormatCSV, FormatGPX, FormatKML}

// ParseFormat validates a format name, case-insensitively
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range AllFormats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
}

// Extension returns the file extension without the dot
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatGPX:
		return "application/gpx+xml"
	case FormatKML:
		return "application/vnd.google-earth.kml+xml"
	default:
		return "application/octet-stream"
	}
}

// Export renders the session in the given format. metrics may be nil; only the
// JSON and CSV formats include it.
func Export(session *models.RecordingSession, metrics *models.MetricsSummary, format Format) ([]byte, error) {
	if len(session.Samples) == 0 {
		return nil, ErrNoSamples
	}

	switch format {
	case FormatJSON:
		return encodeJSON(session, metrics)
	case FormatCSV:
		return encodeCSV(session, metrics)
	case FormatGPX:
		return encodeGPX(session)
	case FormatKML:
		return encodeKML(session)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ExportAll renders the session in every format concurrently
func ExportAll(ctx context.Context, session *models.RecordingSession, metrics *models.MetricsSummary) (map[Format][]byte, error) {
	if len(session.Samples) == 0 {
		return nil, ErrNoSamples
	}

	var mu sync.Mutex
	out := make(map[Format][]byte, len(AllFormats))

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range AllFormats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := Export(session, metrics, f)
			if err != nil {
				return fmt.Errorf("failed to export %s: %w", f, err)
			}
			mu.Lock()
			out[f] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SuggestedFilename builds a download name from the session name and start time.
// Characters outside letters, digits, '-' and '_' become '_'.
func SuggestedFilename(session *models.RecordingSession, format Format) string {
	return baseFilename(session) + "." + format.Extension()
}

func baseFilename(session *models.RecordingSession) string {
	stamp := session.StartTime.UTC().Format("2006-01-02_150405")

	if session.Name == nil || *session.Name == "" {
		return "gps_session_" + stamp
	}

	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, *session.Name)

	return sanitized + "_" + stamp
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// isoTime formats t as UTC ISO-8601 with millisecond precision
func isoTime(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
