package export

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"time"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
)

// BundleContentType is the media type of a session bundle
const BundleContentType = "application/gzip"

// Bundle renders the session in every format and packs the files into a
// tar.gz archive, one entry per format in AllFormats order
func Bundle(ctx context.Context, session *models.RecordingSession, metrics *models.MetricsSummary) ([]byte, error) {
	files, err := ExportAll(ctx, session, metrics)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	modTime := session.StartTime
	if session.EndTime != nil {
		modTime = *session.EndTime
	}
	modTime = modTime.UTC().Truncate(time.Second)

	for _, f := range AllFormats {
		data := files[f]
		header := &tar.Header{
			Name:    SuggestedFilename(session, f),
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: modTime,
		}
		if err := tw.WriteHeader(header); err != nil {
			return nil, fmt.Errorf("tar header %s: %w", f, err)
		}
		if _, err := tw.Write(data); err != nil {
			return nil, fmt.Errorf("tar write %s: %w", f, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("close gzip: %w", err)
	}
	return buf.Bytes(), nil
}

// BundleFilename is the download name of a session bundle
func BundleFilename(session *models.RecordingSession) string {
	return baseFilename(session) + ".tar.gz"
}
