package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
)

var csvColumns = []string{
	"timestamp", "latitude", "longitude", "altitude", "speed", "heading",
	"horizontalAccuracy", "verticalAccuracy", "speedAccuracy", "fixType",
	"satellites", "pdop", "hdop", "vdop",
}

// encodeCSV writes a '#' commented header with session metadata and the metrics
// summary, followed by one row per sample.
func encodeCSV(session *models.RecordingSession, metrics *models.MetricsSummary) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# GPS Test Session Export\n")
	fmt.Fprintf(&buf, "# Session ID: %s\n", session.ID)
	fmt.Fprintf(&buf, "# Start Time: %s\n", isoTime(session.StartTime))
	if session.EndTime != nil {
		fmt.Fprintf(&buf, "# End Time: %s\n", isoTime(*session.EndTime))
	}
	fmt.Fprintf(&buf, "# Sample Rate: %d Hz\n", session.SampleRateHz)
	if session.Name != nil {
		fmt.Fprintf(&buf, "# Name: %s\n", oneLine(*session.Name))
	}
	if len(session.Tags) > 0 {
		fmt.Fprintf(&buf, "# Tags: %s\n", oneLine(strings.Join(session.Tags, ", ")))
	}
	if session.Notes != nil {
		fmt.Fprintf(&buf, "# Notes: %s\n", oneLine(*session.Notes))
	}
	buf.WriteString("#\n")

	if metrics != nil && len(metrics.Results) > 0 {
		buf.WriteString("# METRICS SUMMARY\n")
		fmt.Fprintf(&buf, "# Computed At: %s\n", isoTime(metrics.ComputedAt))
		fmt.Fprintf(&buf, "# Accuracy Threshold: %sm\n", formatFloat(metrics.AccuracyThreshold))
		fmt.Fprintf(&buf, "# Filtered Data: %t\n", metrics.UseFilteredData)
		buf.WriteString("#\n")
		buf.WriteString("# Metric,Elapsed Time (s),Trap Speed (m/s),Peak Speed (m/s),Distance (m),Avg Accuracy (m),Samples,Reliable\n")
		for _, r := range metrics.Results {
			fmt.Fprintf(&buf, "# %s,%.4f,%.2f,%.2f,%.2f,%.2f,%d,%t\n",
				r.MetricType, r.ElapsedTime, r.TrapSpeed, r.PeakSpeed,
				r.Distance, r.AvgHorizontalAccuracy, r.SampleCount, r.IsReliable)
		}
		buf.WriteString("#\n")
	}

	w := csv.NewWriter(&buf)
	if err := w.Write(csvColumns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, s := range session.Samples {
		row := []string{
			isoTime(s.Timestamp),
			formatFloat(s.Latitude),
			formatFloat(s.Longitude),
			optFloat(s.Altitude),
			formatFloat(s.Speed),
			optFloat(s.Heading),
			formatFloat(s.HorizontalAccuracy),
			optFloat(s.VerticalAccuracy),
			optFloat(s.SpeedAccuracy),
			string(s.FixType),
			optInt(s.Satellites),
			optFloat(s.PDOP),
			optFloat(s.HDOP),
			optFloat(s.VDOP),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// oneLine keeps free text inside a single comment line
func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
