package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
)

type jsonDocument struct {
	Session jsonSession  `json:"session"`
	Samples []jsonSample `json:"samples"`
	Metrics *jsonMetrics `json:"metrics,omitempty"`
}

type jsonSession struct {
	ID           string   `json:"id"`
	StartTime    string   `json:"startTime"`
	EndTime      *string  `json:"endTime,omitempty"`
	SampleRateHz int      `json:"sampleRateHz"`
	Name         *string  `json:"name,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

type jsonSample struct {
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	Altitude           *float64 `json:"altitude,omitempty"`
	Timestamp          string   `json:"timestamp"`
	HorizontalAccuracy float64  `json:"horizontalAccuracy"`
	VerticalAccuracy   *float64 `json:"verticalAccuracy,omitempty"`
	Speed              float64  `json:"speed"`
	SpeedAccuracy      *float64 `json:"speedAccuracy,omitempty"`
	Heading            *float64 `json:"heading,omitempty"`
	HeadingAccuracy    *float64 `json:"headingAccuracy,omitempty"`
	FixType            string   `json:"fixType"`
	AgeOfFix           *float64 `json:"ageOfFix,omitempty"`
	Satellites         *int     `json:"satellites,omitempty"`
	HDOP               *float64 `json:"hdop,omitempty"`
	VDOP               *float64 `json:"vdop,omitempty"`
	PDOP               *float64 `json:"pdop,omitempty"`
}

type jsonMetrics struct {
	ComputedAt string       `json:"computedAt"`
	Results    []jsonMetric `json:"results"`
}

type jsonMetric struct {
	MetricType            string  `json:"metricType"`
	ElapsedTime           float64 `json:"elapsedTime"`
	TrapSpeed             float64 `json:"trapSpeed"`
	PeakSpeed             float64 `json:"peakSpeed"`
	Distance              float64 `json:"distance"`
	StartDistance         float64 `json:"startDistance"`
	AvgHorizontalAccuracy float64 `json:"avgHorizontalAccuracy"`
	SampleCount           int     `json:"sampleCount"`
	IsReliable            bool    `json:"isReliable"`
}

func encodeJSON(session *models.RecordingSession, metrics *models.MetricsSummary) ([]byte, error) {
	doc := jsonDocument{
		Session: jsonSession{
			ID:           session.ID.String(),
			StartTime:    isoTime(session.StartTime),
			SampleRateHz: session.SampleRateHz,
			Name:         session.Name,
			Tags:         session.Tags,
			Notes:        session.Notes,
		},
		Samples: make([]jsonSample, 0, len(session.Samples)),
	}
	if session.EndTime != nil {
		end := isoTime(*session.EndTime)
		doc.Session.EndTime = &end
	}

	for _, s := range session.Samples {
		doc.Samples = append(doc.Samples, jsonSample{
			Latitude:           s.Latitude,
			Longitude:          s.Longitude,
			Altitude:           s.Altitude,
			Timestamp:          isoTime(s.Timestamp),
			HorizontalAccuracy: s.HorizontalAccuracy,
			VerticalAccuracy:   s.VerticalAccuracy,
			Speed:              s.Speed,
			SpeedAccuracy:      s.SpeedAccuracy,
			Heading:            s.Heading,
			HeadingAccuracy:    s.HeadingAccuracy,
			FixType:            string(s.FixType),
			AgeOfFix:           s.AgeOfFix,
			Satellites:         s.Satellites,
			HDOP:               s.HDOP,
			VDOP:               s.VDOP,
			PDOP:               s.PDOP,
		})
	}

	if metrics != nil {
		doc.Metrics = &jsonMetrics{
			ComputedAt: isoTime(metrics.ComputedAt),
			Results:    make([]jsonMetric, 0, len(metrics.Results)),
		}
		for _, r := range metrics.Results {
			doc.Metrics.Results = append(doc.Metrics.Results, jsonMetric{
				MetricType:            string(r.MetricType),
				ElapsedTime:           r.ElapsedTime,
				TrapSpeed:             r.TrapSpeed,
				PeakSpeed:             r.PeakSpeed,
				Distance:              r.Distance,
				StartDistance:         r.StartDistance,
				AvgHorizontalAccuracy: r.AvgHorizontalAccuracy,
				SampleCount:           r.SampleCount,
				IsReliable:            r.IsReliable,
			})
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode json export: %w", err)
	}
	return buf.Bytes(), nil
}
