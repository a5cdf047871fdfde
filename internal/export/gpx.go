package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"github.com/jengzang/perf-timing-backend-go/internal/spatial"
)

type gpxDocument struct {
	XMLName        xml.Name    `xml:"gpx"`
	Version        string      `xml:"version,attr"`
	Creator        string      `xml:"creator,attr"`
	Xmlns          string      `xml:"xmlns,attr"`
	XmlnsXsi       string      `xml:"xmlns:xsi,attr"`
	SchemaLocation string      `xml:"xsi:schemaLocation,attr"`
	Metadata       gpxMetadata `xml:"metadata"`
	Track          gpxTrack    `xml:"trk"`
}

type gpxMetadata struct {
	Name   string     `xml:"name,omitempty"`
	Desc   string     `xml:"desc,omitempty"`
	Time   string     `xml:"time"`
	Bounds *gpxBounds `xml:"bounds"`
}

type gpxBounds struct {
	MinLat string `xml:"minlat,attr"`
	MinLon string `xml:"minlon,attr"`
	MaxLat string `xml:"maxlat,attr"`
	MaxLon string `xml:"maxlon,attr"`
}

type gpxTrack struct {
	Name    string     `xml:"name"`
	Type    string     `xml:"type"`
	Segment []gpxPoint `xml:"trkseg>trkpt"`
}

type gpxPoint struct {
	Lat        string        `xml:"lat,attr"`
	Lon        string        `xml:"lon,attr"`
	Ele        string        `xml:"ele,omitempty"`
	Time       string        `xml:"time"`
	Extensions gpxExtensions `xml:"extensions"`
}

type gpxExtensions struct {
	Speed  string `xml:"speed"`
	Course string `xml:"course,omitempty"`
	HDOP   string `xml:"hdop,omitempty"`
	VDOP   string `xml:"vdop,omitempty"`
	PDOP   string `xml:"pdop,omitempty"`
	Sat    string `xml:"sat,omitempty"`
	Fix    string `xml:"fix"`
	HAcc   string `xml:"hacc"`
	VAcc   string `xml:"vacc,omitempty"`
	SAcc   string `xml:"sacc,omitempty"`
}

func encodeGPX(session *models.RecordingSession) ([]byte, error) {
	doc := gpxDocument{
		Version:        "1.1",
		Creator:        "GPS Test",
		Xmlns:          "http://www.topografix.com/GPX/1/1",
		XmlnsXsi:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "http://www.topografix.com/GPX/1/1 http://www.topografix.com/GPX/1/1/gpx.xsd",
		Metadata: gpxMetadata{
			Time: isoTime(session.StartTime),
		},
		Track: gpxTrack{
			Name:    "GPS Track",
			Type:    "GPS Test Recording",
			Segment: make([]gpxPoint, 0, len(session.Samples)),
		},
	}
	if session.Name != nil {
		doc.Metadata.Name = *session.Name
		doc.Track.Name = *session.Name
	}
	if session.Notes != nil {
		doc.Metadata.Desc = *session.Notes
	}

	bounds := spatial.NewBounds()
	for _, s := range session.Samples {
		bounds.Extend(s.Latitude, s.Longitude)
		doc.Track.Segment = append(doc.Track.Segment, gpxPoint{
			Lat:  fixed(s.Latitude, 8),
			Lon:  fixed(s.Longitude, 8),
			Ele:  optFixed(s.Altitude, 2),
			Time: isoTime(s.Timestamp),
			Extensions: gpxExtensions{
				Speed:  fixed(s.Speed, 3),
				Course: optFixed(s.Heading, 2),
				HDOP:   optFixed(s.HDOP, 2),
				VDOP:   optFixed(s.VDOP, 2),
				PDOP:   optFixed(s.PDOP, 2),
				Sat:    optInt(s.Satellites),
				Fix:    string(s.FixType),
				HAcc:   fixed(s.HorizontalAccuracy, 2),
				VAcc:   optFixed(s.VerticalAccuracy, 2),
				SAcc:   optFixed(s.SpeedAccuracy, 3),
			},
		})
	}
	if !bounds.IsEmpty() {
		doc.Metadata.Bounds = &gpxBounds{
			MinLat: fixed(bounds.MinLat, 8),
			MinLon: fixed(bounds.MinLon, 8),
			MaxLat: fixed(bounds.MaxLat, 8),
			MaxLon: fixed(bounds.MaxLon, 8),
		}
	}

	return marshalXML(doc)
}

func marshalXML(doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode xml export: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func optFixed(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return fixed(*v, prec)
}
