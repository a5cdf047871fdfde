package export

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/perf-timing-backend-go/internal/models"
)

// KML colors are aabbggrr
const (
	kmlTrackColor = "ff0000ff"
	kmlStartColor = "ff00ff00"
	kmlEndColor   = "ff0000ff"
	kmlLineWidth  = "3"
	kmlIconScale  = "1.2"
)

type kmlDocument struct {
	XMLName  xml.Name `xml:"kml"`
	Xmlns    string   `xml:"xmlns,attr"`
	XmlnsGx  string   `xml:"xmlns:gx,attr"`
	Document kmlBody  `xml:"Document"`
}

type kmlBody struct {
	Name        string         `xml:"name"`
	Description string         `xml:"description"`
	Styles      []kmlStyle     `xml:"Style"`
	Placemarks  []kmlPlacemark `xml:"Placemark"`
}

type kmlStyle struct {
	ID        string        `xml:"id,attr"`
	LineStyle *kmlLineStyle `xml:"LineStyle,omitempty"`
	IconStyle *kmlIconStyle `xml:"IconStyle,omitempty"`
}

type kmlLineStyle struct {
	Color string `xml:"color"`
	Width string `xml:"width"`
}

type kmlIconStyle struct {
	Color string `xml:"color"`
	Scale string `xml:"scale"`
}

type kmlPlacemark struct {
	Name         string           `xml:"name"`
	Description  string           `xml:"description,omitempty"`
	StyleURL     string           `xml:"styleUrl"`
	TimeStamp    *kmlTimeStamp    `xml:"TimeStamp,omitempty"`
	Point        *kmlPoint        `xml:"Point,omitempty"`
	Track        *kmlTrack        `xml:"gx:Track,omitempty"`
	ExtendedData *kmlExtendedData `xml:"ExtendedData,omitempty"`
}

type kmlTimeStamp struct {
	When string `xml:"when"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlTrack struct {
	When         []string          `xml:"when"`
	Coords       []string          `xml:"gx:coord"`
	ExtendedData []kmlExtendedData `xml:"ExtendedData"`
}

type kmlExtendedData struct {
	Data []kmlData `xml:"Data"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

func encodeKML(session *models.RecordingSession) ([]byte, error) {
	name := "GPS Test Session"
	if session.Name != nil {
		name = *session.Name
	}

	doc := kmlDocument{
		Xmlns:   "http://www.opengis.net/kml/2.2",
		XmlnsGx: "http://www.google.com/kml/ext/2.2",
		Document: kmlBody{
			Name:        name,
			Description: kmlDescription(session),
			Styles: []kmlStyle{
				{ID: "trackStyle", LineStyle: &kmlLineStyle{Color: kmlTrackColor, Width: kmlLineWidth}},
				{ID: "startStyle", IconStyle: &kmlIconStyle{Color: kmlStartColor, Scale: kmlIconScale}},
				{ID: "endStyle", IconStyle: &kmlIconStyle{Color: kmlEndColor, Scale: kmlIconScale}},
			},
		},
	}

	track := &kmlTrack{}
	for _, s := range session.Samples {
		track.When = append(track.When, isoTime(s.Timestamp))
		track.Coords = append(track.Coords, fmt.Sprintf("%.8f %.8f %.2f", s.Longitude, s.Latitude, altitude(s)))

		data := []kmlData{{Name: "speed", Value: fixed(s.Speed, 3)}}
		if s.Heading != nil {
			data = append(data, kmlData{Name: "heading", Value: fixed(*s.Heading, 2)})
		}
		if s.Satellites != nil {
			data = append(data, kmlData{Name: "satellites", Value: optInt(s.Satellites)})
		}
		if s.PDOP != nil {
			data = append(data, kmlData{Name: "pdop", Value: fixed(*s.PDOP, 2)})
		}
		data = append(data, kmlData{Name: "fixType", Value: string(s.FixType)})
		track.ExtendedData = append(track.ExtendedData, kmlExtendedData{Data: data})
	}

	doc.Document.Placemarks = append(doc.Document.Placemarks,
		kmlPlacemark{Name: "GPS Track", StyleURL: "#trackStyle", Track: track},
		endpointPlacemark("Start", "Session start point", "#startStyle", session.Samples[0]),
	)
	if n := len(session.Samples); n > 1 {
		doc.Document.Placemarks = append(doc.Document.Placemarks,
			endpointPlacemark("End", "Session end point", "#endStyle", session.Samples[n-1]))
	}

	return marshalXML(doc)
}

func endpointPlacemark(name, description, style string, s models.LocationSample) kmlPlacemark {
	data := []kmlData{{Name: "speed", Value: fixed(s.Speed, 3)}}
	if s.Heading != nil {
		data = append(data, kmlData{Name: "heading", Value: fixed(*s.Heading, 2)})
	}
	if s.Satellites != nil {
		data = append(data, kmlData{Name: "satellites", Value: optInt(s.Satellites)})
	}
	data = append(data, kmlData{Name: "fixType", Value: string(s.FixType)})

	return kmlPlacemark{
		Name:        name,
		Description: description,
		StyleURL:    style,
		TimeStamp:   &kmlTimeStamp{When: isoTime(s.Timestamp)},
		Point: &kmlPoint{
			Coordinates: fmt.Sprintf("%.8f,%.8f,%.2f", s.Longitude, s.Latitude, altitude(s)),
		},
		ExtendedData: &kmlExtendedData{Data: data},
	}
}

func kmlDescription(session *models.RecordingSession) string {
	var b strings.Builder
	b.WriteString("GPS Test Recording Session\n")
	fmt.Fprintf(&b, "Start: %s\n", session.StartTime.UTC().Format(time.RFC3339))
	if session.EndTime != nil {
		fmt.Fprintf(&b, "End: %s\n", session.EndTime.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "Sample Rate: %d Hz\n", session.SampleRateHz)
	fmt.Fprintf(&b, "Samples: %d\n", len(session.Samples))
	if session.Notes != nil {
		fmt.Fprintf(&b, "\n%s", *session.Notes)
	}
	return b.String()
}

func altitude(s models.LocationSample) float64 {
	if s.Altitude == nil {
		return 0
	}
	return *s.Altitude
}
