package models

import (
	"time"

	"github.com/google/uuid"
)

// FixType is the categorical GNSS solution quality of a sample
type FixType string

const (
	FixNone    FixType = "noFix"
	Fix2D      FixType = "twoD"
	Fix3D      FixType = "threeD"
	FixDGPS    FixType = "dgps"
	FixRTK     FixType = "rtk"
	FixUnknown FixType = "unknown"
)

// FixTypeFromDeviceStatus maps a device fix status (0=no fix, 2=2D, 3=3D) to a FixType
func FixTypeFromDeviceStatus(status int) FixType {
	switch status {
	case 0:
		return FixNone
	case 2:
		return Fix2D
	case 3:
		return Fix3D
	default:
		return FixUnknown
	}
}

// DisplayName returns a human readable label
func (f FixType) DisplayName() string {
	switch f {
	case FixNone:
		return "No Fix"
	case Fix2D:
		return "2D Fix"
	case Fix3D:
		return "3D Fix"
	case FixDGPS:
		return "DGPS"
	case FixRTK:
		return "RTK"
	default:
		return "Unknown"
	}
}

// LocationSample is a single telemetry tick with GNSS quality metadata.
// Samples are treated as immutable once recorded.
type LocationSample struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Latitude  float64   `json:"latitude" db:"latitude" binding:"min=-90,max=90"`
	Longitude float64   `json:"longitude" db:"longitude" binding:"min=-180,max=180"`
	Altitude  *float64  `json:"altitude,omitempty" db:"altitude"` // meters
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	HorizontalAccuracy float64  `json:"horizontalAccuracy" db:"horizontal_accuracy" binding:"min=0"` // meters
	VerticalAccuracy   *float64 `json:"verticalAccuracy,omitempty" db:"vertical_accuracy"`

	Speed           float64  `json:"speed" db:"speed" binding:"min=0"` // m/s
	SpeedAccuracy   *float64 `json:"speedAccuracy,omitempty" db:"speed_accuracy"`
	Heading         *float64 `json:"heading,omitempty" db:"heading"` // degrees 0-360
	HeadingAccuracy *float64 `json:"headingAccuracy,omitempty" db:"heading_accuracy"`

	FixType    FixType  `json:"fixType" db:"fix_type"`
	AgeOfFix   *float64 `json:"ageOfFix,omitempty" db:"age_of_fix"` // seconds
	Satellites *int     `json:"satellites,omitempty" db:"satellites"`
	HDOP       *float64 `json:"hdop,omitempty" db:"hdop"`
	VDOP       *float64 `json:"vdop,omitempty" db:"vdop"`
	PDOP       *float64 `json:"pdop,omitempty" db:"pdop"`
}

// DeviceFix is an already-decoded position fix as reported by a telemetry device.
// Devices of this kind report PDOP but no accuracy estimates.
type DeviceFix struct {
	Latitude   float64   `json:"latitude" binding:"min=-90,max=90"`
	Longitude  float64   `json:"longitude" binding:"min=-180,max=180"`
	Altitude   float64   `json:"altitude"`
	Speed      float64   `json:"speed" binding:"min=0"`
	Heading    float64   `json:"heading"`
	FixStatus  int       `json:"fixStatus"`
	Satellites int       `json:"satellites"`
	PDOP       float64   `json:"pdop"`
	Timestamp  time.Time `json:"timestamp"`
}

// SampleFromDeviceFix builds a LocationSample from a device fix, estimating the
// accuracy fields from PDOP. The estimates are rough consumer-GPS rules of thumb.
func SampleFromDeviceFix(fix DeviceFix) LocationSample {
	horizontal := 50.0
	if fix.PDOP > 0 {
		horizontal = fix.PDOP * 5.0
	}
	vertical := horizontal * 1.5

	var speedAcc float64
	switch {
	case fix.PDOP < 2.0:
		speedAcc = 0.2
	case fix.PDOP < 5.0:
		speedAcc = 0.4
	default:
		speedAcc = 0.8
	}

	// Heading is only meaningful while moving
	var headingAcc *float64
	if fix.Speed > 1.0 {
		v := 15.0
		if fix.PDOP < 3.0 {
			v = 5.0
		}
		headingAcc = &v
	}

	ts := fix.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return LocationSample{
		ID:                 uuid.New(),
		Latitude:           fix.Latitude,
		Longitude:          fix.Longitude,
		Altitude:           Float64(fix.Altitude),
		Timestamp:          ts,
		HorizontalAccuracy: horizontal,
		VerticalAccuracy:   Float64(vertical),
		Speed:              fix.Speed,
		SpeedAccuracy:      Float64(speedAcc),
		Heading:            Float64(fix.Heading),
		HeadingAccuracy:    headingAcc,
		FixType:            FixTypeFromDeviceStatus(fix.FixStatus),
		AgeOfFix:           Float64(0),
		Satellites:         Int(fix.Satellites),
		HDOP:               Float64(fix.PDOP * 0.7),
		VDOP:               Float64(fix.PDOP * 0.7),
		PDOP:               Float64(fix.PDOP),
	}
}

// Float64 returns a pointer to v
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v
func Int(v int) *int { return &v }
