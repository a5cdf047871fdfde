package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixTypeFromDeviceStatus(t *testing.T) {
	cases := map[int]FixType{0: FixNone, 1: FixUnknown, 2: Fix2D, 3: Fix3D, 7: FixUnknown}
	for status, want := range cases {
		assert.Equal(t, want, FixTypeFromDeviceStatus(status), "status %d", status)
	}
	assert.Equal(t, "3D Fix", Fix3D.DisplayName())
	assert.Equal(t, "Unknown", FixType("bogus").DisplayName())
}

func TestSampleFromDeviceFix(t *testing.T) {
	ts := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)

	s := SampleFromDeviceFix(DeviceFix{
		Latitude: 37, Longitude: -122, Altitude: 12, Speed: 20, Heading: 90,
		FixStatus: 3, Satellites: 14, PDOP: 1.5, Timestamp: ts,
	})
	assert.Equal(t, 7.5, s.HorizontalAccuracy)
	require.NotNil(t, s.VerticalAccuracy)
	assert.InDelta(t, 11.25, *s.VerticalAccuracy, 1e-9)
	assert.Equal(t, 0.2, *s.SpeedAccuracy)
	require.NotNil(t, s.HeadingAccuracy)
	assert.Equal(t, 5.0, *s.HeadingAccuracy)
	assert.InDelta(t, 1.05, *s.HDOP, 1e-9)
	assert.InDelta(t, 1.05, *s.VDOP, 1e-9)
	assert.Equal(t, Fix3D, s.FixType)
	assert.Equal(t, 14, *s.Satellites)
	assert.Equal(t, ts, s.Timestamp)

	// Stationary with unknown dilution
	s = SampleFromDeviceFix(DeviceFix{Speed: 0.5, PDOP: 0, FixStatus: 0, Timestamp: ts})
	assert.Equal(t, 50.0, s.HorizontalAccuracy)
	assert.Nil(t, s.HeadingAccuracy)
	assert.Equal(t, FixNone, s.FixType)

	s = SampleFromDeviceFix(DeviceFix{Speed: 5, PDOP: 4, Timestamp: ts})
	assert.Equal(t, 0.4, *s.SpeedAccuracy)
	assert.Equal(t, 15.0, *s.HeadingAccuracy)

	s = SampleFromDeviceFix(DeviceFix{Speed: 5, PDOP: 6, Timestamp: ts})
	assert.Equal(t, 0.8, *s.SpeedAccuracy)
}

func TestClampSampleRate(t *testing.T) {
	assert.Equal(t, 25, ClampSampleRate(0))
	assert.Equal(t, 25, ClampSampleRate(-3))
	assert.Equal(t, 10, ClampSampleRate(10))
	assert.Equal(t, 25, ClampSampleRate(100))
}

func TestRecordingSessionStats(t *testing.T) {
	start := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	session := NewRecordingSession(start, 50)
	assert.Equal(t, MaxSampleRateHz, session.SampleRateHz)
	assert.True(t, session.IsRecording())
	assert.Zero(t, session.Duration())
	assert.Zero(t, session.TotalDistance())
	assert.Zero(t, session.AvgSpeed())

	session.Samples = []LocationSample{
		{Latitude: 37.0, Longitude: -122.0, Speed: 0, Timestamp: start},
		{Latitude: 37.001, Longitude: -122.0, Speed: 10, Timestamp: start.Add(2 * time.Second)},
		{Latitude: 37.002, Longitude: -122.0, Speed: 20, Timestamp: start.Add(4 * time.Second)},
	}
	assert.Equal(t, 4.0, session.Duration())
	assert.InDelta(t, 222.39, session.TotalDistance(), 0.01)
	assert.Equal(t, 20.0, session.MaxSpeed())
	assert.Equal(t, 10.0, session.AvgSpeed())

	end := start.Add(10 * time.Second)
	session.EndTime = &end
	assert.False(t, session.IsRecording())
	assert.Equal(t, 10.0, session.Stats().DurationSeconds)
	assert.Equal(t, 3, session.Stats().SampleCount)
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	session := NewRecordingSession(time.Now(), 25)
	session.Samples = append(session.Samples, LocationSample{Speed: 1})
	session.Tags = []string{"track"}

	snap := session.Snapshot()
	session.Samples[0].Speed = 99
	session.Samples = append(session.Samples, LocationSample{Speed: 2})
	session.Tags[0] = "street"

	assert.Len(t, snap.Samples, 1)
	assert.Equal(t, 1.0, snap.Samples[0].Speed)
	assert.Equal(t, []string{"track"}, snap.Tags)
	assert.Equal(t, session.ID, snap.ID)
}

func TestMetricTypes(t *testing.T) {
	assert.Len(t, AllMetricTypes, 11)

	families := map[MetricFamily]int{}
	for _, mt := range AllMetricTypes {
		families[mt.Family()]++
		parsed, err := ParseMetricType(string(mt))
		require.NoError(t, err)
		assert.Equal(t, mt, parsed)
	}
	assert.Equal(t, map[MetricFamily]int{FamilyDistance: 3, FamilySpeed: 5, FamilyRolling: 2, FamilyBraking: 1}, families)

	assert.True(t, MetricQuarterMile.IsDistanceBased())
	assert.True(t, MetricZeroToHundred.IsSpeedBased())
	assert.True(t, MetricFortyToHundred.IsRollingInterval())
	assert.True(t, MetricSixtyToZero.IsBraking())
	assert.False(t, MetricSixtyToZero.IsSpeedBased())

	_, err := ParseMetricType("0-200")
	assert.Error(t, err)
}

func TestResultFor(t *testing.T) {
	summary := MetricsSummary{Results: []MetricResult{
		{MetricType: MetricZeroToSixty, ElapsedTime: 4.2},
	}}
	require.NotNil(t, summary.ResultFor(MetricZeroToSixty))
	assert.Equal(t, 4.2, summary.ResultFor(MetricZeroToSixty).ElapsedTime)
	assert.Nil(t, summary.ResultFor(MetricSixtyFeet))
}
