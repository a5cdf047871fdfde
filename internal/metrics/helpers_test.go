package metrics

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"github.com/jengzang/perf-timing-backend-go/internal/spatial"
)

const (
	originLat = 37.0
	originLon = -122.0
)

var epoch = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// profile gives speed (m/s) and distance travelled (m) at t seconds
type profile func(t float64) (speed, distance float64)

// constantAcceleration starts from rest
func constantAcceleration(a float64) profile {
	return func(t float64) (float64, float64) {
		return a * t, 0.5 * a * t * t
	}
}

// accelerateThenBrake accelerates at accel up to peak, then decelerates at brake down to rest
func accelerateThenBrake(accel, peak, brake float64) profile {
	t1 := peak / accel
	d1 := 0.5 * accel * t1 * t1
	t2 := peak / brake
	return func(t float64) (float64, float64) {
		if t <= t1 {
			return accel * t, 0.5 * accel * t * t
		}
		tb := math.Min(t-t1, t2)
		v := peak - brake*tb
		if v < 1e-9 {
			v = 0
		}
		return v, d1 + peak*tb - 0.5*brake*tb*tb
	}
}

// syntheticSession samples p at rateHz for duration seconds, moving due north so the
// haversine path length equals the profile distance.
func syntheticSession(p profile, duration float64, rateHz int, accuracy float64) *models.RecordingSession {
	dt := 1.0 / float64(rateHz)
	n := int(math.Round(duration/dt)) + 1

	session := models.NewRecordingSession(epoch, rateHz)
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		speed, dist := p(t)
		lat, lon := spatial.DestinationPoint(originLat, originLon, 0, dist)
		session.Samples = append(session.Samples, sample(lat, lon, epoch.Add(seconds(t)), speed, accuracy))
	}
	end := epoch.Add(seconds(duration))
	session.EndTime = &end
	return session
}

// sessionFromTrace builds a session from (distance, seconds, speed) triples
func sessionFromTrace(points [][3]float64) *models.RecordingSession {
	session := models.NewRecordingSession(epoch, 25)
	for _, p := range points {
		lat, lon := spatial.DestinationPoint(originLat, originLon, 0, p[0])
		session.Samples = append(session.Samples, sample(lat, lon, epoch.Add(seconds(p[1])), p[2], 2.0))
	}
	return session
}

func sample(lat, lon float64, ts time.Time, speed, accuracy float64) models.LocationSample {
	return models.LocationSample{
		ID:                 uuid.New(),
		Latitude:           lat,
		Longitude:          lon,
		Altitude:           models.Float64(100),
		Timestamp:          ts,
		HorizontalAccuracy: accuracy,
		VerticalAccuracy:   models.Float64(accuracy * 1.5),
		Speed:              speed,
		SpeedAccuracy:      models.Float64(0.2),
		Heading:            models.Float64(0),
		FixType:            models.Fix3D,
		Satellites:         models.Int(12),
		HDOP:               models.Float64(0.8),
		VDOP:               models.Float64(1.0),
		PDOP:               models.Float64(1.3),
	}
}

// runStartSeconds returns the offset of the detected run start from the first sample
func runStartSeconds(s *models.RecordingSession) float64 {
	idx, ok := DetectStart(s.Samples)
	if !ok {
		return math.NaN()
	}
	return s.Samples[idx].Timestamp.Sub(s.Samples[0].Timestamp).Seconds()
}
