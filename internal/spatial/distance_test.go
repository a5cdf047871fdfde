package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude on a 6371 km sphere
	want := EarthRadiusMeters * math.Pi / 180
	got := HaversineDistance(37.0, -122.0, 38.0, -122.0)
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("expected %.3f, got %.3f", want, got)
	}

	if d := HaversineDistance(37.0, -122.0, 37.0, -122.0); d != 0 {
		t.Fatalf("expected zero distance for identical points, got %v", d)
	}
}

func TestDestinationPointRoundTrip(t *testing.T) {
	for _, dist := range []float64{1, 18.288, 402.336, 5000} {
		lat, lon := DestinationPoint(37.0, -122.0, 0, dist)
		got := HaversineDistance(37.0, -122.0, lat, lon)
		if math.Abs(got-dist) > 1e-6*math.Max(1, dist) {
			t.Fatalf("distance %.3f: round trip gave %.6f", dist, got)
		}
	}
}

func TestBounds(t *testing.T) {
	b := NewBounds()
	if !b.IsEmpty() || b.Diagonal() != 0 {
		t.Fatalf("new bounds should be empty")
	}

	b.Extend(37.1, -122.2)
	if b.IsEmpty() || b.MinLat != 37.1 || b.MaxLon != -122.2 {
		t.Fatalf("unexpected bounds after first point: %+v", b)
	}

	b.Extend(37.0, -122.0)
	b.Extend(37.05, -122.3)
	if b.MinLat != 37.0 || b.MaxLat != 37.1 || b.MinLon != -122.3 || b.MaxLon != -122.0 {
		t.Fatalf("unexpected bounds: %+v", b)
	}

	want := HaversineDistance(37.0, -122.3, 37.1, -122.0)
	if got := b.Diagonal(); got != want {
		t.Fatalf("expected diagonal %v, got %v", want, got)
	}
}
