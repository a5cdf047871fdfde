package spatial

// Bounds is the latitude/longitude bounding box of a set of points
type Bounds struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
	empty          bool
}

// NewBounds returns an empty bounding box
func NewBounds() Bounds {
	return Bounds{empty: true}
}

// Extend grows the box to contain the point
func (b *Bounds) Extend(lat, lon float64) {
	if b.empty {
		b.MinLat, b.MaxLat = lat, lat
		b.MinLon, b.MaxLon = lon, lon
		b.empty = false
		return
	}
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
}

// IsEmpty reports whether no point has been added
func (b Bounds) IsEmpty() bool {
	return b.empty
}

// Diagonal is the great-circle distance between the box corners, in meters
func (b Bounds) Diagonal() float64 {
	if b.empty {
		return 0
	}
	return HaversineDistance(b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}
