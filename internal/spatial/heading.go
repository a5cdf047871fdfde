package spatial

import (
	"math"
)

// MeanHeading computes the circular mean of headings in degrees, in [0, 360).
// Returns 0 for no headings.
func MeanHeading(headings []float64) float64 {
	if len(headings) == 0 {
		return 0
	}

	var sumSin, sumCos float64
	for _, h := range headings {
		rad := h * math.Pi / 180
		sumSin += math.Sin(rad)
		sumCos += math.Cos(rad)
	}

	mean := math.Atan2(sumSin, sumCos) * 180 / math.Pi
	if mean < 0 {
		mean += 360
	}
	return mean
}

// ResultantLength is the mean resultant length of the headings.
// It ranges from 0 (spread in every direction) to 1 (all identical).
func ResultantLength(headings []float64) float64 {
	if len(headings) == 0 {
		return 0
	}

	var sumSin, sumCos float64
	for _, h := range headings {
		rad := h * math.Pi / 180
		sumSin += math.Sin(rad)
		sumCos += math.Cos(rad)
	}
	return math.Sqrt(sumSin*sumSin+sumCos*sumCos) / float64(len(headings))
}

// HeadingSpread is the circular standard deviation of the headings in degrees,
// capped at 180 for headings with no common direction
func HeadingSpread(headings []float64) float64 {
	if len(headings) == 0 {
		return 0
	}
	r := ResultantLength(headings)
	if r >= 1 {
		return 0
	}
	if r <= 0 {
		return 180
	}
	return math.Min(math.Sqrt(-2*math.Log(r))*180/math.Pi, 180)
}

// HeadingDelta returns the signed smallest turn from a to b in degrees, in [-180, 180]
func HeadingDelta(a, b float64) float64 {
	diff := math.Mod(b-a, 360)
	if diff > 180 {
		diff -= 360
	}
	if diff < -180 {
		diff += 360
	}
	return diff
}
