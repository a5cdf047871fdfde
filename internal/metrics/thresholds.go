package metrics

import "github.com/jengzang/perf-timing-backend-go/internal/models"

// Distance thresholds in meters
const (
	SixtyFeet   = 18.288
	EighthMile  = 201.168
	QuarterMile = 402.336
)

// Speed thresholds in m/s
const (
	MovementThreshold = 0.894 // 2 mph
	MPH30             = 13.4112
	MPH40             = 17.8816
	MPH60             = 26.8224
	MPH70             = 31.2928
	MPH80             = 35.7632
	MPH100            = 44.704
)

// DefaultAccuracyThreshold is the horizontal accuracy (meters) below which a metric is reliable
const DefaultAccuracyThreshold = 50.0

// Definition parameterizes one metric. Only the fields relevant to the
// type's family are read:
//   - distance: Distance
//   - speed: EndSpeed
//   - rolling, braking: StartSpeed and EndSpeed
type Definition struct {
	Type       models.MetricType   `json:"type"`
	Family     models.MetricFamily `json:"family"`
	Distance   float64             `json:"distance,omitempty"`
	StartSpeed float64             `json:"startSpeed,omitempty"`
	EndSpeed   float64             `json:"endSpeed"`
}

// DefaultDefinitions returns the standard metric set in computation order
func DefaultDefinitions() []Definition {
	return []Definition{
		{Type: models.MetricSixtyFeet, Family: models.FamilyDistance, Distance: SixtyFeet},
		{Type: models.MetricEighthMile, Family: models.FamilyDistance, Distance: EighthMile},
		{Type: models.MetricQuarterMile, Family: models.FamilyDistance, Distance: QuarterMile},

		{Type: models.MetricZeroToThirty, Family: models.FamilySpeed, EndSpeed: MPH30},
		{Type: models.MetricZeroToForty, Family: models.FamilySpeed, EndSpeed: MPH40},
		{Type: models.MetricZeroToSixty, Family: models.FamilySpeed, EndSpeed: MPH60},
		{Type: models.MetricZeroToEighty, Family: models.FamilySpeed, EndSpeed: MPH80},
		{Type: models.MetricZeroToHundred, Family: models.FamilySpeed, EndSpeed: MPH100},

		{Type: models.MetricThirtyToSeventy, Family: models.FamilyRolling, StartSpeed: MPH30, EndSpeed: MPH70},
		{Type: models.MetricFortyToHundred, Family: models.FamilyRolling, StartSpeed: MPH40, EndSpeed: MPH100},

		{Type: models.MetricSixtyToZero, Family: models.FamilyBraking, StartSpeed: MPH60, EndSpeed: 0},
	}
}
