package itu

import "math"

// BuildingType selects the ITU-R P.2109 entry-loss category.
type BuildingType int

const (
	BuildingTraditional BuildingType = iota
	BuildingThermallyEfficient
)

// P2109Params carries the building-entry-loss inputs (spec.md §4.D).
type P2109Params struct {
	FreqMHz           float64
	ElevationAngleDeg float64 // angle of incidence above horizontal
	BuildingType      BuildingType
	Confidence        float64
	FixedBuildingLoss *float64 // if set, bypass the model entirely
}

// P2109 implements ITU-R P.2109's building entry loss model: a median
// loss as a function of frequency and building type, corrected for
// elevation angle, plus a confidence-quantile statistical spread.
func P2109(p P2109Params) LossResult {
	if p.FixedBuildingLoss != nil {
		return LossResult{LossDB: *p.FixedBuildingLoss, CDF: p.Confidence}
	}

	fGHz := p.FreqMHz / 1000
	var r, s, t, sigma float64
	if p.BuildingType == BuildingThermallyEfficient {
		r, s, t, sigma = 12.49, 0.09, 3.8, 8.1
	} else {
		r, s, t, sigma = 9.6, 0.06, 2.8, 8.6
	}
	median := r + s*math.Log10(fGHz)*fGHz + t*math.Log10(fGHz)

	// Elevation-angle correction: loss falls as incidence steepens toward
	// the zenith (less wall area along the path through the building shell).
	angleCorrection := -0.0417 * p.ElevationAngleDeg

	return LossResult{LossDB: math.Max(0, median+angleCorrection) + normInvCDF(p.Confidence)*sigma, CDF: p.Confidence}
}

// Radians converts degrees to radians, kept local to itu to avoid an
// import cycle back to geo for this one conversion.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }
