package terrain

import (
	"math"

	"github.com/afc6ghz/engine/geo"
)

// ElevationProfile is a great-circle sampling of terrain height between
// two endpoints, consumed by the ITM path-loss model (spec.md §4.D).
type ElevationProfile struct {
	SpacingM  float64
	Heights   []float64 // meters AMSL, including both endpoints
	HasGap    bool       // true if any sample point had no terrain data
	Building  []bool     // per-sample building presence
}

// DefaultMaxPoints and DefaultMinSpacingM are ITM's defaults (spec.md §4.D).
const (
	DefaultMaxPoints   = 1500
	DefaultMinSpacingM = 30.0
)

// Profile samples terrain height along the great-circle segment from a to
// b using resolver, at even spacing no finer than minSpacingM and no more
// than maxPoints samples total (the engine reduces sample count, never
// spacing, to respect the cap).
func (r *Resolver) Profile(a, b geo.Point, minSpacingM float64, maxPoints int) ElevationProfile {
	if minSpacingM <= 0 {
		minSpacingM = DefaultMinSpacingM
	}
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	distM := geo.HaversineDistanceM(a, b)
	n := int(distM/minSpacingM) + 1
	if n < 2 {
		n = 2
	}
	if n > maxPoints {
		n = maxPoints
	}
	spacing := distM / float64(n-1)

	bearing := geo.InitialBearingDeg(a, b)
	heights := make([]float64, n)
	bldg := make([]bool, n)
	hasGap := false
	for i := 0; i < n; i++ {
		d := float64(i) * spacing
		p := geo.Destination(a, bearing, d)
		res := r.HeightAt(p.LatDeg, p.LonDeg)
		if !res.HasTerrain() {
			hasGap = true
			continue
		}
		heights[i] = res.TerrainHeight
		bldg[i] = res.IsBuilding()
	}
	return ElevationProfile{SpacingM: spacing, Heights: heights, HasGap: hasGap, Building: bldg}
}

// HorizonDistanceM returns the radio horizon distance for an antenna at
// heightM above a smooth earth of effective radius earthRadiusM
// (4/3-earth approximation by default), used by denied-region horizon
// circles (spec.md §3).
func HorizonDistanceM(heightM, earthRadiusM float64) float64 {
	if earthRadiusM <= 0 {
		earthRadiusM = (4.0 / 3.0) * 6371000.0
	}
	if heightM <= 0 {
		return 0
	}
	return math.Sqrt(2 * earthRadiusM * heightM)
}
