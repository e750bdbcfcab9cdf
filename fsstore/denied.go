package fsstore

import (
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/terrain"
)

// DeniedRegionKind tags the sum type of spec.md §3:
// {RectList, Circle(fixedRadius), Circle(horizonDistance)}.
type DeniedRegionKind int

const (
	DeniedRects DeniedRegionKind = iota
	DeniedCircleFixedRadius
	DeniedCircleHorizon
)

// DeniedRegion is an RAS or other exclusion area (spec.md §3).
type DeniedRegion struct {
	Kind DeniedRegionKind

	Rects []geo.BBox // DeniedRects

	Center         geo.Point // DeniedCircleFixedRadius / DeniedCircleHorizon
	FixedRadiusM   float64   // DeniedCircleFixedRadius
	MinAGLHeightM  float64   // DeniedCircleHorizon: height used for the horizon calc

	StartFreqMHz, StopFreqMHz float64
}

// EffectiveRadiusM resolves the region's radius, computing the horizon
// distance on demand for DeniedCircleHorizon kinds from MinAGLHeightM over
// a smooth 4/3-earth (terrain.HorizonDistanceM). resolver is not consulted;
// the center's ground elevation does not enter the radius.
func (d DeniedRegion) EffectiveRadiusM(resolver *terrain.Resolver) float64 {
	switch d.Kind {
	case DeniedCircleFixedRadius:
		return d.FixedRadiusM
	case DeniedCircleHorizon:
		return terrain.HorizonDistanceM(d.MinAGLHeightM, 0)
	default:
		return 0
	}
}

// Intersects reports whether point (latDeg, lonDeg) falls within this
// denied region, and whether [startMHz,stopMHz) overlaps the region's
// declared frequency band.
func (d DeniedRegion) Intersects(latDeg, lonDeg, startMHz, stopMHz float64, resolver *terrain.Resolver) bool {
	if stopMHz <= d.StartFreqMHz || startMHz >= d.StopFreqMHz {
		return false
	}
	switch d.Kind {
	case DeniedRects:
		for _, r := range d.Rects {
			if r.Contains(latDeg, lonDeg) {
				return true
			}
		}
		return false
	default:
		r := d.EffectiveRadiusM(resolver)
		return geo.HaversineDistanceM(d.Center, geo.Point{LatDeg: latDeg, LonDeg: lonDeg}) <= r
	}
}
