package scanner

import (
	"fmt"
	"math"

	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/terrain"
)

// Method selects one of the three scan-point layout strategies of
// spec.md §4.F.
type Method int

const (
	XYAlignNorthEast Method = iota
	XYAlignMajorMinor
	LatLonAlignGrid
)

// Params configures a scan run.
type Params struct {
	Method                     Method
	ScanResolutionM            float64 // square tile side, for the XY methods
	PointsPerDegree            float64 // grid density, for LatLonAlignGrid
	HeightStepM                float64
	MinRlanHeightAboveTerrainM float64
	HeightPolicy               HeightPolicy
	MaxPoints                  int // 0 disables the cap
}

// Point is one emitted scan point: a candidate RLAN transmitter location.
type Point struct {
	Lat, Lon     float64
	HeightAMSL   float64
	IsIndoor     bool
}

func (p Params) minAGL() float64 {
	if p.MinRlanHeightAboveTerrainM > 0 {
		return p.MinRlanHeightAboveTerrainM
	}
	return DefaultMinRlanHeightAboveTerrainM
}

// Scan enumerates candidate transmitter points inside region under params,
// re-resolving terrain at every horizontal point via resolver to apply the
// AGL/below-ground policy (spec.md §4.F). Exceeding params.MaxPoints is
// reported as an error rather than silently truncated (spec.md §9
// "Memory").
func Scan(region Region, params Params, resolver *terrain.Resolver) ([]Point, error) {
	horiz, err := horizontalPoints(region, params)
	if err != nil {
		return nil, err
	}

	centerAMSL := region.CenterHeight
	if region.HeightType == HeightAGL {
		centerPt := region.CenterPoint()
		centerTerrain := resolver.HeightAt(centerPt.LatDeg, centerPt.LonDeg)
		if !centerTerrain.HasTerrain() {
			return nil, fmt.Errorf("scanner: terrain lookup failed at region center, cannot resolve AGL height basis")
		}
		centerAMSL = centerTerrain.TerrainHeight + region.CenterHeight
	}
	heights := enumerateHeightsAMSL(centerAMSL, region.HeightUncertainty, params.HeightStepM)
	if params.MaxPoints > 0 && len(horiz)*len(heights) > params.MaxPoints {
		return nil, fmt.Errorf("scanner: %d horizontal points x %d heights = %d exceeds max points %d",
			len(horiz), len(heights), len(horiz)*len(heights), params.MaxPoints)
	}

	minAGL := params.minAGL()
	out := make([]Point, 0, len(horiz)*len(heights))
	for _, h := range horiz {
		res := resolver.HeightAt(h.LatDeg, h.LonDeg)
		if !res.HasTerrain() {
			// spec.md §4.C: AMSL resolution failure discards the point
			// outright; there is no terrain to truncate against.
			continue
		}
		for _, amslCandidate := range heights {
			amsl, ok := applyHeightPolicy(amslCandidate, res.TerrainHeight, minAGL, params.HeightPolicy)
			if !ok {
				continue
			}
			out = append(out, Point{
				Lat: h.LatDeg, Lon: h.LonDeg,
				HeightAMSL: amsl,
				IsIndoor:   res.IsBuilding(),
			})
		}
	}
	return out, nil
}

// horizontalPoints dispatches to the configured Method.
func horizontalPoints(region Region, params Params) ([]geo.Point, error) {
	switch params.Method {
	case XYAlignMajorMinor:
		return scanMajorMinor(region, params.ScanResolutionM), nil
	case LatLonAlignGrid:
		return scanLatLonGrid(region, params.PointsPerDegree), nil
	default:
		return scanNorthEast(region, params.ScanResolutionM), nil
	}
}

// scanNorthEast tiles the region's ENU bounding box by scanResolutionM
// squares aligned to north/east, keeping tile centers that fall inside the
// region (spec.md §4.F: "rotate ellipse to N-E axes, tile by
// scanResolution_m squares, keep centers inside").
func scanNorthEast(region Region, resM float64) []geo.Point {
	if resM <= 0 {
		resM = 30
	}
	center := region.CenterPoint()
	r := region.BoundingRadiusM()
	if r <= 0 {
		return nil
	}
	var out []geo.Point
	for e := -r + resM/2; e < r; e += resM {
		for n := -r + resM/2; n < r; n += resM {
			p := enuToGeo(center, e, n)
			if !region.Contains(p.LatDeg, p.LonDeg) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// scanMajorMinor tiles in the ellipse's own major/minor axis frame, then
// rotates each tile center back into East/North before converting to
// geodetic (spec.md §4.F: "same but axes aligned to the ellipse's
// major/minor").
func scanMajorMinor(region Region, resM float64) []geo.Point {
	if region.Kind != RegionEllipse {
		return scanNorthEast(region, resM)
	}
	if resM <= 0 {
		resM = 30
	}
	a, b := region.SemiMajorM, region.SemiMinorM
	orient := geo.Radians(region.OrientationDeg)
	sinO, cosO := math.Sin(orient), math.Cos(orient)
	var out []geo.Point
	for x := -a + resM/2; x < a; x += resM {
		for y := -b + resM/2; y < b; y += resM {
			if (x*x)/(a*a)+(y*y)/(b*b) > 1 {
				continue
			}
			east := x*sinO + y*cosO
			north := x*cosO - y*sinO
			out = append(out, enuToGeo(region.Center, east, north))
		}
	}
	return out
}

// scanLatLonGrid lays an equispaced grid aligned to whole-degree lines at
// pointsPerDegree density, deterministic across runs regardless of the
// region's own extent (spec.md §4.F).
func scanLatLonGrid(region Region, pointsPerDegree float64) []geo.Point {
	if pointsPerDegree <= 0 {
		pointsPerDegree = 100
	}
	step := 1.0 / pointsPerDegree
	bbox := regionBBoxDeg(region)

	latStart := math.Floor(bbox.MinLat/step) * step
	lonStart := math.Floor(bbox.MinLon/step) * step

	var out []geo.Point
	for lat := latStart; lat <= bbox.MaxLat; lat += step {
		for lon := lonStart; lon <= bbox.MaxLon; lon += step {
			if !region.Contains(lat, lon) {
				continue
			}
			out = append(out, geo.Point{LatDeg: lat, LonDeg: lon})
		}
	}
	return out
}

// regionBBoxDeg over-approximates region's extent in degrees by projecting
// its bounding radius outward from the center along the four cardinal
// bearings.
func regionBBoxDeg(region Region) geo.BBox {
	center := region.CenterPoint()
	r := region.BoundingRadiusM()
	n := geo.Destination(center, 0, r)
	s := geo.Destination(center, 180, r)
	e := geo.Destination(center, 90, r)
	w := geo.Destination(center, 270, r)
	return geo.BBox{
		MinLat: s.LatDeg, MaxLat: n.LatDeg,
		MinLon: w.LonDeg, MaxLon: e.LonDeg,
	}
}

// enuToGeo converts a local East/North offset (meters, zero Up) from origin
// into a geodetic point via bearing/distance.
func enuToGeo(origin geo.Point, eastM, northM float64) geo.Point {
	dist := math.Hypot(eastM, northM)
	if dist < 1e-9 {
		return origin
	}
	bearing := math.Mod(geo.Degrees(math.Atan2(eastM, northM))+360, 360)
	return geo.Destination(origin, bearing, dist)
}
