// Package scanner implements the RLAN uncertainty-region scanner of
// spec.md §4.F: enumerating candidate transmitter points inside an
// ellipse or polygon, at multiple heights, under an AGL/AMSL policy.
package scanner

import "github.com/afc6ghz/engine/geo"

// RegionKind tags the sum type of spec.md §3:
// {Ellipse, LinearPolygon, RadialPolygon}.
type RegionKind int

const (
	RegionEllipse RegionKind = iota
	RegionLinearPolygon
	RegionRadialPolygon
)

// HeightType selects whether Region.CenterHeight is AMSL or AGL.
type HeightType int

const (
	HeightAMSL HeightType = iota
	HeightAGL
)

// RadialVertex is one (angle, radius) pair of a RadialPolygon.
type RadialVertex struct {
	AngleDeg float64
	RadiusM  float64
}

// Region is the RLAN uncertainty region (spec.md §3).
type Region struct {
	Kind RegionKind

	// Ellipse fields.
	Center                          geo.Point
	SemiMajorM, SemiMinorM           float64
	OrientationDeg                   float64

	// LinearPolygon fields.
	Vertices []geo.Vertex

	// RadialPolygon fields.
	RadialCenter geo.Point
	RadialVertices []RadialVertex

	HeightType        HeightType
	CenterHeight       float64 // meters
	HeightUncertainty  float64 // meters
	FixedHeightAMSL    bool
}

// CenterPoint returns the region's nominal center, used to seed scans
// and bound spatial store queries.
func (r Region) CenterPoint() geo.Point {
	switch r.Kind {
	case RegionRadialPolygon:
		return r.RadialCenter
	case RegionEllipse:
		return r.Center
	default:
		if len(r.Vertices) == 0 {
			return geo.Point{}
		}
		var lat, lon float64
		for _, v := range r.Vertices {
			lat += v.LatDeg
			lon += v.LonDeg
		}
		n := float64(len(r.Vertices))
		return geo.Point{LatDeg: lat / n, LonDeg: lon / n}
	}
}

// BoundingRadiusM over-approximates the region's extent from its center,
// used by fsstore.Store.InRange's r_rlan term (spec.md §4.E).
func (r Region) BoundingRadiusM() float64 {
	switch r.Kind {
	case RegionEllipse:
		if r.SemiMajorM > r.SemiMinorM {
			return r.SemiMajorM
		}
		return r.SemiMinorM
	case RegionRadialPolygon:
		max := 0.0
		for _, v := range r.RadialVertices {
			if v.RadiusM > max {
				max = v.RadiusM
			}
		}
		return max
	default:
		center := r.CenterPoint()
		max := 0.0
		for _, v := range r.Vertices {
			d := geo.HaversineDistanceM(center, geo.Point{LatDeg: v.LatDeg, LonDeg: v.LonDeg})
			if d > max {
				max = d
			}
		}
		return max
	}
}

// toPolygon renders a LinearPolygon/RadialPolygon Region into a
// geo.Polygon for containment tests; Ellipse regions use
// geo.EllipseContainsENU directly since that is cheaper than sampling a
// ring.
func (r Region) toPolygon() geo.Polygon {
	switch r.Kind {
	case RegionLinearPolygon:
		return geo.Polygon{Vertices: r.Vertices}
	case RegionRadialPolygon:
		verts := make([]geo.Vertex, len(r.RadialVertices))
		for i, rv := range r.RadialVertices {
			p := geo.Destination(r.RadialCenter, rv.AngleDeg, rv.RadiusM)
			verts[i] = geo.Vertex{LatDeg: p.LatDeg, LonDeg: p.LonDeg}
		}
		return geo.Polygon{Vertices: verts}
	default:
		return geo.Polygon{}
	}
}

// Contains reports whether (latDeg, lonDeg) lies within the region's
// horizontal extent.
func (r Region) Contains(latDeg, lonDeg float64) bool {
	switch r.Kind {
	case RegionEllipse:
		basis := geo.LocalENU(r.Center)
		e, n, _ := basis.ToENU(geo.Point{LatDeg: latDeg, LonDeg: lonDeg})
		return geo.EllipseContainsENU(e, n, r.SemiMajorM, r.SemiMinorM, r.OrientationDeg)
	default:
		return r.toPolygon().Contains(latDeg, lonDeg)
	}
}
