package geo

import "math"

// Vertex is a 2-D point in degrees (lat, lon) used for polygon geometry.
type Vertex struct {
	LatDeg, LonDeg float64
}

// Polygon is a simple (non-self-intersecting) closed ring of vertices,
// supporting the in/out, area, bbox and closest-point queries of
// spec.md §4.A. Vertices are not required to repeat the first point.
type Polygon struct {
	Vertices []Vertex
}

// BBox is an axis-aligned rectangle in degrees. Per spec.md §4.A, the top
// and left edges are inclusive, bottom and right exclusive, consistently
// applied everywhere a point-in-rect test is made.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Contains applies the top/left-inclusive, bottom/right-exclusive rule.
func (b BBox) Contains(latDeg, lonDeg float64) bool {
	return latDeg <= b.MaxLat && latDeg > b.MinLat && lonDeg >= b.MinLon && lonDeg < b.MaxLon
}

// BBox computes the polygon's axis-aligned bounding box.
func (p Polygon) BBox() BBox {
	if len(p.Vertices) == 0 {
		return BBox{}
	}
	b := BBox{MinLat: math.Inf(1), MinLon: math.Inf(1), MaxLat: math.Inf(-1), MaxLon: math.Inf(-1)}
	for _, v := range p.Vertices {
		b.MinLat = math.Min(b.MinLat, v.LatDeg)
		b.MaxLat = math.Max(b.MaxLat, v.LatDeg)
		b.MinLon = math.Min(b.MinLon, v.LonDeg)
		b.MaxLon = math.Max(b.MaxLon, v.LonDeg)
	}
	return b
}

// Contains performs a ray-casting in/out test. The edge convention matches
// BBox.Contains: a vertex lying exactly on the polygon's topmost/leftmost
// extent is "in", on the bottommost/rightmost is "out", so repeated scans
// on an integer grid never double-count or drop a boundary cell.
func (p Polygon) Contains(latDeg, lonDeg float64) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := p.Vertices[i], p.Vertices[j]
		// Ray cast along +lon at fixed lat; standard even-odd rule with a
		// half-open test on the lat range avoids double-counting shared edges.
		if (vi.LatDeg < latDeg) != (vj.LatDeg < latDeg) {
			lonAtLat := vi.LonDeg + (latDeg-vi.LatDeg)/(vj.LatDeg-vi.LatDeg)*(vj.LonDeg-vi.LonDeg)
			if lonDeg < lonAtLat {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// AreaM2 computes the polygon's planar area in square meters, projecting
// vertices into a local ENU frame centered on the polygon's centroid
// before applying the shoelace formula (adequate for the few-km scale of
// an RLAN uncertainty region or exclusion-zone contour).
func (p Polygon) AreaM2() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	var cLat, cLon float64
	for _, v := range p.Vertices {
		cLat += v.LatDeg
		cLon += v.LonDeg
	}
	centroid := Point{LatDeg: cLat / float64(n), LonDeg: cLon / float64(n)}
	basis := LocalENU(centroid)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, v := range p.Vertices {
		e, north, _ := basis.ToENU(Point{LatDeg: v.LatDeg, LonDeg: v.LonDeg})
		xs[i], ys[i] = e, north
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += xs[i]*ys[j] - xs[j]*ys[i]
	}
	return math.Abs(sum) / 2
}

// ClosestPoint returns the index and squared-distance (deg^2) of the
// polygon vertex closest to (latDeg, lonDeg). Used by the exclusion-zone
// sweep to seed a bisection bearing search.
func (p Polygon) ClosestPoint(latDeg, lonDeg float64) (idx int, distDeg2 float64) {
	best := -1
	bestD := math.Inf(1)
	for i, v := range p.Vertices {
		dLat := v.LatDeg - latDeg
		dLon := v.LonDeg - lonDeg
		d := dLat*dLat + dLon*dLon
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best, bestD
}

// EllipsePoint parametrizes an ellipse centered at `center` with the given
// semi-major/semi-minor axes (meters) and clockwise-from-north orientation
// (degrees), returning the geodetic point at parameter t in [0, 2*pi).
func EllipsePoint(center Point, semiMajorM, semiMinorM, orientationDeg, t float64) Point {
	x := semiMajorM * math.Cos(t)
	y := semiMinorM * math.Sin(t)
	orient := Radians(orientationDeg)
	// Rotate from major/minor axes into East/North, with orientation measured
	// clockwise from true north (bearing convention), matching spec.md §3.
	east := x*math.Sin(orient) + y*math.Cos(orient)
	north := x*math.Cos(orient) - y*math.Sin(orient)
	dist := math.Hypot(east, north)
	if dist < 1e-9 {
		return center
	}
	bearing := math.Mod(Degrees(math.Atan2(east, north))+360, 360)
	return Destination(center, bearing, dist)
}

// EllipseContainsENU reports whether the point at local ENU offset
// (eastM, northM) lies within the ellipse in its own rotated frame.
func EllipseContainsENU(eastM, northM, semiMajorM, semiMinorM, orientationDeg float64) bool {
	orient := Radians(orientationDeg)
	// Un-rotate the offset into the ellipse's major/minor axes.
	x := eastM*math.Sin(orient) + northM*math.Cos(orient)
	y := eastM*math.Cos(orient) - northM*math.Sin(orient)
	if semiMajorM <= 0 || semiMinorM <= 0 {
		return false
	}
	return (x*x)/(semiMajorM*semiMajorM)+(y*y)/(semiMinorM*semiMinorM) <= 1
}
