package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestECEFRoundTrip(t *testing.T) {
	cases := []Point{
		{LatDeg: 37.4, LonDeg: -122.1, HeightKm: 0.03},
		{LatDeg: -33.9, LonDeg: 151.2, HeightKm: 0.5},
		{LatDeg: 0, LonDeg: 0, HeightKm: 0},
		{LatDeg: 89.9, LonDeg: 179.9, HeightKm: 1.2},
	}
	for _, p := range cases {
		got := FromECEF(p.ToECEF())
		assert.InDelta(t, p.LatDeg, got.LatDeg, 1e-6, "lat round trip for %v", p)
		assert.InDelta(t, p.LonDeg, got.LonDeg, 1e-6, "lon round trip for %v", p)
		assert.InDelta(t, p.HeightKm*1000, got.HeightKm*1000, 1e-3, "height round trip (m) for %v", p)
	}
}

func TestAngleOffBoresightInvariantUnderRotation(t *testing.T) {
	origin := Point{LatDeg: 37.4, LonDeg: -122.1}
	target := Point{LatDeg: 37.5, LonDeg: -122.0}
	a1 := AngleOffBoresightDeg(origin, target, 45, 0)
	a2 := AngleOffBoresightDeg(origin, target, 45+360, 0)
	a3 := AngleOffBoresightDeg(origin, target, 45-360, 0)
	assert.InDelta(t, a1, a2, 1e-9)
	assert.InDelta(t, a1, a3, 1e-9)
}

func TestHaversineSymmetric(t *testing.T) {
	a := Point{LatDeg: 37.4, LonDeg: -122.1}
	b := Point{LatDeg: 37.5, LonDeg: -122.0}
	require.InDelta(t, HaversineDistanceM(a, b), HaversineDistanceM(b, a), 1e-6)
}

func TestBearingDestinationRoundTrip(t *testing.T) {
	origin := Point{LatDeg: 10, LonDeg: 20}
	dest := Destination(origin, 73, 15000)
	d := HaversineDistanceM(origin, dest)
	assert.InDelta(t, 15000, d, 1.0)
}

func TestBBoxEdgeInclusive(t *testing.T) {
	b := BBox{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 1}
	assert.True(t, b.Contains(1, 0), "top-left (max lat, min lon) is inclusive")
	assert.False(t, b.Contains(0, 0), "min lat (bottom) is exclusive")
	assert.False(t, b.Contains(1, 1), "max lon is exclusive")
}

func TestPolygonContainsSquare(t *testing.T) {
	square := Polygon{Vertices: []Vertex{
		{LatDeg: 0, LonDeg: 0},
		{LatDeg: 0, LonDeg: 1},
		{LatDeg: 1, LonDeg: 1},
		{LatDeg: 1, LonDeg: 0},
	}}
	assert.True(t, square.Contains(0.5, 0.5))
	assert.False(t, square.Contains(2, 2))
}

func TestEllipseAreaApproxPi(t *testing.T) {
	center := Point{LatDeg: 37.4, LonDeg: -122.1}
	n := 360
	verts := make([]Vertex, n)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		p := EllipsePoint(center, 300, 100, 45, t)
		verts[i] = Vertex{LatDeg: p.LatDeg, LonDeg: p.LonDeg}
	}
	poly := Polygon{Vertices: verts}
	area := poly.AreaM2()
	expected := math.Pi * 300 * 100
	assert.InDelta(t, expected, area, expected*0.01)
}

func TestTileRectPixelIndexClampsOnePixel(t *testing.T) {
	tr := TileRect{LatPixPerDeg: 3600, LonPixPerDeg: 3600, LatPixMax: 38 * 3600, LonPixMin: -123 * 3600, LatSize: 3600, LonSize: 3600}
	_, _, ok := tr.PixelIndex(36.99999, -123.0)
	assert.True(t, ok)
}
