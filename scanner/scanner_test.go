package scanner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/raster"
	"github.com/afc6ghz/engine/terrain"
)

// fakeFlatSource reports a constant terrain height everywhere, with no
// building band, so scanner tests can exercise terrain-dependent policy
// without raster fixtures.
type fakeFlatSource struct{ heightM float64 }

func (f fakeFlatSource) Covers(latDeg, lonDeg float64) bool { return true }

func (f fakeFlatSource) ValueAt(latDeg, lonDeg float64, band raster.Band) (float64, bool) {
	if band == raster.BandTerrain {
		return f.heightM, true
	}
	return 0, false
}

func newFlatResolver(heightM float64) *terrain.Resolver {
	reg := raster.NewRegistry()
	reg.Register(raster.KindSRTM, fakeFlatSource{heightM: heightM})
	return terrain.NewResolver(reg)
}

func TestScanEllipseNorthEastPointCount(t *testing.T) {
	// spec.md S4: semi-major 300m, semi-minor 100m, resolution 30m ->
	// at least ceil(pi*300*100/30^2) ~= 1047 inside-points.
	region := Region{
		Kind: RegionEllipse,
		Center: geo.Point{LatDeg: 37.0, LonDeg: -122.0},
		SemiMajorM: 300, SemiMinorM: 100, OrientationDeg: 45,
		CenterHeight: 10, HeightUncertainty: 0, HeightType: HeightAMSL,
	}
	params := Params{Method: XYAlignNorthEast, ScanResolutionM: 30, HeightStepM: 1}
	resolver := newFlatResolver(5)

	pts, err := Scan(region, params, resolver)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(pts), 1047)
}

func TestScanEllipseNorthEastBBoxAxisAligned(t *testing.T) {
	region := Region{
		Kind: RegionEllipse,
		Center: geo.Point{LatDeg: 37.0, LonDeg: -122.0},
		SemiMajorM: 300, SemiMinorM: 100, OrientationDeg: 45,
		CenterHeight: 10, HeightType: HeightAMSL,
	}
	params := Params{Method: XYAlignNorthEast, ScanResolutionM: 30, HeightStepM: 1}
	resolver := newFlatResolver(5)

	pts, err := Scan(region, params, resolver)
	assert.NoError(t, err)

	var minLat, maxLat, minLon, maxLon float64 = 90, -90, 180, -180
	for _, p := range pts {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLon = math.Min(minLon, p.Lon)
		maxLon = math.Max(maxLon, p.Lon)
	}
	// An N-E aligned tiling over a rotated ellipse produces a bounding box
	// wider in longitude than the semi-minor axis alone would allow, since
	// the tile grid itself (not the ellipse) is axis-aligned to N-E.
	assert.Greater(t, maxLat, minLat)
	assert.Greater(t, maxLon, minLon)
}

func TestScanHeightEnumerationRespectsAGLFloor(t *testing.T) {
	region := Region{
		Kind: RegionEllipse,
		Center: geo.Point{LatDeg: 37.0, LonDeg: -122.0},
		SemiMajorM: 50, SemiMinorM: 50,
		CenterHeight: 6, HeightUncertainty: 5, HeightType: HeightAMSL,
	}
	params := Params{
		Method: XYAlignNorthEast, ScanResolutionM: 50, HeightStepM: 2,
		MinRlanHeightAboveTerrainM: 1.5, HeightPolicy: PolicyDiscard,
	}
	resolver := newFlatResolver(5) // terrain=5, so AMSL<6.5 violates the floor

	pts, err := Scan(region, params, resolver)
	assert.NoError(t, err)
	assert.NotEmpty(t, pts)
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.HeightAMSL-5, 1.5-1e-9)
	}
}

func TestScanHeightPolicyTruncateNeverDiscards(t *testing.T) {
	region := Region{
		Kind: RegionEllipse,
		Center: geo.Point{LatDeg: 37.0, LonDeg: -122.0},
		SemiMajorM: 50, SemiMinorM: 50,
		CenterHeight: 6, HeightUncertainty: 5, HeightType: HeightAMSL,
	}
	params := Params{
		Method: XYAlignNorthEast, ScanResolutionM: 50, HeightStepM: 2,
		MinRlanHeightAboveTerrainM: 1.5, HeightPolicy: PolicyTruncate,
	}
	resolver := newFlatResolver(5)

	heights := enumerateHeightsAMSL(6, 5, 2)
	pts, err := Scan(region, params, resolver)
	assert.NoError(t, err)
	horizCount := len(pts) / len(heights)
	assert.Equal(t, len(heights)*horizCount, len(pts))
}

func TestScanMaxPointsReportsInputError(t *testing.T) {
	region := Region{
		Kind: RegionEllipse,
		Center: geo.Point{LatDeg: 37.0, LonDeg: -122.0},
		SemiMajorM: 300, SemiMinorM: 100,
		CenterHeight: 10, HeightType: HeightAMSL,
	}
	params := Params{Method: XYAlignNorthEast, ScanResolutionM: 10, HeightStepM: 1, MaxPoints: 10}
	resolver := newFlatResolver(5)

	_, err := Scan(region, params, resolver)
	assert.Error(t, err)
}

func TestScanLatLonGridDeterministic(t *testing.T) {
	region := Region{
		Kind: RegionEllipse,
		Center: geo.Point{LatDeg: 37.0, LonDeg: -122.0},
		SemiMajorM: 100, SemiMinorM: 100,
		CenterHeight: 10, HeightType: HeightAMSL,
	}
	params := Params{Method: LatLonAlignGrid, PointsPerDegree: 1000, HeightStepM: 1}
	resolver := newFlatResolver(5)

	a, errA := Scan(region, params, resolver)
	b, errB := Scan(region, params, resolver)
	assert.NoError(t, errA)
	assert.NoError(t, errB)
	assert.Equal(t, a, b)
}
