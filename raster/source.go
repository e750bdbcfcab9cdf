// Package raster implements the AFC raster data layer (spec.md §4.B):
// a unified, GDAL-backed (internal/rasterio) view over terrain, surface,
// building, and land-use rasters, fronted by an LRU tile cache and a
// second LRU over open GDAL dataset handles.
package raster

import "github.com/afc6ghz/engine/geo"

// Band selects which band of a multi-band source to sample (spec.md §6:
// LiDAR multiband band 1 = bare earth, band 2 = building surface).
type Band int

const (
	BandTerrain Band = 1
	BandBuilding Band = 2
)

// Source is the contract every raster implementation (monolithic or
// tiled, local file or GCS-backed) satisfies.
type Source interface {
	// Covers reports whether (lat, lon) falls inside this source's extent.
	Covers(latDeg, lonDeg float64) bool
	// ValueAt returns the sample at (lat, lon) for the given band, or
	// ok=false if the pixel is the source's declared no-data sentinel.
	ValueAt(latDeg, lonDeg float64, band Band) (value float64, ok bool)
}

// NameMapper resolves the base filename backing a given geodetic
// coordinate, for tiled sources (spec.md §4.B).
type NameMapper interface {
	// BaseFilename returns the file that should cover (lat, lon), or
	// ok=false if no candidate file is known to cover it.
	BaseFilename(latDeg, lonDeg float64) (name string, ok bool)
}

// RectifyRule constrains how tiles of a source stitch together: pixel
// density must be an integer multiple of PixelsPerDegreeMultiple, and
// MarginDeg pixels of overlap are kept at each tile edge (spec.md §4.B),
// covering SRTM's half-pixel convention and 3DEP's 12-pixel overlap.
type RectifyRule struct {
	PixelsPerDegreeMultiple int
	MarginDeg               float64
	HalfPixelOffset         bool // SRTM .hgt convention
}

// Bounds is a simple geodetic extent, reusing geo.BBox's tie-break rule.
type Bounds = geo.BBox
