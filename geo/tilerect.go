package geo

import "math"

// TileRect describes the pixel grid of one rectangular raster tile, per
// spec.md §3: pixel (0,0) is top-left, and a pixel's geodetic coordinate
// is recovered from latPixPerDeg/lonPixPerDeg and the tile's top-left
// corner (latPixMax, lonPixMin).
type TileRect struct {
	LatPixPerDeg float64
	LonPixPerDeg float64
	LatPixMax    float64 // latitude of the tile's top edge, in pixels (deg * LatPixPerDeg)
	LonPixMin    float64 // longitude of the tile's left edge, in pixels (deg * LonPixPerDeg)
	LatSize      int     // rows
	LonSize      int     // columns
	Margin       int     // pixels of overlap kept at each edge for stitching
}

// clampTolerancePx bounds how far an out-of-range pixel index may be from
// the tile edge before it is treated as a real error rather than a
// rounding artifact (spec.md §3 invariant).
const clampTolerancePx = 1

// PixelIndex converts a geodetic coordinate to (latIdx, lonIdx) within this
// tile. Longitude is rebased into the tile's [left, left+360) window
// before indexing. ok is false if the point is not covered by this tile
// even after the 1-pixel clamp tolerance.
func (t TileRect) PixelIndex(latDeg, lonDeg float64) (latIdx, lonIdx int, ok bool) {
	lon := rebaseLongitude(lonDeg, t.LonPixMin/t.LonPixPerDeg)
	latF := t.LatPixMax - latDeg*t.LatPixPerDeg
	lonF := lon*t.LonPixPerDeg - t.LonPixMin

	latIdx = clampIndex(int(math.Floor(latF)), t.LatSize)
	lonIdx = clampIndex(int(math.Floor(lonF)), t.LonSize)

	if !withinTolerance(latF, t.LatSize) || !withinTolerance(lonF, t.LonSize) {
		return 0, 0, false
	}
	return latIdx, lonIdx, true
}

func clampIndex(idx, size int) int {
	if idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}

func withinTolerance(f float64, size int) bool {
	if f < -clampTolerancePx {
		return false
	}
	if f >= float64(size)+clampTolerancePx {
		return false
	}
	return true
}

// rebaseLongitude maps lonDeg into [left, left+360) so tiles that straddle
// the antimeridian index consistently.
func rebaseLongitude(lonDeg, left float64) float64 {
	lon := lonDeg
	for lon < left {
		lon += 360
	}
	for lon >= left+360 {
		lon -= 360
	}
	return lon
}

// Covers reports whether the geodetic coordinate falls within this tile's
// pixel grid (including the clamp tolerance).
func (t TileRect) Covers(latDeg, lonDeg float64) bool {
	_, _, ok := t.PixelIndex(latDeg, lonDeg)
	return ok
}
