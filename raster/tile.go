package raster

import "github.com/afc6ghz/engine/geo"

// DefaultTileSize is the pixel extent of one cached tile (spec.md §4.B).
const DefaultTileSize = 1000

// DefaultTileCacheSize is the default number of tiles held in the LRU
// cache (spec.md §4.B).
const DefaultTileCacheSize = 50

// tileKey identifies a cached tile: the backing file, band, and the
// tile's pixel offset within that file's grid (spec.md §4.B).
type tileKey struct {
	baseFilename string
	band         Band
	latOffset    int
	lonOffset    int
}

// Tile is one cached rectangular extract of a single band.
type Tile struct {
	Rect   geo.TileRect
	Data   []float64 // row-major, LatSize*LonSize
	NoData float64
	HasND  bool
}

// ValueAt returns the pixel value at (lat, lon) within this tile's grid.
func (t Tile) ValueAt(latDeg, lonDeg float64) (float64, bool) {
	latIdx, lonIdx, ok := t.Rect.PixelIndex(latDeg, lonDeg)
	if !ok {
		return 0, false
	}
	v := t.Data[latIdx*t.Rect.LonSize+lonIdx]
	if t.HasND && v == t.NoData {
		return 0, false
	}
	return v, true
}
