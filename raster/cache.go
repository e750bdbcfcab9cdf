package raster

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/afc6ghz/engine/geo"
)

// TileCache is the LRU tile cache described in spec.md §4.B and §5: keyed
// by (baseFilename, band, tileLatOffset, tileLonOffset), it fronts a
// HandleCache of at most a handful of open GDAL datasets. Access
// discipline is a reader-writer lock per source: Get takes the read path
// on a cache hit, and only a tile-loading miss takes the (brief) write
// section that populates the LRU. golang-lru's own internal mutex makes
// the steady-state hit path lock-once rather than wait-free, a deliberate
// simplification over the "lock-free LRU" alternative spec.md §5 allows.
type TileCache struct {
	mu       sync.RWMutex
	tiles    *lru.Cache
	handles  *HandleCache
	tileSize int
}

// NewTileCache creates a tile cache of tileCount tiles (0 selects
// DefaultTileCacheSize), each tileSize x tileSize pixels (0 selects
// DefaultTileSize), reading through handles.
func NewTileCache(handles *HandleCache, tileCount, tileSize int) *TileCache {
	if tileCount <= 0 {
		tileCount = DefaultTileCacheSize
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	c, _ := lru.New(tileCount)
	return &TileCache{tiles: c, handles: handles, tileSize: tileSize}
}

// Get returns the tile of baseFilename/band covering (lat, lon),
// reading it from the handle cache on a miss.
func (tc *TileCache) Get(baseFilename string, band Band, latDeg, lonDeg float64) (Tile, error) {
	tc.mu.RLock()
	ds, err := tc.handles.Acquire(baseFilename)
	tc.mu.RUnlock()
	if err != nil {
		return Tile{}, err
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return Tile{}, err
	}
	xSize, ySize := ds.RasterSize()
	// Pixel offsets of the requested point within the full dataset grid.
	px := int((lonDeg - gt[0]) / gt[1])
	py := int((latDeg - gt[3]) / gt[5])
	if px < 0 || px >= xSize || py < 0 || py >= ySize {
		return Tile{}, fmt.Errorf("rasterio: (%f,%f) outside %s", latDeg, lonDeg, baseFilename)
	}
	latOffset := (py / tc.tileSize) * tc.tileSize
	lonOffset := (px / tc.tileSize) * tc.tileSize

	key := tileKey{baseFilename: baseFilename, band: band, latOffset: latOffset, lonOffset: lonOffset}

	tc.mu.RLock()
	if v, ok := tc.tiles.Get(key); ok {
		tc.mu.RUnlock()
		return v.(Tile), nil
	}
	tc.mu.RUnlock()

	tc.mu.Lock()
	defer tc.mu.Unlock()
	// Re-check: another goroutine may have populated it while we waited
	// for the write lock.
	if v, ok := tc.tiles.Get(key); ok {
		return v.(Tile), nil
	}

	w := min(tc.tileSize, xSize-lonOffset)
	h := min(tc.tileSize, ySize-latOffset)
	bnd, err := ds.Band(int(band))
	if err != nil {
		return Tile{}, err
	}
	data, err := bnd.ReadWindow(lonOffset, latOffset, w, h)
	if err != nil {
		return Tile{}, err
	}
	nd, hasND := bnd.NoData()

	tile := Tile{
		Rect: geoTileRect(gt, latOffset, lonOffset, w, h),
		Data: data, NoData: nd, HasND: hasND,
	}
	tc.tiles.Add(key, tile)
	return tile, nil
}

// Len reports the number of tiles currently cached, for the idempotency
// invariant test (spec.md §8.5: repeated lookups never grow the cache
// beyond its bound).
func (tc *TileCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.tiles.Len()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// geoTileRect builds the geo.TileRect describing one tile window's pixel
// grid from the dataset's GDAL geotransform and the tile's pixel offset.
func geoTileRect(gt [6]float64, latOffset, lonOffset, w, h int) geo.TileRect {
	lonPixPerDeg := 1 / gt[1]
	latPixPerDeg := 1 / -gt[5]
	lonMinDeg := gt[0] + float64(lonOffset)*gt[1]
	latMaxDeg := gt[3] + float64(latOffset)*gt[5]
	return geo.TileRect{
		LatPixPerDeg: latPixPerDeg,
		LonPixPerDeg: lonPixPerDeg,
		LatPixMax:    latMaxDeg * latPixPerDeg,
		LonPixMin:    lonMinDeg * lonPixPerDeg,
		LatSize:      h,
		LonSize:      w,
	}
}
