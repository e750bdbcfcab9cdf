package raster

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afc6ghz/engine/internal/rasterio"
)

// writeTestRaster builds a small, flat single-band GeoTIFF so TileCache and
// HandleCache tests can exercise real rasterio.Open/GDALRasterIO reads
// without checking in binary fixtures.
func writeTestRaster(t *testing.T, path string, size int, originLatDeg, originLonDeg, pixelDeg, fill float64) {
	t.Helper()
	gt := [6]float64{originLonDeg, pixelDeg, 0, originLatDeg, 0, -pixelDeg}
	pixels := make([]float64, size*size)
	for i := range pixels {
		pixels[i] = fill
	}
	require.NoError(t, rasterio.Create(path, size, size, gt, -9999, pixels))
}

func TestTileCacheGetIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.tif")
	writeTestRaster(t, path, 64, 38.0, -123.0, 0.01, 42.0)

	handles := NewHandleCache(4)
	t.Cleanup(handles.Close)
	cache := NewTileCache(handles, 8, 16)

	for i := 0; i < 5; i++ {
		tile, err := cache.Get(path, BandTerrain, 37.9, -122.9)
		require.NoError(t, err)
		v, ok := tile.ValueAt(37.9, -122.9)
		require.True(t, ok)
		assert.Equal(t, 42.0, v)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestTileCacheGetNeverGrowsPastBound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.tif")
	writeTestRaster(t, path, 64, 38.0, -123.0, 0.01, 7.0)

	handles := NewHandleCache(4)
	t.Cleanup(handles.Close)
	cache := NewTileCache(handles, 2, 16)

	for _, lat := range []float64{37.99, 37.8, 37.6, 37.4, 37.2} {
		_, err := cache.Get(path, BandTerrain, lat, -122.9)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, cache.Len(), 2)
}

func TestHandleCacheAcquireIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.tif")
	writeTestRaster(t, path, 8, 38.0, -123.0, 0.01, 1.0)

	handles := NewHandleCache(4)
	t.Cleanup(handles.Close)

	var first *rasterio.Dataset
	for i := 0; i < 3; i++ {
		ds, err := handles.Acquire(path)
		require.NoError(t, err)
		if first == nil {
			first = ds
		} else {
			assert.Same(t, first, ds)
		}
	}
	assert.Equal(t, 1, handles.Len())
}

func TestHandleCacheNeverGrowsPastMaxOpen(t *testing.T) {
	dir := t.TempDir()
	handles := NewHandleCache(2)
	t.Cleanup(handles.Close)

	for i := 0; i < 4; i++ {
		path := filepath.Join(dir, fmt.Sprintf("f%d.tif", i))
		writeTestRaster(t, path, 4, 38.0, -123.0, 0.01, float64(i))
		_, err := handles.Acquire(path)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, handles.Len(), 2)
}
