package raster

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/afc6ghz/engine/internal/rasterio"
)

// DefaultMaxOpenHandles is the ceiling on simultaneously open GDAL file
// handles (spec.md §4.B / §5: "at most 9 GDAL file handles").
const DefaultMaxOpenHandles = 9

// HandleCache is the second LRU described in spec.md §4.B: it serializes
// opens/closes of GDAL datasets across workers and evicts the
// least-recently-used handle once more than maxOpen files are open
// (spec.md §5: "GDAL file handle cache (<=9) must serialize opens/closes
// across workers").
type HandleCache struct {
	mu      sync.Mutex
	cache   *lru.Cache
	maxOpen int
}

// NewHandleCache creates a handle cache bounded to maxOpen simultaneously
// open datasets. maxOpen<=0 selects DefaultMaxOpenHandles.
func NewHandleCache(maxOpen int) *HandleCache {
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenHandles
	}
	hc := &HandleCache{maxOpen: maxOpen}
	c, _ := lru.NewWithEvict(maxOpen, hc.onEvict)
	hc.cache = c
	return hc
}

func (hc *HandleCache) onEvict(key, value interface{}) {
	if ds, ok := value.(*rasterio.Dataset); ok {
		ds.Close()
	}
}

// Acquire returns the open dataset for path, opening (and evicting the
// LRU victim, if at capacity) on a cache miss.
func (hc *HandleCache) Acquire(path string) (*rasterio.Dataset, error) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	if v, ok := hc.cache.Get(path); ok {
		return v.(*rasterio.Dataset), nil
	}
	ds, err := rasterio.Open(path)
	if err != nil {
		return nil, err
	}
	hc.cache.Add(path, ds)
	return ds, nil
}

// Len reports the number of currently open handles.
func (hc *HandleCache) Len() int {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.cache.Len()
}

// Close evicts and closes every open handle.
func (hc *HandleCache) Close() {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.cache.Purge()
}
