package raster

// TiledSource is a raster.Source backed by many files under a directory,
// resolved per-coordinate through a NameMapper and read through a shared
// TileCache (spec.md §4.B).
type TiledSource struct {
	Mapper  NameMapper
	Cache   *TileCache
	Band    Band
	Rectify RectifyRule
}

// Covers reports whether the name mapper has a candidate file for (lat, lon).
func (s *TiledSource) Covers(latDeg, lonDeg float64) bool {
	_, ok := s.Mapper.BaseFilename(latDeg, lonDeg)
	return ok
}

// ValueAt resolves the backing file via the name mapper, then reads
// through the shared tile cache.
func (s *TiledSource) ValueAt(latDeg, lonDeg float64, band Band) (float64, bool) {
	name, ok := s.Mapper.BaseFilename(latDeg, lonDeg)
	if !ok {
		return 0, false
	}
	tile, err := s.Cache.Get(name, band, latDeg, lonDeg)
	if err != nil {
		return 0, false
	}
	return tile.ValueAt(latDeg, lonDeg)
}

// MonolithicSource is a raster.Source backed by a single file (e.g. a
// region-wide NLCD mosaic), sharing the same TileCache machinery as
// TiledSource so a single large file is still read and cached in
// DefaultTileSize windows rather than wholesale (spec.md §4.B).
type MonolithicSource struct {
	Path   string
	Cache  *TileCache
	Band   Band
	bounds Bounds
	hasB   bool
}

// NewMonolithicSource wraps path, optionally restricting Covers to bounds
// (if known ahead of time; otherwise Covers always delegates to a read
// attempt).
func NewMonolithicSource(path string, cache *TileCache, band Band, bounds *Bounds) *MonolithicSource {
	m := &MonolithicSource{Path: path, Cache: cache, Band: band}
	if bounds != nil {
		m.bounds = *bounds
		m.hasB = true
	}
	return m
}

func (s *MonolithicSource) Covers(latDeg, lonDeg float64) bool {
	if s.hasB {
		return s.bounds.Contains(latDeg, lonDeg)
	}
	_, err := s.Cache.Get(s.Path, s.Band, latDeg, lonDeg)
	return err == nil
}

func (s *MonolithicSource) ValueAt(latDeg, lonDeg float64, band Band) (float64, bool) {
	tile, err := s.Cache.Get(s.Path, band, latDeg, lonDeg)
	if err != nil {
		return 0, false
	}
	return tile.ValueAt(latDeg, lonDeg)
}
