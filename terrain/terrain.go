// Package terrain implements the per-point height resolver of spec.md
// §4.C: fallback priority LiDAR -> 3DEP -> SRTM -> GLOBE, reporting which
// source answered and whether a building was detected at that point.
package terrain

import "github.com/afc6ghz/engine/raster"

// Source tags which raster layer ultimately answered a height query.
type Source int

const (
	SourceUnknown Source = iota
	SourceLidar
	Source3DEP
	SourceSRTM
	SourceGLOBE
)

func (s Source) String() string {
	switch s {
	case SourceLidar:
		return "LiDAR"
	case Source3DEP:
		return "3DEP"
	case SourceSRTM:
		return "SRTM"
	case SourceGLOBE:
		return "GLOBE"
	default:
		return "Unknown"
	}
}

// Variant tags the shape of a Result, matching spec.md §3's tagged union
// {Outside, NoData, NoBuilding(terrainHeight), Building(terrainHeight, bldgHeight)}.
type Variant int

const (
	VariantOutside Variant = iota
	VariantNoData
	VariantNoBuilding
	VariantBuilding
)

// Result is a terrain height query outcome.
type Result struct {
	Variant       Variant
	Source        Source
	TerrainHeight float64 // meters, valid for NoBuilding/Building
	BuildingHeight float64 // meters, valid for Building only
}

// IsBuilding reports whether this result found a building at the point.
func (r Result) IsBuilding() bool { return r.Variant == VariantBuilding }

// HasTerrain reports whether a usable terrain height was resolved.
func (r Result) HasTerrain() bool {
	return r.Variant == VariantNoBuilding || r.Variant == VariantBuilding
}

// buildingMarginM is the minimum excess of the building-band value over
// the bare-earth value before a pixel is classified as "building" rather
// than measurement noise (spec.md §4.C: "bldg > terrain + 1 m").
const buildingMarginM = 1.0

// Resolver resolves terrain/building height at a point by walking a
// raster.Registry in the configured fallback priority.
type Resolver struct {
	registry *raster.Registry
	priority []sourcePriority
}

type sourcePriority struct {
	kind   raster.SourceKind
	source Source
}

// NewResolver builds the standard LiDAR -> 3DEP -> SRTM -> GLOBE resolver
// over registry.
func NewResolver(registry *raster.Registry) *Resolver {
	return &Resolver{
		registry: registry,
		priority: []sourcePriority{
			{raster.KindLidarMultiband, SourceLidar},
			{raster.Kind3DEP, Source3DEP},
			{raster.KindSRTM, SourceSRTM},
			{raster.KindGLOBE, SourceGLOBE},
		},
	}
}

// HeightAt resolves terrain (and, where available, building) height at
// (latDeg, lonDeg), iterating sources in priority order and returning the
// first non-nodata hit.
func (r *Resolver) HeightAt(latDeg, lonDeg float64) Result {
	for _, p := range r.priority {
		src, ok := r.registry.Lookup(p.kind, latDeg, lonDeg)
		if !ok {
			continue
		}
		terrainVal, ok := src.ValueAt(latDeg, lonDeg, raster.BandTerrain)
		if !ok {
			continue
		}
		if p.kind != raster.KindLidarMultiband {
			return Result{Variant: VariantNoBuilding, Source: p.source, TerrainHeight: terrainVal}
		}
		bldgVal, hasB := src.ValueAt(latDeg, lonDeg, raster.BandBuilding)
		if hasB && bldgVal > terrainVal+buildingMarginM {
			return Result{Variant: VariantBuilding, Source: p.source, TerrainHeight: terrainVal, BuildingHeight: bldgVal}
		}
		return Result{Variant: VariantNoBuilding, Source: p.source, TerrainHeight: terrainVal}
	}
	return Result{Variant: VariantNoData, Source: SourceUnknown}
}
