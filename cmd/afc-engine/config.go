package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/afc6ghz/engine/engine"
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/itu"
	"github.com/afc6ghz/engine/pathloss"
	"github.com/afc6ghz/engine/raster"
	"github.com/afc6ghz/engine/scanner"
)

const (
	defaultMaxOpenHandles = raster.DefaultMaxOpenHandles
	defaultTileCount      = raster.DefaultTileCacheSize
	defaultTileSize       = raster.DefaultTileSize
)

// bboxSpec is the JSON shape of a geo.BBox corner pair, since geo.BBox
// itself carries no JSON tags (it is an internal geometry type, not a
// wire shape).
type bboxSpec struct {
	MinLat float64 `json:"minLatitude"`
	MinLon float64 `json:"minLongitude"`
	MaxLat float64 `json:"maxLatitude"`
	MaxLon float64 `json:"maxLongitude"`
}

func (b bboxSpec) toBBox() geo.BBox {
	return geo.BBox{MinLat: b.MinLat, MinLon: b.MinLon, MaxLat: b.MaxLat, MaxLon: b.MaxLon}
}

// dataSourceSpec describes one raster.Source to register, in either of
// the two concrete forms the raster package already implements
// (spec.md §4.B): a single "monolithic" file covering a region, or a
// directory of "tiled" files resolved per-coordinate through a name
// mapper.
type dataSourceSpec struct {
	Kind string `json:"kind"` // "srtm", "globe", "3dep", "lidar", "nlcd", "population"
	Mode string `json:"mode"` // "monolithic" or "tiled"
	Band string `json:"band"` // "terrain" or "building"

	// Monolithic mode. Path may be a local file path or a "gs://bucket/object"
	// (or "/vsigs/bucket/object") cloud path; the latter is downloaded to
	// GCSCacheDir once via raster.FetchGCSObject before the local source is
	// built, since the raster package carries no VSI streaming bridge.
	Path   string    `json:"path,omitempty"`
	Bounds *bboxSpec `json:"bounds,omitempty"`

	// Tiled mode, direct name mapping.
	DirectEntries map[string]bboxSpec `json:"directEntries,omitempty"`

	// Tiled mode, pattern name mapping.
	PatternTemplate string `json:"patternTemplate,omitempty"`
	PatternDir      string `json:"patternDir,omitempty"`

	// GCS adapter tuning for a "gs://"/"/vsigs/" Path. GCSCacheDir defaults
	// to os.TempDir() when empty.
	GCSBlockSize       string `json:"gcsBlockSize,omitempty"`
	GCSNumCachedBlocks int    `json:"gcsNumCachedBlocks,omitempty"`
	GCSCacheDir        string `json:"gcsCacheDir,omitempty"`
}

func (d dataSourceSpec) sourceKind() raster.SourceKind {
	switch d.Kind {
	case "lidar":
		return raster.KindLidarMultiband
	case "3dep":
		return raster.Kind3DEP
	case "srtm":
		return raster.KindSRTM
	case "globe":
		return raster.KindGLOBE
	case "nlcd":
		return raster.KindNLCD
	case "population":
		return raster.KindPopulation
	default:
		return raster.KindSRTM
	}
}

func (d dataSourceSpec) band() raster.Band {
	if d.Band == "building" {
		return raster.BandBuilding
	}
	return raster.BandTerrain
}

func (d dataSourceSpec) build(ctx context.Context, cache *raster.TileCache) (raster.Source, error) {
	switch d.Mode {
	case "monolithic":
		if d.Path == "" {
			return nil, fmt.Errorf("monolithic data source requires a path")
		}
		path, err := d.localPath(ctx)
		if err != nil {
			return nil, err
		}
		var bounds *raster.Bounds
		if d.Bounds != nil {
			b := d.Bounds.toBBox()
			bounds = &b
		}
		return raster.NewMonolithicSource(path, cache, d.band(), bounds), nil

	case "tiled":
		mapper, err := d.nameMapper()
		if err != nil {
			return nil, err
		}
		return &raster.TiledSource{Mapper: mapper, Cache: cache, Band: d.band()}, nil

	default:
		return nil, fmt.Errorf("unknown data source mode %q", d.Mode)
	}
}

// localPath resolves d.Path to a file the local GDAL binding can open,
// downloading it first if it names a GCS object.
func (d dataSourceSpec) localPath(ctx context.Context) (string, error) {
	if _, _, ok := raster.ParseGCSPath(d.Path); !ok {
		return d.Path, nil
	}
	cacheDir := d.GCSCacheDir
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	return raster.FetchGCSObject(ctx, d.Path, raster.GCSAdapterOptions{
		BlockSize:       d.GCSBlockSize,
		NumCachedBlocks: d.GCSNumCachedBlocks,
	}, cacheDir)
}

func (d dataSourceSpec) nameMapper() (raster.NameMapper, error) {
	if len(d.DirectEntries) > 0 {
		entries := make(map[string]raster.Bounds, len(d.DirectEntries))
		for name, b := range d.DirectEntries {
			entries[name] = b.toBBox()
		}
		return raster.NewDirectMapper(entries), nil
	}
	if d.PatternTemplate != "" {
		dir := d.PatternDir
		listDir := func() ([]string, error) {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, err
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, filepath.Base(e.Name()))
			}
			return names, nil
		}
		return raster.NewPatternMapper(d.PatternTemplate, listDir)
	}
	return nil, fmt.Errorf("tiled data source requires directEntries or patternTemplate")
}

// engineConfigSpec is the JSON-facing subset of engine.Config this CLI
// exposes. It does not attempt to thread every pathloss.Config knob
// through the wire config (that would turn the thin CLI wrapper into a
// second copy of the EngineConfig schema); instead it covers the
// settings spec.md's testable properties (§8) exercise directly, and
// leaves the rest at their documented zero-value defaults.
type engineConfigSpec struct {
	Model string `json:"model"` // "fspl", "itmBldg", "coalition6", "fcc6GhzRO", "custom"

	MaxEIRPDBm          float64         `json:"maxEirpDbm"`
	MaxEIRPDBmByOpClass map[int]float64 `json:"maxEirpDbmByOperatingClass,omitempty"`

	INThresholdDB float64 `json:"inThresholdDb"`

	ITMDielectricConst float64 `json:"itmDielectricConst"`
	ITMConductivityS   float64 `json:"itmConductivitySPerM"`
	ITMClimateCode     int     `json:"itmClimateCode"`
	ITMSurfaceRefrN    float64 `json:"itmSurfaceRefractivity"`

	DensityThrUrbanPerKm2    float64 `json:"urbanDensityThresholdPerKm2"`
	DensityThrSuburbanPerKm2 float64 `json:"suburbanDensityThresholdPerKm2"`

	RLANHeightAGLM float64 `json:"rlanHeightAglM"`

	ScanMethod          string  `json:"scanMethod"` // "northEast", "majorMinorAxis" or "latLonAlignGrid"; any other value selects latLonAlignGrid
	ScanResolutionM     float64 `json:"scanResolutionM"`
	PointsPerDegree     float64 `json:"pointsPerDegree"`
	HeightStepM         float64 `json:"heightStepM"`
	MaxScanPoints       int     `json:"maxScanPoints"`

	ACIEnabled   bool    `json:"aciEnabled"`
	ACILeakageDB float64 `json:"aciLeakageDb"`
}

func (c engineConfigSpec) toEngineConfig() engine.Config {
	scanMethod := scanner.LatLonAlignGrid
	switch c.ScanMethod {
	case "majorMinorAxis":
		scanMethod = scanner.XYAlignMajorMinor
	case "northEast":
		scanMethod = scanner.XYAlignNorthEast
	}

	return engine.Config{
		PathLoss: pathloss.Config{
			Model:         modelFromString(c.Model),
			INThresholdDB: c.INThresholdDB,
		},
		Interference: interference.Config{
			INThresholdDB:    c.INThresholdDB,
			ACIEnabled:       c.ACIEnabled,
			ACILeakageDB:     c.ACILeakageDB,
			FSAntennaPattern: itu.PatternF1245,
		},
		Scan: scanner.Params{
			Method:          scanMethod,
			ScanResolutionM: c.ScanResolutionM,
			PointsPerDegree: c.PointsPerDegree,
			HeightStepM:     c.HeightStepM,
			MaxPoints:       c.MaxScanPoints,
		},

		MaxEIRPDBm:          c.MaxEIRPDBm,
		MaxEIRPDBmByOpClass: c.MaxEIRPDBmByOpClass,

		ITMDielectricConst: c.ITMDielectricConst,
		ITMConductivityS:   c.ITMConductivityS,
		ITMClimateCode:     c.ITMClimateCode,
		ITMSurfaceRefrN:    c.ITMSurfaceRefrN,

		DensityThrUrbanPerKm2:    c.DensityThrUrbanPerKm2,
		DensityThrSuburbanPerKm2: c.DensityThrSuburbanPerKm2,

		RLANHeightAGLM: c.RLANHeightAGLM,
	}
}

func modelFromString(s string) pathloss.Model {
	switch s {
	case "itmBldg":
		return pathloss.ModelITMBldg
	case "coalition6":
		return pathloss.ModelCoalition6
	case "fcc6GhzRO":
		return pathloss.ModelFCC6GHzRO
	case "custom":
		return pathloss.ModelCustom
	default:
		return pathloss.ModelFSPL
	}
}

// runConfig is the full JSON run configuration the CLI reads alongside
// the inquiry document: where the FS/RAS and raster databases live, and
// the EngineConfig to run with.
type runConfig struct {
	SupportedVersions []string `json:"supportedVersions,omitempty"`

	FSDatabasePath string       `json:"fsDatabasePath"`
	WindowBounds   bboxSpec     `json:"windowBounds"`
	StartMHz       float64      `json:"startMhz"`
	StopMHz        float64      `json:"stopMhz"`
	DataSources    []dataSourceSpec `json:"dataSources,omitempty"`

	MaxOpenHandles int `json:"maxOpenHandles,omitempty"`
	TileCount      int `json:"tileCacheTiles,omitempty"`
	TileSizePx     int `json:"tileSizePx,omitempty"`

	Engine engineConfigSpec `json:"engine"`
}

func (c runConfig) maxOpenHandlesOrDefault() int {
	if c.MaxOpenHandles > 0 {
		return c.MaxOpenHandles
	}
	return defaultMaxOpenHandles
}

func (c runConfig) tileCountOrDefault() int {
	if c.TileCount > 0 {
		return c.TileCount
	}
	return defaultTileCount
}

func (c runConfig) tileSizeOrDefault() int {
	if c.TileSizePx > 0 {
		return c.TileSizePx
	}
	return defaultTileSize
}
