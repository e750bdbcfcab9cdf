package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/afc6ghz/engine/pathloss"
	"github.com/afc6ghz/engine/raster"
)

func TestEngineConfigSpecToEngineConfigAppliesModelAndThresholds(t *testing.T) {
	spec := engineConfigSpec{
		Model:               "itmBldg",
		MaxEIRPDBm:          36,
		MaxEIRPDBmByOpClass: map[int]float64{131: 30},
		INThresholdDB:       -6,
		DensityThrUrbanPerKm2: 3000,
	}
	cfg := spec.toEngineConfig()
	assert.Equal(t, pathloss.ModelITMBldg, cfg.PathLoss.Model)
	assert.Equal(t, 36.0, cfg.MaxEIRPDBm)
	assert.Equal(t, 30.0, cfg.MaxEIRPDBmByOpClass[131])
	assert.Equal(t, -6.0, cfg.Interference.INThresholdDB)
	assert.Equal(t, 3000.0, cfg.DensityThrUrbanPerKm2)
}

func TestDataSourceSpecBuildsMonolithicSource(t *testing.T) {
	ds := dataSourceSpec{Kind: "srtm", Mode: "monolithic", Path: "/data/srtm.tif"}
	cache := raster.NewTileCache(raster.NewHandleCache(4), 4, 256)
	src, err := ds.build(context.Background(), cache)
	assert.NoError(t, err)
	assert.NotNil(t, src)
	assert.Equal(t, raster.KindSRTM, ds.sourceKind())
}

func TestDataSourceSpecLocalPathPassesThroughLocalFiles(t *testing.T) {
	ds := dataSourceSpec{Path: "/data/srtm.tif"}
	path, err := ds.localPath(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "/data/srtm.tif", path)
}

func TestDataSourceSpecLocalPathRecognizesGCSPaths(t *testing.T) {
	_, object, ok := raster.ParseGCSPath("gs://afc-rasters/srtm/n37_w122.tif")
	assert.True(t, ok)
	assert.Equal(t, "srtm/n37_w122.tif", object)

	_, _, ok = raster.ParseGCSPath("/data/srtm.tif")
	assert.False(t, ok)
}

func TestDataSourceSpecBuildsTiledSourceFromDirectEntries(t *testing.T) {
	ds := dataSourceSpec{
		Kind: "nlcd",
		Mode: "tiled",
		Band: "terrain",
		DirectEntries: map[string]bboxSpec{
			"nlcd_37_122.tif": {MinLat: 37, MinLon: -123, MaxLat: 38, MaxLon: -122},
		},
	}
	cache := raster.NewTileCache(raster.NewHandleCache(4), 4, 256)
	src, err := ds.build(context.Background(), cache)
	assert.NoError(t, err)
	assert.True(t, src.Covers(37.5, -122.5))
	assert.False(t, src.Covers(10, 10))
}

func TestDataSourceSpecRejectsUnknownMode(t *testing.T) {
	ds := dataSourceSpec{Kind: "srtm", Mode: "bogus"}
	cache := raster.NewTileCache(raster.NewHandleCache(4), 4, 256)
	_, err := ds.build(context.Background(), cache)
	assert.Error(t, err)
}

func TestRunConfigDefaultsApplyWhenUnset(t *testing.T) {
	var cfg runConfig
	assert.Equal(t, defaultMaxOpenHandles, cfg.maxOpenHandlesOrDefault())
	assert.Equal(t, defaultTileCount, cfg.tileCountOrDefault())
	assert.Equal(t, defaultTileSize, cfg.tileSizeOrDefault())
}
