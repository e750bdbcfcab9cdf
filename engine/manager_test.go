package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afc6ghz/engine/analyses"
	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/pathloss"
	"github.com/afc6ghz/engine/raster"
	"github.com/afc6ghz/engine/scanner"
)

// fakeFlatSource mirrors the other packages' constant-height test fake.
type fakeFlatSource struct{ heightM float64 }

func (f fakeFlatSource) Covers(latDeg, lonDeg float64) bool { return true }

func (f fakeFlatSource) ValueAt(latDeg, lonDeg float64, band raster.Band) (float64, bool) {
	if band == raster.BandTerrain {
		return f.heightM, true
	}
	return 0, false
}

// fakeSingleValueSource answers every BandTerrain query with one constant
// value, standing in for an NLCD code or a population density pixel.
type fakeSingleValueSource struct{ value float64 }

func (f fakeSingleValueSource) Covers(latDeg, lonDeg float64) bool { return true }

func (f fakeSingleValueSource) ValueAt(latDeg, lonDeg float64, band raster.Band) (float64, bool) {
	if band == raster.BandTerrain {
		return f.value, true
	}
	return 0, false
}

func newTestManager(nlcdCode, populationPerKm2 float64) *Manager {
	reg := raster.NewRegistry()
	reg.Register(raster.KindSRTM, fakeFlatSource{heightM: 5})
	reg.Register(raster.KindNLCD, fakeSingleValueSource{value: nlcdCode})
	reg.Register(raster.KindPopulation, fakeSingleValueSource{value: populationPerKm2})

	store := fsstore.NewStore()
	ant := store.AddAntenna(fsstore.Antenna{MaxGainDBi: 30, DOverLambda: 50})
	store.AddFS(fsstore.FS{
		FSID:                  1,
		RxLocation:            geo.Point{LatDeg: 37.01, LonDeg: -122.0},
		TxLocation:            geo.Point{LatDeg: 37.02, LonDeg: -122.0},
		Antenna:               ant,
		StartFreqMHz:          5945, StopFreqMHz: 5965,
		NoiseFloorDBW:         -130,
		MaxInteractionRadiusM: 300_000,
	})

	m := NewManager(nil)
	_ = m.Configure(Config{
		PathLoss:                 pathloss.Config{Model: pathloss.ModelFSPL},
		Interference:             interference.Config{INThresholdDB: -6},
		Scan:                     scanner.Params{Method: scanner.XYAlignNorthEast, ScanResolutionM: 30, HeightStepM: 1},
		MaxEIRPDBm:               36,
		DensityThrUrbanPerKm2:    3000,
		DensityThrSuburbanPerKm2: 500,
		RLANHeightAGLM:           1.5,
	})
	_ = m.LoadDatabases(store, reg)
	return m
}

func TestStateMachineRejectsOutOfOrderTransitions(t *testing.T) {
	m := NewManager(nil)
	assert.Equal(t, StateNew, m.State())

	_, err := m.PointAnalysis(scanner.Region{}, nil, nil)
	assert.Error(t, err)
	assert.Equal(t, StateFailed, m.State())
}

func TestConfigureThenLoadDatabasesReachesDatabasesLoaded(t *testing.T) {
	m := newTestManager(10, 10)
	assert.Equal(t, StateDatabasesLoaded, m.State())
}

func TestEnvironmentAtClassifiesUrbanFromNLCDAndPopulation(t *testing.T) {
	m := newTestManager(24 /* developed high intensity */, 5000)
	env := m.environmentAt(37.0, -122.0)
	assert.True(t, env.NLCDUrban)
	assert.Equal(t, 5000.0, env.PopulationPerKm2)
}

func TestEnvironmentAtClassifiesRuralBelowThresholds(t *testing.T) {
	m := newTestManager(11 /* open water, not developed */, 10)
	env := m.environmentAt(37.0, -122.0)
	assert.False(t, env.NLCDUrban)
}

func TestPointAnalysisReachesProducedAndClampsEIRP(t *testing.T) {
	m := newTestManager(11, 10)

	region := scanner.Region{
		Kind:         scanner.RegionEllipse,
		Center:       geo.Point{LatDeg: 37.0, LonDeg: -122.0},
		SemiMajorM:   50, SemiMinorM: 50,
		CenterHeight: 10, HeightType: scanner.HeightAMSL,
	}
	channels := []interference.Channel{{OpClass: 131, Index: 1, StartMHz: 6100, StopMHz: 6120}}

	result, err := m.PointAnalysis(region, channels, nil)
	require.NoError(t, err)
	assert.Equal(t, StateProduced, m.State())
	require.Len(t, result.Channels, 1)
	assert.LessOrEqual(t, result.Channels[0].EIRPDBm, 36.0)
}

func TestExclusionZoneWiresThroughManager(t *testing.T) {
	m := newTestManager(11, 10)
	fs := &m.Store.FS[0]
	channel := interference.Channel{OpClass: 131, Index: 1, StartMHz: 5945, StopMHz: 5965}

	params := analyses.ExclusionZoneParams{
		FixedEIRPDBm:   30,
		INThresholdDB:  -6,
		BearingStepDeg: 45,
		MinDistM:       100,
		MaxDistM:       200_000,
	}
	vertices, err := m.ExclusionZone(fs, channel, params)
	require.NoError(t, err)
	assert.NotEmpty(t, vertices)
	assert.Equal(t, StateProduced, m.State())
}

func TestHeatmapWiresThroughManager(t *testing.T) {
	m := newTestManager(11, 10)
	fs := &m.Store.FS[0]
	channel := interference.Channel{OpClass: 131, Index: 1, StartMHz: 5945, StopMHz: 5965}

	sw := geo.Point{LatDeg: 36.95, LonDeg: -122.05}
	ne := geo.Point{LatDeg: 37.05, LonDeg: -121.95}

	cells, err := m.Heatmap(sw, ne, 2000, 20, channel, fs, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, cells)
	assert.Equal(t, StateProduced, m.State())
}
