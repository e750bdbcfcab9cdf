package interference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/itu"
	"github.com/afc6ghz/engine/pathloss"
	"github.com/afc6ghz/engine/scanner"
)

func testBuilder(sp scanner.Point, fs *fsstore.FS, ch Channel) (pathloss.Link, bool) {
	return pathloss.Link{
		TxPoint: geo.Point{LatDeg: sp.Lat, LonDeg: sp.Lon, HeightKm: sp.HeightAMSL / 1000},
		RxPoint: fs.RxLocation,
		FreqMHz: (ch.StartMHz + ch.StopMHz) / 2,
	}, true
}

func newTestStore() *fsstore.Store {
	s := fsstore.NewStore()
	ant := s.AddAntenna(fsstore.Antenna{MaxGainDBi: 30, DOverLambda: 50})
	s.AddFS(fsstore.FS{
		FSID:         1,
		RxLocation:   geo.Point{LatDeg: 37.01, LonDeg: -122.0},
		TxLocation:   geo.Point{LatDeg: 37.02, LonDeg: -122.0},
		Antenna:      ant,
		StartFreqMHz: 5945, StopFreqMHz: 5965,
		NoiseFloorDBW: -130,
		MaxInteractionRadiusM: 300_000,
	})
	return s
}

func TestEngineRunProducesChannelResults(t *testing.T) {
	store := newTestStore()
	channels := []Channel{{OpClass: 131, Index: 1, StartMHz: 5945, StopMHz: 5965}}
	scanPoints := []scanner.Point{{Lat: 37.0, Lon: -122.0, HeightAMSL: 10}}

	eng := NewEngine(Config{INThresholdDB: -6, FSAntennaPattern: itu.PatternF1245}, testBuilder)
	result := eng.Run(scanPoints, store, channels, nil)

	assert.Len(t, result.Channels, 1)
	assert.Equal(t, Available, result.Channels[0].Availability)
	assert.False(t, math.IsInf(result.Channels[0].EIRPDBm, 1), "a real FS in range must constrain the ceiling")
}

// TestEngineMatchesScenarioS2 reproduces spec.md's S2 scenario end to end:
// a single FS, FSPL model, full spectral overlap, and a known FSPL value
// should yield eirp_dBm = I/Nth + N_dBm - (Gr - FSPL).
func TestEngineMatchesScenarioS2(t *testing.T) {
	ant := fsstore.Antenna{MaxGainDBi: 34, DOverLambda: 50}
	rx := geo.Point{LatDeg: 37.5, LonDeg: -122.0, HeightKm: 0.020}
	// The RLAN source and the FS's own tx partner sit on the same bearing
	// from rx, so the FS receive antenna points straight at the source
	// (spec.md S2: "rx gain 34 dBi at boresight").
	rlanPoint := geo.Destination(rx, 225, 14_200)
	tx := geo.Destination(rx, 225, 50_000)

	store := fsstore.NewStore()
	antHandle := store.AddAntenna(ant)
	store.AddFS(fsstore.FS{
		FSID: 1, RxLocation: rx, TxLocation: tx, Antenna: antHandle,
		StartFreqMHz: 6005, StopFreqMHz: 6025,
		NoiseFloorDBW:         -130, // -100 dBm
		MaxInteractionRadiusM: 50_000,
	})

	channels := []Channel{{OpClass: 131, Index: 1, StartMHz: 6005, StopMHz: 6025}}
	scanPoints := []scanner.Point{{Lat: rlanPoint.LatDeg, Lon: rlanPoint.LonDeg, HeightAMSL: rlanPoint.HeightKm * 1000}}

	builder := func(sp scanner.Point, fs *fsstore.FS, ch Channel) (pathloss.Link, bool) {
		return pathloss.Link{
			TxPoint: geo.Point{LatDeg: sp.Lat, LonDeg: sp.Lon, HeightKm: sp.HeightAMSL / 1000},
			RxPoint: fs.RxLocation,
			FreqMHz: 6015,
		}, true
	}

	eng := NewEngine(Config{
		PathLoss:         pathloss.Config{Model: pathloss.ModelFSPL},
		INThresholdDB:    -6,
		FSAntennaPattern: itu.PatternF1245,
	}, builder)
	result := eng.Run(scanPoints, store, channels, nil)

	distanceM := geo.HaversineDistanceM(rlanPoint, rx)
	fspl := itu.FSPL(distanceM, 6015)
	want := -6 + (-100) - (34 - fspl)

	assert.InDelta(t, want, result.Channels[0].EIRPDBm, 0.2)
}

func TestEngineDeniedRegionForcesUnavailable(t *testing.T) {
	store := newTestStore()
	store.AddRAS(fsstore.DeniedRegion{
		Kind: fsstore.DeniedCircleFixedRadius,
		Center: geo.Point{LatDeg: 37.0, LonDeg: -122.0},
		FixedRadiusM: 50_000,
		StartFreqMHz: 5945, StopFreqMHz: 5965,
	})
	channels := []Channel{{OpClass: 131, Index: 1, StartMHz: 5945, StopMHz: 5965}}
	scanPoints := []scanner.Point{{Lat: 37.0, Lon: -122.0, HeightAMSL: 10}}

	eng := NewEngine(Config{INThresholdDB: -6, FSAntennaPattern: itu.PatternF1245}, testBuilder)
	result := eng.Run(scanPoints, store, channels, nil)

	assert.Equal(t, Unavailable, result.Channels[0].Availability)
}

// TestEngineAllLinksDiscardedForcesInvalid reproduces spec.md §7's third
// channel state: every link for the channel hits a data gap (the builder
// always reports !ok), so the channel cannot be called Available or
// Unavailable — it must come back Invalid.
func TestEngineAllLinksDiscardedForcesInvalid(t *testing.T) {
	store := newTestStore()
	channels := []Channel{{OpClass: 131, Index: 1, StartMHz: 5945, StopMHz: 5965}}
	scanPoints := []scanner.Point{{Lat: 37.0, Lon: -122.0, HeightAMSL: 10}}

	discardAll := func(sp scanner.Point, fs *fsstore.FS, ch Channel) (pathloss.Link, bool) {
		return pathloss.Link{}, false
	}

	eng := NewEngine(Config{INThresholdDB: -6, FSAntennaPattern: itu.PatternF1245}, discardAll)
	result := eng.Run(scanPoints, store, channels, nil)

	assert.Equal(t, Invalid, result.Channels[0].Availability)
}

// TestEngineNoFSInRangeStaysAvailable guards against treating "no
// candidate links at all" the same as "every link discarded": with no FS
// in range there is nothing to discard, so the channel stays Available.
func TestEngineNoFSInRangeStaysAvailable(t *testing.T) {
	store := fsstore.NewStore()
	channels := []Channel{{OpClass: 131, Index: 1, StartMHz: 5945, StopMHz: 5965}}
	scanPoints := []scanner.Point{{Lat: 37.0, Lon: -122.0, HeightAMSL: 10}}

	eng := NewEngine(Config{INThresholdDB: -6, FSAntennaPattern: itu.PatternF1245}, testBuilder)
	result := eng.Run(scanPoints, store, channels, nil)

	assert.Equal(t, Available, result.Channels[0].Availability)
}

func TestSpectralOverlapLossFullOverlap(t *testing.T) {
	loss, couples := SpectralOverlapLossDB(5945, 5965, 5945, 5965, false, 0)
	assert.True(t, couples)
	assert.InDelta(t, 0.0, loss, 1e-9)
}

func TestSpectralOverlapLossDisjointNoACI(t *testing.T) {
	_, couples := SpectralOverlapLossDB(5945, 5965, 6100, 6120, false, 0)
	assert.False(t, couples)
}

func TestSpectralOverlapLossDisjointWithACI(t *testing.T) {
	loss, couples := SpectralOverlapLossDB(5945, 5965, 6100, 6120, true, 20)
	assert.True(t, couples)
	assert.Equal(t, 20.0, loss)
}

func TestTileSegmentsMinOverOverlappingChannels(t *testing.T) {
	channels := []ChannelResult{
		{StartMHz: 5945, StopMHz: 5965, EIRPDBm: 20, Availability: Available},
		{StartMHz: 5955, StopMHz: 5975, EIRPDBm: 10, Availability: Available},
	}
	segs := TileSegments(channels, []FreqRange{{LowMHz: 5945, HighMHz: 5975}})
	assert.NotEmpty(t, segs)
	for _, s := range segs {
		if s.StartMHz >= 5955 && s.StopMHz <= 5965 {
			// Both channels overlap this middle segment; the tighter
			// (lower-EIRP) channel's PSD limit must win.
			assert.InDelta(t, psdDBmPerMHz(10, 20), s.LimitDBmPerMHz, 1e-9)
		}
	}
}

func TestTileSegmentsMarksUncoveredRangeInvalid(t *testing.T) {
	channels := []ChannelResult{
		{StartMHz: 5945, StopMHz: 5965, EIRPDBm: 20, Availability: Unavailable},
	}
	segs := TileSegments(channels, []FreqRange{{LowMHz: 5945, HighMHz: 5965}})
	if assert.Len(t, segs, 1) {
		assert.True(t, segs[0].Invalid)
	}
}

func TestTileSegmentsMatchesScenarioS5(t *testing.T) {
	channels := []ChannelResult{
		{StartMHz: 5925, StopMHz: 5945, EIRPDBm: 30, Availability: Available},
		{StartMHz: 5945, StopMHz: 5965, EIRPDBm: 25, Availability: Available},
		{StartMHz: 5965, StopMHz: 5985, EIRPDBm: 35, Availability: Available},
	}
	segs := TileSegments(channels, []FreqRange{{LowMHz: 5925, HighMHz: 6000}})

	want := []PSDSegment{
		{StartMHz: 5925, StopMHz: 5945, LimitDBmPerMHz: 17},
		{StartMHz: 5945, StopMHz: 5965, LimitDBmPerMHz: 12},
		{StartMHz: 5965, StopMHz: 5985, LimitDBmPerMHz: 22},
		{StartMHz: 5985, StopMHz: 6000, Invalid: true},
	}
	if assert.Len(t, segs, len(want)) {
		for i, w := range want {
			assert.Equal(t, w.StartMHz, segs[i].StartMHz)
			assert.Equal(t, w.StopMHz, segs[i].StopMHz)
			assert.Equal(t, w.Invalid, segs[i].Invalid)
			if !w.Invalid {
				assert.InDelta(t, w.LimitDBmPerMHz, segs[i].LimitDBmPerMHz, 1e-9)
			}
		}
	}
}
