package fsstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/afc6ghz/engine/geo"
)

func TestDecodeEmissionBandwidth(t *testing.T) {
	assert.InDelta(t, 30.0, decodeEmissionBandwidthMHz("30M0D7W"), 1e-9)
	assert.InDelta(t, 0.25, decodeEmissionBandwidthMHz("250KF3E"), 1e-9)
	assert.InDelta(t, 1500, decodeEmissionBandwidthMHz("1G5D7W"), 1e-9)
}

func TestNoiseFloorScenarioS2(t *testing.T) {
	// spec.md S2: 20 MHz channel, noise floor target ~= -100 dBm => -130 dBW.
	nf := NoiseFloorDBW(20, 5, 290)
	assert.Less(t, nf, -90.0)
}

func TestStoreInRangeBoundsByMaxInteractionRadius(t *testing.T) {
	s := NewStore()
	s.AddFS(FS{FSID: 1, RxLocation: geo.Point{LatDeg: 0, LonDeg: 0}, MaxInteractionRadiusM: 1000})
	s.AddFS(FS{FSID: 2, RxLocation: geo.Point{LatDeg: 10, LonDeg: 10}, MaxInteractionRadiusM: 1000})
	near := s.InRange(geo.Point{LatDeg: 0.001, LonDeg: 0.001}, 100)
	assert.Len(t, near, 1)
	assert.Equal(t, 1, near[0].FSID)
}

func TestDeniedRegionCircleIntersects(t *testing.T) {
	d := DeniedRegion{
		Kind: DeniedCircleFixedRadius, Center: geo.Point{LatDeg: 37.4, LonDeg: -122.1},
		FixedRadiusM: 100_000, StartFreqMHz: 5925, StopFreqMHz: 7125,
	}
	assert.True(t, d.Intersects(37.41, -122.11, 5945, 5965, nil))
	assert.False(t, d.Intersects(37.41, -122.11, 7200, 7300, nil))
}
