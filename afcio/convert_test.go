package afcio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afc6ghz/engine/analyses"
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/scanner"
)

func TestToRegionEllipse(t *testing.T) {
	loc := Location{
		Kind:           LocationEllipse,
		CenterLatDeg:   37.4,
		CenterLonDeg:   -122.1,
		SemiMajorM:     300,
		SemiMinorM:     100,
		OrientationDeg: 45,
		HeightType:     HeightAGL,
		HeightM:        30,
	}
	region, err := ToRegion(loc)
	require.NoError(t, err)
	assert.Equal(t, scanner.RegionEllipse, region.Kind)
	assert.Equal(t, scanner.HeightAGL, region.HeightType)
	assert.Equal(t, 300.0, region.SemiMajorM)
}

func TestToRegionLinearPolygonRejectsTooFewVertices(t *testing.T) {
	loc := Location{Kind: LocationLinearPolygon, Vertices: []Vertex{{LatDeg: 1}, {LatDeg: 2}}}
	_, err := ToRegion(loc)
	assert.Error(t, err)
}

func TestExpandChannelsUsesThe6GHzChannelizationPlan(t *testing.T) {
	channels, err := ExpandChannels([]InquiredChannel{{OpClass: 131, Indices: []int{1}}})
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, 5945.0, channels[0].StartMHz)
	assert.Equal(t, 5965.0, channels[0].StopMHz)
}

func TestExpandChannelsRejectsUnsupportedOpClass(t *testing.T) {
	_, err := ExpandChannels([]InquiredChannel{{OpClass: 999, Indices: []int{1}}})
	assert.Error(t, err)
}

func TestBuildResponseSummarizesChannelsAndPSDSegments(t *testing.T) {
	result := analyses.PointResult{
		Channels: []interference.ChannelResult{
			{OpClass: 131, Index: 1, Availability: interference.Available, EIRPDBm: 30},
			{OpClass: 131, Index: 5, Availability: interference.Unavailable},
		},
		PSDSegments: []interference.PSDSegment{
			{StartMHz: 5925, StopMHz: 5945, LimitDBmPerMHz: 17},
			{StartMHz: 5985, StopMHz: 6000, Invalid: true},
		},
	}
	resp := BuildResponse("req-1", result)
	assert.Equal(t, ResponseSuccess, resp.ResponseCode)
	assert.Len(t, resp.AvailableChannelInfo, 2)
	require.Len(t, resp.EIRPMasks, 1)
	assert.Equal(t, 30.0, resp.EIRPMasks[0].MaxEIRPDBm)
	require.Len(t, resp.AvailableFrequencyInfo, 2)
	assert.True(t, resp.AvailableFrequencyInfo[1].Invalid)
}

func TestErrorResponseUsesRequestErrorCodeVerbatim(t *testing.T) {
	err := &RequestError{Code: ResponseMissingParam, Detail: "requestId is required"}
	resp := ErrorResponse("req-2", err)
	assert.Equal(t, ResponseMissingParam, resp.ResponseCode)
}
