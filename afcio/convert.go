package afcio

import (
	"errors"
	"fmt"

	"github.com/afc6ghz/engine/analyses"
	"github.com/afc6ghz/engine/engine"
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/scanner"
)

// opClassBandwidthMHz gives each 6 GHz global operating class's channel
// bandwidth (802.11 channelization, U-NII-5 through U-NII-8). Operating
// class 135 (80+80 MHz, non-contiguous) is intentionally absent: its
// channel pairing is not representable as a single [start, stop) range
// and no inquiry in this engine's scope requests it (SPEC_FULL.md §13).
var opClassBandwidthMHz = map[int]float64{
	131: 20,
	132: 40,
	133: 80,
	134: 160,
	136: 20,
}

// chan6GHzBaseMHz and chan6GHzSpacingMHz give the 6 GHz channelization
// plan's channel-center formula: center = base + spacing*index.
const (
	chan6GHzBaseMHz    = 5950.0
	chan6GHzSpacingMHz = 5.0
)

// ToRegion converts a wire Location into a scanner.Region.
func ToRegion(l Location) (scanner.Region, error) {
	region := scanner.Region{
		HeightType:       scanner.HeightType(l.HeightType),
		CenterHeight:     l.HeightM,
		HeightUncertainty: l.VerticalUncertaintyM,
	}
	switch l.Kind {
	case LocationEllipse:
		region.Kind = scanner.RegionEllipse
		region.Center = geo.Point{LatDeg: l.CenterLatDeg, LonDeg: l.CenterLonDeg}
		region.SemiMajorM = l.SemiMajorM
		region.SemiMinorM = l.SemiMinorM
		region.OrientationDeg = l.OrientationDeg
	case LocationLinearPolygon:
		region.Kind = scanner.RegionLinearPolygon
		if len(l.Vertices) < 3 {
			return scanner.Region{}, fmt.Errorf("afcio: linearPolygon location needs at least 3 vertices, got %d", len(l.Vertices))
		}
		region.Vertices = make([]geo.Vertex, len(l.Vertices))
		for i, v := range l.Vertices {
			region.Vertices[i] = geo.Vertex{LatDeg: v.LatDeg, LonDeg: v.LonDeg}
		}
	case LocationRadialPolygon:
		region.Kind = scanner.RegionRadialPolygon
		region.RadialCenter = geo.Point{LatDeg: l.RadialCenterLatDeg, LonDeg: l.RadialCenterLonDeg}
		if len(l.RadialVertices) < 3 {
			return scanner.Region{}, fmt.Errorf("afcio: radialPolygon location needs at least 3 vertices, got %d", len(l.RadialVertices))
		}
		region.RadialVertices = make([]scanner.RadialVertex, len(l.RadialVertices))
		for i, v := range l.RadialVertices {
			region.RadialVertices[i] = scanner.RadialVertex{AngleDeg: v.AngleDeg, RadiusM: v.RadiusM}
		}
	default:
		return scanner.Region{}, fmt.Errorf("afcio: unrecognized location kind %d", l.Kind)
	}
	return region, nil
}

// ToFreqRanges converts the inquiry's frequency ranges to the
// interference package's range type.
func ToFreqRanges(ranges []InquiredFrequencyRange) []interference.FreqRange {
	out := make([]interference.FreqRange, len(ranges))
	for i, r := range ranges {
		out[i] = interference.FreqRange{LowMHz: r.LowMHz, HighMHz: r.HighMHz}
	}
	return out
}

// ExpandChannels turns the inquiry's (opClass, indices) pairs into
// concrete interference.Channel values using the 6 GHz channelization
// plan, rejecting any operating class this engine does not recognize
// (spec.md §7 InputError: "frequency outside the supported band").
func ExpandChannels(channels []InquiredChannel) ([]interference.Channel, error) {
	var out []interference.Channel
	for _, ic := range channels {
		bw, ok := opClassBandwidthMHz[ic.OpClass]
		if !ok {
			return nil, fmt.Errorf("afcio: unsupported operating class %d", ic.OpClass)
		}
		for _, idx := range ic.Indices {
			center := chan6GHzBaseMHz + chan6GHzSpacingMHz*float64(idx)
			out = append(out, interference.Channel{
				OpClass:  ic.OpClass,
				Index:    idx,
				StartMHz: center - bw/2,
				StopMHz:  center + bw/2,
			})
		}
	}
	return out, nil
}

// BuildResponse assembles the success-path Response from one point/scan
// analysis result (spec.md §6).
func BuildResponse(requestID string, result analyses.PointResult) Response {
	resp := Response{RequestID: requestID, ResponseCode: ResponseSuccess}

	masks := map[int]float64{}
	for _, ch := range result.Channels {
		resp.AvailableChannelInfo = append(resp.AvailableChannelInfo, AvailableChannelInfo{
			OpClass: ch.OpClass, Index: ch.Index, Availability: ch.Availability, EIRPDBm: ch.EIRPDBm,
		})
		if ch.Availability != interference.Available {
			continue
		}
		if cur, ok := masks[ch.OpClass]; !ok || ch.EIRPDBm < cur {
			masks[ch.OpClass] = ch.EIRPDBm
		}
	}
	for opClass, eirp := range masks {
		resp.EIRPMasks = append(resp.EIRPMasks, OpClassEIRPMask{OpClass: opClass, MaxEIRPDBm: eirp})
	}

	for _, seg := range result.PSDSegments {
		resp.AvailableFrequencyInfo = append(resp.AvailableFrequencyInfo, AvailableFrequencyInfo{
			LowMHz: seg.StartMHz, HighMHz: seg.StopMHz, Invalid: seg.Invalid, MaxPSDDBmPerMHz: seg.LimitDBmPerMHz,
		})
	}
	return resp
}

// ErrorResponse maps a failed request or analysis to a Response carrying
// the response code spec.md §7's error taxonomy names. A *RequestError
// from ValidateInquiry already carries its exact code; an *engine.Error
// from a Manager run is mapped by Kind, defaulting to generalFailure for
// every kind spec.md §7 says should report that way (DataError,
// ModelError, Anomaly escalated to failure, Cancelled).
func ErrorResponse(requestID string, err error) Response {
	var re *RequestError
	if errors.As(err, &re) {
		return Response{RequestID: requestID, ResponseCode: re.Code, ResponseMessage: re.Detail}
	}

	code := ResponseGeneralFailure
	var ee *engine.Error
	if errors.As(err, &ee) && ee.Kind == engine.InputError {
		code = ResponseInvalidValue
	}
	return Response{RequestID: requestID, ResponseCode: code, ResponseMessage: err.Error()}
}
