package interference

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// psdDBmPerMHz converts a channel's EIRP ceiling into a power spectral
// density limit (spec.md §4.H: "converted to dBm/MHz").
func psdDBmPerMHz(eirpDBm, bandwidthMHz float64) float64 {
	if bandwidthMHz <= 0 {
		return eirpDBm
	}
	return eirpDBm - 10*math.Log10(bandwidthMHz)
}

// TileSegments tiles every inquired frequency range by the union of
// channel boundaries that fall within it, and assigns each resulting
// segment the minimum PSD limit over every channel overlapping it
// (spec.md §4.H "PSD segments"). Channels marked unavailable do not
// constrain any segment they would otherwise cover.
func TileSegments(channels []ChannelResult, ranges []FreqRange) []PSDSegment {
	available := lo.Filter(channels, func(c ChannelResult, _ int) bool { return c.Availability == Available })

	var out []PSDSegment
	for _, rng := range ranges {
		boundaries := segmentBoundaries(available, rng)
		for i := 0; i+1 < len(boundaries); i++ {
			segStart, segStop := boundaries[i], boundaries[i+1]
			limit := math.Inf(1)
			any := false
			for _, c := range available {
				if overlapMHz(segStart, segStop, c.StartMHz, c.StopMHz) <= 0 {
					continue
				}
				any = true
				limit = math.Min(limit, psdDBmPerMHz(c.EIRPDBm, c.StopMHz-c.StartMHz))
			}
			if !any {
				out = append(out, PSDSegment{StartMHz: segStart, StopMHz: segStop, Invalid: true})
				continue
			}
			out = append(out, PSDSegment{StartMHz: segStart, StopMHz: segStop, LimitDBmPerMHz: limit})
		}
	}
	return out
}

func segmentBoundaries(channels []ChannelResult, rng FreqRange) []float64 {
	set := map[float64]struct{}{rng.LowMHz: {}, rng.HighMHz: {}}
	for _, c := range channels {
		if c.StartMHz > rng.LowMHz && c.StartMHz < rng.HighMHz {
			set[c.StartMHz] = struct{}{}
		}
		if c.StopMHz > rng.LowMHz && c.StopMHz < rng.HighMHz {
			set[c.StopMHz] = struct{}{}
		}
	}
	out := lo.Keys(set)
	sort.Float64s(out)
	return out
}
