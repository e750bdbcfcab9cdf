// Package analyses implements the four analysis types of spec.md §4.I,
// each composing the scanner, path-loss, and interference-engine
// components into one inquiry-level result.
package analyses

import (
	"fmt"

	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/scanner"
	"github.com/afc6ghz/engine/terrain"
)

// PointResult is the output of a point or scan analysis: the channel
// availability/EIRP table and PSD segmentation of spec.md §6's Response.
type PointResult struct {
	Channels    []interference.ChannelResult
	PSDSegments []interference.PSDSegment
	PointCount  int
}

// PointAnalysis runs spec.md §4.I's point analysis: scan region under
// scanParams, then evaluate every resulting candidate point against store
// over channels/ranges (spec.md: "run the full pipeline over the
// inquiry's region and frequency set").
func PointAnalysis(region scanner.Region, scanParams scanner.Params, resolver *terrain.Resolver,
	store *fsstore.Store, channels []interference.Channel, ranges []interference.FreqRange,
	engineCfg interference.Config, builder interference.LinkBuilder) (PointResult, error) {

	points, err := scanner.Scan(region, scanParams, resolver)
	if err != nil {
		return PointResult{}, fmt.Errorf("analyses: point analysis scan failed: %w", err)
	}
	if len(points) == 0 {
		return PointResult{}, fmt.Errorf("analyses: point analysis scan produced no candidate points")
	}

	eng := interference.NewEngine(engineCfg, builder)
	result := eng.Run(points, store, channels, ranges)

	return PointResult{
		Channels:    result.Channels,
		PSDSegments: result.PSDSegments,
		PointCount:  len(points),
	}, nil
}
