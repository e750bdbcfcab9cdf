package analyses

import (
	"fmt"

	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/scanner"
)

// ScanAnalysis is spec.md §4.I's scan analysis: identical to point
// analysis but iterates an externally supplied list of candidate points
// instead of deriving them from a region, for batch studies.
func ScanAnalysis(candidates []scanner.Point, store *fsstore.Store, channels []interference.Channel,
	ranges []interference.FreqRange, engineCfg interference.Config, builder interference.LinkBuilder) (PointResult, error) {

	if len(candidates) == 0 {
		return PointResult{}, fmt.Errorf("analyses: scan analysis requires at least one candidate point")
	}

	eng := interference.NewEngine(engineCfg, builder)
	result := eng.Run(candidates, store, channels, ranges)

	return PointResult{
		Channels:    result.Channels,
		PSDSegments: result.PSDSegments,
		PointCount:  len(candidates),
	}, nil
}
