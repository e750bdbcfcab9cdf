package interference

import "math"

// overlapMHz returns the width (MHz) that [aStart,aStop) and [bStart,bStop)
// share, or 0 if they are disjoint.
func overlapMHz(aStart, aStop, bStart, bStop float64) float64 {
	lo := math.Max(aStart, bStart)
	hi := math.Min(aStop, bStop)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// SpectralOverlapLossDB computes the spectral overlap loss of spec.md
// §4.H: -10*log10(overlapHz / rlanBwHz) when the RLAN channel and the FS
// band overlap directly. When they are disjoint and ACI is enabled, a
// fixed adjacent-channel leakage loss applies instead; otherwise the link
// does not couple at all (couples=false).
func SpectralOverlapLossDB(rlanStartMHz, rlanStopMHz, fsStartMHz, fsStopMHz float64, aciEnabled bool, aciLeakageDB float64) (lossDB float64, couples bool) {
	rlanBw := rlanStopMHz - rlanStartMHz
	if rlanBw <= 0 {
		return 0, false
	}
	overlap := overlapMHz(rlanStartMHz, rlanStopMHz, fsStartMHz, fsStopMHz)
	if overlap > 0 {
		return -10 * math.Log10(overlap/rlanBw), true
	}
	if aciEnabled {
		return aciLeakageDB, true
	}
	return 0, false
}

// PSDSegmentOverlapLossDB is the PSD-mode analogue: overlap is computed
// per-PSD-segment using the integrated power over the segment width
// rather than the whole RLAN channel (spec.md §4.H: "For PSD mode,
// overlap is computed per-PSD segment using the integrated power over
// the segment width").
func PSDSegmentOverlapLossDB(segmentStartMHz, segmentStopMHz, fsStartMHz, fsStopMHz float64) (lossDB float64, couples bool) {
	segBw := segmentStopMHz - segmentStartMHz
	if segBw <= 0 {
		return 0, false
	}
	overlap := overlapMHz(segmentStartMHz, segmentStopMHz, fsStartMHz, fsStopMHz)
	if overlap <= 0 {
		return 0, false
	}
	return -10 * math.Log10(overlap/segBw), true
}
