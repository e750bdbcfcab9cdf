package fsstore

import "github.com/afc6ghz/engine/geo"

// AnomalyReason classifies why a row was skipped rather than loaded
// (spec.md §7: "Anomaly: per-FS data issues; collected into an anomaly
// list and skipped").
type AnomalyReason int

const (
	AnomalyMalformedRow AnomalyReason = iota
	AnomalyTerrainLookupFailed
	AnomalyUnresolvedAntenna
)

// Anomaly records one skipped input row.
type Anomaly struct {
	RowIndex int
	FSID     int // 0 if not parseable
	Reason   AnomalyReason
	Detail   string
}

// Store is the engine's immutable-after-load FS/RAS/antenna arena
// (spec.md §9: arenas with stable integer handles instead of cyclic
// object ownership).
type Store struct {
	FS        []FS
	RAS       []DeniedRegion
	Antennas  []Antenna
	anomalies []Anomaly
}

// NewStore creates an empty store.
func NewStore() *Store { return &Store{} }

// AddAntenna registers an antenna and returns its stable handle.
func (s *Store) AddAntenna(a Antenna) AntennaHandle {
	s.Antennas = append(s.Antennas, a)
	return AntennaHandle(len(s.Antennas) - 1)
}

// Antenna dereferences a handle.
func (s *Store) Antenna(h AntennaHandle) Antenna { return s.Antennas[h] }

// AddFS appends a loaded FS record.
func (s *Store) AddFS(fs FS) { s.FS = append(s.FS, fs) }

// AddRAS appends a denied region.
func (s *Store) AddRAS(d DeniedRegion) { s.RAS = append(s.RAS, d) }

// RecordAnomaly appends to the anomaly list without aborting the load
// (spec.md §7: "the run never aborts for a single bad FS").
func (s *Store) RecordAnomaly(a Anomaly) { s.anomalies = append(s.anomalies, a) }

// Anomalies returns every anomaly recorded so far.
func (s *Store) Anomalies() []Anomaly { return s.anomalies }

// InRange returns the subset of FS whose bounding-radius circle could
// interact with an RLAN scan centered at `center` with scan-region radius
// rlanRadiusM (spec.md §4.E: "scanCenter.distance <= r_max(FS) + r_rlan").
func (s *Store) InRange(center geo.Point, rlanRadiusM float64) []*FS {
	var out []*FS
	for i := range s.FS {
		fs := &s.FS[i]
		d := geo.HaversineDistanceM(center, fs.RxLocation)
		if d <= fs.MaxInteractionRadiusM+rlanRadiusM {
			out = append(out, fs)
		}
	}
	return out
}

// maxHorizonBoundM over-approximates any DeniedCircleHorizon region's
// radius so DeniedInRange can cheaply bound it without a terrain lookup;
// the caller still resolves the exact radius via DeniedRegion.Intersects.
const maxHorizonBoundM = 500_000

// DeniedInRange returns every denied region that could plausibly
// intersect a scan centered at `center` with radius rlanRadiusM, cheaply
// bounding RAS circles the same way InRange bounds FS (rect regions are
// always returned for the caller to test precisely).
func (s *Store) DeniedInRange(center geo.Point, rlanRadiusM float64) []*DeniedRegion {
	var out []*DeniedRegion
	for i := range s.RAS {
		d := &s.RAS[i]
		if d.Kind == DeniedRects {
			out = append(out, d)
			continue
		}
		bound := d.FixedRadiusM
		if d.Kind == DeniedCircleHorizon {
			bound = maxHorizonBoundM
		}
		if geo.HaversineDistanceM(center, d.Center) <= bound+rlanRadiusM {
			out = append(out, d)
		}
	}
	return out
}
