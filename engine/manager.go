// Package engine drives one AFC analysis run end to end: it owns the
// state machine of spec.md §4.J, threads the EngineConfig of spec.md §6
// through every component, and supplies the interference.LinkBuilder
// that wires the terrain resolver and raster registry into a concrete
// pathloss.Link for each (scan point, FS, channel) task.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/afc6ghz/engine/analyses"
	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/itu"
	"github.com/afc6ghz/engine/pathloss"
	"github.com/afc6ghz/engine/raster"
	"github.com/afc6ghz/engine/scanner"
	"github.com/afc6ghz/engine/terrain"
)

// Manager drives one engine run, owning the FS/RAS store and raster
// registry for the run's lifetime, mirroring godal's Dataset owning its
// driver handle until Close.
type Manager struct {
	Config   Config
	Store    *fsstore.Store
	Registry *raster.Registry
	Resolver *terrain.Resolver
	Logger   *log.Logger

	mu        sync.Mutex
	state     State
	cancelled int32
}

// NewManager constructs a Manager in state New. A nil logger discards
// diagnostic output, matching godal's own optional-logger convention.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{Logger: logger, state: StateNew}
}

// State reports the manager's current state machine node.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) transition(next State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.canTransitionTo(next) {
		return fmt.Errorf("engine: invalid transition %s -> %s", m.state, next)
	}
	m.state = next
	return nil
}

func (m *Manager) fail(kind Kind, detail string, cause error) error {
	m.mu.Lock()
	m.state = StateFailed
	m.mu.Unlock()
	return NewError(kind, detail, cause)
}

// Configure records the engine configuration for this run
// (New -> Configured).
func (m *Manager) Configure(cfg Config) error {
	if err := m.transition(StateConfigured); err != nil {
		return NewError(InputError, "configure called out of order", err)
	}
	m.Config = cfg
	return nil
}

// LoadDatabases attaches the FS/RAS store and raster registry this run
// queries against (Configured -> DatabasesLoaded), and builds the
// terrain resolver over registry.
func (m *Manager) LoadDatabases(store *fsstore.Store, registry *raster.Registry) error {
	if err := m.transition(StateDatabasesLoaded); err != nil {
		return NewError(InputError, "loadDatabases called out of order", err)
	}
	m.Store = store
	m.Registry = registry
	m.Resolver = terrain.NewResolver(registry)
	return nil
}

// Cancel sets the monotone cancel flag spec.md §5 requires; in-flight and
// future analyses observe it at their next task boundary.
func (m *Manager) Cancel() { atomic.StoreInt32(&m.cancelled, 1) }

func (m *Manager) cancelledErr() error {
	if atomic.LoadInt32(&m.cancelled) == 1 {
		return NewError(Cancelled, "run was cancelled", nil)
	}
	return nil
}

func (m *Manager) beginAnalysis() error {
	if err := m.cancelledErr(); err != nil {
		m.mu.Lock()
		m.state = StateFailed
		m.mu.Unlock()
		return err
	}
	if err := m.transition(StateAnalyzing); err != nil {
		m.mu.Lock()
		if m.state.canTransitionTo(StateFailed) {
			m.state = StateFailed
		}
		m.mu.Unlock()
		return NewError(InputError, "analysis requested before configuration/databases were ready", err)
	}
	return nil
}

func (m *Manager) endAnalysis(err error) error {
	if err != nil {
		return m.fail(errKindOf(err), "analysis failed", err)
	}
	m.mu.Lock()
	m.state = StateProduced
	m.mu.Unlock()
	return nil
}

// errKindOf recovers a prior Kind if err already carries one, defaulting
// to ModelError for causes this package did not itself classify.
func errKindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ModelError
}

// clampEIRP enforces spec.md §8 invariant 1 ("eirp(c) <= maxEIRP_dBm")
// in place over the aggregation output.
func (m *Manager) clampEIRP(channels []interference.ChannelResult) {
	for i := range channels {
		if max := m.Config.maxEIRPFor(channels[i].OpClass); channels[i].EIRPDBm > max {
			channels[i].EIRPDBm = max
		}
	}
}

func toITUPolarization(p fsstore.Polarization) itu.Polarization {
	if p == fsstore.PolarizationHorizontal {
		return itu.PolarizationHorizontal
	}
	return itu.PolarizationVertical
}

func requiresProfile(model pathloss.Model) bool {
	switch model {
	case pathloss.ModelITMBldg, pathloss.ModelFCC6GHzRO, pathloss.ModelCustom:
		return true
	default:
		return false
	}
}

// linkBuilder returns an interference.LinkBuilder closed over this
// Manager's resolver/registry/config, resolving every geospatial input
// pathloss.Link needs for one (scan point, FS, channel) task (spec.md
// §4.G).
func (m *Manager) linkBuilder() interference.LinkBuilder {
	return func(sp scanner.Point, fs *fsstore.FS, ch interference.Channel) (pathloss.Link, bool) {
		tx := geo.Point{LatDeg: sp.Lat, LonDeg: sp.Lon, HeightKm: sp.HeightAMSL / 1000}

		link := pathloss.Link{
			TxPoint:      tx,
			RxPoint:      fs.RxLocation,
			FreqMHz:      (ch.StartMHz + ch.StopMHz) / 2,
			Indoor:       sp.IsIndoor,
			Environment:  m.environmentAt(sp.Lat, sp.Lon),
			Polarization: toITUPolarization(fs.Polarization),

			ITMDielectricConst: m.Config.ITMDielectricConst,
			ITMConductivityS:   m.Config.ITMConductivityS,
			ITMClimateCode:     m.Config.ITMClimateCode,
			ITMSurfaceRefrN:    m.Config.ITMSurfaceRefrN,

			FeederLossDB: fs.FeederLossDB,
		}
		link.ClutterEnv = clutterEnvironmentFor(link.Environment)

		if res := m.Resolver.HeightAt(sp.Lat, sp.Lon); res.HasTerrain() {
			link.BuildingData = res
			link.HasBuildingData = true
		}

		if requiresProfile(m.Config.PathLoss.Model) {
			link.Profile = m.Resolver.Profile(tx, fs.RxLocation, m.Config.PathLoss.ITMMinSpacingM, m.Config.PathLoss.ITMMaxPoints)
			if link.Profile.HasGap {
				// A terrain gap along the great-circle profile makes the
				// path-loss model's output unreliable for this link
				// (spec.md §7 DataError); discard it rather than feed a
				// silently wrong loss into the aggregation.
				return pathloss.Link{}, false
			}
		}

		return link, true
	}
}

// rlanPointAt resolves a candidate RLAN position given only lat/lon,
// converting the configured AGL height to AMSL via the terrain resolver,
// for the analyses that synthesize points directly rather than through
// scanner.Scan (exclusion zone, heatmap).
func (m *Manager) rlanPointAt(latDeg, lonDeg float64, indoor bool) scanner.Point {
	amsl := m.Config.RLANHeightAGLM
	if res := m.Resolver.HeightAt(latDeg, lonDeg); res.HasTerrain() {
		amsl += res.TerrainHeight
	}
	return scanner.Point{Lat: latDeg, Lon: lonDeg, HeightAMSL: amsl, IsIndoor: indoor}
}

// PointAnalysis runs spec.md §4.F/§4.H's full scan-and-aggregate pipeline
// over region (the AP-AFC availability analysis type).
func (m *Manager) PointAnalysis(region scanner.Region, channels []interference.Channel, ranges []interference.FreqRange) (analyses.PointResult, error) {
	if err := m.beginAnalysis(); err != nil {
		return analyses.PointResult{}, err
	}
	result, err := analyses.PointAnalysis(region, m.Config.Scan, m.Resolver, m.Store, channels, ranges, m.Config.Interference, m.linkBuilder())
	if err != nil {
		return analyses.PointResult{}, m.endAnalysis(NewError(InputError, "point analysis failed", err))
	}
	m.clampEIRP(result.Channels)
	return result, m.endAnalysis(nil)
}

// ScanAnalysis runs the aggregation over an externally supplied candidate
// point batch (spec.md §4.I "ScanAnalysis").
func (m *Manager) ScanAnalysis(candidates []scanner.Point, channels []interference.Channel, ranges []interference.FreqRange) (analyses.PointResult, error) {
	if err := m.beginAnalysis(); err != nil {
		return analyses.PointResult{}, err
	}
	result, err := analyses.ScanAnalysis(candidates, m.Store, channels, ranges, m.Config.Interference, m.linkBuilder())
	if err != nil {
		return analyses.PointResult{}, m.endAnalysis(NewError(InputError, "scan analysis failed", err))
	}
	m.clampEIRP(result.Channels)
	return result, m.endAnalysis(nil)
}

// ExclusionZone runs spec.md §4.I's exclusion-zone contour solve for one
// FS and channel at a fixed candidate EIRP.
func (m *Manager) ExclusionZone(fs *fsstore.FS, channel interference.Channel, params analyses.ExclusionZoneParams) ([]analyses.ExclusionVertex, error) {
	if err := m.beginAnalysis(); err != nil {
		return nil, err
	}
	inner := m.linkBuilder()
	builder := func(latDeg, lonDeg float64) pathloss.Link {
		link, _ := inner(m.rlanPointAt(latDeg, lonDeg, false), fs, channel)
		return link
	}
	vertices := analyses.ExclusionZone(fs, m.Store, channel, params, m.Config.PathLoss, m.Config.Interference, builder)
	return vertices, m.endAnalysis(nil)
}

// Heatmap runs spec.md §4.I's gridded I/N heatmap for one FS and channel
// at a fixed candidate EIRP.
func (m *Manager) Heatmap(sw, ne geo.Point, spacingM, fixedEIRPDBm float64, channel interference.Channel, fs *fsstore.FS, indoorAt func(latDeg, lonDeg float64) bool) ([]analyses.HeatmapCell, error) {
	if err := m.beginAnalysis(); err != nil {
		return nil, err
	}
	inner := m.linkBuilder()
	builder := func(latDeg, lonDeg float64, indoor bool) pathloss.Link {
		link, _ := inner(m.rlanPointAt(latDeg, lonDeg, indoor), fs, channel)
		return link
	}
	cells, err := analyses.Heatmap(sw, ne, spacingM, fixedEIRPDBm, channel, fs, m.Store, m.Config.PathLoss, m.Config.Interference, indoorAt, builder)
	if err != nil {
		return nil, m.endAnalysis(NewError(InputError, "heatmap failed", err))
	}
	return cells, m.endAnalysis(nil)
}
