package interference

import (
	"runtime"

	"github.com/alitto/pond"
	"github.com/samber/lo"

	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/itu"
	"github.com/afc6ghz/engine/pathloss"
	"github.com/afc6ghz/engine/scanner"
)

// LinkBuilder constructs the pathloss.Link for one (scan point, FS,
// channel) task. It is supplied by the caller because building a Link
// needs the terrain/raster caches (Components B/C) that this package
// deliberately does not depend on — this package only accumulates
// already-composed losses into EIRP ceilings. ok is false when the link
// could not be built from the available geospatial data (e.g. an ITM
// profile with a terrain gap); the engine discards that link rather than
// evaluating it, and tracks the discard toward the channel's Invalid
// state (spec.md §7).
type LinkBuilder func(scanPoint scanner.Point, fs *fsstore.FS, channel Channel) (link pathloss.Link, ok bool)

// Config is the subset of EngineConfig this package consumes.
type Config struct {
	PathLoss pathloss.Config

	INThresholdDB float64

	ACIEnabled   bool
	ACILeakageDB float64

	FSAntennaPattern itu.AntennaPattern

	// WorkerCount sizes the pond pool; 0 defaults to 2*NumCPU, matching
	// sixy6e-go-gsf's convert_gsf_list sizing convention.
	WorkerCount int
}

// Result is the aggregation output of spec.md §4.H.
type Result struct {
	Channels    []ChannelResult
	PSDSegments []PSDSegment
}

// Engine runs the scan-point x FS cross product over a worker pool and
// reduces per-channel EIRP ceilings (spec.md §4.H, §9 "Scheduling").
type Engine struct {
	Config  Config
	Builder LinkBuilder
}

// NewEngine constructs an Engine with the given configuration and link
// builder.
func NewEngine(cfg Config, builder LinkBuilder) *Engine {
	return &Engine{Config: cfg, Builder: builder}
}

// Run evaluates every (scanPoint, FS-in-range, channel) triple, reduces
// the result to a per-channel EIRP ceiling and availability, and tiles
// the requested frequency ranges into PSD segments.
func (e *Engine) Run(scanPoints []scanner.Point, store *fsstore.Store, channels []Channel, ranges []FreqRange) Result {
	red := newReducer(len(channels))

	workers := e.Config.WorkerCount
	if workers <= 0 {
		workers = 2 * runtime.NumCPU()
	}
	pool := pond.New(workers, 0, pond.MinWorkers(workers))

	for _, sp := range scanPoints {
		spPoint := scanPointGeo(sp)

		denied := store.DeniedInRange(spPoint, 0)
		for i, ch := range channels {
			for _, d := range denied {
				if d.Intersects(spPoint.LatDeg, spPoint.LonDeg, ch.StartMHz, ch.StopMHz, nil) {
					red.markUnavailable(i)
				}
			}
		}

		fsList := store.InRange(spPoint, 0)
		for _, fsPtr := range fsList {
			fs := fsPtr
			scanPoint := sp
			pool.Submit(func() {
				e.evaluateLinks(scanPoint, fs, channels, store, red)
			})
		}
	}
	pool.StopAndWait()

	results := lo.Map(channels, func(ch Channel, i int) ChannelResult {
		eirp, availability := red.snapshot(i)
		return ChannelResult{
			OpClass: ch.OpClass, Index: ch.Index,
			StartMHz: ch.StartMHz, StopMHz: ch.StopMHz,
			Availability: availability,
			EIRPDBm:      eirp,
		}
	})

	return Result{
		Channels:    results,
		PSDSegments: TileSegments(results, ranges),
	}
}

func (e *Engine) evaluateLinks(sp scanner.Point, fs *fsstore.FS, channels []Channel, store *fsstore.Store, red *reducer) {
	srcPoint := scanPointGeo(sp)
	for i, ch := range channels {
		link, ok := e.Builder(sp, fs, ch)
		if !ok {
			red.markLinkOutcome(i, true)
			continue
		}
		red.markLinkOutcome(i, false)

		res := pathloss.Compose(link, e.Config.PathLoss)
		if res.TooClose {
			red.markUnavailable(i)
			continue
		}

		iRel, couples := Evaluate(fs, store, srcPoint, ch, res, e.Config)
		if !couples {
			continue
		}

		eirpMax := e.Config.INThresholdDB + NoiseFloorDBm(fs) - iRel
		red.updateEIRP(i, eirpMax)
	}
}

// Evaluate computes a link's relative-interference contribution I_rel
// (spec.md §4.H) given its already-composed path loss, for reuse outside
// the worker-pool aggregation (e.g. the exclusion-zone bisection, which
// needs the same per-link geometry at a single candidate distance rather
// than over a full scan).
func Evaluate(fs *fsstore.FS, store *fsstore.Store, srcPoint geo.Point, ch Channel, res pathloss.Result, cfg Config) (iRel float64, couples bool) {
	overlapLoss, couples := SpectralOverlapLossDB(ch.StartMHz, ch.StopMHz, fs.StartFreqMHz, fs.StopFreqMHz, cfg.ACIEnabled, cfg.ACILeakageDB)
	if !couples {
		return 0, false
	}
	rxGain := rxDiscriminationDB(fs, store, srcPoint, cfg.FSAntennaPattern)
	prDisc := prChainDiscriminationDB(fs, store, srcPoint)
	return -res.TotalLossDB + rxGain - overlapLoss + prDisc, true
}
