package interference

import (
	"math"
	"sync"
)

// reducer accumulates the per-channel EIRP ceiling across every (scan
// point, FS) task, as a fixed array of mutex-guarded float64 cells rather
// than a shared map, so concurrent pond workers never race on the same
// bucket and the result never depends on task arrival order (spec.md §8
// invariant 8, SPEC_FULL.md §12 "deterministic worker reduction").
type reducer struct {
	mu          []sync.Mutex
	ceilingDBm  []float64
	unavailable []bool
	attempted   []int
	discarded   []int
}

func newReducer(n int) *reducer {
	r := &reducer{
		mu:          make([]sync.Mutex, n),
		ceilingDBm:  make([]float64, n),
		unavailable: make([]bool, n),
		attempted:   make([]int, n),
		discarded:   make([]int, n),
	}
	for i := range r.ceilingDBm {
		r.ceilingDBm[i] = math.Inf(1)
	}
	return r
}

// updateEIRP lowers channel i's ceiling to eirpDBm if that is tighter than
// the current value; the reduction (min) is associative and commutative,
// so it is safe regardless of which worker reaches it first.
func (r *reducer) updateEIRP(i int, eirpDBm float64) {
	r.mu[i].Lock()
	if eirpDBm < r.ceilingDBm[i] {
		r.ceilingDBm[i] = eirpDBm
	}
	r.mu[i].Unlock()
}

// markUnavailable forces channel i's availability to false (a denied
// region hit or an excluded-distance link, spec.md §4.G/§4.H).
func (r *reducer) markUnavailable(i int) {
	r.mu[i].Lock()
	r.unavailable[i] = true
	r.mu[i].Unlock()
}

// markLinkOutcome records one (scanPoint, FS) link attempt for channel i,
// and whether it was discarded for a data/model gap rather than evaluated
// (spec.md §7: a channel with every contributing link discarded cannot
// reach a conclusion and must be reported Invalid, not Available).
func (r *reducer) markLinkOutcome(i int, discarded bool) {
	r.mu[i].Lock()
	r.attempted[i]++
	if discarded {
		r.discarded[i]++
	}
	r.mu[i].Unlock()
}

func (r *reducer) snapshot(i int) (eirpDBm float64, availability Availability) {
	r.mu[i].Lock()
	defer r.mu[i].Unlock()
	switch {
	case r.unavailable[i]:
		return r.ceilingDBm[i], Unavailable
	case r.attempted[i] > 0 && r.discarded[i] == r.attempted[i]:
		return r.ceilingDBm[i], Invalid
	default:
		return r.ceilingDBm[i], Available
	}
}
