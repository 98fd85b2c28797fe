// Package indicator evaluates user-supplied transform functions over the
// growing visible window of a bar series. Warm-up gaps are a normal state,
// surfaced as optional.None rather than errors.
package indicator

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/testingview/testingview/internal/series"
	"github.com/testingview/testingview/pkg/errors"
)

// Handle identifies a registered indicator within one Engine.
type Handle int

// ComputeFunc is a pure transform over a visible window. It must return a
// sequence aligned index-for-index with the window; slots without enough
// history hold math.NaN().
type ComputeFunc func(w series.View) ([]float64, error)

// Definition bundles a compute function with its display name and declared
// warm-up length (the number of leading undefined slots).
type Definition struct {
	Name    string
	Warmup  int
	Compute ComputeFunc
}

type registered struct {
	def Definition
	// values[i] is the indicator value at step i, recorded as the window
	// advanced. NaN marks undefined.
	values []float64
}

// Engine owns the indicator definitions of a single strategy run. It is not
// safe for concurrent use; each run gets its own Engine.
type Engine struct {
	series *series.Series
	defs   []*registered
	step   int // last advanced step, -1 before the first Advance
}

// NewEngine creates an engine over the given series.
func NewEngine(s *series.Series) *Engine {
	return &Engine{
		series: s,
		defs:   nil,
		step:   -1,
	}
}

// Define registers an indicator and returns its handle. Definitions are only
// accepted before the first Advance.
func (e *Engine) Define(def Definition) (Handle, error) {
	if e.step >= 0 {
		return 0, errors.New(errors.ErrCodeInvalidParameter,
			"indicators must be defined before the run starts")
	}

	if def.Compute == nil {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter,
			"indicator %q has no compute function", def.Name)
	}

	if def.Warmup < 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod,
			"indicator %q declares negative warm-up %d", def.Name, def.Warmup)
	}

	e.defs = append(e.defs, &registered{def: def, values: nil})

	return Handle(len(e.defs) - 1), nil
}

// MaxWarmup returns the largest declared warm-up length across all
// registered indicators, or 0 if none are registered.
func (e *Engine) MaxWarmup() int {
	maxWarmup := 0

	for _, r := range e.defs {
		if r.def.Warmup > maxWarmup {
			maxWarmup = r.def.Warmup
		}
	}

	return maxWarmup
}

// Advance re-evaluates every indicator on the window ending at step and
// records the value at that step. Steps must be consumed strictly in order;
// the recorded history is identical to a full recomputation on the same
// window because compute functions are pure and prefix-stable.
func (e *Engine) Advance(step int) error {
	if step != e.step+1 {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"advance called with step %d, expected %d", step, e.step+1)
	}

	w, err := e.series.Window(step)
	if err != nil {
		return err
	}

	for _, r := range e.defs {
		seq, err := r.def.Compute(w)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeIndicatorCalculation, err,
				"indicator %q failed at step %d", r.def.Name, step)
		}

		if len(seq) != w.Len() {
			return errors.Newf(errors.ErrCodeIndicatorCalculation,
				"indicator %q returned %d values for a window of %d", r.def.Name, len(seq), w.Len())
		}

		r.values = append(r.values, seq[step])
	}

	e.step = step

	return nil
}

// ValueAt returns the indicator value at the given step, or None if the step
// is still in warm-up, has not been advanced to yet, or the handle is
// unknown. Asking for a step beyond the advanced frontier is None, never a
// peek at the future.
func (e *Engine) ValueAt(h Handle, step int) optional.Option[float64] {
	if int(h) < 0 || int(h) >= len(e.defs) {
		return optional.None[float64]()
	}

	if step < 0 || step > e.step {
		return optional.None[float64]()
	}

	v := e.defs[h].values[step]
	if math.IsNaN(v) {
		return optional.None[float64]()
	}

	return optional.Some(v)
}

// Name returns the display name of the indicator behind h.
func (e *Engine) Name(h Handle) string {
	if int(h) < 0 || int(h) >= len(e.defs) {
		return ""
	}

	return e.defs[h].def.Name
}

// Sequence returns a read-only aligned view of one indicator, suitable for
// the signal detector.
func (e *Engine) Sequence(h Handle) Sequence {
	return Sequence{engine: e, handle: h}
}

// Sequence is a read-only view over one indicator's value history.
type Sequence struct {
	engine *Engine
	handle Handle
}

// ValueAt returns the value at the given step, or None when undefined.
func (s Sequence) ValueAt(step int) optional.Option[float64] {
	return s.engine.ValueAt(s.handle, step)
}
