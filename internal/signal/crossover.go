// Package signal provides the stateless decision primitives strategies use
// to inspect indicator sequences.
package signal

import (
	"github.com/moznion/go-optional"
)

// Sequence is any step-indexed numeric sequence with explicit undefined
// slots. indicator.Sequence satisfies it.
type Sequence interface {
	ValueAt(step int) optional.Option[float64]
}

// Crossover reports whether a crossed over b at the given step: a was at or
// below b on the previous step and strictly above it now. The non-strict
// prior comparison breaks ties toward "not yet crossed", so a flat approach
// fires exactly once. Undefined operands at step or step-1, and step 0
// itself, are never a crossover.
func Crossover(a, b Sequence, step int) bool {
	if step <= 0 {
		return false
	}

	aPrev, aCurr := a.ValueAt(step-1), a.ValueAt(step)
	bPrev, bCurr := b.ValueAt(step-1), b.ValueAt(step)

	if aPrev.IsNone() || aCurr.IsNone() || bPrev.IsNone() || bCurr.IsNone() {
		return false
	}

	return aPrev.Unwrap() <= bPrev.Unwrap() && aCurr.Unwrap() > bCurr.Unwrap()
}
