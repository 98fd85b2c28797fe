// Package strategy defines the user extension point of the backtester: a
// strategy registers indicators once, then emits one trading decision per
// bar.
package strategy

import (
	"github.com/testingview/testingview/internal/indicator"
	"github.com/testingview/testingview/internal/logger"
	"github.com/testingview/testingview/internal/series"
	"github.com/testingview/testingview/internal/types"
)

// Context carries the framework collaborators a strategy may use. The window
// is right-bounded at the current step by the runner; a strategy never sees
// future bars.
type Context struct {
	// Indicators is the engine the strategy defines and reads indicators
	// through.
	Indicators *indicator.Engine
	// Window is the visible bar history up to the current step. Zero-valued
	// during SetIndicators, when no step has been reached yet.
	Window series.View
	// Logger for strategy diagnostics.
	Logger *logger.Logger
}

// Strategy is the capability set a concrete strategy must implement. A
// strategy must not mutate the bar series, the ledger, or indicator values;
// that is a documented contract, not a runtime-enforced guard.
type Strategy interface {
	// Name identifies the strategy in registries and reports.
	Name() string
	// SetIndicators is called once before the loop starts and registers
	// indicators via ctx.Indicators.
	SetIndicators(ctx Context) error
	// Next is called once per bar with the visible window already advanced
	// and returns exactly one decision.
	Next(step int, ctx Context) (types.Decision, error)
}

// Long returns the enter-long decision.
func Long() types.Decision { return types.DecisionLong }

// Short returns the enter-short decision.
func Short() types.Decision { return types.DecisionShort }

// Close returns the close-position decision.
func Close() types.Decision { return types.DecisionClose }

// Hold returns the no-action decision.
func Hold() types.Decision { return types.DecisionHold }
