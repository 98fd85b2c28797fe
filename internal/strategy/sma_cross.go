package strategy

import (
	"fmt"

	"github.com/testingview/testingview/internal/indicator"
	"github.com/testingview/testingview/internal/signal"
	"github.com/testingview/testingview/internal/types"
	"github.com/testingview/testingview/pkg/errors"
)

// SMACross goes long when the fast moving average crosses above the
// slow one and short on the opposite cross.
type SMACross struct {
	fastPeriod int
	slowPeriod int
	fast       signal.Sequence
	slow       signal.Sequence
}

// NewSMACross creates a moving average crossover strategy over closes.
func NewSMACross(fastPeriod, slowPeriod int) *SMACross {
	return &SMACross{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
	}
}

// Name returns the strategy identifier.
func (s *SMACross) Name() string {
	return fmt.Sprintf("sma_cross(%d,%d)", s.fastPeriod, s.slowPeriod)
}

// SetIndicators registers the fast and slow moving averages.
func (s *SMACross) SetIndicators(ctx Context) error {
	if s.fastPeriod < 1 {
		return errors.Newf(errors.ErrCodeInvalidPeriod,
			"fast period %d must be at least 1", s.fastPeriod)
	}

	if s.fastPeriod >= s.slowPeriod {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"fast period %d must be below slow period %d", s.fastPeriod, s.slowPeriod)
	}

	fastHandle, err := ctx.Indicators.Define(indicator.SMA(indicator.SourceClose, s.fastPeriod))
	if err != nil {
		return err
	}

	slowHandle, err := ctx.Indicators.Define(indicator.SMA(indicator.SourceClose, s.slowPeriod))
	if err != nil {
		return err
	}

	s.fast = ctx.Indicators.Sequence(fastHandle)
	s.slow = ctx.Indicators.Sequence(slowHandle)

	return nil
}

// Next emits a decision for the given step.
func (s *SMACross) Next(step int, ctx Context) (types.Decision, error) {
	if signal.Crossover(s.fast, s.slow, step) {
		return Long(), nil
	}

	if signal.Crossover(s.slow, s.fast, step) {
		return Short(), nil
	}

	return Hold(), nil
}
