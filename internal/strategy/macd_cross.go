package strategy

import (
	"fmt"

	"github.com/testingview/testingview/internal/indicator"
	"github.com/testingview/testingview/internal/signal"
	"github.com/testingview/testingview/internal/types"
	"github.com/testingview/testingview/pkg/errors"
)

// MACDCross goes long when the MACD line crosses above its signal line
// and short on the opposite cross.
type MACDCross struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
	macd         signal.Sequence
	macdSignal   signal.Sequence
}

// NewMACDCross creates a MACD line crossover strategy over closes.
func NewMACDCross(fastPeriod, slowPeriod, signalPeriod int) *MACDCross {
	return &MACDCross{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
	}
}

// Name returns the strategy identifier.
func (s *MACDCross) Name() string {
	return fmt.Sprintf("macd_cross(%d,%d,%d)", s.fastPeriod, s.slowPeriod, s.signalPeriod)
}

// SetIndicators registers the MACD line and its signal line.
func (s *MACDCross) SetIndicators(ctx Context) error {
	if s.fastPeriod < 1 || s.signalPeriod < 1 {
		return errors.Newf(errors.ErrCodeInvalidPeriod,
			"periods must be at least 1, got fast %d signal %d", s.fastPeriod, s.signalPeriod)
	}

	if s.fastPeriod >= s.slowPeriod {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"fast period %d must be below slow period %d", s.fastPeriod, s.slowPeriod)
	}

	macdHandle, err := ctx.Indicators.Define(
		indicator.MACD(indicator.SourceClose, s.fastPeriod, s.slowPeriod))
	if err != nil {
		return err
	}

	signalHandle, err := ctx.Indicators.Define(
		indicator.MACDSignal(indicator.SourceClose, s.fastPeriod, s.slowPeriod, s.signalPeriod))
	if err != nil {
		return err
	}

	s.macd = ctx.Indicators.Sequence(macdHandle)
	s.macdSignal = ctx.Indicators.Sequence(signalHandle)

	return nil
}

// Next emits a decision for the given step.
func (s *MACDCross) Next(step int, ctx Context) (types.Decision, error) {
	if signal.Crossover(s.macd, s.macdSignal, step) {
		return Long(), nil
	}

	if signal.Crossover(s.macdSignal, s.macd, step) {
		return Short(), nil
	}

	return Hold(), nil
}
