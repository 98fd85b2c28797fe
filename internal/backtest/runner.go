package backtest

import (
	"go.uber.org/zap"

	"github.com/testingview/testingview/internal/indicator"
	"github.com/testingview/testingview/internal/ledger"
	"github.com/testingview/testingview/internal/logger"
	"github.com/testingview/testingview/internal/series"
	"github.com/testingview/testingview/internal/strategy"
	"github.com/testingview/testingview/internal/types"
	"github.com/testingview/testingview/pkg/errors"
)

// OnStepCallback is invoked after every simulated step, e.g. to drive a
// progress bar.
type OnStepCallback func(step int, total int)

// Runner drives one strategy over one bar series: advance the visible
// window one bar at a time, recompute indicators, ask the strategy for a
// decision, settle it against the ledger, and snapshot equity.
type Runner struct {
	config   Config
	strategy strategy.Strategy
	log      *logger.Logger
	onStep   OnStepCallback
}

// NewRunner creates a runner for one strategy with a validated config.
func NewRunner(config Config, strat strategy.Strategy, log *logger.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if strat == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "runner needs a strategy")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Runner{
		config:   config,
		strategy: strat,
		log:      log,
		onStep:   nil,
	}, nil
}

// SetOnStepCallback installs a per-step progress hook.
func (r *Runner) SetOnStepCallback(cb OnStepCallback) {
	r.onStep = cb
}

// Run executes the full simulation and returns the report. Input bars are
// validated up front; a malformed series fails before any step executes
// and produces no partial equity curve.
func (r *Runner) Run(bars []types.Bar) (*types.Report, error) {
	bars = r.filterBars(bars)

	s, err := series.Load(bars)
	if err != nil {
		return nil, err
	}

	engine := indicator.NewEngine(s)

	setupCtx := strategy.Context{Indicators: engine, Logger: r.log}
	if err := r.strategy.SetIndicators(setupCtx); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStrategyExecution, err,
			"strategy %q failed to set up indicators", r.strategy.Name())
	}

	warmup := engine.MaxWarmup()
	if s.Len() <= warmup {
		return nil, errors.Newf(errors.ErrCodeEmptySeries,
			"series has %d bars but indicators need %d warm-up bars", s.Len(), warmup)
	}

	r.log.Info("backtest started",
		zap.String("strategy", r.strategy.Name()),
		zap.Int("bars", s.Len()),
		zap.Int("warmup", warmup),
	)

	book := ledger.New(r.config.InitialCash, r.config.PositionSize, r.config.CommissionRate, r.config.Amount)

	for step := 0; step < s.Len(); step++ {
		if err := engine.Advance(step); err != nil {
			return nil, errors.NewStrategyExecutionError(step, "indicator advance failed", err)
		}

		bar := s.Bar(step)

		// The strategy is only consulted once every indicator can be
		// defined; equity is still tracked through the warm-up.
		if step >= warmup {
			w, err := s.Window(step)
			if err != nil {
				return nil, err
			}

			ctx := strategy.Context{Indicators: engine, Window: w, Logger: r.log}

			decision, err := r.strategy.Next(step, ctx)
			if err != nil {
				return nil, errors.NewStrategyExecutionError(step, "strategy next failed", err)
			}

			if err := book.Apply(decision, bar); err != nil {
				return nil, errors.NewStrategyExecutionError(step, "decision could not be settled", err)
			}
		}

		book.MarkToMarket(bar)

		if r.onStep != nil {
			r.onStep(step, s.Len())
		}
	}

	report := buildReport(r.config, r.strategy.Name(), s, book)

	r.log.Info("backtest finished",
		zap.String("strategy", r.strategy.Name()),
		zap.Float64("final_equity", report.FinalEquity),
		zap.Int("trades", report.TradeCount),
	)

	return report, nil
}

// filterBars applies the optional configured time bounds.
func (r *Runner) filterBars(bars []types.Bar) []types.Bar {
	if r.config.StartTime.IsNone() && r.config.EndTime.IsNone() {
		return bars
	}

	filtered := make([]types.Bar, 0, len(bars))

	for _, bar := range bars {
		if r.config.StartTime.IsSome() && bar.Time.Before(r.config.StartTime.Unwrap()) {
			continue
		}

		if r.config.EndTime.IsSome() && bar.Time.After(r.config.EndTime.Unwrap()) {
			continue
		}

		filtered = append(filtered, bar)
	}

	return filtered
}
