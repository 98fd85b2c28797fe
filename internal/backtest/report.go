package backtest

import (
	"github.com/google/uuid"

	"github.com/testingview/testingview/internal/ledger"
	"github.com/testingview/testingview/internal/series"
	"github.com/testingview/testingview/internal/types"
)

// buildReport condenses the finished ledger into a report. The equity
// curve carries one point per simulated bar.
func buildReport(config Config, strategyName string, s *series.Series, book *ledger.Ledger) *types.Report {
	trades := book.Trades()
	curve := book.EquityCurve()

	winning, losing := 0, 0

	for _, trade := range trades {
		if trade.PnL > 0 {
			winning++
		} else {
			losing++
		}
	}

	winRate := 0.0
	if len(trades) > 0 {
		winRate = float64(winning) / float64(len(trades))
	}

	lastBar := s.Bar(s.Len() - 1)
	finalEquity := book.Equity(lastBar.Close)

	returnPct := 0.0
	if config.InitialCash > 0 {
		returnPct = (finalEquity - config.InitialCash) / config.InitialCash * 100
	}

	exposurePct := 0.0
	if len(curve) > 0 {
		exposurePct = float64(book.ExposedSteps()) / float64(len(curve)) * 100
	}

	return &types.Report{
		ID:              uuid.New().String(),
		Strategy:        strategyName,
		Start:           s.Bar(0).Time,
		End:             lastBar.Time,
		InitialCash:     config.InitialCash,
		FinalEquity:     finalEquity,
		PeakEquity:      peakEquity(curve),
		ReturnPct:       returnPct,
		MaxDrawdownPct:  maxDrawdownPct(curve),
		ExposurePct:     exposurePct,
		TradeCount:      len(trades),
		WinningTrades:   winning,
		LosingTrades:    losing,
		WinRate:         winRate,
		RealizedPnL:     book.RealizedPnL(),
		TotalCommission: book.TotalCommission(),
		Valid:           book.Valid(),
		EquityCurve:     curve,
		TradeLog:        trades,
	}
}

// peakEquity returns the highest recorded equity, 0 for an empty curve.
func peakEquity(curve []types.EquityPoint) float64 {
	peak := 0.0

	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}
	}

	return peak
}

// maxDrawdownPct returns the largest peak-to-trough equity decline as a
// percentage of the peak, 0 for a curve that never declines.
func maxDrawdownPct(curve []types.EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}

	peak := curve[0].Equity
	maxDrawdown := 0.0

	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}

		if peak <= 0 {
			continue
		}

		drawdown := (peak - point.Equity) / peak * 100
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return maxDrawdown
}
