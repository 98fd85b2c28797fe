package indicator

import (
	"fmt"
	"math"

	"github.com/testingview/testingview/internal/series"
)

// Source selects the bar column an indicator reads.
type Source string

const (
	SourceOpen   Source = "open"
	SourceHigh   Source = "high"
	SourceLow    Source = "low"
	SourceClose  Source = "close"
	SourceVolume Source = "volume"
)

func (s Source) column(w series.View) []float64 {
	switch s {
	case SourceOpen:
		return w.Open()
	case SourceHigh:
		return w.High()
	case SourceLow:
		return w.Low()
	case SourceVolume:
		return w.Volume()
	default:
		return w.Close()
	}
}

// SMA builds a simple moving average definition over the given source
// column. Undefined for the first period-1 steps.
func SMA(src Source, period int) Definition {
	return Definition{
		Name:   fmt.Sprintf("sma(%s,%d)", src, period),
		Warmup: period - 1,
		Compute: func(w series.View) ([]float64, error) {
			return simpleMovingAverage(src.column(w), period), nil
		},
	}
}

// EMA builds an exponential moving average definition. The first defined
// value at index period-1 is seeded with the simple average of the first
// period observations, then smoothed with alpha = 2/(period+1).
func EMA(src Source, period int) Definition {
	return Definition{
		Name:   fmt.Sprintf("ema(%s,%d)", src, period),
		Warmup: period - 1,
		Compute: func(w series.View) ([]float64, error) {
			return exponentialMovingAverage(src.column(w), period), nil
		},
	}
}

// MACD builds the MACD line: EMA(fast) - EMA(slow). Undefined until the slow
// average is defined.
func MACD(src Source, fast, slow int) Definition {
	return Definition{
		Name:   fmt.Sprintf("macd(%s,%d,%d)", src, fast, slow),
		Warmup: slow - 1,
		Compute: func(w series.View) ([]float64, error) {
			return macdLine(src.column(w), fast, slow), nil
		},
	}
}

// MACDSignal builds the MACD signal line: an EMA of the MACD line over
// signalPeriod steps.
func MACDSignal(src Source, fast, slow, signalPeriod int) Definition {
	return Definition{
		Name:   fmt.Sprintf("macd_signal(%s,%d,%d,%d)", src, fast, slow, signalPeriod),
		Warmup: slow + signalPeriod - 2,
		Compute: func(w series.View) ([]float64, error) {
			macd := macdLine(src.column(w), fast, slow)
			return emaOver(macd, signalPeriod, slow-1), nil
		},
	}
}

// RSI builds Wilder's relative strength index. Undefined for the first
// period steps.
func RSI(src Source, period int) Definition {
	return Definition{
		Name:   fmt.Sprintf("rsi(%s,%d)", src, period),
		Warmup: period,
		Compute: func(w series.View) ([]float64, error) {
			return relativeStrengthIndex(src.column(w), period), nil
		},
	}
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

func simpleMovingAverage(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}

	return out
}

func exponentialMovingAverage(values []float64, period int) []float64 {
	return emaOver(values, period, 0)
}

// emaOver computes an EMA over values starting at index offset, where
// values[offset:] is the defined region of the input. The first defined
// output index is offset+period-1, seeded with the simple average of the
// first period defined inputs.
func emaOver(values []float64, period int, offset int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values)-offset < period {
		return out
	}

	seedEnd := offset + period
	var sum float64

	for i := offset; i < seedEnd; i++ {
		sum += values[i]
	}

	alpha := 2.0 / (float64(period) + 1.0)
	prev := sum / float64(period)
	out[seedEnd-1] = prev

	for i := seedEnd; i < len(values); i++ {
		prev = alpha*values[i] + (1-alpha)*prev
		out[i] = prev
	}

	return out
}

func macdLine(values []float64, fast, slow int) []float64 {
	fastEMA := emaOver(values, fast, 0)
	slowEMA := emaOver(values, slow, 0)

	out := nanSlice(len(values))
	for i := range values {
		if !math.IsNaN(fastEMA[i]) && !math.IsNaN(slowEMA[i]) {
			out[i] = fastEMA[i] - slowEMA[i]
		}
	}

	return out
}

func relativeStrengthIndex(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	var gain, loss float64

	for i := 1; i <= period; i++ {
		diff := values[i] - values[i-1]
		if diff > 0 {
			gain += diff
		} else {
			loss -= diff
		}
	}

	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		diff := values[i] - values[i-1]

		var up, down float64
		if diff > 0 {
			up = diff
		} else {
			down = -diff
		}

		avgGain = (avgGain*float64(period-1) + up) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + down) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
