package types

import (
	"math"
	"time"
)

// Bar is a single OHLCV observation for a fixed time interval.
type Bar struct {
	Time   time.Time `csv:"time" yaml:"time"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
}

// Validate checks the OHLC invariants for a single bar: prices are strictly
// positive and finite, volume is non-negative, high >= max(open, close) and
// low <= min(open, close).
func (b Bar) Validate() bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}

	if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) || b.Volume < 0 {
		return false
	}

	if b.High < math.Max(b.Open, b.Close) {
		return false
	}

	if b.Low > math.Min(b.Open, b.Close) {
		return false
	}

	return true
}
