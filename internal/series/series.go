// Package series holds the immutable, time-ordered table of OHLCV bars that
// every other component reads. A Series is validated once at load time and
// never mutated afterwards, so it is safe to share read-only across
// independent backtest runs.
package series

import (
	"time"

	"github.com/testingview/testingview/internal/types"
	"github.com/testingview/testingview/pkg/errors"
)

// MinBars is the smallest series Load accepts. A single bar admits no
// transition, so there is nothing to simulate.
const MinBars = 2

// Series is an immutable ordered sequence of bars.
type Series struct {
	bars []types.Bar
}

// Load validates the given bars and constructs a Series. The input slice is
// copied; later mutation of the caller's slice does not affect the series.
//
// Validation failures:
//   - fewer than MinBars bars: ErrCodeEmptySeries
//   - non-monotonic or duplicated timestamps: ErrCodeMalformedData
//   - OHLC invariant violations (see types.Bar.Validate): ErrCodeMalformedData
func Load(bars []types.Bar) (*Series, error) {
	if len(bars) < MinBars {
		return nil, errors.Newf(errors.ErrCodeEmptySeries,
			"series requires at least %d bars, got %d", MinBars, len(bars))
	}

	var prev time.Time

	for i, bar := range bars {
		if !bar.Validate() {
			return nil, errors.Newf(errors.ErrCodeMalformedData,
				"bar %d at %s violates OHLC invariants", i, bar.Time.Format(time.RFC3339))
		}

		if i > 0 && !bar.Time.After(prev) {
			return nil, errors.Newf(errors.ErrCodeMalformedData,
				"bar %d at %s is not strictly after its predecessor", i, bar.Time.Format(time.RFC3339))
		}

		prev = bar.Time
	}

	copied := make([]types.Bar, len(bars))
	copy(copied, bars)

	return &Series{bars: copied}, nil
}

// Len returns the number of bars in the series.
func (s *Series) Len() int {
	return len(s.bars)
}

// Bar returns the bar at index i.
func (s *Series) Bar(i int) types.Bar {
	return s.bars[i]
}

// Window returns a read-only view of the bars up to and including upto. This
// is the no-look-ahead boundary: a view handed out for step i can never
// expose a bar with index greater than i.
func (s *Series) Window(upto int) (View, error) {
	if upto < 0 || upto >= len(s.bars) {
		return View{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"window index %d out of range [0, %d)", upto, len(s.bars))
	}

	return View{bars: s.bars[:upto+1]}, nil
}

// View is a right-bounded, read-only slice of a Series.
type View struct {
	bars []types.Bar
}

// Len returns the number of visible bars.
func (v View) Len() int {
	return len(v.bars)
}

// Bar returns the visible bar at index i.
func (v View) Bar(i int) types.Bar {
	return v.bars[i]
}

// Last returns the most recent visible bar.
func (v View) Last() types.Bar {
	return v.bars[len(v.bars)-1]
}

// Open returns a copy of the visible open column.
func (v View) Open() []float64 {
	return v.column(func(b types.Bar) float64 { return b.Open })
}

// High returns a copy of the visible high column.
func (v View) High() []float64 {
	return v.column(func(b types.Bar) float64 { return b.High })
}

// Low returns a copy of the visible low column.
func (v View) Low() []float64 {
	return v.column(func(b types.Bar) float64 { return b.Low })
}

// Close returns a copy of the visible close column.
func (v View) Close() []float64 {
	return v.column(func(b types.Bar) float64 { return b.Close })
}

// Volume returns a copy of the visible volume column.
func (v View) Volume() []float64 {
	return v.column(func(b types.Bar) float64 { return b.Volume })
}

func (v View) column(get func(types.Bar) float64) []float64 {
	out := make([]float64, len(v.bars))
	for i, bar := range v.bars {
		out[i] = get(bar)
	}

	return out
}
