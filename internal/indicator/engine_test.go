package indicator

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/testingview/testingview/internal/series"
	"github.com/testingview/testingview/pkg/errors"
)

type EngineTestSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func loadSeries(suite *EngineTestSuite, closes ...float64) *series.Series {
	s, err := series.Load(barsFromCloses(closes))
	suite.Require().NoError(err)

	return s
}

func (suite *EngineTestSuite) TestDefineAndAdvance() {
	s := loadSeries(suite, 10, 20, 30, 40, 50)
	e := NewEngine(s)

	h, err := e.Define(SMA(SourceClose, 3))
	suite.Require().NoError(err)
	suite.Equal(2, e.MaxWarmup())

	for step := 0; step < s.Len(); step++ {
		suite.Require().NoError(e.Advance(step))
	}

	suite.True(e.ValueAt(h, 0).IsNone())
	suite.True(e.ValueAt(h, 1).IsNone())
	suite.InDelta(20.0, e.ValueAt(h, 2).Unwrap(), 1e-9)
	suite.InDelta(30.0, e.ValueAt(h, 3).Unwrap(), 1e-9)
	suite.InDelta(40.0, e.ValueAt(h, 4).Unwrap(), 1e-9)
}

func (suite *EngineTestSuite) TestValueAtNeverPeeksAhead() {
	s := loadSeries(suite, 10, 20, 30, 40, 50)
	e := NewEngine(s)

	h, err := e.Define(SMA(SourceClose, 2))
	suite.Require().NoError(err)

	suite.Require().NoError(e.Advance(0))
	suite.Require().NoError(e.Advance(1))

	// steps beyond the advanced frontier are undefined, not future values
	suite.True(e.ValueAt(h, 2).IsNone())
	suite.True(e.ValueAt(h, 99).IsNone())
	suite.True(e.ValueAt(h, -1).IsNone())
}

func (suite *EngineTestSuite) TestAdvanceOutOfOrder() {
	s := loadSeries(suite, 10, 20, 30)
	e := NewEngine(s)

	suite.Require().NoError(e.Advance(0))

	err := e.Advance(2)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *EngineTestSuite) TestDefineAfterStart() {
	s := loadSeries(suite, 10, 20, 30)
	e := NewEngine(s)

	suite.Require().NoError(e.Advance(0))

	_, err := e.Define(SMA(SourceClose, 2))
	suite.Require().Error(err)
}

func (suite *EngineTestSuite) TestComputeErrorPropagates() {
	s := loadSeries(suite, 10, 20, 30)
	e := NewEngine(s)

	_, err := e.Define(Definition{
		Name:   "broken",
		Warmup: 0,
		Compute: func(w series.View) ([]float64, error) {
			return nil, fmt.Errorf("boom")
		},
	})
	suite.Require().NoError(err)

	err = e.Advance(0)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorCalculation))
}

func (suite *EngineTestSuite) TestMisalignedOutputRejected() {
	s := loadSeries(suite, 10, 20, 30)
	e := NewEngine(s)

	_, err := e.Define(Definition{
		Name:   "short",
		Warmup: 0,
		Compute: func(w series.View) ([]float64, error) {
			return []float64{1}, nil
		},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(e.Advance(0))

	err = e.Advance(1)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorCalculation))
}

func (suite *EngineTestSuite) TestIncrementalMatchesFullRecompute() {
	closes := []float64{10, 12, 11, 13, 15, 14, 16, 18, 17, 19}
	s := loadSeries(suite, closes...)

	e := NewEngine(s)
	h, err := e.Define(EMA(SourceClose, 4))
	suite.Require().NoError(err)

	for step := 0; step < s.Len(); step++ {
		suite.Require().NoError(e.Advance(step))
	}

	// full recomputation on the complete window must be bit-identical to
	// the per-step history
	full, err := s.Window(s.Len() - 1)
	suite.Require().NoError(err)
	seq := exponentialMovingAverage(full.Close(), 4)

	for step := 0; step < s.Len(); step++ {
		got := e.ValueAt(h, step)
		if math.IsNaN(seq[step]) {
			suite.True(got.IsNone(), "step %d", step)
		} else {
			suite.Require().True(got.IsSome(), "step %d", step)
			suite.Equal(seq[step], got.Unwrap(), "step %d", step)
		}
	}
}

func (suite *EngineTestSuite) TestSequenceView() {
	s := loadSeries(suite, 10, 20, 30, 40)
	e := NewEngine(s)

	h, err := e.Define(SMA(SourceClose, 2))
	suite.Require().NoError(err)

	for step := 0; step < s.Len(); step++ {
		suite.Require().NoError(e.Advance(step))
	}

	seq := e.Sequence(h)
	suite.True(seq.ValueAt(0).IsNone())
	suite.InDelta(15.0, seq.ValueAt(1).Unwrap(), 1e-9)
	suite.Equal("sma(close,2)", e.Name(h))
}
