package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/testingview/testingview/internal/types"
	"github.com/testingview/testingview/pkg/errors"
)

type SeriesTestSuite struct {
	suite.Suite
}

func TestSeriesSuite(t *testing.T) {
	suite.Run(t, new(SeriesTestSuite))
}

func makeBars(closes ...float64) []types.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(closes))

	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

func (suite *SeriesTestSuite) TestLoadValid() {
	s, err := Load(makeBars(100, 101, 102))
	suite.Require().NoError(err)
	suite.Equal(3, s.Len())
	suite.InDelta(101.0, s.Bar(1).Close, 1e-9)
}

func (suite *SeriesTestSuite) TestLoadCopiesInput() {
	bars := makeBars(100, 101, 102)
	s, err := Load(bars)
	suite.Require().NoError(err)

	bars[0].Close = 999

	suite.InDelta(100.0, s.Bar(0).Close, 1e-9)
}

func (suite *SeriesTestSuite) TestLoadTooFewBars() {
	_, err := Load(makeBars(100))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))

	_, err = Load(nil)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}

func (suite *SeriesTestSuite) TestLoadNonMonotonicTimestamps() {
	bars := makeBars(100, 101, 102)
	bars[2].Time = bars[0].Time.Add(-time.Hour)

	_, err := Load(bars)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMalformedData))
}

func (suite *SeriesTestSuite) TestLoadDuplicateTimestamps() {
	bars := makeBars(100, 101, 102)
	bars[1].Time = bars[0].Time

	_, err := Load(bars)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMalformedData))
}

func (suite *SeriesTestSuite) TestLoadOHLCViolation() {
	bars := makeBars(100, 101, 102)
	bars[1].High = bars[1].Close - 5 // high < close

	_, err := Load(bars)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMalformedData))
}

func (suite *SeriesTestSuite) TestWindowBounds() {
	s, err := Load(makeBars(100, 101, 102, 103))
	suite.Require().NoError(err)

	_, err = s.Window(-1)
	suite.Error(err)

	_, err = s.Window(4)
	suite.Error(err)

	w, err := s.Window(3)
	suite.NoError(err)
	suite.Equal(4, w.Len())
}

func (suite *SeriesTestSuite) TestWindowNoLookAhead() {
	s, err := Load(makeBars(100, 101, 102, 103, 104))
	suite.Require().NoError(err)

	// window(i) never exposes any bar with index > i
	for i := 0; i < s.Len(); i++ {
		w, err := s.Window(i)
		suite.Require().NoError(err)
		suite.Equal(i+1, w.Len())
		suite.Equal(s.Bar(i).Time, w.Last().Time)
	}
}

func (suite *SeriesTestSuite) TestViewColumns() {
	s, err := Load(makeBars(100, 101, 102))
	suite.Require().NoError(err)

	w, err := s.Window(2)
	suite.Require().NoError(err)

	closes := w.Close()
	suite.Equal([]float64{100, 101, 102}, closes)

	// column copies are detached from the series
	closes[0] = 999
	suite.InDelta(100.0, s.Bar(0).Close, 1e-9)

	suite.Equal([]float64{101, 102, 103}, w.High())
	suite.Equal([]float64{99, 100, 101}, w.Low())
	suite.Equal([]float64{100, 101, 102}, w.Open())
	suite.Equal([]float64{1000, 1000, 1000}, w.Volume())
}
