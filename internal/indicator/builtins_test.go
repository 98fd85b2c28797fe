package indicator

import (
	"math"
	"testing"

	talib "github.com/markcheno/go-talib"
	"github.com/stretchr/testify/suite"
)

type BuiltinsTestSuite struct {
	suite.Suite
}

func TestBuiltinsSuite(t *testing.T) {
	suite.Run(t, new(BuiltinsTestSuite))
}

// oscillating test series, long enough for every builtin's warm-up
var testCloses = []float64{
	100, 102, 101, 105, 107, 106, 110, 108, 112, 115,
	113, 117, 116, 120, 118, 122, 125, 123, 127, 126,
	130, 128, 132, 135, 133, 137, 136, 140, 138, 142,
}

func (suite *BuiltinsTestSuite) TestSMAWarmup() {
	out := simpleMovingAverage(testCloses, 5)
	suite.Len(out, len(testCloses))

	for i := 0; i < 4; i++ {
		suite.True(math.IsNaN(out[i]), "index %d should be undefined", i)
	}

	for i := 4; i < len(out); i++ {
		suite.False(math.IsNaN(out[i]), "index %d should be defined", i)
	}
}

func (suite *BuiltinsTestSuite) TestSMAMatchesTALib() {
	ref := talib.Sma(testCloses, 5)
	out := simpleMovingAverage(testCloses, 5)

	for i := 4; i < len(out); i++ {
		suite.InDelta(ref[i], out[i], 1e-9, "index %d", i)
	}
}

func (suite *BuiltinsTestSuite) TestEMAMatchesTALib() {
	ref := talib.Ema(testCloses, 10)
	out := exponentialMovingAverage(testCloses, 10)

	for i := 9; i < len(out); i++ {
		suite.InDelta(ref[i], out[i], 1e-9, "index %d", i)
	}
}

func (suite *BuiltinsTestSuite) TestRSIMatchesTALib() {
	ref := talib.Rsi(testCloses, 14)
	out := relativeStrengthIndex(testCloses, 14)

	for i := 14; i < len(out); i++ {
		suite.InDelta(ref[i], out[i], 1e-9, "index %d", i)
	}
}

func (suite *BuiltinsTestSuite) TestSMAShortInput() {
	out := simpleMovingAverage([]float64{1, 2, 3}, 5)
	for i := range out {
		suite.True(math.IsNaN(out[i]))
	}
}

func (suite *BuiltinsTestSuite) TestEMASeed() {
	out := exponentialMovingAverage([]float64{2, 4, 6, 8}, 3)
	suite.True(math.IsNaN(out[0]))
	suite.True(math.IsNaN(out[1]))
	// seeded with the simple average of the first 3 values
	suite.InDelta(4.0, out[2], 1e-9)
	// alpha = 2/(3+1) = 0.5
	suite.InDelta(0.5*8+0.5*4.0, out[3], 1e-9)
}

func (suite *BuiltinsTestSuite) TestMACDLine() {
	out := macdLine(testCloses, 12, 26)

	for i := 0; i < 25; i++ {
		suite.True(math.IsNaN(out[i]), "index %d should be undefined", i)
	}

	fast := exponentialMovingAverage(testCloses, 12)
	slow := exponentialMovingAverage(testCloses, 26)

	for i := 25; i < len(out); i++ {
		suite.InDelta(fast[i]-slow[i], out[i], 1e-9, "index %d", i)
	}
}

func (suite *BuiltinsTestSuite) TestMACDSignalWarmup() {
	def := MACDSignal(SourceClose, 3, 5, 4)
	suite.Equal(5+4-2, def.Warmup)

	macd := macdLine(testCloses, 3, 5)
	out := emaOver(macd, 4, 4)

	for i := 0; i < def.Warmup; i++ {
		suite.True(math.IsNaN(out[i]), "index %d should be undefined", i)
	}

	for i := def.Warmup; i < len(out); i++ {
		suite.False(math.IsNaN(out[i]), "index %d should be defined", i)
	}
}

func (suite *BuiltinsTestSuite) TestRSIDirection() {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}

	out := relativeStrengthIndex(rising, 14)
	// monotonic gains pin the index at 100
	suite.InDelta(100.0, out[len(out)-1], 1e-9)
}

func (suite *BuiltinsTestSuite) TestDefinitionNames() {
	suite.Equal("sma(close,5)", SMA(SourceClose, 5).Name)
	suite.Equal("ema(close,20)", EMA(SourceClose, 20).Name)
	suite.Equal("macd(close,12,26)", MACD(SourceClose, 12, 26).Name)
	suite.Equal("macd_signal(close,12,26,9)", MACDSignal(SourceClose, 12, 26, 9).Name)
	suite.Equal("rsi(close,14)", RSI(SourceClose, 14).Name)
}

func (suite *BuiltinsTestSuite) TestSourceColumns() {
	tests := []struct {
		name   string
		source Source
		warmup int
	}{
		{"open", SourceOpen, 2},
		{"high", SourceHigh, 2},
		{"low", SourceLow, 2},
		{"close", SourceClose, 2},
		{"volume", SourceVolume, 2},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			def := SMA(tc.source, 3)
			suite.Equal(tc.warmup, def.Warmup)
		})
	}
}
