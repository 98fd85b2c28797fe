package indicator

import (
	"time"

	"github.com/testingview/testingview/internal/types"
)

// barsFromCloses builds hourly bars around the given closing prices.
func barsFromCloses(closes []float64) []types.Bar {
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
