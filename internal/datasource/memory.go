package datasource

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"

	"github.com/testingview/testingview/internal/types"
)

// InMemoryDataSource serves bars that are already in memory, sorted by
// time on construction.
type InMemoryDataSource struct {
	bars []types.Bar
}

// NewInMemoryDataSource creates a source over a copy of the given bars.
func NewInMemoryDataSource(bars []types.Bar) *InMemoryDataSource {
	owned := make([]types.Bar, len(bars))
	copy(owned, bars)

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Time.Before(owned[j].Time)
	})

	return &InMemoryDataSource{bars: owned}
}

// Initialize implements DataSource. The in-memory source has no backing
// file, so the path is ignored.
func (s *InMemoryDataSource) Initialize(path string) error {
	return nil
}

// ReadAll implements DataSource.
func (s *InMemoryDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error) {
	out := make([]types.Bar, 0, len(s.bars))

	for _, bar := range s.bars {
		if !inBounds(bar.Time, start, end) {
			continue
		}

		out = append(out, bar)
	}

	return out, nil
}

// Count implements DataSource.
func (s *InMemoryDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	count := 0

	for _, bar := range s.bars {
		if inBounds(bar.Time, start, end) {
			count++
		}
	}

	return count, nil
}

// Close implements DataSource.
func (s *InMemoryDataSource) Close() error {
	return nil
}

func inBounds(t time.Time, start, end optional.Option[time.Time]) bool {
	if start.IsSome() && t.Before(start.Unwrap()) {
		return false
	}

	if end.IsSome() && t.After(end.Unwrap()) {
		return false
	}

	return true
}
