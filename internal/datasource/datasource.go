// Package datasource loads bar history for the runner. The DuckDB source
// reads CSV and parquet files; the in-memory source serves pre-built bars,
// mostly for tests and embedding callers.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/testingview/testingview/internal/types"
)

type DataSource interface {
	// Initialize points the source at the given data path.
	Initialize(path string) error
	// ReadAll returns every bar in ascending time order, optionally bounded.
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error)
	// Count returns the number of bars, optionally bounded.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close releases any resources held by the source.
	Close() error
}
