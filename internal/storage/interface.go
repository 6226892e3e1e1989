// Package storage defines interfaces and implementations for metric
// result storage backends.
package storage

import (
	"context"

	"github.com/Environmental-Informatics/streamflow-metrics/internal/metrics"
)

// Engine is an interface that provides standardized methods for the
// various result storage backends. Stations are processed one at a
// time and each backend receives complete per-station results, so rows
// from different stations are never interleaved within a table.
type Engine interface {
	StoreStation(ctx context.Context, result *metrics.StationResult) error
	Close() error
}
