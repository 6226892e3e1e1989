// Package wateryear groups a daily streamflow series into the period
// windows used by hydrological statistics: USGS water years (beginning
// October 1) and calendar months.
package wateryear

import (
	"time"

	"github.com/Environmental-Informatics/streamflow-metrics/internal/timeseries"
)

// Window is one period's ordered discharge values. Start identifies the
// period: October 1 of the prior calendar year for a water-year window,
// the first of the month for a monthly window. Values preserve date
// order and still contain NaN for missing readings; the index
// calculators drop those themselves.
type Window struct {
	Start  time.Time
	Values []float64
}

// Year returns the water-year label for a date. Water year Y runs from
// October 1 of year Y-1 through September 30 of year Y, so dates in
// October through December belong to the following year's label.
func Year(d time.Time) int {
	if d.Month() >= time.October {
		return d.Year() + 1
	}
	return d.Year()
}

// yearStart returns the first day of the water year labeled y.
func yearStart(y int) time.Time {
	return time.Date(y-1, time.October, 1, 0, 0, 0, 0, time.UTC)
}

// monthStart truncates a date to the first of its month.
func monthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ByWaterYear partitions a series into one window per water year, in
// chronological order. Only water years that contain at least one
// observation appear.
func ByWaterYear(s *timeseries.Series) []Window {
	return partition(s, func(d time.Time) time.Time {
		return yearStart(Year(d))
	})
}

// ByMonth partitions a series into one window per calendar month, in
// chronological order.
func ByMonth(s *timeseries.Series) []Window {
	return partition(s, monthStart)
}

// partition groups observations by a date-to-period-start key. The
// series is date-ordered, so windows come out contiguous and a new
// window opens exactly when the key changes.
func partition(s *timeseries.Series, key func(time.Time) time.Time) []Window {
	var windows []Window
	for _, obs := range s.Observations {
		start := key(obs.Date)
		if len(windows) == 0 || !windows[len(windows)-1].Start.Equal(start) {
			windows = append(windows, Window{Start: start})
		}
		last := &windows[len(windows)-1]
		last.Values = append(last.Values, obs.Discharge)
	}
	return windows
}
