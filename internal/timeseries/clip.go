package timeseries

import (
	"fmt"
	"time"
)

// Clip returns a new series restricted to observations whose date falls
// within the inclusive interval [start, end], along with the missing-value
// count recomputed over the clipped range. The input series is not
// modified. Returns a RangeError when start is after end.
func Clip(s *Series, start, end time.Time) (*Series, int, error) {
	if start.After(end) {
		return nil, 0, &RangeError{Start: start, End: end}
	}

	clipped := &Series{SiteID: s.SiteID}
	missing := 0
	for _, obs := range s.Observations {
		if obs.Date.Before(start) || obs.Date.After(end) {
			continue
		}
		if obs.Missing() {
			missing++
		}
		clipped.Observations = append(clipped.Observations, obs)
	}
	return clipped, missing, nil
}

// ClipDates is a convenience wrapper around Clip that accepts ISO
// YYYY-MM-DD date strings.
func ClipDates(s *Series, startDate, endDate string) (*Series, int, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, 0, fmt.Errorf("bad start date %q: %w", startDate, err)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return nil, 0, fmt.Errorf("bad end date %q: %w", endDate, err)
	}
	return Clip(s, start, end)
}
