// Package timeseries loads and prepares daily streamflow records for
// statistical processing.
package timeseries

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the ISO date format used by USGS daily-value files.
const DateLayout = "2006-01-02"

// Observation is a single daily discharge reading. A missing reading
// carries NaN in Discharge; the row itself is kept so the series stays
// date-ordered with one entry per recorded day.
type Observation struct {
	Date      time.Time
	Discharge float64
	Quality   string
}

// Missing reports whether the observation has no usable discharge value.
func (o Observation) Missing() bool {
	return math.IsNaN(o.Discharge)
}

// Series is the ordered daily record for a single gaging station.
type Series struct {
	SiteID       string
	Observations []Observation
}

// MissingCount returns the number of observations without a discharge value.
func (s *Series) MissingCount() int {
	count := 0
	for _, obs := range s.Observations {
		if obs.Missing() {
			count++
		}
	}
	return count
}

// Len returns the number of observations in the series.
func (s *Series) Len() int {
	return len(s.Observations)
}

// ParseError describes a malformed input file or row.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("parse %s: %s", e.Path, e.Msg)
}

// RangeError describes an invalid clipping interval.
type RangeError struct {
	Start time.Time
	End   time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format(DateLayout), e.End.Format(DateLayout))
}
