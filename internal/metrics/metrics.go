// Package metrics builds per-period descriptive statistics for a
// streamflow series and aggregates them into long-run averages.
package metrics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Environmental-Informatics/streamflow-metrics/internal/indices"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/timeseries"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/wateryear"
)

// AnnualRow is one water year's statistics for a station. WaterYear is
// the period start date (October 1). ExceedThreeMedian is a day count;
// it is carried as a float so column-wise averaging stays uniform.
type AnnualRow struct {
	SiteID            string
	WaterYear         time.Time
	MeanFlow          float64
	PeakFlow          float64
	MedianFlow        float64
	CoeffVar          float64
	Skew              float64
	Tqmean            float64
	RBIndex           float64
	SevenQ            float64
	ExceedThreeMedian float64
}

// MonthlyRow is one calendar month's statistics for a station. The
// monthly table intentionally carries a reduced column set; peak,
// median, skew, 7Q and the exceedance count are annual-only.
type MonthlyRow struct {
	SiteID   string
	Month    time.Time
	MeanFlow float64
	CoeffVar float64
	Tqmean   float64
	RBIndex  float64
}

// AnnualAverages is the column-wise mean of a station's annual rows.
type AnnualAverages struct {
	MeanFlow          float64
	PeakFlow          float64
	MedianFlow        float64
	CoeffVar          float64
	Skew              float64
	Tqmean            float64
	RBIndex           float64
	SevenQ            float64
	ExceedThreeMedian float64
}

// MonthlyAverages is the mean of a station's monthly rows for one
// calendar month of the year, across all years observed.
type MonthlyAverages struct {
	Month    time.Month
	MeanFlow float64
	CoeffVar float64
	Tqmean   float64
	RBIndex  float64
}

// StationResult bundles everything the pipeline produces for one
// station: the two per-period tables and the two long-run summaries.
type StationResult struct {
	Name            string
	SiteID          string
	Annual          []AnnualRow
	Monthly         []MonthlyRow
	AnnualAverage   AnnualAverages
	MonthlyAverage  []MonthlyAverages
	MissingValues   int
	ObservationDays int
}

// validValues filters NaN entries from a window, preserving order.
func validValues(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid
}

// nanMean averages the non-NaN entries of a column. NaN when none remain.
func nanMean(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// peak returns the maximum of the values. NaN for an empty slice.
func peak(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// coeffVar returns the coefficient of variation as a percentage,
// 100 * stddev / mean. NaN when the mean is zero or when fewer than
// two values leave the sample deviation undefined.
func coeffVar(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	mean := stat.Mean(values, nil)
	if mean == 0 {
		return math.NaN()
	}
	return 100 * stat.StdDev(values, nil) / mean
}

// skewness returns the bias-corrected sample skewness, or 0 when it is
// undefined (fewer than three values, or zero variance).
func skewness(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}
	s := stat.Skew(values, nil)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return s
}

// BuildAnnual computes one AnnualRow per water year of the series, in
// chronological order. A water year with no valid observations still
// produces a row; its statistics are NaN (the exceedance count is 0).
func BuildAnnual(s *timeseries.Series) []AnnualRow {
	windows := wateryear.ByWaterYear(s)
	rows := make([]AnnualRow, 0, len(windows))
	for _, w := range windows {
		valid := validValues(w.Values)
		rows = append(rows, AnnualRow{
			SiteID:            s.SiteID,
			WaterYear:         w.Start,
			MeanFlow:          nanMean(w.Values),
			PeakFlow:          peak(valid),
			MedianFlow:        indices.Median(w.Values),
			CoeffVar:          coeffVar(valid),
			Skew:              skewness(valid),
			Tqmean:            indices.Tqmean(w.Values),
			RBIndex:           indices.RBIndex(w.Values),
			SevenQ:            indices.SevenQ(w.Values),
			ExceedThreeMedian: float64(indices.ExceedThreeMedian(w.Values)),
		})
	}
	return rows
}

// BuildMonthly computes one MonthlyRow per calendar month of the
// series, in chronological order.
func BuildMonthly(s *timeseries.Series) []MonthlyRow {
	windows := wateryear.ByMonth(s)
	rows := make([]MonthlyRow, 0, len(windows))
	for _, w := range windows {
		valid := validValues(w.Values)
		rows = append(rows, MonthlyRow{
			SiteID:   s.SiteID,
			Month:    w.Start,
			MeanFlow: nanMean(w.Values),
			CoeffVar: coeffVar(valid),
			Tqmean:   indices.Tqmean(w.Values),
			RBIndex:  indices.RBIndex(w.Values),
		})
	}
	return rows
}

// AverageAnnual computes the column-wise mean of a station's annual
// rows across all water years, skipping NaN cells per column.
func AverageAnnual(rows []AnnualRow) AnnualAverages {
	var mean, peaks, median, cv, skew, tq, rb, sevenQ, exceed []float64
	for _, r := range rows {
		mean = append(mean, r.MeanFlow)
		peaks = append(peaks, r.PeakFlow)
		median = append(median, r.MedianFlow)
		cv = append(cv, r.CoeffVar)
		skew = append(skew, r.Skew)
		tq = append(tq, r.Tqmean)
		rb = append(rb, r.RBIndex)
		sevenQ = append(sevenQ, r.SevenQ)
		exceed = append(exceed, r.ExceedThreeMedian)
	}
	return AnnualAverages{
		MeanFlow:          nanMean(mean),
		PeakFlow:          nanMean(peaks),
		MedianFlow:        nanMean(median),
		CoeffVar:          nanMean(cv),
		Skew:              nanMean(skew),
		Tqmean:            nanMean(tq),
		RBIndex:           nanMean(rb),
		SevenQ:            nanMean(sevenQ),
		ExceedThreeMedian: nanMean(exceed),
	}
}

// AverageMonthly groups a station's monthly rows by calendar month
// number, ignoring the year, and averages each column within the
// group. It always returns twelve rows in calendar order January
// through December; a month never observed carries NaN statistics.
func AverageMonthly(rows []MonthlyRow) []MonthlyAverages {
	byMonth := make(map[time.Month][]MonthlyRow, 12)
	for _, r := range rows {
		m := r.Month.Month()
		byMonth[m] = append(byMonth[m], r)
	}

	averages := make([]MonthlyAverages, 0, 12)
	for m := time.January; m <= time.December; m++ {
		group := byMonth[m]
		avg := MonthlyAverages{Month: m}
		var mean, cv, tq, rb []float64
		for _, r := range group {
			mean = append(mean, r.MeanFlow)
			cv = append(cv, r.CoeffVar)
			tq = append(tq, r.Tqmean)
			rb = append(rb, r.RBIndex)
		}
		avg.MeanFlow = nanMean(mean)
		avg.CoeffVar = nanMean(cv)
		avg.Tqmean = nanMean(tq)
		avg.RBIndex = nanMean(rb)
		averages = append(averages, avg)
	}
	return averages
}
