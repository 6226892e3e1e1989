// Package indices implements the specialized hydrological indices
// computed over one period window of daily discharge values: Tqmean,
// the Richards-Baker flashiness index, the 7-day low flow, and the
// 3x-median exceedance count.
//
// Every function takes the window's values in date order and excludes
// missing (NaN) entries itself, so callers may pass windows straight
// from the partitioner. A window with too few valid values for an
// index yields NaN (or zero for the exceedance count), never an error.
package indices

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// dropMissing returns the non-NaN values of a window, preserving order.
func dropMissing(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid
}

// Median returns the median of the window's valid values, using
// midpoint interpolation for an even count. NaN for an empty window.
func Median(values []float64) float64 {
	valid := dropMissing(values)
	n := len(valid)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, valid)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Tqmean returns the fraction of time that daily streamflow exceeds the
// mean streamflow for the window. It is a duration-based measure, not a
// volume-based one. NaN for an empty window.
func Tqmean(values []float64) float64 {
	valid := dropMissing(values)
	if len(valid) == 0 {
		return math.NaN()
	}
	mean := stat.Mean(valid, nil)
	above := 0
	for _, v := range valid {
		if v > mean {
			above++
		}
	}
	return float64(above) / float64(len(valid))
}

// RBIndex returns the Richards-Baker flashiness index: the sum of the
// absolute day-to-day changes in discharge divided by the total
// discharge for the window. The result is order-sensitive, so values
// must be in date order. NaN with fewer than two valid values.
func RBIndex(values []float64) float64 {
	valid := dropMissing(values)
	if len(valid) < 2 {
		return math.NaN()
	}
	pathLength := 0.0
	total := valid[0]
	for i := 1; i < len(valid); i++ {
		pathLength += math.Abs(valid[i] - valid[i-1])
		total += valid[i]
	}
	return pathLength / total
}

// sevenQWindow is the moving-average span, in days, for the low-flow index.
const sevenQWindow = 7

// SevenQ returns the 7-day low flow: the minimum of the 7-day moving
// averages over the window. Windows shorter than seven valid values
// have no full averaging span and yield NaN; a partial-span average is
// never substituted.
func SevenQ(values []float64) float64 {
	valid := dropMissing(values)
	if len(valid) < sevenQWindow {
		return math.NaN()
	}
	sum := 0.0
	for i := 0; i < sevenQWindow; i++ {
		sum += valid[i]
	}
	low := sum
	for i := sevenQWindow; i < len(valid); i++ {
		sum += valid[i] - valid[i-sevenQWindow]
		if sum < low {
			low = sum
		}
	}
	return low / sevenQWindow
}

// ExceedThreeMedian returns the number of days with discharge strictly
// greater than three times the window's median flow. Zero for an empty
// window; this is a count, not a ratio.
func ExceedThreeMedian(values []float64) int {
	valid := dropMissing(values)
	if len(valid) == 0 {
		return 0
	}
	threshold := 3 * Median(valid)
	count := 0
	for _, v := range valid {
		if v > threshold {
			count++
		}
	}
	return count
}
