// Package filestore implements the flat-file storage backend: the
// annual and monthly metrics tables as CSV and the two long-run
// averages tables as tab-separated text. Each file is opened once per
// run and one station's rows are appended at a time, in the order
// stations are processed.
package filestore

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/Environmental-Informatics/streamflow-metrics/internal/log"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/metrics"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/timeseries"
	"github.com/Environmental-Informatics/streamflow-metrics/pkg/config"
)

var (
	annualHeader  = []string{"Date", "site_no", "Mean Flow", "Peak Flow", "Median Flow", "Coeff Var", "Skew", "Tqmean", "R-B index", "7Q", "3xMedian", "Station"}
	monthlyHeader = []string{"Date", "site_no", "Mean Flow", "Coeff Var", "Tqmean", "R-B index", "Station"}

	annualAvgHeader  = []string{"Mean Flow", "Peak Flow", "Median Flow", "Coeff Var", "Skew", "Tqmean", "R-B index", "7Q", "3xMedian", "Station"}
	monthlyAvgHeader = []string{"Month", "Mean Flow", "Coeff Var", "Tqmean", "R-B index", "Station"}
)

// Storage holds the open table files for a run.
type Storage struct {
	files   []*os.File
	annual  *csv.Writer
	monthly *csv.Writer
	annAvg  *csv.Writer
	monAvg  *csv.Writer
}

// New creates the four output tables, truncating any previous run's
// files, and writes one header line to each.
func New(c *config.FileStoreData) (*Storage, error) {
	s := &Storage{}

	open := func(path string, tab bool, header []string) (*csv.Writer, error) {
		f, err := os.Create(path)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("could not create output table %s: %w", path, err)
		}
		s.files = append(s.files, f)
		w := csv.NewWriter(f)
		if tab {
			w.Comma = '\t'
		}
		if err := w.Write(header); err != nil {
			s.Close()
			return nil, fmt.Errorf("could not write header to %s: %w", path, err)
		}
		w.Flush()
		return w, nil
	}

	var err error
	if s.annual, err = open(c.AnnualMetrics, false, annualHeader); err != nil {
		return nil, err
	}
	if s.monthly, err = open(c.MonthlyMetrics, false, monthlyHeader); err != nil {
		return nil, err
	}
	if s.annAvg, err = open(c.AnnualAverages, true, annualAvgHeader); err != nil {
		return nil, err
	}
	if s.monAvg, err = open(c.MonthlyAverages, true, monthlyAvgHeader); err != nil {
		return nil, err
	}
	return s, nil
}

// StoreStation appends one station's rows to all four tables.
func (s *Storage) StoreStation(ctx context.Context, result *metrics.StationResult) error {
	log.Debugf("writing %d annual and %d monthly rows for station %s",
		len(result.Annual), len(result.Monthly), result.Name)

	for _, r := range result.Annual {
		row := []string{
			r.WaterYear.Format(timeseries.DateLayout),
			r.SiteID,
			cell(r.MeanFlow),
			cell(r.PeakFlow),
			cell(r.MedianFlow),
			cell(r.CoeffVar),
			cell(r.Skew),
			cell(r.Tqmean),
			cell(r.RBIndex),
			cell(r.SevenQ),
			cell(r.ExceedThreeMedian),
			result.Name,
		}
		if err := s.annual.Write(row); err != nil {
			return err
		}
	}

	for _, r := range result.Monthly {
		row := []string{
			r.Month.Format(timeseries.DateLayout),
			r.SiteID,
			cell(r.MeanFlow),
			cell(r.CoeffVar),
			cell(r.Tqmean),
			cell(r.RBIndex),
			result.Name,
		}
		if err := s.monthly.Write(row); err != nil {
			return err
		}
	}

	avg := result.AnnualAverage
	if err := s.annAvg.Write([]string{
		cell(avg.MeanFlow),
		cell(avg.PeakFlow),
		cell(avg.MedianFlow),
		cell(avg.CoeffVar),
		cell(avg.Skew),
		cell(avg.Tqmean),
		cell(avg.RBIndex),
		cell(avg.SevenQ),
		cell(avg.ExceedThreeMedian),
		result.Name,
	}); err != nil {
		return err
	}

	for _, m := range result.MonthlyAverage {
		if err := s.monAvg.Write([]string{
			strconv.Itoa(int(m.Month)),
			cell(m.MeanFlow),
			cell(m.CoeffVar),
			cell(m.Tqmean),
			cell(m.RBIndex),
			result.Name,
		}); err != nil {
			return err
		}
	}

	return s.flush()
}

func (s *Storage) flush() error {
	for _, w := range []*csv.Writer{s.annual, s.monthly, s.annAvg, s.monAvg} {
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("could not flush output table: %w", err)
		}
	}
	return nil
}

// Close closes all open table files.
func (s *Storage) Close() error {
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// cell formats a statistic for a table cell. Undefined values (NaN)
// render as empty cells.
func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
