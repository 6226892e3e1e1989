// Package sqlitestore implements a SQLite storage backend that
// archives per-station metric rows locally. Each run is tagged with a
// UUID so successive runs over the same stations stay distinguishable.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/Environmental-Informatics/streamflow-metrics/internal/log"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/metrics"
)

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS annual_metrics (
    run_id      text NOT NULL,
    station     text NOT NULL,
    site_no     text NOT NULL,
    water_year  text NOT NULL,
    mean_flow   real NULL,
    peak_flow   real NULL,
    median_flow real NULL,
    coeff_var   real NULL,
    skew        real NULL,
    tqmean      real NULL,
    rb_index    real NULL,
    seven_q     real NULL,
    exceed_3x_median real NULL
);
CREATE TABLE IF NOT EXISTS monthly_metrics (
    run_id    text NOT NULL,
    station   text NOT NULL,
    site_no   text NOT NULL,
    month     text NOT NULL,
    mean_flow real NULL,
    coeff_var real NULL,
    tqmean    real NULL,
    rb_index  real NULL
);
`

// Storage holds the connection to the SQLite archive database.
type Storage struct {
	db    *sql.DB
	runID string
}

// New opens (or creates) the archive database at path and ensures the
// metric tables exist.
func New(path, runID string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open results archive %s: %w", path, err)
	}
	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create archive tables: %w", err)
	}
	return &Storage{db: db, runID: runID}, nil
}

// StoreStation archives one station's annual and monthly rows inside a
// single transaction.
func (s *Storage) StoreStation(ctx context.Context, result *metrics.StationResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	annualStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO annual_metrics
		(run_id, station, site_no, water_year, mean_flow, peak_flow, median_flow,
		 coeff_var, skew, tqmean, rb_index, seven_q, exceed_3x_median)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer annualStmt.Close()

	for _, r := range result.Annual {
		_, err := annualStmt.ExecContext(ctx, s.runID, result.Name, r.SiteID,
			r.WaterYear.Format("2006-01-02"),
			nullable(r.MeanFlow), nullable(r.PeakFlow), nullable(r.MedianFlow),
			nullable(r.CoeffVar), nullable(r.Skew), nullable(r.Tqmean),
			nullable(r.RBIndex), nullable(r.SevenQ), nullable(r.ExceedThreeMedian))
		if err != nil {
			return fmt.Errorf("could not archive annual row: %w", err)
		}
	}

	monthlyStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO monthly_metrics
		(run_id, station, site_no, month, mean_flow, coeff_var, tqmean, rb_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer monthlyStmt.Close()

	for _, r := range result.Monthly {
		_, err := monthlyStmt.ExecContext(ctx, s.runID, result.Name, r.SiteID,
			r.Month.Format("2006-01-02"),
			nullable(r.MeanFlow), nullable(r.CoeffVar), nullable(r.Tqmean), nullable(r.RBIndex))
		if err != nil {
			return fmt.Errorf("could not archive monthly row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit archive transaction: %w", err)
	}
	log.Debugf("archived %d annual and %d monthly rows for station %s",
		len(result.Annual), len(result.Monthly), result.Name)
	return nil
}

// Close closes the archive database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// nullable maps NaN statistics to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
