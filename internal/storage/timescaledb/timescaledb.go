// Package timescaledb implements a Postgres/TimescaleDB storage
// backend that archives per-station metric rows through GORM.
package timescaledb

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Environmental-Informatics/streamflow-metrics/internal/log"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/metrics"
)

const createAnnualTableSQL = `
CREATE TABLE IF NOT EXISTS annual_metrics (
    run_id      text NOT NULL,
    station     text NOT NULL,
    site_no     text NOT NULL,
    water_year  date NOT NULL,
    mean_flow   float8 NULL,
    peak_flow   float8 NULL,
    median_flow float8 NULL,
    coeff_var   float8 NULL,
    skew        float8 NULL,
    tqmean      float8 NULL,
    rb_index    float8 NULL,
    seven_q     float8 NULL,
    exceed_3x_median float8 NULL
);`

const createMonthlyTableSQL = `
CREATE TABLE IF NOT EXISTS monthly_metrics (
    run_id    text NOT NULL,
    station   text NOT NULL,
    site_no   text NOT NULL,
    month     date NOT NULL,
    mean_flow float8 NULL,
    coeff_var float8 NULL,
    tqmean    float8 NULL,
    rb_index  float8 NULL
);`

// AnnualMetric is the GORM model for one archived annual row.
type AnnualMetric struct {
	RunID          string    `gorm:"column:run_id"`
	Station        string    `gorm:"column:station"`
	SiteNo         string    `gorm:"column:site_no"`
	WaterYear      time.Time `gorm:"column:water_year"`
	MeanFlow       *float64  `gorm:"column:mean_flow"`
	PeakFlow       *float64  `gorm:"column:peak_flow"`
	MedianFlow     *float64  `gorm:"column:median_flow"`
	CoeffVar       *float64  `gorm:"column:coeff_var"`
	Skew           *float64  `gorm:"column:skew"`
	Tqmean         *float64  `gorm:"column:tqmean"`
	RBIndex        *float64  `gorm:"column:rb_index"`
	SevenQ         *float64  `gorm:"column:seven_q"`
	Exceed3xMedian *float64  `gorm:"column:exceed_3x_median"`
}

// TableName customizes the table name used by GORM
func (AnnualMetric) TableName() string {
	return "annual_metrics"
}

// MonthlyMetric is the GORM model for one archived monthly row.
type MonthlyMetric struct {
	RunID    string    `gorm:"column:run_id"`
	Station  string    `gorm:"column:station"`
	SiteNo   string    `gorm:"column:site_no"`
	Month    time.Time `gorm:"column:month"`
	MeanFlow *float64  `gorm:"column:mean_flow"`
	CoeffVar *float64  `gorm:"column:coeff_var"`
	Tqmean   *float64  `gorm:"column:tqmean"`
	RBIndex  *float64  `gorm:"column:rb_index"`
}

// TableName customizes the table name used by GORM
func (MonthlyMetric) TableName() string {
	return "monthly_metrics"
}

// Storage holds the connection to a TimescaleDB archive database
type Storage struct {
	conn  *gorm.DB
	runID string
}

// New sets up a new TimescaleDB storage backend
func New(ctx context.Context, connectionString, runID string) (*Storage, error) {
	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	log.Info("connecting to TimescaleDB...")
	conn, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to create a TimescaleDB connection:", err)
		return nil, err
	}

	t := &Storage{conn: conn, runID: runID}

	// Create the database tables
	log.Info("creating database tables...")
	if err := conn.WithContext(ctx).Exec(createAnnualTableSQL).Error; err != nil {
		log.Warn("warning: could not create annual metrics table in database")
		return nil, err
	}
	if err := conn.WithContext(ctx).Exec(createMonthlyTableSQL).Error; err != nil {
		log.Warn("warning: could not create monthly metrics table in database")
		return nil, err
	}

	return t, nil
}

// StoreStation archives one station's annual and monthly rows.
func (t *Storage) StoreStation(ctx context.Context, result *metrics.StationResult) error {
	annual := make([]AnnualMetric, 0, len(result.Annual))
	for _, r := range result.Annual {
		annual = append(annual, AnnualMetric{
			RunID:          t.runID,
			Station:        result.Name,
			SiteNo:         r.SiteID,
			WaterYear:      r.WaterYear,
			MeanFlow:       fptr(r.MeanFlow),
			PeakFlow:       fptr(r.PeakFlow),
			MedianFlow:     fptr(r.MedianFlow),
			CoeffVar:       fptr(r.CoeffVar),
			Skew:           fptr(r.Skew),
			Tqmean:         fptr(r.Tqmean),
			RBIndex:        fptr(r.RBIndex),
			SevenQ:         fptr(r.SevenQ),
			Exceed3xMedian: fptr(r.ExceedThreeMedian),
		})
	}
	if len(annual) > 0 {
		if err := t.conn.WithContext(ctx).Create(&annual).Error; err != nil {
			log.Error("could not store annual metrics:", err)
			return err
		}
	}

	monthly := make([]MonthlyMetric, 0, len(result.Monthly))
	for _, r := range result.Monthly {
		monthly = append(monthly, MonthlyMetric{
			RunID:    t.runID,
			Station:  result.Name,
			SiteNo:   r.SiteID,
			Month:    r.Month,
			MeanFlow: fptr(r.MeanFlow),
			CoeffVar: fptr(r.CoeffVar),
			Tqmean:   fptr(r.Tqmean),
			RBIndex:  fptr(r.RBIndex),
		})
	}
	if len(monthly) > 0 {
		if err := t.conn.WithContext(ctx).Create(&monthly).Error; err != nil {
			log.Error("could not store monthly metrics:", err)
			return err
		}
	}

	return nil
}

// Close closes the underlying database connection.
func (t *Storage) Close() error {
	sqlDB, err := t.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// fptr maps NaN statistics to SQL NULL via a nil pointer.
func fptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
