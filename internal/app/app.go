// Package app wires the streamflow-metrics pipeline together: it loads
// the station configuration, builds the storage backends, and runs each
// station through load, clip, statistics, and storage in sequence.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Environmental-Informatics/streamflow-metrics/internal/log"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/metrics"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/storage"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/storage/filestore"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/storage/sqlitestore"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/storage/timescaledb"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/timeseries"
	"github.com/Environmental-Informatics/streamflow-metrics/pkg/config"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run processes every configured station and blocks until done. A
// station whose input cannot be read or clipped is logged and skipped;
// a storage failure aborts the run, since a broken output table would
// corrupt every following station's rows.
func (a *App) Run(ctx context.Context) error {
	cfgData, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if len(cfgData.Stations) == 0 {
		return errors.New("no stations configured")
	}

	runID := uuid.New().String()
	log.Infof("starting metrics run %s for %d station(s)", runID, len(cfgData.Stations))

	engines, err := buildStorageEngines(ctx, &cfgData.Storage, runID)
	if err != nil {
		return err
	}
	defer func() {
		for _, e := range engines {
			if err := e.Close(); err != nil {
				log.Errorf("error closing storage engine: %v", err)
			}
		}
	}()

	failed := 0
	for _, station := range cfgData.Stations {
		result, err := ProcessStation(station)
		if err != nil {
			log.Errorf("station %s failed: %v", station.Name, err)
			failed++
			continue
		}
		log.Debugf("station %s: %d observation days, %d missing",
			result.Name, result.ObservationDays, result.MissingValues)
		for _, e := range engines {
			if err := e.StoreStation(ctx, result); err != nil {
				return fmt.Errorf("error storing results for station %s: %w", station.Name, err)
			}
		}
	}

	if failed == len(cfgData.Stations) {
		return errors.New("all stations failed")
	}
	log.Infof("metrics run %s complete (%d station(s) failed)", runID, failed)
	return nil
}

// buildStorageEngines instantiates every configured storage backend.
// The flat-file tables are always produced; when no file storage is
// configured the default paths are used.
func buildStorageEngines(ctx context.Context, c *config.StorageData, runID string) ([]storage.Engine, error) {
	var engines []storage.Engine

	fileCfg := c.Files
	if fileCfg == nil {
		fileCfg = config.Default().Storage.Files
	}
	files, err := filestore.New(fileCfg)
	if err != nil {
		return nil, err
	}
	engines = append(engines, files)

	if c.SQLite != nil {
		archive, err := sqlitestore.New(c.SQLite.Path, runID)
		if err != nil {
			files.Close()
			return nil, err
		}
		engines = append(engines, archive)
	}

	if c.TimescaleDB != nil {
		tsdb, err := timescaledb.New(ctx, c.TimescaleDB.ConnectionString, runID)
		if err != nil {
			for _, e := range engines {
				e.Close()
			}
			return nil, err
		}
		engines = append(engines, tsdb)
	}

	return engines, nil
}

// ProcessStation runs the full statistics pipeline for one station:
// read the daily record, clip it to the configured period, and build
// the annual and monthly tables with their long-run averages.
func ProcessStation(station config.StationData) (*metrics.StationResult, error) {
	series, missing, err := timeseries.ReadFile(station.File)
	if err != nil {
		return nil, err
	}
	log.Infof("station %s: read %d observations from %s (%d missing)",
		station.Name, series.Len(), station.File, missing)

	if station.ClipStart != "" || station.ClipEnd != "" {
		series, missing, err = timeseries.ClipDates(series, station.ClipStart, station.ClipEnd)
		if err != nil {
			return nil, err
		}
		log.Infof("station %s: clipped to %s..%s, %d observations remain (%d missing)",
			station.Name, station.ClipStart, station.ClipEnd, series.Len(), missing)
	}

	annual := metrics.BuildAnnual(series)
	monthly := metrics.BuildMonthly(series)
	log.Infof("station %s: %d water years, %d months", station.Name, len(annual), len(monthly))

	return &metrics.StationResult{
		Name:            station.Name,
		SiteID:          series.SiteID,
		Annual:          annual,
		Monthly:         monthly,
		AnnualAverage:   metrics.AverageAnnual(annual),
		MonthlyAverage:  metrics.AverageMonthly(monthly),
		MissingValues:   missing,
		ObservationDays: series.Len(),
	}, nil
}
