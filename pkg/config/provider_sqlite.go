package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	// Load stations
	stations, err := s.GetStations()
	if err != nil {
		return nil, fmt.Errorf("failed to load stations: %w", err)
	}
	config.Stations = stations

	// Load storage
	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	return config, nil
}

// GetStations loads the station list from the stations table
func (s *SQLiteProvider) GetStations() ([]StationData, error) {
	rows, err := s.db.Query(`
		SELECT name, file, COALESCE(clip_start, ''), COALESCE(clip_end, '')
		FROM stations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []StationData
	for rows.Next() {
		var station StationData
		if err := rows.Scan(&station.Name, &station.File, &station.ClipStart, &station.ClipEnd); err != nil {
			return nil, fmt.Errorf("failed to scan station row: %w", err)
		}
		stations = append(stations, station)
	}
	return stations, rows.Err()
}

// GetStorageConfig loads the storage backend configuration. Each
// backend lives in its own single-row table; an absent row means the
// backend is not configured.
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	storage := &StorageData{}

	files := &FileStoreData{}
	err := s.db.QueryRow(`
		SELECT annual_metrics, monthly_metrics, annual_averages, monthly_averages
		FROM storage_files LIMIT 1`).
		Scan(&files.AnnualMetrics, &files.MonthlyMetrics, &files.AnnualAverages, &files.MonthlyAverages)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to load file storage config: %w", err)
	default:
		storage.Files = files
	}

	sqliteStore := &SQLiteStoreData{}
	err = s.db.QueryRow(`SELECT path FROM storage_sqlite LIMIT 1`).Scan(&sqliteStore.Path)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to load sqlite storage config: %w", err)
	default:
		storage.SQLite = sqliteStore
	}

	timescale := &TimescaleDBData{}
	err = s.db.QueryRow(`SELECT connection_string FROM storage_timescaledb LIMIT 1`).Scan(&timescale.ConnectionString)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to load timescaledb storage config: %w", err)
	default:
		storage.TimescaleDB = timescale
	}

	return storage, nil
}

// IsReadOnly returns false; SQLite configurations can be edited in place
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
