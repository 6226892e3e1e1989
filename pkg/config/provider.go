// Package config loads streamflow-metrics configuration from YAML files
// or SQLite databases through a common provider interface.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetStations() ([]StationData, error)
	GetStorageConfig() (*StorageData, error)

	// Configuration management
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Stations []StationData `json:"stations"`
	Storage  StorageData   `json:"storage,omitempty"`
}

// StationData names one gaging station's daily-discharge input file and
// the inclusive date range its record is clipped to before statistics
// are computed.
type StationData struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	ClipStart string `json:"clip_start,omitempty"`
	ClipEnd   string `json:"clip_end,omitempty"`
}

// StorageData holds the configuration for the result storage backends.
// Files is the flat-table output the tool always produces; the SQLite
// and TimescaleDB archives are optional.
type StorageData struct {
	Files       *FileStoreData   `json:"files,omitempty"`
	SQLite      *SQLiteStoreData `json:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

// FileStoreData holds the paths of the four output tables.
type FileStoreData struct {
	AnnualMetrics   string `json:"annual_metrics"`
	MonthlyMetrics  string `json:"monthly_metrics"`
	AnnualAverages  string `json:"annual_averages"`
	MonthlyAverages string `json:"monthly_averages"`
}

// SQLiteStoreData holds configuration for the SQLite results archive.
type SQLiteStoreData struct {
	Path string `json:"path"`
}

// TimescaleDBData holds configuration for the TimescaleDB results archive.
type TimescaleDBData struct {
	ConnectionString string `json:"connection-string"`
}

// Default returns the stock configuration: the two Indiana gaging
// stations the tool was originally built around, clipped to the fifty
// water years ending 2019-09-30, writing the four standard tables to
// the working directory.
func Default() *ConfigData {
	return &ConfigData{
		Stations: []StationData{
			{
				Name:      "Wildcat",
				File:      "WildcatCreek_Discharge_03335000_19540601-20200315.txt",
				ClipStart: "1969-10-01",
				ClipEnd:   "2019-09-30",
			},
			{
				Name:      "Tippe",
				File:      "TippecanoeRiver_Discharge_03331500_19431001-20200315.txt",
				ClipStart: "1969-10-01",
				ClipEnd:   "2019-09-30",
			},
		},
		Storage: StorageData{
			Files: &FileStoreData{
				AnnualMetrics:   "Annual_Metrics.csv",
				MonthlyMetrics:  "Monthly_Metrics.csv",
				AnnualAverages:  "Averaged_Annual_Metrics.txt",
				MonthlyAverages: "Averaged_Monthly_Metrics.txt",
			},
		},
	}
}
