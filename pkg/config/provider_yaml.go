package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// yamlConfig mirrors ConfigData with YAML tags
type yamlConfig struct {
	Stations []struct {
		Name      string `yaml:"name"`
		File      string `yaml:"file"`
		ClipStart string `yaml:"clip-start"`
		ClipEnd   string `yaml:"clip-end"`
	} `yaml:"stations"`
	Storage struct {
		Files *struct {
			AnnualMetrics   string `yaml:"annual-metrics"`
			MonthlyMetrics  string `yaml:"monthly-metrics"`
			AnnualAverages  string `yaml:"annual-averages"`
			MonthlyAverages string `yaml:"monthly-averages"`
		} `yaml:"files"`
		SQLite *struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		TimescaleDB *struct {
			ConnectionString string `yaml:"connection-string"`
		} `yaml:"timescaledb"`
	} `yaml:"storage"`
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(cfgFile, &raw); err != nil {
		return nil, err
	}

	config := &ConfigData{}

	// Convert stations
	config.Stations = make([]StationData, len(raw.Stations))
	for i, station := range raw.Stations {
		config.Stations[i] = StationData{
			Name:      station.Name,
			File:      station.File,
			ClipStart: station.ClipStart,
			ClipEnd:   station.ClipEnd,
		}
	}

	// Convert storage
	config.Storage = StorageData{}
	if raw.Storage.Files != nil {
		config.Storage.Files = &FileStoreData{
			AnnualMetrics:   raw.Storage.Files.AnnualMetrics,
			MonthlyMetrics:  raw.Storage.Files.MonthlyMetrics,
			AnnualAverages:  raw.Storage.Files.AnnualAverages,
			MonthlyAverages: raw.Storage.Files.MonthlyAverages,
		}
	}
	if raw.Storage.SQLite != nil {
		config.Storage.SQLite = &SQLiteStoreData{
			Path: raw.Storage.SQLite.Path,
		}
	}
	if raw.Storage.TimescaleDB != nil {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: raw.Storage.TimescaleDB.ConnectionString,
		}
	}

	y.config = config
	return config, nil
}

// GetStations returns the station configurations
func (y *YAMLProvider) GetStations() ([]StationData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config.Stations, nil
}

// GetStorageConfig returns the storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// IsReadOnly returns true; YAML configurations are not editable in place
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}
