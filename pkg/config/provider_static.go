package config

// StaticProvider implements ConfigProvider around an in-memory
// ConfigData. It backs the zero-argument invocation, where the stock
// station set is used without any configuration file on disk.
type StaticProvider struct {
	config *ConfigData
}

// NewStaticProvider creates a provider that always returns data
func NewStaticProvider(data *ConfigData) *StaticProvider {
	return &StaticProvider{config: data}
}

// LoadConfig returns the wrapped configuration
func (p *StaticProvider) LoadConfig() (*ConfigData, error) {
	return p.config, nil
}

// GetStations returns the station configurations
func (p *StaticProvider) GetStations() ([]StationData, error) {
	return p.config.Stations, nil
}

// GetStorageConfig returns the storage configuration
func (p *StaticProvider) GetStorageConfig() (*StorageData, error) {
	return &p.config.Storage, nil
}

// IsReadOnly returns true; static configurations never change
func (p *StaticProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for static providers
func (p *StaticProvider) Close() error {
	return nil
}
