package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
	"github.com/rpcsnoop/rpcsnoop/internal/domain/port"
)

// ConfigRepository is an implementation of port.ConfigRepository backed
// by a YAML file. Drop rates are stored as integer percentages to match
// the command-line surface.
type ConfigRepository struct{}

// NewConfigRepository creates a new ConfigRepository instance
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// Load loads configuration from file. A missing file yields defaults.
func (r *ConfigRepository) Load(configPath string) (*model.Config, error) {
	config := model.NewConfig()

	// If configPath is empty, look in the default location
	if configPath == "" {
		var err error
		configPath, err = r.GetDefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	if viper.IsSet("bind_address") {
		config.BindAddress = viper.GetString("bind_address")
	}
	if viper.IsSet("port") {
		config.Port = viper.GetInt("port")
	}
	if viper.IsSet("destination") {
		config.Destination = viper.GetString("destination")
	}
	if viper.IsSet("log_headers") {
		config.LogHeaders = viper.GetBool("log_headers")
	}
	if viper.IsSet("no_color") {
		config.NoColor = viper.GetBool("no_color")
	}
	if viper.IsSet("drop_request_rate") {
		rate, err := percentToRate(viper.GetInt("drop_request_rate"))
		if err != nil {
			return nil, fmt.Errorf("drop_request_rate: %v", err)
		}
		config.DropRequestRate = rate
	}
	if viper.IsSet("drop_response_rate") {
		rate, err := percentToRate(viper.GetInt("drop_response_rate"))
		if err != nil {
			return nil, fmt.Errorf("drop_response_rate: %v", err)
		}
		config.DropResponseRate = rate
	}
	if viper.IsSet("drop_delay") {
		config.DropDelay = time.Duration(viper.GetFloat64("drop_delay") * float64(time.Second))
	}
	if viper.IsSet("rpc_modules_override") {
		config.OverrideModules = viper.GetStringSlice("rpc_modules_override")
	}
	if viper.IsSet("log_level") {
		config.LogLevel = model.LogLevel(viper.GetString("log_level"))
	}
	if viper.IsSet("log_file") {
		config.LogFile = viper.GetString("log_file")
	}

	var err error
	config.SuppressMethods, err = loadSuppressTable("suppress_methods")
	if err != nil {
		return nil, err
	}
	config.SuppressPaths, err = loadSuppressTable("suppress_paths")
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to file
func (r *ConfigRepository) Save(config *model.Config, configPath string) error {
	// If configPath is empty, use default location
	if configPath == "" {
		var err error
		configPath, err = r.GetDefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %v", err)
	}

	viper.SetConfigFile(configPath)

	viper.Set("bind_address", config.BindAddress)
	viper.Set("port", config.Port)
	viper.Set("destination", config.Destination)
	viper.Set("log_headers", config.LogHeaders)
	viper.Set("no_color", config.NoColor)
	viper.Set("drop_request_rate", int(config.DropRequestRate*100))
	viper.Set("drop_response_rate", int(config.DropResponseRate*100))
	viper.Set("drop_delay", config.DropDelay.Seconds())
	viper.Set("rpc_modules_override", config.OverrideModules)
	viper.Set("log_level", string(config.LogLevel))
	viper.Set("log_file", config.LogFile)
	viper.Set("suppress_methods", formatSuppressTable(config.SuppressMethods))
	viper.Set("suppress_paths", formatSuppressTable(config.SuppressPaths))

	if err := viper.WriteConfig(); err != nil {
		// If file doesn't exist, create new one
		if strings.Contains(err.Error(), "no such file") {
			return viper.SafeWriteConfig()
		}
		return fmt.Errorf("error saving configuration: %v", err)
	}

	return nil
}

// GetDefaultPath returns the default path for configuration file
func (r *ConfigRepository) GetDefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %v", err)
	}

	return filepath.Join(homeDir, ".rpcsnoop", "config.yaml"), nil
}

// loadSuppressTable parses a list of VALUE[:LINES][:TYPE] entries from
// the loaded configuration
func loadSuppressTable(key string) (model.SuppressTable, error) {
	if !viper.IsSet(key) {
		return nil, nil
	}
	table, err := model.ParseSuppressTable(viper.GetStringSlice(key))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", key, err)
	}
	return table, nil
}

// formatSuppressTable renders a table back into the flag grammar
func formatSuppressTable(table model.SuppressTable) []string {
	if len(table) == 0 {
		return nil
	}
	values := make([]string, 0, len(table))
	for name, rule := range table {
		values = append(values, fmt.Sprintf("%s:%d:%s", name, rule.Lines, rule.Scope))
	}
	return values
}

// percentToRate converts an integer percentage to a probability
func percentToRate(percent int) (float64, error) {
	if percent < 0 || percent > 100 {
		return 0, fmt.Errorf("must be in 0..100, got %d", percent)
	}
	return float64(percent) / 100, nil
}

// Ensure ConfigRepository implements port.ConfigRepository
var _ port.ConfigRepository = (*ConfigRepository)(nil)
