package model

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// LogLevel defines logging levels for the operational logger
type LogLevel string

const (
	// LogLevelDebug is the level for debug messages
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the level for informational messages
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is the level for warning messages
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is the level for error messages
	LogLevelError LogLevel = "error"
)

// DefaultDropDelay is the delay injected before failing a dropped exchange
const DefaultDropDelay = 12 * time.Second

// DefaultOverrideModules is the module list served by the rpc_modules
// override when none is configured explicitly
var DefaultOverrideModules = []string{"eth", "net", "web3"}

// Config is the immutable startup configuration shared by all handlers
type Config struct {
	// BindAddress is the address to listen on for incoming requests
	BindAddress string
	// Port is the port to listen on for incoming requests
	Port int
	// Destination is the JSON-RPC endpoint incoming requests are forwarded to
	Destination string
	// LogHeaders enables printing headers in addition to request/response bodies
	LogHeaders bool
	// NoColor disables terminal colors in output
	NoColor bool
	// SuppressMethods maps JSON-RPC method names to suppression rules
	SuppressMethods SuppressTable
	// SuppressPaths maps request paths to suppression rules
	SuppressPaths SuppressTable
	// DropRequestRate is the probability in [0,1] of dropping a request
	DropRequestRate float64
	// DropResponseRate is the probability in [0,1] of dropping a response
	DropResponseRate float64
	// DropDelay is how long a dropped exchange is suspended before failing
	DropDelay time.Duration
	// OverrideModules is the module list for the rpc_modules override
	// (nil disables the override)
	OverrideModules []string
	// LogLevel is the operational logging level (debug, info, warn, error)
	LogLevel LogLevel
	// LogFile is the path to the operational log file (empty for stderr)
	LogFile string
}

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	return &Config{
		BindAddress: "127.0.0.1",
		Port:        3000,
		DropDelay:   DefaultDropDelay,
		LogLevel:    LogLevelWarn,
	}
}

// DestinationURL parses and validates the configured destination endpoint
func (c *Config) DestinationURL() (*url.URL, error) {
	if c.Destination == "" {
		return nil, fmt.Errorf("no destination endpoint configured")
	}
	u, err := url.Parse(c.Destination)
	if err != nil {
		return nil, fmt.Errorf("invalid destination endpoint %q: %v", c.Destination, err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("invalid destination endpoint %q: scheme must be http, https, ws or wss", c.Destination)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid destination endpoint %q: missing host", c.Destination)
	}
	return u, nil
}

// Validate checks that the configuration is internally consistent
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.DropRequestRate < 0 || c.DropRequestRate > 1 {
		return fmt.Errorf("drop request rate must be in [0,1], got %v", c.DropRequestRate)
	}
	if c.DropResponseRate < 0 || c.DropResponseRate > 1 {
		return fmt.Errorf("drop response rate must be in [0,1], got %v", c.DropResponseRate)
	}
	if c.DropDelay < 0 {
		return fmt.Errorf("drop delay must not be negative, got %v", c.DropDelay)
	}
	if _, err := c.DestinationURL(); err != nil {
		return err
	}
	return nil
}

// ListenAddress returns the bind address and port as a host:port string
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}

// GetConfigFilePath returns the path to the configuration file
func (c *Config) GetConfigFilePath() string {
	configDir := "/etc/rpcsnoop"

	// If not root, use home directory
	if os.Getuid() != 0 {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			configDir = filepath.Join(homeDir, ".rpcsnoop")
		}
	}

	return filepath.Join(configDir, "config.yaml")
}
