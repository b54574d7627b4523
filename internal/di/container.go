package di

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand"
	"os"

	"github.com/rpcsnoop/rpcsnoop/internal/application/service"
	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
	domain "github.com/rpcsnoop/rpcsnoop/internal/domain/service"
	"github.com/rpcsnoop/rpcsnoop/internal/infrastructure/config"
	"github.com/rpcsnoop/rpcsnoop/internal/infrastructure/logger"
	"github.com/rpcsnoop/rpcsnoop/internal/infrastructure/render"
	"github.com/rpcsnoop/rpcsnoop/internal/infrastructure/transport"
)

// Container is a container for dependency injection
type Container struct {
	// Logger
	Logger *logger.Logger

	// Repositories
	ConfigRepository *config.ConfigRepository

	// Services
	ConfigService *service.ConfigService
	ProxyService  *service.ProxyService

	// Server
	Server *transport.Server

	// Config
	Config *model.Config
}

// NewContainer creates a new Container instance
func NewContainer() *Container {
	return &Container{}
}

// Initialize loads configuration and prepares the logger
func (c *Container) Initialize(configPath string) error {
	c.Logger = logger.NewLogger(os.Stderr, "info")

	c.ConfigRepository = config.NewConfigRepository()
	c.ConfigService = service.NewConfigService(c.ConfigRepository, c.Logger)

	var err error
	c.Config, err = c.ConfigService.LoadConfig(configPath)
	if err != nil {
		return err
	}

	c.Logger.SetLevel(string(c.Config.LogLevel))

	// If a log file is configured, operational logs move there
	if c.Config.LogFile != "" {
		fileLogger, err := logger.NewFileLogger(c.Config.LogFile, string(c.Config.LogLevel))
		if err != nil {
			c.Logger.Error("Failed to create file logger: %v", err)
		} else {
			c.Logger = fileLogger
		}
	}

	return nil
}

// BuildProxy validates the final configuration and wires the proxy
// pipeline. Called after command-line overrides have been applied.
func (c *Container) BuildProxy() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	dest, err := c.Config.DestinationURL()
	if err != nil {
		return err
	}

	rng, err := newSeededRand()
	if err != nil {
		return fmt.Errorf("unable to initialize random number generator: %v", err)
	}

	chaos := domain.NewChaosGate(rng, c.Config.DropRequestRate, c.Config.DropResponseRate, c.Config.DropDelay)
	suppression := domain.NewSuppressionEngine(c.Config.SuppressMethods, c.Config.SuppressPaths, c.Logger)
	override := domain.NewModulesOverride(c.Config.OverrideModules)

	palette := render.NewPalette(c.Config.NoColor)
	presenter := render.NewPresenter(os.Stdout, palette, c.Config.LogHeaders)

	forwarder := transport.NewForwarder(dest)
	upstream := transport.NewUpstream(c.Logger)

	c.ProxyService = service.NewProxyService(forwarder, upstream, chaos, suppression, override, presenter, c.Logger)
	c.Server = transport.NewServer(c.Config.ListenAddress(), c.ProxyService, c.Logger)

	return nil
}

// Close closes all resources
func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

// newSeededRand seeds the shared generator from OS entropy
func newSeededRand() (*mathrand.Rand, error) {
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	return mathrand.New(mathrand.NewSource(int64(binary.LittleEndian.Uint64(seed[:])))), nil
}
