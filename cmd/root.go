package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpcsnoop/rpcsnoop/internal/di"
	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
)

const suppressHelp = `
LINES=n specifies the degree of suppression:
    n < 0 Ignore message completely and log nothing [default]
    n = 0 Log that message occurred, but don't print any JSON
    n > 0 Log at most n lines of JSON
TYPE is one of:
    REQUEST:  Suppress request log
    RESPONSE: Suppress response log
    ALL:      Suppress both logs [default]`

var (
	// Container is the dependency injection container
	Container *di.Container

	// ConfigPath is the path to the configuration file
	ConfigPath string

	// LogLevel is the logging level
	LogLevel string

	// Root command flags
	bindAddress      string
	port             int
	logHeaders       bool
	noColor          bool
	suppressMethods  []string
	suppressPaths    []string
	dropRequestRate  int
	dropResponseRate int
	dropDelay        float64
	fixGethAttach    bool
	overrideModules  []string

	// RootCmd is the root command for CLI
	RootCmd = &cobra.Command{
		Use:   "rpcsnoop [flags] RPC_ENDPOINT",
		Short: "JSON-RPC snooping proxy",
		Long: `Proxies an HTTP JSON-RPC endpoint and dumps requests and responses
to the terminal, with configurable suppression of noisy traffic and
random packet dropping for chaos testing.` + suppressHelp,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Container = di.NewContainer()

			if err := Container.Initialize(ConfigPath); err != nil {
				return err
			}

			// Set log level after container initialization
			if cmd.Flags().Changed("log-level") {
				Container.Config.LogLevel = model.LogLevel(LogLevel)
				Container.Logger.SetLevel(LogLevel)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if Container != nil {
				Container.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			Container.Config.Destination = args[0]
			if err := applyFlags(cmd, Container.Config); err != nil {
				return err
			}
			if err := Container.BuildProxy(); err != nil {
				return err
			}

			Container.Logger.Info("forwarding requests to %s", Container.Config.Destination)
			return Container.Server.Start()
		},
	}
)

// applyFlags overrides configuration with command-line values. Only
// flags that were explicitly set override the configuration file.
func applyFlags(cmd *cobra.Command, config *model.Config) error {
	flags := cmd.Flags()

	if flags.Changed("bind-address") {
		config.BindAddress = bindAddress
	}
	if flags.Changed("port") {
		config.Port = port
	}
	if flags.Changed("log-headers") {
		config.LogHeaders = logHeaders
	}
	if flags.Changed("no-color") {
		config.NoColor = noColor
	}
	if flags.Changed("drop-request-rate") {
		if dropRequestRate < 0 || dropRequestRate > 100 {
			return fmt.Errorf("drop-request-rate must be in 0..100, got %d", dropRequestRate)
		}
		config.DropRequestRate = float64(dropRequestRate) / 100
	}
	if flags.Changed("drop-response-rate") {
		if dropResponseRate < 0 || dropResponseRate > 100 {
			return fmt.Errorf("drop-response-rate must be in 0..100, got %d", dropResponseRate)
		}
		config.DropResponseRate = float64(dropResponseRate) / 100
	}
	if flags.Changed("drop-delay") {
		config.DropDelay = time.Duration(dropDelay * float64(time.Second))
	}

	if len(suppressMethods) > 0 {
		table, err := model.ParseSuppressTable(suppressMethods)
		if err != nil {
			return err
		}
		config.SuppressMethods = table
	}
	if len(suppressPaths) > 0 {
		table, err := model.ParseSuppressTable(suppressPaths)
		if err != nil {
			return err
		}
		config.SuppressPaths = table
	}

	if len(overrideModules) > 0 && !fixGethAttach {
		return fmt.Errorf("--rpc-modules-override requires --fix-geth-attach")
	}
	if fixGethAttach {
		if len(overrideModules) > 0 {
			config.OverrideModules = overrideModules
		} else {
			config.OverrideModules = model.DefaultOverrideModules
		}
	}

	return nil
}

// Execute runs the root command
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "Path to configuration file (default: ~/.rpcsnoop/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Set logging level (debug, info, warn, error)")

	// Proxy flags
	RootCmd.Flags().StringVarP(&bindAddress, "bind-address", "b", "127.0.0.1", "Address to bind to and listen for incoming requests")
	RootCmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to listen for incoming requests")
	RootCmd.Flags().BoolVarP(&logHeaders, "log-headers", "l", false, "Print the headers in addition to request/response")
	RootCmd.Flags().BoolVarP(&noColor, "no-color", "n", false, "Do not use terminal colors in output")
	RootCmd.Flags().StringArrayVarP(&suppressMethods, "suppress-method", "s", nil, "Suppress output of JSON RPC calls of this METHOD[:LINES][:TYPE] (can specify more than once)")
	RootCmd.Flags().StringArrayVarP(&suppressPaths, "suppress-path", "S", nil, "Suppress output of requests to the endpoint with this PATH[:LINES][:TYPE] (can specify more than once)")
	RootCmd.Flags().IntVar(&dropRequestRate, "drop-request-rate", 0, "Odds of randomly dropping a request for chaos testing [0..100]")
	RootCmd.Flags().IntVar(&dropResponseRate, "drop-response-rate", 0, "Odds of randomly dropping a response for chaos testing [0..100]")
	RootCmd.Flags().Float64Var(&dropDelay, "drop-delay", model.DefaultDropDelay.Seconds(), "Delay in seconds before failing a dropped exchange")
	RootCmd.Flags().BoolVarP(&fixGethAttach, "fix-geth-attach", "f", false, "Override the results of the rpc_modules method (useful for attaching a geth console to endpoints that don't support it)")
	RootCmd.Flags().StringArrayVarP(&overrideModules, "rpc-modules-override", "r", nil, "Module list to return from the rpc_modules method, requires --fix-geth-attach (default [eth,net,web3])")
}
