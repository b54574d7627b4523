package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// configCmd is the command to manage configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage rpcsnoop configuration.`,
}

// configShowCmd is the command to display configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration",
	Long:  `Display the resolved rpcsnoop configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := Container.Config

		fmt.Println("rpcsnoop configuration:")
		fmt.Printf("Bind Address: %s\n", config.BindAddress)
		fmt.Printf("Port: %d\n", config.Port)
		fmt.Printf("Destination: %s\n", config.Destination)
		fmt.Printf("Log Headers: %t\n", config.LogHeaders)
		fmt.Printf("No Color: %t\n", config.NoColor)
		fmt.Printf("Drop Request Rate: %d%%\n", int(config.DropRequestRate*100))
		fmt.Printf("Drop Response Rate: %d%%\n", int(config.DropResponseRate*100))
		fmt.Printf("Drop Delay: %s\n", config.DropDelay)
		fmt.Printf("Log Level: %s\n", config.LogLevel)
		fmt.Printf("Log File: %s\n", config.LogFile)

		if len(config.OverrideModules) > 0 {
			fmt.Printf("RPC Modules Override: %s\n", strings.Join(config.OverrideModules, ","))
		}
		if len(config.SuppressMethods) > 0 {
			fmt.Println("\nSuppressed methods:")
			for method, rule := range config.SuppressMethods {
				fmt.Printf("  %s: %d lines (%s)\n", method, rule.Lines, rule.Scope)
			}
		}
		if len(config.SuppressPaths) > 0 {
			fmt.Println("\nSuppressed paths:")
			for path, rule := range config.SuppressPaths {
				fmt.Printf("  %s: %d lines (%s)\n", path, rule.Lines, rule.Scope)
			}
		}
	},
}

// configInitCmd is the command to write a default configuration file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Write a configuration file with default values to the configured path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Container.ConfigService.SaveConfig(Container.Config, ConfigPath); err != nil {
			return err
		}
		fmt.Println("Configuration written")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
