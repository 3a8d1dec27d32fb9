// Package cmd provides the command-line interface for Peaque with comprehensive
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. PEAQUE_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (PEAQUE_SERVER_PORT, etc.)
//	4. Configuration files (peaque.config.yaml) - lowest priority
//
// Environment Variables:
//
//	PEAQUE_CONFIG_FILE: Path to custom configuration file
//	PEAQUE_SERVER_PORT: Override server port
//	PEAQUE_SERVER_HOST: Override server host
//	PEAQUE_DEVELOPMENT_HOT_RELOAD: Enable/disable hot reload
//	And many more following the PEAQUE_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "peaque",
	Short: "A full-stack web framework CLI for file-system routed apps",
	Long: `Peaque builds and serves applications routed from src/pages and src/api,
with hot module reload in development and a single-process bundle in production.

Key Features:
  • File-system routing for pages and API handlers
  • Hot reload development server with WebSocket-driven HMR
  • Production build orchestration and asset bundling
  • Server actions dispatched over the API tree
  • CSRF-guarded mutating requests

Quick Start:
  peaque init                    Initialize a new project
  peaque dev                     Start development server
  peaque build                   Build for production
  peaque start                   Run a built production bundle

Documentation: https://github.com/conneroisu/peaque`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is peaque.config.yaml, can also use PEAQUE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system with support for multiple config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. PEAQUE_CONFIG_FILE environment variable: Custom config file path
//  3. Default: peaque.config.yaml in current directory
//
// Environment Variable Usage:
//
//	export PEAQUE_CONFIG_FILE=/path/to/custom-config.yml
//	peaque dev  # Uses custom-config.yml
//
//	export PEAQUE_CONFIG_FILE=./configs/dev.yml
//	peaque dev --config prod.yml  # Uses prod.yml (flag overrides env var)
//
// The function also enables automatic environment variable binding for all
// configuration values with the PEAQUE_ prefix (e.g., PEAQUE_SERVER_PORT=8080).
func initConfig() {
	// Priority 1: Use config file specified via --config flag (highest priority)
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PEAQUE_CONFIG_FILE"); envConfigFile != "" {
		// Priority 2: Use config file specified via PEAQUE_CONFIG_FILE environment variable
		// This allows users to set a project-specific config without modifying command line
		// Supports both relative paths (./custom-config.yml) and absolute paths
		viper.SetConfigFile(envConfigFile)
	} else {
		// Priority 3: Search for default peaque.config.yaml in current directory (lowest priority)
		// This maintains backward compatibility with existing projects
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("peaque.config")
	}

	// Enable automatic environment variable binding with PEAQUE_ prefix
	// Examples: PEAQUE_SERVER_PORT, PEAQUE_SERVER_HOST, PEAQUE_DEVELOPMENT_HOT_RELOAD
	viper.SetEnvPrefix("PEAQUE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Attempt to read the configuration file
	// If file doesn't exist or has errors, Viper will use defaults without failing
	// This ensures graceful degradation when config files are missing or malformed
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
