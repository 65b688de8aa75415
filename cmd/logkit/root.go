package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arawlin/logkit/pkg/logger"
)

var globalConfigFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "logkit",
	Short: "logkit - structured logging with daily rotation",
	Long: `logkit pairs a human-readable console stream with a rotating JSON log
file: daily and size-triggered rotation, gzip compression, and bounded
retention.

The bundled commands manage the log directory the library writes to:
emit demo records, inspect the current file, or force a rotation.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalConfigFile, "config", "", "config file (YAML, optional)")
	rootCmd.PersistentFlags().String("log-dir", "", "log directory (default ./logs)")
	rootCmd.PersistentFlags().String("level", "", "minimum severity (fatal, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().String("file-name", "", "base name for log files (default app)")

	// Bind flags to viper
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("level", rootCmd.PersistentFlags().Lookup("level"))
	viper.BindPFlag("file_name", rootCmd.PersistentFlags().Lookup("file-name"))
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("LOGKIT") // LOGKIT_LEVEL, LOGKIT_LOG_DIR, etc.
}

// loadLoggerConfig resolves the effective logger configuration: the YAML
// file when one is given, environment variables otherwise, with flags
// overriding either.
func loadLoggerConfig() (logger.Config, error) {
	var cfg logger.Config
	var err error
	if globalConfigFile != "" {
		cfg, err = logger.LoadConfig(globalConfigFile)
	} else {
		cfg, err = logger.FromEnv()
	}
	if err != nil {
		return logger.Config{}, fmt.Errorf("failed to load logger config: %w", err)
	}

	if v := viper.GetString("log_dir"); v != "" {
		cfg.LogDir = v
	}
	if v := viper.GetString("level"); v != "" {
		cfg.Level = v
	}
	if v := viper.GetString("file_name"); v != "" {
		cfg.FileName = v
	}
	if cfg.Environment == "" {
		cfg.Environment = logger.DetectEnvironment()
	}
	return cfg, nil
}
