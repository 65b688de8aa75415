package main

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/arawlin/logkit/pkg/logger"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log management commands",
	Long:  "Commands for managing logkit log files including rotation and statistics",
}

var logStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show log statistics",
	Long:  "Display current log file statistics including size and rotation state",
	RunE:  runLogStats,
}

var logRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Manually rotate log file",
	Long:  "Manually trigger log rotation",
	RunE:  runLogRotate,
}

func init() {
	logCmd.AddCommand(logStatsCmd)
	logCmd.AddCommand(logRotateCmd)

	rootCmd.AddCommand(logCmd)
}

func runLogStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadLoggerConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Close()

	stats, err := log.Stats()
	if err != nil {
		return fmt.Errorf("failed to get log stats: %w", err)
	}

	fmt.Println("=== 📊 logkit Log Statistics ===")
	fmt.Printf("📁 Current File: %s\n", stats.CurrentFile)
	fmt.Printf("📦 Current Size: %s\n", units.BytesSize(float64(stats.CurrentSize)))
	if !stats.LastModified.IsZero() {
		fmt.Printf("🕐 Last Modified: %s\n", stats.LastModified.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("⚙️  Max Size: %s\n", units.BytesSize(float64(stats.MaxSize)))
	fmt.Printf("📚 Max Files: %d\n", stats.MaxFiles)
	fmt.Printf("🗜️  Compression: %t\n", stats.Compress)
	fmt.Printf("🔁 Rotated Files: %d\n", stats.RotatedFiles)

	if stats.MaxSize > 0 && float64(stats.CurrentSize) > 0.8*float64(stats.MaxSize) {
		fmt.Printf("⚠️  Warning: current file is %.1f%% of max size\n",
			100*float64(stats.CurrentSize)/float64(stats.MaxSize))
	}

	return nil
}

func runLogRotate(cmd *cobra.Command, args []string) error {
	cfg, err := loadLoggerConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Close()

	fmt.Println("🔄 Rotating log file...")
	if err := log.Rotate(); err != nil {
		return fmt.Errorf("failed to rotate log: %w", err)
	}

	fmt.Println("✅ Log rotation completed successfully")
	return nil
}
