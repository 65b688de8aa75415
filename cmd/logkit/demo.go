package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/arawlin/logkit/pkg/logger"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Emit sample records across severities",
	Long:  "Build a logger from the effective configuration and emit sample records, including bound context and a structured error",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadLoggerConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Close()

	log.Trace("tracing enabled")
	log.Debug("debugging details")
	log.WithField("pid", os.Getpid()).Info("service started")
	log.WithField("disk_used_pct", 83).Warn("disk usage above threshold")

	cause := errors.New("token expired")
	log.WithError(fmt.Errorf("refresh credentials: %w", cause)).Error("upstream call failed")

	worker := log.WithFields(logger.Fields{"component": "worker", "worker_id": 3})
	worker.Info("picked up job")
	worker.WithField("duration_ms", 42).Info("job finished")

	stats, err := log.Stats()
	if err != nil {
		return fmt.Errorf("failed to get log stats: %w", err)
	}
	fmt.Printf("\n📝 Wrote demo records to %s (%s)\n",
		stats.CurrentFile, units.BytesSize(float64(stats.CurrentSize)))
	return nil
}
