package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/logger"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/service/packager"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/version"
)

var (
	// configPath to the optional configuration YAML file.
	configPath string
	// logLevel is the minimum level of emitted log entries.
	logLevel string
	// metricsFile receives run metrics in the Prometheus text format.
	metricsFile string

	// rootCmd bundles the firmware images of the current directory.
	rootCmd = &cobra.Command{
		Use:   "firmware-maker",
		Short: "Bundle firmware images into an Odin flashable AP package",
		Long: "Compress every .img and .bin file found below the current directory with lz4, " +
			"bundle the artifacts into CUSTOM-AP-FIRMWARE.tar and append its md5sum line, " +
			"producing CUSTOM-AP-FIRMWARE.tar.md5.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)
			defer logger.Sync()

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &packager.Options{
				ConfigPath:  configPath,
				MetricsFile: metricsFile,
			}

			_, err := packager.Run(ctx, options)

			return err
		},
	}
)

// Execute runs the firmware-maker CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (optional)")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn or error")
	rootCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write run metrics to this Prometheus textfile")
}
