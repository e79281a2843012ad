// Package cmd provides the command-line interface of hddsim.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/hddsim/config"
	"github.com/sarchlab/hddsim/disk/hdd"
)

const deviceName = "Disk"

// NewRootCommand creates the hddsim command and all its subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hddsim",
		Short: "hddsim estimates the I/O latency of a hard disk with a cache.",
		Long: `hddsim replays timestamped block I/O traces against a model ` +
			`of a rotating hard disk with zoned bit recording and an LRU ` +
			`block cache, and reports the latency of every request.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "",
		"Disk configuration file (legacy format, or .yaml/.yml). "+
			"The built-in disk is used if empty.")
	rootCmd.PersistentFlags().String("env-file", ".env",
		"File with HDDSIM_* variables that override the configuration.")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newInfoCommand())
	rootCmd.AddCommand(newCacheTestCommand())
	rootCmd.AddCommand(newInspectCommand())

	return rootCmd
}

// Execute runs the command line and exits. Registered exit handlers, such as
// the ones flushing recorded data, run before the process ends.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadConfig reads the configuration selected by the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Device, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return config.Device{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	d := config.Default()

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		var err error

		d, err = config.Load(path)
		if err != nil {
			return config.Device{}, err
		}
	}

	if err := d.Override(nil); err != nil {
		return config.Device{}, err
	}

	return d, nil
}

func buildDisk(cmd *cobra.Command) (*hdd.Comp, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	b, err := cfg.Builder()
	if err != nil {
		return nil, err
	}

	return b.Build(deviceName)
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
