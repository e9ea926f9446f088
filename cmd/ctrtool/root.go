package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ctrkit/internal/config"
	"github.com/joshuapare/ctrkit/internal/logger"
	"github.com/joshuapare/ctrkit/pkg/event"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string
	logLevel   string

	// cfg holds the loaded settings. Tests run commands without the
	// root pre-run, so it starts at the defaults.
	cfg = config.Default()

	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "ctrtool",
	Short: "Pack, unpack and inspect DARC archives and BLZ streams",
	Long: `ctrtool works with the container formats found in 3DS game data.
It builds and extracts DARC archives and compresses or decompresses
BLZ (bottom-up LZ) streams, one file or many at a time.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default $"+config.EnvPath+")")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// setup loads the config file and starts logging before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if logLevel != "" {
		cfg.Log.Level = logLevel
	} else if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCloser, err = logger.Init(cfg.LoggerOptions(quiet))
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "path", configPath, "workers", cfg.Workers)
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// sink forwards library events to the global logger at debug level.
func sink() event.Sink {
	return event.Log(logger.L, slog.LevelDebug)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
